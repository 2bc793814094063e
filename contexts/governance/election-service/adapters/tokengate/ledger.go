package tokengate

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	domainerrors "ballotbox/contexts/governance/election-service/domain/errors"
	"ballotbox/contexts/governance/election-service/ports"
)

// Ledger is an in-process fungible token used as the election's TokenGate.
// A voter must hold a balance and have approved the election to spend it;
// Spend moves the approved units to the treasury account.
type Ledger struct {
	mu sync.Mutex

	treasury   string
	balances   map[string]uint64
	allowances map[string]uint64
	logger     *slog.Logger
}

func NewLedger(treasury string, logger *slog.Logger) *Ledger {
	if logger == nil {
		logger = slog.Default()
	}
	return &Ledger{
		treasury:   strings.TrimSpace(treasury),
		balances:   make(map[string]uint64),
		allowances: make(map[string]uint64),
		logger:     logger,
	}
}

// Grant mints amount units to account.
func (l *Ledger) Grant(account string, amount uint64) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.balances[strings.TrimSpace(account)] += amount
}

// Approve sets how many units the election may spend on behalf of account.
func (l *Ledger) Approve(account string, amount uint64) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.allowances[strings.TrimSpace(account)] = amount
}

func (l *Ledger) BalanceOf(account string) uint64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.balances[strings.TrimSpace(account)]
}

func (l *Ledger) Allowance(account string) uint64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.allowances[strings.TrimSpace(account)]
}

func (l *Ledger) Treasury() string {
	return l.treasury
}

func (l *Ledger) Spend(ctx context.Context, account string, amount uint64) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	account = strings.TrimSpace(account)

	l.mu.Lock()
	defer l.mu.Unlock()

	if account == "" {
		return fmt.Errorf("spend from empty account: %w", domainerrors.ErrTokenGateRejected)
	}
	if l.allowances[account] < amount {
		l.logger.Warn("token spend exceeds allowance",
			"event", "election_token_spend_allowance_exceeded",
			"module", "governance/election-service",
			"layer", "adapter",
			"account", account,
			"amount", amount,
			"allowance", l.allowances[account],
		)
		return fmt.Errorf("spend %d from %s with allowance %d: %w", amount, account, l.allowances[account], domainerrors.ErrTokenGateRejected)
	}
	if l.balances[account] < amount {
		l.logger.Warn("token spend exceeds balance",
			"event", "election_token_spend_balance_exceeded",
			"module", "governance/election-service",
			"layer", "adapter",
			"account", account,
			"amount", amount,
			"balance", l.balances[account],
		)
		return fmt.Errorf("spend %d from %s with balance %d: %w", amount, account, l.balances[account], domainerrors.ErrInsufficientFunds)
	}
	l.allowances[account] -= amount
	l.balances[account] -= amount
	l.balances[l.treasury] += amount
	return nil
}

// Debit charges a vote that was paid for in an earlier run. It moves up to
// amount units to the treasury and lowers the allowance by the same bound; a
// shortfall, when grants were lowered between runs, leaves the account at zero.
func (l *Ledger) Debit(account string, amount uint64) {
	account = strings.TrimSpace(account)

	l.mu.Lock()
	defer l.mu.Unlock()

	charged := min(amount, l.balances[account])
	if charged < amount || l.allowances[account] < amount {
		l.logger.Warn("token debit exceeds remaining grant",
			"event", "election_token_debit_shortfall",
			"module", "governance/election-service",
			"layer", "adapter",
			"account", account,
			"amount", amount,
			"balance", l.balances[account],
			"allowance", l.allowances[account],
		)
	}
	l.balances[account] -= charged
	l.balances[l.treasury] += charged
	l.allowances[account] -= min(amount, l.allowances[account])
}

var (
	_ ports.TokenGate   = (*Ledger)(nil)
	_ ports.TokenLedger = (*Ledger)(nil)
)
