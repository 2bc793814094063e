package tokengate

import (
	"context"
	"testing"

	domainerrors "ballotbox/contexts/governance/election-service/domain/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLedgerSpendMovesApprovedUnitsToTreasury(t *testing.T) {
	ledger := NewLedger("election", nil)
	ledger.Grant("voter1", 3)
	ledger.Approve("voter1", 2)

	require.NoError(t, ledger.Spend(context.Background(), "voter1", 1))

	assert.Equal(t, uint64(2), ledger.BalanceOf("voter1"))
	assert.Equal(t, uint64(1), ledger.Allowance("voter1"))
	assert.Equal(t, uint64(1), ledger.BalanceOf("election"))
}

func TestLedgerSpendWithoutApprovalIsRejected(t *testing.T) {
	ledger := NewLedger("election", nil)
	ledger.Grant("voter1", 3)

	err := ledger.Spend(context.Background(), "voter1", 1)
	assert.ErrorIs(t, err, domainerrors.ErrTokenGateRejected)
	assert.Equal(t, uint64(3), ledger.BalanceOf("voter1"))
	assert.Zero(t, ledger.BalanceOf("election"))
}

func TestLedgerSpendWithoutBalanceIsInsufficient(t *testing.T) {
	ledger := NewLedger("election", nil)
	ledger.Approve("voter1", 5)

	err := ledger.Spend(context.Background(), "voter1", 1)
	assert.ErrorIs(t, err, domainerrors.ErrInsufficientFunds)
	assert.Equal(t, uint64(5), ledger.Allowance("voter1"))
}

func TestLedgerSpendExhaustsAllowance(t *testing.T) {
	ledger := NewLedger("election", nil)
	ledger.Grant("voter1", 10)
	ledger.Approve("voter1", 1)

	require.NoError(t, ledger.Spend(context.Background(), "voter1", 1))
	err := ledger.Spend(context.Background(), "voter1", 1)
	assert.ErrorIs(t, err, domainerrors.ErrTokenGateRejected)
	assert.Equal(t, uint64(9), ledger.BalanceOf("voter1"))
}

func TestLedgerSpendHonorsContext(t *testing.T) {
	ledger := NewLedger("election", nil)
	ledger.Grant("voter1", 1)
	ledger.Approve("voter1", 1)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, ledger.Spend(ctx, "voter1", 1), context.Canceled)
	assert.Equal(t, uint64(1), ledger.BalanceOf("voter1"))
}

func TestLedgerDebitChargesWithoutRespending(t *testing.T) {
	ledger := NewLedger("election", nil)
	ledger.Grant("voter1", 2)
	ledger.Approve("voter1", 2)

	ledger.Debit("voter1", 1)
	assert.Equal(t, uint64(1), ledger.BalanceOf("voter1"))
	assert.Equal(t, uint64(1), ledger.Allowance("voter1"))
	assert.Equal(t, uint64(1), ledger.BalanceOf("election"))

	ledger.Debit("voter1", 1)
	err := ledger.Spend(context.Background(), "voter1", 1)
	assert.ErrorIs(t, err, domainerrors.ErrTokenGateRejected)
}

func TestLedgerDebitShortfallEmptiesAccount(t *testing.T) {
	ledger := NewLedger("election", nil)
	ledger.Grant("voter1", 1)
	ledger.Approve("voter1", 1)

	ledger.Debit("voter1", 1)
	ledger.Debit("voter1", 1)

	assert.Zero(t, ledger.BalanceOf("voter1"))
	assert.Zero(t, ledger.Allowance("voter1"))
	assert.Equal(t, uint64(1), ledger.BalanceOf("election"))
	assert.Equal(t, "election", ledger.Treasury())
}
