package queries

import (
	"context"
	"strings"

	"ballotbox/contexts/governance/election-service/domain/entities"
	domainerrors "ballotbox/contexts/governance/election-service/domain/errors"
	"ballotbox/contexts/governance/election-service/domain/services"
	"ballotbox/contexts/governance/election-service/ports"
)

const defaultEventPageSize = 100

// ElectionQueries is the read-only query surface. Every method runs inside a
// shared State.View and has no side effects.
type ElectionQueries struct {
	State  ports.StateStore
	Tokens ports.TokenLedger
}

func (q ElectionQueries) GetCandidate(ctx context.Context, candidateID uint64) (entities.Standing, error) {
	var standing entities.Standing
	err := q.State.View(ctx, func(election *services.Election) error {
		candidate, err := election.Candidate(candidateID)
		if err != nil {
			return err
		}
		rank, _ := election.Rank(candidateID)
		standing = entities.Standing{Rank: rank, Candidate: candidate}
		return nil
	})
	return standing, err
}

func (q ElectionQueries) SortedCandidates(ctx context.Context) ([]entities.Standing, error) {
	var items []entities.Standing
	err := q.State.View(ctx, func(election *services.Election) error {
		view := election.SortedCandidates()
		items = make([]entities.Standing, 0, len(view))
		for rank, candidate := range view {
			items = append(items, entities.Standing{Rank: rank, Candidate: candidate})
		}
		return nil
	})
	return items, err
}

func (q ElectionQueries) HasVoted(ctx context.Context, voterID string, candidateID uint64) (bool, error) {
	var voted bool
	err := q.State.View(ctx, func(election *services.Election) error {
		voted = election.HasVoted(strings.TrimSpace(voterID), candidateID)
		return nil
	})
	return voted, err
}

func (q ElectionQueries) VotersOfCandidate(ctx context.Context, candidateID uint64) ([]string, error) {
	var voters []string
	err := q.State.View(ctx, func(election *services.Election) error {
		items, err := election.VotersOf(candidateID)
		voters = items
		return err
	})
	return voters, err
}

func (q ElectionQueries) CandidatesOfVoter(ctx context.Context, voterID string) ([]uint64, error) {
	voterID = strings.TrimSpace(voterID)
	if voterID == "" {
		return nil, domainerrors.ErrInvalidInput
	}
	var ids []uint64
	err := q.State.View(ctx, func(election *services.Election) error {
		ids = election.CandidatesOf(voterID)
		return nil
	})
	return ids, err
}

func (q ElectionQueries) Owner(ctx context.Context) (string, error) {
	var owner string
	err := q.State.View(ctx, func(election *services.Election) error {
		owner = election.Owner()
		return nil
	})
	return owner, err
}

// Events pages through the event log by sequence cursor. Consumers can rebuild
// history from it without reading full state.
func (q ElectionQueries) Events(ctx context.Context, afterSequence uint64, limit int) ([]entities.Event, error) {
	if limit <= 0 {
		limit = defaultEventPageSize
	}
	var items []entities.Event
	err := q.State.View(ctx, func(election *services.Election) error {
		items = election.Events(afterSequence, limit)
		return nil
	})
	return items, err
}

// TokenAccount reads an account's balance and the allowance it granted the
// election. Unknown accounts read as zero.
func (q ElectionQueries) TokenAccount(ctx context.Context, account string) (entities.TokenAccount, error) {
	if err := ctx.Err(); err != nil {
		return entities.TokenAccount{}, err
	}
	account = strings.TrimSpace(account)
	if account == "" {
		return entities.TokenAccount{}, domainerrors.ErrInvalidInput
	}
	if q.Tokens == nil {
		return entities.TokenAccount{}, domainerrors.ErrTokenLedgerUnavailable
	}
	return entities.TokenAccount{
		Account:   account,
		Balance:   q.Tokens.BalanceOf(account),
		Allowance: q.Tokens.Allowance(account),
		Treasury:  q.Tokens.Treasury(),
	}, nil
}
