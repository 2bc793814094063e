package ports

import (
	"context"
	"time"

	"ballotbox/contexts/governance/election-service/domain/services"
	"ballotbox/internal/shared/events"
	"ballotbox/internal/shared/outbox"
)

// TokenGate is the external token capability consulted once per vote.
// Implementations return domain ErrInsufficientFunds or ErrTokenGateRejected
// (or any other error) when the spend is refused; the error reaches the
// caller unchanged.
type TokenGate interface {
	Spend(ctx context.Context, account string, amount uint64) error
}

// TokenLedger is the bookkeeping side of a TokenGate. Debit charges a vote
// that was already paid for before a restart; Replay calls it once per
// replayed vote so balances match the journal.
type TokenLedger interface {
	Debit(account string, amount uint64)
	BalanceOf(account string) uint64
	Allowance(account string) uint64
	Treasury() string
}

// StateStore serializes access to the single Election. Update runs fn with
// exclusive access; View runs fn with shared, read-only access.
type StateStore interface {
	Update(ctx context.Context, fn func(*services.Election) error) error
	View(ctx context.Context, fn func(*services.Election) error) error
}

type EventEnvelope = events.Envelope

type OutboxMessage = outbox.Message

type OutboxRepository interface {
	ListPendingOutbox(ctx context.Context, limit int) ([]OutboxMessage, error)
	MarkOutboxPublished(ctx context.Context, outboxID string, publishedAt time.Time) error
}

type EventPublisher interface {
	Publish(ctx context.Context, topic string, event EventEnvelope) error
}

type EventSubscriber interface {
	Subscribe(
		ctx context.Context,
		topic string,
		consumerGroup string,
		handler func(context.Context, EventEnvelope) error,
	) error
}

// EventJournal durably stores the election's event envelopes so that state can
// be rebuilt by replay. Appends are idempotent on sequence; re-appending a
// sequence with a different event id is ErrConflict.
type EventJournal interface {
	AppendEvents(ctx context.Context, items []EventEnvelope) error
	LoadEvents(ctx context.Context, afterSequence uint64) ([]EventEnvelope, error)
}

// Metrics receives election counters. A nil Metrics disables recording.
type Metrics interface {
	CandidateRegistered()
	VoteCast(moved int)
	VoteRejected(reason string)
	EventsRelayed(count int)
	VoteObserved(candidateID uint64)
}

type Clock interface {
	Now() time.Time
}

type IDGenerator interface {
	NewID(ctx context.Context) (string, error)
}
