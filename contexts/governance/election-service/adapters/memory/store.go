package memory

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"time"

	application "ballotbox/contexts/governance/election-service/application"
	domainerrors "ballotbox/contexts/governance/election-service/domain/errors"
	"ballotbox/contexts/governance/election-service/domain/services"
	"ballotbox/contexts/governance/election-service/ports"

	"github.com/google/uuid"
)

// Store owns the process-wide Election and is the execution environment that
// serializes access to it. It also exposes the election's event log as an
// outbox.
type Store struct {
	mu sync.RWMutex

	election *services.Election

	publishedThrough uint64
	published        map[uint64]bool
	outboxSequence   map[string]uint64
}

func NewStore(owner string) *Store {
	return &Store{
		election:       services.NewElection(owner),
		published:      make(map[uint64]bool),
		outboxSequence: make(map[string]uint64),
	}
}

func (s *Store) Update(ctx context.Context, fn func(*services.Election) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return fn(s.election)
}

func (s *Store) View(ctx context.Context, fn func(*services.Election) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return fn(s.election)
}

// MarkReplayed treats every event currently in the log as already relayed.
// Bootstrap calls it after rebuilding state from the journal.
func (s *Store) MarkReplayed() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.publishedThrough = s.election.LastSequence()
	s.published = make(map[uint64]bool)
	s.outboxSequence = make(map[string]uint64)
}

func (s *Store) ListPendingOutbox(_ context.Context, limit int) ([]ports.OutboxMessage, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if limit <= 0 {
		limit = 100
	}
	items := make([]ports.OutboxMessage, 0, limit)
	cursor := s.publishedThrough
	for len(items) < limit {
		batch := s.election.Events(cursor, limit)
		if len(batch) == 0 {
			break
		}
		for _, event := range batch {
			cursor = event.Sequence
			if s.published[event.Sequence] {
				continue
			}
			envelope, err := application.EncodeEvent(event)
			if err != nil {
				return nil, err
			}
			payload, err := json.Marshal(envelope)
			if err != nil {
				return nil, err
			}
			outboxID := outboxIDFor(event.EventID, event.Sequence)
			s.outboxSequence[outboxID] = event.Sequence
			items = append(items, ports.OutboxMessage{
				OutboxID:     outboxID,
				EventType:    envelope.EventType,
				Sequence:     event.Sequence,
				PartitionKey: envelope.PartitionKey,
				Payload:      payload,
				CreatedAt:    event.OccurredAt,
			})
			if len(items) == limit {
				break
			}
		}
	}
	return items, nil
}

func (s *Store) MarkOutboxPublished(_ context.Context, outboxID string, _ time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	sequence, ok := s.outboxSequence[strings.TrimSpace(outboxID)]
	if !ok {
		return domainerrors.ErrConflict
	}
	delete(s.outboxSequence, strings.TrimSpace(outboxID))
	if sequence <= s.publishedThrough {
		return nil
	}
	s.published[sequence] = true
	for s.published[s.publishedThrough+1] {
		delete(s.published, s.publishedThrough+1)
		s.publishedThrough++
	}
	return nil
}

func (s *Store) Now() time.Time {
	return time.Now().UTC()
}

func (s *Store) NewID(_ context.Context) (string, error) {
	return uuid.NewString(), nil
}

func outboxIDFor(eventID string, sequence uint64) string {
	if strings.TrimSpace(eventID) != "" {
		return strings.TrimSpace(eventID)
	}
	return fmt.Sprintf("election-event-%d", sequence)
}

var _ ports.StateStore = (*Store)(nil)
var _ ports.OutboxRepository = (*Store)(nil)
var _ ports.Clock = (*Store)(nil)
var _ ports.IDGenerator = (*Store)(nil)
