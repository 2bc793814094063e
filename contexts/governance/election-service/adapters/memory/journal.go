package memory

import (
	"context"
	"sync"

	domainerrors "ballotbox/contexts/governance/election-service/domain/errors"
	"ballotbox/contexts/governance/election-service/ports"
)

// Journal is a process-local EventJournal for development and tests.
type Journal struct {
	mu    sync.RWMutex
	items []ports.EventEnvelope
}

func NewJournal() *Journal {
	return &Journal{}
}

func (j *Journal) AppendEvents(_ context.Context, items []ports.EventEnvelope) error {
	j.mu.Lock()
	defer j.mu.Unlock()

	for _, item := range items {
		next := uint64(len(j.items)) + 1
		switch {
		case item.Sequence == 0:
			return domainerrors.ErrConflict
		case item.Sequence < next:
			if j.items[item.Sequence-1].EventID != item.EventID {
				return domainerrors.ErrConflict
			}
		case item.Sequence == next:
			j.items = append(j.items, item)
		default:
			return domainerrors.ErrConflict
		}
	}
	return nil
}

func (j *Journal) LoadEvents(_ context.Context, afterSequence uint64) ([]ports.EventEnvelope, error) {
	j.mu.RLock()
	defer j.mu.RUnlock()

	if afterSequence >= uint64(len(j.items)) {
		return []ports.EventEnvelope{}, nil
	}
	return append([]ports.EventEnvelope{}, j.items[afterSequence:]...), nil
}

var _ ports.EventJournal = (*Journal)(nil)
