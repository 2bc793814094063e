package boltadapter

import (
	"context"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"log/slog"

	domainerrors "ballotbox/contexts/governance/election-service/domain/errors"
	"ballotbox/contexts/governance/election-service/ports"

	"go.etcd.io/bbolt"
)

const eventsBucket = "election_events"

// Journal is an EventJournal stored in a bbolt bucket. Keys are big-endian
// sequences so cursor order is event order. The caller owns the database
// handle.
type Journal struct {
	db     *bbolt.DB
	logger *slog.Logger
}

// NewJournal prepares the events bucket on db.
func NewJournal(db *bbolt.DB, logger *slog.Logger) (*Journal, error) {
	if db == nil {
		return nil, domainerrors.ErrJournalUnavailable
	}
	if logger == nil {
		logger = slog.Default()
	}
	err := db.Update(func(tx *bbolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists([]byte(eventsBucket))
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("create events bucket: %w", err)
	}
	return &Journal{db: db, logger: logger}, nil
}

func (j *Journal) AppendEvents(ctx context.Context, items []ports.EventEnvelope) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if j == nil || j.db == nil {
		return domainerrors.ErrJournalUnavailable
	}
	if len(items) == 0 {
		return nil
	}

	err := j.db.Update(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket([]byte(eventsBucket))
		if bucket == nil {
			return domainerrors.ErrJournalUnavailable
		}
		for _, item := range items {
			if item.Sequence == 0 {
				return domainerrors.ErrConflict
			}
			key := sequenceKey(item.Sequence)
			if existing := bucket.Get(key); existing != nil {
				var stored ports.EventEnvelope
				if err := json.Unmarshal(existing, &stored); err != nil {
					return fmt.Errorf("unmarshal event %d: %w", item.Sequence, err)
				}
				if stored.EventID != item.EventID {
					return domainerrors.ErrConflict
				}
				continue
			}
			if item.Sequence != lastSequence(bucket)+1 {
				return domainerrors.ErrConflict
			}
			payload, err := json.Marshal(item)
			if err != nil {
				return fmt.Errorf("marshal event %d: %w", item.Sequence, err)
			}
			if err := bucket.Put(key, payload); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		j.logger.Error("election journal append failed",
			"event", "election_bolt_journal_append_failed",
			"module", "governance/election-service",
			"layer", "adapter",
			"items", len(items),
			"error", err.Error(),
		)
	}
	return err
}

func (j *Journal) LoadEvents(ctx context.Context, afterSequence uint64) ([]ports.EventEnvelope, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if j == nil || j.db == nil {
		return nil, domainerrors.ErrJournalUnavailable
	}

	items := []ports.EventEnvelope{}
	err := j.db.View(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket([]byte(eventsBucket))
		if bucket == nil {
			return domainerrors.ErrJournalUnavailable
		}
		cursor := bucket.Cursor()
		for key, value := cursor.Seek(sequenceKey(afterSequence + 1)); key != nil; key, value = cursor.Next() {
			var item ports.EventEnvelope
			if err := json.Unmarshal(value, &item); err != nil {
				return fmt.Errorf("unmarshal event %d: %w", binary.BigEndian.Uint64(key), err)
			}
			items = append(items, item)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return items, nil
}

func lastSequence(bucket *bbolt.Bucket) uint64 {
	key, _ := bucket.Cursor().Last()
	if key == nil {
		return 0
	}
	return binary.BigEndian.Uint64(key)
}

func sequenceKey(sequence uint64) []byte {
	key := make([]byte, 8)
	binary.BigEndian.PutUint64(key, sequence)
	return key
}

var _ ports.EventJournal = (*Journal)(nil)
