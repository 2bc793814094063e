package workers

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	application "ballotbox/contexts/governance/election-service/application"
	"ballotbox/contexts/governance/election-service/ports"
)

// OutboxRelay moves election events from the outbox to the journal and the
// event bus.
type OutboxRelay struct {
	Outbox    ports.OutboxRepository
	Journal   ports.EventJournal
	Publisher ports.EventPublisher
	Clock     ports.Clock
	Metrics   ports.Metrics
	BatchSize int
	Logger    *slog.Logger
}

// RunOnce relays a bounded batch of pending events in sequence order. A row
// is marked published only after it is journaled and published; the first
// failure stops the cycle so the next one resumes from that row.
func (r OutboxRelay) RunOnce(ctx context.Context) error {
	logger := application.ResolveLogger(r.Logger)
	limit := r.BatchSize
	if limit <= 0 {
		limit = 100
	}

	pending, err := r.Outbox.ListPendingOutbox(ctx, limit)
	if err != nil {
		logger.Error("election outbox list failed",
			"event", "election_outbox_list_failed",
			"module", "governance/election-service",
			"layer", "worker",
			"error", err.Error(),
		)
		return err
	}
	if len(pending) == 0 {
		logger.Debug("election outbox relay found no pending rows",
			"event", "election_outbox_relay_noop",
			"module", "governance/election-service",
			"layer", "worker",
			"batch_size", limit,
		)
		return nil
	}

	now := time.Now().UTC()
	if r.Clock != nil {
		now = r.Clock.Now().UTC()
	}

	relayed := 0
	defer func() {
		if r.Metrics != nil && relayed > 0 {
			r.Metrics.EventsRelayed(relayed)
		}
	}()

	for _, row := range pending {
		var event ports.EventEnvelope
		if err := json.Unmarshal(row.Payload, &event); err != nil {
			logger.Error("election outbox decode failed",
				"event", "election_outbox_decode_failed",
				"module", "governance/election-service",
				"layer", "worker",
				"outbox_id", row.OutboxID,
				"error", err.Error(),
			)
			return err
		}
		if r.Journal != nil {
			if err := r.Journal.AppendEvents(ctx, []ports.EventEnvelope{event}); err != nil {
				logger.Error("election journal append failed",
					"event", "election_outbox_journal_failed",
					"module", "governance/election-service",
					"layer", "worker",
					"outbox_id", row.OutboxID,
					"sequence", event.Sequence,
					"error", err.Error(),
				)
				return err
			}
		}
		topic := event.EventType
		if topic == "" {
			topic = row.EventType
		}
		if r.Publisher != nil {
			if err := r.Publisher.Publish(ctx, topic, event); err != nil {
				logger.Error("election outbox publish failed",
					"event", "election_outbox_publish_failed",
					"module", "governance/election-service",
					"layer", "worker",
					"outbox_id", row.OutboxID,
					"event_id", event.EventID,
					"event_type", event.EventType,
					"error", err.Error(),
				)
				return err
			}
		}
		if err := r.Outbox.MarkOutboxPublished(ctx, row.OutboxID, now); err != nil {
			logger.Error("election outbox mark published failed",
				"event", "election_outbox_mark_published_failed",
				"module", "governance/election-service",
				"layer", "worker",
				"outbox_id", row.OutboxID,
				"error", err.Error(),
			)
			return err
		}
		relayed++
	}

	logger.Info("election outbox relay cycle completed",
		"event", "election_outbox_relay_completed",
		"module", "governance/election-service",
		"layer", "worker",
		"published_count", relayed,
	)
	return nil
}

// Drain runs relay cycles until the outbox is empty or a cycle fails.
func (r OutboxRelay) Drain(ctx context.Context) error {
	for {
		pending, err := r.Outbox.ListPendingOutbox(ctx, 1)
		if err != nil {
			return err
		}
		if len(pending) == 0 {
			return nil
		}
		if err := r.RunOnce(ctx); err != nil {
			return err
		}
	}
}
