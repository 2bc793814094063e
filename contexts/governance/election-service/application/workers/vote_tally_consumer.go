package workers

import (
	"context"
	"encoding/json"
	"log/slog"
	"strings"
	"sync"

	application "ballotbox/contexts/governance/election-service/application"
	"ballotbox/contexts/governance/election-service/domain/entities"
	"ballotbox/contexts/governance/election-service/ports"
)

const defaultVoteTallyCG = "election-vote-tally-cg"

// VoteTallyConsumer follows vote.cast on the event bus and records each
// delivered vote per candidate in Metrics. Deliveries at or below the highest
// sequence already recorded are skipped.
type VoteTallyConsumer struct {
	Subscriber    ports.EventSubscriber
	Metrics       ports.Metrics
	ConsumerGroup string
	Logger        *slog.Logger

	mu           sync.Mutex
	lastSequence uint64
}

func (c *VoteTallyConsumer) Start(ctx context.Context) error {
	logger := application.ResolveLogger(c.Logger)
	group := strings.TrimSpace(c.ConsumerGroup)
	if group == "" {
		group = defaultVoteTallyCG
	}
	topic := string(entities.EventTypeVoteCast)
	if err := c.Subscriber.Subscribe(ctx, topic, group, c.handleVoteCast); err != nil {
		logger.Error("vote tally consumer subscribe failed",
			"event", "election_vote_tally_subscribe_failed",
			"module", "governance/election-service",
			"layer", "worker",
			"topic", topic,
			"consumer_group", group,
			"error", err.Error(),
		)
		return err
	}
	logger.Info("vote tally consumer subscribed",
		"event", "election_vote_tally_started",
		"module", "governance/election-service",
		"layer", "worker",
		"topic", topic,
		"consumer_group", group,
	)
	return nil
}

func (c *VoteTallyConsumer) handleVoteCast(_ context.Context, event ports.EventEnvelope) error {
	logger := application.ResolveLogger(c.Logger)
	var payload entities.VoteCast
	if err := json.Unmarshal(event.Data, &payload); err != nil {
		logger.Error("vote.cast payload decode failed",
			"event", "election_vote_tally_decode_failed",
			"module", "governance/election-service",
			"layer", "worker",
			"event_id", event.EventID,
			"error", err.Error(),
		)
		return err
	}

	c.mu.Lock()
	if event.Sequence <= c.lastSequence {
		c.mu.Unlock()
		logger.Debug("vote.cast redelivery skipped",
			"event", "election_vote_tally_duplicate",
			"module", "governance/election-service",
			"layer", "worker",
			"event_id", event.EventID,
			"sequence", event.Sequence,
		)
		return nil
	}
	c.lastSequence = event.Sequence
	c.mu.Unlock()

	if c.Metrics != nil {
		c.Metrics.VoteObserved(payload.CandidateID)
	}
	return nil
}
