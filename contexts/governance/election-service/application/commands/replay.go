package commands

import (
	"context"
	"log/slog"

	application "ballotbox/contexts/governance/election-service/application"
	"ballotbox/contexts/governance/election-service/domain/entities"
	"ballotbox/contexts/governance/election-service/domain/services"
	"ballotbox/contexts/governance/election-service/ports"
)

// ReplayUseCase rebuilds the in-memory election from the event journal. It
// runs once during setup, before the election accepts commands.
type ReplayUseCase struct {
	Journal ports.EventJournal
	State   ports.StateStore
	Tokens  ports.TokenLedger
	Logger  *slog.Logger
}

// Run replays every journaled event after the current log tail and returns how
// many events were applied. Replayed votes are charged to Tokens, when set,
// without going through the gate.
func (uc ReplayUseCase) Run(ctx context.Context) (int, error) {
	logger := application.ResolveLogger(uc.Logger)
	if uc.Journal == nil {
		return 0, nil
	}

	var after uint64
	if err := uc.State.View(ctx, func(election *services.Election) error {
		after = election.LastSequence()
		return nil
	}); err != nil {
		return 0, err
	}

	envelopes, err := uc.Journal.LoadEvents(ctx, after)
	if err != nil {
		logger.Error("election journal load failed",
			"event", "election_replay_load_failed",
			"module", "governance/election-service",
			"layer", "application",
			"after_sequence", after,
			"error", err.Error(),
		)
		return 0, err
	}
	if len(envelopes) == 0 {
		return 0, nil
	}

	items := make([]entities.Event, 0, len(envelopes))
	for _, envelope := range envelopes {
		event, err := application.DecodeEvent(envelope)
		if err != nil {
			return 0, err
		}
		items = append(items, event)
	}

	err = uc.State.Update(ctx, func(election *services.Election) error {
		if err := election.Replay(items); err != nil {
			return err
		}
		return election.Verify()
	})
	if err != nil {
		logger.Error("election replay failed",
			"event", "election_replay_failed",
			"module", "governance/election-service",
			"layer", "application",
			"after_sequence", after,
			"error", err.Error(),
		)
		return 0, err
	}

	debited := 0
	if uc.Tokens != nil {
		for _, event := range items {
			if event.VoteCast == nil {
				continue
			}
			uc.Tokens.Debit(event.VoteCast.Voter, entities.VoteCost)
			debited++
		}
	}

	logger.Info("election replayed from journal",
		"event", "election_replay_completed",
		"module", "governance/election-service",
		"layer", "application",
		"after_sequence", after,
		"replayed_count", len(items),
		"debited_votes", debited,
	)
	return len(items), nil
}
