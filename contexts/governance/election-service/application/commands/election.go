package commands

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	application "ballotbox/contexts/governance/election-service/application"
	"ballotbox/contexts/governance/election-service/domain/entities"
	domainerrors "ballotbox/contexts/governance/election-service/domain/errors"
	"ballotbox/contexts/governance/election-service/domain/services"
	"ballotbox/contexts/governance/election-service/ports"
)

// RegisterCandidateCommand is the owner-only write-model input for adding a
// candidate.
type RegisterCandidateCommand struct {
	CallerID    string
	Name        string
	Affiliation string
	Age         int
}

type RegisterCandidateResult struct {
	Candidate entities.Candidate
	Rank      int
	Event     entities.Event
}

type CastVoteCommand struct {
	VoterID     string
	CandidateID uint64
}

// CastVoteResult returns the voted candidate after ranking repair and how many
// places it moved.
type CastVoteResult struct {
	Candidate entities.Candidate
	Rank      int
	Moved     int
	Event     entities.Event
}

// ElectionUseCase orchestrates election commands. Each command runs as one
// exclusive State.Update, so the duplicate check, the token spend and the
// mutation are a single indivisible step.
type ElectionUseCase struct {
	State   ports.StateStore
	Gate    ports.TokenGate
	Clock   ports.Clock
	IDGen   ports.IDGenerator
	Metrics ports.Metrics
	Logger  *slog.Logger
}

func (uc ElectionUseCase) RegisterCandidate(ctx context.Context, cmd RegisterCandidateCommand) (RegisterCandidateResult, error) {
	logger := application.ResolveLogger(uc.Logger)
	callerID := cmd.CallerID
	logger.Info("candidate registration started",
		"event", "election_candidate_register_started",
		"module", "governance/election-service",
		"layer", "application",
		"caller_id", callerID,
		"name", strings.TrimSpace(cmd.Name),
	)

	meta, err := uc.newEventMeta(ctx)
	if err != nil {
		logger.Error("candidate registration id allocation failed",
			"event", "election_candidate_register_id_failed",
			"module", "governance/election-service",
			"layer", "application",
			"caller_id", callerID,
			"error", err.Error(),
		)
		return RegisterCandidateResult{}, err
	}

	var result RegisterCandidateResult
	err = uc.State.Update(ctx, func(election *services.Election) error {
		if !election.IsOwner(callerID) {
			return domainerrors.ErrUnauthorized
		}
		candidate, event, err := election.RegisterCandidate(cmd.Name, cmd.Affiliation, cmd.Age, meta)
		if err != nil {
			return err
		}
		rank, _ := election.Rank(candidate.ID)
		result = RegisterCandidateResult{Candidate: candidate, Rank: rank, Event: event}
		return nil
	})
	if err != nil {
		logger.Warn("candidate registration rejected",
			"event", "election_candidate_register_rejected",
			"module", "governance/election-service",
			"layer", "application",
			"caller_id", callerID,
			"name", strings.TrimSpace(cmd.Name),
			"error", err.Error(),
		)
		return RegisterCandidateResult{}, err
	}

	if uc.Metrics != nil {
		uc.Metrics.CandidateRegistered()
	}
	logger.Info("candidate registered",
		"event", "election_candidate_registered",
		"module", "governance/election-service",
		"layer", "application",
		"candidate_id", result.Candidate.ID,
		"name", result.Candidate.Name,
		"affiliation", result.Candidate.Affiliation,
		"rank", result.Rank,
		"sequence", result.Event.Sequence,
	)
	return result, nil
}

// CastVote accepts one vote per (voter, candidate). The token gate is called
// only after local checks pass and before any state changes; its error is
// returned as-is.
func (uc ElectionUseCase) CastVote(ctx context.Context, cmd CastVoteCommand) (CastVoteResult, error) {
	logger := application.ResolveLogger(uc.Logger)
	voterID := strings.TrimSpace(cmd.VoterID)
	logger.Info("vote cast started",
		"event", "election_vote_cast_started",
		"module", "governance/election-service",
		"layer", "application",
		"voter_id", voterID,
		"candidate_id", cmd.CandidateID,
	)
	if uc.Gate == nil {
		logger.Error("vote cast has no token gate",
			"event", "election_vote_cast_gate_missing",
			"module", "governance/election-service",
			"layer", "application",
			"voter_id", voterID,
			"candidate_id", cmd.CandidateID,
		)
		return CastVoteResult{}, domainerrors.ErrTokenGateRejected
	}

	meta, err := uc.newEventMeta(ctx)
	if err != nil {
		return CastVoteResult{}, err
	}

	var result CastVoteResult
	err = uc.State.Update(ctx, func(election *services.Election) error {
		if err := election.CheckVote(voterID, cmd.CandidateID); err != nil {
			return err
		}
		if err := uc.Gate.Spend(ctx, voterID, entities.VoteCost); err != nil {
			return err
		}
		outcome, err := election.ApplyVote(voterID, cmd.CandidateID, meta)
		if err != nil {
			return err
		}
		result = CastVoteResult{
			Candidate: outcome.Candidate,
			Rank:      outcome.Rank,
			Moved:     outcome.Moved,
			Event:     outcome.Event,
		}
		return nil
	})
	if err != nil {
		reason := rejectionReason(err)
		if uc.Metrics != nil {
			uc.Metrics.VoteRejected(reason)
		}
		logger.Warn("vote cast rejected",
			"event", "election_vote_cast_rejected",
			"module", "governance/election-service",
			"layer", "application",
			"voter_id", voterID,
			"candidate_id", cmd.CandidateID,
			"reason", reason,
			"error", err.Error(),
		)
		return CastVoteResult{}, err
	}

	if uc.Metrics != nil {
		uc.Metrics.VoteCast(result.Moved)
	}
	logger.Info("vote cast",
		"event", "election_vote_cast",
		"module", "governance/election-service",
		"layer", "application",
		"voter_id", voterID,
		"candidate_id", result.Candidate.ID,
		"votes", result.Candidate.Votes,
		"rank", result.Rank,
		"moved", result.Moved,
		"sequence", result.Event.Sequence,
	)
	return result, nil
}

func (uc ElectionUseCase) newEventMeta(ctx context.Context) (entities.EventMeta, error) {
	now := time.Now().UTC()
	if uc.Clock != nil {
		now = uc.Clock.Now().UTC()
	}
	if uc.IDGen == nil {
		return entities.EventMeta{OccurredAt: now}, nil
	}
	eventID, err := uc.IDGen.NewID(ctx)
	if err != nil {
		return entities.EventMeta{}, err
	}
	return entities.EventMeta{EventID: eventID, OccurredAt: now}, nil
}

func rejectionReason(err error) string {
	switch {
	case errors.Is(err, domainerrors.ErrInvalidInput):
		return "invalid_input"
	case errors.Is(err, domainerrors.ErrUnknownCandidate):
		return "unknown_candidate"
	case errors.Is(err, domainerrors.ErrAlreadyVoted):
		return "already_voted"
	case errors.Is(err, domainerrors.ErrInsufficientFunds):
		return "insufficient_funds"
	case errors.Is(err, domainerrors.ErrTokenGateRejected):
		return "token_gate_rejected"
	default:
		return "internal"
	}
}
