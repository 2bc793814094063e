package services

import (
	"fmt"
	"strings"

	"ballotbox/contexts/governance/election-service/domain/entities"
	domainerrors "ballotbox/contexts/governance/election-service/domain/errors"
)

// Election is the single owned state object of a running election: registry,
// ledger, ranking and the ordered event log. It holds no locks; callers
// serialize access.
type Election struct {
	owner    string
	registry *CandidateRegistry
	ledger   *VoteLedger
	ranking  *RankingEngine
	events   []entities.Event
}

// VoteOutcome describes the state of the voted candidate right after a vote.
type VoteOutcome struct {
	Candidate entities.Candidate
	Rank      int
	Moved     int
	Event     entities.Event
}

func NewElection(owner string) *Election {
	return &Election{
		owner:    owner,
		registry: NewCandidateRegistry(),
		ledger:   NewVoteLedger(),
		ranking:  NewRankingEngine(),
	}
}

func (e *Election) Owner() string {
	return e.owner
}

func (e *Election) IsOwner(caller string) bool {
	return e.owner != "" && caller == e.owner
}

func (e *Election) RegisterCandidate(
	name string,
	affiliation string,
	age int,
	meta entities.EventMeta,
) (entities.Candidate, entities.Event, error) {
	candidate, err := e.registry.Register(name, affiliation, age)
	if err != nil {
		return entities.Candidate{}, entities.Event{}, err
	}
	e.ranking.Append(candidate)
	event := e.appendEvent(meta, entities.Event{
		Type: entities.EventTypeCandidateRegistered,
		CandidateRegistered: &entities.CandidateRegistered{
			ID:          candidate.ID,
			Name:        candidate.Name,
			Affiliation: candidate.Affiliation,
			Age:         candidate.Age,
		},
	})
	return *candidate, event, nil
}

// CheckVote reports why a vote would be rejected by local state, if at all.
func (e *Election) CheckVote(voter string, candidateID uint64) error {
	if strings.TrimSpace(voter) == "" {
		return domainerrors.ErrInvalidInput
	}
	if !e.registry.Exists(candidateID) {
		return domainerrors.ErrUnknownCandidate
	}
	if e.ledger.HasVoted(voter, candidateID) {
		return domainerrors.ErrAlreadyVoted
	}
	return nil
}

// ApplyVote records an accepted vote. Token spending must already have
// succeeded; every failure here happens before the first mutation.
func (e *Election) ApplyVote(voter string, candidateID uint64, meta entities.EventMeta) (VoteOutcome, error) {
	if err := e.CheckVote(voter, candidateID); err != nil {
		return VoteOutcome{}, err
	}
	if err := e.ledger.Record(voter, candidateID); err != nil {
		return VoteOutcome{}, err
	}
	if err := e.registry.IncrementVotes(candidateID); err != nil {
		return VoteOutcome{}, err
	}
	moved, err := e.ranking.Promote(candidateID)
	if err != nil {
		return VoteOutcome{}, err
	}
	event := e.appendEvent(meta, entities.Event{
		Type:     entities.EventTypeVoteCast,
		VoteCast: &entities.VoteCast{Voter: voter, CandidateID: candidateID},
	})

	candidate, _ := e.registry.Get(candidateID)
	rank, _ := e.ranking.Position(candidateID)
	return VoteOutcome{
		Candidate: candidate,
		Rank:      rank,
		Moved:     moved,
		Event:     event,
	}, nil
}

func (e *Election) Candidate(id uint64) (entities.Candidate, error) {
	return e.registry.Get(id)
}

func (e *Election) Rank(id uint64) (int, bool) {
	return e.ranking.Position(id)
}

func (e *Election) SortedCandidates() []entities.Candidate {
	return e.ranking.View()
}

func (e *Election) HasVoted(voter string, candidateID uint64) bool {
	return e.ledger.HasVoted(voter, candidateID)
}

func (e *Election) VotersOf(candidateID uint64) ([]string, error) {
	if !e.registry.Exists(candidateID) {
		return nil, domainerrors.ErrCandidateNotFound
	}
	return e.ledger.VotersOf(candidateID), nil
}

func (e *Election) CandidatesOf(voter string) []uint64 {
	return e.ledger.CandidatesOf(voter)
}

func (e *Election) CandidateCount() int {
	return e.registry.Len()
}

func (e *Election) VoteCount() int {
	return e.ledger.Len()
}

// Events returns up to limit events with a sequence greater than after.
// A non-positive limit returns everything after the cursor.
func (e *Election) Events(after uint64, limit int) []entities.Event {
	if after >= uint64(len(e.events)) {
		return []entities.Event{}
	}
	tail := e.events[after:]
	if limit > 0 && len(tail) > limit {
		tail = tail[:limit]
	}
	return append([]entities.Event{}, tail...)
}

func (e *Election) LastSequence() uint64 {
	return uint64(len(e.events))
}

// Replay rebuilds state from journaled events. Events must continue the
// current log without gaps; the token gate is not consulted because every
// replayed vote was paid for when it was first cast.
func (e *Election) Replay(events []entities.Event) error {
	for _, event := range events {
		if event.Sequence != e.LastSequence()+1 {
			return fmt.Errorf("replay sequence %d after %d: %w", event.Sequence, e.LastSequence(), domainerrors.ErrConflict)
		}
		meta := entities.EventMeta{EventID: event.EventID, OccurredAt: event.OccurredAt}
		switch event.Type {
		case entities.EventTypeCandidateRegistered:
			payload := event.CandidateRegistered
			if payload == nil {
				return fmt.Errorf("replay sequence %d: missing payload: %w", event.Sequence, domainerrors.ErrConflict)
			}
			candidate, _, err := e.RegisterCandidate(payload.Name, payload.Affiliation, payload.Age, meta)
			if err != nil {
				return fmt.Errorf("replay sequence %d: %w", event.Sequence, err)
			}
			if candidate.ID != payload.ID {
				return fmt.Errorf("replay sequence %d assigned id %d, journal has %d: %w",
					event.Sequence, candidate.ID, payload.ID, domainerrors.ErrConflict)
			}
		case entities.EventTypeVoteCast:
			payload := event.VoteCast
			if payload == nil {
				return fmt.Errorf("replay sequence %d: missing payload: %w", event.Sequence, domainerrors.ErrConflict)
			}
			if _, err := e.ApplyVote(payload.Voter, payload.CandidateID, meta); err != nil {
				return fmt.Errorf("replay sequence %d: %w", event.Sequence, err)
			}
		default:
			return fmt.Errorf("replay sequence %d: unknown event type %q: %w", event.Sequence, event.Type, domainerrors.ErrConflict)
		}
	}
	return nil
}

// Verify checks the cross-component invariants: ranking order, index
// consistency and that every counted vote has a ledger entry.
func (e *Election) Verify() error {
	view := e.ranking.View()
	if len(view) != e.registry.Len() {
		return fmt.Errorf("ranking has %d entries, registry %d: %w", len(view), e.registry.Len(), domainerrors.ErrConflict)
	}
	var total uint64
	for i, candidate := range view {
		if i > 0 && view[i-1].Votes < candidate.Votes {
			return fmt.Errorf("ranking out of order at %d: %w", i, domainerrors.ErrConflict)
		}
		if p, ok := e.ranking.Position(candidate.ID); !ok || p != i {
			return fmt.Errorf("position index stale for candidate %d: %w", candidate.ID, domainerrors.ErrConflict)
		}
		if got := uint64(len(e.ledger.VotersOf(candidate.ID))); got != candidate.Votes {
			return fmt.Errorf("candidate %d counts %d votes, ledger %d: %w", candidate.ID, candidate.Votes, got, domainerrors.ErrConflict)
		}
		total += candidate.Votes
	}
	if total != uint64(e.ledger.Len()) {
		return fmt.Errorf("counted %d votes, ledger %d: %w", total, e.ledger.Len(), domainerrors.ErrConflict)
	}
	return nil
}

func (e *Election) appendEvent(meta entities.EventMeta, event entities.Event) entities.Event {
	event.Sequence = uint64(len(e.events)) + 1
	event.EventID = meta.EventID
	event.OccurredAt = meta.OccurredAt.UTC()
	e.events = append(e.events, event)
	return event
}
