package application

import (
	"encoding/json"
	"fmt"
	"strconv"

	"ballotbox/contexts/governance/election-service/domain/entities"
	domainerrors "ballotbox/contexts/governance/election-service/domain/errors"
	"ballotbox/contexts/governance/election-service/ports"
	"ballotbox/internal/shared/events"
)

const SourceService = "election-service"

// EncodeEvent converts a domain event into the bus envelope. Both event types
// are partitioned by candidate so per-candidate consumers see them in order.
func EncodeEvent(event entities.Event) (ports.EventEnvelope, error) {
	var candidateID uint64
	switch event.Type {
	case entities.EventTypeCandidateRegistered:
		if event.CandidateRegistered == nil {
			return ports.EventEnvelope{}, fmt.Errorf("encode event %d: missing payload: %w", event.Sequence, domainerrors.ErrConflict)
		}
		candidateID = event.CandidateRegistered.ID
	case entities.EventTypeVoteCast:
		if event.VoteCast == nil {
			return ports.EventEnvelope{}, fmt.Errorf("encode event %d: missing payload: %w", event.Sequence, domainerrors.ErrConflict)
		}
		candidateID = event.VoteCast.CandidateID
	default:
		return ports.EventEnvelope{}, fmt.Errorf("encode event %d: unknown type %q: %w", event.Sequence, event.Type, domainerrors.ErrConflict)
	}
	return events.New(
		event.EventID,
		string(event.Type),
		SourceService,
		event.Sequence,
		"candidate_id",
		strconv.FormatUint(candidateID, 10),
		event.OccurredAt,
		event.Data(),
	)
}

// DecodeEvent is the inverse of EncodeEvent, used when replaying a journal.
func DecodeEvent(envelope ports.EventEnvelope) (entities.Event, error) {
	event := entities.Event{
		Sequence:   envelope.Sequence,
		EventID:    envelope.EventID,
		Type:       entities.EventType(envelope.EventType),
		OccurredAt: envelope.OccurredAt.UTC(),
	}
	switch event.Type {
	case entities.EventTypeCandidateRegistered:
		var payload entities.CandidateRegistered
		if err := json.Unmarshal(envelope.Data, &payload); err != nil {
			return entities.Event{}, fmt.Errorf("decode event %d: %w", envelope.Sequence, err)
		}
		event.CandidateRegistered = &payload
	case entities.EventTypeVoteCast:
		var payload entities.VoteCast
		if err := json.Unmarshal(envelope.Data, &payload); err != nil {
			return entities.Event{}, fmt.Errorf("decode event %d: %w", envelope.Sequence, err)
		}
		event.VoteCast = &payload
	default:
		return entities.Event{}, fmt.Errorf("decode event %d: unknown type %q: %w", envelope.Sequence, envelope.EventType, domainerrors.ErrConflict)
	}
	return event, nil
}
