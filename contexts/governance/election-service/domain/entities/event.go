package entities

import "time"

type EventType string

const (
	EventTypeCandidateRegistered EventType = "candidate.registered"
	EventTypeVoteCast            EventType = "vote.cast"
)

type CandidateRegistered struct {
	ID          uint64 `json:"id"`
	Name        string `json:"name"`
	Affiliation string `json:"affiliation"`
	Age         int    `json:"age"`
}

type VoteCast struct {
	Voter       string `json:"voter"`
	CandidateID uint64 `json:"candidate_id"`
}

// Event is one entry of the election's append-only log. Exactly one of the
// payload pointers is set, matching Type.
type Event struct {
	Sequence   uint64
	EventID    string
	Type       EventType
	OccurredAt time.Time

	CandidateRegistered *CandidateRegistered
	VoteCast            *VoteCast
}

// EventMeta carries the identifiers the application assigns before a
// mutation so that applying it cannot fail halfway.
type EventMeta struct {
	EventID    string
	OccurredAt time.Time
}

// Data returns the event payload as it is published on the bus.
func (e Event) Data() any {
	switch e.Type {
	case EventTypeCandidateRegistered:
		return e.CandidateRegistered
	case EventTypeVoteCast:
		return e.VoteCast
	default:
		return nil
	}
}
