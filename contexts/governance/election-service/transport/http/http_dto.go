package http

import "time"

type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type RegisterCandidateRequest struct {
	Name        string `json:"name"`
	Affiliation string `json:"affiliation"`
	Age         int    `json:"age"`
}

type CandidateResponse struct {
	CandidateID uint64 `json:"candidate_id"`
	Name        string `json:"name"`
	Affiliation string `json:"affiliation"`
	Age         int    `json:"age"`
	Votes       uint64 `json:"votes"`
	Rank        int    `json:"rank"`
}

type RegisterCandidateResponse struct {
	Candidate CandidateResponse `json:"candidate"`
	Sequence  uint64            `json:"sequence"`
}

type CastVoteResponse struct {
	Candidate CandidateResponse `json:"candidate"`
	Moved     int               `json:"moved"`
	Sequence  uint64            `json:"sequence"`
}

type CandidateListResponse struct {
	Items []CandidateResponse `json:"items"`
}

type VotersResponse struct {
	CandidateID uint64   `json:"candidate_id"`
	Voters      []string `json:"voters"`
}

type VoterCandidatesResponse struct {
	VoterID      string   `json:"voter_id"`
	CandidateIDs []uint64 `json:"candidate_ids"`
}

type HasVotedResponse struct {
	VoterID     string `json:"voter_id"`
	CandidateID uint64 `json:"candidate_id"`
	HasVoted    bool   `json:"has_voted"`
}

type OwnerResponse struct {
	Owner string `json:"owner"`
}

type EventResponse struct {
	Sequence   uint64    `json:"sequence"`
	EventID    string    `json:"event_id"`
	EventType  string    `json:"event_type"`
	OccurredAt time.Time `json:"occurred_at"`
	Data       any       `json:"data"`
}

type EventListResponse struct {
	Items        []EventResponse `json:"items"`
	NextSequence uint64          `json:"next_sequence"`
}

type TokenAccountResponse struct {
	Account   string `json:"account"`
	Balance   uint64 `json:"balance"`
	Allowance uint64 `json:"allowance"`
	Treasury  string `json:"treasury"`
}
