package entities

// VoteCost is the number of token units spent for a single vote.
const VoteCost uint64 = 1

type Candidate struct {
	ID          uint64
	Name        string
	Affiliation string
	Age         int
	Votes       uint64
}

type Vote struct {
	Voter       string
	CandidateID uint64
}

// Standing is a candidate together with its zero-based rank.
type Standing struct {
	Rank      int
	Candidate Candidate
}
