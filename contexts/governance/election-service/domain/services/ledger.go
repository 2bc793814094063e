package services

import (
	"ballotbox/contexts/governance/election-service/domain/entities"
	domainerrors "ballotbox/contexts/governance/election-service/domain/errors"
)

// VoteLedger records cast votes and keeps both reverse indices in the order
// votes were cast.
type VoteLedger struct {
	cast         map[entities.Vote]struct{}
	byCandidate  map[uint64][]string
	byVoter      map[string][]uint64
	totalRecords int
}

func NewVoteLedger() *VoteLedger {
	return &VoteLedger{
		cast:        make(map[entities.Vote]struct{}),
		byCandidate: make(map[uint64][]string),
		byVoter:     make(map[string][]uint64),
	}
}

func (l *VoteLedger) HasVoted(voter string, candidateID uint64) bool {
	_, ok := l.cast[entities.Vote{Voter: voter, CandidateID: candidateID}]
	return ok
}

func (l *VoteLedger) Record(voter string, candidateID uint64) error {
	vote := entities.Vote{Voter: voter, CandidateID: candidateID}
	if _, ok := l.cast[vote]; ok {
		return domainerrors.ErrAlreadyVoted
	}
	l.cast[vote] = struct{}{}
	l.byCandidate[candidateID] = append(l.byCandidate[candidateID], voter)
	l.byVoter[voter] = append(l.byVoter[voter], candidateID)
	l.totalRecords++
	return nil
}

func (l *VoteLedger) VotersOf(candidateID uint64) []string {
	return append([]string{}, l.byCandidate[candidateID]...)
}

func (l *VoteLedger) CandidatesOf(voter string) []uint64 {
	return append([]uint64{}, l.byVoter[voter]...)
}

func (l *VoteLedger) Len() int {
	return l.totalRecords
}
