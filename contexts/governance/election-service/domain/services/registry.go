package services

import (
	"strings"

	"ballotbox/contexts/governance/election-service/domain/entities"
	domainerrors "ballotbox/contexts/governance/election-service/domain/errors"
)

// CandidateRegistry owns every registered candidate. Ids are dense and start
// at 1, so candidate id N lives at index N-1.
type CandidateRegistry struct {
	candidates []*entities.Candidate
}

func NewCandidateRegistry() *CandidateRegistry {
	return &CandidateRegistry{}
}

// ValidateProfile checks registration fields without touching the registry.
func ValidateProfile(name string, affiliation string, age int) error {
	if strings.TrimSpace(name) == "" || strings.TrimSpace(affiliation) == "" || age < 0 {
		return domainerrors.ErrInvalidInput
	}
	return nil
}

func (r *CandidateRegistry) Register(name string, affiliation string, age int) (*entities.Candidate, error) {
	if err := ValidateProfile(name, affiliation, age); err != nil {
		return nil, err
	}
	candidate := &entities.Candidate{
		ID:          uint64(len(r.candidates)) + 1,
		Name:        strings.TrimSpace(name),
		Affiliation: strings.TrimSpace(affiliation),
		Age:         age,
	}
	r.candidates = append(r.candidates, candidate)
	return candidate, nil
}

func (r *CandidateRegistry) Get(id uint64) (entities.Candidate, error) {
	candidate, ok := r.lookup(id)
	if !ok {
		return entities.Candidate{}, domainerrors.ErrCandidateNotFound
	}
	return *candidate, nil
}

func (r *CandidateRegistry) Exists(id uint64) bool {
	_, ok := r.lookup(id)
	return ok
}

// IncrementVotes adds exactly one vote. Only the election calls it, after the
// vote has been accepted.
func (r *CandidateRegistry) IncrementVotes(id uint64) error {
	candidate, ok := r.lookup(id)
	if !ok {
		return domainerrors.ErrCandidateNotFound
	}
	candidate.Votes++
	return nil
}

func (r *CandidateRegistry) Len() int {
	return len(r.candidates)
}

func (r *CandidateRegistry) lookup(id uint64) (*entities.Candidate, bool) {
	if id == 0 || id > uint64(len(r.candidates)) {
		return nil, false
	}
	return r.candidates[id-1], true
}
