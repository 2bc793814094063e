package services

import (
	"ballotbox/contexts/governance/election-service/domain/entities"
	domainerrors "ballotbox/contexts/governance/election-service/domain/errors"
)

// RankingEngine keeps candidate references sorted by votes, descending.
// Entries point at the registry's candidates, so a vote increment is visible
// here before Promote repairs the order.
type RankingEngine struct {
	list     []*entities.Candidate
	position map[uint64]int
}

func NewRankingEngine() *RankingEngine {
	return &RankingEngine{position: make(map[uint64]int)}
}

// Append places a newly registered candidate at the tail. It has zero votes,
// so the tail never breaks the order.
func (r *RankingEngine) Append(candidate *entities.Candidate) {
	r.position[candidate.ID] = len(r.list)
	r.list = append(r.list, candidate)
}

// Promote moves a candidate whose vote count just grew by one towards the
// head, one swap at a time, and stops at the first predecessor with at least
// as many votes. Equal-vote peers are never leapfrogged. It returns how many
// places the candidate moved.
func (r *RankingEngine) Promote(candidateID uint64) (int, error) {
	p, ok := r.position[candidateID]
	if !ok {
		return 0, domainerrors.ErrCandidateNotFound
	}
	start := p
	for p > 0 && r.list[p-1].Votes < r.list[p].Votes {
		r.list[p-1], r.list[p] = r.list[p], r.list[p-1]
		r.position[r.list[p].ID] = p
		r.position[r.list[p-1].ID] = p - 1
		p--
	}
	return start - p, nil
}

func (r *RankingEngine) Position(candidateID uint64) (int, bool) {
	p, ok := r.position[candidateID]
	return p, ok
}

// View returns a full-length snapshot. There is no pagination; the candidate
// set is expected to stay small.
func (r *RankingEngine) View() []entities.Candidate {
	items := make([]entities.Candidate, 0, len(r.list))
	for _, candidate := range r.list {
		items = append(items, *candidate)
	}
	return items
}

func (r *RankingEngine) Len() int {
	return len(r.list)
}
