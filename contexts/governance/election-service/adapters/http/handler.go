package httpadapter

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	application "ballotbox/contexts/governance/election-service/application"
	"ballotbox/contexts/governance/election-service/application/commands"
	"ballotbox/contexts/governance/election-service/application/queries"
	"ballotbox/contexts/governance/election-service/domain/entities"
	domainerrors "ballotbox/contexts/governance/election-service/domain/errors"
	httptransport "ballotbox/contexts/governance/election-service/transport/http"
)

type Handler struct {
	Election commands.ElectionUseCase
	Queries  queries.ElectionQueries
	Logger   *slog.Logger
}

// RegisterCandidateHandler godoc
// @Summary Register a candidate
// @Description Owner-only. Appends a candidate with zero votes and the next sequential id.
// @Tags election
// @Accept json
// @Produce json
// @Param X-User-Id header string true "Caller identity"
// @Param request body httptransport.RegisterCandidateRequest true "Candidate profile"
// @Success 201 {object} httptransport.RegisterCandidateResponse
// @Failure 400 {object} httptransport.ErrorResponse
// @Failure 403 {object} httptransport.ErrorResponse
// @Router /v1/election/candidates [post]
func (h Handler) RegisterCandidateHandler(
	ctx context.Context,
	callerID string,
	req httptransport.RegisterCandidateRequest,
) (httptransport.RegisterCandidateResponse, error) {
	result, err := h.Election.RegisterCandidate(ctx, commands.RegisterCandidateCommand{
		CallerID:    callerID,
		Name:        req.Name,
		Affiliation: req.Affiliation,
		Age:         req.Age,
	})
	if err != nil {
		application.ResolveLogger(h.Logger).Warn("register candidate request failed",
			"event", "http_register_candidate_failed",
			"module", "governance/election-service",
			"layer", "transport",
			"caller_id", strings.TrimSpace(callerID),
			"error", err.Error(),
		)
		return httptransport.RegisterCandidateResponse{}, err
	}
	return httptransport.RegisterCandidateResponse{
		Candidate: mapCandidate(entities.Standing{Rank: result.Rank, Candidate: result.Candidate}),
		Sequence:  result.Event.Sequence,
	}, nil
}

// CastVoteHandler godoc
// @Summary Cast a vote
// @Description Spends one token unit through the token gate and records one vote for the candidate.
// @Tags election
// @Produce json
// @Param X-User-Id header string true "Voter identity"
// @Param candidate_id path int true "Candidate id"
// @Success 200 {object} httptransport.CastVoteResponse
// @Failure 400 {object} httptransport.ErrorResponse
// @Failure 402 {object} httptransport.ErrorResponse
// @Failure 403 {object} httptransport.ErrorResponse
// @Failure 404 {object} httptransport.ErrorResponse
// @Failure 409 {object} httptransport.ErrorResponse
// @Router /v1/election/candidates/{candidate_id}/votes [post]
func (h Handler) CastVoteHandler(ctx context.Context, voterID string, candidateID string) (httptransport.CastVoteResponse, error) {
	id, err := ParseCandidateID(candidateID)
	if err != nil {
		return httptransport.CastVoteResponse{}, err
	}
	result, err := h.Election.CastVote(ctx, commands.CastVoteCommand{
		VoterID:     voterID,
		CandidateID: id,
	})
	if err != nil {
		application.ResolveLogger(h.Logger).Warn("cast vote request failed",
			"event", "http_cast_vote_failed",
			"module", "governance/election-service",
			"layer", "transport",
			"voter_id", strings.TrimSpace(voterID),
			"candidate_id", id,
			"error", err.Error(),
		)
		return httptransport.CastVoteResponse{}, err
	}
	return httptransport.CastVoteResponse{
		Candidate: mapCandidate(entities.Standing{Rank: result.Rank, Candidate: result.Candidate}),
		Moved:     result.Moved,
		Sequence:  result.Event.Sequence,
	}, nil
}

// GetCandidateHandler godoc
// @Summary Get a candidate
// @Tags election
// @Produce json
// @Param candidate_id path int true "Candidate id"
// @Success 200 {object} httptransport.CandidateResponse
// @Failure 404 {object} httptransport.ErrorResponse
// @Router /v1/election/candidates/{candidate_id} [get]
func (h Handler) GetCandidateHandler(ctx context.Context, candidateID string) (httptransport.CandidateResponse, error) {
	id, err := ParseCandidateID(candidateID)
	if err != nil {
		return httptransport.CandidateResponse{}, err
	}
	standing, err := h.Queries.GetCandidate(ctx, id)
	if err != nil {
		return httptransport.CandidateResponse{}, err
	}
	return mapCandidate(standing), nil
}

// ListCandidatesHandler godoc
// @Summary List candidates by rank
// @Description Candidates ordered by descending vote count.
// @Tags election
// @Produce json
// @Success 200 {object} httptransport.CandidateListResponse
// @Router /v1/election/candidates [get]
func (h Handler) ListCandidatesHandler(ctx context.Context) (httptransport.CandidateListResponse, error) {
	standings, err := h.Queries.SortedCandidates(ctx)
	if err != nil {
		return httptransport.CandidateListResponse{}, err
	}
	items := make([]httptransport.CandidateResponse, 0, len(standings))
	for _, standing := range standings {
		items = append(items, mapCandidate(standing))
	}
	return httptransport.CandidateListResponse{Items: items}, nil
}

// CandidateVotersHandler godoc
// @Summary List voters of a candidate
// @Tags election
// @Produce json
// @Param candidate_id path int true "Candidate id"
// @Success 200 {object} httptransport.VotersResponse
// @Failure 404 {object} httptransport.ErrorResponse
// @Router /v1/election/candidates/{candidate_id}/voters [get]
func (h Handler) CandidateVotersHandler(ctx context.Context, candidateID string) (httptransport.VotersResponse, error) {
	id, err := ParseCandidateID(candidateID)
	if err != nil {
		return httptransport.VotersResponse{}, err
	}
	voters, err := h.Queries.VotersOfCandidate(ctx, id)
	if err != nil {
		return httptransport.VotersResponse{}, err
	}
	return httptransport.VotersResponse{CandidateID: id, Voters: voters}, nil
}

// VoterCandidatesHandler godoc
// @Summary List candidates a voter voted for
// @Tags election
// @Produce json
// @Param voter_id path string true "Voter identity"
// @Success 200 {object} httptransport.VoterCandidatesResponse
// @Router /v1/election/voters/{voter_id}/candidates [get]
func (h Handler) VoterCandidatesHandler(ctx context.Context, voterID string) (httptransport.VoterCandidatesResponse, error) {
	ids, err := h.Queries.CandidatesOfVoter(ctx, voterID)
	if err != nil {
		return httptransport.VoterCandidatesResponse{}, err
	}
	return httptransport.VoterCandidatesResponse{
		VoterID:      strings.TrimSpace(voterID),
		CandidateIDs: ids,
	}, nil
}

// HasVotedHandler godoc
// @Summary Check whether a voter voted for a candidate
// @Tags election
// @Produce json
// @Param voter_id path string true "Voter identity"
// @Param candidate_id path int true "Candidate id"
// @Success 200 {object} httptransport.HasVotedResponse
// @Router /v1/election/voters/{voter_id}/candidates/{candidate_id} [get]
func (h Handler) HasVotedHandler(ctx context.Context, voterID string, candidateID string) (httptransport.HasVotedResponse, error) {
	id, err := ParseCandidateID(candidateID)
	if err != nil {
		return httptransport.HasVotedResponse{}, err
	}
	voted, err := h.Queries.HasVoted(ctx, voterID, id)
	if err != nil {
		return httptransport.HasVotedResponse{}, err
	}
	return httptransport.HasVotedResponse{
		VoterID:     strings.TrimSpace(voterID),
		CandidateID: id,
		HasVoted:    voted,
	}, nil
}

// OwnerHandler godoc
// @Summary Get the election owner
// @Tags election
// @Produce json
// @Success 200 {object} httptransport.OwnerResponse
// @Router /v1/election/owner [get]
func (h Handler) OwnerHandler(ctx context.Context) (httptransport.OwnerResponse, error) {
	owner, err := h.Queries.Owner(ctx)
	if err != nil {
		return httptransport.OwnerResponse{}, err
	}
	return httptransport.OwnerResponse{Owner: owner}, nil
}

// TokenAccountHandler godoc
// @Summary Get an account's token balance and election allowance
// @Tags election
// @Produce json
// @Param account_id path string true "Account ID"
// @Success 200 {object} httptransport.TokenAccountResponse
// @Failure 400 {object} httptransport.ErrorResponse
// @Failure 503 {object} httptransport.ErrorResponse
// @Router /v1/election/tokens/{account_id} [get]
func (h Handler) TokenAccountHandler(ctx context.Context, accountID string) (httptransport.TokenAccountResponse, error) {
	account, err := h.Queries.TokenAccount(ctx, accountID)
	if err != nil {
		return httptransport.TokenAccountResponse{}, err
	}
	return httptransport.TokenAccountResponse{
		Account:   account.Account,
		Balance:   account.Balance,
		Allowance: account.Allowance,
		Treasury:  account.Treasury,
	}, nil
}

// EventsHandler godoc
// @Summary Page through the election event log
// @Tags election
// @Produce json
// @Param after query int false "Return events with a greater sequence"
// @Param limit query int false "Page size (default 100)"
// @Success 200 {object} httptransport.EventListResponse
// @Failure 400 {object} httptransport.ErrorResponse
// @Router /v1/election/events [get]
func (h Handler) EventsHandler(ctx context.Context, after string, limit string) (httptransport.EventListResponse, error) {
	afterSequence, err := parseOptionalUint(after, 64)
	if err != nil {
		return httptransport.EventListResponse{}, err
	}
	pageSize, err := parseOptionalUint(limit, 32)
	if err != nil {
		return httptransport.EventListResponse{}, err
	}
	items, err := h.Queries.Events(ctx, afterSequence, int(pageSize))
	if err != nil {
		return httptransport.EventListResponse{}, err
	}

	response := httptransport.EventListResponse{
		Items:        make([]httptransport.EventResponse, 0, len(items)),
		NextSequence: afterSequence,
	}
	for _, item := range items {
		response.Items = append(response.Items, httptransport.EventResponse{
			Sequence:   item.Sequence,
			EventID:    item.EventID,
			EventType:  string(item.Type),
			OccurredAt: item.OccurredAt,
			Data:       item.Data(),
		})
		response.NextSequence = item.Sequence
	}
	return response, nil
}

// ParseCandidateID parses a path candidate id. Ids start at 1, so zero is
// rejected along with anything non-numeric.
func ParseCandidateID(raw string) (uint64, error) {
	id, err := strconv.ParseUint(strings.TrimSpace(raw), 10, 64)
	if err != nil || id == 0 {
		return 0, fmt.Errorf("candidate id %q: %w", raw, domainerrors.ErrInvalidInput)
	}
	return id, nil
}

func parseOptionalUint(raw string, bitSize int) (uint64, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, nil
	}
	value, err := strconv.ParseUint(raw, 10, bitSize)
	if err != nil {
		return 0, fmt.Errorf("query value %q: %w", raw, domainerrors.ErrInvalidInput)
	}
	return value, nil
}

func mapCandidate(standing entities.Standing) httptransport.CandidateResponse {
	return httptransport.CandidateResponse{
		CandidateID: standing.Candidate.ID,
		Name:        standing.Candidate.Name,
		Affiliation: standing.Candidate.Affiliation,
		Age:         standing.Candidate.Age,
		Votes:       standing.Candidate.Votes,
		Rank:        standing.Rank,
	}
}
