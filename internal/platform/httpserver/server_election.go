package httpserver

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	electionerrors "ballotbox/contexts/governance/election-service/domain/errors"
	electionhttp "ballotbox/contexts/governance/election-service/transport/http"
)

func (s *Server) registerElectionRoutes() {
	s.mux.HandleFunc("POST /v1/election/candidates", s.handleRegisterCandidate)
	s.mux.HandleFunc("GET /v1/election/candidates", s.handleListCandidates)
	s.mux.HandleFunc("GET /v1/election/candidates/{candidate_id}", s.handleGetCandidate)
	s.mux.HandleFunc("POST /v1/election/candidates/{candidate_id}/votes", s.handleCastVote)
	s.mux.HandleFunc("GET /v1/election/candidates/{candidate_id}/voters", s.handleCandidateVoters)
	s.mux.HandleFunc("GET /v1/election/voters/{voter_id}/candidates", s.handleVoterCandidates)
	s.mux.HandleFunc("GET /v1/election/voters/{voter_id}/candidates/{candidate_id}", s.handleHasVoted)
	s.mux.HandleFunc("GET /v1/election/owner", s.handleElectionOwner)
	s.mux.HandleFunc("GET /v1/election/events", s.handleElectionEvents)
	s.mux.HandleFunc("GET /v1/election/tokens/{account_id}", s.handleTokenAccount)
}

func (s *Server) handleRegisterCandidate(w http.ResponseWriter, r *http.Request) {
	callerID := strings.TrimSpace(r.Header.Get("X-User-Id"))
	if callerID == "" {
		writeElectionError(w, http.StatusUnauthorized, "missing_user", "X-User-Id header is required")
		return
	}

	var req electionhttp.RegisterCandidateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeElectionError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}

	resp, err := s.election.Handler.RegisterCandidateHandler(r.Context(), callerID, req)
	if err != nil {
		writeElectionDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, resp)
}

func (s *Server) handleListCandidates(w http.ResponseWriter, r *http.Request) {
	resp, err := s.election.Handler.ListCandidatesHandler(r.Context())
	if err != nil {
		writeElectionDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleGetCandidate(w http.ResponseWriter, r *http.Request) {
	resp, err := s.election.Handler.GetCandidateHandler(r.Context(), r.PathValue("candidate_id"))
	if err != nil {
		writeElectionDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleCastVote(w http.ResponseWriter, r *http.Request) {
	voterID := strings.TrimSpace(r.Header.Get("X-User-Id"))
	if voterID == "" {
		writeElectionError(w, http.StatusUnauthorized, "missing_user", "X-User-Id header is required")
		return
	}

	resp, err := s.election.Handler.CastVoteHandler(r.Context(), voterID, r.PathValue("candidate_id"))
	if err != nil {
		writeElectionDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleCandidateVoters(w http.ResponseWriter, r *http.Request) {
	resp, err := s.election.Handler.CandidateVotersHandler(r.Context(), r.PathValue("candidate_id"))
	if err != nil {
		writeElectionDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleVoterCandidates(w http.ResponseWriter, r *http.Request) {
	resp, err := s.election.Handler.VoterCandidatesHandler(r.Context(), r.PathValue("voter_id"))
	if err != nil {
		writeElectionDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleHasVoted(w http.ResponseWriter, r *http.Request) {
	resp, err := s.election.Handler.HasVotedHandler(
		r.Context(),
		r.PathValue("voter_id"),
		r.PathValue("candidate_id"),
	)
	if err != nil {
		writeElectionDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleElectionOwner(w http.ResponseWriter, r *http.Request) {
	resp, err := s.election.Handler.OwnerHandler(r.Context())
	if err != nil {
		writeElectionDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleElectionEvents(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	resp, err := s.election.Handler.EventsHandler(r.Context(), query.Get("after"), query.Get("limit"))
	if err != nil {
		writeElectionDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleTokenAccount(w http.ResponseWriter, r *http.Request) {
	resp, err := s.election.Handler.TokenAccountHandler(r.Context(), r.PathValue("account_id"))
	if err != nil {
		writeElectionDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func writeElectionDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, electionerrors.ErrInvalidInput):
		writeElectionError(w, http.StatusBadRequest, "invalid_input", err.Error())
	case errors.Is(err, electionerrors.ErrUnauthorized):
		writeElectionError(w, http.StatusForbidden, "unauthorized", err.Error())
	case errors.Is(err, electionerrors.ErrUnknownCandidate):
		writeElectionError(w, http.StatusNotFound, "unknown_candidate", err.Error())
	case errors.Is(err, electionerrors.ErrCandidateNotFound):
		writeElectionError(w, http.StatusNotFound, "candidate_not_found", err.Error())
	case errors.Is(err, electionerrors.ErrAlreadyVoted):
		writeElectionError(w, http.StatusConflict, "already_voted", err.Error())
	case errors.Is(err, electionerrors.ErrInsufficientFunds):
		writeElectionError(w, http.StatusPaymentRequired, "insufficient_funds", err.Error())
	case errors.Is(err, electionerrors.ErrTokenGateRejected):
		writeElectionError(w, http.StatusForbidden, "token_gate_rejected", err.Error())
	case errors.Is(err, electionerrors.ErrTokenLedgerUnavailable):
		writeElectionError(w, http.StatusServiceUnavailable, "token_ledger_unavailable", err.Error())
	default:
		writeElectionError(w, http.StatusInternalServerError, "internal_error", "internal server error")
	}
}

func writeElectionError(w http.ResponseWriter, status int, code string, message string) {
	writeJSON(w, status, electionhttp.ErrorResponse{
		Code:    code,
		Message: message,
	})
}
