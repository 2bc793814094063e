package httpserver

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	electionservice "ballotbox/contexts/governance/election-service"
	"ballotbox/contexts/governance/election-service/adapters/memory"
	electionmetrics "ballotbox/contexts/governance/election-service/adapters/metrics"
	"ballotbox/contexts/governance/election-service/adapters/tokengate"
	electionhttp "ballotbox/contexts/governance/election-service/transport/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testOwner = "owner-1"

func newTestServer(t *testing.T) (*Server, *tokengate.Ledger) {
	t.Helper()
	registry := prometheus.NewRegistry()
	metrics, err := electionmetrics.NewPrometheus("ballotbox", registry)
	require.NoError(t, err)

	ledger := tokengate.NewLedger("treasury", nil)
	for _, voter := range []string{"voter1", "voter2"} {
		ledger.Grant(voter, 5)
		ledger.Approve(voter, 5)
	}
	ledger.Grant("broke", 0)
	ledger.Approve("broke", 5)

	store := memory.NewStore(testOwner)
	module := electionservice.NewModule(electionservice.Dependencies{
		State:   store,
		Gate:    ledger,
		Tokens:  ledger,
		Outbox:  store,
		Clock:   store,
		IDGen:   store,
		Metrics: metrics,
	})
	module.Store = store

	handler := promhttp.HandlerFor(registry, promhttp.HandlerOpts{})
	return New(module, handler, nil, ""), ledger
}

func do(t *testing.T, server *Server, method string, path string, userID string, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if userID != "" {
		req.Header.Set("X-User-Id", userID)
	}
	rr := httptest.NewRecorder()
	server.Handler().ServeHTTP(rr, req)
	return rr
}

func registerCandidate(t *testing.T, server *Server, name string) electionhttp.RegisterCandidateResponse {
	t.Helper()
	rr := do(t, server, http.MethodPost, "/v1/election/candidates", testOwner,
		`{"name":"`+name+`","affiliation":"Cult","age":20}`)
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
	var resp electionhttp.RegisterCandidateResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	return resp
}

func TestElectionRegisterAndVoteFlow(t *testing.T) {
	server, ledger := newTestServer(t)

	first := registerCandidate(t, server, "Name1")
	assert.Equal(t, uint64(1), first.Candidate.CandidateID)
	assert.Equal(t, uint64(1), first.Sequence)
	registerCandidate(t, server, "Name2")

	rr := do(t, server, http.MethodPost, "/v1/election/candidates/2/votes", "voter1", "")
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	var vote electionhttp.CastVoteResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &vote))
	assert.Equal(t, uint64(1), vote.Candidate.Votes)
	assert.Equal(t, 0, vote.Candidate.Rank)
	assert.Equal(t, 1, vote.Moved)
	assert.Equal(t, uint64(4), ledger.BalanceOf("voter1"))
	assert.Equal(t, uint64(1), ledger.BalanceOf("treasury"))

	rr = do(t, server, http.MethodGet, "/v1/election/candidates", "", "")
	require.Equal(t, http.StatusOK, rr.Code)
	var list electionhttp.CandidateListResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &list))
	require.Len(t, list.Items, 2)
	assert.Equal(t, uint64(2), list.Items[0].CandidateID)
	assert.Equal(t, uint64(1), list.Items[1].CandidateID)

	rr = do(t, server, http.MethodGet, "/v1/election/candidates/2/voters", "", "")
	require.Equal(t, http.StatusOK, rr.Code)
	var voters electionhttp.VotersResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &voters))
	assert.Equal(t, []string{"voter1"}, voters.Voters)

	rr = do(t, server, http.MethodGet, "/v1/election/voters/voter1/candidates", "", "")
	require.Equal(t, http.StatusOK, rr.Code)
	var ids electionhttp.VoterCandidatesResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &ids))
	assert.Equal(t, []uint64{2}, ids.CandidateIDs)

	rr = do(t, server, http.MethodGet, "/v1/election/voters/voter1/candidates/2", "", "")
	require.Equal(t, http.StatusOK, rr.Code)
	var voted electionhttp.HasVotedResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &voted))
	assert.True(t, voted.HasVoted)

	rr = do(t, server, http.MethodGet, "/v1/election/owner", "", "")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"owner":"owner-1"}`, rr.Body.String())

	rr = do(t, server, http.MethodGet, "/v1/election/events?after=1&limit=5", "", "")
	require.Equal(t, http.StatusOK, rr.Code)
	var events electionhttp.EventListResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &events))
	require.Len(t, events.Items, 2)
	assert.Equal(t, "candidate.registered", events.Items[0].EventType)
	assert.Equal(t, "vote.cast", events.Items[1].EventType)
	assert.Equal(t, uint64(3), events.NextSequence)
}

func TestElectionErrorMapping(t *testing.T) {
	server, _ := newTestServer(t)
	registerCandidate(t, server, "Name1")
	require.Equal(t, http.StatusOK, do(t, server, http.MethodPost, "/v1/election/candidates/1/votes", "voter1", "").Code)

	cases := []struct {
		name   string
		method string
		path   string
		user   string
		body   string
		status int
		code   string
	}{
		{"non owner registration", http.MethodPost, "/v1/election/candidates", "voter1", `{"name":"X","affiliation":"Y","age":1}`, http.StatusForbidden, "unauthorized"},
		{"missing caller", http.MethodPost, "/v1/election/candidates", "", `{"name":"X","affiliation":"Y","age":1}`, http.StatusUnauthorized, "missing_user"},
		{"bad json", http.MethodPost, "/v1/election/candidates", testOwner, `{`, http.StatusBadRequest, "invalid_json"},
		{"invalid profile", http.MethodPost, "/v1/election/candidates", testOwner, `{"name":" ","affiliation":"Y","age":1}`, http.StatusBadRequest, "invalid_input"},
		{"duplicate vote", http.MethodPost, "/v1/election/candidates/1/votes", "voter1", "", http.StatusConflict, "already_voted"},
		{"unknown candidate vote", http.MethodPost, "/v1/election/candidates/9/votes", "voter2", "", http.StatusNotFound, "unknown_candidate"},
		{"malformed candidate id", http.MethodPost, "/v1/election/candidates/abc/votes", "voter2", "", http.StatusBadRequest, "invalid_input"},
		{"zero candidate id", http.MethodGet, "/v1/election/candidates/0", "", "", http.StatusBadRequest, "invalid_input"},
		{"insufficient funds", http.MethodPost, "/v1/election/candidates/1/votes", "broke", "", http.StatusPaymentRequired, "insufficient_funds"},
		{"no allowance", http.MethodPost, "/v1/election/candidates/1/votes", "stranger", "", http.StatusForbidden, "token_gate_rejected"},
		{"missing candidate", http.MethodGet, "/v1/election/candidates/7", "", "", http.StatusNotFound, "candidate_not_found"},
		{"voters of missing candidate", http.MethodGet, "/v1/election/candidates/7/voters", "", "", http.StatusNotFound, "candidate_not_found"},
		{"bad event cursor", http.MethodGet, "/v1/election/events?after=x", "", "", http.StatusBadRequest, "invalid_input"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rr := do(t, server, tc.method, tc.path, tc.user, tc.body)
			require.Equal(t, tc.status, rr.Code, rr.Body.String())
			var resp electionhttp.ErrorResponse
			require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
			assert.Equal(t, tc.code, resp.Code)
		})
	}

	rr := do(t, server, http.MethodGet, "/v1/election/candidates/1", "", "")
	require.Equal(t, http.StatusOK, rr.Code)
	var candidate electionhttp.CandidateResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &candidate))
	assert.Equal(t, uint64(1), candidate.Votes)
}

func TestElectionEventCursorAcceptsWideSequences(t *testing.T) {
	server, _ := newTestServer(t)
	registerCandidate(t, server, "Name1")

	rr := do(t, server, http.MethodGet, "/v1/election/events?after=5000000000", "", "")
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	var events electionhttp.EventListResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &events))
	assert.Empty(t, events.Items)
	assert.Equal(t, uint64(5000000000), events.NextSequence)

	rr = do(t, server, http.MethodGet, "/v1/election/events?limit=5000000000", "", "")
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestTokenAccountReflectsSpentVotes(t *testing.T) {
	server, _ := newTestServer(t)
	registerCandidate(t, server, "Name1")
	require.Equal(t, http.StatusOK, do(t, server, http.MethodPost, "/v1/election/candidates/1/votes", "voter1", "").Code)

	rr := do(t, server, http.MethodGet, "/v1/election/tokens/voter1", "", "")
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	assert.JSONEq(t, `{"account":"voter1","balance":4,"allowance":4,"treasury":"treasury"}`, rr.Body.String())

	rr = do(t, server, http.MethodGet, "/v1/election/tokens/treasury", "", "")
	require.Equal(t, http.StatusOK, rr.Code)
	var account electionhttp.TokenAccountResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &account))
	assert.Equal(t, uint64(1), account.Balance)
}

func TestTokenAccountWithoutLedgerIsUnavailable(t *testing.T) {
	store := memory.NewStore(testOwner)
	module := electionservice.NewModule(electionservice.Dependencies{
		State:  store,
		Gate:   tokengate.NewLedger("treasury", nil),
		Outbox: store,
		Clock:  store,
		IDGen:  store,
	})
	server := New(module, nil, nil, "")

	rr := do(t, server, http.MethodGet, "/v1/election/tokens/voter1", "", "")
	require.Equal(t, http.StatusServiceUnavailable, rr.Code)
	var resp electionhttp.ErrorResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.Equal(t, "token_ledger_unavailable", resp.Code)
}

func TestMetricsEndpointExposesElectionCounters(t *testing.T) {
	server, _ := newTestServer(t)
	registerCandidate(t, server, "Name1")
	do(t, server, http.MethodPost, "/v1/election/candidates/1/votes", "voter1", "")
	do(t, server, http.MethodPost, "/v1/election/candidates/1/votes", "voter1", "")

	rr := do(t, server, http.MethodGet, "/metrics", "", "")
	require.Equal(t, http.StatusOK, rr.Code)
	body := rr.Body.String()
	assert.Contains(t, body, "ballotbox_election_candidates_registered_total 1")
	assert.Contains(t, body, "ballotbox_election_votes_cast_total 1")
	assert.True(t, strings.Contains(body, `ballotbox_election_votes_rejected_total{reason="already_voted"} 1`), body)
}

func TestSwaggerDocIsServed(t *testing.T) {
	server, _ := newTestServer(t)
	rr := do(t, server, http.MethodGet, "/swagger/doc.json", "", "")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "/v1/election/candidates/{candidate_id}/votes")
}
