// Package electionservice implements the token-gated election inside the
// governance context.
//
// The module owns candidate registration, one-vote-per-(voter, candidate)
// casting gated by an external token capability, and the ranking of
// candidates by vote count, which is repaired incrementally after every vote.
// Domain state lives in a single Election object serialized by the state
// store; events are relayed to the journal and bus by an outbox worker.
package electionservice
