package errors

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidInput       = errors.New("invalid election input")
	ErrUnauthorized       = errors.New("caller is not the election owner")
	ErrCandidateNotFound  = errors.New("candidate not found")
	ErrUnknownCandidate   = fmt.Errorf("vote for unknown candidate: %w", ErrCandidateNotFound)
	ErrAlreadyVoted       = errors.New("voter already voted for candidate")
	ErrInsufficientFunds  = errors.New("insufficient token balance")
	ErrTokenGateRejected  = errors.New("token gate rejected spend")
	ErrConflict           = errors.New("election conflict")
	ErrJournalUnavailable = errors.New("event journal unavailable")

	ErrTokenLedgerUnavailable = errors.New("token ledger unavailable")
)
