package match

import (
	"errors"
	"fmt"

	"github.com/duelforge/duel-server-go/internal/battle"
)

// ErrNotFound is returned when a match id is unknown or already removed.
var ErrNotFound = errors.New("match not found")

// ErrorCode is the closed failure taxonomy surfaced to clients. Rejections
// from the rules engine are not errors; they ride inside ActionResult.
type ErrorCode string

const (
	// CodeValidationRejected wraps a rules rejection when a caller insists on
	// treating it as an error path.
	CodeValidationRejected ErrorCode = "VALIDATION_REJECTED"

	// CodeUpstreamUnavailable means the remote bot service could not answer.
	CodeUpstreamUnavailable ErrorCode = "UPSTREAM_UNAVAILABLE"

	// CodeBotProposalInvalid means the bot proposed an illegal action and the
	// forced substitution was already spent.
	CodeBotProposalInvalid ErrorCode = "BOT_PROPOSAL_INVALID"

	// CodeInternalError covers panics and invariant breaks inside resolution.
	// The match state is left exactly as it was before the action.
	CodeInternalError ErrorCode = "INTERNAL_ERROR"
)

// Error is a classified orchestrator failure.
type Error struct {
	Code      ErrorCode         `json:"code"`
	Message   string            `json:"message"`
	Rejection *battle.Rejection `json:"rejection,omitempty"`
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func errorf(code ErrorCode, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}
