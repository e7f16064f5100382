package registry

import "errors"

// Every failure an operation can report to the acting user. All are
// recoverable: the caller shows the message and the user retries with
// corrected input. Callers match with errors.Is.
var (
	ErrNotAuthenticated  = errors.New("not signed in")
	ErrNotFound          = errors.New("order not found")
	ErrInvalidState      = errors.New("invalid order state")
	ErrInsufficientFunds = errors.New("insufficient balance for hold")
	ErrMissingProof      = errors.New("proof of delivery required")
)

// statusLabel maps an operation outcome onto a metric/log label.
func statusLabel(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, ErrNotAuthenticated):
		return "not_authenticated"
	case errors.Is(err, ErrNotFound):
		return "not_found"
	case errors.Is(err, ErrInvalidState):
		return "invalid_state"
	case errors.Is(err, ErrInsufficientFunds):
		return "insufficient_funds"
	case errors.Is(err, ErrMissingProof):
		return "missing_proof"
	default:
		return "error"
	}
}
