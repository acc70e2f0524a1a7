package protocol

import "fmt"

// Error is a structured error with a stable wire code. Core packages return
// these sentinels (wrapped with context) so the transport layer can map any
// failure to its code with errors.Is/errors.As.
type Error struct {
	Code    string
	Message string
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Is matches any *Error with the same code, so wrapped errors compare
// against the sentinels below.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Code == e.Code
}

// Sentinel errors, one per wire code.
var (
	ErrBadInput      = &Error{Code: "BAD_INPUT", Message: "malformed request"}
	ErrBadCard       = &Error{Code: "BAD_CARD", Message: "unknown card rank or suit"}
	ErrBadRules      = &Error{Code: "BAD_RULES", Message: "rules table incomplete or inconsistent"}
	ErrWrongMode     = &Error{Code: "WRONG_MODE", Message: "operation not available in this session mode"}
	ErrWrongState    = &Error{Code: "WRONG_STATE", Message: "operation invalid in current session state"}
	ErrIllegalAction = &Error{Code: "ILLEGAL_ACTION", Message: "action not legal for the current hand"}
	ErrShoeExhausted = &Error{Code: "SHOE_EXHAUSTED", Message: "no cards remaining in shoe"}
	ErrSessionGone   = &Error{Code: "SESSION_GONE", Message: "session does not exist"}
	ErrSessionBusy   = &Error{Code: "SESSION_BUSY", Message: "session is processing another operation"}
)

// Errorf wraps a sentinel with a formatted detail message while keeping the
// sentinel matchable via errors.Is.
func Errorf(sentinel *Error, format string, args ...any) error {
	return fmt.Errorf("%w: "+format, append([]any{sentinel}, args...)...)
}
