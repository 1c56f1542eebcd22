package crew

import (
	"errors"
	"fmt"
)

// Kind classifies an error by who should see it and how.
type Kind int

const (
	// KindInternal is anything that is not one of the known categories.
	KindInternal Kind = iota
	// KindValidation is malformed input from the invoking user.
	KindValidation
	// KindConflict is a request that does not fit the current state.
	KindConflict
	// KindPersistence is a failed flush; the mutation was not applied.
	KindPersistence
	// KindExternal is a missing or unreachable platform resource.
	KindExternal
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindConflict:
		return "conflict"
	case KindPersistence:
		return "persistence"
	case KindExternal:
		return "external"
	default:
		return "internal"
	}
}

// Error is the error type returned by every crew operation.
type Error struct {
	Kind    Kind
	Code    string
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

func conflict(code, message string) *Error {
	return &Error{Kind: KindConflict, Code: code, Message: message}
}

// Conflicts. Compare with errors.Is.
var (
	ErrAlreadyActive          = conflict("already_active", "You are already clocked in! End your shift first.")
	ErrNotClockedIn           = conflict("not_clocked_in", "You are not currently clocked in!")
	ErrAlreadyOnBreak         = conflict("already_on_break", "You are already on break.")
	ErrNotOnBreak             = conflict("not_on_break", "You are not on break.")
	ErrOperationAlreadyActive = conflict("operation_active", "There is already an active operation. Please stop it first with /operation-stop.")
	ErrNoActiveOperation      = conflict("no_active_operation", "This operation is no longer active.")
	ErrAlreadyJoined          = conflict("already_joined", "You are already attending this operation!")
	ErrAtCapacity             = conflict("at_capacity", "This operation is at maximum capacity!")
)

// ErrNotConfigured is returned when a community has not run setup yet.
var ErrNotConfigured = &Error{
	Kind:    KindExternal,
	Code:    "not_configured",
	Message: "This server is not configured yet. Please run /setup first.",
}

// Validation reports malformed user input.
func Validation(format string, args ...any) *Error {
	return &Error{Kind: KindValidation, Code: "invalid_input", Message: fmt.Sprintf(format, args...)}
}

// External reports a missing or unusable platform resource.
func External(message string, err error) *Error {
	return &Error{Kind: KindExternal, Code: "external", Message: message, Err: err}
}

func persistence(err error) *Error {
	return &Error{Kind: KindPersistence, Code: "flush_failed", Message: "failed to save state", Err: err}
}

// KindOf classifies err. Errors that are not *Error are internal.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}

// UserMessage returns the text shown to the invoking user.
func UserMessage(err error) string {
	var e *Error
	if !errors.As(err, &e) {
		return "Something went wrong. Please try again later."
	}
	switch e.Kind {
	case KindPersistence:
		return "Could not save your change. Nothing was updated, please try again."
	case KindExternal:
		if e.Code == "not_configured" {
			return e.Message
		}
		return e.Message + " Please run /setup again."
	default:
		return e.Message
	}
}
