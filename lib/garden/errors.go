package garden

import (
	"errors"
	"fmt"
)

type ErrorKind int

const (
	// KindValidation covers malformed input and bad payments.
	KindValidation ErrorKind = iota + 1
	// KindPrecondition covers operations attempted in the wrong phase.
	KindPrecondition
	// KindNotFound covers missing records; ID carries what was looked up.
	KindNotFound
)

func (k ErrorKind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindPrecondition:
		return "precondition"
	case KindNotFound:
		return "not found"
	}
	return "unknown"
}

type Error struct {
	Kind    ErrorKind
	Message string
	ID      string
	cause   error
}

func (e *Error) Error() string {
	if e.Kind == KindNotFound && e.Message == "" {
		return fmt.Sprintf("%s not found", e.ID)
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.cause }

// Is matches errors of the same kind. A target without a message matches
// every error of its kind.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind && (t.Message == "" || t.Message == e.Message)
}

var (
	ErrValidation   = &Error{Kind: KindValidation}
	ErrPrecondition = &Error{Kind: KindPrecondition}
	ErrNotFound     = &Error{Kind: KindNotFound}

	ErrTooLate         = &Error{Kind: KindPrecondition, Message: "too late"}
	ErrNotOverYet      = &Error{Kind: KindPrecondition, Message: "not over yet"}
	ErrAlreadyFunded   = &Error{Kind: KindPrecondition, Message: "already funded"}
	ErrAlreadyLaunched = &Error{Kind: KindPrecondition, Message: "already launched"}
	ErrNotLaunched     = &Error{Kind: KindPrecondition, Message: "not launched"}
	ErrAlreadyClaimed  = &Error{Kind: KindPrecondition, Message: "already claimed"}
	ErrAlreadyExists   = &Error{Kind: KindPrecondition, Message: "shitcoin already exists"}
	ErrDidNotEnter     = &Error{Kind: KindValidation, Message: "did not enter"}
	ErrBagTooSmall     = &Error{Kind: KindValidation, Message: "bag too small"}
	ErrNotCreator      = &Error{Kind: KindPrecondition, Message: "not creator"}
	ErrWrongPayment    = &Error{Kind: KindValidation, Message: "wrong payment"}
	ErrInvalidAddress  = &Error{Kind: KindValidation, Message: "invalid address"}
	ErrInvalidTicker   = &Error{Kind: KindValidation, Message: "invalid ticker"}
	ErrOverflow        = &Error{Kind: KindValidation, Message: "arithmetic overflow"}
	ErrDivideByZero    = &Error{Kind: KindValidation, Message: "division by zero"}
	ErrNotInitialized  = &Error{Kind: KindPrecondition, Message: "garden not instantiated"}
)

func validationf(cause error, format string, args ...interface{}) *Error {
	return &Error{Kind: KindValidation, Message: fmt.Sprintf(format, args...), cause: cause}
}

func notFound(id string) *Error {
	return &Error{Kind: KindNotFound, ID: id}
}

// KindOf reports the kind of a garden error, or zero when err is not one.
func KindOf(err error) ErrorKind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return 0
}
