package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

type Kind int

const (
	// None is the kind of a nil error.
	None Kind = iota
	Internal
	NotFound
	Conflict
	InvalidInput
	Forbidden
	Unauthorized
)

func (k Kind) String() string {
	switch k {
	case None:
		return "OK"
	case NotFound:
		return "NOT_FOUND"
	case Conflict:
		return "CONFLICT"
	case InvalidInput:
		return "BAD_REQUEST"
	case Forbidden:
		return "FORBIDDEN"
	case Unauthorized:
		return "UNAUTHORIZED"
	default:
		return "INTERNAL_ERROR"
	}
}

// HTTPStatus maps a kind onto the response status used by the API.
func (k Kind) HTTPStatus() int {
	switch k {
	case None:
		return http.StatusOK
	case NotFound:
		return http.StatusNotFound
	case Conflict:
		return http.StatusConflict
	case InvalidInput:
		return http.StatusBadRequest
	case Forbidden:
		return http.StatusForbidden
	case Unauthorized:
		return http.StatusUnauthorized
	default:
		return http.StatusInternalServerError
	}
}

type Error struct {
	Kind Kind
	Msg  string
	Err  error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Msg + ": " + e.Err.Error()
	}
	return e.Msg
}

func (e *Error) Unwrap() error { return e.Err }

func New(kind Kind, msg string) *Error {
	return &Error{Kind: kind, Msg: msg}
}

func Wrap(kind Kind, msg string, err error) *Error {
	return &Error{Kind: kind, Msg: msg, Err: err}
}

func Newf(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Msg: fmt.Sprintf(format, args...)}
}

// KindOf reports the kind of the first *Error in err's chain, Internal for any
// other error and None for nil.
func KindOf(err error) Kind {
	if err == nil {
		return None
	}
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return Internal
}

// Message returns the client facing message. Internal errors never leak details.
func Message(err error) string {
	var e *Error
	if errors.As(err, &e) && e.Kind != Internal {
		return e.Msg
	}
	return "internal server error"
}

func Is(err error, kind Kind) bool {
	return err != nil && KindOf(err) == kind
}
