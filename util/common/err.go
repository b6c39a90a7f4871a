// Package common holds the error taxonomy shared by services and controllers.
package common

import (
	"errors"
	"fmt"

	"github.com/ortosupport/course-assistant/logger"
)

// Kind classifies an error for the HTTP boundary.
type Kind int

const (
	KindInternal Kind = iota
	KindValidation
	KindConflict
	KindUnauthenticated
	KindForbidden
	KindSelfDelete
	KindNotFound
	KindUpstream
	KindIntegrity
	KindUnavailable
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindConflict:
		return "conflict"
	case KindUnauthenticated:
		return "unauthenticated"
	case KindForbidden:
		return "forbidden"
	case KindSelfDelete:
		return "self-delete"
	case KindNotFound:
		return "not found"
	case KindUpstream:
		return "upstream"
	case KindIntegrity:
		return "integrity"
	case KindUnavailable:
		return "unavailable"
	}
	return "internal"
}

// AppError carries a kind, a message that is safe to show to clients and an
// optional cause that is only ever logged.
type AppError struct {
	Kind Kind
	Msg  string
	Err  error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return e.Msg + ": " + e.Err.Error()
	}
	return e.Msg
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// Is matches any *AppError of the same kind, so the sentinels below work with errors.Is.
func (e *AppError) Is(target error) bool {
	t, ok := target.(*AppError)
	return ok && t.Kind == e.Kind
}

var (
	ErrUnauthenticated = &AppError{Kind: KindUnauthenticated, Msg: "not authenticated"}
	ErrForbidden       = &AppError{Kind: KindForbidden, Msg: "permission denied"}
	ErrSelfDelete      = &AppError{Kind: KindSelfDelete, Msg: "you cannot delete your own account"}
	ErrNotFound        = &AppError{Kind: KindNotFound, Msg: "not found"}
	ErrUsernameTaken   = &AppError{Kind: KindConflict, Msg: "username already exists"}
	ErrIntegrity       = &AppError{Kind: KindIntegrity, Msg: "internal server error"}
)

// Wrap attaches a cause to an error kind with a client-safe message.
func Wrap(kind Kind, msg string, err error) error {
	return &AppError{Kind: kind, Msg: msg, Err: err}
}

// KindOf returns the kind of err, or KindInternal for foreign errors.
func KindOf(err error) Kind {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	return KindInternal
}

// IsKind reports whether err is an *AppError of kind.
func IsKind(err error, kind Kind) bool {
	return err != nil && KindOf(err) == kind
}

// Message returns the client-safe message of err. Causes are never included,
// and foreign errors collapse to a generic text.
func Message(err error) string {
	var appErr *AppError
	if errors.As(err, &appErr) && appErr.Kind != KindInternal {
		return appErr.Msg
	}
	return "internal server error"
}

func NewErrorf(format string, a ...any) error {
	msg := fmt.Sprintf(format, a...)
	return errors.New(msg)
}

// Combine joins the non-nil errors; nil when all are nil.
func Combine(errs ...error) error {
	return errors.Join(errs...)
}

func Recover(msg string) any {
	panicErr := recover()
	if panicErr != nil {
		if msg != "" {
			logger.Error(msg, "panic:", panicErr)
		}
	}
	return panicErr
}
