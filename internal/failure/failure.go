// Package failure classifies the terminal errors relpick can hit so the CLI
// can map them to exit codes in a single place.
package failure

import (
	"errors"
	"fmt"
)

type Kind uint8

const (
	KindUnknown Kind = iota
	KindUsage
	KindAuthentication
	KindNotFound
	KindRepository
	KindIO
	KindTracker
)

func (k Kind) String() string {
	switch k {
	case KindUsage:
		return "usage error"
	case KindAuthentication:
		return "authentication error"
	case KindNotFound:
		return "not found"
	case KindRepository:
		return "repository error"
	case KindIO:
		return "I/O error"
	case KindTracker:
		return "tracker error"
	default:
		return "error"
	}
}

// ExitCode is the process exit status reported for errors of this kind.
func (k Kind) ExitCode() int {
	switch k {
	case KindUsage:
		return 2
	case KindAuthentication:
		return 3
	case KindNotFound:
		return 4
	case KindRepository:
		return 5
	case KindIO:
		return 6
	default:
		return 1
	}
}

type Error struct {
	Kind Kind
	Op   string
	Err  error
}

func (e *Error) Error() string {
	switch {
	case e.Op != "" && e.Err != nil:
		return fmt.Sprintf("%s: %v", e.Op, e.Err)
	case e.Err != nil:
		return e.Err.Error()
	case e.Op != "":
		return e.Op
	default:
		return e.Kind.String()
	}
}

func (e *Error) Unwrap() error { return e.Err }

// Is reports whether target is an *Error of the same kind, so callers can
// write errors.Is(err, failure.ErrNotFound).
func (e *Error) Is(target error) bool {
	var t *Error
	if !errors.As(target, &t) {
		return false
	}
	return t.Op == "" && t.Err == nil && t.Kind == e.Kind
}

// Sentinels for errors.Is checks.
var (
	ErrUsage          = &Error{Kind: KindUsage}
	ErrAuthentication = &Error{Kind: KindAuthentication}
	ErrNotFound       = &Error{Kind: KindNotFound}
	ErrRepository     = &Error{Kind: KindRepository}
	ErrIO             = &Error{Kind: KindIO}
	ErrTracker        = &Error{Kind: KindTracker}
)

func wrap(kind Kind, op string, err error) error {
	return &Error{Kind: kind, Op: op, Err: err}
}

func Usage(op string, err error) error          { return wrap(KindUsage, op, err) }
func Authentication(op string, err error) error { return wrap(KindAuthentication, op, err) }
func NotFound(op string, err error) error       { return wrap(KindNotFound, op, err) }
func Repository(op string, err error) error     { return wrap(KindRepository, op, err) }
func IO(op string, err error) error             { return wrap(KindIO, op, err) }
func Tracker(op string, err error) error        { return wrap(KindTracker, op, err) }

// KindOf returns the kind of the outermost *Error in err's chain.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnknown
}

// ExitCode maps err to a process exit status; nil maps to 0.
func ExitCode(err error) int {
	if err == nil {
		return 0
	}
	return KindOf(err).ExitCode()
}
