// Package errors provides the structured error type shared by gitpeek's
// repository, terminal and configuration layers. The Kind of an error
// decides whether the event loop treats it as fatal or transient.
package errors

import (
	"errors"
	"fmt"
)

// Op describes an operation, usually as "package.function".
type Op string

// Kind categorizes the type of error.
type Kind int

const (
	KindUnknown Kind = iota
	// Repository errors
	KindNotARepository
	KindInaccessible
	KindCorrupt
	// Terminal errors
	KindTerminalInit
	KindTerminalRestore
	// Malformed or unsupported terminal input
	KindInput
	KindConfig
)

func (k Kind) String() string {
	switch k {
	case KindNotARepository:
		return "not a git repository"
	case KindInaccessible:
		return "repository inaccessible"
	case KindCorrupt:
		return "repository corrupt"
	case KindTerminalInit:
		return "terminal init failed"
	case KindTerminalRestore:
		return "terminal restore failed"
	case KindInput:
		return "invalid input"
	case KindConfig:
		return "configuration error"
	default:
		return "unknown error"
	}
}

// Error is the structured error type for gitpeek.
type Error struct {
	Op      Op     // Operation that failed
	Kind    Kind   // Category of error
	Err     error  // Underlying error
	Context string // Additional context
}

func (e *Error) Error() string {
	if e.Context != "" {
		return fmt.Sprintf("%s: %s: %s", e.Op, e.Context, e.Err)
	}
	if e.Op != "" {
		return fmt.Sprintf("%s: %s", e.Op, e.Err)
	}
	return e.Err.Error()
}

func (e *Error) Unwrap() error {
	return e.Err
}

// E creates a new Error. Arguments can be:
// - Op: the operation name
// - Kind: the error kind
// - string: context message
// - error: the underlying error
func E(args ...interface{}) error {
	e := &Error{}
	for _, arg := range args {
		switch a := arg.(type) {
		case Op:
			e.Op = a
		case Kind:
			e.Kind = a
		case string:
			e.Context = a
		case error:
			e.Err = a
		}
	}
	if e.Err == nil {
		if e.Context != "" {
			e.Err = errors.New(e.Context)
		} else {
			e.Err = errors.New(e.Kind.String())
		}
		e.Context = ""
	}
	return e
}

// Is reports whether err is of the given Kind.
func Is(err error, kind Kind) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind == kind
	}
	return false
}

// GetKind returns the Kind of an error.
func GetKind(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnknown
}

// IsRepository reports whether err came from querying the repository.
func IsRepository(err error) bool {
	switch GetKind(err) {
	case KindNotARepository, KindInaccessible, KindCorrupt:
		return true
	}
	return false
}

// IsTerminal reports whether err came from the terminal session.
func IsTerminal(err error) bool {
	switch GetKind(err) {
	case KindTerminalInit, KindTerminalRestore:
		return true
	}
	return false
}

// NotARepository returns the error reported when path is not inside a work tree.
func NotARepository(path string, err error) error {
	return E(Op("git.Fetch"), KindNotARepository, fmt.Sprintf("%s is not a git repository", path), err)
}

// Inaccessible returns the error reported when path cannot be read.
func Inaccessible(path string, err error) error {
	return E(Op("git.Fetch"), KindInaccessible, fmt.Sprintf("cannot access %s", path), err)
}

// Corrupt returns the error reported when git cannot read the object database.
func Corrupt(path string, err error) error {
	return E(Op("git.Fetch"), KindCorrupt, fmt.Sprintf("repository at %s is corrupt", path), err)
}
