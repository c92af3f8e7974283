package domain

import (
	"errors"
	"fmt"
)

// Sentinel kinds. Compare with errors.Is; KindOf maps any error to its stable name.
var (
	ErrNotFound             = errors.New("NotFound")
	ErrInvalidTransition    = errors.New("InvalidTransition")
	ErrMissingCategory      = errors.New("MissingCategory")
	ErrMissingRequiredField = errors.New("MissingRequiredField")
	ErrInvalidCategory      = errors.New("InvalidCategory")
	ErrStorage              = errors.New("StorageError")
)

// ErrConflict is returned by repositories when a conditional update matched no row.
var ErrConflict = errors.New("concurrent modification")

// Error carries a kind plus enough context for the reviewer UI to explain the failure.
type Error struct {
	Kind   error
	Op     string
	Detail string
	Err    error
}

func (e *Error) Error() string {
	msg := e.Kind.Error()
	if e.Op != "" {
		msg = e.Op + ": " + msg
	}
	if e.Detail != "" {
		msg += ": " + e.Detail
	}
	if e.Err != nil {
		msg += fmt.Sprintf(" (%v)", e.Err)
	}
	return msg
}

// Is reports kind equality so errors.Is(err, ErrNotFound) works through wrapping.
func (e *Error) Is(target error) bool {
	return target == e.Kind
}

func (e *Error) Unwrap() error {
	return e.Err
}

// NewError builds a typed error.
func NewError(kind error, op, detail string) *Error {
	return &Error{Kind: kind, Op: op, Detail: detail}
}

// WrapStorage turns an adapter failure into a StorageError unless it already has a kind.
func WrapStorage(op string, err error) error {
	if err == nil {
		return nil
	}
	var typed *Error
	if errors.As(err, &typed) {
		return err
	}
	return &Error{Kind: ErrStorage, Op: op, Detail: "persistence failure", Err: err}
}

var kinds = []error{
	ErrNotFound,
	ErrInvalidTransition,
	ErrMissingCategory,
	ErrMissingRequiredField,
	ErrInvalidCategory,
	ErrStorage,
}

// KindOf returns the stable kind name of err, or "StorageError" for untyped failures.
func KindOf(err error) string {
	if err == nil {
		return ""
	}
	for _, k := range kinds {
		if errors.Is(err, k) {
			return k.Error()
		}
	}
	return ErrStorage.Error()
}

// DetailOf returns the human-readable detail of a typed error, falling back to err.Error().
func DetailOf(err error) string {
	var typed *Error
	if errors.As(err, &typed) && typed.Detail != "" {
		return typed.Detail
	}
	if err == nil {
		return ""
	}
	return err.Error()
}
