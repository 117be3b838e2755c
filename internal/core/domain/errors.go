package domain

import (
	"errors"
	"fmt"
)

// ErrorKind classifies a failure so callers can branch on it without string matching.
type ErrorKind int

const (
	KindInternal ErrorKind = iota
	KindNotFound
	KindInvalidAmount
	KindInsufficientFunds
	KindInvalidInput
	KindDuplicateAccount
	KindConflict
	KindStoreUnavailable
)

// AllKinds lists every ErrorKind. Mappings over kinds are tested against it.
var AllKinds = []ErrorKind{
	KindInternal,
	KindNotFound,
	KindInvalidAmount,
	KindInsufficientFunds,
	KindInvalidInput,
	KindDuplicateAccount,
	KindConflict,
	KindStoreUnavailable,
}

func (k ErrorKind) String() string {
	switch k {
	case KindNotFound:
		return "not_found"
	case KindInvalidAmount:
		return "invalid_amount"
	case KindInsufficientFunds:
		return "insufficient_funds"
	case KindInvalidInput:
		return "invalid_input"
	case KindDuplicateAccount:
		return "duplicate_account"
	case KindConflict:
		return "conflict"
	case KindStoreUnavailable:
		return "store_unavailable"
	default:
		return "internal"
	}
}

// Error is the tagged error type raised by the core.
type Error struct {
	Kind    ErrorKind
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

// NewError creates a tagged error with a formatted message
func NewError(kind ErrorKind, format string, args ...interface{}) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// WrapError tags an underlying error with a kind
func WrapError(kind ErrorKind, err error, format string, args ...interface{}) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...), Err: err}
}

// KindOf returns the kind of the first *Error in err's chain, or KindInternal.
func KindOf(err error) ErrorKind {
	var domainErr *Error
	if errors.As(err, &domainErr) {
		return domainErr.Kind
	}
	return KindInternal
}

// IsKind reports whether err carries the given kind
func IsKind(err error, kind ErrorKind) bool {
	return err != nil && KindOf(err) == kind
}

func ErrClientNotFound(id string) *Error {
	return NewError(KindNotFound, "client with id %s was not found", id)
}

func ErrVersionConflict(id string) *Error {
	return NewError(KindConflict, "client %s was modified concurrently", id)
}
