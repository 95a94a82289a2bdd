package entity

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

var (
	ErrNotFound           = errors.New("ticket not found")
	ErrMalformedInput     = errors.New("malformed input")
	ErrDuplicateReference = errors.New("duplicate booking reference")
)

// NotFoundError is raised by the reseller when the authority reports that a
// ticket does not exist. It re-homes the remote not-found signal into the
// local error vocabulary.
type NotFoundError struct {
	TicketID int
}

func (e NotFoundError) Error() string {
	return fmt.Sprintf("ticket not found with ID: %d", e.TicketID)
}

func (e NotFoundError) Unwrap() error {
	return ErrNotFound
}

// ProviderError is a non-success, non-not-found response from the authority.
type ProviderError struct {
	StatusCode int
}

func (e ProviderError) Error() string {
	return fmt.Sprintf("provider returned status %d", e.StatusCode)
}

// DelegationError is a transport-level failure while calling the authority:
// unreachable, timeout, or a response that could not be decoded.
type DelegationError struct {
	Err error
}

func (e DelegationError) Error() string {
	return fmt.Sprintf("delegation to provider failed: %s", e.Err)
}

func (e DelegationError) Unwrap() error {
	return e.Err
}

// ValidationError carries per-field messages for the error envelope.
type ValidationError struct {
	Fields map[string]string
}

func (e ValidationError) Error() string {
	names := make([]string, 0, len(e.Fields))
	for name := range e.Fields {
		names = append(names, name)
	}
	sort.Strings(names)
	return fmt.Sprintf("validation failed: %s", strings.Join(names, ", "))
}

func (e ValidationError) Unwrap() error {
	return ErrMalformedInput
}
