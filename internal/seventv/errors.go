// Package seventv implements the 7TV GraphQL API client used by emotesync.
package seventv

import (
	"errors"
	"fmt"
)

// Sentinel errors for remote-reported mutation failures. The executor
// dispatches on these with errors.Is.
var (
	// ErrUnauthorized means the token lacks privileges for the set.
	ErrUnauthorized = errors.New("lacking privileges for this emote set")

	// ErrEmoteNotFound means the referenced emote does not exist
	// (or is no longer part of the set, for removals).
	ErrEmoteNotFound = errors.New("emote not found")

	// ErrConflict means the API rejected an add because of a
	// conflicting emote already in the set.
	ErrConflict = errors.New("conflicting emote in the target set")

	// ErrCapacity means the set has no room left.
	ErrCapacity = errors.New("emote set is full")
)

// RetrievalError reports a failed emote set fetch. Fetches are not
// retried; the error is surfaced to the caller as-is.
type RetrievalError struct {
	SetID string
	Err   error
}

func (e *RetrievalError) Error() string {
	return fmt.Sprintf("failed to fetch emote set %s: %v", e.SetID, e.Err)
}

func (e *RetrievalError) Unwrap() error { return e.Err }

// TransportError reports a network fault or non-2xx HTTP response.
// Transport errors are retryable.
type TransportError struct {
	Op     string
	Status int
	Err    error
}

func (e *TransportError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: request failed: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("%s: request failed with status %d", e.Op, e.Status)
}

func (e *TransportError) Unwrap() error { return e.Err }

// APIError reports an application-level GraphQL error that does not map
// to any of the sentinel errors above. API errors are retryable.
type APIError struct {
	Op      string
	Code    string
	Message string
}

func (e *APIError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("%s: %s: %s", e.Op, e.Code, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Op, e.Message)
}

// Retryable reports whether the error is transient and worth another
// attempt: transport faults and unclassified API errors qualify,
// everything the taxonomy pins down does not.
func Retryable(err error) bool {
	var te *TransportError
	var ae *APIError
	return errors.As(err, &te) || errors.As(err, &ae)
}
