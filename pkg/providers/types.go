// AgentGW - conversational webhook gateway for Rommaana Insurance
// License: MIT

package providers

import (
	"context"
	"errors"
	"fmt"
)

// Provider is the generative-language backend collaborator: one prompt
// string in, one reply string out. No streaming, no multi-turn context.
type Provider interface {
	Complete(ctx context.Context, prompt string) (string, error)
	Name() string
}

// Reason classifies why a backend request failed, for failover decisions
// and log triage.
type Reason string

const (
	ReasonAuth       Reason = "auth"
	ReasonRateLimit  Reason = "rate_limit"
	ReasonTimeout    Reason = "timeout"
	ReasonOverloaded Reason = "overloaded"
	ReasonBadRequest Reason = "bad_request"
	ReasonUnknown    Reason = "unknown"
)

// BackendError wraps a provider failure with classification metadata.
type BackendError struct {
	Reason   Reason
	Provider string
	Status   int
	Wrapped  error
}

func (e *BackendError) Error() string {
	return fmt.Sprintf("backend(%s): provider=%s status=%d: %v",
		e.Reason, e.Provider, e.Status, e.Wrapped)
}

func (e *BackendError) Unwrap() error {
	return e.Wrapped
}

// IsRetriable reports whether the next candidate in the chain should be
// tried. A bad request would fail identically everywhere.
func (e *BackendError) IsRetriable() bool {
	return e.Reason != ReasonBadRequest
}

// Classify wraps err with a reason derived from the HTTP status (0 when
// none is known) and the context state.
func Classify(provider string, status int, err error) *BackendError {
	reason := ReasonUnknown
	switch {
	case errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled):
		reason = ReasonTimeout
	case status == 401 || status == 403:
		reason = ReasonAuth
	case status == 429:
		reason = ReasonRateLimit
	case status == 400 || status == 404 || status == 413 || status == 422:
		reason = ReasonBadRequest
	case status == 529 || status == 503:
		reason = ReasonOverloaded
	}
	return &BackendError{
		Reason:   reason,
		Provider: provider,
		Status:   status,
		Wrapped:  err,
	}
}
