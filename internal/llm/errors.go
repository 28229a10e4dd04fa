package llm

import (
	"context"
	"errors"
	"fmt"
	"net"

	"github.com/openai/openai-go"

	"github.com/kovalevdev/chatmate/core/guard"
)

// Kind classifies a capability failure for retry and user-messaging decisions.
type Kind string

const (
	KindTimeout      Kind = "timeout"
	KindRateLimited  Kind = "rate_limited"
	KindAuth         Kind = "auth"
	KindInvalidInput Kind = "invalid_input"
	KindProvider     Kind = "provider"
)

// CapabilityError wraps a provider failure with the operation name and a
// coarse failure kind. Auth and invalid-input failures are non-retryable.
type CapabilityError struct {
	Op   string
	Kind Kind
	Err  error
}

func (e *CapabilityError) Error() string {
	return fmt.Sprintf("llm %s: %s: %v", e.Op, e.Kind, e.Err)
}

func (e *CapabilityError) Unwrap() error { return e.Err }

// wrapErr classifies err into a CapabilityError and marks permanent failures
// non-retryable for the guard wrapper.
func wrapErr(op string, err error) error {
	if err == nil {
		return nil
	}

	kind := KindProvider
	var apierr *openai.Error
	switch {
	case errors.As(err, &apierr):
		switch {
		case apierr.StatusCode == 401 || apierr.StatusCode == 403:
			kind = KindAuth
		case apierr.StatusCode == 429:
			kind = KindRateLimited
		case apierr.StatusCode >= 400 && apierr.StatusCode < 500:
			kind = KindInvalidInput
		}
	case errors.Is(err, context.DeadlineExceeded):
		kind = KindTimeout
	default:
		var nerr net.Error
		if errors.As(err, &nerr) && nerr.Timeout() {
			kind = KindTimeout
		}
	}

	cerr := &CapabilityError{Op: op, Kind: kind, Err: err}
	if kind == KindAuth || kind == KindInvalidInput {
		return guard.NonRetryable(cerr)
	}
	return cerr
}
