package llm

import (
	"context"
	"errors"
	"fmt"
	"net"
)

var (
	// ErrUnsupportedProvider is returned for provider ids outside the registry.
	ErrUnsupportedProvider = errors.New("unsupported provider")
	// ErrUnsupportedModel is returned for models the provider does not list.
	ErrUnsupportedModel = errors.New("unsupported model")
)

// FailureKind classifies why a provider call produced no text.
type FailureKind string

const (
	FailureTimeout FailureKind = "timeout"
	FailureHTTP    FailureKind = "http_error"
	FailureNetwork FailureKind = "network_error"
	FailureUnknown FailureKind = "unknown"
)

// ProviderRequestError describes a failed provider call.
type ProviderRequestError struct {
	Provider   ProviderID
	Kind       FailureKind
	StatusCode int
	Body       string
	Err        error
}

func (e *ProviderRequestError) Error() string {
	switch {
	case e.StatusCode != 0:
		return fmt.Sprintf("%s request failed: kind=%s status=%d body=%s", e.Provider, e.Kind, e.StatusCode, e.Body)
	case e.Err != nil:
		return fmt.Sprintf("%s request failed: kind=%s: %v", e.Provider, e.Kind, e.Err)
	default:
		return fmt.Sprintf("%s request failed: kind=%s", e.Provider, e.Kind)
	}
}

func (e *ProviderRequestError) Unwrap() error {
	return e.Err
}

// Classify maps any error from Complete onto a FailureKind.
func Classify(err error) FailureKind {
	if err == nil {
		return ""
	}
	var reqErr *ProviderRequestError
	if errors.As(err, &reqErr) {
		return reqErr.Kind
	}
	return classifyTransport(err)
}

func classifyTransport(err error) FailureKind {
	if errors.Is(err, context.DeadlineExceeded) {
		return FailureTimeout
	}
	var netErr net.Error
	if errors.As(err, &netErr) {
		if netErr.Timeout() {
			return FailureTimeout
		}
		return FailureNetwork
	}
	return FailureUnknown
}
