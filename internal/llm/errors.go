package llm

import (
	"errors"
	"net/http"

	openai "github.com/sashabaranov/go-openai"
)

// Sentinel error kinds. Every failure returned by OpenAIClient wraps exactly
// one of these so callers can use errors.Is. None of them is retried.
var (
	ErrAuth          = errors.New("llm: authentication failed")
	ErrRateLimit     = errors.New("llm: rate limited")
	ErrTransport     = errors.New("llm: transport error")
	ErrEmptyResponse = errors.New("llm: response contained no choices")
)

// Error is a classified generation failure.
type Error struct {
	Kind       error
	StatusCode int
	Err        error
}

func (e *Error) Error() string {
	if e.Err == nil {
		return e.Kind.Error()
	}
	return e.Kind.Error() + ": " + e.Err.Error()
}

// Unwrap exposes both the kind and the underlying cause.
func (e *Error) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}

// classify maps an error returned by the OpenAI SDK onto an Error.
func classify(err error) error {
	if err == nil {
		return nil
	}
	status := 0
	var apiErr *openai.APIError
	var reqErr *openai.RequestError
	switch {
	case errors.As(err, &apiErr):
		status = apiErr.HTTPStatusCode
	case errors.As(err, &reqErr):
		status = reqErr.HTTPStatusCode
	}
	return &Error{Kind: kindForStatus(status), StatusCode: status, Err: err}
}

func kindForStatus(status int) error {
	switch status {
	case http.StatusUnauthorized, http.StatusForbidden:
		return ErrAuth
	case http.StatusTooManyRequests:
		return ErrRateLimit
	default:
		return ErrTransport
	}
}

// Kind returns a short label for err suitable for metrics and logs.
func Kind(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, ErrAuth):
		return "auth"
	case errors.Is(err, ErrRateLimit):
		return "rate_limit"
	case errors.Is(err, ErrEmptyResponse):
		return "empty"
	case errors.Is(err, ErrTransport):
		return "transport"
	default:
		return "other"
	}
}
