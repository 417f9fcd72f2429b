package oracle

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"google.golang.org/genai"
)

type ErrorKind int

const (
	// Retryable errors are retried on the same provider with backoff.
	Retryable ErrorKind = iota
	// Skip moves on to the next provider immediately.
	Skip
	// Terminal stops the whole chain.
	Terminal
)

func (k ErrorKind) String() string {
	switch k {
	case Retryable:
		return "retryable"
	case Skip:
		return "skip"
	case Terminal:
		return "terminal"
	default:
		return "unknown"
	}
}

var (
	ErrExhausted = errors.New("oracle: all providers failed or were rate limited")
	ErrEmpty     = errors.New("oracle: empty response")
)

type RateLimitError struct {
	Provider string
	Err      error
}

func (e *RateLimitError) Error() string {
	return fmt.Sprintf("oracle: %s rate limited: %v", e.Provider, e.Err)
}

func (e *RateLimitError) Unwrap() error { return e.Err }

type NotFoundError struct {
	Provider string
	Err      error
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("oracle: %s not found: %v", e.Provider, e.Err)
}

func (e *NotFoundError) Unwrap() error { return e.Err }

// Classify decides what the chain does with a provider error. Unknown errors
// are retried like rate limits.
func Classify(err error) ErrorKind {
	if err == nil {
		return Retryable
	}

	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return Terminal
	}

	var rl *RateLimitError
	if errors.As(err, &rl) {
		return Retryable
	}
	var nf *NotFoundError
	if errors.As(err, &nf) {
		return Skip
	}

	if code, ok := statusCode(err); ok {
		switch {
		case code == http.StatusTooManyRequests:
			return Retryable
		case code == http.StatusNotFound:
			return Skip
		case code == http.StatusUnauthorized || code == http.StatusForbidden:
			return Terminal
		case code == http.StatusBadRequest:
			return Skip
		case code >= http.StatusInternalServerError:
			return Retryable
		}
	}

	msg := strings.ToLower(err.Error())
	switch {
	case strings.Contains(msg, "429"), strings.Contains(msg, "rate limit"), strings.Contains(msg, "resource_exhausted"):
		return Retryable
	case strings.Contains(msg, "404"), strings.Contains(msg, "not found"):
		return Skip
	}

	return Retryable
}

func statusCode(err error) (int, bool) {
	var apiErr genai.APIError
	if errors.As(err, &apiErr) {
		return apiErr.Code, true
	}
	var apiErrPtr *genai.APIError
	if errors.As(err, &apiErrPtr) && apiErrPtr != nil {
		return apiErrPtr.Code, true
	}
	return 0, false
}
