package gemini

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"google.golang.org/genai"
)

// ErrEmptyResponse is returned when the API answers 200 without any candidate text.
var ErrEmptyResponse = errors.New("API returned empty response")

// StatusError is a non-2xx reply from the API.
type StatusError struct {
	Code    int
	Status  string // e.g. PERMISSION_DENIED
	Message string
}

func (e *StatusError) Error() string {
	if e.Status != "" {
		return fmt.Sprintf("HTTP %d %s: %s", e.Code, e.Status, e.Message)
	}
	return fmt.Sprintf("HTTP %d: %s", e.Code, e.Message)
}

// Hint suggests what to check for the status code.
func (e *StatusError) Hint() string {
	switch {
	case e.Code == http.StatusBadRequest:
		return "Invalid request format. The server rejected the request."
	case e.Code == http.StatusUnauthorized || e.Code == http.StatusForbidden:
		return "Invalid API key. Check GEMINI_API_KEY."
	case e.Code == http.StatusNotFound:
		return "Model or endpoint not found. Run `calmkit models` to see what is available."
	case e.Code == http.StatusTooManyRequests:
		return "Rate limit reached. Wait a moment and try again."
	case e.Code >= 500:
		return "Gemini server error. Try again in a moment."
	}
	return ""
}

// TimeoutError reports a request that ran past its deadline.
type TimeoutError struct {
	Timeout time.Duration
	Err     error
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("request timeout (%s)", e.Timeout)
}

func (e *TimeoutError) Unwrap() error { return e.Err }

// classify converts SDK and transport errors into StatusError or TimeoutError.
func classify(err error, timeout time.Duration) error {
	if err == nil {
		return nil
	}

	var apiErr genai.APIError
	if errors.As(err, &apiErr) {
		return &StatusError{Code: apiErr.Code, Status: apiErr.Status, Message: apiErr.Message}
	}
	var apiErrPtr *genai.APIError
	if errors.As(err, &apiErrPtr) && apiErrPtr != nil {
		return &StatusError{Code: apiErrPtr.Code, Status: apiErrPtr.Status, Message: apiErrPtr.Message}
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return &TimeoutError{Timeout: timeout, Err: err}
	}

	return err
}
