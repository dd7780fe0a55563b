package client

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// ErrSessionExpired is matched (errors.Is) by any 401 on an authenticated call
var ErrSessionExpired = errors.New("session expired")

// APIError is a non-2xx response from the backend. The body is passed
// through untouched for callers that want to display it.
type APIError struct {
	Method     string
	Path       string
	StatusCode int
	Message    string
	Body       []byte
	RequestID  string

	sessionExpired bool
}

func newAPIError(r *request, status int, body []byte) *APIError {
	return &APIError{
		Method:     r.method,
		Path:       r.path,
		StatusCode: status,
		Message:    extractMessage(body),
		Body:       body,
		RequestID:  r.id,
	}
}

func (e *APIError) Error() string {
	msg := e.Message
	if msg == "" {
		msg = strings.TrimSpace(string(e.Body))
	}
	return fmt.Sprintf("%s %s failed (status %d): %s", e.Method, e.Path, e.StatusCode, msg)
}

// Is lets errors.Is(err, ErrSessionExpired) match authenticated 401s
func (e *APIError) Is(target error) bool {
	return target == ErrSessionExpired && e.sessionExpired
}

// extractMessage pulls the human-readable part out of the backend's
// {"message": ...} or {"error": ...} bodies
func extractMessage(body []byte) string {
	var payload struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return ""
	}
	if payload.Message != "" && payload.Error != "" && payload.Message != payload.Error {
		return fmt.Sprintf("%s: %s", payload.Message, payload.Error)
	}
	if payload.Message != "" {
		return payload.Message
	}
	return payload.Error
}

// StatusCode returns the HTTP status carried by err, or 0
func StatusCode(err error) int {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode
	}
	return 0
}
