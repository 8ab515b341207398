package api

import (
	"encoding/json"
	"fmt"
	"strings"
)

// APIError is a non-2xx response from the backend.
type APIError struct {
	Method  string
	Path    string
	Status  int
	Message string
	Body    string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("api: %s %s: remote error %d: %s", e.Method, e.Path, e.Status, e.Message)
	}
	return fmt.Sprintf("api: %s %s: remote error %d", e.Method, e.Path, e.Status)
}

// UserMessage returns the backend supplied error text, if any.
func (e *APIError) UserMessage() string { return e.Message }

// NetworkError wraps a request that never produced a response.
type NetworkError struct {
	Method string
	Path   string
	Err    error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("api: %s %s: http request: %v", e.Method, e.Path, e.Err)
}

func (e *NetworkError) Unwrap() error { return e.Err }

// errorMessage extracts the operator facing text from an error body. The
// backend uses {"error": "..."}; framework level failures use {"detail": "..."}
// or a map of field errors.
func errorMessage(body []byte) string {
	var envelope map[string]any
	if err := json.Unmarshal(body, &envelope); err != nil {
		return ""
	}
	for _, key := range []string{"error", "detail", "message"} {
		if msg, ok := envelope[key].(string); ok && strings.TrimSpace(msg) != "" {
			return strings.TrimSpace(msg)
		}
	}
	for key, value := range envelope {
		if list, ok := value.([]any); ok && len(list) > 0 {
			if msg, ok := list[0].(string); ok {
				return key + ": " + msg
			}
		}
	}
	return ""
}
