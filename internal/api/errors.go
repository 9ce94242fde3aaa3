// ABOUTME: Error types surfaced by the API client
// ABOUTME: Wraps server error responses with status code and message

package api

import (
	"errors"
	"fmt"
)

// ErrEmptyID is returned when a resource operation is invoked without an id.
var ErrEmptyID = errors.New("resource id must not be empty")

// errorResponse is the JSON error body served by the backend.
type errorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

// APIError is a non-success response from the backend. The client does not
// interpret the status code; callers decide what to do with it.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("server returned status %d", e.StatusCode)
	}
	return fmt.Sprintf("server error (%d): %s", e.StatusCode, e.Message)
}

// AsAPIError unwraps err into an *APIError if there is one in the chain.
func AsAPIError(err error) (*APIError, bool) {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr, true
	}
	return nil, false
}
