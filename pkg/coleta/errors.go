package coleta

import (
	"errors"
	"fmt"
)

// ErrNotFound indicates the requested point does not exist.
var ErrNotFound = errors.New("point not found")

// FieldViolation is one server-reported field error.
type FieldViolation struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError carries the full list of field violations from a rejected
// submission. The server enumerates every violated field in one response.
type ValidationError struct {
	Message string           `json:"message"`
	Fields  []FieldViolation `json:"errors"`
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed: %d field(s) rejected", len(e.Fields))
}

// TransportError indicates the request never produced a usable response:
// a network failure or an unstructured non-2xx status. Submissions are not
// retried automatically.
type TransportError struct {
	Status int // zero when the request never reached the server
	Err    error
}

func (e *TransportError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("request failed: %v", e.Err)
	}
	return fmt.Sprintf("request failed with status %d", e.Status)
}

func (e *TransportError) Unwrap() error { return e.Err }
