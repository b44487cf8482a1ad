package task

import (
	"fmt"
	"strings"
)

// Reason classifies why a create request was rejected.
type Reason string

const (
	// ReasonMissing means the text field was absent or null.
	ReasonMissing Reason = "missing"

	// ReasonEmpty means the text was blank after trimming.
	ReasonEmpty Reason = "empty"
)

// CreateTaskRequest is the body of POST /api/tasks. Text is a pointer so an
// absent field can be told apart from an empty string.
type CreateTaskRequest struct {
	Text *string `json:"text"`
}

// ValidationError reports an invalid create request.
type ValidationError struct {
	Field  string
	Reason Reason
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// ValidationResult is the outcome of ValidateCreate: exactly one of Text
// (when Err is nil) or Err is meaningful.
type ValidationResult struct {
	Text string
	Err  *ValidationError
}

// Valid reports whether the request passed validation.
func (r ValidationResult) Valid() bool {
	return r.Err == nil
}

// ValidateCreate checks a create request and returns the trimmed text.
func ValidateCreate(req CreateTaskRequest) ValidationResult {
	if req.Text == nil {
		return ValidationResult{Err: &ValidationError{Field: "text", Reason: ReasonMissing}}
	}
	text := strings.TrimSpace(*req.Text)
	if text == "" {
		return ValidationResult{Err: &ValidationError{Field: "text", Reason: ReasonEmpty}}
	}
	return ValidationResult{Text: text}
}
