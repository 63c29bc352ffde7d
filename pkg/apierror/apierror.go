package apierror

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// FieldError is a single field-level validation failure.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// APIError is the uniform failure payload of the mess API. The portal uses the
// same shape for its own failures so callers have a single rendering path.
type APIError struct {
	Timestamp string       `json:"timestamp,omitempty"`
	Status    int          `json:"status"`
	Reason    string       `json:"error"`
	Message   string       `json:"message"`
	Path      string       `json:"path,omitempty"`
	Details   []FieldError `json:"details,omitempty"`
}

func (e *APIError) Error() string {
	if e == nil {
		return ""
	}

	base := fmt.Sprintf("%d %s: %s", e.Status, e.Reason, e.Message)
	if len(e.Details) == 0 {
		return base
	}

	parts := make([]string, 0, len(e.Details))
	for _, d := range e.Details {
		parts = append(parts, d.Field+" "+d.Message)
	}

	return base + " (" + strings.Join(parts, "; ") + ")"
}

// HasDetails reports whether the error carries field-level validation failures.
func (e *APIError) HasDetails() bool {
	return e != nil && len(e.Details) > 0
}

func New(status int, message string, details ...FieldError) *APIError {
	return &APIError{
		Status:  status,
		Reason:  http.StatusText(status),
		Message: message,
		Details: details,
	}
}

// As unwraps err into an *APIError when one is present in the chain.
func As(err error) (*APIError, bool) {
	var apiErr *APIError
	if errors.As(err, &apiErr) && apiErr != nil {
		return apiErr, true
	}

	return nil, false
}

// MessageOf extracts a user-facing message from any error. Transport failures
// carry no structured body, so the fallback is used for them.
func MessageOf(err error, fallback string) string {
	if err == nil {
		return ""
	}

	if apiErr, ok := As(err); ok && strings.TrimSpace(apiErr.Message) != "" {
		return apiErr.Message
	}

	return fallback
}

func IsNotFound(err error) bool {
	apiErr, ok := As(err)
	return ok && apiErr.Status == http.StatusNotFound
}

func IsStatus(err error, status int) bool {
	apiErr, ok := As(err)
	return ok && apiErr.Status == status
}
