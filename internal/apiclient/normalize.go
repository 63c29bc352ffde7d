package apiclient

import (
	"bytes"
	"encoding/json"
	"net/http"
	"strings"

	"mess-portal/pkg/apierror"
)

// Normalize turns an error response into the uniform error payload. A body that
// already has the payload shape is returned exactly as sent.
func Normalize(status int, body []byte, path string) *apierror.APIError {
	trimmed := bytes.TrimSpace(body)

	if len(trimmed) > 0 && trimmed[0] == '{' {
		var payload apierror.APIError
		if err := json.Unmarshal(trimmed, &payload); err == nil && (payload.Status != 0 || payload.Message != "") {
			return &payload
		}
	}

	message := strings.TrimSpace(string(trimmed))
	if message == "" || trimmed[0] == '{' || trimmed[0] == '<' {
		message = http.StatusText(status)
	}

	return &apierror.APIError{
		Status:  status,
		Reason:  http.StatusText(status),
		Message: message,
		Path:    path,
	}
}
