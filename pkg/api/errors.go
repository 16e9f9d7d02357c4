package api

import (
	"fmt"
	"net/http"
	"strings"

	json "github.com/goccy/go-json"
)

// APIError is returned for any non-2xx response from the analytics service.
// Detail carries the optional {"detail": "..."} body the backend sends on
// upstream failures.
type APIError struct {
	StatusCode int
	Detail     string
	HasDetail  bool
}

func (e *APIError) Error() string {
	if e.HasDetail {
		return fmt.Sprintf("api: status %d: %s", e.StatusCode, e.Detail)
	}
	return fmt.Sprintf("api: status %d %s", e.StatusCode, http.StatusText(e.StatusCode))
}

// IsRateLimited reports whether the service rejected the call for quota.
func (e *APIError) IsRateLimited() bool {
	return e.StatusCode == http.StatusTooManyRequests
}

// newAPIError builds an APIError from a response status and body. A body that
// is not a JSON object with a string detail leaves HasDetail false.
func newAPIError(status int, body []byte) *APIError {
	apiErr := &APIError{StatusCode: status}
	var envelope struct {
		Detail *string `json:"detail"`
	}
	if err := json.Unmarshal(body, &envelope); err == nil && envelope.Detail != nil {
		if strings.TrimSpace(*envelope.Detail) != "" {
			apiErr.Detail = *envelope.Detail
			apiErr.HasDetail = true
		}
	}
	return apiErr
}
