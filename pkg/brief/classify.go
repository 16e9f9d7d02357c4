package brief

import (
	"errors"
	"strings"

	"github.com/vanderheijden86/trendscope/pkg/api"
)

const (
	rateLimitMessage   = "AI quota exhausted. Please wait 60 seconds before generating another brief."
	unreachableMessage = "The brief service is unreachable. Confirm the backend is running and its API credentials are configured."
)

// Classify maps a fetch error to an ErrorKind and a user-facing message.
//
// HTTP 429, or an upstream detail mentioning 429 or Quota, is a rate limit.
// Any other detail is surfaced verbatim. Errors carrying no detail, including
// transport failures, are treated as the service being unreachable.
func Classify(err error) (ErrorKind, string) {
	if err == nil {
		return ErrorNone, ""
	}
	var apiErr *api.APIError
	if !errors.As(err, &apiErr) {
		return ErrorNetwork, unreachableMessage
	}
	if apiErr.IsRateLimited() {
		return ErrorRateLimit, rateLimitMessage
	}
	if apiErr.HasDetail {
		if strings.Contains(apiErr.Detail, "429") || strings.Contains(apiErr.Detail, "Quota") {
			return ErrorRateLimit, rateLimitMessage
		}
		return ErrorUpstreamDetail, apiErr.Detail
	}
	return ErrorNetwork, unreachableMessage
}
