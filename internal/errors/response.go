package errors

import (
	"net/http"

	"github.com/cockroachdb/errors"
)

// ErrorResponse is the JSON error envelope returned by the HTTP API.
type ErrorResponse struct {
	Success bool        `json:"success"`
	Error   ErrorDetail `json:"error"`
}

// ErrorDetail carries the machine-readable code plus the human-readable
// message and any reportable numeric fields (limit, used, retry_after_seconds).
type ErrorDetail struct {
	Code    string                 `json:"code"`
	Message string                 `json:"message"`
	Details map[string]interface{} `json:"details,omitempty"`
}

// NewErrorResponse builds the wire representation of an error.
func NewErrorResponse(err error) *ErrorResponse {
	message := Hint(err)
	if message == "" {
		message = err.Error()
	}

	return &ErrorResponse{
		Success: false,
		Error: ErrorDetail{
			Code:    Code(err),
			Message: message,
			Details: Details(err),
		},
	}
}

// Code returns the stable error code for an error chain.
func Code(err error) string {
	switch {
	case errors.Is(err, ErrValidation):
		return "validation_error"
	case errors.Is(err, ErrTemplateNotFound):
		return "template_not_found"
	case errors.Is(err, ErrNotFound):
		return "not_found"
	case errors.Is(err, ErrAlreadyExists):
		return "already_exists"
	case errors.Is(err, ErrVersionConflict):
		return "version_conflict"
	case errors.Is(err, ErrPermissionDenied):
		return "permission_denied"
	case errors.Is(err, ErrSubscriptionExpired):
		return "subscription_expired"
	case errors.Is(err, ErrQuotaExceeded):
		return "quota_exceeded"
	case errors.Is(err, ErrRateLimit):
		return "rate_limit"
	case errors.Is(err, ErrTierLimit):
		return "tier_limit"
	case errors.Is(err, ErrDatabase), errors.Is(err, ErrInternal):
		return "server_error"
	default:
		return "server_error"
	}
}

// HTTPStatus maps an error chain to the HTTP status the API contract
// promises for it.
func HTTPStatus(err error) int {
	switch {
	case errors.Is(err, ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, ErrTemplateNotFound), errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrAlreadyExists):
		return http.StatusConflict
	case errors.Is(err, ErrSubscriptionExpired):
		return http.StatusPaymentRequired
	case errors.Is(err, ErrQuotaExceeded), errors.Is(err, ErrTierLimit), errors.Is(err, ErrPermissionDenied):
		return http.StatusForbidden
	case errors.Is(err, ErrRateLimit):
		return http.StatusTooManyRequests
	default:
		return http.StatusInternalServerError
	}
}
