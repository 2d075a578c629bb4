package errors

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBuilderCarriesHintAndDetails(t *testing.T) {
	err := NewError("daily document quota exceeded").
		WithHint("You have used 5 of 5 documents today").
		WithReportableDetails(map[string]interface{}{
			"limit": 5,
			"used":  5,
		}).
		Mark(ErrQuotaExceeded)

	assert.True(t, IsQuotaExceeded(err))
	assert.Equal(t, "You have used 5 of 5 documents today", Hint(err))
	assert.Equal(t, 5, Details(err)["limit"])
}

func TestWithErrorPreservesMark(t *testing.T) {
	inner := NewError("document not found").Mark(ErrNotFound)
	wrapped := WithError(inner).
		WithHint("Template does not exist").
		Mark(ErrInternal)

	// Both marks are visible through the chain.
	assert.True(t, IsInternal(wrapped))
	assert.True(t, IsNotFound(wrapped))
}

func TestCodeMapping(t *testing.T) {
	tests := []struct {
		name string
		err  error
		code string
	}{
		{"subscription expired", NewError("x").Mark(ErrSubscriptionExpired), "subscription_expired"},
		{"quota exceeded", NewError("x").Mark(ErrQuotaExceeded), "quota_exceeded"},
		{"rate limit", NewError("x").Mark(ErrRateLimit), "rate_limit"},
		{"tier limit", NewError("x").Mark(ErrTierLimit), "tier_limit"},
		{"template not found", NewError("x").Mark(ErrTemplateNotFound), "template_not_found"},
		{"generic not found", NewError("x").Mark(ErrNotFound), "not_found"},
		{"validation", NewError("x").Mark(ErrValidation), "validation_error"},
		{"internal", NewError("x").Mark(ErrInternal), "server_error"},
		{"database", NewError("x").Mark(ErrDatabase), "server_error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.code, Code(tt.err))
		})
	}
}

func TestHTTPStatusMapping(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
	}{
		{"subscription expired", NewError("x").Mark(ErrSubscriptionExpired), http.StatusPaymentRequired},
		{"quota exceeded", NewError("x").Mark(ErrQuotaExceeded), http.StatusForbidden},
		{"tier limit", NewError("x").Mark(ErrTierLimit), http.StatusForbidden},
		{"rate limit", NewError("x").Mark(ErrRateLimit), http.StatusTooManyRequests},
		{"template not found", NewError("x").Mark(ErrTemplateNotFound), http.StatusNotFound},
		{"generic not found", NewError("x").Mark(ErrNotFound), http.StatusNotFound},
		{"validation", NewError("x").Mark(ErrValidation), http.StatusBadRequest},
		{"internal", NewError("x").Mark(ErrInternal), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.status, HTTPStatus(tt.err))
		})
	}
}

func TestErrorResponseShape(t *testing.T) {
	err := NewError("rate limit exceeded").
		WithHint("Too many download requests").
		WithReportableDetails(map[string]interface{}{"retry_after_seconds": 12}).
		Mark(ErrRateLimit)

	resp := NewErrorResponse(err)
	assert.False(t, resp.Success)
	assert.Equal(t, "rate_limit", resp.Error.Code)
	assert.Equal(t, "Too many download requests", resp.Error.Message)
	assert.Equal(t, 12, resp.Error.Details["retry_after_seconds"])
}
