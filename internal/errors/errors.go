package errors

import (
	"github.com/cockroachdb/errors"
)

// Sentinel errors used with Mark to classify failures. Callers test for
// them with the Is* helpers or errors.Is; handlers map them to HTTP codes.
var (
	ErrValidation          = errors.New("validation_error")
	ErrNotFound            = errors.New("not_found")
	ErrTemplateNotFound    = errors.New("template_not_found")
	ErrAlreadyExists       = errors.New("already_exists")
	ErrVersionConflict     = errors.New("version_conflict")
	ErrPermissionDenied    = errors.New("permission_denied")
	ErrSubscriptionExpired = errors.New("subscription_expired")
	ErrQuotaExceeded       = errors.New("quota_exceeded")
	ErrRateLimit           = errors.New("rate_limit")
	ErrTierLimit           = errors.New("tier_limit")
	ErrDatabase            = errors.New("database_error")
	ErrInternal            = errors.New("internal_error")
)

// InternalError carries a message plus optional hint and reportable details
// that are safe to surface to API callers.
type InternalError struct {
	message           string
	hint              string
	reportableDetails map[string]interface{}
	cause             error
}

func (e *InternalError) Error() string {
	if e.cause != nil {
		return e.message + ": " + e.cause.Error()
	}
	return e.message
}

func (e *InternalError) Unwrap() error {
	return e.cause
}

// Hint returns the user-facing hint, if any.
func (e *InternalError) Hint() string {
	return e.hint
}

// ReportableDetails returns details safe to include in an API response.
func (e *InternalError) ReportableDetails() map[string]interface{} {
	return e.reportableDetails
}

// ErrorBuilder provides a fluent API for constructing classified errors.
type ErrorBuilder struct {
	err *InternalError
}

// NewError starts building an error from a message.
func NewError(message string) *ErrorBuilder {
	return &ErrorBuilder{err: &InternalError{message: message}}
}

// NewErrorf starts building an error from a formatted message.
func NewErrorf(format string, args ...interface{}) *ErrorBuilder {
	return &ErrorBuilder{err: &InternalError{message: errors.Newf(format, args...).Error()}}
}

// WithError starts building an error that wraps an existing cause.
func WithError(err error) *ErrorBuilder {
	return &ErrorBuilder{err: &InternalError{message: "error", cause: err}}
}

// WithHint attaches a human-readable hint for API consumers.
func (b *ErrorBuilder) WithHint(hint string) *ErrorBuilder {
	b.err.hint = hint
	return b
}

// WithHintf attaches a formatted hint.
func (b *ErrorBuilder) WithHintf(format string, args ...interface{}) *ErrorBuilder {
	b.err.hint = errors.Newf(format, args...).Error()
	return b
}

// WithMessage overrides the internal message.
func (b *ErrorBuilder) WithMessage(message string) *ErrorBuilder {
	b.err.message = message
	return b
}

// WithReportableDetails attaches structured details that are safe to return
// to the caller (limits, usage counts, retry hints).
func (b *ErrorBuilder) WithReportableDetails(details map[string]interface{}) *ErrorBuilder {
	b.err.reportableDetails = details
	return b
}

// Mark finalizes the builder, classifying the error against a sentinel so
// that errors.Is(result, sentinel) holds.
func (b *ErrorBuilder) Mark(sentinel error) error {
	return errors.Mark(b.err, sentinel)
}

// Classification helpers.

func IsValidation(err error) bool          { return errors.Is(err, ErrValidation) }
func IsNotFound(err error) bool            { return errors.Is(err, ErrNotFound) }
func IsTemplateNotFound(err error) bool    { return errors.Is(err, ErrTemplateNotFound) }
func IsAlreadyExists(err error) bool       { return errors.Is(err, ErrAlreadyExists) }
func IsVersionConflict(err error) bool     { return errors.Is(err, ErrVersionConflict) }
func IsPermissionDenied(err error) bool    { return errors.Is(err, ErrPermissionDenied) }
func IsSubscriptionExpired(err error) bool { return errors.Is(err, ErrSubscriptionExpired) }
func IsQuotaExceeded(err error) bool       { return errors.Is(err, ErrQuotaExceeded) }
func IsRateLimit(err error) bool           { return errors.Is(err, ErrRateLimit) }
func IsTierLimit(err error) bool           { return errors.Is(err, ErrTierLimit) }
func IsDatabase(err error) bool            { return errors.Is(err, ErrDatabase) }
func IsInternal(err error) bool            { return errors.Is(err, ErrInternal) }

// Hint extracts the hint from an error chain, if present.
func Hint(err error) string {
	var ie *InternalError
	if errors.As(err, &ie) {
		return ie.Hint()
	}
	return ""
}

// Details extracts reportable details from an error chain, if present.
func Details(err error) map[string]interface{} {
	var ie *InternalError
	if errors.As(err, &ie) {
		return ie.ReportableDetails()
	}
	return nil
}
