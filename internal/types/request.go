package types

// RequestType identifies what kind of resource access is being validated.
type RequestType string

const (
	RequestTypeDownload RequestType = "download"
	RequestTypeExport   RequestType = "export"
)

func (t RequestType) Validate() bool {
	switch t {
	case RequestTypeDownload, RequestTypeExport:
		return true
	}
	return false
}

// Endpoint returns the rate-limit endpoint this request type maps to.
func (t RequestType) Endpoint() Endpoint {
	if t == RequestTypeExport {
		return EndpointExport
	}
	return EndpointDownload
}

// RequestStatus is the lifecycle state of an access request.
// A request transitions pending → approved|rejected exactly once.
type RequestStatus string

const (
	RequestStatusPending  RequestStatus = "pending"
	RequestStatusApproved RequestStatus = "approved"
	RequestStatusRejected RequestStatus = "rejected"
)

// ErrorCode is the stable rejection code surfaced to callers.
type ErrorCode string

const (
	ErrorCodeSubscriptionExpired ErrorCode = "subscription_expired"
	ErrorCodeQuotaExceeded       ErrorCode = "quota_exceeded"
	ErrorCodeRateLimit           ErrorCode = "rate_limit"
	ErrorCodeTierLimit           ErrorCode = "tier_limit"
	ErrorCodeServerError         ErrorCode = "server_error"
	ErrorCodeTemplateNotFound    ErrorCode = "template_not_found"
)
