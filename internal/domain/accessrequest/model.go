package accessrequest

import (
	"time"

	ierr "github.com/docuforge/docuforge/internal/errors"
	"github.com/docuforge/docuforge/internal/types"
)

// AccessRequest is a pending download/export request awaiting validation.
// Created by the caller, finalized exactly once by the orchestrator.
type AccessRequest struct {
	ID                  string             `json:"id"`
	RequesterID         string             `json:"requester_id"`
	RequestType         types.RequestType  `json:"request_type"`
	TargetResourceIDs   []string           `json:"target_resource_ids"`
	Status              types.RequestStatus `json:"status"`
	ApprovedResourceIDs []string           `json:"approved_resource_ids,omitempty"`
	Error               *RequestError      `json:"error,omitempty"`
	CreatedAt           time.Time          `json:"created_at"`
	UpdatedAt           time.Time          `json:"updated_at"`

	// Version is the document-store version, used for the version-checked
	// terminal write. Not serialized into the document body.
	Version int64 `json:"-"`
}

// RequestError is the structured rejection detail written into a finalized
// request so the caller can render a precise message.
type RequestError struct {
	Code              types.ErrorCode `json:"code"`
	Message           string          `json:"message"`
	Limit             *int            `json:"limit,omitempty"`
	Used              *int            `json:"used,omitempty"`
	Requested         *int            `json:"requested,omitempty"`
	RetryAfterSeconds *int            `json:"retry_after_seconds,omitempty"`
}

// IsFinalized reports whether the request already reached a terminal state.
func (r *AccessRequest) IsFinalized() bool {
	return r.Status == types.RequestStatusApproved || r.Status == types.RequestStatusRejected
}

// Validate checks the request shape before it enters the pipeline.
func (r *AccessRequest) Validate() error {
	if r.ID == "" {
		return ierr.NewError("request id is required").Mark(ierr.ErrValidation)
	}
	if r.RequesterID == "" {
		return ierr.NewError("requester_id is required").Mark(ierr.ErrValidation)
	}
	if !r.RequestType.Validate() {
		return ierr.NewError("invalid request_type").
			WithHintf("Request type must be %s or %s", types.RequestTypeDownload, types.RequestTypeExport).
			Mark(ierr.ErrValidation)
	}
	if len(r.TargetResourceIDs) == 0 {
		return ierr.NewError("target_resource_ids must not be empty").Mark(ierr.ErrValidation)
	}
	return nil
}
