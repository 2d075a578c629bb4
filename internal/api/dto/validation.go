package dto

import (
	"github.com/docuforge/docuforge/internal/validator"
)

// ValidateDownloadRequest is the body of POST /v1/validate-download.
type ValidateDownloadRequest struct {
	TemplateID string `json:"templateId" validate:"required"`
	UserID     string `json:"userId" validate:"required"`
}

func (r *ValidateDownloadRequest) Validate() error {
	return validator.ValidateRequest(r)
}

// ValidateDownloadResponse carries the resource URL of an approved
// download.
type ValidateDownloadResponse struct {
	Success     bool   `json:"success"`
	ResourceURL string `json:"resourceUrl"`
}

// ValidateBulkExportRequest is the body of POST /v1/validate-bulk-export.
type ValidateBulkExportRequest struct {
	TemplateIDs []string `json:"templateIds" validate:"required,min=1,dive,required"`
	UserID      string   `json:"userId" validate:"required"`
}

func (r *ValidateBulkExportRequest) Validate() error {
	return validator.ValidateRequest(r)
}

// BulkExportRejection explains why one resource in a bulk export was not
// approved.
type BulkExportRejection struct {
	TemplateID string `json:"templateId"`
	Reason     string `json:"reason"`
}

// ValidateBulkExportResponse carries per-resource approved/rejected lists.
type ValidateBulkExportResponse struct {
	Success             bool                  `json:"success"`
	ApprovedResourceIDs []string              `json:"approvedResourceIds"`
	Rejected            []BulkExportRejection `json:"rejected,omitempty"`
}

// CreateAccessRequestRequest is the body callers use to enqueue a request
// on the store-triggered path.
type CreateAccessRequestRequest struct {
	RequesterID       string   `json:"requesterId" validate:"required"`
	RequestType       string   `json:"requestType" validate:"required,oneof=download export"`
	TargetResourceIDs []string `json:"targetResourceIds" validate:"required,min=1,dive,required"`
}

func (r *CreateAccessRequestRequest) Validate() error {
	return validator.ValidateRequest(r)
}

// AccessRequestResponse is the API view of an access request.
type AccessRequestResponse struct {
	ID                  string      `json:"id"`
	RequesterID         string      `json:"requesterId"`
	RequestType         string      `json:"requestType"`
	Status              string      `json:"status"`
	TargetResourceIDs   []string    `json:"targetResourceIds"`
	ApprovedResourceIDs []string    `json:"approvedResourceIds,omitempty"`
	Error               interface{} `json:"error,omitempty"`
}
