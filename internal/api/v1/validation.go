package v1

import (
	"net/http"

	"github.com/docuforge/docuforge/internal/api/dto"
	ierr "github.com/docuforge/docuforge/internal/errors"
	"github.com/docuforge/docuforge/internal/logger"
	"github.com/docuforge/docuforge/internal/service"
	"github.com/gin-gonic/gin"
)

type ValidationHandler struct {
	service service.ValidationService
	log     *logger.Logger
}

func NewValidationHandler(service service.ValidationService, log *logger.Logger) *ValidationHandler {
	return &ValidationHandler{service: service, log: log}
}

// ValidateDownload validates a single template download, applying the same
// subscription/rate-limit/quota gates as the store-triggered path. On
// success the daily usage counter has already been incremented.
func (h *ValidationHandler) ValidateDownload(c *gin.Context) {
	var req dto.ValidateDownloadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.log.Error("Failed to bind JSON", "error", err)
		c.Error(ierr.WithError(err).
			WithHint("Invalid request format").
			Mark(ierr.ErrValidation))
		return
	}

	resp, err := h.service.ValidateDownload(c.Request.Context(), &req)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// ValidateBulkExport validates a bulk export request. The tier-based batch
// cap is applied before any quota or rate-limit work.
func (h *ValidationHandler) ValidateBulkExport(c *gin.Context) {
	var req dto.ValidateBulkExportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.log.Error("Failed to bind JSON", "error", err)
		c.Error(ierr.WithError(err).
			WithHint("Invalid request format").
			Mark(ierr.ErrValidation))
		return
	}

	resp, err := h.service.ValidateBulkExport(c.Request.Context(), &req)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// CreateAccessRequest enqueues a pending access request; the dispatcher
// picks it up and writes the verdict asynchronously.
func (h *ValidationHandler) CreateAccessRequest(c *gin.Context) {
	var req dto.CreateAccessRequestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.log.Error("Failed to bind JSON", "error", err)
		c.Error(ierr.WithError(err).
			WithHint("Invalid request format").
			Mark(ierr.ErrValidation))
		return
	}

	request, err := h.service.CreateAccessRequest(c.Request.Context(), &req)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusAccepted, dto.AccessRequestResponse{
		ID:                request.ID,
		RequesterID:       request.RequesterID,
		RequestType:       string(request.RequestType),
		Status:            string(request.Status),
		TargetResourceIDs: request.TargetResourceIDs,
	})
}
