package handlers

import (
	"errors"
	"net/http"

	"github.com/art2002-alugu/infimobile-form/internal/models"
	"github.com/art2002-alugu/infimobile-form/internal/services"
	"github.com/art2002-alugu/infimobile-form/pkg/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// IntakeHandler exposes the intake form operations: draft editing, duplicate
// lookup, the two-step submit, and the export projections.
type IntakeHandler struct {
	coordinator IntakeCoordinatorInterface
}

// NewIntakeHandler creates a new intake handler
func NewIntakeHandler(coordinator IntakeCoordinatorInterface) *IntakeHandler {
	return &IntakeHandler{
		coordinator: coordinator,
	}
}

// GetDraft returns the current draft (GET /api/intake/draft)
func (h *IntakeHandler) GetDraft(c *gin.Context) {
	c.JSON(http.StatusOK, h.coordinator.Draft())
}

// PutDraft replaces the draft and reports the duplicate candidate
// (PUT /api/intake/draft)
func (h *IntakeHandler) PutDraft(c *gin.Context) {
	var sub models.Submission
	if err := c.ShouldBindJSON(&sub); err != nil {
		logger.Warn("Invalid draft payload", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	if err := h.coordinator.SetDraft(&sub); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":    "saved",
		"duplicate": h.coordinator.Candidate(),
	})
}

// ResetDraft discards the draft (POST /api/intake/draft/reset)
func (h *IntakeHandler) ResetDraft(c *gin.Context) {
	h.coordinator.Reset()
	c.JSON(http.StatusOK, gin.H{"status": "reset"})
}

// AddExtraField appends an ad-hoc field to the draft
// (POST /api/intake/draft/fields)
func (h *IntakeHandler) AddExtraField(c *gin.Context) {
	var req struct {
		Label string `json:"label"`
	}
	// An empty body is allowed; the service falls back to a default label
	_ = c.ShouldBindJSON(&req)

	field := h.coordinator.AddExtraField(req.Label)
	c.JSON(http.StatusOK, field)
}

// CopyDraft returns the pretty-printed draft for the clipboard
// (GET /api/intake/draft/copy)
func (h *IntakeHandler) CopyDraft(c *gin.Context) {
	data, err := services.DraftJSON(h.coordinator.Draft())
	if err != nil {
		logger.Error("Failed to render draft", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to render draft"})
		return
	}
	c.Data(http.StatusOK, "application/json", data)
}

// GetDuplicate returns the current duplicate candidate, or null
// (GET /api/intake/duplicate)
func (h *IntakeHandler) GetDuplicate(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"duplicate": h.coordinator.Candidate()})
}

// Submit runs a submit action (POST /api/intake/submit)
// A duplicate parks the flow awaiting an explicit confirm or abort.
func (h *IntakeHandler) Submit(c *gin.Context) {
	logger.Info("Intake submit endpoint called")

	res, err := h.coordinator.Submit(c.Request.Context())
	if err != nil {
		h.submitError(c, err)
		return
	}

	if res.Outcome == services.OutcomeDuplicate {
		c.JSON(http.StatusConflict, res)
		return
	}
	c.JSON(http.StatusOK, res)
}

// ConfirmSubmit appends the pending update entry (POST /api/intake/submit/confirm)
func (h *IntakeHandler) ConfirmSubmit(c *gin.Context) {
	res, err := h.coordinator.Confirm(c.Request.Context())
	if err != nil {
		h.submitError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

// AbortSubmit declines the pending append (POST /api/intake/submit/abort)
func (h *IntakeHandler) AbortSubmit(c *gin.Context) {
	res, err := h.coordinator.Abort()
	if err != nil {
		h.submitError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

// ListSubmissions returns the locally observed submissions, newest first
// (GET /api/intake/submissions)
func (h *IntakeHandler) ListSubmissions(c *gin.Context) {
	records := h.coordinator.Records()
	if records == nil {
		records = []*models.Record{}
	}
	c.JSON(http.StatusOK, records)
}

// ExportCSV serves the submission list as a downloadable CSV file
// (GET /api/intake/export.csv)
func (h *IntakeHandler) ExportCSV(c *gin.Context) {
	csv := services.ExportCSV(h.coordinator.Records())
	c.Header("Content-Disposition", `attachment; filename="infimobile_entries.csv"`)
	c.Data(http.StatusOK, "text/csv; charset=utf-8", []byte(csv))
}

func (h *IntakeHandler) submitError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrInvalidMDN):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, services.ErrConfirmationPending),
		errors.Is(err, services.ErrNoPendingConfirmation):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	default:
		logger.Error("Submit failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Submit failed"})
	}
}
