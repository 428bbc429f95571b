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

// ContactHandler handles the simple contact form
type ContactHandler struct {
	contactService ContactServiceInterface
}

// NewContactHandler creates a new contact handler
func NewContactHandler(contactService ContactServiceInterface) *ContactHandler {
	return &ContactHandler{
		contactService: contactService,
	}
}

// Submit forwards a contact message to the spreadsheet endpoint
// (POST /api/contact). Accepts form-encoded or JSON bodies.
func (h *ContactHandler) Submit(c *gin.Context) {
	var msg models.ContactMessage
	if err := c.ShouldBind(&msg); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"status": "Invalid request"})
		return
	}

	if err := h.contactService.Submit(c.Request.Context(), &msg); err != nil {
		if errors.Is(err, services.ErrContactValidation) {
			c.JSON(http.StatusBadRequest, gin.H{"status": err.Error()})
			return
		}
		logger.Warn("Contact submission failed",
			zap.String("email", msg.Email),
			zap.Error(err),
		)
		c.JSON(http.StatusBadGateway, gin.H{"status": "Submission failed. Please try again."})
		return
	}

	logger.Info("Contact submission forwarded", zap.String("email", msg.Email))
	c.JSON(http.StatusOK, gin.H{"status": "Submitted successfully"})
}
