package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/locamarrakech/booking-backend/internal/models"
	"github.com/locamarrakech/booking-backend/pkg/validator"
)

// ContactSender sends a contact-form message through the transactional
// email channel.
type ContactSender interface {
	SendContact(ctx context.Context, contact models.ContactMessage) models.Outcome
}

// ContactHandler handles contact form submissions. Contact messages go
// through the email channel only; there is no operator alert for them.
type ContactHandler struct {
	validator *validator.ContactValidator
	sender    ContactSender
	devMode   bool
}

// NewContactHandler creates a contact handler.
func NewContactHandler(v *validator.ContactValidator, sender ContactSender, devMode bool) *ContactHandler {
	return &ContactHandler{
		validator: v,
		sender:    sender,
		devMode:   devMode,
	}
}

// SendContact handles POST /api/contact.
func (h *ContactHandler) SendContact(c *gin.Context) {
	var req models.ContactRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, APIResponse{
			Success: false,
			Message: "Invalid request body",
		})
		return
	}

	contact, fieldErrs := h.validator.Validate(req)
	if len(fieldErrs) > 0 {
		c.JSON(http.StatusBadRequest, APIResponse{
			Success: false,
			Message: "Validation failed",
			Errors:  fieldErrs,
		})
		return
	}

	outcome := h.sender.SendContact(c.Request.Context(), contact)
	if !outcome.OK {
		resp := APIResponse{
			Success: false,
			Message: outcome.Reason,
		}
		if h.devMode {
			resp.Error = string(outcome.Category)
		}
		c.JSON(http.StatusInternalServerError, resp)
		return
	}

	c.JSON(http.StatusOK, APIResponse{
		Success: true,
		Message: "Message sent successfully",
	})
}
