package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/locamarrakech/booking-backend/internal/models"
	"github.com/locamarrakech/booking-backend/internal/services"
	"github.com/locamarrakech/booking-backend/pkg/validator"
)

// APIResponse is the uniform JSON body for every endpoint.
type APIResponse struct {
	Success bool              `json:"success"`
	Message string            `json:"message,omitempty"`
	Error   string            `json:"error,omitempty"`
	Errors  map[string]string `json:"errors,omitempty"`
}

// BookingHandler handles booking form submissions.
type BookingHandler struct {
	validator  *validator.BookingValidator
	dispatcher *services.DispatchService

	// devMode controls whether internal error detail is included in 500
	// responses.
	devMode bool
}

// NewBookingHandler creates a booking handler.
func NewBookingHandler(v *validator.BookingValidator, dispatcher *services.DispatchService, devMode bool) *BookingHandler {
	return &BookingHandler{
		validator:  v,
		dispatcher: dispatcher,
		devMode:    devMode,
	}
}

// SendBooking handles POST /api/send-email.
//
// 200 on required-channel success, 400 with per-field errors on invalid
// input, 500 on required-channel failure or misconfiguration. The optional
// operator alert never influences the response.
func (h *BookingHandler) SendBooking(c *gin.Context) {
	var req models.BookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, APIResponse{
			Success: false,
			Message: "Invalid request body",
		})
		return
	}

	intent, fieldErrs := h.validator.Validate(req)
	if len(fieldErrs) > 0 {
		c.JSON(http.StatusBadRequest, APIResponse{
			Success: false,
			Message: "Validation failed",
			Errors:  fieldErrs,
		})
		return
	}

	outcome := h.dispatcher.Dispatch(c.Request.Context(), intent)
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
		Message: "Email sent successfully",
	})
}
