package handlers

import (
	"context"
	"net/http"
	"sync"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/locamarrakech/booking-backend/internal/models"
	"github.com/locamarrakech/booking-backend/pkg/validator"
)

// fakeContactSender records the last contact message it was asked to send.
type fakeContactSender struct {
	mu      sync.Mutex
	outcome models.Outcome
	last    models.ContactMessage
	calls   int
}

func (f *fakeContactSender) SendContact(_ context.Context, contact models.ContactMessage) models.Outcome {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	f.last = contact
	return f.outcome
}

func contactRouter(sender ContactSender, devMode bool) *gin.Engine {
	handler := NewContactHandler(validator.NewContactValidator(), sender, devMode)
	router := gin.New()
	router.POST("/api/contact", handler.SendContact)
	return router
}

func validContactBody() map[string]any {
	return map[string]any{
		"name":    "Fatima Zahra",
		"email":   "fatima@example.com",
		"phone":   "0661234567",
		"message": "Do you deliver to the airport?",
	}
}

func TestSendContact_Success(t *testing.T) {
	sender := &fakeContactSender{outcome: models.Success("msg-1")}
	router := contactRouter(sender, false)

	w := postJSON(router, "/api/contact", validContactBody())

	require.Equal(t, http.StatusOK, w.Code)
	resp := decodeResponse(t, w)
	assert.True(t, resp.Success)
	assert.Equal(t, "Message sent successfully", resp.Message)
	assert.Equal(t, "Fatima Zahra", sender.last.Name)
}

func TestSendContact_ValidationErrors(t *testing.T) {
	sender := &fakeContactSender{outcome: models.Success("msg-1")}
	router := contactRouter(sender, false)

	body := validContactBody()
	delete(body, "message")

	w := postJSON(router, "/api/contact", body)

	require.Equal(t, http.StatusBadRequest, w.Code)
	resp := decodeResponse(t, w)
	assert.Equal(t, "Message is required", resp.Errors["message"])
	assert.Equal(t, 0, sender.calls, "invalid input must not reach the sender")
}

func TestSendContact_SendFailure(t *testing.T) {
	sender := &fakeContactSender{
		outcome: models.Failure(models.CategoryNotConfigured, "Email service not configured."),
	}
	router := contactRouter(sender, true)

	w := postJSON(router, "/api/contact", validContactBody())

	require.Equal(t, http.StatusInternalServerError, w.Code)
	resp := decodeResponse(t, w)
	assert.Equal(t, "Email service not configured.", resp.Message)
	assert.Equal(t, "not_configured", resp.Error)
}
