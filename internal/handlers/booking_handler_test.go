package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/locamarrakech/booking-backend/internal/models"
	"github.com/locamarrakech/booking-backend/internal/services"
	"github.com/locamarrakech/booking-backend/pkg/validator"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func testLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

func bookingRouter(required services.Channel, devMode bool) *gin.Engine {
	dispatcher := services.NewDispatchService(required, nil, testLogger())
	handler := NewBookingHandler(validator.NewBookingValidator(), dispatcher, devMode)

	router := gin.New()
	router.HandleMethodNotAllowed = true
	router.NoMethod(func(c *gin.Context) {
		c.JSON(http.StatusMethodNotAllowed, APIResponse{Success: false, Message: "Method not allowed"})
	})
	router.POST("/api/send-email", handler.SendBooking)
	return router
}

func successChannel() services.Channel {
	return services.ChannelFunc(func(_ context.Context, _ models.BookingIntent) models.Outcome {
		return models.Success("msg-1")
	})
}

func validBookingBody() map[string]any {
	return map[string]any{
		"fullName":    "Ahmed Benali",
		"email":       "ahmed@example.com",
		"phoneNumber": "0612345678",
		"city":        "Marrakech",
		"startDate":   "2030-06-20",
		"endDate":     "2030-06-25",
		"carName":     "Dacia Duster",
		"carPrice":    "35",
	}
}

func postJSON(router *gin.Engine, path string, body any) *httptest.ResponseRecorder {
	payload, _ := json.Marshal(body)
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func decodeResponse(t *testing.T, w *httptest.ResponseRecorder) APIResponse {
	t.Helper()
	var resp APIResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}

func TestSendBooking_Success(t *testing.T) {
	router := bookingRouter(successChannel(), false)

	w := postJSON(router, "/api/send-email", validBookingBody())

	require.Equal(t, http.StatusOK, w.Code)
	resp := decodeResponse(t, w)
	assert.True(t, resp.Success)
	assert.Equal(t, "Email sent successfully", resp.Message)
}

func TestSendBooking_MalformedJSON(t *testing.T) {
	router := bookingRouter(successChannel(), false)

	req := httptest.NewRequest(http.MethodPost, "/api/send-email", bytes.NewReader([]byte("{not json")))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusBadRequest, w.Code)
	resp := decodeResponse(t, w)
	assert.False(t, resp.Success)
	assert.Equal(t, "Invalid request body", resp.Message)
}

func TestSendBooking_ValidationErrors(t *testing.T) {
	router := bookingRouter(successChannel(), false)

	body := validBookingBody()
	body["email"] = "not-an-email"
	delete(body, "city")

	w := postJSON(router, "/api/send-email", body)

	require.Equal(t, http.StatusBadRequest, w.Code)
	resp := decodeResponse(t, w)
	assert.False(t, resp.Success)
	assert.Equal(t, "Validation failed", resp.Message)
	assert.Equal(t, "Email address is not valid", resp.Errors["email"])
	assert.Equal(t, "City is required", resp.Errors["city"])
}

func TestSendBooking_DispatchFailure(t *testing.T) {
	failing := services.ChannelFunc(func(_ context.Context, _ models.BookingIntent) models.Outcome {
		return models.Failure(models.CategoryAuthFailed, "Gmail authentication failed.")
	})
	router := bookingRouter(failing, false)

	w := postJSON(router, "/api/send-email", validBookingBody())

	require.Equal(t, http.StatusInternalServerError, w.Code)
	resp := decodeResponse(t, w)
	assert.False(t, resp.Success)
	assert.Equal(t, "Gmail authentication failed.", resp.Message)
	assert.Empty(t, resp.Error, "category detail is hidden outside development")
}

func TestSendBooking_DevModeExposesCategory(t *testing.T) {
	failing := services.ChannelFunc(func(_ context.Context, _ models.BookingIntent) models.Outcome {
		return models.Failure(models.CategoryTransport, "connection failed")
	})
	router := bookingRouter(failing, true)

	w := postJSON(router, "/api/send-email", validBookingBody())

	require.Equal(t, http.StatusInternalServerError, w.Code)
	resp := decodeResponse(t, w)
	assert.Equal(t, "transport_error", resp.Error)
}

func TestSendBooking_MethodNotAllowed(t *testing.T) {
	router := bookingRouter(successChannel(), false)

	req := httptest.NewRequest(http.MethodGet, "/api/send-email", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusMethodNotAllowed, w.Code)
	resp := decodeResponse(t, w)
	assert.False(t, resp.Success)
	assert.Equal(t, "Method not allowed", resp.Message)
}
