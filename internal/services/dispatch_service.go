package services

import (
	"context"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/locamarrakech/booking-backend/internal/models"
)

// Channel is a single notification path for a booking.
type Channel interface {
	Send(ctx context.Context, intent models.BookingIntent) models.Outcome
}

// ChannelFunc adapts a function to the Channel interface.
type ChannelFunc func(ctx context.Context, intent models.BookingIntent) models.Outcome

// Send calls f.
func (f ChannelFunc) Send(ctx context.Context, intent models.BookingIntent) models.Outcome {
	return f(ctx, intent)
}

// DispatchService sequences the outbound notifications for one booking: the
// transactional email first (awaited, authoritative), then the operator
// alert (detached, advisory). Both channels are constructor-injected; the
// shared WhatsApp session behind the optional channel is owned by main and
// passed in, never reached through a global.
type DispatchService struct {
	required Channel
	optional Channel // nil when the operator alert channel is disabled
	logger   *logrus.Logger
}

// NewDispatchService creates the orchestrator. optional may be nil.
func NewDispatchService(required, optional Channel, logger *logrus.Logger) *DispatchService {
	return &DispatchService{required: required, optional: optional, logger: logger}
}

// Dispatch sends the booking through the required channel and returns that
// outcome as the overall result. On required-channel success the optional
// channel is fired on a detached goroutine whose result is logged and
// nothing else: an operator alert failure can never flip a successful
// dispatch, and the response does not wait for it.
func (s *DispatchService) Dispatch(ctx context.Context, intent models.BookingIntent) models.Outcome {
	log := s.logger.WithFields(logrus.Fields{
		"dispatch_id": uuid.NewString(),
		"car":         intent.CarName,
		"city":        intent.City,
	})

	outcome := s.required.Send(ctx, intent)
	if outcome.OK {
		log.WithField("message_id", outcome.MessageID).Info("Booking email dispatched")
	} else {
		log.WithFields(logrus.Fields{
			"category": outcome.Category,
			"reason":   outcome.Reason,
		}).Error("Booking email dispatch failed")
		return outcome
	}

	if s.optional != nil {
		go s.alertOperator(log, intent)
	}

	return outcome
}

// alertOperator runs on its own goroutine with its own error boundary.
// Failures, including panics, stay inside this function.
func (s *DispatchService) alertOperator(log *logrus.Entry, intent models.BookingIntent) {
	defer func() {
		if r := recover(); r != nil {
			log.WithField("panic", r).Error("Operator alert panicked")
		}
	}()

	// Detached from the request context: the HTTP response has usually
	// been written long before the alert resolves.
	outcome := s.optional.Send(context.Background(), intent)
	if outcome.OK {
		log.WithField("message_id", outcome.MessageID).Info("Operator alert sent")
		return
	}
	log.WithFields(logrus.Fields{
		"category": outcome.Category,
		"reason":   outcome.Reason,
	}).Warn("Operator alert failed (non-critical)")
}
