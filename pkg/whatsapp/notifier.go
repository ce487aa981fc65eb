package whatsapp

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/locamarrakech/booking-backend/internal/models"
)

// NotifierConfig holds the operator alert channel configuration.
type NotifierConfig struct {
	// Number is the operator's WhatsApp destination, in any human format.
	Number string

	// CountryCode is prepended to short local numbers, e.g. "212".
	CountryCode string

	// ReadyTimeout bounds how long a single send waits for the session to
	// become ready.
	ReadyTimeout time.Duration
}

// Notifier is the best-effort operator alert channel. Its outcome is
// advisory only: the dispatcher logs it and nothing else.
type Notifier struct {
	tracker *Tracker
	session Session
	cfg     NotifierConfig
	logger  *logrus.Logger
}

// NewNotifier creates the alert channel on top of a shared tracker/session
// pair.
func NewNotifier(tracker *Tracker, session Session, cfg NotifierConfig, logger *logrus.Logger) *Notifier {
	return &Notifier{tracker: tracker, session: session, cfg: cfg, logger: logger}
}

// Send alerts the operator about a new booking. It waits up to ReadyTimeout
// for the session, so callers must not invoke it on a request path.
func (n *Notifier) Send(ctx context.Context, intent models.BookingIntent) models.Outcome {
	if n.cfg.Number == "" {
		return models.Failure(models.CategoryNotConfigured, "WHATSAPP_NUMBER is not set")
	}

	to := NormalizePhone(n.cfg.Number, n.cfg.CountryCode)

	if err := n.tracker.AwaitReady(n.cfg.ReadyTimeout); err != nil {
		return models.Failure(models.CategoryNotReady, err.Error())
	}

	// The readiness check above is advisory; the session can drop between
	// it and the send. That race surfaces here as a transport failure.
	id, err := n.session.SendText(ctx, to, FormatBookingMessage(intent))
	if err != nil {
		return models.Failure(models.CategoryTransport, "whatsapp send failed: "+err.Error())
	}

	n.logger.WithFields(logrus.Fields{
		"to":         to,
		"message_id": id,
	}).Info("WhatsApp booking alert sent")
	return models.Success(id)
}
