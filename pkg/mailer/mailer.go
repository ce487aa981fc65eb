package mailer

import (
	"context"
	"errors"
	"fmt"
	"net"
	"strings"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gopkg.in/gomail.v2"

	"github.com/locamarrakech/booking-backend/internal/models"
)

// Config holds SMTP transport configuration. User and Password are the two
// secrets the channel requires; when either is missing, sends fail with
// category not_configured before any network call.
type Config struct {
	Host     string
	Port     int
	User     string // sender identity (Gmail address)
	Password string // sender credential (Gmail App Password, not the account password)

	// Recipient is the operator inbox. When empty, FallbackRecipient is
	// used (and logged); when that is empty too, mail goes to User.
	Recipient         string
	FallbackRecipient string
}

// Dialer abstracts gomail's SMTP dialer so tests can count connection
// attempts without a real server.
type Dialer interface {
	DialAndSend(m ...*gomail.Message) error
}

// Mailer is the transactional email channel. Its outcome is authoritative
// for the overall dispatch result.
type Mailer struct {
	cfg    Config
	dialer Dialer
	logger *logrus.Logger
}

// New creates a mailer backed by a real SMTP dialer.
func New(cfg Config, logger *logrus.Logger) *Mailer {
	return NewWithDialer(cfg, gomail.NewDialer(cfg.Host, cfg.Port, cfg.User, cfg.Password), logger)
}

// NewWithDialer creates a mailer with an injected dialer. Used by tests.
func NewWithDialer(cfg Config, dialer Dialer, logger *logrus.Logger) *Mailer {
	return &Mailer{cfg: cfg, dialer: dialer, logger: logger}
}

// SendBooking emails the operator a summary of a new booking.
func (m *Mailer) SendBooking(ctx context.Context, intent models.BookingIntent) models.Outcome {
	if outcome, ok := m.checkConfigured(); !ok {
		return outcome
	}

	html, err := renderBookingHTML(intent)
	if err != nil {
		return models.Failure(models.CategoryUnknown, fmt.Sprintf("failed to render email body: %v", err))
	}

	msg := gomail.NewMessage()
	msg.SetHeader("From", m.cfg.User)
	msg.SetHeader("Reply-To", intent.Email)
	msg.SetHeader("To", m.recipient())
	msg.SetHeader("Subject", "You've Received a New Booking")
	msg.SetBody("text/plain", bookingText(intent))
	msg.AddAlternative("text/html", html)

	return m.send(ctx, msg)
}

// SendContact emails the operator a contact-form message. Second call site of
// the transactional channel; same failure semantics as SendBooking.
func (m *Mailer) SendContact(ctx context.Context, contact models.ContactMessage) models.Outcome {
	if outcome, ok := m.checkConfigured(); !ok {
		return outcome
	}

	html, err := renderContactHTML(contact)
	if err != nil {
		return models.Failure(models.CategoryUnknown, fmt.Sprintf("failed to render email body: %v", err))
	}

	msg := gomail.NewMessage()
	msg.SetHeader("From", m.cfg.User)
	msg.SetHeader("Reply-To", contact.Email)
	msg.SetHeader("To", m.recipient())
	msg.SetHeader("Subject", "Nouveau message de contact - "+contact.Name)
	msg.SetBody("text/plain", contactText(contact))
	msg.AddAlternative("text/html", html)

	return m.send(ctx, msg)
}

// checkConfigured verifies both secrets are present. Runs before any dial.
func (m *Mailer) checkConfigured() (models.Outcome, bool) {
	if m.cfg.User == "" || m.cfg.Password == "" {
		return models.Failure(models.CategoryNotConfigured,
			"Email service not configured. Set EMAIL_USER and EMAIL_PASS and restart the server."), false
	}
	return models.Outcome{}, true
}

// recipient resolves the destination inbox. The fallback is explicit
// configuration, not a hard-coded address.
func (m *Mailer) recipient() string {
	if m.cfg.Recipient != "" {
		return m.cfg.Recipient
	}
	if m.cfg.FallbackRecipient != "" {
		m.logger.WithField("fallback", m.cfg.FallbackRecipient).
			Warn("EMAIL_RECIPIENT not set, using EMAIL_FALLBACK_RECIPIENT")
		return m.cfg.FallbackRecipient
	}
	return m.cfg.User
}

func (m *Mailer) send(ctx context.Context, msg *gomail.Message) models.Outcome {
	if err := ctx.Err(); err != nil {
		return models.Failure(models.CategoryTransport, fmt.Sprintf("send aborted: %v", err))
	}

	if err := m.dialer.DialAndSend(msg); err != nil {
		category, reason := classify(err)
		m.logger.WithFields(logrus.Fields{
			"category": category,
			"error":    err.Error(),
		}).Error("Email send failed")
		return models.Failure(category, reason)
	}

	id := uuid.NewString()
	m.logger.WithField("message_id", id).Info("Email sent")
	return models.Success(id)
}

// classify maps an SMTP error to an outcome category and an operator-facing
// reason.
func classify(err error) (models.Category, string) {
	text := err.Error()
	lower := strings.ToLower(text)

	switch {
	case strings.Contains(text, "535") ||
		strings.Contains(lower, "username and password not accepted") ||
		strings.Contains(lower, "authentication failed") ||
		strings.Contains(lower, "invalid credentials"):
		return models.CategoryAuthFailed,
			"Gmail authentication failed. Verify EMAIL_PASS is a Gmail App Password, not your regular account password."
	case isTransportError(err, lower):
		return models.CategoryTransport,
			"Connection to the email server failed. Please try again later."
	default:
		return models.CategoryUnknown, "Email error: " + text
	}
}

func isTransportError(err error, lower string) bool {
	var netErr net.Error
	if errors.As(err, &netErr) {
		return true
	}
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return true
	}
	return strings.Contains(lower, "connection refused") ||
		strings.Contains(lower, "connection reset") ||
		strings.Contains(lower, "no such host") ||
		strings.Contains(lower, "i/o timeout")
}
