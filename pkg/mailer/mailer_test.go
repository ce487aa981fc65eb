package mailer

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/gomail.v2"

	"github.com/locamarrakech/booking-backend/internal/models"
)

// fakeDialer counts DialAndSend calls and captures the last message headers.
type fakeDialer struct {
	calls   int
	err     error
	lastMsg *gomail.Message
}

func (d *fakeDialer) DialAndSend(m ...*gomail.Message) error {
	d.calls++
	if len(m) > 0 {
		d.lastMsg = m[0]
	}
	return d.err
}

func testConfig() Config {
	return Config{
		Host:      "smtp.gmail.com",
		Port:      587,
		User:      "bookings@locamarrakech.com",
		Password:  "app-password",
		Recipient: "operator@locamarrakech.com",
	}
}

func newTestMailer(cfg Config, dialer Dialer) *Mailer {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return NewWithDialer(cfg, dialer, logger)
}

func testIntent() models.BookingIntent {
	return models.BookingIntent{
		FullName:    "Ahmed Benali",
		Email:       "ahmed@example.com",
		PhoneNumber: "0612345678",
		City:        "Marrakech",
		StartDate:   time.Date(2026, time.June, 20, 0, 0, 0, 0, time.UTC),
		EndDate:     time.Date(2026, time.June, 25, 0, 0, 0, 0, time.UTC),
		CarName:     "Dacia Duster",
		CarPrice:    "35",
	}
}

func TestMailer_SendBookingSuccess(t *testing.T) {
	dialer := &fakeDialer{}
	m := newTestMailer(testConfig(), dialer)

	outcome := m.SendBooking(context.Background(), testIntent())

	require.True(t, outcome.OK)
	assert.NotEmpty(t, outcome.MessageID)
	assert.Equal(t, 1, dialer.calls)

	require.NotNil(t, dialer.lastMsg)
	assert.Equal(t, []string{"operator@locamarrakech.com"}, dialer.lastMsg.GetHeader("To"))
	assert.Equal(t, []string{"ahmed@example.com"}, dialer.lastMsg.GetHeader("Reply-To"))
}

func TestMailer_MissingSecretsNeverDials(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"missing user", func(c *Config) { c.User = "" }},
		{"missing password", func(c *Config) { c.Password = "" }},
		{"missing both", func(c *Config) { c.User = ""; c.Password = "" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := testConfig()
			tt.mutate(&cfg)
			dialer := &fakeDialer{}
			m := newTestMailer(cfg, dialer)

			outcome := m.SendBooking(context.Background(), testIntent())

			require.False(t, outcome.OK)
			assert.Equal(t, models.CategoryNotConfigured, outcome.Category)
			assert.Equal(t, 0, dialer.calls, "must not dial without secrets")
		})
	}
}

func TestMailer_Classification(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		category models.Category
	}{
		{
			name:     "gmail 535 code",
			err:      errors.New("535 5.7.8 Username and Password not accepted"),
			category: models.CategoryAuthFailed,
		},
		{
			name:     "generic auth failure",
			err:      errors.New("smtp: Authentication failed"),
			category: models.CategoryAuthFailed,
		},
		{
			name:     "connection refused",
			err:      errors.New("dial tcp 74.125.0.1:587: connection refused"),
			category: models.CategoryTransport,
		},
		{
			name:     "dns failure",
			err:      errors.New("dial tcp: lookup smtp.gmail.com: no such host"),
			category: models.CategoryTransport,
		},
		{
			name:     "unrecognized provider error",
			err:      errors.New("552 message size exceeds limit"),
			category: models.CategoryUnknown,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := newTestMailer(testConfig(), &fakeDialer{err: tt.err})

			outcome := m.SendBooking(context.Background(), testIntent())

			require.False(t, outcome.OK)
			assert.Equal(t, tt.category, outcome.Category)
			assert.NotEmpty(t, outcome.Reason)
		})
	}
}

func TestMailer_AuthFailureHintsAtAppPassword(t *testing.T) {
	m := newTestMailer(testConfig(), &fakeDialer{err: errors.New("535 bad credentials")})

	outcome := m.SendBooking(context.Background(), testIntent())

	assert.Contains(t, outcome.Reason, "App Password")
}

func TestMailer_UnknownFailureCarriesProviderMessage(t *testing.T) {
	m := newTestMailer(testConfig(), &fakeDialer{err: errors.New("552 message size exceeds limit")})

	outcome := m.SendBooking(context.Background(), testIntent())

	assert.Contains(t, outcome.Reason, "552 message size exceeds limit")
}

func TestMailer_RecipientResolution(t *testing.T) {
	tests := []struct {
		name string
		cfg  func(*Config)
		want string
	}{
		{
			name: "explicit recipient wins",
			cfg:  func(c *Config) {},
			want: "operator@locamarrakech.com",
		},
		{
			name: "fallback when recipient empty",
			cfg: func(c *Config) {
				c.Recipient = ""
				c.FallbackRecipient = "backup@locamarrakech.com"
			},
			want: "backup@locamarrakech.com",
		},
		{
			name: "sender inbox as last resort",
			cfg: func(c *Config) {
				c.Recipient = ""
				c.FallbackRecipient = ""
			},
			want: "bookings@locamarrakech.com",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := testConfig()
			tt.cfg(&cfg)
			dialer := &fakeDialer{}
			m := newTestMailer(cfg, dialer)

			outcome := m.SendBooking(context.Background(), testIntent())

			require.True(t, outcome.OK)
			require.NotNil(t, dialer.lastMsg)
			assert.Equal(t, []string{tt.want}, dialer.lastMsg.GetHeader("To"))
		})
	}
}

func TestMailer_CancelledContextAbortsBeforeDial(t *testing.T) {
	dialer := &fakeDialer{}
	m := newTestMailer(testConfig(), dialer)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	outcome := m.SendBooking(ctx, testIntent())

	require.False(t, outcome.OK)
	assert.Equal(t, models.CategoryTransport, outcome.Category)
	assert.Equal(t, 0, dialer.calls)
}

func TestMailer_SendContact(t *testing.T) {
	dialer := &fakeDialer{}
	m := newTestMailer(testConfig(), dialer)

	outcome := m.SendContact(context.Background(), models.ContactMessage{
		Name:    "Fatima Zahra",
		Email:   "fatima@example.com",
		Phone:   "0661234567",
		Message: "Do you deliver to the airport?",
	})

	require.True(t, outcome.OK)
	require.NotNil(t, dialer.lastMsg)
	assert.Equal(t, []string{"Nouveau message de contact - Fatima Zahra"}, dialer.lastMsg.GetHeader("Subject"))
	assert.Equal(t, []string{"fatima@example.com"}, dialer.lastMsg.GetHeader("Reply-To"))
}
