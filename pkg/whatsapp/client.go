package whatsapp

import (
	"context"
	"fmt"
	"sync"

	"github.com/sirupsen/logrus"
	"go.mau.fi/whatsmeow"
	"go.mau.fi/whatsmeow/proto/waE2E"
	"go.mau.fi/whatsmeow/store/sqlstore"
	"go.mau.fi/whatsmeow/types"
	"go.mau.fi/whatsmeow/types/events"
	waLog "go.mau.fi/whatsmeow/util/log"
	"google.golang.org/protobuf/proto"

	// Session store drivers. sqlite3 keeps the authenticated session in a
	// local file; postgres is for deployments without a persistent disk.
	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
)

// Client implements Session on top of whatsmeow. The authenticated device
// state is persisted through whatsmeow's own sqlstore, so a paired session
// survives restarts without re-scanning the QR code.
type Client struct {
	wa     *whatsmeow.Client
	logger *logrus.Logger

	handlerOnce sync.Once
}

// NewClient opens the session store and prepares a whatsmeow client for the
// first (usually only) stored device. No connection is made yet; that is the
// Tracker's job.
func NewClient(storeDriver, storeDSN string, logger *logrus.Logger) (*Client, error) {
	if storeDriver != "sqlite3" && storeDriver != "postgres" {
		return nil, fmt.Errorf("unsupported whatsapp store driver: %s (must be 'sqlite3' or 'postgres')", storeDriver)
	}

	container, err := sqlstore.New(storeDriver, storeDSN, waLog.Noop)
	if err != nil {
		return nil, fmt.Errorf("failed to open whatsapp session store: %w", err)
	}

	device, err := container.GetFirstDevice()
	if err != nil {
		return nil, fmt.Errorf("failed to load whatsapp device state: %w", err)
	}

	return &Client{
		wa:     whatsmeow.NewClient(device, waLog.Noop),
		logger: logger,
	}, nil
}

// Connect starts the underlying connection and streams lifecycle events to
// the given channel. When no device is paired yet, pairing codes are emitted
// as EventPairingCode until the operator scans one.
func (c *Client) Connect(ctx context.Context, evts chan<- Event) error {
	c.handlerOnce.Do(func() {
		c.wa.AddEventHandler(func(raw interface{}) {
			switch evt := raw.(type) {
			case *events.Connected:
				evts <- Event{Kind: EventReady}
			case *events.LoggedOut:
				evts <- Event{Kind: EventAuthFailure, Reason: fmt.Sprintf("device logged out: %v", evt.Reason)}
			case *events.StreamReplaced:
				evts <- Event{Kind: EventDisconnected, Reason: "stream replaced by another session"}
			case *events.Disconnected:
				evts <- Event{Kind: EventDisconnected, Reason: "connection lost"}
			}
		})
	})

	if c.wa.Store.ID == nil {
		c.logger.Info("No paired WhatsApp device found, starting QR pairing")
		// The QR channel must be requested before the first Connect.
		qrChan, err := c.wa.GetQRChannel(ctx)
		if err != nil {
			return fmt.Errorf("failed to open pairing channel: %w", err)
		}
		go func() {
			for item := range qrChan {
				switch item.Event {
				case "code":
					evts <- Event{Kind: EventPairingCode, Code: item.Code}
				case "success":
					// events.Connected follows on the main handler.
				case "timeout":
					evts <- Event{Kind: EventAuthFailure, Reason: "pairing timed out before the code was scanned"}
				default:
					evts <- Event{Kind: EventAuthFailure, Reason: "pairing failed: " + item.Event}
				}
			}
		}()
	}

	if err := c.wa.Connect(); err != nil {
		return fmt.Errorf("failed to connect whatsapp session: %w", err)
	}
	c.logger.Debug("WhatsApp connection started")
	return nil
}

// SendText delivers a message to a normalized destination number (digits
// only, country code included).
func (c *Client) SendText(ctx context.Context, number, text string) (string, error) {
	jid := types.NewJID(number, types.DefaultUserServer)
	resp, err := c.wa.SendMessage(ctx, jid, &waE2E.Message{
		Conversation: proto.String(text),
	})
	if err != nil {
		return "", err
	}
	return string(resp.ID), nil
}

// Close disconnects the session. The stored pairing survives.
func (c *Client) Close() {
	c.wa.Disconnect()
}
