package whatsapp

import "context"

// EventKind identifies a session lifecycle event.
type EventKind int

const (
	// EventPairingCode means a fresh pairing artifact is available in
	// Event.Code and must be shown to the operator out of band.
	EventPairingCode EventKind = iota

	// EventReady means the session is authenticated and can send.
	EventReady

	// EventAuthFailure means authentication was rejected during bring-up.
	EventAuthFailure

	// EventDisconnected means an established session was lost.
	EventDisconnected
)

// Event is a session lifecycle notification consumed by the Tracker.
type Event struct {
	Kind   EventKind
	Code   string // pairing artifact, EventPairingCode only
	Reason string // human-readable detail for failures/disconnects
}

// Session is the opaque messaging capability behind the operator alert
// channel. Implementations stream lifecycle events to the channel passed to
// Connect; the Tracker is the only consumer. Connect may be called again
// after a disconnect to re-establish the session.
type Session interface {
	Connect(ctx context.Context, events chan<- Event) error
	SendText(ctx context.Context, number, text string) (string, error)
	Close()
}
