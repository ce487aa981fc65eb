package whatsapp

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/mdp/qrterminal/v3"
	"github.com/sirupsen/logrus"
)

// State is the readiness of the operator alert session.
type State string

const (
	StateUninitialized State = "uninitialized"
	StateInitializing  State = "initializing"
	StateReady         State = "ready"
	StateFailed        State = "failed"
	StateDisconnected  State = "disconnected"
)

// ErrNotReady is returned by AwaitReady when the session did not become
// ready within the caller's timeout. Bring-up keeps running in the
// background and may succeed for later sends.
var ErrNotReady = errors.New("whatsapp session not ready")

// PairingPresenter exposes a pairing artifact to the operator through a side
// channel.
type PairingPresenter func(code string)

// TerminalQR renders the pairing code as a scannable QR block on stdout.
func TerminalQR(code string) {
	fmt.Fprintln(os.Stdout, "WhatsApp pairing code - scan this with the operator's phone:")
	qrterminal.GenerateHalfBlock(code, qrterminal.L, os.Stdout)
}

// Tracker owns the session lifecycle: it drives bring-up, keeps the current
// readiness state, and retains the latest pairing artifact. There is exactly
// one Tracker per process, shared by all dispatch calls; at most one
// bring-up sequence runs at a time and concurrent callers join it.
type Tracker struct {
	session Session
	present PairingPresenter
	logger  *logrus.Logger

	// pollInterval is how often AwaitReady re-checks the state.
	pollInterval time.Duration

	mu          sync.Mutex
	state       State
	failReason  string
	pairingCode string
	events      chan Event
}

// NewTracker creates a tracker in the Uninitialized state. present may be
// nil when no out-of-band surface exists (tests).
func NewTracker(session Session, present PairingPresenter, logger *logrus.Logger) *Tracker {
	return &Tracker{
		session:      session,
		present:      present,
		logger:       logger,
		pollInterval: time.Second,
		state:        StateUninitialized,
	}
}

// CurrentState returns the session readiness.
func (t *Tracker) CurrentState() State {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.state
}

// PairingCode returns the latest pairing artifact, or "" when none is
// pending. Cleared once the session authenticates.
func (t *Tracker) PairingCode() string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.pairingCode
}

// FailReason returns the recorded bring-up failure, if any.
func (t *Tracker) FailReason() string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.failReason
}

// Start begins bring-up unless the session is already ready, already
// initializing, or failed. Callers racing on an Uninitialized or
// Disconnected tracker join the single in-flight sequence. A Failed tracker
// stays failed until Retry.
func (t *Tracker) Start() {
	t.mu.Lock()
	switch t.state {
	case StateInitializing, StateReady, StateFailed:
		t.mu.Unlock()
		return
	}
	t.state = StateInitializing
	t.pairingCode = ""
	if t.events == nil {
		t.events = make(chan Event, 8)
		go t.watch()
	}
	t.mu.Unlock()

	go t.connect()
}

// Retry clears a failed bring-up and starts a new one. This is the only way
// out of Failed short of a process restart.
func (t *Tracker) Retry() {
	t.mu.Lock()
	if t.state == StateFailed {
		t.state = StateUninitialized
		t.failReason = ""
	}
	t.mu.Unlock()
	t.Start()
}

// AwaitReady triggers bring-up if needed and polls until the session is
// ready or the timeout lapses. The timeout is soft: giving up here does not
// cancel the bring-up sequence.
func (t *Tracker) AwaitReady(timeout time.Duration) error {
	t.Start()

	deadline := time.Now().Add(timeout)
	for {
		t.mu.Lock()
		state, reason := t.state, t.failReason
		t.mu.Unlock()

		switch state {
		case StateReady:
			return nil
		case StateFailed:
			return fmt.Errorf("whatsapp session failed: %s", reason)
		}

		if !time.Now().Before(deadline) {
			return ErrNotReady
		}
		time.Sleep(t.pollInterval)
	}
}

// Close tears down the underlying session.
func (t *Tracker) Close() {
	t.session.Close()
}

func (t *Tracker) connect() {
	t.mu.Lock()
	evts := t.events
	t.mu.Unlock()

	if err := t.session.Connect(context.Background(), evts); err != nil {
		t.fail("bring-up failed: " + err.Error())
	}
}

// watch is the single consumer of session lifecycle events for the life of
// the process.
func (t *Tracker) watch() {
	t.mu.Lock()
	evts := t.events
	t.mu.Unlock()

	for evt := range evts {
		switch evt.Kind {
		case EventPairingCode:
			t.mu.Lock()
			t.pairingCode = evt.Code
			t.mu.Unlock()
			t.logger.Info("WhatsApp pairing code received")
			if t.present != nil {
				t.present(evt.Code)
			}

		case EventReady:
			t.mu.Lock()
			t.state = StateReady
			t.pairingCode = ""
			t.failReason = ""
			t.mu.Unlock()
			t.logger.Info("WhatsApp session is ready")

		case EventAuthFailure:
			t.fail(evt.Reason)

		case EventDisconnected:
			t.mu.Lock()
			if t.state == StateReady || t.state == StateInitializing {
				t.state = StateDisconnected
			}
			t.mu.Unlock()
			t.logger.WithField("reason", evt.Reason).Warn("WhatsApp session disconnected")
		}
	}
}

func (t *Tracker) fail(reason string) {
	t.mu.Lock()
	t.state = StateFailed
	t.failReason = reason
	t.mu.Unlock()
	t.logger.WithField("reason", reason).Error("WhatsApp bring-up failed")
}
