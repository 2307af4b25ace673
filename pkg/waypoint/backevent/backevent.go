// Package backevent turns presses of a hardware back key into back requests.
//
// A Listener reads an evdev device on its own goroutine and sends on Events when the
// configured key goes down while the gate is open. The UI loop owns the controller: it
// keeps the gate in sync with CanGoBack and calls Back when an event arrives.
package backevent

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/holoplot/go-evdev"
	"go.uber.org/atomic"

	"github.com/BrandonKowalski/waypoint/pkg/waypoint/internal"
)

const keyDown = 1

// DefaultKey is the key treated as back when none is configured.
const DefaultKey = evdev.KEY_ESC

// Reader yields input events. *evdev.InputDevice satisfies it.
type Reader interface {
	ReadOne() (*evdev.InputEvent, error)
	Close() error
}

// Listener emits on Events for every back key press while enabled.
type Listener struct {
	reader  Reader
	key     evdev.EvCode
	enabled atomic.Bool
	dropped atomic.Int64
	events  chan struct{}
}

// Open opens the evdev device at path and returns a listener for key. A zero key
// selects DefaultKey.
func Open(path string, key evdev.EvCode) (*Listener, error) {
	dev, err := evdev.Open(path)
	if err != nil {
		return nil, fmt.Errorf("backevent: open %s: %w", path, err)
	}
	return New(dev, key), nil
}

// New returns a listener over r. The listener starts disabled.
func New(r Reader, key evdev.EvCode) *Listener {
	if key == 0 {
		key = DefaultKey
	}
	return &Listener{
		reader: r,
		key:    key,
		events: make(chan struct{}, 1),
	}
}

// Events delivers one value per accepted press. Presses arriving while a previous one
// is still unread are dropped.
func (l *Listener) Events() <-chan struct{} {
	return l.events
}

// SetEnabled opens or closes the gate. Call it with Controller.CanGoBack after each
// navigation.
func (l *Listener) SetEnabled(enabled bool) {
	l.enabled.Store(enabled)
}

// Enabled reports the gate state.
func (l *Listener) Enabled() bool {
	return l.enabled.Load()
}

// Dropped returns the number of presses ignored because the gate was closed or a
// previous press was still pending.
func (l *Listener) Dropped() int64 {
	return l.dropped.Load()
}

// Run reads events until ctx is done or the reader fails. The reader is closed on
// return and Events is closed after that.
func (l *Listener) Run(ctx context.Context) error {
	defer close(l.events)

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	go func() {
		<-ctx.Done()
		_ = l.reader.Close()
	}()

	logger := internal.GetInternalLogger()
	for {
		ev, err := l.reader.ReadOne()
		if err != nil {
			if ctx.Err() != nil || errors.Is(err, io.EOF) || errors.Is(err, os.ErrClosed) {
				return nil
			}
			return fmt.Errorf("backevent: read: %w", err)
		}
		if ev == nil || ev.Type != evdev.EV_KEY || ev.Code != l.key || ev.Value != keyDown {
			continue
		}

		if !l.enabled.Load() {
			l.dropped.Inc()
			logger.Debug("backevent: press ignored, nothing to go back to")
			continue
		}
		select {
		case l.events <- struct{}{}:
		default:
			l.dropped.Inc()
		}
	}
}
