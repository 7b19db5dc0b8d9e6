// Package fakebus is an in-memory otbus.Bus backend for host-side
// tests and the debug CLI's --fake mode. It has no hardware
// dependency: Transmit hands the line word to a Responder, which
// plays the part of the boiler, and Receive returns whatever the
// Responder produced (or an injected fault).
//
// This is the same "loop TX into RX" idea as
// Daedaluz-goserial's OpenPTY master/slave pair, done entirely in
// memory instead of through a kernel pty.
package fakebus

import (
	"context"
	"errors"
	"sync"

	"github.com/adq/picotherm/internal/otbus"
)

// Responder computes the reply line word for a transmitted line word,
// modeling a boiler's behavior. Returning otbus.ErrTimeout makes the
// following Receive time out; any other error is returned directly by
// Transmit (used to simulate driver-level I/O faults).
type Responder func(tx uint64) (uint64, error)

// Echo is a Responder that returns the transmitted word unchanged,
// useful for exercising pure transport-layer behavior without caring
// about frame semantics.
func Echo(tx uint64) (uint64, error) { return tx, nil }

// Bus is a fakebus.Bus instance. The zero value has no Responder set
// and every Receive call returns otbus.ErrTimeout until one is
// configured with SetResponder.
type Bus struct {
	mu        sync.Mutex
	responder Responder
	pending   *uint64
	drained   bool
}

// New creates a Bus using the given Responder. A nil Responder
// behaves as if every exchange times out, useful for testing the
// retry wrapper's timeout path.
func New(responder Responder) *Bus {
	return &Bus{responder: responder}
}

// SetResponder replaces the Responder used for subsequent exchanges.
func (b *Bus) SetResponder(r Responder) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.responder = r
}

// Transmit records the transmitted word and, if a Responder is
// configured, computes the reply that a following Receive will
// return. It never blocks. It fails only when the Responder returns an
// error other than otbus.ErrTimeout, and then returns that error.
func (b *Bus) Transmit(ctx context.Context, word uint64) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.drained = false
	if b.responder == nil {
		b.pending = nil
		return nil
	}
	reply, err := b.responder(word)
	if err != nil {
		if errors.Is(err, otbus.ErrTimeout) {
			b.pending = nil
			return nil
		}
		return err
	}
	b.pending = &reply
	return nil
}

// Receive returns the word computed by Transmit's Responder call, or
// otbus.ErrTimeout if none is pending (matching a real driver's
// behavior of discarding anything captured before the TX/RX turnaround,
// spec §4.B "drained and disarmed" note).
func (b *Bus) Receive(ctx context.Context) (uint64, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.drained || b.pending == nil {
		return 0, otbus.ErrTimeout
	}
	word := *b.pending
	b.pending = nil
	b.drained = true
	select {
	case <-ctx.Done():
		return 0, otbus.ErrTimeout
	default:
	}
	return word, nil
}
