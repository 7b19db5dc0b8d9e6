// Package otbus defines the line-driver contract shared by every bus
// backend (spec §4.B): transmit one 64-bit Manchester line word, then
// wait for one 64-bit line word in reply. Backends live in
// subpackages so the host build never needs microcontroller-only
// dependencies: fakebus for tests and the debug CLI, gpiodriver for a
// hosted Linux gateway, piodriver (build-tagged) for a microcontroller.
package otbus

import (
	"context"
	"errors"
)

// ErrTimeout is returned by Receive when no start edge (and therefore
// no reply) arrives before the context deadline (spec §4.B, §4.C step
// 4).
var ErrTimeout = errors.New("otbus: receive timeout")

// Bus is the capability a line driver exposes to the exchange engine.
// Implementations own the physical (or simulated) TX/RX state and are
// responsible for the bit timing described in spec §4.B; callers only
// see a word in, a word out.
//
// At most one Transmit/Receive pair may be outstanding at a time
// (spec invariant I1); this is enforced structurally by the exchange
// engine never issuing a second exchange before the first completes,
// not by the Bus implementations themselves.
type Bus interface {
	// Transmit blocks until the 64-bit Manchester word has been fully
	// emitted on the line, framed with its start and stop bits.
	Transmit(ctx context.Context, word uint64) error

	// Receive waits for a start edge and returns the 64-bit line word
	// covering the 32 data bits that followed it. If ctx is done before
	// a start edge arrives it returns ErrTimeout or ctx's own error,
	// depending on the backend; the exchange engine treats both as a
	// timeout.
	Receive(ctx context.Context) (uint64, error)
}
