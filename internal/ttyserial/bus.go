package ttyserial

import (
	"context"
	"encoding/binary"
	"io"
	"time"

	"github.com/adq/picotherm/internal/otbus"
)

// frameSize is one 64-bit OpenTherm line word, big-endian.
const frameSize = 8

// defaultReadBudget bounds Receive when ctx carries no deadline.
const defaultReadBudget = 800 * time.Millisecond

// portIO is the slice of *Port that Bus needs; defined as an
// interface so tests can substitute an in-memory stand-in.
type portIO interface {
	Read([]byte) (int, error)
	Write([]byte) (int, error)
	SetReadTimeout(time.Duration)
}

// Bus adapts a ttyserial.Port to otbus.Bus: each Transmit/Receive
// exchanges exactly one 8-byte frame, left to the USB-serial adapter's
// own microcontroller to Manchester-encode/decode on the wire side.
type Bus struct {
	port portIO
}

// NewBus wraps an already-opened Port (or, in tests, any portIO).
func NewBus(port portIO) *Bus {
	return &Bus{port: port}
}

var _ otbus.Bus = (*Bus)(nil)

// Transmit writes word as 8 big-endian bytes.
func (b *Bus) Transmit(ctx context.Context, word uint64) error {
	var buf [frameSize]byte
	binary.BigEndian.PutUint64(buf[:], word)
	_, err := b.port.Write(buf[:])
	return err
}

// Receive reads one 8-byte frame, bounding the wait by ctx's deadline
// (or defaultReadBudget if ctx carries none).
func (b *Bus) Receive(ctx context.Context) (uint64, error) {
	budget := defaultReadBudget
	if deadline, ok := ctx.Deadline(); ok {
		if d := time.Until(deadline); d > 0 {
			budget = d
		} else {
			return 0, otbus.ErrTimeout
		}
	}
	b.port.SetReadTimeout(budget)

	var buf [frameSize]byte
	if _, err := io.ReadFull(readerFunc(b.port.Read), buf[:]); err != nil {
		if ctx.Err() != nil {
			return 0, otbus.ErrTimeout
		}
		return 0, err
	}
	return binary.BigEndian.Uint64(buf[:]), nil
}

type readerFunc func([]byte) (int, error)

func (f readerFunc) Read(p []byte) (int, error) { return f(p) }
