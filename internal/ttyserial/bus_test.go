package ttyserial

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/adq/picotherm/internal/otbus"
)

// fakePort is an in-memory portIO stand-in so Bus's framing logic can
// be tested without a real tty device.
type fakePort struct {
	written []byte
	toRead  []byte
	readErr error
}

func (p *fakePort) Write(data []byte) (int, error) {
	p.written = append(p.written, data...)
	return len(data), nil
}

func (p *fakePort) Read(data []byte) (int, error) {
	if p.readErr != nil {
		return 0, p.readErr
	}
	n := copy(data, p.toRead)
	p.toRead = p.toRead[n:]
	return n, nil
}

func (p *fakePort) SetReadTimeout(time.Duration) {}

func TestTransmitWritesEightByteBigEndianFrame(t *testing.T) {
	port := &fakePort{}
	bus := NewBus(port)
	require.NoError(t, bus.Transmit(context.Background(), 0x0102030405060708))
	assert.Equal(t, []byte{1, 2, 3, 4, 5, 6, 7, 8}, port.written)
}

func TestReceiveDecodesEightByteBigEndianFrame(t *testing.T) {
	port := &fakePort{toRead: []byte{8, 7, 6, 5, 4, 3, 2, 1}}
	bus := NewBus(port)
	word, err := bus.Receive(context.Background())
	require.NoError(t, err)
	assert.Equal(t, uint64(0x0807060504030201), word)
}

func TestReceiveReturnsTimeoutOnExpiredContext(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Millisecond)
	defer cancel()
	time.Sleep(2 * time.Millisecond)

	port := &fakePort{}
	bus := NewBus(port)
	_, err := bus.Receive(ctx)
	require.ErrorIs(t, err, otbus.ErrTimeout)
}
