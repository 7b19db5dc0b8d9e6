// Package gpiodriver bit-bangs the OpenTherm current-loop line over
// two Linux GPIO chardev lines (spec §4.B): a TX output and an RX
// input, each with its own independent timing, matching
// doismellburning-samoyed's go.mod choice of go-gpiocdev for the
// hosted Linux target this gateway's composition root defaults to.
package gpiodriver

import (
	"context"
	"fmt"
	"time"

	"github.com/warthog618/go-gpiocdev"

	"github.com/adq/picotherm/internal/otbus"
)

// halfBitPeriod is the OpenTherm nominal half-bit duration: a ~1ms bit
// period, halved by Manchester encoding into one line-level segment
// per raw bit of the 64-bit word (spec §4.B).
const halfBitPeriod = 500 * time.Microsecond

// edgePollInterval bounds how often Receive samples the RX line while
// waiting for the frame's start edge.
const edgePollInterval = 20 * time.Microsecond

// Driver implements otbus.Bus over two GPIO chardev lines.
type Driver struct {
	tx *gpiocdev.Line
	rx *gpiocdev.Line
}

// Open requests the TX and RX lines on a Linux GPIO chardev chip
// (e.g. "gpiochip0"). TX idles high, matching the current-loop
// convention the codec's invert=true TX encoding assumes.
func Open(chip string, txOffset, rxOffset int) (*Driver, error) {
	tx, err := gpiocdev.RequestLine(chip, txOffset, gpiocdev.AsOutput(1), gpiocdev.WithConsumer("picotherm-tx"))
	if err != nil {
		return nil, fmt.Errorf("gpiodriver: request tx line %d: %w", txOffset, err)
	}
	rx, err := gpiocdev.RequestLine(chip, rxOffset, gpiocdev.AsInput, gpiocdev.WithPullUp, gpiocdev.WithConsumer("picotherm-rx"))
	if err != nil {
		tx.Close()
		return nil, fmt.Errorf("gpiodriver: request rx line %d: %w", rxOffset, err)
	}
	return &Driver{tx: tx, rx: rx}, nil
}

// Close releases both lines.
func (d *Driver) Close() error {
	rxErr := d.rx.Close()
	txErr := d.tx.Close()
	if rxErr != nil {
		return rxErr
	}
	return txErr
}

var _ otbus.Bus = (*Driver)(nil)

// startStopPair is a logical 1 in the invert=true TX encoding this
// driver assumes (see Open), used for the start and stop bits.
const startStopPair = 0b01

// Transmit shifts a start bit, the 64-bit Manchester word MSB first,
// and a stop bit out the TX line, one line level per halfBitPeriod,
// then returns the line to idle-high.
func (d *Driver) Transmit(ctx context.Context, word uint64) error {
	for i := 67; i >= 0; i-- {
		var bit int
		switch {
		case i >= 66:
			bit = (startStopPair >> uint(i-66)) & 1
		case i >= 2:
			bit = int((word >> uint(i-2)) & 1)
		default:
			bit = (startStopPair >> uint(i)) & 1
		}
		if err := d.tx.SetValue(bit); err != nil {
			return fmt.Errorf("gpiodriver: set tx value: %w", err)
		}
		if err := sleepCtx(ctx, halfBitPeriod); err != nil {
			return err
		}
	}
	return d.tx.SetValue(1)
}

// Receive waits for the RX line to leave idle (the start of the start
// bit), skips the start bit's two half-bits, then samples the next 64
// half-bit windows at their midpoints, reconstructing the raw
// Manchester word for otcodec.DecodeManchester. Samples are taken at
// fixed intervals from the start edge, with no per-bit
// resynchronisation. Returns the ctx error (matched by the engine as a
// timeout) if no start edge arrives before ctx is done.
func (d *Driver) Receive(ctx context.Context) (uint64, error) {
	if err := d.waitForEdge(ctx); err != nil {
		return 0, err
	}
	if err := sleepCtx(ctx, 2*halfBitPeriod+halfBitPeriod/2); err != nil {
		return 0, err
	}

	var word uint64
	for i := 0; i < 64; i++ {
		v, err := d.rx.Value()
		if err != nil {
			return 0, fmt.Errorf("gpiodriver: read rx value: %w", err)
		}
		word = word<<1 | uint64(v)
		if i < 63 {
			if err := sleepCtx(ctx, halfBitPeriod); err != nil {
				return 0, err
			}
		}
	}
	return word, nil
}

func (d *Driver) waitForEdge(ctx context.Context) error {
	idle, err := d.rx.Value()
	if err != nil {
		return fmt.Errorf("gpiodriver: read rx idle value: %w", err)
	}
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
		v, err := d.rx.Value()
		if err != nil {
			return fmt.Errorf("gpiodriver: read rx value: %w", err)
		}
		if v != idle {
			return nil
		}
		if err := sleepCtx(ctx, edgePollInterval); err != nil {
			return err
		}
	}
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
