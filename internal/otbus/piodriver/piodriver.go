//go:build rp2040 || rp2350

// Package piodriver drives the OpenTherm line from a pair of RP2040/
// RP2350 PIO state machines instead of bit-banged GPIO, for the
// microcontroller build of this gateway. It follows the same shape as
// tinygo-org/pio's RMII driver: the caller claims and configures the
// state machines (clock divider set to the half-bit period) and hands
// them to this package, which only pushes/pulls the PIO FIFOs (spec
// §4.B).
package piodriver

import (
	"context"
	"time"

	pio "github.com/tinygo-org/pio/rp2-pio"

	"github.com/adq/picotherm/internal/otbus"
)

// rxPollInterval bounds how often Receive polls the RX FIFO for a new
// word while waiting for a frame.
const rxPollInterval = 50 * time.Microsecond

// Driver implements otbus.Bus over two already-configured PIO state
// machines: smTx shifts the Manchester word out one FIFO word at a
// time, smRx shifts sampled line levels in. Both are assumed
// programmed and clocked by the caller (the composition root) at the
// half-bit period (spec §4.B); this package only moves data.
type Driver struct {
	smTx pio.StateMachine
	smRx pio.StateMachine
}

// Open wraps pre-configured, pre-loaded state machines. Matches
// NewRMII's convention of taking configured state machines rather
// than owning PIO program loading itself.
func Open(smTx, smRx pio.StateMachine) *Driver {
	smTx.SetEnabled(true)
	smRx.SetEnabled(true)
	return &Driver{smTx: smTx, smRx: smRx}
}

var _ otbus.Bus = (*Driver)(nil)

// Close disables both state machines.
func (d *Driver) Close() {
	d.smTx.SetEnabled(false)
	d.smRx.SetEnabled(false)
}

// Transmit pushes the 64-bit Manchester word into the TX FIFO as two
// 32-bit halves, most significant half first. The state machine's own
// clock divider paces the line, so this call returns once both halves
// are queued rather than waiting for the line to finish shifting.
func (d *Driver) Transmit(ctx context.Context, word uint64) error {
	halves := [2]uint32{uint32(word >> 32), uint32(word)}
	for _, half := range halves {
		if err := d.pushTx(ctx, half); err != nil {
			return err
		}
	}
	return nil
}

func (d *Driver) pushTx(ctx context.Context, word uint32) error {
	for {
		if !d.smTx.IsTxFIFOFull() {
			d.smTx.TxPut(word)
			return nil
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(rxPollInterval):
		}
	}
}

// Receive pulls two 32-bit halves from the RX FIFO and reassembles
// the 64-bit raw Manchester word for otcodec.DecodeManchester.
func (d *Driver) Receive(ctx context.Context) (uint64, error) {
	hi, err := d.pullRx(ctx)
	if err != nil {
		return 0, err
	}
	lo, err := d.pullRx(ctx)
	if err != nil {
		return 0, err
	}
	return uint64(hi)<<32 | uint64(lo), nil
}

func (d *Driver) pullRx(ctx context.Context) (uint32, error) {
	for {
		if !d.smRx.IsRxFIFOEmpty() {
			return d.smRx.RxGet(), nil
		}
		select {
		case <-ctx.Done():
			return 0, ctx.Err()
		case <-time.After(rxPollInterval):
		}
	}
}
