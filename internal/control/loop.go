// Package control is the gateway's periodic supervisor (spec §4.E): a
// BOOT/NEGOTIATE/STEADY/FAULT_HOLD/BACKOFF state machine driving three
// cadences over a single internal/otid.Client, publishing everything
// it reads into an internal/shadow.Shadow the MQTT bridge only ever
// reads from.
package control

import (
	"context"
	"errors"
	"time"

	"github.com/charmbracelet/log"

	"github.com/adq/picotherm/internal/otengine"
	"github.com/adq/picotherm/internal/otid"
	"github.com/adq/picotherm/internal/shadow"
)

// defaultPollInterval is the granularity at which the STEADY inner
// loop checks whether a cadence is due (spec §4.E "Scheduling":
// last-emitted timestamps compared against a clock, no catch-up
// bursts, so the poll interval only bounds cadence jitter, never
// drives it directly).
const defaultPollInterval = 200 * time.Millisecond

// Loop is the control loop's configuration and running state. The
// zero value is not usable; construct with New.
type Loop struct {
	Catalog  *otid.Client
	Shadow   *shadow.Shadow
	Commands <-chan Command
	Observer StateObserver
	Logger   *log.Logger

	// DetailCadence, WriteCadence and BackoffCooldown tune the STEADY
	// and BACKOFF timings (spec §4.E names ~10-60s detail/write and
	// ~5s backoff; the mandatory ~1s cycle is not configurable, spec
	// invariant I5).
	DetailCadence   time.Duration
	WriteCadence    time.Duration
	BackoffCooldown time.Duration

	// PowerCycleCounterID is the vendor-assigned Data-ID used for
	// restart detection (spec §4.D, §4.E). Zero disables restart
	// detection entirely.
	PowerCycleCounterID uint8

	// DefaultMaxRelModulation is written every write cycle (spec §4.E
	// "write ID 14 ... 100% by default").
	DefaultMaxRelModulation float64

	last State

	now   func() time.Time
	sleep func(context.Context, time.Duration) error
}

// New returns a Loop with the documented defaults filled in. Callers
// set Catalog, Shadow and Commands before calling Run.
func New() *Loop {
	return &Loop{
		DetailCadence:           30 * time.Second,
		WriteCadence:            30 * time.Second,
		BackoffCooldown:         5 * time.Second,
		DefaultMaxRelModulation: 100,
		now:                     time.Now,
		sleep:                   sleepCtx,
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

func (l *Loop) logger() *log.Logger {
	if l.Logger != nil {
		return l.Logger
	}
	return log.Default()
}

// handleErr logs and swallows a non-fatal exchange failure, but
// returns it unchanged when it's a *otengine.BusFaultError: the
// driver itself is broken, not just this one exchange (spec §7 "Bus
// /driver I/O fault: surfaced from the control loop as BOILERFAIL ->
// BACKOFF -> re-initialize").
func (l *Loop) handleErr(err error, msg string) error {
	if err == nil {
		return nil
	}
	var fault *otengine.BusFaultError
	if errors.As(err, &fault) {
		return err
	}
	l.logger().Warn(msg, "err", err)
	return nil
}

// Run drives the supervisor until ctx is cancelled, which is the only
// exit path (spec §5 "The control loop has no external cancellation
// path; process termination is the only exit").
func (l *Loop) Run(ctx context.Context) error {
	state := StateBoot
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		l.observe(state)

		switch state {
		case StateBoot:
			state = StateNegotiate

		case StateNegotiate:
			l.negotiate(ctx)
			state = StateSteady

		case StateSteady:
			next, err := l.steady(ctx)
			if err != nil {
				if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
					return err
				}
				l.logger().Error("bus fault, backing off", "err", err)
				state = StateBackoff
				continue
			}
			state = next

		case StateBackoff:
			if err := l.sleep(ctx, l.BackoffCooldown); err != nil {
				return err
			}
			state = StateBoot
		}
	}
}
