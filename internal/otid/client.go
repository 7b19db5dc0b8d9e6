// Package otid is the OpenTherm Data-ID catalog (spec §4.D): a typed
// reader and/or writer per Data-ID, built on top of
// internal/otengine's Exchange/ExchangeWithRetry. Every writer
// validates its input range before issuing any bus traffic (spec §8
// P6); every reader relies on the engine to have already asserted
// msg_type/data_id match (spec §4.C).
package otid

import (
	"context"
	"fmt"
	"time"

	"github.com/adq/picotherm/internal/otbus"
	"github.com/adq/picotherm/internal/otcodec"
	"github.com/adq/picotherm/internal/otengine"
)

// Client binds a bus and a retry policy; every typed accessor in this
// package is a method on *Client so callers never touch otengine
// directly.
type Client struct {
	Bus        otbus.Bus
	Timeout    time.Duration
	MaxRetries int
	Recorder   otengine.Recorder
}

// RangeError is returned by a writer when called with a value outside
// the Data-ID's admissible domain (spec §7 "Range violation"). It is
// constructed and returned before any bus traffic, satisfying P6.
type RangeError struct {
	DataID uint8
	Field  string
	Value  any
}

func (e *RangeError) Error() string {
	return fmt.Sprintf("otid: data-id %#x: %s out of range: %v", e.DataID, e.Field, e.Value)
}

func (c *Client) read(ctx context.Context, dataID uint8) (uint16, error) {
	resp, err := otengine.ExchangeWithRetry(ctx, c.Bus, otcodec.ReadData, dataID, 0, c.Timeout, c.MaxRetries, c.Recorder)
	if err != nil {
		return 0, err
	}
	return resp.Value, nil
}

func (c *Client) write(ctx context.Context, dataID uint8, value uint16) (uint16, error) {
	resp, err := otengine.ExchangeWithRetry(ctx, c.Bus, otcodec.WriteData, dataID, value, c.Timeout, c.MaxRetries, c.Recorder)
	if err != nil {
		return 0, err
	}
	return resp.Value, nil
}

// ReadRaw issues a plain READ-DATA for a Data-ID with no typed
// accessor of its own, such as a vendor-assigned ID configured at
// runtime (spec §4.D's power-cycle counter row: "vendor-assigned,
// called out in E").
func (c *Client) ReadRaw(ctx context.Context, dataID uint8) (uint16, error) {
	return c.read(ctx, dataID)
}

// WriteRaw issues a plain WRITE-DATA for an arbitrary Data-ID and
// 16-bit payload, bypassing every typed writer's range validation.
// Exists for cmd/otcli's debug harness (spec §6 "arbitrary ... by
// numeric ID"); production code should prefer the typed writers.
func (c *Client) WriteRaw(ctx context.Context, dataID uint8, value uint16) (uint16, error) {
	return c.write(ctx, dataID, value)
}

// readIndexed issues a READ-DATA carrying a non-zero request value,
// for the handful of Data-IDs (TSP data, FHB data) where the request
// payload selects which vendor sub-parameter to read.
func (c *Client) readIndexed(ctx context.Context, dataID uint8, requestValue uint16) (uint16, error) {
	resp, err := otengine.ExchangeWithRetry(ctx, c.Bus, otcodec.ReadData, dataID, requestValue, c.Timeout, c.MaxRetries, c.Recorder)
	if err != nil {
		return 0, err
	}
	return resp.Value, nil
}

// hiLo joins a high and a low byte into a 16-bit value and splitHiLo
// splits one back, the packing convention used by most of the bitfield
// and bounds Data-IDs.
func hiLo(hi, lo uint8) uint16 { return uint16(hi)<<8 | uint16(lo) }
func splitHiLo(v uint16) (hi, lo uint8) {
	return uint8(v >> 8), uint8(v)
}
