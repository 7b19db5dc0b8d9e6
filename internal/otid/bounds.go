package otid

import (
	"context"

	"github.com/adq/picotherm/internal/otcodec"
)

// readBounds decodes the common "max in hi byte, min in lo byte, both
// s8" layout shared by Data-IDs 48, 49 and 50.
func (c *Client) readBounds(ctx context.Context, dataID uint8) (SetpointBounds, error) {
	v, err := c.read(ctx, dataID)
	if err != nil {
		return SetpointBounds{}, err
	}
	hi, lo := splitHiLo(v)
	return SetpointBounds{
		Max: float64(otcodec.S8(hi)),
		Min: float64(otcodec.S8(lo)),
	}, nil
}

// ReadDHWSetpointBounds reads Data-ID 48 (spec §8 scenario 4).
func (c *Client) ReadDHWSetpointBounds(ctx context.Context) (SetpointBounds, error) {
	return c.readBounds(ctx, IDDHWSetpointBounds)
}

// ReadMaxCHSetpointBounds reads Data-ID 49.
func (c *Client) ReadMaxCHSetpointBounds(ctx context.Context) (SetpointBounds, error) {
	return c.readBounds(ctx, IDMaxCHSetpointBounds)
}

// ReadHCRatioBounds reads Data-ID 50.
func (c *Client) ReadHCRatioBounds(ctx context.Context) (SetpointBounds, error) {
	return c.readBounds(ctx, IDHCRatioBounds)
}

// Capacity is the decoded form of Data-ID 15: max boiler capacity in
// kW, and the minimum modulation level in percent.
type Capacity struct {
	MaxKW          uint8
	MinModulation  uint8
}

// ReadCapacityAndMinModulation reads Data-ID 15.
func (c *Client) ReadCapacityAndMinModulation(ctx context.Context) (Capacity, error) {
	v, err := c.read(ctx, IDCapacityMinModulation)
	if err != nil {
		return Capacity{}, err
	}
	hi, lo := splitHiLo(v)
	return Capacity{MaxKW: hi, MinModulation: lo}, nil
}
