package otid

import (
	"context"

	"github.com/adq/picotherm/internal/otcodec"
)

func (c *Client) readF88(ctx context.Context, dataID uint8) (float64, error) {
	v, err := c.read(ctx, dataID)
	if err != nil {
		return 0, err
	}
	return otcodec.F88(v), nil
}

// ReadRelativeModulation reads Data-ID 17, F8.8 percent.
func (c *Client) ReadRelativeModulation(ctx context.Context) (float64, error) {
	return c.readF88(ctx, IDRelativeModulation)
}

// ReadCHWaterPressure reads Data-ID 18, F8.8 bar.
func (c *Client) ReadCHWaterPressure(ctx context.Context) (float64, error) {
	return c.readF88(ctx, IDCHWaterPressure)
}

// ReadDHWFlowRate reads Data-ID 19, F8.8 L/min.
func (c *Client) ReadDHWFlowRate(ctx context.Context) (float64, error) {
	return c.readF88(ctx, IDDHWFlowRate)
}

// ReadBoilerFlowTemp reads Data-ID 25, F8.8 degrees C.
func (c *Client) ReadBoilerFlowTemp(ctx context.Context) (float64, error) {
	return c.readF88(ctx, IDBoilerFlowTemp)
}

// ReadDHWTemp reads Data-ID 26, F8.8 degrees C.
func (c *Client) ReadDHWTemp(ctx context.Context) (float64, error) {
	return c.readF88(ctx, IDDHWTemp)
}

// ReadOutsideTemp reads Data-ID 27, F8.8 degrees C.
func (c *Client) ReadOutsideTemp(ctx context.Context) (float64, error) {
	return c.readF88(ctx, IDOutsideTemp)
}

// ReadReturnTemp reads Data-ID 28, F8.8 degrees C.
func (c *Client) ReadReturnTemp(ctx context.Context) (float64, error) {
	return c.readF88(ctx, IDReturnTemp)
}

// ReadSolarStorageTemp reads Data-ID 29, F8.8 degrees C.
func (c *Client) ReadSolarStorageTemp(ctx context.Context) (float64, error) {
	return c.readF88(ctx, IDSolarStorageTemp)
}

// ReadSolarCollectorTemp reads Data-ID 30, signed 16-bit degrees C (not
// F8.8, per spec §4.D "signed int").
func (c *Client) ReadSolarCollectorTemp(ctx context.Context) (int16, error) {
	v, err := c.read(ctx, IDSolarCollectorTemp)
	if err != nil {
		return 0, err
	}
	return otcodec.S16(v), nil
}

// ReadCH2FlowTemp reads Data-ID 31, F8.8 degrees C.
func (c *Client) ReadCH2FlowTemp(ctx context.Context) (float64, error) {
	return c.readF88(ctx, IDCH2FlowTemp)
}

// ReadDHW2Temp reads Data-ID 32, F8.8 degrees C.
func (c *Client) ReadDHW2Temp(ctx context.Context) (float64, error) {
	return c.readF88(ctx, IDDHW2Temp)
}

// ReadExhaustTemp reads Data-ID 33, signed 16-bit degrees C.
func (c *Client) ReadExhaustTemp(ctx context.Context) (int16, error) {
	v, err := c.read(ctx, IDExhaustTemp)
	if err != nil {
		return 0, err
	}
	return otcodec.S16(v), nil
}

// ReadFanSpeed reads Data-ID 35 and converts to RPM: (value & 0xff) *
// 60 (spec §4.D, v4.2 extension; may be UNKNOWN-DATAID on older
// boilers, which callers see as a plain error).
func (c *Client) ReadFanSpeed(ctx context.Context) (rpm int, err error) {
	v, err := c.read(ctx, IDFanSpeed)
	if err != nil {
		return 0, err
	}
	return int(v&0xff) * 60, nil
}
