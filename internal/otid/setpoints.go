package otid

import (
	"context"

	"github.com/adq/picotherm/internal/otcodec"
)

// WriteTSet writes the CH setpoint, Data-ID 1, F8.8 degrees C, 0-100
// (spec §4.D).
func (c *Client) WriteTSet(ctx context.Context, celsius float64) error {
	if err := checkRange(IDTSet, "celsius", celsius, 0, 100); err != nil {
		return err
	}
	_, err := c.write(ctx, IDTSet, otcodec.EncodeF88(celsius))
	return err
}

// WriteTSetCH2 writes the second CH circuit's setpoint, Data-ID 8.
func (c *Client) WriteTSetCH2(ctx context.Context, celsius float64) error {
	if err := checkRange(IDTSetCH2, "celsius", celsius, 0, 100); err != nil {
		return err
	}
	_, err := c.write(ctx, IDTSetCH2, otcodec.EncodeF88(celsius))
	return err
}

// WriteCoolingControl writes the cooling control signal, Data-ID 7,
// F8.8 percent, 0-100.
func (c *Client) WriteCoolingControl(ctx context.Context, percent float64) error {
	if err := checkRange(IDCoolingControl, "percent", percent, 0, 100); err != nil {
		return err
	}
	_, err := c.write(ctx, IDCoolingControl, otcodec.EncodeF88(percent))
	return err
}

// WriteMaxRelModulation writes the max relative modulation level,
// Data-ID 14, F8.8 percent, 0-100. Per DESIGN.md's Open Question
// decision, this uses WRITE-DATA (the conventional msg_type for an ID
// documented "W"), not the READ-DATA one copy of the original source
// used.
func (c *Client) WriteMaxRelModulation(ctx context.Context, percent float64) error {
	if err := checkRange(IDMaxRelModulation, "percent", percent, 0, 100); err != nil {
		return err
	}
	_, err := c.write(ctx, IDMaxRelModulation, otcodec.EncodeF88(percent))
	return err
}

// WriteRoomSetpoint writes the room setpoint, Data-ID 16, F8.8 degrees
// C, -40..127.
func (c *Client) WriteRoomSetpoint(ctx context.Context, celsius float64) error {
	if err := checkRange(IDRoomSetpoint, "celsius", celsius, -40, 127); err != nil {
		return err
	}
	_, err := c.write(ctx, IDRoomSetpoint, otcodec.EncodeF88(celsius))
	return err
}

// WriteRoomSetpointCH2 writes the second circuit's room setpoint,
// Data-ID 23.
func (c *Client) WriteRoomSetpointCH2(ctx context.Context, celsius float64) error {
	if err := checkRange(IDRoomSetpointCH2, "celsius", celsius, -40, 127); err != nil {
		return err
	}
	_, err := c.write(ctx, IDRoomSetpointCH2, otcodec.EncodeF88(celsius))
	return err
}

// WriteRoomTemperature writes the measured room temperature, Data-ID
// 24, F8.8.
func (c *Client) WriteRoomTemperature(ctx context.Context, celsius float64) error {
	if err := checkRange(IDRoomTemperature, "celsius", celsius, -40, 127); err != nil {
		return err
	}
	_, err := c.write(ctx, IDRoomTemperature, otcodec.EncodeF88(celsius))
	return err
}

// ReadDHWSetpoint and WriteDHWSetpoint read and write Data-ID 56.
// Writing is only meaningful when RBPFlags.DHWSetpoint is
// PermissionReadWrite; callers are expected to check that before
// calling WriteDHWSetpoint (the control loop does, spec §4.E write
// cycle).
func (c *Client) ReadDHWSetpoint(ctx context.Context) (float64, error) {
	v, err := c.read(ctx, IDDHWSetpoint)
	if err != nil {
		return 0, err
	}
	return otcodec.F88(v), nil
}

func (c *Client) WriteDHWSetpoint(ctx context.Context, celsius float64, bounds SetpointBounds) error {
	if err := checkRangeFromBounds(IDDHWSetpoint, celsius, bounds); err != nil {
		return err
	}
	_, err := c.write(ctx, IDDHWSetpoint, otcodec.EncodeF88(celsius))
	return err
}

// ReadMaxCHSetpoint and WriteMaxCHSetpoint read and write Data-ID 57.
func (c *Client) ReadMaxCHSetpoint(ctx context.Context) (float64, error) {
	v, err := c.read(ctx, IDMaxCHSetpoint)
	if err != nil {
		return 0, err
	}
	return otcodec.F88(v), nil
}

func (c *Client) WriteMaxCHSetpoint(ctx context.Context, celsius float64, bounds SetpointBounds) error {
	if err := checkRangeFromBounds(IDMaxCHSetpoint, celsius, bounds); err != nil {
		return err
	}
	_, err := c.write(ctx, IDMaxCHSetpoint, otcodec.EncodeF88(celsius))
	return err
}

// ReadHCRatio and WriteHCRatio read and write Data-ID 58, the
// heating-curve ratio.
func (c *Client) ReadHCRatio(ctx context.Context) (float64, error) {
	v, err := c.read(ctx, IDHCRatio)
	if err != nil {
		return 0, err
	}
	return otcodec.F88(v), nil
}

func (c *Client) WriteHCRatio(ctx context.Context, ratio float64) error {
	if err := checkRange(IDHCRatio, "ratio", ratio, 0, 40); err != nil {
		return err
	}
	_, err := c.write(ctx, IDHCRatio, otcodec.EncodeF88(ratio))
	return err
}

// SetpointBounds is the (min, max) admissible range for a setpoint, as
// reported by the boiler via Data-ID 48/49 (spec §4.D, §8 scenario 4).
type SetpointBounds struct {
	Min float64
	Max float64
}

func checkRangeFromBounds(dataID uint8, celsius float64, bounds SetpointBounds) error {
	return checkRange(dataID, "celsius", celsius, bounds.Min, bounds.Max)
}
