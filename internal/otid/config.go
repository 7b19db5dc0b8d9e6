package otid

import (
	"context"

	"github.com/adq/picotherm/internal/otcodec"
)

// WritePrimaryConfig writes Data-ID 2: the primary (master) member ID
// in the low byte, per spec NEGOTIATE step "write primary
// configuration (MemberID 0, non-specific)".
func (c *Client) WritePrimaryConfig(ctx context.Context, memberID uint8) error {
	_, err := c.write(ctx, IDPrimaryConfig, hiLo(0, memberID))
	return err
}

// ReadSecondaryConfig reads Data-ID 3.
func (c *Client) ReadSecondaryConfig(ctx context.Context) (SecondaryConfig, error) {
	v, err := c.read(ctx, IDSecondaryConfig)
	if err != nil {
		return SecondaryConfig{}, err
	}
	return decodeSecondaryConfig(v), nil
}

// WriteRemoteCommand writes Data-ID 4: command in the high byte, and
// returns the echo the slave returns in the low byte.
func (c *Client) WriteRemoteCommand(ctx context.Context, command uint8) (echo uint8, err error) {
	v, err := c.write(ctx, IDRemoteCommand, hiLo(command, 0))
	if err != nil {
		return 0, err
	}
	_, echo = splitHiLo(v)
	return echo, nil
}

// ReadApplicationFaultFlags reads Data-ID 5.
func (c *Client) ReadApplicationFaultFlags(ctx context.Context) (ApplicationFaultFlags, error) {
	v, err := c.read(ctx, IDApplicationFaultFlags)
	if err != nil {
		return ApplicationFaultFlags{}, err
	}
	return decodeApplicationFaultFlags(v), nil
}

// ReadRBPFlags reads Data-ID 6.
func (c *Client) ReadRBPFlags(ctx context.Context) (RBPFlags, error) {
	v, err := c.read(ctx, IDRBPFlags)
	if err != nil {
		return RBPFlags{}, err
	}
	return decodeRBPFlags(v), nil
}

// ReadRemoteOverrideTR reads Data-ID 9: the remote override room
// setpoint, F8.8.
func (c *Client) ReadRemoteOverrideTR(ctx context.Context) (float64, error) {
	v, err := c.read(ctx, IDRemoteOverrideTR)
	if err != nil {
		return 0, err
	}
	return otcodec.F88(v), nil
}

// ReadRemoteOverrideFunction reads Data-ID 100.
func (c *Client) ReadRemoteOverrideFunction(ctx context.Context) (RemoteOverrideFunction, error) {
	v, err := c.read(ctx, IDRemoteOverrideFunction)
	if err != nil {
		return RemoteOverrideFunction{}, err
	}
	return decodeRemoteOverrideFunction(v), nil
}
