package otid

import (
	"context"

	"github.com/adq/picotherm/internal/otcodec"
)

// ReadTSPCount reads Data-ID 10: the number of vendor-specific
// transparent slave parameters the boiler exposes.
func (c *Client) ReadTSPCount(ctx context.Context) (uint8, error) {
	v, err := c.read(ctx, IDTSPCount)
	if err != nil {
		return 0, err
	}
	_, lo := splitHiLo(v)
	return lo, nil
}

// ReadTSPData reads Data-ID 11 for the given vendor parameter index:
// the request carries the index in the high byte, and the response
// carries the value in the low byte.
func (c *Client) ReadTSPData(ctx context.Context, index uint8) (uint8, error) {
	v, err := c.readIndexed(ctx, IDTSPData, hiLo(index, 0))
	if err != nil {
		return 0, err
	}
	_, lo := splitHiLo(v)
	return lo, nil
}

// WriteTSPData writes Data-ID 11 for the given vendor parameter index.
func (c *Client) WriteTSPData(ctx context.Context, index, value uint8) error {
	_, err := c.write(ctx, IDTSPData, hiLo(index, value))
	return err
}

// ReadFHBCount reads Data-ID 12: the size of the fault history buffer.
func (c *Client) ReadFHBCount(ctx context.Context) (uint8, error) {
	v, err := c.read(ctx, IDFHBCount)
	if err != nil {
		return 0, err
	}
	_, lo := splitHiLo(v)
	return lo, nil
}

// ReadFHBData reads Data-ID 13 for the given fault history index.
func (c *Client) ReadFHBData(ctx context.Context, index uint8) (uint8, error) {
	resp, err := c.readIndexed(ctx, IDFHBData, hiLo(index, 0))
	if err != nil {
		return 0, err
	}
	_, lo := splitHiLo(resp)
	return lo, nil
}

// ReadOEMDiagnosticCode reads Data-ID 115, a vendor-specific 16-bit
// diagnostic code.
func (c *Client) ReadOEMDiagnosticCode(ctx context.Context) (uint16, error) {
	return c.read(ctx, IDOEMDiagnosticCode)
}

// Counters covers the eight 16-bit burner/pump start and operating
// hour counters, Data-IDs 116-123.
type Counters struct {
	BurnerStarts           uint16
	CHPumpStarts           uint16
	DHWPumpValveStarts     uint16
	DHWBurnerStarts        uint16
	BurnerOperationHours   uint16
	CHPumpOperationHours   uint16
	DHWPumpValveOperHours  uint16
	DHWBurnerOperationHours uint16
}

// ReadCounter reads one of the eight counters, identified by its
// Data-ID (IDBurnerStarts..IDDHWBurnerOperationHours).
func (c *Client) ReadCounter(ctx context.Context, dataID uint8) (uint16, error) {
	return c.read(ctx, dataID)
}

// ProductVersion is the decoded form of Data-IDs 126/127: an 8-bit
// product type and an 8-bit version.
type ProductVersion struct {
	Type    uint8
	Version uint8
}

// ReadOTVersionPrimary reads Data-ID 124, F8.8.
func (c *Client) ReadOTVersionPrimary(ctx context.Context) (float64, error) {
	return c.readF88(ctx, IDOTVersionPrimary)
}

// WriteOTVersionPrimary writes Data-ID 124.
func (c *Client) WriteOTVersionPrimary(ctx context.Context, version float64) error {
	_, err := c.write(ctx, IDOTVersionPrimary, otcodec.EncodeF88(version))
	return err
}

// ReadOTVersionSecondary reads Data-ID 125, F8.8.
func (c *Client) ReadOTVersionSecondary(ctx context.Context) (float64, error) {
	return c.readF88(ctx, IDOTVersionSecondary)
}

// ReadPrimaryProductVersion reads Data-ID 126.
func (c *Client) ReadPrimaryProductVersion(ctx context.Context) (ProductVersion, error) {
	v, err := c.read(ctx, IDPrimaryProductVersion)
	if err != nil {
		return ProductVersion{}, err
	}
	hi, lo := splitHiLo(v)
	return ProductVersion{Type: hi, Version: lo}, nil
}

// WritePrimaryProductVersion writes Data-ID 126.
func (c *Client) WritePrimaryProductVersion(ctx context.Context, pv ProductVersion) error {
	_, err := c.write(ctx, IDPrimaryProductVersion, hiLo(pv.Type, pv.Version))
	return err
}

// ReadSecondaryProductVersion reads Data-ID 127.
func (c *Client) ReadSecondaryProductVersion(ctx context.Context) (ProductVersion, error) {
	v, err := c.read(ctx, IDSecondaryProductVersion)
	if err != nil {
		return ProductVersion{}, err
	}
	hi, lo := splitHiLo(v)
	return ProductVersion{Type: hi, Version: lo}, nil
}
