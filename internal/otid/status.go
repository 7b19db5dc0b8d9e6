package otid

import (
	"context"

	"github.com/adq/picotherm/internal/otcodec"
	"github.com/adq/picotherm/internal/otengine"
)

// ExchangeStatus performs the Data-ID 0 status exchange: the master
// bits of request are sent, and the returned StatusFlags carries both
// the request's master bits (echoed back for convenience) and the
// slave's decoded response bits (spec §4.D "Status", §8 scenario 3).
// This is also the mandatory ~1Hz status cycle the control loop must
// never skip (spec invariant I5).
func (c *Client) ExchangeStatus(ctx context.Context, request StatusFlags) (StatusFlags, error) {
	value := uint16(encodeStatusMaster(request)) << 8
	resp, err := otengine.ExchangeWithRetry(ctx, c.Bus, otcodec.ReadData, IDStatus, value, c.Timeout, c.MaxRetries, c.Recorder)
	if err != nil {
		return StatusFlags{}, err
	}
	result := request
	_, lo := splitHiLo(resp.Value)
	decodeStatusSlave(lo, &result)
	return result, nil
}
