package control

import (
	"context"

	"github.com/adq/picotherm/internal/shadow"
)

// negotiate runs once per BOOT (spec §4.E "NEGOTIATE (run once per
// BOOT)"). Each step is individually fault-isolated: an unsupported ID
// only costs that one shadow field, never the rest of negotiation.
func (l *Loop) negotiate(ctx context.Context) {
	if err := l.Catalog.WritePrimaryConfig(ctx, 0); err != nil {
		l.logger().Warn("negotiate: write primary config failed", "err", err)
	}

	if secondary, err := l.Catalog.ReadSecondaryConfig(ctx); err != nil {
		l.logger().Warn("negotiate: read secondary config failed", "err", err)
	} else {
		l.logger().Info("secondary config", "dhw_present", secondary.DHWPresent, "modulating", secondary.Modulating)
	}

	if rbp, err := l.Catalog.ReadRBPFlags(ctx); err != nil {
		l.logger().Warn("negotiate: read RBP flags failed", "err", err)
	} else {
		l.Shadow.Update(func(s *shadow.Snapshot) { s.RBP = rbp })
	}

	if capacity, err := l.Catalog.ReadCapacityAndMinModulation(ctx); err != nil {
		l.logger().Warn("negotiate: read capacity/min-modulation failed", "err", err)
	} else {
		l.Shadow.Update(func(s *shadow.Snapshot) {
			s.MaxCapacityKW = capacity.MaxKW
			s.MinModulationPct = capacity.MinModulation
		})
	}

	if bounds, err := l.Catalog.ReadDHWSetpointBounds(ctx); err != nil {
		l.logger().Warn("negotiate: read DHW setpoint bounds failed", "err", err)
	} else {
		l.Shadow.Update(func(s *shadow.Snapshot) { s.DHWSetpointRange = bounds })
	}

	if bounds, err := l.Catalog.ReadMaxCHSetpointBounds(ctx); err != nil {
		l.logger().Warn("negotiate: read max-CH setpoint bounds failed", "err", err)
	} else {
		l.Shadow.Update(func(s *shadow.Snapshot) { s.MaxCHSetpointRange = bounds })
	}

	if count, err := l.readPowerCycleCounter(ctx); err != nil {
		l.logger().Warn("negotiate: read power-cycle counter failed", "err", err)
	} else {
		l.Shadow.Update(func(s *shadow.Snapshot) { s.PowerCycleCount = count })
	}
}

var errPowerCycleCounterUnconfigured = errNotConfigured{}

type errNotConfigured struct{}

func (errNotConfigured) Error() string {
	return "control: power-cycle counter Data-ID not configured, restart detection disabled"
}

// readPowerCycleCounter reads the vendor-assigned restart-detection
// ID, or reports errPowerCycleCounterUnconfigured if none was set
// (spec §4.D table: "vendor-assigned, called out in E").
func (l *Loop) readPowerCycleCounter(ctx context.Context) (uint16, error) {
	if l.PowerCycleCounterID == 0 {
		return 0, errPowerCycleCounterUnconfigured
	}
	return l.Catalog.ReadRaw(ctx, l.PowerCycleCounterID)
}
