package control

import (
	"context"
	"time"

	"github.com/adq/picotherm/internal/otid"
	"github.com/adq/picotherm/internal/shadow"
)

// mandatoryCadence is fixed at ~1s (spec invariant I5: the mandatory
// cycle is the only cadence not configurable below this).
const mandatoryCadence = time.Second

// steady runs the three cadences until a restart is detected (return
// StateBoot, nil) or a bus fault propagates (return "", err). Per spec
// §4.E "Scheduling", cadences are driven by comparing last-emitted
// timestamps against the clock rather than fixed per-cycle sleeps, so
// a single fast poll loop serves all three.
func (l *Loop) steady(ctx context.Context) (State, error) {
	var lastMandatory, lastDetail, lastWrite time.Time
	faultActive := l.Shadow.Load().Fault.Active

	for {
		if err := ctx.Err(); err != nil {
			return "", err
		}

		now := l.now()

		if now.Sub(lastMandatory) >= mandatoryCadence {
			if err := l.mandatoryCycle(ctx, &faultActive); err != nil {
				return "", err
			}
			lastMandatory = now
		}

		if now.Sub(lastDetail) >= l.DetailCadence {
			restarted, err := l.detailCycle(ctx)
			if err != nil {
				return "", err
			}
			lastDetail = now
			if restarted {
				return StateBoot, nil
			}
		}

		if now.Sub(lastWrite) >= l.WriteCadence {
			l.drainCommands()
			if err := l.writeCycle(ctx); err != nil {
				return "", err
			}
			lastWrite = now
		}

		if err := l.sleep(ctx, defaultPollInterval); err != nil {
			return "", err
		}
	}
}

// mandatoryCycle is the ~1s status exchange plus CH setpoint write
// (spec §4.E "Mandatory cycle"). faultActive tracks the fault flag's
// last-seen value across calls so a rising edge triggers exactly one
// annunciation.
func (l *Loop) mandatoryCycle(ctx context.Context, faultActive *bool) error {
	snap := l.Shadow.Load()

	status, statusErr := l.Catalog.ExchangeStatus(ctx, otid.StatusFlags{
		CHEnable:  snap.CHEnabled,
		DHWEnable: snap.DHWEnabled,
	})
	if handled := l.handleErr(statusErr, "mandatory cycle: status exchange failed"); handled != nil {
		return handled
	}
	if statusErr == nil {
		l.Shadow.Update(func(s *shadow.Snapshot) {
			s.CHActive = status.CHActive
			s.DHWActive = status.DHWActive
			s.FlameActive = status.FlameActive
			s.CoolingActive = status.CoolingActive
			s.Fault.Active = status.Fault
		})

		switch {
		case status.Fault && !*faultActive:
			l.observe(StateFaultHold)
			l.annunciateFault(ctx)
		case !status.Fault && *faultActive:
			l.observe(StateSteady)
		}
		*faultActive = status.Fault
	}

	writeErr := l.Catalog.WriteTSet(ctx, snap.CHSetpoint)
	return l.handleErr(writeErr, "mandatory cycle: CH setpoint write failed")
}

// annunciateFault reads Data-ID 5 once and logs a human-readable
// summary on a fault flag's rising edge (spec §4.E, §7 "boiler faults
// (flag transitions) are emitted to the syslog sink with a
// human-readable summary").
func (l *Loop) annunciateFault(ctx context.Context) {
	flags, err := l.Catalog.ReadApplicationFaultFlags(ctx)
	if err != nil {
		l.logger().Error("boiler reports a fault but reading fault flags failed", "err", err)
		return
	}
	l.Shadow.Update(func(s *shadow.Snapshot) {
		s.Fault.ServiceRequired = flags.ServiceRequired
		s.Fault.LockoutReset = flags.LockoutReset
		s.Fault.LowWaterPressure = flags.LowWaterPressure
		s.Fault.FlameFault = flags.FlameFault
		s.Fault.LowAirPressure = flags.LowAirPressure
		s.Fault.WaterOverTemp = flags.WaterOverTemp
		s.Fault.OEMCode = flags.OEMCode
	})
	l.logger().Warn("boiler fault",
		"service_required", flags.ServiceRequired,
		"lockout_reset", flags.LockoutReset,
		"low_water_pressure", flags.LowWaterPressure,
		"flame_fault", flags.FlameFault,
		"low_air_pressure", flags.LowAirPressure,
		"water_over_temp", flags.WaterOverTemp,
		"oem_code", flags.OEMCode,
	)
}

// detailCycle reads the slower-moving sensors (spec §4.E "Detail
// cycle") and checks the power-cycle counter for a boiler restart. An
// UNKNOWN-DATAID on an individual read just leaves that shadow field
// at its last good value.
func (l *Loop) detailCycle(ctx context.Context) (restarted bool, err error) {
	if v, readErr := l.Catalog.ReadBoilerFlowTemp(ctx); readErr == nil {
		l.Shadow.Update(func(s *shadow.Snapshot) { s.BoilerFlowTemp = v })
	} else if handled := l.handleErr(readErr, "detail cycle: read boiler flow temp failed"); handled != nil {
		return false, handled
	}

	if v, readErr := l.Catalog.ReadReturnTemp(ctx); readErr == nil {
		l.Shadow.Update(func(s *shadow.Snapshot) { s.ReturnTemp = v })
	} else if handled := l.handleErr(readErr, "detail cycle: read return temp failed"); handled != nil {
		return false, handled
	}

	if v, readErr := l.Catalog.ReadExhaustTemp(ctx); readErr == nil {
		l.Shadow.Update(func(s *shadow.Snapshot) { s.ExhaustTemp = v })
	} else if handled := l.handleErr(readErr, "detail cycle: read exhaust temp failed"); handled != nil {
		return false, handled
	}

	if rpm, readErr := l.Catalog.ReadFanSpeed(ctx); readErr == nil {
		l.Shadow.Update(func(s *shadow.Snapshot) { s.FanRPM = rpm })
	} else if handled := l.handleErr(readErr, "detail cycle: read fan speed failed"); handled != nil {
		return false, handled
	}

	if v, readErr := l.Catalog.ReadRelativeModulation(ctx); readErr == nil {
		l.Shadow.Update(func(s *shadow.Snapshot) { s.ModulationLevel = v })
	} else if handled := l.handleErr(readErr, "detail cycle: read relative modulation failed"); handled != nil {
		return false, handled
	}

	if v, readErr := l.Catalog.ReadCHWaterPressure(ctx); readErr == nil {
		l.Shadow.Update(func(s *shadow.Snapshot) { s.CHPressure = v })
	} else if handled := l.handleErr(readErr, "detail cycle: read CH water pressure failed"); handled != nil {
		return false, handled
	}

	if v, readErr := l.Catalog.ReadDHWFlowRate(ctx); readErr == nil {
		l.Shadow.Update(func(s *shadow.Snapshot) { s.DHWFlowRate = v })
	} else if handled := l.handleErr(readErr, "detail cycle: read DHW flow rate failed"); handled != nil {
		return false, handled
	}

	if v, readErr := l.Catalog.ReadDHWTemp(ctx); readErr == nil {
		l.Shadow.Update(func(s *shadow.Snapshot) { s.DHWTemp = v })
	} else if handled := l.handleErr(readErr, "detail cycle: read DHW temp failed"); handled != nil {
		return false, handled
	}

	if flags, readErr := l.Catalog.ReadApplicationFaultFlags(ctx); readErr == nil {
		l.Shadow.Update(func(s *shadow.Snapshot) {
			s.Fault.ServiceRequired = flags.ServiceRequired
			s.Fault.LockoutReset = flags.LockoutReset
			s.Fault.LowWaterPressure = flags.LowWaterPressure
			s.Fault.FlameFault = flags.FlameFault
			s.Fault.LowAirPressure = flags.LowAirPressure
			s.Fault.WaterOverTemp = flags.WaterOverTemp
			s.Fault.OEMCode = flags.OEMCode
		})
	} else if handled := l.handleErr(readErr, "detail cycle: read application fault flags failed"); handled != nil {
		return false, handled
	}

	count, countErr := l.readPowerCycleCounter(ctx)
	if countErr != nil {
		if _, unconfigured := countErr.(errNotConfigured); !unconfigured {
			if handled := l.handleErr(countErr, "detail cycle: read power-cycle counter failed"); handled != nil {
				return false, handled
			}
		}
		return false, nil
	}

	prev := l.Shadow.Load().PowerCycleCount
	l.Shadow.Update(func(s *shadow.Snapshot) { s.PowerCycleCount = count })
	if prev != count {
		l.logger().Warn("power-cycle counter changed, boiler restart inferred", "previous", prev, "current", count)
		return true, nil
	}
	return false, nil
}

// writeCycle writes the max relative modulation level and, where RBP
// allows, the DHW and max-CH setpoints (spec §4.E "Write cycle").
func (l *Loop) writeCycle(ctx context.Context) error {
	snap := l.Shadow.Load()

	if err := l.handleErr(l.Catalog.WriteMaxRelModulation(ctx, l.DefaultMaxRelModulation), "write cycle: max relative modulation failed"); err != nil {
		return err
	}

	if snap.RBP.DHWSetpoint == otid.PermissionReadWrite {
		if err := l.handleErr(l.Catalog.WriteDHWSetpoint(ctx, snap.DHWSetpoint, snap.DHWSetpointRange), "write cycle: DHW setpoint failed"); err != nil {
			return err
		}
	}

	if snap.RBP.MaxCHSetpoint == otid.PermissionReadWrite {
		if err := l.handleErr(l.Catalog.WriteMaxCHSetpoint(ctx, snap.MaxCHSetpoint, snap.MaxCHSetpointRange), "write cycle: max-CH setpoint failed"); err != nil {
			return err
		}
	}

	return nil
}
