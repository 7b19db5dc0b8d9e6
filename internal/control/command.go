package control

import "github.com/adq/picotherm/internal/shadow"

// CommandKind identifies which writable control a Command targets
// (spec §6 "subscribes to command topics mirroring the writable
// controls: CH enable, CH setpoint, DHW enable, DHW setpoint").
type CommandKind int

const (
	CommandSetCHEnable CommandKind = iota
	CommandSetCHSetpoint
	CommandSetDHWEnable
	CommandSetDHWSetpoint
)

// Command is enqueued by the MQTT bridge's command handler and
// applied by the control loop at its next write-cycle tick (spec §5
// "Command writes take effect at the next write-cycle tick following
// receipt, not immediately"). The bridge never touches the bus
// itself; it only ever mutates the shadow through these.
type Command struct {
	Kind  CommandKind
	Bool  bool
	Float float64
}

// drainCommands applies every currently queued command to the shadow
// without blocking. It never issues bus traffic; the values it writes
// into the shadow are picked up by the next write/mandatory cycle.
func (l *Loop) drainCommands() {
	for {
		select {
		case cmd, ok := <-l.Commands:
			if !ok {
				return
			}
			l.applyCommand(cmd)
		default:
			return
		}
	}
}

// chSetpointBounds is WriteTSet's fixed admissible range (spec §4.D
// Data-ID 1), used to clamp CH setpoint commands; the DHW setpoint
// clamps against the boiler-reported range instead (spec §6 "Inbound
// setpoints are clamped to the shadow's currently known admissible
// range").
var chSetpointBounds = struct{ Min, Max float64 }{Min: 0, Max: 100}

func (l *Loop) applyCommand(cmd Command) {
	l.Shadow.Update(func(s *shadow.Snapshot) {
		switch cmd.Kind {
		case CommandSetCHEnable:
			s.CHEnabled = cmd.Bool
		case CommandSetCHSetpoint:
			s.CHSetpoint = clampRange(cmd.Float, chSetpointBounds.Min, chSetpointBounds.Max)
		case CommandSetDHWEnable:
			s.DHWEnabled = cmd.Bool
		case CommandSetDHWSetpoint:
			s.DHWSetpoint = clampRange(cmd.Float, s.DHWSetpointRange.Min, s.DHWSetpointRange.Max)
		}
	})
}

// clampRange clamps v into [min, max]. A zero-value range (min==max==0,
// meaning NEGOTIATE hasn't populated it yet) leaves v unclamped rather
// than pinning every setpoint to zero.
func clampRange(v, min, max float64) float64 {
	if min == 0 && max == 0 {
		return v
	}
	if v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}
