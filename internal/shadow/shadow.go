// Package shadow holds the boiler shadow state (spec §3): the
// control loop's record of last-read sensor values, fault bits, user
// setpoints and their admissible ranges, enable flags, RBP
// permissions, and the last-seen power-cycle counter. The control
// loop is the only owner and mutator; everything else (the MQTT
// bridge) only ever sees an immutable Snapshot (spec §5's "read-only
// from the external-interface collaborator").
package shadow

import (
	"sync/atomic"

	"github.com/adq/picotherm/internal/otid"
)

// Snapshot is an immutable copy of the boiler shadow at a point in
// time. The control loop builds and publishes a new Snapshot on every
// Shadow.Update; readers never see a partially updated one.
type Snapshot struct {
	// Sensor values, last successfully read.
	BoilerFlowTemp   float64
	ReturnTemp       float64
	ExhaustTemp      int16
	DHWTemp          float64
	FanRPM           int
	CHPressure       float64
	DHWFlowRate      float64
	ModulationLevel  float64
	MaxCapacityKW    uint8
	MinModulationPct uint8

	// Last-read fault bitfield.
	Fault ApplicationFault

	// User-facing setpoints and their admissible ranges.
	CHSetpoint        float64
	DHWSetpoint       float64
	DHWSetpointRange  otid.SetpointBounds
	MaxCHSetpoint     float64
	MaxCHSetpointRange otid.SetpointBounds

	// Enable flags.
	CHEnabled  bool
	DHWEnabled bool

	// Status-derived activity flags.
	CHActive      bool
	DHWActive     bool
	FlameActive   bool
	CoolingActive bool

	// RBP (remote boiler parameter) permissions.
	RBP otid.RBPFlags

	// Restart detection.
	PowerCycleCount uint16
}

// ApplicationFault mirrors otid.ApplicationFaultFlags plus the
// status-level fault bit, so MQTT consumers get one flat struct
// instead of reaching into two different Data-ID decodes.
type ApplicationFault struct {
	Active           bool
	ServiceRequired  bool
	LockoutReset     bool
	LowWaterPressure bool
	FlameFault       bool
	LowAirPressure   bool
	WaterOverTemp    bool
	OEMCode          uint8
}

// Shadow is the control loop's mutable handle on the boiler state. It
// is safe for one writer (the control loop goroutine) and any number
// of concurrent readers (the MQTT bridge goroutine, cmd/otcli), since
// mutation only ever happens by building a new Snapshot and swapping
// the atomic pointer — never by mutating fields in place.
type Shadow struct {
	current atomic.Pointer[Snapshot]
}

// New creates a Shadow with an empty initial Snapshot.
func New() *Shadow {
	s := &Shadow{}
	s.current.Store(&Snapshot{})
	return s
}

// Load returns the latest published Snapshot. Never returns nil.
func (s *Shadow) Load() *Snapshot {
	return s.current.Load()
}

// Update atomically replaces the current Snapshot with the result of
// applying fn to a copy of the current one. Only the control loop
// goroutine should call Update.
func (s *Shadow) Update(fn func(*Snapshot)) *Snapshot {
	next := *s.current.Load()
	fn(&next)
	s.current.Store(&next)
	return &next
}
