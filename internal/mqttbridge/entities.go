package mqttbridge

import (
	"strconv"

	"github.com/adq/picotherm/internal/control"
	"github.com/adq/picotherm/internal/shadow"
)

// sensorEntity describes one read-only numeric topic published under
// the "sensor" HA component.
type sensorEntity struct {
	objectID    string
	name        string
	unit        string
	deviceClass string
	read        func(*shadow.Snapshot) string
}

// binarySensorEntity describes one read-only ON/OFF topic.
type binarySensorEntity struct {
	objectID    string
	name        string
	deviceClass string
	read        func(*shadow.Snapshot) bool
}

// switchEntity describes a read/write boolean control (spec §6 "CH
// enable" / "DHW enable").
type switchEntity struct {
	objectID string
	name     string
	read     func(*shadow.Snapshot) bool
	command  control.CommandKind
}

// numberEntity describes a read/write numeric control (spec §6 "CH
// setpoint" / "DHW setpoint"). The admissible range goes out as the
// min/max of the entity's discovery config, which is published on each
// broker (re)connect; state updates carry only the value, and a range
// change is not republished until the next connect.
type numberEntity struct {
	objectID string
	name     string
	unit     string
	min, max func(*shadow.Snapshot) float64
	step     float64
	read     func(*shadow.Snapshot) float64
	command  control.CommandKind
}

func formatTemp(v float64) string { return strconv.FormatFloat(v, 'f', 1, 64) }

var sensorEntities = []sensorEntity{
	{"boiler_flow_temp", "Boiler Flow Temperature", "°C", "temperature", func(s *shadow.Snapshot) string { return formatTemp(s.BoilerFlowTemp) }},
	{"return_temp", "Return Temperature", "°C", "temperature", func(s *shadow.Snapshot) string { return formatTemp(s.ReturnTemp) }},
	{"exhaust_temp", "Exhaust Temperature", "°C", "temperature", func(s *shadow.Snapshot) string { return strconv.Itoa(int(s.ExhaustTemp)) }},
	{"dhw_temp", "DHW Temperature", "°C", "temperature", func(s *shadow.Snapshot) string { return formatTemp(s.DHWTemp) }},
	{"fan_speed", "Fan Speed", "rpm", "", func(s *shadow.Snapshot) string { return strconv.Itoa(s.FanRPM) }},
	{"ch_pressure", "CH Water Pressure", "bar", "pressure", func(s *shadow.Snapshot) string { return formatTemp(s.CHPressure) }},
	{"dhw_flow_rate", "DHW Flow Rate", "L/min", "", func(s *shadow.Snapshot) string { return formatTemp(s.DHWFlowRate) }},
	{"modulation_level", "Relative Modulation", "%", "", func(s *shadow.Snapshot) string { return formatTemp(s.ModulationLevel) }},
	{"max_capacity", "Max Capacity", "kW", "", func(s *shadow.Snapshot) string { return strconv.Itoa(int(s.MaxCapacityKW)) }},
}

var binarySensorEntities = []binarySensorEntity{
	{"flame_active", "Flame", "heat", func(s *shadow.Snapshot) bool { return s.FlameActive }},
	{"fault_active", "Fault", "problem", func(s *shadow.Snapshot) bool { return s.Fault.Active }},
	{"ch_active", "CH Active", "running", func(s *shadow.Snapshot) bool { return s.CHActive }},
	{"dhw_active", "DHW Active", "running", func(s *shadow.Snapshot) bool { return s.DHWActive }},
}

var switchEntities = []switchEntity{
	{"ch_enable", "CH Enable", func(s *shadow.Snapshot) bool { return s.CHEnabled }, control.CommandSetCHEnable},
	{"dhw_enable", "DHW Enable", func(s *shadow.Snapshot) bool { return s.DHWEnabled }, control.CommandSetDHWEnable},
}

var numberEntities = []numberEntity{
	{
		objectID: "ch_setpoint",
		name:     "CH Setpoint",
		unit:     "°C",
		min:      func(*shadow.Snapshot) float64 { return 0 },
		max:      func(*shadow.Snapshot) float64 { return 100 },
		step:     0.5,
		read:     func(s *shadow.Snapshot) float64 { return s.CHSetpoint },
		command:  control.CommandSetCHSetpoint,
	},
	{
		objectID: "dhw_setpoint",
		name:     "DHW Setpoint",
		unit:     "°C",
		min:      func(s *shadow.Snapshot) float64 { return s.DHWSetpointRange.Min },
		max:      func(s *shadow.Snapshot) float64 { return s.DHWSetpointRange.Max },
		step:     0.5,
		read:     func(s *shadow.Snapshot) float64 { return s.DHWSetpoint },
		command:  control.CommandSetDHWSetpoint,
	},
}
