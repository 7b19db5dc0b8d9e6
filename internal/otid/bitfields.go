package otid

// Per spec §9 "Design Notes": dynamic dictionary-shaped responses
// become tagged records of named booleans plus any scalar fields, so
// callers read named fields instead of keyed dictionaries.

// StatusFlags is the decoded form of Data-ID 0 (spec §4.D "Status").
// Master bits (hi byte) are the flags this gateway controls; slave
// bits (lo byte) are the flags the boiler reports back.
type StatusFlags struct {
	// Master-originated (request) bits.
	CHEnable       bool
	DHWEnable      bool
	CoolingEnable  bool
	OTCActive      bool
	CH2Enable      bool
	// Slave-originated (response) bits.
	Fault            bool
	CHActive         bool
	DHWActive        bool
	FlameActive      bool
	CoolingActive    bool
	CH2Active        bool
	DiagnosticEvent  bool
}

func encodeStatusMaster(f StatusFlags) uint8 {
	var b uint8
	if f.CHEnable {
		b |= 1 << 0
	}
	if f.DHWEnable {
		b |= 1 << 1
	}
	if f.CoolingEnable {
		b |= 1 << 2
	}
	if f.OTCActive {
		b |= 1 << 3
	}
	if f.CH2Enable {
		b |= 1 << 4
	}
	return b
}

func decodeStatusSlave(b uint8, f *StatusFlags) {
	f.Fault = b&(1<<0) != 0
	f.CHActive = b&(1<<1) != 0
	f.DHWActive = b&(1<<2) != 0
	f.FlameActive = b&(1<<3) != 0
	f.CoolingActive = b&(1<<4) != 0
	f.CH2Active = b&(1<<5) != 0
	f.DiagnosticEvent = b&(1<<6) != 0
}

// SecondaryConfig is the decoded form of Data-ID 3.
type SecondaryConfig struct {
	DHWPresent    bool
	Modulating    bool // false = on/off control type
	Cooling       bool
	DHWStorage    bool // false = instantaneous DHW
	PumpControl   bool
	CH2Supported  bool
	MemberID      uint8
}

func decodeSecondaryConfig(value uint16) SecondaryConfig {
	hi, lo := splitHiLo(value)
	return SecondaryConfig{
		DHWPresent:   hi&(1<<0) != 0,
		Modulating:   hi&(1<<1) != 0,
		Cooling:      hi&(1<<2) != 0,
		DHWStorage:   hi&(1<<3) != 0,
		PumpControl:  hi&(1<<4) != 0,
		CH2Supported: hi&(1<<5) != 0,
		MemberID:     lo,
	}
}

// ApplicationFaultFlags is the decoded form of Data-ID 5.
type ApplicationFaultFlags struct {
	ServiceRequired bool
	LockoutReset    bool // "BLOR enabled" in spec: lockout-reset by master permitted
	LowWaterPressure bool
	FlameFault      bool
	LowAirPressure  bool
	WaterOverTemp   bool
	OEMCode         uint8
}

func decodeApplicationFaultFlags(value uint16) ApplicationFaultFlags {
	hi, lo := splitHiLo(value)
	return ApplicationFaultFlags{
		ServiceRequired:  hi&(1<<0) != 0,
		LockoutReset:     hi&(1<<1) != 0,
		LowWaterPressure: hi&(1<<2) != 0,
		FlameFault:       hi&(1<<3) != 0,
		LowAirPressure:   hi&(1<<4) != 0,
		WaterOverTemp:    hi&(1<<5) != 0,
		OEMCode:          lo,
	}
}

// Permission describes whether a remote boiler parameter is
// unsupported, read-only, or read/write, per Data-ID 6.
type Permission int

const (
	PermissionUnsupported Permission = iota
	PermissionReadOnly
	PermissionReadWrite
)

// RBPFlags is the decoded form of Data-ID 6: per spec §9's resolved
// Open Question, support flags live in the high byte (bits 8/9) and
// read/write (transfer-enable) flags live in the low byte (bits 4/5),
// following the OpenTherm specification's layout rather than either
// conflicting copy of the original source.
type RBPFlags struct {
	DHWSetpoint   Permission
	MaxCHSetpoint Permission
}

func decodeRBPFlags(value uint16) RBPFlags {
	permission := func(supported, writable bool) Permission {
		if !supported {
			return PermissionUnsupported
		}
		if writable {
			return PermissionReadWrite
		}
		return PermissionReadOnly
	}
	dhwSupported := value&0x0100 != 0
	maxCHSupported := value&0x0200 != 0
	dhwWritable := value&0x0010 != 0
	maxCHWritable := value&0x0020 != 0
	return RBPFlags{
		DHWSetpoint:   permission(dhwSupported, dhwWritable),
		MaxCHSetpoint: permission(maxCHSupported, maxCHWritable),
	}
}

// RemoteOverrideFunction is the decoded form of Data-ID 100.
type RemoteOverrideFunction struct {
	ManualChangePriority  bool
	ProgramChangePriority bool
}

func decodeRemoteOverrideFunction(value uint16) RemoteOverrideFunction {
	_, lo := splitHiLo(value)
	return RemoteOverrideFunction{
		ManualChangePriority:  lo&(1<<0) != 0,
		ProgramChangePriority: lo&(1<<1) != 0,
	}
}
