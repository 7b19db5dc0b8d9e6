package otid

// Data-ID constants, exhaustively per spec §4.D.
const (
	IDStatus                  uint8 = 0
	IDTSet                    uint8 = 1
	IDPrimaryConfig           uint8 = 2
	IDSecondaryConfig         uint8 = 3
	IDRemoteCommand           uint8 = 4
	IDApplicationFaultFlags   uint8 = 5
	IDRBPFlags                uint8 = 6
	IDCoolingControl          uint8 = 7
	IDTSetCH2                 uint8 = 8
	IDRemoteOverrideTR        uint8 = 9
	IDTSPCount                uint8 = 10
	IDTSPData                 uint8 = 11
	IDFHBCount                uint8 = 12
	IDFHBData                 uint8 = 13
	IDMaxRelModulation        uint8 = 14
	IDCapacityMinModulation   uint8 = 15
	IDRoomSetpoint            uint8 = 16
	IDRelativeModulation      uint8 = 17
	IDCHWaterPressure         uint8 = 18
	IDDHWFlowRate             uint8 = 19
	IDDayTime                 uint8 = 20
	IDDate                    uint8 = 21
	IDYear                    uint8 = 22
	IDRoomSetpointCH2         uint8 = 23
	IDRoomTemperature         uint8 = 24
	IDBoilerFlowTemp          uint8 = 25
	IDDHWTemp                 uint8 = 26
	IDOutsideTemp             uint8 = 27
	IDReturnTemp              uint8 = 28
	IDSolarStorageTemp        uint8 = 29
	IDSolarCollectorTemp      uint8 = 30
	IDCH2FlowTemp             uint8 = 31
	IDDHW2Temp                uint8 = 32
	IDExhaustTemp             uint8 = 33
	IDFanSpeed                uint8 = 35
	IDDHWSetpointBounds       uint8 = 48
	IDMaxCHSetpointBounds     uint8 = 49
	IDHCRatioBounds           uint8 = 50
	IDDHWSetpoint             uint8 = 56
	IDMaxCHSetpoint           uint8 = 57
	IDHCRatio                 uint8 = 58
	IDRemoteOverrideFunction  uint8 = 100
	IDOEMDiagnosticCode       uint8 = 115
	IDBurnerStarts            uint8 = 116
	IDCHPumpStarts            uint8 = 117
	IDDHWPumpValveStarts      uint8 = 118
	IDDHWBurnerStarts         uint8 = 119
	IDBurnerOperationHours    uint8 = 120
	IDCHPumpOperationHours    uint8 = 121
	IDDHWPumpValveOperHours   uint8 = 122
	IDDHWBurnerOperationHours uint8 = 123
	IDOTVersionPrimary        uint8 = 124
	IDOTVersionSecondary      uint8 = 125
	IDPrimaryProductVersion   uint8 = 126
	IDSecondaryProductVersion uint8 = 127
)
