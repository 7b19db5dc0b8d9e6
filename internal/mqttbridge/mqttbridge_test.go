package mqttbridge

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTopicBuilders(t *testing.T) {
	assert.Equal(t, "picotherm/boiler1/ch_setpoint", stateTopic("boiler1", "ch_setpoint"))
	assert.Equal(t, "picotherm/boiler1/ch_setpoint/set", commandTopic("boiler1", "ch_setpoint"))
	assert.Equal(t, "homeassistant/number/boiler1/ch_setpoint/config", discoveryConfigTopic("number", "boiler1", "ch_setpoint"))
	assert.Equal(t, "picotherm/boiler1/available", availabilityTopic("boiler1"))
}

func TestOnOff(t *testing.T) {
	assert.Equal(t, "ON", onOff(true))
	assert.Equal(t, "OFF", onOff(false))
}

func TestEntityObjectIDsAreUnique(t *testing.T) {
	seen := map[string]bool{}
	for _, e := range sensorEntities {
		require.False(t, seen[e.objectID], "duplicate object id %s", e.objectID)
		seen[e.objectID] = true
	}
	for _, e := range binarySensorEntities {
		require.False(t, seen[e.objectID], "duplicate object id %s", e.objectID)
		seen[e.objectID] = true
	}
	for _, e := range switchEntities {
		require.False(t, seen[e.objectID], "duplicate object id %s", e.objectID)
		seen[e.objectID] = true
	}
	for _, e := range numberEntities {
		require.False(t, seen[e.objectID], "duplicate object id %s", e.objectID)
		seen[e.objectID] = true
	}
}

func TestSensorConfigMarshalsExpectedFields(t *testing.T) {
	cfg := haSensorConfig{
		Name:              "Boiler Flow Temperature",
		UniqueID:          "picotherm_boiler_flow_temp",
		StateTopic:        "picotherm/picotherm/boiler_flow_temp",
		AvailabilityTopic: "picotherm/picotherm/available",
		UnitOfMeasurement: "°C",
		DeviceClass:       "temperature",
		Device: haDevice{
			Identifiers:  []string{"picotherm"},
			Name:         "OpenTherm Gateway",
			Manufacturer: "picotherm",
			Model:        "picotherm-gateway",
		},
	}
	payload, err := json.Marshal(cfg)
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(payload, &decoded))
	assert.Equal(t, "temperature", decoded["device_class"])
	assert.Equal(t, "picotherm/picotherm/boiler_flow_temp", decoded["state_topic"])
	assert.Contains(t, decoded, "device")
}
