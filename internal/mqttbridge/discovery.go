package mqttbridge

import "encoding/json"

// haDevice groups every entity this bridge publishes under one Home
// Assistant device card.
type haDevice struct {
	Identifiers  []string `json:"identifiers"`
	Name         string   `json:"name"`
	Manufacturer string   `json:"manufacturer"`
	Model        string   `json:"model"`
}

type haSensorConfig struct {
	Name              string   `json:"name"`
	UniqueID          string   `json:"unique_id"`
	StateTopic        string   `json:"state_topic"`
	AvailabilityTopic string   `json:"availability_topic"`
	UnitOfMeasurement string   `json:"unit_of_measurement,omitempty"`
	DeviceClass       string   `json:"device_class,omitempty"`
	Device            haDevice `json:"device"`
}

type haBinarySensorConfig struct {
	Name              string   `json:"name"`
	UniqueID          string   `json:"unique_id"`
	StateTopic        string   `json:"state_topic"`
	AvailabilityTopic string   `json:"availability_topic"`
	PayloadOn         string   `json:"payload_on"`
	PayloadOff        string   `json:"payload_off"`
	DeviceClass       string   `json:"device_class,omitempty"`
	Device            haDevice `json:"device"`
}

type haSwitchConfig struct {
	Name              string   `json:"name"`
	UniqueID          string   `json:"unique_id"`
	StateTopic        string   `json:"state_topic"`
	CommandTopic      string   `json:"command_topic"`
	AvailabilityTopic string   `json:"availability_topic"`
	PayloadOn         string   `json:"payload_on"`
	PayloadOff        string   `json:"payload_off"`
	Device            haDevice `json:"device"`
}

type haNumberConfig struct {
	Name              string   `json:"name"`
	UniqueID          string   `json:"unique_id"`
	StateTopic        string   `json:"state_topic"`
	CommandTopic      string   `json:"command_topic"`
	AvailabilityTopic string   `json:"availability_topic"`
	UnitOfMeasurement string   `json:"unit_of_measurement,omitempty"`
	Min               float64  `json:"min"`
	Max               float64  `json:"max"`
	Step              float64  `json:"step"`
	Mode              string   `json:"mode"`
	Device            haDevice `json:"device"`
}

func (b *Bridge) device() haDevice {
	return haDevice{
		Identifiers:  []string{b.nodeID},
		Name:         "OpenTherm Gateway",
		Manufacturer: "picotherm",
		Model:        "picotherm-gateway",
	}
}

// publishDiscovery publishes one retained discovery config per entity
// (spec's DOMAIN STACK expansion of §6: "one discovery config payload
// per entity, published retained ... on startup").
func (b *Bridge) publishDiscovery() {
	device := b.device()
	avail := availabilityTopic(b.nodeID)

	for _, e := range sensorEntities {
		cfg := haSensorConfig{
			Name:              e.name,
			UniqueID:          b.nodeID + "_" + e.objectID,
			StateTopic:        stateTopic(b.nodeID, e.objectID),
			AvailabilityTopic: avail,
			UnitOfMeasurement: e.unit,
			DeviceClass:       e.deviceClass,
			Device:            device,
		}
		b.publishDiscoveryConfig("sensor", e.objectID, cfg)
	}

	for _, e := range binarySensorEntities {
		cfg := haBinarySensorConfig{
			Name:              e.name,
			UniqueID:          b.nodeID + "_" + e.objectID,
			StateTopic:        stateTopic(b.nodeID, e.objectID),
			AvailabilityTopic: avail,
			PayloadOn:         "ON",
			PayloadOff:        "OFF",
			DeviceClass:       e.deviceClass,
			Device:            device,
		}
		b.publishDiscoveryConfig("binary_sensor", e.objectID, cfg)
	}

	for _, e := range switchEntities {
		cfg := haSwitchConfig{
			Name:              e.name,
			UniqueID:          b.nodeID + "_" + e.objectID,
			StateTopic:        stateTopic(b.nodeID, e.objectID),
			CommandTopic:      commandTopic(b.nodeID, e.objectID),
			AvailabilityTopic: avail,
			PayloadOn:         "ON",
			PayloadOff:        "OFF",
			Device:            device,
		}
		b.publishDiscoveryConfig("switch", e.objectID, cfg)
	}

	for _, e := range numberEntities {
		snap := b.shadow.Load()
		cfg := haNumberConfig{
			Name:              e.name,
			UniqueID:          b.nodeID + "_" + e.objectID,
			StateTopic:        stateTopic(b.nodeID, e.objectID),
			CommandTopic:      commandTopic(b.nodeID, e.objectID),
			AvailabilityTopic: avail,
			UnitOfMeasurement: e.unit,
			Min:               e.min(snap),
			Max:               e.max(snap),
			Step:              e.step,
			Mode:              "box",
			Device:            device,
		}
		b.publishDiscoveryConfig("number", e.objectID, cfg)
	}
}

func (b *Bridge) publishDiscoveryConfig(component, objectID string, cfg any) {
	payload, err := json.Marshal(cfg)
	if err != nil {
		b.logger.Error("mqttbridge: failed to marshal discovery config", "component", component, "object_id", objectID, "err", err)
		return
	}
	topic := discoveryConfigTopic(component, b.nodeID, objectID)
	token := b.client.Publish(topic, qos, true, payload)
	token.Wait()
	if err := token.Error(); err != nil {
		b.logger.Error("mqttbridge: failed to publish discovery config", "topic", topic, "err", err)
	}
}
