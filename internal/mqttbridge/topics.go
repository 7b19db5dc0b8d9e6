// Package mqttbridge is the gateway's external interface (spec §5,
// §6): it publishes the boiler shadow to MQTT for Home Assistant and
// turns inbound command topics into control.Command values the
// control loop applies at its own pace. It never performs OpenTherm
// I/O itself (spec §5 "The MQTT command handler MUST NOT perform any
// OpenTherm I/O directly"), grounded on lachlan2k-huawei-solar-mqtt-relay's
// adapter/core split and bcdiaconu-chint-mqtt-modbus-bridge's
// command/gateway separation.
package mqttbridge

import "fmt"

const topicRoot = "picotherm"
const discoveryRoot = "homeassistant"

// stateTopic builds picotherm/<node_id>/<name> (spec's DOMAIN STACK
// expansion of §6, which deliberately left exact topic names
// unspecified).
func stateTopic(nodeID, name string) string {
	return fmt.Sprintf("%s/%s/%s", topicRoot, nodeID, name)
}

// commandTopic builds picotherm/<node_id>/<name>/set.
func commandTopic(nodeID, name string) string {
	return fmt.Sprintf("%s/%s/%s/set", topicRoot, nodeID, name)
}

// discoveryConfigTopic builds the Home Assistant MQTT discovery
// config topic for one entity.
func discoveryConfigTopic(component, nodeID, objectID string) string {
	return fmt.Sprintf("%s/%s/%s/%s/config", discoveryRoot, component, nodeID, objectID)
}

// availabilityTopic is the bridge's LWT/online topic, shared by every
// discovered entity.
func availabilityTopic(nodeID string) string {
	return fmt.Sprintf("%s/%s/available", topicRoot, nodeID)
}
