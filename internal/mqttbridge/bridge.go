package mqttbridge

import (
	"context"
	"fmt"
	"reflect"
	"strconv"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/charmbracelet/log"

	"github.com/adq/picotherm/internal/control"
	"github.com/adq/picotherm/internal/shadow"
)

const qos = 1

// heartbeatInterval bounds how long the bridge goes without
// republishing even when nothing changed (spec §6 "on change (or on a
// ≤60 s heartbeat)").
const heartbeatInterval = 60 * time.Second

// pollInterval is how often the bridge checks the shadow for changes;
// it only needs to be well under heartbeatInterval.
const pollInterval = 2 * time.Second

// Config configures a Bridge's MQTT connection.
type Config struct {
	BrokerURL string
	Username  string
	Password  string
	NodeID    string
	ClientID  string
}

// Bridge is the gateway's external interface (spec §5, §6). It only
// ever reads shadow.Snapshot and enqueues control.Command values onto
// a channel the control loop drains at its own pace; it never
// performs OpenTherm I/O.
type Bridge struct {
	client   mqtt.Client
	nodeID   string
	shadow   *shadow.Shadow
	commands chan<- control.Command
	logger   *log.Logger

	lastPublished *shadow.Snapshot
	lastPublishAt time.Time
}

// New builds a Bridge and its underlying paho client. Call Connect to
// actually dial the broker.
func New(cfg Config, sh *shadow.Shadow, commands chan<- control.Command, logger *log.Logger) *Bridge {
	if logger == nil {
		logger = log.Default()
	}
	b := &Bridge{
		nodeID:   cfg.NodeID,
		shadow:   sh,
		commands: commands,
		logger:   logger,
	}

	opts := mqtt.NewClientOptions().
		AddBroker(cfg.BrokerURL).
		SetClientID(cfg.ClientID).
		SetUsername(cfg.Username).
		SetPassword(cfg.Password).
		SetAutoReconnect(true).
		SetWill(availabilityTopic(cfg.NodeID), "OFF", qos, true).
		SetOnConnectHandler(b.onConnect)

	b.client = mqtt.NewClient(opts)
	return b
}

// Connect dials the broker, blocking until the connection succeeds,
// fails, or the 10s dial budget elapses.
func (b *Bridge) Connect(ctx context.Context) error {
	token := b.client.Connect()
	if !token.WaitTimeout(10 * time.Second) {
		return fmt.Errorf("mqttbridge: connect to %s timed out", b.nodeID)
	}
	return token.Error()
}

// Close disconnects cleanly, first publishing "OFF" to the availability
// topic (the same payload the LWT carries).
func (b *Bridge) Close() {
	if b.client.IsConnected() {
		token := b.client.Publish(availabilityTopic(b.nodeID), qos, true, "OFF")
		token.WaitTimeout(time.Second)
	}
	b.client.Disconnect(250)
}

func (b *Bridge) onConnect(mqtt.Client) {
	b.publishDiscovery()
	b.subscribeCommands()
	token := b.client.Publish(availabilityTopic(b.nodeID), qos, true, "ON")
	token.Wait()
}

// Run polls the shadow and republishes state on change or heartbeat,
// until ctx is done. The bridge's only interaction with the control
// loop is Commands, so Run never blocks it.
func (b *Bridge) Run(ctx context.Context) error {
	ticker := time.NewTicker(pollInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			b.publishIfChanged()
		}
	}
}

func (b *Bridge) publishIfChanged() {
	snap := b.shadow.Load()
	changed := b.lastPublished == nil || !reflect.DeepEqual(*snap, *b.lastPublished)
	stale := time.Since(b.lastPublishAt) >= heartbeatInterval
	if !changed && !stale {
		return
	}
	b.publishState(snap)
	b.lastPublished = snap
	b.lastPublishAt = time.Now()
}

func (b *Bridge) publishState(snap *shadow.Snapshot) {
	for _, e := range sensorEntities {
		b.publish(stateTopic(b.nodeID, e.objectID), e.read(snap))
	}
	for _, e := range binarySensorEntities {
		b.publish(stateTopic(b.nodeID, e.objectID), onOff(e.read(snap)))
	}
	for _, e := range switchEntities {
		b.publish(stateTopic(b.nodeID, e.objectID), onOff(e.read(snap)))
	}
	for _, e := range numberEntities {
		b.publish(stateTopic(b.nodeID, e.objectID), strconv.FormatFloat(e.read(snap), 'f', 1, 64))
	}
}

func (b *Bridge) publish(topic, payload string) {
	token := b.client.Publish(topic, qos, false, payload)
	if !token.WaitTimeout(time.Second) {
		b.logger.Warn("mqttbridge: publish timed out", "topic", topic)
		return
	}
	if err := token.Error(); err != nil {
		b.logger.Warn("mqttbridge: publish failed", "topic", topic, "err", err)
	}
}

func onOff(v bool) string {
	if v {
		return "ON"
	}
	return "OFF"
}

// subscribeCommands wires each writable control's command topic to a
// handler that only ever parses the payload and enqueues a
// control.Command (spec §5 "MUST NOT perform any OpenTherm I/O
// directly").
func (b *Bridge) subscribeCommands() {
	for _, e := range switchEntities {
		e := e
		topic := commandTopic(b.nodeID, e.objectID)
		b.client.Subscribe(topic, qos, func(_ mqtt.Client, msg mqtt.Message) {
			b.enqueue(control.Command{Kind: e.command, Bool: string(msg.Payload()) == "ON"})
		})
	}
	for _, e := range numberEntities {
		e := e
		topic := commandTopic(b.nodeID, e.objectID)
		b.client.Subscribe(topic, qos, func(_ mqtt.Client, msg mqtt.Message) {
			v, err := strconv.ParseFloat(string(msg.Payload()), 64)
			if err != nil {
				b.logger.Warn("mqttbridge: ignoring malformed numeric payload", "topic", topic, "payload", string(msg.Payload()))
				return
			}
			b.enqueue(control.Command{Kind: e.command, Float: v})
		})
	}
}

// enqueue never blocks: the MQTT client library's own goroutine calls
// this from its message-delivery loop, and a full command queue must
// not stall broker I/O.
func (b *Bridge) enqueue(cmd control.Command) {
	select {
	case b.commands <- cmd:
	default:
		b.logger.Warn("mqttbridge: command queue full, dropping command", "kind", cmd.Kind)
	}
}
