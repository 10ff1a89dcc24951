package controller

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/nerrad567/smarthome-core/internal/device"
	"github.com/nerrad567/smarthome-core/internal/infrastructure/mqtt"
)

// MQTTClient is the subset of *mqtt.Client the bridge needs.
type MQTTClient interface {
	SubscribeCommands(handler mqtt.MessageHandler) error
	PublishEvent(eventType string, payload []byte) error
	PublishDeviceState(deviceName string, payload []byte) error
}

const (
	mqttQueueSize      = 256
	mqttCommandTimeout = 5 * time.Second
)

// MQTTBridge connects the controller to the MQTT bus. It applies commands
// received on smarthome/command/{device} and publishes controller events.
//
// Publishing is asynchronous: Publish only enqueues, and Run drains the queue.
// This keeps the controller goroutine from waiting on broker acks while a
// command handler is waiting on the controller.
type MQTTBridge struct {
	ctrl   *Controller
	client MQTTClient
	logger Logger

	queue chan Event

	mu      sync.Mutex
	dropped int
}

// NewMQTTBridge creates a bridge. Call Start to subscribe and Run to publish.
func NewMQTTBridge(ctrl *Controller, client MQTTClient, logger Logger) *MQTTBridge {
	if logger == nil {
		logger = noopLogger{}
	}
	return &MQTTBridge{
		ctrl:   ctrl,
		client: client,
		logger: logger,
		queue:  make(chan Event, mqttQueueSize),
	}
}

// Start subscribes to device command topics.
func (b *MQTTBridge) Start() error {
	if err := b.client.SubscribeCommands(b.handleCommand); err != nil {
		return fmt.Errorf("subscribing to commands: %w", err)
	}
	return nil
}

// Run publishes queued events until ctx is cancelled.
func (b *MQTTBridge) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case e := <-b.queue:
			b.send(e)
		}
	}
}

// Publish implements EventSink. Events are dropped when the queue is full.
func (b *MQTTBridge) Publish(e Event) {
	select {
	case b.queue <- e:
	default:
		b.mu.Lock()
		b.dropped++
		n := b.dropped
		b.mu.Unlock()
		b.logger.Warn("mqtt event queue full, dropping event", "type", e.Type, "dropped_total", n)
	}
}

// Dropped returns the number of events dropped because the queue was full.
func (b *MQTTBridge) Dropped() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.dropped
}

func (b *MQTTBridge) send(e Event) {
	payload, err := json.Marshal(e)
	if err != nil {
		b.logger.Error("failed to encode mqtt event", "type", e.Type, "error", err)
		return
	}
	if err := b.client.PublishEvent(e.Type, payload); err != nil {
		b.logger.Warn("failed to publish mqtt event", "type", e.Type, "error", err)
	}

	// Device state is also kept as a retained message per device.
	if st, ok := e.Payload.(device.State); ok {
		state, err := json.Marshal(st)
		if err != nil {
			return
		}
		if err := b.client.PublishDeviceState(st.Name, state); err != nil {
			b.logger.Warn("failed to publish device state", "device", st.Name, "error", err)
		}
	}
}

// handleCommand runs on a paho goroutine.
func (b *MQTTBridge) handleCommand(topic string, payload []byte) error {
	slug, err := mqtt.DeviceFromCommandTopic(topic)
	if err != nil {
		return err
	}
	name, err := b.resolve(slug)
	if err != nil {
		return err
	}
	cmd, err := device.ParseCommand(payload)
	if err != nil {
		return fmt.Errorf("device %s: %w", name, err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), mqttCommandTimeout)
	defer cancel()
	if _, err := b.ctrl.Command(ctx, name, cmd); err != nil {
		return fmt.Errorf("device %s: %w", name, err)
	}
	return nil
}

// resolve maps a topic slug back to a device name.
func (b *MQTTBridge) resolve(slug string) (string, error) {
	for _, d := range b.ctrl.Home().Devices() {
		if mqtt.DeviceSlug(d.Name()) == slug {
			return d.Name(), nil
		}
	}
	return "", fmt.Errorf("%w: %q", device.ErrDeviceNotFound, slug)
}
