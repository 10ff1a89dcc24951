package mqtt

import (
	"fmt"

	pahomqtt "github.com/eclipse/paho.mqtt.golang"
)

// SubscribeCommands delivers every message on smarthome/command/+ to
// handler. Use DeviceFromCommandTopic to recover the device slug. The
// subscription is renewed on reconnect; a second call replaces the handler.
func (c *Client) SubscribeCommands(handler MessageHandler) error {
	if handler == nil {
		return fmt.Errorf("%w: nil handler", ErrSubscribeFailed)
	}
	if !c.IsConnected() {
		return ErrNotConnected
	}

	token := c.client.Subscribe(Topics{}.AllCommands(), c.qos(), c.wrapHandler(handler))
	if !token.WaitTimeout(ackTimeout) {
		return fmt.Errorf("%w: timeout after %v", ErrSubscribeFailed, ackTimeout)
	}
	if err := token.Error(); err != nil {
		return fmt.Errorf("%w: %w", ErrSubscribeFailed, err)
	}

	c.mu.Lock()
	c.commands = handler
	c.mu.Unlock()
	return nil
}

// PublishEvent publishes a controller event on smarthome/event/{kind}/{op}.
// Events are not retained.
func (c *Client) PublishEvent(eventType string, payload []byte) error {
	if eventType == "" {
		return fmt.Errorf("%w: empty event type", ErrInvalidTopic)
	}
	return c.publish(Topics{}.Event(eventType), payload, false)
}

// PublishDeviceState publishes a device's state as the retained message on
// smarthome/state/{device}, so new subscribers see the current state.
func (c *Client) PublishDeviceState(deviceName string, payload []byte) error {
	if DeviceSlug(deviceName) == "" {
		return fmt.Errorf("%w: device name %q has no slug", ErrInvalidTopic, deviceName)
	}
	return c.publish(Topics{}.DeviceState(deviceName), payload, true)
}

func (c *Client) publish(topic string, payload []byte, retained bool) error {
	if len(payload) > maxPayloadSize {
		return fmt.Errorf("%w: %s: %d bytes", ErrPayloadTooLarge, topic, len(payload))
	}
	if !c.IsConnected() {
		return ErrNotConnected
	}

	token := c.client.Publish(topic, c.qos(), retained, payload)
	if !token.WaitTimeout(ackTimeout) {
		return fmt.Errorf("%w: %s: timeout after %v", ErrPublishFailed, topic, ackTimeout)
	}
	if err := token.Error(); err != nil {
		return fmt.Errorf("%w: %s: %w", ErrPublishFailed, topic, err)
	}
	return nil
}

// wrapHandler adapts a MessageHandler to paho. Returned errors are logged
// and panics recovered.
func (c *Client) wrapHandler(handler MessageHandler) pahomqtt.MessageHandler {
	return func(_ pahomqtt.Client, msg pahomqtt.Message) {
		defer func() {
			if r := recover(); r != nil {
				if logger := c.getLogger(); logger != nil {
					logger.Error("MQTT command handler panic recovered", "topic", msg.Topic(), "panic", r)
				}
			}
		}()

		if err := handler(msg.Topic(), msg.Payload()); err != nil {
			if logger := c.getLogger(); logger != nil {
				logger.Warn("MQTT command rejected", "topic", msg.Topic(), "error", err)
			}
		}
	}
}
