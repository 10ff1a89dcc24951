package mqtt

import "errors"

// Errors returned by the client and the topic helpers. Check them with
// errors.Is.
var (
	// ErrNotConnected is returned when the broker connection is down.
	ErrNotConnected = errors.New("mqtt: not connected to broker")

	// ErrConnectionFailed is returned when Connect cannot reach the broker.
	ErrConnectionFailed = errors.New("mqtt: broker connection failed")

	// ErrPublishFailed is returned when an event, device state or status
	// message is not acknowledged.
	ErrPublishFailed = errors.New("mqtt: publish failed")

	// ErrSubscribeFailed is returned when the smarthome/command/+
	// subscription is refused.
	ErrSubscribeFailed = errors.New("mqtt: command subscription failed")

	// ErrInvalidTopic is returned for a topic outside the smarthome/ tree
	// or a command topic without exactly one device level.
	ErrInvalidTopic = errors.New("mqtt: invalid smarthome topic")

	// ErrPayloadTooLarge is returned for payloads above maxPayloadSize.
	ErrPayloadTooLarge = errors.New("mqtt: payload too large")
)
