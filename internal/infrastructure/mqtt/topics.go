package mqtt

import (
	"fmt"
	"strings"
)

// TopicPrefix is the root of every topic the core publishes or subscribes to.
//
//	smarthome/command/{device}   inbound device commands (JSON or bare word)
//	smarthome/state/{device}     retained device state
//	smarthome/event/{kind}/{op}  rule, task, scene, security and energy events
//	smarthome/system/status      retained presence (see Status)
const TopicPrefix = "smarthome"

// Topics provides builders for the core's MQTT topics. Device names are
// converted to slugs with DeviceSlug so "Main Light" becomes "main-light".
//
//	mqtt.Topics{}.DeviceState("Main Light") // "smarthome/state/main-light"
type Topics struct{}

// AllCommands matches every device command topic.
func (Topics) AllCommands() string {
	return TopicPrefix + "/command/+"
}

// DeviceState returns the retained state topic for a device.
func (Topics) DeviceState(deviceName string) string {
	return fmt.Sprintf("%s/state/%s", TopicPrefix, DeviceSlug(deviceName))
}

// Event returns the topic for an event type. Dots in the type become levels,
// so "rule.executed" maps to "smarthome/event/rule/executed".
func (Topics) Event(eventType string) string {
	return fmt.Sprintf("%s/event/%s", TopicPrefix, strings.ReplaceAll(eventType, ".", "/"))
}

// SystemStatus returns the retained online/offline status topic.
func (Topics) SystemStatus() string {
	return TopicPrefix + "/system/status"
}

// DeviceFromCommandTopic extracts the device slug from a command topic.
func DeviceFromCommandTopic(topic string) (string, error) {
	prefix := TopicPrefix + "/command/"
	if !strings.HasPrefix(topic, prefix) {
		return "", fmt.Errorf("%w: %q is not a command topic", ErrInvalidTopic, topic)
	}
	slug := strings.TrimPrefix(topic, prefix)
	if slug == "" || strings.Contains(slug, "/") {
		return "", fmt.Errorf("%w: %q", ErrInvalidTopic, topic)
	}
	return slug, nil
}

// DeviceSlug lowercases a device name and replaces runs of anything other
// than letters and digits with a single hyphen.
func DeviceSlug(name string) string {
	var b strings.Builder
	hyphen := false
	for _, r := range strings.ToLower(strings.TrimSpace(name)) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			hyphen = false
		case !hyphen && b.Len() > 0:
			b.WriteByte('-')
			hyphen = true
		}
	}
	return strings.TrimSuffix(b.String(), "-")
}
