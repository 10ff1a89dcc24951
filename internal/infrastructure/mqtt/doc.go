// Package mqtt provides MQTT client connectivity for the smart-home core.
//
// This package manages the broker connection with auto-reconnect, the device
// command subscription, event and retained state publishing, and a retained
// presence message (online, offline, or the broker-published will) that
// names the home and what it runs.
//
// # Architecture
//
// MQTT is the core's external bus. Other systems send device commands to
// smarthome/command/{device} and watch smarthome/event/# and
// smarthome/state/+ for what the core did:
//
//	Panels / scripts ↔ MQTT Broker ↔ Core (controller.MQTTBridge)
//
// # Security Considerations
//
//   - TLS should be enabled outside the LAN (cfg.Broker.TLS=true)
//   - Anonymous access is only for local development
//   - Lock codes sent in unlock commands travel in the payload; use TLS
//
// # Usage
//
//	client, err := mqtt.Connect(cfg.MQTT, mqtt.Presence{Home: "Home", Version: version})
//	if err != nil {
//	    return err
//	}
//	defer client.Close()
//
//	err = client.SubscribeCommands(func(topic string, payload []byte) error {
//	    slug, err := mqtt.DeviceFromCommandTopic(topic)
//	    ...
//	})
//
//	err = client.PublishDeviceState("Main Light", stateJSON)
package mqtt
