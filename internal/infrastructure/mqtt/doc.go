// Package mqtt provides MQTT client connectivity for Imou Core.
//
// This package manages:
//   - Connection to the broker with auto-reconnect
//   - Entity state publishing with QoS guarantees
//   - Command topic subscriptions with wildcard support
//   - Last Will and Testament (LWT) for offline detection
//
// # Architecture
//
// Imou Core bridges the vendor cloud onto a local MQTT bus. Entity states
// fan out on imou/state/... topics; switch commands arrive on
// imou/command/... topics and are relayed to the cloud.
//
//	Imou Cloud ↔ Imou Core ↔ MQTT Broker ↔ Consumers
//
// # Security Considerations
//
//   - TLS is required for production deployments (cfg.Broker.TLS=true)
//   - Credentials are validated against broker ACL
//   - Anonymous access is only for local development
//
// # Usage
//
//	client, err := mqtt.Connect(cfg.MQTT)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer client.Close()
//
//	// Relay incoming switch commands
//	err = client.Subscribe(mqtt.Topics{}.AllSwitchCommands(), 1,
//	    func(topic string, payload []byte) error {
//	        deviceID, switchName, _ := mqtt.ParseCommandTopic(topic)
//	        return relay(deviceID, switchName, payload)
//	    })
//
//	// Publish entity state
//	topic := mqtt.Topics{}.EntityState("8L0DF93PAZ55BD2", "switch", "motionDetect")
//	client.PublishRetained(topic, []byte(`{"state":true}`))
package mqtt
