package mqtt

import (
	"fmt"
	"strings"
)

// Topic prefixes for the Imou Core MQTT namespace.
//
// State topics carry retained entity snapshots; command topics carry switch
// commands addressed to the cloud relay; system topics carry the bridge's
// own lifecycle status.
const (
	// TopicPrefix is the base for all Imou Core topics.
	TopicPrefix = "imou"

	// TopicPrefixSystem is the base for bridge lifecycle topics.
	TopicPrefixSystem = "imou/system"
)

// Topics provides builders for Imou Core MQTT topics.
// Using these helpers ensures consistent topic naming across the codebase.
//
//	topics := mqtt.Topics{}
//	stateTopic := topics.EntityState("8L0DF93PAZ55BD2", "switch", "motionDetect")
//	// Returns: "imou/state/8L0DF93PAZ55BD2/switch/motionDetect"
type Topics struct{}

// EntityState returns the retained state topic for one entity.
//
// Example: imou/state/8L0DF93PAZ55BD2/switch/motionDetect
func (Topics) EntityState(deviceID, platform, entity string) string {
	return fmt.Sprintf("%s/state/%s/%s/%s", TopicPrefix, deviceID, platform, entity)
}

// DeviceOnline returns the retained availability topic for one device.
//
// Example: imou/availability/8L0DF93PAZ55BD2
func (Topics) DeviceOnline(deviceID string) string {
	return fmt.Sprintf("%s/availability/%s", TopicPrefix, deviceID)
}

// SwitchCommand returns the command topic for one switch.
//
// Example: imou/command/8L0DF93PAZ55BD2/motionDetect
func (Topics) SwitchCommand(deviceID, switchName string) string {
	return fmt.Sprintf("%s/command/%s/%s", TopicPrefix, deviceID, switchName)
}

// SystemStatus returns the bridge lifecycle status topic.
//
// Example: imou/system/status
func (Topics) SystemStatus() string {
	return fmt.Sprintf("%s/status", TopicPrefixSystem)
}

// AllSwitchCommands returns a pattern matching every switch command.
//
// Pattern: imou/command/+/+
func (Topics) AllSwitchCommands() string {
	return fmt.Sprintf("%s/command/+/+", TopicPrefix)
}

// AllEntityStates returns a pattern matching every entity state topic.
//
// Pattern: imou/state/+/+/+
func (Topics) AllEntityStates() string {
	return fmt.Sprintf("%s/state/+/+/+", TopicPrefix)
}

// ParseCommandTopic splits a concrete command topic into device id and
// switch name. Wildcards in subscriptions are expanded by the broker before
// delivery, so handlers always see concrete topics.
//
// Returns ErrInvalidTopic for topics outside the command namespace.
func ParseCommandTopic(topic string) (deviceID, switchName string, err error) {
	parts := strings.Split(topic, "/")
	if len(parts) != 4 || parts[0] != TopicPrefix || parts[1] != "command" ||
		parts[2] == "" || parts[3] == "" {
		return "", "", fmt.Errorf("%w: %q is not a command topic", ErrInvalidTopic, topic)
	}
	return parts[2], parts[3], nil
}
