package mqtt

import (
	"errors"
	"testing"
)

func TestTopicBuilders(t *testing.T) {
	tests := []struct {
		name     string
		builder  func() string
		expected string
	}{
		{
			name: "EntityState",
			builder: func() string {
				return Topics{}.EntityState("8L0DF93PAZ55BD2", "switch", "motionDetect")
			},
			expected: "imou/state/8L0DF93PAZ55BD2/switch/motionDetect",
		},
		{
			name: "DeviceOnline",
			builder: func() string {
				return Topics{}.DeviceOnline("8L0DF93PAZ55BD2")
			},
			expected: "imou/availability/8L0DF93PAZ55BD2",
		},
		{
			name: "SwitchCommand",
			builder: func() string {
				return Topics{}.SwitchCommand("8L0DF93PAZ55BD2", "motionDetect")
			},
			expected: "imou/command/8L0DF93PAZ55BD2/motionDetect",
		},
		{
			name: "SystemStatus",
			builder: func() string {
				return Topics{}.SystemStatus()
			},
			expected: "imou/system/status",
		},
		{
			name: "AllSwitchCommands",
			builder: func() string {
				return Topics{}.AllSwitchCommands()
			},
			expected: "imou/command/+/+",
		},
		{
			name: "AllEntityStates",
			builder: func() string {
				return Topics{}.AllEntityStates()
			},
			expected: "imou/state/+/+/+",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := tt.builder()
			if result != tt.expected {
				t.Errorf("%s() = %q, want %q", tt.name, result, tt.expected)
			}
		})
	}
}

func TestParseCommandTopic(t *testing.T) {
	tests := []struct {
		name       string
		topic      string
		deviceID   string
		switchName string
		wantErr    bool
	}{
		{
			name:       "valid",
			topic:      "imou/command/8L0DF93PAZ55BD2/motionDetect",
			deviceID:   "8L0DF93PAZ55BD2",
			switchName: "motionDetect",
		},
		{name: "state topic", topic: "imou/state/dev/switch/motionDetect", wantErr: true},
		{name: "wrong prefix", topic: "other/command/dev/sw", wantErr: true},
		{name: "too short", topic: "imou/command/dev", wantErr: true},
		{name: "too long", topic: "imou/command/dev/sw/extra", wantErr: true},
		{name: "empty device", topic: "imou/command//sw", wantErr: true},
		{name: "empty switch", topic: "imou/command/dev/", wantErr: true},
		{name: "empty topic", topic: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			deviceID, switchName, err := ParseCommandTopic(tt.topic)
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidTopic) {
					t.Errorf("ParseCommandTopic(%q) error = %v, want ErrInvalidTopic", tt.topic, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseCommandTopic(%q) error = %v", tt.topic, err)
			}
			if deviceID != tt.deviceID || switchName != tt.switchName {
				t.Errorf("ParseCommandTopic(%q) = (%q, %q), want (%q, %q)",
					tt.topic, deviceID, switchName, tt.deviceID, tt.switchName)
			}
		})
	}
}

func TestCommandTopicRoundtrip(t *testing.T) {
	topic := Topics{}.SwitchCommand("IPC1", "whiteLight")
	deviceID, switchName, err := ParseCommandTopic(topic)
	if err != nil {
		t.Fatalf("ParseCommandTopic(%q) error = %v", topic, err)
	}
	if deviceID != "IPC1" || switchName != "whiteLight" {
		t.Errorf("roundtrip = (%q, %q), want (IPC1, whiteLight)", deviceID, switchName)
	}
}
