package main

import (
	"context"
	"os"
	"strings"
	"testing"
	"time"
)

func TestParseArgs(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		command string
		wantErr bool
	}{
		{name: "no command", args: nil, wantErr: true},
		{name: "unknown command", args: []string{"teleport"}, wantErr: true},
		{name: "discover", args: []string{"discover"}, command: "discover"},
		{name: "discover extra arg", args: []string{"discover", "IPC1"}, wantErr: true},
		{name: "device", args: []string{"device", "IPC1"}, command: "device"},
		{name: "device missing id", args: []string{"device"}, wantErr: true},
		{name: "diagnostics", args: []string{"diagnostics", "IPC1"}, command: "diagnostics"},
		{name: "toggle on", args: []string{"toggle", "IPC1", "motionDetect", "on"}, command: "toggle"},
		{name: "toggle mixed case state", args: []string{"toggle", "IPC1", "motionDetect", "OFF"}, command: "toggle"},
		{name: "toggle bad state", args: []string{"toggle", "IPC1", "motionDetect", "sideways"}, wantErr: true},
		{name: "toggle missing state", args: []string{"toggle", "IPC1", "motionDetect"}, wantErr: true},
		{name: "monitor", args: []string{"monitor"}, command: "monitor"},
		{name: "version", args: []string{"version"}, command: "version"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			command, _, err := parseArgs(tt.args)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("parseArgs(%v) error = nil, want error", tt.args)
				}
				return
			}
			if err != nil {
				t.Fatalf("parseArgs(%v) error = %v", tt.args, err)
			}
			if command != tt.command {
				t.Errorf("parseArgs(%v) command = %q, want %q", tt.args, command, tt.command)
			}
		})
	}
}

// TestRun_InvalidConfig verifies run fails with an invalid config path.
func TestRun_InvalidConfig(t *testing.T) {
	originalEnv := os.Getenv("IMOUCORE_CONFIG")
	defer os.Setenv("IMOUCORE_CONFIG", originalEnv)

	os.Setenv("IMOUCORE_CONFIG", "/nonexistent/path/config.yaml")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	err := run(ctx, []string{"discover"})
	if err == nil {
		t.Fatal("run() should fail with invalid config path")
	}
	if !strings.Contains(err.Error(), "loading config") {
		t.Errorf("run() error = %v, want config load failure", err)
	}
}

// TestRun_Version verifies the version command needs no configuration.
func TestRun_Version(t *testing.T) {
	originalEnv := os.Getenv("IMOUCORE_CONFIG")
	defer os.Setenv("IMOUCORE_CONFIG", originalEnv)

	os.Setenv("IMOUCORE_CONFIG", "/nonexistent/path/config.yaml")

	if err := run(context.Background(), []string{"version"}); err != nil {
		t.Fatalf("run(version) error = %v", err)
	}
}

// TestGetConfigPath_Default verifies the default config path.
func TestGetConfigPath_Default(t *testing.T) {
	originalEnv := os.Getenv("IMOUCORE_CONFIG")
	defer os.Setenv("IMOUCORE_CONFIG", originalEnv)

	os.Unsetenv("IMOUCORE_CONFIG")

	if path := getConfigPath(); path != defaultConfigPath {
		t.Errorf("getConfigPath() = %q, want %q", path, defaultConfigPath)
	}
}

// TestGetConfigPath_EnvOverride verifies the environment variable override.
func TestGetConfigPath_EnvOverride(t *testing.T) {
	originalEnv := os.Getenv("IMOUCORE_CONFIG")
	defer os.Setenv("IMOUCORE_CONFIG", originalEnv)

	expected := "/custom/path/config.yaml"
	os.Setenv("IMOUCORE_CONFIG", expected)

	if path := getConfigPath(); path != expected {
		t.Errorf("getConfigPath() = %q, want %q", path, expected)
	}
}

func TestUsage_ListsEveryCommand(t *testing.T) {
	text := usage()
	for _, command := range []string{"discover", "device", "diagnostics", "toggle", "monitor", "version"} {
		if !strings.Contains(text, command) {
			t.Errorf("usage() missing command %q", command)
		}
	}
}
