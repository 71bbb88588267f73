package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the root configuration structure for Imou Core.
// All configuration is loaded from YAML and can be overridden by environment variables.
type Config struct {
	API      APIConfig      `yaml:"api"`
	Logging  LoggingConfig  `yaml:"logging"`
	MQTT     MQTTConfig     `yaml:"mqtt"`
	InfluxDB InfluxDBConfig `yaml:"influxdb"`
	Monitor  MonitorConfig  `yaml:"monitor"`
}

// APIConfig contains Imou OpenAPI connection settings.
//
// AppID and AppSecret are issued via the Imou Life developer console and are
// required for every deployment. BaseURL selects the regional API host.
type APIConfig struct {
	AppID     string `yaml:"app_id"`
	AppSecret string `yaml:"app_secret"`
	BaseURL   string `yaml:"base_url"`
	Timeout   int    `yaml:"timeout"`
}

// GetTimeout returns the API request timeout as a Duration.
func (c APIConfig) GetTimeout() time.Duration {
	return time.Duration(c.Timeout) * time.Second
}

// LoggingConfig contains logging settings.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
	Output string `yaml:"output"`
}

// MQTTConfig contains MQTT broker connection settings.
// The broker is optional; when disabled the monitor runs without state fan-out.
type MQTTConfig struct {
	Enabled   bool                `yaml:"enabled"`
	Broker    MQTTBrokerConfig    `yaml:"broker"`
	Auth      MQTTAuthConfig      `yaml:"auth"`
	QoS       int                 `yaml:"qos"`
	Reconnect MQTTReconnectConfig `yaml:"reconnect"`
}

// MQTTBrokerConfig contains MQTT broker connection details.
type MQTTBrokerConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	TLS      bool   `yaml:"tls"`
	ClientID string `yaml:"client_id"`
}

// MQTTAuthConfig contains MQTT authentication credentials.
type MQTTAuthConfig struct {
	Username string `yaml:"username"`
	Password string `yaml:"password"`
}

// MQTTReconnectConfig contains MQTT reconnection settings.
type MQTTReconnectConfig struct {
	InitialDelay int `yaml:"initial_delay"`
	MaxDelay     int `yaml:"max_delay"`
	MaxAttempts  int `yaml:"max_attempts"`
}

// InfluxDBConfig contains InfluxDB connection settings.
type InfluxDBConfig struct {
	Enabled       bool   `yaml:"enabled"`
	URL           string `yaml:"url"`
	Token         string `yaml:"token"`
	Org           string `yaml:"org"`
	Bucket        string `yaml:"bucket"`
	BatchSize     int    `yaml:"batch_size"`
	FlushInterval int    `yaml:"flush_interval"`
}

// MonitorConfig contains polling monitor settings.
type MonitorConfig struct {
	PollInterval int               `yaml:"poll_interval"`
	HTTP         MonitorHTTPConfig `yaml:"http"`
}

// GetPollInterval returns the device poll interval as a Duration.
func (c MonitorConfig) GetPollInterval() time.Duration {
	return time.Duration(c.PollInterval) * time.Second
}

// MonitorHTTPConfig contains the monitor's HTTP server settings.
type MonitorHTTPConfig struct {
	Host     string                   `yaml:"host"`
	Port     int                      `yaml:"port"`
	Timeouts MonitorHTTPTimeoutConfig `yaml:"timeouts"`
}

// MonitorHTTPTimeoutConfig contains HTTP timeout settings.
type MonitorHTTPTimeoutConfig struct {
	Read  int `yaml:"read"`
	Write int `yaml:"write"`
	Idle  int `yaml:"idle"`
}

// GetReadTimeout returns the HTTP read timeout as a Duration.
func (c MonitorHTTPConfig) GetReadTimeout() time.Duration {
	return time.Duration(c.Timeouts.Read) * time.Second
}

// GetWriteTimeout returns the HTTP write timeout as a Duration.
func (c MonitorHTTPConfig) GetWriteTimeout() time.Duration {
	return time.Duration(c.Timeouts.Write) * time.Second
}

// GetIdleTimeout returns the HTTP idle timeout as a Duration.
func (c MonitorHTTPConfig) GetIdleTimeout() time.Duration {
	return time.Duration(c.Timeouts.Idle) * time.Second
}

// Load reads configuration from a YAML file and applies environment variable overrides.
//
// The configuration loading order is:
//  1. Default values (hardcoded)
//  2. YAML file values (override defaults)
//  3. Environment variables (override file values)
//
// Environment variables follow the pattern: IMOUCORE_SECTION_KEY
// For example: IMOUCORE_API_APP_SECRET, IMOUCORE_MQTT_HOST
//
// Parameters:
//   - path: Path to the YAML configuration file
//
// Returns:
//   - *Config: Loaded and validated configuration
//   - error: If file cannot be read, parsed, or validation fails
func Load(path string) (*Config, error) {
	// Start with defaults
	cfg := defaultConfig()

	// Read and parse YAML file
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	// Apply environment variable overrides
	applyEnvOverrides(cfg)

	// Validate configuration
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return cfg, nil
}

// defaultConfig returns a Config with sensible defaults.
func defaultConfig() *Config {
	return &Config{
		API: APIConfig{
			BaseURL: "https://openapi.easy4ip.com/openapi",
			Timeout: 10,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
			Output: "stdout",
		},
		MQTT: MQTTConfig{
			Broker: MQTTBrokerConfig{
				Host:     "localhost",
				Port:     1883,
				ClientID: "imou-core",
			},
			QoS: 1,
			Reconnect: MQTTReconnectConfig{
				InitialDelay: 1,
				MaxDelay:     60,
				MaxAttempts:  0,
			},
		},
		Monitor: MonitorConfig{
			PollInterval: 60,
			HTTP: MonitorHTTPConfig{
				Host: "0.0.0.0",
				Port: 8089,
				Timeouts: MonitorHTTPTimeoutConfig{
					Read:  30,
					Write: 30,
					Idle:  60,
				},
			},
		},
	}
}

// applyEnvOverrides applies environment variable overrides to the configuration.
// Environment variables follow the pattern: IMOUCORE_SECTION_KEY
func applyEnvOverrides(cfg *Config) {
	// API credentials (IMPORTANT: prefer env over config file in production)
	if v := os.Getenv("IMOUCORE_API_APP_ID"); v != "" {
		cfg.API.AppID = v
	}
	if v := os.Getenv("IMOUCORE_API_APP_SECRET"); v != "" {
		cfg.API.AppSecret = v
	}
	if v := os.Getenv("IMOUCORE_API_BASE_URL"); v != "" {
		cfg.API.BaseURL = v
	}

	// MQTT
	if v := os.Getenv("IMOUCORE_MQTT_HOST"); v != "" {
		cfg.MQTT.Broker.Host = v
	}
	if v := os.Getenv("IMOUCORE_MQTT_USERNAME"); v != "" {
		cfg.MQTT.Auth.Username = v
	}
	if v := os.Getenv("IMOUCORE_MQTT_PASSWORD"); v != "" {
		cfg.MQTT.Auth.Password = v
	}

	// InfluxDB
	if v := os.Getenv("IMOUCORE_INFLUXDB_TOKEN"); v != "" {
		cfg.InfluxDB.Token = v
	}
}

// Validate checks the configuration for errors.
//
// Returns:
//   - error: Description of validation failure, or nil if valid
func (c *Config) Validate() error {
	var errs []string

	// API validation - credentials are required for every call
	if c.API.AppID == "" {
		errs = append(errs, "api.app_id is required (set IMOUCORE_API_APP_ID environment variable)")
	}
	if c.API.AppSecret == "" {
		errs = append(errs, "api.app_secret is required (set IMOUCORE_API_APP_SECRET environment variable)")
	}
	if c.API.BaseURL == "" {
		errs = append(errs, "api.base_url is required")
	}
	if c.API.Timeout <= 0 {
		errs = append(errs, "api.timeout must be a positive number of seconds")
	}

	// MQTT validation
	if c.MQTT.QoS < 0 || c.MQTT.QoS > 2 {
		errs = append(errs, "mqtt.qos must be 0, 1, or 2")
	}

	// Monitor validation
	if c.Monitor.PollInterval <= 0 {
		errs = append(errs, "monitor.poll_interval must be a positive number of seconds")
	}
	if c.Monitor.HTTP.Port < 1 || c.Monitor.HTTP.Port > 65535 {
		errs = append(errs, "monitor.http.port must be between 1 and 65535")
	}

	if len(errs) > 0 {
		return fmt.Errorf("configuration errors: %s", strings.Join(errs, "; "))
	}

	return nil
}
