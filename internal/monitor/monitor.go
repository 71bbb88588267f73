package monitor

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/nerrad567/imou-core/internal/device"
	"github.com/nerrad567/imou-core/internal/infrastructure/config"
	"github.com/nerrad567/imou-core/internal/infrastructure/influxdb"
	"github.com/nerrad567/imou-core/internal/infrastructure/logging"
	"github.com/nerrad567/imou-core/internal/infrastructure/mqtt"
)

// commandTimeout bounds one relayed switch command against the cloud.
const commandTimeout = 30 * time.Second

// Deps holds the dependencies required by the monitor.
type Deps struct {
	Config config.MonitorConfig
	Logger *logging.Logger
	API    device.API

	// MQTT enables state fan-out and command relay when set.
	MQTT *mqtt.Client

	// Influx enables state history recording when set.
	Influx *influxdb.Client

	// Registry receives the monitor's Prometheus instruments.
	// A private registry is created when nil.
	Registry *prometheus.Registry
}

// Monitor polls the account's devices and fans their state out to MQTT,
// InfluxDB and Prometheus.
//
// Thread Safety: all exported methods are safe for concurrent use.
type Monitor struct {
	cfg      config.MonitorConfig
	log      *logging.Logger
	api      device.API
	mqtt     *mqtt.Client
	influx   *influxdb.Client
	registry *prometheus.Registry
	metrics  *metrics

	// devices is keyed by device id, populated by Start.
	devices map[string]*device.Device
	mu      sync.RWMutex

	// opMu serializes device refreshes against relayed commands. The device
	// and entity layers are single-flow by contract, so the poll loop and the
	// MQTT handler goroutines must never touch a device at the same time.
	opMu sync.Mutex

	server *httpServer
	cancel context.CancelFunc
}

// statePayload is the JSON document published on entity state topics.
type statePayload struct {
	State     any    `json:"state"`
	UpdatedAt string `json:"updated_at"`
}

// New creates a Monitor. It does not touch the network; discovery happens
// in Start.
//
// Parameters:
//   - deps: Required dependencies (config, API client) and optional sinks
//
// Returns:
//   - *Monitor: Configured monitor ready to start
//   - error: If required dependencies are missing
func New(deps Deps) (*Monitor, error) {
	if deps.API == nil {
		return nil, fmt.Errorf("api client is required")
	}
	logger := deps.Logger
	if logger == nil {
		logger = logging.Nop()
	}
	registry := deps.Registry
	if registry == nil {
		registry = prometheus.NewRegistry()
	}

	m := &Monitor{
		cfg:      deps.Config,
		log:      logger.With("component", "monitor"),
		api:      deps.API,
		mqtt:     deps.MQTT,
		influx:   deps.Influx,
		registry: registry,
		metrics:  newMetrics(registry),
		devices:  map[string]*device.Device{},
	}
	m.server = newHTTPServer(m, deps.Config.HTTP, logger)
	return m, nil
}

// Start discovers the account's devices and begins the poll loop and the
// HTTP server. It returns once startup is complete; polling continues in
// the background until ctx is cancelled or Close is called.
//
// Parameters:
//   - ctx: Context governing the background loops
//
// Returns:
//   - error: If discovery or the command subscription fails
func (m *Monitor) Start(ctx context.Context) error {
	runCtx, cancel := context.WithCancel(ctx)
	m.cancel = cancel

	found, err := device.NewDiscovery(m.api, m.log).Discover(runCtx)
	if err != nil {
		cancel()
		return fmt.Errorf("discovering devices: %w", err)
	}

	m.mu.Lock()
	for _, dev := range found {
		m.devices[dev.ID()] = dev
	}
	m.mu.Unlock()
	m.log.Info("devices discovered", "count", len(found))

	if m.mqtt != nil {
		topic := mqtt.Topics{}.AllSwitchCommands()
		if err := m.mqtt.Subscribe(topic, m.mqtt.QoS(), m.handleCommand); err != nil {
			cancel()
			return fmt.Errorf("subscribing to commands: %w", err)
		}
	}

	if err := m.server.start(); err != nil {
		cancel()
		return err
	}

	go m.run(runCtx)
	return nil
}

// Close stops the poll loop and shuts down the HTTP server.
func (m *Monitor) Close() error {
	if m.cancel != nil {
		m.cancel()
	}
	return m.server.close()
}

// run is the poll loop. The first poll happens immediately, then on every
// tick until the context is cancelled.
func (m *Monitor) run(ctx context.Context) {
	m.pollOnce(ctx)

	ticker := time.NewTicker(m.cfg.GetPollInterval())
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			m.pollOnce(ctx)
		}
	}
}

// pollOnce refreshes every device sequentially and fans out the results.
// The vendor rate-limits aggressively, so devices are never refreshed
// concurrently.
func (m *Monitor) pollOnce(ctx context.Context) {
	start := time.Now()

	for _, dev := range m.Devices() {
		if ctx.Err() != nil {
			return
		}
		m.refreshDevice(ctx, dev)
	}

	m.metrics.pollsTotal.Inc()
	m.metrics.pollDuration.Observe(time.Since(start).Seconds())
}

// refreshDevice updates one device and exports its state, holding opMu so no
// relayed command can mutate the device mid-refresh.
func (m *Monitor) refreshDevice(ctx context.Context, dev *device.Device) {
	m.opMu.Lock()
	defer m.opMu.Unlock()

	updated, err := dev.Update(ctx)
	if err != nil {
		m.metrics.pollErrors.Inc()
		m.log.Warn("device refresh failed", "device_id", dev.ID(), "error", err)
		return
	}
	if !updated {
		return
	}

	m.export(dev)
}

// export publishes one device's fresh state to every configured sink.
func (m *Monitor) export(dev *device.Device) {
	online := 0.0
	if dev.Online() {
		online = 1.0
	}
	m.metrics.deviceOnline.WithLabelValues(dev.ID(), dev.Name()).Set(online)

	if m.influx != nil {
		m.influx.WriteDeviceOnline(dev.ID(), dev.Online())
	}
	if m.mqtt != nil {
		availability := "offline"
		if dev.Online() {
			availability = "online"
		}
		topic := mqtt.Topics{}.DeviceOnline(dev.ID())
		if err := m.mqtt.PublishRetained(topic, []byte(availability)); err != nil {
			m.log.Warn("availability publish failed", "device_id", dev.ID(), "error", err)
		}
	}

	for _, entity := range dev.Sensors() {
		if !entity.IsUpdated() {
			continue
		}
		state := device.EntityState(entity)
		if state == nil {
			continue
		}

		platform := string(entity.Platform())

		if value, ok := gaugeValue(state); ok {
			m.metrics.entityState.WithLabelValues(dev.ID(), platform, entity.Name()).Set(value)
		}
		if m.influx != nil {
			m.influx.WriteEntityState(dev.ID(), platform, entity.Name(), state)
		}
		if m.mqtt != nil {
			m.publishState(dev.ID(), platform, entity.Name(), state)
		}
	}
}

// publishState publishes one entity state as retained JSON.
func (m *Monitor) publishState(deviceID, platform, entity string, state any) {
	payload, err := json.Marshal(statePayload{
		State:     state,
		UpdatedAt: time.Now().UTC().Format(time.RFC3339),
	})
	if err != nil {
		return
	}

	topic := mqtt.Topics{}.EntityState(deviceID, platform, entity)
	if err := m.mqtt.PublishRetained(topic, payload); err != nil {
		m.log.Warn("state publish failed", "topic", topic, "error", err)
	}
}

// handleCommand relays one MQTT switch command to the cloud.
//
// Payloads are "on" or "off" (case-insensitive). Unknown devices, unknown
// switches and malformed payloads are rejected with an error, which the
// MQTT client logs.
func (m *Monitor) handleCommand(topic string, payload []byte) error {
	deviceID, switchName, err := mqtt.ParseCommandTopic(topic)
	if err != nil {
		return err
	}

	dev := m.DeviceByID(deviceID)
	if dev == nil {
		return fmt.Errorf("command for unknown device %q", deviceID)
	}

	// Hold opMu from lookup through the API call: a concurrent refresh may
	// rebuild the entity set and writes the same switch state.
	m.opMu.Lock()
	defer m.opMu.Unlock()

	sw := findSwitch(dev, switchName)
	if sw == nil {
		return fmt.Errorf("device %q has no switch %q", deviceID, switchName)
	}

	ctx, cancel := context.WithTimeout(context.Background(), commandTimeout)
	defer cancel()

	switch strings.ToLower(strings.TrimSpace(string(payload))) {
	case "on":
		err = sw.TurnOn(ctx)
	case "off":
		err = sw.TurnOff(ctx)
	default:
		return fmt.Errorf("invalid command payload %q (want on/off)", payload)
	}
	if err != nil {
		return fmt.Errorf("relaying %s to %s/%s: %w", payload, deviceID, switchName, err)
	}

	m.log.Info("command relayed", "device_id", deviceID, "switch", switchName, "command", string(payload))
	return nil
}

// findSwitch resolves a switch entity by name, matched case-insensitively.
func findSwitch(dev *device.Device, name string) *device.Switch {
	for _, entity := range dev.SensorsByPlatform(device.PlatformSwitch) {
		if strings.EqualFold(entity.Name(), name) {
			if sw, ok := entity.(*device.Switch); ok {
				return sw
			}
		}
	}
	return nil
}

// Devices returns the monitored devices sorted by device id.
func (m *Monitor) Devices() []*device.Device {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]*device.Device, 0, len(m.devices))
	for _, dev := range m.devices {
		out = append(out, dev)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID() < out[j].ID() })
	return out
}

// DeviceByID returns one monitored device, or nil if unknown.
func (m *Monitor) DeviceByID(id string) *device.Device {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.devices[id]
}
