// Imou Core - cloud camera bridge
//
// This is the main entry point for the Imou Core application. It bridges
// Imou cloud cameras onto local infrastructure: one-shot CLI commands for
// inspection and control, and a long-running monitor that fans device state
// out to MQTT, InfluxDB and Prometheus.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"sort"
	"strings"
	"syscall"

	"github.com/nerrad567/imou-core/internal/api"
	"github.com/nerrad567/imou-core/internal/device"
	"github.com/nerrad567/imou-core/internal/infrastructure/config"
	"github.com/nerrad567/imou-core/internal/infrastructure/influxdb"
	"github.com/nerrad567/imou-core/internal/infrastructure/logging"
	"github.com/nerrad567/imou-core/internal/infrastructure/mqtt"
	"github.com/nerrad567/imou-core/internal/monitor"
)

// Version information - set at build time via ldflags
// Example: go build -ldflags "-X main.version=1.0.0 -X main.commit=abc123"
var (
	version = "dev"     // Semantic version (e.g., "1.0.0")
	commit  = "unknown" // Git commit hash
	date    = "unknown" // Build date
)

// Default configuration file path
const defaultConfigPath = "configs/config.yaml"

func usage() string {
	return strings.TrimSpace(`
Usage: imoucore <command> [args]

Commands:
  discover                          List the account's devices
  device <device-id>                Print a device dump
  diagnostics <device-id>           Print device diagnostics as JSON
  toggle <device-id> <switch> on|off  Switch a device feature
  monitor                           Run the polling monitor
  version                           Print version information

Configuration is read from ` + defaultConfigPath + ` or $IMOUCORE_CONFIG.
`)
}

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx, os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// run is the actual application logic, separated from main for testability.
//
// Parameters:
//   - ctx: Context for cancellation and shutdown signals
//   - args: Command line arguments without the program name
//
// Returns:
//   - error: nil on clean completion, or error describing failure
func run(ctx context.Context, args []string) error {
	command, commandArgs, err := parseArgs(args)
	if err != nil {
		return err
	}

	if command == "version" {
		fmt.Printf("imoucore %s (commit %s, built %s)\n", version, commit, date)
		return nil
	}

	configPath := getConfigPath()
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	log := logging.New(cfg.Logging, version)

	client := api.NewClient(cfg.API, log)
	if err := client.Connect(ctx); err != nil {
		return fmt.Errorf("connecting to Imou API: %w", err)
	}

	switch command {
	case "discover":
		return runDiscover(ctx, client, log)
	case "device":
		return runDump(ctx, client, log, commandArgs[0])
	case "diagnostics":
		return runDiagnostics(ctx, client, log, commandArgs[0])
	case "toggle":
		return runToggle(ctx, client, log, commandArgs[0], commandArgs[1], commandArgs[2])
	case "monitor":
		return runMonitor(ctx, cfg, client, log)
	default:
		// parseArgs rejects unknown commands.
		return fmt.Errorf("unknown command %q\n\n%s", command, usage())
	}
}

// parseArgs validates the command line and returns the command and its
// arguments.
func parseArgs(args []string) (string, []string, error) {
	if len(args) == 0 {
		return "", nil, fmt.Errorf("no command given\n\n%s", usage())
	}

	command := args[0]
	rest := args[1:]

	argc := map[string]int{
		"discover":    0,
		"device":      1,
		"diagnostics": 1,
		"toggle":      3,
		"monitor":     0,
		"version":     0,
	}

	want, ok := argc[command]
	if !ok {
		return "", nil, fmt.Errorf("unknown command %q\n\n%s", command, usage())
	}
	if len(rest) != want {
		return "", nil, fmt.Errorf("command %q takes %d argument(s)\n\n%s", command, want, usage())
	}

	if command == "toggle" {
		if state := strings.ToLower(rest[2]); state != "on" && state != "off" {
			return "", nil, fmt.Errorf("toggle state must be on or off, got %q", rest[2])
		}
	}

	return command, rest, nil
}

// runDiscover lists the account's devices sorted by name.
func runDiscover(ctx context.Context, client *api.Client, log *logging.Logger) error {
	devices, err := device.NewDiscovery(client, log).Discover(ctx)
	if err != nil {
		return fmt.Errorf("discovering devices: %w", err)
	}

	names := make([]string, 0, len(devices))
	for name := range devices {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		fmt.Println(devices[name].String())
	}
	return nil
}

// loadDevice initialises and refreshes one device.
func loadDevice(ctx context.Context, client *api.Client, log *logging.Logger, deviceID string) (*device.Device, error) {
	dev := device.New(client, deviceID, log)
	if _, err := dev.Update(ctx); err != nil {
		return nil, fmt.Errorf("refreshing device %s: %w", deviceID, err)
	}
	return dev, nil
}

// runDump prints the human-readable dump of one device.
func runDump(ctx context.Context, client *api.Client, log *logging.Logger, deviceID string) error {
	dev, err := loadDevice(ctx, client, log, deviceID)
	if err != nil {
		return err
	}
	fmt.Print(dev.Dump())
	return nil
}

// runDiagnostics prints the diagnostics snapshot of one device as JSON.
func runDiagnostics(ctx context.Context, client *api.Client, log *logging.Logger, deviceID string) error {
	dev, err := loadDevice(ctx, client, log, deviceID)
	if err != nil {
		return err
	}

	out, err := json.MarshalIndent(dev.Diagnostics(), "", "  ")
	if err != nil {
		return fmt.Errorf("encoding diagnostics: %w", err)
	}
	fmt.Println(string(out))
	return nil
}

// runToggle switches one device feature on or off.
func runToggle(ctx context.Context, client *api.Client, log *logging.Logger, deviceID, switchName, state string) error {
	dev, err := loadDevice(ctx, client, log, deviceID)
	if err != nil {
		return err
	}

	var target *device.Switch
	for _, entity := range dev.SensorsByPlatform(device.PlatformSwitch) {
		if strings.EqualFold(entity.Name(), switchName) {
			if sw, ok := entity.(*device.Switch); ok {
				target = sw
			}
			break
		}
	}
	if target == nil {
		return fmt.Errorf("device %s has no switch %q", deviceID, switchName)
	}

	if strings.EqualFold(state, "on") {
		err = target.TurnOn(ctx)
	} else {
		err = target.TurnOff(ctx)
	}
	if err != nil {
		return fmt.Errorf("switching %s %s: %w", switchName, state, err)
	}

	fmt.Printf("%s: %s %s\n", dev.Name(), target.Description(), state)
	return nil
}

// runMonitor wires the optional sinks and runs the polling monitor until
// the context is cancelled.
func runMonitor(ctx context.Context, cfg *config.Config, client *api.Client, log *logging.Logger) error {
	log.Info("starting Imou Core monitor",
		"version", version,
		"commit", commit,
		"build_date", date,
	)

	var mqttClient *mqtt.Client
	if cfg.MQTT.Enabled {
		var err error
		mqttClient, err = mqtt.Connect(cfg.MQTT)
		if err != nil {
			return fmt.Errorf("connecting to MQTT: %w", err)
		}
		mqttClient.SetLogger(log)
		defer func() {
			log.Info("disconnecting from MQTT")
			if closeErr := mqttClient.Close(); closeErr != nil {
				log.Error("error closing MQTT", "error", closeErr)
			}
		}()
		log.Info("MQTT connected",
			"broker", fmt.Sprintf("%s:%d", cfg.MQTT.Broker.Host, cfg.MQTT.Broker.Port),
			"client_id", cfg.MQTT.Broker.ClientID,
		)
	} else {
		log.Info("MQTT disabled")
	}

	var influxClient *influxdb.Client
	if cfg.InfluxDB.Enabled {
		var err error
		influxClient, err = influxdb.Connect(cfg.InfluxDB)
		if err != nil {
			return fmt.Errorf("connecting to InfluxDB: %w", err)
		}
		defer func() {
			log.Info("closing InfluxDB connection")
			if closeErr := influxClient.Close(); closeErr != nil {
				log.Error("error closing InfluxDB", "error", closeErr)
			}
		}()
		influxClient.SetOnError(func(err error) {
			log.Error("InfluxDB write error", "error", err)
		})
		log.Info("InfluxDB connected",
			"url", cfg.InfluxDB.URL,
			"org", cfg.InfluxDB.Org,
			"bucket", cfg.InfluxDB.Bucket,
		)
	} else {
		log.Info("InfluxDB disabled")
	}

	mon, err := monitor.New(monitor.Deps{
		Config: cfg.Monitor,
		Logger: log,
		API:    client,
		MQTT:   mqttClient,
		Influx: influxClient,
	})
	if err != nil {
		return fmt.Errorf("creating monitor: %w", err)
	}

	if err := mon.Start(ctx); err != nil {
		return fmt.Errorf("starting monitor: %w", err)
	}
	defer func() {
		if closeErr := mon.Close(); closeErr != nil {
			log.Error("error closing monitor", "error", closeErr)
		}
	}()

	log.Info("initialisation complete, waiting for shutdown signal")
	<-ctx.Done()
	log.Info("shutdown signal received, cleaning up")

	return nil
}

// getConfigPath returns the configuration file path.
// Uses IMOUCORE_CONFIG environment variable if set, otherwise default.
func getConfigPath() string {
	if path := os.Getenv("IMOUCORE_CONFIG"); path != "" {
		return path
	}
	return defaultConfigPath
}
