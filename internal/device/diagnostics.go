package device

import (
	"fmt"
	"strings"
)

// Diagnostics is a structured snapshot of a device and its API connection,
// suitable for JSON serialisation and support bundles.
type Diagnostics struct {
	API           APIInfo          `json:"api"`
	Device        DeviceInfo       `json:"device"`
	Capabilities  []CapabilityInfo `json:"capabilities"`
	Switches      []EntityInfo     `json:"switches"`
	Sensors       []EntityInfo     `json:"sensors"`
	BinarySensors []EntityInfo     `json:"binary_sensors"`
	Selects       []EntityInfo     `json:"selects"`
	Buttons       []EntityInfo     `json:"buttons"`
}

// APIInfo describes the API client connection.
type APIInfo struct {
	BaseURL     string  `json:"base_url"`
	Timeout     float64 `json:"timeout"`
	IsConnected bool    `json:"is_connected"`
}

// DeviceInfo describes the device identity fields.
type DeviceInfo struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Catalog      string `json:"catalog"`
	GivenName    string `json:"given_name"`
	Model        string `json:"model"`
	Firmware     string `json:"firmware"`
	Manufacturer string `json:"manufacturer"`
	Online       string `json:"online"`
}

// CapabilityInfo describes one capability token.
type CapabilityInfo struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// EntityInfo describes one entity and its state.
type EntityInfo struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	State       any    `json:"state"`
	IsEnabled   bool   `json:"is_enabled"`
	IsUpdated   bool   `json:"is_updated"`
}

// Diagnostics builds a structured snapshot of the device. It is safe to call
// on an uninitialised device, which reports placeholder values.
func (d *Device) Diagnostics() Diagnostics {
	online := "no"
	if d.online {
		online = "yes"
	}

	capabilities := make([]CapabilityInfo, 0, len(d.capabilities))
	for _, name := range d.capabilities {
		capabilities = append(capabilities, CapabilityInfo{
			Name:        name,
			Description: describe(capabilityDescriptions, name),
		})
	}

	return Diagnostics{
		API: APIInfo{
			BaseURL:     d.api.BaseURL(),
			Timeout:     d.api.Timeout().Seconds(),
			IsConnected: d.api.IsConnected(),
		},
		Device: DeviceInfo{
			ID:           d.id,
			Name:         d.name,
			Catalog:      d.catalog,
			GivenName:    d.givenName,
			Model:        d.model,
			Firmware:     d.firmware,
			Manufacturer: manufacturer,
			Online:       online,
		},
		Capabilities:  capabilities,
		Switches:      d.entityInfos(PlatformSwitch),
		Sensors:       d.entityInfos(PlatformSensor),
		BinarySensors: d.entityInfos(PlatformBinarySensor),
		Selects:       d.entityInfos(PlatformSelect),
		Buttons:       d.entityInfos(PlatformButton),
	}
}

// entityInfos snapshots one platform's entities in insertion order.
func (d *Device) entityInfos(platform Platform) []EntityInfo {
	entities := d.entities[platform]
	out := make([]EntityInfo, 0, len(entities))
	for _, entity := range entities {
		out = append(out, EntityInfo{
			Name:        entity.Name(),
			Description: entity.Description(),
			State:       EntityState(entity),
			IsEnabled:   entity.IsEnabled(),
			IsUpdated:   entity.IsUpdated(),
		})
	}
	return out
}

// EntityState extracts the typed state of an entity as a generic value:
// bool for switches and binary sensors, string for sensors and selects,
// nil for buttons and unknown entity types.
func EntityState(entity Entity) any {
	switch e := entity.(type) {
	case *Switch:
		return e.IsOn()
	case *Sensor:
		return e.State()
	case *BinarySensor:
		return e.IsOn()
	case *Select:
		return e.Current()
	default:
		return nil
	}
}

// Dump renders the diagnostics snapshot as an indented human-readable block.
//
// Section order is fixed: device header, capabilities, switches, sensors,
// binary sensors, then selects and buttons.
func (d *Device) Dump() string {
	data := d.Diagnostics()

	var b strings.Builder
	fmt.Fprintf(&b, "- Device ID: %s\n", data.Device.ID)
	fmt.Fprintf(&b, "    Name: %s\n", data.Device.Name)
	fmt.Fprintf(&b, "    Catalog: %s\n", data.Device.Catalog)
	fmt.Fprintf(&b, "    Model: %s\n", data.Device.Model)
	fmt.Fprintf(&b, "    Firmware: %s\n", data.Device.Firmware)
	fmt.Fprintf(&b, "    Online: %s\n", data.Device.Online)

	b.WriteString("    Capabilities:\n")
	for _, capability := range data.Capabilities {
		fmt.Fprintf(&b, "        - %s\n", capability.Description)
	}

	dumpSection(&b, "Switches", data.Switches)
	dumpSection(&b, "Sensors", data.Sensors)
	dumpSection(&b, "Binary Sensors", data.BinarySensors)
	dumpSection(&b, "Selects", data.Selects)
	dumpSection(&b, "Buttons", data.Buttons)

	return b.String()
}

func dumpSection(b *strings.Builder, title string, entities []EntityInfo) {
	fmt.Fprintf(b, "    %s:\n", title)
	for _, entity := range entities {
		if entity.State == nil {
			fmt.Fprintf(b, "        - %s\n", entity.Description)
			continue
		}
		fmt.Fprintf(b, "        - %s: %v\n", entity.Description, entity.State)
	}
}
