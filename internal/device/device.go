package device

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/nerrad567/imou-core/internal/infrastructure/logging"
)

// placeholder is reported by accessors before initialisation.
const placeholder = "N.A."

// manufacturer is constant for every device behind this API.
const manufacturer = "Imou"

// Device is one camera or sensor unit registered to the cloud account.
//
// A Device is constructed inert; Initialize() fetches its metadata and
// builds its entity set. Update() lazily initialises, refreshes the online
// flag, and when the device is online refreshes every entity sequentially.
type Device struct {
	api API
	log *logging.Logger

	id        string
	catalog   string
	firmware  string
	name      string
	givenName string
	model     string
	online    bool

	capabilities []string
	entities     map[Platform][]Entity

	initialized bool
	enabled     bool
}

// New creates a Device for the given vendor-assigned device id.
//
// The device holds placeholder values until Initialize() succeeds.
//
// Parameters:
//   - api: Imou OpenAPI client
//   - deviceID: Opaque vendor-assigned device id
//   - logger: Structured logger (use logging.Nop() to silence)
//
// Returns:
//   - *Device: Inert device, not yet initialised
func New(api API, deviceID string, logger *logging.Logger) *Device {
	if logger == nil {
		logger = logging.Nop()
	}
	return &Device{
		api:      api,
		log:      logger.With("device_id", deviceID),
		id:       deviceID,
		catalog:  placeholder,
		firmware: placeholder,
		name:     placeholder,
		model:    placeholder,
		entities: map[Platform][]Entity{},
		enabled:  true,
	}
}

// ID returns the vendor-assigned device id.
func (d *Device) ID() string { return d.id }

// Name returns the user-given name if set, else the vendor-reported name.
func (d *Device) Name() string {
	if d.givenName != "" {
		return d.givenName
	}
	return d.name
}

// SetName sets a display name override. An empty string reverts to the
// vendor-reported name.
func (d *Device) SetName(givenName string) { d.givenName = givenName }

// Model returns the device model.
func (d *Device) Model() string { return d.model }

// Manufacturer returns the device manufacturer.
func (d *Device) Manufacturer() string { return manufacturer }

// Firmware returns the firmware version.
func (d *Device) Firmware() string { return d.firmware }

// Catalog returns the vendor catalog classification.
func (d *Device) Catalog() string { return d.catalog }

// Online reports the last known online status.
func (d *Device) Online() bool { return d.online }

// Capabilities returns the capability tokens reported by the vendor,
// with motionDetect always present.
func (d *Device) Capabilities() []string {
	out := make([]string, len(d.capabilities))
	copy(out, d.capabilities)
	return out
}

// SetEnabled toggles the local enabled gate. It does not call the API and
// does not affect already-fetched state; a disabled device just skips
// future refreshes.
func (d *Device) SetEnabled(value bool) { d.enabled = value }

// IsEnabled reports the local enabled gate.
func (d *Device) IsEnabled() bool { return d.enabled }

// IsInitialized reports whether Initialize() has completed successfully.
func (d *Device) IsInitialized() bool { return d.initialized }

// Sensors returns every entity across all platforms, in platform order
// (switch, sensor, binary_sensor, select, button) and insertion order
// within each platform.
func (d *Device) Sensors() []Entity {
	var out []Entity
	for _, platform := range platformOrder {
		out = append(out, d.entities[platform]...)
	}
	return out
}

// SensorsByPlatform returns the entities of one platform, or an empty slice
// for an unknown platform.
func (d *Device) SensorsByPlatform(platform Platform) []Entity {
	entities := d.entities[platform]
	out := make([]Entity, len(entities))
	copy(out, entities)
	return out
}

// SensorByName returns the first entity with the given name, searching
// platforms in the same order as Sensors(). Returns nil if none matches.
func (d *Device) SensorByName(name string) Entity {
	for _, platform := range platformOrder {
		for _, entity := range d.entities[platform] {
			if entity.Name() == name {
				return entity
			}
		}
	}
	return nil
}

// Initialize fetches the device metadata and instantiates its entities.
//
// It fails with ErrInvalidResponse when the response does not contain
// exactly one entry for this device id, or when a required field is missing
// or malformed. Initialize is idempotent only in the sense that a failed
// attempt leaves the device uninitialised and can be retried.
//
// Parameters:
//   - ctx: Context for timeout/cancellation
//
// Returns:
//   - error: nil on success
func (d *Device) Initialize(ctx context.Context) error {
	detail, err := d.api.DeviceBaseDetailList(ctx, []string{d.id})
	if err != nil {
		return err
	}

	list, ok := detail["deviceList"].([]any)
	if !ok || len(list) != 1 {
		return fmt.Errorf("%w: deviceList not found in %v", ErrInvalidResponse, detail)
	}
	data, ok := list[0].(map[string]any)
	if !ok {
		return fmt.Errorf("%w: malformed deviceList entry in %v", ErrInvalidResponse, detail)
	}

	if err := d.parseDetails(data); err != nil {
		return err
	}
	d.buildEntities()

	d.initialized = true
	d.log.Debug("device initialised", "device", d.String())
	return nil
}

// parseDetails populates metadata and capabilities from one detail entry.
// Any missing field is reported as a single data-validation failure carrying
// the raw payload.
func (d *Device) parseDetails(data map[string]any) error {
	catalog, ok := data["catalog"].(string)
	if !ok {
		return fmt.Errorf("%w: missing parameter or error parsing in %v", ErrInvalidResponse, data)
	}
	firmware, ok := data["version"].(string)
	if !ok {
		return fmt.Errorf("%w: missing parameter or error parsing in %v", ErrInvalidResponse, data)
	}
	name, ok := data["name"].(string)
	if !ok {
		return fmt.Errorf("%w: missing parameter or error parsing in %v", ErrInvalidResponse, data)
	}
	model, ok := data["deviceModel"].(string)
	if !ok {
		return fmt.Errorf("%w: missing parameter or error parsing in %v", ErrInvalidResponse, data)
	}
	status, ok := data["status"].(string)
	if !ok {
		return fmt.Errorf("%w: missing parameter or error parsing in %v", ErrInvalidResponse, data)
	}
	ability, ok := data["ability"].(string)
	if !ok {
		return fmt.Errorf("%w: missing parameter or error parsing in %v", ErrInvalidResponse, data)
	}

	d.catalog = catalog
	d.firmware = firmware
	d.name = name
	d.model = model
	d.online = status == "online"

	d.capabilities = nil
	for _, token := range strings.Split(ability, ",") {
		if token = strings.TrimSpace(token); token != "" {
			d.capabilities = append(d.capabilities, token)
		}
	}
	// The vendor omits motionDetect from the ability list even though every
	// device supports it.
	if !slices.Contains(d.capabilities, capabilityMotionDetect) {
		d.capabilities = append(d.capabilities, capabilityMotionDetect)
	}

	return nil
}

// buildEntities instantiates the entity set from the capability list.
func (d *Device) buildEntities() {
	d.entities = map[Platform][]Entity{}

	// One switch per known switch type with a matching capability.
	// First capability match wins per type.
	for _, switchType := range switchTypes {
		for _, capability := range d.capabilities {
			if strings.EqualFold(switchType, capability) {
				d.entities[PlatformSwitch] = append(d.entities[PlatformSwitch],
					newSwitch(d.api, d.log, d.id, d.Name(), switchType))
				break
			}
		}
	}

	// Every device gets the last alarm sensor and the online binary sensor.
	d.entities[PlatformSensor] = append(d.entities[PlatformSensor],
		newSensor(d.api, d.log, d.id, d.Name(), sensorLastAlarm))
	if hasCapability(d.capabilities, capabilityLocalStorage) {
		d.entities[PlatformSensor] = append(d.entities[PlatformSensor],
			newSensor(d.api, d.log, d.id, d.Name(), sensorStorageUsed))
	}
	// The callback URL is the account-wide companion of the push
	// notification switch, so it rides on the same capability.
	if hasCapability(d.capabilities, switchPushNotifications) {
		d.entities[PlatformSensor] = append(d.entities[PlatformSensor],
			newSensor(d.api, d.log, d.id, d.Name(), sensorCallbackURL))
	}

	d.entities[PlatformBinarySensor] = append(d.entities[PlatformBinarySensor],
		newBinarySensor(d.api, d.log, d.id, d.Name(), binarySensorOnline))

	if hasCapability(d.capabilities, capabilityNightVision) {
		d.entities[PlatformSelect] = append(d.entities[PlatformSelect],
			newSelect(d.api, d.log, d.id, d.Name(), selectNightVisionMode))
	}

	restart := newButton(d.api, d.log, d.id, d.Name(), buttonRestartDevice)
	refresh := newButton(d.api, d.log, d.id, d.Name(), buttonRefreshData)
	refresh.setDevice(d)
	d.entities[PlatformButton] = append(d.entities[PlatformButton], restart, refresh)
}

// Update refreshes the device and all of its entities.
//
// Disabled devices return (false, nil) without any API call. An
// uninitialised device is initialised first. The online flag is refreshed;
// entities are only refreshed while the device is online, so stale state is
// preserved across offline periods.
//
// Parameters:
//   - ctx: Context for timeout/cancellation
//
// Returns:
//   - bool: true when the refresh ran to completion, false when disabled
//   - error: nil on success
func (d *Device) Update(ctx context.Context) (bool, error) {
	if !d.enabled {
		return false, nil
	}
	if !d.initialized {
		if err := d.Initialize(ctx); err != nil {
			return false, err
		}
	}

	d.log.Debug("update requested", "device", d.Name())

	data, err := d.api.DeviceOnline(ctx, d.id)
	if err != nil {
		return false, err
	}
	online, ok := data["onLine"].(string)
	if !ok {
		return false, fmt.Errorf("%w: onLine not found in %v", ErrInvalidResponse, data)
	}
	d.online = online == "1"

	// Sequential on purpose: concurrent refreshes would burst the vendor API.
	if d.online {
		for _, platform := range platformOrder {
			for _, entity := range d.entities[platform] {
				if err := entity.Update(ctx); err != nil {
					return false, err
				}
			}
		}
	}

	return true, nil
}

// String renders the device as "{name} ({model}, serial {id})" using the
// vendor-reported name.
func (d *Device) String() string {
	return fmt.Sprintf("%s (%s, serial %s)", d.name, d.model, d.id)
}
