package device

import (
	"context"

	"github.com/nerrad567/imou-core/internal/infrastructure/logging"
)

// Entity is one observable or controllable property of a device.
//
// Every entity carries an enabled flag (a local gate, no API interaction)
// and an updated flag that reports whether the state has been fetched at
// least once. Concrete types add typed state accessors: IsOn() for switches
// and binary sensors, State() for sensors, Current() for selects.
type Entity interface {
	// DeviceID returns the id of the owning device.
	DeviceID() string

	// Name returns the capability name of the entity, e.g. "motionDetect".
	Name() string

	// Description returns the human description from the catalog.
	Description() string

	// Platform returns the entity's platform category.
	Platform() Platform

	// SetEnabled toggles the local enabled gate.
	SetEnabled(value bool)

	// IsEnabled reports the local enabled gate.
	IsEnabled() bool

	// IsUpdated reports whether the state has been fetched at least once.
	IsUpdated() bool

	// Update refreshes the entity state from the API. Disabled entities
	// return immediately without touching the network.
	Update(ctx context.Context) error
}

// entityBase holds the fields shared by all entity implementations.
type entityBase struct {
	api        API
	log        *logging.Logger
	deviceID   string
	deviceName string
	name       string
	platform   Platform
	enabled    bool
	updated    bool
}

func newEntityBase(api API, log *logging.Logger, deviceID, deviceName, name string, platform Platform) entityBase {
	if log == nil {
		log = logging.Nop()
	}
	return entityBase{
		api:        api,
		log:        log,
		deviceID:   deviceID,
		deviceName: deviceName,
		name:       name,
		platform:   platform,
		enabled:    true,
	}
}

func (e *entityBase) DeviceID() string { return e.deviceID }

func (e *entityBase) Name() string { return e.name }

func (e *entityBase) Description() string { return entityDescription(e.platform, e.name) }

func (e *entityBase) Platform() Platform { return e.platform }

func (e *entityBase) SetEnabled(value bool) { e.enabled = value }

func (e *entityBase) IsEnabled() bool { return e.enabled }

func (e *entityBase) IsUpdated() bool { return e.updated }

// markUpdated records that the state is fresh and logs the new value.
func (e *entityBase) markUpdated(state any) {
	e.log.Debug("entity updated",
		"device", e.deviceName,
		"entity", e.name,
		"state", state,
	)
	e.updated = true
}
