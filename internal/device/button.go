package device

import (
	"context"

	"github.com/nerrad567/imou-core/internal/infrastructure/logging"
)

// Button is a stateless action on a device: restart it, or refresh all of
// its entities.
type Button struct {
	entityBase

	// device is the owning device, needed by the refreshData button.
	device *Device
}

func newButton(api API, log *logging.Logger, deviceID, deviceName, buttonType string) *Button {
	return &Button{
		entityBase: newEntityBase(api, log, deviceID, deviceName, buttonType, PlatformButton),
	}
}

// setDevice wires the owning device for actions that operate on it.
func (b *Button) setDevice(d *Device) { b.device = d }

// Press performs the button action.
func (b *Button) Press(ctx context.Context) error {
	if !b.enabled {
		return nil
	}

	switch b.name {
	case buttonRestartDevice:
		if err := b.api.RestartDevice(ctx, b.deviceID); err != nil {
			return err
		}
	case buttonRefreshData:
		if b.device == nil {
			b.log.Warn("device not wired for refreshData", "device", b.deviceName)
			break
		}
		if _, err := b.device.Update(ctx); err != nil {
			return err
		}
	}

	b.markUpdated(b.name)
	return nil
}

// Update is a no-op: buttons have no state to fetch.
func (b *Button) Update(_ context.Context) error { return nil }
