package device

import (
	"context"
	"fmt"

	"github.com/nerrad567/imou-core/internal/infrastructure/logging"
)

// BinarySensor is a read-only boolean property of a device, e.g. whether it
// is reachable from the cloud.
type BinarySensor struct {
	entityBase
	state bool
}

func newBinarySensor(api API, log *logging.Logger, deviceID, deviceName, sensorType string) *BinarySensor {
	return &BinarySensor{
		entityBase: newEntityBase(api, log, deviceID, deviceName, sensorType, PlatformBinarySensor),
	}
}

// IsOn returns the last fetched state. Check IsUpdated() for freshness.
func (b *BinarySensor) IsOn() bool { return b.state }

// Update refreshes the sensor state from the API.
func (b *BinarySensor) Update(ctx context.Context) error {
	if !b.enabled {
		return nil
	}

	if b.name != binarySensorOnline {
		return nil
	}

	data, err := b.api.DeviceOnline(ctx, b.deviceID)
	if err != nil {
		return err
	}
	online, ok := data["onLine"].(string)
	if !ok {
		return fmt.Errorf("%w: onLine not found in %v", ErrInvalidResponse, data)
	}

	b.state = online == "1"
	b.markUpdated(b.state)
	return nil
}
