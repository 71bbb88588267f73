package device

import (
	"context"
	"fmt"

	"github.com/nerrad567/imou-core/internal/infrastructure/logging"
)

// Discovery lists the devices registered to the cloud account and builds a
// fully initialised Device for each.
type Discovery struct {
	api API
	log *logging.Logger
}

// NewDiscovery creates a Discovery service.
//
// Parameters:
//   - api: Imou OpenAPI client
//   - logger: Structured logger (use logging.Nop() to silence)
func NewDiscovery(api API, logger *logging.Logger) *Discovery {
	if logger == nil {
		logger = logging.Nop()
	}
	return &Discovery{
		api: api,
		log: logger.With("component", "discovery"),
	}
}

// Discover lists all registered devices and returns them keyed by display
// name.
//
// Devices are constructed and initialised sequentially in API response
// order; a failure initialising any device aborts the whole discovery.
// When two devices resolve to the same display name the later one silently
// overwrites the earlier entry.
//
// Parameters:
//   - ctx: Context for timeout/cancellation
//
// Returns:
//   - map[string]*Device: Display name to initialised device
//   - error: ErrInvalidResponse for a malformed list, or the first
//     initialisation failure
func (s *Discovery) Discover(ctx context.Context) (map[string]*Device, error) {
	s.log.Debug("starting discovery")

	data, err := s.api.DeviceBaseList(ctx)
	if err != nil {
		return nil, err
	}

	list, ok := data["deviceList"].([]any)
	if !ok {
		return nil, fmt.Errorf("%w: deviceList or count not found in %v", ErrInvalidResponse, data)
	}
	if _, ok := data["count"]; !ok {
		return nil, fmt.Errorf("%w: deviceList or count not found in %v", ErrInvalidResponse, data)
	}
	s.log.Debug("registered devices listed", "count", data["count"])

	devices := make(map[string]*Device, len(list))
	for _, entry := range list {
		entryData, ok := entry.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("%w: malformed deviceList entry in %v", ErrInvalidResponse, data)
		}
		deviceID, ok := entryData["deviceId"].(string)
		if !ok {
			return nil, fmt.Errorf("%w: deviceId not found in %v", ErrInvalidResponse, entryData)
		}

		device := New(s.api, deviceID, s.log)
		if err := device.Initialize(ctx); err != nil {
			return nil, err
		}
		s.log.Debug("discovered device", "device", device.String())

		devices[device.Name()] = device
	}

	return devices, nil
}
