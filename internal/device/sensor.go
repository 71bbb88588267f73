package device

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/nerrad567/imou-core/internal/infrastructure/logging"
)

// isoTimeLayout renders alarm timestamps as ISO 8601 without zone suffix.
const isoTimeLayout = "2006-01-02T15:04:05"

// Sensor is a read-only string-valued property of a device.
//
// Supported sensor types:
//   - lastAlarm: time of the most recent alarm, ISO 8601 UTC
//   - storageUsed: SD card usage percentage
//   - callbackUrl: account-wide push notification callback URL
type Sensor struct {
	entityBase
	state string
}

func newSensor(api API, log *logging.Logger, deviceID, deviceName, sensorType string) *Sensor {
	return &Sensor{
		entityBase: newEntityBase(api, log, deviceID, deviceName, sensorType, PlatformSensor),
	}
}

// State returns the last fetched value, empty until the first Update.
func (s *Sensor) State() string { return s.state }

// Update refreshes the sensor value from the API.
func (s *Sensor) Update(ctx context.Context) error {
	if !s.enabled {
		return nil
	}

	switch s.name {
	case sensorLastAlarm:
		if err := s.updateLastAlarm(ctx); err != nil {
			return err
		}
	case sensorStorageUsed:
		if err := s.updateStorageUsed(ctx); err != nil {
			return err
		}
	case sensorCallbackURL:
		if err := s.updateCallbackURL(ctx); err != nil {
			return err
		}
	}

	s.markUpdated(s.state)
	return nil
}

func (s *Sensor) updateLastAlarm(ctx context.Context) error {
	data, err := s.api.GetAlarmMessage(ctx, s.deviceID)
	if err != nil {
		return err
	}

	alarms, ok := data["alarms"].([]any)
	if !ok {
		return fmt.Errorf("%w: alarms not found in %v", ErrInvalidResponse, data)
	}
	if len(alarms) == 0 {
		return nil
	}

	alarm, ok := alarms[0].(map[string]any)
	if !ok {
		return fmt.Errorf("%w: malformed alarm entry in %v", ErrInvalidResponse, data)
	}
	ts, err := numericField(alarm, "time")
	if err != nil {
		return err
	}

	s.state = time.Unix(int64(ts), 0).UTC().Format(isoTimeLayout)
	return nil
}

func (s *Sensor) updateStorageUsed(ctx context.Context) error {
	data, err := s.api.DeviceSDCardStatus(ctx, s.deviceID)
	if err != nil {
		return err
	}
	status, ok := data["status"].(string)
	if !ok {
		return fmt.Errorf("%w: status not found in %v", ErrInvalidResponse, data)
	}
	if status != "normal" {
		return nil
	}

	data, err = s.api.DeviceStorage(ctx, s.deviceID)
	if err != nil {
		return err
	}
	total, err := numericField(data, "totalBytes")
	if err != nil {
		return err
	}
	used, err := numericField(data, "usedBytes")
	if err != nil {
		return err
	}
	if total <= 0 {
		return fmt.Errorf("%w: totalBytes not positive in %v", ErrInvalidResponse, data)
	}

	s.state = strconv.Itoa(int(used * 100 / total))
	return nil
}

func (s *Sensor) updateCallbackURL(ctx context.Context) error {
	data, err := s.api.GetMessageCallback(ctx)
	if err != nil {
		return err
	}
	url, ok := data["callbackUrl"].(string)
	if !ok {
		return fmt.Errorf("%w: callbackUrl not found in %v", ErrInvalidResponse, data)
	}
	s.state = url
	return nil
}

// numericField extracts a numeric field from a decoded JSON object. The
// vendor is inconsistent about numbers vs. numeric strings, so both are
// accepted.
func numericField(data map[string]any, key string) (float64, error) {
	switch v := data[key].(type) {
	case float64:
		return v, nil
	case string:
		n, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return 0, fmt.Errorf("%w: %s not numeric in %v", ErrInvalidResponse, key, data)
		}
		return n, nil
	default:
		return 0, fmt.Errorf("%w: %s not found in %v", ErrInvalidResponse, key, data)
	}
}
