package device

import (
	"context"
	"fmt"

	"github.com/nerrad567/imou-core/internal/infrastructure/logging"
)

// Switch is a controllable on/off feature of a device, e.g. motion detection.
//
// Most switches map onto the camera-status endpoints keyed by the capability
// name. The pushNotifications switch is account-wide and uses the message
// callback endpoints instead; turning it on requires a callback URL set via
// SetCallbackURL.
type Switch struct {
	entityBase
	state       bool
	callbackURL string
}

func newSwitch(api API, log *logging.Logger, deviceID, deviceName, switchType string) *Switch {
	return &Switch{
		entityBase: newEntityBase(api, log, deviceID, deviceName, switchType, PlatformSwitch),
	}
}

// IsOn returns the last fetched state. Check IsUpdated() for freshness.
func (s *Switch) IsOn() bool { return s.state }

// SetCallbackURL sets the URL used when turning the push notification
// switch on. It has no effect on other switches.
func (s *Switch) SetCallbackURL(url string) { s.callbackURL = url }

// Update refreshes the switch state from the API.
func (s *Switch) Update(ctx context.Context) error {
	if !s.enabled {
		return nil
	}

	var (
		data map[string]any
		err  error
	)
	if s.name == switchPushNotifications {
		data, err = s.api.GetMessageCallback(ctx)
	} else {
		data, err = s.api.GetDeviceCameraStatus(ctx, s.deviceID, s.name)
	}
	if err != nil {
		return err
	}

	status, ok := data["status"].(string)
	if !ok {
		return fmt.Errorf("%w: status not found in %v", ErrInvalidResponse, data)
	}

	s.state = status == "on"
	s.markUpdated(s.state)
	return nil
}

// TurnOn switches the feature on.
func (s *Switch) TurnOn(ctx context.Context) error {
	if !s.enabled {
		return nil
	}
	if s.name == switchPushNotifications {
		if s.callbackURL == "" {
			return ErrCallbackURLRequired
		}
		if err := s.api.SetMessageCallbackOn(ctx, s.callbackURL); err != nil {
			return err
		}
	} else {
		if err := s.api.SetDeviceCameraStatus(ctx, s.deviceID, s.name, true); err != nil {
			return err
		}
	}
	s.state = true
	return nil
}

// TurnOff switches the feature off.
func (s *Switch) TurnOff(ctx context.Context) error {
	if !s.enabled {
		return nil
	}
	if s.name == switchPushNotifications {
		if err := s.api.SetMessageCallbackOff(ctx); err != nil {
			return err
		}
	} else {
		if err := s.api.SetDeviceCameraStatus(ctx, s.deviceID, s.name, false); err != nil {
			return err
		}
	}
	s.state = false
	return nil
}

// Toggle inverts the switch. It refuses to act before the first successful
// Update, since the direction would be a guess.
func (s *Switch) Toggle(ctx context.Context) error {
	if !s.enabled || !s.updated {
		return nil
	}
	if s.state {
		return s.TurnOff(ctx)
	}
	return s.TurnOn(ctx)
}
