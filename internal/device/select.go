package device

import (
	"context"
	"fmt"

	"github.com/nerrad567/imou-core/internal/infrastructure/logging"
)

// Select is a property with a vendor-defined set of options, e.g. the night
// vision mode of a camera.
type Select struct {
	entityBase
	current string
	options []string
}

func newSelect(api API, log *logging.Logger, deviceID, deviceName, selectType string) *Select {
	return &Select{
		entityBase: newEntityBase(api, log, deviceID, deviceName, selectType, PlatformSelect),
	}
}

// Current returns the selected option, empty until the first Update.
func (s *Select) Current() string { return s.current }

// Options returns the options the device reports as available.
func (s *Select) Options() []string {
	out := make([]string, len(s.options))
	copy(out, s.options)
	return out
}

// Update refreshes the selected and available options from the API.
func (s *Select) Update(ctx context.Context) error {
	if !s.enabled {
		return nil
	}

	if s.name != selectNightVisionMode {
		return nil
	}

	data, err := s.api.GetNightVisionMode(ctx, s.deviceID)
	if err != nil {
		return err
	}
	mode, ok := data["mode"].(string)
	if !ok {
		return fmt.Errorf("%w: mode not found in %v", ErrInvalidResponse, data)
	}
	rawModes, ok := data["modes"].([]any)
	if !ok {
		return fmt.Errorf("%w: modes not found in %v", ErrInvalidResponse, data)
	}

	options := make([]string, 0, len(rawModes))
	for _, m := range rawModes {
		option, ok := m.(string)
		if !ok {
			return fmt.Errorf("%w: malformed modes in %v", ErrInvalidResponse, data)
		}
		options = append(options, option)
	}

	s.current = mode
	s.options = options
	s.markUpdated(s.current)
	return nil
}

// SelectOption changes the selected option.
func (s *Select) SelectOption(ctx context.Context, option string) error {
	if !s.enabled {
		return nil
	}
	if s.name != selectNightVisionMode {
		return nil
	}
	if err := s.api.SetNightVisionMode(ctx, s.deviceID, option); err != nil {
		return err
	}
	s.current = option
	return nil
}
