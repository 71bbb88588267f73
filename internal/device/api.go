package device

import (
	"context"
	"time"
)

// API is the surface this package requires from the Imou OpenAPI client.
//
// Methods returning map[string]any yield the result data object of the
// vendor's response envelope; this package validates the fields it needs.
// The concrete implementation lives in internal/api.
type API interface {
	// Account-wide calls.
	DeviceBaseList(ctx context.Context) (map[string]any, error)
	GetMessageCallback(ctx context.Context) (map[string]any, error)
	SetMessageCallbackOn(ctx context.Context, url string) error
	SetMessageCallbackOff(ctx context.Context) error

	// Per-device calls.
	DeviceBaseDetailList(ctx context.Context, deviceIDs []string) (map[string]any, error)
	DeviceOnline(ctx context.Context, deviceID string) (map[string]any, error)
	GetAlarmMessage(ctx context.Context, deviceID string) (map[string]any, error)
	DeviceSDCardStatus(ctx context.Context, deviceID string) (map[string]any, error)
	DeviceStorage(ctx context.Context, deviceID string) (map[string]any, error)
	GetDeviceCameraStatus(ctx context.Context, deviceID, enableType string) (map[string]any, error)
	SetDeviceCameraStatus(ctx context.Context, deviceID, enableType string, value bool) error
	GetNightVisionMode(ctx context.Context, deviceID string) (map[string]any, error)
	SetNightVisionMode(ctx context.Context, deviceID, mode string) error
	RestartDevice(ctx context.Context, deviceID string) error

	// Introspection for diagnostics.
	BaseURL() string
	Timeout() time.Duration
	IsConnected() bool
}
