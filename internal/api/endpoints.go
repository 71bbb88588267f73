package api

import "context"

// Endpoint wrappers. Each method maps one-to-one onto a vendor endpoint and
// returns the result data object unmodified; callers validate the fields they
// need and report missing ones as their own data-validation errors.

// DeviceBaseList lists all devices registered to the account.
//
// The returned data contains "count" and "deviceList" (one entry per device
// with at least "deviceId").
func (c *Client) DeviceBaseList(ctx context.Context) (map[string]any, error) {
	return c.call(ctx, "deviceBaseList", map[string]any{
		"bindId": -1,
		"limit":  50,
		"type":   "bindAndShare",
	})
}

// DeviceBaseDetailList fetches metadata for the given device ids.
//
// The returned data contains "deviceList" with one entry per requested device
// ("catalog", "version", "name", "deviceModel", "status", "ability", ...).
func (c *Client) DeviceBaseDetailList(ctx context.Context, deviceIDs []string) (map[string]any, error) {
	list := make([]map[string]any, 0, len(deviceIDs))
	for _, id := range deviceIDs {
		list = append(list, map[string]any{
			"deviceId":    id,
			"channelList": "0",
		})
	}
	return c.call(ctx, "deviceBaseDetailList", map[string]any{
		"deviceList": list,
	})
}

// DeviceOnline fetches the online status of a device.
//
// The returned data contains "onLine" ("0" or "1").
func (c *Client) DeviceOnline(ctx context.Context, deviceID string) (map[string]any, error) {
	return c.call(ctx, "deviceOnline", map[string]any{
		"deviceId": deviceID,
	})
}

// GetAlarmMessage fetches the most recent alarm messages of a device.
//
// The returned data contains "alarms", newest first, each with a "time"
// field (Unix seconds).
func (c *Client) GetAlarmMessage(ctx context.Context, deviceID string) (map[string]any, error) {
	return c.call(ctx, "getAlarmMessage", map[string]any{
		"deviceId": deviceID,
		"count":    10,
	})
}

// DeviceSDCardStatus fetches the SD card status of a device.
//
// The returned data contains "status" ("normal", "abnormal", "nocard", ...).
func (c *Client) DeviceSDCardStatus(ctx context.Context, deviceID string) (map[string]any, error) {
	return c.call(ctx, "deviceSdcardStatus", map[string]any{
		"deviceId": deviceID,
	})
}

// DeviceStorage fetches storage usage of a device.
//
// The returned data contains "totalBytes" and "usedBytes".
func (c *Client) DeviceStorage(ctx context.Context, deviceID string) (map[string]any, error) {
	return c.call(ctx, "deviceStorage", map[string]any{
		"deviceId": deviceID,
	})
}

// GetMessageCallback fetches the account-wide push notification callback.
//
// The returned data contains "callbackUrl" and "status" ("on"/"off").
func (c *Client) GetMessageCallback(ctx context.Context) (map[string]any, error) {
	return c.call(ctx, "getMessageCallback", map[string]any{})
}

// SetMessageCallbackOn enables push notifications to the given callback URL.
func (c *Client) SetMessageCallbackOn(ctx context.Context, url string) error {
	_, err := c.call(ctx, "setMessageCallback", map[string]any{
		"status":       "on",
		"callbackFlag": "alarm",
		"callbackUrl":  url,
	})
	return err
}

// SetMessageCallbackOff disables push notifications.
func (c *Client) SetMessageCallbackOff(ctx context.Context) error {
	_, err := c.call(ctx, "setMessageCallback", map[string]any{
		"status": "off",
	})
	return err
}

// GetDeviceCameraStatus fetches the on/off state of a camera feature.
//
// The returned data contains "status" ("on"/"off").
func (c *Client) GetDeviceCameraStatus(ctx context.Context, deviceID, enableType string) (map[string]any, error) {
	return c.call(ctx, "getDeviceCameraStatus", map[string]any{
		"deviceId":   deviceID,
		"enableType": enableType,
	})
}

// SetDeviceCameraStatus switches a camera feature on or off.
func (c *Client) SetDeviceCameraStatus(ctx context.Context, deviceID, enableType string, value bool) error {
	_, err := c.call(ctx, "setDeviceCameraStatus", map[string]any{
		"deviceId":   deviceID,
		"enableType": enableType,
		"enable":     value,
	})
	return err
}

// GetNightVisionMode fetches the selected and available night vision modes.
//
// The returned data contains "mode" and "modes".
func (c *Client) GetNightVisionMode(ctx context.Context, deviceID string) (map[string]any, error) {
	return c.call(ctx, "getNightVisionMode", map[string]any{
		"deviceId":  deviceID,
		"channelId": "0",
	})
}

// SetNightVisionMode selects a night vision mode.
func (c *Client) SetNightVisionMode(ctx context.Context, deviceID, mode string) error {
	_, err := c.call(ctx, "setNightVisionMode", map[string]any{
		"deviceId":  deviceID,
		"channelId": "0",
		"mode":      mode,
	})
	return err
}

// RestartDevice reboots a device.
func (c *Client) RestartDevice(ctx context.Context, deviceID string) error {
	_, err := c.call(ctx, "restartDevice", map[string]any{
		"deviceId": deviceID,
	})
	return err
}
