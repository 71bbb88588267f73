package device

import (
	"context"
	"strings"
	"time"
)

// fakeAPI is an in-memory API implementation for tests. It records every
// call in order and serves canned responses.
type fakeAPI struct {
	calls []string

	baseListResp map[string]any
	baseListErr  error

	// detailFn, when set, overrides detailResp (used by discovery tests
	// serving different devices).
	detailFn   func(deviceIDs []string) (map[string]any, error)
	detailResp map[string]any
	detailErr  error

	onlineResp map[string]any
	onlineErr  error

	alarmResp    map[string]any
	alarmErr     error
	sdcardResp   map[string]any
	storageResp  map[string]any
	callbackResp map[string]any
	cameraResp   map[string]any
	cameraErr    error
	nightResp    map[string]any

	setCameraErr error
}

var _ API = (*fakeAPI)(nil)

// detailEntry builds one plausible deviceBaseDetailList entry.
func detailEntry(id, name, ability string) map[string]any {
	return map[string]any{
		"deviceId":    id,
		"catalog":     "IPC",
		"version":     "2.680.0000000.25.R",
		"name":        name,
		"deviceModel": "IPC-C22C",
		"status":      "online",
		"ability":     ability,
	}
}

// detailList wraps entries the way the vendor does.
func detailList(entries ...any) map[string]any {
	return map[string]any{"deviceList": entries}
}

// baseList builds a deviceBaseList response for the given device ids.
func baseList(deviceIDs ...string) map[string]any {
	list := make([]any, 0, len(deviceIDs))
	for _, id := range deviceIDs {
		list = append(list, map[string]any{"deviceId": id})
	}
	return map[string]any{
		"deviceList": list,
		"count":      float64(len(deviceIDs)),
	}
}

// newFakeAPI returns a fake with responses for one healthy online camera.
func newFakeAPI(ability string) *fakeAPI {
	return &fakeAPI{
		baseListResp: baseList("IPC1"),
		detailResp:   detailList(detailEntry("IPC1", "Front Door", ability)),
		onlineResp:   map[string]any{"onLine": "1"},
		alarmResp: map[string]any{
			"alarms": []any{
				map[string]any{"time": float64(1700000000)},
			},
		},
		sdcardResp:   map[string]any{"status": "normal"},
		storageResp:  map[string]any{"totalBytes": float64(1000), "usedBytes": float64(450)},
		callbackResp: map[string]any{"callbackUrl": "http://cb.example", "status": "off"},
		cameraResp:   map[string]any{"status": "on"},
		nightResp:    map[string]any{"mode": "Intelligent", "modes": []any{"Intelligent", "FullColor", "Infrared"}},
	}
}

func (f *fakeAPI) record(call ...string) {
	f.calls = append(f.calls, strings.Join(call, ":"))
}

func (f *fakeAPI) DeviceBaseList(_ context.Context) (map[string]any, error) {
	f.record("deviceBaseList")
	return f.baseListResp, f.baseListErr
}

func (f *fakeAPI) DeviceBaseDetailList(_ context.Context, deviceIDs []string) (map[string]any, error) {
	f.record("deviceBaseDetailList", strings.Join(deviceIDs, ","))
	if f.detailFn != nil {
		return f.detailFn(deviceIDs)
	}
	return f.detailResp, f.detailErr
}

func (f *fakeAPI) DeviceOnline(_ context.Context, deviceID string) (map[string]any, error) {
	f.record("deviceOnline", deviceID)
	return f.onlineResp, f.onlineErr
}

func (f *fakeAPI) GetAlarmMessage(_ context.Context, deviceID string) (map[string]any, error) {
	f.record("getAlarmMessage", deviceID)
	return f.alarmResp, f.alarmErr
}

func (f *fakeAPI) DeviceSDCardStatus(_ context.Context, deviceID string) (map[string]any, error) {
	f.record("deviceSdcardStatus", deviceID)
	return f.sdcardResp, nil
}

func (f *fakeAPI) DeviceStorage(_ context.Context, deviceID string) (map[string]any, error) {
	f.record("deviceStorage", deviceID)
	return f.storageResp, nil
}

func (f *fakeAPI) GetMessageCallback(_ context.Context) (map[string]any, error) {
	f.record("getMessageCallback")
	return f.callbackResp, nil
}

func (f *fakeAPI) SetMessageCallbackOn(_ context.Context, url string) error {
	f.record("setMessageCallbackOn", url)
	return nil
}

func (f *fakeAPI) SetMessageCallbackOff(_ context.Context) error {
	f.record("setMessageCallbackOff")
	return nil
}

func (f *fakeAPI) GetDeviceCameraStatus(_ context.Context, deviceID, enableType string) (map[string]any, error) {
	f.record("getDeviceCameraStatus", deviceID, enableType)
	return f.cameraResp, f.cameraErr
}

func (f *fakeAPI) SetDeviceCameraStatus(_ context.Context, deviceID, enableType string, value bool) error {
	state := "off"
	if value {
		state = "on"
	}
	f.record("setDeviceCameraStatus", deviceID, enableType, state)
	return f.setCameraErr
}

func (f *fakeAPI) GetNightVisionMode(_ context.Context, deviceID string) (map[string]any, error) {
	f.record("getNightVisionMode", deviceID)
	return f.nightResp, nil
}

func (f *fakeAPI) SetNightVisionMode(_ context.Context, deviceID, mode string) error {
	f.record("setNightVisionMode", deviceID, mode)
	return nil
}

func (f *fakeAPI) RestartDevice(_ context.Context, deviceID string) error {
	f.record("restartDevice", deviceID)
	return nil
}

func (f *fakeAPI) BaseURL() string { return "https://fake.invalid/openapi" }

func (f *fakeAPI) Timeout() time.Duration { return 10 * time.Second }

func (f *fakeAPI) IsConnected() bool { return true }
