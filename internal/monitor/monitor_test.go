package monitor

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/nerrad567/imou-core/internal/device"
	"github.com/nerrad567/imou-core/internal/infrastructure/config"
)

// fakeAPI implements device.API for monitor tests. It serves one healthy
// online camera with a motion detection switch and records mutating calls.
type fakeAPI struct {
	calls     []string
	onLine    string
	detailErr error
}

var _ device.API = (*fakeAPI)(nil)

func newFakeAPI() *fakeAPI {
	return &fakeAPI{onLine: "1"}
}

func (f *fakeAPI) DeviceBaseList(context.Context) (map[string]any, error) {
	return map[string]any{
		"deviceList": []any{map[string]any{"deviceId": "IPC1"}},
		"count":      float64(1),
	}, nil
}

func (f *fakeAPI) DeviceBaseDetailList(_ context.Context, deviceIDs []string) (map[string]any, error) {
	if f.detailErr != nil {
		return nil, f.detailErr
	}
	return map[string]any{
		"deviceList": []any{map[string]any{
			"deviceId":    deviceIDs[0],
			"catalog":     "IPC",
			"version":     "2.680.0000000.25.R",
			"name":        "Front Door",
			"deviceModel": "IPC-C22C",
			"status":      "online",
			"ability":     "motionDetect,LocalStorage",
		}},
	}, nil
}

func (f *fakeAPI) DeviceOnline(_ context.Context, deviceID string) (map[string]any, error) {
	f.calls = append(f.calls, "deviceOnline:"+deviceID)
	return map[string]any{"onLine": f.onLine}, nil
}

func (f *fakeAPI) GetAlarmMessage(_ context.Context, _ string) (map[string]any, error) {
	return map[string]any{"alarms": []any{map[string]any{"time": float64(1700000000)}}}, nil
}

func (f *fakeAPI) DeviceSDCardStatus(_ context.Context, _ string) (map[string]any, error) {
	return map[string]any{"status": "normal"}, nil
}

func (f *fakeAPI) DeviceStorage(_ context.Context, _ string) (map[string]any, error) {
	return map[string]any{"totalBytes": float64(1000), "usedBytes": float64(450)}, nil
}

func (f *fakeAPI) GetMessageCallback(context.Context) (map[string]any, error) {
	return map[string]any{"callbackUrl": "", "status": "off"}, nil
}

func (f *fakeAPI) SetMessageCallbackOn(_ context.Context, url string) error {
	f.calls = append(f.calls, "setMessageCallbackOn:"+url)
	return nil
}

func (f *fakeAPI) SetMessageCallbackOff(context.Context) error {
	f.calls = append(f.calls, "setMessageCallbackOff")
	return nil
}

func (f *fakeAPI) GetDeviceCameraStatus(_ context.Context, _, _ string) (map[string]any, error) {
	return map[string]any{"status": "on"}, nil
}

func (f *fakeAPI) SetDeviceCameraStatus(_ context.Context, deviceID, enableType string, value bool) error {
	state := "off"
	if value {
		state = "on"
	}
	f.calls = append(f.calls, strings.Join([]string{"setDeviceCameraStatus", deviceID, enableType, state}, ":"))
	return nil
}

func (f *fakeAPI) GetNightVisionMode(_ context.Context, _ string) (map[string]any, error) {
	return map[string]any{"mode": "Intelligent", "modes": []any{"Intelligent"}}, nil
}

func (f *fakeAPI) SetNightVisionMode(_ context.Context, deviceID, mode string) error {
	f.calls = append(f.calls, "setNightVisionMode:"+deviceID+":"+mode)
	return nil
}

func (f *fakeAPI) RestartDevice(_ context.Context, deviceID string) error {
	f.calls = append(f.calls, "restartDevice:"+deviceID)
	return nil
}

func (f *fakeAPI) BaseURL() string { return "https://fake.invalid/openapi" }

func (f *fakeAPI) Timeout() time.Duration { return 10 * time.Second }

func (f *fakeAPI) IsConnected() bool { return true }

// testMonitor builds a monitor with one initialised device, no MQTT and no
// InfluxDB.
func testMonitor(t *testing.T, api device.API) *Monitor {
	t.Helper()

	m, err := New(Deps{
		Config: config.MonitorConfig{
			PollInterval: 3600,
			HTTP:         config.MonitorHTTPConfig{Host: "127.0.0.1", Port: 0},
		},
		API:      api,
		Registry: prometheus.NewRegistry(),
	})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	dev := device.New(api, "IPC1", nil)
	if err := dev.Initialize(context.Background()); err != nil {
		t.Fatalf("Initialize() error = %v", err)
	}
	m.devices[dev.ID()] = dev

	return m
}

func TestNew_RequiresAPI(t *testing.T) {
	_, err := New(Deps{})
	if err == nil {
		t.Fatal("New() without API client should fail")
	}
}

func TestMonitor_PollOnce(t *testing.T) {
	api := newFakeAPI()
	m := testMonitor(t, api)

	m.pollOnce(context.Background())

	dev := m.DeviceByID("IPC1")
	if dev == nil {
		t.Fatal("DeviceByID(IPC1) = nil")
	}
	if !dev.Online() {
		t.Error("device not online after poll")
	}
	for _, entity := range dev.Sensors() {
		if entity.Platform() == device.PlatformButton {
			continue
		}
		if !entity.IsUpdated() {
			t.Errorf("entity %s not updated after poll", entity.Name())
		}
	}
}

func TestMonitor_PollOnce_SkipsDisabled(t *testing.T) {
	api := newFakeAPI()
	m := testMonitor(t, api)

	m.DeviceByID("IPC1").SetEnabled(false)
	m.pollOnce(context.Background())

	if len(api.calls) != 0 {
		t.Errorf("disabled device was polled: %v", api.calls)
	}
}

func TestMonitor_HandleCommand(t *testing.T) {
	api := newFakeAPI()
	m := testMonitor(t, api)

	err := m.handleCommand("imou/command/IPC1/motionDetect", []byte("off"))
	if err != nil {
		t.Fatalf("handleCommand() error = %v", err)
	}

	want := "setDeviceCameraStatus:IPC1:motionDetect:off"
	found := false
	for _, call := range api.calls {
		if call == want {
			found = true
		}
	}
	if !found {
		t.Errorf("calls = %v, want %s", api.calls, want)
	}
}

func TestMonitor_HandleCommand_CaseInsensitiveSwitch(t *testing.T) {
	api := newFakeAPI()
	m := testMonitor(t, api)

	if err := m.handleCommand("imou/command/IPC1/MOTIONDETECT", []byte("ON")); err != nil {
		t.Fatalf("handleCommand() error = %v", err)
	}
}

// TestMonitor_ConcurrentPollAndCommand drives the poll loop and the command
// relay from separate goroutines, the way the ticker and the paho handler
// goroutines interleave in production. Run with -race; the paths must
// serialize on the monitor's mutex since the device layer is single-flow.
func TestMonitor_ConcurrentPollAndCommand(t *testing.T) {
	api := newFakeAPI()
	m := testMonitor(t, api)

	var wg sync.WaitGroup
	wg.Add(2)

	go func() {
		defer wg.Done()
		for i := 0; i < 25; i++ {
			m.pollOnce(context.Background())
		}
	}()
	go func() {
		defer wg.Done()
		for i := 0; i < 25; i++ {
			payload := "on"
			if i%2 == 1 {
				payload = "off"
			}
			if err := m.handleCommand("imou/command/IPC1/motionDetect", []byte(payload)); err != nil {
				t.Errorf("handleCommand() error = %v", err)
			}
		}
	}()

	wg.Wait()
}

func TestMonitor_HandleCommand_Errors(t *testing.T) {
	api := newFakeAPI()
	m := testMonitor(t, api)

	tests := []struct {
		name    string
		topic   string
		payload string
	}{
		{name: "malformed topic", topic: "imou/state/IPC1/switch/motionDetect", payload: "on"},
		{name: "unknown device", topic: "imou/command/GHOST/motionDetect", payload: "on"},
		{name: "unknown switch", topic: "imou/command/IPC1/teleport", payload: "on"},
		{name: "invalid payload", topic: "imou/command/IPC1/motionDetect", payload: "sideways"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := m.handleCommand(tt.topic, []byte(tt.payload)); err == nil {
				t.Error("handleCommand() error = nil, want error")
			}
		})
	}
}

func TestMonitor_Devices_Sorted(t *testing.T) {
	api := newFakeAPI()
	m := testMonitor(t, api)

	for _, id := range []string{"ZZZ9", "AAA1"} {
		dev := device.New(api, id, nil)
		m.devices[id] = dev
	}

	devices := m.Devices()
	var ids []string
	for _, dev := range devices {
		ids = append(ids, dev.ID())
	}

	want := []string{"AAA1", "IPC1", "ZZZ9"}
	for i, id := range want {
		if ids[i] != id {
			t.Fatalf("Devices() order = %v, want %v", ids, want)
		}
	}
}

func TestGaugeValue(t *testing.T) {
	tests := []struct {
		name  string
		state any
		want  float64
		ok    bool
	}{
		{name: "true", state: true, want: 1, ok: true},
		{name: "false", state: false, want: 0, ok: true},
		{name: "numeric string", state: "45", want: 45, ok: true},
		{name: "timestamp string", state: "2023-11-14T22:13:20", ok: false},
		{name: "nil", state: nil, ok: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := gaugeValue(tt.state)
			if ok != tt.ok || (ok && got != tt.want) {
				t.Errorf("gaugeValue(%v) = (%v, %v), want (%v, %v)", tt.state, got, ok, tt.want, tt.ok)
			}
		})
	}
}
