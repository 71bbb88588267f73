package device

import (
	"context"
	"encoding/json"
	"strings"
	"testing"
)

func TestDiagnostics_Uninitialized(t *testing.T) {
	d := New(newFakeAPI("WLAN"), "IPC1", nil)

	// Must not panic and must report placeholders.
	diag := d.Diagnostics()

	if diag.Device.ID != "IPC1" {
		t.Errorf("Device.ID = %q, want IPC1", diag.Device.ID)
	}
	if diag.Device.Name != "N.A." || diag.Device.Model != "N.A." {
		t.Errorf("uninitialised device = %+v, want placeholders", diag.Device)
	}
	if diag.Device.Online != "no" {
		t.Errorf("Device.Online = %q, want no", diag.Device.Online)
	}
	if len(diag.Capabilities) != 0 || len(diag.Switches) != 0 {
		t.Error("uninitialised device reported capabilities or entities")
	}
	if diag.API.BaseURL != "https://fake.invalid/openapi" {
		t.Errorf("API.BaseURL = %q", diag.API.BaseURL)
	}
	if diag.API.Timeout != 10 {
		t.Errorf("API.Timeout = %v, want 10", diag.API.Timeout)
	}
	if !diag.API.IsConnected {
		t.Error("API.IsConnected = false")
	}
}

func TestDiagnostics_Initialized(t *testing.T) {
	api := newFakeAPI("motionDetect,LocalStorage,NVM")
	d := initializedDevice(t, api)
	if _, err := d.Update(context.Background()); err != nil {
		t.Fatalf("Update() error = %v", err)
	}

	diag := d.Diagnostics()

	if diag.Device.Online != "yes" {
		t.Errorf("Device.Online = %q, want yes", diag.Device.Online)
	}
	if len(diag.Switches) != 1 || diag.Switches[0].Name != "motionDetect" {
		t.Errorf("Switches = %v", diag.Switches)
	}
	if got := diag.Switches[0].State; got != true {
		t.Errorf("motionDetect state = %v, want true", got)
	}
	if len(diag.Sensors) != 2 {
		t.Fatalf("Sensors = %v, want lastAlarm and storageUsed", diag.Sensors)
	}
	if got := diag.Sensors[1].State; got != "45" {
		t.Errorf("storageUsed state = %v, want 45", got)
	}
	if len(diag.Buttons) != 2 {
		t.Errorf("Buttons = %v, want restartDevice and refreshData", diag.Buttons)
	}
	// Buttons carry no state.
	if diag.Buttons[0].State != nil {
		t.Errorf("button state = %v, want nil", diag.Buttons[0].State)
	}

	// The snapshot must serialise cleanly for support bundles.
	if _, err := json.Marshal(diag); err != nil {
		t.Errorf("json.Marshal(diagnostics) error = %v", err)
	}
}

func TestEntityState(t *testing.T) {
	api := newFakeAPI("")

	sw := newSwitch(api, nil, "IPC1", "Front Door", "motionDetect")
	if got := EntityState(sw); got != false {
		t.Errorf("EntityState(switch) = %v, want false", got)
	}

	sensor := newSensor(api, nil, "IPC1", "Front Door", sensorLastAlarm)
	if got := EntityState(sensor); got != "" {
		t.Errorf("EntityState(sensor) = %v, want empty string", got)
	}

	binary := newBinarySensor(api, nil, "IPC1", "Front Door", binarySensorOnline)
	if got := EntityState(binary); got != false {
		t.Errorf("EntityState(binary sensor) = %v, want false", got)
	}

	sel := newSelect(api, nil, "IPC1", "Front Door", selectNightVisionMode)
	if got := EntityState(sel); got != "" {
		t.Errorf("EntityState(select) = %v, want empty string", got)
	}

	button := newButton(api, nil, "IPC1", "Front Door", buttonRestartDevice)
	if got := EntityState(button); got != nil {
		t.Errorf("EntityState(button) = %v, want nil", got)
	}
}

func TestDump(t *testing.T) {
	api := newFakeAPI("motionDetect,LocalStorage,NVM")
	d := initializedDevice(t, api)
	if _, err := d.Update(context.Background()); err != nil {
		t.Fatalf("Update() error = %v", err)
	}

	dump := d.Dump()

	wantLines := []string{
		"- Device ID: IPC1",
		"    Name: Front Door",
		"    Catalog: IPC",
		"    Model: IPC-C22C",
		"    Firmware: 2.680.0000000.25.R",
		"    Online: yes",
		"        - Motion detection (motionDetect)",
		"        - Motion detection (motionDetect): true",
		"        - Last alarm time (lastAlarm): 2023-11-14T22:13:20",
		"        - SD card used (storageUsed): 45",
		"        - Online (online): true",
		"        - Night vision mode (nightVisionMode): Intelligent",
		"        - Restart device (restartDevice)",
		"        - Refresh data (refreshData)",
	}
	for _, line := range wantLines {
		if !strings.Contains(dump, line+"\n") {
			t.Errorf("Dump() missing line %q\n%s", line, dump)
		}
	}

	// Section order is fixed.
	sections := []string{"Capabilities:", "Switches:", "Sensors:", "Binary Sensors:", "Selects:", "Buttons:"}
	last := -1
	for _, section := range sections {
		idx := strings.Index(dump, section)
		if idx < 0 {
			t.Fatalf("Dump() missing section %q", section)
		}
		if idx < last {
			t.Errorf("section %q out of order", section)
		}
		last = idx
	}
}

func TestDump_Uninitialized(t *testing.T) {
	d := New(newFakeAPI("WLAN"), "IPC1", nil)

	dump := d.Dump()
	if !strings.Contains(dump, "Name: N.A.") {
		t.Errorf("Dump() on uninitialised device = %q, want placeholders", dump)
	}
}
