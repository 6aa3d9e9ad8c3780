package audiodev_test

import (
	"testing"

	"github.com/Danondso/menumic/internal/audiodev"
	"github.com/Danondso/menumic/internal/audiodev/fakeaudio"
)

func ids(devices []audiodev.Device) []audiodev.DeviceID {
	out := make([]audiodev.DeviceID, len(devices))
	for i, d := range devices {
		out[i] = d.ID
	}
	return out
}

func TestListInputDevicesFiltersAndKeepsOrder(t *testing.T) {
	tests := []struct {
		name      string
		endpoints []fakeaudio.Endpoint
		want      []audiodev.DeviceID
	}{
		{"none", nil, []audiodev.DeviceID{}},
		{"all inputs", []fakeaudio.Endpoint{{ID: 3, Input: true}, {ID: 1, Input: true}}, []audiodev.DeviceID{3, 1}},
		{"mixed", []fakeaudio.Endpoint{
			{ID: 40, Input: false},
			{ID: 7, Input: true},
			{ID: 12, Input: false},
			{ID: 2, Input: true},
		}, []audiodev.DeviceID{7, 2}},
		{"outputs only", []fakeaudio.Endpoint{{ID: 5}, {ID: 6}}, []audiodev.DeviceID{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sys := fakeaudio.New(tt.endpoints...)
			got := ids(audiodev.ListInputDevices(sys))
			if len(got) != len(tt.want) {
				t.Fatalf("ListInputDevices() = %v, want %v", got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("ListInputDevices()[%d] = %d, want %d", i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestListInputDevicesEnumerationFailure(t *testing.T) {
	sys := fakeaudio.New(fakeaudio.Endpoint{ID: 1, Input: true})
	sys.FailEnumerate = true
	got := audiodev.ListInputDevices(sys)
	if got == nil || len(got) != 0 {
		t.Errorf("expected empty non-nil list, got %v", got)
	}
}

func TestListInputDevicesSkipsFailedInputQuery(t *testing.T) {
	sys := fakeaudio.New(
		fakeaudio.Endpoint{ID: 1, Input: true},
		fakeaudio.Endpoint{ID: 2, Input: true},
	)
	sys.FailHasInput = map[audiodev.DeviceID]bool{1: true}
	got := ids(audiodev.ListInputDevices(sys))
	if len(got) != 1 || got[0] != 2 {
		t.Errorf("expected [2], got %v", got)
	}
}

func TestDeviceName(t *testing.T) {
	sys := fakeaudio.New(fakeaudio.Endpoint{ID: 9, Name: "USB Mic", Input: true})
	d := audiodev.NewDevice(sys, 9)
	if d.Name() != "USB Mic" {
		t.Errorf("expected USB Mic, got %q", d.Name())
	}

	sys.FailName = true
	if d.Name() != "" {
		t.Errorf("expected empty name on failure, got %q", d.Name())
	}

	if (audiodev.Device{ID: 9}).Name() != "" {
		t.Error("expected empty name for unbound device")
	}
}

func TestActiveInputDevice(t *testing.T) {
	sys := fakeaudio.New(
		fakeaudio.Endpoint{ID: 1},
		fakeaudio.Endpoint{ID: 4, Input: true},
	)
	d, ok := audiodev.ActiveInputDevice(sys)
	if !ok || d.ID != 4 {
		t.Errorf("expected active device 4, got %d (ok=%v)", d.ID, ok)
	}

	sys.FailDefaultInput = true
	if _, ok := audiodev.ActiveInputDevice(sys); ok {
		t.Error("expected no active device on query failure")
	}
}

func TestSetActiveInputDevice(t *testing.T) {
	sys := fakeaudio.New(
		fakeaudio.Endpoint{ID: 1, Input: true},
		fakeaudio.Endpoint{ID: 2, Input: true},
	)
	if err := audiodev.SetActiveInputDevice(sys, audiodev.NewDevice(sys, 2)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if sys.Input() != 2 {
		t.Errorf("expected input 2, got %d", sys.Input())
	}

	sys.FailSetInput = true
	if err := audiodev.SetActiveInputDevice(sys, audiodev.NewDevice(sys, 1)); err == nil {
		t.Error("expected error from failing backend")
	}
	if sys.Input() != 2 {
		t.Errorf("expected input to stay 2, got %d", sys.Input())
	}
}

func TestCenterOutputBalance(t *testing.T) {
	sys := fakeaudio.New(fakeaudio.Endpoint{ID: 10, Pan: 0.2})

	if !audiodev.CenterOutputBalance(sys) {
		t.Fatal("expected first call to report a change")
	}
	if sys.Pan(10) != audiodev.CenterPan {
		t.Errorf("expected pan %v, got %v", audiodev.CenterPan, sys.Pan(10))
	}
	if audiodev.CenterOutputBalance(sys) {
		t.Error("expected second call to report no change")
	}
	if sys.SetPanCalls != 1 {
		t.Errorf("expected exactly 1 pan write, got %d", sys.SetPanCalls)
	}
}

func TestCenterOutputBalanceFailures(t *testing.T) {
	tests := []struct {
		name   string
		inject func(*fakeaudio.System)
	}{
		{"default output", func(s *fakeaudio.System) { s.FailDefaultOutput = true }},
		{"read pan", func(s *fakeaudio.System) { s.FailPan = true }},
		{"write pan", func(s *fakeaudio.System) { s.FailSetPan = true }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sys := fakeaudio.New(fakeaudio.Endpoint{ID: 1, Pan: 0.9})
			tt.inject(sys)
			if audiodev.CenterOutputBalance(sys) {
				t.Error("expected no change reported on failure")
			}
		})
	}
}

func TestFindDevice(t *testing.T) {
	sys := fakeaudio.New(fakeaudio.Endpoint{ID: 1, Input: true}, fakeaudio.Endpoint{ID: 2, Input: true})
	devices := audiodev.ListInputDevices(sys)
	if d, ok := audiodev.FindDevice(devices, 2); !ok || d.ID != 2 {
		t.Errorf("expected to find device 2, got %d (ok=%v)", d.ID, ok)
	}
	if _, ok := audiodev.FindDevice(devices, 99); ok {
		t.Error("expected device 99 to be missing")
	}
}
