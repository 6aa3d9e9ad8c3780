package app

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/Danondso/menumic/internal/audiodev"
	"github.com/Danondso/menumic/internal/audiodev/fakeaudio"
	"github.com/Danondso/menumic/internal/prefs"
)

type mockLogin struct {
	enabled bool
	err     error
}

func (m *mockLogin) Enabled() bool { return m.enabled }

func (m *mockLogin) SetEnabled(v bool) error {
	if m.err != nil {
		return m.err
	}
	m.enabled = v
	return nil
}

type mockChime struct{ plays int }

func (m *mockChime) Play() { m.plays++ }

type mockNotifier struct{ titles []string }

func (m *mockNotifier) Notify(title, _ string) { m.titles = append(m.titles, title) }

func newTestSystem() *fakeaudio.System {
	return fakeaudio.New(
		fakeaudio.Endpoint{ID: 1, Name: "Speakers", Pan: 0.5},
		fakeaudio.Endpoint{ID: 2, Name: "Built-in Microphone", Input: true},
		fakeaudio.Endpoint{ID: 3, Name: "USB Microphone", Input: true},
		fakeaudio.Endpoint{ID: 4, Name: "Headset", Input: true},
	)
}

func selectedIDs(s Snapshot) []audiodev.DeviceID {
	var ids []audiodev.DeviceID
	for _, e := range s.Devices {
		if e.Selected {
			ids = append(ids, e.ID)
		}
	}
	return ids
}

func TestTickListsInputDevicesWithSelection(t *testing.T) {
	sys := newTestSystem()
	c := New(sys, prefs.NewMemory(), Options{})

	snap := c.Tick()
	if len(snap.Devices) != 3 {
		t.Fatalf("expected 3 input devices, got %d", len(snap.Devices))
	}
	wantNames := []string{"Built-in Microphone", "USB Microphone", "Headset"}
	for i, e := range snap.Devices {
		if e.Name != wantNames[i] {
			t.Errorf("device %d name = %q, want %q", i, e.Name, wantNames[i])
		}
	}
	sel := selectedIDs(snap)
	if len(sel) != 1 || sel[0] != 2 {
		t.Errorf("expected only device 2 selected, got %v", sel)
	}
	if e, ok := snap.Selected(); !ok || e.ID != 2 {
		t.Errorf("Selected() = %v, %v", e, ok)
	}
}

func TestTickNoSelectionWhenActiveLookupFails(t *testing.T) {
	sys := newTestSystem()
	sys.FailDefaultInput = true
	c := New(sys, prefs.NewMemory(), Options{})

	if sel := selectedIDs(c.Tick()); len(sel) != 0 {
		t.Errorf("expected no selection, got %v", sel)
	}
}

func TestTickWithNoEndpoints(t *testing.T) {
	c := New(fakeaudio.New(), prefs.NewMemory(), Options{})
	snap := c.Tick()
	if len(snap.Devices) != 0 {
		t.Errorf("expected empty device list, got %d", len(snap.Devices))
	}
	if _, ok := snap.Selected(); ok {
		t.Error("expected nothing selected")
	}
}

func TestKeepInputActiveRestoresRememberedDevice(t *testing.T) {
	sys := newTestSystem()
	store := prefs.NewMemory()
	c := New(sys, store, Options{})

	if err := store.SetInt(prefs.InputDeviceID, 3); err != nil {
		t.Fatal(err)
	}
	c.Tick()
	if sys.Input() != 2 {
		t.Fatalf("expected no change while disabled, got input %d", sys.Input())
	}

	on, err := c.ToggleKeepInputActive()
	if err != nil || !on {
		t.Fatalf("expected keepInputActive on, got %v (%v)", on, err)
	}
	c.Tick()
	if sys.Input() != 3 {
		t.Errorf("expected input 3 after tick, got %d", sys.Input())
	}
}

func TestKeepInputActiveReappliesUnconditionally(t *testing.T) {
	sys := newTestSystem()
	store := prefs.NewMemory()
	_ = store.SetBool(prefs.KeepInputActive, true)
	_ = store.SetInt(prefs.InputDeviceID, 2)
	c := New(sys, store, Options{})

	c.Tick()
	c.Tick()
	if sys.SetInputCalls != 2 {
		t.Errorf("expected a write on every tick, got %d", sys.SetInputCalls)
	}
}

func TestKeepInputActiveIgnoresMissingDevice(t *testing.T) {
	sys := newTestSystem()
	store := prefs.NewMemory()
	_ = store.SetBool(prefs.KeepInputActive, true)
	_ = store.SetInt(prefs.InputDeviceID, 99)
	c := New(sys, store, Options{})

	c.Tick()
	if sys.SetInputCalls != 0 {
		t.Errorf("expected no write for missing device, got %d", sys.SetInputCalls)
	}
}

func TestKeepOutputBalancedCentersPan(t *testing.T) {
	sys := newTestSystem()
	sys.SetPan(1, 0.2)
	notifier := &mockNotifier{}
	c := New(sys, prefs.NewMemory(), Options{Notifier: notifier})

	c.Tick()
	if sys.Pan(1) != 0.2 {
		t.Fatalf("expected pan untouched while disabled, got %v", sys.Pan(1))
	}

	on, err := c.ToggleKeepOutputBalanced()
	if err != nil || !on {
		t.Fatalf("expected keepOutputBalanced on, got %v (%v)", on, err)
	}
	c.Tick()
	if sys.Pan(1) != audiodev.CenterPan {
		t.Errorf("expected pan %v, got %v", audiodev.CenterPan, sys.Pan(1))
	}
	if len(notifier.titles) != 1 {
		t.Errorf("expected one notification, got %d", len(notifier.titles))
	}

	c.Tick()
	if sys.SetPanCalls != 1 {
		t.Errorf("expected no further pan writes, got %d", sys.SetPanCalls)
	}
	if len(notifier.titles) != 1 {
		t.Errorf("expected no further notifications, got %d", len(notifier.titles))
	}
}

func TestSelectDeviceRemembersAndChimes(t *testing.T) {
	sys := newTestSystem()
	store := prefs.NewMemory()
	chime := &mockChime{}
	c := New(sys, store, Options{Chime: chime})

	if err := c.SelectDevice(4); err != nil {
		t.Fatal(err)
	}
	if sys.Input() != 4 {
		t.Errorf("expected input 4, got %d", sys.Input())
	}
	if store.Int(prefs.InputDeviceID) != 4 {
		t.Errorf("expected remembered device 4, got %d", store.Int(prefs.InputDeviceID))
	}
	if chime.plays != 1 {
		t.Errorf("expected one chime, got %d", chime.plays)
	}
}

func TestSelectDeviceRemembersEvenWhenOSWriteFails(t *testing.T) {
	sys := newTestSystem()
	sys.FailSetInput = true
	store := prefs.NewMemory()
	c := New(sys, store, Options{})

	if err := c.SelectDevice(3); err != nil {
		t.Fatalf("expected OS failure to be swallowed, got %v", err)
	}
	if store.Int(prefs.InputDeviceID) != 3 {
		t.Errorf("expected remembered device 3, got %d", store.Int(prefs.InputDeviceID))
	}
	if sys.Input() != 2 {
		t.Errorf("expected input unchanged, got %d", sys.Input())
	}
}

func TestCycleInputDevice(t *testing.T) {
	sys := newTestSystem()
	c := New(sys, prefs.NewMemory(), Options{})

	for _, want := range []audiodev.DeviceID{3, 4, 2, 3} {
		ok, err := c.CycleInputDevice()
		if err != nil || !ok {
			t.Fatalf("cycle failed: %v %v", ok, err)
		}
		if sys.Input() != want {
			t.Errorf("expected input %d, got %d", want, sys.Input())
		}
	}
}

func TestCycleInputDeviceWithoutDevices(t *testing.T) {
	c := New(fakeaudio.New(fakeaudio.Endpoint{ID: 1}), prefs.NewMemory(), Options{})
	ok, err := c.CycleInputDevice()
	if err != nil || ok {
		t.Errorf("expected no selection, got %v (%v)", ok, err)
	}
}

func TestToggleOpenAtLogin(t *testing.T) {
	login := &mockLogin{}
	c := New(newTestSystem(), prefs.NewMemory(), Options{Login: login})

	on, err := c.ToggleOpenAtLogin()
	if err != nil || !on {
		t.Fatalf("expected enabled, got %v (%v)", on, err)
	}
	if !c.Snapshot().OpenAtLogin {
		t.Error("expected snapshot to report open at login")
	}

	login.err = errors.New("read-only home")
	on, err = c.ToggleOpenAtLogin()
	if err == nil {
		t.Error("expected error from registrar")
	}
	if !on {
		t.Error("expected reported state to stay enabled after failed toggle")
	}
}

func TestToggleOpenAtLoginWithoutRegistrar(t *testing.T) {
	c := New(newTestSystem(), prefs.NewMemory(), Options{})
	if _, err := c.ToggleOpenAtLogin(); !errors.Is(err, ErrNoLoginItem) {
		t.Errorf("expected ErrNoLoginItem, got %v", err)
	}
	if c.Snapshot().OpenAtLogin {
		t.Error("expected open at login false")
	}
}

func TestRunPublishesAndProcessesActions(t *testing.T) {
	sys := newTestSystem()
	c := New(sys, prefs.NewMemory(), Options{})

	ctx, cancel := context.WithCancel(context.Background())
	snaps := make(chan Snapshot, 8)
	errc := make(chan error, 1)
	go func() {
		errc <- c.Run(ctx, time.Hour, func(s Snapshot) { snaps <- s })
	}()

	first := <-snaps
	if len(first.Devices) != 3 {
		t.Fatalf("expected initial tick with 3 devices, got %d", len(first.Devices))
	}

	if err := c.Submit(func() { _ = c.SelectDevice(4) }); err != nil {
		t.Fatal(err)
	}
	after := <-snaps
	if e, ok := after.Selected(); !ok || e.ID != 4 {
		t.Errorf("expected device 4 selected after action, got %v (%v)", e, ok)
	}

	cancel()
	if err := <-errc; !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
	if err := c.Submit(func() {}); !errors.Is(err, ErrStopped) {
		t.Errorf("expected ErrStopped after Run returned, got %v", err)
	}
}
