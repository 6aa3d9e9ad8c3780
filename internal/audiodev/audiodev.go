// Package audiodev lists audio endpoints and reads or changes which of them the
// operating system uses as its default input and output.
//
// All OS access goes through the System interface so that the policies in this
// package can run against a fake in tests.
package audiodev

import "errors"

// CenterPan is the stereo pan value at which left and right output levels are equal.
const CenterPan float32 = 0.5

var (
	// ErrUnsupported is returned by backends that cannot perform an operation.
	ErrUnsupported = errors.New("operation not supported by audio backend")
	// ErrNotFound is returned when a device ID does not name a known endpoint.
	ErrNotFound = errors.New("audio device not found")
)

// DeviceID is the OS-assigned identifier of an audio endpoint.
type DeviceID uint32

// System is the set of OS audio queries the device directory and controller need.
type System interface {
	// DeviceIDs returns every endpoint in OS enumeration order.
	DeviceIDs() ([]DeviceID, error)
	// HasInput reports whether the endpoint exposes at least one input stream.
	HasInput(id DeviceID) (bool, error)
	DeviceName(id DeviceID) (string, error)
	DefaultInput() (DeviceID, error)
	SetDefaultInput(id DeviceID) error
	DefaultOutput() (DeviceID, error)
	// StereoPan returns the output balance of an endpoint on a 0.0–1.0 scale.
	StereoPan(id DeviceID) (float32, error)
	SetStereoPan(id DeviceID, pan float32) error
}

// Device is an endpoint returned by one enumeration. Its name is looked up on demand.
type Device struct {
	ID  DeviceID
	sys System
}

// NewDevice returns a Device bound to sys.
func NewDevice(sys System, id DeviceID) Device {
	return Device{ID: id, sys: sys}
}

// Name returns the display name of the device, or "" if the OS query fails.
func (d Device) Name() string {
	if d.sys == nil {
		return ""
	}
	name, err := d.sys.DeviceName(d.ID)
	if err != nil {
		return ""
	}
	return name
}

// ListInputDevices returns the input-capable endpoints in enumeration order.
// Enumeration failure yields an empty list; a device whose input query fails
// is left out.
func ListInputDevices(sys System) []Device {
	ids, err := sys.DeviceIDs()
	if err != nil {
		return []Device{}
	}
	devices := make([]Device, 0, len(ids))
	for _, id := range ids {
		ok, err := sys.HasInput(id)
		if err != nil || !ok {
			continue
		}
		devices = append(devices, NewDevice(sys, id))
	}
	return devices
}

// ActiveInputDevice returns the current default input device. The second
// return value is false if the OS query fails.
func ActiveInputDevice(sys System) (Device, bool) {
	id, err := sys.DefaultInput()
	if err != nil {
		return Device{}, false
	}
	return NewDevice(sys, id), true
}

// SetActiveInputDevice makes d the default input device. It is best effort:
// the error is returned for logging only and callers are not expected to act on it.
func SetActiveInputDevice(sys System, d Device) error {
	return sys.SetDefaultInput(d.ID)
}

// CenterOutputBalance sets the stereo pan of the default output device to
// CenterPan. It reports true only if the pan was off center and the write
// succeeded; any failed query reports false.
func CenterOutputBalance(sys System) bool {
	id, err := sys.DefaultOutput()
	if err != nil {
		return false
	}
	pan, err := sys.StereoPan(id)
	if err != nil {
		return false
	}
	if pan == CenterPan {
		return false
	}
	if err := sys.SetStereoPan(id, CenterPan); err != nil {
		return false
	}
	return true
}

// FindDevice returns the device in devices with the given ID.
func FindDevice(devices []Device, id DeviceID) (Device, bool) {
	for _, d := range devices {
		if d.ID == id {
			return d, true
		}
	}
	return Device{}, false
}
