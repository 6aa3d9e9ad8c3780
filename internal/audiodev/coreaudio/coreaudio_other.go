//go:build !darwin || !cgo

package coreaudio

import "github.com/Danondso/menumic/internal/audiodev"

// System reports audiodev.ErrUnsupported for every query on platforms
// without CoreAudio.
type System struct{}

// New returns a System whose queries all fail with audiodev.ErrUnsupported.
func New() *System {
	return &System{}
}

func (System) DeviceIDs() ([]audiodev.DeviceID, error) { return nil, audiodev.ErrUnsupported }
func (System) HasInput(audiodev.DeviceID) (bool, error) { return false, audiodev.ErrUnsupported }
func (System) DeviceName(audiodev.DeviceID) (string, error) { return "", audiodev.ErrUnsupported }
func (System) DefaultInput() (audiodev.DeviceID, error) { return 0, audiodev.ErrUnsupported }
func (System) SetDefaultInput(audiodev.DeviceID) error { return audiodev.ErrUnsupported }
func (System) DefaultOutput() (audiodev.DeviceID, error) { return 0, audiodev.ErrUnsupported }
func (System) StereoPan(audiodev.DeviceID) (float32, error) { return 0, audiodev.ErrUnsupported }
func (System) SetStereoPan(audiodev.DeviceID, float32) error { return audiodev.ErrUnsupported }
