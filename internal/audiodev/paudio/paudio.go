// Package paudio is a read-only audiodev.System backed by PortAudio. It can
// list devices and report the defaults on any platform PortAudio supports,
// but cannot change the default input or the output balance.
package paudio

import (
	"fmt"

	"github.com/gordonklaus/portaudio"

	"github.com/Danondso/menumic/internal/audiodev"
)

// System reads device information through PortAudio. Open must succeed
// before any query.
type System struct{}

// Open initializes PortAudio and returns a System. Call Close when done.
func Open() (*System, error) {
	if err := portaudio.Initialize(); err != nil {
		return nil, fmt.Errorf("portaudio init: %w", err)
	}
	return &System{}, nil
}

// Close terminates PortAudio.
func (s *System) Close() error {
	return portaudio.Terminate()
}

func (s *System) device(id audiodev.DeviceID) (*portaudio.DeviceInfo, error) {
	devices, err := portaudio.Devices()
	if err != nil {
		return nil, err
	}
	for _, d := range devices {
		if d.Index == int(id) {
			return d, nil
		}
	}
	return nil, audiodev.ErrNotFound
}

func (s *System) DeviceIDs() ([]audiodev.DeviceID, error) {
	devices, err := portaudio.Devices()
	if err != nil {
		return nil, err
	}
	ids := make([]audiodev.DeviceID, len(devices))
	for i, d := range devices {
		ids[i] = audiodev.DeviceID(d.Index)
	}
	return ids, nil
}

func (s *System) HasInput(id audiodev.DeviceID) (bool, error) {
	d, err := s.device(id)
	if err != nil {
		return false, err
	}
	return d.MaxInputChannels > 0, nil
}

func (s *System) DeviceName(id audiodev.DeviceID) (string, error) {
	d, err := s.device(id)
	if err != nil {
		return "", err
	}
	return d.Name, nil
}

func (s *System) DefaultInput() (audiodev.DeviceID, error) {
	d, err := portaudio.DefaultInputDevice()
	if err != nil {
		return 0, err
	}
	return audiodev.DeviceID(d.Index), nil
}

func (s *System) SetDefaultInput(audiodev.DeviceID) error {
	return audiodev.ErrUnsupported
}

func (s *System) DefaultOutput() (audiodev.DeviceID, error) {
	d, err := portaudio.DefaultOutputDevice()
	if err != nil {
		return 0, err
	}
	return audiodev.DeviceID(d.Index), nil
}

func (s *System) StereoPan(audiodev.DeviceID) (float32, error) {
	return 0, audiodev.ErrUnsupported
}

func (s *System) SetStereoPan(audiodev.DeviceID, float32) error {
	return audiodev.ErrUnsupported
}
