// Package fakeaudio provides an in-memory audiodev.System for tests.
package fakeaudio

import (
	"errors"
	"sync"

	"github.com/Danondso/menumic/internal/audiodev"
)

// ErrInjected is the error returned by operations that were told to fail.
var ErrInjected = errors.New("fakeaudio: injected failure")

// Endpoint describes one fake device.
type Endpoint struct {
	ID    audiodev.DeviceID
	Name  string
	Input bool
	Pan   float32
}

// System is a fake audio subsystem. The zero value has no endpoints and
// every query succeeds. Fail* fields make the matching operation return
// ErrInjected.
type System struct {
	mu        sync.Mutex
	endpoints []Endpoint
	input     audiodev.DeviceID
	output    audiodev.DeviceID

	FailEnumerate     bool
	FailHasInput      map[audiodev.DeviceID]bool
	FailName          bool
	FailDefaultInput  bool
	FailSetInput      bool
	FailDefaultOutput bool
	FailPan           bool
	FailSetPan        bool

	SetInputCalls int
	SetPanCalls   int
}

// New returns a fake with the given endpoints. The default input is the
// first input-capable endpoint and the default output is the first endpoint.
func New(endpoints ...Endpoint) *System {
	s := &System{endpoints: append([]Endpoint(nil), endpoints...)}
	for _, e := range endpoints {
		if e.Input {
			s.input = e.ID
			break
		}
	}
	if len(endpoints) > 0 {
		s.output = endpoints[0].ID
	}
	return s
}

// SetOutput changes the fake default output endpoint.
func (s *System) SetOutput(id audiodev.DeviceID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.output = id
}

// Input returns the current fake default input without going through the
// System interface.
func (s *System) Input() audiodev.DeviceID {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.input
}

// Pan returns the stored pan of id.
func (s *System) Pan(id audiodev.DeviceID) float32 {
	s.mu.Lock()
	defer s.mu.Unlock()
	if e := s.find(id); e != nil {
		return e.Pan
	}
	return 0
}

// SetPan changes the stored pan of id without counting as a write.
func (s *System) SetPan(id audiodev.DeviceID, pan float32) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if e := s.find(id); e != nil {
		e.Pan = pan
	}
}

func (s *System) find(id audiodev.DeviceID) *Endpoint {
	for i := range s.endpoints {
		if s.endpoints[i].ID == id {
			return &s.endpoints[i]
		}
	}
	return nil
}

func (s *System) DeviceIDs() ([]audiodev.DeviceID, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.FailEnumerate {
		return nil, ErrInjected
	}
	ids := make([]audiodev.DeviceID, len(s.endpoints))
	for i, e := range s.endpoints {
		ids[i] = e.ID
	}
	return ids, nil
}

func (s *System) HasInput(id audiodev.DeviceID) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.FailHasInput[id] {
		return false, ErrInjected
	}
	e := s.find(id)
	if e == nil {
		return false, audiodev.ErrNotFound
	}
	return e.Input, nil
}

func (s *System) DeviceName(id audiodev.DeviceID) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.FailName {
		return "", ErrInjected
	}
	e := s.find(id)
	if e == nil {
		return "", audiodev.ErrNotFound
	}
	return e.Name, nil
}

func (s *System) DefaultInput() (audiodev.DeviceID, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.FailDefaultInput {
		return 0, ErrInjected
	}
	return s.input, nil
}

func (s *System) SetDefaultInput(id audiodev.DeviceID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.SetInputCalls++
	if s.FailSetInput {
		return ErrInjected
	}
	if s.find(id) == nil {
		return audiodev.ErrNotFound
	}
	s.input = id
	return nil
}

func (s *System) DefaultOutput() (audiodev.DeviceID, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.FailDefaultOutput {
		return 0, ErrInjected
	}
	return s.output, nil
}

func (s *System) StereoPan(id audiodev.DeviceID) (float32, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.FailPan {
		return 0, ErrInjected
	}
	e := s.find(id)
	if e == nil {
		return 0, audiodev.ErrNotFound
	}
	return e.Pan, nil
}

func (s *System) SetStereoPan(id audiodev.DeviceID, pan float32) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.SetPanCalls++
	if s.FailSetPan {
		return ErrInjected
	}
	e := s.find(id)
	if e == nil {
		return audiodev.ErrNotFound
	}
	e.Pan = pan
	return nil
}
