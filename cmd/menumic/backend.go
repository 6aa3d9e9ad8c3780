package main

import (
	"fmt"

	"github.com/Danondso/menumic/internal/audiodev"
	"github.com/Danondso/menumic/internal/audiodev/coreaudio"
	"github.com/Danondso/menumic/internal/audiodev/pactl"
	"github.com/Danondso/menumic/internal/config"
)

// resolveBackend maps the configured backend to a concrete one.
func resolveBackend(name string, pactlAvailable bool) string {
	if name != config.BackendAuto && name != "" {
		return name
	}
	if nativeBackend != "" {
		return nativeBackend
	}
	if pactlAvailable {
		return config.BackendPactl
	}
	return config.BackendPortAudio
}

// openBackend returns the audio system for name along with its resolved name
// and a function that releases it.
func openBackend(name string) (audiodev.System, string, func(), error) {
	resolved := resolveBackend(name, pactl.Available())
	nop := func() {}

	switch resolved {
	case config.BackendCoreAudio:
		return coreaudio.New(), resolved, nop, nil
	case config.BackendPactl:
		return pactl.New(), resolved, nop, nil
	case config.BackendPortAudio:
		sys, err := openPortAudio()
		if err != nil {
			return nil, "", nil, err
		}
		return sys, resolved, func() { _ = sys.Close() }, nil
	default:
		return nil, "", nil, fmt.Errorf("unknown backend %q", resolved)
	}
}
