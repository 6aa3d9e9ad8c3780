//go:build darwin

package main

import (
	"golang.design/x/mainthread"

	"github.com/Danondso/menumic/internal/audiodev/paudio"
	"github.com/Danondso/menumic/internal/config"
)

// nativeBackend is what "auto" resolves to.
const nativeBackend = config.BackendCoreAudio

// runOnMainThread runs fn with the main thread available to the hotkey
// package.
func runOnMainThread(fn func()) {
	mainthread.Init(fn)
}

// openPortAudio initializes PortAudio. On macOS, no stderr suppression is
// needed since CoreAudio doesn't produce ALSA/JACK noise.
func openPortAudio() (*paudio.System, error) {
	return paudio.Open()
}
