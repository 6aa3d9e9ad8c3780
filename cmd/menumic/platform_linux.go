//go:build linux

package main

import (
	"os"
	"syscall"

	"github.com/Danondso/menumic/internal/audiodev/paudio"
)

// nativeBackend is empty: "auto" picks pactl when present, else PortAudio.
const nativeBackend = ""

func runOnMainThread(fn func()) {
	fn()
}

// openPortAudio suppresses ALSA/JACK noise during PortAudio initialization
// by temporarily redirecting stderr to /dev/null.
func openPortAudio() (*paudio.System, error) {
	stderrFd := int(os.Stderr.Fd()) //nolint:gosec // fd fits in int on all supported platforms
	savedStderr, err := syscall.Dup(stderrFd)
	if err != nil {
		return paudio.Open()
	}
	devNull, err := os.Open(os.DevNull)
	if err != nil {
		_ = syscall.Close(savedStderr)
		return paudio.Open()
	}
	_ = syscall.Dup3(int(devNull.Fd()), stderrFd, 0)
	_ = devNull.Close()

	sys, openErr := paudio.Open()

	_ = syscall.Dup3(savedStderr, stderrFd, 0)
	_ = syscall.Close(savedStderr)

	return sys, openErr
}
