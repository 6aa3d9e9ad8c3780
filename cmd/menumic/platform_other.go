//go:build !darwin && !linux

package main

import "github.com/Danondso/menumic/internal/audiodev/paudio"

const nativeBackend = ""

func runOnMainThread(fn func()) {
	fn()
}

func openPortAudio() (*paudio.System, error) {
	return paudio.Open()
}
