// Package chime plays a short confirmation sound after the input device changes.
package chime

import (
	"bytes"
	"fmt"
	"log"
	"os"
	"sync"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/speaker"
	"github.com/gopxl/beep/wav"
)

// Player manages chime playback.
type Player struct {
	data     []byte
	enabled  bool
	logger   *log.Logger
	initOnce sync.Once
	initErr  error
}

// New creates a Player. If path is empty, a synthesized two-note chime is used.
// If enabled is false, Play is a no-op.
func New(path string, enabled bool, logger *log.Logger) (*Player, error) {
	p := &Player{
		enabled: enabled,
		logger:  logger,
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read chime %s: %w", path, err)
		}
		p.data = data
		return p, nil
	}

	data, err := DefaultChime()
	if err != nil {
		return nil, fmt.Errorf("synthesize chime: %w", err)
	}
	p.data = data
	return p, nil
}

func (p *Player) initSpeaker(format beep.Format) {
	p.initOnce.Do(func() {
		p.initErr = speaker.Init(format.SampleRate, format.SampleRate.N(time.Second/10))
	})
}

// Play plays the chime without blocking.
func (p *Player) Play() {
	if p == nil || !p.enabled || len(p.data) == 0 {
		return
	}

	go func() {
		streamer, format, err := wav.Decode(bytes.NewReader(p.data))
		if err != nil {
			if p.logger != nil {
				p.logger.Printf("chime: wav decode error: %v", err)
			}
			return
		}
		defer streamer.Close()

		p.initSpeaker(format)
		if p.initErr != nil {
			if p.logger != nil {
				p.logger.Printf("chime: speaker init error: %v", p.initErr)
			}
			return
		}

		done := make(chan struct{})
		speaker.Play(beep.Seq(streamer, beep.Callback(func() {
			close(done)
		})))
		<-done
	}()
}
