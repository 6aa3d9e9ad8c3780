// Package notify posts desktop notifications when the app changed OS audio
// state on its own.
package notify

import (
	"log"
	"sync"

	"github.com/gen2brain/beeep"
)

// AppName is shown as the notification source where the platform supports it.
const AppName = "Menu Mic"

// Notifier sends desktop notifications. Notify never fails the caller;
// delivery errors are logged.
type Notifier struct {
	enabled bool
	logger  *log.Logger
	send    func(title, message string) error
	pending sync.WaitGroup
}

// New creates a Notifier. If enabled is false, Notify is a no-op.
func New(enabled bool, logger *log.Logger) *Notifier {
	beeep.AppName = AppName
	return &Notifier{
		enabled: enabled,
		logger:  logger,
		send: func(title, message string) error {
			return beeep.Notify(title, message, "")
		},
	}
}

// Notify posts a notification without blocking the caller.
func (n *Notifier) Notify(title, message string) {
	if n == nil || !n.enabled {
		return
	}
	n.pending.Add(1)
	go func() {
		defer n.pending.Done()
		if err := n.send(title, message); err != nil {
			if n.logger != nil {
				n.logger.Printf("notify: %v", err)
			}
			return
		}
		if n.logger != nil {
			n.logger.Printf("notify: sent %q", title)
		}
	}()
}

// Wait blocks until every notification handed to Notify has been sent.
func (n *Notifier) Wait() {
	if n == nil {
		return
	}
	n.pending.Wait()
}
