package tray

import (
	"fmt"

	"github.com/Danondso/menumic/internal/app"
	"github.com/Danondso/menumic/internal/audiodev"
)

// maxDeviceSlots is the number of device rows reserved in the menu. Menu
// items cannot be inserted mid-menu, so rows are created up front and hidden
// when unused.
const maxDeviceSlots = 24

// slotState is how one reserved device row should look after a tick.
type slotState struct {
	ID      audiodev.DeviceID
	Title   string
	Checked bool
	Visible bool
}

// deviceTitle returns the row label for a device.
func deviceTitle(e app.Entry) string {
	if e.Name == "" {
		return fmt.Sprintf("Device %d", e.ID)
	}
	return e.Name
}

// layoutSlots maps a snapshot onto n device rows. Devices beyond n are dropped.
func layoutSlots(snap app.Snapshot, n int) []slotState {
	slots := make([]slotState, n)
	for i := range slots {
		if i >= len(snap.Devices) {
			break
		}
		e := snap.Devices[i]
		slots[i] = slotState{
			ID:      e.ID,
			Title:   deviceTitle(e),
			Checked: e.Selected,
			Visible: true,
		}
	}
	return slots
}
