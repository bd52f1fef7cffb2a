package fyne

import (
	fyneapp "fyne.io/fyne/v2"

	"github.com/tejashwikalptaru/beatscope/internal/adapter/scheduler"
)

// NewFrameScheduler returns a ticker that runs frame callbacks on the fyne
// goroutine, where the raster widget may be refreshed.
func NewFrameScheduler(fps int) *scheduler.Ticker {
	return scheduler.NewTicker(fps, fyneapp.Do)
}
