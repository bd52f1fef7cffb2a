package fyne

import (
	"image"
	"sync"

	fyneapp "fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/widget"

	"github.com/tejashwikalptaru/beatscope/internal/adapter/surface/raster"
)

// VisualizerWidget shows the frames the render loop paints on a raster surface.
//
// Fyne asks the raster generator for an image at the widget's pixel size; the
// generator resizes the surface to match, so the next frame renders at the new
// size. Publish hands over a finished frame; two frame buffers are swapped so
// steady-state publishing does not allocate.
type VisualizerWidget struct {
	widget.BaseWidget

	raster  *canvas.Raster
	surface *raster.Surface

	mu    sync.Mutex
	frame *image.RGBA // shown
	spare *image.RGBA // filled by the next Publish
}

// NewVisualizerWidget creates a widget presenting surface.
func NewVisualizerWidget(surface *raster.Surface) *VisualizerWidget {
	v := &VisualizerWidget{surface: surface}
	v.raster = canvas.NewRaster(v.generate)
	v.ExtendBaseWidget(v)
	return v
}

// CreateRenderer implements fyne.Widget.
func (v *VisualizerWidget) CreateRenderer() fyneapp.WidgetRenderer {
	return widget.NewSimpleRenderer(v.raster)
}

// MinSize returns the minimum size of the visualizer.
func (v *VisualizerWidget) MinSize() fyneapp.Size {
	return fyneapp.NewSize(0, 0)
}

// Publish copies the surface's current frame for display and schedules a repaint.
// It must run on the fyne goroutine, between frames.
func (v *VisualizerWidget) Publish() {
	v.mu.Lock()
	spare := v.spare
	v.spare = nil
	v.mu.Unlock()

	spare = v.surface.SnapshotInto(spare)

	v.mu.Lock()
	v.frame, v.spare = spare, v.frame
	v.mu.Unlock()

	v.raster.Refresh()
}

// generate is the canvas.Raster callback.
func (v *VisualizerWidget) generate(w, h int) image.Image {
	v.surface.Resize(w, h)

	v.mu.Lock()
	defer v.mu.Unlock()

	if v.frame == nil || v.frame.Bounds().Dx() != w || v.frame.Bounds().Dy() != h {
		// The first frame at a new size has not been painted yet.
		return image.NewRGBA(image.Rect(0, 0, w, h))
	}
	return v.frame
}
