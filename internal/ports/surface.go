package ports

import (
	"github.com/tejashwikalptaru/beatscope/internal/domain"
)

// Surface is a 2D immediate-mode drawing target.
// The width and height may change between frames (resized externally);
// renderers read Size once per frame.
//
// Thread-safety: a surface is owned by the render loop. Only the loop draws on it.
type Surface interface {
	// Size returns the current drawable size in pixels.
	Size() (width, height int)

	// SetStroke sets the colour and width used by StrokeLine and StrokePolyline.
	SetStroke(color domain.RGBA, width float64)

	// SetGlow sets the shadow colour and blur radius applied to strokes.
	// A blur of zero disables the glow.
	SetGlow(color domain.RGBA, blur float64)

	// StrokeLine draws a single segment.
	StrokeLine(from, to domain.Point)

	// StrokePolyline draws connected segments through all points in order.
	StrokePolyline(points []domain.Point)

	// FillRect fills a rectangle, blending with what is already drawn.
	FillRect(x, y, width, height float64, color domain.RGBA)

	// FillVerticalGradient fills a rectangle with a two-stop gradient from top to bottom.
	FillVerticalGradient(x, y, width, height float64, top, bottom domain.RGBA)
}
