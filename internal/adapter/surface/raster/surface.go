// Package raster implements ports.Surface on an in-memory RGBA image.
// The image is handed to the UI (fyne canvas.Raster) after every frame.
package raster

import (
	"image"
	"image/color"
	"image/draw"
	"math"
	"sync"

	"golang.org/x/image/vector"

	"github.com/tejashwikalptaru/beatscope/internal/domain"
	"github.com/tejashwikalptaru/beatscope/internal/ports"
)

// glowLayers is how many widening translucent strokes approximate a shadow blur.
const glowLayers = 4

// Surface is an immediate-mode canvas backed by *image.RGBA.
// Drawing blends source-over, so translucent fills leave trails of earlier frames.
//
// Thread-safety: drawing is meant for the render loop only. Snapshot may be
// called from the UI goroutine while the loop is idle between frames.
type Surface struct {
	mu  sync.Mutex
	img *image.RGBA

	stroke      domain.RGBA
	strokeWidth float64
	glow        domain.RGBA
	glowBlur    float64

	z vector.Rasterizer
}

// New creates a surface of the given size. Non-positive sizes create an empty surface.
func New(width, height int) *Surface {
	s := &Surface{strokeWidth: 1}
	s.img = image.NewRGBA(image.Rect(0, 0, max(width, 0), max(height, 0)))
	return s
}

// Resize reallocates the backing image when the size changes.
// Content is not preserved; the next frame starts from transparent black.
func (s *Surface) Resize(width, height int) {
	width, height = max(width, 0), max(height, 0)

	s.mu.Lock()
	defer s.mu.Unlock()
	if b := s.img.Bounds(); b.Dx() == width && b.Dy() == height {
		return
	}
	s.img = image.NewRGBA(image.Rect(0, 0, width, height))
}

// Image returns the backing image. It is overwritten by later frames.
func (s *Surface) Image() *image.RGBA {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.img
}

// Snapshot returns a copy of the current image that later frames will not touch.
func (s *Surface) Snapshot() *image.RGBA {
	return s.SnapshotInto(nil)
}

// SnapshotInto copies the current image into dst and returns it. A dst of a
// different size (or nil) is replaced by a new image.
func (s *Surface) SnapshotInto(dst *image.RGBA) *image.RGBA {
	s.mu.Lock()
	defer s.mu.Unlock()

	if dst == nil || dst.Bounds() != s.img.Bounds() {
		dst = image.NewRGBA(s.img.Bounds())
	}
	copy(dst.Pix, s.img.Pix)
	return dst
}

// Size implements ports.Surface.
func (s *Surface) Size() (int, int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	b := s.img.Bounds()
	return b.Dx(), b.Dy()
}

// SetStroke implements ports.Surface.
func (s *Surface) SetStroke(c domain.RGBA, width float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stroke, s.strokeWidth = c, math.Max(width, 0)
}

// SetGlow implements ports.Surface.
func (s *Surface) SetGlow(c domain.RGBA, blur float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.glow, s.glowBlur = c, math.Max(blur, 0)
}

// StrokeLine implements ports.Surface.
func (s *Surface) StrokeLine(from, to domain.Point) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.strokeSegments([]domain.Point{from, to})
}

// StrokePolyline implements ports.Surface.
func (s *Surface) StrokePolyline(points []domain.Point) {
	if len(points) < 2 {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.strokeSegments(points)
}

// strokeSegments draws the glow layers under the core stroke. Caller holds mu.
func (s *Surface) strokeSegments(points []domain.Point) {
	if s.glowBlur > 0 && s.glow.A > 0 {
		// Widest and faintest first so inner layers stack towards the core.
		for k := glowLayers; k >= 1; k-- {
			width := s.strokeWidth + s.glowBlur*float64(k)/glowLayers
			alpha := s.glow.A * 0.5 / glowLayers
			src := uniform(s.glow, alpha)
			for i := 1; i < len(points); i++ {
				s.fillSegment(points[i-1], points[i], width, src)
			}
		}
	}

	if s.strokeWidth <= 0 || s.stroke.A <= 0 {
		return
	}
	src := uniform(s.stroke, s.stroke.A)
	for i := 1; i < len(points); i++ {
		s.fillSegment(points[i-1], points[i], s.strokeWidth, src)
	}
}

// fillSegment rasterises a segment as an anti-aliased quad with square caps,
// limited to its bounding box so cost follows the segment, not the surface.
func (s *Surface) fillSegment(a, b domain.Point, width float64, src image.Image) {
	hw := width / 2
	dx, dy := b.X-a.X, b.Y-a.Y
	length := math.Hypot(dx, dy)

	var ux, uy float64
	if length == 0 {
		ux, uy = 1, 0
	} else {
		ux, uy = dx/length, dy/length
	}
	// Extend by hw along the direction so consecutive segments join without gaps.
	ax, ay := a.X-ux*hw, a.Y-uy*hw
	bx, by := b.X+ux*hw, b.Y+uy*hw
	px, py := -uy*hw, ux*hw

	corners := [4][2]float64{
		{ax + px, ay + py},
		{bx + px, by + py},
		{bx - px, by - py},
		{ax - px, ay - py},
	}

	minX, minY := math.Inf(1), math.Inf(1)
	maxX, maxY := math.Inf(-1), math.Inf(-1)
	for _, c := range corners {
		minX, maxX = math.Min(minX, c[0]), math.Max(maxX, c[0])
		minY, maxY = math.Min(minY, c[1]), math.Max(maxY, c[1])
	}
	box := image.Rect(int(math.Floor(minX)), int(math.Floor(minY)), int(math.Ceil(maxX)), int(math.Ceil(maxY)))
	box = box.Intersect(s.img.Bounds())
	if box.Empty() {
		return
	}

	s.z.Reset(box.Dx(), box.Dy())
	s.z.DrawOp = draw.Over
	ox, oy := float64(box.Min.X), float64(box.Min.Y)
	s.z.MoveTo(float32(corners[0][0]-ox), float32(corners[0][1]-oy))
	for _, c := range corners[1:] {
		s.z.LineTo(float32(c[0]-ox), float32(c[1]-oy))
	}
	s.z.ClosePath()
	s.z.Draw(s.img, box, src, image.Point{})
}

// FillRect implements ports.Surface.
func (s *Surface) FillRect(x, y, width, height float64, c domain.RGBA) {
	s.mu.Lock()
	defer s.mu.Unlock()

	r := pixelRect(x, y, width, height).Intersect(s.img.Bounds())
	if r.Empty() || c.A <= 0 {
		return
	}
	draw.Draw(s.img, r, uniform(c, c.A), image.Point{}, draw.Over)
}

// FillVerticalGradient implements ports.Surface. Stops are interpolated per row.
func (s *Surface) FillVerticalGradient(x, y, width, height float64, top, bottom domain.RGBA) {
	s.mu.Lock()
	defer s.mu.Unlock()

	r := pixelRect(x, y, width, height).Intersect(s.img.Bounds())
	if r.Empty() || height <= 0 {
		return
	}
	for row := r.Min.Y; row < r.Max.Y; row++ {
		t := (float64(row) + 0.5 - y) / height
		c := lerp(top, bottom, t)
		line := image.Rect(r.Min.X, row, r.Max.X, row+1)
		draw.Draw(s.img, line, uniform(c, c.A), image.Point{}, draw.Over)
	}
}

func pixelRect(x, y, width, height float64) image.Rectangle {
	return image.Rect(
		int(math.Floor(x)), int(math.Floor(y)),
		int(math.Ceil(x+width)), int(math.Ceil(y+height)),
	)
}

func lerp(a, b domain.RGBA, t float64) domain.RGBA {
	t = math.Max(0, math.Min(1, t))
	mix := func(p, q uint8) uint8 {
		return uint8(math.Round(float64(p) + (float64(q)-float64(p))*t))
	}
	return domain.RGBA{
		R: mix(a.R, b.R),
		G: mix(a.G, b.G),
		B: mix(a.B, b.B),
		A: a.A + (b.A-a.A)*t,
	}
}

func uniform(c domain.RGBA, alpha float64) *image.Uniform {
	a := uint8(math.Round(math.Max(0, math.Min(1, alpha)) * 255))
	return image.NewUniform(color.NRGBA{R: c.R, G: c.G, B: c.B, A: a})
}

var _ ports.Surface = (*Surface)(nil)
