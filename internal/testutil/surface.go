package testutil

import (
	"sync"

	"github.com/tejashwikalptaru/beatscope/internal/domain"
	"github.com/tejashwikalptaru/beatscope/internal/ports"
)

// Op names a recorded drawing operation.
type Op string

// Recorded operations.
const (
	OpLine     Op = "line"
	OpPolyline Op = "polyline"
	OpRect     Op = "rect"
	OpGradient Op = "gradient"
)

// DrawCall is one recorded drawing operation with the stroke/glow state in effect.
type DrawCall struct {
	Op          Op
	Points      []domain.Point
	Rect        [4]float64 // x, y, width, height
	Fill        domain.RGBA
	FillBottom  domain.RGBA
	Stroke      domain.RGBA
	StrokeWidth float64
	Glow        domain.RGBA
	GlowBlur    float64
}

// RecordingSurface is a ports.Surface that records draw calls instead of rasterising.
type RecordingSurface struct {
	mu          sync.Mutex
	width       int
	height      int
	stroke      domain.RGBA
	strokeWidth float64
	glow        domain.RGBA
	glowBlur    float64
	calls       []DrawCall
}

// NewRecordingSurface creates a recording surface of the given size.
func NewRecordingSurface(width, height int) *RecordingSurface {
	return &RecordingSurface{width: width, height: height}
}

// Resize changes the reported size, as an external window resize would.
func (s *RecordingSurface) Resize(width, height int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.width, s.height = width, height
}

// Size implements ports.Surface.
func (s *RecordingSurface) Size() (int, int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.width, s.height
}

// SetStroke implements ports.Surface.
func (s *RecordingSurface) SetStroke(color domain.RGBA, width float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stroke, s.strokeWidth = color, width
}

// SetGlow implements ports.Surface.
func (s *RecordingSurface) SetGlow(color domain.RGBA, blur float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.glow, s.glowBlur = color, blur
}

// StrokeLine implements ports.Surface.
func (s *RecordingSurface) StrokeLine(from, to domain.Point) {
	s.record(DrawCall{Op: OpLine, Points: []domain.Point{from, to}})
}

// StrokePolyline implements ports.Surface. Points are copied.
func (s *RecordingSurface) StrokePolyline(points []domain.Point) {
	s.record(DrawCall{Op: OpPolyline, Points: append([]domain.Point(nil), points...)})
}

// FillRect implements ports.Surface.
func (s *RecordingSurface) FillRect(x, y, width, height float64, color domain.RGBA) {
	s.record(DrawCall{Op: OpRect, Rect: [4]float64{x, y, width, height}, Fill: color})
}

// FillVerticalGradient implements ports.Surface.
func (s *RecordingSurface) FillVerticalGradient(x, y, width, height float64, top, bottom domain.RGBA) {
	s.record(DrawCall{Op: OpGradient, Rect: [4]float64{x, y, width, height}, Fill: top, FillBottom: bottom})
}

func (s *RecordingSurface) record(c DrawCall) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c.Stroke, c.StrokeWidth = s.stroke, s.strokeWidth
	c.Glow, c.GlowBlur = s.glow, s.glowBlur
	s.calls = append(s.calls, c)
}

// Calls returns a copy of all recorded calls.
func (s *RecordingSurface) Calls() []DrawCall {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]DrawCall(nil), s.calls...)
}

// CallsOf returns recorded calls of one kind, in order.
func (s *RecordingSurface) CallsOf(op Op) []DrawCall {
	var out []DrawCall
	for _, c := range s.Calls() {
		if c.Op == op {
			out = append(out, c)
		}
	}
	return out
}

// Reset forgets recorded calls.
func (s *RecordingSurface) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls = nil
}

var _ ports.Surface = (*RecordingSurface)(nil)
