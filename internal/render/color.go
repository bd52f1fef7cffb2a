package render

import (
	"math"

	"github.com/tejashwikalptaru/beatscope/internal/domain"
)

// HSL converts hue (degrees, any value), saturation and lightness (0-1) to an opaque colour.
func HSL(hue, saturation, lightness float64) domain.RGBA {
	h := wrapDegrees(hue) / 360
	s := clamp01(saturation)
	l := clamp01(lightness)

	if s == 0 {
		v := toByte(l)
		return domain.Opaque(v, v, v)
	}

	var q float64
	if l < 0.5 {
		q = l * (1 + s)
	} else {
		q = l + s - l*s
	}
	p := 2*l - q

	return domain.Opaque(
		toByte(hueToRGB(p, q, h+1.0/3.0)),
		toByte(hueToRGB(p, q, h)),
		toByte(hueToRGB(p, q, h-1.0/3.0)),
	)
}

func hueToRGB(p, q, t float64) float64 {
	if t < 0 {
		t += 1
	}
	if t > 1 {
		t -= 1
	}
	if t < 1.0/6.0 {
		return p + (q-p)*6*t
	}
	if t < 0.5 {
		return q
	}
	if t < 2.0/3.0 {
		return p + (q-p)*(2.0/3.0-t)*6
	}
	return p
}

// wrapDegrees maps any angle into [0, 360).
func wrapDegrees(d float64) float64 {
	d = math.Mod(d, 360)
	if d < 0 {
		d += 360
	}
	return d
}

func clamp01(v float64) float64 {
	return math.Max(0, math.Min(1, v))
}

func toByte(v float64) uint8 {
	return uint8(math.Round(clamp01(v) * 255))
}

// withAlpha returns c with a different opacity.
func withAlpha(c domain.RGBA, a float64) domain.RGBA {
	c.A = clamp01(a)
	return c
}

var (
	black = domain.Opaque(0, 0, 0)
	white = domain.Opaque(255, 255, 255)
)
