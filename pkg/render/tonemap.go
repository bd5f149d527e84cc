package render

import (
	"math"

	"github.com/taigrr/brdfview/pkg/math3d"
)

// ToneMap converts linear RGB radiance to 8-bit display colors.
// The zero value is invalid; use DefaultToneMap.
type ToneMap struct {
	Exposure float64 // Linear scale applied before the curve
	Gamma    float64 // Display gamma; 1 writes values unchanged
	Filmic   bool    // Apply the ACES filmic curve instead of clamping
}

// DefaultToneMap clamps radiance to [0, 1] without any curve, the way a
// fixed-function pipeline treats vertex colors.
func DefaultToneMap() ToneMap {
	return ToneMap{Exposure: 1, Gamma: 1}
}

// ACESTonemap applies the ACES filmic approximation to a linear value.
func ACESTonemap(x float64) float64 {
	return (x * (2.51*x + 0.03)) / (x*(2.43*x+0.59) + 0.14)
}

// Channel maps one linear component to [0, 255].
func (t ToneMap) Channel(v float64) uint8 {
	v *= t.Exposure
	if v <= 0 || math.IsNaN(v) {
		return 0
	}
	if math.IsInf(v, 1) {
		return 255
	}
	if t.Filmic {
		v = ACESTonemap(v)
	}
	if v >= 1 {
		return 255
	}
	if t.Gamma > 0 && t.Gamma != 1 {
		v = math.Pow(v, 1/t.Gamma)
	}
	return uint8(v*255 + 0.5)
}

// Color maps a linear RGB triple to an opaque color.
func (t ToneMap) Color(v math3d.Vec3) Color {
	return RGB(t.Channel(v.X), t.Channel(v.Y), t.Channel(v.Z))
}

// Apply maps src into dst, growing dst when needed, and returns it.
func (t ToneMap) Apply(dst []Color, src []math3d.Vec3) []Color {
	if cap(dst) < len(src) {
		dst = make([]Color, len(src))
	}
	dst = dst[:len(src)]
	for i, v := range src {
		dst[i] = t.Color(v)
	}
	return dst
}
