package render

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/taigrr/brdfview/pkg/math3d"
)

func TestToneMapDefaultClamps(t *testing.T) {
	tm := DefaultToneMap()

	tests := []struct {
		in   float64
		want uint8
	}{
		{-1, 0},
		{0, 0},
		{math.NaN(), 0},
		{0.5, 128},
		{0.2, 51},
		{1, 255},
		{3.7, 255},
		{math.Inf(1), 255},
	}
	for _, tc := range tests {
		assert.Equal(t, tc.want, tm.Channel(tc.in), "Channel(%v)", tc.in)
	}
}

func TestToneMapExposureAndGamma(t *testing.T) {
	tm := ToneMap{Exposure: 2, Gamma: 1}
	assert.Equal(t, uint8(128), tm.Channel(0.25))

	gamma := ToneMap{Exposure: 1, Gamma: 2.2}
	// Gamma lifts mid tones but keeps the end points.
	assert.Greater(t, gamma.Channel(0.2), DefaultToneMap().Channel(0.2))
	assert.Equal(t, uint8(0), gamma.Channel(0))
	assert.Equal(t, uint8(255), gamma.Channel(1))
}

func TestToneMapFilmic(t *testing.T) {
	tm := ToneMap{Exposure: 1, Gamma: 1, Filmic: true}

	// The curve compresses highlights instead of clipping them.
	assert.Less(t, tm.Channel(1), uint8(255))
	assert.Less(t, tm.Channel(2), tm.Channel(8))
	assert.Equal(t, uint8(0), tm.Channel(0))

	assert.InDelta(t, 0.0, ACESTonemap(0), 1e-12)
	prev := 0.0
	for x := 0.1; x < 10; x += 0.1 {
		v := ACESTonemap(x)
		assert.Greater(t, v, prev, "monotonic at %v", x)
		prev = v
	}
}

func TestToneMapApply(t *testing.T) {
	tm := DefaultToneMap()
	src := []math3d.Vec3{
		math3d.V3(0.2, 0.2, 0.2),
		math3d.V3(1.5, 0, 0.5),
	}

	dst := tm.Apply(nil, src)
	assert.Equal(t, []Color{RGB(51, 51, 51), RGB(255, 0, 128)}, dst)

	reused := tm.Apply(dst, src[:1])
	assert.Len(t, reused, 1)
	assert.Same(t, &dst[0], &reused[0])
}
