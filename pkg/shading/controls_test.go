package shading

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/taigrr/brdfview/pkg/math3d"
)

func newTestControls() (*Controls, *Material) {
	mat := DefaultMaterial()
	return NewControls(&mat, DefaultLightRig(), DefaultSteps()), &mat
}

func TestRoughnessClamp(t *testing.T) {
	c, mat := newTestControls()
	mat.Alpha = 1

	for range 1000 {
		c.Apply(DecreaseRoughness)
		if mat.Alpha <= 0 {
			t.Fatalf("alpha reached %v", mat.Alpha)
		}
	}
	assert.Equal(t, 0.01, mat.Alpha)

	for range 1000 {
		c.Apply(IncreaseRoughness)
	}
	assert.Equal(t, 1.0, mat.Alpha)
}

func TestF0Clamp(t *testing.T) {
	c, mat := newTestControls()

	for range 200 {
		c.Apply(IncreaseF0)
	}
	assert.Equal(t, 1.0, mat.F0)

	for range 200 {
		c.Apply(DecreaseF0)
	}
	assert.Equal(t, 0.0, mat.F0)
}

func TestModeToggles(t *testing.T) {
	c, mat := newTestControls()
	assert.Equal(t, CookTorrance, mat.Model)

	steps := []struct {
		cmd  Command
		want SpecularModel
	}{
		{ToggleDistribution, GGXSmith},
		{ToggleMasking, GGXSchlick},
		{ToggleMicrofacet, BlinnPhong},
		{ToggleMasking, BlinnPhong},
		{ToggleMicrofacet, GGXSmith},
		{ToggleDistribution, CookTorrance},
		{ToggleMasking, CookTorrance},
	}

	for i, s := range steps {
		c.Apply(s.cmd)
		if mat.Model != s.want {
			t.Errorf("step %d: model = %v, want %v", i, mat.Model, s.want)
		}
	}
}

func TestModesRoundTrip(t *testing.T) {
	for _, m := range []SpecularModel{BlinnPhong, CookTorrance, GGXSmith, GGXSchlick} {
		assert.Equal(t, m, ModesFor(m).Model(), m.String())
	}
}

func TestMoveControlledLight(t *testing.T) {
	c, _ := newTestControls()
	before0 := c.Lights.Light(0).Position()
	start := c.Lights.Light(2).Position()

	c.Apply(MoveLightRight)
	c.Apply(MoveLightRight)
	c.Apply(MoveLightLeft)

	assert.Equal(t, start.Offset(math3d.AxisX, 0.5), c.Lights.Light(2).Position())
	assert.Equal(t, before0, c.Lights.Light(0).Position())

	c.LightIndex = 7
	c.Apply(MoveLightRight) // no light there, ignored
}

func TestToggleLight(t *testing.T) {
	c, _ := newTestControls()

	assert.False(t, c.ToggleLight(1))
	assert.Equal(t, 2, c.Lights.ActiveCount())
	assert.True(t, c.ToggleLight(1))
	assert.False(t, c.ToggleLight(5))
	assert.False(t, c.ToggleLight(-1))
}

func TestMicrofacetOffIgnoresRoughnessAndF0Commands(t *testing.T) {
	c, mat := newTestControls()
	n, wi, wo, wh := obliqueFrame()

	c.Apply(ToggleMicrofacet)
	assert.Equal(t, BlinnPhong, mat.Model)
	want := mat.Evaluate(n, wi, wo, wh)

	// Each run is long enough to hit its clamp.
	runs := []struct {
		cmd   Command
		count int
	}{
		{IncreaseRoughness, 60},
		{DecreaseF0, 60},
		{DecreaseRoughness, 120},
		{IncreaseF0, 120},
	}
	for _, r := range runs {
		for i := range r.count {
			c.Apply(r.cmd)
			if got := mat.Evaluate(n, wi, wo, wh); got != want {
				t.Fatalf("command %d step %d (alpha=%v f0=%v): got %v, want %v", r.cmd, i, mat.Alpha, mat.F0, got, want)
			}
		}
	}
	assert.InDelta(t, c.Steps.Alpha, mat.Alpha, 1e-9)
	assert.Equal(t, 1.0, mat.F0)

	c.Apply(ToggleMicrofacet)
	assert.Equal(t, CookTorrance, mat.Model)
}
