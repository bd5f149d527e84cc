package shading

import (
	"math"

	"github.com/taigrr/brdfview/pkg/math3d"
)

// Steps are the increments applied by the interactive commands.
type Steps struct {
	Alpha float64 // Roughness step; also the lowest reachable roughness
	F0    float64 // Fresnel F0 step
	Light float64 // Light translation step
}

// DefaultSteps returns the viewer's interaction steps.
func DefaultSteps() Steps {
	return Steps{Alpha: 0.01, F0: 0.01, Light: 0.5}
}

// Modes are the three independent toggles behind the specular model.
// They are kept separately so switching microfacet off and on again
// restores the previous distribution and masking choice.
type Modes struct {
	Microfacet bool
	GGX        bool
	Schlick    bool
}

// ModesFor returns the toggles that select model.
func ModesFor(model SpecularModel) Modes {
	switch model {
	case CookTorrance:
		return Modes{Microfacet: true}
	case GGXSmith:
		return Modes{Microfacet: true, GGX: true}
	case GGXSchlick:
		return Modes{Microfacet: true, GGX: true, Schlick: true}
	}
	return Modes{}
}

// Model resolves the toggles to a single specular model.
func (m Modes) Model() SpecularModel {
	switch {
	case !m.Microfacet:
		return BlinnPhong
	case !m.GGX:
		return CookTorrance
	case m.Schlick:
		return GGXSchlick
	default:
		return GGXSmith
	}
}

// Command is a discrete interactive adjustment.
type Command int

const (
	ToggleMicrofacet Command = iota
	ToggleDistribution
	ToggleMasking
	IncreaseRoughness
	DecreaseRoughness
	IncreaseF0
	DecreaseF0
	MoveLightLeft
	MoveLightRight
)

// Controls applies interactive commands to a material and light rig.
type Controls struct {
	Material *Material
	Lights   *LightRig
	Steps    Steps
	Modes    Modes

	// LightIndex is the light moved by MoveLightLeft/MoveLightRight.
	LightIndex int
}

// NewControls binds controls to mat and rig. The mode toggles start from
// mat.Model.
func NewControls(mat *Material, rig *LightRig, steps Steps) *Controls {
	return &Controls{
		Material:   mat,
		Lights:     rig,
		Steps:      steps,
		Modes:      ModesFor(mat.Model),
		LightIndex: 2,
	}
}

// Apply executes cmd. Roughness stays in [Steps.Alpha, 1] and F0 in [0, 1].
func (c *Controls) Apply(cmd Command) {
	switch cmd {
	case ToggleMicrofacet:
		c.Modes.Microfacet = !c.Modes.Microfacet
	case ToggleDistribution:
		c.Modes.GGX = !c.Modes.GGX
	case ToggleMasking:
		c.Modes.Schlick = !c.Modes.Schlick
	case IncreaseRoughness:
		c.Material.Alpha = math.Min(c.Material.Alpha+c.Steps.Alpha, 1)
	case DecreaseRoughness:
		c.Material.Alpha = math.Max(c.Material.Alpha-c.Steps.Alpha, c.Steps.Alpha)
	case IncreaseF0:
		c.Material.F0 = math.Min(c.Material.F0+c.Steps.F0, 1)
	case DecreaseF0:
		c.Material.F0 = math.Max(c.Material.F0-c.Steps.F0, 0)
	case MoveLightLeft:
		c.moveLight(-c.Steps.Light)
	case MoveLightRight:
		c.moveLight(c.Steps.Light)
	}
	c.Material.Model = c.Modes.Model()
}

func (c *Controls) moveLight(delta float64) {
	if l := c.Lights.Light(c.LightIndex); l != nil {
		l.MoveBy(math3d.AxisX, delta)
	}
}

// ToggleLight flips light i and reports its new state.
// Out-of-range indices are ignored and report false.
func (c *Controls) ToggleLight(i int) bool {
	l := c.Lights.Light(i)
	if l == nil {
		return false
	}
	return l.Toggle()
}
