package shading

import (
	"errors"

	"github.com/taigrr/brdfview/pkg/math3d"
)

// MaxLights is the capacity of a LightRig.
const MaxLights = 8

// ErrTooManyLights is returned when adding to a full LightRig.
var ErrTooManyLights = errors.New("light rig is full")

// LightSource is a point light with linear RGB radiance.
// Color components are not range checked.
type LightSource struct {
	position math3d.Vec3
	color    math3d.Vec3
	active   bool
}

// NewLightSource creates an inactive light at position with the given color.
func NewLightSource(position, color math3d.Vec3) LightSource {
	return LightSource{position: position, color: color}
}

// Position returns the light position.
func (l *LightSource) Position() math3d.Vec3 { return l.position }

// Color returns the light radiance.
func (l *LightSource) Color() math3d.Vec3 { return l.color }

// IsActive reports whether the light contributes to shading.
func (l *LightSource) IsActive() bool { return l.active }

// Activate turns the light on.
func (l *LightSource) Activate() { l.active = true }

// Deactivate turns the light off.
func (l *LightSource) Deactivate() { l.active = false }

// Toggle flips the active state and returns the new state.
func (l *LightSource) Toggle() bool {
	l.active = !l.active
	return l.active
}

// MoveBy translates the light along one axis.
func (l *LightSource) MoveBy(axis math3d.Axis, delta float64) {
	l.position = l.position.Offset(axis, delta)
}

// LightRig is a fixed-capacity set of lights.
type LightRig struct {
	lights [MaxLights]LightSource
	n      int
}

// NewLightRig returns a rig holding the given lights.
func NewLightRig(lights ...LightSource) (*LightRig, error) {
	rig := &LightRig{}
	for _, l := range lights {
		if _, err := rig.Add(l); err != nil {
			return nil, err
		}
	}
	return rig, nil
}

// DefaultLightRig returns the viewer's three startup lights, all active.
// Light 2 is the one moved by the interactive controls.
func DefaultLightRig() *LightRig {
	rig := &LightRig{}
	for _, l := range [...]LightSource{
		NewLightSource(math3d.V3(1, 1, 1), math3d.V3(1, 0.9, 0.8)),
		NewLightSource(math3d.V3(-2, -1, -1), math3d.V3(1, 0.8, 1)),
		NewLightSource(math3d.V3(0, 1, 1), math3d.V3(1, 0, 0)),
	} {
		l.Activate()
		rig.Add(l) //nolint:errcheck // three lights always fit
	}
	return rig
}

// Add appends a light and returns its index.
func (r *LightRig) Add(l LightSource) (int, error) {
	if r.n == MaxLights {
		return -1, ErrTooManyLights
	}
	r.lights[r.n] = l
	r.n++
	return r.n - 1, nil
}

// Len returns the number of lights in the rig.
func (r *LightRig) Len() int { return r.n }

// Light returns the light at index i, or nil when i is out of range.
func (r *LightRig) Light(i int) *LightSource {
	if i < 0 || i >= r.n {
		return nil
	}
	return &r.lights[i]
}

// ActiveCount returns the number of active lights.
func (r *LightRig) ActiveCount() int {
	count := 0
	for i := range r.n {
		if r.lights[i].active {
			count++
		}
	}
	return count
}

// Active returns copies of the active lights in index order.
func (r *LightRig) Active() []LightSource {
	out := make([]LightSource, 0, r.n)
	for i := range r.n {
		if r.lights[i].active {
			out = append(out, r.lights[i])
		}
	}
	return out
}
