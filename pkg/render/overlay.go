package render

import (
	"github.com/taigrr/brdfview/pkg/math3d"
)

// Overlay draws unshaded helpers on top of a frame: axes and light markers.
// Nothing it draws is depth tested.
type Overlay struct {
	camera *Camera
	fb     *Framebuffer
}

// NewOverlay creates an overlay for the camera and framebuffer.
func NewOverlay(camera *Camera, fb *Framebuffer) *Overlay {
	return &Overlay{camera: camera, fb: fb}
}

// DrawLine3D draws a line in 3D space when at least one end is on screen.
func (o *Overlay) DrawLine3D(p1, p2 math3d.Vec3, color Color) {
	x1, y1, _, vis1 := o.camera.WorldToScreen(p1, o.fb.Width, o.fb.Height)
	x2, y2, _, vis2 := o.camera.WorldToScreen(p2, o.fb.Width, o.fb.Height)
	if !vis1 || !vis2 {
		return
	}
	o.fb.DrawLine(int(x1), int(y1), int(x2), int(y2), color)
}

// DrawAxes draws the world X, Y and Z axes from the origin.
func (o *Overlay) DrawAxes(length float64) {
	origin := math3d.Zero3()
	o.DrawLine3D(origin, math3d.V3(length, 0, 0), ColorRed)
	o.DrawLine3D(origin, math3d.V3(0, length, 0), ColorGreen)
	o.DrawLine3D(origin, math3d.V3(0, 0, length), ColorBlue)
}

// DrawLightMarker draws a small square at a light's position: filled in the
// light's color when active, a gray outline when not. It reports whether the
// light was on screen.
func (o *Overlay) DrawLightMarker(pos math3d.Vec3, color Color, active bool) bool {
	x, y, _, visible := o.camera.WorldToScreen(pos, o.fb.Width, o.fb.Height)
	if !visible {
		return false
	}
	const size = 3
	px, py := int(x)-size/2, int(y)-size/2
	if active {
		o.fb.DrawRect(px, py, size, size, color)
	} else {
		o.fb.DrawRectOutline(px, py, size, size, ColorGray)
	}
	return true
}
