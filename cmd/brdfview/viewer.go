package main

import (
	"context"
	"fmt"
	"math"

	"github.com/taigrr/brdfview/pkg/config"
	"github.com/taigrr/brdfview/pkg/math3d"
	"github.com/taigrr/brdfview/pkg/models"
	"github.com/taigrr/brdfview/pkg/render"
	"github.com/taigrr/brdfview/pkg/shading"
)

const (
	minDistance = 1.0
	maxDistance = 20.0
	zoomStep    = 0.5
	axisLength  = 1.5
)

var wireColor = render.RGB(0, 255, 128)

// Scene is the shading state shared by every view of the model. Controls
// mutate it between frames only.
type Scene struct {
	Mesh        *models.Mesh // normalized model space
	Material    shading.Material
	Lights      *shading.LightRig
	Attenuation shading.Attenuation
	Controls    *shading.Controls
	Engine      *shading.Engine
	ToneMap     render.ToneMap
	Background  render.Color
	Wireframe   bool
	Axes        bool

	eye math3d.Vec3 // initial camera position
	fov float64     // radians
}

// NewScene builds the scene for mesh from a resolved config. The mesh is
// centered and scaled to span two units.
func NewScene(cfg *config.Config, mesh *models.Mesh) (*Scene, error) {
	lights, err := cfg.LightRig()
	if err != nil {
		return nil, fmt.Errorf("lights: %w", err)
	}
	mesh.Normalize()

	s := &Scene{
		Mesh:        mesh,
		Material:    cfg.ShadingMaterial(),
		Lights:      lights,
		Attenuation: cfg.ShadingAttenuation(),
		Engine:      cfg.Engine(),
		ToneMap:     cfg.RenderToneMap(),
		Background:  cfg.BackgroundColor(),
		Wireframe:   cfg.Render.Wireframe,
		Axes:        cfg.Render.Axes,
		eye:         cfg.CameraPosition(),
		fov:         cfg.Camera.FOV * math.Pi / 180,
	}
	s.Controls = shading.NewControls(&s.Material, s.Lights, cfg.ShadingSteps())
	return s, nil
}

// ShadingScene returns the inputs of one shading pass seen from viewer.
func (s *Scene) ShadingScene(viewer math3d.Vec3) shading.Scene {
	return shading.Scene{
		Viewer:      viewer,
		Lights:      s.Lights,
		Material:    s.Material,
		Attenuation: s.Attenuation,
	}
}

// View renders a Scene into its own framebuffer.
type View struct {
	scene *Scene

	camera  *render.Camera
	fb      *render.Framebuffer
	raster  *render.Rasterizer
	overlay *render.Overlay

	distance float64
	world    *models.Mesh // per-frame world-space copy of the mesh
	radiance []math3d.Vec3
	colors   []render.Color
}

// NewView creates a width x height pixel view looking at the origin from
// the scene's eye point.
func (s *Scene) NewView(width, height int) *View {
	fb := render.NewFramebuffer(width, height)
	camera := render.NewCamera()
	camera.SetFOV(s.fov)
	camera.SetClipPlanes(0.1, 100)

	v := &View{
		scene:    s,
		camera:   camera,
		fb:       fb,
		raster:   render.NewRasterizer(camera, fb),
		overlay:  render.NewOverlay(camera, fb),
		world:    models.NewMesh(s.Mesh.Name),
		radiance: make([]math3d.Vec3, s.Mesh.VertexCount()),
	}
	v.setAspect()
	v.ResetCamera()
	return v
}

func (v *View) setAspect() {
	if v.fb.Height > 0 {
		v.camera.SetAspectRatio(float64(v.fb.Width) / float64(v.fb.Height))
	}
	v.raster.InvalidateFrustum()
}

// Resize changes the pixel size of the view.
func (v *View) Resize(width, height int) {
	v.fb.Resize(width, height)
	v.raster.Resize()
	v.setAspect()
}

// ResetCamera returns the camera to the configured eye point.
func (v *View) ResetCamera() {
	v.distance = math.Max(minDistance, math.Min(maxDistance, v.scene.eye.Len()))
	v.placeCamera()
}

// Zoom moves the camera along its line of sight, staying between
// minDistance and maxDistance from the origin.
func (v *View) Zoom(delta float64) {
	v.distance = math.Max(minDistance, math.Min(maxDistance, v.distance+delta))
	v.placeCamera()
}

func (v *View) placeCamera() {
	dir := v.scene.eye.Normalize()
	if dir.Len() == 0 {
		dir = math3d.V3(0, 0, 1)
	}
	v.camera.SetPosition(dir.Scale(v.distance))
	v.camera.LookAt(math3d.Zero3())
	v.raster.InvalidateFrustum()
}

// Camera returns the view's camera; its position is the shading viewer.
func (v *View) Camera() *render.Camera { return v.camera }

// Framebuffer returns the last rendered frame.
func (v *View) Framebuffer() *render.Framebuffer { return v.fb }

// Render draws one frame with the model rotated by rot. Lights and the
// camera stay fixed in world space, so the mesh is moved into a world-space
// copy and shaded there.
func (v *View) Render(ctx context.Context, rot math3d.Mat4) error {
	s := v.scene
	s.Mesh.TransformInto(v.world, rot)

	v.fb.Clear(s.Background)
	v.raster.ClearDepth()
	v.raster.ResetCullingStats()

	identity := math3d.Identity()
	if s.Wireframe {
		v.raster.DrawMeshWireframe(v.world, identity, wireColor)
	} else {
		if err := s.Engine.Shade(ctx, v.radiance, v.world, s.ShadingScene(v.camera.Position)); err != nil {
			return fmt.Errorf("shade: %w", err)
		}
		v.colors = s.ToneMap.Apply(v.colors, v.radiance)
		if err := v.raster.DrawMeshShaded(v.world, identity, v.colors); err != nil {
			return fmt.Errorf("draw: %w", err)
		}
	}

	if s.Axes {
		v.overlay.DrawAxes(axisLength)
	}
	for i := range s.Lights.Len() {
		l := s.Lights.Light(i)
		v.overlay.DrawLightMarker(l.Position(), s.ToneMap.Color(l.Color()), l.IsActive())
	}
	return nil
}
