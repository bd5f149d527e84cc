package main

import (
	"context"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taigrr/brdfview/pkg/config"
	"github.com/taigrr/brdfview/pkg/math3d"
	"github.com/taigrr/brdfview/pkg/models"
	"github.com/taigrr/brdfview/pkg/render"
)

// quadMesh is a 2x2 square in the XY plane facing +Z, toward the default
// camera.
func quadMesh() *models.Mesh {
	m := models.NewMesh("quad")
	n := math3d.V3(0, 0, 1)
	for _, p := range []math3d.Vec3{
		math3d.V3(-1, -1, 0),
		math3d.V3(-1, 1, 0),
		math3d.V3(1, 1, 0),
		math3d.V3(1, -1, 0),
	} {
		m.Vertices = append(m.Vertices, models.MeshVertex{Position: p, Normal: n})
	}
	m.Faces = []models.Face{{V: [3]int{0, 1, 2}}, {V: [3]int{0, 2, 3}}}
	m.CalculateBounds()
	return m
}

func newTestScene(t *testing.T) *Scene {
	t.Helper()
	cfg := config.Default()
	cfg.Render.Workers = 2
	require.NoError(t, cfg.Resolve(config.Flags{}))

	s, err := NewScene(&cfg, quadMesh())
	require.NoError(t, err)
	return s
}

func centerPixel(v *View) render.Color {
	fb := v.Framebuffer()
	return fb.GetPixel(fb.Width/2, fb.Height/2)
}

func TestNewScene(t *testing.T) {
	s := newTestScene(t)
	assert.Equal(t, 3, s.Lights.Len())
	assert.Equal(t, &s.Material, s.Controls.Material)
	assert.Equal(t, render.RGB(30, 30, 40), s.Background)
	assert.InDelta(t, math.Pi/3, s.fov, 1e-12)

	shading := s.ShadingScene(math3d.V3(0, 0, 4))
	assert.Equal(t, s.Material, shading.Material)
	assert.Same(t, s.Lights, shading.Lights)
}

func TestViewRenderShadesModel(t *testing.T) {
	s := newTestScene(t)
	v := s.NewView(64, 48)

	require.NoError(t, v.Render(context.Background(), math3d.Identity()))

	c := centerPixel(v)
	assert.NotEqual(t, s.Background, c)
	assert.Greater(t, c.R, uint8(0), "lit by the warm front light")
	assert.Equal(t, math3d.V3(0, 0, 4), v.Camera().Position)
}

func TestViewRenderDarkWithoutLights(t *testing.T) {
	s := newTestScene(t)
	for i := range s.Lights.Len() {
		s.Lights.Light(i).Deactivate()
	}
	v := s.NewView(64, 48)
	require.NoError(t, v.Render(context.Background(), math3d.Identity()))

	assert.Equal(t, render.RGB(0, 0, 0), centerPixel(v))
}

func TestViewRenderBackFacingModelIsCulled(t *testing.T) {
	s := newTestScene(t)
	v := s.NewView(64, 48)

	require.NoError(t, v.Render(context.Background(), math3d.RotateY(math.Pi)))
	assert.Equal(t, s.Background, centerPixel(v))
}

func TestViewRenderWireframe(t *testing.T) {
	s := newTestScene(t)
	s.Wireframe = true
	v := s.NewView(64, 48)
	require.NoError(t, v.Render(context.Background(), math3d.Identity()))

	fb := v.Framebuffer()
	wire := 0
	for y := range fb.Height {
		for x := range fb.Width {
			if fb.GetPixel(x, y) == wireColor {
				wire++
			}
		}
	}
	assert.Greater(t, wire, 0)
}

func TestViewRenderCancelled(t *testing.T) {
	s := newTestScene(t)
	v := s.NewView(64, 48)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, v.Render(ctx, math3d.Identity()), context.Canceled)
}

func TestViewZoomClamps(t *testing.T) {
	s := newTestScene(t)
	v := s.NewView(64, 48)

	v.Zoom(-100)
	assert.InDelta(t, minDistance, v.Camera().Position.Len(), 1e-12)
	v.Zoom(100)
	assert.InDelta(t, maxDistance, v.Camera().Position.Len(), 1e-12)

	v.ResetCamera()
	assert.Equal(t, math3d.V3(0, 0, 4), v.Camera().Position)
}

func TestViewResize(t *testing.T) {
	s := newTestScene(t)
	v := s.NewView(64, 48)
	v.Resize(40, 20)

	assert.Equal(t, 40, v.Framebuffer().Width)
	assert.Equal(t, 20, v.Framebuffer().Height)
	assert.InDelta(t, 2.0, v.Camera().AspectRatio, 1e-12)
	require.NoError(t, v.Render(context.Background(), math3d.Identity()))
}
