package shading

import (
	"context"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taigrr/brdfview/pkg/math3d"
)

type testGeometry struct {
	positions []math3d.Vec3
	normals   []math3d.Vec3
}

func (g *testGeometry) VertexCount() int { return len(g.positions) }

func (g *testGeometry) VertexPosition(i int) math3d.Vec3 { return g.positions[i] }

func (g *testGeometry) VertexNormal(i int) math3d.Vec3 { return g.normals[i] }

// sphereGeometry samples n points on a unit sphere with outward normals.
func sphereGeometry(n int) *testGeometry {
	g := &testGeometry{
		positions: make([]math3d.Vec3, n),
		normals:   make([]math3d.Vec3, n),
	}
	golden := math.Pi * (3 - math.Sqrt(5))
	for i := range n {
		y := 1 - 2*(float64(i)+0.5)/float64(n)
		r := math.Sqrt(1 - y*y)
		phi := golden * float64(i)
		p := math3d.V3(r*math.Cos(phi), y, r*math.Sin(phi))
		g.positions[i] = p
		g.normals[i] = p
	}
	return g
}

func singleVertex(pos, normal math3d.Vec3) *testGeometry {
	return &testGeometry{
		positions: []math3d.Vec3{pos},
		normals:   []math3d.Vec3{normal},
	}
}

func oneLight(pos, color math3d.Vec3) *LightRig {
	l := NewLightSource(pos, color)
	l.Activate()
	rig, _ := NewLightRig(l)
	return rig
}

func TestHeadOnDiffuseScenario(t *testing.T) {
	scene := Scene{
		Viewer:      math3d.V3(0, 0, 5),
		Lights:      oneLight(math3d.V3(0, 0, 5), math3d.V3(1, 1, 1)),
		Material:    Material{Kd: math.Pi, Ks: 0, Model: BlinnPhong},
		Attenuation: DefaultAttenuation(),
	}
	geom := singleVertex(math3d.Zero3(), math3d.V3(0, 0, 1))

	dst := make([]math3d.Vec3, 1)
	require.NoError(t, Shade(dst, geom, scene))

	assert.True(t, dst[0].ApproxEqual(math3d.V3(0.2, 0.2, 0.2), 1e-12), "got %v", dst[0])
}

func TestNoActiveLightsGivesBlack(t *testing.T) {
	rig := DefaultLightRig()
	for i := range rig.Len() {
		rig.Light(i).Deactivate()
	}
	geom := sphereGeometry(64)
	dst := make([]math3d.Vec3, geom.VertexCount())
	for i := range dst {
		dst[i] = math3d.V3(9, 9, 9)
	}

	scene := Scene{Viewer: math3d.V3(0, 0, 5), Lights: rig, Material: DefaultMaterial(), Attenuation: DefaultAttenuation()}
	require.NoError(t, Shade(dst, geom, scene))

	for i, c := range dst {
		if c != math3d.Zero3() {
			t.Fatalf("vertex %d: got %v, want black", i, c)
		}
	}
}

func TestBackFacingLightContributesNothing(t *testing.T) {
	x := math3d.Zero3()
	n := math3d.V3(0, 0, 1)
	lights := oneLight(math3d.V3(0, 0, -3), math3d.V3(1, 1, 1)).Active()

	for _, model := range []SpecularModel{BlinnPhong, CookTorrance, GGXSmith, GGXSchlick} {
		mat := DefaultMaterial()
		mat.Model = model
		got := Radiance(x, n, math3d.V3(0, 0, 5), lights, mat, DefaultAttenuation())
		assert.Equal(t, math3d.Zero3(), got, model.String())
	}
}

func TestLightOnVertexStaysFinite(t *testing.T) {
	x := math3d.V3(0.3, -0.2, 0.1)
	lights := oneLight(x, math3d.V3(1, 1, 1)).Active()

	got := Radiance(x, math3d.V3(0, 1, 0), math3d.V3(0, 0, 5), lights, DefaultMaterial(), DefaultAttenuation())
	for _, v := range []float64{got.X, got.Y, got.Z} {
		assert.False(t, math.IsNaN(v) || math.IsInf(v, 0), "component %v", v)
	}
}

func TestRadianceScalesWithLightColor(t *testing.T) {
	x := math3d.Zero3()
	n := math3d.V3(0, 0, 1)
	viewer := math3d.V3(1, 0, 4)
	pos := math3d.V3(-1, 1, 3)
	mat := DefaultMaterial()

	white := Radiance(x, n, viewer, oneLight(pos, math3d.V3(1, 1, 1)).Active(), mat, DefaultAttenuation())
	tinted := Radiance(x, n, viewer, oneLight(pos, math3d.V3(2, 0.5, 0)).Active(), mat, DefaultAttenuation())

	assert.InDelta(t, 2*white.X, tinted.X, 1e-12)
	assert.InDelta(t, 0.5*white.Y, tinted.Y, 1e-12)
	assert.Zero(t, tinted.Z)
}

func TestLightsSumIndependently(t *testing.T) {
	x := math3d.Zero3()
	n := math3d.V3(0, 0, 1)
	viewer := math3d.V3(0, 0, 5)
	mat := DefaultMaterial()
	att := DefaultAttenuation()

	rig := DefaultLightRig()
	all := Radiance(x, n, viewer, rig.Active(), mat, att)

	var sum math3d.Vec3
	for _, l := range rig.Active() {
		sum = sum.Add(Radiance(x, n, viewer, []LightSource{l}, mat, att))
	}
	assert.True(t, all.ApproxEqual(sum, 1e-12), "sum %v vs %v", sum, all)
}

func TestAttenuationFactor(t *testing.T) {
	tests := []struct {
		name string
		att  Attenuation
		d    float64
		want float64
	}{
		{"inverse linear", DefaultAttenuation(), 5, 0.2},
		{"constant", Attenuation{Constant: 1}, 100, 1},
		{"quadratic", Attenuation{Constant: 1, Linear: 0, Quadratic: 1}, 3, 0.1},
		{"zero distance floored", DefaultAttenuation(), 0, 1 / Epsilon},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.InDelta(t, tc.want, tc.att.Factor(tc.d), 1e-9)
		})
	}
}

func TestShadeLengthMismatch(t *testing.T) {
	geom := sphereGeometry(8)
	scene := Scene{Lights: DefaultLightRig(), Material: DefaultMaterial(), Attenuation: DefaultAttenuation()}

	err := Shade(make([]math3d.Vec3, 4), geom, scene)
	assert.ErrorIs(t, err, ErrLengthMismatch)

	err = NewEngine().Shade(context.Background(), make([]math3d.Vec3, 4), geom, scene)
	assert.ErrorIs(t, err, ErrLengthMismatch)
}

func TestEngineMatchesSequential(t *testing.T) {
	geom := sphereGeometry(5000)
	scene := Scene{
		Viewer:      math3d.V3(0, 0.5, 4),
		Lights:      DefaultLightRig(),
		Material:    DefaultMaterial(),
		Attenuation: DefaultAttenuation(),
	}

	want := make([]math3d.Vec3, geom.VertexCount())
	require.NoError(t, Shade(want, geom, scene))

	engines := map[string]*Engine{
		"zero value": {},
		"parallel":   {Workers: 4, ChunkSize: 333},
		"default":    NewEngine(),
	}
	for name, e := range engines {
		t.Run(name, func(t *testing.T) {
			got := make([]math3d.Vec3, geom.VertexCount())
			require.NoError(t, e.Shade(context.Background(), got, geom, scene))
			assert.Equal(t, want, got)
		})
	}
}

func TestEngineCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	geom := sphereGeometry(4096)
	scene := Scene{Lights: DefaultLightRig(), Material: DefaultMaterial(), Attenuation: DefaultAttenuation()}
	dst := make([]math3d.Vec3, geom.VertexCount())

	for _, e := range []*Engine{{}, {Workers: 4, ChunkSize: 256}} {
		assert.ErrorIs(t, e.Shade(ctx, dst, geom, scene), context.Canceled)
	}
}

func BenchmarkShade(b *testing.B) {
	geom := sphereGeometry(10000)
	scene := Scene{
		Viewer:      math3d.V3(0, 0, 5),
		Lights:      DefaultLightRig(),
		Material:    DefaultMaterial(),
		Attenuation: DefaultAttenuation(),
	}
	dst := make([]math3d.Vec3, geom.VertexCount())

	b.Run("sequential", func(b *testing.B) {
		for b.Loop() {
			Shade(dst, geom, scene)
		}
	})

	b.Run("engine", func(b *testing.B) {
		e := NewEngine()
		ctx := context.Background()
		for b.Loop() {
			e.Shade(ctx, dst, geom, scene)
		}
	})
}
