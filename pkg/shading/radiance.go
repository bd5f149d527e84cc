package shading

import (
	"context"
	"errors"
	"math"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/taigrr/brdfview/pkg/math3d"
)

// ErrLengthMismatch is returned when the color buffer cannot hold one entry
// per vertex.
var ErrLengthMismatch = errors.New("color buffer shorter than vertex count")

// Attenuation defines the falloff 1 / (c + l*d + q*d^2).
type Attenuation struct {
	Constant  float64
	Linear    float64
	Quadratic float64
}

// DefaultAttenuation is pure inverse-linear falloff.
func DefaultAttenuation() Attenuation {
	return Attenuation{Linear: 1}
}

// Factor returns the attenuation at distance d. The denominator is floored at
// Epsilon so a light sitting on a vertex stays finite.
func (a Attenuation) Factor(d float64) float64 {
	return 1 / math.Max(a.Constant+a.Linear*d+a.Quadratic*d*d, Epsilon)
}

// Geometry is the read-only vertex data the aggregator shades.
// Positions and normals are index aligned.
type Geometry interface {
	VertexCount() int
	VertexPosition(i int) math3d.Vec3
	VertexNormal(i int) math3d.Vec3
}

// Scene holds everything besides geometry that one shading pass reads.
type Scene struct {
	Viewer      math3d.Vec3
	Lights      *LightRig
	Material    Material
	Attenuation Attenuation
}

// Radiance returns the outgoing radiance at a surface point x with unit
// normal n, summed over lights.
func Radiance(x, n, viewer math3d.Vec3, lights []LightSource, mat Material, att Attenuation) math3d.Vec3 {
	var sum math3d.Vec3
	wo := viewer.Sub(x).Normalize()
	for i := range lights {
		l := &lights[i]
		wi := l.position.Sub(x).Normalize()
		cosTheta := n.Dot(wi)
		if cosTheta <= 0 {
			continue
		}
		wh := wi.Add(wo).Normalize()
		f := mat.Evaluate(n, wi, wo, wh)
		sum = sum.Add(l.color.Scale(f * cosTheta * att.Factor(l.position.Distance(x))))
	}
	return sum
}

// Shade overwrites dst[:geom.VertexCount()] with per-vertex radiance.
func Shade(dst []math3d.Vec3, geom Geometry, scene Scene) error {
	n := geom.VertexCount()
	if len(dst) < n {
		return ErrLengthMismatch
	}
	shadeRange(dst, geom, scene, activeLights(scene.Lights), 0, n)
	return nil
}

func activeLights(rig *LightRig) []LightSource {
	if rig == nil {
		return nil
	}
	return rig.Active()
}

func shadeRange(dst []math3d.Vec3, geom Geometry, scene Scene, lights []LightSource, start, end int) {
	for i := start; i < end; i++ {
		dst[i] = Radiance(
			geom.VertexPosition(i),
			geom.VertexNormal(i),
			scene.Viewer,
			lights,
			scene.Material,
			scene.Attenuation,
		)
	}
}

// Engine shades geometry, splitting large meshes across goroutines.
// The zero value shades sequentially.
type Engine struct {
	// Workers bounds concurrent chunks. Values <= 1 shade on the caller's
	// goroutine.
	Workers int

	// ChunkSize is the number of vertices per task. Defaults to 1024.
	ChunkSize int
}

// NewEngine returns an engine using one worker per CPU.
func NewEngine() *Engine {
	return &Engine{Workers: runtime.NumCPU(), ChunkSize: 1024}
}

// Shade writes per-vertex radiance into dst. The result is identical to the
// package-level Shade; chunks write disjoint ranges of dst. A cancelled ctx
// stops scheduling new chunks and its error is returned.
func (e *Engine) Shade(ctx context.Context, dst []math3d.Vec3, geom Geometry, scene Scene) error {
	n := geom.VertexCount()
	if len(dst) < n {
		return ErrLengthMismatch
	}

	chunk := e.ChunkSize
	if chunk <= 0 {
		chunk = 1024
	}
	lights := activeLights(scene.Lights)

	if e.Workers <= 1 || n <= chunk {
		if err := ctx.Err(); err != nil {
			return err
		}
		shadeRange(dst, geom, scene, lights, 0, n)
		return nil
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(e.Workers)
	for start := 0; start < n; start += chunk {
		if gctx.Err() != nil {
			break
		}
		end := min(start+chunk, n)
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			shadeRange(dst, geom, scene, lights, start, end)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}
	return ctx.Err()
}
