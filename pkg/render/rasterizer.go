// Package render provides software rasterization of shaded meshes for brdfview.
package render

import (
	"errors"
	"math"

	"github.com/taigrr/brdfview/pkg/math3d"
)

// ErrColorCount is returned when a mesh is drawn with fewer colors than
// vertices.
var ErrColorCount = errors.New("fewer vertex colors than vertices")

// Vertex is a world-space position with the color computed for it.
type Vertex struct {
	Position math3d.Vec3
	Color    Color
}

// Triangle represents a triangle to be rasterized.
type Triangle struct {
	V [3]Vertex
}

// Rasterizer handles software triangle rasterization.
type Rasterizer struct {
	camera                 *Camera
	fb                     *Framebuffer
	zbuffer                []float64    // Depth buffer (1D array, row-major)
	frustum                Frustum      // Cached frustum planes
	frustumDirty           bool         // Whether frustum needs recalculation
	CullingStats           CullingStats // Statistics for debugging/benchmarking
	DisableBackfaceCulling bool         // If true, render both sides of triangles
}

// CullingStats tracks frustum culling performance.
type CullingStats struct {
	MeshesTested int
	MeshesCulled int
	MeshesDrawn  int
}

// NewRasterizer creates a new rasterizer.
func NewRasterizer(camera *Camera, fb *Framebuffer) *Rasterizer {
	r := &Rasterizer{
		camera:       camera,
		fb:           fb,
		frustumDirty: true,
	}
	r.Resize()
	return r
}

// Resize reallocates and clears the depth buffer to match the framebuffer.
func (r *Rasterizer) Resize() {
	if r.fb == nil {
		r.zbuffer = nil
		return
	}
	r.zbuffer = make([]float64, r.fb.Width*r.fb.Height)
	r.ClearDepth()
}

// Width returns the framebuffer width.
func (r *Rasterizer) Width() int {
	if r.fb == nil {
		return 0
	}
	return r.fb.Width
}

// Height returns the framebuffer height.
func (r *Rasterizer) Height() int {
	if r.fb == nil {
		return 0
	}
	return r.fb.Height
}

// ClearDepth clears the Z-buffer (call before each frame).
func (r *Rasterizer) ClearDepth() {
	n := len(r.zbuffer)
	if n == 0 {
		return
	}
	r.zbuffer[0] = math.MaxFloat64
	for i := 1; i < n; i *= 2 {
		copy(r.zbuffer[i:], r.zbuffer[:i])
	}
}

// InvalidateFrustum marks the frustum as needing recalculation.
// Call this when the camera moves or rotates.
func (r *Rasterizer) InvalidateFrustum() {
	r.frustumDirty = true
}

// UpdateFrustum recalculates the frustum planes from the camera.
func (r *Rasterizer) UpdateFrustum() {
	if r.frustumDirty {
		r.frustum = r.camera.Frustum()
		r.frustumDirty = false
	}
}

// ResetCullingStats resets the culling statistics (call once per frame).
func (r *Rasterizer) ResetCullingStats() {
	r.CullingStats = CullingStats{}
}

// IsVisible tests if a world-space AABB is visible in the frustum.
func (r *Rasterizer) IsVisible(worldBounds AABB) bool {
	r.UpdateFrustum()
	return r.frustum.IntersectAABB(worldBounds)
}

func (r *Rasterizer) getDepth(x, y int) float64 {
	if x < 0 || x >= r.Width() || y < 0 || y >= r.Height() {
		return math.MaxFloat64
	}
	return r.zbuffer[y*r.Width()+x]
}

func (r *Rasterizer) setDepth(x, y int, z float64) {
	if x < 0 || x >= r.Width() || y < 0 || y >= r.Height() {
		return
	}
	r.zbuffer[y*r.Width()+x] = z
}

// screenVertex holds a vertex transformed to screen space.
type screenVertex struct {
	X, Y float64 // Screen coordinates
	Z    float64 // Depth (for Z-buffer)
	W    float64 // Clip W, for perspective-correct interpolation
}

func (r *Rasterizer) project(viewProj math3d.Mat4, p math3d.Vec3) screenVertex {
	clip := viewProj.MulVec4(math3d.V4FromV3(p, 1))
	sv := screenVertex{W: clip.W}
	if clip.W != 0 {
		invW := 1.0 / clip.W
		sv.X = clip.X * invW
		sv.Y = clip.Y * invW
		sv.Z = clip.Z * invW
	}
	sv.X = (sv.X + 1) * 0.5 * float64(r.Width())
	sv.Y = (1 - sv.Y) * 0.5 * float64(r.Height()) // Y flipped
	return sv
}

// edgeCoeffs returns A, B, C for the edge function A*x + B*y + C, which is
// positive to the left of the edge (x0,y0)->(x1,y1).
func edgeCoeffs(x0, y0, x1, y1 float64) (A, B, C float64) {
	A = y0 - y1
	B = x1 - x0
	C = x0*y1 - x1*y0
	return
}

func edgeFunc(A, B, C, x, y float64) float64 {
	return A*x + B*y + C
}

// DrawTriangle rasterizes a triangle, interpolating the vertex colors with
// perspective correction. Edge functions are stepped incrementally across
// the bounding box.
func (r *Rasterizer) DrawTriangle(tri Triangle) {
	viewProj := r.camera.ViewProjectionMatrix()

	var sv [3]screenVertex
	allBehind := true
	for i := range 3 {
		sv[i] = r.project(viewProj, tri.V[i].Position)
		if sv[i].W > 0 {
			allBehind = false
		}
	}
	if allBehind {
		return
	}

	// Screen-space winding; the signed area doubles as the barycentric
	// normalizer.
	area2 := (sv[1].X-sv[0].X)*(sv[2].Y-sv[0].Y) - (sv[1].Y-sv[0].Y)*(sv[2].X-sv[0].X)
	if area2 == 0 {
		return
	}
	if area2 < 0 {
		if !r.DisableBackfaceCulling {
			return
		}
		sv[1], sv[2] = sv[2], sv[1]
		tri.V[1], tri.V[2] = tri.V[2], tri.V[1]
		area2 = -area2
	}

	minX := int(math.Max(0, math.Floor(min3(sv[0].X, sv[1].X, sv[2].X))))
	maxX := int(math.Min(float64(r.Width()-1), math.Ceil(max3(sv[0].X, sv[1].X, sv[2].X))))
	minY := int(math.Max(0, math.Floor(min3(sv[0].Y, sv[1].Y, sv[2].Y))))
	maxY := int(math.Min(float64(r.Height()-1), math.Ceil(max3(sv[0].Y, sv[1].Y, sv[2].Y))))
	if minX > maxX || minY > maxY {
		return
	}

	// Edge i is opposite vertex i.
	A0, B0, C0 := edgeCoeffs(sv[1].X, sv[1].Y, sv[2].X, sv[2].Y)
	A1, B1, C1 := edgeCoeffs(sv[2].X, sv[2].Y, sv[0].X, sv[0].Y)
	A2, B2, C2 := edgeCoeffs(sv[0].X, sv[0].Y, sv[1].X, sv[1].Y)
	invArea := 1.0 / area2

	var invW [3]float64
	for i := range 3 {
		if sv[i].W != 0 {
			invW[i] = 1.0 / sv[i].W
		}
	}

	px := float64(minX) + 0.5
	py := float64(minY) + 0.5
	w0Row := edgeFunc(A0, B0, C0, px, py)
	w1Row := edgeFunc(A1, B1, C1, px, py)
	w2Row := edgeFunc(A2, B2, C2, px, py)

	width := r.Width()
	for y := minY; y <= maxY; y++ {
		w0, w1, w2 := w0Row, w1Row, w2Row
		rowOffset := y * width

		for x := minX; x <= maxX; x++ {
			if w0 >= 0 && w1 >= 0 && w2 >= 0 {
				bc0 := w0 * invArea
				bc1 := w1 * invArea
				bc2 := w2 * invArea

				z := bc0*sv[0].Z + bc1*sv[1].Z + bc2*sv[2].Z
				idx := rowOffset + x
				if z < r.zbuffer[idx] {
					pw0, pw1, pw2 := bc0*invW[0], bc1*invW[1], bc2*invW[2]
					if sum := pw0 + pw1 + pw2; sum != 0 {
						inv := 1.0 / sum
						bc := math3d.V3(pw0*inv, pw1*inv, pw2*inv)
						r.zbuffer[idx] = z
						r.fb.SetPixel(x, y, interpolateColor3(tri.V[0].Color, tri.V[1].Color, tri.V[2].Color, bc))
					}
				}
			}
			w0 += A0
			w1 += A1
			w2 += A2
		}
		w0Row += B0
		w1Row += B1
		w2Row += B2
	}
}

// interpolateColor3 interpolates between 3 colors using barycentric coords.
func interpolateColor3(c0, c1, c2 Color, bc math3d.Vec3) Color {
	mix := func(a, b, c uint8) uint8 {
		v := float64(a)*bc.X + float64(b)*bc.Y + float64(c)*bc.Z + 0.5
		return uint8(math.Max(0, math.Min(255, v)))
	}
	return RGB(mix(c0.R, c1.R, c2.R), mix(c0.G, c1.G, c2.G), mix(c0.B, c1.B, c2.B))
}

func min3(a, b, c float64) float64 {
	return math.Min(a, math.Min(b, c))
}

func max3(a, b, c float64) float64 {
	return math.Max(a, math.Max(b, c))
}

// MeshRenderer is the read-only mesh view the rasterizer draws.
// It keeps this package independent of the models package.
type MeshRenderer interface {
	VertexCount() int
	TriangleCount() int
	GetVertex(i int) (pos, normal math3d.Vec3)
	GetFace(i int) [3]int
}

// BoundedMeshRenderer extends MeshRenderer with bounding box support for frustum culling.
type BoundedMeshRenderer interface {
	MeshRenderer
	GetBounds() (min, max math3d.Vec3)
}

// tryFrustumCull reports whether a mesh with bounds lies fully outside the
// frustum after transform. Meshes without bounds are never culled.
func (r *Rasterizer) tryFrustumCull(mesh MeshRenderer, transform math3d.Mat4) bool {
	bounded, ok := mesh.(BoundedMeshRenderer)
	if !ok {
		return false
	}

	r.CullingStats.MeshesTested++

	minBounds, maxBounds := bounded.GetBounds()
	if !r.IsVisible(NewAABB(minBounds, maxBounds).Transform(transform)) {
		r.CullingStats.MeshesCulled++
		return true
	}

	r.CullingStats.MeshesDrawn++
	return false
}

// DrawMeshShaded renders a mesh with Gouraud interpolation of one color per
// vertex, typically the tone-mapped output of the shading engine. It returns
// ErrColorCount when colors is shorter than the vertex count.
func (r *Rasterizer) DrawMeshShaded(mesh MeshRenderer, transform math3d.Mat4, colors []Color) error {
	if len(colors) < mesh.VertexCount() {
		return ErrColorCount
	}
	if r.tryFrustumCull(mesh, transform) {
		return nil
	}

	for i := range mesh.TriangleCount() {
		face := mesh.GetFace(i)
		var tri Triangle
		for j, idx := range face {
			p, _ := mesh.GetVertex(idx)
			tri.V[j] = Vertex{Position: transform.MulVec3(p), Color: colors[idx]}
		}
		r.DrawTriangle(tri)
	}
	return nil
}

// DrawMeshWireframe renders a mesh as wireframe.
// Automatically performs frustum culling if the mesh provides bounds.
func (r *Rasterizer) DrawMeshWireframe(mesh MeshRenderer, transform math3d.Mat4, color Color) {
	if r.tryFrustumCull(mesh, transform) {
		return
	}

	for i := range mesh.TriangleCount() {
		face := mesh.GetFace(i)

		p0, _ := mesh.GetVertex(face[0])
		p1, _ := mesh.GetVertex(face[1])
		p2, _ := mesh.GetVertex(face[2])

		v0 := transform.MulVec3(p0)
		v1 := transform.MulVec3(p1)
		v2 := transform.MulVec3(p2)

		r.drawLine3D(v0, v1, color)
		r.drawLine3D(v1, v2, color)
		r.drawLine3D(v2, v0, color)
	}
}

// drawLine3D draws a projected 3D line without depth testing.
func (r *Rasterizer) drawLine3D(a, b math3d.Vec3, color Color) {
	viewProj := r.camera.ViewProjectionMatrix()

	clipA := viewProj.MulVec4(math3d.V4FromV3(a, 1))
	clipB := viewProj.MulVec4(math3d.V4FromV3(b, 1))
	// Lines are not clipped, so both ends must be in front of the camera.
	if clipA.W <= 0 || clipB.W <= 0 {
		return
	}

	sa := r.project(viewProj, a)
	sb := r.project(viewProj, b)
	r.fb.DrawLine(int(sa.X), int(sa.Y), int(sb.X), int(sb.Y), color)
}
