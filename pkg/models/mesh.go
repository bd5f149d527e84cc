// Package models provides triangle mesh loading and representation for brdfview.
package models

import (
	"fmt"

	"github.com/taigrr/brdfview/pkg/math3d"
)

// Mesh is an indexed triangle mesh with per-vertex normals.
type Mesh struct {
	Name     string
	Vertices []MeshVertex
	Faces    []Face

	// Bounding box (calculated on load)
	BoundsMin math3d.Vec3
	BoundsMax math3d.Vec3
}

// MeshVertex holds the attributes the shading engine reads.
type MeshVertex struct {
	Position math3d.Vec3
	Normal   math3d.Vec3
}

// Face is a triangle referencing three entries of Mesh.Vertices, wound
// clockwise when seen from the front.
type Face struct {
	V [3]int
}

// addPolygon fan triangulates a counter-clockwise polygon, as found in OFF,
// OBJ and GLTF files, into clockwise faces.
func (m *Mesh) addPolygon(idx []int) {
	for i := 1; i+1 < len(idx); i++ {
		m.Faces = append(m.Faces, Face{V: [3]int{idx[0], idx[i+1], idx[i]}})
	}
}

func vec3(p [3]float64) math3d.Vec3 {
	return math3d.V3(p[0], p[1], p[2])
}

// NewMesh creates an empty mesh.
func NewMesh(name string) *Mesh {
	return &Mesh{
		Name:     name,
		Vertices: make([]MeshVertex, 0),
		Faces:    make([]Face, 0),
	}
}

// Validate checks that every face references an existing vertex.
func (m *Mesh) Validate() error {
	n := len(m.Vertices)
	for i, f := range m.Faces {
		for _, v := range f.V {
			if v < 0 || v >= n {
				return fmt.Errorf("face %d: vertex index %d out of range [0,%d)", i, v, n)
			}
		}
	}
	return nil
}

// CalculateBounds computes the axis-aligned bounding box.
func (m *Mesh) CalculateBounds() {
	if len(m.Vertices) == 0 {
		m.BoundsMin, m.BoundsMax = math3d.Zero3(), math3d.Zero3()
		return
	}

	m.BoundsMin = m.Vertices[0].Position
	m.BoundsMax = m.Vertices[0].Position

	for _, v := range m.Vertices[1:] {
		m.BoundsMin = m.BoundsMin.Min(v.Position)
		m.BoundsMax = m.BoundsMax.Max(v.Position)
	}
}

// Center returns the center of the bounding box.
func (m *Mesh) Center() math3d.Vec3 {
	return m.BoundsMin.Add(m.BoundsMax).Scale(0.5)
}

// Size returns the dimensions of the bounding box.
func (m *Mesh) Size() math3d.Vec3 {
	return m.BoundsMax.Sub(m.BoundsMin)
}

// TriangleCount returns the number of triangles.
func (m *Mesh) TriangleCount() int {
	return len(m.Faces)
}

// VertexCount returns the number of vertices.
func (m *Mesh) VertexCount() int {
	return len(m.Vertices)
}

// VertexPosition returns the position of vertex i.
func (m *Mesh) VertexPosition(i int) math3d.Vec3 {
	return m.Vertices[i].Position
}

// VertexNormal returns the unit normal of vertex i.
func (m *Mesh) VertexNormal(i int) math3d.Vec3 {
	return m.Vertices[i].Normal
}

// HasNormals reports whether any vertex carries a non-degenerate normal.
func (m *Mesh) HasNormals() bool {
	for _, v := range m.Vertices {
		if v.Normal.Len() > 0.001 {
			return true
		}
	}
	return false
}

// CalculateSmoothNormals computes area-weighted averaged vertex normals.
func (m *Mesh) CalculateSmoothNormals() {
	for i := range m.Vertices {
		m.Vertices[i].Normal = math3d.Zero3()
	}

	// Unnormalized cross products weight each face by its area. Faces are
	// stored clockwise, so the edges are crossed in reverse for outward normals.
	for _, f := range m.Faces {
		v0 := m.Vertices[f.V[0]].Position
		v1 := m.Vertices[f.V[1]].Position
		v2 := m.Vertices[f.V[2]].Position

		normal := v2.Sub(v0).Cross(v1.Sub(v0))

		for _, idx := range f.V {
			m.Vertices[idx].Normal = m.Vertices[idx].Normal.Add(normal)
		}
	}

	for i := range m.Vertices {
		m.Vertices[i].Normal = m.Vertices[i].Normal.Normalize()
	}
}

// Normalize centers the mesh on the origin and scales it so its largest
// dimension spans two units.
func (m *Mesh) Normalize() {
	m.CalculateBounds()
	maxDim := m.Size().MaxComponent()
	if maxDim <= 0 {
		return
	}
	scale := 2.0 / maxDim
	m.Transform(math3d.Scale(math3d.V3(scale, scale, scale)).Mul(math3d.Translate(m.Center().Negate())))
}

// Transform applies a transformation matrix to all vertices in place.
func (m *Mesh) Transform(mat math3d.Mat4) {
	m.TransformInto(m, mat)
}

// TransformInto writes the transformed vertices of m into dst, reusing dst's
// storage. Normals go through the inverse transpose so non-uniform scales keep
// them perpendicular to the surface. Faces are shared, not copied.
func (m *Mesh) TransformInto(dst *Mesh, mat math3d.Mat4) {
	normalMat := mat.NormalMatrix()

	if cap(dst.Vertices) < len(m.Vertices) {
		dst.Vertices = make([]MeshVertex, len(m.Vertices))
	}
	dst.Vertices = dst.Vertices[:len(m.Vertices)]

	for i, v := range m.Vertices {
		dst.Vertices[i] = MeshVertex{
			Position: mat.MulVec3(v.Position),
			Normal:   normalMat.MulVec3Dir(v.Normal).Normalize(),
		}
	}
	dst.Name = m.Name
	dst.Faces = m.Faces
	dst.CalculateBounds()
}

// GetVertex returns the position and normal for vertex i.
// Implements render.MeshRenderer interface.
func (m *Mesh) GetVertex(i int) (pos, normal math3d.Vec3) {
	v := m.Vertices[i]
	return v.Position, v.Normal
}

// GetFace returns the vertex indices for face i.
// Implements render.MeshRenderer interface.
func (m *Mesh) GetFace(i int) [3]int {
	return m.Faces[i].V
}

// GetBounds returns the axis-aligned bounding box.
// Implements render.BoundedMeshRenderer interface.
func (m *Mesh) GetBounds() (min, max math3d.Vec3) {
	return m.BoundsMin, m.BoundsMax
}
