package models

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/fogleman/fauxgl"

	"github.com/taigrr/brdfview/pkg/math3d"
)

// Load opens a mesh file, choosing the loader from the extension:
// .off natively, .glb/.gltf through qmuntal/gltf and .obj/.stl/.ply/.3ds
// through fauxgl. The result has unit-length smooth normals and bounds set.
func Load(path string) (*Mesh, error) {
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".off":
		return LoadOFF(path)
	case ".glb", ".gltf":
		return LoadGLB(path)
	case ".obj", ".stl", ".ply", ".3ds":
		return LoadTriangleSoup(path)
	default:
		return nil, fmt.Errorf("unsupported format: %q (use .off, .obj, .stl, .ply, .3ds, .glb or .gltf)", ext)
	}
}

// LoadTriangleSoup loads any format fauxgl understands and welds vertices
// that share a position so the shading engine sees one normal per point.
func LoadTriangleSoup(path string) (*Mesh, error) {
	soup, err := fauxgl.LoadMesh(path)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", filepath.Base(path), err)
	}

	mesh := FromTriangles(soup.Triangles)
	mesh.Name = filepath.Base(path)
	return mesh, nil
}

// FromTriangles builds an indexed mesh from fauxgl triangles. Coincident
// positions are merged and normals are recomputed from the welded faces.
func FromTriangles(tris []*fauxgl.Triangle) *Mesh {
	mesh := NewMesh("")
	index := make(map[math3d.Vec3]int, len(tris))

	weld := func(v fauxgl.Vertex) int {
		p := math3d.V3(v.Position.X, v.Position.Y, v.Position.Z)
		if i, ok := index[p]; ok {
			return i
		}
		i := len(mesh.Vertices)
		index[p] = i
		mesh.Vertices = append(mesh.Vertices, MeshVertex{Position: p})
		return i
	}

	for _, t := range tris {
		a, b, c := weld(t.V1), weld(t.V2), weld(t.V3)
		if a == b || b == c || a == c {
			continue
		}
		mesh.addPolygon([]int{a, b, c})
	}

	mesh.CalculateSmoothNormals()
	mesh.CalculateBounds()
	return mesh
}
