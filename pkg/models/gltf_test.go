package models

import (
	"path/filepath"
	"testing"

	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"
)

func TestLoadGLBInvalidPath(t *testing.T) {
	_, err := LoadGLB("/nonexistent/path.glb")
	if err == nil {
		t.Error("Expected error for nonexistent file")
	}
}

func TestGLTFLoaderCreation(t *testing.T) {
	loader := NewGLTFLoader()
	if loader == nil {
		t.Fatal("NewGLTFLoader returned nil")
	}
	if !loader.CalculateNormals {
		t.Error("CalculateNormals should default to true")
	}
}

// writeQuadGLB saves a unit quad in the XY plane facing +Z.
func writeQuadGLB(t *testing.T, withNormals bool) string {
	t.Helper()

	doc := gltf.NewDocument()
	attrs := map[string]int{
		gltf.POSITION: modeler.WritePosition(doc, [][3]float32{
			{0, 0, 0}, {1, 0, 0}, {1, 1, 0}, {0, 1, 0},
		}),
	}
	if withNormals {
		attrs[gltf.NORMAL] = modeler.WriteNormal(doc, [][3]float32{
			{0, 0, 2}, {0, 0, 2}, {0, 0, 2}, {0, 0, 2},
		})
	}
	indices := modeler.WriteIndices(doc, []uint16{0, 1, 2, 0, 2, 3})
	doc.Meshes = []*gltf.Mesh{{
		Name: "quad",
		Primitives: []*gltf.Primitive{{
			Indices:    gltf.Index(indices),
			Attributes: attrs,
		}},
	}}

	path := filepath.Join(t.TempDir(), "quad.glb")
	if err := gltf.SaveBinary(doc, path); err != nil {
		t.Fatalf("save glb: %v", err)
	}
	return path
}

func TestLoadGLBQuad(t *testing.T) {
	for _, withNormals := range []bool{true, false} {
		mesh, err := LoadGLB(writeQuadGLB(t, withNormals))
		if err != nil {
			t.Fatalf("LoadGLB: %v", err)
		}

		if mesh.VertexCount() != 4 || mesh.TriangleCount() != 2 {
			t.Fatalf("got %d vertices, %d triangles; want 4, 2", mesh.VertexCount(), mesh.TriangleCount())
		}
		if mesh.Name != "quad.glb" {
			t.Errorf("Name = %q", mesh.Name)
		}
		// Winding is reversed on load.
		if got := mesh.GetFace(0); got != [3]int{0, 2, 1} {
			t.Errorf("face 0 = %v, want [0 2 1]", got)
		}
		for i := range mesh.VertexCount() {
			n := mesh.VertexNormal(i)
			if n.Z < 0.999 {
				t.Errorf("normals=%v: vertex %d normal %v, want +Z unit", withNormals, i, n)
			}
		}
	}
}
