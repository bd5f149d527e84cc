package models

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

const offPrealloc = 1 << 16

// LoadOFF loads a mesh in Object File Format. Polygons are fan triangulated
// and smooth normals are computed from the faces.
func LoadOFF(path string) (*Mesh, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open off: %w", err)
	}
	defer f.Close()

	mesh, err := ReadOFF(f)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	mesh.Name = filepath.Base(path)
	return mesh, nil
}

// ReadOFF parses OFF data from r.
func ReadOFF(r io.Reader) (*Mesh, error) {
	sc := &offScanner{s: bufio.NewScanner(r)}

	fields, err := sc.next()
	if err != nil {
		return nil, fmt.Errorf("header: %w", err)
	}
	if fields[0] != "OFF" {
		return nil, fmt.Errorf("header: expected OFF, got %q", fields[0])
	}
	// Counts may share the header line.
	fields = fields[1:]
	if len(fields) == 0 {
		if fields, err = sc.next(); err != nil {
			return nil, fmt.Errorf("counts: %w", err)
		}
	}
	if len(fields) < 2 {
		return nil, fmt.Errorf("line %d: expected vertex and face counts", sc.line)
	}
	nv, err := strconv.Atoi(fields[0])
	if err != nil || nv < 0 {
		return nil, fmt.Errorf("line %d: bad vertex count %q", sc.line, fields[0])
	}
	nf, err := strconv.Atoi(fields[1])
	if err != nil || nf < 0 {
		return nil, fmt.Errorf("line %d: bad face count %q", sc.line, fields[1])
	}

	// Header counts are untrusted; capacity grows past this by appending.
	mesh := NewMesh("")
	mesh.Vertices = make([]MeshVertex, 0, min(nv, offPrealloc))
	mesh.Faces = make([]Face, 0, min(nf, offPrealloc))

	for range nv {
		fields, err := sc.next()
		if err != nil {
			return nil, fmt.Errorf("vertex %d: %w", len(mesh.Vertices), err)
		}
		if len(fields) < 3 {
			return nil, fmt.Errorf("line %d: expected 3 coordinates", sc.line)
		}
		var p [3]float64
		for i := range p {
			if p[i], err = strconv.ParseFloat(fields[i], 64); err != nil {
				return nil, fmt.Errorf("line %d: %w", sc.line, err)
			}
		}
		mesh.Vertices = append(mesh.Vertices, MeshVertex{Position: vec3(p)})
	}

	for i := range nf {
		fields, err := sc.next()
		if err != nil {
			return nil, fmt.Errorf("face %d: %w", i, err)
		}
		k, err := strconv.Atoi(fields[0])
		if err != nil || k < 3 || k > len(fields)-1 {
			return nil, fmt.Errorf("line %d: bad polygon", sc.line)
		}
		// Trailing fields are per-face colors, which are ignored.
		idx := make([]int, k)
		for j := range k {
			if idx[j], err = strconv.Atoi(fields[j+1]); err != nil {
				return nil, fmt.Errorf("line %d: %w", sc.line, err)
			}
		}
		mesh.addPolygon(idx)
	}

	if err := mesh.Validate(); err != nil {
		return nil, err
	}
	mesh.CalculateSmoothNormals()
	mesh.CalculateBounds()
	return mesh, nil
}

// offScanner yields the fields of non-empty lines with comments stripped.
type offScanner struct {
	s    *bufio.Scanner
	line int
}

func (o *offScanner) next() ([]string, error) {
	for o.s.Scan() {
		o.line++
		text := o.s.Text()
		if i := strings.IndexByte(text, '#'); i >= 0 {
			text = text[:i]
		}
		if fields := strings.Fields(text); len(fields) > 0 {
			return fields, nil
		}
	}
	if err := o.s.Err(); err != nil {
		return nil, err
	}
	return nil, io.ErrUnexpectedEOF
}
