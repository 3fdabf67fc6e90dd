// Package render turns solids into triangle meshes and writes meshes and
// profiles to exchange formats: STL, STEP, DXF, GeoJSON, plots and PNG
// previews. It also writes the neutronics description of a set of shapes.
package render

import (
	"errors"
	"io"

	"gonum.org/v1/gonum/spatial/r3"
)

// Triangle3 is a 3D triangle with counter clockwise vertices seen from
// outside the solid.
type Triangle3 [3]r3.Vec

// Normal returns the unit normal of the triangle.
func (t Triangle3) Normal() r3.Vec {
	e1 := r3.Sub(t[1], t[0])
	e2 := r3.Sub(t[2], t[0])
	return r3.Unit(r3.Cross(e1, e2))
}

// Degenerate returns true if the triangle has (nearly) zero area.
func (t Triangle3) Degenerate(tol float64) bool {
	return r3.Norm(r3.Cross(r3.Sub(t[1], t[0]), r3.Sub(t[2], t[0]))) <= tol
}

// Renderer produces the triangles of a mesh in batches.
type Renderer interface {
	// ReadTriangles fills dst and returns the number of triangles written.
	// It returns io.EOF once all triangles have been read.
	ReadTriangles(dst []Triangle3) (int, error)
}

// RenderAll drains r and returns every triangle of the mesh. Reaching
// io.EOF is not an error.
func RenderAll(r Renderer) ([]Triangle3, error) {
	mesh := make([]Triangle3, 0, 4096)
	batch := make([]Triangle3, 1024)
	for {
		n, err := r.ReadTriangles(batch)
		mesh = append(mesh, batch[:n]...)
		if errors.Is(err, io.EOF) {
			return mesh, nil
		} else if err != nil {
			return mesh, err
		}
	}
}
