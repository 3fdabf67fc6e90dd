package render

import (
	"io"

	"github.com/chewxy/math32"
	"github.com/hschendel/stl"
	"github.com/soypat/fusion"
	"gonum.org/v1/gonum/spatial/r3"
)

// ToSolid converts a mesh to an STL solid. Degenerate triangles are kept
// with a zero normal. Non finite vertices are an ErrGeometry error.
func ToSolid(name string, model []Triangle3) (*stl.Solid, error) {
	if len(model) == 0 {
		return nil, fusion.Errorf(fusion.ErrGeometry, "%s: empty triangle slice", name)
	}
	solid := &stl.Solid{
		Name:         name,
		BinaryHeader: binaryHeader(name),
		Triangles:    make([]stl.Triangle, len(model)),
	}
	for i, t := range model {
		var st stl.Triangle
		for j, v := range t {
			st.Vertices[j] = toVec3(v)
			if bad3F32(st.Vertices[j]) {
				return nil, fusion.Errorf(fusion.ErrGeometry, "%s: triangle %d has non finite vertex %v", name, i, v)
			}
		}
		if n := toVec3(t.Normal()); !bad3F32(n) {
			st.Normal = n
		}
		solid.Triangles[i] = st
	}
	return solid, nil
}

// WriteSTL writes model triangles to w in binary STL format.
func WriteSTL(w io.Writer, name string, model []Triangle3) error {
	solid, err := ToSolid(name, model)
	if err != nil {
		return err
	}
	return solid.WriteAll(w)
}

// CreateSTL meshes the triangles of r and writes them to a binary STL
// file at path. It returns the number of triangles written.
func CreateSTL(path, name string, r Renderer) (int, error) {
	model, err := RenderAll(r)
	if err != nil {
		return 0, err
	}
	solid, err := ToSolid(name, model)
	if err != nil {
		return 0, err
	}
	return len(model), solid.WriteFile(path)
}

// ReadSTL reads an ASCII or binary STL file.
func ReadSTL(path string) ([]Triangle3, error) {
	solid, err := stl.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return fromSolid(solid), nil
}

// ReadSTLFrom reads an ASCII or binary STL stream.
func ReadSTLFrom(r io.ReadSeeker) ([]Triangle3, error) {
	solid, err := stl.ReadAll(r)
	if err != nil {
		return nil, err
	}
	return fromSolid(solid), nil
}

func fromSolid(solid *stl.Solid) []Triangle3 {
	model := make([]Triangle3, len(solid.Triangles))
	for i, t := range solid.Triangles {
		for j, v := range t.Vertices {
			model[i][j] = r3.Vec{X: float64(v[0]), Y: float64(v[1]), Z: float64(v[2])}
		}
	}
	return model
}

// binaryHeader returns the 80 byte header of binary STL files. It must
// not start with "solid" or readers take the file for ASCII.
func binaryHeader(name string) []byte {
	h := make([]byte, 80)
	copy(h, "fusion binary stl: "+name)
	return h
}

func toVec3(v r3.Vec) stl.Vec3 {
	return stl.Vec3{float32(v.X), float32(v.Y), float32(v.Z)}
}

func bad3F32(f [3]float32) bool {
	return math32.IsNaN(f[0]) || math32.IsInf(f[0], 0) ||
		math32.IsNaN(f[1]) || math32.IsInf(f[1], 0) ||
		math32.IsNaN(f[2]) || math32.IsInf(f[2], 0)
}
