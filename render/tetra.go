package render

import (
	"gonum.org/v1/gonum/spatial/r3"
)

// cubeCorners are the corner offsets of a unit cube. Corner 0 is the
// origin and corner 6 the opposite corner.
var cubeCorners = [8][3]int{
	{0, 0, 0}, {1, 0, 0}, {1, 1, 0}, {0, 1, 0},
	{0, 0, 1}, {1, 0, 1}, {1, 1, 1}, {0, 1, 1},
}

// cubeTetrahedra splits a cube into six tetrahedra around the 0-6
// diagonal. Faces shared by neighbouring cubes are split along the same
// diagonal so the resulting mesh is closed.
var cubeTetrahedra = [6][4]int{
	{0, 6, 1, 2},
	{0, 6, 2, 3},
	{0, 6, 3, 7},
	{0, 6, 7, 4},
	{0, 6, 4, 5},
	{0, 6, 5, 1},
}

// cubeMaxTriangles is the largest number of triangles a cube yields.
const cubeMaxTriangles = 2 * len(cubeTetrahedra)

// mtToTriangles writes the zero level set triangles of a cube with the
// given corner positions and distances to dst.
func mtToTriangles(dst []Triangle3, p [8]r3.Vec, v [8]float64) int {
	n := 0
	for _, tet := range cubeTetrahedra {
		var in, out [4]int
		var nin, nout int
		for _, c := range tet {
			if v[c] < 0 {
				in[nin] = c
				nin++
			} else {
				out[nout] = c
				nout++
			}
		}
		cross := func(a, b int) r3.Vec { return interpolate(p[a], p[b], v[a], v[b]) }
		switch nin {
		case 1:
			n += orient(dst[n:], cross(in[0], out[0]), cross(in[0], out[1]), cross(in[0], out[2]), p, in[:1], out[:3])
		case 3:
			n += orient(dst[n:], cross(out[0], in[0]), cross(out[0], in[1]), cross(out[0], in[2]), p, in[:3], out[:1])
		case 2:
			a := cross(in[0], out[0])
			b := cross(in[0], out[1])
			c := cross(in[1], out[1])
			d := cross(in[1], out[0])
			n += orient(dst[n:], a, b, c, p, in[:2], out[:2])
			n += orient(dst[n:], a, c, d, p, in[:2], out[:2])
		}
	}
	return n
}

// interpolate returns the zero crossing on the edge a-b. The result does
// not depend on the order of the end points, so tetrahedra sharing an edge
// get bit identical vertices.
func interpolate(a, b r3.Vec, va, vb float64) r3.Vec {
	if lessVec(b, a) {
		a, b, va, vb = b, a, vb, va
	}
	if va == vb {
		return r3.Scale(0.5, r3.Add(a, b))
	}
	t := va / (va - vb)
	return r3.Add(a, r3.Scale(t, r3.Sub(b, a)))
}

func lessVec(a, b r3.Vec) bool {
	if a.X != b.X {
		return a.X < b.X
	}
	if a.Y != b.Y {
		return a.Y < b.Y
	}
	return a.Z < b.Z
}

// orient writes triangle abc to dst with its normal pointing from the
// inside corners towards the outside corners.
func orient(dst []Triangle3, a, b, c r3.Vec, p [8]r3.Vec, in, out []int) int {
	var ci, co r3.Vec
	for _, i := range in {
		ci = r3.Add(ci, p[i])
	}
	for _, o := range out {
		co = r3.Add(co, p[o])
	}
	dir := r3.Sub(r3.Scale(1/float64(len(out)), co), r3.Scale(1/float64(len(in)), ci))
	t := Triangle3{a, b, c}
	if r3.Dot(r3.Cross(r3.Sub(b, a), r3.Sub(c, a)), dir) < 0 {
		t[1], t[2] = t[2], t[1]
	}
	dst[0] = t
	return 1
}
