package render

import (
	"io"
	"math"

	"github.com/soypat/fusion"
	"github.com/soypat/fusion/internal/d3"
	"gonum.org/v1/gonum/spatial/r3"
)

// octree renders a solid with marching tetrahedra over an octree of
// cubes. Cubes whose centre lies further from the surface than their half
// diagonal are pruned without subdividing.
type octree struct {
	dc   dc3
	todo []cube
	// triangles of the last processed cube that did not fit in dst.
	overflow []Triangle3
}

type cube struct {
	fusion.V3i      // origin of cube as integers
	n          uint // level of cube, size = 1 << n
}

// NewOctreeRenderer returns a Renderer meshing s with meshCells cells
// along the longest side of its bounding box.
func NewOctreeRenderer(s fusion.SDF3, meshCells int) (Renderer, error) {
	if meshCells < 2 {
		return nil, fusion.Errorf(fusion.ErrConfig, "mesh cells %d must be 2 or larger", meshCells)
	}
	if fusion.IsEmpty(s) {
		return nil, fusion.Errorf(fusion.ErrGeometry, "cannot mesh an empty solid")
	}
	// Scale the bounding box about the center to make sure the boundaries
	// aren't on the object surface.
	bb := d3.Box(s.Bounds())
	bb = bb.ScaleAboutCenter(1.01)
	longAxis := d3.Max(bb.Size())
	if !(longAxis > 0) || math.IsInf(longAxis, 0) {
		return nil, fusion.Errorf(fusion.ErrGeometry, "cannot mesh a solid with bounds %v", bb)
	}
	// The smallest cube (side == resolution) is tested for emptiness, so
	// the level 0 cube is at half resolution.
	resolution := 0.5 * longAxis / float64(meshCells)
	levels := uint(math.Ceil(math.Log2(longAxis/resolution))) + 1

	divisions := r3.Scale(1/resolution, bb.Size())
	maxCubes := int(divisions.X) * int(divisions.Y) * int(divisions.Z)
	cubes := make([]cube, 1, max(1, maxCubes/64))
	cubes[0] = cube{fusion.V3i{0, 0, 0}, levels - 1} // start at the top level
	return &octree{
		dc:       *newDc3(s, bb.Min, resolution, levels),
		overflow: make([]Triangle3, 0, cubeMaxTriangles),
		todo:     cubes,
	}, nil
}

// ReadTriangles writes triangles rendered from the model into dst.
func (oc *octree) ReadTriangles(dst []Triangle3) (n int, err error) {
	if len(dst) == 0 {
		return 0, fusion.Errorf(fusion.ErrConfig, "cannot read triangles into an empty buffer")
	}
	if len(oc.overflow) > 0 {
		n = copy(dst, oc.overflow)
		oc.overflow = oc.overflow[n:]
		if n == len(dst) {
			return n, nil
		}
	}
	if len(oc.todo) == 0 && len(oc.overflow) == 0 {
		return n, io.EOF
	}
	n += oc.readTriangles(dst[n:])
	return n, nil
}

func (oc *octree) readTriangles(dst []Triangle3) (n int) {
	cubesProcessed := 0
	var newCubes []cube
	for _, cube := range oc.todo {
		if n == len(dst) {
			break
		}
		if n+cubeMaxTriangles > len(dst) {
			// not enough room for the worst case, stash the overflow.
			var tmp [cubeMaxTriangles]Triangle3
			tri, cubes := oc.processCube(tmp[:], cube)
			oc.overflow = append(oc.overflow, tmp[:tri]...)
			newCubes = append(newCubes, cubes...)
			cubesProcessed++
			break
		}
		tri, cubes := oc.processCube(dst[n:], cube)
		newCubes = append(newCubes, cubes...)
		cubesProcessed++
		n += tri
	}
	oc.todo = append(oc.todo[cubesProcessed:], newCubes...)
	return n
}

// processCube generates the triangles of a leaf cube or the non empty
// sub cubes of a larger one.
func (oc *octree) processCube(dst []Triangle3, c cube) (writtenTriangles int, newCubes []cube) {
	if c.n == 1 {
		var corners [8]r3.Vec
		var values [8]float64
		for i, off := range cubeCorners {
			corners[i], values[i] = oc.dc.Evaluate(c.Add(fusion.V3i{2 * off[0], 2 * off[1], 2 * off[2]}))
		}
		return mtToTriangles(dst, corners, values), nil
	}
	n := c.n - 1
	s := 1 << n
	for _, off := range cubeCorners {
		candidate := cube{c.Add(fusion.V3i{s * off[0], s * off[1], s * off[2]}), n}
		if !oc.dc.IsEmpty(&candidate) {
			newCubes = append(newCubes, candidate)
		}
	}
	return 0, newCubes
}

// dc3 is a distance cache over the octree lattice. Neighbouring cubes
// share corners so most lattice points are evaluated once.
type dc3 struct {
	cache      map[fusion.V3i]float64
	origin     r3.Vec      // origin of the overall bounding cube
	resolution float64     // size of smallest octree cube
	hdiag      []float64   // lookup table of cube half diagonals
	s          fusion.SDF3 // the solid being rendered
}

// Evaluate returns the position of a lattice point and the distance there.
func (dc *dc3) Evaluate(vi fusion.V3i) (r3.Vec, float64) {
	v := r3.Add(dc.origin, r3.Scale(dc.resolution, vi.ToV3()))
	if dist, found := dc.cache[vi]; found {
		return v, dist
	}
	dist := dc.s.Evaluate(v)
	dc.cache[vi] = dist
	return v, dist
}

// IsEmpty returns true if the cube contains no surface.
func (dc *dc3) IsEmpty(c *cube) bool {
	s := 1 << (c.n - 1) // half side
	_, d := dc.Evaluate(c.AddScalar(s))
	return math.Abs(d) >= dc.hdiag[c.n]
}

func newDc3(s fusion.SDF3, origin r3.Vec, resolution float64, n uint) *dc3 {
	if n >= 64 {
		panic("size of n must be less than size of word for hdiag generation")
	}
	dc := dc3{
		origin:     origin,
		resolution: resolution,
		hdiag:      make([]float64, n),
		s:          s,
		cache:      make(map[fusion.V3i]float64),
	}
	for i := range dc.hdiag {
		side := float64(int(1)<<uint(i)) * dc.resolution
		dc.hdiag[i] = 0.5 * math.Sqrt(3.0*side*side)
	}
	return &dc
}

func max(a, b int) int {
	if a >= b {
		return a
	}
	return b
}
