package fusion

import (
	"math"

	"github.com/soypat/fusion/internal/d3"
	"gonum.org/v1/gonum/spatial/r3"
)

const (
	pi        = math.Pi
	tau       = 2 * pi
	tolerance = 1e-9
)

// DtoR converts degrees to radians.
func DtoR(degrees float64) float64 {
	return (pi / 180) * degrees
}

// RtoD converts radians to degrees.
func RtoD(radians float64) float64 {
	return (180 / pi) * radians
}

// Clamp x between a and b, assume a <= b
func Clamp(x, a, b float64) float64 {
	return clamp(x, a, b)
}

func clamp(x, a, b float64) float64 {
	if x < a {
		return a
	}
	if x > b {
		return b
	}
	return x
}

// Volume estimates the volume of s on a regular grid over its bounding
// box. cells is the number of grid cells along the longest side of the
// bounding box. Each cell counts the fraction 1/2 - d/h of its volume,
// clamped to [0, 1], where d is the distance at the cell centre and h the
// cell size, so surfaces crossing a cell are not rounded to whole cells.
func Volume(s SDF3, cells int) float64 {
	if cells < 1 {
		panic("cells must be 1 or larger")
	}
	if IsEmpty(s) {
		return 0
	}
	bb := d3.Box(s.Bounds())
	size := bb.Size()
	h := d3.Max(size) / float64(cells)
	if h <= 0 {
		return 0
	}
	n := d3.CeilElem(r3.Scale(1/h, size))
	nx, ny, nz := int(n.X), int(n.Y), int(n.Z)
	var inside float64
	for i := 0; i < nx; i++ {
		x := bb.Min.X + (float64(i)+0.5)*h
		for j := 0; j < ny; j++ {
			y := bb.Min.Y + (float64(j)+0.5)*h
			for k := 0; k < nz; k++ {
				z := bb.Min.Z + (float64(k)+0.5)*h
				d := s.Evaluate(r3.Vec{X: x, Y: y, Z: z})
				inside += clamp(0.5-d/h, 0, 1)
			}
		}
	}
	return inside * h * h * h
}

// Normal3 returns the normal of an SDF3 at a point (doesn't need to be on the surface).
// Computed by sampling it 6 times inside a box of side 2*eps centered on p.
func Normal3(s SDF3, p r3.Vec, eps float64) r3.Vec {
	return r3.Unit(r3.Vec{
		X: s.Evaluate(r3.Add(p, r3.Vec{X: eps})) - s.Evaluate(r3.Add(p, r3.Vec{X: -eps})),
		Y: s.Evaluate(r3.Add(p, r3.Vec{Y: eps})) - s.Evaluate(r3.Add(p, r3.Vec{Y: -eps})),
		Z: s.Evaluate(r3.Add(p, r3.Vec{Z: eps})) - s.Evaluate(r3.Add(p, r3.Vec{Z: -eps})),
	})
}
