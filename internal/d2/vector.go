package d2

import (
	"math"

	"gonum.org/v1/gonum/spatial/r2"
)

// R2 vector helpers missing from gonum's spatial/r2.

func EqualWithin(a, b r2.Vec, tol float64) bool {
	return math.Abs(a.X-b.X) <= tol &&
		math.Abs(a.Y-b.Y) <= tol
}

// MinElem return a vector with the minimum components of two vectors.
func MinElem(a, b r2.Vec) r2.Vec {
	return r2.Vec{X: math.Min(a.X, b.X), Y: math.Min(a.Y, b.Y)}
}

// MaxElem return a vector with the maximum components of two vectors.
func MaxElem(a, b r2.Vec) r2.Vec {
	return r2.Vec{X: math.Max(a.X, b.X), Y: math.Max(a.Y, b.Y)}
}

// Finite reports whether both components of a are finite.
func Finite(a r2.Vec) bool {
	return !math.IsNaN(a.X) && !math.IsNaN(a.Y) && !math.IsInf(a.X, 0) && !math.IsInf(a.Y, 0)
}

// Set is a set of 2D vectors.
type Set []r2.Vec

// Min return the minimum x and y values of a 2D vector set.
func (a Set) Min() r2.Vec {
	vmin := a[0]
	for _, v := range a {
		vmin = MinElem(vmin, v)
	}
	return vmin
}

// Max return the maximum x and y values of a 2D vector set.
func (a Set) Max() r2.Vec {
	vmax := a[0]
	for _, v := range a {
		vmax = MaxElem(vmax, v)
	}
	return vmax
}

// Bounds returns the bounding box enclosing the set.
func (a Set) Bounds() Box {
	return Box{Min: a.Min(), Max: a.Max()}
}
