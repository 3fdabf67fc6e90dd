package build

import (
	"math"

	"github.com/soypat/fusion"
	"gonum.org/v1/gonum/spatial/r2"
)

// Coil is the rectangular poloidal cross section of a poloidal field coil
// centred on (X, Y).
type Coil struct {
	X, Y          float64
	Width, Height float64
}

// Center returns the coil centre.
func (c Coil) Center() r2.Vec { return r2.Vec{X: c.X, Y: c.Y} }

// PlaceCoils spaces len(vertical) coils evenly down a vertical span
// starting at top, outside a rear wall at radius rearWall. Coil i is
// centred at height top - span/(N+1)*(i+1) and its inner face lies gap
// beyond the rear wall. radial and vertical are the coil widths and
// heights. No coils yields an empty placement.
func PlaceCoils(top, span, rearWall, gap float64, radial, vertical []float64) ([]Coil, error) {
	n := len(vertical)
	switch {
	case len(radial) != n:
		return nil, fusion.Errorf(fusion.ErrConfig, "%d coil radial thicknesses for %d vertical thicknesses", len(radial), n)
	case n == 0:
		return []Coil{}, nil
	case !(span > 0) || math.IsInf(span, 0):
		return nil, fusion.Errorf(fusion.ErrConfig, "coil span %g must be finite and positive", span)
	case math.IsNaN(gap) || math.IsNaN(top) || math.IsNaN(rearWall):
		return nil, fusion.Errorf(fusion.ErrConfig, "coil placement parameters must be numbers")
	case gap < 0:
		return nil, fusion.Errorf(fusion.ErrGeometry, "coil gap %g overlaps the rear wall", gap)
	}
	step := span / float64(n+1)
	coils := make([]Coil, n)
	for i := range coils {
		w, h := radial[i], vertical[i]
		if !(w > 0) || !(h > 0) || math.IsInf(w, 0) || math.IsInf(h, 0) {
			return nil, fusion.Errorf(fusion.ErrConfig, "coil %d size %gx%g must be finite and positive", i, w, h)
		}
		coils[i] = Coil{
			X:      rearWall + gap + w/2,
			Y:      top - step*float64(i+1),
			Width:  w,
			Height: h,
		}
		if i > 0 && coils[i-1].Y-coils[i].Y < (coils[i-1].Height+h)/2 {
			return nil, fusion.Errorf(fusion.ErrGeometry, "coils %d and %d overlap with spacing %g", i-1, i, step)
		}
	}
	return coils, nil
}
