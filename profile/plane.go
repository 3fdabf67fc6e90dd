package profile

import (
	"math"

	"github.com/soypat/fusion"
	"gonum.org/v1/gonum/floats"
)

// Plane is a workplane named by its two in-plane axes, e.g. "XZ". The
// first letter is the direction of the profile X coordinate and the
// second that of the profile Y coordinate. The remaining axis is the
// plane normal.
type Plane string

// Workplanes used by reactor components.
const (
	XY Plane = "XY"
	XZ Plane = "XZ"
	YZ Plane = "YZ"
)

// Axes returns the global axes of the profile X and Y coordinates and of
// the plane normal.
func (p Plane) Axes() (u, v, w fusion.Axis, err error) {
	if len(p) != 2 {
		return 0, 0, 0, fusion.Errorf(fusion.ErrConfig, "invalid workplane %q", string(p))
	}
	var ok bool
	if u, ok = axisOf(p[0]); !ok {
		return 0, 0, 0, fusion.Errorf(fusion.ErrConfig, "invalid workplane %q", string(p))
	}
	if v, ok = axisOf(p[1]); !ok || u == v {
		return 0, 0, 0, fusion.Errorf(fusion.ErrConfig, "invalid workplane %q", string(p))
	}
	w = 3 - u - v // axes are 0, 1 and 2.
	return u, v, w, nil
}

// Validate returns an ErrConfig error if p is not a workplane.
func (p Plane) Validate() error {
	_, _, _, err := p.Axes()
	return err
}

func axisOf(c byte) (fusion.Axis, bool) {
	switch c {
	case 'X', 'x':
		return fusion.AxisX, true
	case 'Y', 'y':
		return fusion.AxisY, true
	case 'Z', 'z':
		return fusion.AxisZ, true
	}
	return 0, false
}

// Azimuths is a sequence of azimuthal placement angles in degrees about
// the global Z axis. A single placement is a one element sequence.
type Azimuths []float64

// Evenly returns n angles evenly spaced over a full turn starting at
// start degrees: start + 360*i/n.
func Evenly(n int, start float64) Azimuths {
	switch {
	case n <= 0:
		return nil
	case n == 1:
		return Azimuths{start}
	}
	a := make(Azimuths, n)
	floats.Span(a, 0, 360*float64(n-1)/float64(n))
	floats.AddConst(start, a)
	return a
}

// Radians returns the angles converted to radians.
func (a Azimuths) Radians() []float64 {
	r := make([]float64, len(a))
	for i, deg := range a {
		r[i] = deg * math.Pi / 180
	}
	return r
}
