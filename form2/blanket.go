package form2

import (
	"math"

	"github.com/soypat/fusion"
	"github.com/soypat/fusion/profile"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/interp"
	"gonum.org/v1/gonum/spatial/r2"
)

// BlanketFP is a layer of constant thickness following the plasma
// boundary between two poloidal angles, at a distance from the plasma that
// may vary along the boundary.
type BlanketFP struct {
	Plasma    Plasma
	Thickness float64
	// Offsets are distances from the plasma boundary, linearly
	// interpolated over evenly spaced angles between StartAngle and
	// StopAngle. A single value is a constant offset.
	Offsets []float64
	// StartAngle and StopAngle bound the layer in degrees of the plasma
	// parameter, 0 being the outer equatorial point.
	StartAngle, StopAngle float64
	// Points is the number of samples per curve, DefaultCurvePoints if zero.
	Points int
}

// Validate checks the blanket parameters and those of its plasma.
func (b BlanketFP) Validate() error {
	if err := b.Plasma.Validate(); err != nil {
		return err
	}
	span := b.StopAngle - b.StartAngle
	switch {
	case !(b.Thickness > 0):
		return fusion.Errorf(fusion.ErrConfig, "blanket thickness %g must be positive", b.Thickness)
	case len(b.Offsets) == 0:
		return fusion.Errorf(fusion.ErrConfig, "blanket needs at least one offset from plasma")
	case span == 0 || math.Abs(span) > 360 || math.IsNaN(span):
		return fusion.Errorf(fusion.ErrConfig, "blanket angles [%g, %g] must span (0, 360] degrees", b.StartAngle, b.StopAngle)
	case b.Points < 0 || b.Points == 1:
		return fusion.Errorf(fusion.ErrConfig, "blanket needs at least 2 curve points, got %d", b.Points)
	}
	for i, off := range b.Offsets {
		if !(off >= 0) || math.IsInf(off, 0) {
			return fusion.Errorf(fusion.ErrConfig, "blanket offset %d is %g, want finite and non-negative", i, off)
		}
	}
	return nil
}

// offsetFunc returns the offset from the plasma as a function of the
// angle in degrees.
func (b BlanketFP) offsetFunc() (func(deg float64) float64, error) {
	if len(b.Offsets) == 1 {
		off := b.Offsets[0]
		return func(float64) float64 { return off }, nil
	}
	xs := make([]float64, len(b.Offsets))
	floats.Span(xs, b.StartAngle, b.StopAngle)
	ys := b.Offsets
	if b.StopAngle < b.StartAngle {
		// interpolation needs increasing abscissae.
		floats.Reverse(xs)
		ys = append([]float64(nil), b.Offsets...)
		floats.Reverse(ys)
	}
	var pl interp.PiecewiseLinear
	if err := pl.Fit(xs, ys); err != nil {
		return nil, fusion.Errorf(fusion.ErrConfig, "blanket offsets: %v", err)
	}
	lo, hi := xs[0], xs[len(xs)-1]
	return func(deg float64) float64 { return pl.Predict(fusion.Clamp(deg, lo, hi)) }, nil
}

// Curve returns the samples of the curve at the given extra distance
// beyond the offsets, from StartAngle to StopAngle.
func (b BlanketFP) Curve(extra float64) ([]r2.Vec, error) {
	if err := b.Validate(); err != nil {
		return nil, err
	}
	offset, err := b.offsetFunc()
	if err != nil {
		return nil, err
	}
	n := b.Points
	if n == 0 {
		n = DefaultCurvePoints
	}
	angles := make([]float64, n)
	floats.Span(angles, b.StartAngle, b.StopAngle)
	curve := make([]r2.Vec, n)
	for i, deg := range angles {
		alpha := fusion.DtoR(deg)
		curve[i] = r2.Add(b.Plasma.At(alpha), r2.Scale(offset(deg)+extra, b.Plasma.Normal(alpha)))
	}
	return curve, nil
}

// Profile returns the layer cross section in the XZ plane: the inner
// curve from StartAngle to StopAngle then the outer curve back, each a
// spline whose final point is joined straight.
func (b BlanketFP) Profile() (profile.Profile, error) {
	inner, err := b.Curve(0)
	if err != nil {
		return profile.Profile{}, err
	}
	outer, _ := b.Curve(b.Thickness)
	pts := make([]profile.Point, 0, 2*len(inner))
	for _, v := range inner {
		pts = append(pts, profile.Point{Vec: v, Next: profile.Spline})
	}
	pts[len(pts)-1].Next = profile.Straight
	for i := len(outer) - 1; i >= 0; i-- {
		pts = append(pts, profile.Point{Vec: outer[i], Next: profile.Spline})
	}
	pts[len(pts)-1].Next = profile.Straight
	return profile.New(pts)
}
