package form2

import (
	"math"

	"github.com/soypat/fusion"
	"github.com/soypat/fusion/internal/ode"
	"github.com/soypat/fusion/profile"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/optimize"
	"gonum.org/v1/gonum/spatial/r2"
)

const (
	// princetonSamples is the number of radius samples of each half segment.
	princetonSamples = 70
	// princetonGuess is the starting crown height of the closing search.
	princetonGuess = 10.0
	// princetonSubsteps is the number of integrator steps between samples.
	princetonSubsteps = 16
	// princetonClosure is the accepted closing residual relative to R2.
	princetonClosure = 1e-6
)

// DSample is a sample of the upper half of a Princeton-D inner curve.
type DSample struct {
	R, Z float64
	// Slope is dZ/dR, infinite at the vertical tangents at R1 and R2.
	Slope float64
	// Psi is the tangent angle, the outward unit normal being (-sin Psi, cos Psi).
	Psi float64
}

// Normal returns the outward unit normal of the curve at the sample.
func (s DSample) Normal() r2.Vec {
	sin, cos := math.Sincos(s.Psi)
	return r2.Vec{X: -sin, Y: cos}
}

// PrincetonD is the constant tension "D" shaped toroidal field coil curve
// between radii R1 and R2, together with the curve offset outwards by a
// wall thickness.
type PrincetonD struct {
	r1, r2, thickness float64
	z0                float64
	upper             []DSample
	inner, outer      []r2.Vec
}

// NewPrincetonD solves the Princeton-D curve with inner radius r1, outer
// radius r2 and wall thickness t.
//
// The curve obeys Z'' = -(1+Z'^2)^1.5 / (k R) with k = ln(R2/R1)/2, starting
// at R0 = sqrt(R1 R2) with zero slope at the crown height Z0. The crown
// height is searched so that the outer segment closes on the midplane at R2.
func NewPrincetonD(r1, r2, t float64) (*PrincetonD, error) {
	switch {
	case !(r1 > 0):
		return nil, fusion.Errorf(fusion.ErrConfig, "princeton-D inner radius %g must be positive", r1)
	case !(r2 > r1):
		return nil, fusion.Errorf(fusion.ErrConfig, "princeton-D outer radius %g must exceed inner radius %g", r2, r1)
	case !(t >= 0) || math.IsInf(t, 0) || math.IsInf(r2, 0):
		return nil, fusion.Errorf(fusion.ErrConfig, "princeton-D thickness %g must be finite and non-negative", t)
	}
	d := &PrincetonD{r1: r1, r2: r2, thickness: t}
	r0 := math.Sqrt(r1 * r2)
	k := 0.5 * math.Log(r2/r1)

	closing := func(x []float64) float64 {
		seg := dSegment(r0, r2, k, x[0])
		return math.Abs(seg[len(seg)-1].Z)
	}
	res, err := optimize.Minimize(optimize.Problem{Func: closing}, []float64{princetonGuess}, &optimize.Settings{
		MajorIterations: 2000,
		Converger:       &optimize.FunctionConverge{Absolute: 1e-12, Relative: 1e-12, Iterations: 50},
	}, &optimize.NelderMead{})
	if err != nil {
		return nil, fusion.Errorf(fusion.ErrNotConverged, "princeton-D closing search (R1=%g, R2=%g): %v", r1, r2, err)
	}
	if res.F > princetonClosure*r2 || math.IsNaN(res.F) {
		return nil, fusion.Errorf(fusion.ErrNotConverged, "princeton-D closing residual %g above tolerance (R1=%g, R2=%g)", res.F, r1, r2)
	}
	d.z0 = res.X[0]

	// upper half from R1 over the crown to R2.
	toR1 := dSegment(r0, r1, k, d.z0)
	toR2 := dSegment(r0, r2, k, d.z0)
	d.upper = make([]DSample, 0, 2*princetonSamples-1)
	for i := len(toR1) - 1; i >= 0; i-- {
		d.upper = append(d.upper, toR1[i])
	}
	d.upper = append(d.upper, toR2[1:]...)
	d.inner, d.outer = d.loops()
	return d, nil
}

// dSegment integrates the curve from the crown at r0 to r, returning
// princetonSamples samples evenly spaced in radius.
//
// The slope is unbounded at R1 and R2 so the system is integrated in the
// tangent angle instead of the radius: sin(psi) = -ln(R/R0)/k follows in
// closed form, with dR/dpsi = -k R cos(psi) and dZ/dpsi = -k R sin(psi).
func dSegment(r0, r, k, z0 float64) []DSample {
	rs := make([]float64, princetonSamples)
	floats.Span(rs, r0, r)
	rs[len(rs)-1] = r
	psiAt := func(R float64) float64 {
		if R == r {
			// vertical tangent, asin is ill conditioned here.
			return math.Copysign(math.Pi/2, r0-r)
		}
		return math.Asin(fusion.Clamp(-math.Log(R/r0)/k, -1, 1))
	}
	rhs := func(_ float64, y, dydpsi []float64) {
		sin, cos := math.Sincos(y[2])
		dydpsi[0] = -k * y[0] * cos
		dydpsi[1] = -k * y[0] * sin
		dydpsi[2] = 1
	}
	var rk ode.RK4
	y := []float64{r0, z0, 0} // R, Z, psi
	seg := make([]DSample, princetonSamples)
	for i, R := range rs {
		psi := psiAt(R)
		if i > 0 {
			rk.Integrate(rhs, y[2], psi, princetonSubsteps, y)
		}
		// R follows in closed form from psi, keep the exact sample radius.
		y[0], y[2] = R, psi
		seg[i] = DSample{R: R, Z: y[1], Slope: math.Tan(psi), Psi: psi}
	}
	last := &seg[len(seg)-1]
	last.Slope = math.Inf(int(math.Copysign(1, last.Psi)))
	return seg
}

// loops assembles the closed inner loop and its offset from the upper
// half samples. Both start at the top of the inner leg at R1, run over the
// crown to R2 and return under the midplane to the bottom of the leg.
func (d *PrincetonD) loops() (inner, outer []r2.Vec) {
	n := len(d.upper)
	inner = make([]r2.Vec, 0, 2*n-1)
	outer = make([]r2.Vec, 0, 2*n-1)
	for _, s := range d.upper {
		inner = append(inner, r2.Vec{X: s.R, Y: s.Z})
		outer = append(outer, r2.Add(r2.Vec{X: s.R, Y: s.Z}, r2.Scale(d.thickness, s.Normal())))
	}
	// mirror, skipping the shared midplane sample at R2.
	for i := n - 2; i >= 0; i-- {
		inner = append(inner, r2.Vec{X: inner[i].X, Y: -inner[i].Y})
		outer = append(outer, r2.Vec{X: outer[i].X, Y: -outer[i].Y})
	}
	return inner, outer
}

// Z0 returns the crown height of the curve at R0.
func (d *PrincetonD) Z0() float64 { return d.z0 }

// Upper returns the samples of the upper half of the inner curve, from R1
// over the crown to R2.
func (d *PrincetonD) Upper() []DSample { return append([]DSample(nil), d.upper...) }

// Inner returns the closed inner curve samples.
func (d *PrincetonD) Inner() []r2.Vec { return append([]r2.Vec(nil), d.inner...) }

// Outer returns the thickness offset curve samples, in the same order as
// Inner.
func (d *PrincetonD) Outer() []r2.Vec { return append([]r2.Vec(nil), d.outer...) }

// Profile returns the coil cross section: the inner curve followed by the
// offset curve in reverse. Both curves are splines whose final points are
// joined straight. A curve solved with zero thickness has no cross
// section and is rejected.
func (d *PrincetonD) Profile() (profile.Profile, error) {
	if err := d.checkThickness(); err != nil {
		return profile.Profile{}, err
	}
	pts := make([]profile.Point, 0, len(d.inner)+len(d.outer))
	for _, v := range d.inner {
		pts = append(pts, profile.Point{Vec: v, Next: profile.Spline})
	}
	pts[len(pts)-1].Next = profile.Straight
	for i := len(d.outer) - 1; i >= 0; i-- {
		pts = append(pts, profile.Point{Vec: d.outer[i], Next: profile.Spline})
	}
	pts[len(pts)-1].Next = profile.Straight
	return profile.New(pts)
}

// InnerLeg returns the straight leg closing the D at R1 between the ends
// of the inner and offset curves.
func (d *PrincetonD) InnerLeg() (profile.Profile, error) {
	if err := d.checkThickness(); err != nil {
		return profile.Profile{}, err
	}
	n := len(d.inner) - 1
	return profile.New([]profile.Point{
		{Vec: d.inner[0]},
		{Vec: d.inner[n]},
		{Vec: d.outer[n]},
		{Vec: d.outer[0]},
	})
}

func (d *PrincetonD) checkThickness() error {
	if d.thickness == 0 {
		return fusion.Errorf(fusion.ErrConfig, "princeton-D profile needs a positive thickness (R1=%g, R2=%g)", d.r1, d.r2)
	}
	return nil
}
