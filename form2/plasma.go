package form2

import (
	"math"

	"github.com/soypat/fusion"
	"github.com/soypat/fusion/profile"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/spatial/r2"
)

// DefaultCurvePoints is the number of samples of plasma and blanket curves.
const DefaultCurvePoints = 50

// Plasma is the poloidal cross section of a shaped plasma:
//
//	R = R0 + a cos(alpha + delta sin(alpha))
//	Z = kappa a sin(alpha) + dz
type Plasma struct {
	MajorRadius          float64 `yaml:"major_radius" toml:"major_radius" validate:"gt=0"`
	MinorRadius          float64 `yaml:"minor_radius" toml:"minor_radius" validate:"gt=0,ltfield=MajorRadius"`
	Elongation           float64 `yaml:"elongation" toml:"elongation" validate:"gt=0"`
	Triangularity        float64 `yaml:"triangularity" toml:"triangularity" validate:"gte=-1,lte=1"`
	VerticalDisplacement float64 `yaml:"vertical_displacement" toml:"vertical_displacement"`
	// Points is the number of curve samples, DefaultCurvePoints if zero.
	Points int `yaml:"points" toml:"points" validate:"gte=0"`
}

// Validate checks the plasma shape parameters.
func (p Plasma) Validate() error {
	switch {
	case !(p.MajorRadius > 0):
		return fusion.Errorf(fusion.ErrConfig, "plasma major radius %g must be positive", p.MajorRadius)
	case !(p.MinorRadius > 0) || p.MinorRadius >= p.MajorRadius:
		return fusion.Errorf(fusion.ErrConfig, "plasma minor radius %g must be positive and below major radius %g", p.MinorRadius, p.MajorRadius)
	case !(p.Elongation > 0):
		return fusion.Errorf(fusion.ErrConfig, "plasma elongation %g must be positive", p.Elongation)
	case !(math.Abs(p.Triangularity) <= 1):
		return fusion.Errorf(fusion.ErrConfig, "plasma triangularity %g must lie in [-1, 1]", p.Triangularity)
	case p.Points < 0 || p.Points == 1 || p.Points == 2:
		return fusion.Errorf(fusion.ErrConfig, "plasma needs at least 3 curve points, got %d", p.Points)
	}
	return nil
}

// At returns the boundary point at the poloidal parameter alpha (radians).
func (p Plasma) At(alpha float64) r2.Vec {
	sin := math.Sin(alpha)
	return r2.Vec{
		X: p.MajorRadius + p.MinorRadius*math.Cos(alpha+p.Triangularity*sin),
		Y: p.Elongation*p.MinorRadius*sin + p.VerticalDisplacement,
	}
}

// Tangent returns d(R, Z)/d(alpha).
func (p Plasma) Tangent(alpha float64) r2.Vec {
	sin, cos := math.Sincos(alpha)
	return r2.Vec{
		X: -p.MinorRadius * math.Sin(alpha+p.Triangularity*sin) * (1 + p.Triangularity*cos),
		Y: p.Elongation * p.MinorRadius * cos,
	}
}

// Normal returns the outward unit normal at alpha. The boundary runs
// counter clockwise with alpha so the outward side is the tangent turned
// clockwise.
func (p Plasma) Normal(alpha float64) r2.Vec {
	t := p.Tangent(alpha)
	return r2.Scale(1/r2.Norm(t), r2.Vec{X: t.Y, Y: -t.X})
}

// HighPoint returns the uppermost point of the boundary.
func (p Plasma) HighPoint() r2.Vec { return p.At(math.Pi / 2) }

// LowPoint returns the lowermost point of the boundary.
func (p Plasma) LowPoint() r2.Vec { return p.At(-math.Pi / 2) }

// InnerEquatorialPoint returns the boundary point closest to the axis.
func (p Plasma) InnerEquatorialPoint() r2.Vec { return p.At(math.Pi) }

// OuterEquatorialPoint returns the boundary point furthest from the axis.
func (p Plasma) OuterEquatorialPoint() r2.Vec { return p.At(0) }

func (p Plasma) points() int {
	if p.Points == 0 {
		return DefaultCurvePoints
	}
	return p.Points
}

// Profile returns the closed spline boundary in the XZ plane.
func (p Plasma) Profile() (profile.Profile, error) {
	if err := p.Validate(); err != nil {
		return profile.Profile{}, err
	}
	n := p.points()
	alpha := make([]float64, n)
	floats.Span(alpha, 0, 2*math.Pi*float64(n-1)/float64(n))
	pts := make([]profile.Point, n)
	for i, a := range alpha {
		pts[i] = profile.Point{Vec: p.At(a), Next: profile.Spline}
	}
	return profile.New(pts)
}
