package form2

import (
	"math"

	"github.com/soypat/fusion"
	"github.com/soypat/fusion/profile"
	"gonum.org/v1/gonum/spatial/r2"
)

// CoilArray describes an array of inboard toroidal field coil wedges
// filling the annulus between two radii with a constant gap between
// neighbouring coils.
type CoilArray struct {
	InnerRadius float64 `yaml:"inner_radius" toml:"inner_radius" validate:"gt=0"`
	OuterRadius float64 `yaml:"outer_radius" toml:"outer_radius" validate:"gtfield=InnerRadius"`
	Gap         float64 `yaml:"gap" toml:"gap" validate:"gte=0"`
	// Count is the number of coils. It may be zero when Angles is set.
	Count int `yaml:"count" toml:"count" validate:"gte=0"`
	// Angles are explicit azimuthal placements in degrees. When Count is
	// also set the lengths must match.
	Angles []float64 `yaml:"angles" toml:"angles"`
	// AzimuthStart offsets evenly spaced placements, in degrees.
	AzimuthStart float64 `yaml:"azimuth_start" toml:"azimuth_start"`
}

// Azimuths returns the placement angles of the coils: the explicit angles
// when given, otherwise Count angles evenly spaced from AzimuthStart.
func (c CoilArray) Azimuths() (profile.Azimuths, error) {
	n := len(c.Angles)
	switch {
	case c.Count < 0:
		return nil, fusion.Errorf(fusion.ErrConfig, "negative coil count %d", c.Count)
	case c.Count == 0 && n == 0:
		return nil, fusion.Errorf(fusion.ErrConfig, "coil count or azimuth placement angles must be specified")
	case c.Count != 0 && n != 0 && c.Count != n:
		return nil, fusion.Errorf(fusion.ErrConfig, "coil count %d does not match %d azimuth placement angles", c.Count, n)
	case n != 0:
		return append(profile.Azimuths(nil), c.Angles...), nil
	}
	return profile.Evenly(c.Count, c.AzimuthStart), nil
}

// count returns the number of coils implied by Count or Angles.
func (c CoilArray) count() int {
	if c.Count != 0 {
		return c.Count
	}
	return len(c.Angles)
}

// wedge returns the angle subtended by one coil at radius r and the half
// angle subtended by the gap.
func (c CoilArray) wedge(r float64) (theta, omega float64, err error) {
	n := float64(c.count())
	if c.Gap >= 2*r {
		return 0, 0, fusion.Errorf(fusion.ErrConfig, "gap %g does not fit at radius %g", c.Gap, r)
	}
	theta = (2*math.Pi*r - c.Gap*n) / (r * n)
	if !(theta > 0) {
		return 0, 0, fusion.Errorf(fusion.ErrConfig, "%d coils with gap %g leave no room at radius %g", c.count(), c.Gap, r)
	}
	return theta, math.Asin(c.Gap / (2 * r)), nil
}

func (c CoilArray) validate() error {
	switch {
	case !(c.InnerRadius > 0):
		return fusion.Errorf(fusion.ErrConfig, "coil inner radius %g must be positive", c.InnerRadius)
	case !(c.OuterRadius > c.InnerRadius):
		return fusion.Errorf(fusion.ErrConfig, "coil outer radius %g must exceed inner radius %g", c.OuterRadius, c.InnerRadius)
	case !(c.Gap >= 0):
		return fusion.Errorf(fusion.ErrConfig, "coil gap %g must be non-negative", c.Gap)
	}
	_, err := c.Azimuths()
	return err
}

func polar(r, angle float64) r2.Vec {
	sin, cos := math.Sincos(angle)
	return r2.Vec{X: r * cos, Y: r * sin}
}

// InnerTFCoilsFlat returns the trapezoidal XY cross section of one flat
// faced inboard coil together with the azimuthal placements of the array.
// The corners are the inner radius at the gap half angle, the inner radius
// at the far edge, then the outer radius at the far edge and at the gap
// half angle, so the trapezoid winds clockwise.
func InnerTFCoilsFlat(c CoilArray) (profile.Profile, profile.Azimuths, error) {
	if err := c.validate(); err != nil {
		return profile.Profile{}, nil, err
	}
	thetaIn, omegaIn, err := c.wedge(c.InnerRadius)
	if err != nil {
		return profile.Profile{}, nil, err
	}
	thetaOut, omegaOut, err := c.wedge(c.OuterRadius)
	if err != nil {
		return profile.Profile{}, nil, err
	}
	p, err := profile.New([]profile.Point{
		{Vec: polar(c.InnerRadius, omegaIn)},
		{Vec: polar(c.InnerRadius, thetaIn+omegaIn)},
		{Vec: polar(c.OuterRadius, thetaOut+omegaOut)},
		{Vec: polar(c.OuterRadius, omegaOut)},
	})
	if err != nil {
		return profile.Profile{}, nil, err
	}
	az, _ := c.Azimuths()
	return p, az, nil
}

// InnerTFCoilsCircular is like InnerTFCoilsFlat but the inner and outer
// faces of each coil are circular arcs following the radii.
func InnerTFCoilsCircular(c CoilArray) (profile.Profile, profile.Azimuths, error) {
	if err := c.validate(); err != nil {
		return profile.Profile{}, nil, err
	}
	thetaIn, omegaIn, err := c.wedge(c.InnerRadius)
	if err != nil {
		return profile.Profile{}, nil, err
	}
	thetaOut, omegaOut, err := c.wedge(c.OuterRadius)
	if err != nil {
		return profile.Profile{}, nil, err
	}
	p, err := profile.New([]profile.Point{
		{Vec: polar(c.InnerRadius, omegaIn), Next: profile.Arc},
		{Vec: polar(c.InnerRadius, thetaIn/2+omegaIn), Next: profile.Arc},
		{Vec: polar(c.InnerRadius, thetaIn+omegaIn)},
		{Vec: polar(c.OuterRadius, thetaOut+omegaOut), Next: profile.Arc},
		{Vec: polar(c.OuterRadius, thetaOut/2+omegaOut), Next: profile.Arc},
		{Vec: polar(c.OuterRadius, omegaOut)},
	})
	if err != nil {
		return profile.Profile{}, nil, err
	}
	az, _ := c.Azimuths()
	return p, az, nil
}
