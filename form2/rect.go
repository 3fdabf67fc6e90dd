package form2

import (
	"github.com/soypat/fusion"
	"github.com/soypat/fusion/profile"
	"gonum.org/v1/gonum/spatial/r2"
)

// RectangleTFCoil is the C shaped XZ cross section of an outboard
// toroidal field coil with square corners. The coil wraps around the
// region bounded by the horizontal start point (x0, h) and the vertical
// mid point (x1, 0).
type RectangleTFCoil struct {
	HorizontalStart r2.Vec
	VerticalMid     r2.Vec
	Thickness       float64
}

func (c RectangleTFCoil) validate() error {
	switch {
	case !(c.Thickness > 0):
		return fusion.Errorf(fusion.ErrConfig, "tf coil thickness %g must be positive", c.Thickness)
	case !(c.HorizontalStart.Y > 0):
		return fusion.Errorf(fusion.ErrConfig, "tf coil height %g must be positive", c.HorizontalStart.Y)
	case !(c.VerticalMid.X > c.HorizontalStart.X):
		return fusion.Errorf(fusion.ErrGeometry, "tf coil vertical leg at %g must lie outside its start %g", c.VerticalMid.X, c.HorizontalStart.X)
	}
	return nil
}

// Profile returns the coil cross section.
func (c RectangleTFCoil) Profile() (profile.Profile, error) {
	if err := c.validate(); err != nil {
		return profile.Profile{}, err
	}
	x0, x1 := c.HorizontalStart.X, c.VerticalMid.X
	h, t := c.HorizontalStart.Y, c.Thickness
	return profile.New([]profile.Point{
		profile.Pt(x0, h, profile.Straight),
		profile.Pt(x1, h, profile.Straight),
		profile.Pt(x1, -h, profile.Straight),
		profile.Pt(x0, -h, profile.Straight),
		profile.Pt(x0, -h-t, profile.Straight),
		profile.Pt(x1+t, -h-t, profile.Straight),
		profile.Pt(x1+t, h+t, profile.Straight),
		profile.Pt(x0, h+t, profile.Straight),
	})
}

// InnerLeg returns the vertical leg closing the coil on the inboard side.
func (c RectangleTFCoil) InnerLeg() (profile.Profile, error) {
	if err := c.validate(); err != nil {
		return profile.Profile{}, err
	}
	x0, h, t := c.HorizontalStart.X, c.HorizontalStart.Y, c.Thickness
	return profile.New([]profile.Point{
		profile.Pt(x0-t, h+t, profile.Straight),
		profile.Pt(x0, h+t, profile.Straight),
		profile.Pt(x0, -h-t, profile.Straight),
		profile.Pt(x0-t, -h-t, profile.Straight),
	})
}

// Cylinder returns the XZ rectangle which revolved about Z gives a hollow
// cylinder of the given radii and height centred on the midplane.
func Cylinder(innerRadius, outerRadius, height float64) (profile.Profile, error) {
	switch {
	case !(innerRadius >= 0):
		return profile.Profile{}, fusion.Errorf(fusion.ErrConfig, "cylinder inner radius %g must be non-negative", innerRadius)
	case !(outerRadius > innerRadius):
		return profile.Profile{}, fusion.Errorf(fusion.ErrConfig, "cylinder outer radius %g must exceed inner radius %g", outerRadius, innerRadius)
	case !(height > 0):
		return profile.Profile{}, fusion.Errorf(fusion.ErrConfig, "cylinder height %g must be positive", height)
	}
	return profile.New([]profile.Point{
		profile.Pt(innerRadius, height/2, profile.Straight),
		profile.Pt(outerRadius, height/2, profile.Straight),
		profile.Pt(outerRadius, -height/2, profile.Straight),
		profile.Pt(innerRadius, -height/2, profile.Straight),
	})
}

// PFCoil returns the XZ rectangle of a poloidal field coil of the given
// width and height centred on center.
func PFCoil(center r2.Vec, width, height float64) (profile.Profile, error) {
	if !(width > 0) || !(height > 0) {
		return profile.Profile{}, fusion.Errorf(fusion.ErrConfig, "pf coil size %gx%g must be positive", width, height)
	}
	if center.X-width/2 < 0 {
		return profile.Profile{}, fusion.Errorf(fusion.ErrGeometry, "pf coil at %v crosses the axis", center)
	}
	w, h := width/2, height/2
	return profile.New([]profile.Point{
		profile.Pt(center.X+w, center.Y+h, profile.Straight),
		profile.Pt(center.X+w, center.Y-h, profile.Straight),
		profile.Pt(center.X-w, center.Y-h, profile.Straight),
		profile.Pt(center.X-w, center.Y+h, profile.Straight),
	})
}
