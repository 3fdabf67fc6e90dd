package form3

import (
	"fmt"
	"math"

	"github.com/paulmach/orb/clip"
	"github.com/soypat/fusion"
	"github.com/soypat/fusion/build"
	"github.com/soypat/fusion/form2"
	"github.com/soypat/fusion/internal/d2"
	"github.com/soypat/fusion/profile"
	"gonum.org/v1/gonum/spatial/r2"
)

// ExtrudeProfile extrudes prof on plane by distance, symmetric about the
// plane.
func ExtrudeProfile(name string, prof profile.Profile, distance float64, plane profile.Plane) (*Shape, error) {
	if !(distance > 0) || math.IsInf(distance, 0) {
		return nil, fusion.Errorf(fusion.ErrConfig, "%s: extrude distance %g must be finite and positive", name, distance)
	}
	if err := plane.Validate(); err != nil {
		return nil, err
	}
	s := NewShape(name, prof, Extrude{Distance: distance})
	s.plane = plane
	return s, nil
}

// RotateProfile revolves prof on plane by angle degrees about the
// plane's second axis.
func RotateProfile(name string, prof profile.Profile, angle float64, plane profile.Plane) (*Shape, error) {
	if !(angle > 0) || angle > 360 {
		return nil, fusion.Errorf(fusion.ErrConfig, "%s: rotation angle %g must be in (0, 360]", name, angle)
	}
	if err := plane.Validate(); err != nil {
		return nil, err
	}
	s := NewShape(name, prof, Revolve{Angle: angle})
	s.plane = plane
	return s, nil
}

// SweepProfile sweeps prof on plane along a spline through path, which
// lies on pathPlane.
func SweepProfile(name string, prof profile.Profile, path []r2.Vec, plane, pathPlane profile.Plane) (*Shape, error) {
	op := Sweep{Path: append([]r2.Vec(nil), path...), PathPlane: pathPlane}
	if _, err := op.validate(plane); err != nil {
		return nil, err
	}
	s := NewShape(name, prof, op)
	s.plane = plane
	return s, nil
}

// SweepCircle sweeps a circle of the given radius on plane along a spline
// through path, which lies on pathPlane.
func SweepCircle(name string, radius float64, path []r2.Vec, plane, pathPlane profile.Plane) (*Shape, error) {
	if !(radius > 0) || math.IsInf(radius, 0) {
		return nil, fusion.Errorf(fusion.ErrConfig, "%s: circle radius %g must be finite and positive", name, radius)
	}
	circle, err := profile.New([]profile.Point{
		profile.Pt(radius, 0, profile.Arc),
		profile.Pt(0, radius, profile.Arc),
		profile.Pt(-radius, 0, profile.Arc),
		profile.Pt(0, -radius, profile.Arc),
	})
	if err != nil {
		return nil, err
	}
	return SweepProfile(name, circle, path, plane, pathPlane)
}

// InnerTFCoilsFlat returns the inboard toroidal field coil wedges with
// flat inner and outer faces, extruded by height about the midplane.
func InnerTFCoilsFlat(name string, c form2.CoilArray, height float64) (*Shape, error) {
	return innerTFCoils(name, c, height, form2.InnerTFCoilsFlat)
}

// InnerTFCoilsCircular is like InnerTFCoilsFlat with faces following the
// inner and outer radii.
func InnerTFCoilsCircular(name string, c form2.CoilArray, height float64) (*Shape, error) {
	return innerTFCoils(name, c, height, form2.InnerTFCoilsCircular)
}

func innerTFCoils(name string, c form2.CoilArray, height float64, gen func(form2.CoilArray) (profile.Profile, profile.Azimuths, error)) (*Shape, error) {
	prof, az, err := gen(c)
	if err != nil {
		return nil, err
	}
	s, err := ExtrudeProfile(name, prof, height, profile.XY)
	if err != nil {
		return nil, err
	}
	s.azimuths = az
	return s, nil
}

// PrincetonDCoil returns count Princeton-D toroidal field coils evenly
// spaced in azimuth, each extruded by distance normal to its XZ cross
// section. withLeg adds the straight inboard leg.
func PrincetonDCoil(name string, r1, r2, thickness, distance float64, count int, withLeg bool) (*Shape, error) {
	d, err := form2.NewPrincetonD(r1, r2, thickness)
	if err != nil {
		return nil, err
	}
	prof, err := d.Profile()
	if err != nil {
		return nil, err
	}
	var leg profile.Profile
	if withLeg {
		if leg, err = d.InnerLeg(); err != nil {
			return nil, err
		}
	}
	return tfCoil(name, prof, leg, withLeg, distance, count)
}

// RectangleTFCoil returns count rectangular outboard toroidal field coils
// evenly spaced in azimuth, each extruded by distance normal to its XZ
// cross section. withLeg adds the inboard leg.
func RectangleTFCoil(name string, c form2.RectangleTFCoil, distance float64, count int, withLeg bool) (*Shape, error) {
	prof, err := c.Profile()
	if err != nil {
		return nil, err
	}
	var leg profile.Profile
	if withLeg {
		if leg, err = c.InnerLeg(); err != nil {
			return nil, err
		}
	}
	return tfCoil(name, prof, leg, withLeg, distance, count)
}

func tfCoil(name string, prof, leg profile.Profile, withLeg bool, distance float64, count int) (*Shape, error) {
	if count < 1 {
		return nil, fusion.Errorf(fusion.ErrConfig, "%s: coil count %d must be positive", name, count)
	}
	az := profile.Evenly(count, 0)
	s, err := ExtrudeProfile(name, prof, distance, profile.XZ)
	if err != nil {
		return nil, err
	}
	s.azimuths = az
	if withLeg {
		l, err := ExtrudeProfile(name+"_leg", leg, distance, profile.XZ)
		if err != nil {
			return nil, err
		}
		l.azimuths = az
		s.union = []*Shape{l}
	}
	return s, nil
}

// Plasma returns the plasma revolved by rotation degrees.
func Plasma(name string, p form2.Plasma, rotation float64) (*Shape, error) {
	prof, err := p.Profile()
	if err != nil {
		return nil, err
	}
	return RotateProfile(name, prof, rotation, profile.XZ)
}

// BlanketFP returns a blanket layer following the plasma, revolved by
// rotation degrees. The part of the layer reaching past the axis is
// clipped away.
func BlanketFP(name string, b form2.BlanketFP, rotation float64) (*Shape, error) {
	prof, err := b.Profile()
	if err != nil {
		return nil, err
	}
	if prof.Bounds().Min.X < 0 {
		if prof, err = clipAxis(prof); err != nil {
			return nil, fmt.Errorf("%s: %w", name, err)
		}
	}
	return RotateProfile(name, prof, rotation, profile.XZ)
}

// clipAxis returns the part of prof at non-negative X as a polygon.
func clipAxis(prof profile.Profile) (profile.Profile, error) {
	ring := prof.Ring(profile.DefaultSegments)
	bound := ring.Bound()
	bound.Min[0] = 0
	clipped := clip.Ring(bound, ring)
	pts := make([]profile.Point, 0, len(clipped))
	for _, p := range clipped {
		v := r2.Vec{X: p[0], Y: p[1]}
		if n := len(pts); n > 0 && d2.EqualWithin(pts[n-1].Vec, v, axisTol) {
			continue
		}
		pts = append(pts, profile.Point{Vec: v, Next: profile.Straight})
	}
	if len(pts) < 3 {
		return profile.Profile{}, fusion.Errorf(fusion.ErrGeometry, "profile lies beyond the axis")
	}
	return profile.New(pts)
}

const axisTol = 1e-9

// CenterColumnShieldCylinder returns a hollow cylinder centred on the
// midplane revolved by rotation degrees.
func CenterColumnShieldCylinder(name string, innerRadius, outerRadius, height, rotation float64) (*Shape, error) {
	prof, err := form2.Cylinder(innerRadius, outerRadius, height)
	if err != nil {
		return nil, err
	}
	return RotateProfile(name, prof, rotation, profile.XZ)
}

// PoloidalFieldCoilSet returns the poloidal field coils revolved by
// rotation degrees as a single shape.
func PoloidalFieldCoilSet(name string, coils []build.Coil, rotation float64) (*Shape, error) {
	if len(coils) == 0 {
		return nil, fusion.Errorf(fusion.ErrConfig, "%s: no poloidal field coils", name)
	}
	shapes := make([]*Shape, len(coils))
	for i, c := range coils {
		prof, err := form2.PFCoil(c.Center(), c.Width, c.Height)
		if err != nil {
			return nil, err
		}
		if shapes[i], err = RotateProfile(name, prof, rotation, profile.XZ); err != nil {
			return nil, err
		}
	}
	set := shapes[0]
	set.union = shapes[1:]
	return set, nil
}
