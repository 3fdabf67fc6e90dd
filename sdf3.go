package fusion

import (
	"math"
	"strconv"

	"github.com/soypat/fusion/internal/d2"
	"github.com/soypat/fusion/internal/d3"
	"gonum.org/v1/gonum/spatial/r2"
	"gonum.org/v1/gonum/spatial/r3"
)

// 3D signed distance utility functions.

// SDF3 is the interface to a 3d signed distance function object. It is
// the opaque solid consumed by the exporters.
type SDF3 interface {
	// Evaluate takes a point in 3D space as input and returns
	// the minimum distance of the SDF3 to the point. The distance
	// is negative if the point is contained within the SDF3.
	Evaluate(p r3.Vec) float64
	// Bounds returns the bounding box that completely contains
	// the SDF3.
	Bounds() r3.Box
}

// Axis is a cartesian axis of the global frame.
type Axis int

const (
	AxisX Axis = iota
	AxisY
	AxisZ
)

// String returns the axis letter.
func (a Axis) String() string {
	switch a {
	case AxisX:
		return "X"
	case AxisY:
		return "Y"
	case AxisZ:
		return "Z"
	}
	return "Axis(" + strconv.Itoa(int(a)) + ")"
}

func (a Axis) valid() bool { return a >= AxisX && a <= AxisZ }

func component(v r3.Vec, a Axis) float64 {
	switch a {
	case AxisX:
		return v.X
	case AxisY:
		return v.Y
	}
	return v.Z
}

func setComponent(v *r3.Vec, a Axis, f float64) {
	switch a {
	case AxisX:
		v.X = f
	case AxisY:
		v.Y = f
	default:
		v.Z = f
	}
}

// revolution3 solid of revolution, SDF2 to SDF3.
type revolution3 struct {
	sdf   SDF2
	theta float64 // angle for partial revolutions
	norm  r2.Vec  // pre-calculated normal to theta line
	bb    r3.Box
}

// Revolve3D returns an SDF3 for a solid of revolution of sdf around the
// local Z axis. The SDF2 X coordinate is the radius and its Y coordinate
// maps to Z. theta is in radians, measured counter clockwise from +X.
// For a full revolution call
//
//	Revolve3D(s0, 2*math.Pi)
func Revolve3D(sdf SDF2, theta float64) SDF3 {
	if sdf == nil {
		panic("nil SDF2 argument")
	}
	if theta <= 0 {
		return empty3{}
	}
	if theta >= tau-tolerance {
		theta = 0 // internally theta=0 is a full revolution.
	}
	s := revolution3{sdf: sdf, theta: theta}
	sin, cos := math.Sincos(s.theta)
	s.norm = r2.Vec{X: -sin, Y: cos}
	// work out the bounding box
	var vset d2.Set
	if s.theta == 0 {
		vset = []r2.Vec{{X: 1, Y: 1}, {X: -1, Y: -1}}
	} else {
		vset = []r2.Vec{{X: 0, Y: 0}, {X: 1, Y: 0}, {X: cos, Y: sin}}
		if s.theta > 0.5*pi {
			vset = append(vset, r2.Vec{X: 0, Y: 1})
		}
		if s.theta > pi {
			vset = append(vset, r2.Vec{X: -1, Y: 0})
		}
		if s.theta > 1.5*pi {
			vset = append(vset, r2.Vec{X: 0, Y: -1})
		}
	}
	bb := s.sdf.Bounds()
	l := math.Max(math.Abs(bb.Min.X), math.Abs(bb.Max.X))
	vmin := r2.Scale(l, vset.Min())
	vmax := r2.Scale(l, vset.Max())
	s.bb = r3.Box{Min: r3.Vec{X: vmin.X, Y: vmin.Y, Z: bb.Min.Y}, Max: r3.Vec{X: vmax.X, Y: vmax.Y, Z: bb.Max.Y}}
	return &s
}

// Evaluate returns the minimum distance to a solid of revolution.
func (s *revolution3) Evaluate(p r3.Vec) float64 {
	x := math.Hypot(p.X, p.Y)
	a := s.sdf.Evaluate(r2.Vec{X: x, Y: p.Z})
	b := a
	if s.theta != 0 {
		// combine two vertical planes to give an intersection wedge
		d := r2.Dot(s.norm, r2.Vec{X: p.X, Y: p.Y})
		if s.theta < pi {
			b = math.Max(-p.Y, d) // intersect
		} else {
			b = math.Min(-p.Y, d) // union
		}
	}
	return math.Max(a, b)
}

// Bounds returns the bounding box for a solid of revolution.
func (s *revolution3) Bounds() r3.Box {
	return s.bb
}

// extrude3 extrudes an SDF2 to an SDF3.
type extrude3 struct {
	sdf    SDF2
	height float64
	bb     r3.Box
}

// Extrude3D does a linear extrude of sdf along the local Z axis,
// symmetric about Z=0.
func Extrude3D(sdf SDF2, height float64) SDF3 {
	if sdf == nil {
		panic("nil SDF2 argument")
	}
	if height <= 0 {
		return empty3{}
	}
	s := extrude3{sdf: sdf, height: height / 2}
	bb := sdf.Bounds()
	s.bb = r3.Box{Min: r3.Vec{X: bb.Min.X, Y: bb.Min.Y, Z: -s.height}, Max: r3.Vec{X: bb.Max.X, Y: bb.Max.Y, Z: s.height}}
	return &s
}

// Evaluate returns the minimum distance to an extrusion.
func (s *extrude3) Evaluate(p r3.Vec) float64 {
	a := s.sdf.Evaluate(r2.Vec{X: p.X, Y: p.Y})
	b := math.Abs(p.Z) - s.height
	if a > 0 && b > 0 {
		return math.Hypot(a, b)
	}
	return math.Max(a, b)
}

// Bounds returns the bounding box for an extrusion.
func (s *extrude3) Bounds() r3.Box {
	return s.bb
}

// sweep3 translates an SDF2 along a path lying in the local XZ plane.
type sweep3 struct {
	sdf    SDF2
	path   func(z float64) float64
	z0, z1 float64
	lip    float64 // inverse lipschitz constant of the sheared field
	bb     r3.Box
}

// sweepSamples is the number of samples used to bound a sweep path.
const sweepSamples = 512

// Sweep3D sweeps sdf along the local Z axis between z0 and z1. At height z
// the profile is translated by path(z) along X. The profile keeps its
// orientation, so the swept body is a sheared prism.
func Sweep3D(sdf SDF2, path func(z float64) float64, z0, z1 float64) (SDF3, error) {
	if sdf == nil || path == nil {
		panic("nil argument to Sweep3D")
	}
	if !(z1 > z0) {
		return nil, Errorf(ErrGeometry, "sweep range [%g, %g] is empty", z0, z1)
	}
	s := sweep3{sdf: sdf, path: path, z0: z0, z1: z1}
	amin, amax := math.Inf(1), math.Inf(-1)
	var slope float64
	dz := (z1 - z0) / sweepSamples
	prev := path(z0)
	for i := 0; i <= sweepSamples; i++ {
		a := path(z0 + float64(i)*dz)
		if math.IsNaN(a) || math.IsInf(a, 0) {
			return nil, Errorf(ErrGeometry, "sweep path is not finite at z=%g", z0+float64(i)*dz)
		}
		amin = math.Min(amin, a)
		amax = math.Max(amax, a)
		if i > 0 {
			slope = math.Max(slope, math.Abs(a-prev)/dz)
		}
		prev = a
	}
	s.lip = 1 / math.Sqrt(1+slope*slope)
	bb := sdf.Bounds()
	s.bb = r3.Box{
		Min: r3.Vec{X: bb.Min.X + amin, Y: bb.Min.Y, Z: z0},
		Max: r3.Vec{X: bb.Max.X + amax, Y: bb.Max.Y, Z: z1},
	}
	return &s, nil
}

// Evaluate returns the minimum distance to a sweep.
func (s *sweep3) Evaluate(p r3.Vec) float64 {
	z := clamp(p.Z, s.z0, s.z1)
	a := s.lip * s.sdf.Evaluate(r2.Vec{X: p.X - s.path(z), Y: p.Y})
	b := math.Max(s.z0-p.Z, p.Z-s.z1)
	if a > 0 && b > 0 {
		return math.Hypot(a, b)
	}
	return math.Max(a, b)
}

// Bounds returns the bounding box for a sweep.
func (s *sweep3) Bounds() r3.Box {
	return s.bb
}

// orient3 maps a solid built in a local frame onto the global axes.
type orient3 struct {
	sdf  SDF3
	axes [3]Axis // global axis of local X, Y and Z
	bb   r3.Box
}

// Orient3D places a solid built in its local frame so that local X lies
// along global axis x, local Y along y and local Z along z. The three axes
// must be a permutation of X, Y and Z.
func Orient3D(sdf SDF3, x, y, z Axis) (SDF3, error) {
	if sdf == nil {
		panic("nil SDF3 argument")
	}
	if !x.valid() || !y.valid() || !z.valid() || x == y || y == z || x == z {
		return nil, Errorf(ErrConfig, "axes %v, %v, %v are not a permutation of X, Y, Z", x, y, z)
	}
	if IsEmpty(sdf) {
		return sdf, nil
	}
	s := orient3{sdf: sdf, axes: [3]Axis{x, y, z}}
	bb := sdf.Bounds()
	setComponent(&s.bb.Min, x, bb.Min.X)
	setComponent(&s.bb.Min, y, bb.Min.Y)
	setComponent(&s.bb.Min, z, bb.Min.Z)
	setComponent(&s.bb.Max, x, bb.Max.X)
	setComponent(&s.bb.Max, y, bb.Max.Y)
	setComponent(&s.bb.Max, z, bb.Max.Z)
	return &s, nil
}

// Evaluate returns the minimum distance to an oriented solid.
func (s *orient3) Evaluate(p r3.Vec) float64 {
	return s.sdf.Evaluate(r3.Vec{
		X: component(p, s.axes[0]),
		Y: component(p, s.axes[1]),
		Z: component(p, s.axes[2]),
	})
}

// Bounds returns the bounding box of an oriented solid.
func (s *orient3) Bounds() r3.Box {
	return s.bb
}

// rotateZ3 is a solid rotated about the global Z axis.
type rotateZ3 struct {
	sdf      SDF3
	sin, cos float64
	bb       r3.Box
}

// RotateZ3D rotates sdf counter clockwise about the global Z axis by
// angle radians.
func RotateZ3D(sdf SDF3, angle float64) SDF3 {
	if sdf == nil {
		panic("nil SDF3 argument")
	}
	if IsEmpty(sdf) {
		return sdf
	}
	s := rotateZ3{sdf: sdf}
	s.sin, s.cos = math.Sincos(angle)
	vset := d3.Box(sdf.Bounds()).Vertices()
	for i, v := range vset {
		vset[i] = r3.Vec{X: s.cos*v.X - s.sin*v.Y, Y: s.sin*v.X + s.cos*v.Y, Z: v.Z}
	}
	s.bb = r3.Box(vset.Bounds())
	return &s
}

// Evaluate returns the minimum distance to a rotated solid.
func (s *rotateZ3) Evaluate(p r3.Vec) float64 {
	// apply the inverse rotation
	return s.sdf.Evaluate(r3.Vec{X: s.cos*p.X + s.sin*p.Y, Y: -s.sin*p.X + s.cos*p.Y, Z: p.Z})
}

// Bounds returns the bounding box of a rotated solid.
func (s *rotateZ3) Bounds() r3.Box {
	return s.bb
}

// union3 is a union of SDF3s.
type union3 struct {
	sdf []SDF3
	bb  r3.Box
}

// Union3D returns the union of multiple SDF3 objects.
// Union3D will panic if arguments list is empty or if
// an argument SDF3 is nil.
func Union3D(sdf ...SDF3) SDF3 {
	if len(sdf) == 0 {
		panic("union requires at least 1 sdf")
	}
	for i, x := range sdf {
		if x == nil {
			panic("nil sdf argument (" + strconv.Itoa(i) + ") to Union3D")
		}
	}
	s := union3{}
	for _, x := range sdf {
		if !IsEmpty(x) {
			s.sdf = append(s.sdf, x)
		}
	}
	switch len(s.sdf) {
	case 0:
		return empty3{}
	case 1:
		return s.sdf[0]
	}
	// work out the bounding box
	bb := d3.Box(s.sdf[0].Bounds())
	for _, x := range s.sdf[1:] {
		bb = bb.Extend(d3.Box(x.Bounds()))
	}
	s.bb = r3.Box(bb)
	return &s
}

// Evaluate returns the minimum distance to an SDF3 union.
func (s *union3) Evaluate(p r3.Vec) float64 {
	d := s.sdf[0].Evaluate(p)
	for _, x := range s.sdf[1:] {
		d = math.Min(d, x.Evaluate(p))
	}
	return d
}

// Bounds returns the bounding box of an SDF3 union.
func (s *union3) Bounds() r3.Box {
	return s.bb
}

// diff3 is the difference of two SDF3s, s0 - s1.
type diff3 struct {
	s0, s1 SDF3
}

// Difference3D returns the difference of two SDF3s, s0 - s1.
func Difference3D(s0, s1 SDF3) SDF3 {
	if s0 == nil || s1 == nil {
		panic("nil argument to Difference3D")
	}
	return &diff3{s0: s0, s1: s1}
}

// Evaluate returns the minimum distance to the SDF3 difference.
func (s *diff3) Evaluate(p r3.Vec) float64 {
	return math.Max(s.s0.Evaluate(p), -s.s1.Evaluate(p))
}

// Bounds returns the bounding box of the SDF3 difference.
func (s *diff3) Bounds() r3.Box {
	return s.s0.Bounds()
}

// intersection3 is the intersection of two SDF3s.
type intersection3 struct {
	s0, s1 SDF3
	bb     r3.Box
}

// Intersect3D returns the intersection of two SDF3s.
func Intersect3D(s0, s1 SDF3) SDF3 {
	if s0 == nil || s1 == nil {
		panic("nil argument to Intersect3D")
	}
	b0, b1 := s0.Bounds(), s1.Bounds()
	bb := r3.Box{Min: d3.MaxElem(b0.Min, b1.Min), Max: d3.MinElem(b0.Max, b1.Max)}
	if d3.LTZero(r3.Sub(bb.Max, bb.Min)) {
		return empty3{}
	}
	return &intersection3{s0: s0, s1: s1, bb: bb}
}

// Evaluate returns the minimum distance to the SDF3 intersection.
func (s *intersection3) Evaluate(p r3.Vec) float64 {
	return math.Max(s.s0.Evaluate(p), s.s1.Evaluate(p))
}

// Bounds returns the bounding box of an SDF3 intersection.
func (s *intersection3) Bounds() r3.Box {
	return s.bb
}

// empty3 contains no points.
type empty3 struct{}

// Evaluate returns a positive distance everywhere.
func (empty3) Evaluate(r3.Vec) float64 { return math.MaxFloat64 }

// Bounds returns a degenerate box at the origin.
func (empty3) Bounds() r3.Box { return r3.Box{} }

// IsEmpty reports whether s is the empty solid.
func IsEmpty(s SDF3) bool {
	_, ok := s.(empty3)
	return ok
}
