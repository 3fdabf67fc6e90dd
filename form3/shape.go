// Package form3 builds parametric 3D shapes from 2D profiles. A Shape is
// a profile on a workplane, an operation turning it into a solid, a set of
// azimuthal copies about the Z axis and boolean modifiers with other
// shapes. Solids are built lazily and rebuilt only after a change.
package form3

import (
	"fmt"
	"sync/atomic"

	"github.com/soypat/fusion"
	"github.com/soypat/fusion/profile"
)

// version is bumped by every Shape setter. A shape's stamp is the largest
// version over itself and the shapes it depends on.
var version uint64

func nextVersion() uint64 { return atomic.AddUint64(&version, 1) }

// Shape is a parametric solid. The zero value is not usable, create
// shapes with NewShape or one of the parametric constructors.
type Shape struct {
	name     string
	material string
	prof     profile.Profile
	op       Operation
	plane    profile.Plane
	azimuths profile.Azimuths
	segments int
	stl, stp string

	union, cut, intersect []*Shape

	version uint64
	memo    struct {
		stamp uint64
		solid fusion.SDF3
		err   error
	}
}

// NewShape returns a shape turning prof into a solid with op. The shape
// lies on the XZ workplane at azimuth 0, uses its name as material tag and
// exports to name.stl and name.stp.
func NewShape(name string, prof profile.Profile, op Operation) *Shape {
	return &Shape{
		name:     name,
		material: name,
		prof:     prof,
		op:       op,
		plane:    profile.XZ,
		azimuths: profile.Azimuths{0},
		segments: profile.DefaultSegments,
		stl:      name + ".stl",
		stp:      name + ".stp",
		version:  nextVersion(),
	}
}

func (s *Shape) touch() { s.version = nextVersion() }

// Name returns the shape name.
func (s *Shape) Name() string { return s.name }

// Material returns the neutronics material tag.
func (s *Shape) Material() string { return s.material }

// Profile returns the shape cross section.
func (s *Shape) Profile() profile.Profile { return s.prof }

// Operation returns the operation building the solid.
func (s *Shape) Operation() Operation { return s.op }

// Plane returns the profile workplane.
func (s *Shape) Plane() profile.Plane { return s.plane }

// Azimuths returns the azimuthal placement angles in degrees.
func (s *Shape) Azimuths() profile.Azimuths { return append(profile.Azimuths(nil), s.azimuths...) }

// STLFilename returns the base name of the shape's STL export.
func (s *Shape) STLFilename() string { return s.stl }

// STPFilename returns the base name of the shape's STEP export.
func (s *Shape) STPFilename() string { return s.stp }

// Cut returns the shapes subtracted from this one.
func (s *Shape) Cut() []*Shape { return append([]*Shape(nil), s.cut...) }

// Union returns the shapes joined to this one.
func (s *Shape) Union() []*Shape { return append([]*Shape(nil), s.union...) }

// Intersect returns the shapes this one is intersected with.
func (s *Shape) Intersect() []*Shape { return append([]*Shape(nil), s.intersect...) }

// SetName renames the shape. Export file names are not changed.
func (s *Shape) SetName(name string) { s.name = name; s.touch() }

// SetMaterial sets the material tag written to the neutronics description.
func (s *Shape) SetMaterial(tag string) { s.material = tag; s.touch() }

// SetProfile replaces the cross section the solid is built from.
func (s *Shape) SetProfile(p profile.Profile) { s.prof = p; s.touch() }

// SetOperation sets how the profile is turned into a solid.
func (s *Shape) SetOperation(op Operation) { s.op = op; s.touch() }

// SetPlane sets the workplane the profile is drawn on.
func (s *Shape) SetPlane(p profile.Plane) { s.plane = p; s.touch() }

// SetSegments sets the number of segments a full turn of curved profile
// edges is discretised into.
func (s *Shape) SetSegments(n int) { s.segments = n; s.touch() }

// SetAzimuths places a copy of the solid at each angle, in degrees about
// the Z axis. Copies are unioned.
func (s *Shape) SetAzimuths(a ...float64) {
	s.azimuths = append(profile.Azimuths(nil), a...)
	s.touch()
}

// SetFilenames sets the export file names.
func (s *Shape) SetFilenames(stl, stp string) { s.stl, s.stp = stl, stp; s.touch() }

// SetUnion sets shapes joined to this one before cutting.
func (s *Shape) SetUnion(shapes ...*Shape) { s.union = shapes; s.touch() }

// SetCut sets shapes subtracted from this one.
func (s *Shape) SetCut(shapes ...*Shape) { s.cut = shapes; s.touch() }

// SetIntersect sets shapes this one is intersected with, after cutting.
func (s *Shape) SetIntersect(shapes ...*Shape) { s.intersect = shapes; s.touch() }

// stamp returns the largest version in the dependency graph of s.
func (s *Shape) stamp(path map[*Shape]bool) (uint64, error) {
	if path[s] {
		return 0, fusion.Errorf(fusion.ErrConfig, "shape %q depends on itself", s.name)
	}
	path[s] = true
	defer delete(path, s)
	v := s.version
	for _, group := range [][]*Shape{s.union, s.cut, s.intersect} {
		for _, dep := range group {
			if dep == nil {
				return 0, fusion.Errorf(fusion.ErrConfig, "shape %q has a nil modifier", s.name)
			}
			dv, err := dep.stamp(path)
			if err != nil {
				return 0, err
			}
			if dv > v {
				v = dv
			}
		}
	}
	return v, nil
}

// Solid returns the shape's solid, building it if the shape or any shape
// it depends on changed since the last build.
func (s *Shape) Solid() (fusion.SDF3, error) {
	st, err := s.stamp(make(map[*Shape]bool))
	if err != nil {
		return nil, err
	}
	if s.memo.stamp == st && (s.memo.solid != nil || s.memo.err != nil) {
		return s.memo.solid, s.memo.err
	}
	solid, err := s.build()
	s.memo.stamp, s.memo.solid, s.memo.err = st, solid, err
	return solid, err
}

// Volume returns the volume of the shape's solid sampled on a grid of
// cells along its longest side.
func (s *Shape) Volume(cells int) (float64, error) {
	solid, err := s.Solid()
	if err != nil {
		return 0, err
	}
	return fusion.Volume(solid, cells), nil
}

func (s *Shape) build() (solid fusion.SDF3, err error) {
	defer recoverShape(s.name, &err)
	if s.op == nil {
		return nil, fusion.Errorf(fusion.ErrConfig, "shape %q has no operation", s.name)
	}
	if s.prof.Len() == 0 {
		return nil, fusion.Errorf(fusion.ErrConfig, "shape %q has no profile", s.name)
	}
	if len(s.azimuths) == 0 {
		return nil, fusion.Errorf(fusion.ErrConfig, "shape %q has no azimuth placement", s.name)
	}
	face, err := s.prof.SDF(s.segments)
	if err != nil {
		return nil, fmt.Errorf("shape %q: %w", s.name, err)
	}
	base, err := s.op.solid(face, s.plane)
	if err != nil {
		return nil, fmt.Errorf("shape %q: %s: %w", s.name, s.op, err)
	}
	copies := make([]fusion.SDF3, len(s.azimuths))
	for i, a := range s.azimuths.Radians() {
		copies[i] = fusion.RotateZ3D(base, a)
	}
	solid = fusion.Union3D(copies...)

	deps := func(group []*Shape) ([]fusion.SDF3, error) {
		out := make([]fusion.SDF3, len(group))
		for i, dep := range group {
			var derr error
			if out[i], derr = dep.Solid(); derr != nil {
				return nil, fmt.Errorf("shape %q: %w", s.name, derr)
			}
		}
		return out, nil
	}
	joined, err := deps(s.union)
	if err != nil {
		return nil, err
	}
	if len(joined) > 0 {
		solid = fusion.Union3D(append([]fusion.SDF3{solid}, joined...)...)
	}
	cutters, err := deps(s.cut)
	if err != nil {
		return nil, err
	}
	for _, c := range cutters {
		solid = fusion.Difference3D(solid, c)
	}
	others, err := deps(s.intersect)
	if err != nil {
		return nil, err
	}
	for _, o := range others {
		solid = fusion.Intersect3D(solid, o)
	}
	return solid, nil
}
