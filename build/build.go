// Package build sequences the radial and vertical builds of a reactor:
// named thickness intervals stacked outwards from the machine axis or
// from the plasma, and the placement of poloidal field coils around them.
package build

import (
	"fmt"
	"math"

	"github.com/soypat/fusion"
)

// Interval is a named [Start, End] span of a build. Gap intervals reserve
// space but have no associated solid.
type Interval struct {
	Name       string
	Start, End float64
	Gap        bool
}

// Thickness returns End - Start.
func (i Interval) Thickness() float64 { return i.End - i.Start }

// Step is a build sequencing instruction, either a Layer or an Anchored.
type Step interface {
	apply(s *sequencer) error
}

// Layer appends an interval of the given thickness at the end of the
// previous layer.
type Layer struct {
	Name      string
	Thickness float64
	// Gap marks spacing with no solid.
	Gap bool
}

// Anchored places an interval relative to an earlier interval instead of
// the running end of the build. It starts at the anchor's start, or its
// end when FromEnd is set, plus the sum of Offsets.
type Anchored struct {
	Name      string
	Anchor    string
	FromEnd   bool
	Offsets   []float64
	Thickness float64
	Gap       bool
	// Advance moves the running end of the build to the end of this
	// interval so following layers stack on it.
	Advance bool
}

type sequencer struct {
	origin float64
	cursor float64
	b      Build
}

func checkThickness(name string, t float64) error {
	if !(t >= 0) || math.IsInf(t, 0) {
		return fusion.Errorf(fusion.ErrConfig, "%s: thickness %g must be finite and non-negative", name, t)
	}
	return nil
}

func (s *sequencer) add(iv Interval) error {
	if iv.Name == "" {
		return fusion.Errorf(fusion.ErrConfig, "build interval at %g has no name", iv.Start)
	}
	if _, dup := s.b.index[iv.Name]; dup {
		return fusion.Errorf(fusion.ErrConfig, "duplicate build interval %q", iv.Name)
	}
	s.b.index[iv.Name] = len(s.b.intervals)
	s.b.intervals = append(s.b.intervals, iv)
	return nil
}

func (l Layer) apply(s *sequencer) error {
	if err := checkThickness(l.Name, l.Thickness); err != nil {
		return err
	}
	iv := Interval{Name: l.Name, Start: s.cursor, End: s.cursor + l.Thickness, Gap: l.Gap}
	if err := s.add(iv); err != nil {
		return err
	}
	s.cursor = iv.End
	return nil
}

func (a Anchored) apply(s *sequencer) error {
	if err := checkThickness(a.Name, a.Thickness); err != nil {
		return err
	}
	anchor, err := s.b.Lookup(a.Anchor)
	if err != nil {
		return fusion.Errorf(fusion.ErrConfig, "%s: anchor %q not defined before it", a.Name, a.Anchor)
	}
	start := anchor.Start
	if a.FromEnd {
		start = anchor.End
	}
	for i, off := range a.Offsets {
		if err := checkThickness(fmt.Sprintf("%s offset %d", a.Name, i), off); err != nil {
			return err
		}
		start += off
	}
	if start < s.origin {
		return fusion.Errorf(fusion.ErrGeometry, "%s: starts at %g below the build origin %g", a.Name, start, s.origin)
	}
	iv := Interval{Name: a.Name, Start: start, End: start + a.Thickness, Gap: a.Gap}
	if err := s.add(iv); err != nil {
		return err
	}
	if a.Advance {
		s.cursor = iv.End
	}
	return nil
}

// Build is an immutable ordered set of named intervals.
type Build struct {
	origin    float64
	end       float64
	intervals []Interval
	index     map[string]int
}

// Sequence runs the steps from origin and returns the resulting build.
// Invalid thicknesses, names or anchors are reported at the first
// offending step.
func Sequence(origin float64, steps ...Step) (Build, error) {
	if math.IsNaN(origin) || math.IsInf(origin, 0) {
		return Build{}, fusion.Errorf(fusion.ErrConfig, "build origin %g is not finite", origin)
	}
	s := sequencer{origin: origin, cursor: origin, b: Build{origin: origin, index: make(map[string]int)}}
	for _, step := range steps {
		if step == nil {
			return Build{}, fusion.Errorf(fusion.ErrConfig, "nil build step")
		}
		if err := step.apply(&s); err != nil {
			return Build{}, err
		}
	}
	s.b.end = s.cursor
	return s.b, nil
}

// Origin returns the start of the build.
func (b Build) Origin() float64 { return b.origin }

// End returns the running end of the build after the last advancing step.
func (b Build) End() float64 { return b.end }

// Len returns the number of intervals.
func (b Build) Len() int { return len(b.intervals) }

// Intervals returns a copy of the intervals in sequencing order.
func (b Build) Intervals() []Interval {
	return append([]Interval(nil), b.intervals...)
}

// Lookup returns the interval with the given name.
func (b Build) Lookup(name string) (Interval, error) {
	i, ok := b.index[name]
	if !ok {
		return Interval{}, fusion.Errorf(fusion.ErrConfig, "unknown build interval %q", name)
	}
	return b.intervals[i], nil
}

// Start returns the start of the named interval or NaN if it does not exist.
func (b Build) Start(name string) float64 {
	iv, err := b.Lookup(name)
	if err != nil {
		return math.NaN()
	}
	return iv.Start
}

// Stop returns the end of the named interval or NaN if it does not exist.
func (b Build) Stop(name string) float64 {
	iv, err := b.Lookup(name)
	if err != nil {
		return math.NaN()
	}
	return iv.End
}
