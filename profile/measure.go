package profile

import (
	"math"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/planar"
	"gonum.org/v1/gonum/spatial/r2"
)

// Ring returns the discretised profile as a closed orb ring, first point
// repeated at the end.
func (p Profile) Ring(segments int) orb.Ring {
	poly := p.Polyline(segments)
	ring := make(orb.Ring, 0, len(poly)+1)
	for _, v := range poly {
		ring = append(ring, orb.Point{v.X, v.Y})
	}
	if len(ring) > 0 {
		ring = append(ring, ring[0])
	}
	return ring
}

// Area returns the enclosed area of the profile.
func (p Profile) Area() float64 {
	return math.Abs(planar.Area(p.Ring(DefaultSegments)))
}

// Centroid returns the area centroid of the profile.
func (p Profile) Centroid() r2.Vec {
	c, _ := planar.CentroidArea(p.Ring(DefaultSegments))
	return r2.Vec{X: c[0], Y: c[1]}
}

// Contains reports whether v lies inside the profile.
func (p Profile) Contains(v r2.Vec) bool {
	return planar.RingContains(p.Ring(DefaultSegments), orb.Point{v.X, v.Y})
}

// CounterClockwise reports whether the profile winds counter clockwise.
func (p Profile) CounterClockwise() bool {
	return p.Ring(DefaultSegments).Orientation() == orb.CCW
}

// Bounds returns the bounding box of the discretised profile.
func (p Profile) Bounds() r2.Box {
	b := p.Ring(DefaultSegments).Bound()
	return r2.Box{
		Min: r2.Vec{X: b.Min[0], Y: b.Min[1]},
		Max: r2.Vec{X: b.Max[0], Y: b.Max[1]},
	}
}
