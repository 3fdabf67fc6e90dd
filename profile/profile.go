// Package profile holds the closed 2D point sequences from which reactor
// components are built, along with the workplane they are drawn in and
// the azimuthal positions at which copies are placed.
package profile

import (
	"math"
	"strconv"

	"github.com/soypat/fusion"
	"github.com/soypat/fusion/internal/d2"
	"gonum.org/v1/gonum/spatial/r2"
)

// Connection selects how a point is joined to the point that follows it.
type Connection int

const (
	// Straight joins the point to the next with a line segment.
	Straight Connection = iota
	// Spline joins a run of spline points, and the point following the
	// run, with a smooth interpolating curve.
	Spline
	// Arc starts a circular arc through the following point ending on
	// the point after that.
	Arc
)

func (c Connection) String() string {
	switch c {
	case Straight:
		return "straight"
	case Spline:
		return "spline"
	case Arc:
		return "arc"
	}
	return "Connection(" + strconv.Itoa(int(c)) + ")"
}

// Point is a profile vertex and the connection to the next vertex.
// The last point's connection closes the profile back to the first.
type Point struct {
	r2.Vec
	Next Connection
}

// Pt is shorthand for building a Point.
func Pt(x, y float64, next Connection) Point {
	return Point{Vec: r2.Vec{X: x, Y: y}, Next: next}
}

// Profile is a validated closed sequence of points. The zero value is
// an empty profile; build one with New.
type Profile struct {
	pts []Point
}

// New validates pts and returns an immutable profile. A closing point
// equal to the first one is dropped since closure is implicit.
func New(pts []Point) (Profile, error) {
	p := append([]Point(nil), pts...)
	if n := len(p); n > 1 && d2.EqualWithin(p[0].Vec, p[n-1].Vec, closeTol) {
		p = p[:n-1]
	}
	if len(p) < 3 {
		return Profile{}, fusion.Errorf(fusion.ErrGeometry, "profile needs at least 3 distinct points, got %d", len(p))
	}
	for i, pt := range p {
		if !d2.Finite(pt.Vec) {
			return Profile{}, fusion.Errorf(fusion.ErrGeometry, "profile point %d is not finite: %v", i, pt.Vec)
		}
		if pt.Next < Straight || pt.Next > Arc {
			return Profile{}, fusion.Errorf(fusion.ErrConfig, "profile point %d has invalid connection %v", i, pt.Next)
		}
		if d2.EqualWithin(pt.Vec, p[(i+1)%len(p)].Vec, closeTol) {
			return Profile{}, fusion.Errorf(fusion.ErrGeometry, "profile points %d and %d coincide at %v", i, (i+1)%len(p), pt.Vec)
		}
	}
	prof := Profile{pts: p}
	for _, r := range prof.runs() {
		if r.conn != Arc {
			continue
		}
		if len(r.idx)%2 == 0 {
			return Profile{}, fusion.Errorf(fusion.ErrGeometry, "arc run starting at point %d has %d points, want an odd count", r.idx[0], len(r.idx))
		}
		for k := 0; k+2 < len(r.idx); k += 2 {
			a, b, c := p[r.idx[k]].Vec, p[r.idx[k+1]].Vec, p[r.idx[k+2]].Vec
			if math.Abs(cross(r2.Sub(b, a), r2.Sub(c, a))) <= closeTol*r2.Norm(r2.Sub(c, a)) {
				return Profile{}, fusion.Errorf(fusion.ErrGeometry, "arc through points %d, %d, %d is degenerate", r.idx[k], r.idx[k+1], r.idx[k+2])
			}
		}
	}
	return prof, nil
}

// MustNew is like New but panics on error. Intended for fixed profiles
// known to be valid.
func MustNew(pts []Point) Profile {
	p, err := New(pts)
	if err != nil {
		panic(err)
	}
	return p
}

const closeTol = 1e-9

// Len returns the number of points in the profile.
func (p Profile) Len() int { return len(p.pts) }

// Points returns a copy of the profile points.
func (p Profile) Points() []Point {
	return append([]Point(nil), p.pts...)
}

// Vertices returns a copy of the profile point positions.
func (p Profile) Vertices() []r2.Vec {
	v := make([]r2.Vec, len(p.pts))
	for i := range p.pts {
		v[i] = p.pts[i].Vec
	}
	return v
}

// Translate returns the profile moved by d.
func (p Profile) Translate(d r2.Vec) Profile {
	q := Profile{pts: make([]Point, len(p.pts))}
	for i, pt := range p.pts {
		q.pts[i] = Point{Vec: r2.Add(pt.Vec, d), Next: pt.Next}
	}
	return q
}

// Reversed returns the profile traversed in the opposite direction,
// keeping every segment's connection type.
func (p Profile) Reversed() Profile {
	n := len(p.pts)
	q := Profile{pts: make([]Point, n)}
	for i := range p.pts {
		// point i of the result is p[n-1-i] and its outgoing segment is
		// the incoming segment of p[n-1-i], owned by its predecessor.
		src := n - 1 - i
		q.pts[i] = Point{Vec: p.pts[src].Vec, Next: p.pts[(src-1+n)%n].Next}
	}
	return q
}

// run is a maximal sequence of consecutive segments sharing a connection.
// idx holds the point indices of the run, including the point the last
// segment ends on.
type run struct {
	conn Connection
	idx  []int
}

// runs splits the closed profile into maximal connection runs. Straight
// segments are always emitted as runs of 2 points.
func (p Profile) runs() []run {
	n := len(p.pts)
	// start at a point whose incoming segment differs from its outgoing
	// one so no run wraps across the start.
	start := 0
	uniform := true
	for i := 0; i < n; i++ {
		if p.pts[(i-1+n)%n].Next != p.pts[i].Next {
			start = i
			uniform = false
			break
		}
	}
	if uniform && p.pts[0].Next != Straight {
		idx := make([]int, n+1)
		for i := range idx {
			idx[i] = i % n
		}
		return []run{{conn: p.pts[0].Next, idx: idx}}
	}
	var out []run
	for k := 0; k < n; {
		i := (start + k) % n
		conn := p.pts[i].Next
		r := run{conn: conn, idx: []int{i}}
		for {
			k++
			j := (start + k) % n
			r.idx = append(r.idx, j)
			if conn == Straight || k >= n || p.pts[j].Next != conn {
				break
			}
		}
		out = append(out, r)
	}
	return out
}

func cross(a, b r2.Vec) float64 { return a.X*b.Y - a.Y*b.X }
