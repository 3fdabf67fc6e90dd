package fusion

import (
	"math"

	"github.com/soypat/fusion/internal/d2"
	"gonum.org/v1/gonum/spatial/r2"
)

// SDF2 is the interface to a 2d signed distance function object.
type SDF2 interface {
	// Evaluate takes a point in 2D space as input and returns
	// the minimum distance of the SDF2 to the point. The distance
	// is negative if the point is contained within the SDF2.
	Evaluate(p r2.Vec) float64

	// Bounds returns the bounding box that completely contains the SDF2.
	Bounds() r2.Box
}

// polygon is the 2d signed distance object of a closed polyline.
type polygon struct {
	vertex []r2.Vec
	bb     r2.Box
}

// Polygon2D returns the SDF2 of a closed polygon. The closing edge from
// the last vertex back to the first is implicit. Self intersecting
// polygons are evaluated with the non-zero winding rule.
func Polygon2D(vertex []r2.Vec) (SDF2, error) {
	if len(vertex) < 3 {
		return nil, Errorf(ErrGeometry, "polygon needs at least 3 vertices, got %d", len(vertex))
	}
	for i, v := range vertex {
		if math.IsNaN(v.X) || math.IsNaN(v.Y) || math.IsInf(v.X, 0) || math.IsInf(v.Y, 0) {
			return nil, Errorf(ErrGeometry, "polygon vertex %d is not finite", i)
		}
	}
	s := polygon{vertex: append([]r2.Vec(nil), vertex...)}
	if d2.EqualWithin(s.vertex[0], s.vertex[len(s.vertex)-1], tolerance) {
		s.vertex = s.vertex[:len(s.vertex)-1]
		if len(s.vertex) < 3 {
			return nil, Errorf(ErrGeometry, "polygon needs at least 3 distinct vertices")
		}
	}
	s.bb = r2.Box(d2.Set(s.vertex).Bounds())
	if s.bb.Size().X <= 0 || s.bb.Size().Y <= 0 {
		return nil, Errorf(ErrGeometry, "degenerate polygon with empty area")
	}
	return &s, nil
}

// Evaluate returns the minimum distance to a polygon.
func (s *polygon) Evaluate(p r2.Vec) float64 {
	n := len(s.vertex)
	dd := math.Inf(1)
	winding := 0
	for i := 0; i < n; i++ {
		a := s.vertex[i]
		b := s.vertex[(i+1)%n]
		e := r2.Sub(b, a)
		w := r2.Sub(p, a)
		l2 := r2.Dot(e, e)
		var t float64
		if l2 > 0 {
			t = clamp(r2.Dot(w, e)/l2, 0, 1)
		}
		d := r2.Sub(w, r2.Scale(t, e))
		dd = math.Min(dd, r2.Dot(d, d))
		// winding number crossings
		cross := e.X*w.Y - e.Y*w.X
		if a.Y <= p.Y {
			if b.Y > p.Y && cross > 0 {
				winding++
			}
		} else if b.Y <= p.Y && cross < 0 {
			winding--
		}
	}
	d := math.Sqrt(dd)
	if winding != 0 {
		return -d
	}
	return d
}

// Bounds returns the bounding box of a polygon.
func (s *polygon) Bounds() r2.Box {
	return s.bb
}

// Vertices returns a copy of the polygon vertices.
func (s *polygon) Vertices() []r2.Vec {
	return append([]r2.Vec(nil), s.vertex...)
}
