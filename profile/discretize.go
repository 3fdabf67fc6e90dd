package profile

import (
	"math"

	"github.com/soypat/fusion"
	"gonum.org/v1/gonum/interp"
	"gonum.org/v1/gonum/spatial/r2"
)

// DefaultSegments is the number of segments used for a full circle and
// the minimum number of segments of a spline run.
const DefaultSegments = 72

// Polyline discretises the profile into the vertices of a closed
// polyline. The closing vertex is not repeated. segments is the number of
// segments of a full circle arc and the minimum number of segments of a
// spline run.
func (p Profile) Polyline(segments int) []r2.Vec {
	if segments < 4 {
		segments = 4
	}
	var out []r2.Vec
	for _, r := range p.runs() {
		switch r.conn {
		case Arc:
			for k := 0; k+2 < len(r.idx); k += 2 {
				out = appendArc(out, p.pts[r.idx[k]].Vec, p.pts[r.idx[k+1]].Vec, p.pts[r.idx[k+2]].Vec, segments)
			}
		case Spline:
			out = p.appendSpline(out, r.idx, segments)
		default:
			out = append(out, p.pts[r.idx[0]].Vec)
		}
	}
	return out
}

// SDF returns the signed distance field of the discretised profile.
func (p Profile) SDF(segments int) (fusion.SDF2, error) {
	if len(p.pts) == 0 {
		return nil, fusion.Errorf(fusion.ErrGeometry, "empty profile")
	}
	return fusion.Polygon2D(p.Polyline(segments))
}

// appendArc appends the circular arc from a through b to c, excluding c.
func appendArc(dst []r2.Vec, a, b, c r2.Vec, segments int) []r2.Vec {
	center := circumcenter(a, b, c)
	radius := r2.Norm(r2.Sub(a, center))
	angle := func(v r2.Vec) float64 { return math.Atan2(v.Y-center.Y, v.X-center.X) }
	ta, tc := angle(a), angle(c)
	ccw := cross(r2.Sub(b, a), r2.Sub(c, a)) > 0
	sweep := tc - ta
	if ccw {
		for sweep <= 0 {
			sweep += 2 * math.Pi
		}
	} else {
		for sweep >= 0 {
			sweep -= 2 * math.Pi
		}
	}
	n := int(math.Ceil(float64(segments) * math.Abs(sweep) / (2 * math.Pi)))
	if n < 2 {
		n = 2
	}
	dst = append(dst, a)
	for j := 1; j < n; j++ {
		sin, cos := math.Sincos(ta + sweep*float64(j)/float64(n))
		dst = append(dst, r2.Vec{X: center.X + radius*cos, Y: center.Y + radius*sin})
	}
	return dst
}

func circumcenter(a, b, c r2.Vec) r2.Vec {
	d := 2 * (a.X*(b.Y-c.Y) + b.X*(c.Y-a.Y) + c.X*(a.Y-b.Y))
	a2, b2, c2 := r2.Dot(a, a), r2.Dot(b, b), r2.Dot(c, c)
	return r2.Vec{
		X: (a2*(b.Y-c.Y) + b2*(c.Y-a.Y) + c2*(a.Y-b.Y)) / d,
		Y: (a2*(c.X-b.X) + b2*(a.X-c.X) + c2*(b.X-a.X)) / d,
	}
}

// appendSpline appends a natural cubic spline through the run points
// parametrised by cumulative chord length, excluding the final point.
func (p Profile) appendSpline(dst []r2.Vec, idx []int, segments int) []r2.Vec {
	if len(idx) < 3 {
		return append(dst, p.pts[idx[0]].Vec)
	}
	n := len(idx)
	ts := make([]float64, n)
	xs := make([]float64, n)
	ys := make([]float64, n)
	for i, j := range idx {
		v := p.pts[j].Vec
		xs[i], ys[i] = v.X, v.Y
		if i > 0 {
			ts[i] = ts[i-1] + r2.Norm(r2.Sub(v, p.pts[idx[i-1]].Vec))
		}
	}
	var fx, fy interp.NaturalCubic
	if fx.Fit(ts, xs) != nil || fy.Fit(ts, ys) != nil {
		// New rejects coincident points so the knots are increasing;
		// fall back to the control polygon regardless.
		for _, j := range idx[:n-1] {
			dst = append(dst, p.pts[j].Vec)
		}
		return dst
	}
	spans := n - 1
	sub := (segments + spans - 1) / spans
	for s := 0; s < spans; s++ {
		dst = append(dst, p.pts[idx[s]].Vec)
		for j := 1; j < sub; j++ {
			t := ts[s] + (ts[s+1]-ts[s])*float64(j)/float64(sub)
			dst = append(dst, r2.Vec{X: fx.Predict(t), Y: fy.Predict(t)})
		}
	}
	return dst
}
