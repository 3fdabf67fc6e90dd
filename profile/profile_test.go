package profile

import (
	"errors"
	"math"
	"testing"

	"github.com/soypat/fusion"
	"gonum.org/v1/gonum/spatial/r2"
)

func square(side float64) []Point {
	return []Point{
		Pt(0, 0, Straight),
		Pt(side, 0, Straight),
		Pt(side, side, Straight),
		Pt(0, side, Straight),
	}
}

func TestNewValidation(t *testing.T) {
	for _, test := range []struct {
		name string
		pts  []Point
		want error
	}{
		{"two points", []Point{Pt(0, 0, Straight), Pt(1, 0, Straight)}, fusion.ErrGeometry},
		{"closed triangle of two", []Point{Pt(0, 0, Straight), Pt(1, 0, Straight), Pt(0, 0, Straight)}, fusion.ErrGeometry},
		{"nan", []Point{Pt(0, 0, Straight), Pt(math.NaN(), 0, Straight), Pt(1, 1, Straight)}, fusion.ErrGeometry},
		{"coincident", []Point{Pt(0, 0, Straight), Pt(1, 0, Straight), Pt(1, 0, Straight), Pt(1, 1, Straight)}, fusion.ErrGeometry},
		{"even arc run", []Point{Pt(0, 0, Arc), Pt(1, 0, Straight), Pt(1, 1, Straight)}, fusion.ErrGeometry},
		{"collinear arc", []Point{Pt(0, 0, Arc), Pt(1, 0, Arc), Pt(2, 0, Straight), Pt(1, 1, Straight)}, fusion.ErrGeometry},
		{"bad connection", []Point{Pt(0, 0, Connection(7)), Pt(1, 0, Straight), Pt(1, 1, Straight)}, fusion.ErrConfig},
	} {
		_, err := New(test.pts)
		if !errors.Is(err, test.want) {
			t.Errorf("%s: got error %v, want %v", test.name, err, test.want)
		}
	}
	p, err := New(append(square(1), Pt(0, 0, Straight)))
	if err != nil {
		t.Fatal(err)
	}
	if p.Len() != 4 {
		t.Errorf("closing point not dropped, got %d points", p.Len())
	}
}

func TestStraightPolyline(t *testing.T) {
	p := MustNew(square(2))
	poly := p.Polyline(DefaultSegments)
	if len(poly) != 4 {
		t.Fatalf("straight square discretised to %d vertices, want 4", len(poly))
	}
	if got := p.Area(); math.Abs(got-4) > 1e-12 {
		t.Errorf("area %g, want 4", got)
	}
	c := p.Centroid()
	if math.Abs(c.X-1) > 1e-12 || math.Abs(c.Y-1) > 1e-12 {
		t.Errorf("centroid %v, want (1, 1)", c)
	}
	if !p.Contains(r2.Vec{X: 1, Y: 1}) || p.Contains(r2.Vec{X: 3, Y: 1}) {
		t.Error("containment mismatch")
	}
	moved := p.Translate(r2.Vec{X: 10})
	if c := moved.Centroid(); math.Abs(c.X-11) > 1e-12 {
		t.Errorf("translated centroid %v", c)
	}
}

func TestArcCircle(t *testing.T) {
	p := MustNew([]Point{
		Pt(1, 0, Arc),
		Pt(0, 1, Arc),
		Pt(-1, 0, Arc),
		Pt(0, -1, Arc),
	})
	for _, v := range p.Polyline(DefaultSegments) {
		if math.Abs(r2.Norm(v)-1) > 1e-12 {
			t.Fatalf("arc vertex %v off the unit circle", v)
		}
	}
	if got := p.Area(); math.Abs(got-math.Pi)/math.Pi > 0.005 {
		t.Errorf("circle area %g, want %g", got, math.Pi)
	}
	if !p.CounterClockwise() {
		t.Error("circle should wind counter clockwise")
	}
	r := p.Reversed()
	if r.CounterClockwise() {
		t.Error("reversed circle should wind clockwise")
	}
	if math.Abs(r.Area()-p.Area()) > 1e-9 {
		t.Errorf("reversed area %g differs from %g", r.Area(), p.Area())
	}
}

func TestArcRunWithStraightClosure(t *testing.T) {
	// half disc: arc over the top, straight diameter back.
	p := MustNew([]Point{
		Pt(1, 0, Arc),
		Pt(0, 1, Arc),
		Pt(-1, 0, Straight),
	})
	if got, want := p.Area(), math.Pi/2; math.Abs(got-want)/want > 0.005 {
		t.Errorf("half disc area %g, want %g", got, want)
	}
	b := p.Bounds()
	if math.Abs(b.Max.Y-1) > 1e-12 || math.Abs(b.Min.Y) > 1e-12 {
		t.Errorf("half disc bounds %+v", b)
	}
}

func TestSplinePassesThroughPoints(t *testing.T) {
	pts := []Point{
		Pt(0, 0, Spline),
		Pt(1, 0.5, Spline),
		Pt(2, 0.7, Spline),
		Pt(3, 0.5, Spline),
		Pt(4, 0, Straight),
		Pt(2, -1, Straight),
	}
	p := MustNew(pts)
	poly := p.Polyline(40)
	if len(poly) <= len(pts) {
		t.Fatalf("spline not refined: %d vertices", len(poly))
	}
	for _, pt := range pts {
		found := false
		for _, v := range poly {
			if r2.Norm(r2.Sub(v, pt.Vec)) < 1e-12 {
				found = true
				break
			}
		}
		if !found {
			t.Errorf("control point %v missing from polyline", pt.Vec)
		}
	}
	if _, err := p.SDF(40); err != nil {
		t.Fatal(err)
	}
}

func TestPlaneAxes(t *testing.T) {
	u, v, w, err := XZ.Axes()
	if err != nil {
		t.Fatal(err)
	}
	if u != fusion.AxisX || v != fusion.AxisZ || w != fusion.AxisY {
		t.Errorf("XZ axes = %v %v %v", u, v, w)
	}
	for _, bad := range []Plane{"", "X", "XX", "XQ", "XYZ"} {
		if err := bad.Validate(); !errors.Is(err, fusion.ErrConfig) {
			t.Errorf("plane %q: got %v, want ErrConfig", bad, err)
		}
	}
}

func TestEvenly(t *testing.T) {
	got := Evenly(6, 0)
	want := []float64{0, 60, 120, 180, 240, 300}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if math.Abs(got[i]-want[i]) > 1e-12 {
			t.Errorf("got %v, want %v", got, want)
			break
		}
	}
	if a := Evenly(1, 30); len(a) != 1 || a[0] != 30 {
		t.Errorf("Evenly(1, 30) = %v", a)
	}
	if a := Evenly(0, 30); a != nil {
		t.Errorf("Evenly(0, 30) = %v", a)
	}
	if a := Evenly(4, 45); math.Abs(a[3]-315) > 1e-12 {
		t.Errorf("Evenly(4, 45) = %v", a)
	}
}
