package fusion

import (
	"errors"
	"math"
	"testing"

	"gonum.org/v1/gonum/spatial/r2"
	"gonum.org/v1/gonum/spatial/r3"
)

func rect(t *testing.T, x0, y0, x1, y1 float64) SDF2 {
	t.Helper()
	s, err := Polygon2D([]r2.Vec{{X: x0, Y: y0}, {X: x1, Y: y0}, {X: x1, Y: y1}, {X: x0, Y: y1}})
	if err != nil {
		t.Fatal(err)
	}
	return s
}

func within(got, want, rtol float64) bool {
	return math.Abs(got-want) <= rtol*math.Abs(want)
}

func TestPolygonEvaluate(t *testing.T) {
	s := rect(t, -1, -1, 1, 1)
	for _, test := range []struct {
		p    r2.Vec
		want float64
	}{
		{r2.Vec{}, -1},
		{r2.Vec{X: 3}, 2},
		{r2.Vec{X: 0.5, Y: 0.25}, -0.5},
		{r2.Vec{X: 4, Y: 5}, 5},
	} {
		got := s.Evaluate(test.p)
		if math.Abs(got-test.want) > 1e-12 {
			t.Errorf("Evaluate(%v) = %g, want %g", test.p, got, test.want)
		}
	}
	// clockwise winding yields the same field.
	cw, err := Polygon2D([]r2.Vec{{X: -1, Y: -1}, {X: -1, Y: 1}, {X: 1, Y: 1}, {X: 1, Y: -1}, {X: -1, Y: -1}})
	if err != nil {
		t.Fatal(err)
	}
	if cw.Evaluate(r2.Vec{}) != -1 {
		t.Error("clockwise polygon should contain origin")
	}
}

func TestPolygonErrors(t *testing.T) {
	for _, v := range [][]r2.Vec{
		{{X: 0}, {X: 1}},
		{{X: 0}, {X: 1}, {X: 2}},
		{{X: 0}, {X: 1, Y: 1}, {X: 0}},
		{{X: 0}, {X: math.NaN(), Y: 1}, {X: 1}},
	} {
		_, err := Polygon2D(v)
		if !errors.Is(err, ErrGeometry) {
			t.Errorf("Polygon2D(%v) error = %v, want ErrGeometry", v, err)
		}
	}
}

func TestExtrudeVolume(t *testing.T) {
	s := Extrude3D(rect(t, -1, -1, 1, 1), 4)
	got := Volume(s, 80)
	if !within(got, 16, 0.01) {
		t.Errorf("extruded volume %g, want 16", got)
	}
	bb := s.Bounds()
	if bb.Min.Z != -2 || bb.Max.Z != 2 {
		t.Errorf("extrusion not symmetric: %+v", bb)
	}
}

func TestVolumeThinSlab(t *testing.T) {
	// thinner than one cell and off the cell centres.
	slab := Extrude3D(rect(t, -5, -5, 5, 5), 0.3)
	if got := Volume(slab, 20); !within(got, 30, 0.02) {
		t.Errorf("slab volume %g, want 30", got)
	}
	plate := Extrude3D(rect(t, 0, 0, 20, 7.3), 2.6)
	if got := Volume(plate, 25); !within(got, 20*7.3*2.6, 0.02) {
		t.Errorf("plate volume %g, want %g", got, 20*7.3*2.6)
	}
}

func TestRevolveVolume(t *testing.T) {
	ring := rect(t, 1, -0.5, 2, 0.5)
	full := Revolve3D(ring, 2*math.Pi)
	want := math.Pi * (4 - 1)
	if got := Volume(full, 100); !within(got, want, 0.02) {
		t.Errorf("revolved volume %g, want %g", got, want)
	}
	half := Revolve3D(ring, math.Pi/2)
	if got := Volume(half, 100); !within(got, want/4, 0.02) {
		t.Errorf("quarter revolution volume %g, want %g", got, want/4)
	}
	if half.Evaluate(r3.Vec{X: 1.5, Y: 0.1}) >= 0 {
		t.Error("first quadrant point should be inside quarter revolution")
	}
	if half.Evaluate(r3.Vec{X: -1.5, Y: 0.1}) <= 0 {
		t.Error("second quadrant point should be outside quarter revolution")
	}
	if !IsEmpty(Revolve3D(ring, 0)) {
		t.Error("zero angle revolution should be empty")
	}
}

func TestSweepVolume(t *testing.T) {
	face := rect(t, -0.5, -0.5, 0.5, 0.5)
	straight, err := Sweep3D(face, func(float64) float64 { return 0 }, 0, 4)
	if err != nil {
		t.Fatal(err)
	}
	sheared, err := Sweep3D(face, func(z float64) float64 { return z }, 0, 4)
	if err != nil {
		t.Fatal(err)
	}
	vs := Volume(straight, 80)
	vh := Volume(sheared, 120)
	if !within(vs, 4, 0.01) {
		t.Errorf("straight sweep volume %g, want 4", vs)
	}
	// a sheared prism keeps the volume of the straight one.
	if !within(vh, vs, 0.03) {
		t.Errorf("sheared sweep volume %g, want %g", vh, vs)
	}
	if sheared.Evaluate(r3.Vec{X: 3, Z: 3}) >= 0 {
		t.Error("point on path should be inside sweep")
	}
	if _, err := Sweep3D(face, func(z float64) float64 { return z }, 1, 1); !errors.Is(err, ErrGeometry) {
		t.Errorf("empty sweep range error = %v", err)
	}
}

func TestOrient(t *testing.T) {
	s := Extrude3D(rect(t, 0, 0, 1, 2), 4)
	o, err := Orient3D(s, AxisX, AxisZ, AxisY)
	if err != nil {
		t.Fatal(err)
	}
	bb := o.Bounds()
	want := r3.Box{Min: r3.Vec{X: 0, Y: -2, Z: 0}, Max: r3.Vec{X: 1, Y: 2, Z: 2}}
	if bb != want {
		t.Errorf("oriented bounds %+v, want %+v", bb, want)
	}
	if o.Evaluate(r3.Vec{X: 0.5, Y: 1.5, Z: 1}) >= 0 {
		t.Error("point should be inside oriented extrusion")
	}
	if _, err := Orient3D(s, AxisX, AxisX, AxisY); !errors.Is(err, ErrConfig) {
		t.Errorf("duplicate axis error = %v", err)
	}
}

func TestRotateZ(t *testing.T) {
	s := Extrude3D(rect(t, 1, -0.1, 2, 0.1), 1)
	r := RotateZ3D(s, math.Pi/2)
	if r.Evaluate(r3.Vec{Y: 1.5}) >= 0 {
		t.Error("rotated solid should contain (0, 1.5, 0)")
	}
	if r.Evaluate(r3.Vec{X: 1.5}) <= 0 {
		t.Error("rotated solid should not contain (1.5, 0, 0)")
	}
	bb := r.Bounds()
	if bb.Min.Y > 1+1e-9 || bb.Max.Y < 2-1e-9 {
		t.Errorf("rotated bounds %+v do not enclose the solid", bb)
	}
}

func TestBooleans(t *testing.T) {
	big := Extrude3D(rect(t, -2, -2, 2, 2), 2)
	small := Extrude3D(rect(t, -1, -1, 1, 1), 4)
	vb := Volume(big, 80)
	diff := Volume(Difference3D(big, small), 80)
	if !within(diff, vb-8, 0.02) {
		t.Errorf("difference volume %g, want %g", diff, vb-8)
	}
	inter := Volume(Intersect3D(big, small), 80)
	if !within(inter, 8, 0.02) {
		t.Errorf("intersection volume %g, want 8", inter)
	}
	u := Union3D(big, small)
	if got := Volume(u, 80); !within(got, vb+8, 0.02) {
		t.Errorf("union volume %g, want %g", got, vb+8)
	}
	if Union3D(big) != big {
		t.Error("single element union should return its argument")
	}
	far := Extrude3D(rect(t, 10, 10, 11, 11), 1)
	if !IsEmpty(Intersect3D(small, far)) {
		t.Error("disjoint intersection should be empty")
	}
}
