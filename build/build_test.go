package build

import (
	"errors"
	"math"
	"testing"

	"github.com/soypat/fusion"
)

func TestSequenceContiguous(t *testing.T) {
	thick := []float64{10, 0, 35.5, 20, 1e-3, 400}
	steps := make([]Step, len(thick))
	names := []string{"bore", "empty", "tf", "shield", "skin", "blanket"}
	for i := range thick {
		steps[i] = Layer{Name: names[i], Thickness: thick[i]}
	}
	const origin = 0
	b, err := Sequence(origin, steps...)
	if err != nil {
		t.Fatal(err)
	}
	iv := b.Intervals()
	if len(iv) != len(thick) {
		t.Fatalf("got %d intervals", len(iv))
	}
	if iv[0].Start != origin {
		t.Errorf("first interval starts at %g, want %g", iv[0].Start, float64(origin))
	}
	for i := range iv {
		if iv[i].End < iv[i].Start {
			t.Errorf("interval %q ends before it starts", iv[i].Name)
		}
		if i > 0 && iv[i].Start != iv[i-1].End {
			t.Errorf("interval %q starts at %g, previous ends at %g", iv[i].Name, iv[i].Start, iv[i-1].End)
		}
	}
	var sum float64
	for _, th := range thick {
		sum += th
	}
	if math.Abs(b.End()-sum) > 1e-12 {
		t.Errorf("build end %g, want %g", b.End(), sum)
	}
}

func TestSequenceAnchored(t *testing.T) {
	b, err := Sequence(0,
		Layer{Name: "bore", Thickness: 10, Gap: true},
		Layer{Name: "shield", Thickness: 50},
		Anchored{Name: "divertor", Anchor: "shield", FromEnd: true, Thickness: 30},
		Layer{Name: "plasma gap", Thickness: 5, Gap: true},
		Anchored{Name: "wall", Anchor: "shield", FromEnd: true, Offsets: []float64{5, 200}, Thickness: 3, Advance: true},
		Layer{Name: "blanket", Thickness: 100},
	)
	if err != nil {
		t.Fatal(err)
	}
	for _, test := range []struct {
		name       string
		start, end float64
	}{
		{"divertor", 60, 90},
		{"plasma gap", 60, 65},
		{"wall", 265, 268},
		{"blanket", 268, 368},
	} {
		iv, err := b.Lookup(test.name)
		if err != nil {
			t.Fatal(err)
		}
		if iv.Start != test.start || iv.End != test.end {
			t.Errorf("%s: got [%g, %g], want [%g, %g]", test.name, iv.Start, iv.End, test.start, test.end)
		}
	}
	if b.Start("bore") != 0 || b.Stop("bore") != 10 {
		t.Error("bore bounds mismatch")
	}
	if !math.IsNaN(b.Start("missing")) {
		t.Error("missing interval should start at NaN")
	}
}

func TestSequenceErrors(t *testing.T) {
	for _, test := range []struct {
		name  string
		steps []Step
		want  error
	}{
		{"negative", []Step{Layer{Name: "a", Thickness: -1}}, fusion.ErrConfig},
		{"nan", []Step{Layer{Name: "a", Thickness: math.NaN()}}, fusion.ErrConfig},
		{"unnamed", []Step{Layer{Thickness: 1}}, fusion.ErrConfig},
		{"duplicate", []Step{Layer{Name: "a", Thickness: 1}, Layer{Name: "a", Thickness: 1}}, fusion.ErrConfig},
		{"unknown anchor", []Step{Anchored{Name: "a", Anchor: "b", Thickness: 1}}, fusion.ErrConfig},
		{"negative offset", []Step{Layer{Name: "a", Thickness: 1}, Anchored{Name: "b", Anchor: "a", Offsets: []float64{-2}, Thickness: 1}}, fusion.ErrConfig},
	} {
		_, err := Sequence(0, test.steps...)
		if !errors.Is(err, test.want) {
			t.Errorf("%s: error %v, want %v", test.name, err, test.want)
		}
	}
}

func TestPlaceCoilsSpacing(t *testing.T) {
	const (
		top  = 500.
		span = 1000.
	)
	for n := 1; n <= 6; n++ {
		thick := make([]float64, n)
		for i := range thick {
			thick[i] = 10
		}
		coils, err := PlaceCoils(top, span, 700, 50, thick, thick)
		if err != nil {
			t.Fatalf("n=%d: %v", n, err)
		}
		if len(coils) != n {
			t.Fatalf("n=%d: got %d coils", n, len(coils))
		}
		step := span / float64(n+1)
		for i, c := range coils {
			if math.Abs(c.X-755) > 1e-12 {
				t.Errorf("n=%d coil %d at radius %g, want 755", n, i, c.X)
			}
			if i > 0 && math.Abs((coils[i-1].Y-c.Y)-step) > 1e-9 {
				t.Errorf("n=%d: spacing %g, want %g", n, coils[i-1].Y-c.Y, step)
			}
		}
		if math.Abs(coils[0].Y-(top-step)) > 1e-9 {
			t.Errorf("n=%d: first coil at %g, want %g", n, coils[0].Y, top-step)
		}
	}
}

func TestPlaceCoilsEdgeCases(t *testing.T) {
	coils, err := PlaceCoils(500, 1000, 700, 50, nil, nil)
	if err != nil || coils == nil || len(coils) != 0 {
		t.Errorf("no coils: got %v, %v", coils, err)
	}
	for _, test := range []struct {
		name             string
		gap, span        float64
		radial, vertical []float64
		want             error
	}{
		{"length mismatch", 10, 100, []float64{1}, []float64{1, 2}, fusion.ErrConfig},
		{"negative gap", -1, 100, []float64{1}, []float64{1}, fusion.ErrGeometry},
		{"zero width", 10, 100, []float64{0}, []float64{1}, fusion.ErrConfig},
		{"negative height", 10, 100, []float64{1}, []float64{-1}, fusion.ErrConfig},
		{"no span", 10, 0, []float64{1}, []float64{1}, fusion.ErrConfig},
		{"overlapping", 10, 30, []float64{1, 1}, []float64{20, 20}, fusion.ErrGeometry},
	} {
		_, err := PlaceCoils(0, test.span, 100, test.gap, test.radial, test.vertical)
		if !errors.Is(err, test.want) {
			t.Errorf("%s: error %v, want %v", test.name, err, test.want)
		}
	}
}
