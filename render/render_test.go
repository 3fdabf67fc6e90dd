package render

import (
	"bytes"
	"errors"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
	"github.com/soypat/fusion"
	"gonum.org/v1/gonum/spatial/r2"
	"gonum.org/v1/gonum/spatial/r3"
)

func box(t testing.TB, x, y, z float64) fusion.SDF3 {
	t.Helper()
	sq, err := fusion.Polygon2D([]r2.Vec{{X: -x / 2, Y: -y / 2}, {X: x / 2, Y: -y / 2}, {X: x / 2, Y: y / 2}, {X: -x / 2, Y: y / 2}})
	if err != nil {
		t.Fatal(err)
	}
	return fusion.Extrude3D(sq, z)
}

func ring(t testing.TB) fusion.SDF3 {
	t.Helper()
	sq, err := fusion.Polygon2D([]r2.Vec{{X: 1, Y: -1}, {X: 2, Y: -1}, {X: 2, Y: 1}, {X: 1, Y: 1}})
	if err != nil {
		t.Fatal(err)
	}
	return fusion.Revolve3D(sq, 2*math.Pi)
}

func mesh(t testing.TB, s fusion.SDF3, cells int) []Triangle3 {
	t.Helper()
	r, err := NewOctreeRenderer(s, cells)
	if err != nil {
		t.Fatal(err)
	}
	model, err := RenderAll(r)
	if err != nil {
		t.Fatal(err)
	}
	if len(model) == 0 {
		t.Fatal("no triangles")
	}
	return model
}

// meshVolume is the signed volume enclosed by a closed mesh, positive
// for outward facing triangles.
func meshVolume(model []Triangle3) float64 {
	var v float64
	for _, t := range model {
		v += r3.Dot(t[0], r3.Cross(t[1], t[2])) / 6
	}
	return v
}

func TestOctreeMeshClosed(t *testing.T) {
	for _, test := range []struct {
		name   string
		s      fusion.SDF3
		volume float64
	}{
		{"box", box(t, 3, 2, 1), 6},
		{"ring", ring(t), 6 * math.Pi},
	} {
		model := mesh(t, test.s, 40)
		type edge [2]r3.Vec
		count := make(map[edge]int)
		for _, tri := range model {
			for i := range tri {
				count[edge{tri[i], tri[(i+1)%3]}]++
			}
		}
		for e, n := range count {
			if n != 1 || count[edge{e[1], e[0]}] != 1 {
				t.Errorf("%s: edge %v used %d times, reverse %d times", test.name, e, n, count[edge{e[1], e[0]}])
				break
			}
		}
		got := meshVolume(model)
		if math.Abs(got-test.volume) > 0.03*test.volume {
			t.Errorf("%s: mesh volume %g, want %g", test.name, got, test.volume)
		}
	}
}

func TestInterpolateSymmetric(t *testing.T) {
	a, b := r3.Vec{X: 0.1, Y: -0.7, Z: 1.3}, r3.Vec{X: 0.1, Y: -0.6, Z: 1.3}
	for _, v := range [][2]float64{{-0.03, 0.07}, {-1e-9, 0.3}, {0.2, -0.011}, {0.5, 0.5}} {
		ab := interpolate(a, b, v[0], v[1])
		ba := interpolate(b, a, v[1], v[0])
		if ab != ba {
			t.Errorf("values %v: crossing %v one way, %v the other", v, ab, ba)
		}
	}
}

func TestReadTrianglesSmallBuffer(t *testing.T) {
	s := box(t, 3, 2, 1)
	want := mesh(t, s, 20)
	r, err := NewOctreeRenderer(s, 20)
	if err != nil {
		t.Fatal(err)
	}
	var got []Triangle3
	buf := make([]Triangle3, 1)
	for {
		n, err := r.ReadTriangles(buf)
		got = append(got, buf[:n]...)
		if err != nil {
			break
		}
	}
	if len(got) != len(want) {
		t.Errorf("read %d triangles one at a time, want %d", len(got), len(want))
	}
}

func TestOctreeRendererErrors(t *testing.T) {
	if _, err := NewOctreeRenderer(box(t, 1, 1, 1), 1); !errors.Is(err, fusion.ErrConfig) {
		t.Errorf("one cell: error %v", err)
	}
	empty := fusion.Intersect3D(box(t, 1, 1, 1), fusion.RotateZ3D(fusion.Extrude3D(mustPoly(t, 10), 1), 0))
	if _, err := NewOctreeRenderer(empty, 10); !errors.Is(err, fusion.ErrGeometry) {
		t.Errorf("empty solid: error %v", err)
	}
}

func mustPoly(t testing.TB, offset float64) fusion.SDF2 {
	t.Helper()
	p, err := fusion.Polygon2D([]r2.Vec{{X: offset, Y: offset}, {X: offset + 1, Y: offset}, {X: offset + 1, Y: offset + 1}})
	if err != nil {
		t.Fatal(err)
	}
	return p
}

func TestSTLWriteReadback(t *testing.T) {
	input := mesh(t, ring(t), 30)
	var b bytes.Buffer
	if err := WriteSTL(&b, "ring", input); err != nil {
		t.Fatal(err)
	}
	if want := 84 + 50*len(input); b.Len() != want {
		t.Errorf("binary stl is %d bytes, want %d", b.Len(), want)
	}
	output, err := ReadSTLFrom(bytes.NewReader(b.Bytes()))
	if err != nil {
		t.Fatal(err)
	}
	if len(output) != len(input) {
		t.Fatalf("read %d triangles, wrote %d", len(output), len(input))
	}
	const tol = 1e-5
	for i := range input {
		for j := range input[i] {
			if d := r3.Norm(r3.Sub(input[i][j], output[i][j])); d > tol*4 {
				t.Fatalf("triangle %d vertex %d moved by %g", i, j, d)
			}
		}
	}
}

func TestCreateSTL(t *testing.T) {
	path := filepath.Join(t.TempDir(), "box.stl")
	r, err := NewOctreeRenderer(box(t, 3, 2, 1), 20)
	if err != nil {
		t.Fatal(err)
	}
	n, err := CreateSTL(path, "box", r)
	if err != nil {
		t.Fatal(err)
	}
	model, err := ReadSTL(path)
	if err != nil {
		t.Fatal(err)
	}
	if len(model) != n {
		t.Errorf("file holds %d triangles, wrote %d", len(model), n)
	}
	if v := meshVolume(model); math.Abs(v-6) > 0.2 {
		t.Errorf("stl file volume %g, want 6", v)
	}
}

func TestToSolidRejectsNaN(t *testing.T) {
	bad := []Triangle3{{{X: math.NaN()}, {X: 1}, {Y: 1}}}
	if _, err := ToSolid("bad", bad); !errors.Is(err, fusion.ErrGeometry) {
		t.Errorf("NaN vertex: error %v", err)
	}
	if _, err := ToSolid("empty", nil); !errors.Is(err, fusion.ErrGeometry) {
		t.Errorf("no triangles: error %v", err)
	}
	solid, err := ToSolid("flat", []Triangle3{{{}, {X: 1}, {X: 2}}})
	if err != nil {
		t.Fatal(err)
	}
	if solid.Triangles[0].Normal != [3]float32{} {
		t.Errorf("degenerate triangle normal %v, want zero", solid.Triangles[0].Normal)
	}
}

func TestWriteSTEP(t *testing.T) {
	model := mesh(t, box(t, 3, 2, 1), 10)
	var b bytes.Buffer
	if err := WriteSTEP(&b, "box's", model); err != nil {
		t.Fatal(err)
	}
	out := b.String()
	if !strings.HasPrefix(out, "ISO-10303-21;") || !strings.HasSuffix(out, "END-ISO-10303-21;\n") {
		t.Error("missing STEP envelope")
	}
	faces := strings.Count(out, "=FACE(")
	var want int
	unique := make(map[r3.Vec]bool)
	for _, tri := range model {
		if !tri.Degenerate(0) {
			want++
			for _, v := range tri {
				unique[v] = true
			}
		}
	}
	if faces != want {
		t.Errorf("got %d faces, want %d", faces, want)
	}
	// one extra point for the placement origin.
	if got := strings.Count(out, "=CARTESIAN_POINT("); got != len(unique)+1 {
		t.Errorf("got %d points, want %d", got, len(unique)+1)
	}
	if !strings.Contains(out, "FACETED_BREP('box''s'") {
		t.Error("brep name not escaped")
	}
}

var testOutlines = []Outline{
	{Name: "plasma", Vertices: []r2.Vec{{X: 400, Y: 0}, {X: 500, Y: -100}, {X: 600, Y: 0}, {X: 500, Y: 100}}},
	{Name: "shield", Vertices: []r2.Vec{{X: 10, Y: -300}, {X: 60, Y: -300}, {X: 60, Y: 300}, {X: 10, Y: 300}}},
}

func TestGeoJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "profiles.geojson")
	if err := CreateGeoJSON(path, testOutlines); err != nil {
		t.Fatal(err)
	}
	b, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	fc, err := geojson.UnmarshalFeatureCollection(b)
	if err != nil {
		t.Fatal(err)
	}
	if len(fc.Features) != len(testOutlines) {
		t.Fatalf("got %d features", len(fc.Features))
	}
	for i, f := range fc.Features {
		if f.Properties.MustString("name") != testOutlines[i].Name {
			t.Errorf("feature %d named %v", i, f.Properties["name"])
		}
		poly, ok := f.Geometry.(orb.Polygon)
		if !ok {
			t.Fatalf("feature %d is a %T", i, f.Geometry)
		}
		if !poly[0].Closed() || len(poly[0]) != len(testOutlines[i].Vertices)+1 {
			t.Errorf("feature %d ring not closed: %v", i, poly[0])
		}
	}
	if _, err := GeoJSON([]Outline{{Name: "line", Vertices: []r2.Vec{{}, {X: 1}}}}); !errors.Is(err, fusion.ErrGeometry) {
		t.Errorf("two vertex outline: error %v", err)
	}
}

func TestCreateDXF(t *testing.T) {
	path := filepath.Join(t.TempDir(), "profiles.dxf")
	if err := CreateDXF(path, append(testOutlines, testOutlines[0])); err != nil {
		t.Fatal(err)
	}
	b, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	out := string(b)
	if got := strings.Count(out, "LWPOLYLINE"); got < 3 {
		t.Errorf("got %d polylines, want 3", got)
	}
	for _, o := range testOutlines {
		if !strings.Contains(out, o.Name) {
			t.Errorf("layer %s missing", o.Name)
		}
	}
	got, err := ReadDXF(path)
	if err != nil {
		t.Fatal(err)
	}
	want := append(testOutlines, testOutlines[0])
	if len(got) != len(want) {
		t.Fatalf("read %d outlines, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i].Name != want[i].Name || len(got[i].Vertices) != len(want[i].Vertices) {
			t.Errorf("outline %d: got %s with %d vertices", i, got[i].Name, len(got[i].Vertices))
			continue
		}
		for j, v := range want[i].Vertices {
			if math.Abs(got[i].Vertices[j].X-v.X) > 1e-6 || math.Abs(got[i].Vertices[j].Y-v.Y) > 1e-6 {
				t.Errorf("outline %d vertex %d: got %v, want %v", i, j, got[i].Vertices[j], v)
			}
		}
	}
}

func TestPlotOutlines(t *testing.T) {
	for _, ext := range []string{"png", "svg"} {
		path := filepath.Join(t.TempDir(), "profiles."+ext)
		if err := PlotOutlines(path, "test reactor", testOutlines); err != nil {
			t.Fatal(err)
		}
		if fi, err := os.Stat(path); err != nil || fi.Size() == 0 {
			t.Errorf("%s plot not written: %v", ext, err)
		}
	}
	if err := PlotOutlines(filepath.Join(t.TempDir(), "x.png"), "", nil); !errors.Is(err, fusion.ErrConfig) {
		t.Errorf("no outlines: error %v", err)
	}
}

func TestExporter(t *testing.T) {
	dir := t.TempDir()
	e := NewExporter(16)
	s := ring(t)
	if err := e.STL(filepath.Join(dir, "ring.stl"), "ring", s); err != nil {
		t.Fatal(err)
	}
	if err := e.STEP(filepath.Join(dir, "ring.stp"), "ring", s); err != nil {
		t.Fatal(err)
	}
	view := DefaultView
	view.Width, view.Height, view.Scale = 64, 48, 1
	if err := e.PNG(filepath.Join(dir, "ring.png"), "ring", s, view); err != nil {
		t.Fatal(err)
	}
	for _, name := range []string{"ring.stl", "ring.stp", "ring.png"} {
		if fi, err := os.Stat(filepath.Join(dir, name)); err != nil || fi.Size() == 0 {
			t.Errorf("%s not written: %v", name, err)
		}
	}
}

func TestNeutronics(t *testing.T) {
	in := []Material{
		{Material: "DT_plasma", STPFilename: "plasma.stp", STLFilename: "plasma.stl", ID: ComponentID("plasma")},
		{Material: "eurofer", STPFilename: "blanket.stp", STLFilename: "blanket.stl", ID: ComponentID("blanket")},
	}
	if in[0].ID == in[1].ID || in[0].ID != ComponentID("plasma") {
		t.Error("component ids must be distinct and stable")
	}
	var b bytes.Buffer
	if err := WriteNeutronics(&b, in); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(b.String(), `"stp_filename": "plasma.stp"`) {
		t.Errorf("unexpected encoding:\n%s", b.String())
	}
	out, err := ReadNeutronics(&b)
	if err != nil {
		t.Fatal(err)
	}
	if len(out) != len(in) {
		t.Fatalf("got %d entries", len(out))
	}
	for i := range in {
		if out[i] != in[i] {
			t.Errorf("entry %d: got %+v, want %+v", i, out[i], in[i])
		}
	}
	if err := WriteNeutronics(&b, []Material{{STLFilename: "x.stl"}}); !errors.Is(err, fusion.ErrConfig) {
		t.Errorf("missing material: error %v", err)
	}
}
