package render

import (
	"os"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
	"github.com/rpaloschi/dxf-go/core"
	"github.com/rpaloschi/dxf-go/entities"
	"github.com/soypat/fusion"
	"github.com/yofu/dxf"
	"github.com/yofu/dxf/color"
	"gonum.org/v1/gonum/spatial/r2"
)

// Outline is the closed polyline of a named cross section. The closing
// vertex is implicit.
type Outline struct {
	Name     string
	Vertices []r2.Vec
}

func (o Outline) ring() orb.Ring {
	ring := make(orb.Ring, 0, len(o.Vertices)+1)
	for _, v := range o.Vertices {
		ring = append(ring, orb.Point{v.X, v.Y})
	}
	if len(ring) > 0 {
		ring = append(ring, ring[0])
	}
	return ring
}

func checkOutlines(outlines []Outline) error {
	if len(outlines) == 0 {
		return fusion.Errorf(fusion.ErrConfig, "no outlines to export")
	}
	for _, o := range outlines {
		if len(o.Vertices) < 3 {
			return fusion.Errorf(fusion.ErrGeometry, "outline %q has %d vertices", o.Name, len(o.Vertices))
		}
	}
	return nil
}

var layerColors = []color.ColorNumber{color.Red, color.Yellow, color.Green, color.Cyan, color.Blue, color.Magenta}

// CreateDXF writes each outline as a closed polyline on a layer named
// after it.
func CreateDXF(path string, outlines []Outline) error {
	if err := checkOutlines(outlines); err != nil {
		return err
	}
	d := dxf.NewDrawing()
	d.Header().LtScale = 1.0
	layers := make(map[string]bool)
	for _, o := range outlines {
		if !layers[o.Name] {
			c := layerColors[len(layers)%len(layerColors)]
			if _, err := d.AddLayer(o.Name, c, dxf.DefaultLineType, true); err != nil {
				return err
			}
			layers[o.Name] = true
		}
		if err := d.ChangeLayer(o.Name); err != nil {
			return err
		}
		vertices := make([][]float64, len(o.Vertices))
		for j, v := range o.Vertices {
			vertices[j] = []float64{v.X, v.Y}
		}
		// Drawing.LwPolyline puts the entity on the current layer.
		if _, err := d.LwPolyline(true, vertices...); err != nil {
			return err
		}
	}
	return d.SaveAs(path)
}

// ReadDXF returns the closed polylines in the ENTITIES section of a DXF
// file as outlines named after their layer, in file order.
func ReadDXF(path string) ([]Outline, error) {
	fp, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer fp.Close()
	tags := core.TagSlice(core.AllTags(core.Tagger(fp)))
	var (
		outlines []Outline
		section  string
	)
	for _, group := range core.TagGroups(tags, 0) {
		switch group[0].Value.ToString() {
		case "SECTION":
			if len(group) > 1 && group[1].Code == 2 {
				section = group[1].Value.ToString()
			}
			continue
		case "ENDSEC":
			section = ""
			continue
		case "LWPOLYLINE":
		default:
			continue
		}
		if section != "ENTITIES" {
			continue
		}
		lwp, err := entities.NewLWPolyline(group)
		if err != nil {
			return nil, err
		}
		if !lwp.Closed {
			continue
		}
		o := Outline{Vertices: make([]r2.Vec, len(lwp.Points))}
		if layer := group.AllWithCode(8); len(layer) > 0 {
			o.Name = layer[0].Value.ToString()
		}
		for i, p := range lwp.Points {
			o.Vertices[i] = r2.Vec{X: p.Point.X, Y: p.Point.Y}
		}
		outlines = append(outlines, o)
	}
	return outlines, nil
}

// GeoJSON returns the outlines as a feature collection of polygons with
// the outline name in the "name" property.
func GeoJSON(outlines []Outline) (*geojson.FeatureCollection, error) {
	if err := checkOutlines(outlines); err != nil {
		return nil, err
	}
	fc := geojson.NewFeatureCollection()
	for _, o := range outlines {
		f := geojson.NewFeature(orb.Polygon{o.ring()})
		f.Properties["name"] = o.Name
		fc.Append(f)
	}
	return fc, nil
}

// CreateGeoJSON writes the outlines to a GeoJSON file.
func CreateGeoJSON(path string, outlines []Outline) error {
	fc, err := GeoJSON(outlines)
	if err != nil {
		return err
	}
	b, err := fc.MarshalJSON()
	if err != nil {
		return err
	}
	return os.WriteFile(path, b, 0o644)
}
