package reactor

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/soypat/fusion"
	"github.com/soypat/fusion/form3"
	"github.com/soypat/fusion/profile"
	"github.com/soypat/fusion/render"
)

func (r *BallReactor) exporter() render.Exporter {
	return render.Exporter{Cells: r.cells, Log: r.log}
}

// ExportSTL writes each component to a binary STL file in dir named after
// the component's STL filename and returns the paths written.
func (r *BallReactor) ExportSTL(dir string) ([]string, error) {
	return r.export(dir, (*form3.Shape).STLFilename, r.exporter().STL)
}

// ExportSTP writes each component to a faceted STEP file in dir named
// after the component's STEP filename and returns the paths written.
func (r *BallReactor) ExportSTP(dir string) ([]string, error) {
	return r.export(dir, (*form3.Shape).STPFilename, r.exporter().STEP)
}

func (r *BallReactor) export(dir string, filename func(*form3.Shape) string, write func(path, name string, s fusion.SDF3) error) ([]string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	paths := make([]string, 0, len(r.shapes))
	for _, s := range r.shapes {
		solid, err := s.Solid()
		if err != nil {
			return paths, err
		}
		path := filepath.Join(dir, filename(s))
		if err := write(path, s.Name(), solid); err != nil {
			return paths, fmt.Errorf("exporting %s: %w", s.Name(), err)
		}
		paths = append(paths, path)
	}
	return paths, nil
}

// ExportPNG renders a preview of the whole reactor.
func (r *BallReactor) ExportPNG(path string, view render.View) error {
	solid, err := r.Solid()
	if err != nil {
		return err
	}
	return r.exporter().PNG(path, "ball_reactor", solid, view)
}

// NeutronicsDescription lists the material and geometry files of every
// component.
func (r *BallReactor) NeutronicsDescription() []render.Material {
	desc := make([]render.Material, len(r.shapes))
	for i, s := range r.shapes {
		desc[i] = render.Material{
			Material:    s.Material(),
			STPFilename: s.STPFilename(),
			STLFilename: s.STLFilename(),
			ID:          render.ComponentID(s.Name()),
		}
	}
	return desc
}

// ExportNeutronicsDescription writes the neutronics description to a
// JSON file.
func (r *BallReactor) ExportNeutronicsDescription(path string) error {
	if err := render.CreateNeutronics(path, r.NeutronicsDescription()); err != nil {
		return err
	}
	r.log.Info().Str("file", path).Int("components", len(r.shapes)).Msg("wrote neutronics description")
	return nil
}

// Outlines returns the poloidal cross sections of the components drawn
// in the XZ plane, including shapes joined to them.
func (r *BallReactor) Outlines() []render.Outline {
	var outlines []render.Outline
	for _, s := range r.shapes {
		for _, part := range append([]*form3.Shape{s}, s.Union()...) {
			if part.Plane() != profile.XZ {
				continue
			}
			outlines = append(outlines, render.Outline{
				Name:     s.Name(),
				Vertices: part.Profile().Polyline(profile.DefaultSegments),
			})
		}
	}
	return outlines
}

// ExportDXF writes the component cross sections to a DXF file, one layer
// per component.
func (r *BallReactor) ExportDXF(path string) error {
	return render.CreateDXF(path, r.Outlines())
}

// ExportGeoJSON writes the component cross sections to a GeoJSON file.
func (r *BallReactor) ExportGeoJSON(path string) error {
	return render.CreateGeoJSON(path, r.Outlines())
}

// PlotProfiles draws the component cross sections to an image whose
// format follows the file extension.
func (r *BallReactor) PlotProfiles(path string) error {
	return render.PlotOutlines(path, "ball reactor", r.Outlines())
}
