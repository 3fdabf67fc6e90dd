package render

import (
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/soypat/fusion"
)

// DefaultCells is the default mesh resolution along the longest side of a
// solid's bounding box.
const DefaultCells = 100

// Exporter meshes solids and writes them to files.
type Exporter struct {
	// Cells is the mesh resolution, DefaultCells if zero.
	Cells int
	Log   zerolog.Logger
}

// NewExporter returns an exporter meshing at the given resolution that
// does not log.
func NewExporter(cells int) Exporter {
	return Exporter{Cells: cells, Log: zerolog.Nop()}
}

func (e Exporter) cells() int {
	if e.Cells == 0 {
		return DefaultCells
	}
	return e.Cells
}

// Mesh returns the triangles of the solid's surface.
func (e Exporter) Mesh(name string, s fusion.SDF3) ([]Triangle3, error) {
	start := time.Now()
	r, err := NewOctreeRenderer(s, e.cells())
	if err != nil {
		return nil, fusion.Errorf(fusion.ErrGeometry, "meshing %s: %v", name, err)
	}
	model, err := RenderAll(r)
	if err != nil {
		return nil, err
	}
	if len(model) == 0 {
		return nil, fusion.Errorf(fusion.ErrGeometry, "meshing %s: no surface found at %d cells", name, e.cells())
	}
	e.Log.Debug().Str("shape", name).Int("triangles", len(model)).Dur("took", time.Since(start)).Msg("meshed")
	return model, nil
}

// STL meshes s and writes it to a binary STL file at path.
func (e Exporter) STL(path, name string, s fusion.SDF3) error {
	model, err := e.Mesh(name, s)
	if err != nil {
		return err
	}
	solid, err := ToSolid(name, model)
	if err != nil {
		return err
	}
	if err := solid.WriteFile(path); err != nil {
		return err
	}
	e.Log.Info().Str("shape", name).Str("file", path).Msg("wrote stl")
	return nil
}

// STEP meshes s and writes it to a faceted STEP file at path.
func (e Exporter) STEP(path, name string, s fusion.SDF3) error {
	model, err := e.Mesh(name, s)
	if err != nil {
		return err
	}
	fp, err := os.Create(path)
	if err != nil {
		return err
	}
	defer fp.Close()
	if err := WriteSTEP(fp, name, model); err != nil {
		return err
	}
	if err := fp.Close(); err != nil {
		return err
	}
	e.Log.Info().Str("shape", name).Str("file", path).Msg("wrote step")
	return nil
}

// PNG meshes s and renders a preview of it to a PNG file at path.
func (e Exporter) PNG(path, name string, s fusion.SDF3, view View) error {
	model, err := e.Mesh(name, s)
	if err != nil {
		return err
	}
	if err := CreatePNG(path, model, view); err != nil {
		return err
	}
	e.Log.Info().Str("shape", name).Str("file", path).Msg("wrote preview")
	return nil
}
