package render

import (
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"
)

// PlotOutlines draws the outlines on equally scaled axes and saves the
// plot to path. The image format follows the file extension: png, svg,
// pdf, eps, jpg or tif.
func PlotOutlines(path, title string, outlines []Outline) error {
	if err := checkOutlines(outlines); err != nil {
		return err
	}
	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = "R (cm)"
	p.Y.Label.Text = "Z (cm)"
	p.Add(plotter.NewGrid())
	for i, o := range outlines {
		ring := o.ring()
		xys := make(plotter.XYs, len(ring))
		for j, pt := range ring {
			xys[j].X, xys[j].Y = pt[0], pt[1]
		}
		line, err := plotter.NewLine(xys)
		if err != nil {
			return err
		}
		line.Color = plotutil.Color(i)
		p.Add(line)
		p.Legend.Add(o.Name, line)
	}
	// equal scaling of both axes.
	span := p.X.Max - p.X.Min
	if h := p.Y.Max - p.Y.Min; h > span {
		span = h
	}
	cx, cy := (p.X.Max+p.X.Min)/2, (p.Y.Max+p.Y.Min)/2
	p.X.Min, p.X.Max = cx-span/2, cx+span/2
	p.Y.Min, p.Y.Max = cy-span/2, cy+span/2
	p.Legend.Top = true
	return p.Save(8*vg.Inch, 8*vg.Inch, path)
}
