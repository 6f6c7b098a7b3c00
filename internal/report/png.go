package report

import (
	"bytes"
	"fmt"
	"io"

	"github.com/markusressel/pid2go/internal/util"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgimg"
)

const (
	pngWidth  = 8 * vg.Inch
	pngHeight = 5 * vg.Inch
	pngDpi    = 96
)

// Series is a named list of values, plotted over the sample index
type Series struct {
	Name   string
	Values []float64
}

// WritePNG renders the given series as a line chart with a dashed zero line
func WritePNG(w io.Writer, title string, series ...Series) error {
	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = "cycle"
	p.Legend.Top = true

	empty := true
	for i, s := range series {
		if len(s.Values) <= 0 {
			continue
		}
		empty = false

		pts := make(plotter.XYs, len(s.Values))
		for idx, value := range s.Values {
			pts[idx].X = float64(idx)
			pts[idx].Y = value
		}
		line, err := plotter.NewLine(pts)
		if err != nil {
			return fmt.Errorf("series %s: %w", s.Name, err)
		}
		line.LineStyle.Width = vg.Points(1.5)
		line.LineStyle.Color = plotutil.Color(i)
		p.Add(line)
		p.Legend.Add(s.Name, line)
	}

	if empty {
		p.Title.Text = NoData
	} else {
		zero := plotter.NewFunction(func(float64) float64 { return 0 })
		zero.Dashes = []vg.Length{vg.Points(4), vg.Points(4)}
		zero.Width = vg.Points(1)
		p.Add(zero)
	}

	c := vgimg.NewWith(
		vgimg.UseWH(pngWidth, pngHeight),
		vgimg.UseDPI(pngDpi),
	)
	p.Draw(draw.New(c))

	png := vgimg.PngCanvas{Canvas: c}
	if _, err := png.WriteTo(w); err != nil {
		return fmt.Errorf("cannot write png: %w", err)
	}
	return nil
}

// SavePNG renders the given series into a png file at path
func SavePNG(path string, title string, series ...Series) error {
	var buf bytes.Buffer
	if err := WritePNG(&buf, title, series...); err != nil {
		return err
	}
	return util.WriteFileAtomic(path, buf.Bytes())
}
