/*
 * plots.go, part of godem
 *
 * Copyright 2025 The godem developers
 *
    This program is free software: you can redistribute it and/or modify
    it under the terms of the GNU Lesser General Public License as published by
    the Free Software Foundation, either version 2.1 of the License, or
    (at your option) any later version.

    This program is distributed in the hope that it will be useful,
    but WITHOUT ANY WARRANTY; without even the implied warranty of
    MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
    GNU General Public License for more details.

    You should have received a copy of the GNU Lesser General Public License
    along with this program.  If not, see <http://www.gnu.org/licenses/>.
 *
 *
*/

package odemplot

import (
	"fmt"
	"image/color"
	"math"

	"github.com/arrow50311/godem/histo"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
)

func basicPlot(title, xlabel, ylabel string) *plot.Plot {
	p := plot.New()
	p.Title.Padding = 3 * vg.Millimeter
	p.Title.Text = title
	p.X.Label.Text = xlabel
	p.Y.Label.Text = ylabel
	p.Add(plotter.NewGrid())
	return p

}

// EnergyPlot draws the given per-frame energies as a line. The extension
// (png) is added to plotname.
func EnergyPlot(energies []float64, title, plotname string) error {
	return seriesPlot(energies, title, "Frame", "Energy (kT)", plotname)
}

// QPlot draws the given per-frame observable weights as a line. The
// extension (png) is added to plotname.
func QPlot(qs []float64, title, plotname string) error {
	return seriesPlot(qs, title, "Frame", "Q", plotname)
}

func seriesPlot(values []float64, title, xlabel, ylabel, plotname string) error {
	if values == nil {
		panic("Given nil data")
	}
	pts := make(plotter.XYs, len(values))
	for i, v := range values {
		pts[i].X = float64(i)
		pts[i].Y = v
	}
	p := basicPlot(title, xlabel, ylabel)
	l, err := plotter.NewLine(pts)
	if err != nil {
		return err
	}
	l.LineStyle.Width = vg.Points(1)
	l.LineStyle.Color = color.RGBA{B: 255, A: 255}
	p.Add(l)
	filename := fmt.Sprintf("%s.png", plotname)
	if err := p.Save(5*vg.Inch, 4*vg.Inch, filename); err != nil {
		return err
	}
	return nil
}

// HistoPlot draws the distribution in d as a line over its bin centers.
// The extension (png) is added to plotname.
func HistoPlot(d *histo.Data, title, plotname string) error {
	if d == nil {
		panic("Given nil data")
	}
	edges := d.CopyDividers()
	heights := d.View()
	pts := make(plotter.XYs, len(heights))
	for i, v := range heights {
		pts[i].X = (edges[i] + edges[i+1]) / 2
		pts[i].Y = v
	}
	p := basicPlot(title, "r (nm)", "P(r)")
	l, err := plotter.NewLine(pts)
	if err != nil {
		return err
	}
	l.LineStyle.Width = vg.Points(1)
	l.LineStyle.Color = color.RGBA{R: 255, A: 255}
	p.Add(l)
	filename := fmt.Sprintf("%s.png", plotname)
	return p.Save(5*vg.Inch, 4*vg.Inch, filename)
}

// DistanceTraces draws one line per column of the given distance data, with
// the hue spread over the columns. If a non-nil labels slice is given it
// needs one element per column, and a legend is drawn. The extension (png)
// is added to plotname.
func DistanceTraces(data *mat.Dense, labels []string, title, plotname string) error {
	if data == nil {
		panic("Given nil data")
	}
	rows, cols := data.Dims()
	if labels != nil && len(labels) < cols {
		return fmt.Errorf("DistanceTraces: If a non-nil labels slice is given it needs one element per distance column")
	}
	p := basicPlot(title, "Frame", "r (nm)")
	for j := 0; j < cols; j++ {
		pts := make(plotter.XYs, rows)
		for i := 0; i < rows; i++ {
			pts[i].X = float64(i)
			pts[i].Y = data.At(i, j)
		}
		l, err := plotter.NewLine(pts)
		if err != nil {
			return err
		}
		r, g, b := colors(j, cols)
		l.LineStyle.Width = vg.Points(1)
		l.LineStyle.Color = color.RGBA{R: r, G: g, B: b, A: 255}
		p.Add(l)
		if labels != nil {
			p.Legend.Add(labels[j], l)
		}
	}
	filename := fmt.Sprintf("%s.png", plotname)
	return p.Save(5*vg.Inch, 4*vg.Inch, filename)
}

// spreads the hue over the first 300 degrees of the color circle, so the
// last series doesn't wrap back to the red of the first one.
func colors(key, steps int) (r, g, b uint8) {
	h := 300 * float64(key) / float64(steps)
	return hsv2RGB(h, 1, 1)
}

// takes hue (0-360), v and s (0-1), returns r,g,b (0-255)
func hsv2RGB(h, v, s float64) (uint8, uint8, uint8) {
	maxcolor := 255.0
	conversion := maxcolor * v
	if s == 0.0 {
		return uint8(conversion), uint8(conversion), uint8(conversion)
	}
	h = h / 60
	i := math.Floor(h)
	f := h - i
	p := v * (1 - s)
	q := v * (1 - s*f)
	t := v * (1 - s*(1-f))
	var r, g, b float64
	switch int(i) {
	case 0:
		r, g, b = v, t, p
	case 1:
		r, g, b = q, v, p
	case 2:
		r, g, b = p, v, t
	case 3:
		r, g, b = p, q, v
	case 4:
		r, g, b = t, p, v
	default: //case 5
		r, g, b = v, p, q
	}
	return uint8(r * conversion), uint8(g * conversion), uint8(b * conversion)
}
