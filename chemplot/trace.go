/*
 * trace.go, part of goFF.
 *
 * Copyright 2026 Raul Mera A.
 *
 * This program is free software; you can redistribute it and/or modify
 * it under the terms of the GNU Lesser General Public License as
 * published by the Free Software Foundation; either version 2.1 of the
 * License, or (at your option) any later version.
 *
 * This program is distributed in the hope that it will be useful,
 * but WITHOUT ANY WARRANTY; without even the implied warranty of
 * MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
 * GNU General Public License for more details.
 *
 * You should have received a copy of the GNU Lesser General
 * Public License along with this program.  If not, see
 * <http://www.gnu.org/licenses/>.
 *
 */
/***Dedicated to the long life of the Ven. Khenpo Phuntzok Tenzin Rinpoche***/

// Package chemplot plots quantities obtained along a calculation.
package chemplot

import (
	"fmt"
	"image/color"
	"path/filepath"

	chem "github.com/rmera/goff"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
)

// basicTracePlot returns an empty plot with a grid and the given title and axis labels.
func basicTracePlot(title, xlabel, ylabel string) *plot.Plot {
	p := plot.New()
	p.Title.Padding = 3 * vg.Millimeter
	p.Title.Text = title
	p.X.Label.Text = xlabel
	p.Y.Label.Text = ylabel
	p.Add(plotter.NewGrid())
	return p
}

// TracePlot returns a plot of the energies of a minimization trace against the iteration
// number. The first value is iteration 0. If relative is true, the energies are plotted
// relative to the last one.
func TracePlot(trace []float64, unit string, relative bool) (*plot.Plot, error) {
	if len(trace) == 0 {
		return nil, chem.NewError(chem.ErrPrecondition, "TracePlot", "empty trace")
	}
	ylabel := fmt.Sprintf("Energy (%s)", unit)
	var ref float64
	if relative {
		ref = trace[len(trace)-1]
		ylabel = fmt.Sprintf("E - E(final) (%s)", unit)
	}
	pts := make(plotter.XYs, len(trace))
	for i, e := range trace {
		pts[i].X = float64(i)
		pts[i].Y = e - ref
	}
	p := basicTracePlot("Minimization", "Iteration", ylabel)
	l, s, err := plotter.NewLinePoints(pts)
	if err != nil {
		return nil, chem.WrapError(chem.ErrPrecondition, err, "TracePlot", "bad trace")
	}
	l.LineStyle.Width = vg.Points(1)
	s.GlyphStyle.Color = color.RGBA{R: 200, A: 255}
	s.GlyphStyle.Radius = vg.Points(1.5)
	p.Add(l, s)
	return p, nil
}

// SaveTrace plots trace and saves the plot to filename. The format is given by the file
// extension (png, svg, pdf, eps, jpg or tif).
func SaveTrace(trace []float64, unit string, relative bool, filename string) error {
	switch filepath.Ext(filename) {
	case ".png", ".svg", ".pdf", ".eps", ".jpg", ".jpeg", ".tif", ".tiff":
	default:
		return chem.NewError(chem.ErrConfiguration, "SaveTrace", "unknown plot format for %q", filename)
	}
	p, err := TracePlot(trace, unit, relative)
	if err != nil {
		return err
	}
	if err := p.Save(5*vg.Inch, 4*vg.Inch, filename); err != nil {
		return fmt.Errorf("saving %s: %w", filename, err)
	}
	return nil
}
