/*
 * depict.go, part of goFF.
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

package chem

import (
	"bytes"
	"fmt"
	"image/color"
	"math"

	v3 "github.com/rmera/goff/v3"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgsvg"
)

const depictBond = 1.5 //bond length in the 2D layout

var elementColor = map[string]color.RGBA{
	"N":  {R: 48, G: 80, B: 248, A: 255},
	"O":  {R: 255, G: 13, B: 13, A: 255},
	"F":  {R: 20, G: 160, B: 20, A: 255},
	"Cl": {R: 20, G: 160, B: 20, A: 255},
	"Br": {R: 166, G: 41, B: 41, A: 255},
	"I":  {R: 148, G: 0, B: 148, A: 255},
	"S":  {R: 200, G: 160, B: 0, A: 255},
	"P":  {R: 255, G: 128, B: 0, A: 255},
}

//Layout2D returns 2D coordinates for the atoms of M. If M has a conformer, it is
//projected onto its best plane, otherwise a force-directed layout is computed.
//The result is deterministic.
func Layout2D(M *Molecule) ([][2]float64, error) {
	n := M.Len()
	ret := make([][2]float64, n)
	if M.NConformers() > 0 {
		c, err := M.Conformer(0)
		if err != nil {
			return nil, ErrDecorate(err, "Layout2D")
		}
		if n < 3 {
			for i := 0; i < n; i++ {
				ret[i] = [2]float64{c.Distance(0, i), 0}
			}
			return ret, nil
		}
		axes, err := BestPlane(c)
		if err != nil {
			return nil, ErrDecorate(err, "Layout2D")
		}
		center := c.Centroid()
		for i := 0; i < n; i++ {
			v := v3.Sub(c.Vec(i), center)
			ret[i] = [2]float64{v3.Dot(v, axes[0]), v3.Dot(v, axes[1])}
		}
		return ret, nil
	}
	radius := depictBond * float64(n) / (2 * math.Pi)
	for i := range ret {
		a := 2 * math.Pi * float64(i) / float64(n)
		ret[i] = [2]float64{radius * math.Cos(a), radius * math.Sin(a)}
	}
	const steps = 500
	for s := 0; s < steps; s++ {
		force := make([][2]float64, n)
		for i := 0; i < n; i++ {
			for j := i + 1; j < n; j++ {
				dx := ret[j][0] - ret[i][0]
				dy := ret[j][1] - ret[i][1]
				d := math.Max(math.Hypot(dx, dy), 1e-3)
				var f float64
				if M.Bond(i, j) != nil {
					f = 0.2 * (d - depictBond)
				} else if d < 3*depictBond {
					f = -0.5 / (d * d)
				}
				force[i][0] += f * dx / d
				force[i][1] += f * dy / d
				force[j][0] -= f * dx / d
				force[j][1] -= f * dy / d
			}
		}
		cool := 1 - float64(s)/steps
		for i := range ret {
			fx, fy := force[i][0], force[i][1]
			norm := math.Hypot(fx, fy)
			if norm > 0.5 {
				fx, fy = 0.5*fx/norm, 0.5*fy/norm
			}
			ret[i][0] += cool * fx
			ret[i][1] += cool * fy
		}
	}
	return ret, nil
}

//Depict returns an SVG drawing of the 2D structure of M, of size x size points.
func Depict(M *Molecule, size float64) (string, error) {
	pos, err := Layout2D(M)
	if err != nil {
		return "", ErrDecorate(err, "Depict")
	}
	p := plot.New()
	p.HideAxes()
	for _, b := range M.Bonds {
		i, j := b.At1.index, b.At2.index
		lines := bondLines(pos[i], pos[j], b)
		for k, xy := range lines {
			l, err := plotter.NewLine(xy)
			if err != nil {
				return "", WrapError(ErrRuntimeDelegation, err, "Depict", "bond %d", b.Index)
			}
			l.LineStyle.Width = vg.Points(1.2)
			if b.Aromatic && k > 0 {
				l.LineStyle.Dashes = []vg.Length{vg.Points(2), vg.Points(2)}
			}
			p.Add(l)
		}
	}
	var xys plotter.XYs
	var labels []string
	var colors []color.Color
	for i, at := range M.Atoms {
		if at.Symbol == "C" && M.Len() > 1 && at.FormalCharge == 0 {
			continue
		}
		xys = append(xys, plotter.XY{X: pos[i][0], Y: pos[i][1]})
		labels = append(labels, atomLabel(at))
		c, ok := elementColor[at.Symbol]
		if !ok {
			c = color.RGBA{A: 255}
		}
		colors = append(colors, c)
	}
	if len(xys) > 0 {
		bg, err := plotter.NewScatter(xys)
		if err != nil {
			return "", WrapError(ErrRuntimeDelegation, err, "Depict", "label background")
		}
		bg.GlyphStyle.Shape = draw.CircleGlyph{}
		bg.GlyphStyle.Radius = vg.Points(7)
		bg.GlyphStyle.Color = color.White
		p.Add(bg)
		lab, err := plotter.NewLabels(plotter.XYLabels{XYs: xys, Labels: labels})
		if err != nil {
			return "", WrapError(ErrRuntimeDelegation, err, "Depict", "labels")
		}
		for k := range lab.TextStyle {
			lab.TextStyle[k].Color = colors[k]
			lab.TextStyle[k].XAlign = draw.XCenter
			lab.TextStyle[k].YAlign = draw.YCenter
		}
		p.Add(lab)
	}
	squareBox(p, pos)
	c := vgsvg.New(vg.Length(size), vg.Length(size))
	p.Draw(draw.New(c))
	var buf bytes.Buffer
	if _, err := c.WriteTo(&buf); err != nil {
		return "", WrapError(ErrRuntimeDelegation, err, "Depict", "writing SVG")
	}
	return buf.String(), nil
}

func atomLabel(at *Atom) string {
	switch {
	case at.FormalCharge == 1:
		return at.Symbol + "+"
	case at.FormalCharge == -1:
		return at.Symbol + "-"
	case at.FormalCharge > 0:
		return fmt.Sprintf("%s%d+", at.Symbol, at.FormalCharge)
	case at.FormalCharge < 0:
		return fmt.Sprintf("%s%d-", at.Symbol, -at.FormalCharge)
	}
	return at.Symbol
}

//bondLines returns one segment per drawn line of the bond: the bond axis plus
//parallel, shortened segments for multiple and aromatic bonds.
func bondLines(a, b [2]float64, bond *Bond) []plotter.XYs {
	ret := []plotter.XYs{{{X: a[0], Y: a[1]}, {X: b[0], Y: b[1]}}}
	extra := bond.Order - 1
	if bond.Aromatic {
		extra = 1
	}
	dx, dy := b[0]-a[0], b[1]-a[1]
	d := math.Hypot(dx, dy)
	if d == 0 {
		return ret
	}
	nx, ny := -dy/d*0.15*depictBond, dx/d*0.15*depictBond
	for k := 1; k <= extra; k++ {
		sign := 1.0
		if k == 2 {
			sign = -1
		}
		sa := [2]float64{a[0] + 0.15*dx + sign*nx, a[1] + 0.15*dy + sign*ny}
		sb := [2]float64{b[0] - 0.15*dx + sign*nx, b[1] - 0.15*dy + sign*ny}
		ret = append(ret, plotter.XYs{{X: sa[0], Y: sa[1]}, {X: sb[0], Y: sb[1]}})
	}
	return ret
}

//squareBox sets equal ranges in both axes, so the drawing is not distorted.
func squareBox(p *plot.Plot, pos [][2]float64) {
	minx, maxx := math.Inf(1), math.Inf(-1)
	miny, maxy := math.Inf(1), math.Inf(-1)
	for _, v := range pos {
		minx, maxx = math.Min(minx, v[0]), math.Max(maxx, v[0])
		miny, maxy = math.Min(miny, v[1]), math.Max(maxy, v[1])
	}
	half := math.Max(maxx-minx, maxy-miny)/2 + depictBond
	cx, cy := (minx+maxx)/2, (miny+maxy)/2
	p.X.Min, p.X.Max = cx-half, cx+half
	p.Y.Min, p.Y.Max = cy-half, cy+half
}
