/*
 * interchange.go, part of goFF.
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

// Package interchange binds a topology to the parameters a SMIRNOFF force field assigns
// to it, and exports the result as an mm.System or a GROMACS topology.
package interchange

import (
	"fmt"
	"math"
	"strconv"

	chem "github.com/rmera/goff"
	"github.com/rmera/goff/ff"
	"github.com/rmera/goff/units"
)

// BondTerm is a harmonic bond between two atoms of the topology (global indexes).
type BondTerm struct {
	Atoms     [2]int
	Parameter *ff.Parameter
	Length    units.Value
	K         units.Value
}

// AngleTerm is a harmonic angle; Atoms[1] is the central atom.
type AngleTerm struct {
	Atoms     [3]int
	Parameter *ff.Parameter
	Angle     units.Value
	K         units.Value
}

// TorsionTerm is a proper torsion, a Fourier series with one entry per periodicity.
type TorsionTerm struct {
	Atoms       [4]int
	Parameter   *ff.Parameter
	Periodicity []int
	Phase       []units.Value
	K           []units.Value
	Idivf       []float64
}

// VdWTerm holds the Lennard-Jones parameters of one atom.
type VdWTerm struct {
	Atom      int
	Parameter *ff.Parameter
	Epsilon   units.Value
	Sigma     units.Value
}

// VirtualSite is an interaction site without mass attached to real atoms.
type VirtualSite struct {
	Parents []int
	Type    string
}

// span marks the terms that belong to one molecule.
type span struct {
	bonds, angles, torsions [2]int
}

// Interchange is the immutable result of applying a force field to a topology.
type Interchange struct {
	top       *chem.Topology
	forceName string
	bonds     []BondTerm
	angles    []AngleTerm
	torsions  []TorsionTerm
	vdw       []VdWTerm
	spans     []span
	scale14   float64
	skipped   []string
}

// FromSMIRNOFF applies the force field to every molecule of the topology, handler by
// handler in the order of ff.Categories. If any term of any molecule is left without a
// parameter, it fails with chem.ErrParameterization and no Interchange is returned.
func FromSMIRNOFF(F *ff.ForceField, top *chem.Topology) (*Interchange, error) {
	if F == nil || top == nil {
		return nil, chem.NewError(chem.ErrPrecondition, "FromSMIRNOFF", "a force field and a topology are needed")
	}
	I := &Interchange{top: top, forceName: F.Name, scale14: 0.5, skipped: F.Skipped()}
	if h, err := F.Handler(ff.VdW); err == nil {
		if s, ok := h.Attr("scale14"); ok {
			v, err := strconv.ParseFloat(s, 64)
			if err != nil {
				return nil, chem.WrapError(chem.ErrConfiguration, err, "FromSMIRNOFF", "bad vdW scale14")
			}
			I.scale14 = v
		}
	}
	for m := 0; m < top.NMolecules(); m++ {
		mol := top.Molecule(m)
		off := top.Offset(m)
		var sp span
		sp.bonds[0], sp.angles[0], sp.torsions[0] = len(I.bonds), len(I.angles), len(I.torsions)
		for _, cat := range ff.Categories {
			assigned, err := assign(F, cat, mol, m)
			if err != nil {
				return nil, chem.ErrDecorate(err, "FromSMIRNOFF")
			}
			for _, a := range assigned {
				if err := I.add(cat, a, off); err != nil {
					return nil, chem.ErrDecorate(err, "FromSMIRNOFF")
				}
			}
		}
		sp.bonds[1], sp.angles[1], sp.torsions[1] = len(I.bonds), len(I.angles), len(I.torsions)
		I.spans = append(I.spans, sp)
	}
	return I, nil
}

// assign returns the assignments of one category for a molecule, failing if any term of the
// molecule is left unmatched.
func assign(F *ff.ForceField, cat ff.Category, mol *chem.Molecule, m int) ([]ff.Assignment, error) {
	h, err := F.Handler(cat)
	if err != nil {
		if n := len(ff.Terms(cat, mol)); n > 0 {
			return nil, chem.WrapError(chem.ErrParameterization, err, "assign", "molecule %d has %d %s terms", m, n, cat)
		}
		return nil, nil
	}
	assigned, missing := h.Assign(mol)
	if len(missing) > 0 {
		return nil, chem.NewError(chem.ErrParameterization, "assign", "%d %s term(s) of molecule %d (%s) match no parameter of %s, the first is %v", len(missing), cat, m, mol.Name, F.Name, describe(mol, missing[0]))
	}
	return assigned, nil
}

func describe(mol *chem.Molecule, atoms []int) string {
	s := ""
	for i, a := range atoms {
		if i > 0 {
			s += "-"
		}
		s += fmt.Sprintf("%s%d", mol.Atom(a).Symbol, a)
	}
	return s
}

func (I *Interchange) add(cat ff.Category, a ff.Assignment, off int) error {
	p := a.Parameter
	g := make([]int, len(a.Atoms))
	for i, v := range a.Atoms {
		g[i] = v + off
	}
	var err error
	switch cat {
	case ff.Bonds:
		t := BondTerm{Atoms: [2]int{g[0], g[1]}, Parameter: p}
		if t.Length, err = p.Quantity("length"); err != nil {
			return err
		}
		if t.K, err = p.Quantity("k"); err != nil {
			return err
		}
		I.bonds = append(I.bonds, t)
	case ff.Angles:
		t := AngleTerm{Atoms: [3]int{g[0], g[1], g[2]}, Parameter: p}
		if t.Angle, err = p.Quantity("angle"); err != nil {
			return err
		}
		if t.K, err = p.Quantity("k"); err != nil {
			return err
		}
		I.angles = append(I.angles, t)
	case ff.ProperTorsions:
		t, err := torsion(p)
		if err != nil {
			return err
		}
		t.Atoms = [4]int{g[0], g[1], g[2], g[3]}
		I.torsions = append(I.torsions, t)
	case ff.VdW:
		t := VdWTerm{Atom: g[0], Parameter: p}
		if t.Epsilon, err = p.Quantity("epsilon"); err != nil {
			return err
		}
		if _, ok := p.Attr("sigma"); ok {
			t.Sigma, err = p.Quantity("sigma")
		} else {
			var rmin units.Value
			rmin, err = p.Quantity("rmin_half")
			t.Sigma = units.New(2*rmin.Magnitude/math.Pow(2, 1.0/6), rmin.Unit)
		}
		if err != nil {
			return err
		}
		I.vdw = append(I.vdw, t)
	}
	return nil
}

func torsion(p *ff.Parameter) (TorsionTerm, error) {
	t := TorsionTerm{Parameter: p}
	for n := 1; n <= p.Terms(); n++ {
		suffix := strconv.Itoa(n)
		per, err := p.Float("periodicity" + suffix)
		if err != nil {
			return t, err
		}
		if per < 1 || per != math.Trunc(per) {
			return t, chem.NewError(chem.ErrConfiguration, "torsion", "parameter %s: periodicity%d must be a positive integer, not %g", p.ID, n, per)
		}
		phase, err := p.Quantity("phase" + suffix)
		if err != nil {
			return t, err
		}
		k, err := p.Quantity("k" + suffix)
		if err != nil {
			return t, err
		}
		idivf := 1.0
		if _, ok := p.Attr("idivf" + suffix); ok {
			if idivf, err = p.Float("idivf" + suffix); err != nil {
				return t, err
			}
		}
		if idivf == 0 {
			return t, chem.NewError(chem.ErrConfiguration, "torsion", "parameter %s: idivf%d is zero", p.ID, n)
		}
		t.Periodicity = append(t.Periodicity, int(per))
		t.Phase = append(t.Phase, phase)
		t.K = append(t.K, k)
		t.Idivf = append(t.Idivf, idivf)
	}
	return t, nil
}

// Topology returns the topology the interchange was built for.
func (I *Interchange) Topology() *chem.Topology {
	return I.top
}

// ForceField returns the name of the force field the parameters come from.
func (I *Interchange) ForceField() string {
	return I.forceName
}

// Skipped returns the sections of the force field that were not applied.
func (I *Interchange) Skipped() []string {
	return append([]string(nil), I.skipped...)
}

// Scale14 returns the factor applied to the Lennard-Jones interactions of 1-4 pairs.
func (I *Interchange) Scale14() float64 {
	return I.scale14
}

// Bonds returns the bond terms, molecule after molecule in topology order.
func (I *Interchange) Bonds() []BondTerm { return append([]BondTerm(nil), I.bonds...) }

// Angles returns the angle terms.
func (I *Interchange) Angles() []AngleTerm { return append([]AngleTerm(nil), I.angles...) }

// Torsions returns the proper torsion terms.
func (I *Interchange) Torsions() []TorsionTerm { return append([]TorsionTerm(nil), I.torsions...) }

// VdW returns the Lennard-Jones terms, one per atom in index order.
func (I *Interchange) VdW() []VdWTerm { return append([]VdWTerm(nil), I.vdw...) }

// Count returns the number of terms of a category.
func (I *Interchange) Count(cat ff.Category) int {
	switch cat {
	case ff.Bonds:
		return len(I.bonds)
	case ff.Angles:
		return len(I.angles)
	case ff.ProperTorsions:
		return len(I.torsions)
	case ff.VdW:
		return len(I.vdw)
	}
	return 0
}

// Assignments returns the terms of a category as (atoms, parameter) pairs with global atom
// indexes, in the same order as the typed accessors.
func (I *Interchange) Assignments(cat ff.Category) []ff.Assignment {
	var ret []ff.Assignment
	switch cat {
	case ff.Bonds:
		for _, t := range I.bonds {
			t := t
			ret = append(ret, ff.Assignment{Atoms: t.Atoms[:], Parameter: t.Parameter})
		}
	case ff.Angles:
		for _, t := range I.angles {
			t := t
			ret = append(ret, ff.Assignment{Atoms: t.Atoms[:], Parameter: t.Parameter})
		}
	case ff.ProperTorsions:
		for _, t := range I.torsions {
			t := t
			ret = append(ret, ff.Assignment{Atoms: t.Atoms[:], Parameter: t.Parameter})
		}
	case ff.VdW:
		for _, t := range I.vdw {
			ret = append(ret, ff.Assignment{Atoms: []int{t.Atom}, Parameter: t.Parameter})
		}
	}
	return ret
}

// VirtualSites is not supported: it always returns a chem.ErrUnsupported error.
func (I *Interchange) VirtualSites() ([]VirtualSite, error) {
	return nil, chem.NewError(chem.ErrUnsupported, "Interchange.VirtualSites", "virtual sites are not supported")
}
