/*
 * system.go, part of goFF.
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

package interchange

import (
	chem "github.com/rmera/goff"
	"github.com/rmera/goff/mm"
	"github.com/rmera/goff/units"
)

// in converts v to u, and panics if they are not compatible. The force field loader has
// already checked the dimensions of every quantity, so a failure here is a bug.
func in(v units.Value, u units.Symbol) float64 {
	f, err := v.In(u)
	if err != nil {
		panic(err.Error())
	}
	return f
}

// ToSystem exports the interchange as an mm.System in engine units (nm, kJ/mol, radian,
// dalton). Torsion barriers are divided by their idivf, and torsion components with a zero
// barrier are left out. Bonded pairs and pairs two bonds apart get no Lennard-Jones
// interaction, and pairs three bonds apart get it scaled by Scale14.
func (I *Interchange) ToSystem() (*mm.System, error) {
	masses, err := I.top.Masses()
	if err != nil {
		return nil, chem.ErrDecorate(err, "Interchange.ToSystem")
	}
	bonds := &mm.HarmonicBondForce{}
	for _, t := range I.bonds {
		bonds.AddBond(t.Atoms[0], t.Atoms[1], in(t.Length, units.Nanometer), in(t.K, units.KJPerMolNm2))
	}
	angles := &mm.HarmonicAngleForce{}
	for _, t := range I.angles {
		angles.AddAngle(t.Atoms[0], t.Atoms[1], t.Atoms[2], in(t.Angle, units.Radian), in(t.K, units.KJPerMolRad2))
	}
	torsions := &mm.PeriodicTorsionForce{}
	for _, t := range I.torsions {
		a := t.Atoms
		for n := range t.Periodicity {
			k := in(t.K[n], units.KJPerMol) / t.Idivf[n]
			if k == 0 {
				continue
			}
			torsions.AddTorsion(a[0], a[1], a[2], a[3], t.Periodicity[n], in(t.Phase[n], units.Radian), k)
		}
	}
	nb := &mm.NonbondedForce{}
	for i, t := range I.vdw {
		if t.Atom != i {
			return nil, chem.NewError(chem.ErrRuntimeDelegation, "Interchange.ToSystem", "vdW term %d is for atom %d", i, t.Atom)
		}
		nb.AddParticle(in(t.Sigma, units.Nanometer), in(t.Epsilon, units.KJPerMol))
	}
	if err := nb.CreateExceptionsFromBonds(I.top.Bonds(), I.scale14); err != nil {
		return nil, chem.ErrDecorate(err, "Interchange.ToSystem")
	}
	S, err := mm.NewSystem(masses, bonds, angles, torsions, nb)
	if err != nil {
		return nil, chem.ErrDecorate(err, "Interchange.ToSystem")
	}
	return S, nil
}
