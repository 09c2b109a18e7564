/*
 * bonds.go, part of goFF.
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
	"sort"

	v3 "github.com/rmera/goff/v3"
)

//constants from DOI:10.1186/1758-2946-3-33
const (
	tooclose = 0.63
	bondtol  = 0.45
)

//Bond is a covalent bond between two atoms.
type Bond struct {
	Index    int
	At1      *Atom
	At2      *Atom
	Dist     float64 //Only set for bonds assigned from coordinates
	Order    int     //1, 2 or 3. Aromatic bonds have Order 1 and Aromatic set.
	Aromatic bool
}

//Cross returns the atom of the bond that is not origin.
func (B *Bond) Cross(origin *Atom) *Atom {
	if origin == B.At1 {
		return B.At2
	}
	if origin == B.At2 {
		return B.At1
	}
	panic("Trying to cross a bond: The origin atom given is not present in the bond!") //I think this got to be a programming error, so a panic is warranted.
}

//Valence is the contribution of the bond to the valence of each of its atoms.
func (B *Bond) Valence() float64 {
	if B.Aromatic {
		return 1.5
	}
	return float64(B.Order)
}

//AssignBonds returns single bonds between the atoms in ats, based on a simple distance
//criterium, similar to that described in DOI:10.1186/1758-2946-3-33. coord is in A.
//Atoms with more bonds than allowed for their element lose the longest ones.
//The atoms are not modified, the bonds can be given to NewMolecule.
func AssignBonds(ats []*Atom, coord *v3.Matrix) ([]*Bond, error) {
	// might get slow for
	//large systems. It's really not thought
	//for proteins or macromolecules.
	tot := len(ats)
	if coord.NVecs() != tot {
		return nil, NewError(ErrPrecondition, "AssignBonds", "%d atoms but %d coordinates", tot, coord.NVecs())
	}
	bonds := make([]*Bond, 0, tot)
	perAtom := make([][]*Bond, tot)
	for i := 0; i < tot; i++ {
		cov1 := symbolCovrad[ats[i].Symbol]
		if cov1 == 0 {
			return nil, NewError(ErrPrecondition, "AssignBonds", "Couldn't find the covalent radii  for %s %d", ats[i].Symbol, i)
		}
		for j := i + 1; j < tot; j++ {
			cov2 := symbolCovrad[ats[j].Symbol]
			if cov2 == 0 {
				return nil, NewError(ErrPrecondition, "AssignBonds", "Couldn't find the covalent radii  for %s %d", ats[j].Symbol, j)
			}
			d := coord.Distance(i, j)
			if d < cov1+cov2+bondtol && d > tooclose {
				b := &Bond{Dist: d, At1: ats[i], At2: ats[j], Order: 1}
				bonds = append(bonds, b)
				perAtom[i] = append(perAtom[i], b)
				perAtom[j] = append(perAtom[j], b)
			}
		}
	}
	//Now we check that no atom has too many bonds.
	removed := make(map[*Bond]bool)
	for i := 0; i < tot; i++ {
		max := symbolMaxBonds[ats[i].Symbol]
		if max == 0 { //means there is not a specified number of bonds for this atom.
			continue
		}
		live := make([]*Bond, 0, len(perAtom[i]))
		for _, b := range perAtom[i] {
			if !removed[b] {
				live = append(live, b)
			}
		}
		sort.Slice(live, func(i, j int) bool { return live[i].Dist < live[j].Dist })
		for _, b := range live[min(max, len(live)):] {
			removed[b] = true //we remove the longest bonds
		}
	}
	ret := bonds[:0]
	for _, b := range bonds {
		if !removed[b] {
			ret = append(ret, b)
		}
	}
	return ret, nil
}
