/*
 * chem.go, part of goFF.
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
	"fmt"
	"math"
	"sort"
	"strings"

	v3 "github.com/rmera/goff/v3"
)

// Chirality is the stereo tag of an atom, as written in SMILES.
type Chirality int

const (
	NoChirality Chirality = iota
	CCW                   // "@"
	CW                    // "@@"
)

func (C Chirality) String() string {
	switch C {
	case CCW:
		return "@"
	case CW:
		return "@@"
	}
	return ""
}

//Atom contains the atoms read except for the coordinates, which will be in a matrix.
type Atom struct {
	Name         string
	Symbol       string
	Z            int
	Mass         float64
	FormalCharge int
	Isotope      int
	Aromatic     bool
	MapIndex     int //atom-map number from a SMILES string, 0 means unmapped.
	Chirality    Chirality
	Bonds        []*Bond
	index        int
}

// Index returns the position of the atom in its molecule.
func (A *Atom) Index() int {
	return A.index
}

//Copy returns a copy of the Atom object, without its bonds.
func (A *Atom) Copy() *Atom {
	if A == nil {
		panic("Attempted to copy a nil atom")
	}
	N := *A
	N.Bonds = nil
	return &N
}

/*****Molecule type***/

//Molecule contains the connectivity of one chemical species and zero or more
//conformers for it. The connectivity is fixed when the molecule is built; conformers
//can only be appended.
type Molecule struct {
	Name       string
	Atoms      []*Atom
	Bonds      []*Bond
	conformers []*v3.Matrix
	neighbors  [][]int
	rings      *ringInfo
}

//NewMolecule builds a molecule from atoms and bonds. The bonds must join atoms of
//the atoms slice. The Index of atoms and bonds is (re)set to their position in the
//respective slices, and atomic numbers and masses are filled from the element symbol
//when missing.
func NewMolecule(name string, atoms []*Atom, bonds []*Bond) (*Molecule, error) {
	if len(atoms) == 0 {
		return nil, NewError(ErrPrecondition, "NewMolecule", "no atoms given")
	}
	pos := make(map[*Atom]int, len(atoms))
	for i, at := range atoms {
		if at == nil {
			return nil, NewError(ErrPrecondition, "NewMolecule", "atom %d is nil", i)
		}
		if _, ok := pos[at]; ok {
			return nil, NewError(ErrPrecondition, "NewMolecule", "atom %d given twice", i)
		}
		if at.Z == 0 {
			at.Z = symbolZ[at.Symbol]
			if at.Z == 0 {
				return nil, NewError(ErrPrecondition, "NewMolecule", "unknown element %q for atom %d", at.Symbol, i)
			}
		}
		if at.Mass == 0 {
			at.Mass = symbolMass[at.Symbol]
		}
		if at.Name == "" {
			at.Name = fmt.Sprintf("%s%d", at.Symbol, i+1)
		}
		at.index = i
		at.Bonds = nil
		pos[at] = i
	}
	M := &Molecule{Name: name, Atoms: atoms, Bonds: bonds}
	M.neighbors = make([][]int, len(atoms))
	seen := make(map[[2]int]bool, len(bonds))
	for i, b := range bonds {
		i1, ok1 := pos[b.At1]
		i2, ok2 := pos[b.At2]
		if !ok1 || !ok2 {
			return nil, NewError(ErrPrecondition, "NewMolecule", "bond %d joins atoms not in the molecule", i)
		}
		if i1 == i2 {
			return nil, NewError(ErrPrecondition, "NewMolecule", "bond %d joins atom %d with itself", i, i1)
		}
		key := [2]int{min(i1, i2), max(i1, i2)}
		if seen[key] {
			return nil, NewError(ErrPrecondition, "NewMolecule", "atoms %d and %d bonded twice", i1, i2)
		}
		seen[key] = true
		if b.Order == 0 {
			b.Order = 1
		}
		b.Index = i
		b.At1.Bonds = append(b.At1.Bonds, b)
		b.At2.Bonds = append(b.At2.Bonds, b)
		M.neighbors[i1] = append(M.neighbors[i1], i2)
		M.neighbors[i2] = append(M.neighbors[i2], i1)
	}
	M.rings = perceiveRings(M)
	return M, nil
}

//Len returns the number of atoms in the molecule.
func (M *Molecule) Len() int {
	return len(M.Atoms)
}

//Atom returns the Atom corresponding to the index i
//of the Atom slice in the Molecule. Panics if
//out of range.
func (M *Molecule) Atom(i int) *Atom {
	if i >= M.Len() || i < 0 {
		panic("Molecule: Requested Atom out of bounds")
	}
	return M.Atoms[i]
}

//Neighbors returns the indexes of the atoms bonded to atom i, in bond order.
//The returned slice must not be modified.
func (M *Molecule) Neighbors(i int) []int {
	return M.neighbors[i]
}

//Degree returns the number of atoms bonded to atom i.
func (M *Molecule) Degree(i int) int {
	return len(M.neighbors[i])
}

//Bond returns the bond between atoms i and j, or nil if they are not bonded.
func (M *Molecule) Bond(i, j int) *Bond {
	for _, b := range M.Atoms[i].Bonds {
		if b.Cross(M.Atoms[i]).index == j {
			return b
		}
	}
	return nil
}

//HCount returns the number of hydrogens bonded to atom i. As all hydrogens
//are explicit in a Molecule, this is also the total hydrogen count.
func (M *Molecule) HCount(i int) int {
	var n int
	for _, j := range M.neighbors[i] {
		if M.Atoms[j].Z == 1 {
			n++
		}
	}
	return n
}

//Valence returns the total bond order of atom i, counting aromatic bonds as 1.5.
func (M *Molecule) Valence(i int) int {
	var v float64
	for _, b := range M.Atoms[i].Bonds {
		v += b.Valence()
	}
	return int(math.Round(v))
}

//Masses returns a slice with the masses, in dalton, of all atoms.
func (M *Molecule) Masses() ([]float64, error) {
	ret := make([]float64, M.Len())
	for i, at := range M.Atoms {
		if at.Mass == 0 {
			return nil, NewError(ErrPrecondition, "Masses", "no mass for atom %d (%s)", i, at.Symbol)
		}
		ret[i] = at.Mass
	}
	return ret, nil
}

//Formula returns the Hill-ordered molecular formula.
func (M *Molecule) Formula() string {
	count := make(map[string]int)
	for _, at := range M.Atoms {
		count[at.Symbol]++
	}
	syms := make([]string, 0, len(count))
	for s := range count {
		syms = append(syms, s)
	}
	sort.Slice(syms, func(i, j int) bool {
		rank := func(s string) int {
			switch s {
			case "C":
				return 0
			case "H":
				return 1
			}
			return 2
		}
		if rank(syms[i]) != rank(syms[j]) {
			return rank(syms[i]) < rank(syms[j])
		}
		return syms[i] < syms[j]
	})
	var b strings.Builder
	for _, s := range syms {
		b.WriteString(s)
		if count[s] > 1 {
			fmt.Fprintf(&b, "%d", count[s])
		}
	}
	return b.String()
}

//AddConformer appends a copy of coords, in A, to the conformers of the molecule.
//coords must have one vector per atom.
func (M *Molecule) AddConformer(coords *v3.Matrix) error {
	if coords == nil || coords.NVecs() != M.Len() {
		n := 0
		if coords != nil {
			n = coords.NVecs()
		}
		return NewError(ErrPrecondition, "AddConformer", "conformer has %d points, the molecule %d atoms", n, M.Len())
	}
	M.conformers = append(M.conformers, coords.Copy())
	return nil
}

//NConformers returns the number of conformers of the molecule.
func (M *Molecule) NConformers() int {
	return len(M.conformers)
}

//Conformer returns a copy of the ith conformer, in A.
func (M *Molecule) Conformer(i int) (*v3.Matrix, error) {
	if i < 0 || i >= len(M.conformers) {
		return nil, NewError(ErrPrecondition, "Conformer", "conformer %d requested, the molecule has %d", i, len(M.conformers))
	}
	return M.conformers[i].Copy(), nil
}

/*****Topology type***/

//Topology is a read-only view of one or more molecules, with a global atom index
//space in which the atoms of each molecule follow those of the previous one.
type Topology struct {
	molecules []*Molecule
	offsets   []int
	natoms    int
}

//NewTopology returns a Topology over mols, in the given order.
func NewTopology(mols ...*Molecule) (*Topology, error) {
	if len(mols) == 0 {
		return nil, NewError(ErrPrecondition, "NewTopology", "no molecules given")
	}
	T := &Topology{molecules: mols, offsets: make([]int, len(mols))}
	for i, m := range mols {
		if m == nil {
			return nil, NewError(ErrPrecondition, "NewTopology", "molecule %d is nil", i)
		}
		T.offsets[i] = T.natoms
		T.natoms += m.Len()
	}
	return T, nil
}

//NMolecules returns the number of molecules in the topology.
func (T *Topology) NMolecules() int {
	return len(T.molecules)
}

//Molecule returns the ith molecule of the topology.
func (T *Topology) Molecule(i int) *Molecule {
	return T.molecules[i]
}

//Offset returns the global index of the first atom of the ith molecule.
func (T *Topology) Offset(i int) int {
	return T.offsets[i]
}

//Len returns the total number of atoms in the topology.
func (T *Topology) Len() int {
	return T.natoms
}

//Atom returns the atom with global index i. Panics if out of range.
func (T *Topology) Atom(i int) *Atom {
	m, local := T.locate(i)
	return T.molecules[m].Atoms[local]
}

//locate returns the molecule that contains the atom with global index i,
//and the index of the atom in that molecule.
func (T *Topology) locate(i int) (int, int) {
	if i < 0 || i >= T.natoms {
		panic("Topology: Requested Atom out of bounds")
	}
	m := sort.Search(len(T.offsets), func(k int) bool { return T.offsets[k] > i }) - 1
	return m, i - T.offsets[m]
}

//Masses returns the masses of all atoms in the topology.
func (T *Topology) Masses() ([]float64, error) {
	ret := make([]float64, 0, T.natoms)
	for _, m := range T.molecules {
		ms, err := m.Masses()
		if err != nil {
			return nil, ErrDecorate(err, "Topology.Masses")
		}
		ret = append(ret, ms...)
	}
	return ret, nil
}

//Bonds returns the bonds of all molecules as pairs of global atom indexes.
func (T *Topology) Bonds() [][2]int {
	ret := make([][2]int, 0, T.natoms)
	for k, m := range T.molecules {
		off := T.offsets[k]
		for _, b := range m.Bonds {
			ret = append(ret, [2]int{b.At1.index + off, b.At2.index + off})
		}
	}
	return ret
}
