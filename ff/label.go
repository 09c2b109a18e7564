/*
 * label.go, part of goFF.
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

package ff

import (
	"sort"

	chem "github.com/rmera/goff"
)

// Assignment binds one term of a molecule to the parameter that applies to it.
type Assignment struct {
	Atoms     []int //indexes of the atoms of the term in the molecule, in canonical order
	Parameter *Parameter
}

// Labels holds the assignments of each category for one molecule.
type Labels map[Category][]Assignment

// Key returns the canonical form of a term: bonds with the smaller index first, angles
// and torsions with the smaller end first. The input is not modified.
func Key(cat Category, atoms []int) []int {
	k := append([]int(nil), atoms...)
	n := len(k)
	if cat != VdW && n > 1 && k[0] > k[n-1] {
		for i, j := 0, n-1; i < j; i, j = i+1, j-1 {
			k[i], k[j] = k[j], k[i]
		}
	}
	return k
}

func keyString(k []int) string {
	b := make([]byte, 0, 4*len(k))
	for _, v := range k {
		b = append(b, byte(v>>24), byte(v>>16), byte(v>>8), byte(v))
	}
	return string(b)
}

// Terms returns the terms of category cat in M, in canonical form, in the order they are
// traversed: bonds in the order of M.Bonds, angles by central atom, proper torsions by
// central bond, and atoms in index order.
func Terms(cat Category, M *chem.Molecule) [][]int {
	var ret [][]int
	switch cat {
	case VdW:
		for i := 0; i < M.Len(); i++ {
			ret = append(ret, []int{i})
		}
	case Bonds:
		for _, b := range M.Bonds {
			ret = append(ret, Key(cat, []int{b.At1.Index(), b.At2.Index()}))
		}
	case Angles:
		for j := 0; j < M.Len(); j++ {
			nb := sortedNeighbors(M, j)
			for a := 0; a < len(nb); a++ {
				for b := a + 1; b < len(nb); b++ {
					ret = append(ret, []int{nb[a], j, nb[b]})
				}
			}
		}
	case ProperTorsions:
		seen := make(map[string]bool)
		for _, bond := range M.Bonds {
			j, k := bond.At1.Index(), bond.At2.Index()
			for _, i := range sortedNeighbors(M, j) {
				if i == k {
					continue
				}
				for _, l := range sortedNeighbors(M, k) {
					if l == j || l == i {
						continue
					}
					key := Key(cat, []int{i, j, k, l})
					if s := keyString(key); !seen[s] {
						seen[s] = true
						ret = append(ret, key)
					}
				}
			}
		}
	}
	return ret
}

func sortedNeighbors(M *chem.Molecule, i int) []int {
	nb := append([]int(nil), M.Neighbors(i)...)
	sort.Ints(nb)
	return nb
}

// Assign finds the parameter of the handler that applies to each term of M. Later
// parameters in the handler override earlier ones. It returns the assignments in the order
// of Terms, and the terms no parameter matched.
func (H *ParameterHandler) Assign(M *chem.Molecule) ([]Assignment, [][]int) {
	terms := Terms(H.category, M)
	index := make(map[string]int, len(terms))
	for i, t := range terms {
		index[keyString(t)] = i
	}
	best := make([]*Parameter, len(terms))
	for _, p := range H.params {
		for _, match := range p.pattern.Match(M) {
			i, ok := index[keyString(Key(H.category, match))]
			if !ok {
				//the tagged atoms are not a term of this kind, e.g. not bonded.
				continue
			}
			best[i] = p
		}
	}
	var assigned []Assignment
	var missing [][]int
	for i, t := range terms {
		if best[i] == nil {
			missing = append(missing, t)
			continue
		}
		assigned = append(assigned, Assignment{Atoms: t, Parameter: best[i]})
	}
	return assigned, missing
}

// Label assigns parameters to M for every category the force field defines. Terms that no
// parameter matches are left out; see ParameterHandler.Assign to get them.
func (F *ForceField) Label(M *chem.Molecule) Labels {
	L := make(Labels)
	for _, cat := range Categories {
		h, ok := F.handlers[cat]
		if !ok {
			continue
		}
		L[cat], _ = h.Assign(M)
	}
	return L
}

// LabelMolecules labels each molecule of the topology. Atom indexes are local to
// each molecule.
func (F *ForceField) LabelMolecules(top *chem.Topology) []Labels {
	ret := make([]Labels, top.NMolecules())
	for i := range ret {
		ret[i] = F.Label(top.Molecule(i))
	}
	return ret
}
