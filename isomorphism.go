/*
 * isomorphism.go, part of goFF.
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
	"sort"
	"strings"
)

//atomInvariant is the starting point for the class refinement.
func atomInvariant(M *Molecule, i int) string {
	at := M.Atoms[i]
	return fmt.Sprintf("%d/%d/%d/%d/%t/%d", at.Z, M.Degree(i), M.HCount(i), at.FormalCharge, at.Aromatic, at.Isotope)
}

func bondCode(b *Bond) int {
	if b.Aromatic {
		return 4
	}
	return b.Order
}

//refineClasses computes, for the atoms of all the molecules at once, classes of
//topologically equivalent atoms, by iterative refinement of atom invariants with the
//classes of the neighbors (Morgan's algorithm). As the classes are computed for all
//molecules together, they can be compared across molecules.
func refineClasses(mols ...*Molecule) [][]int {
	keys := make([][]string, len(mols))
	for m, M := range mols {
		keys[m] = make([]string, M.Len())
		for i := range M.Atoms {
			keys[m][i] = atomInvariant(M, i)
		}
	}
	classes, n := rankKeys(keys)
	for {
		for m, M := range mols {
			for i := range M.Atoms {
				nb := make([]string, 0, M.Degree(i))
				for _, b := range M.Atoms[i].Bonds {
					j := b.Cross(M.Atoms[i]).index
					nb = append(nb, fmt.Sprintf("%d-%d", bondCode(b), classes[m][j]))
				}
				sort.Strings(nb)
				keys[m][i] = fmt.Sprintf("%d|%s", classes[m][i], strings.Join(nb, ","))
			}
		}
		next, n2 := rankKeys(keys)
		classes = next
		if n2 == n {
			break
		}
		n = n2
	}
	return classes
}

//rankKeys replaces each key by its rank among the sorted unique keys, and returns
//the number of unique keys.
func rankKeys(keys [][]string) ([][]int, int) {
	uniq := make(map[string]bool)
	for _, k := range keys {
		for _, v := range k {
			uniq[v] = true
		}
	}
	sorted := make([]string, 0, len(uniq))
	for k := range uniq {
		sorted = append(sorted, k)
	}
	sort.Strings(sorted)
	rank := make(map[string]int, len(sorted))
	for i, k := range sorted {
		rank[k] = i
	}
	ret := make([][]int, len(keys))
	for m, k := range keys {
		ret[m] = make([]int, len(k))
		for i, v := range k {
			ret[m][i] = rank[v]
		}
	}
	return ret, len(sorted)
}

//SymmetryClasses returns, for each atom of M, a class number such that two atoms
//with different numbers are not topologically equivalent.
func SymmetryClasses(M *Molecule) []int {
	return refineClasses(M)[0]
}

//AreIsomorphic returns true if A and B have the same connectivity, elements, formal
//charges, aromaticity and bond orders. When they do, the returned slice gives, for
//each atom of A, the index of the corresponding atom of B. Stereochemistry is not compared.
func AreIsomorphic(A, B *Molecule) (bool, []int) {
	if A.Len() != B.Len() || len(A.Bonds) != len(B.Bonds) {
		return false, nil
	}
	cl := refineClasses(A, B)
	ca, cb := cl[0], cl[1]
	sa := append([]int(nil), ca...)
	sb := append([]int(nil), cb...)
	sort.Ints(sa)
	sort.Ints(sb)
	if !sameInts(sa, sb) {
		return false, nil
	}
	//A breadth-first order of the atoms of A, so each atom (except the first
	//of each fragment) is already bonded to a mapped one when we get to it.
	order := make([]int, 0, A.Len())
	for _, f := range A.Fragments() {
		queue := []int{f[0]}
		seen := map[int]bool{f[0]: true}
		for len(queue) > 0 {
			i := queue[0]
			queue = queue[1:]
			order = append(order, i)
			for _, j := range A.Neighbors(i) {
				if !seen[j] {
					seen[j] = true
					queue = append(queue, j)
				}
			}
		}
	}
	mapping := make([]int, A.Len())
	for i := range mapping {
		mapping[i] = -1
	}
	used := make([]bool, B.Len())
	var try func(k int) bool
	try = func(k int) bool {
		if k == len(order) {
			return true
		}
		a := order[k]
		for b := 0; b < B.Len(); b++ {
			if used[b] || cb[b] != ca[a] || !compatibleMapping(A, B, mapping, a, b) {
				continue
			}
			mapping[a] = b
			used[b] = true
			if try(k + 1) {
				return true
			}
			mapping[a] = -1
			used[b] = false
		}
		return false
	}
	if !try(0) {
		return false, nil
	}
	return true, mapping
}

//compatibleMapping checks that mapping atom a of A onto atom b of B keeps every bond
//between a and the already mapped atoms, and adds no bond.
func compatibleMapping(A, B *Molecule, mapping []int, a, b int) bool {
	mappedNeighbors := 0
	for _, bond := range A.Atoms[a].Bonds {
		j := bond.Cross(A.Atoms[a]).index
		if mapping[j] < 0 {
			continue
		}
		mappedNeighbors++
		other := B.Bond(b, mapping[j])
		if other == nil || bondCode(other) != bondCode(bond) {
			return false
		}
	}
	//b must not be bonded to mapped atoms that a is not bonded to.
	imageNeighbors := 0
	for _, j := range B.Neighbors(b) {
		for _, m := range mapping {
			if m == j {
				imageNeighbors++
				break
			}
		}
	}
	return imageNeighbors == mappedNeighbors
}
