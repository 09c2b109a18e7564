/*
 * match.go, part of goFF.
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

package smarts

import (
	chem "github.com/rmera/goff"
)

// closures returns, for each pattern atom, the bonds that close rings onto
// already mapped atoms when that atom gets mapped.
func (P *Pattern) closures() [][]int {
	ret := make([][]int, len(P.atoms))
	for bi, b := range P.bonds {
		k := max(b.a, b.b)
		if P.parent[k] == bi {
			continue
		}
		ret[k] = append(ret[k], bi)
	}
	return ret
}

// search calls visit with every complete mapping of the pattern atoms onto atoms
// of M, the first pattern atom mapped to root if root >= 0. The mapping slice is
// reused between calls. The search stops when visit returns false.
func (P *Pattern) search(M *chem.Molecule, root int, visit func(mapping []int) bool) {
	n := len(P.atoms)
	mapping := make([]int, n)
	used := make([]bool, M.Len())
	closures := P.closures()
	var step func(k int) bool
	tryAtom := func(k, cand int) bool {
		if used[cand] || !P.atoms[k].expr.matchAtom(M, cand) {
			return true
		}
		for _, bi := range closures[k] {
			pb := P.bonds[bi]
			other := pb.a
			if other == k {
				other = pb.b
			}
			b := M.Bond(cand, mapping[other])
			if b == nil || !matchBondIn(pb.expr, M, b) {
				return true
			}
		}
		mapping[k] = cand
		used[cand] = true
		cont := step(k + 1)
		used[cand] = false
		return cont
	}
	step = func(k int) bool {
		if k == n {
			return visit(mapping)
		}
		if k == 0 {
			if root >= 0 {
				return tryAtom(0, root)
			}
			for i := 0; i < M.Len(); i++ {
				if !tryAtom(0, i) {
					return false
				}
			}
			return true
		}
		pb := P.bonds[P.parent[k]]
		from := mapping[pb.a]
		for _, cand := range M.Neighbors(from) {
			if used[cand] {
				continue
			}
			if !matchBondIn(pb.expr, M, M.Bond(from, cand)) {
				continue
			}
			if !tryAtom(k, cand) {
				return false
			}
		}
		return true
	}
	step(0)
}

// matchesAt returns true if the pattern matches M with its first atom on atom i.
func (P *Pattern) matchesAt(M *chem.Molecule, i int) bool {
	found := false
	P.search(M, i, func([]int) bool {
		found = true
		return false
	})
	return found
}

// Match returns the atoms of M matched by the tagged atoms of the pattern, one tuple
// per match, each tuple ordered by map index. Matches that differ only in untagged atoms
// are reported once. Tuples come in the order they are found, which follows the atom
// indexes of M. A pattern without tags reports every atom of the match, in pattern order.
func (P *Pattern) Match(M *chem.Molecule) [][]int {
	var ret [][]int
	seen := make(map[string]bool)
	P.search(M, -1, func(mapping []int) bool {
		var tuple []int
		if len(P.tagged) == 0 {
			tuple = append([]int(nil), mapping...)
		} else {
			tuple = make([]int, len(P.tagged))
			for k, a := range P.tagged {
				tuple[k] = mapping[a]
			}
		}
		key := tupleKey(tuple)
		if !seen[key] {
			seen[key] = true
			ret = append(ret, tuple)
		}
		return true
	})
	return ret
}

// Matches returns true if the pattern is found anywhere in M.
func (P *Pattern) Matches(M *chem.Molecule) bool {
	found := false
	P.search(M, -1, func([]int) bool {
		found = true
		return false
	})
	return found
}

func tupleKey(t []int) string {
	b := make([]byte, 0, 4*len(t))
	for _, v := range t {
		b = append(b, byte(v>>24), byte(v>>16), byte(v>>8), byte(v))
	}
	return string(b)
}

// Find compiles pattern and returns its matches in M. See Pattern.Match.
func Find(pattern string, M *chem.Molecule) ([][]int, error) {
	P, err := Compile(pattern)
	if err != nil {
		return nil, err
	}
	return P.Match(M), nil
}
