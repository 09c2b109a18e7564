/*
 * rings.go, part of goFF.
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

	"gonum.org/v1/gonum/graph"
	"gonum.org/v1/gonum/graph/simple"
	"gonum.org/v1/gonum/graph/topo"
	"gonum.org/v1/gonum/graph/traverse"
)

//ringInfo keeps the ring perception results for a molecule.
type ringInfo struct {
	ringBond     map[[2]int]bool
	smallestRing []int //0 for atoms not in rings
	ringBonds    []int //number of ring bonds of each atom
	fragments    [][]int
}

func bondKey(i, j int) [2]int {
	if i > j {
		i, j = j, i
	}
	return [2]int{i, j}
}

//molGraph returns the molecular graph of M, with one node per atom,
//with the atom index as ID.
func molGraph(M *Molecule) *simple.UndirectedGraph {
	g := simple.NewUndirectedGraph()
	for i := range M.Atoms {
		g.AddNode(simple.Node(i))
	}
	for _, b := range M.Bonds {
		g.SetEdge(simple.Edge{F: simple.Node(b.At1.index), T: simple.Node(b.At2.index)})
	}
	return g
}

//shortestCycle returns the length of the shortest cycle that contains
//the bond i-j, or 0 if the bond is not in a ring. The search is a
//breadth-first walk from j to i that never uses the i-j edge itself.
func shortestCycle(g graph.Undirected, i, j int) int {
	dist := -1
	bf := traverse.BreadthFirst{
		Traverse: func(e graph.Edge) bool {
			f, t := e.From().ID(), e.To().ID()
			return bondKey(int(f), int(t)) != bondKey(i, j)
		},
	}
	bf.Walk(g, g.Node(int64(j)), func(n graph.Node, d int) bool {
		if n.ID() == int64(i) {
			dist = d
			return true
		}
		return false
	})
	if dist < 0 {
		return 0
	}
	return dist + 1
}

func perceiveRings(M *Molecule) *ringInfo {
	g := molGraph(M)
	R := &ringInfo{
		ringBond:     make(map[[2]int]bool),
		smallestRing: make([]int, M.Len()),
		ringBonds:    make([]int, M.Len()),
	}
	for _, b := range M.Bonds {
		i, j := b.At1.index, b.At2.index
		size := shortestCycle(g, i, j)
		if size == 0 {
			continue
		}
		R.ringBond[bondKey(i, j)] = true
		R.ringBonds[i]++
		R.ringBonds[j]++
		for _, k := range []int{i, j} {
			if R.smallestRing[k] == 0 || size < R.smallestRing[k] {
				R.smallestRing[k] = size
			}
		}
	}
	for _, c := range topo.ConnectedComponents(g) {
		frag := make([]int, 0, len(c))
		for _, n := range c {
			frag = append(frag, int(n.ID()))
		}
		sort.Ints(frag)
		R.fragments = append(R.fragments, frag)
	}
	sort.Slice(R.fragments, func(i, j int) bool { return R.fragments[i][0] < R.fragments[j][0] })
	return R
}

//InRing returns true if atom i belongs to at least one ring.
func (M *Molecule) InRing(i int) bool {
	return M.rings.smallestRing[i] > 0
}

//RingBond returns true if the bond between atoms i and j is part of a ring.
func (M *Molecule) RingBond(i, j int) bool {
	return M.rings.ringBond[bondKey(i, j)]
}

//SmallestRing returns the size of the smallest ring that contains atom i, or 0.
func (M *Molecule) SmallestRing(i int) int {
	return M.rings.smallestRing[i]
}

//RingConnectivity returns the number of ring bonds of atom i.
func (M *Molecule) RingConnectivity(i int) int {
	return M.rings.ringBonds[i]
}

//RingCount returns the number of rings atom i is part of. It is derived
//from the ring bonds of the atom (an atom with n ring bonds is counted in
//n-1 rings), which is exact for isolated and ortho-fused rings but
//overcounts spiro and bridgehead atoms compared to an SSSR.
func (M *Molecule) RingCount(i int) int {
	if n := M.rings.ringBonds[i]; n > 1 {
		return n - 1
	}
	return 0
}

//Fragments returns the indexes of the atoms in each connected
//component of the molecule, ordered by their lowest atom index.
func (M *Molecule) Fragments() [][]int {
	ret := make([][]int, len(M.rings.fragments))
	for i, f := range M.rings.fragments {
		ret[i] = append([]int(nil), f...)
	}
	return ret
}
