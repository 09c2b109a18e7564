/*
 * smiles.go, part of goFF.
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
	"strconv"
	"strings"
)

//FromSMILES builds a molecule from a SMILES string. All the hydrogens of the molecule
//are explicit in the result: the implicit hydrogens of each atom are appended, in atom
//order, after the atoms written in the string. If allowUndefinedStereo is false, a
//tetrahedral center without a stereo tag makes the parsing fail.
func FromSMILES(smiles string, allowUndefinedStereo bool) (*Molecule, error) {
	atoms, bonds, err := parseSMILES(smiles)
	if err != nil {
		return nil, ErrDecorate(err, "FromSMILES")
	}
	return buildFromSMILES(smiles, atoms, bonds, allowUndefinedStereo)
}

//FromMappedSMILES builds a molecule from a SMILES string in which every atom, hydrogens
//included, carries an atom-map number. Atom k of the molecule is the atom mapped with k+1.
func FromMappedSMILES(smiles string, allowUndefinedStereo bool) (*Molecule, error) {
	atoms, bonds, err := parseSMILES(smiles)
	if err != nil {
		return nil, ErrDecorate(err, "FromMappedSMILES")
	}
	ordered := make([]*Atom, len(atoms))
	for i, at := range atoms {
		m := at.MapIndex
		if m == 0 {
			return nil, NewError(ErrPrecondition, "FromMappedSMILES", "atom %d (%s) has no map index, all atoms, including hydrogens, must be mapped", i, at.Symbol)
		}
		if m > len(atoms) {
			return nil, NewError(ErrPrecondition, "FromMappedSMILES", "map index %d out of range for %d atoms", m, len(atoms))
		}
		if ordered[m-1] != nil {
			return nil, NewError(ErrPrecondition, "FromMappedSMILES", "map index %d used twice", m)
		}
		ordered[m-1] = at
	}
	return buildFromSMILES(smiles, ordered, bonds, allowUndefinedStereo)
}

func buildFromSMILES(smiles string, atoms []*Atom, bonds []*Bond, allowUndefinedStereo bool) (*Molecule, error) {
	mol, err := NewMolecule(smiles, atoms, bonds)
	if err != nil {
		return nil, ErrDecorate(err, "buildFromSMILES")
	}
	if !allowUndefinedStereo {
		if c := UndefinedStereocenters(mol); len(c) > 0 {
			return nil, NewError(ErrPrecondition, "buildFromSMILES", "undefined stereochemistry for atom(s) %v of %q", c, smiles)
		}
	}
	return mol, nil
}

//UndefinedStereocenters returns the indexes of the tetrahedral atoms that have four
//topologically different neighbors and no stereo tag.
func UndefinedStereocenters(M *Molecule) []int {
	classes := SymmetryClasses(M)
	var ret []int
	for i, at := range M.Atoms {
		if at.Chirality != NoChirality || M.Degree(i) != 4 {
			continue
		}
		sp3 := true
		for _, b := range at.Bonds {
			if b.Order != 1 || b.Aromatic {
				sp3 = false
			}
		}
		if !sp3 {
			continue
		}
		seen := make(map[int]bool, 4)
		for _, j := range M.Neighbors(i) {
			seen[classes[j]] = true
		}
		if len(seen) == 4 {
			ret = append(ret, i)
		}
	}
	return ret
}

type ringOpening struct {
	atom int
	bond bondSpec
}

type bondSpec struct {
	order    int
	aromatic bool
	set      bool
}

type smilesParser struct {
	s      string
	pos    int
	atoms  []*Atom
	hcount []int //-1 means implicit hydrogens, to be computed.
	bonds  []*Bond
	rings  map[int]ringOpening
	stack  []int
	prev   int
	bond   bondSpec
}

func (p *smilesParser) errorf(format string, a ...any) error {
	return NewError(ErrPrecondition, "parseSMILES", "SMILES %q, position %d: %s", p.s, p.pos, fmt.Sprintf(format, a...))
}

//parseSMILES returns the atoms and bonds described by smiles, hydrogens included.
func parseSMILES(smiles string) ([]*Atom, []*Bond, error) {
	p := &smilesParser{s: strings.TrimSpace(smiles), rings: make(map[int]ringOpening), prev: -1}
	if p.s == "" {
		return nil, nil, NewError(ErrPrecondition, "parseSMILES", "empty SMILES")
	}
	//anything after a space is a title
	if i := strings.IndexAny(p.s, " \t"); i > 0 {
		p.s = p.s[:i]
	}
	for p.pos < len(p.s) {
		c := p.s[p.pos]
		switch {
		case c == '(':
			if p.prev < 0 {
				return nil, nil, p.errorf("branch without a preceding atom")
			}
			p.stack = append(p.stack, p.prev)
			p.pos++
		case c == ')':
			if len(p.stack) == 0 {
				return nil, nil, p.errorf("unbalanced parenthesis")
			}
			if p.bond.set {
				return nil, nil, p.errorf("bond symbol before ')'")
			}
			p.prev = p.stack[len(p.stack)-1]
			p.stack = p.stack[:len(p.stack)-1]
			p.pos++
		case strings.IndexByte("-=#:/\\", c) >= 0:
			if p.bond.set {
				return nil, nil, p.errorf("two consecutive bond symbols")
			}
			p.bond = bondSpec{order: 1, set: true}
			switch c {
			case '=':
				p.bond.order = 2
			case '#':
				p.bond.order = 3
			case ':':
				p.bond.aromatic = true
			}
			p.pos++
		case c == '.':
			if p.bond.set {
				return nil, nil, p.errorf("bond symbol before '.'")
			}
			p.prev = -1
			p.pos++
		case c == '%' || (c >= '0' && c <= '9'):
			if err := p.ringClosure(); err != nil {
				return nil, nil, err
			}
		case c == '[':
			if err := p.bracketAtom(); err != nil {
				return nil, nil, err
			}
		default:
			if err := p.organicAtom(); err != nil {
				return nil, nil, err
			}
		}
	}
	if len(p.stack) > 0 {
		return nil, nil, p.errorf("unclosed branch")
	}
	if len(p.rings) > 0 {
		for k := range p.rings {
			return nil, nil, p.errorf("unclosed ring %d", k)
		}
	}
	if p.bond.set {
		return nil, nil, p.errorf("dangling bond")
	}
	p.addHydrogens()
	return p.atoms, p.bonds, nil
}

func (p *smilesParser) connect(i, j int, spec bondSpec) {
	b := &Bond{At1: p.atoms[i], At2: p.atoms[j], Order: 1}
	switch {
	case spec.set:
		b.Order = spec.order
		b.Aromatic = spec.aromatic
	case p.atoms[i].Aromatic && p.atoms[j].Aromatic:
		b.Aromatic = true
	}
	p.bonds = append(p.bonds, b)
}

func (p *smilesParser) addAtom(at *Atom, hcount int) {
	p.atoms = append(p.atoms, at)
	p.hcount = append(p.hcount, hcount)
	idx := len(p.atoms) - 1
	if p.prev >= 0 {
		p.connect(p.prev, idx, p.bond)
	}
	p.bond = bondSpec{}
	p.prev = idx
}

func (p *smilesParser) ringClosure() error {
	if p.prev < 0 {
		return p.errorf("ring closure without a preceding atom")
	}
	var num int
	if p.s[p.pos] == '%' {
		if p.pos+2 >= len(p.s) {
			return p.errorf("truncated ring closure")
		}
		n, err := strconv.Atoi(p.s[p.pos+1 : p.pos+3])
		if err != nil {
			return p.errorf("bad ring closure number")
		}
		num = n
		p.pos += 3
	} else {
		num = int(p.s[p.pos] - '0')
		p.pos++
	}
	open, ok := p.rings[num]
	if !ok {
		p.rings[num] = ringOpening{atom: p.prev, bond: p.bond}
		p.bond = bondSpec{}
		return nil
	}
	delete(p.rings, num)
	if open.atom == p.prev {
		return p.errorf("ring %d closes on its own atom", num)
	}
	spec := p.bond
	if !spec.set {
		spec = open.bond
	} else if open.bond.set && open.bond != spec {
		return p.errorf("conflicting bond symbols for ring %d", num)
	}
	for _, b := range p.bonds {
		if (b.At1 == p.atoms[open.atom] && b.At2 == p.atoms[p.prev]) || (b.At2 == p.atoms[open.atom] && b.At1 == p.atoms[p.prev]) {
			return p.errorf("ring %d duplicates an existing bond", num)
		}
	}
	p.connect(open.atom, p.prev, spec)
	p.bond = bondSpec{}
	return nil
}

var aromaticSymbols = map[string]string{
	"b":  "B",
	"c":  "C",
	"n":  "N",
	"o":  "O",
	"p":  "P",
	"s":  "S",
	"se": "Se",
	"as": "As",
}

func (p *smilesParser) organicAtom() error {
	rest := p.s[p.pos:]
	for _, sym := range []string{"Cl", "Br"} {
		if strings.HasPrefix(rest, sym) {
			p.pos += 2
			p.addAtom(&Atom{Symbol: sym}, -1)
			return nil
		}
	}
	c := rest[0]
	switch c {
	case 'B', 'C', 'N', 'O', 'P', 'S', 'F', 'I':
		p.pos++
		p.addAtom(&Atom{Symbol: string(c)}, -1)
		return nil
	case 'b', 'c', 'n', 'o', 'p', 's':
		p.pos++
		p.addAtom(&Atom{Symbol: aromaticSymbols[string(c)], Aromatic: true}, -1)
		return nil
	}
	return p.errorf("unexpected character %q", c)
}

func (p *smilesParser) readInt() (int, bool) {
	start := p.pos
	for p.pos < len(p.s) && p.s[p.pos] >= '0' && p.s[p.pos] <= '9' {
		p.pos++
	}
	if start == p.pos {
		return 0, false
	}
	n, err := strconv.Atoi(p.s[start:p.pos])
	return n, err == nil
}

func (p *smilesParser) peek() byte {
	if p.pos >= len(p.s) {
		return 0
	}
	return p.s[p.pos]
}

func (p *smilesParser) bracketAtom() error {
	p.pos++ //'['
	at := new(Atom)
	if iso, ok := p.readInt(); ok {
		at.Isotope = iso
	}
	c := p.peek()
	switch {
	case c >= 'A' && c <= 'Z':
		sym := string(c)
		if p.pos+1 < len(p.s) {
			two := p.s[p.pos : p.pos+2]
			if KnownElement(two) {
				sym = two
			}
		}
		if !KnownElement(sym) {
			return p.errorf("unknown element %q", sym)
		}
		at.Symbol = sym
		p.pos += len(sym)
	case c >= 'a' && c <= 'z':
		var sym string
		if p.pos+1 < len(p.s) {
			if s, ok := aromaticSymbols[p.s[p.pos:p.pos+2]]; ok {
				sym = s
				p.pos += 2
			}
		}
		if sym == "" {
			s, ok := aromaticSymbols[string(c)]
			if !ok {
				return p.errorf("unknown aromatic element %q", string(c))
			}
			sym = s
			p.pos++
		}
		at.Symbol = sym
		at.Aromatic = true
	default:
		return p.errorf("missing element symbol in bracket atom")
	}
	if p.peek() == '@' {
		p.pos++
		at.Chirality = CCW
		if p.peek() == '@' {
			p.pos++
			at.Chirality = CW
		}
	}
	hcount := 0
	if p.peek() == 'H' {
		p.pos++
		hcount = 1
		if n, ok := p.readInt(); ok {
			hcount = n
		}
	}
	if c := p.peek(); c == '+' || c == '-' {
		sign := 1
		if c == '-' {
			sign = -1
		}
		p.pos++
		charge := 1
		if n, ok := p.readInt(); ok {
			charge = n
		} else {
			for p.peek() == c {
				charge++
				p.pos++
			}
		}
		at.FormalCharge = sign * charge
	}
	if p.peek() == ':' {
		p.pos++
		n, ok := p.readInt()
		if !ok {
			return p.errorf("bad atom map")
		}
		at.MapIndex = n
	}
	if p.peek() != ']' {
		return p.errorf("unterminated bracket atom")
	}
	p.pos++
	p.addAtom(at, hcount)
	return nil
}

//addHydrogens makes explicit the hydrogens of every atom, computing the implicit
//ones for the organic subset from the normal valences.
func (p *smilesParser) addHydrogens() {
	heavy := len(p.atoms)
	for i := 0; i < heavy; i++ {
		n := p.hcount[i]
		if n < 0 {
			n = p.implicitH(i)
		}
		for k := 0; k < n; k++ {
			p.atoms = append(p.atoms, &Atom{Symbol: "H"})
			p.hcount = append(p.hcount, 0)
			p.bonds = append(p.bonds, &Bond{At1: p.atoms[i], At2: p.atoms[len(p.atoms)-1], Order: 1})
		}
	}
}

func (p *smilesParser) implicitH(i int) int {
	at := p.atoms[i]
	var sum int
	for _, b := range p.bonds {
		if b.At1 != at && b.At2 != at {
			continue
		}
		if b.Aromatic {
			sum++
		} else {
			sum += b.Order
		}
	}
	if at.Aromatic {
		sum++
	}
	for _, v := range symbolValences[at.Symbol] {
		if v >= sum {
			return v - sum
		}
	}
	return 0
}
