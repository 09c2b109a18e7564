/*
 * expr.go, part of goFF.
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
	"strconv"
	"strings"

	chem "github.com/rmera/goff"
)

type atomExpr interface {
	matchAtom(M *chem.Molecule, i int) bool
}

type bondExpr interface {
	matchBond(b *chem.Bond) bool
}

//logical nodes, shared by atom and bond expressions.

type notAtom struct{ e atomExpr }

func (n notAtom) matchAtom(M *chem.Molecule, i int) bool { return !n.e.matchAtom(M, i) }

type andAtom []atomExpr

func (a andAtom) matchAtom(M *chem.Molecule, i int) bool {
	for _, e := range a {
		if !e.matchAtom(M, i) {
			return false
		}
	}
	return true
}

type orAtom []atomExpr

func (o orAtom) matchAtom(M *chem.Molecule, i int) bool {
	for _, e := range o {
		if e.matchAtom(M, i) {
			return true
		}
	}
	return false
}

type notBond struct{ e bondExpr }

func (n notBond) matchBond(b *chem.Bond) bool { return !n.e.matchBond(b) }

type andBond []bondExpr

func (a andBond) matchBond(b *chem.Bond) bool {
	for _, e := range a {
		if !e.matchBond(b) {
			return false
		}
	}
	return true
}

type orBond []bondExpr

func (o orBond) matchBond(b *chem.Bond) bool {
	for _, e := range o {
		if e.matchBond(b) {
			return true
		}
	}
	return false
}

//atomic primitives

type anyAtom struct{}

func (anyAtom) matchAtom(*chem.Molecule, int) bool { return true }

type aromaticAtom bool

func (a aromaticAtom) matchAtom(M *chem.Molecule, i int) bool {
	return M.Atoms[i].Aromatic == bool(a)
}

type atomicNum int

func (z atomicNum) matchAtom(M *chem.Molecule, i int) bool { return M.Atoms[i].Z == int(z) }

type element struct {
	z        int
	aromatic bool
}

func (e element) matchAtom(M *chem.Molecule, i int) bool {
	return M.Atoms[i].Z == e.z && M.Atoms[i].Aromatic == e.aromatic
}

type degree int

func (d degree) matchAtom(M *chem.Molecule, i int) bool { return M.Degree(i) == int(d) }

//connectivity includes implicit hydrogens; in a chem.Molecule they are all explicit.
type connectivity int

func (x connectivity) matchAtom(M *chem.Molecule, i int) bool { return M.Degree(i) == int(x) }

type hcount int

func (h hcount) matchAtom(M *chem.Molecule, i int) bool { return M.HCount(i) == int(h) }

type valence int

func (v valence) matchAtom(M *chem.Molecule, i int) bool { return M.Valence(i) == int(v) }

type charge int

func (c charge) matchAtom(M *chem.Molecule, i int) bool { return M.Atoms[i].FormalCharge == int(c) }

//ringConn is the x primitive, -1 means "any ring bond".
type ringConn int

func (x ringConn) matchAtom(M *chem.Molecule, i int) bool {
	if x < 0 {
		return M.RingConnectivity(i) > 0
	}
	return M.RingConnectivity(i) == int(x)
}

//ringMembership is the R primitive, -1 means "in any ring".
type ringMembership int

func (r ringMembership) matchAtom(M *chem.Molecule, i int) bool {
	switch {
	case r < 0:
		return M.InRing(i)
	case r == 0:
		return !M.InRing(i)
	}
	return M.RingCount(i) == int(r)
}

//ringSize is the r primitive, -1 means "in any ring".
type ringSize int

func (r ringSize) matchAtom(M *chem.Molecule, i int) bool {
	switch {
	case r < 0:
		return M.InRing(i)
	case r == 0:
		return !M.InRing(i)
	}
	return M.SmallestRing(i) == int(r)
}

type recursive struct{ P *Pattern }

func (r recursive) matchAtom(M *chem.Molecule, i int) bool {
	return r.P.matchesAt(M, i)
}

//bond primitives

type bondOrder int

func (o bondOrder) matchBond(b *chem.Bond) bool { return !b.Aromatic && b.Order == int(o) }

type aromaticBond struct{}

func (aromaticBond) matchBond(b *chem.Bond) bool { return b.Aromatic }

type anyBond struct{}

func (anyBond) matchBond(*chem.Bond) bool { return true }

//defaultBond is the bond implied when no bond symbol is written: single or aromatic.
type defaultBond struct{}

func (defaultBond) matchBond(b *chem.Bond) bool { return b.Aromatic || b.Order == 1 }

//ringBond needs the molecule, so it is resolved by the matcher.
type ringBond struct{}

func (ringBond) matchBond(*chem.Bond) bool { return true }

//matchBondIn evaluates e on a bond of M, resolving the ring primitives that
//need the whole molecule.
func matchBondIn(e bondExpr, M *chem.Molecule, b *chem.Bond) bool {
	switch t := e.(type) {
	case ringBond:
		return M.RingBond(b.At1.Index(), b.At2.Index())
	case notBond:
		return !matchBondIn(t.e, M, b)
	case andBond:
		for _, x := range t {
			if !matchBondIn(x, M, b) {
				return false
			}
		}
		return true
	case orBond:
		for _, x := range t {
			if matchBondIn(x, M, b) {
				return true
			}
		}
		return false
	}
	return e.matchBond(b)
}

//Parsing

//bracketAtom parses the inside of [...], the opening bracket already consumed,
//and returns the expression and map index.
func (p *parser) bracketAtom() (atomExpr, int, error) {
	start := p.pos
	e, err := p.lowAnd()
	if err != nil {
		return nil, 0, err
	}
	mapIdx := 0
	if p.peek() == ':' {
		p.pos++
		n, ok := p.readInt()
		if !ok {
			return nil, 0, p.errorf("bad atom map")
		}
		mapIdx = n
	}
	if p.peek() != ']' {
		return nil, 0, p.errorf("unterminated bracket atom %q", p.s[start:p.pos])
	}
	p.pos++
	return e, mapIdx, nil
}

func (p *parser) lowAnd() (atomExpr, error) {
	var terms andAtom
	for {
		e, err := p.or()
		if err != nil {
			return nil, err
		}
		terms = append(terms, e)
		if p.peek() != ';' {
			break
		}
		p.pos++
	}
	if len(terms) == 1 {
		return terms[0], nil
	}
	return terms, nil
}

func (p *parser) or() (atomExpr, error) {
	var terms orAtom
	for {
		e, err := p.highAnd()
		if err != nil {
			return nil, err
		}
		terms = append(terms, e)
		if p.peek() != ',' {
			break
		}
		p.pos++
	}
	if len(terms) == 1 {
		return terms[0], nil
	}
	return terms, nil
}

//highAnd parses primitives joined by '&' or just written one after the other.
func (p *parser) highAnd() (atomExpr, error) {
	var terms andAtom
	first := true
	for {
		c := p.peek()
		if c == '&' {
			p.pos++
		} else if !first && (c == ';' || c == ',' || c == ']' || c == ':' || c == ')' || c == 0) {
			break
		}
		e, err := p.unary(first)
		if err != nil {
			return nil, err
		}
		terms = append(terms, e)
		first = false
	}
	if len(terms) == 1 {
		return terms[0], nil
	}
	return terms, nil
}

func (p *parser) unary(leading bool) (atomExpr, error) {
	if p.peek() == '!' {
		p.pos++
		e, err := p.unary(false)
		if err != nil {
			return nil, err
		}
		return notAtom{e}, nil
	}
	return p.primitive(leading)
}

func (p *parser) readInt() (int, bool) {
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

//intOr reads an optional count, returning def if absent.
func (p *parser) intOr(def int) int {
	if n, ok := p.readInt(); ok {
		return n
	}
	return def
}

var aromaticElements = map[string]int{"c": 6, "n": 7, "o": 8, "s": 16, "p": 15, "b": 5, "se": 34, "as": 33}

//primitive parses one atomic primitive. leading is true for the first primitive
//of a bracket atom, where H means a hydrogen atom rather than a hydrogen count
//if nothing but a charge or map follows it.
func (p *parser) primitive(leading bool) (atomExpr, error) {
	c := p.peek()
	switch {
	case c == 0:
		return nil, p.errorf("unexpected end of pattern")
	case c == '*':
		p.pos++
		return anyAtom{}, nil
	case c == 'a':
		if p.pos+1 < len(p.s) && p.s[p.pos+1] == 's' {
			p.pos += 2
			return element{z: 33, aromatic: true}, nil
		}
		p.pos++
		return aromaticAtom(true), nil
	case c == 'A':
		if p.pos+1 < len(p.s) && p.s[p.pos+1] >= 'a' && p.s[p.pos+1] <= 'z' {
			break //an element, Al, Ar, As...
		}
		p.pos++
		return aromaticAtom(false), nil
	case c == '#':
		p.pos++
		n, ok := p.readInt()
		if !ok {
			return nil, p.errorf("atomic number expected after '#'")
		}
		return atomicNum(n), nil
	case c == 'D':
		p.pos++
		return degree(p.intOr(1)), nil
	case c == 'X':
		p.pos++
		return connectivity(p.intOr(1)), nil
	case c == 'H':
		rest := p.s[p.pos+1:]
		if leading && (strings.HasPrefix(rest, "]") || strings.HasPrefix(rest, ":") || strings.HasPrefix(rest, "+") || strings.HasPrefix(rest, "-")) {
			p.pos++
			return atomicNum(1), nil
		}
		if len(rest) > 0 && rest[0] >= 'a' && rest[0] <= 'z' {
			break //He, Hg...
		}
		p.pos++
		return hcount(p.intOr(1)), nil
	case c == 'v':
		p.pos++
		return valence(p.intOr(1)), nil
	case c == 'x':
		p.pos++
		return ringConn(p.intOr(-1)), nil
	case c == 'R':
		p.pos++
		return ringMembership(p.intOr(-1)), nil
	case c == 'r':
		p.pos++
		return ringSize(p.intOr(-1)), nil
	case c == '+' || c == '-':
		p.pos++
		sign := 1
		if c == '-' {
			sign = -1
		}
		n, ok := p.readInt()
		if !ok {
			n = 1
			for p.peek() == c {
				n++
				p.pos++
			}
		}
		return charge(sign * n), nil
	case c == '@':
		//tetrahedral stereo is not perceived; the primitive always matches.
		p.pos++
		if p.peek() == '@' {
			p.pos++
		}
		return anyAtom{}, nil
	case c == '$':
		return p.recursivePrimitive()
	case c >= 'a' && c <= 'z':
		for _, sym := range []string{"se", "as", string(c)} {
			if z, ok := aromaticElements[sym]; ok && strings.HasPrefix(p.s[p.pos:], sym) {
				p.pos += len(sym)
				return element{z: z, aromatic: true}, nil
			}
		}
		return nil, p.errorf("unknown primitive %q", string(c))
	}
	if c >= 'A' && c <= 'Z' {
		if p.pos+1 < len(p.s) {
			if z := chem.AtomicNumber(p.s[p.pos : p.pos+2]); z > 0 {
				p.pos += 2
				return element{z: z}, nil
			}
		}
		if z := chem.AtomicNumber(string(c)); z > 0 {
			p.pos++
			return element{z: z}, nil
		}
	}
	return nil, p.errorf("unknown primitive %q", string(c))
}

func (p *parser) recursivePrimitive() (atomExpr, error) {
	if !strings.HasPrefix(p.s[p.pos:], "$(") {
		return nil, p.errorf("'(' expected after '$'")
	}
	depth := 0
	start := p.pos + 2
	for i := p.pos + 1; i < len(p.s); i++ {
		switch p.s[i] {
		case '(':
			depth++
		case ')':
			depth--
			if depth == 0 {
				sub, err := Compile(p.s[start:i])
				if err != nil {
					return nil, err
				}
				p.pos = i + 1
				return recursive{sub}, nil
			}
		}
	}
	return nil, p.errorf("unterminated recursive SMARTS")
}

//bareAtom parses an atom written outside brackets.
func (p *parser) bareAtom() (atomExpr, error) {
	c := p.peek()
	switch c {
	case '*':
		p.pos++
		return anyAtom{}, nil
	case 'a':
		p.pos++
		return aromaticAtom(true), nil
	case 'A':
		p.pos++
		return aromaticAtom(false), nil
	}
	for _, sym := range []string{"Cl", "Br"} {
		if strings.HasPrefix(p.s[p.pos:], sym) {
			p.pos += 2
			return element{z: chem.AtomicNumber(sym)}, nil
		}
	}
	switch c {
	case 'B', 'C', 'N', 'O', 'P', 'S', 'F', 'I':
		p.pos++
		return element{z: chem.AtomicNumber(string(c))}, nil
	case 'b', 'c', 'n', 'o', 'p', 's':
		p.pos++
		return element{z: aromaticElements[string(c)], aromatic: true}, nil
	}
	return nil, p.errorf("unexpected character %q", string(c))
}

//bondExpression parses a bond expression with the same operator precedence
//as atom expressions.
func (p *parser) bondExpression() (bondExpr, error) {
	var low andBond
	for {
		var or orBond
		for {
			var high andBond
			for {
				if p.peek() == '&' {
					p.pos++
				}
				e, err := p.bondUnary()
				if err != nil {
					return nil, err
				}
				high = append(high, e)
				if c := p.peek(); c == 0 || strings.IndexByte("-=#:~@/\\!&", c) < 0 {
					break
				}
			}
			or = append(or, collapseAnd(high))
			if p.peek() != ',' {
				break
			}
			p.pos++
		}
		if len(or) == 1 {
			low = append(low, or[0])
		} else {
			low = append(low, or)
		}
		if p.peek() != ';' {
			break
		}
		p.pos++
	}
	return collapseAnd(low), nil
}

func collapseAnd(a andBond) bondExpr {
	if len(a) == 1 {
		return a[0]
	}
	return a
}

func (p *parser) bondUnary() (bondExpr, error) {
	c := p.peek()
	p.pos++
	switch c {
	case '!':
		e, err := p.bondUnary()
		if err != nil {
			return nil, err
		}
		return notBond{e}, nil
	case '-', '/', '\\':
		return bondOrder(1), nil
	case '=':
		return bondOrder(2), nil
	case '#':
		return bondOrder(3), nil
	case ':':
		return aromaticBond{}, nil
	case '~':
		return anyBond{}, nil
	case '@':
		return ringBond{}, nil
	}
	p.pos--
	return nil, p.errorf("bond primitive expected")
}
