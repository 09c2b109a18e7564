/*
 * smarts.go, part of goFF.
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

// Package smarts parses SMARTS and SMIRKS patterns and finds them in molecules.
//
// The supported language covers what SMIRNOFF force fields use: atomic primitives
// (#n, element symbols, a, A, *, D, X, H, v, x, R, r, charges, $() recursion), bond
// primitives (- = # : ~ @ / \), the logical operators !, &, ',' and ';', branches,
// ring closures and atom-map tags (":n") that mark the atoms reported in a match.
package smarts

import (
	"fmt"
	"strconv"
	"strings"

	chem "github.com/rmera/goff"
)

// Error is the error type of the smarts package.
type Error struct {
	pattern string
	pos     int
	message string
	deco    []string
}

func (err *Error) Error() string {
	return fmt.Sprintf("%s: SMARTS %q, position %d: %s", chem.ErrConfiguration, err.pattern, err.pos, err.message)
}

// Decorate adds dec to the decoration slice of the error and returns the slice.
func (err *Error) Decorate(dec string) []string {
	if dec != "" {
		err.deco = append(err.deco, dec)
	}
	return err.deco
}

// Unwrap returns chem.ErrConfiguration: a bad pattern is a bad force-field definition.
func (err *Error) Unwrap() error { return chem.ErrConfiguration }

type patternAtom struct {
	expr   atomExpr
	mapIdx int
}

type patternBond struct {
	a, b int
	expr bondExpr
}

// Pattern is a compiled SMARTS pattern.
type Pattern struct {
	text   string
	atoms  []patternAtom
	bonds  []patternBond
	parent []int //index of the bond that attaches each atom to an earlier one, -1 for the first
	tagged []int //pattern atoms with a map index, ordered by it
}

// String returns the pattern as it was given.
func (P *Pattern) String() string {
	return P.text
}

// Tagged returns the number of atoms with a map index in the pattern.
func (P *Pattern) Tagged() int {
	return len(P.tagged)
}

// Len returns the number of atoms in the pattern.
func (P *Pattern) Len() int {
	return len(P.atoms)
}

type parser struct {
	s     string
	pos   int
	P     *Pattern
	rings map[int]ringOpen
	stack []int
	prev  int
	bond  bondExpr
}

type ringOpen struct {
	atom int
	bond bondExpr
}

func (p *parser) errorf(format string, a ...any) error {
	return &Error{pattern: p.s, pos: p.pos, message: fmt.Sprintf(format, a...), deco: []string{"smarts.Compile"}}
}

func (p *parser) peek() byte {
	if p.pos >= len(p.s) {
		return 0
	}
	return p.s[p.pos]
}

// Compile parses a SMARTS or SMIRKS pattern. The pattern must be connected.
func Compile(pattern string) (*Pattern, error) {
	p := &parser{s: strings.TrimSpace(pattern), P: &Pattern{text: pattern}, rings: make(map[int]ringOpen), prev: -1}
	if p.s == "" {
		return nil, p.errorf("empty pattern")
	}
	for p.pos < len(p.s) {
		c := p.s[p.pos]
		switch {
		case c == '(':
			if p.prev < 0 {
				return nil, p.errorf("branch without a preceding atom")
			}
			p.stack = append(p.stack, p.prev)
			p.pos++
		case c == ')':
			if len(p.stack) == 0 {
				return nil, p.errorf("unbalanced parenthesis")
			}
			p.prev = p.stack[len(p.stack)-1]
			p.stack = p.stack[:len(p.stack)-1]
			p.pos++
		case c == '.':
			return nil, p.errorf("disconnected patterns are not supported")
		case c >= '0' && c <= '9', c == '%':
			if err := p.ringClosure(); err != nil {
				return nil, err
			}
		case c == '[':
			p.pos++
			expr, mapIdx, err := p.bracketAtom()
			if err != nil {
				return nil, err
			}
			p.addAtom(expr, mapIdx)
		case strings.IndexByte("-=#:~@/\\!", c) >= 0:
			if p.bond != nil {
				return nil, p.errorf("two consecutive bond expressions")
			}
			e, err := p.bondExpression()
			if err != nil {
				return nil, err
			}
			p.bond = e
		default:
			expr, err := p.bareAtom()
			if err != nil {
				return nil, err
			}
			p.addAtom(expr, 0)
		}
	}
	if len(p.stack) > 0 {
		return nil, p.errorf("unclosed branch")
	}
	if len(p.rings) > 0 {
		return nil, p.errorf("unclosed ring")
	}
	if p.bond != nil {
		return nil, p.errorf("dangling bond")
	}
	if err := p.P.index(); err != nil {
		p.pos = 0
		return nil, p.errorf("%s", err.Error())
	}
	return p.P, nil
}

// MustCompile is like Compile but panics if the pattern cannot be parsed.
func MustCompile(pattern string) *Pattern {
	P, err := Compile(pattern)
	if err != nil {
		panic(err)
	}
	return P
}

func (p *parser) addAtom(expr atomExpr, mapIdx int) {
	p.P.atoms = append(p.P.atoms, patternAtom{expr: expr, mapIdx: mapIdx})
	idx := len(p.P.atoms) - 1
	p.P.parent = append(p.P.parent, -1)
	if p.prev >= 0 {
		b := p.bond
		if b == nil {
			b = defaultBond{}
		}
		p.P.bonds = append(p.P.bonds, patternBond{a: p.prev, b: idx, expr: b})
		p.P.parent[idx] = len(p.P.bonds) - 1
	}
	p.bond = nil
	p.prev = idx
}

func (p *parser) ringClosure() error {
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
		p.rings[num] = ringOpen{atom: p.prev, bond: p.bond}
		p.bond = nil
		return nil
	}
	delete(p.rings, num)
	b := p.bond
	if b == nil {
		b = open.bond
	}
	if b == nil {
		b = defaultBond{}
	}
	p.P.bonds = append(p.P.bonds, patternBond{a: open.atom, b: p.prev, expr: b})
	p.bond = nil
	return nil
}

// index orders the tagged atoms by map index, and checks the tags are unique.
func (P *Pattern) index() error {
	byMap := make(map[int]int)
	maxMap := 0
	for i, a := range P.atoms {
		if a.mapIdx == 0 {
			continue
		}
		if _, ok := byMap[a.mapIdx]; ok {
			return fmt.Errorf("map index %d used twice", a.mapIdx)
		}
		byMap[a.mapIdx] = i
		maxMap = max(maxMap, a.mapIdx)
	}
	for m := 1; m <= maxMap; m++ {
		i, ok := byMap[m]
		if !ok {
			return fmt.Errorf("map indexes must be consecutive from 1, %d is missing", m)
		}
		P.tagged = append(P.tagged, i)
	}
	return nil
}
