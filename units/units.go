/*
 * units.go, part of goFF.
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

// Package units implements physical quantities tagged with a unit symbol. A magnitude
// is never used without its unit, and there are no implicit conversions: every
// transfer between unit systems goes through Convert (or Value.In) with an explicit
// target symbol. Dimensional analysis is delegated to gonum's unit package.
package units

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"gonum.org/v1/gonum/unit"
)

// Symbol is a unit expression in SMIRNOFF/OpenMM syntax, e.g. "angstrom" or
// "angstrom**-2 * mole**-1 * kilocalorie".
type Symbol string

// The symbols used at the boundaries of the library.
const (
	Angstrom      Symbol = "angstrom"
	Bohr          Symbol = "bohr"
	Nanometer     Symbol = "nanometer"
	Degree        Symbol = "degree"
	Radian        Symbol = "radian"
	Femtosecond   Symbol = "femtosecond"
	Picosecond    Symbol = "picosecond"
	Dalton        Symbol = "dalton"
	Dimensionless Symbol = "dimensionless"

	KcalPerMol Symbol = "kilocalorie / mole"
	KJPerMol   Symbol = "kilojoule / mole"

	KcalPerMolA2   Symbol = "kilocalorie / mole / angstrom**2"
	KJPerMolNm2    Symbol = "kilojoule / mole / nanometer**2"
	KcalPerMolRad2 Symbol = "kilocalorie / mole / radian**2"
	KJPerMolRad2   Symbol = "kilojoule / mole / radian**2"
	KcalPerMolA    Symbol = "kilocalorie / mole / angstrom"
	KJPerMolNm     Symbol = "kilojoule / mole / nanometer"
)

// Exact conversion constants.
const (
	BohrInAngstrom = 0.529177210903
	NmInAngstrom   = 10.0
	KcalInKJ       = 4.184
	FsInPs         = 1e-3
)

var (
	ErrUnknownUnit  = errors.New("units: unknown unit")
	ErrIncompatible = errors.New("units: incompatible dimensions")
	ErrSyntax       = errors.New("units: malformed quantity")
)

// Error is the error type of the units package.
type Error struct {
	message string
	kind    error
	deco    []string
}

func (err *Error) Error() string { return err.message }

// Decorate adds dec to the decoration slice of the error and returns the slice.
// An empty string only returns the current slice.
func (err *Error) Decorate(dec string) []string {
	if dec != "" {
		err.deco = append(err.deco, dec)
	}
	return err.deco
}

func (err *Error) Unwrap() error { return err.kind }

func newError(kind error, caller, format string, a ...any) *Error {
	return &Error{message: fmt.Sprintf("%s: %s", kind.Error(), fmt.Sprintf(format, a...)), kind: kind, deco: []string{caller}}
}

type base struct {
	scale float64
	dims  func() unit.Dimensions
}

func length() unit.Dimensions { return unit.Dimensions{unit.LengthDim: 1} }
func angle() unit.Dimensions  { return unit.Dimensions{unit.AngleDim: 1} }
func tim() unit.Dimensions    { return unit.Dimensions{unit.TimeDim: 1} }
func mass() unit.Dimensions   { return unit.Dimensions{unit.MassDim: 1} }
func mole() unit.Dimensions   { return unit.Dimensions{unit.MoleDim: 1} }
func none() unit.Dimensions   { return unit.Dimensions{} }
func energy() unit.Dimensions {
	return unit.Dimensions{unit.MassDim: 1, unit.LengthDim: 2, unit.TimeDim: -2}
}

// SI scale of every named unit the parser understands.
var bases = map[string]base{
	"meter":         {1, length},
	"nanometer":     {1e-9, length},
	"nanometers":    {1e-9, length},
	"nm":            {1e-9, length},
	"angstrom":      {1e-10, length},
	"angstroms":     {1e-10, length},
	"A":             {1e-10, length},
	"Å":             {1e-10, length},
	"picometer":     {1e-12, length},
	"bohr":          {BohrInAngstrom * 1e-10, length},
	"radian":        {1, angle},
	"radians":       {1, angle},
	"rad":           {1, angle},
	"degree":        {math.Pi / 180, angle},
	"degrees":       {math.Pi / 180, angle},
	"deg":           {math.Pi / 180, angle},
	"second":        {1, tim},
	"picosecond":    {1e-12, tim},
	"picoseconds":   {1e-12, tim},
	"ps":            {1e-12, tim},
	"femtosecond":   {1e-15, tim},
	"femtoseconds":  {1e-15, tim},
	"fs":            {1e-15, tim},
	"kilogram":      {1, mass},
	"dalton":        {1.66053906660e-27, mass},
	"amu":           {1.66053906660e-27, mass},
	"mole":          {1, mole},
	"mol":           {1, mole},
	"joule":         {1, energy},
	"kilojoule":     {1e3, energy},
	"kJ":            {1e3, energy},
	"calorie":       {KcalInKJ, energy},
	"kilocalorie":   {KcalInKJ * 1e3, energy},
	"kcal":          {KcalInKJ * 1e3, energy},
	"dimensionless": {1, none},
	"elementary_charge": {1.602176634e-19, func() unit.Dimensions {
		return unit.Dimensions{unit.CurrentDim: 1, unit.TimeDim: 1}
	}},
}

// compound names that OpenMM spells as a single identifier.
var aliases = map[string]string{
	"kilocalorie_per_mole":  "kilocalorie / mole",
	"kilocalories_per_mole": "kilocalorie / mole",
	"kilojoule_per_mole":    "kilojoule / mole",
	"kilojoules_per_mole":   "kilojoule / mole",
}

// parse turns a unit expression into a dimensioned gonum unit whose value is the SI
// scale of the expression.
func parse(s Symbol) (*unit.Unit, error) {
	expr := strings.TrimSpace(string(s))
	if expr == "" {
		return nil, newError(ErrUnknownUnit, "parse", "empty unit")
	}
	for k, v := range aliases {
		expr = strings.ReplaceAll(expr, k, v)
	}
	ret := unit.New(1, none())
	op := byte('*')
	for len(expr) > 0 {
		end := strings.IndexAny(expr, "*/")
		//"**" is an exponent, not a product.
		for end >= 0 && end+1 < len(expr) && expr[end] == '*' && expr[end+1] == '*' {
			next := strings.IndexAny(expr[end+2:], "*/")
			if next < 0 {
				end = -1
				break
			}
			end = end + 2 + next
		}
		var tok string
		if end < 0 {
			tok, expr = expr, ""
		} else {
			tok = expr[:end]
		}
		u, err := factor(strings.TrimSpace(tok))
		if err != nil {
			return nil, err
		}
		if op == '*' {
			ret.Mul(u)
		} else {
			ret.Div(u)
		}
		if end >= 0 {
			op = expr[end]
			expr = expr[end+1:]
			if strings.TrimSpace(expr) == "" {
				return nil, newError(ErrSyntax, "parse", "dangling operator in %q", s)
			}
		}
	}
	return ret, nil
}

// factor parses a single "name" or "name**exp" token.
func factor(tok string) (*unit.Unit, error) {
	name, exp := tok, 1
	if i := strings.Index(tok, "**"); i >= 0 {
		name = strings.TrimSpace(tok[:i])
		e, err := strconv.Atoi(strings.TrimSpace(tok[i+2:]))
		if err != nil {
			return nil, newError(ErrSyntax, "factor", "bad exponent in %q", tok)
		}
		exp = e
	}
	b, ok := bases[name]
	if !ok {
		return nil, newError(ErrUnknownUnit, "factor", "%q", name)
	}
	ret := unit.New(1, none())
	for i := 0; i < exp; i++ {
		ret.Mul(unit.New(b.scale, b.dims()))
	}
	for i := 0; i > exp; i-- {
		ret.Div(unit.New(b.scale, b.dims()))
	}
	return ret, nil
}

// Known reports whether s can be parsed as a unit.
func Known(s Symbol) bool {
	_, err := parse(s)
	return err == nil
}

// Compatible reports whether a and b measure the same physical dimension.
func Compatible(a, b Symbol) bool {
	ua, err := parse(a)
	if err != nil {
		return false
	}
	ub, err := parse(b)
	if err != nil {
		return false
	}
	return unit.DimensionsMatch(ua, ub)
}

// Factor returns the number that a magnitude in from must be multiplied by to be
// expressed in to.
func Factor(from, to Symbol) (float64, error) {
	if from == to {
		return 1, nil
	}
	uf, err := parse(from)
	if err != nil {
		return 0, err
	}
	ut, err := parse(to)
	if err != nil {
		return 0, err
	}
	if !unit.DimensionsMatch(uf, ut) {
		return 0, newError(ErrIncompatible, "Factor", "%q -> %q", from, to)
	}
	return uf.Value() / ut.Value(), nil
}

// Value is a physical quantity: a magnitude that is meaningless without its unit.
type Value struct {
	Magnitude float64
	Unit      Symbol
}

// New returns the quantity m u.
func New(m float64, u Symbol) Value {
	return Value{Magnitude: m, Unit: u}
}

// In returns the magnitude of V expressed in target.
func (V Value) In(target Symbol) (float64, error) {
	f, err := Factor(V.Unit, target)
	if err != nil {
		return 0, err
	}
	return V.Magnitude * f, nil
}

// Convert returns V expressed in target.
func (V Value) Convert(target Symbol) (Value, error) {
	m, err := V.In(target)
	if err != nil {
		return Value{}, err
	}
	return Value{Magnitude: m, Unit: target}, nil
}

func (V Value) String() string {
	return fmt.Sprintf("%g * %s", V.Magnitude, V.Unit)
}

// Parse reads a quantity in SMIRNOFF notation, "1.527 * angstrom". A bare number is
// dimensionless.
func Parse(s string) (Value, error) {
	s = strings.TrimSpace(s)
	num, rest, found := strings.Cut(s, "*")
	if found && strings.HasPrefix(rest, "*") {
		return Value{}, newError(ErrSyntax, "Parse", "%q", s)
	}
	m, err := strconv.ParseFloat(strings.TrimSpace(num), 64)
	if err != nil {
		return Value{}, newError(ErrSyntax, "Parse", "%q", s)
	}
	if !found {
		return Value{Magnitude: m, Unit: Dimensionless}, nil
	}
	u := Symbol(strings.TrimSpace(rest))
	if _, err := parse(u); err != nil {
		return Value{}, err
	}
	return Value{Magnitude: m, Unit: u}, nil
}
