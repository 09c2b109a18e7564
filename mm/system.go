/*
 * system.go, part of goFF.
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

// Package mm is a small molecular-mechanics engine: an immutable System (masses plus
// force terms), value-type integrators and platforms, and a Context that holds
// positions, minimizes them and reports energies.
//
// Internal units are those of OpenMM: nanometer, kilojoule/mole, picosecond, radian and
// dalton. Conversions from other units happen at the Context boundary.
package mm

import (
	"fmt"
	"math"

	chem "github.com/rmera/goff"
)

// Error is the error type of the mm package.
type Error struct {
	message string
	kind    error
	deco    []string
}

func (err *Error) Error() string { return fmt.Sprintf("%s: %s", err.kind, err.message) }

// Decorate adds dec to the decoration slice of the error and returns the slice.
func (err *Error) Decorate(dec string) []string {
	if dec != "" {
		err.deco = append(err.deco, dec)
	}
	return err.deco
}

func (err *Error) Unwrap() error { return err.kind }

func newError(kind error, caller, format string, a ...any) *Error {
	return &Error{message: fmt.Sprintf(format, a...), kind: kind, deco: []string{caller}}
}

// Force is one additive term of the potential energy of a System. The set of forces is
// closed: the types in this package are the only implementations.
type Force interface {
	//Name identifies the kind of force, as OpenMM names it.
	Name() string
	//Len returns the number of interactions of the force.
	Len() int
	//energy returns the energy of the term for positions pos (nm, flat) and, if
	//grad is not nil, adds the gradient of the energy to it.
	energy(pos, grad []float64) float64
	//check verifies that every particle index is below n.
	check(n int) error
}

// System is an immutable potential energy function for a set of particles.
type System struct {
	masses []float64
	forces []Force
}

// NewSystem returns a System with the given particle masses (dalton) and forces. The forces
// must not be modified after this call.
func NewSystem(masses []float64, forces ...Force) (*System, error) {
	if len(masses) == 0 {
		return nil, newError(chem.ErrPrecondition, "NewSystem", "a system needs at least one particle")
	}
	for i, m := range masses {
		if m <= 0 || math.IsNaN(m) {
			return nil, newError(chem.ErrPrecondition, "NewSystem", "particle %d has a non-positive mass %g", i, m)
		}
	}
	for _, f := range forces {
		if f == nil {
			return nil, newError(chem.ErrPrecondition, "NewSystem", "nil force")
		}
		if err := f.check(len(masses)); err != nil {
			return nil, chem.ErrDecorate(err, "NewSystem")
		}
	}
	return &System{masses: append([]float64(nil), masses...), forces: append([]Force(nil), forces...)}, nil
}

// NumParticles returns the number of particles of the system.
func (S *System) NumParticles() int {
	return len(S.masses)
}

// Mass returns the mass, in dalton, of particle i.
func (S *System) Mass(i int) float64 {
	return S.masses[i]
}

// Forces returns the force terms of the system.
func (S *System) Forces() []Force {
	return append([]Force(nil), S.forces...)
}

// Evaluate returns the potential energy (kJ/mol) at the positions pos (nm, flattened). If
// grad is not nil it is overwritten with the gradient (kJ/mol/nm). pos is not modified.
func (S *System) Evaluate(pos, grad []float64) float64 {
	if grad != nil {
		for i := range grad {
			grad[i] = 0
		}
	}
	var e float64
	for _, f := range S.forces {
		e += f.energy(pos, grad)
	}
	return e
}

// EnergyByForce returns the energy (kJ/mol) of each force at pos, by force name.
// Forces with the same name are added.
func (S *System) EnergyByForce(pos []float64) map[string]float64 {
	ret := make(map[string]float64, len(S.forces))
	for _, f := range S.forces {
		ret[f.Name()] += f.energy(pos, nil)
	}
	return ret
}

func checkIndexes(name string, n int, idx ...int) error {
	for _, i := range idx {
		if i < 0 || i >= n {
			return newError(chem.ErrPrecondition, name, "particle index %d out of range for %d particles", i, n)
		}
	}
	return nil
}
