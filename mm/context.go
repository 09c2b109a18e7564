/*
 * context.go, part of goFF.
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

package mm

import (
	"math"

	chem "github.com/rmera/goff"
	"github.com/rmera/goff/units"
)

// State is the lifecycle stage of a Context.
type State int

const (
	Created State = iota
	PositionsSet
	Minimized
)

func (s State) String() string {
	switch s {
	case Created:
		return "Created"
	case PositionsSet:
		return "PositionsSet"
	case Minimized:
		return "Minimized"
	}
	return "Unknown"
}

// Context binds a System to an Integrator and a Platform, and holds the current positions.
// A Context must not be used from several goroutines at the same time.
type Context struct {
	system     *System
	integrator Integrator
	platform   Platform
	pos        []float64 //nm
	state      State
}

// NewContext returns a Context in the Created state.
func NewContext(system *System, integrator Integrator, platform Platform) (*Context, error) {
	if system == nil || integrator == nil || platform == nil {
		return nil, newError(chem.ErrPrecondition, "NewContext", "system, integrator and platform are all needed")
	}
	return &Context{system: system, integrator: integrator, platform: platform}, nil
}

// System returns the system of the context.
func (C *Context) System() *System { return C.system }

// Integrator returns the integrator of the context.
func (C *Context) Integrator() Integrator { return C.integrator }

// Platform returns the platform of the context.
func (C *Context) Platform() Platform { return C.platform }

// State returns the lifecycle stage of the context.
func (C *Context) State() State { return C.state }

// SetPositions sets the positions of all particles. coords holds x, y, z for each particle in
// order, in the length unit u. On error the context is left as it was.
func (C *Context) SetPositions(coords []float64, u units.Symbol) error {
	if len(coords)%3 != 0 {
		return newError(chem.ErrPrecondition, "Context.SetPositions", "%d coordinates is not a whole number of triples", len(coords))
	}
	if n := len(coords) / 3; n != C.system.NumParticles() {
		return newError(chem.ErrPrecondition, "Context.SetPositions", "%d positions for %d particles", n, C.system.NumParticles())
	}
	f, err := units.Factor(u, units.Nanometer)
	if err != nil {
		return chem.WrapError(chem.ErrPrecondition, err, "Context.SetPositions", "positions must be lengths")
	}
	pos := make([]float64, len(coords))
	for i, v := range coords {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return newError(chem.ErrPrecondition, "Context.SetPositions", "coordinate %d is not finite", i)
		}
		pos[i] = v * f
	}
	C.pos = pos
	C.state = PositionsSet
	return nil
}

func (C *Context) ready(caller string) error {
	if C.pos == nil {
		return newError(chem.ErrPrecondition, caller, "no positions have been set")
	}
	return nil
}

// Coordinates returns the current positions, flattened, in the length unit u.
func (C *Context) Coordinates(u units.Symbol) ([]float64, error) {
	if err := C.ready("Context.Coordinates"); err != nil {
		return nil, err
	}
	f, err := units.Factor(units.Nanometer, u)
	if err != nil {
		return nil, chem.WrapError(chem.ErrPrecondition, err, "Context.Coordinates", "coordinates are lengths")
	}
	ret := make([]float64, len(C.pos))
	for i, v := range C.pos {
		ret[i] = v * f
	}
	return ret, nil
}

// Energy returns the potential energy at the current positions in the molar energy unit u.
func (C *Context) Energy(u units.Symbol) (float64, error) {
	if err := C.ready("Context.Energy"); err != nil {
		return 0, err
	}
	e, err := units.New(C.system.Evaluate(C.pos, nil), units.KJPerMol).In(u)
	if err != nil {
		return 0, chem.WrapError(chem.ErrPrecondition, err, "Context.Energy", "bad energy unit")
	}
	return e, nil
}

// Forces returns minus the gradient of the energy at the current positions, flattened, in u
// (energy per mole per length).
func (C *Context) Forces(u units.Symbol) ([]float64, error) {
	if err := C.ready("Context.Forces"); err != nil {
		return nil, err
	}
	f, err := units.Factor(units.KJPerMolNm, u)
	if err != nil {
		return nil, chem.WrapError(chem.ErrPrecondition, err, "Context.Forces", "bad force unit")
	}
	grad := make([]float64, len(C.pos))
	C.system.Evaluate(C.pos, grad)
	for i := range grad {
		grad[i] *= -f
	}
	return grad, nil
}
