/*
 * integrator.go, part of goFF.
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
	chem "github.com/rmera/goff"
)

// Integrator advances a Context in time. Contexts only carry it: this engine minimizes
// and evaluates, it does not run dynamics.
type Integrator interface {
	//StepSize returns the time step in picoseconds.
	StepSize() float64
	integrator()
}

// VerletIntegrator is a leapfrog Verlet integrator.
type VerletIntegrator struct {
	step float64
}

// NewVerletIntegrator returns a Verlet integrator with a time step of stepPs picoseconds.
func NewVerletIntegrator(stepPs float64) (*VerletIntegrator, error) {
	if !(stepPs > 0) {
		return nil, newError(chem.ErrPrecondition, "NewVerletIntegrator", "the time step must be positive, got %g ps", stepPs)
	}
	return &VerletIntegrator{step: stepPs}, nil
}

func (V *VerletIntegrator) StepSize() float64 { return V.step }

func (V *VerletIntegrator) integrator() {}

// Platform selects the implementation that evaluates a Context.
type Platform interface {
	Name() string
	platform()
}

type referencePlatform struct{}

func (referencePlatform) Name() string { return "Reference" }

func (referencePlatform) platform() {}

// Reference is the double precision, single threaded platform.
var Reference Platform = referencePlatform{}

// PlatformByName returns the platform called name.
func PlatformByName(name string) (Platform, error) {
	switch name {
	case Reference.Name():
		return Reference, nil
	}
	return nil, newError(chem.ErrUnsupported, "PlatformByName", "platform %q is not available, only %q is", name, Reference.Name())
}
