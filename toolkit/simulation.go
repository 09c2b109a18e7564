/*
 * simulation.go, part of goFF.
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

package toolkit

import (
	"io"

	chem "github.com/rmera/goff"
	"github.com/rmera/goff/ff"
	"github.com/rmera/goff/interchange"
	"github.com/rmera/goff/internal/chemrt"
	"github.com/rmera/goff/mm"
	"github.com/rmera/goff/units"
	"go.uber.org/zap"
)

/*** Interchange ***/

// Interchange is a topology bound to the parameters a force field assigns to it. An
// interchange is immutable, so its term counts and skipped sections are read once.
type Interchange struct {
	handle
	ic      *interchange.Interchange
	top     *Topology
	counts  map[string]int
	skipped []string
}

// NewInterchange applies the force field to the topology. If any bond, angle, proper torsion
// or atom is left without parameters, it fails with chem.ErrParameterization.
func NewInterchange(F *ForceField, top *Topology) (*Interchange, error) {
	if F == nil || top == nil {
		return nil, chem.NewError(chem.ErrPrecondition, "NewInterchange", "a force field and a topology are needed")
	}
	return chemrt.Call(rt, "NewInterchange", func() (*Interchange, error) {
		ic, err := interchange.FromSMIRNOFF(F.ff, top.top)
		if err != nil {
			return nil, err
		}
		if s := ic.Skipped(); len(s) > 0 {
			rt.Logger().Warn("force field sections not applied", zap.String("forcefield", F.ff.Name), zap.Strings("sections", s))
		}
		counts := make(map[string]int, len(ff.Categories))
		for _, cat := range ff.Categories {
			counts[string(cat)] = ic.Count(cat)
		}
		return &Interchange{handle: handle{rt.NewHandle("interchange")}, ic: ic, top: top, counts: counts, skipped: ic.Skipped()}, nil
	})
}

// Topology returns the topology of the interchange.
func (I *Interchange) Topology() *Topology {
	return I.top
}

// Skipped returns the force-field sections left out of the interchange.
func (I *Interchange) Skipped() []string {
	return append([]string(nil), I.skipped...)
}

// Count returns the number of terms of a category, 0 for an unknown category.
func (I *Interchange) Count(category string) int {
	return I.counts[category]
}

// Records returns the parameters of the terms of a category, with global atom indexes.
func (I *Interchange) Records(category string) ([]ParameterRecord, error) {
	return chemrt.Call(rt, "Records", func() ([]ParameterRecord, error) {
		return records(category, I.ic.Assignments(ff.Category(category)))
	})
}

// VirtualSites always fails with chem.ErrUnsupported.
func (I *Interchange) VirtualSites() error {
	return rt.Do("VirtualSites", func() error {
		_, err := I.ic.VirtualSites()
		return err
	})
}

// WriteGromacs writes the interchange as a GROMACS topology.
func (I *Interchange) WriteGromacs(w io.Writer, name string) error {
	return rt.Do("WriteGromacs", func() error {
		return I.ic.WriteGromacs(w, name)
	})
}

// ToSystem exports the interchange as a simulation system.
func (I *Interchange) ToSystem() (*System, error) {
	return chemrt.Call(rt, "ToSystem", func() (*System, error) {
		S, err := I.ic.ToSystem()
		if err != nil {
			return nil, err
		}
		fs := S.Forces()
		names := make([]string, len(fs))
		for i, f := range fs {
			names[i] = f.Name()
		}
		return &System{handle: handle{rt.NewHandle("system")}, sys: S, nparticles: S.NumParticles(), forces: names}, nil
	})
}

/*** System ***/

// System is an immutable energy function. Any number of contexts can share it.
type System struct {
	handle
	sys        *mm.System
	nparticles int
	forces     []string
}

// NumParticles returns the number of particles of the system.
func (S *System) NumParticles() int {
	return S.nparticles
}

// Forces returns the names of the forces of the system.
func (S *System) Forces() []string {
	return append([]string(nil), S.forces...)
}

/*** Integrator and Platform ***/

// Integrator is one of the integrators of this package. Only Verlet exists.
type Integrator interface {
	toRuntimeValue() (mm.Integrator, error)
}

// Verlet is a velocity Verlet integrator with a time step in femtoseconds.
type Verlet struct {
	StepFs float64
}

func (v Verlet) toRuntimeValue() (mm.Integrator, error) {
	ps, err := units.New(v.StepFs, units.Femtosecond).In(units.Picosecond)
	if err != nil {
		return nil, err
	}
	return mm.NewVerletIntegrator(ps)
}

// Platform is one of the compute platforms of this package. Only Reference exists.
type Platform interface {
	toRuntimeValue() (mm.Platform, error)
}

// Reference is the reference CPU platform.
type Reference struct{}

func (Reference) toRuntimeValue() (mm.Platform, error) {
	return mm.Reference, nil
}

// PlatformByName returns the platform with the given name.
func PlatformByName(name string) (Platform, error) {
	p, err := mm.PlatformByName(name)
	if err != nil {
		return nil, err
	}
	switch p {
	case mm.Reference:
		return Reference{}, nil
	}
	return nil, chem.NewError(chem.ErrUnsupported, "PlatformByName", "platform %q", name)
}

/*** Context ***/

// Minimization is the outcome of a minimization. Energies are in kJ/mol and the largest
// force component in kJ/mol/nm.
type Minimization = mm.Minimization

// Context holds a system, an integrator, a platform and the current positions.
// A context must not be used by two callers at the same time.
type Context struct {
	handle
	ctx *mm.Context
}

// NewContext binds a system to an integrator and a platform. The context has no positions.
func NewContext(S *System, integrator Integrator, platform Platform) (*Context, error) {
	return chemrt.Call(rt, "NewContext", func() (*Context, error) {
		if S == nil || integrator == nil || platform == nil {
			return nil, chem.NewError(chem.ErrPrecondition, "NewContext", "a system, an integrator and a platform are needed")
		}
		in, err := integrator.toRuntimeValue()
		if err != nil {
			return nil, err
		}
		p, err := platform.toRuntimeValue()
		if err != nil {
			return nil, err
		}
		C, err := mm.NewContext(S.sys, in, p)
		if err != nil {
			return nil, err
		}
		return &Context{handle: handle{rt.NewHandle("context")}, ctx: C}, nil
	})
}

// State returns the state of the context: "Created", "PositionsSet" or "Minimized".
func (C *Context) State() (string, error) {
	return chemrt.Call(rt, "State", func() (string, error) {
		return C.ctx.State().String(), nil
	})
}

// SetPositions sets the positions of the particles, 3 values per particle, in bohr.
// On error, the context is left as it was.
func (C *Context) SetPositions(bohr []float64) error {
	return rt.Do("SetPositions", func() error {
		return C.ctx.SetPositions(bohr, units.Bohr)
	})
}

// Minimize minimizes the energy with L-BFGS until no force component is above tolerance
// (kJ/mol/nm) or maxSteps iterations have been done (0 means no limit). Not converging is
// not an error: it is reported in the result. The energy never increases.
func (C *Context) Minimize(tolerance float64, maxSteps int) (Minimization, error) {
	return chemrt.Call(rt, "Minimize", func() (Minimization, error) {
		res, err := C.ctx.Minimize(tolerance, maxSteps)
		if err != nil {
			return res, err
		}
		if !res.Converged {
			rt.Logger().Info("minimization did not converge", zap.Int("steps", res.Steps), zap.String("status", res.Status), zap.Float64("max_force", res.MaxForce.Magnitude))
		}
		return res, nil
	})
}

// Coordinates returns the current positions in Å.
func (C *Context) Coordinates() ([]float64, error) {
	return chemrt.Call(rt, "Coordinates", func() ([]float64, error) {
		return C.ctx.Coordinates(units.Angstrom)
	})
}

// Energy returns the potential energy of the current positions in kcal/mol.
func (C *Context) Energy() (float64, error) {
	return chemrt.Call(rt, "Energy", func() (float64, error) {
		return C.ctx.Energy(units.KcalPerMol)
	})
}

// Forces returns the forces on the particles in kcal/mol/Å.
func (C *Context) Forces() ([]float64, error) {
	return chemrt.Call(rt, "Forces", func() ([]float64, error) {
		return C.ctx.Forces(units.KcalPerMolA)
	})
}
