/*
 * minimize.go, part of goFF.
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
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/optimize"
)

// Minimization reports how a call to Context.Minimize ended. Not converging within the
// allowed steps is not an error; Converged is false in that case.
type Minimization struct {
	Converged     bool
	Steps         int    //L-BFGS iterations performed, the starting point not counted
	Status        string //termination status of the optimizer
	InitialEnergy units.Value
	FinalEnergy   units.Value
	MaxForce      units.Value //largest force component at the end
	Trace         []float64   //energy (kJ/mol) after each iteration, len(Trace) == Steps
}

// trace is an optimize.Recorder that keeps the energy of every major iteration.
// The optimizer reports the starting point as the first major iteration and does not
// record the one that ends the run.
type trace struct {
	energies []float64
}

func (t *trace) Init() error {
	t.energies = t.energies[:0]
	return nil
}

func (t *trace) Record(loc *optimize.Location, op optimize.Operation, _ *optimize.Stats) error {
	if op == optimize.MajorIteration {
		t.energies = append(t.energies, loc.F)
	}
	return nil
}

// Minimize moves the particles to a local energy minimum with L-BFGS. It stops when no
// force component is larger than tolerance (kJ/mol/nm), when the energy stops changing, or
// after maxSteps iterations (0 means no limit). The energy never increases: if the optimizer
// ends above the starting energy the positions are left unchanged.
func (C *Context) Minimize(tolerance float64, maxSteps int) (Minimization, error) {
	if err := C.ready("Context.Minimize"); err != nil {
		return Minimization{}, err
	}
	if tolerance < 0 || math.IsNaN(tolerance) || maxSteps < 0 {
		return Minimization{}, newError(chem.ErrPrecondition, "Context.Minimize", "tolerance (%g) and maxSteps (%d) must not be negative", tolerance, maxSteps)
	}
	S := C.system
	grad := make([]float64, len(C.pos))
	e0 := S.Evaluate(C.pos, grad)
	ret := Minimization{
		InitialEnergy: units.New(e0, units.KJPerMol),
		FinalEnergy:   units.New(e0, units.KJPerMol),
		MaxForce:      units.New(floats.Norm(grad, math.Inf(1)), units.KJPerMolNm),
	}
	if ret.MaxForce.Magnitude <= tolerance {
		ret.Converged = true
		ret.Status = optimize.GradientThreshold.String()
		C.state = Minimized
		return ret, nil
	}
	problem := optimize.Problem{
		Func: func(x []float64) float64 { return S.Evaluate(x, nil) },
		Grad: func(g, x []float64) { S.Evaluate(x, g) },
	}
	rec := &trace{}
	settings := &optimize.Settings{
		GradientThreshold: tolerance,
		Recorder:          rec,
	}
	if maxSteps > 0 {
		settings.MajorIterations = maxSteps + 1
	}
	result, err := optimize.Minimize(problem, C.pos, settings, &optimize.LBFGS{})
	if result == nil {
		return Minimization{}, chem.WrapError(chem.ErrRuntimeDelegation, err, "Context.Minimize", "optimizer failed to start")
	}
	ret.Status = result.Status.String()
	if err != nil {
		ret.Status += ": " + err.Error()
	}
	energies := rec.energies
	if len(energies) < result.MajorIterations {
		energies = append(energies, result.F)
	}
	if len(energies) > 0 {
		ret.Trace = append([]float64(nil), energies[1:]...)
	}
	ret.Steps = len(ret.Trace)
	if len(result.X) == len(C.pos) && !math.IsNaN(result.F) && result.F < e0 {
		C.pos = append([]float64(nil), result.X...)
	}
	e := S.Evaluate(C.pos, grad)
	ret.FinalEnergy = units.New(e, units.KJPerMol)
	ret.MaxForce = units.New(floats.Norm(grad, math.Inf(1)), units.KJPerMolNm)
	ret.Converged = ret.MaxForce.Magnitude <= tolerance || result.Status == optimize.GradientThreshold
	C.state = Minimized
	return ret, nil
}
