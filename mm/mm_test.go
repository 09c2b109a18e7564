/*
 * mm_test.go, part of goFF.
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
	"errors"
	"math"
	"testing"

	chem "github.com/rmera/goff"
	"github.com/rmera/goff/units"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// chain returns a system of a bonded 4-particle chain plus a free particle, with every kind
// of force, and positions (nm) for it.
func chain(t *testing.T) (*System, []float64) {
	t.Helper()
	bonds := &HarmonicBondForce{}
	pairs := [][2]int{{0, 1}, {1, 2}, {2, 3}}
	for _, p := range pairs {
		bonds.AddBond(p[0], p[1], 0.15, 200000)
	}
	angles := &HarmonicAngleForce{}
	angles.AddAngle(0, 1, 2, 1.9, 400)
	angles.AddAngle(1, 2, 3, 1.9, 400)
	torsions := &PeriodicTorsionForce{}
	torsions.AddTorsion(0, 1, 2, 3, 3, 0, 2)
	torsions.AddTorsion(0, 1, 2, 3, 1, math.Pi, 1.5)
	nb := &NonbondedForce{}
	for i := 0; i < 5; i++ {
		nb.AddParticle(0.3, 0.4)
	}
	require.NoError(t, nb.CreateExceptionsFromBonds(pairs, 0.5))
	S, err := NewSystem([]float64{12, 12, 12, 12, 20}, bonds, angles, torsions, nb)
	require.NoError(t, err)
	pos := []float64{
		0, 0, 0,
		0.15, 0, 0,
		0.2, 0.14, 0,
		0.35, 0.16, 0.12,
		0.6, 0.5, 0.3,
	}
	return S, pos
}

func TestGradient(t *testing.T) {
	S, pos := chain(t)
	grad := make([]float64, len(pos))
	e := S.Evaluate(pos, grad)
	assert.False(t, math.IsNaN(e))
	const h = 1e-6
	x := append([]float64(nil), pos...)
	for i := range x {
		x[i] = pos[i] + h
		ep := S.Evaluate(x, nil)
		x[i] = pos[i] - h
		em := S.Evaluate(x, nil)
		x[i] = pos[i]
		num := (ep - em) / (2 * h)
		assert.InDelta(t, num, grad[i], 1e-4*math.Max(1, math.Abs(num)), "coordinate %d", i)
	}
	assert.Equal(t, pos, x, "Evaluate must not modify the positions")

	parts := S.EnergyByForce(pos)
	assert.Len(t, parts, 4)
	var sum float64
	for _, v := range parts {
		sum += v
	}
	assert.InDelta(t, e, sum, 1e-9)
}

func TestExceptions(t *testing.T) {
	nb := &NonbondedForce{}
	for i := 0; i < 5; i++ {
		nb.AddParticle(0.3+0.01*float64(i), 0.4)
	}
	require.NoError(t, nb.CreateExceptionsFromBonds([][2]int{{0, 1}, {1, 2}, {2, 3}, {3, 4}}, 0.5))
	//four 1-2 and three 1-3 exclusions, two scaled 1-4 pairs.
	assert.Equal(t, 9, nb.NumExceptions())
	scaled := 0
	for n := 0; n < nb.NumExceptions(); n++ {
		i, j, s, e := nb.ExceptionParameters(n)
		assert.Less(t, i, j)
		if e != 0 {
			scaled++
			assert.InDelta(t, 0.2, e, 1e-12)
			assert.InDelta(t, 0.3+0.005*float64(i+j), s, 1e-12)
		}
	}
	assert.Equal(t, 2, scaled)
	err := nb.CreateExceptionsFromBonds([][2]int{{0, 7}}, 0.5)
	assert.True(t, errors.Is(err, chem.ErrPrecondition))
}

func TestLennardJonesMinimum(t *testing.T) {
	nb := &NonbondedForce{}
	nb.AddParticle(0.3, 0.5)
	nb.AddParticle(0.3, 0.5)
	S, err := NewSystem([]float64{1, 1}, nb)
	require.NoError(t, err)
	rmin := 0.3 * math.Pow(2, 1.0/6)
	pos := []float64{0, 0, 0, rmin, 0, 0}
	grad := make([]float64, 6)
	assert.InDelta(t, -0.5, S.Evaluate(pos, grad), 1e-12)
	for _, g := range grad {
		assert.InDelta(t, 0, g, 1e-9)
	}
}

func TestNewSystemErrors(t *testing.T) {
	_, err := NewSystem(nil)
	assert.True(t, errors.Is(err, chem.ErrPrecondition))
	_, err = NewSystem([]float64{1, -1})
	assert.True(t, errors.Is(err, chem.ErrPrecondition))
	bonds := &HarmonicBondForce{}
	bonds.AddBond(0, 2, 0.1, 1)
	_, err = NewSystem([]float64{1, 1}, bonds)
	assert.True(t, errors.Is(err, chem.ErrPrecondition))
	nb := &NonbondedForce{}
	nb.AddParticle(0.3, 0.1)
	_, err = NewSystem([]float64{1, 1}, nb)
	assert.True(t, errors.Is(err, chem.ErrPrecondition))
	tors := &PeriodicTorsionForce{}
	tors.AddTorsion(0, 1, 0, 1, 0, 0, 1)
	_, err = NewSystem([]float64{1, 1}, tors)
	assert.True(t, errors.Is(err, chem.ErrPrecondition))
}

func TestIntegratorAndPlatform(t *testing.T) {
	v, err := NewVerletIntegrator(0.001)
	require.NoError(t, err)
	assert.Equal(t, 0.001, v.StepSize())
	_, err = NewVerletIntegrator(0)
	assert.True(t, errors.Is(err, chem.ErrPrecondition))
	p, err := PlatformByName("Reference")
	require.NoError(t, err)
	assert.Equal(t, Reference, p)
	_, err = PlatformByName("CUDA")
	assert.True(t, errors.Is(err, chem.ErrUnsupported))
}

func newContext(t *testing.T, S *System) *Context {
	t.Helper()
	v, err := NewVerletIntegrator(0.001)
	require.NoError(t, err)
	C, err := NewContext(S, v, Reference)
	require.NoError(t, err)
	return C
}

func TestContextPreconditions(t *testing.T) {
	S, pos := chain(t)
	C := newContext(t, S)
	assert.Equal(t, Created, C.State())
	_, err := C.Energy(units.KcalPerMol)
	assert.True(t, errors.Is(err, chem.ErrPrecondition))
	_, err = C.Coordinates(units.Angstrom)
	assert.True(t, errors.Is(err, chem.ErrPrecondition))
	_, err = C.Minimize(10, 10)
	assert.True(t, errors.Is(err, chem.ErrPrecondition))

	err = C.SetPositions(make([]float64, 14), units.Bohr)
	assert.True(t, errors.Is(err, chem.ErrPrecondition))
	assert.Equal(t, Created, C.State())

	require.NoError(t, C.SetPositions(pos, units.Nanometer))
	before, err := C.Coordinates(units.Nanometer)
	require.NoError(t, err)
	for _, bad := range [][]float64{make([]float64, 14), make([]float64, 12)} {
		err = C.SetPositions(bad, units.Bohr)
		assert.True(t, errors.Is(err, chem.ErrPrecondition))
	}
	err = C.SetPositions(pos, units.KcalPerMol)
	assert.True(t, errors.Is(err, chem.ErrPrecondition))
	after, err := C.Coordinates(units.Nanometer)
	require.NoError(t, err)
	assert.Equal(t, before, after)
	assert.Equal(t, PositionsSet, C.State())
	_, err = C.Minimize(-1, 10)
	assert.True(t, errors.Is(err, chem.ErrPrecondition))
}

func TestBohrRoundTrip(t *testing.T) {
	S, _ := chain(t)
	C := newContext(t, S)
	bohr := []float64{0, 0, 0, 2.8, 0.1, -0.3, 3.9, 2.6, 0, 6.6, 3.0, 2.3, 11.3, 9.4, 5.7}
	require.NoError(t, C.SetPositions(bohr, units.Bohr))
	ang, err := C.Coordinates(units.Angstrom)
	require.NoError(t, err)
	for i, b := range bohr {
		want := b * units.BohrInAngstrom
		assert.InDelta(t, want, ang[i], 1e-9*units.BohrInAngstrom*math.Max(1, math.Abs(b)))
	}
}

func TestIdempotentQueries(t *testing.T) {
	S, pos := chain(t)
	C := newContext(t, S)
	require.NoError(t, C.SetPositions(pos, units.Nanometer))
	e1, err := C.Energy(units.KcalPerMol)
	require.NoError(t, err)
	e2, err := C.Energy(units.KcalPerMol)
	require.NoError(t, err)
	assert.Equal(t, e1, e2)
	c1, _ := C.Coordinates(units.Angstrom)
	c2, _ := C.Coordinates(units.Angstrom)
	assert.Equal(t, c1, c2)
	kj, err := C.Energy(units.KJPerMol)
	require.NoError(t, err)
	assert.InDelta(t, kj/4.184, e1, 1e-9*math.Abs(kj))

	f, err := C.Forces(units.KcalPerMolA)
	require.NoError(t, err)
	grad := make([]float64, len(pos))
	S.Evaluate(pos, grad)
	assert.InDelta(t, -grad[0]/41.84, f[0], 1e-9*math.Max(1, math.Abs(grad[0])))
}

func TestMinimize(t *testing.T) {
	S, pos := chain(t)
	C := newContext(t, S)
	require.NoError(t, C.SetPositions(pos, units.Nanometer))
	before, err := C.Energy(units.KcalPerMol)
	require.NoError(t, err)

	one, err := C.Minimize(10, 1)
	require.NoError(t, err)
	assert.Equal(t, Minimized, C.State())
	mid, err := C.Energy(units.KcalPerMol)
	require.NoError(t, err)
	assert.LessOrEqual(t, mid, before)
	assert.LessOrEqual(t, one.Steps, 1)

	res, err := C.Minimize(1, 0)
	require.NoError(t, err)
	after, err := C.Energy(units.KcalPerMol)
	require.NoError(t, err)
	assert.LessOrEqual(t, after, mid)
	assert.LessOrEqual(t, res.FinalEnergy.Magnitude, res.InitialEnergy.Magnitude)
	assert.Equal(t, units.KJPerMol, res.FinalEnergy.Unit)
	assert.NotEmpty(t, res.Status)
	if res.Converged {
		assert.LessOrEqual(t, res.MaxForce.Magnitude, 1.0)
	}
	kj, _ := res.FinalEnergy.In(units.KcalPerMol)
	assert.InDelta(t, after, kj, 1e-9*math.Max(1, math.Abs(after)))
}

func TestMinimizeStretchedBond(t *testing.T) {
	bonds := &HarmonicBondForce{}
	bonds.AddBond(0, 1, 0.1, 1000)
	S, err := NewSystem([]float64{1, 1}, bonds)
	require.NoError(t, err)
	C := newContext(t, S)
	require.NoError(t, C.SetPositions([]float64{0, 0, 0, 0.15, 0, 0}, units.Nanometer))
	res, err := C.Minimize(1e-3, 0)
	require.NoError(t, err)
	assert.True(t, res.Converged, res.Status)
	c, err := C.Coordinates(units.Nanometer)
	require.NoError(t, err)
	r := math.Sqrt((c[3]-c[0])*(c[3]-c[0]) + (c[4]-c[1])*(c[4]-c[1]) + (c[5]-c[2])*(c[5]-c[2]))
	assert.InDelta(t, 0.1, r, 1e-5)
	assert.InDelta(t, 1.25, res.InitialEnergy.Magnitude, 1e-12)

	//already at the minimum: nothing to do, still a success.
	again, err := C.Minimize(1e-3, 0)
	require.NoError(t, err)
	assert.True(t, again.Converged)
	assert.Equal(t, 0, again.Steps)
}

func TestMinimizeStepCount(t *testing.T) {
	S, pos := chain(t)
	for _, steps := range []int{1, 3} {
		C := newContext(t, S)
		require.NoError(t, C.SetPositions(pos, units.Nanometer))
		before, err := C.Energy(units.KJPerMol)
		require.NoError(t, err)
		res, err := C.Minimize(0, steps)
		require.NoError(t, err)
		assert.False(t, res.Converged)
		assert.Equal(t, steps, res.Steps, res.Status)
		require.Len(t, res.Trace, steps)
		after, err := C.Energy(units.KJPerMol)
		require.NoError(t, err)
		assert.Less(t, after, before, "%d step(s) must move the particles", steps)
		assert.InDelta(t, before, res.InitialEnergy.Magnitude, 1e-9*math.Abs(before))
		assert.Less(t, res.Trace[0], before, "the trace starts after the first step")
		for i := 1; i < len(res.Trace); i++ {
			assert.LessOrEqual(t, res.Trace[i], res.Trace[i-1])
		}
		assert.InDelta(t, after, res.Trace[steps-1], 1e-9*math.Max(1, math.Abs(after)))
	}
}
