/*
 * toolkit_test.go, part of goFF.
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
	"errors"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	chem "github.com/rmera/goff"
	"github.com/rmera/goff/units"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"
)

const (
	sage   = BundledForceField
	chfcli = "[Cl:2][C@:1]([F:3])([I:4])[H:5]"
)

const hydrogenFF = `<?xml version="1.0" encoding="utf-8"?>
<SMIRNOFF version="0.3" aromaticity_model="OEAroModel_MDL">
  <Bonds version="0.4" potential="harmonic">
    <Bond smirks="[#1:1]-[#1:2]" id="hh" length="0.74 * angstrom" k="700.0 * angstrom**-2 * mole**-1 * kilocalorie" parameterize="length"/>
  </Bonds>
  <vdW version="0.3" potential="Lennard-Jones-12-6" combining_rules="Lorentz-Berthelot" scale14="0.5">
    <Atom smirks="[#1:1]" id="h" epsilon="0.01 * mole**-1 * kilocalorie" sigma="2.5 * angstrom"/>
  </vdW>
</SMIRNOFF>`

// pipeline builds a molecule from a mapped SMILES string and takes it all the way to a context.
func pipeline(t *testing.T, smiles string) (*Molecule, *Interchange, *Context) {
	t.Helper()
	M, err := MoleculeFromMappedSMILES(smiles, false)
	require.NoError(t, err)
	top, err := M.ToTopology()
	require.NoError(t, err)
	F, err := NewForceField(sage)
	require.NoError(t, err)
	I, err := NewInterchange(F, top)
	require.NoError(t, err)
	S, err := I.ToSystem()
	require.NoError(t, err)
	C, err := NewContext(S, Verlet{StepFs: 1}, Reference{})
	require.NoError(t, err)
	return M, I, C
}

func state(t *testing.T, C *Context) string {
	t.Helper()
	s, err := C.State()
	require.NoError(t, err)
	return s
}

func toBohr(ang []float64) []float64 {
	ret := make([]float64, len(ang))
	for i, v := range ang {
		ret[i] = v / units.BohrInAngstrom
	}
	return ret
}

func TestEndToEnd(t *testing.T) {
	M, err := MoleculeFromMappedSMILES(chfcli, false)
	require.NoError(t, err)
	assert.Equal(t, 5, M.NAtoms())
	assert.Equal(t, []string{"C", "Cl", "F", "I", "H"}, M.Symbols())
	top, err := M.ToTopology()
	require.NoError(t, err)
	F, err := NewForceField(sage)
	require.NoError(t, err)

	labels, err := F.LabelMolecules(top)
	require.NoError(t, err)
	require.NotEmpty(t, labels[Bonds])
	for _, r := range labels[Bonds] {
		assert.Greater(t, r.Value, 0.0)
		assert.Equal(t, units.Symbol("angstrom"), r.Unit)
	}
	assert.Len(t, labels[Angles], 6)
	assert.Equal(t, units.Degree, labels[Angles][0].Unit)
	assert.InDelta(t, 110.1097166227, labels[Angles][0].Value, 1e-9)

	matches, err := M.ChemicalEnvironmentMatches("[#6:1]-[#9:2]")
	require.NoError(t, err)
	assert.Equal(t, [][]int{{0, 2}}, matches)

	I, err := NewInterchange(F, top)
	require.NoError(t, err)
	for cat, recs := range labels {
		assert.Equal(t, len(recs), I.Count(cat), cat)
	}
	recs, err := I.Records(Bonds)
	require.NoError(t, err)
	assert.Equal(t, labels[Bonds], recs)
	assert.Same(t, top, I.Topology())
	assert.True(t, errors.Is(I.VirtualSites(), chem.ErrUnsupported))
	assert.Contains(t, I.Skipped(), "Electrostatics")

	S, err := I.ToSystem()
	require.NoError(t, err)
	assert.Equal(t, 5, S.NumParticles())
	assert.Equal(t, []string{"HarmonicBondForce", "HarmonicAngleForce", "PeriodicTorsionForce", "NonbondedForce"}, S.Forces())

	C, err := NewContext(S, Verlet{StepFs: 1}, Reference{})
	require.NoError(t, err)
	assert.Equal(t, "Created", state(t, C))
	require.NoError(t, M.GenerateConformer())
	confs, err := M.Conformers()
	require.NoError(t, err)
	require.Len(t, confs, 1)
	require.NoError(t, C.SetPositions(toBohr(confs[0])))
	assert.Equal(t, "PositionsSet", state(t, C))

	before, err := C.Energy()
	require.NoError(t, err)
	res, err := C.Minimize(10, 200)
	require.NoError(t, err)
	after, err := C.Energy()
	require.NoError(t, err)
	assert.LessOrEqual(t, after, before)
	assert.Equal(t, "Minimized", state(t, C))
	kcal, err := res.FinalEnergy.In(units.KcalPerMol)
	require.NoError(t, err)
	assert.InDelta(t, after, kcal, 1e-9*math.Max(1, math.Abs(after)))

	//minimizing again from a minimum never goes up.
	_, err = C.Minimize(10, 1)
	require.NoError(t, err)
	again, err := C.Energy()
	require.NoError(t, err)
	assert.LessOrEqual(t, again, after)

	coords, err := C.Coordinates()
	require.NoError(t, err)
	assert.Len(t, coords, 15)
	f, err := C.Forces()
	require.NoError(t, err)
	assert.Len(t, f, 15)
}

func TestPositions(t *testing.T) {
	_, _, C := pipeline(t, chfcli)
	_, err := C.Energy()
	assert.True(t, errors.Is(err, chem.ErrPrecondition))
	_, err = C.Coordinates()
	assert.True(t, errors.Is(err, chem.ErrPrecondition))
	_, err = C.Minimize(10, 10)
	assert.True(t, errors.Is(err, chem.ErrPrecondition))

	err = C.SetPositions(make([]float64, 14))
	assert.True(t, errors.Is(err, chem.ErrPrecondition))
	assert.Equal(t, "Created", state(t, C))

	bohr := []float64{0, 0, 0, 3.3, 0, 0, -1.2, 2.4, 0.1, -1.1, -1.3, 2.2, -0.7, -0.9, -1.9}
	require.NoError(t, C.SetPositions(bohr))
	ang, err := C.Coordinates()
	require.NoError(t, err)
	for i, b := range bohr {
		assert.InDelta(t, b*units.BohrInAngstrom, ang[i], 1e-9*units.BohrInAngstrom*math.Max(1, math.Abs(b)))
	}
	e1, err := C.Energy()
	require.NoError(t, err)
	e2, err := C.Energy()
	require.NoError(t, err)
	assert.Equal(t, e1, e2)
	ang2, err := C.Coordinates()
	require.NoError(t, err)
	assert.Equal(t, ang, ang2)

	err = C.SetPositions(make([]float64, 16))
	assert.True(t, errors.Is(err, chem.ErrPrecondition))
	ang3, err := C.Coordinates()
	require.NoError(t, err)
	assert.Equal(t, ang, ang3, "a failed SetPositions leaves the positions alone")
}

func TestCosmeticMarker(t *testing.T) {
	path := filepath.Join(t.TempDir(), "hydrogen.offxml")
	require.NoError(t, os.WriteFile(path, []byte(hydrogenFF), 0o644))

	_, err := NewForceField(path)
	assert.True(t, errors.Is(err, chem.ErrConfiguration))

	F, err := NewForceField("hydrogen.offxml", AllowCosmeticAttributes(), SearchPath(filepath.Dir(path)))
	require.NoError(t, err)
	h, err := F.ParameterHandler(Bonds)
	require.NoError(t, err)
	assert.Equal(t, Bonds, h.Category())
	params, err := h.Parameters()
	require.NoError(t, err)
	require.Len(t, params, 1)
	require.NotNil(t, params[0].Parameterize)
	assert.Nil(t, params[0].Atoms)

	M, err := MoleculeFromSMILES("[H][H]", false)
	require.NoError(t, err)
	top, err := M.ToTopology()
	require.NoError(t, err)
	labels, err := F.LabelMolecules(top)
	require.NoError(t, err)
	require.Len(t, labels[Bonds], 1)
	require.NotNil(t, labels[Bonds][0].Parameterize)
	assert.Equal(t, "length", *labels[Bonds][0].Parameterize)
	assert.InDelta(t, 0.74, labels[Bonds][0].Value, 1e-12)

	I, err := NewInterchange(F, top)
	require.NoError(t, err)
	recs, err := I.Records(Bonds)
	require.NoError(t, err)
	require.NotNil(t, recs[0].Parameterize)
	assert.Equal(t, "length", *recs[0].Parameterize)
	vdw, err := I.Records(VdW)
	require.NoError(t, err)
	assert.Nil(t, vdw[0].Parameterize)

	_, err = F.ParameterHandler(Angles)
	assert.True(t, errors.Is(err, chem.ErrConfiguration))
}

func TestFailures(t *testing.T) {
	_, err := MoleculeFromMappedSMILES("[Cl:2][C:1]([F:3])([I:4])[H:5]", false)
	assert.True(t, errors.Is(err, chem.ErrPrecondition), "undefined stereo")
	M, err := MoleculeFromMappedSMILES("[Cl:2][C:1]([F:3])([I:4])[H:5]", true)
	require.NoError(t, err)

	_, err = MoleculeFromInChI("InChI=1S/CH4/h1H4", true)
	assert.True(t, errors.Is(err, chem.ErrUnsupported))
	_, err = M.TFD(M, 0, 0)
	assert.True(t, errors.Is(err, chem.ErrUnsupported))
	_, err = M.ChemicalEnvironmentMatches("[#6:1]-[#9:2")
	assert.True(t, errors.Is(err, chem.ErrConfiguration))

	F, err := NewForceField(sage)
	require.NoError(t, err)
	_, err = F.ParameterHandler("ImproperTorsions")
	assert.True(t, errors.Is(err, chem.ErrConfiguration))
	_, err = NewForceField("nowhere.offxml")
	assert.True(t, errors.Is(err, chem.ErrConfiguration))

	Si, err := MoleculeFromSMILES("[SiH4]", false)
	require.NoError(t, err)
	top, err := Si.ToTopology()
	require.NoError(t, err)
	I, err := NewInterchange(F, top)
	assert.Nil(t, I)
	assert.True(t, errors.Is(err, chem.ErrParameterization))

	_, err = NewContext(nil, Verlet{StepFs: 1}, Reference{})
	assert.True(t, errors.Is(err, chem.ErrPrecondition))
	_, I2, _ := pipeline(t, chfcli)
	S, err := I2.ToSystem()
	require.NoError(t, err)
	_, err = NewContext(S, Verlet{StepFs: 0}, Reference{})
	assert.True(t, errors.Is(err, chem.ErrPrecondition))

	p, err := PlatformByName("Reference")
	require.NoError(t, err)
	assert.Equal(t, Reference{}, p)
	_, err = PlatformByName("OpenCL")
	assert.True(t, errors.Is(err, chem.ErrUnsupported))
}

func TestStructureCapabilities(t *testing.T) {
	A, err := MoleculeFromSMILES("CCO", false)
	require.NoError(t, err)
	B, err := MoleculeFromSMILES("OCC", false)
	require.NoError(t, err)
	C, err := MoleculeFromSMILES("COC", false)
	require.NoError(t, err)
	iso, err := A.IsIsomorphic(B)
	require.NoError(t, err)
	assert.True(t, iso)
	iso, err = A.IsIsomorphic(C)
	require.NoError(t, err)
	assert.False(t, iso)
	assert.NotEqual(t, A.ID(), B.ID())

	require.NoError(t, A.GenerateConformer())
	confs, err := A.Conformers()
	require.NoError(t, err)
	shifted := make([]float64, len(confs[0]))
	for i, v := range confs[0] {
		shifted[i] = v + float64(i%3) //a translation
	}
	require.NoError(t, A.AddConformer(shifted))
	n, err := A.NConformers()
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	rmsd, err := A.RMSD(A, 0, 1)
	require.NoError(t, err)
	assert.InDelta(t, 0, rmsd, 1e-6)
	_, err = A.RMSD(nil, 0, 0)
	assert.True(t, errors.Is(err, chem.ErrPrecondition))
	_, err = A.IsIsomorphic(nil)
	assert.True(t, errors.Is(err, chem.ErrPrecondition))
	assert.True(t, errors.Is(A.AddConformer([]float64{1, 2, 3}), chem.ErrPrecondition))

	svg, err := A.ToSVG(200)
	require.NoError(t, err)
	assert.Contains(t, svg, "<svg")

	xyz := "3\nwater\nO 0.0 0.0 0.0\nH 0.96 0.0 0.0\nH -0.24 0.93 0.0\n"
	W, err := MoleculeFromSMILES("O", false)
	require.NoError(t, err)
	require.NoError(t, W.AddConformerFromXYZ(strings.NewReader(xyz)))
	assert.Error(t, A.AddConformerFromXYZ(strings.NewReader(xyz)))
}

func TestConcurrentPipelines(t *testing.T) {
	F, err := NewForceField(sage)
	require.NoError(t, err)
	smiles := []string{"CC", "CCO", "c1ccccc1", "O", "CCCl", "FC(F)F"}
	var g errgroup.Group
	counts := make([]int, len(smiles))
	for i, s := range smiles {
		i, s := i, s
		g.Go(func() error {
			M, err := MoleculeFromSMILES(s, true)
			if err != nil {
				return err
			}
			top, err := M.ToTopology()
			if err != nil {
				return err
			}
			labels, err := F.LabelMolecules(top)
			if err != nil {
				return err
			}
			I, err := NewInterchange(F, top)
			if err != nil {
				return err
			}
			if I.Count(Bonds) != len(labels[Bonds]) {
				return errors.New("bond counts differ for " + s)
			}
			counts[i] = I.Count(VdW)
			return nil
		})
	}
	require.NoError(t, g.Wait())
	assert.Equal(t, []int{8, 9, 12, 3, 8, 5}, counts)

	var b strings.Builder
	require.NoError(t, WriteMetrics(&b))
	assert.Contains(t, b.String(), `op="NewInterchange"`)
}

func TestConcurrentContextQueries(t *testing.T) {
	M, I, C := pipeline(t, chfcli)
	S, err := I.ToSystem()
	require.NoError(t, err)
	bohr := []float64{0, 0, 0, 3.3, 0, 0, -1.2, 2.4, 0.1, -1.1, -1.3, 2.2, -0.7, -0.9, -1.9}
	var g errgroup.Group
	g.Go(func() error {
		for i := 0; i < 20; i++ {
			if err := C.SetPositions(bohr); err != nil {
				return err
			}
			if _, err := C.Minimize(10, 5); err != nil {
				return err
			}
		}
		return nil
	})
	g.Go(func() error {
		for i := 0; i < 200; i++ {
			st, err := C.State()
			if err != nil {
				return err
			}
			if st == "" {
				return errors.New("empty state")
			}
			if M.NAtoms() != 5 || len(M.Symbols()) != 5 || M.Name() != chfcli {
				return errors.New("molecule changed")
			}
			if I.Count(Bonds) != 4 || S.NumParticles() != 5 || len(S.Forces()) != 4 {
				return errors.New("system changed")
			}
			if _, err := M.NConformers(); err != nil {
				return err
			}
		}
		return nil
	})
	require.NoError(t, g.Wait())
	assert.Equal(t, "Minimized", state(t, C))

	_, err = NewInterchange(nil, I.Topology())
	assert.True(t, errors.Is(err, chem.ErrPrecondition))
	F, err := NewForceField(sage)
	require.NoError(t, err)
	_, err = F.LabelMolecules(nil)
	assert.True(t, errors.Is(err, chem.ErrPrecondition))
}
