/*
 * ff_test.go, part of goFF.
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

package ff

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/klauspost/compress/gzip"
	chem "github.com/rmera/goff"
	"github.com/rmera/goff/units"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sage = SageSubset

// a force field with no carbon-hydrogen bond parameter.
const tinyFF = `<?xml version="1.0" encoding="utf-8"?>
<SMIRNOFF version="0.3" aromaticity_model="OEAroModel_MDL">
  <Bonds version="0.4" potential="harmonic">
    <Bond smirks="[#6:1]-[#6:2]" id="b1" length="1.5 * angstrom" k="400.0 * angstrom**-2 * mole**-1 * kilocalorie" parameterize="k, length"/>
  </Bonds>
</SMIRNOFF>`

func mol(t *testing.T, smiles string) *chem.Molecule {
	t.Helper()
	m, err := chem.FromSMILES(smiles, true)
	require.NoError(t, err)
	return m
}

func sageFF(t *testing.T) *ForceField {
	t.Helper()
	F, err := Load(sage, Options{})
	require.NoError(t, err)
	return F
}

func TestLoadBundled(t *testing.T) {
	F := sageFF(t)
	assert.Contains(t, Bundled(), sage)
	assert.Equal(t, "0.3", F.Version)
	assert.Contains(t, F.Author, "Sage")
	for _, cat := range Categories {
		h, err := F.Handler(cat)
		require.NoError(t, err, cat)
		assert.Equal(t, cat, h.Category())
		assert.NotEmpty(t, h.Parameters(), cat)
	}
	assert.Equal(t, []string{"Constraints", "ImproperTorsions", "Electrostatics", "LibraryCharges", "ToolkitAM1BCC"}, F.Skipped())

	bonds, _ := F.Handler(Bonds)
	p := bonds.Parameter("b83")
	require.NotNil(t, p)
	assert.Equal(t, "[#6X4:1]-[#1:2]", p.SMIRKS)
	assert.Nil(t, p.Parameterize)
	l, err := p.Quantity("length")
	require.NoError(t, err)
	a, err := l.In(units.Angstrom)
	require.NoError(t, err)
	assert.InDelta(t, 1.0939, a, 1e-4)

	vdw, _ := F.Handler(VdW)
	s, ok := vdw.Attr("scale14")
	assert.True(t, ok)
	assert.Equal(t, "0.5", s)

	tors, _ := F.Handler(ProperTorsions)
	assert.Equal(t, 3, tors.Parameter("t2").Terms())
	assert.Equal(t, 0, p.Terms())
}

func TestMissingHandler(t *testing.T) {
	F, err := Parse(strings.NewReader(tinyFF), "tiny.offxml", Options{AllowCosmeticAttributes: true})
	require.NoError(t, err)
	_, err = F.Handler(Angles)
	require.Error(t, err)
	assert.True(t, errors.Is(err, chem.ErrConfiguration))
	var ferr *Error
	require.True(t, errors.As(err, &ferr))
	assert.Equal(t, "tiny.offxml", ferr.FileName())

	_, err = Load("no-such-forcefield.offxml", Options{})
	assert.True(t, errors.Is(err, chem.ErrConfiguration))
}

func TestCosmeticAttributes(t *testing.T) {
	_, err := Parse(strings.NewReader(tinyFF), "tiny.offxml", Options{})
	require.Error(t, err)
	assert.True(t, errors.Is(err, chem.ErrConfiguration))
	assert.Contains(t, err.Error(), "parameterize")

	F, err := Parse(strings.NewReader(tinyFF), "tiny.offxml", Options{AllowCosmeticAttributes: true})
	require.NoError(t, err)
	assert.True(t, F.Options().AllowCosmeticAttributes)
	bonds, err := F.Handler(Bonds)
	require.NoError(t, err)
	p := bonds.Parameters()[0]
	require.NotNil(t, p.Parameterize)
	assert.Equal(t, "k, length", *p.Parameterize)
	assert.Equal(t, "k, length", p.Attrs()["parameterize"])
}

func TestMalformedForceFields(t *testing.T) {
	bad := map[string]string{
		"xml":       `<SMIRNOFF><Bonds>`,
		"root":      `<ForceField/>`,
		"units":     `<SMIRNOFF><Bonds><Bond smirks="[#6:1]-[#6:2]" length="1.5 * kilocalorie" k="1 * kilocalorie/mole/angstrom**2"/></Bonds></SMIRNOFF>`,
		"missing":   `<SMIRNOFF><Angles><Angle smirks="[*:1]~[#6:2]~[*:3]" k="1 * kilocalorie/mole/radian**2"/></Angles></SMIRNOFF>`,
		"tags":      `<SMIRNOFF><Bonds><Bond smirks="[#6:1]-[#6]" length="1.5 * angstrom" k="1 * kilocalorie/mole/angstrom**2"/></Bonds></SMIRNOFF>`,
		"smirks":    `<SMIRNOFF><Bonds><Bond smirks="[#6:1]-[#6:2" length="1.5 * angstrom" k="1 * kilocalorie/mole/angstrom**2"/></Bonds></SMIRNOFF>`,
		"potential": `<SMIRNOFF><vdW potential="Buckingham"/></SMIRNOFF>`,
		"vdw":       `<SMIRNOFF><vdW><Atom smirks="[#6:1]" epsilon="0.1 * kilocalorie/mole"/></vdW></SMIRNOFF>`,
		"torsion":   `<SMIRNOFF><ProperTorsions><Proper smirks="[*:1]~[#6:2]~[#6:3]~[*:4]" periodicity1="3" k1="1 * kilocalorie/mole"/></ProperTorsions></SMIRNOFF>`,
		"element":   `<SMIRNOFF><Bonds><Angle smirks="[*:1]~[#6:2]~[*:3]"/></Bonds></SMIRNOFF>`,
	}
	for name, src := range bad {
		_, err := Parse(strings.NewReader(src), name, Options{AllowCosmeticAttributes: true})
		require.Error(t, err, name)
		assert.True(t, errors.Is(err, chem.ErrConfiguration), name)
	}
}

func TestSearchPathAndGzip(t *testing.T) {
	dir := t.TempDir()
	f, err := os.Create(filepath.Join(dir, "tiny.offxml.gz"))
	require.NoError(t, err)
	gz := gzip.NewWriter(f)
	_, err = gz.Write([]byte(tinyFF))
	require.NoError(t, err)
	require.NoError(t, gz.Close())
	require.NoError(t, f.Close())

	F, err := Load("tiny.offxml.gz", Options{AllowCosmeticAttributes: true, SearchPath: []string{t.TempDir(), dir}})
	require.NoError(t, err)
	bonds, err := F.Handler(Bonds)
	require.NoError(t, err)
	assert.Len(t, bonds.Parameters(), 1)

	//a file in the search path shadows the bundled one.
	require.NoError(t, os.WriteFile(filepath.Join(dir, sage), []byte(tinyFF), 0o644))
	F, err = Load(sage, Options{AllowCosmeticAttributes: true, SearchPath: []string{dir}})
	require.NoError(t, err)
	_, err = F.Handler(VdW)
	assert.Error(t, err)
}

func TestSageOnlyFromSearchPath(t *testing.T) {
	const full = "openff-2.1.0.offxml"
	assert.Contains(t, Bundled(), SageSubset)
	assert.NotContains(t, Bundled(), full)

	_, err := Load(full, Options{})
	assert.True(t, errors.Is(err, chem.ErrConfiguration))

	dir := t.TempDir()
	data, err := bundled.ReadFile("data/" + SageSubset)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(dir, full), data, 0o644))
	F, err := Load(full, Options{SearchPath: []string{dir}})
	require.NoError(t, err)
	assert.Equal(t, full, F.Name)
	assert.Contains(t, F.Author, "subset")
}

func TestTerms(t *testing.T) {
	ethane := mol(t, "CC")
	assert.Len(t, Terms(Bonds, ethane), 7)
	assert.Len(t, Terms(Angles, ethane), 12)
	assert.Len(t, Terms(ProperTorsions, ethane), 9)
	assert.Len(t, Terms(VdW, ethane), 8)
	for _, a := range Terms(Angles, ethane) {
		assert.Less(t, a[0], a[2])
	}
	for _, d := range Terms(ProperTorsions, ethane) {
		assert.Less(t, d[0], d[3])
		assert.Equal(t, []int{0, 1}, []int{min(d[1], d[2]), max(d[1], d[2])})
	}
	assert.Equal(t, []int{1, 2, 3, 4}, Key(ProperTorsions, []int{4, 3, 2, 1}))
	assert.Equal(t, []int{0, 2}, Key(Bonds, []int{2, 0}))

	//no torsions around a bond to a terminal atom, nor 1-1 "torsions" in 3-rings.
	assert.Empty(t, Terms(ProperTorsions, mol(t, "C")))
	cp := mol(t, "C1CC1")
	for _, d := range Terms(ProperTorsions, cp) {
		assert.NotEqual(t, d[0], d[3])
	}
}

func TestLabelCHFClI(t *testing.T) {
	m, err := chem.FromMappedSMILES("[Cl:2][C@:1]([F:3])([I:4])[H:5]", false)
	require.NoError(t, err)
	L := sageFF(t).Label(m)
	ids := func(cat Category) []string {
		var r []string
		for _, a := range L[cat] {
			r = append(r, a.Parameter.ID)
		}
		return r
	}
	assert.Equal(t, []string{"b68", "b66", "b72", "b83"}, ids(Bonds))
	assert.Equal(t, []int{0, 2}, L[Bonds][1].Atoms)
	assert.Len(t, L[Angles], 6)
	for _, id := range ids(Angles) {
		assert.Equal(t, "a1", id)
	}
	assert.Empty(t, L[ProperTorsions])
	assert.Equal(t, []string{"n17", "n26", "n25", "n28", "n2"}, ids(VdW))
}

func TestLabelHierarchy(t *testing.T) {
	F := sageFF(t)
	top, err := chem.NewTopology(mol(t, "CC"), mol(t, "CCO"))
	require.NoError(t, err)
	labels := F.LabelMolecules(top)
	require.Len(t, labels, 2)

	ethane := labels[0]
	require.Len(t, ethane[ProperTorsions], 9)
	for _, a := range ethane[ProperTorsions] {
		assert.Equal(t, "t3", a.Parameter.ID, "H-C-C-H torsions take the most specific parameter")
	}
	assert.Equal(t, "b1", ethane[Bonds][0].Parameter.ID)

	ethanol := labels[1]
	found := false
	for _, a := range ethanol[ProperTorsions] {
		if a.Atoms[0] == 0 && a.Atoms[1] == 1 && a.Atoms[2] == 2 {
			assert.Equal(t, "t85", a.Parameter.ID)
			found = true
		}
	}
	assert.True(t, found)
	assert.Equal(t, "n20", ethanol[VdW][2].Parameter.ID)
	assert.Equal(t, "n12", ethanol[VdW][8].Parameter.ID)

	benzene := F.Label(mol(t, "c1ccccc1"))
	assert.Equal(t, "b6", benzene[Bonds][0].Parameter.ID)
	assert.Len(t, benzene[ProperTorsions], 24)

	salt := F.Label(mol(t, "[Na+].[Cl-]"))
	assert.Equal(t, "n31", salt[VdW][0].Parameter.ID)
	assert.Equal(t, "n34", salt[VdW][1].Parameter.ID)
}

func TestUnmatchedTerms(t *testing.T) {
	F, err := Parse(strings.NewReader(tinyFF), "tiny.offxml", Options{AllowCosmeticAttributes: true})
	require.NoError(t, err)
	bonds, err := F.Handler(Bonds)
	require.NoError(t, err)
	assigned, missing := bonds.Assign(mol(t, "CC"))
	require.Len(t, assigned, 1)
	assert.Equal(t, []int{0, 1}, assigned[0].Atoms)
	assert.Len(t, missing, 6)
	L := F.Label(mol(t, "CC"))
	assert.Len(t, L[Bonds], 1)
	_, ok := L[Angles]
	assert.False(t, ok)
}
