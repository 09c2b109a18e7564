/*
 * units_test.go, part of goFF.
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

package units

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFactor(t *testing.T) {
	cases := []struct {
		from, to Symbol
		want     float64
	}{
		{Bohr, Angstrom, BohrInAngstrom},
		{Bohr, Nanometer, BohrInAngstrom / 10},
		{Nanometer, Angstrom, 10},
		{KcalPerMol, KJPerMol, 4.184},
		{KJPerMol, KcalPerMol, 1 / 4.184},
		{Femtosecond, Picosecond, 1e-3},
		{Degree, Radian, math.Pi / 180},
		{KcalPerMolA2, KJPerMolNm2, 418.4},
		{"angstrom**-2 * mole**-1 * kilocalorie", KJPerMolNm2, 418.4},
		{"mole**-1 * radian**-2 * kilocalorie", KJPerMolRad2, 4.184},
		{"kilocalories_per_mole", KcalPerMol, 1},
		{"kcal/mol/A", KJPerMolNm, 41.84},
	}
	for _, c := range cases {
		got, err := Factor(c.from, c.to)
		require.NoError(t, err, "%s -> %s", c.from, c.to)
		assert.InDelta(t, 1, got/c.want, 1e-12, "%s -> %s", c.from, c.to)
	}
}

func TestIncompatible(t *testing.T) {
	_, err := Factor(Angstrom, KcalPerMol)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrIncompatible))
	assert.False(t, Compatible(Degree, Angstrom))
	assert.True(t, Compatible(Bohr, Nanometer))

	_, err = Factor("parsec", Angstrom)
	assert.True(t, errors.Is(err, ErrUnknownUnit))
	assert.False(t, Known("angstrom *"))
}

func TestParse(t *testing.T) {
	v, err := Parse("1.527940216866 * angstrom")
	require.NoError(t, err)
	assert.Equal(t, Angstrom, v.Unit)
	assert.Equal(t, 1.527940216866, v.Magnitude)

	v, err = Parse("529.2 * angstrom**-2 * mole**-1 * kilocalorie")
	require.NoError(t, err)
	k, err := v.In(KcalPerMolA2)
	require.NoError(t, err)
	assert.InDelta(t, 529.2, k, 1e-9)

	v, err = Parse("3")
	require.NoError(t, err)
	assert.Equal(t, Dimensionless, v.Unit)

	_, err = Parse("abc * angstrom")
	assert.True(t, errors.Is(err, ErrSyntax))
}

func TestBohrRoundTrip(t *testing.T) {
	for _, x := range []float64{-3.2, 0.001, 1, 17.5, 1e4} {
		nm, err := New(x, Bohr).In(Nanometer)
		require.NoError(t, err)
		a, err := New(nm, Nanometer).In(Angstrom)
		require.NoError(t, err)
		assert.InDelta(t, 0, math.Abs(a-x*BohrInAngstrom)/math.Abs(x*BohrInAngstrom), 1e-9)
	}
}
