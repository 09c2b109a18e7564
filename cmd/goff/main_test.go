/*
 * main_test.go, part of goFF.
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

package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"github.com/rmera/goff/toolkit"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

// run executes the root command with args and returns what it wrote to stdout.
func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&errOut)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}

// energyOf reads the energy line printed by the energy command.
func energyOf(t *testing.T, out string) float64 {
	t.Helper()
	fields := strings.Fields(strings.SplitN(out, "\n", 2)[0])
	require.Len(t, fields, 3, out)
	e, err := strconv.ParseFloat(fields[1], 64)
	require.NoError(t, err)
	return e
}

func TestLabel(t *testing.T) {
	out, err := run(t, "label", "--smiles", "CCO")
	require.NoError(t, err)
	var labels labelOutput
	require.NoError(t, yaml.Unmarshal([]byte(out), &labels))
	assert.Equal(t, "CCO", labels.Molecule)
	assert.Equal(t, toolkit.BundledForceField, labels.ForceField)
	assert.Len(t, labels.Labels[toolkit.Bonds], 8)
	assert.Len(t, labels.Labels[toolkit.Angles], 13)
	assert.Len(t, labels.Labels[toolkit.ProperTorsions], 12)
	assert.Len(t, labels.Labels[toolkit.VdW], 9)
	for _, r := range labels.Labels[toolkit.Bonds] {
		assert.NotEmpty(t, r.SMIRKS)
		assert.Len(t, r.Atoms, 2)
		assert.Equal(t, "angstrom", r.Unit)
	}
}

func TestMatch(t *testing.T) {
	out, err := run(t, "match", "--smiles", "CCO", "--smarts", "[#6:1]-[#8:2]")
	require.NoError(t, err)
	assert.Equal(t, "[1 2]\n", out)

	_, err = run(t, "match", "--smiles", "CCO", "--smarts", "[#6:1]-[")
	assert.Error(t, err)
}

func TestGromacs(t *testing.T) {
	out, err := run(t, "gromacs", "--smiles", "O", "--name", "water")
	require.NoError(t, err)
	for _, section := range []string{"[ defaults ]", "[ moleculetype ]", "[ atoms ]", "[ bonds ]", "[ angles ]", "[ system ]", "[ molecules ]"} {
		assert.Contains(t, out, section)
	}
	assert.Contains(t, out, "water")
}

func TestMinimizeAndEnergy(t *testing.T) {
	guess, err := run(t, "energy", "--smiles", "CCO")
	require.NoError(t, err)
	eGuess := energyOf(t, guess)

	trace := filepath.Join(t.TempDir(), "trace.svg")
	xyz, err := run(t, "minimize", "--smiles", "CCO", "--trace", trace)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(xyz), "\n")
	require.Len(t, lines, 11)
	assert.Equal(t, "9", strings.TrimSpace(lines[0]))
	assert.Contains(t, lines[1], "kcal/mol")
	_, err = os.Stat(trace)
	assert.NoError(t, err)

	file := filepath.Join(t.TempDir(), "min.xyz")
	require.NoError(t, os.WriteFile(file, []byte(xyz), 0o644))
	out, err := run(t, "energy", "--smiles", "CCO", "--xyz", file, "--forces")
	require.NoError(t, err)
	eMin := energyOf(t, out)
	assert.Less(t, eMin, eGuess)
	assert.Contains(t, out, "max_force")
}

func TestDepictAndVersion(t *testing.T) {
	out, err := run(t, "depict", "--smiles", "c1ccccc1O", "--size", "200")
	require.NoError(t, err)
	assert.Contains(t, out, "<svg")

	out, err = run(t, "version")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "goff "))
}

func TestBadInput(t *testing.T) {
	_, err := run(t, "label", "--smiles", "C1CC")
	assert.Error(t, err)

	_, err = run(t, "label", "--smiles", "CCO", "--log-level", "loud")
	assert.Error(t, err)
}
