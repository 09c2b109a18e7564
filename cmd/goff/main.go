/*
 * main.go, part of goFF.
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

// goff parameterizes small molecules with SMIRNOFF force fields and minimizes them.
//
// Usage:
//
//	# Parameters assigned to each term of a molecule, as YAML
//	goff label --smiles '[Cl:2][C@:1]([F:3])([I:4])[H:5]' --mapped
//
//	# Atoms matched by a SMARTS pattern
//	goff match --smiles 'CCO' --smarts '[#6:1]-[#8:2]'
//
//	# Minimize, writing the final geometry in xyz format and the energy trace as a plot
//	goff minimize --smiles 'CCO' --trace trace.svg > ethanol.xyz
//
//	# Energy of a given geometry, in kcal/mol
//	goff energy --smiles 'CCO' --xyz ethanol.xyz
//
//	# GROMACS topology and SVG depiction
//	goff gromacs --smiles 'CCO' > ethanol.top
//	goff depict --smiles 'c1ccccc1O' > phenol.svg
//
// Settings are read from the file given with --config and from GOFF_* environment variables.
package main

func main() {
	Execute()
}
