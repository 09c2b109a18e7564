/*
 * atomicdata.go, part of goFF.
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

package chem

//A map for assigning atomic numbers to elements.
//Only the elements that show up in small organic molecules and common
//counterions are present.
var symbolZ = map[string]int{
	"H":  1,
	"He": 2,
	"Li": 3,
	"Be": 4,
	"B":  5,
	"C":  6,
	"N":  7,
	"O":  8,
	"F":  9,
	"Ne": 10,
	"Na": 11,
	"Mg": 12,
	"Al": 13,
	"Si": 14,
	"P":  15,
	"S":  16,
	"Cl": 17,
	"Ar": 18,
	"K":  19,
	"Ca": 20,
	"Cr": 24,
	"Mn": 25,
	"Fe": 26,
	"Co": 27,
	"Cu": 29,
	"Zn": 30,
	"As": 33,
	"Se": 34,
	"Br": 35,
	"I":  53,
}

//A map for assigning mass to elements.
//Note that just common "bio-elements" are present
var symbolMass = map[string]float64{
	"H":  1.007947,
	"He": 4.002602,
	"Li": 6.941,
	"B":  10.811,
	"C":  12.01078,
	"O":  15.99943,
	"N":  14.00672,
	"P":  30.973762,
	"S":  32.0655,
	"Se": 78.96,
	"K":  39.0983,
	"Ca": 40.078,
	"Mg": 24.305,
	"Cl": 35.4532,
	"Na": 22.98977,
	"Cu": 63.546,
	"Zn": 65.38,
	"Co": 58.933195,
	"Fe": 55.845,
	"Mn": 54.938045,
	"Cr": 51.9961,
	"Si": 28.0855,
	"Be": 9.012182,
	"F":  18.998403,
	"Ne": 20.1797,
	"Al": 26.981538,
	"Ar": 39.948,
	"As": 74.9216,
	"Br": 79.904,
	"I":  126.90447,
}

//A map for assigning covalent radii to elements
//Values from Cordero et al., 2008 (DOI:10.1039/B801115J)
//Note that just common "bio-elements" are present
var symbolCovrad = map[string]float64{
	"H":  0.4,  // 0.31 I altered this one. Since H always has only one bond, it doesn't matter if I set a longer radius, the extra bonds will get eliminated later.
	"C":  0.76, //the sp3 radius
	"O":  0.66,
	"N":  0.71,
	"P":  1.07,
	"S":  1.05,
	"Se": 1.2,
	"K":  2.03,
	"Ca": 1.76,
	"Mg": 1.41,
	"Cl": 1.02,
	"Na": 1.66,
	"Cu": 1.32,
	"Zn": 1.22,
	"Co": 1.5,  // hs
	"Fe": 1.52, //hs
	"Mn": 1.61, //hs
	"Cr": 1.39,
	"Si": 1.11,
	"Be": 0.96,
	"B":  0.84,
	"F":  0.57,
	"Br": 1.20,
	"I":  1.39,
	"As": 1.19,
	"Al": 1.21,
	"Li": 1.28,
}

//Maximum number of bonds an atom of a given element can have.
//Used to prune distance-based bonds. An absent element means "no limit".
var symbolMaxBonds = map[string]int{
	"H":  1,
	"C":  4,
	"O":  2,
	"N":  4,
	"F":  1,
	"Cl": 1,
	"Br": 1,
	"I":  1,
}

//Normal valences, lowest first, used to add implicit hydrogens to the
//atoms of the SMILES organic subset.
var symbolValences = map[string][]int{
	"B":  {3},
	"C":  {4},
	"N":  {3, 5},
	"O":  {2},
	"P":  {3, 5},
	"S":  {2, 4, 6},
	"F":  {1},
	"Cl": {1},
	"Br": {1},
	"I":  {1},
}

// AtomicNumber returns the atomic number for the element symbol, or 0 if the
// symbol is unknown.
func AtomicNumber(symbol string) int {
	return symbolZ[symbol]
}

// SymbolMass returns the standard atomic weight, in dalton, for the element symbol,
// or 0 if unknown.
func SymbolMass(symbol string) float64 {
	return symbolMass[symbol]
}

// KnownElement returns true if symbol is an element symbol this package has data for.
func KnownElement(symbol string) bool {
	_, ok := symbolZ[symbol]
	return ok
}
