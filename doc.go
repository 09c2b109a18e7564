/*
 * doc.go, part of goFF.
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

/*
Package chem is the main package of the goFF library. It provides the atom, bond,
molecule and topology structures that the rest of the library parameterizes and
simulates, plus the small chemistry toolkit the pipeline needs.

	**goFF chemistry capabilities**

    Builds molecules from SMILES and atom-mapped SMILES strings. Implicit hydrogens
	are always made explicit, and stereocenters without a stereo tag can be rejected.

    Reads/writes XYZ files, assigning connectivity by a distance criterion.

    Perceives rings and ring sizes, ring bonds and connected fragments (through
	gonum's graph packages).

    Tests molecules for isomorphism, returning the atom correspondence.

    Calculates RMSD between conformers after optimal superposition.

    Draws 2D depictions of molecules as SVG text (uses the gonum/plot library).

Conformers are stored as v3.Matrix, in Angstrom. Each row of a v3.Matrix is one
point in space.

Errors returned by this and the other goFF packages implement the Error interface
and unwrap to one of the Err* kinds defined here.
*/
package chem
