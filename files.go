/*
 * files.go, part of goFF.
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

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	v3 "github.com/rmera/goff/v3"
)

//XYZRead reads an xyz file, returns a slice of Atom objects, the coordinates, in A,
//of the first frame and an error.
func XYZRead(r io.Reader) ([]*Atom, *v3.Matrix, error) {
	xyz := bufio.NewScanner(r)
	if !xyz.Scan() {
		return nil, nil, NewError(ErrPrecondition, "XYZRead", "Empty XYZ file")
	}
	natoms, err := strconv.Atoi(strings.TrimSpace(xyz.Text()))
	if err != nil || natoms <= 0 {
		return nil, nil, NewError(ErrPrecondition, "XYZRead", "Ill formatted XYZ file, first line %q", xyz.Text())
	}
	xyz.Scan() //We dont care about this line
	atoms := make([]*Atom, natoms)
	coords := make([]float64, natoms*3)
	for i := 0; i < natoms; i++ {
		if !xyz.Scan() {
			return nil, nil, NewError(ErrPrecondition, "XYZRead", "XYZ file ends at atom %d of %d", i, natoms)
		}
		fields := strings.Fields(xyz.Text())
		if len(fields) < 4 {
			return nil, nil, NewError(ErrPrecondition, "XYZRead", "Line for atom %d ill formed", i)
		}
		sym := fields[0]
		if !KnownElement(sym) {
			return nil, nil, NewError(ErrPrecondition, "XYZRead", "Unknown element %q for atom %d", sym, i)
		}
		atoms[i] = &Atom{Symbol: sym}
		for k := 0; k < 3; k++ {
			coords[i*3+k], err = strconv.ParseFloat(fields[k+1], 64)
			if err != nil {
				return nil, nil, WrapError(ErrPrecondition, err, "XYZRead", "Bad coordinate for atom %d", i)
			}
		}
	}
	if err := xyz.Err(); err != nil {
		return nil, nil, WrapError(ErrPrecondition, err, "XYZRead", "reading")
	}
	mcoords, err := v3.NewMatrix(coords)
	if err != nil {
		return nil, nil, WrapError(ErrPrecondition, err, "XYZRead", "coordinates")
	}
	return atoms, mcoords, nil
}

//XYZFileRead reads the xyz file with name xyzname. See XYZRead.
func XYZFileRead(xyzname string) ([]*Atom, *v3.Matrix, error) {
	xyzfile, err := os.Open(xyzname)
	if err != nil {
		return nil, nil, WrapError(ErrPrecondition, err, "XYZFileRead", "opening %s", xyzname)
	}
	defer xyzfile.Close()
	ats, coords, err := XYZRead(xyzfile)
	return ats, coords, ErrDecorate(err, "XYZFileRead "+xyzname)
}

//MoleculeFromXYZ reads an xyz file and returns a molecule with single bonds assigned
//from the interatomic distances, and the coordinates of the file as its only conformer.
func MoleculeFromXYZ(xyzname string) (*Molecule, error) {
	ats, coords, err := XYZFileRead(xyzname)
	if err != nil {
		return nil, ErrDecorate(err, "MoleculeFromXYZ")
	}
	bonds, err := AssignBonds(ats, coords)
	if err != nil {
		return nil, ErrDecorate(err, "MoleculeFromXYZ")
	}
	mol, err := NewMolecule(xyzname, ats, bonds)
	if err != nil {
		return nil, ErrDecorate(err, "MoleculeFromXYZ")
	}
	return mol, mol.AddConformer(coords)
}

//XYZWrite writes the coordinates coords, in A, of the atoms of mol to out, in xyz format.
func XYZWrite(out io.Writer, mol Atomer, coords *v3.Matrix, comment string) error {
	if coords.NVecs() != mol.Len() {
		return NewError(ErrPrecondition, "XYZWrite", "%d atoms but %d coordinates", mol.Len(), coords.NVecs())
	}
	if _, err := fmt.Fprintf(out, "%-4d\n%s\n", mol.Len(), strings.ReplaceAll(comment, "\n", " ")); err != nil {
		return WrapError(ErrRuntimeDelegation, err, "XYZWrite", "writing header")
	}
	for i := 0; i < mol.Len(); i++ {
		c := coords.Vec(i)
		if _, err := fmt.Fprintf(out, "%-2s  %12.6f%12.6f%12.6f\n", mol.Atom(i).Symbol, c[0], c[1], c[2]); err != nil {
			return WrapError(ErrRuntimeDelegation, err, "XYZWrite", "writing atom %d", i)
		}
	}
	return nil
}
