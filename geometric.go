/*
 * geometric.go, part of goFF.
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
	"math"

	v3 "github.com/rmera/goff/v3"
	"gonum.org/v1/gonum/mat"
)

//Super returns a copy of test superimposed on templa, by the rotation and translation
//that minimize the RMSD between them (Kabsch's algorithm). Both sets must have the same
//number of points, in the same order.
func Super(test, templa *v3.Matrix) (*v3.Matrix, error) {
	n := test.NVecs()
	if n != templa.NVecs() || n == 0 {
		return nil, NewError(ErrPrecondition, "Super", "ill-formed matrices, %d and %d points", n, templa.NVecs())
	}
	ctest := test.Copy()
	ctest.SubVec(test.Centroid())
	ctempla := templa.Copy()
	tcenter := templa.Centroid()
	ctempla.SubVec(tcenter)
	var H mat.Dense
	H.Mul(ctest.Dense.T(), ctempla.Dense)
	var svd mat.SVD
	if !svd.Factorize(&H, mat.SVDFull) {
		return nil, NewError(ErrRuntimeDelegation, "Super", "SVD factorization failed")
	}
	var U, V, R mat.Dense
	svd.UTo(&U)
	svd.VTo(&V)
	R.Mul(&V, U.T())
	if mat.Det(&R) < 0 {
		//The best orthogonal transformation is a reflection; we want
		//the best proper rotation.
		var VD mat.Dense
		VD.Mul(&V, mat.NewDiagDense(3, []float64{1, 1, -1}))
		R.Mul(&VD, U.T())
	}
	transformed := v3.Zeros(n)
	transformed.Mul(ctest.Dense, R.T())
	transformed.SubVec(v3.Scale(-1, tcenter))
	return transformed, nil
}

//RMSD returns the RSMD (root of the mean square deviation) for the sets of cartesian
//coordinates in test and template, without any superposition.
func RMSD(test, template *v3.Matrix) (float64, error) {
	n := template.NVecs()
	if n != test.NVecs() || n == 0 {
		return 0, NewError(ErrPrecondition, "RMSD", "Ill formed matrices for RMSD calculation")
	}
	var sq float64
	for i := 0; i < n; i++ {
		d := v3.Sub(test.Vec(i), template.Vec(i))
		sq += v3.Dot(d, d)
	}
	return math.Sqrt(sq / float64(n)), nil
}

//SuperRMSD returns the RMSD between test and templa after optimal superposition.
func SuperRMSD(test, templa *v3.Matrix) (float64, error) {
	s, err := Super(test, templa)
	if err != nil {
		return 0, ErrDecorate(err, "SuperRMSD")
	}
	return RMSD(s, templa)
}

//MolRMSD returns the RMSD between conformer ca of A and conformer cb of B, after
//optimal superposition. The molecules must be isomorphic; their atoms are matched
//through the isomorphism, so they need not be in the same order.
func MolRMSD(A, B *Molecule, ca, cb int) (float64, error) {
	iso, mapping := AreIsomorphic(A, B)
	if !iso {
		return 0, NewError(ErrPrecondition, "MolRMSD", "molecules %q and %q are not isomorphic", A.Name, B.Name)
	}
	test, err := A.Conformer(ca)
	if err != nil {
		return 0, ErrDecorate(err, "MolRMSD")
	}
	templa, err := B.Conformer(cb)
	if err != nil {
		return 0, ErrDecorate(err, "MolRMSD")
	}
	return SuperRMSD(test, templa.SomeVecs(mapping))
}

//BestPlane returns the two in-plane unit vectors and the normal of the plane that best
//fits the points in coords, in decreasing order of the spread of the points along them.
func BestPlane(coords *v3.Matrix) ([3][3]float64, error) {
	var ret [3][3]float64
	if coords.NVecs() == 0 {
		return ret, NewError(ErrPrecondition, "BestPlane", "no points given")
	}
	c := coords.Copy()
	c.SubVec(coords.Centroid())
	var svd mat.SVD
	if !svd.Factorize(c.Dense, mat.SVDFull) {
		return ret, NewError(ErrRuntimeDelegation, "BestPlane", "SVD factorization failed")
	}
	var V mat.Dense
	svd.VTo(&V)
	for k := 0; k < 3; k++ {
		ret[k] = [3]float64{V.At(0, k), V.At(1, k), V.At(2, k)}
	}
	return ret, nil
}

//Dihedral calculate the dihedral, in radians, between the points a, b, c, d, where
//the first plane is defined by abc and the second by bcd.
func Dihedral(a, b, c, d [3]float64) float64 {
	b1 := v3.Sub(b, a)
	b2 := v3.Sub(c, b)
	b3 := v3.Sub(d, c)
	n1 := v3.Cross(b1, b2)
	n2 := v3.Cross(b2, b3)
	return math.Atan2(v3.Norm(b2)*v3.Dot(b1, n2), v3.Dot(n1, n2))
}

//Angle returns the angle, in radians, between the vectors b-a and b-c.
func Angle(a, b, c [3]float64) float64 {
	u := v3.Sub(a, b)
	w := v3.Sub(c, b)
	cos := v3.Dot(u, w) / (v3.Norm(u) * v3.Norm(w))
	return math.Acos(math.Max(-1, math.Min(1, cos)))
}
