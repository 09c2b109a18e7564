/*
 * gocoords.go, part of goFF.
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

package v3

import (
	"fmt"
	"math"
	"strings"
)

const appzero float64 = 0.000000000001 //used to correct floating point
//errors. Everything equal or less than this is considered zero.

// Sub puts a-b on the returned array.
func Sub(a, b [3]float64) [3]float64 {
	return [3]float64{a[0] - b[0], a[1] - b[1], a[2] - b[2]}
}

// Add returns a+b.
func Add(a, b [3]float64) [3]float64 {
	return [3]float64{a[0] + b[0], a[1] + b[1], a[2] + b[2]}
}

// Scale returns f*a.
func Scale(f float64, a [3]float64) [3]float64 {
	return [3]float64{f * a[0], f * a[1], f * a[2]}
}

func Dot(a, b [3]float64) float64 {
	return a[0]*b[0] + a[1]*b[1] + a[2]*b[2]
}

func Cross(a, b [3]float64) [3]float64 {
	return [3]float64{
		a[1]*b[2] - a[2]*b[1],
		a[2]*b[0] - a[0]*b[2],
		a[0]*b[1] - a[1]*b[0],
	}
}

func Norm(a [3]float64) float64 {
	return math.Sqrt(Dot(a, a))
}

// Unit returns a normalized copy of a. A zero vector is returned unchanged.
func Unit(a [3]float64) [3]float64 {
	n := Norm(a)
	if n <= appzero {
		return a
	}
	return Scale(1/n, a)
}

// Distance between the vectors i and j of F.
func (F *Matrix) Distance(i, j int) float64 {
	return Norm(Sub(F.Vec(i), F.Vec(j)))
}

// Centroid returns the geometric center of the vectors in F.
func (F *Matrix) Centroid() [3]float64 {
	var c [3]float64
	n := F.NVecs()
	for i := 0; i < n; i++ {
		c = Add(c, F.Vec(i))
	}
	return Scale(1/float64(n), c)
}

// SubVec substracts vec from every vector of F, in place.
func (F *Matrix) SubVec(vec [3]float64) {
	for i := 0; i < F.NVecs(); i++ {
		F.SetVec(i, Sub(F.Vec(i), vec))
	}
}

// SomeVecs returns a new matrix with the vectors of F listed in clist.
func (F *Matrix) SomeVecs(clist []int) *Matrix {
	r := Zeros(len(clist))
	for k, i := range clist {
		if i >= F.NVecs() {
			panic(ErrIndexOutOfRange)
		}
		r.SetVec(k, F.Vec(i))
	}
	return r
}

func (F *Matrix) String() string {
	var b strings.Builder
	for i := 0; i < F.NVecs(); i++ {
		v := F.Vec(i)
		fmt.Fprintf(&b, "%8.3f %8.3f %8.3f\n", v[0], v[1], v[2])
	}
	return b.String()
}
