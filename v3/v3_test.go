/*
 * v3_test.go, part of goFF.
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
	"math"
	"testing"
)

func TestNewMatrix(Te *testing.T) {
	a := []float64{1.0, 2.0, 3, 4, 5, 6, 7, 8, 9}
	A, err := NewMatrix(a)
	if err != nil {
		Te.Fatal(err)
	}
	if A.NVecs() != 3 {
		Te.Errorf("expected 3 vectors, got %d", A.NVecs())
	}
	View := A.VecView(1)
	View.Set(0, 0, 100)
	if A.At(1, 0) != 100 {
		Te.Errorf("changes in a view should be reflected in the matrix: %v", A)
	}
	if _, err := NewMatrix([]float64{1, 2}); err == nil {
		Te.Error("a slice not divisible by 3 should not give a matrix")
	}
}

func TestGeometry(Te *testing.T) {
	A, _ := NewMatrix([]float64{0, 0, 0, 3, 4, 0, 0, 0, 2})
	if d := A.Distance(0, 1); math.Abs(d-5) > appzero {
		Te.Errorf("distance: %f", d)
	}
	c := Cross([3]float64{1, 0, 0}, [3]float64{0, 1, 0})
	if c != [3]float64{0, 0, 1} {
		Te.Errorf("cross product: %v", c)
	}
	flat := A.Copy().Flat()
	if len(flat) != 9 || flat[4] != 4 {
		Te.Errorf("flat: %v", flat)
	}
	S := A.SomeVecs([]int{2, 0})
	if S.Vec(0) != [3]float64{0, 0, 2} {
		Te.Errorf("SomeVecs: %v", S)
	}
}
