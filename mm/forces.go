/*
 * forces.go, part of goFF.
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

package mm

import (
	"math"

	chem "github.com/rmera/goff"
)

// small vector helpers over the flat position slice.

func vec(pos []float64, i int) [3]float64 {
	return [3]float64{pos[3*i], pos[3*i+1], pos[3*i+2]}
}

func sub(a, b [3]float64) [3]float64 { return [3]float64{a[0] - b[0], a[1] - b[1], a[2] - b[2]} }

func dot(a, b [3]float64) float64 { return a[0]*b[0] + a[1]*b[1] + a[2]*b[2] }

func cross(a, b [3]float64) [3]float64 {
	return [3]float64{a[1]*b[2] - a[2]*b[1], a[2]*b[0] - a[0]*b[2], a[0]*b[1] - a[1]*b[0]}
}

func scale(s float64, a [3]float64) [3]float64 { return [3]float64{s * a[0], s * a[1], s * a[2]} }

func norm(a [3]float64) float64 { return math.Sqrt(dot(a, a)) }

func addGrad(grad []float64, i int, g [3]float64) {
	grad[3*i] += g[0]
	grad[3*i+1] += g[1]
	grad[3*i+2] += g[2]
}

/****Bonds****/

type harmonicBond struct {
	i, j int
	r0   float64 //nm
	k    float64 //kJ/mol/nm^2
}

// HarmonicBondForce is the sum of ½k(r-r0)² over its bonds.
type HarmonicBondForce struct {
	bonds []harmonicBond
}

// AddBond adds a bond between particles i and j with equilibrium length r0 (nm) and force
// constant k (kJ/mol/nm²). It returns the index of the bond.
func (F *HarmonicBondForce) AddBond(i, j int, r0, k float64) int {
	F.bonds = append(F.bonds, harmonicBond{i, j, r0, k})
	return len(F.bonds) - 1
}

// BondParameters returns the particles and parameters of bond n.
func (F *HarmonicBondForce) BondParameters(n int) (i, j int, r0, k float64) {
	b := F.bonds[n]
	return b.i, b.j, b.r0, b.k
}

func (F *HarmonicBondForce) Name() string { return "HarmonicBondForce" }

func (F *HarmonicBondForce) Len() int { return len(F.bonds) }

func (F *HarmonicBondForce) check(n int) error {
	for _, b := range F.bonds {
		if err := checkIndexes("HarmonicBondForce", n, b.i, b.j); err != nil {
			return err
		}
	}
	return nil
}

func (F *HarmonicBondForce) energy(pos, grad []float64) float64 {
	var e float64
	for _, b := range F.bonds {
		d := sub(vec(pos, b.i), vec(pos, b.j))
		r := norm(d)
		dr := r - b.r0
		e += 0.5 * b.k * dr * dr
		if grad == nil || r == 0 {
			continue
		}
		g := scale(b.k*dr/r, d)
		addGrad(grad, b.i, g)
		addGrad(grad, b.j, scale(-1, g))
	}
	return e
}

/****Angles****/

type harmonicAngle struct {
	i, j, k int
	theta0  float64 //rad
	kf      float64 //kJ/mol/rad^2
}

// HarmonicAngleForce is the sum of ½k(θ-θ0)² over its angles. j is the central particle.
type HarmonicAngleForce struct {
	angles []harmonicAngle
}

// AddAngle adds the angle i-j-k with equilibrium value theta0 (rad) and force constant
// k (kJ/mol/rad²). It returns the index of the angle.
func (F *HarmonicAngleForce) AddAngle(i, j, k int, theta0, kf float64) int {
	F.angles = append(F.angles, harmonicAngle{i, j, k, theta0, kf})
	return len(F.angles) - 1
}

// AngleParameters returns the particles and parameters of angle n.
func (F *HarmonicAngleForce) AngleParameters(n int) (i, j, k int, theta0, kf float64) {
	a := F.angles[n]
	return a.i, a.j, a.k, a.theta0, a.kf
}

func (F *HarmonicAngleForce) Name() string { return "HarmonicAngleForce" }

func (F *HarmonicAngleForce) Len() int { return len(F.angles) }

func (F *HarmonicAngleForce) check(n int) error {
	for _, a := range F.angles {
		if err := checkIndexes("HarmonicAngleForce", n, a.i, a.j, a.k); err != nil {
			return err
		}
	}
	return nil
}

func (F *HarmonicAngleForce) energy(pos, grad []float64) float64 {
	var e float64
	for _, a := range F.angles {
		rj := vec(pos, a.j)
		u := sub(vec(pos, a.i), rj)
		v := sub(vec(pos, a.k), rj)
		nu, nv := norm(u), norm(v)
		if nu == 0 || nv == 0 {
			continue
		}
		c := dot(u, v) / (nu * nv)
		c = math.Max(-1, math.Min(1, c))
		theta := math.Acos(c)
		dt := theta - a.theta0
		e += 0.5 * a.kf * dt * dt
		s := math.Sqrt(1 - c*c)
		if grad == nil || s < 1e-10 {
			continue
		}
		//dθ/dri = -(v/(|u||v|) - cosθ u/|u|²)/sinθ, and symmetrically for rk.
		pref := a.kf * dt / -s
		gi := scale(pref, sub(scale(1/(nu*nv), v), scale(c/(nu*nu), u)))
		gk := scale(pref, sub(scale(1/(nu*nv), u), scale(c/(nv*nv), v)))
		addGrad(grad, a.i, gi)
		addGrad(grad, a.k, gk)
		addGrad(grad, a.j, scale(-1, [3]float64{gi[0] + gk[0], gi[1] + gk[1], gi[2] + gk[2]}))
	}
	return e
}

/****Torsions****/

type periodicTorsion struct {
	i, j, k, l  int
	periodicity int
	phase       float64 //rad
	kf          float64 //kJ/mol
}

// PeriodicTorsionForce is the sum of k(1+cos(nφ-phase)) over its torsions.
type PeriodicTorsionForce struct {
	torsions []periodicTorsion
}

// AddTorsion adds a term for the dihedral i-j-k-l. It returns the index of the term.
func (F *PeriodicTorsionForce) AddTorsion(i, j, k, l, periodicity int, phase, kf float64) int {
	F.torsions = append(F.torsions, periodicTorsion{i, j, k, l, periodicity, phase, kf})
	return len(F.torsions) - 1
}

// TorsionParameters returns the particles and parameters of term n.
func (F *PeriodicTorsionForce) TorsionParameters(n int) (i, j, k, l, periodicity int, phase, kf float64) {
	t := F.torsions[n]
	return t.i, t.j, t.k, t.l, t.periodicity, t.phase, t.kf
}

func (F *PeriodicTorsionForce) Name() string { return "PeriodicTorsionForce" }

func (F *PeriodicTorsionForce) Len() int { return len(F.torsions) }

func (F *PeriodicTorsionForce) check(n int) error {
	for _, t := range F.torsions {
		if err := checkIndexes("PeriodicTorsionForce", n, t.i, t.j, t.k, t.l); err != nil {
			return err
		}
		if t.periodicity < 1 {
			return newError(chem.ErrPrecondition, "PeriodicTorsionForce", "periodicity %d is not positive", t.periodicity)
		}
	}
	return nil
}

// energy uses the dihedral and derivatives of Blondel and Karplus, J. Comput. Chem. 17, 1132 (1996).
func (F *PeriodicTorsionForce) energy(pos, grad []float64) float64 {
	var e float64
	for _, t := range F.torsions {
		f := sub(vec(pos, t.i), vec(pos, t.j))
		g := sub(vec(pos, t.j), vec(pos, t.k))
		h := sub(vec(pos, t.l), vec(pos, t.k))
		a := cross(f, g)
		b := cross(h, g)
		ng := norm(g)
		a2, b2 := dot(a, a), dot(b, b)
		if ng == 0 || a2 == 0 || b2 == 0 {
			//collinear atoms, the dihedral is undefined.
			e += t.kf * (1 + math.Cos(-t.phase))
			continue
		}
		phi := math.Atan2(dot(cross(b, a), g)/ng, dot(a, b))
		n := float64(t.periodicity)
		e += t.kf * (1 + math.Cos(n*phi-t.phase))
		if grad == nil {
			continue
		}
		dEdphi := -t.kf * n * math.Sin(n*phi-t.phase)
		dF := scale(-ng/a2, a)
		dH := scale(ng/b2, b)
		dG := sub(scale(dot(f, g)/(a2*ng), a), scale(dot(h, g)/(b2*ng), b))
		addGrad(grad, t.i, scale(dEdphi, dF))
		addGrad(grad, t.j, scale(dEdphi, sub(dG, dF)))
		addGrad(grad, t.k, scale(-dEdphi, [3]float64{dG[0] + dH[0], dG[1] + dH[1], dG[2] + dH[2]}))
		addGrad(grad, t.l, scale(dEdphi, dH))
	}
	return e
}

/****Nonbonded****/

type ljParticle struct {
	sigma   float64 //nm
	epsilon float64 //kJ/mol
}

type ljException struct {
	i, j    int
	sigma   float64
	epsilon float64
}

// NonbondedForce is a Lennard-Jones 12-6 interaction between every pair of particles,
// 4ε[(σ/r)¹²-(σ/r)⁶], with Lorentz-Berthelot combining rules and no cutoff. Pairs with an
// exception use the exception parameters instead; an exception with ε=0 excludes the pair.
type NonbondedForce struct {
	particles  []ljParticle
	exceptions []ljException
	index      map[[2]int]int
}

// AddParticle adds the parameters for the next particle. It returns the particle index.
func (F *NonbondedForce) AddParticle(sigma, epsilon float64) int {
	F.particles = append(F.particles, ljParticle{sigma, epsilon})
	return len(F.particles) - 1
}

// ParticleParameters returns σ (nm) and ε (kJ/mol) of particle i.
func (F *NonbondedForce) ParticleParameters(i int) (sigma, epsilon float64) {
	p := F.particles[i]
	return p.sigma, p.epsilon
}

func pairKey(i, j int) [2]int {
	if i > j {
		i, j = j, i
	}
	return [2]int{i, j}
}

// AddException sets the parameters of the pair i-j, replacing any previous exception for it.
// It returns the index of the exception.
func (F *NonbondedForce) AddException(i, j int, sigma, epsilon float64) int {
	if F.index == nil {
		F.index = make(map[[2]int]int)
	}
	k := pairKey(i, j)
	if n, ok := F.index[k]; ok {
		F.exceptions[n] = ljException{k[0], k[1], sigma, epsilon}
		return n
	}
	F.exceptions = append(F.exceptions, ljException{k[0], k[1], sigma, epsilon})
	F.index[k] = len(F.exceptions) - 1
	return len(F.exceptions) - 1
}

// NumExceptions returns the number of exceptions.
func (F *NonbondedForce) NumExceptions() int { return len(F.exceptions) }

// ExceptionParameters returns the pair and parameters of exception n.
func (F *NonbondedForce) ExceptionParameters(n int) (i, j int, sigma, epsilon float64) {
	x := F.exceptions[n]
	return x.i, x.j, x.sigma, x.epsilon
}

// combine returns the Lorentz-Berthelot parameters for a pair of particles.
func (F *NonbondedForce) combine(i, j int) (float64, float64) {
	a, b := F.particles[i], F.particles[j]
	return 0.5 * (a.sigma + b.sigma), math.Sqrt(a.epsilon * b.epsilon)
}

// CreateExceptionsFromBonds excludes the pairs separated by one or two bonds, and scales
// ε of the pairs separated by three bonds by lj14Scale. The particles must have been added.
func (F *NonbondedForce) CreateExceptionsFromBonds(bonds [][2]int, lj14Scale float64) error {
	n := len(F.particles)
	adj := make([][]int, n)
	for _, b := range bonds {
		if err := checkIndexes("CreateExceptionsFromBonds", n, b[0], b[1]); err != nil {
			return err
		}
		adj[b[0]] = append(adj[b[0]], b[1])
		adj[b[1]] = append(adj[b[1]], b[0])
	}
	for i := 0; i < n; i++ {
		//breadth first up to three bonds away.
		dist := map[int]int{i: 0}
		front := []int{i}
		for d := 1; d <= 3; d++ {
			var next []int
			for _, a := range front {
				for _, b := range adj[a] {
					if _, ok := dist[b]; ok {
						continue
					}
					dist[b] = d
					next = append(next, b)
				}
			}
			front = next
		}
		for j, d := range dist {
			if j <= i || d == 0 {
				continue
			}
			if d < 3 {
				F.AddException(i, j, 0, 0)
				continue
			}
			s, e := F.combine(i, j)
			F.AddException(i, j, s, lj14Scale*e)
		}
	}
	return nil
}

func (F *NonbondedForce) Name() string { return "NonbondedForce" }

func (F *NonbondedForce) Len() int { return len(F.particles) }

func (F *NonbondedForce) check(n int) error {
	if len(F.particles) != n {
		return newError(chem.ErrPrecondition, "NonbondedForce", "%d particles in the force, %d in the system", len(F.particles), n)
	}
	for _, x := range F.exceptions {
		if err := checkIndexes("NonbondedForce", n, x.i, x.j); err != nil {
			return err
		}
	}
	return nil
}

func lj(pos, grad []float64, i, j int, sigma, epsilon float64) float64 {
	if epsilon == 0 {
		return 0
	}
	d := sub(vec(pos, i), vec(pos, j))
	r2 := dot(d, d)
	if r2 == 0 {
		return math.Inf(1)
	}
	s2 := sigma * sigma / r2
	s6 := s2 * s2 * s2
	e := 4 * epsilon * (s6*s6 - s6)
	if grad != nil {
		//dE/dr * 1/r
		f := 4 * epsilon * (-12*s6*s6 + 6*s6) / r2
		g := scale(f, d)
		addGrad(grad, i, g)
		addGrad(grad, j, scale(-1, g))
	}
	return e
}

func (F *NonbondedForce) energy(pos, grad []float64) float64 {
	var e float64
	n := len(F.particles)
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			if _, ok := F.index[[2]int{i, j}]; ok {
				continue
			}
			s, eps := F.combine(i, j)
			e += lj(pos, grad, i, j, s, eps)
		}
	}
	for _, x := range F.exceptions {
		e += lj(pos, grad, x.i, x.j, x.sigma, x.epsilon)
	}
	return e
}
