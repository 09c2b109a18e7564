/*
 * gromacs.go, part of goFF.
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

package interchange

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	chem "github.com/rmera/goff"
	"github.com/rmera/goff/mm"
	"github.com/rmera/goff/units"
)

// gromacs function types.
const (
	groBond     = 1
	groPair     = 1
	groAngle    = 1
	groDihedral = 9 //periodic, several terms allowed for the same atoms
)

// groTerm is one line of a bonded section of a GROMACS topology.
type groTerm struct {
	ids      []int //0-based, local to the molecule
	functype int
	params   []float64
}

func (T groTerm) writeAtoms() string {
	r := make([]string, 0, len(T.ids))
	for _, v := range T.ids {
		r = append(r, fmt.Sprintf("%5d", v+1))
	}
	return strings.Join(r, " ")
}

// String writes the term in GROMACS format, 1-based.
func (T groTerm) String() string {
	ret := make([]string, 0, 2+len(T.params))
	ret = append(ret, T.writeAtoms())
	ret = append(ret, fmt.Sprintf("%5d", T.functype))
	for _, v := range T.params {
		ret = append(ret, fmt.Sprintf("%12.6f", v))
	}
	return strings.Join(ret, " ")
}

// WriteGromacs writes the interchange as a GROMACS topology (.top) with one moleculetype
// per molecule. Every atom gets its own atom type, carrying its Lennard-Jones
// parameters, and 1-4 pairs are written explicitly with their scaled parameters.
// Charges are written as zero.
func (I *Interchange) WriteGromacs(w io.Writer, name string) error {
	S, err := I.ToSystem()
	if err != nil {
		return chem.ErrDecorate(err, "Interchange.WriteGromacs")
	}
	var nb *mm.NonbondedForce
	for _, f := range S.Forces() {
		if n, ok := f.(*mm.NonbondedForce); ok {
			nb = n
		}
	}
	out := bufio.NewWriter(w)
	fmt.Fprintf(out, "; %s parameterized with %s\n\n", name, I.forceName)
	fmt.Fprintf(out, "[ defaults ]\n; nbfunc  comb-rule  gen-pairs  fudgeLJ  fudgeQQ\n")
	fmt.Fprintf(out, "  1        2          no         %.4f   %.4f\n\n", I.scale14, 0.8333)

	fmt.Fprintf(out, "[ atomtypes ]\n; name  at.num      mass    charge ptype       sigma     epsilon\n")
	for i := 0; i < I.top.Len(); i++ {
		at := I.top.Atom(i)
		sigma, eps := nb.ParticleParameters(i)
		fmt.Fprintf(out, "  %-6s %5d %10.5f %9.5f     A %11.6f %11.6f\n", atomType(i), at.Z, S.Mass(i), 0.0, sigma, eps)
	}

	molnames := make([]string, I.top.NMolecules())
	for m := range molnames {
		molnames[m] = molName(I.top.Molecule(m), m)
		I.writeMolecule(out, nb, m, molnames[m])
	}

	fmt.Fprintf(out, "\n[ system ]\n%s\n\n[ molecules ]\n", name)
	for _, n := range molnames {
		fmt.Fprintf(out, "%-10s 1\n", n)
	}
	if err := out.Flush(); err != nil {
		return chem.WrapError(chem.ErrPrecondition, err, "Interchange.WriteGromacs", "could not write the topology")
	}
	return nil
}

func atomType(i int) string {
	return fmt.Sprintf("t%d", i+1)
}

func molName(M *chem.Molecule, m int) string {
	if M.Name != "" && !strings.ContainsAny(M.Name, " \t[]();") && len(M.Name) <= 16 {
		return M.Name
	}
	return fmt.Sprintf("MOL%d", m+1)
}

// groAtom returns the [ atoms ] line of the atom with local index i.
func groAtom(at *chem.Atom, i, off int, resname string) string {
	return fmt.Sprintf("    %5d  %6s %5d  %4s  %4s %5d  %8.4f %10.5f\n", i+1, atomType(i+off), 1, resname, at.Name, i+1, 0.0, at.Mass)
}

func (I *Interchange) writeMolecule(out io.Writer, nb *mm.NonbondedForce, m int, name string) {
	M := I.top.Molecule(m)
	off := I.top.Offset(m)
	sp := I.spans[m]
	local := func(ids ...int) []int {
		r := make([]int, len(ids))
		for i, v := range ids {
			r[i] = v - off
		}
		return r
	}
	resname := name
	if len(resname) > 4 {
		resname = resname[:4]
	}
	fmt.Fprintf(out, "\n[ moleculetype ]\n; name  nrexcl\n%s  3\n\n", name)
	fmt.Fprintf(out, "[ atoms ]\n;      nr    type  resnr  res  atom  cgnr    charge       mass\n")
	for i, at := range M.Atoms {
		fmt.Fprint(out, groAtom(at, i, off, resname))
	}

	section(out, "bonds")
	for _, t := range I.bonds[sp.bonds[0]:sp.bonds[1]] {
		T := groTerm{ids: local(t.Atoms[:]...), functype: groBond, params: []float64{in(t.Length, units.Nanometer), in(t.K, units.KJPerMolNm2)}}
		fmt.Fprintln(out, T)
	}

	section(out, "pairs")
	for n := 0; n < nb.NumExceptions(); n++ {
		i, j, sigma, eps := nb.ExceptionParameters(n)
		if eps == 0 || i < off || i >= off+M.Len() {
			continue
		}
		T := groTerm{ids: local(i, j), functype: groPair, params: []float64{sigma, eps}}
		fmt.Fprintln(out, T)
	}

	section(out, "angles")
	for _, t := range I.angles[sp.angles[0]:sp.angles[1]] {
		T := groTerm{ids: local(t.Atoms[:]...), functype: groAngle, params: []float64{in(t.Angle, units.Degree), in(t.K, units.KJPerMolRad2)}}
		fmt.Fprintln(out, T)
	}

	section(out, "dihedrals")
	for _, t := range I.torsions[sp.torsions[0]:sp.torsions[1]] {
		for n := range t.Periodicity {
			k := in(t.K[n], units.KJPerMol) / t.Idivf[n]
			if k == 0 {
				continue
			}
			T := groTerm{ids: local(t.Atoms[:]...), functype: groDihedral, params: []float64{in(t.Phase[n], units.Degree), k}}
			fmt.Fprintf(out, "%s %5d\n", T, t.Periodicity[n])
		}
	}
}

func section(out io.Writer, name string) {
	fmt.Fprintf(out, "\n[ %s ]\n", name)
}
