/*
 * toolkit.go, part of goFF.
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

// Package toolkit is the goFF pipeline: it labels molecules with force-field parameters,
// builds interchanges and simulation systems from them, and drives a simulation context
// for minimization and energy evaluation.
//
// The objects of this package are handles to objects of the chemistry runtime (the chem,
// ff, interchange and mm packages). Every operation on them holds the runtime lock for
// its whole duration, so handles can be used from several goroutines, and every failure
// in the runtime, panics included, is returned as an error.
//
// Units at the boundary are fixed: conformers are in Å, positions are set in bohr,
// coordinates are returned in Å, energies in kcal/mol and integrator steps are given in fs.
package toolkit

import (
	"io"
	"math"

	"github.com/google/uuid"
	chem "github.com/rmera/goff"
	"github.com/rmera/goff/internal/chemrt"
	"github.com/rmera/goff/smarts"
	v3 "github.com/rmera/goff/v3"
	"go.uber.org/zap"
)

var rt = chemrt.Default()

// SetLogger sets the logger of the runtime shared by all handles.
func SetLogger(l *zap.Logger) {
	rt.SetLogger(l)
}

// WriteMetrics writes the runtime metrics in the Prometheus text format.
func WriteMetrics(w io.Writer) error {
	return rt.Metrics().WriteText(w)
}

type handle struct {
	id uuid.UUID
}

// ID returns the token that identifies the runtime object behind the handle.
func (h handle) ID() uuid.UUID {
	return h.id
}

// unsupported returns the error for a capability this runtime does not provide.
func unsupported(op, what string) error {
	return chem.NewError(chem.ErrUnsupported, op, "%s is not provided by the goFF runtime", what)
}

/*** Molecule ***/

// Molecule is a handle to a molecule of the runtime: atoms, bonds and conformers in Å.
// The connectivity never changes, so the name and element symbols are read once, when
// the handle is created.
type Molecule struct {
	handle
	mol     *chem.Molecule
	name    string
	symbols []string
}

// newMolecule must be called from inside the runtime lock.
func newMolecule(mol *chem.Molecule) *Molecule {
	symbols := make([]string, mol.Len())
	for i, at := range mol.Atoms {
		symbols[i] = at.Symbol
	}
	return &Molecule{handle: handle{rt.NewHandle("molecule")}, mol: mol, name: mol.Name, symbols: symbols}
}

// MoleculeFromSMILES parses a SMILES string. Implicit hydrogens are added as explicit atoms.
// Unless allowUndefinedStereo is true, a stereocenter without a stereo tag is an error.
func MoleculeFromSMILES(smiles string, allowUndefinedStereo bool) (*Molecule, error) {
	return chemrt.Call(rt, "MoleculeFromSMILES", func() (*Molecule, error) {
		m, err := chem.FromSMILES(smiles, allowUndefinedStereo)
		if err != nil {
			return nil, err
		}
		return newMolecule(m), nil
	})
}

// MoleculeFromMappedSMILES parses a SMILES string where every atom carries a map index.
// The atom with map index k gets index k-1 in the molecule.
func MoleculeFromMappedSMILES(smiles string, allowUndefinedStereo bool) (*Molecule, error) {
	return chemrt.Call(rt, "MoleculeFromMappedSMILES", func() (*Molecule, error) {
		m, err := chem.FromMappedSMILES(smiles, allowUndefinedStereo)
		if err != nil {
			return nil, err
		}
		return newMolecule(m), nil
	})
}

// MoleculeFromInChI always fails with chem.ErrUnsupported.
func MoleculeFromInChI(inchi string, allowUndefinedStereo bool) (*Molecule, error) {
	return nil, unsupported("MoleculeFromInChI", "InChI parsing")
}

// MoleculeFromXYZ reads a molecule from an xyz file. Bonds are assigned from distances, all
// of them single, and the coordinates of the file become the only conformer.
func MoleculeFromXYZ(filename string) (*Molecule, error) {
	return chemrt.Call(rt, "MoleculeFromXYZ", func() (*Molecule, error) {
		m, err := chem.MoleculeFromXYZ(filename)
		if err != nil {
			return nil, err
		}
		return newMolecule(m), nil
	})
}

// Name returns the name of the molecule (the SMILES string it was built from, if any).
func (M *Molecule) Name() string {
	return M.name
}

// NAtoms returns the number of atoms, hydrogens included.
func (M *Molecule) NAtoms() int {
	return len(M.symbols)
}

// Symbols returns the element symbols of the atoms in index order.
func (M *Molecule) Symbols() []string {
	return append([]string(nil), M.symbols...)
}

// ChemicalEnvironmentMatches returns the unique atom tuples matched by the tagged atoms of
// a SMARTS pattern, each tuple ordered by map index.
func (M *Molecule) ChemicalEnvironmentMatches(pattern string) ([][]int, error) {
	return chemrt.Call(rt, "ChemicalEnvironmentMatches", func() ([][]int, error) {
		P, err := smarts.Compile(pattern)
		if err != nil {
			return nil, err
		}
		return P.Match(M.mol), nil
	})
}

// ToSVG returns a 2D depiction of the molecule as SVG text.
func (M *Molecule) ToSVG(size float64) (string, error) {
	return chemrt.Call(rt, "ToSVG", func() (string, error) {
		return chem.Depict(M.mol, size)
	})
}

// ToTopology returns a topology with the molecule as its only member.
func (M *Molecule) ToTopology() (*Topology, error) {
	return NewTopology(M)
}

// AddConformer appends a conformer, coords being 3 values per atom in Å.
func (M *Molecule) AddConformer(coords []float64) error {
	return rt.Do("AddConformer", func() error {
		if len(coords) != 3*M.mol.Len() {
			return chem.NewError(chem.ErrPrecondition, "AddConformer", "%d coordinates for %d atoms", len(coords), M.mol.Len())
		}
		c, err := v3.NewMatrix(append([]float64(nil), coords...))
		if err != nil {
			return chem.WrapError(chem.ErrPrecondition, err, "AddConformer", "bad coordinates")
		}
		return M.mol.AddConformer(c)
	})
}

// AddConformerFromXYZ appends the coordinates of an xyz file as a conformer. The file must
// list the atoms of the molecule in the same order.
func (M *Molecule) AddConformerFromXYZ(r io.Reader) error {
	return rt.Do("AddConformerFromXYZ", func() error {
		ats, coords, err := chem.XYZRead(r)
		if err != nil {
			return err
		}
		if len(ats) != M.mol.Len() {
			return chem.NewError(chem.ErrPrecondition, "AddConformerFromXYZ", "the file has %d atoms, the molecule %d", len(ats), M.mol.Len())
		}
		for i, at := range ats {
			if at.Symbol != M.mol.Atoms[i].Symbol {
				return chem.NewError(chem.ErrPrecondition, "AddConformerFromXYZ", "atom %d is %s in the file and %s in the molecule", i, at.Symbol, M.mol.Atoms[i].Symbol)
			}
		}
		return M.mol.AddConformer(coords)
	})
}

// GenerateConformer appends a rough 3D conformer built from the 2D layout of the molecule,
// with atoms alternately moved off the plane. It is only meant as a starting point for a
// minimization.
func (M *Molecule) GenerateConformer() error {
	return rt.Do("GenerateConformer", func() error {
		pos, err := chem.Layout2D(M.mol)
		if err != nil {
			return err
		}
		c := v3.Zeros(len(pos))
		for i, p := range pos {
			c.SetVec(i, [3]float64{p[0], p[1], 0.4 * math.Pow(-1, float64(i))})
		}
		return M.mol.AddConformer(c)
	})
}

// WriteXYZ writes coords (Å, 3 values per atom) in xyz format.
func (M *Molecule) WriteXYZ(w io.Writer, coords []float64, comment string) error {
	return rt.Do("WriteXYZ", func() error {
		c, err := v3.NewMatrix(append([]float64(nil), coords...))
		if err != nil {
			return chem.WrapError(chem.ErrPrecondition, err, "WriteXYZ", "bad coordinates")
		}
		return chem.XYZWrite(w, M.mol, c, comment)
	})
}

// NConformers returns the number of conformers of the molecule.
func (M *Molecule) NConformers() (int, error) {
	return chemrt.Call(rt, "NConformers", func() (int, error) {
		return M.mol.NConformers(), nil
	})
}

// Conformers returns copies of every conformer, in Å.
func (M *Molecule) Conformers() ([][]float64, error) {
	return chemrt.Call(rt, "Conformers", func() ([][]float64, error) {
		ret := make([][]float64, 0, M.mol.NConformers())
		for i := 0; i < M.mol.NConformers(); i++ {
			c, err := M.mol.Conformer(i)
			if err != nil {
				return nil, err
			}
			ret = append(ret, c.Flat())
		}
		return ret, nil
	})
}

// IsIsomorphic returns true if both molecules have the same graph, elements and bond orders.
func (M *Molecule) IsIsomorphic(other *Molecule) (bool, error) {
	if other == nil {
		return false, chem.NewError(chem.ErrPrecondition, "IsIsomorphic", "nil molecule")
	}
	return chemrt.Call(rt, "IsIsomorphic", func() (bool, error) {
		iso, _ := chem.AreIsomorphic(M.mol, other.mol)
		return iso, nil
	})
}

// RMSD returns the RMSD, in Å, between conformer ci of the molecule and conformer cj of
// other after optimal superposition. The molecules must be isomorphic.
func (M *Molecule) RMSD(other *Molecule, ci, cj int) (float64, error) {
	if other == nil {
		return 0, chem.NewError(chem.ErrPrecondition, "RMSD", "nil molecule")
	}
	return chemrt.Call(rt, "RMSD", func() (float64, error) {
		return chem.MolRMSD(M.mol, other.mol, ci, cj)
	})
}

// TFD always fails with chem.ErrUnsupported.
func (M *Molecule) TFD(other *Molecule, ci, cj int) (float64, error) {
	return 0, unsupported("TFD", "the torsion fingerprint deviation")
}

/*** Topology ***/

// Topology is a read-only view of one or more molecules, parameterized as a whole.
type Topology struct {
	handle
	top    *chem.Topology
	mols   []*Molecule
	natoms int
}

// NewTopology returns a topology over the given molecules, in that order.
func NewTopology(mols ...*Molecule) (*Topology, error) {
	return chemrt.Call(rt, "NewTopology", func() (*Topology, error) {
		ms := make([]*chem.Molecule, len(mols))
		for i, m := range mols {
			if m == nil {
				return nil, chem.NewError(chem.ErrPrecondition, "NewTopology", "molecule %d is nil", i)
			}
			ms[i] = m.mol
		}
		top, err := chem.NewTopology(ms...)
		if err != nil {
			return nil, err
		}
		return &Topology{handle: handle{rt.NewHandle("topology")}, top: top, mols: append([]*Molecule(nil), mols...), natoms: top.Len()}, nil
	})
}

// NMolecules returns the number of molecules in the topology.
func (T *Topology) NMolecules() int {
	return len(T.mols)
}

// Molecule returns the ith molecule of the topology.
func (T *Topology) Molecule(i int) *Molecule {
	return T.mols[i]
}

// NAtoms returns the number of atoms of all molecules.
func (T *Topology) NAtoms() int {
	return T.natoms
}
