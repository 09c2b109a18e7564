/*
 * common.go, part of goFF.
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

package main

import (
	"fmt"
	"os"

	"github.com/rmera/goff/toolkit"
	"github.com/rmera/goff/units"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// moleculeFlags are the flags that select the molecule a command works on.
type moleculeFlags struct {
	smiles         string
	mapped         bool
	allowUndefined bool
	xyz            string
}

func (f *moleculeFlags) register(cmd *cobra.Command, withXYZ bool) {
	cmd.Flags().StringVarP(&f.smiles, "smiles", "s", "", "SMILES string of the molecule (required)")
	cmd.Flags().BoolVar(&f.mapped, "mapped", false, "the SMILES string is atom-mapped: atom indexes follow the map")
	cmd.Flags().BoolVar(&f.allowUndefined, "allow-undefined-stereo", true, "accept stereocenters without a stereo tag")
	if withXYZ {
		cmd.Flags().StringVar(&f.xyz, "xyz", "", "xyz file with the coordinates, atoms in molecule order (default: a generated guess)")
	}
	_ = cmd.MarkFlagRequired("smiles")
}

// molecule parses the molecule and gives it a conformer, from the xyz file if one was given.
func (f *moleculeFlags) molecule(needConformer bool) (*toolkit.Molecule, error) {
	var M *toolkit.Molecule
	var err error
	if f.mapped {
		M, err = toolkit.MoleculeFromMappedSMILES(f.smiles, f.allowUndefined)
	} else {
		M, err = toolkit.MoleculeFromSMILES(f.smiles, f.allowUndefined)
	}
	if err != nil {
		return nil, err
	}
	switch {
	case f.xyz != "":
		fin, err := os.Open(f.xyz)
		if err != nil {
			return nil, fmt.Errorf("opening %s: %w", f.xyz, err)
		}
		defer fin.Close()
		if err := M.AddConformerFromXYZ(fin); err != nil {
			return nil, err
		}
	case needConformer:
		if err := M.GenerateConformer(); err != nil {
			return nil, err
		}
	}
	return M, nil
}

func loadForceField() (*toolkit.ForceField, error) {
	var opts []toolkit.Option
	if cfg.ForceField.AllowCosmeticAttributes {
		opts = append(opts, toolkit.AllowCosmeticAttributes())
	}
	if len(cfg.ForceField.SearchPath) > 0 {
		opts = append(opts, toolkit.SearchPath(cfg.ForceField.SearchPath...))
	}
	return toolkit.NewForceField(cfg.ForceField.Name, opts...)
}

func interchangeFor(M *toolkit.Molecule) (*toolkit.Interchange, error) {
	F, err := loadForceField()
	if err != nil {
		return nil, err
	}
	top, err := M.ToTopology()
	if err != nil {
		return nil, err
	}
	return toolkit.NewInterchange(F, top)
}

// contextFor builds a simulation context for the molecule, with the positions of its
// last conformer.
func contextFor(M *toolkit.Molecule) (*toolkit.Context, error) {
	I, err := interchangeFor(M)
	if err != nil {
		return nil, err
	}
	S, err := I.ToSystem()
	if err != nil {
		return nil, err
	}
	platform, err := toolkit.PlatformByName(cfg.Platform)
	if err != nil {
		return nil, err
	}
	C, err := toolkit.NewContext(S, toolkit.Verlet{StepFs: cfg.Integrator.TimestepFs}, platform)
	if err != nil {
		return nil, err
	}
	confs, err := M.Conformers()
	if err != nil {
		return nil, err
	}
	last := confs[len(confs)-1]
	f, err := units.Factor(units.Angstrom, units.Bohr)
	if err != nil {
		return nil, err
	}
	bohr := make([]float64, len(last))
	for i, v := range last {
		bohr[i] = v * f
	}
	if err := C.SetPositions(bohr); err != nil {
		return nil, err
	}
	logger.Debug("context ready", zap.String("molecule", M.Name()), zap.Int("particles", S.NumParticles()))
	return C, nil
}
