/*
 * label.go, part of goFF.
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

	"github.com/rmera/goff/toolkit"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

type labelFlags struct {
	mol moleculeFlags
}

var labelOpts labelFlags

var labelCmd = &cobra.Command{
	Use:   "label",
	Short: "Print the force-field parameters assigned to a molecule",
	Long: `label assigns the parameters of the configured force field to the bonds, angles,
proper torsions and atoms of a molecule and prints them as YAML, in topology order.`,
	Example: `  goff label --smiles 'CCO'
  goff label --smiles '[Cl:2][C@:1]([F:3])([I:4])[H:5]' --mapped`,
	Args: cobra.NoArgs,
	RunE: runLabel,
}

func init() {
	labelOpts.mol.register(labelCmd, false)
	rootCmd.AddCommand(labelCmd)
}

type labelRecord struct {
	ID           string  `yaml:"id"`
	SMIRKS       string  `yaml:"smirks"`
	Atoms        []int   `yaml:"atoms,flow"`
	Value        float64 `yaml:"value"`
	Unit         string  `yaml:"unit"`
	Parameterize *string `yaml:"parameterize,omitempty"`
}

type labelOutput struct {
	Molecule   string                   `yaml:"molecule"`
	ForceField string                   `yaml:"forcefield"`
	Skipped    []string                 `yaml:"skipped,omitempty"`
	Labels     map[string][]labelRecord `yaml:"labels"`
}

func runLabel(cmd *cobra.Command, args []string) error {
	M, err := labelOpts.mol.molecule(false)
	if err != nil {
		return err
	}
	F, err := loadForceField()
	if err != nil {
		return err
	}
	top, err := M.ToTopology()
	if err != nil {
		return err
	}
	labels, err := F.LabelMolecules(top)
	if err != nil {
		return err
	}
	out := labelOutput{
		Molecule:   M.Name(),
		ForceField: F.Name(),
		Skipped:    F.Skipped(),
		Labels:     make(map[string][]labelRecord, len(labels)),
	}
	for _, cat := range []string{toolkit.Bonds, toolkit.Angles, toolkit.ProperTorsions, toolkit.VdW} {
		recs := labels[cat]
		lr := make([]labelRecord, len(recs))
		for i, r := range recs {
			lr[i] = labelRecord{ID: r.ID, SMIRKS: r.SMIRKS, Atoms: r.Atoms, Value: r.Value, Unit: string(r.Unit), Parameterize: r.Parameterize}
		}
		out.Labels[cat] = lr
	}
	enc := yaml.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent(2)
	if err := enc.Encode(out); err != nil {
		return fmt.Errorf("writing labels: %w", err)
	}
	return enc.Close()
}
