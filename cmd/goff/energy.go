/*
 * energy.go, part of goFF.
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
	"math"

	"github.com/spf13/cobra"
)

type energyFlags struct {
	mol    moleculeFlags
	forces bool
}

var energyOpts energyFlags

var energyCmd = &cobra.Command{
	Use:   "energy",
	Short: "Print the potential energy of a molecule",
	Long: `energy evaluates the force-field energy (kcal/mol) of a molecule at the given xyz
geometry, or at a generated guess if none is given.`,
	Example: `  goff energy --smiles 'CCO' --xyz ethanol.xyz --forces`,
	Args:    cobra.NoArgs,
	RunE:    runEnergy,
}

func init() {
	energyOpts.mol.register(energyCmd, true)
	energyCmd.Flags().BoolVar(&energyOpts.forces, "forces", false, "also print the force on each atom (kcal/mol/Å) and the largest component")
	rootCmd.AddCommand(energyCmd)
}

func runEnergy(cmd *cobra.Command, args []string) error {
	M, err := energyOpts.mol.molecule(true)
	if err != nil {
		return err
	}
	C, err := contextFor(M)
	if err != nil {
		return err
	}
	e, err := C.Energy()
	if err != nil {
		return err
	}
	w := cmd.OutOrStdout()
	fmt.Fprintf(w, "energy %.6f kcal/mol\n", e)
	if !energyOpts.forces {
		return nil
	}
	f, err := C.Forces()
	if err != nil {
		return err
	}
	symbols := M.Symbols()
	var fmax float64
	for i, s := range symbols {
		fx, fy, fz := f[3*i], f[3*i+1], f[3*i+2]
		fmax = math.Max(fmax, math.Max(math.Abs(fx), math.Max(math.Abs(fy), math.Abs(fz))))
		fmt.Fprintf(w, "%-2s %14.6f %14.6f %14.6f\n", s, fx, fy, fz)
	}
	_, err = fmt.Fprintf(w, "max_force %.6f kcal/mol/Å\n", fmax)
	return err
}
