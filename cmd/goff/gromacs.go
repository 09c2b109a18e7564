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

package main

import (
	"github.com/spf13/cobra"
)

type gromacsFlags struct {
	mol  moleculeFlags
	name string
}

var gromacsOpts gromacsFlags

var gromacsCmd = &cobra.Command{
	Use:   "gromacs",
	Short: "Write the GROMACS topology of a parameterized molecule",
	Example: `  goff gromacs --smiles 'CCO' --name ETH > ethanol.top`,
	Args:    cobra.NoArgs,
	RunE:    runGromacs,
}

func init() {
	gromacsOpts.mol.register(gromacsCmd, false)
	gromacsCmd.Flags().StringVar(&gromacsOpts.name, "name", "", "name of the system (default: the SMILES string)")
	rootCmd.AddCommand(gromacsCmd)
}

func runGromacs(cmd *cobra.Command, args []string) error {
	M, err := gromacsOpts.mol.molecule(false)
	if err != nil {
		return err
	}
	I, err := interchangeFor(M)
	if err != nil {
		return err
	}
	name := gromacsOpts.name
	if name == "" {
		name = M.Name()
	}
	return I.WriteGromacs(cmd.OutOrStdout(), name)
}
