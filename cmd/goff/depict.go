/*
 * depict.go, part of goFF.
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

	"github.com/spf13/cobra"
)

type depictFlags struct {
	mol  moleculeFlags
	size float64
}

var depictOpts depictFlags

var depictCmd = &cobra.Command{
	Use:     "depict",
	Short:   "Write a 2D depiction of a molecule as SVG",
	Example: `  goff depict --smiles 'c1ccccc1O' --size 400 > phenol.svg`,
	Args:    cobra.NoArgs,
	RunE:    runDepict,
}

func init() {
	depictOpts.mol.register(depictCmd, false)
	depictCmd.Flags().Float64Var(&depictOpts.size, "size", 300, "width and height of the image in points")
	rootCmd.AddCommand(depictCmd)
}

func runDepict(cmd *cobra.Command, args []string) error {
	M, err := depictOpts.mol.molecule(false)
	if err != nil {
		return err
	}
	svg, err := M.ToSVG(depictOpts.size)
	if err != nil {
		return err
	}
	_, err = fmt.Fprint(cmd.OutOrStdout(), svg)
	return err
}
