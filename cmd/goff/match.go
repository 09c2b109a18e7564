/*
 * match.go, part of goFF.
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

type matchFlags struct {
	mol    moleculeFlags
	smarts string
}

var matchOpts matchFlags

var matchCmd = &cobra.Command{
	Use:   "match",
	Short: "Print the atoms of a molecule matched by a SMARTS pattern",
	Long: `match prints one line per unique match of the tagged atoms of a SMARTS pattern,
with the atom indexes ordered by map index.`,
	Example: `  goff match --smiles 'CCO' --smarts '[#6:1]-[#8:2]'`,
	Args:    cobra.NoArgs,
	RunE:    runMatch,
}

func init() {
	matchOpts.mol.register(matchCmd, false)
	matchCmd.Flags().StringVar(&matchOpts.smarts, "smarts", "", "SMARTS pattern with tagged atoms (required)")
	_ = matchCmd.MarkFlagRequired("smarts")
	rootCmd.AddCommand(matchCmd)
}

func runMatch(cmd *cobra.Command, args []string) error {
	M, err := matchOpts.mol.molecule(false)
	if err != nil {
		return err
	}
	matches, err := M.ChemicalEnvironmentMatches(matchOpts.smarts)
	if err != nil {
		return err
	}
	w := cmd.OutOrStdout()
	for _, m := range matches {
		if _, err := fmt.Fprintln(w, m); err != nil {
			return err
		}
	}
	return nil
}
