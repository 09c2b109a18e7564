/*
 * minimize.go, part of goFF.
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

	"github.com/rmera/goff/chemplot"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

type minimizeFlags struct {
	mol       moleculeFlags
	tolerance float64
	maxSteps  int
	trace     string
}

var minimizeOpts minimizeFlags

var minimizeCmd = &cobra.Command{
	Use:   "minimize",
	Short: "Minimize the energy of a molecule and print the final geometry",
	Long: `minimize parameterizes a molecule with the configured force field, minimizes its
energy starting from the given xyz geometry (or a generated guess) and prints the final
geometry in xyz format, with the energy in kcal/mol in the comment line.`,
	Example: `  goff minimize --smiles 'CCO' > ethanol.xyz
  goff minimize --smiles 'CCO' --xyz guess.xyz --tolerance 1 --trace trace.png`,
	Args: cobra.NoArgs,
	RunE: runMinimize,
}

func init() {
	minimizeOpts.mol.register(minimizeCmd, true)
	minimizeCmd.Flags().Float64Var(&minimizeOpts.tolerance, "tolerance", 0, "force tolerance in kJ/mol/nm (default from the config)")
	minimizeCmd.Flags().IntVar(&minimizeOpts.maxSteps, "max-steps", -1, "maximum number of iterations, 0 for no limit (default from the config)")
	minimizeCmd.Flags().StringVar(&minimizeOpts.trace, "trace", "", "save a plot of the energy at each iteration to this file")
	rootCmd.AddCommand(minimizeCmd)
}

func runMinimize(cmd *cobra.Command, args []string) error {
	tol := cfg.Minimize.Tolerance
	if cmd.Flags().Changed("tolerance") {
		tol = minimizeOpts.tolerance
	}
	steps := cfg.Minimize.MaxSteps
	if cmd.Flags().Changed("max-steps") {
		steps = minimizeOpts.maxSteps
	}
	M, err := minimizeOpts.mol.molecule(true)
	if err != nil {
		return err
	}
	C, err := contextFor(M)
	if err != nil {
		return err
	}
	res, err := C.Minimize(tol, steps)
	if err != nil {
		return err
	}
	logger.Info("minimization done",
		zap.String("molecule", M.Name()),
		zap.Bool("converged", res.Converged),
		zap.Int("steps", res.Steps),
		zap.Float64("initial_energy", res.InitialEnergy.Magnitude),
		zap.Float64("final_energy", res.FinalEnergy.Magnitude))
	if minimizeOpts.trace != "" {
		trace := append([]float64{res.InitialEnergy.Magnitude}, res.Trace...)
		if err := chemplot.SaveTrace(trace, "kJ/mol", true, minimizeOpts.trace); err != nil {
			return err
		}
	}
	coords, err := C.Coordinates()
	if err != nil {
		return err
	}
	e, err := C.Energy()
	if err != nil {
		return err
	}
	comment := fmt.Sprintf("%s E=%.6f kcal/mol converged=%t", M.Name(), e, res.Converged)
	return M.WriteXYZ(cmd.OutOrStdout(), coords, comment)
}
