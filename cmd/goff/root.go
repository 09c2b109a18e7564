/*
 * root.go, part of goFF.
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

	"github.com/rmera/goff/internal/config"
	"github.com/rmera/goff/toolkit"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	// Global flags
	cfgFile  string
	logLevel string
	metrics  bool

	cfg    *config.Config
	logger = zap.NewNop()
)

var rootCmd = &cobra.Command{
	Use:   "goff",
	Short: "goff - SMIRNOFF force-field parameterization and minimization",
	Long: `goff assigns SMIRNOFF force-field parameters to small molecules, builds the
corresponding simulation system and minimizes or evaluates its energy.

The bundled force field, goff-sage-2.1.0-subset.offxml, is the part of Sage 2.1.0 that
covers common small organics (valence and Lennard-Jones terms). To use the complete
openff-2.1.0.offxml, put it in a directory of forcefield.search_path.
Charges are not assigned, so energies have no electrostatic component.`,
	SilenceUsage:       true,
	PersistentPreRunE:  setup,
	PersistentPostRunE: teardown,
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file path (YAML)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level: debug, info, warn, error (overrides the config)")
	rootCmd.PersistentFlags().BoolVar(&metrics, "metrics", false, "write the runtime metrics to stderr when done")
}

// setup loads the configuration and installs the logger in the toolkit runtime.
func setup(cmd *cobra.Command, args []string) error {
	var err error
	cfg, err = config.Load(cfgFile)
	if err != nil {
		return err
	}
	if logLevel != "" {
		cfg.Log.Level = logLevel
	}
	if cmd.Flags().Changed("metrics") {
		cfg.Metrics = metrics
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	logger, err = config.NewLogger(cfg.Log)
	if err != nil {
		return err
	}
	toolkit.SetLogger(logger)
	logger.Debug("configuration loaded", zap.String("file", cfgFile), zap.String("forcefield", cfg.ForceField.Name))
	return nil
}

func teardown(cmd *cobra.Command, args []string) error {
	defer logger.Sync() //nolint:errcheck
	if cfg != nil && cfg.Metrics {
		return toolkit.WriteMetrics(cmd.ErrOrStderr())
	}
	return nil
}
