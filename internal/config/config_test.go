/*
 * config_test.go, part of goFF.
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

package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

const configYAML = `
forcefield:
  name: "custom.offxml"
  search_path: ["/opt/ff", "/usr/share/ff"]
  allow_cosmetic_attributes: true
minimize:
  tolerance: 2.5
  max_steps: 500
log:
  level: debug
`

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "goff.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, DefaultForceField, cfg.ForceField.Name)
	assert.Empty(t, cfg.ForceField.SearchPath)
	assert.False(t, cfg.ForceField.AllowCosmeticAttributes)
	assert.Equal(t, 10.0, cfg.Minimize.Tolerance)
	assert.Equal(t, 0, cfg.Minimize.MaxSteps)
	assert.Equal(t, 1.0, cfg.Integrator.TimestepFs)
	assert.Equal(t, "Reference", cfg.Platform)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.False(t, cfg.Metrics)
}

func TestLoadFile(t *testing.T) {
	cfg, err := Load(writeConfig(t, configYAML))
	require.NoError(t, err)
	assert.Equal(t, "custom.offxml", cfg.ForceField.Name)
	assert.Equal(t, []string{"/opt/ff", "/usr/share/ff"}, cfg.ForceField.SearchPath)
	assert.True(t, cfg.ForceField.AllowCosmeticAttributes)
	assert.Equal(t, 2.5, cfg.Minimize.Tolerance)
	assert.Equal(t, 500, cfg.Minimize.MaxSteps)
	assert.Equal(t, "debug", cfg.Log.Level)
	//unset keys keep their defaults.
	assert.Equal(t, 1.0, cfg.Integrator.TimestepFs)

	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("GOFF_FORCEFIELD_NAME", "env.offxml")
	t.Setenv("GOFF_MINIMIZE_MAX_STEPS", "42")
	t.Setenv("GOFF_METRICS", "true")
	cfg, err := Load(writeConfig(t, configYAML))
	require.NoError(t, err)
	assert.Equal(t, "env.offxml", cfg.ForceField.Name)
	assert.Equal(t, 42, cfg.Minimize.MaxSteps)
	assert.True(t, cfg.Metrics)
	assert.Equal(t, 2.5, cfg.Minimize.Tolerance)
}

func TestValidate(t *testing.T) {
	bad := map[string]string{
		"tolerance": "minimize:\n  tolerance: -1\n",
		"steps":     "minimize:\n  max_steps: -3\n",
		"timestep":  "integrator:\n  timestep_fs: 0\n",
		"level":     "log:\n  level: loud\n",
		"format":    "log:\n  format: xml\n",
		"platform":  "platform: \"\"\n",
	}
	for name, content := range bad {
		_, err := Load(writeConfig(t, content))
		assert.Error(t, err, name)
	}
}

func TestNewLogger(t *testing.T) {
	l, err := NewLogger(LogConfig{Level: "warn", Format: "json"})
	require.NoError(t, err)
	assert.True(t, l.Core().Enabled(zapcore.WarnLevel))
	assert.False(t, l.Core().Enabled(zapcore.InfoLevel))

	l, err = NewLogger(LogConfig{Level: "nonsense", Format: "console"})
	require.NoError(t, err)
	assert.True(t, l.Core().Enabled(zapcore.InfoLevel))
}
