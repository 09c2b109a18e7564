/*
 * trace_test.go, part of goFF.
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

package chemplot

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	chem "github.com/rmera/goff"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTracePlot(t *testing.T) {
	trace := []float64{120.5, 80.2, 61.0, 60.1, 60.0}
	p, err := TracePlot(trace, "kJ/mol", true)
	require.NoError(t, err)
	assert.Equal(t, "Iteration", p.X.Label.Text)
	assert.Contains(t, p.Y.Label.Text, "E(final)")

	_, err = TracePlot(nil, "kJ/mol", false)
	assert.True(t, errors.Is(err, chem.ErrPrecondition))
}

func TestSaveTrace(t *testing.T) {
	dir := t.TempDir()
	name := filepath.Join(dir, "trace.svg")
	require.NoError(t, SaveTrace([]float64{3, 2, 1}, "kcal/mol", false, name))
	st, err := os.Stat(name)
	require.NoError(t, err)
	assert.Positive(t, st.Size())

	err = SaveTrace([]float64{3, 2, 1}, "kcal/mol", false, filepath.Join(dir, "trace.txt"))
	assert.True(t, errors.Is(err, chem.ErrConfiguration))
}
