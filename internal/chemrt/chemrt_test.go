/*
 * chemrt_test.go, part of goFF.
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

package chemrt

import (
	"errors"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	chem "github.com/rmera/goff"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
	"golang.org/x/sync/errgroup"
)

func TestCallsAreSerialized(t *testing.T) {
	R := New(nil)
	var inside, overlaps int32
	total := 0
	var g errgroup.Group
	for i := 0; i < 32; i++ {
		g.Go(func() error {
			_, err := Call(R, "count", func() (int, error) {
				if atomic.AddInt32(&inside, 1) != 1 {
					atomic.AddInt32(&overlaps, 1)
				}
				total++ //unsynchronized on purpose, the runtime lock protects it
				atomic.AddInt32(&inside, -1)
				return total, nil
			})
			return err
		})
	}
	require.NoError(t, g.Wait())
	assert.Equal(t, int32(0), overlaps)
	assert.Equal(t, 32, total)
	assert.Equal(t, 32.0, testutil.ToFloat64(R.metrics.calls.WithLabelValues("count", "ok")))
}

func TestPanicRecovery(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	R := New(zap.New(core))
	v, err := Call(R, "explode", func() (*int, error) {
		var m map[string]int
		m["x"] = 1 //assignment to a nil map
		x := m["x"]
		return &x, nil
	})
	require.Error(t, err)
	assert.Nil(t, v)
	assert.True(t, errors.Is(err, chem.ErrRuntimeDelegation))
	assert.Equal(t, 1, logs.FilterMessage("runtime panic").Len())
	assert.Equal(t, 1, logs.FilterMessage("runtime call failed").Len())

	//the lock was released.
	n, err := Call(R, "after", func() (int, error) { return 7, nil })
	require.NoError(t, err)
	assert.Equal(t, 7, n)
	assert.Equal(t, 1.0, testutil.ToFloat64(R.metrics.calls.WithLabelValues("explode", "runtime")))
}

func TestErrorClassification(t *testing.T) {
	R := New(nil)
	err := R.Do("plain", func() error { return errors.New("boom") })
	assert.True(t, errors.Is(err, chem.ErrRuntimeDelegation))
	assert.Contains(t, err.Error(), "boom")

	pre := chem.NewError(chem.ErrPrecondition, "test", "bad input")
	err = R.Do("classified", func() error { return pre })
	assert.Equal(t, error(pre), err)
	assert.Equal(t, 1.0, testutil.ToFloat64(R.metrics.calls.WithLabelValues("classified", "precondition")))

	_, err = Call(R, "config", func() (string, error) {
		return "ignored", chem.NewError(chem.ErrConfiguration, "test", "no handler")
	})
	assert.True(t, errors.Is(err, chem.ErrConfiguration))
	assert.NoError(t, R.Do("fine", func() error { return nil }))
}

func TestHandlesAndMetricsText(t *testing.T) {
	R := New(nil)
	var a, b string
	require.NoError(t, R.Do("handles", func() error {
		a = R.NewHandle("molecule").String()
		b = R.NewHandle("molecule").String()
		return nil
	}))
	assert.NotEqual(t, a, b)
	assert.Equal(t, 2.0, testutil.ToFloat64(R.metrics.handles.WithLabelValues("molecule")))

	var out strings.Builder
	require.NoError(t, R.Metrics().WriteText(&out))
	text := out.String()
	assert.Contains(t, text, "goff_runtime_calls_total")
	assert.Contains(t, text, "goff_runtime_lock_wait_seconds")
	assert.Contains(t, text, `kind="molecule"`)

	assert.Same(t, Default(), Default())
	R.SetLogger(nil)
	assert.NotNil(t, R.Logger())
}
