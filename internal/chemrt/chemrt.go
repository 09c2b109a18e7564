/*
 * chemrt.go, part of goFF.
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

// Package chemrt is the boundary between the goFF core and the chemistry runtime (the
// chem, smarts, ff, interchange and mm packages). The runtime packages are not safe for
// concurrent use, so every call into them goes through a Runtime, which holds one lock
// for the whole call, turns panics into errors, and logs and meters the call.
package chemrt

import (
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	chem "github.com/rmera/goff"
	"go.uber.org/zap"
)

// Runtime serializes the calls into the chemistry runtime.
type Runtime struct {
	mu      sync.Mutex //held for the whole duration of every runtime call
	logger  *zap.Logger
	metrics *Metrics
}

// New returns a Runtime that logs to logger (a no-op logger if nil).
func New(logger *zap.Logger) *Runtime {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Runtime{logger: logger, metrics: NewMetrics()}
}

var (
	defaultOnce sync.Once
	defaultRT   *Runtime
)

// Default returns the process-wide Runtime. It is created on first use and never released,
// so it outlives every handle obtained through it.
func Default() *Runtime {
	defaultOnce.Do(func() {
		defaultRT = New(nil)
	})
	return defaultRT
}

// SetLogger replaces the logger of the runtime. It waits for the call in progress, if any.
func (R *Runtime) SetLogger(logger *zap.Logger) {
	if logger == nil {
		logger = zap.NewNop()
	}
	R.mu.Lock()
	R.logger = logger
	R.mu.Unlock()
}

// Logger returns the logger of the runtime. Functions running inside Do can use it freely.
func (R *Runtime) Logger() *zap.Logger {
	return R.logger
}

// Metrics returns the metrics of the runtime.
func (R *Runtime) Metrics() *Metrics {
	return R.metrics
}

// Do runs fn holding the runtime lock. A panic in fn is recovered and returned as a
// chem.ErrRuntimeDelegation error, as is any error from fn that is not one of the chem
// error kinds. The lock is released on every path.
func (R *Runtime) Do(op string, fn func() error) (err error) {
	start := time.Now()
	R.mu.Lock()
	locked := time.Now()
	logger := R.logger
	defer func() {
		if r := recover(); r != nil {
			err = chem.NewError(chem.ErrRuntimeDelegation, op, "runtime fault: %v", r)
			logger.Error("runtime panic", zap.String("op", op), zap.String("panic", fmt.Sprint(r)), zap.Stack("stack"))
		}
		if err != nil && chem.Kind(err) == nil {
			err = chem.WrapError(chem.ErrRuntimeDelegation, err, op, "unclassified runtime failure")
		}
		elapsed := time.Since(locked)
		R.mu.Unlock()
		R.observe(logger, op, locked.Sub(start), elapsed, err)
	}()
	return fn()
}

// Call is Do for functions that return a value. On error the zero value of T is returned.
func Call[T any](R *Runtime, op string, fn func() (T, error)) (T, error) {
	var ret T
	err := R.Do(op, func() error {
		v, err := fn()
		if err != nil {
			return err
		}
		ret = v
		return nil
	})
	if err != nil {
		var zero T
		return zero, err
	}
	return ret, nil
}

func (R *Runtime) observe(logger *zap.Logger, op string, wait, elapsed time.Duration, err error) {
	res := result(err)
	R.metrics.calls.WithLabelValues(op, res).Inc()
	R.metrics.duration.WithLabelValues(op).Observe(elapsed.Seconds())
	R.metrics.lockWait.Observe(wait.Seconds())
	if err != nil {
		logger.Warn("runtime call failed", zap.String("op", op), zap.String("result", res), zap.Duration("elapsed", elapsed), zap.Error(err))
		return
	}
	logger.Debug("runtime call", zap.String("op", op), zap.Duration("lock_wait", wait), zap.Duration("elapsed", elapsed))
}

// NewHandle returns a fresh token for a runtime object of the given kind handed to a caller.
// It must be called from inside Do.
func (R *Runtime) NewHandle(kind string) uuid.UUID {
	id := uuid.New()
	R.metrics.handles.WithLabelValues(kind).Inc()
	R.logger.Debug("new handle", zap.String("kind", kind), zap.Stringer("id", id))
	return id
}
