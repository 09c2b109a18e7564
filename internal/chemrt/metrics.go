/*
 * metrics.go, part of goFF.
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
	"io"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	dto "github.com/prometheus/client_model/go"
	"github.com/prometheus/common/expfmt"
	chem "github.com/rmera/goff"
)

// Metrics contains the Prometheus collectors of a Runtime. They live in a registry of their
// own, so several runtimes (as in tests) do not collide.
type Metrics struct {
	registry *prometheus.Registry

	calls    *prometheus.CounterVec
	duration *prometheus.HistogramVec
	lockWait prometheus.Histogram
	handles  *prometheus.CounterVec
}

// NewMetrics creates a new Metrics instance with its own registry.
func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	f := promauto.With(reg)
	return &Metrics{
		registry: reg,
		calls: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "goff_runtime_calls_total",
				Help: "Calls into the chemistry runtime, by operation and result",
			},
			[]string{"op", "result"},
		),
		duration: f.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "goff_runtime_call_duration_seconds",
				Help:    "Time spent inside the runtime lock, by operation",
				Buckets: prometheus.ExponentialBuckets(0.00001, 4, 12), // 10µs to ~40s
			},
			[]string{"op"},
		),
		lockWait: f.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "goff_runtime_lock_wait_seconds",
				Help:    "Time spent waiting for the runtime lock",
				Buckets: prometheus.ExponentialBuckets(0.000001, 4, 12),
			},
		),
		handles: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "goff_runtime_handles_total",
				Help: "Runtime objects handed out to callers, by kind",
			},
			[]string{"kind"},
		),
	}
}

// result returns the label value for the outcome of a call.
func result(err error) string {
	switch chem.Kind(err) {
	case nil:
		if err != nil {
			return "error"
		}
		return "ok"
	case chem.ErrConfiguration:
		return "configuration"
	case chem.ErrParameterization:
		return "parameterization"
	case chem.ErrPrecondition:
		return "precondition"
	case chem.ErrUnsupported:
		return "unsupported"
	}
	return "runtime"
}

// Registry returns the registry the collectors are registered with.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// WriteText writes the current value of every metric in the Prometheus text format.
func (m *Metrics) WriteText(w io.Writer) error {
	fams, err := m.registry.Gather()
	if err != nil {
		return err
	}
	for _, mf := range fams {
		if err := writeFamily(w, mf); err != nil {
			return err
		}
	}
	return nil
}

func writeFamily(w io.Writer, mf *dto.MetricFamily) error {
	_, err := expfmt.MetricFamilyToText(w, mf)
	return err
}
