/*
 * Copyright 2024 The RuleGo Authors.
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package aspect

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/lcod-team/lcod-kernel-go/types"
)

// Metrics is a CallAspect instrumenting every ctx.call dispatch with a
// request counter and a latency histogram, generalising the
// rule-engine's HTTP request metrics to the composition kernel's
// single dispatch point.
//
// Start times are tracked per component ID on a LIFO stack so a
// component recursively calling itself within one execution still
// pairs each Before with its matching After; concurrent executions
// dispatching the same ID at the same time may observe interleaved
// pairings, a known simplification given the Aspect interface carries
// no per-call correlation token.
type Metrics struct {
	requestsTotal   *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec

	mu      sync.Mutex
	started map[types.ComponentId][]time.Time
}

// NewMetrics creates and registers the kernel's call metrics against
// registerer. This constructor does not guard against a nil
// registerer; passing one panics at the first registerer.Register
// call.
func NewMetrics(registerer prometheus.Registerer) (*Metrics, error) {
	requestsTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "lcod",
			Subsystem: "kernel",
			Name:      "calls_total",
			Help:      "Total component dispatches, by component id and outcome.",
		},
		[]string{"id", "outcome"},
	)
	requestDuration := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "lcod",
			Subsystem: "kernel",
			Name:      "call_duration_seconds",
			Help:      "Component dispatch latency.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"id"},
	)
	if err := registerer.Register(requestsTotal); err != nil {
		return nil, err
	}
	if err := registerer.Register(requestDuration); err != nil {
		return nil, err
	}
	return &Metrics{
		requestsTotal:   requestsTotal,
		requestDuration: requestDuration,
		started:         make(map[types.ComponentId][]time.Time),
	}, nil
}

// Order runs metrics' Before ahead of aspects with a higher Order, so
// its timing includes their Before overhead. After aspects run in the
// same ascending order, so their After overhead is not included.
func (m *Metrics) Order() int { return 0 }

// New returns m itself rather than a fresh instance: metrics
// collectors are process-wide, so the same instance is reused.
func (m *Metrics) New() types.Aspect { return m }

// PointCut instruments every call.
func (m *Metrics) PointCut(call types.ComponentId, input types.Value) bool { return true }

// Before records the call's start time.
func (m *Metrics) Before(call types.ComponentId, input types.Value) (types.Value, error) {
	m.mu.Lock()
	m.started[call] = append(m.started[call], time.Now())
	m.mu.Unlock()
	return input, nil
}

// After records the call's outcome and latency.
func (m *Metrics) After(call types.ComponentId, input types.Value, output types.Value, callErr error) (types.Value, error) {
	m.mu.Lock()
	stack := m.started[call]
	var started time.Time
	if n := len(stack); n > 0 {
		started = stack[n-1]
		m.started[call] = stack[:n-1]
	}
	m.mu.Unlock()

	if !started.IsZero() {
		m.requestDuration.WithLabelValues(call.String()).Observe(time.Since(started).Seconds())
	}

	outcome := "ok"
	if callErr != nil {
		outcome = "error"
	}
	m.requestsTotal.WithLabelValues(call.String(), outcome).Inc()
	return output, callErr
}
