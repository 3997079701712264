// Copyright 2024 The Merkle Tree Authors.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package monitoring is a small metric-factory abstraction in front of
// Prometheus's client_golang: callers pass in a MetricFactory, and the
// zero value (InertMetricFactory) makes every metric a safe no-op so the
// core library never requires a live Prometheus registry to function.
package monitoring

import "github.com/prometheus/client_golang/prometheus"

// Counter is a monotonically increasing metric, labeled by a fixed set of
// label names supplied at creation time.
type Counter interface {
	// Add increments the counter for the given label values, which must be
	// supplied in the same order as the names passed to NewCounter.
	Add(amount float64, labelValues ...string)
}

// Histogram observes a distribution of values, labeled by a fixed set of
// label names supplied at creation time.
type Histogram interface {
	// Observe records one sample for the given label values.
	Observe(value float64, labelValues ...string)
}

// MetricFactory creates labeled metrics. Implementations must be safe for
// concurrent use, as metrics may be shared across Tree instances.
type MetricFactory interface {
	NewCounter(name, help string, labelNames ...string) Counter
	NewHistogram(name, help string, labelNames ...string) Histogram
}

// InertMetricFactory produces metrics that discard every observation. It is
// the zero value used when a caller does not supply a MetricFactory.
type InertMetricFactory struct{}

func (InertMetricFactory) NewCounter(name, help string, labelNames ...string) Counter {
	return inertCounter{}
}

func (InertMetricFactory) NewHistogram(name, help string, labelNames ...string) Histogram {
	return inertHistogram{}
}

type inertCounter struct{}

func (inertCounter) Add(float64, ...string) {}

type inertHistogram struct{}

func (inertHistogram) Observe(float64, ...string) {}

// PrometheusMetricFactory creates metrics backed by a Prometheus registerer.
// Metrics are registered lazily on first NewCounter/NewHistogram call.
type PrometheusMetricFactory struct {
	Registerer prometheus.Registerer
}

func (f PrometheusMetricFactory) registerer() prometheus.Registerer {
	if f.Registerer == nil {
		return prometheus.DefaultRegisterer
	}
	return f.Registerer
}

func (f PrometheusMetricFactory) NewCounter(name, help string, labelNames ...string) Counter {
	vec := prometheus.NewCounterVec(prometheus.CounterOpts{Name: name, Help: help}, labelNames)
	if err := f.registerer().Register(vec); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			vec = are.ExistingCollector.(*prometheus.CounterVec)
		}
	}
	return prometheusCounter{vec: vec}
}

func (f PrometheusMetricFactory) NewHistogram(name, help string, labelNames ...string) Histogram {
	vec := prometheus.NewHistogramVec(prometheus.HistogramOpts{Name: name, Help: help}, labelNames)
	if err := f.registerer().Register(vec); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			vec = are.ExistingCollector.(*prometheus.HistogramVec)
		}
	}
	return prometheusHistogram{vec: vec}
}

type prometheusCounter struct {
	vec *prometheus.CounterVec
}

func (c prometheusCounter) Add(amount float64, labelValues ...string) {
	c.vec.WithLabelValues(labelValues...).Add(amount)
}

type prometheusHistogram struct {
	vec *prometheus.HistogramVec
}

func (h prometheusHistogram) Observe(value float64, labelValues ...string) {
	h.vec.WithLabelValues(labelValues...).Observe(value)
}
