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

package types

import "github.com/prometheus/client_golang/prometheus"

// Option is a function that modifies a Config, following the same
// functional-options pattern used across this codebase.
//
// Usage:
//
//	config := NewConfig(
//	    WithLogger(customLogger),
//	    WithAspects(&metricsAspect{}),
//	)
type Option func(*Config) error

// WithLogger sets the sink every log record is delivered to.
func WithLogger(logger Logger) Option {
	return func(c *Config) error {
		c.Logger = logger
		return nil
	}
}

// WithMinLevel sets the minimum level the logging facade emits.
func WithMinLevel(level Level) Option {
	return func(c *Config) error {
		c.MinLevel = level
		return nil
	}
}

// WithAspects appends aspects to the Config's aspect list; call order
// determines append order, final execution order is by Aspect.Order().
func WithAspects(aspects ...Aspect) Option {
	return func(c *Config) error {
		c.Aspects = append(c.Aspects, aspects...)
		return nil
	}
}

// WithMetricsRegisterer enables built-in Prometheus metrics collectors,
// registering them against the given registerer.
func WithMetricsRegisterer(registerer prometheus.Registerer) Option {
	return func(c *Config) error {
		c.MetricsRegisterer = registerer
		return nil
	}
}

// WithManifest sets the workspace manifest used to canonicalise
// relative component IDs during normalisation.
func WithManifest(manifest *Manifest) Option {
	return func(c *Config) error {
		c.Manifest = manifest
		return nil
	}
}
