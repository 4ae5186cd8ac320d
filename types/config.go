/*
 * Copyright 2023 The RuleGo Authors.
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

// Manifest carries the workspace-level defaults the normaliser uses to
// canonicalise relative `call` IDs: a base path, a default version, and
// scope-name aliases.
type Manifest struct {
	BasePath string
	Version  string
	Aliases  map[string]string
}

// Config is the root configuration for a kernel execution, built with
// functional options exactly as the teacher's rule-engine Config is.
type Config struct {
	// Logger receives every structured log record the kernel emits.
	// NewConfig leaves it nil.
	Logger Logger
	// MinLevel suppresses records below this level when no custom sink
	// overrides it.
	MinLevel Level
	// Aspects are cross-cutting hooks invoked around every ctx.call
	// dispatch (see types/aspect.go); built-in metrics instrumentation
	// is itself an Aspect.
	Aspects AspectList
	// MetricsRegisterer is where built-in metrics collectors register
	// themselves; nil disables metrics registration.
	MetricsRegisterer prometheus.Registerer
	// Manifest canonicalises relative component IDs during
	// normalisation; nil disables relative-ID rewriting.
	Manifest *Manifest
}

// NewConfig creates a Config with default values and applies opts,
// following the functional options pattern used throughout this
// codebase.
func NewConfig(opts ...Option) Config {
	c := &Config{
		MinLevel: LevelInfo,
	}
	for _, opt := range opts {
		_ = opt(c)
	}
	return *c
}
