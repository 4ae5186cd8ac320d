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

// Package kernel implements the composition runtime: the registry,
// the normaliser, the execution context and compose engine, the
// stream manager and the logging facade. The built-in flow operators
// live in package components/flow.
package kernel

import (
	"sync"

	"github.com/lcod-team/lcod-kernel-go/types"
)

// Handler is the signature every registered component implements.
type Handler func(ctx *Context, input types.Value, meta CallMeta) (types.Value, error)

// CallMeta carries the ambient information a handler receives besides
// its sanitised input: the raw slot bodies it may evaluate, the slot
// variables the engine was called with, and an optional collect path
// for iterator-shaped handlers.
type CallMeta struct {
	Children    map[string][]types.Step
	Slot        map[string]types.Value
	CollectPath string
}

// Registration is one entry in the registry: a handler plus the
// optional metadata that gates and filters calls to it.
type Registration struct {
	Id          types.ComponentId
	Handler     Handler
	Implements  types.ComponentId
	InputSchema Validator
	OutputSchema Validator
	Metadata    *types.Metadata
}

// Validator validates a value against a schema, returning a
// human-readable diagnostic message on failure.
type Validator interface {
	Validate(v types.Value) (ok bool, diagnostic string)
}

// Registry is the default, thread-safe store of registrations and
// contract bindings. Its RWMutex-guarded maps mirror the rule-engine
// component registry, generalised to the composition kernel's single
// Handler shape; Register and SetBindings write into them in place.
type Registry struct {
	mu            sync.RWMutex
	registrations map[types.ComponentId]Registration
	bindings      map[types.ComponentId]types.ComponentId
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		registrations: make(map[types.ComponentId]Registration),
		bindings:      make(map[types.ComponentId]types.ComponentId),
	}
}

// Register adds or replaces a registration. Re-registering an ID
// replaces the prior entry rather than failing, matching the
// idempotent-by-ID contract components rely on during hot-reload of a
// workspace.
func (r *Registry) Register(reg Registration) {
	reg.Id = reg.Id.Normalise()
	r.mu.Lock()
	defer r.mu.Unlock()
	r.registrations[reg.Id] = reg
}

// SetBindings merges the given contract→implementation map into the
// registry's bindings table.
func (r *Registry) SetBindings(overlay map[types.ComponentId]types.ComponentId) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for k, v := range overlay {
		r.bindings[k.Normalise()] = v.Normalise()
	}
}

// Lookup resolves id to a Registration, following a contract binding
// when id itself carries no registration but is a contract ID with a
// bound implementation.
func (r *Registry) Lookup(id types.ComponentId) (Registration, bool) {
	id = id.Normalise()
	r.mu.RLock()
	defer r.mu.RUnlock()
	if reg, ok := r.registrations[id]; ok {
		return reg, true
	}
	if id.IsContract() {
		if impl, ok := r.bindings[id]; ok {
			if reg, ok := r.registrations[impl]; ok {
				return reg, true
			}
		}
	}
	return Registration{}, false
}

// Binding returns the implementation bound to a contract ID, if any.
func (r *Registry) Binding(id types.ComponentId) (types.ComponentId, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	impl, ok := r.bindings[id.Normalise()]
	return impl, ok
}

