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

package kernel

import (
	"sync"
	"sync/atomic"

	"github.com/lcod-team/lcod-kernel-go/types"
)

// Finalizer is a deferred cleanup function registered with ctx.Defer.
type Finalizer func()

// SlotRunner is installed by the compose engine immediately before it
// invokes a handler, so the handler can evaluate its own slots without
// ever seeing the engine itself. RunSlot evaluates a single named
// slot; RunChildren evaluates an explicit step list under the current
// scope.
type SlotRunner struct {
	RunSlot     func(name string, localState types.Value, slotVars map[string]types.Value) (types.Value, error)
	RunChildren func(steps []types.Step, localState types.Value, slotVars map[string]types.Value) (types.Value, error)
}

// Context is the run-scoped object threaded through every handler
// call: cancellation, cleanup scopes, the registry-scope stack, the
// log-tag scope, the raw-input stack, and the stream manager handle.
//
// One Context exists per top-level execution; it carries no state
// shared with any other concurrent execution except the Registry,
// which is read-mostly.
type Context struct {
	registry *Registry
	logger   *Logging
	aspects  types.AspectList
	streams  *StreamManager

	cancelled atomic.Bool

	mu            sync.Mutex
	cleanupStack  [][]Finalizer
	registryStack []map[types.ComponentId]types.ComponentId
	logTagStack   []map[string]any
	rawInputStack []types.Value

	slots SlotRunner
}

// NewContext creates a fresh execution context bound to a registry and
// logging sink.
func NewContext(registry *Registry, logger *Logging, aspects types.AspectList) *Context {
	return &Context{
		registry: registry,
		logger:   logger,
		aspects:  aspects,
		streams:  NewStreamManager(),
	}
}

// Cancel sets the sticky cancellation flag. Once set it can never be
// cleared for the lifetime of this context.
func (c *Context) Cancel() {
	c.cancelled.Store(true)
}

// IsCancelled reports whether Cancel has been called.
func (c *Context) IsCancelled() bool {
	return c.cancelled.Load()
}

// EnsureNotCancelled fails fast with a cancellation error once the
// token has been set.
func (c *Context) EnsureNotCancelled() error {
	if c.cancelled.Load() {
		return &types.Error{Code: types.Cancelled, Message: "execution cancelled"}
	}
	return nil
}

// PushCleanupScope opens a new cleanup scope; Defer calls made before
// the matching PopCleanupScope accumulate here.
func (c *Context) PushCleanupScope() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.cleanupStack = append(c.cleanupStack, nil)
}

// PopCleanupScope runs the scope's finalisers in LIFO order and
// removes the scope. It always runs to completion even when called
// from an error path, matching the "every defer fires exactly once"
// guarantee.
func (c *Context) PopCleanupScope() {
	c.mu.Lock()
	n := len(c.cleanupStack)
	if n == 0 {
		c.mu.Unlock()
		return
	}
	scope := c.cleanupStack[n-1]
	c.cleanupStack = c.cleanupStack[:n-1]
	c.mu.Unlock()

	for i := len(scope) - 1; i >= 0; i-- {
		scope[i]()
	}
}

// Defer registers a finaliser in the current (innermost) cleanup
// scope.
func (c *Context) Defer(fn Finalizer) {
	c.mu.Lock()
	defer c.mu.Unlock()
	n := len(c.cleanupStack)
	if n == 0 {
		// No open scope: open an implicit outer scope rather than
		// dropping the finaliser; it runs when a PopCleanupScope call
		// finds that scope innermost.
		c.cleanupStack = append(c.cleanupStack, nil)
		n = 1
	}
	c.cleanupStack[n-1] = append(c.cleanupStack[n-1], fn)
}

// EnterRegistryScope pushes a contract-binding overlay onto this
// context's own scope stack. The overlay is visible only to lookups
// made through this context; it never touches the shared Registry, so
// concurrently-running contexts sharing one Registry never observe
// each other's scoped bindings.
func (c *Context) EnterRegistryScope(overlay map[types.ComponentId]types.ComponentId) {
	normalised := make(map[types.ComponentId]types.ComponentId, len(overlay))
	for k, v := range overlay {
		normalised[k.Normalise()] = v.Normalise()
	}
	c.mu.Lock()
	c.registryStack = append(c.registryStack, normalised)
	c.mu.Unlock()
}

// LeaveRegistryScope pops this context's innermost binding overlay,
// exactly restoring what Lookup resolved before the matching
// EnterRegistryScope.
func (c *Context) LeaveRegistryScope() {
	c.mu.Lock()
	defer c.mu.Unlock()
	n := len(c.registryStack)
	if n == 0 {
		return
	}
	c.registryStack = c.registryStack[:n-1]
}

// scopedBinding resolves id against this context's own overlay stack,
// innermost scope first, without consulting the shared Registry.
func (c *Context) scopedBinding(id types.ComponentId) (types.ComponentId, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for i := len(c.registryStack) - 1; i >= 0; i-- {
		if impl, ok := c.registryStack[i][id]; ok {
			return impl, true
		}
	}
	return "", false
}

// lookup resolves id to a Registration, preferring this context's own
// scoped bindings over the shared Registry's global bindings, so a
// scope entered by one context can never be observed by another.
func (c *Context) lookup(id types.ComponentId) (Registration, bool) {
	id = id.Normalise()
	if id.IsContract() {
		if impl, ok := c.scopedBinding(id); ok {
			if reg, ok := c.registry.Lookup(impl); ok {
				return reg, true
			}
		}
	}
	return c.registry.Lookup(id)
}

// PushLogTags layers additional tags onto every subsequent log record
// until the matching PopLogTags.
func (c *Context) PushLogTags(tags map[string]any) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.logTagStack = append(c.logTagStack, tags)
}

// PopLogTags removes the innermost tag layer.
func (c *Context) PopLogTags() {
	c.mu.Lock()
	defer c.mu.Unlock()
	n := len(c.logTagStack)
	if n == 0 {
		return
	}
	c.logTagStack = c.logTagStack[:n-1]
}

func (c *Context) mergedLogTags() map[string]any {
	c.mu.Lock()
	defer c.mu.Unlock()
	merged := map[string]any{}
	for _, layer := range c.logTagStack {
		for k, v := range layer {
			merged[k] = v
		}
	}
	return merged
}

// pushRawInput records the pre-sanitisation input for introspection
// components to retrieve via CurrentRawInput.
func (c *Context) pushRawInput(v types.Value) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.rawInputStack = append(c.rawInputStack, v)
}

func (c *Context) popRawInput() {
	c.mu.Lock()
	defer c.mu.Unlock()
	n := len(c.rawInputStack)
	if n == 0 {
		return
	}
	c.rawInputStack = c.rawInputStack[:n-1]
}

// CurrentRawInput returns the last pre-sanitisation input pushed onto
// the stack, or nil if none is active.
func (c *Context) CurrentRawInput() types.Value {
	c.mu.Lock()
	defer c.mu.Unlock()
	n := len(c.rawInputStack)
	if n == 0 {
		return nil
	}
	return c.rawInputStack[n-1]
}

// installSlots swaps in new slot delegates for the duration of one
// handler invocation and returns a restore function, so nested calls
// see only their own step's children.
func (c *Context) installSlots(slots SlotRunner) func() {
	c.mu.Lock()
	prev := c.slots
	c.slots = slots
	c.mu.Unlock()

	return func() {
		c.mu.Lock()
		c.slots = prev
		c.mu.Unlock()
	}
}

// RunSlot evaluates the named slot of the step currently being
// dispatched. It is only meaningful from within a Handler invocation.
func (c *Context) RunSlot(name string, localState types.Value, slotVars map[string]types.Value) (types.Value, error) {
	c.mu.Lock()
	runner := c.slots.RunSlot
	c.mu.Unlock()
	if runner == nil {
		return types.NewObject(), nil
	}
	return runner(name, localState, slotVars)
}

// RunChildren evaluates an explicit step list under the current scope.
func (c *Context) RunChildren(steps []types.Step, localState types.Value, slotVars map[string]types.Value) (types.Value, error) {
	c.mu.Lock()
	runner := c.slots.RunChildren
	c.mu.Unlock()
	if runner == nil {
		return types.NewObject(), nil
	}
	return runner(steps, localState, slotVars)
}

// Streams returns the context's stream manager.
func (c *Context) Streams() *StreamManager {
	return c.streams
}

// Registry returns the registry this context dispatches against.
func (c *Context) Registry() *Registry {
	return c.registry
}
