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

import "sync"

// CategoryGetter is an optional interface a registered handler's owner
// can implement to provide category information for CLI/introspection
// output (e.g. "flow", "script", "stream").
type CategoryGetter interface {
	Category() string
}

// DescGetter is an optional interface providing a human-readable
// description of a component's functionality.
type DescGetter interface {
	Desc() string
}

// SafeComponentIds provides a thread-safe accumulator of registered
// component IDs, used by providers that self-register via package
// init() and want to report what they added.
type SafeComponentIds struct {
	ids []ComponentId
	sync.Mutex
}

// Add safely appends one or more component IDs.
func (p *SafeComponentIds) Add(ids ...ComponentId) {
	p.Lock()
	defer p.Unlock()
	p.ids = append(p.ids, ids...)
}

// Ids returns a copy of the accumulated component IDs.
func (p *SafeComponentIds) Ids() []ComponentId {
	p.Lock()
	defer p.Unlock()
	out := make([]ComponentId, len(p.ids))
	copy(out, p.ids)
	return out
}
