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

import "sort"

// Aspect defines the base interface for cross-cutting concerns that
// observe every dispatch through the execution context's `call`
// method, without the core dispatch algorithm itself knowing they
// exist. This is how the kernel's built-in metrics instrumentation is
// implemented.
//
// Aspect 定义观察每次通过执行上下文 `call` 方法调度的横切关注点的
// 基础接口，核心调度算法本身并不知道它们的存在。
type Aspect interface {
	// Order returns the execution priority; lower values run first.
	Order() int

	// New creates an independent instance of the aspect for one
	// execution context, mirroring the teacher's per-engine instance
	// isolation so aspects may hold per-run mutable state safely.
	New() Aspect
}

// CallAspect is the base for aspects scoped to a single `ctx.call`
// dispatch.
type CallAspect interface {
	Aspect

	// PointCut decides whether this aspect applies to a given call.
	PointCut(call ComponentId, input Value) bool
}

// CallBeforeAspect runs before the handler is invoked and may rewrite
// the input the handler observes.
type CallBeforeAspect interface {
	CallAspect
	Before(call ComponentId, input Value) (Value, error)
}

// CallAfterAspect runs after the handler returns (success or error) and
// may rewrite the observed result.
type CallAfterAspect interface {
	CallAspect
	After(call ComponentId, input Value, output Value, callErr error) (Value, error)
}

// AspectList is a registered collection of aspects, sorted and filtered
// by kind on demand exactly as the teacher's AspectList does for node
// aspects.
type AspectList []Aspect

// CallAspects returns the before/after aspects in this list, sorted by
// Order ascending.
func (list AspectList) CallAspects() ([]CallBeforeAspect, []CallAfterAspect) {
	sort.Slice(list, func(i, j int) bool {
		return list[i].Order() < list[j].Order()
	})

	var before []CallBeforeAspect
	var after []CallAfterAspect
	for _, item := range list {
		if a, ok := item.(CallBeforeAspect); ok {
			before = append(before, a)
		}
		if a, ok := item.(CallAfterAspect); ok {
			after = append(after, a)
		}
	}
	return before, after
}
