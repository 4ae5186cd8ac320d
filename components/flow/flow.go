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

// Package flow implements the built-in control-flow operators: if,
// foreach, while, parallel, try, throw, break, continue and
// check_abort. Each is an ordinary registered Handler that drives its
// slots through ctx.RunSlot/ctx.RunChildren rather than any special
// engine support.
package flow

import (
	"github.com/lcod-team/lcod-kernel-go/kernel"
	"github.com/lcod-team/lcod-kernel-go/types"
)

// IDs of the built-in flow operators.
const (
	IfId          types.ComponentId = "lcod://flow/if@1"
	ForeachId     types.ComponentId = "lcod://flow/foreach@1"
	WhileId       types.ComponentId = "lcod://flow/while@1"
	ParallelId    types.ComponentId = "lcod://flow/parallel@1"
	TryId         types.ComponentId = "lcod://flow/try@1"
	ThrowId       types.ComponentId = "lcod://flow/throw@1"
	BreakId       types.ComponentId = "lcod://flow/break@1"
	ContinueId    types.ComponentId = "lcod://flow/continue@1"
	CheckAbortId  types.ComponentId = "lcod://flow/check_abort@1"
)

// RegisterAll registers every built-in flow operator on reg.
func RegisterAll(reg *kernel.Registry) {
	reg.Register(kernel.Registration{Id: IfId, Handler: If})
	reg.Register(kernel.Registration{Id: ForeachId, Handler: Foreach})
	reg.Register(kernel.Registration{Id: WhileId, Handler: While})
	reg.Register(kernel.Registration{Id: ParallelId, Handler: Parallel})
	reg.Register(kernel.Registration{Id: TryId, Handler: Try})
	reg.Register(kernel.Registration{Id: ThrowId, Handler: Throw})
	reg.Register(kernel.Registration{Id: BreakId, Handler: Break})
	reg.Register(kernel.Registration{Id: ContinueId, Handler: Continue})
	reg.Register(kernel.Registration{Id: CheckAbortId, Handler: CheckAbort})
}
