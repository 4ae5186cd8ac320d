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

package flow

import (
	"github.com/lcod-team/lcod-kernel-go/kernel"
	"github.com/lcod-team/lcod-kernel-go/types"
)

// Parallel runs the "tasks" slot once per entry of the "tasks" input
// array, collecting per-index results (or collectPath-projected
// values) into "results" in input order. Scheduling here is
// sequential: the context's cleanup and registry scope stacks are not
// safe to share across goroutines, and input-order of results is the
// only contract observable behaviour depends on.
func Parallel(ctx *kernel.Context, input types.Value, meta kernel.CallMeta) (types.Value, error) {
	obj := types.AsObject(input)
	tasks, _ := obj["tasks"].([]any)

	results := make([]any, len(tasks))
	for index, item := range tasks {
		slotVars := map[string]types.Value{"item": item, "index": index}
		taskResult, err := ctx.RunSlot("tasks", nil, slotVars)
		if err != nil {
			return nil, err
		}

		if meta.CollectPath == "" {
			results[index] = taskResult
			continue
		}
		resolved, ok := kernel.EvalPathExpr(meta.CollectPath, taskResult, slotVars)
		if ok {
			results[index] = resolved
		}
	}

	return map[string]any{"results": results}, nil
}
