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

// Foreach iterates "list" (or drains a stream handle given as
// "stream"), running the "body" slot for each item with {item, index}
// slot variables. When collectPath is set, it evaluates that path
// expression against the body's result state and the slot variables
// and appends the resolved value to "results", skipping items that
// resolve to nothing. "continue" skips to the next item, "break"
// terminates the loop early; both are in-band control signals, not
// failures. An empty list runs "else" once instead.
func Foreach(ctx *kernel.Context, input types.Value, meta kernel.CallMeta) (types.Value, error) {
	obj := types.AsObject(input)

	items, err := resolveIterable(ctx, obj)
	if err != nil {
		return nil, err
	}

	if len(items) == 0 {
		elseResult, err := ctx.RunSlot("else", nil, nil)
		if err != nil {
			return nil, err
		}
		if meta.CollectPath == "" {
			return map[string]any{"results": []any{}}, nil
		}
		resolved, ok := kernel.EvalPathExpr(meta.CollectPath, elseResult, nil)
		results := []any{}
		if ok && !types.IsNullish(resolved) {
			results = append(results, resolved)
		}
		return map[string]any{"results": results}, nil
	}

	var results []any
	for index, item := range items {
		slotVars := map[string]types.Value{"item": item, "index": index}
		bodyResult, err := ctx.RunSlot("body", nil, slotVars)
		if err != nil {
			if sig, ok := kernel.AsSignal(err); ok {
				if sig.Kind == "continue" {
					continue
				}
				if sig.Kind == "break" {
					break
				}
			}
			return nil, err
		}

		if meta.CollectPath == "" {
			continue
		}
		resolved, ok := kernel.EvalPathExpr(meta.CollectPath, bodyResult, slotVars)
		if ok && !types.IsNullish(resolved) {
			results = append(results, resolved)
		}
	}

	if results == nil {
		results = []any{}
	}
	return map[string]any{"results": results}, nil
}

// resolveIterable extracts the item slice from either a literal "list"
// or a stream handle named "stream", draining the latter fully.
func resolveIterable(ctx *kernel.Context, obj map[string]any) ([]any, error) {
	if list, ok := obj["list"].([]any); ok {
		return list, nil
	}
	if raw, ok := obj["stream"]; ok {
		handle, ok := raw.(kernel.StreamHandle)
		if !ok {
			return nil, nil
		}
		var items []any
		for {
			res, err := ctx.Streams().Read(handle, kernel.ReadOptions{})
			if err != nil {
				return nil, err
			}
			if res.Done {
				break
			}
			items = append(items, res.Chunk)
		}
		return items, nil
	}
	return nil, nil
}
