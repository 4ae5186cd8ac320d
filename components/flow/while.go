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

// While repeatedly runs the "condition" slot, then the "body" slot
// while the condition holds, threading "state" between iterations.
// maxIterations (0 or absent means unlimited) bounds the number of
// body executions. If the condition is false on the very first check,
// the "else" slot runs instead and its returned state (if any)
// replaces the current one.
func While(ctx *kernel.Context, input types.Value, meta kernel.CallMeta) (types.Value, error) {
	obj := types.AsObject(input)

	maxIterations := 0
	if n, ok := obj["maxIterations"].(float64); ok {
		maxIterations = int(n)
	} else if n, ok := obj["maxIterations"].(int); ok {
		maxIterations = n
	}

	state := types.AsObject(obj["state"])
	iterations := 0
	first := true

	for {
		condVars := map[string]types.Value{"index": iterations, "state": state}
		condResult, err := ctx.RunSlot("condition", nil, condVars)
		if err != nil {
			return nil, err
		}
		cont, overriddenState, hasState := interpretCondition(condResult)
		if hasState {
			state = overriddenState
		}

		if !cont {
			if first {
				elseResult, err := ctx.RunSlot("else", nil, condVars)
				if err != nil {
					return nil, err
				}
				if elseObj, ok := elseResult.(map[string]any); ok && len(elseObj) > 0 {
					state = elseObj
				}
			}
			break
		}
		first = false

		if maxIterations > 0 && iterations >= maxIterations {
			return nil, &types.Error{Code: types.MaxIterationsExceeded, Message: "while loop exceeded maxIterations"}
		}

		bodyVars := map[string]types.Value{"index": iterations, "state": state}
		bodyResult, err := ctx.RunSlot("body", nil, bodyVars)
		if err != nil {
			if sig, ok := kernel.AsSignal(err); ok {
				if sig.Kind == "continue" {
					iterations++
					continue
				}
				if sig.Kind == "break" {
					break
				}
			}
			return nil, err
		}

		if bodyResult != nil {
			state = types.AsObject(bodyResult)
		}
		iterations++
	}

	return map[string]any{"state": state, "iterations": iterations}, nil
}

// interpretCondition normalises a condition slot's result: a bare
// boolean is the continuation flag directly; an object may carry
// continue/cond/value (continuation flag, first match wins) and an
// optional "state" override.
func interpretCondition(result types.Value) (cont bool, state map[string]any, hasState bool) {
	switch v := result.(type) {
	case bool:
		return v, nil, false
	case map[string]any:
		if c, ok := v["continue"]; ok {
			cont = types.Truthy(c)
		} else if c, ok := v["cond"]; ok {
			cont = types.Truthy(c)
		} else if c, ok := v["value"]; ok {
			cont = types.Truthy(c)
		}
		if s, ok := v["state"].(map[string]any); ok {
			return cont, s, true
		}
		return cont, nil, false
	default:
		return types.Truthy(v), nil, false
	}
}
