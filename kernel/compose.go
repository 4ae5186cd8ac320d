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
	"time"

	"github.com/lcod-team/lcod-kernel-go/types"
)

// Call dispatches to the handler registered for id, implementing the
// full contract-resolution, metadata-filtering and aspect-instrumented
// algorithm every component invocation goes through.
func (c *Context) Call(id types.ComponentId, input types.Value, meta CallMeta) (types.Value, error) {
	if err := c.EnsureNotCancelled(); err != nil {
		return nil, err
	}

	id = id.Normalise()
	reg, ok := c.lookup(id)
	if !ok {
		if id.IsContract() {
			return nil, &types.Error{Code: types.MissingBinding, Message: "no binding for contract " + id.String()}
		}
		return nil, &types.Error{Code: types.NotFound, Message: "no registration for " + id.String()}
	}

	sanitised := input
	if reg.Metadata != nil && len(reg.Metadata.Inputs) > 0 {
		c.pushRawInput(input)
		defer c.popRawInput()
		sanitised = projectKeys(input, reg.Metadata.Inputs)
	}

	if reg.InputSchema != nil {
		if ok, diag := reg.InputSchema.Validate(sanitised); !ok {
			return nil, &types.Error{
				Code:        types.InputValidationFailed,
				Message:     "input validation failed",
				Diagnostics: []types.Diagnostic{{Path: "$", Message: diag}},
			}
		}
	}

	before, after := c.aspects.CallAspects()
	for _, aspect := range before {
		if aspect.PointCut(id, sanitised) {
			var err error
			sanitised, err = aspect.Before(id, sanitised)
			if err != nil {
				return nil, err
			}
		}
	}

	result, callErr := reg.Handler(c, sanitised, meta)

	for _, aspect := range after {
		if aspect.PointCut(id, sanitised) {
			var err error
			result, err = aspect.After(id, sanitised, result, callErr)
			if err != nil {
				callErr = err
			}
		}
	}

	if callErr != nil {
		return nil, callErr
	}

	if reg.Metadata != nil && len(reg.Metadata.Outputs) > 0 {
		result = projectKeys(result, reg.Metadata.Outputs)
	}
	if reg.OutputSchema != nil {
		if ok, diag := reg.OutputSchema.Validate(result); !ok {
			return nil, &types.Error{
				Code:        types.OutputValidationFailed,
				Message:     "output validation failed",
				Diagnostics: []types.Diagnostic{{Path: "$", Message: diag}},
			}
		}
	}
	return result, nil
}

// projectKeys trims an object value down to keys, filling any missing
// declared key with null, and dropping every undeclared key.
func projectKeys(v types.Value, keys []string) types.Value {
	obj := types.AsObject(v)
	out := types.NewObject()
	for _, k := range keys {
		if val, ok := obj[k]; ok {
			out[k] = val
		} else {
			out[k] = nil
		}
	}
	return out
}

// Execute runs a canonical step sequence against seed, returning the
// state observed after the last step. Each step's handler may call
// ctx.RunSlot/ctx.RunChildren, transparently scoped to that step's own
// Children by the SlotRunner installed here.
func Execute(ctx *Context, logger *Logging, steps []types.Step, seed types.Value, slotVars map[string]types.Value) (types.Value, error) {
	cur := types.CloneObject(types.AsObject(seed))

	for i, step := range steps {
		if err := ctx.EnsureNotCancelled(); err != nil {
			return nil, err
		}

		restore := ctx.installSlots(SlotRunner{
			RunSlot: func(name string, localState types.Value, vars map[string]types.Value) (types.Value, error) {
				body := step.Children[name]
				if body == nil && name == "else" {
					return types.NewObject(), nil
				}
				return Execute(ctx, logger, body, localState, vars)
			},
			RunChildren: func(body []types.Step, localState types.Value, vars map[string]types.Value) (types.Value, error) {
				return Execute(ctx, logger, body, localState, vars)
			},
		})

		input := buildInput(step.In, step.InSpreads, cur, slotVars)

		logger.Emit(ctx, types.LogRecord{
			Level:   types.LevelDebug,
			Message: "step start",
			Data: map[string]any{
				"index":    i,
				"call":     step.Call.String(),
				"inKeys":   keysOf(input),
				"slotKeys": keysOf(anyMapFromValueMap(slotVars)),
			},
		})

		start := time.Now()
		ctx.PushCleanupScope()
		result, err := ctx.Call(step.Call, input, CallMeta{
			Children:    step.Children,
			Slot:        slotVars,
			CollectPath: step.CollectPath,
		})
		ctx.PopCleanupScope()
		restore()

		if err != nil {
			logger.Emit(ctx, types.LogRecord{
				Level:   types.LevelError,
				Message: "step error",
				Err:     err,
				Data: map[string]any{
					"index":      i,
					"call":       step.Call.String(),
					"durationMs": time.Since(start).Milliseconds(),
				},
			})
			return nil, err
		}

		logger.Emit(ctx, types.LogRecord{
			Level:   types.LevelDebug,
			Message: "step success",
			Data: map[string]any{
				"index":      i,
				"call":       step.Call.String(),
				"durationMs": time.Since(start).Milliseconds(),
				"resultKeys": keysOf(result),
			},
		})

		applySpreadOutputs(step.OutSpreads, result, cur)
		for alias, proj := range step.Out {
			optional := false
			p := proj
			if opt, ok := p.(types.Optional); ok {
				optional = true
				p = opt.Value
			}

			var resolved types.Value
			present := true
			if name, ok := p.(string); ok && name == types.WholeResult {
				resolved = result
			} else if name, ok := p.(string); ok {
				resolved, present = types.ResolvePath(result, name)
			}

			if optional && (!present || types.IsNullish(resolved)) {
				continue
			}
			cur[alias] = resolved
		}
	}
	return cur, nil
}

// buildInput constructs a step's handler input from its binding map
// and spreads, resolving path/slot references against state and slot
// variables respectively.
func buildInput(bindings map[string]any, spreads []types.Spread, state map[string]any, slotVars map[string]types.Value) types.Value {
	out := types.NewObject()
	applySpreadInputs(spreads, state, slotVars, out)
	for key, binding := range bindings {
		optional := false
		b := binding
		if opt, ok := b.(types.Optional); ok {
			optional = true
			b = opt.Value
		}
		resolved, ok := resolveBinding(b, state, slotVars)
		if optional && (!ok || types.IsNullish(resolved)) {
			continue
		}
		out[key] = resolved
	}
	return out
}

// resolveBinding resolves one canonical binding value against state
// and slot variables. Nested step definitions (maps carrying a "call"
// key) pass through unresolved so handlers can evaluate them as
// sub-plans.
func resolveBinding(b any, state map[string]any, slotVars map[string]types.Value) (types.Value, bool) {
	switch v := b.(type) {
	case types.PathRef:
		return types.ResolvePath(state, string(v))
	case types.SlotRef:
		vars := anyMapFromValueMap(slotVars)
		return types.ResolvePath(vars, string(v))
	case types.StateWhole:
		return types.DeepClone(state), true
	case map[string]any:
		if _, isStep := v["call"]; isStep {
			return v, true
		}
		out := types.NewObject()
		for k, nested := range v {
			resolved, ok := resolveBinding(nested, state, slotVars)
			if ok {
				out[k] = resolved
			}
		}
		return out, true
	case []any:
		out := make([]any, len(v))
		for i, nested := range v {
			resolved, _ := resolveBinding(nested, state, slotVars)
			out[i] = resolved
		}
		return out, true
	default:
		return types.DeepClone(v), true
	}
}

// applySpreadInputs copies each spread's source keys into dst before
// the step's explicit bindings are applied.
func applySpreadInputs(spreads []types.Spread, state map[string]any, slotVars map[string]types.Value, dst map[string]any) {
	for _, spread := range spreads {
		resolved, ok := resolveBinding(spread.Source, state, slotVars)
		obj := types.AsObject(resolved)
		if !ok || obj == nil {
			if spread.Optional {
				continue
			}
			continue
		}
		if len(spread.Pick) > 0 {
			for _, k := range spread.Pick {
				if v, present := obj[k]; present {
					dst[k] = v
				}
			}
			continue
		}
		for k, v := range obj {
			dst[k] = v
		}
	}
}

// applySpreadOutputs copies each spread's source keys from result into
// state before the step's explicit out projections are applied.
func applySpreadOutputs(spreads []types.Spread, result types.Value, state map[string]any) {
	obj := types.AsObject(result)
	for _, spread := range spreads {
		source := obj
		if spread.Source != nil {
			if name, ok := spread.Source.(types.PathRef); ok {
				resolved, _ := types.ResolvePath(result, string(name))
				source = types.AsObject(resolved)
			}
		}
		if source == nil {
			continue
		}
		if len(spread.Pick) > 0 {
			for _, k := range spread.Pick {
				if v, present := source[k]; present {
					state[k] = v
				}
			}
			continue
		}
		for k, v := range source {
			state[k] = v
		}
	}
}

func keysOf(v types.Value) []string {
	obj := types.AsObject(v)
	out := make([]string, 0, len(obj))
	for k := range obj {
		out = append(out, k)
	}
	return out
}

func anyMapFromValueMap(m map[string]types.Value) map[string]any {
	if m == nil {
		return nil
	}
	out := make(map[string]any, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}
