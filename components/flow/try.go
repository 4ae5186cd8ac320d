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

// Try runs the "children" slot. A regular error is normalised and
// handed to "catch" (if present) as slot variable "error"; if catch
// runs without erroring the error is considered handled. "finally", if
// present, always runs, its result merged into the outcome. Signals
// (break/continue) and cancellation errors bypass catch entirely and
// always propagate, though finally still runs for them.
func Try(ctx *kernel.Context, input types.Value, meta kernel.CallMeta) (types.Value, error) {
	result, err := ctx.RunSlot("children", nil, nil)

	if err != nil {
		if _, isSignal := kernel.AsSignal(err); isSignal {
			return finalize(ctx, meta, nil, err)
		}
		if types.IsCancelled(err) {
			return finalize(ctx, meta, nil, err)
		}

		normalised := types.Normalize(err)
		if _, hasCatch := meta.Children["catch"]; hasCatch {
			catchVars := map[string]types.Value{
				"error": normalised.AsMap(),
				"phase": "catch",
			}
			caught, cerr := ctx.RunSlot("catch", nil, catchVars)
			if cerr != nil {
				return finalize(ctx, meta, nil, cerr)
			}
			return finalize(ctx, meta, caught, nil)
		}
		return finalize(ctx, meta, nil, err)
	}

	return finalize(ctx, meta, result, nil)
}

// finalize runs the "finally" slot (if present) and merges its result
// into outcome, preserving the caller's error.
func finalize(ctx *kernel.Context, meta kernel.CallMeta, outcome types.Value, outerErr error) (types.Value, error) {
	if _, hasFinally := meta.Children["finally"]; !hasFinally {
		return outcome, outerErr
	}

	var errForSlot any
	if outerErr != nil {
		errForSlot = types.Normalize(outerErr).AsMap()
	}
	finallyVars := map[string]types.Value{"phase": "finally", "error": errForSlot}
	finallyResult, ferr := ctx.RunSlot("finally", nil, finallyVars)
	if ferr != nil {
		return nil, ferr
	}

	merged := types.AsObject(outcome)
	for k, v := range types.AsObject(finallyResult) {
		merged[k] = v
	}
	return merged, outerErr
}
