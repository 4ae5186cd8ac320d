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

// Throw raises a normalised error {code, message, data?} built from
// its input.
func Throw(ctx *kernel.Context, input types.Value, meta kernel.CallMeta) (types.Value, error) {
	obj := types.AsObject(input)
	code, _ := obj["code"].(string)
	if code == "" {
		code = string(types.FlowThrow)
	}
	message, _ := obj["message"].(string)
	return nil, &types.Error{Code: types.ErrorKind(code), Message: message, Data: obj["data"]}
}

// Break raises the sentinel signal consumed by the innermost iterating
// operator (foreach/while) to terminate the loop early.
func Break(ctx *kernel.Context, input types.Value, meta kernel.CallMeta) (types.Value, error) {
	return nil, kernel.BreakSignal
}

// Continue raises the sentinel signal consumed by the innermost
// iterating operator to skip to the next iteration.
func Continue(ctx *kernel.Context, input types.Value, meta kernel.CallMeta) (types.Value, error) {
	return nil, kernel.ContinueSignal
}

// CheckAbort fails fast with a cancellation error if the execution has
// been cancelled, otherwise returns an empty object.
func CheckAbort(ctx *kernel.Context, input types.Value, meta kernel.CallMeta) (types.Value, error) {
	if err := ctx.EnsureNotCancelled(); err != nil {
		return nil, err
	}
	return types.NewObject(), nil
}
