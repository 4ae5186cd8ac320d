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

// If reads "cond" and runs the "then" slot when truthy, else the
// "else" slot. When the chosen slot is absent and it is the else
// branch, it returns an empty object rather than failing.
func If(ctx *kernel.Context, input types.Value, meta kernel.CallMeta) (types.Value, error) {
	obj := types.AsObject(input)
	branch := "else"
	if types.Truthy(obj["cond"]) {
		branch = "then"
	}
	return ctx.RunSlot(branch, nil, nil)
}
