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
	"strings"

	"github.com/lcod-team/lcod-kernel-go/types"
)

// EvalPathExpr evaluates a raw "$.a.b" / "$slot.x" / "$" path
// expression, the form carried verbatim in a step's CollectPath and
// resolved at runtime rather than at normalisation time, against the
// current iteration state and slot variables.
func EvalPathExpr(expr string, state types.Value, slotVars map[string]types.Value) (types.Value, bool) {
	switch {
	case expr == "$":
		return state, true
	case strings.HasPrefix(expr, "$slot."):
		return types.ResolvePath(anyMapFromValueMap(slotVars), strings.TrimPrefix(expr, "$slot."))
	case strings.HasPrefix(expr, "$."):
		return types.ResolvePath(state, strings.TrimPrefix(expr, "$."))
	default:
		return types.ResolvePath(state, expr)
	}
}
