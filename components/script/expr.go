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

package script

import (
	"sync"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"

	"github.com/lcod-team/lcod-kernel-go/kernel"
	"github.com/lcod-team/lcod-kernel-go/types"
)

// ExprId is the component ID for expr-lang expression evaluation.
const ExprId types.ComponentId = "lcod://script/expr@1"

type exprEngine struct {
	mu       sync.RWMutex
	programs map[string]*vm.Program
}

var exprs = &exprEngine{programs: make(map[string]*vm.Program)}

func (e *exprEngine) programFor(expression string) (*vm.Program, error) {
	e.mu.RLock()
	program, ok := e.programs[expression]
	e.mu.RUnlock()
	if ok {
		return program, nil
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	if program, ok := e.programs[expression]; ok {
		return program, nil
	}
	program, err := expr.Compile(expression, expr.AllowUndefinedVariables())
	if err != nil {
		return nil, err
	}
	e.programs[expression] = program
	return program, nil
}

// Expr evaluates "expr" (an expr-lang expression string) against the
// "vars" input key as its environment, returning the raw result as
// "result".
func Expr(ctx *kernel.Context, input types.Value, meta kernel.CallMeta) (types.Value, error) {
	obj := types.AsObject(input)
	expression, _ := obj["expr"].(string)
	if expression == "" {
		return nil, &types.Error{Code: types.InputValidationFailed, Message: "expr: missing \"expr\""}
	}

	program, err := exprs.programFor(expression)
	if err != nil {
		return nil, types.Wrap(types.UnexpectedError, err)
	}

	env := types.AsObject(obj["vars"])
	out, err := vm.Run(program, env)
	if err != nil {
		return nil, types.Wrap(types.UnexpectedError, err)
	}
	return map[string]any{"result": out}, nil
}
