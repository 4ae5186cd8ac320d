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

// Package script provides the built-in JavaScript and expression
// evaluation components, compiled once per distinct script body (the
// JavaScript one also run from a pool of VMs), the same
// compile-once-cache-program idiom the transform node family uses.
package script

import (
	"fmt"
	"sync"

	"github.com/dop251/goja"

	"github.com/lcod-team/lcod-kernel-go/kernel"
	"github.com/lcod-team/lcod-kernel-go/types"
)

// JsId is the component ID for embedded JavaScript evaluation.
const JsId types.ComponentId = "lcod://script/js@1"

const jsFuncTemplate = "function __run(vars) { %s }"

// jsEngine caches a compiled goja.Program per distinct script body and
// keeps a sync.Pool of *goja.Runtime per program, so repeated calls with the same
// code never re-parse it.
type jsEngine struct {
	mu       sync.RWMutex
	programs map[string]*goja.Program
	pools    map[string]*sync.Pool
}

var js = &jsEngine{
	programs: make(map[string]*goja.Program),
	pools:    make(map[string]*sync.Pool),
}

func (e *jsEngine) programFor(code string) (*goja.Program, *sync.Pool, error) {
	e.mu.RLock()
	program, ok := e.programs[code]
	pool := e.pools[code]
	e.mu.RUnlock()
	if ok {
		return program, pool, nil
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	if program, ok := e.programs[code]; ok {
		return program, e.pools[code], nil
	}

	src := fmt.Sprintf(jsFuncTemplate, code)
	program, err := goja.Compile("script.js", src+"\n__run;", true)
	if err != nil {
		return nil, nil, fmt.Errorf("compile script: %w", err)
	}
	pool = &sync.Pool{
		New: func() any {
			vm := goja.New()
			if _, err := vm.RunProgram(program); err != nil {
				panic(fmt.Sprintf("failed to run program in new VM: %v", err))
			}
			return vm
		},
	}
	e.programs[code] = program
	e.pools[code] = pool
	return program, pool, nil
}

// Js evaluates "code" as a JavaScript function body taking one
// argument "vars" (the "vars" input key) and returns its exported
// result as "result".
func Js(ctx *kernel.Context, input types.Value, meta kernel.CallMeta) (types.Value, error) {
	obj := types.AsObject(input)
	code, _ := obj["code"].(string)
	if code == "" {
		return nil, &types.Error{Code: types.InputValidationFailed, Message: "js: missing \"code\""}
	}

	_, pool, err := js.programFor(code)
	if err != nil {
		return nil, types.Wrap(types.UnexpectedError, err)
	}

	vm := pool.Get().(*goja.Runtime)
	defer pool.Put(vm)

	fn, ok := goja.AssertFunction(vm.Get("__run"))
	if !ok {
		return nil, &types.Error{Code: types.UnexpectedError, Message: "js: compiled script is not callable"}
	}

	res, err := fn(goja.Undefined(), vm.ToValue(obj["vars"]))
	if err != nil {
		return nil, types.Wrap(types.UnexpectedError, err)
	}

	return map[string]any{"result": res.Export()}, nil
}
