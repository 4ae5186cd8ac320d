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

package types

// Step is the canonical, post-normalisation form of one compose
// instruction: call a component, build its input from the current
// state and slot variables, and project its output back onto state.
//
// Step 是一个组合指令规范化之后的形式：调用一个组件，从当前状态和
// 插槽变量构建其输入，并将其输出投射回状态。
type Step struct {
	// Call is the component or contract ID to dispatch to.
	Call ComponentId
	// In maps parameter name to a binding value: a literal, a PathRef,
	// a SlotRef, a StateWhole sentinel, or an Optional wrapper around
	// any of those.
	In map[string]any
	// InSpreads are applied before In, each copying some or all keys of
	// a resolved source object into the built input.
	InSpreads []Spread
	// Out maps a state alias to an output projection: WholeResult, a
	// field name, or an Optional wrapper around either.
	Out map[string]any
	// OutSpreads are applied before Out, each copying some or all keys
	// of the step result into state.
	OutSpreads []Spread
	// Children holds named slot bodies ("then", "else", "body", "catch",
	// "finally", "tasks", "condition", or the default "children").
	Children map[string][]Step
	// CollectPath is an optional path expression iterators evaluate
	// against {$: state, $slot: vars} to build a results array.
	CollectPath string
}

// PathRef is a binding value resolved against the current state, the
// normalised form of "$.a.b.c" (the "$." prefix is stripped).
type PathRef string

// SlotRef is a binding value resolved against the current slot
// variables, the normalised form of "$slot.x.y" (the "$slot." prefix is
// stripped).
type SlotRef string

// StateWhole is the sentinel binding value meaning "the whole current
// state, cloned" (source document: "__lcod_state__").
type StateWhole struct{}

// WholeResult is the output-projection sentinel meaning "the whole
// handler result", spelled "$" in a compose document.
const WholeResult = "$"

// Optional wraps a binding value or output projection so that the key
// is omitted entirely when Value resolves to nil.
type Optional struct {
	Value any
}

// Spread describes a "...": or "...name:" entry: it copies some or all
// own keys of a resolved source object into the input or output map it
// is attached to.
type Spread struct {
	// Name is the alias used in the source document ("" for the bare
	// "..." form).
	Name string
	// Source is the binding value (PathRef, SlotRef, StateWhole or a
	// literal object) to read keys from.
	Source any
	// Pick restricts the copy to these keys; empty means "all own
	// keys".
	Pick []string
	// Optional marks the spread as optional. The engine does not fail
	// on a missing or non-object source either way: such a source
	// contributes no keys whether or not Optional is set.
	Optional bool
}

// Metadata declares the inputs, outputs and slot names a registry
// entry exposes. When present, it filters the input a handler
// observes and the output a caller sees (unknown input keys are
// dropped; only declared output keys are surfaced, missing ones become
// null).
type Metadata struct {
	Inputs  []string
	Outputs []string
	Slots   []string
}
