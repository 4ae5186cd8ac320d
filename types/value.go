/*
 * Copyright 2023 The RuleGo Authors.
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

// Package types defines the shared value model, component identifiers,
// configuration and error types used across the composition kernel.
package types

import "strings"

// Value is a recursive JSON-compatible value: nil, bool, float64/int,
// string, []Value (ordered sequence) or map[string]any (mapping).
//
// Object-typed values are carried as map[string]any rather than a
// dedicated struct so that path resolution and JSON/YAML decoding can
// treat them uniformly; callers that need a Value's map form should use
// AsObject.
type Value = any

// NewObject returns an empty, ready to populate object value.
func NewObject() map[string]any {
	return make(map[string]any)
}

// AsObject returns v as a map[string]any, creating an empty one if v is
// not already a mapping. Used wherever the spec says "ensure an object".
func AsObject(v Value) map[string]any {
	if m, ok := v.(map[string]any); ok {
		return m
	}
	return make(map[string]any)
}

// IsNullish reports whether v represents the absence of a value.
func IsNullish(v Value) bool {
	if v == nil {
		return true
	}
	return false
}

// DeepClone returns a deep copy of v. Maps and slices are copied
// recursively; scalars are returned as-is since they are immutable.
func DeepClone(v Value) Value {
	switch t := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, val := range t {
			out[k] = DeepClone(val)
		}
		return out
	case []any:
		out := make([]any, len(t))
		for i, val := range t {
			out[i] = DeepClone(val)
		}
		return out
	default:
		return t
	}
}

// CloneObject is DeepClone specialised to the map shape state and input
// values use; it copies nil/not-a-map inputs into a new empty object.
func CloneObject(v Value) map[string]any {
	if v == nil {
		return NewObject()
	}
	cloned := DeepClone(v)
	if m, ok := cloned.(map[string]any); ok {
		return m
	}
	return NewObject()
}

// ResolvePath resolves a dotted path such as "a.b.c" against root,
// walking maps by key and slices by numeric index. It returns
// (value, true) on success, or (nil, false) if any segment is missing.
func ResolvePath(root Value, path string) (Value, bool) {
	if path == "" {
		return root, true
	}
	cur := root
	for _, seg := range strings.Split(path, ".") {
		if seg == "" {
			continue
		}
		switch c := cur.(type) {
		case map[string]any:
			v, ok := c[seg]
			if !ok {
				return nil, false
			}
			cur = v
		case []any:
			idx, ok := parseIndex(seg)
			if !ok || idx < 0 || idx >= len(c) {
				return nil, false
			}
			cur = c[idx]
		default:
			return nil, false
		}
	}
	return cur, true
}

func parseIndex(seg string) (int, bool) {
	if seg == "" {
		return 0, false
	}
	n := 0
	for _, r := range seg {
		if r < '0' || r > '9' {
			return 0, false
		}
		n = n*10 + int(r-'0')
	}
	return n, true
}

// Truthy implements the spec's notion of a truthy value for `if`/`while`
// conditions: false, nil, 0, "", and empty collections are falsy.
func Truthy(v Value) bool {
	switch t := v.(type) {
	case nil:
		return false
	case bool:
		return t
	case string:
		return t != ""
	case float64:
		return t != 0
	case int:
		return t != 0
	case []any:
		return len(t) > 0
	case map[string]any:
		return len(t) > 0
	default:
		return true
	}
}
