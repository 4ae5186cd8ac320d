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

// Package parser decodes a compose document (YAML or JSON) into the
// raw, pre-normalisation shape the kernel normaliser expects, the
// decode-only half of the rule-engine's encode/decode Parser
// interface.
package parser

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// Document is a decoded compose document: a top-level `compose:`
// sequence plus any workspace manifest fields a caller wants to read
// alongside it.
type Document struct {
	Compose []any          `yaml:"compose"`
	Raw     map[string]any `yaml:"-"`
}

// Decode parses data as YAML (a superset of JSON, so both formats are
// accepted through the same path) into a Document.
func Decode(data []byte) (*Document, error) {
	var raw map[string]any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("decode compose document: %w", err)
	}

	compose, _ := raw["compose"].([]any)
	return &Document{Compose: compose, Raw: normaliseKeys(raw)}, nil
}

// normaliseKeys recursively converts any map[any]any produced by a
// looser YAML parse into map[string]any so the rest of the kernel only
// ever deals with one map shape.
func normaliseKeys(v any) map[string]any {
	m, ok := v.(map[string]any)
	if !ok {
		return nil
	}
	out := make(map[string]any, len(m))
	for k, val := range m {
		out[k] = convert(val)
	}
	return out
}

func convert(v any) any {
	switch t := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, val := range t {
			out[k] = convert(val)
		}
		return out
	case map[any]any:
		out := make(map[string]any, len(t))
		for k, val := range t {
			out[fmt.Sprintf("%v", k)] = convert(val)
		}
		return out
	case []any:
		out := make([]any, len(t))
		for i, val := range t {
			out[i] = convert(val)
		}
		return out
	default:
		return t
	}
}
