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

// Package maps bridges the kernel's map[string]any configuration
// values and component-local Go structs, the same Map2Struct
// convention used throughout the transform component family for
// decoding a node's static configuration block.
package maps

import (
	"github.com/fatih/structs"
	"github.com/mitchellh/mapstructure"
)

// Map2Struct decodes a map[string]any (or any other map-shaped
// configuration value) onto target, a pointer to a struct, honouring
// `json` field tags.
func Map2Struct(input any, target any) error {
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           target,
		WeaklyTypedInput: true,
		TagName:          "json",
	})
	if err != nil {
		return err
	}
	return decoder.Decode(input)
}

// Struct2Map converts a struct (or pointer to one) into a
// map[string]any, the inverse of Map2Struct, used when a component
// needs to re-expose its static configuration as a compose-document
// value.
func Struct2Map(source any) map[string]any {
	return structs.Map(source)
}
