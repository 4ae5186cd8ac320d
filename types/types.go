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

// Package types defines the core data structures and contracts shared
// across the composition kernel: values, component identifiers, the
// compose-document DSL, registry and aspect interfaces, structured
// logging, and the error taxonomy.
//
// 包 types 定义了组合内核共享的核心数据结构和契约：值、组件标识符、
// 组合文档 DSL、注册表与切面接口、结构化日志以及错误分类。
package types

// Configuration is a free-form, string-keyed bag used for a
// component's static configuration block, as opposed to its per-call
// input.
type Configuration map[string]any

// Copy creates a shallow copy of the Configuration.
func (c Configuration) Copy() Configuration {
	if c == nil {
		return nil
	}
	out := make(Configuration, len(c))
	for key, value := range c {
		out[key] = value
	}
	return out
}
