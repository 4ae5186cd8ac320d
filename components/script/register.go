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

import "github.com/lcod-team/lcod-kernel-go/kernel"

// RegisterAll registers the built-in script components on reg.
func RegisterAll(reg *kernel.Registry) {
	reg.Register(kernel.Registration{Id: JsId, Handler: Js})
	reg.Register(kernel.Registration{Id: ExprId, Handler: Expr})
}
