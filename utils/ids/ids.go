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

// Package ids generates run identifiers, the same uuid-backed scheme
// the message envelope used for message IDs. The kernel's execution
// context does not call it; log records carry no run identifier.
package ids

import "github.com/gofrs/uuid/v5"

// NewRunId returns a fresh v4 UUID string, or a zero-UUID string in
// the (practically unreachable) case the platform's random source
// fails.
func NewRunId() string {
	id, err := uuid.NewV4()
	if err != nil {
		return uuid.Nil.String()
	}
	return id.String()
}
