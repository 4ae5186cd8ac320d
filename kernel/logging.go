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
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/lcod-team/lcod-kernel-go/types"
)

// Logging is the pluggable structured-logging facade. When no custom
// Sink is bound it serialises one JSON record per line, routing
// info/debug to stdout and warn/error/fatal to stderr, matching the
// external log record schema.
type Logging struct {
	Sink     types.Logger
	MinLevel types.Level
}

// NewLogging creates a facade defaulting to the built-in line sink.
func NewLogging(sink types.Logger, minLevel types.Level) *Logging {
	return &Logging{Sink: sink, MinLevel: minLevel}
}

// Emit writes one record, merging ctx's current log-tag scope into
// rec.Tags, and suppresses records below the configured minimum level
// when no custom sink has been bound.
func (l *Logging) Emit(ctx *Context, rec types.LogRecord) {
	if rec.Timestamp.IsZero() {
		rec.Timestamp = time.Now().UTC()
	}
	if ctx != nil {
		merged := ctx.mergedLogTags()
		for k, v := range rec.Tags {
			merged[k] = v
		}
		rec.Tags = merged
	}

	if l.Sink != nil {
		l.Sink.Log(rec)
		return
	}

	if rec.Level < l.MinLevel {
		return
	}
	writeLine(rec)
}

func writeLine(rec types.LogRecord) {
	out := os.Stdout
	if rec.Level >= types.LevelWarn {
		out = os.Stderr
	}

	line := map[string]any{
		"level":     rec.Level.String(),
		"message":   rec.Message,
		"timestamp": rec.Timestamp.Format(time.RFC3339Nano),
	}
	if rec.Data != nil {
		line["data"] = rec.Data
	}
	if rec.Err != nil {
		line["error"] = rec.Err.Error()
	}
	if len(rec.Tags) > 0 {
		line["tags"] = rec.Tags
	}

	encoded, err := json.Marshal(line)
	if err != nil {
		fmt.Fprintf(out, `{"level":"error","message":"log encode failed: %s"}`+"\n", err)
		return
	}
	fmt.Fprintln(out, string(encoded))
}
