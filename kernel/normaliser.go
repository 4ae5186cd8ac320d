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
	"fmt"
	"path"
	"strings"

	"github.com/lcod-team/lcod-kernel-go/types"
)

// Normaliser expands a raw, shorthand-laden compose document into the
// canonical []types.Step tree the engine executes. Normalisation is
// idempotent: feeding an already-canonical document back in produces
// the same tree, since every transformation here is a no-op on
// already-canonical input.
type Normaliser struct {
	Manifest *types.Manifest
}

// NewNormaliser creates a Normaliser, optionally canonicalising
// relative call IDs against manifest.
func NewNormaliser(manifest *types.Manifest) *Normaliser {
	return &Normaliser{Manifest: manifest}
}

// NormaliseDocument normalises a top-level `compose:` sequence.
func (n *Normaliser) NormaliseDocument(raw any) ([]types.Step, error) {
	return n.normaliseSteps(raw)
}

func (n *Normaliser) normaliseSteps(raw any) ([]types.Step, error) {
	if raw == nil {
		return nil, nil
	}
	seq, ok := raw.([]any)
	if !ok {
		return nil, fmt.Errorf("expected a sequence of steps, got %T", raw)
	}
	out := make([]types.Step, 0, len(seq))
	for i, item := range seq {
		m, ok := item.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("step %d: expected a mapping, got %T", i, item)
		}
		step, err := n.normaliseStep(m)
		if err != nil {
			return nil, fmt.Errorf("step %d: %w", i, err)
		}
		out = append(out, step)
	}
	return out, nil
}

// normaliseChildrenField expands the `children` shorthand: a bare
// sequence of steps is treated as the single "children" slot.
func (n *Normaliser) normaliseChildrenField(raw any) (map[string][]types.Step, error) {
	if raw == nil {
		return nil, nil
	}
	switch v := raw.(type) {
	case []any:
		steps, err := n.normaliseSteps(v)
		if err != nil {
			return nil, err
		}
		return map[string][]types.Step{"children": steps}, nil
	case map[string]any:
		out := make(map[string][]types.Step, len(v))
		for slot, body := range v {
			steps, err := n.normaliseSteps(body)
			if err != nil {
				return nil, fmt.Errorf("slot %q: %w", slot, err)
			}
			out[slot] = steps
		}
		return out, nil
	default:
		return nil, fmt.Errorf("children: expected a sequence or mapping, got %T", raw)
	}
}

func (n *Normaliser) normaliseStep(m map[string]any) (types.Step, error) {
	callRaw, _ := m["call"].(string)
	if callRaw == "" {
		return types.Step{}, fmt.Errorf("step missing required \"call\"")
	}
	call := n.canonicaliseCallId(callRaw)

	children, err := n.normaliseChildrenField(m["children"])
	if err != nil {
		return types.Step{}, err
	}

	in, inSpreads, err := n.normaliseBindingMap(m["in"])
	if err != nil {
		return types.Step{}, fmt.Errorf("in: %w", err)
	}
	out, outSpreads, err := n.normaliseProjectionMap(m["out"])
	if err != nil {
		return types.Step{}, fmt.Errorf("out: %w", err)
	}

	collectPath, _ := m["collectPath"].(string)

	return types.Step{
		Call:        call,
		In:          in,
		InSpreads:   inSpreads,
		Out:         out,
		OutSpreads:  outSpreads,
		Children:    children,
		CollectPath: collectPath,
	}, nil
}

// canonicaliseCallId rewrites a relative call ID against the
// manifest's base path, default version and scope aliases, leaving
// already-absolute `lcod://` IDs untouched.
func (n *Normaliser) canonicaliseCallId(raw string) types.ComponentId {
	if n.Manifest == nil || strings.HasPrefix(raw, "lcod://") {
		return types.ComponentId(raw).Normalise()
	}

	scoped := raw
	for alias, target := range n.Manifest.Aliases {
		if strings.HasPrefix(raw, alias+"/") {
			scoped = target + "/" + strings.TrimPrefix(raw, alias+"/")
			break
		}
	}

	full := "lcod://" + path.Join(n.Manifest.BasePath, scoped)
	if !strings.Contains(scoped, "@") && n.Manifest.Version != "" {
		full = full + "@" + n.Manifest.Version
	}
	return types.ComponentId(full).Normalise()
}

// normaliseBindingMap expands an `in` mapping: "=" identity shorthand,
// trailing-"?" optional markers, and "..."/"...<name>" spread keys.
func (n *Normaliser) normaliseBindingMap(raw any) (map[string]any, []types.Spread, error) {
	if raw == nil {
		return nil, nil, nil
	}
	m, ok := raw.(map[string]any)
	if !ok {
		return nil, nil, fmt.Errorf("expected a mapping, got %T", raw)
	}

	out := make(map[string]any, len(m))
	var spreads []types.Spread
	for key, val := range m {
		if key == "..." || strings.HasPrefix(key, "...") {
			spread, err := n.normaliseSpread(key, val)
			if err != nil {
				return nil, nil, err
			}
			spreads = append(spreads, spread)
			continue
		}

		name, optional := splitOptional(key)
		bound := n.resolveBindingValue(val, name)
		if optional {
			bound = types.Optional{Value: bound}
		}
		out[name] = bound
	}
	if len(out) == 0 {
		out = nil
	}
	return out, spreads, nil
}

// resolveBindingValue turns one raw `in` value into its canonical
// binding-value shape. key is the destination parameter name, used to
// expand the "=" identity shorthand to "$.<key>".
func (n *Normaliser) resolveBindingValue(val any, key string) any {
	if s, ok := val.(string); ok {
		switch {
		case s == "=":
			return types.PathRef(key)
		case s == "__lcod_state__":
			return types.StateWhole{}
		case strings.HasPrefix(s, "$slot."):
			return types.SlotRef(strings.TrimPrefix(s, "$slot."))
		case strings.HasPrefix(s, "$."):
			return types.PathRef(strings.TrimPrefix(s, "$."))
		default:
			return s
		}
	}
	if m, ok := val.(map[string]any); ok {
		if _, hasCall := m["call"]; hasCall {
			// A nested step definition is passed through unresolved so
			// handlers can evaluate it themselves as a sub-plan.
			return m
		}
		resolved := make(map[string]any, len(m))
		for k, v := range m {
			resolved[k] = n.resolveBindingValue(v, k)
		}
		return resolved
	}
	if seq, ok := val.([]any); ok {
		resolved := make([]any, len(seq))
		for i, v := range seq {
			resolved[i] = n.resolveBindingValue(v, key)
		}
		return resolved
	}
	return val
}

// normaliseProjectionMap expands an `out` mapping: "=" identity
// shorthand (alias maps to itself), trailing-"?" optional markers, and
// spread keys.
func (n *Normaliser) normaliseProjectionMap(raw any) (map[string]any, []types.Spread, error) {
	if raw == nil {
		return nil, nil, nil
	}
	m, ok := raw.(map[string]any)
	if !ok {
		return nil, nil, fmt.Errorf("expected a mapping, got %T", raw)
	}

	out := make(map[string]any, len(m))
	var spreads []types.Spread
	for key, val := range m {
		if key == "..." || strings.HasPrefix(key, "...") {
			spread, err := n.normaliseSpread(key, val)
			if err != nil {
				return nil, nil, err
			}
			spreads = append(spreads, spread)
			continue
		}

		name, optional := splitOptional(key)
		var proj any
		if s, ok := val.(string); ok && s == "=" {
			proj = name
		} else {
			proj = val
		}
		if optional {
			proj = types.Optional{Value: proj}
		}
		out[name] = proj
	}
	if len(out) == 0 {
		out = nil
	}
	return out, spreads, nil
}

// normaliseSpread turns one "..."/"...<name>" entry into a
// types.Spread descriptor. val may be a bare binding value (taken as
// the source with no pick/optional) or a mapping with
// source/pick/optional fields.
func (n *Normaliser) normaliseSpread(key string, val any) (types.Spread, error) {
	name := strings.TrimPrefix(key, "...")

	if m, ok := val.(map[string]any); ok {
		if _, hasSource := m["source"]; hasSource {
			spread := types.Spread{Name: name, Source: n.resolveBindingValue(m["source"], name)}
			if pick, ok := m["pick"].([]any); ok {
				for _, p := range pick {
					if s, ok := p.(string); ok {
						spread.Pick = append(spread.Pick, s)
					}
				}
			}
			if opt, ok := m["optional"].(bool); ok {
				spread.Optional = opt
			}
			return spread, nil
		}
	}

	return types.Spread{Name: name, Source: n.resolveBindingValue(val, name)}, nil
}

// splitOptional strips a trailing "?" from a key, reporting whether it
// was present.
func splitOptional(key string) (name string, optional bool) {
	if strings.HasSuffix(key, "?") {
		return strings.TrimSuffix(key, "?"), true
	}
	return key, false
}
