package kernel

import (
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lcod-team/lcod-kernel-go/types"
)

func TestNormaliser_IdentityShorthand(t *testing.T) {
	n := NewNormaliser(nil)
	raw := []any{
		map[string]any{
			"call": "lcod://test/echo@1",
			"in":   map[string]any{"k": "="},
			"out":  map[string]any{"k": "="},
		},
	}

	steps, err := n.NormaliseDocument(raw)
	require.NoError(t, err)
	require.Len(t, steps, 1)

	assert.Equal(t, types.PathRef("k"), steps[0].In["k"])
	assert.Equal(t, "k", steps[0].Out["k"])
}

func TestNormaliser_OptionalProjectionDrop(t *testing.T) {
	n := NewNormaliser(nil)
	raw := []any{
		map[string]any{
			"call": "lcod://test/echo@1",
			"out":  map[string]any{"k?": "x"},
		},
	}

	steps, err := n.NormaliseDocument(raw)
	require.NoError(t, err)

	proj, ok := steps[0].Out["k"]
	require.True(t, ok)
	opt, ok := proj.(types.Optional)
	require.True(t, ok)
	assert.Equal(t, "x", opt.Value)
}

func TestNormaliser_SpreadPick(t *testing.T) {
	n := NewNormaliser(nil)
	raw := []any{
		map[string]any{
			"call": "lcod://test/echo@1",
			"in": map[string]any{
				"...": "$.payload",
				"...lock": map[string]any{
					"source": "$.lock",
					"pick":   []any{"a", "b"},
				},
			},
		},
	}

	steps, err := n.NormaliseDocument(raw)
	require.NoError(t, err)
	require.Len(t, steps[0].InSpreads, 2)

	byName := map[string]types.Spread{}
	for _, s := range steps[0].InSpreads {
		byName[s.Name] = s
	}
	require.Contains(t, byName, "")
	require.Contains(t, byName, "lock")
	assert.Empty(t, byName[""].Pick)
	assert.Equal(t, []string{"a", "b"}, byName["lock"].Pick)
}

func TestNormaliser_RepeatableOnSameInput(t *testing.T) {
	n := NewNormaliser(nil)
	raw := []any{
		map[string]any{
			"call": "lcod://flow/if@1",
			"in":   map[string]any{"cond": "=", "k?": "$slot.item"},
			"out":  map[string]any{"k": "="},
			"children": map[string]any{
				"then": []any{
					map[string]any{"call": "lcod://test/echo@1"},
				},
			},
		},
	}

	// Re-normalising the same raw shorthand document twice must
	// produce identical canonical trees.
	first, err := n.NormaliseDocument(raw)
	require.NoError(t, err)
	second, err := n.NormaliseDocument(raw)
	require.NoError(t, err)

	assert.True(t, reflect.DeepEqual(first, second))
}

func TestNormaliser_ChildrenShorthand(t *testing.T) {
	n := NewNormaliser(nil)
	raw := []any{
		map[string]any{
			"call": "lcod://flow/try@1",
			"children": []any{
				map[string]any{"call": "lcod://test/echo@1"},
			},
		},
	}

	steps, err := n.NormaliseDocument(raw)
	require.NoError(t, err)
	require.Len(t, steps[0].Children["children"], 1)
}

func TestNormaliser_RelativeCallIdAgainstManifest(t *testing.T) {
	n := NewNormaliser(&types.Manifest{BasePath: "acme/widgets", Version: "2"})
	raw := []any{
		map[string]any{"call": "do/thing"},
	}

	steps, err := n.NormaliseDocument(raw)
	require.NoError(t, err)
	assert.Equal(t, types.ComponentId("lcod://acme/widgets/do/thing@2"), steps[0].Call)
}
