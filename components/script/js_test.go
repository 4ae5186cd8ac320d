package script_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lcod-team/lcod-kernel-go/components/script"
	"github.com/lcod-team/lcod-kernel-go/kernel"
)

func TestJs_EvaluatesBodyAgainstVars(t *testing.T) {
	input := map[string]any{
		"code": "return vars.a + vars.b;",
		"vars": map[string]any{"a": 1.0, "b": 2.0},
	}

	result, err := script.Js(nil, input, kernel.CallMeta{})
	require.NoError(t, err)
	assert.EqualValues(t, 3, result.(map[string]any)["result"])
}

func TestJs_MissingCodeFails(t *testing.T) {
	_, err := script.Js(nil, map[string]any{}, kernel.CallMeta{})
	require.Error(t, err)
}
