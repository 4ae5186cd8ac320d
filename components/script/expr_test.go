package script_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lcod-team/lcod-kernel-go/components/script"
	"github.com/lcod-team/lcod-kernel-go/kernel"
)

func TestExpr_EvaluatesAgainstVars(t *testing.T) {
	input := map[string]any{
		"expr": "a > b",
		"vars": map[string]any{"a": 2, "b": 1},
	}

	result, err := script.Expr(nil, input, kernel.CallMeta{})
	require.NoError(t, err)
	assert.Equal(t, true, result.(map[string]any)["result"])
}

func TestExpr_MissingExprFails(t *testing.T) {
	_, err := script.Expr(nil, map[string]any{}, kernel.CallMeta{})
	require.Error(t, err)
}
