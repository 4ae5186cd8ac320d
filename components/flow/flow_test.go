package flow_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lcod-team/lcod-kernel-go/components/flow"
	"github.com/lcod-team/lcod-kernel-go/kernel"
	"github.com/lcod-team/lcod-kernel-go/types"
)

const (
	identityId types.ComponentId = "lcod://test/identity@1"
	classifyId types.ComponentId = "lcod://test/classify@1"
)

// identity returns its input unchanged, standing in for a real
// component whenever a test only cares about binding/projection
// plumbing around a flow operator.
func identity(ctx *kernel.Context, input types.Value, meta kernel.CallMeta) (types.Value, error) {
	return input, nil
}

// classify drives the foreach control-flow scenario: even numbers are
// skipped via ContinueSignal, values over 7 terminate the loop via
// BreakSignal, everything else is echoed back under "val".
func classify(ctx *kernel.Context, input types.Value, meta kernel.CallMeta) (types.Value, error) {
	obj := types.AsObject(input)
	n, _ := obj["item"].(float64)
	item := int(n)
	switch {
	case item%2 == 0:
		return nil, kernel.ContinueSignal
	case item > 7:
		return nil, kernel.BreakSignal
	default:
		return map[string]any{"val": obj["item"]}, nil
	}
}

func newFlowContext() (*kernel.Context, *kernel.Logging) {
	reg := kernel.NewRegistry()
	flow.RegisterAll(reg)
	reg.Register(kernel.Registration{Id: identityId, Handler: identity})
	reg.Register(kernel.Registration{Id: classifyId, Handler: classify})
	logger := kernel.NewLogging(nil, types.LevelFatal+1)
	return kernel.NewContext(reg, logger, nil), logger
}

func TestForeach_CollectPath(t *testing.T) {
	ctx, logger := newFlowContext()

	steps := []types.Step{
		{
			Call:        flow.ForeachId,
			In:          map[string]any{"list": []any{1.0, 2.0, 3.0}},
			Out:         map[string]any{"results": "results"},
			CollectPath: "$.val",
			Children: map[string][]types.Step{
				"body": {
					{
						Call: identityId,
						In:   map[string]any{"item": types.SlotRef("item")},
						Out:  map[string]any{"val": "item"},
					},
				},
			},
		},
	}

	result, err := kernel.Execute(ctx, logger, steps, types.NewObject(), nil)
	require.NoError(t, err)
	assert.Equal(t, []any{1.0, 2.0, 3.0}, types.AsObject(result)["results"])
}

func TestForeach_BreakAndContinue(t *testing.T) {
	ctx, logger := newFlowContext()

	steps := []types.Step{
		{
			Call:        flow.ForeachId,
			In:          map[string]any{"list": []any{1.0, 2.0, 3.0, 8.0, 9.0}},
			Out:         map[string]any{"results": "results"},
			CollectPath: "$.val",
			Children: map[string][]types.Step{
				"body": {
					{
						Call: classifyId,
						In:   map[string]any{"item": types.SlotRef("item")},
						Out:  map[string]any{"val": "val"},
					},
				},
			},
		},
	}

	result, err := kernel.Execute(ctx, logger, steps, types.NewObject(), nil)
	require.NoError(t, err)
	assert.Equal(t, []any{1.0, 3.0}, types.AsObject(result)["results"])
}

func TestIf_MissingElseSlotReturnsEmpty(t *testing.T) {
	ctx, logger := newFlowContext()

	steps := []types.Step{
		{
			Call: flow.IfId,
			In:   map[string]any{"cond": false},
			Children: map[string][]types.Step{
				"then": {{Call: identityId}},
			},
		},
	}

	result, err := kernel.Execute(ctx, logger, steps, types.NewObject(), nil)
	require.NoError(t, err)
	assert.Empty(t, types.AsObject(result))
}

func TestTry_CatchAndFinallyMerge(t *testing.T) {
	ctx, logger := newFlowContext()

	steps := []types.Step{
		{
			Call: flow.TryId,
			Out:  map[string]any{"handled": "handled", "cleaned": "cleaned"},
			Children: map[string][]types.Step{
				"children": {
					{Call: flow.ThrowId, In: map[string]any{"code": "oops"}},
				},
				"catch": {
					{
						Call: identityId,
						In:   map[string]any{"handled": types.SlotRef("error.code")},
						Out:  map[string]any{"handled": "handled"},
					},
				},
				"finally": {
					{
						Call: identityId,
						In:   map[string]any{"cleaned": true},
						Out:  map[string]any{"cleaned": "cleaned"},
					},
				},
			},
		},
	}

	result, err := kernel.Execute(ctx, logger, steps, types.NewObject(), nil)
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"handled": "oops", "cleaned": true}, types.AsObject(result))
}

func TestWhile_MaxIterationsExceeded(t *testing.T) {
	ctx, logger := newFlowContext()

	steps := []types.Step{
		{
			Call: flow.WhileId,
			In:   map[string]any{"maxIterations": 2.0},
			Children: map[string][]types.Step{
				"condition": {
					{
						Call: identityId,
						In:   map[string]any{"continue": true},
						Out:  map[string]any{"continue": "continue"},
					},
				},
			},
		},
	}

	_, err := kernel.Execute(ctx, logger, steps, types.NewObject(), nil)
	require.Error(t, err)

	kerr, ok := err.(*types.Error)
	require.True(t, ok)
	assert.Equal(t, types.MaxIterationsExceeded, kerr.Code)
}
