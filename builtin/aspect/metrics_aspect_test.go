package aspect

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lcod-team/lcod-kernel-go/kernel"
	"github.com/lcod-team/lcod-kernel-go/types"
)

const testCallId types.ComponentId = "lcod://test/metrics_call@1"

func TestMetrics_CountsCallsByOutcome(t *testing.T) {
	registry := prometheus.NewRegistry()
	m, err := NewMetrics(registry)
	require.NoError(t, err)

	reg := kernel.NewRegistry()
	reg.Register(kernel.Registration{
		Id: testCallId,
		Handler: func(ctx *kernel.Context, input types.Value, meta kernel.CallMeta) (types.Value, error) {
			obj := types.AsObject(input)
			if fail, _ := obj["fail"].(bool); fail {
				return nil, &types.Error{Code: types.UnexpectedError, Message: "boom"}
			}
			return types.NewObject(), nil
		},
	})
	logger := kernel.NewLogging(nil, types.LevelFatal+1)
	ctx := kernel.NewContext(reg, logger, types.AspectList{m})

	_, err = ctx.Call(testCallId, map[string]any{}, kernel.CallMeta{})
	require.NoError(t, err)
	_, err = ctx.Call(testCallId, map[string]any{}, kernel.CallMeta{})
	require.NoError(t, err)
	_, err = ctx.Call(testCallId, map[string]any{"fail": true}, kernel.CallMeta{})
	require.Error(t, err)

	assert.Equal(t, float64(2), testutil.ToFloat64(m.requestsTotal.WithLabelValues(testCallId.String(), "ok")))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.requestsTotal.WithLabelValues(testCallId.String(), "error")))
}

// A component that recursively calls itself under the same ID must
// still have each Before paired with its own After: the started-time
// stack for that ID must be back to empty once the outermost call
// returns, proving the LIFO pairing survives recursion.
func TestMetrics_RecursiveSameIdPairsLIFO(t *testing.T) {
	registry := prometheus.NewRegistry()
	m, err := NewMetrics(registry)
	require.NoError(t, err)

	reg := kernel.NewRegistry()
	reg.Register(kernel.Registration{
		Id: testCallId,
		Handler: func(ctx *kernel.Context, input types.Value, meta kernel.CallMeta) (types.Value, error) {
			obj := types.AsObject(input)
			depth, _ := obj["depth"].(int)
			if depth <= 0 {
				return map[string]any{"done": true}, nil
			}
			return ctx.Call(testCallId, map[string]any{"depth": depth - 1}, meta)
		},
	})
	logger := kernel.NewLogging(nil, types.LevelFatal+1)
	ctx := kernel.NewContext(reg, logger, types.AspectList{m})

	result, err := ctx.Call(testCallId, map[string]any{"depth": 2}, kernel.CallMeta{})
	require.NoError(t, err)
	assert.Equal(t, true, types.AsObject(result)["done"])

	assert.Equal(t, float64(3), testutil.ToFloat64(m.requestsTotal.WithLabelValues(testCallId.String(), "ok")))

	m.mu.Lock()
	defer m.mu.Unlock()
	assert.Empty(t, m.started[testCallId])
}
