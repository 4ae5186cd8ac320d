package kernel_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lcod-team/lcod-kernel-go/kernel"
	"github.com/lcod-team/lcod-kernel-go/types"
)

const (
	demoContractId types.ComponentId = "lcod://contract/demo@1"
	baseImplId     types.ComponentId = "lcod://impl/base@1"
	scopedImplId   types.ComponentId = "lcod://impl/scoped@1"
)

func newScopedRegistry() *kernel.Registry {
	reg := kernel.NewRegistry()
	reg.Register(kernel.Registration{
		Id: baseImplId,
		Handler: func(ctx *kernel.Context, input types.Value, meta kernel.CallMeta) (types.Value, error) {
			return map[string]any{"result": "base"}, nil
		},
	})
	reg.Register(kernel.Registration{
		Id: scopedImplId,
		Handler: func(ctx *kernel.Context, input types.Value, meta kernel.CallMeta) (types.Value, error) {
			return map[string]any{"result": "scoped"}, nil
		},
	})
	reg.SetBindings(map[types.ComponentId]types.ComponentId{demoContractId: baseImplId})
	return reg
}

func TestContext_RegistryScopeOverridesAndRestores(t *testing.T) {
	reg := newScopedRegistry()
	logger := kernel.NewLogging(nil, types.LevelFatal+1)
	ctx := kernel.NewContext(reg, logger, nil)

	result, err := ctx.Call(demoContractId, nil, kernel.CallMeta{})
	require.NoError(t, err)
	assert.Equal(t, "base", types.AsObject(result)["result"])

	ctx.EnterRegistryScope(map[types.ComponentId]types.ComponentId{demoContractId: scopedImplId})
	result, err = ctx.Call(demoContractId, nil, kernel.CallMeta{})
	require.NoError(t, err)
	assert.Equal(t, "scoped", types.AsObject(result)["result"])

	ctx.LeaveRegistryScope()
	result, err = ctx.Call(demoContractId, nil, kernel.CallMeta{})
	require.NoError(t, err)
	assert.Equal(t, "base", types.AsObject(result)["result"])
}

// A scope entered on one context sharing a registry with another must
// never be observable from that other context — the overlay lives on
// Context, not on the shared Registry.
func TestContext_RegistryScopeDoesNotLeakAcrossContexts(t *testing.T) {
	reg := newScopedRegistry()
	logger := kernel.NewLogging(nil, types.LevelFatal+1)

	ctxA := kernel.NewContext(reg, logger, nil)
	ctxB := kernel.NewContext(reg, logger, nil)

	ctxA.EnterRegistryScope(map[types.ComponentId]types.ComponentId{demoContractId: scopedImplId})

	resultA, err := ctxA.Call(demoContractId, nil, kernel.CallMeta{})
	require.NoError(t, err)
	assert.Equal(t, "scoped", types.AsObject(resultA)["result"])

	resultB, err := ctxB.Call(demoContractId, nil, kernel.CallMeta{})
	require.NoError(t, err)
	assert.Equal(t, "base", types.AsObject(resultB)["result"], "ctxB must see the registry's global binding, unaffected by ctxA's scope")

	ctxA.LeaveRegistryScope()
}

func TestContext_CleanupRunsInLIFOOrder(t *testing.T) {
	reg := kernel.NewRegistry()
	logger := kernel.NewLogging(nil, types.LevelFatal+1)
	ctx := kernel.NewContext(reg, logger, nil)

	var order []int
	ctx.PushCleanupScope()
	ctx.Defer(func() { order = append(order, 1) })
	ctx.Defer(func() { order = append(order, 2) })
	ctx.Defer(func() { order = append(order, 3) })
	ctx.PopCleanupScope()

	assert.Equal(t, []int{3, 2, 1}, order)
}

func TestContext_CancelledExecutionNeverInvokesHandler(t *testing.T) {
	reg := kernel.NewRegistry()
	called := false
	reg.Register(kernel.Registration{
		Id: baseImplId,
		Handler: func(ctx *kernel.Context, input types.Value, meta kernel.CallMeta) (types.Value, error) {
			called = true
			return types.NewObject(), nil
		},
	})
	logger := kernel.NewLogging(nil, types.LevelFatal+1)
	ctx := kernel.NewContext(reg, logger, nil)
	ctx.Cancel()

	steps := []types.Step{{Call: baseImplId}}
	_, err := kernel.Execute(ctx, logger, steps, types.NewObject(), nil)

	require.Error(t, err)
	assert.True(t, types.IsCancelled(err))
	assert.False(t, called)
}
