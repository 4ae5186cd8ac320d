package main

import (
	"github.com/lcod-team/lcod-kernel-go/components/flow"
	"github.com/lcod-team/lcod-kernel-go/components/script"
	"github.com/lcod-team/lcod-kernel-go/components/stream"
	"github.com/lcod-team/lcod-kernel-go/kernel"
)

// buildRegistry assembles a registry carrying every built-in
// component: the flow operators, the script components, and the
// stream components.
func buildRegistry() *kernel.Registry {
	reg := kernel.NewRegistry()
	flow.RegisterAll(reg)
	script.RegisterAll(reg)
	stream.RegisterAll(reg)
	return reg
}
