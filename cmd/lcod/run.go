package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/lcod-team/lcod-kernel-go/builtin/aspect"
	"github.com/lcod-team/lcod-kernel-go/kernel"
	"github.com/lcod-team/lcod-kernel-go/parser"
	"github.com/lcod-team/lcod-kernel-go/types"
)

func newRunCommand() *cobra.Command {
	var statePath string
	var metricsAddr string

	cmd := &cobra.Command{
		Use:   "run <compose-file>",
		Short: "run a compose document to completion and print its resulting state",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			raw, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("read compose file: %w", err)
			}

			doc, err := parser.Decode(raw)
			if err != nil {
				return err
			}

			normaliser := kernel.NewNormaliser(nil)
			steps, err := normaliser.NormaliseDocument(doc.Compose)
			if err != nil {
				return fmt.Errorf("normalise compose document: %w", err)
			}

			seed := types.NewObject()
			if statePath != "" {
				seedRaw, err := os.ReadFile(statePath)
				if err != nil {
					return fmt.Errorf("read seed state: %w", err)
				}
				if err := json.Unmarshal(seedRaw, &seed); err != nil {
					return fmt.Errorf("decode seed state: %w", err)
				}
			}

			aspects, err := buildAspects(metricsAddr)
			if err != nil {
				return err
			}

			logger := kernel.NewLogging(nil, logLevelFlag(cmd))
			ctx := kernel.NewContext(buildRegistry(), logger, aspects)

			result, err := kernel.Execute(ctx, logger, steps, seed, nil)
			if err != nil {
				return err
			}

			encoded, err := json.MarshalIndent(result, "", "  ")
			if err != nil {
				return fmt.Errorf("encode result state: %w", err)
			}
			cmd.Println(string(encoded))
			return nil
		},
	}

	cmd.Flags().StringVar(&statePath, "state", "", "path to a JSON file seeding the initial state (defaults to an empty object)")
	cmd.Flags().StringVar(&metricsAddr, "metrics", "", "if set, serve Prometheus metrics for this run on this address (e.g. :9090)")

	return cmd
}

// buildAspects assembles the aspect chain a run carries: the metrics
// aspect is installed whenever a metrics address is requested, the
// same opt-in instrumentation pattern the rule engine uses for its
// own prometheus aspect.
func buildAspects(metricsAddr string) (types.AspectList, error) {
	if metricsAddr == "" {
		return nil, nil
	}

	m, err := aspect.NewMetrics(prometheus.DefaultRegisterer)
	if err != nil {
		return nil, fmt.Errorf("register metrics: %w", err)
	}
	serveMetrics(metricsAddr)
	return types.AspectList{m}, nil
}
