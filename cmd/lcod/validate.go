package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/lcod-team/lcod-kernel-go/kernel"
	"github.com/lcod-team/lcod-kernel-go/parser"
)

func newValidateCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate <compose-file>",
		Short: "decode and normalise a compose document without running it",
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
				return err
			}

			cmd.Printf("ok: %d top-level step(s)\n", len(steps))
			return nil
		},
	}
	return cmd
}
