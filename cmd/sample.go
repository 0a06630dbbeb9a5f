package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/df07/go-model-thumbnailer/pkg/samples"
)

func newSampleCmd() *cobra.Command {
	var cells int

	cmd := &cobra.Command{
		Use:   "sample <dir>",
		Short: "Write a small set of demonstration models to try the thumbnailer on",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			paths, err := samples.Generate(args[0], cells)
			if err != nil {
				return &exitError{code: ExitUsage, err: err}
			}
			for _, path := range paths {
				fmt.Fprintf(cmd.OutOrStdout(), "✅ Wrote %s\n", path)
			}
			return nil
		},
	}

	cmd.Flags().IntVar(&cells, "cells", samples.DefaultMeshCells, "Marching cubes cells along the longest axis")
	return cmd
}
