package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/born-ml/arrayapi/xp"
)

const version = "v0.1.0"

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the arrayapi version and the implemented standard revision",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, err := fmt.Fprintf(cmd.OutOrStdout(), "arrayapi %s (array API %s)\n", version, xp.APIVersion)
			return err
		},
	}
}
