package main

import (
	"github.com/spf13/cobra"

	"github.com/born-ml/arrayapi/internal/tensor"
)

type tableEntry struct {
	A      string `json:"a" yaml:"a"`
	B      string `json:"b" yaml:"b"`
	Result string `json:"result,omitempty" yaml:"result,omitempty"`
}

func newTableCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "table",
		Short: "Print the dtype promotion table",
		Long: `Table prints the result of promoting every ordered pair of dtypes.
Pairs without a common type show "-" (text) or no result (json, yaml).`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			entries := tensor.PromotionTable()
			out := make([]tableEntry, len(entries))
			for i, e := range entries {
				out[i] = tableEntry{A: e.A.String(), B: e.B.String()}
				if e.OK {
					out[i].Result = e.Result.String()
				}
			}
			return a.render(cmd.OutOrStdout(), out, tensor.WritePromotionTable)
		},
	}
}
