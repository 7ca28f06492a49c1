package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/born-ml/arrayapi/xp"
)

type castResult struct {
	From    string `json:"from" yaml:"from"`
	To      string `json:"to" yaml:"to"`
	CanCast bool   `json:"can_cast" yaml:"can_cast"`
}

func newCastCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "cast <from> <to>",
		Short: "Report whether one dtype casts to another under the promotion rules",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			from, err := xp.ParseDataType(args[0])
			if err != nil {
				return err
			}
			to, err := xp.ParseDataType(args[1])
			if err != nil {
				return err
			}
			res := castResult{From: from.String(), To: to.String(), CanCast: a.ns.CanCast(from, to)}
			return a.render(cmd.OutOrStdout(), res, func(w io.Writer) error {
				_, err := fmt.Fprintln(w, res.CanCast)
				return err
			})
		},
	}
}
