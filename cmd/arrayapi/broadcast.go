package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/born-ml/arrayapi/internal/tensor"
)

type broadcastResult struct {
	Shapes []string `json:"shapes" yaml:"shapes"`
	Result string   `json:"result" yaml:"result"`
}

func newBroadcastCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "broadcast <shape>...",
		Short: "Compute the broadcast shape of array shapes",
		Long: `Broadcast right-aligns the shapes and applies NumPy broadcasting.
Shapes are written as 3,1,5 or (3, 1, 5); "" or () is a scalar.

Example:
  arrayapi broadcast 3,1,5 1,4,5
  arrayapi broadcast "(2, 3)" "()"`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			shapes := make([]tensor.Shape, len(args))
			for i, arg := range args {
				s, err := tensor.ParseShape(arg)
				if err != nil {
					return err
				}
				shapes[i] = s
			}
			plan, err := tensor.Plan(shapes...)
			if err != nil {
				return err
			}
			a.logger.Debug("broadcast", "shapes", len(shapes), "padded", plan.NeedsBroadcast())

			res := broadcastResult{Result: plan.Shape.String()}
			for _, s := range shapes {
				res.Shapes = append(res.Shapes, s.String())
			}
			return a.render(cmd.OutOrStdout(), res, func(w io.Writer) error {
				_, err := fmt.Fprintln(w, res.Result)
				return err
			})
		},
	}
}
