package main

import (
	"fmt"
	"io"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/born-ml/arrayapi/xp"
)

type promoteResult struct {
	Operands []string `json:"operands" yaml:"operands"`
	Result   string   `json:"result" yaml:"result"`
}

func newPromoteCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "promote <dtype|scalar>...",
		Short: "Resolve the result dtype of combining dtypes and host scalars",
		Long: `Promote folds the given dtypes through the promotion lattice. Host
scalars (true, 3, 2.5, 1+2i) adopt the dtype the other operands promote to;
at least one operand must be a dtype.

Example:
  arrayapi promote int8 uint8
  arrayapi promote float32 2.5
  arrayapi promote int64 uint64`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			operands := make([]any, len(args))
			for i, arg := range args {
				v, err := parseOperand(arg)
				if err != nil {
					return err
				}
				operands[i] = v
			}
			dt, err := a.ns.ResultType(operands...)
			if err != nil {
				return err
			}
			res := promoteResult{Operands: args, Result: dt.String()}
			return a.render(cmd.OutOrStdout(), res, func(w io.Writer) error {
				_, err := fmt.Fprintln(w, res.Result)
				return err
			})
		},
	}
}

// parseOperand reads a dtype name or a host scalar literal.
func parseOperand(arg string) (any, error) {
	if dt, err := xp.ParseDataType(arg); err == nil {
		return dt, nil
	}
	switch arg {
	case "true":
		return true, nil
	case "false":
		return false, nil
	}
	if i, err := strconv.ParseInt(arg, 10, 64); err == nil {
		return i, nil
	}
	if f, err := strconv.ParseFloat(arg, 64); err == nil {
		return f, nil
	}
	if c, err := strconv.ParseComplex(arg, 128); err == nil {
		return c, nil
	}
	return nil, fmt.Errorf("%q is neither a dtype nor a number", arg)
}
