package main

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/born-ml/arrayapi/xp"
)

type intInfo struct {
	DType string `json:"dtype" yaml:"dtype"`
	Bits  int    `json:"bits" yaml:"bits"`
	Min   int64  `json:"min" yaml:"min"`
	Max   uint64 `json:"max" yaml:"max"`
}

type floatInfo struct {
	DType             string  `json:"dtype" yaml:"dtype"`
	Bits              int     `json:"bits" yaml:"bits"`
	Eps               float64 `json:"eps" yaml:"eps"`
	Max               float64 `json:"max" yaml:"max"`
	Min               float64 `json:"min" yaml:"min"`
	SmallestNormal    float64 `json:"smallest_normal" yaml:"smallest_normal"`
	SmallestSubnormal float64 `json:"smallest_subnormal" yaml:"smallest_subnormal"`
}

func newInfoCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "info <dtype>",
		Short: "Print iinfo for integer dtypes or finfo for floating dtypes",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dt, err := xp.ParseDataType(args[0])
			if err != nil {
				return err
			}
			integral, err := a.ns.IsDType(dt, xp.KindIntegral)
			if err != nil {
				return err
			}
			if integral {
				info, err := a.ns.IInfo(dt)
				if err != nil {
					return err
				}
				res := intInfo{DType: dt.String(), Bits: info.Bits, Min: info.Min, Max: info.Max}
				return a.render(cmd.OutOrStdout(), res, func(w io.Writer) error {
					return writeRows(w, [][2]any{
						{"dtype", res.DType}, {"bits", res.Bits}, {"min", res.Min}, {"max", res.Max},
					})
				})
			}

			info, err := a.ns.FInfo(dt)
			if err != nil {
				return err
			}
			res := floatInfo{
				DType: dt.String(), Bits: info.Bits, Eps: info.Eps, Max: info.Max, Min: info.Min,
				SmallestNormal: info.SmallestNormal, SmallestSubnormal: info.SmallestSubnormal,
			}
			return a.render(cmd.OutOrStdout(), res, func(w io.Writer) error {
				return writeRows(w, [][2]any{
					{"dtype", res.DType}, {"bits", res.Bits}, {"eps", res.Eps}, {"max", res.Max},
					{"min", res.Min}, {"smallest_normal", res.SmallestNormal},
					{"smallest_subnormal", res.SmallestSubnormal},
				})
			})
		},
	}
}

func writeRows(w io.Writer, rows [][2]any) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	for _, r := range rows {
		fmt.Fprintf(tw, "%v\t%v\n", r[0], r[1])
	}
	return tw.Flush()
}
