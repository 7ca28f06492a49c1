package main

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/born-ml/arrayapi/internal/dispatch"
	"github.com/born-ml/arrayapi/internal/tensor"
)

type opEntry struct {
	Name       string   `json:"name" yaml:"name"`
	Group      string   `json:"group" yaml:"group"`
	Arity      string   `json:"arity" yaml:"arity"`
	Categories []string `json:"categories" yaml:"categories"`
	Scalars    bool     `json:"scalars" yaml:"scalars"`
	Result     string   `json:"result" yaml:"result"`
}

func newOpsCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "ops [group]",
		Short: "List the operations of the namespace with their dtype rules",
		Long: `Ops prints the operation catalog: arity, the dtype categories accepted
at each operand position, and how the result dtype is derived.

Groups: creation, data types, elementwise, indexing, linear algebra,
manipulation, searching, statistical, utility.

Example:
  arrayapi ops
  arrayapi ops "linear algebra"
  arrayapi ops statistical --format json`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var group dispatch.Group
			if len(args) == 1 {
				group = dispatch.Group(strings.ToLower(args[0]))
			}
			entries, err := catalog(group)
			if err != nil {
				return err
			}
			return a.render(cmd.OutOrStdout(), entries, func(w io.Writer) error {
				return writeCatalog(w, entries)
			})
		},
	}
}

// catalog lists the operations of group, or of every group when group is
// empty.
func catalog(group dispatch.Group) ([]opEntry, error) {
	var (
		out    []opEntry
		groups []string
		seen   = map[dispatch.Group]bool{}
	)
	for _, op := range dispatch.Ops() {
		if !seen[op.Group] {
			seen[op.Group] = true
			groups = append(groups, string(op.Group))
		}
		if group != "" && op.Group != group {
			continue
		}
		out = append(out, opEntry{
			Name:       op.Name,
			Group:      string(op.Group),
			Arity:      arity(op),
			Categories: gateNames(op),
			Scalars:    op.Scalars,
			Result:     op.Result.String(),
		})
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("unknown group %q (valid: %s)", group, strings.Join(groups, ", "))
	}
	return out, nil
}

func writeCatalog(w io.Writer, entries []opEntry) error {
	title := cases.Title(language.English)
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	for i, e := range entries {
		if i == 0 || entries[i-1].Group != e.Group {
			if err := tw.Flush(); err != nil {
				return err
			}
			if i > 0 {
				fmt.Fprintln(w)
			}
			fmt.Fprintln(w, title.String(e.Group))
		}
		fmt.Fprintf(tw, "  %s\t%s\t%s\t%s\n", e.Name, e.Arity, strings.Join(e.Categories, ", "), e.Result)
	}
	return tw.Flush()
}

func arity(op *dispatch.Op) string {
	switch {
	case op.MaxArgs < 0:
		return fmt.Sprintf("%d+", op.MinArgs)
	case op.MinArgs == op.MaxArgs:
		return fmt.Sprint(op.MinArgs)
	default:
		return fmt.Sprintf("%d-%d", op.MinArgs, op.MaxArgs)
	}
}

var kindLabels = map[tensor.CategorySet]string{
	tensor.KindAll:          "any",
	tensor.KindNumeric:      "numeric",
	tensor.KindRealNumeric:  "real numeric",
	tensor.KindFloating:     "floating",
	tensor.KindRealFloating: "real floating",
	tensor.KindComplex:      "complex floating",
	tensor.KindIntegral:     "integral",
	tensor.KindIntegralBool: "integral or bool",
	tensor.KindBool:         "bool",
}

func gateNames(op *dispatch.Op) []string {
	gates := op.Gates
	if len(gates) == 0 {
		gates = []tensor.CategorySet{tensor.KindAll}
	}
	names := make([]string, len(gates))
	for i, g := range gates {
		if label, ok := kindLabels[g]; ok {
			names[i] = label
		} else {
			names[i] = g.String()
		}
	}
	return names
}
