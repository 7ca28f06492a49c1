package tensor

import (
	"fmt"
	"io"
	"strings"
)

const tableCellWidth = 11

// WritePromotionTable renders the promotion table as a fixed-width grid, one
// row per left operand. Pairs without a common type are shown as "-".
func WritePromotionTable(w io.Writer) error {
	all := DataTypes()
	var b strings.Builder

	row := func(cells []string) {
		var line strings.Builder
		for _, c := range cells {
			fmt.Fprintf(&line, "%-*s", tableCellWidth, c)
		}
		b.WriteString(strings.TrimRight(line.String(), " "))
		b.WriteByte('\n')
	}

	header := make([]string, 0, len(all)+1)
	header = append(header, "")
	for _, dt := range all {
		header = append(header, dt.String())
	}
	row(header)

	for _, a := range all {
		cells := make([]string, 0, len(all)+1)
		cells = append(cells, a.String())
		for _, other := range all {
			if r, err := Resolve(a, other); err == nil {
				cells = append(cells, r.String())
			} else {
				cells = append(cells, "-")
			}
		}
		row(cells)
	}

	_, err := io.WriteString(w, b.String())
	return err
}
