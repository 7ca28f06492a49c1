package main

import (
	"encoding/json"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"
)

// Output formats.
const (
	formatText = "text"
	formatJSON = "json"
	formatYAML = "yaml"
)

// render writes v as JSON or YAML, or calls text for the text format.
func (a *app) render(w io.Writer, v any, text func(io.Writer) error) error {
	switch a.format {
	case formatJSON:
		out, err := json.MarshalIndent(v, "", "  ")
		if err != nil {
			return fmt.Errorf("marshal json: %w", err)
		}
		_, err = fmt.Fprintln(w, string(out))
		return err
	case formatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return fmt.Errorf("marshal yaml: %w", err)
		}
		return enc.Close()
	default:
		return text(w)
	}
}
