package trace

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"gopkg.in/yaml.v3"
)

// Report output formats
const (
	FormatText = "text"
	FormatJSON = "json"
	FormatYAML = "yaml"
)

// WriteReport writes records to out as an aligned table, JSON or YAML.
func WriteReport(out io.Writer, format string, records []Record) error {
	switch strings.ToLower(format) {
	case "", FormatText:
		return writeText(out, records)
	case FormatJSON:
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(records)
	case FormatYAML:
		enc := yaml.NewEncoder(out)
		enc.SetIndent(2)
		if err := enc.Encode(records); err != nil {
			return fmt.Errorf("failed to encode yaml report: %w", err)
		}
		return enc.Close()
	default:
		return fmt.Errorf("unknown output format %q", format)
	}
}

func writeText(out io.Writer, records []Record) error {
	tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "NAME\tRAW\tLABEL\tSDI\tVALUE\tSSM\tSTATUS\tPARITY")
	for _, r := range records {
		parity := fmt.Sprintf("%d", r.Parity)
		if !r.ParityValid {
			parity += " (bad)"
		}
		name := r.Name
		if name == "" {
			name = "-"
		}
		fmt.Fprintf(tw, "%s\t%d\t%s\t%d\t%d\t%02b\t%s\t%s\n",
			name, r.Raw, r.Label, r.SDI, r.Value, r.SSM, r.Status, parity)
	}
	return tw.Flush()
}
