// Package output renders findings in the formats accepted by --format.
package output

import (
	"fmt"
	"io"

	"github.com/phyten/todovet/internal/model"
	"github.com/phyten/todovet/internal/termcolor"
)

// Write renders findings in format. Only standard and table use p.
func Write(w io.Writer, format string, findings []model.Finding, p termcolor.Painter) error {
	switch format {
	case "", "standard":
		return WriteStandard(w, findings, p)
	case "json":
		return WriteJSON(w, findings)
	case "ndjson":
		return WriteNDJSON(w, findings)
	case "csv":
		return WriteCSV(w, findings)
	case "markdown":
		return WriteMarkdownTable(w, findings)
	case "table":
		return WriteTable(w, findings, p)
	default:
		return fmt.Errorf("unrecognized output format: %s", format)
	}
}

// ToStderr reports whether format is written to stderr instead of stdout.
func ToStderr(format string) bool {
	return format == "" || format == "standard"
}
