package output

import (
	"strconv"
	"strings"

	"github.com/phyten/todovet/internal/model"
)

// Column is one field of the tabular formats.
type Column struct {
	Key    string
	Header string
	// Right aligns the column to the right in table and markdown output.
	Right bool
}

// Columns lists the fields written by the csv and markdown formats.
var Columns = []Column{
	{Key: "type", Header: "TYPE"},
	{Key: "file", Header: "FILE"},
	{Key: "line", Header: "LINE", Right: true},
	{Key: "issue", Header: "ISSUE"},
	{Key: "url", Header: "URL"},
	{Key: "source", Header: "SOURCE"},
}

func Headers(cols []Column) []string {
	out := make([]string, len(cols))
	for i, c := range cols {
		out[i] = c.Header
	}
	return out
}

// records returns the header row followed by one row per finding.
func records(cols []Column, findings []model.Finding) [][]string {
	out := make([][]string, 0, len(findings)+1)
	out = append(out, Headers(cols))
	for _, f := range findings {
		out = append(out, RowValues(f, cols))
	}
	return out
}

// RowValues returns the values of f in column order.
func RowValues(f model.Finding, cols []Column) []string {
	out := make([]string, len(cols))
	for i, c := range cols {
		out[i] = value(f, c.Key)
	}
	return out
}

func value(f model.Finding, key string) string {
	switch key {
	case "type":
		return string(f.Kind)
	case "file":
		return f.File
	case "line":
		return strconv.Itoa(f.Line)
	case "location":
		return f.File + ":" + strconv.Itoa(f.Line)
	case "issue":
		return f.IssueID
	case "url":
		return f.IssueURL
	case "source":
		return strings.Join(f.Lines, "\n")
	case "summary":
		return summary(f)
	default:
		return ""
	}
}

// summary is the first non-blank source line, trimmed.
func summary(f model.Finding) string {
	for _, line := range f.Lines {
		if s := strings.TrimSpace(line); s != "" {
			return s
		}
	}
	return ""
}
