package output

import (
	"io"
	"strings"

	"github.com/phyten/todovet/internal/model"
	"github.com/phyten/todovet/internal/termcolor"
	"github.com/phyten/todovet/internal/textutil"
)

const (
	tableGap         = "  "
	tableSourceWidth = 72
)

var tableColumns = []Column{
	{Key: "type", Header: "TYPE"},
	{Key: "location", Header: "LOCATION"},
	{Key: "issue", Header: "ISSUE", Right: true},
	{Key: "summary", Header: "SOURCE"},
}

// WriteTable renders an aligned plain-text table. Widths are measured in
// terminal cells so wide characters and colors do not break alignment.
func WriteTable(w io.Writer, findings []model.Finding, p termcolor.Painter) error {
	rows := records(tableColumns, findings)
	last := len(tableColumns) - 1
	for _, row := range rows[1:] {
		row[last] = textutil.TruncateByWidth(row[last], tableSourceWidth, "…")
	}
	widths := textutil.MaxWidths(rows)

	var b strings.Builder
	for ri, row := range rows {
		if ri == 0 {
			for i := range row {
				row[i] = p.Header(row[i])
			}
		} else {
			row[0] = p.Kind(findings[ri-1].Kind, row[0])
		}
		writeTableRow(&b, row, widths)
	}
	_, err := io.WriteString(w, b.String())
	return err
}

func writeTableRow(b *strings.Builder, cells []string, widths []int) {
	for i, cell := range cells {
		switch {
		case i == len(cells)-1:
			b.WriteString(cell)
		case tableColumns[i].Right:
			b.WriteString(textutil.PadLeft(cell, widths[i]))
		default:
			b.WriteString(textutil.PadRight(cell, widths[i]))
		}
		if i < len(cells)-1 {
			b.WriteString(tableGap)
		}
	}
	b.WriteByte('\n')
}
