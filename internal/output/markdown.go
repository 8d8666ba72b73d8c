package output

import (
	"io"
	"strings"

	"github.com/phyten/todovet/internal/model"
)

var markdownCell = strings.NewReplacer(
	"\r\n", "<br>",
	"\r", "",
	"\n", "<br>",
	"|", `\|`,
)

// WriteMarkdownTable renders findings as a GitHub Flavored Markdown table.
// Line breaks inside a cell become <br>.
func WriteMarkdownTable(w io.Writer, findings []model.Finding) error {
	rows := records(Columns, findings)
	align := make([]string, len(Columns))
	for i, c := range Columns {
		align[i] = "---"
		if c.Right {
			align[i] = "---:"
		}
	}

	var b strings.Builder
	writeRow := func(cells []string) {
		b.WriteString("|")
		for _, cell := range cells {
			b.WriteString(" ")
			b.WriteString(markdownCell.Replace(cell))
			b.WriteString(" |")
		}
		b.WriteString("\n")
	}
	writeRow(rows[0])
	b.WriteString("| " + strings.Join(align, " | ") + " |\n")
	for _, row := range rows[1:] {
		writeRow(row)
	}
	_, err := io.WriteString(w, b.String())
	return err
}
