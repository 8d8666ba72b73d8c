package output

import (
	"fmt"
	"io"
	"strings"

	"github.com/phyten/todovet/internal/model"
	"github.com/phyten/todovet/internal/termcolor"
)

// WriteStandard writes one ERROR block per finding followed by a blank line:
//
//	ERROR: Malformed todo
//	main.go:12: // TODO fix this
//		> TODO should match pattern - TODO {task_id}:
func WriteStandard(w io.Writer, findings []model.Finding, p termcolor.Painter) error {
	var b strings.Builder
	for _, f := range findings {
		b.Reset()
		b.WriteString(p.Kind(f.Kind, "ERROR: "+string(f.Kind)))
		b.WriteByte('\n')
		for i, line := range f.Lines {
			fmt.Fprintf(&b, "%s: %s\n", p.Location(fmt.Sprintf("%s:%d", f.File, f.Line+i)), line)
		}
		switch {
		case f.Kind == model.FindingMalformed:
			b.WriteString(p.Hint("\t> " + model.MalformedHint))
			b.WriteByte('\n')
		case f.IssueURL != "":
			b.WriteString(p.Hint("\t> " + f.IssueURL))
			b.WriteByte('\n')
		}
		b.WriteByte('\n')
		if _, err := io.WriteString(w, b.String()); err != nil {
			return err
		}
	}
	return nil
}
