package output

import (
	"encoding/csv"
	"io"

	"github.com/phyten/todovet/internal/model"
)

// WriteCSV writes a header and one record per finding with CRLF line
// endings. Multi-line sources stay in a single quoted field.
func WriteCSV(w io.Writer, findings []model.Finding) error {
	cw := csv.NewWriter(w)
	cw.UseCRLF = true
	return cw.WriteAll(records(Columns, findings))
}
