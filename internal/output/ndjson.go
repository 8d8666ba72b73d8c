package output

import (
	"encoding/json"
	"io"

	"github.com/phyten/todovet/internal/model"
)

// WriteNDJSON writes one JSON object per line. No findings print nothing.
func WriteNDJSON(w io.Writer, findings []model.Finding) error {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	for i := range findings {
		if err := enc.Encode(withMetadata(findings[i])); err != nil {
			return err
		}
	}
	return nil
}
