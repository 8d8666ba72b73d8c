package output

import (
	"encoding/json"
	"io"

	"github.com/phyten/todovet/internal/model"
)

// WriteJSON writes findings as a single JSON array. No findings print "[]".
func WriteJSON(w io.Writer, findings []model.Finding) error {
	out := make([]model.Finding, 0, len(findings))
	for _, f := range findings {
		out = append(out, withMetadata(f))
	}
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	return enc.Encode(out)
}

// withMetadata makes sure metadata is encoded as {} rather than null.
func withMetadata(f model.Finding) model.Finding {
	if f.Metadata == nil {
		f.Metadata = map[string]string{}
	}
	return f
}
