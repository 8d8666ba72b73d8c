// Package web serves the browser UI of `todovet serve` and defines the JSON
// shape returned by its API.
package web

import (
	_ "embed"
	"html/template"
	"net/http"
	"sync"

	"github.com/go-chi/chi/v5"

	"github.com/phyten/todovet/internal/engine"
	"github.com/phyten/todovet/internal/model"
)

const (
	stylesPath = "/assets/styles.css"
	scriptPath = "/assets/ui.js"
)

var (
	//go:embed templates/index.html
	indexHTML string
	indexOnce sync.Once
	indexTmpl *template.Template

	//go:embed assets/styles.css
	stylesCSS string

	//go:embed assets/ui.js
	scriptJS string
)

// PageInfo is shown in the page header.
type PageInfo struct {
	BasePath string
	Tracker  string
	Origin   string
	Version  string
	RepoURL  string
}

type indexData struct {
	PageInfo
	StylesPath string
	ScriptPath string
}

// Register attaches handlers for the web UI assets to r.
func Register(r chi.Router, info PageInfo) {
	r.Get("/", indexHandler(info))
	r.Get(stylesPath, stylesHandler)
	r.Get(scriptPath, scriptHandler)
}

func indexHandler(info PageInfo) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		tmpl := loadTemplate()
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("Referrer-Policy", "no-referrer")
		w.Header().Set("X-Frame-Options", "DENY")
		w.Header().Set("Content-Security-Policy", "default-src 'none'; style-src 'self'; script-src 'self'; img-src 'self'; connect-src 'self'; form-action 'self'; base-uri 'none'")
		data := indexData{PageInfo: info, StylesPath: stylesPath, ScriptPath: scriptPath}
		if err := tmpl.Execute(w, data); err != nil {
			http.Error(w, "template rendering failed", http.StatusInternalServerError)
		}
	}
}

func stylesHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/css; charset=utf-8")
	w.Header().Set("Cache-Control", "public, max-age=86400")
	_, _ = w.Write([]byte(stylesCSS))
}

func scriptHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/javascript; charset=utf-8")
	w.Header().Set("Cache-Control", "public, max-age=86400")
	_, _ = w.Write([]byte(scriptJS))
}

func loadTemplate() *template.Template {
	indexOnce.Do(func() {
		indexTmpl = template.Must(template.New("index").Parse(indexHTML))
	})
	return indexTmpl
}

// Finding is model.Finding plus the fields the CLI JSON format leaves out.
type Finding struct {
	model.Finding
	Lines     []string `json:"lines"`
	IssueURL  string   `json:"issue_url,omitempty"`
	SourceURL string   `json:"source_url,omitempty"`
}

// Response is the body of GET /api/check.
type Response struct {
	Findings    []Finding          `json:"findings"`
	Files       int                `json:"files"`
	Occurrences int                `json:"occurrences"`
	Total       int                `json:"total"`
	ElapsedMS   int64              `json:"elapsed_ms"`
	Errors      []engine.ItemError `json:"errors"`
}

// NewResponse converts an engine result. Slices are never nil so the
// script can rely on arrays.
func NewResponse(res *engine.Result) Response {
	out := Response{Findings: []Finding{}, Errors: []engine.ItemError{}}
	if res == nil {
		return out
	}
	for _, f := range res.Findings {
		if f.Metadata == nil {
			f.Metadata = map[string]string{}
		}
		lines := f.Lines
		if lines == nil {
			lines = []string{}
		}
		out.Findings = append(out.Findings, Finding{
			Finding:   f,
			Lines:     lines,
			IssueURL:  f.IssueURL,
			SourceURL: f.SourceURL,
		})
	}
	out.Files = res.Files
	out.Occurrences = res.Occurrences
	out.Total = res.Total
	out.ElapsedMS = res.ElapsedMS
	out.Errors = append(out.Errors, res.Errors...)
	return out
}
