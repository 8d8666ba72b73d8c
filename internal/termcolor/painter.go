package termcolor

import (
	"io"

	"github.com/phyten/todovet/internal/model"
)

// Painter colors report text for one output stream. The zero value
// leaves text untouched.
type Painter struct {
	Enabled bool
	Scheme  Scheme
	Profile Profile
}

// NewPainter resolves a --color value for output written to w.
func NewPainter(rawMode string, w io.Writer, env Env) (Painter, error) {
	mode, err := ParseMode(rawMode)
	if err != nil {
		return Painter{}, err
	}
	return Painter{
		Enabled: Colorize(mode, w, env),
		Scheme:  env.Scheme(),
		Profile: env.Profile(),
	}, nil
}

func (p Painter) paint(s Style, text string) string {
	return Apply(s, text, p.Enabled)
}

// Kind colors the heading of a finding by its kind.
func (p Painter) Kind(kind model.FindingKind, text string) string {
	return p.paint(KindStyle(kind, p.Scheme, p.Profile), text)
}

func (p Painter) Error(text string) string {
	return p.paint(ErrorStyle(p.Scheme, p.Profile), text)
}

func (p Painter) Hint(text string) string {
	return p.paint(HintStyle(p.Scheme, p.Profile), text)
}

func (p Painter) Warning(text string) string {
	return p.paint(WarningStyle(p.Scheme, p.Profile), text)
}

func (p Painter) Location(text string) string {
	return p.paint(LocationStyle(), text)
}

func (p Painter) Header(text string) string {
	return p.paint(HeaderStyle(), text)
}
