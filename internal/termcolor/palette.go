package termcolor

import (
	"github.com/phyten/todovet/internal/colorutil"
	"github.com/phyten/todovet/internal/model"
)

var (
	darkBackground  = colorutil.RGB{R: 30, G: 30, B: 30}
	lightBackground = colorutil.RGB{R: 249, G: 250, B: 251}
)

// tone is one color expressed for every profile.
type tone struct {
	basic int
	rgb   colorutil.RGB
}

var (
	toneError   = tone{basic: 1, rgb: colorutil.RGB{R: 230, G: 72, B: 72}}
	toneWarning = tone{basic: 3, rgb: colorutil.RGB{R: 240, G: 170, B: 30}}
	toneMissing = tone{basic: 5, rgb: colorutil.RGB{R: 190, G: 100, B: 220}}
	toneHint    = tone{basic: 6, rgb: colorutil.RGB{R: 60, G: 190, B: 210}}
)

func HeaderStyle() Style {
	return Style{Bold: true, Underline: true}
}

// KindStyle returns the style for the heading of a finding.
func KindStyle(kind model.FindingKind, scheme Scheme, profile Profile) Style {
	switch kind {
	case model.FindingMalformed:
		return toneStyle(toneWarning, scheme, profile, true)
	case model.FindingClosed:
		return toneStyle(toneError, scheme, profile, true)
	case model.FindingNonExistent:
		return toneStyle(toneMissing, scheme, profile, true)
	default:
		return Style{Bold: true}
	}
}

// ErrorStyle is used for the "ERROR:" prefix of the standard format.
func ErrorStyle(scheme Scheme, profile Profile) Style {
	return toneStyle(toneError, scheme, profile, false)
}

func HintStyle(scheme Scheme, profile Profile) Style {
	return toneStyle(toneHint, scheme, profile, false)
}

func WarningStyle(scheme Scheme, profile Profile) Style {
	return toneStyle(toneWarning, scheme, profile, true)
}

func LocationStyle() Style {
	return Style{Dim: true}
}

func toneStyle(t tone, scheme Scheme, profile Profile, bold bool) Style {
	if profile == ProfileBasic8 {
		color := t.basic
		return Style{Bold: bold, FGBasic: &color}
	}
	bg := darkBackground
	if scheme == SchemeLight {
		bg = lightBackground
	}
	fg := colorutil.EnsureContrast(t.rgb, bg, colorutil.MinContrast)
	if profile == ProfileANSI256 {
		idx := fg.ANSI256()
		return Style{Bold: bold, FG256: &idx}
	}
	rgb := [3]uint8{fg.R, fg.G, fg.B}
	return Style{Bold: bold, FGTrue: &rgb}
}
