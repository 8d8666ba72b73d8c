package termcolor

import (
	"io"
	"strconv"
	"strings"

	"golang.org/x/term"
)

// Profile is the richest color encoding the terminal understands.
type Profile int

const (
	ProfileBasic8 Profile = iota
	ProfileANSI256
	ProfileTrueColor
)

// Scheme is the guessed terminal background.
type Scheme int

const (
	SchemeUnknown Scheme = iota
	SchemeDark
	SchemeLight
)

func (s Scheme) String() string {
	switch s {
	case SchemeDark:
		return "dark"
	case SchemeLight:
		return "light"
	}
	return "unknown"
}

// Env is the part of the process environment that affects coloring.
// Values are trimmed on lookup, a nil Env behaves like an empty one.
type Env map[string]string

// EnvKeys lists the variables an Env is consulted for.
var EnvKeys = []string{"TERM", "COLORTERM", "COLORFGBG", "NO_COLOR", "CLICOLOR", "CLICOLOR_FORCE", "FORCE_COLOR"}

// LookupEnv builds an Env by asking getenv for each of EnvKeys. Unset and
// empty variables are left out.
func LookupEnv(getenv func(string) string) Env {
	env := Env{}
	if getenv == nil {
		return env
	}
	for _, key := range EnvKeys {
		if v := getenv(key); v != "" {
			env[key] = v
		}
	}
	return env
}

func (e Env) get(key string) string {
	return strings.TrimSpace(e[key])
}

// verdict applies the conventional color variables in priority order:
// TERM=dumb, NO_COLOR and CLICOLOR=0 switch colors off, a non-zero
// CLICOLOR_FORCE or FORCE_COLOR switches them on. ok is false when the
// environment has no opinion.
func (e Env) verdict() (on, ok bool) {
	switch {
	case strings.EqualFold(e.get("TERM"), "dumb"):
		return false, true
	case e.get("NO_COLOR") != "":
		return false, true
	case e.get("CLICOLOR") == "0":
		return false, true
	}
	for _, key := range []string{"CLICOLOR_FORCE", "FORCE_COLOR"} {
		if v := e.get(key); v != "" && v != "0" {
			return true, true
		}
	}
	return false, false
}

// Profile picks TrueColor for COLORTERM=truecolor/24bit, ANSI256 for
// *256color terminals and the 8 basic colors otherwise.
func (e Env) Profile() Profile {
	ct := strings.ToLower(e.get("COLORTERM"))
	for _, marker := range []string{"truecolor", "24bit", "24-bit"} {
		if strings.Contains(ct, marker) {
			return ProfileTrueColor
		}
	}
	if strings.Contains(strings.ToLower(e.get("TERM")), "256color") {
		return ProfileANSI256
	}
	return ProfileBasic8
}

// Scheme reads the background index from COLORFGBG ("fg;bg" or
// "fg;other;bg"), falling back to a TERM name containing "light".
// Dark is assumed when nothing is known.
func (e Env) Scheme() Scheme {
	if raw := e.get("COLORFGBG"); raw != "" {
		parts := strings.Split(raw, ";")
		last := strings.TrimSpace(parts[len(parts)-1])
		if last == "" && len(parts) > 1 {
			last = strings.TrimSpace(parts[len(parts)-2])
		}
		if bg, err := strconv.Atoi(last); err == nil && bg >= 0 {
			if bg >= 7 {
				return SchemeLight
			}
			return SchemeDark
		}
	}
	if strings.Contains(strings.ToLower(e.get("TERM")), "light") {
		return SchemeLight
	}
	return SchemeDark
}

// IsTerminal reports whether w is backed by a terminal file descriptor.
func IsTerminal(w io.Writer) bool {
	f, ok := w.(interface{ Fd() uintptr })
	if !ok {
		return false
	}
	return term.IsTerminal(int(f.Fd()))
}

// Colorize decides whether text written to w gets escape sequences.
// always and never are final; auto consults the environment and then
// whether w is a terminal.
func Colorize(mode Mode, w io.Writer, env Env) bool {
	switch mode {
	case ModeAlways:
		return true
	case ModeNever:
		return false
	}
	if w == nil {
		return false
	}
	if on, ok := env.verdict(); ok {
		return on
	}
	return IsTerminal(w)
}
