package termcolor

import (
	"strconv"
	"strings"
)

// Style is one SGR attribute set. At most one foreground field is used,
// the richest one that is set.
type Style struct {
	Bold      bool
	Underline bool
	Dim       bool
	FGBasic   *int
	FG256     *int
	FGTrue    *[3]uint8
}

// Apply wraps text in the SGR sequence of s when enabled.
func Apply(s Style, text string, enabled bool) string {
	if !enabled || text == "" {
		return text
	}
	params := s.params()
	if params == "" {
		return text
	}
	return "\x1b[" + params + "m" + text + "\x1b[0m"
}

func (s Style) params() string {
	var b strings.Builder
	add := func(parts ...int) {
		for _, n := range parts {
			if b.Len() > 0 {
				b.WriteByte(';')
			}
			b.WriteString(strconv.Itoa(n))
		}
	}
	if s.Bold {
		add(1)
	}
	if s.Dim {
		add(2)
	}
	if s.Underline {
		add(4)
	}
	switch {
	case s.FGTrue != nil:
		add(38, 2, int(s.FGTrue[0]), int(s.FGTrue[1]), int(s.FGTrue[2]))
	case s.FG256 != nil:
		add(38, 5, *s.FG256)
	case s.FGBasic != nil:
		add(30 + *s.FGBasic)
	}
	return b.String()
}
