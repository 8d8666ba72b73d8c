package termcolor

import (
	"fmt"
	"strings"
)

// Mode is the value of --color.
type Mode int

const (
	ModeAuto Mode = iota
	ModeAlways
	ModeNever
)

var modeNames = map[Mode]string{
	ModeAuto:   "auto",
	ModeAlways: "always",
	ModeNever:  "never",
}

func (m Mode) String() string {
	if name, ok := modeNames[m]; ok {
		return name
	}
	return modeNames[ModeAuto]
}

// ParseMode accepts auto, always or never in any case. An empty value is auto.
func ParseMode(v string) (Mode, error) {
	name := strings.ToLower(strings.TrimSpace(v))
	if name == "" {
		return ModeAuto, nil
	}
	for m, n := range modeNames {
		if n == name {
			return m, nil
		}
	}
	return ModeAuto, fmt.Errorf("unknown color mode: %s", v)
}
