package opts

import (
	"fmt"
	"strconv"
	"strings"
)

// ParseBool accepts 1/0, true/false, yes/no and on/off in any case. key
// names the setting in the error.
func ParseBool(raw, key string) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "1", "true", "yes", "on":
		return true, nil
	case "0", "false", "no", "off":
		return false, nil
	}
	return false, fmt.Errorf("invalid value for %s: %q", key, raw)
}

// ParseIntInRange parses raw and checks lo <= n <= hi. hi < lo leaves the
// value unbounded above.
func ParseIntInRange(raw, key string, lo, hi int) (int, error) {
	n, err := atoi(raw, key)
	if err != nil {
		return 0, err
	}
	bounded := hi >= lo
	switch {
	case bounded && (n < lo || n > hi):
		return 0, fmt.Errorf("%s must be between %d and %d", key, lo, hi)
	case !bounded && n < lo:
		return 0, fmt.Errorf("%s must be >= %d", key, lo)
	}
	return n, nil
}

func atoi(raw, key string) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return 0, fmt.Errorf("invalid integer value for %s: %q", key, raw)
	}
	return n, nil
}

// SplitMulti flattens repeated and comma separated values, dropping blanks.
func SplitMulti(vals []string) []string {
	var out []string
	for _, raw := range vals {
		for _, part := range strings.Split(raw, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}
