// Package opts builds engine.Options from defaults, settings and web
// queries, and validates the result.
package opts

import (
	"fmt"
	"runtime"
	"slices"
	"strings"

	"github.com/phyten/todovet/internal/engine"
	"github.com/phyten/todovet/internal/tags"
)

// MaxJobs bounds the worker pool.
const MaxJobs = 64

// Formats lists the output formats accepted by --format.
var Formats = []string{"standard", "json", "ndjson", "csv", "markdown", "table"}

// Defaults is the baseline shared by the CLI and the web server.
func Defaults(basePath string) engine.Options {
	return engine.Options{
		BasePath:      basePath,
		Tags:          slices.Clone(tags.DefaultTags),
		CaseSensitive: true,
		Jobs:          DefaultJobs(),
	}
}

// DefaultJobs is the CPU count clamped to [1, MaxJobs].
func DefaultJobs() int {
	return min(max(runtime.NumCPU(), 1), MaxJobs)
}

// NormalizeAndValidate trims list values, restores the default tags when
// none remain and checks numeric limits.
func NormalizeAndValidate(o *engine.Options) error {
	if strings.TrimSpace(o.BasePath) == "" {
		o.BasePath = "."
	}
	if o.Jobs < 1 || o.Jobs > MaxJobs {
		return fmt.Errorf("jobs must be between 1 and %d", MaxJobs)
	}
	if o.MaxFileBytes < 0 {
		return fmt.Errorf("max_file_bytes must be >= 0")
	}
	o.Ignored = engine.NormalizeIgnored(o.Ignored)
	o.Tags = SplitMulti(o.Tags)
	if len(o.Tags) == 0 {
		o.Tags = slices.Clone(tags.DefaultTags)
	}
	return nil
}

// NormalizeFormat lower-cases format and checks it against Formats. An
// empty value is the standard format.
func NormalizeFormat(format string) (string, error) {
	v := strings.ToLower(strings.TrimSpace(format))
	if v == "" {
		return Formats[0], nil
	}
	if !slices.Contains(Formats, v) {
		return "", fmt.Errorf("invalid --format: %s (available formats: %s)", format, strings.Join(Formats, ", "))
	}
	return v, nil
}
