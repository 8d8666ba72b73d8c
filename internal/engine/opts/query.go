package opts

import (
	"net/url"
	"slices"

	"github.com/phyten/todovet/internal/engine"
)

// queryParam maps one query string key onto the options. vals holds the
// flattened, non-empty values of the key.
type queryParam struct {
	key   string
	apply func(o *engine.Options, vals []string) error
}

var queryParams = []queryParam{
	{"ignored", func(o *engine.Options, vals []string) error {
		o.Ignored = append(slices.Clone(o.Ignored), vals...)
		return nil
	}},
	{"custom_todos", func(o *engine.Options, vals []string) error {
		o.Tags = vals
		return nil
	}},
	{"match_case_sensitive", func(o *engine.Options, vals []string) (err error) {
		o.CaseSensitive, err = ParseBool(vals[len(vals)-1], "match_case_sensitive")
		return err
	}},
	{"jobs", func(o *engine.Options, vals []string) (err error) {
		o.Jobs, err = ParseIntInRange(vals[len(vals)-1], "jobs", 1, MaxJobs)
		return err
	}},
	{"max_file_bytes", func(o *engine.Options, vals []string) (err error) {
		o.MaxFileBytes, err = atoi(vals[len(vals)-1], "max_file_bytes")
		return err
	}},
}

// ApplyWebQueryToOptions overlays the recognised query values on def. The
// base path is fixed by the server and cannot be changed by a request.
// Range checks beyond parsing are left to NormalizeAndValidate.
func ApplyWebQueryToOptions(def engine.Options, q url.Values) (engine.Options, error) {
	out := def
	for _, p := range queryParams {
		vals := SplitMulti(q[p.key])
		if len(vals) == 0 {
			continue
		}
		if err := p.apply(&out, vals); err != nil {
			return out, err
		}
	}
	return out, nil
}
