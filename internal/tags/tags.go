// Package tags recognises actionable markers such as TODO inside comment
// regions and decides whether they reference an issue.
package tags

import (
	"errors"
	"regexp"
	"sort"
	"strings"

	"github.com/phyten/todovet/internal/model"
)

// ErrInvalidTODO is returned when an issue reference is requested from a
// malformed occurrence.
var ErrInvalidTODO = errors.New("invalid todo")

// DefaultTags is used when no custom tags are configured.
var DefaultTags = []string{"TODO"}

const issueRefPattern = `(#?[a-zA-Z0-9\-]+)`

// Matcher finds the first tag in a region. It is safe for concurrent use.
type Matcher struct {
	tags          []string
	caseSensitive bool
	anyTag        *regexp.Regexp
	lineValid     *regexp.Regexp
	blockValid    *regexp.Regexp
}

// New compiles a matcher for tags. An empty list falls back to DefaultTags.
// With caseSensitive=false only the tag letters are folded.
func New(tags []string, caseSensitive bool) *Matcher {
	clean := normalize(tags)
	if len(clean) == 0 {
		clean = append([]string(nil), DefaultTags...)
	}
	alt := alternation(clean, caseSensitive)
	return &Matcher{
		tags:          clean,
		caseSensitive: caseSensitive,
		anyTag:        regexp.MustCompile(alt),
		// line comments: exactly one space after the opener, then TAG <id>:
		lineValid: regexp.MustCompile(`(?s)^ ` + alt + ` ` + issueRefPattern + `:(.*)$`),
		// block comments: TAG <id>: anywhere in the body
		blockValid: regexp.MustCompile(`(?s)` + alt + ` ` + issueRefPattern + `:(.*)$`),
	}
}

// Tags returns the tags the matcher looks for.
func (m *Matcher) Tags() []string {
	return append([]string(nil), m.tags...)
}

// CaseSensitive reports whether tag letters must match exactly.
func (m *Matcher) CaseSensitive() bool {
	return m.caseSensitive
}

// IsMatch reports whether any tag appears in the region body.
func (m *Matcher) IsMatch(region model.Region) bool {
	return m.anyTag.MatchString(region.Body)
}

// IsValid reports whether the region holds a well-formed tag.
func (m *Matcher) IsValid(region model.Region) bool {
	return m.validPattern(region).MatchString(region.Body)
}

// IssueRef extracts the issue identifier, as written, from a well-formed
// region.
func (m *Matcher) IssueRef(region model.Region) (string, error) {
	sub := m.validPattern(region).FindStringSubmatch(region.Body)
	if sub == nil {
		return "", ErrInvalidTODO
	}
	return sub[2], nil
}

// Find returns the tag occurrence of the region. The second result is false
// when the region holds no tag at all.
func (m *Matcher) Find(region model.Region) (model.Occurrence, bool) {
	loc := m.anyTag.FindStringIndex(region.Body)
	if loc == nil {
		return model.Occurrence{}, false
	}
	if sub := m.validPattern(region).FindStringSubmatch(region.Body); sub != nil {
		return model.Occurrence{
			Marker:     sub[1],
			ID:         sub[2],
			Text:       strings.TrimSpace(sub[3]),
			WellFormed: true,
			Region:     region,
		}, true
	}
	return model.Occurrence{
		Marker: region.Body[loc[0]:loc[1]],
		Text:   strings.TrimSpace(region.Body[loc[1]:]),
		Region: region,
	}, true
}

func (m *Matcher) validPattern(region model.Region) *regexp.Regexp {
	if region.Style.IsBlock() {
		return m.blockValid
	}
	return m.lineValid
}

func alternation(tags []string, caseSensitive bool) string {
	parts := make([]string, 0, len(tags))
	for _, tag := range tags {
		quoted := regexp.QuoteMeta(tag)
		if !caseSensitive {
			quoted = "(?i:" + quoted + ")"
		}
		parts = append(parts, quoted)
	}
	return "(" + strings.Join(parts, "|") + ")"
}

// normalize trims, dedupes and orders tags longest first so that a tag that
// is a prefix of another never shadows it.
func normalize(tags []string) []string {
	seen := make(map[string]struct{}, len(tags))
	out := make([]string, 0, len(tags))
	for _, tag := range tags {
		trimmed := strings.TrimSpace(tag)
		if trimmed == "" {
			continue
		}
		if _, ok := seen[trimmed]; ok {
			continue
		}
		seen[trimmed] = struct{}{}
		out = append(out, trimmed)
	}
	sort.SliceStable(out, func(i, j int) bool { return len(out[i]) > len(out[j]) })
	return out
}
