package tags

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/phyten/todovet/internal/model"
	"github.com/phyten/todovet/internal/scan"
)

const pythonFixture = `
# This is a single-line malformed TODO

"""
And this is a multiline malformed TODO
It should be parsed properly
"""

'''
This is the same multiline malformed TODO
but with single-quotes
'''

myvar = 5 # This is a malformed TODO at the end of a line

# TODO 1: This is a valid todo comment

hello = "hello" # TODO 234: This is an invalid todo, with a closed issue

"""
TODO 234: This is an invalid todo, marked against a closed issue
"""

'''
TODO 234: This is an invalid todo,
marked against a closed issue with single quotes
'''
`

func lineRegion(body string) model.Region {
	return model.Region{Style: model.StyleLine, Opener: "//", Body: body}
}

func blockRegion(body string) model.Region {
	return model.Region{Style: model.StyleBlock, Opener: "/*", Closer: "*/", Body: body}
}

func TestFindPythonFixture(t *testing.T) {
	style, ok := scan.StyleFor("main.py", nil)
	if !ok {
		t.Fatal("python style missing")
	}
	m := New(nil, true)

	type result struct {
		Line       int
		WellFormed bool
		ID         string
	}
	var got []result
	for _, region := range scan.Regions("main.py", []byte(pythonFixture), style) {
		occ, ok := m.Find(region)
		if !ok {
			continue
		}
		got = append(got, result{Line: region.Line(), WellFormed: occ.WellFormed, ID: occ.ID})
	}
	want := []result{
		{2, false, ""},
		{4, false, ""},
		{9, false, ""},
		{14, false, ""},
		{16, true, "1"},
		{18, true, "234"},
		{20, true, "234"},
		{24, true, "234"},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("occurrences mismatch (-want +got):\n%s", diff)
	}
}

func TestLineWellFormedness(t *testing.T) {
	m := New([]string{"TODO"}, true)
	cases := []struct {
		body     string
		match    bool
		wellForm bool
		id       string
		text     string
	}{
		{" TODO 1: fix this", true, true, "1", "fix this"},
		{" TODO #42: with hash", true, true, "#42", "with hash"},
		{" TODO PROJ-7: jira key", true, true, "PROJ-7", "jira key"},
		{" TODO 1:", true, true, "1", ""},
		{"TODO 1: no space", true, false, "", "1: no space"},
		{"   TODO 1: extra spaces", true, false, "", "1: extra spaces"},
		{" TODO: missing id", true, false, "", ": missing id"},
		{" TODO 1 missing colon", true, false, "", "1 missing colon"},
		{" see TODO 1: not leading", true, false, "", "1: not leading"},
		{" todo 1: lower case", false, false, "", ""},
		{" nothing here", false, false, "", ""},
	}
	for _, tc := range cases {
		t.Run(tc.body, func(t *testing.T) {
			occ, ok := m.Find(lineRegion(tc.body))
			if ok != tc.match {
				t.Fatalf("Find ok = %v, want %v", ok, tc.match)
			}
			if !ok {
				return
			}
			if occ.WellFormed != tc.wellForm || occ.ID != tc.id || occ.Text != tc.text {
				t.Fatalf("Find = %+v, want wellFormed=%v id=%q text=%q", occ, tc.wellForm, tc.id, tc.text)
			}
		})
	}
}

func TestBlockWellFormedness(t *testing.T) {
	m := New(nil, true)
	occ, ok := m.Find(blockRegion("\n * Some docs\n * TODO 17: later\n "))
	if !ok || !occ.WellFormed || occ.ID != "17" || occ.Text != "later" {
		t.Fatalf("unexpected occurrence: %+v", occ)
	}
	occ, ok = m.Find(blockRegion(" TODO later "))
	if !ok || occ.WellFormed {
		t.Fatalf("expected malformed occurrence, got %+v ok=%v", occ, ok)
	}
}

func TestCaseInsensitive(t *testing.T) {
	m := New([]string{"TODO"}, false)
	occ, ok := m.Find(lineRegion(" todo 5: lower"))
	if !ok || !occ.WellFormed || occ.Marker != "todo" || occ.ID != "5" {
		t.Fatalf("unexpected occurrence: %+v ok=%v", occ, ok)
	}
	occ, ok = m.Find(lineRegion(" ToDo 5: mixed"))
	if !ok || !occ.WellFormed {
		t.Fatalf("mixed case should match: %+v", occ)
	}
}

func TestCustomTags(t *testing.T) {
	m := New([]string{" @fix ", "FIXME", "FIX", "@fix"}, true)
	if diff := cmp.Diff([]string{"FIXME", "@fix", "FIX"}, m.Tags()); diff != "" {
		t.Fatalf("tags mismatch (-want +got):\n%s", diff)
	}
	occ, ok := m.Find(lineRegion(" @fix 3: custom"))
	if !ok || !occ.WellFormed || occ.Marker != "@fix" {
		t.Fatalf("unexpected occurrence: %+v", occ)
	}
	occ, ok = m.Find(lineRegion(" FIXME 4: longer tag"))
	if !ok || !occ.WellFormed || occ.Marker != "FIXME" {
		t.Fatalf("longer tag should win: %+v", occ)
	}
	if _, ok := m.Find(lineRegion(" TODO 1: not configured")); ok {
		t.Fatal("TODO is not configured and must not match")
	}
}

func TestIssueRef(t *testing.T) {
	m := New(nil, true)
	id, err := m.IssueRef(lineRegion(" TODO abc-1: x"))
	if err != nil || id != "abc-1" {
		t.Fatalf("IssueRef = %q, %v", id, err)
	}
	if _, err := m.IssueRef(lineRegion(" TODO x")); !errors.Is(err, ErrInvalidTODO) {
		t.Fatalf("expected ErrInvalidTODO, got %v", err)
	}
	if !m.IsMatch(lineRegion(" a TODO")) || m.IsValid(lineRegion(" a TODO")) {
		t.Fatal("IsMatch/IsValid disagree with Find")
	}
}
