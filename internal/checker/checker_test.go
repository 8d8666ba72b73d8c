package checker

import (
	"context"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/phyten/todovet/internal/model"
	"github.com/phyten/todovet/internal/scan"
	"github.com/phyten/todovet/internal/tags"
)

type stubFetcher struct {
	statuses map[string]model.TaskStatus
	err      error
	calls    []string
}

func (s *stubFetcher) Fetch(ctx context.Context, id string) (model.TaskStatus, error) {
	s.calls = append(s.calls, id)
	if s.err != nil {
		return model.StatusNone, s.err
	}
	if st, ok := s.statuses[id]; ok {
		return st, nil
	}
	return model.StatusNonExistent, nil
}

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

func TestCheckPythonFixture(t *testing.T) {
	style, _ := scan.StyleFor("fixture.py", nil)
	matcher := tags.New(nil, true)
	fetcher := &stubFetcher{statuses: map[string]model.TaskStatus{
		"1":   model.StatusOpen,
		"234": model.StatusClosed,
	}}
	c := New(fetcher, WithIssueURL(func(id string) string { return "https://issues.example/" + id }))

	type row struct {
		Kind model.FindingKind
		Line int
		ID   string
	}
	var got []row
	for _, region := range scan.Regions("fixture.py", []byte(pythonFixture), style) {
		occ, ok := matcher.Find(region)
		if !ok {
			continue
		}
		f, err := c.Check(context.Background(), occ)
		if err != nil {
			t.Fatalf("Check failed: %v", err)
		}
		if f != nil {
			got = append(got, row{f.Kind, f.Line, f.IssueID})
		}
	}
	want := []row{
		{model.FindingMalformed, 2, ""},
		{model.FindingMalformed, 4, ""},
		{model.FindingMalformed, 9, ""},
		{model.FindingMalformed, 14, ""},
		{model.FindingClosed, 18, "234"},
		{model.FindingClosed, 20, "234"},
		{model.FindingClosed, 24, "234"},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("findings mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"1", "234", "234", "234"}, fetcher.calls); diff != "" {
		t.Fatalf("malformed TODOs must not reach the tracker (-want +got):\n%s", diff)
	}
}

func TestCheckNonExistent(t *testing.T) {
	c := New(&stubFetcher{}, WithIssueURL(func(id string) string { return "u/" + id }))
	occ := model.Occurrence{ID: "#9", WellFormed: true, Region: model.Region{File: "a.go", Span: model.Span{StartLine: 3}}}
	f, err := c.Check(context.Background(), occ)
	if err != nil {
		t.Fatalf("Check failed: %v", err)
	}
	if f.Kind != model.FindingNonExistent || f.Metadata["issueID"] != "#9" || f.IssueURL != "u/#9" || f.Line != 3 {
		t.Fatalf("unexpected finding: %+v", f)
	}
}

func TestCheckFetchError(t *testing.T) {
	boom := errors.New("connection refused")
	c := New(&stubFetcher{err: boom})
	_, err := c.Check(context.Background(), model.Occurrence{ID: "1", WellFormed: true})
	if !errors.Is(err, boom) {
		t.Fatalf("expected wrapped error, got %v", err)
	}
}

func TestCheckWithoutFetcher(t *testing.T) {
	c := New(nil)
	f, err := c.Check(context.Background(), model.Occurrence{ID: "1", WellFormed: true})
	if err != nil || f != nil {
		t.Fatalf("well-formed TODO without tracker should pass, got %+v %v", f, err)
	}
	f, _ = c.Check(context.Background(), model.Occurrence{Region: model.Region{Style: model.StyleLine}})
	if f == nil || f.Kind != model.FindingMalformed || f.Message != model.MalformedHint {
		t.Fatalf("malformed TODO must be reported: %+v", f)
	}
}
