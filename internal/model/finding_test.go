package model

import (
	"encoding/json"
	"testing"
)

func TestFindingJSONShape(t *testing.T) {
	region := Region{File: "main.py", Style: StyleLine, Lines: []string{"# TODO"}, Span: Span{StartLine: 3}}
	data, err := json.Marshal(NewMalformed(region))
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	want := `{"type":"Malformed todo","filename":"main.py","line":3,"message":"TODO should match pattern - TODO {task_id}:","metadata":{}}`
	if string(data) != want {
		t.Fatalf("json mismatch\n got: %s\nwant: %s", data, want)
	}

	data, err = json.Marshal(NewIssueFinding(FindingClosed, region, "234"))
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	want = `{"type":"Issue is closed","filename":"main.py","line":3,"message":"","metadata":{"issueID":"234"}}`
	if string(data) != want {
		t.Fatalf("json mismatch\n got: %s\nwant: %s", data, want)
	}
}

func TestParseTaskStatus(t *testing.T) {
	for _, raw := range []string{"open", " CLOSED ", "nonexistent", "none"} {
		if _, err := ParseTaskStatus(raw); err != nil {
			t.Errorf("ParseTaskStatus(%q) error: %v", raw, err)
		}
	}
	if _, err := ParseTaskStatus("resolved"); err == nil {
		t.Fatal("ParseTaskStatus should reject unknown values")
	}
}

func TestFindingCopiesLines(t *testing.T) {
	lines := []string{"a"}
	f := NewMalformed(Region{Lines: lines})
	lines[0] = "b"
	if f.Lines[0] != "a" {
		t.Fatalf("finding shares backing array with region")
	}
}
