package model

import (
	"fmt"
	"strings"
)

// FindingKind は検出結果の種別です。文字列は JSON の type にそのまま出力されます。
type FindingKind string

const (
	FindingMalformed   FindingKind = "Malformed todo"
	FindingClosed      FindingKind = "Issue is closed"
	FindingNonExistent FindingKind = "Issue doesn't exist"
)

// MalformedHint は形式違反の TODO に添える説明文です。
const MalformedHint = "TODO should match pattern - TODO {task_id}:"

// TaskStatus は課題トラッカー上の状態です。
type TaskStatus string

const (
	StatusNone        TaskStatus = "none"
	StatusOpen        TaskStatus = "open"
	StatusClosed      TaskStatus = "closed"
	StatusNonExistent TaskStatus = "nonexistent"
)

// ParseTaskStatus はキャッシュ等に保存された文字列を TaskStatus に戻します。
func ParseTaskStatus(raw string) (TaskStatus, error) {
	switch s := TaskStatus(strings.ToLower(strings.TrimSpace(raw))); s {
	case StatusNone, StatusOpen, StatusClosed, StatusNonExistent:
		return s, nil
	default:
		return StatusNone, fmt.Errorf("unknown task status: %q", raw)
	}
}

// Finding は 1 件の違反を表します。
type Finding struct {
	Kind     FindingKind       `json:"type"`
	File     string            `json:"filename"`
	Line     int               `json:"line"`
	Message  string            `json:"message"`
	Metadata map[string]string `json:"metadata"`

	Lines     []string `json:"-"`
	IssueID   string   `json:"-"`
	IssueURL  string   `json:"-"`
	SourceURL string   `json:"-"`
}

// NewMalformed は形式違反の Finding を作成します。
func NewMalformed(region Region) *Finding {
	return &Finding{
		Kind:     FindingMalformed,
		File:     region.File,
		Line:     region.Line(),
		Message:  MalformedHint,
		Metadata: map[string]string{},
		Lines:    cloneLines(region.Lines),
	}
}

// NewIssueFinding は課題の状態に起因する Finding を作成します。
func NewIssueFinding(kind FindingKind, region Region, issueID string) *Finding {
	return &Finding{
		Kind:     kind,
		File:     region.File,
		Line:     region.Line(),
		Metadata: map[string]string{"issueID": issueID},
		Lines:    cloneLines(region.Lines),
		IssueID:  issueID,
	}
}

func cloneLines(in []string) []string {
	if len(in) == 0 {
		return nil
	}
	out := make([]string, len(in))
	copy(out, in)
	return out
}
