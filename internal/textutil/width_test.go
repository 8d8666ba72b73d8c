package textutil

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/mattn/go-runewidth"
)

// narrowAmbiguous makes ambiguous-width runes one cell wide regardless of
// the locale of the machine running the tests.
func narrowAmbiguous(t *testing.T) {
	t.Helper()
	prev := runewidth.DefaultCondition
	runewidth.DefaultCondition = runewidth.NewCondition()
	runewidth.DefaultCondition.EastAsianWidth = false
	t.Cleanup(func() { runewidth.DefaultCondition = prev })
}

func TestVisibleWidth(t *testing.T) {
	narrowAmbiguous(t)
	cases := map[string]struct {
		in   string
		want int
	}{
		"empty":          {"", 0},
		"ascii":          {"main.go:12", 10},
		"hiragana":       {"あいう", 6},
		"combining mark": {"e\u0301", 1},
		"zwj emoji":      {"\U0001F468\U0001F3FD\u200d\U0001F4BB", 2},
		"colored":        {"\x1b[31m赤\x1b[0m", 2},
		"hyperlink":      {"\x1b]8;;https://example.com\x07#12\x1b]8;;\x07", 3},
	}
	for name, tc := range cases {
		if got := VisibleWidth(tc.in); got != tc.want {
			t.Errorf("%s: VisibleWidth(%q) = %d, want %d", name, tc.in, got, tc.want)
		}
	}
}

func TestTruncateByWidth(t *testing.T) {
	narrowAmbiguous(t)
	const kiss = "\U0001F469\u200d\u2764\ufe0f\u200d\U0001F48B\u200d\U0001F469"
	cases := []struct {
		name     string
		in       string
		width    int
		ellipsis string
		want     string
	}{
		{"fits", "# TODO 1: ok", 20, "…", "# TODO 1: ok"},
		{"ascii", "# TODO 1: a long line", 8, "…", "# TODO …"},
		{"wide runes", "こんにちは世界", 6, "…", "こん…"},
		{"keeps clusters", kiss + "テスト", 4, "…", kiss + "…"},
		{"no ellipsis", "abcdef", 3, "", "abc"},
		{"ellipsis wider than width", "abcdef", 2, "...", "ab"},
		{"zero width", "abc", 0, "…", ""},
		{"drops colors when cut", "\x1b[31mabcdef\x1b[0m", 4, "…", "abc…"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := TruncateByWidth(tc.in, tc.width, tc.ellipsis)
			if got != tc.want {
				t.Fatalf("TruncateByWidth(%q, %d) = %q, want %q", tc.in, tc.width, got, tc.want)
			}
			if w := VisibleWidth(got); w > tc.width {
				t.Fatalf("result is %d cells wide, limit %d", w, tc.width)
			}
		})
	}
}

func TestStripANSI(t *testing.T) {
	for in, want := range map[string]string{
		"plain":                    "plain",
		"\x1b[1;31mERROR\x1b[0m":   "ERROR",
		"\x1b]8;;https://x\x1b\\a": "a",
	} {
		if got := StripANSI(in); got != want {
			t.Errorf("StripANSI(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestPadding(t *testing.T) {
	narrowAmbiguous(t)
	if got := PadRight("あ", 5); got != "あ   " {
		t.Fatalf("PadRight = %q", got)
	}
	if got := PadLeft("42", 5); got != "   42" {
		t.Fatalf("PadLeft = %q", got)
	}
	if got := PadRight("toolong", 3); got != "toolong" {
		t.Fatalf("PadRight must not cut: %q", got)
	}
}

func TestMaxWidths(t *testing.T) {
	narrowAmbiguous(t)
	rows := [][]string{
		{"TYPE", "LOCATION"},
		{"Malformed todo", "a.go:1", "extra"},
		{"x", "\x1b[2mドキュメント.md:12\x1b[0m"},
	}
	if diff := cmp.Diff([]int{14, 18, 5}, MaxWidths(rows)); diff != "" {
		t.Fatalf("MaxWidths mismatch (-want +got):\n%s", diff)
	}
	if got := MaxWidths(nil); len(got) != 0 {
		t.Fatalf("MaxWidths(nil) = %v", got)
	}
}
