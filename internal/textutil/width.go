// Package textutil measures and fits text by terminal cell width.
package textutil

import (
	"regexp"
	"strings"

	"github.com/mattn/go-runewidth"
	"github.com/rivo/uniseg"
)

// CSI sequences such as SGR colors, and OSC sequences such as hyperlinks.
var escapeRe = regexp.MustCompile(`\x1b\[[0-?]*[ -/]*[@-~]|\x1b\][^\x07\x1b]*(?:\x07|\x1b\\)`)

// StripANSI removes CSI and OSC escape sequences.
func StripANSI(s string) string {
	if strings.IndexByte(s, 0x1b) < 0 {
		return s
	}
	return escapeRe.ReplaceAllString(s, "")
}

// eachCluster calls fn for every grapheme cluster of the visible text of s
// until fn returns false.
func eachCluster(s string, fn func(cluster string, width int) bool) {
	g := uniseg.NewGraphemes(StripANSI(s))
	for g.Next() {
		c := g.Str()
		if !fn(c, runewidth.StringWidth(c)) {
			return
		}
	}
}

// VisibleWidth returns the number of terminal cells s occupies.
func VisibleWidth(s string) int {
	total := 0
	eachCluster(s, func(_ string, w int) bool {
		total += w
		return true
	})
	return total
}

// TruncateByWidth shortens s to at most width cells without splitting a
// grapheme cluster. When s is cut, ellipsis is appended if it fits.
// Escape sequences are dropped from a truncated result.
func TruncateByWidth(s string, width int, ellipsis string) string {
	if width <= 0 {
		return ""
	}
	if VisibleWidth(s) <= width {
		return s
	}
	budget := width - runewidth.StringWidth(ellipsis)
	if budget < 0 {
		budget, ellipsis = width, ""
	}
	var b strings.Builder
	used := 0
	eachCluster(s, func(c string, w int) bool {
		if used+w > budget {
			return false
		}
		b.WriteString(c)
		used += w
		return true
	})
	return b.String() + ellipsis
}

// MaxWidths returns the widest visible cell of every column. Short rows
// count as having empty trailing cells.
func MaxWidths(rows [][]string) []int {
	var widths []int
	for _, row := range rows {
		for i, cell := range row {
			if i == len(widths) {
				widths = append(widths, 0)
			}
			widths[i] = max(widths[i], VisibleWidth(cell))
		}
	}
	return widths
}

// PadRight appends spaces until s is width cells wide.
func PadRight(s string, width int) string {
	return s + fill(s, width)
}

// PadLeft prepends spaces until s is width cells wide.
func PadLeft(s string, width int) string {
	return fill(s, width) + s
}

func fill(s string, width int) string {
	if n := width - VisibleWidth(s); n > 0 {
		return strings.Repeat(" ", n)
	}
	return ""
}
