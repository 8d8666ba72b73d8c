package scan

import (
	"bytes"
	"slices"

	"github.com/phyten/todovet/internal/model"
)

// lineIndex maps byte offsets of a file to 1-based lines and columns.
type lineIndex struct {
	data   []byte
	starts []int
}

func newLineIndex(data []byte) lineIndex {
	starts := make([]int, 1, bytes.Count(data, []byte{'\n'})+1)
	for off := 0; ; {
		i := bytes.IndexByte(data[off:], '\n')
		if i < 0 || off+i+1 >= len(data) {
			break
		}
		off += i + 1
		starts = append(starts, off)
	}
	return lineIndex{data: data, starts: starts}
}

func (ix lineIndex) pos(off int) (line, col int) {
	i, found := slices.BinarySearch(ix.starts, off)
	if found {
		i++
	}
	line = max(i, 1)
	return line, off - ix.starts[line-1] + 1
}

// span covers [start, end); the end position is that of the last byte.
func (ix lineIndex) span(start, end int) model.Span {
	sp := model.Span{ByteStart: start, ByteEnd: end}
	sp.StartLine, sp.StartCol = ix.pos(start)
	sp.EndLine, sp.EndCol = ix.pos(max(end-1, start))
	return sp
}

// text returns line n without its terminator.
func (ix lineIndex) text(n int) string {
	if n < 1 || n > len(ix.starts) {
		return ""
	}
	line := ix.data[ix.starts[n-1]:]
	if i := bytes.IndexByte(line, '\n'); i >= 0 {
		line = line[:i]
	}
	return string(bytes.TrimRight(line, "\r"))
}

// lines returns the full source lines touched by [start, end).
func (ix lineIndex) lines(start, end int) []string {
	first, _ := ix.pos(start)
	last, _ := ix.pos(max(end-1, start))
	out := make([]string, 0, last-first+1)
	for n := first; n <= last; n++ {
		out = append(out, ix.text(n))
	}
	return out
}
