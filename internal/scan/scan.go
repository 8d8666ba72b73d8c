// Package scan locates comment regions in source text.
//
// The scanner makes a single forward pass over the bytes of a file. At every
// position it is in one of four states: code, string, line comment or block
// comment. Only the comment states produce regions; strings are consumed so
// that comment markers inside literals are ignored.
package scan

import (
	"bytes"
	"strings"

	"github.com/phyten/todovet/internal/model"
)

type scanner struct {
	path    string
	data    []byte
	style   Style
	lines   lineIndex
	regions []model.Region
}

// Regions returns every comment region of data in source order.
func Regions(path string, data []byte, style Style) []model.Region {
	if len(data) == 0 {
		return nil
	}
	s := &scanner{
		path:  path,
		data:  data,
		style: style,
		lines: newLineIndex(data),
	}
	s.run()
	return s.regions
}

func (s *scanner) run() {
	i := 0
	for i < len(s.data) {
		if blk, ok := s.blockAt(i); ok {
			end, closed := s.blockEnd(i, blk)
			if !blk.String {
				s.emitBlock(i, end, blk, closed)
			}
			i = end
			continue
		}
		if prefix, ok := s.linePrefixAt(i); ok {
			end := lineEnd(s.data, i)
			s.emitLine(i, end, prefix)
			i = end
			continue
		}
		if quote, ok := s.quoteAt(i); ok {
			i = s.quoteEnd(i, quote)
			continue
		}
		i++
	}
}

func (s *scanner) blockAt(i int) (Block, bool) {
	for _, blk := range s.style.Blocks {
		if !bytes.HasPrefix(s.data[i:], []byte(blk.Open)) {
			continue
		}
		if blk.LineStart && !blankBefore(s.data, i) {
			continue
		}
		return blk, true
	}
	return Block{}, false
}

func (s *scanner) linePrefixAt(i int) (string, bool) {
	for _, prefix := range s.style.LinePrefixes {
		if bytes.HasPrefix(s.data[i:], []byte(prefix)) {
			return prefix, true
		}
	}
	return "", false
}

func (s *scanner) quoteAt(i int) (string, bool) {
	for _, q := range s.style.Quotes {
		if bytes.HasPrefix(s.data[i:], []byte(q)) {
			return q, true
		}
	}
	return "", false
}

// blockEnd returns the offset just past the closing marker. An unterminated
// block runs to the end of the data and reports closed=false.
func (s *scanner) blockEnd(start int, blk Block) (int, bool) {
	open, closer := []byte(blk.Open), []byte(blk.Close)
	depth := 1
	j := start + len(open)
	for j < len(s.data) {
		rest := s.data[j:]
		switch {
		case blk.Escapes && rest[0] == '\\':
			j += 2
		case blk.Nested && bytes.HasPrefix(rest, open):
			depth++
			j += len(open)
		case bytes.HasPrefix(rest, closer):
			depth--
			j += len(closer)
			if depth == 0 {
				return j, true
			}
		default:
			j++
		}
	}
	return len(s.data), false
}

// quoteEnd consumes a single-line string literal. A newline ends an
// unterminated literal so one stray quote cannot hide the rest of the file.
func (s *scanner) quoteEnd(start int, quote string) int {
	q := []byte(quote)
	j := start + len(q)
	for j < len(s.data) {
		switch {
		case s.data[j] == '\\':
			j += 2
		case s.data[j] == '\n':
			return j
		case bytes.HasPrefix(s.data[j:], q):
			return j + len(q)
		default:
			j++
		}
	}
	return len(s.data)
}

func (s *scanner) emitLine(start, end int, prefix string) {
	raw := strings.TrimRight(string(s.data[start:end]), "\r")
	s.regions = append(s.regions, model.Region{
		File:   s.path,
		Lang:   s.style.Lang,
		Style:  model.StyleLine,
		Opener: prefix,
		Raw:    raw,
		Body:   raw[len(prefix):],
		Lines:  s.lines.lines(start, end),
		Span:   s.lines.span(start, start+len(raw)),
	})
}

func (s *scanner) emitBlock(start, end int, blk Block, closed bool) {
	raw := string(s.data[start:end])
	body := raw[len(blk.Open):]
	closer := ""
	if closed {
		body = body[:len(body)-len(blk.Close)]
		closer = blk.Close
	}
	s.regions = append(s.regions, model.Region{
		File:   s.path,
		Lang:   s.style.Lang,
		Style:  blk.Style,
		Opener: blk.Open,
		Closer: closer,
		Raw:    raw,
		Body:   body,
		Lines:  s.lines.lines(start, end),
		Span:   s.lines.span(start, end),
	})
}

func lineEnd(data []byte, from int) int {
	if idx := bytes.IndexByte(data[from:], '\n'); idx >= 0 {
		return from + idx
	}
	return len(data)
}

func blankBefore(data []byte, i int) bool {
	for j := i - 1; j >= 0; j-- {
		switch data[j] {
		case '\n':
			return true
		case ' ', '\t':
			continue
		default:
			return false
		}
	}
	return true
}
