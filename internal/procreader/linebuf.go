package procreader

import (
	"bytes"
	"strings"
)

// lineBuffer splits a byte stream into complete lines. Bytes after the last
// newline are kept in pending until more data or a flush arrives.
type lineBuffer struct {
	pending []byte
	lines   []string
}

// write appends a chunk and moves every completed line into lines.
func (b *lineBuffer) write(p []byte) {
	b.pending = append(b.pending, p...)
	start := 0
	for {
		i := bytes.IndexByte(b.pending[start:], '\n')
		if i < 0 {
			break
		}
		b.lines = append(b.lines, decodeLine(b.pending[start:start+i]))
		start += i + 1
	}
	if start > 0 {
		b.pending = append(b.pending[:0], b.pending[start:]...)
	}
}

// ready reports whether complete lines are waiting.
func (b *lineBuffer) ready() bool {
	return len(b.lines) > 0
}

// take returns the completed lines and forgets them.
func (b *lineBuffer) take() []string {
	out := b.lines
	b.lines = nil
	return out
}

// flush returns the completed lines plus the trailing partial line, if any.
func (b *lineBuffer) flush() []string {
	out := b.take()
	if len(b.pending) > 0 {
		out = append(out, decodeLine(b.pending))
		b.pending = nil
	}
	return out
}

// reset drops everything, including the partial line.
func (b *lineBuffer) reset() {
	b.pending = nil
	b.lines = nil
}

// decodeLine converts raw bytes to text, dropping a CR before the newline and
// replacing invalid UTF-8.
func decodeLine(raw []byte) string {
	raw = bytes.TrimSuffix(raw, []byte{'\r'})
	return strings.ToValidUTF8(string(raw), "�")
}
