package procreader

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

// chunkAt splits s at the given offsets.
func chunkAt(s string, offsets ...int) []string {
	var chunks []string
	prev := 0
	for _, off := range offsets {
		chunks = append(chunks, s[prev:off])
		prev = off
	}
	return append(chunks, s[prev:])
}

func TestLineBuffer_ChunkedOutput(t *testing.T) {
	full := "first line\nsecond\n\nfourth has more text\nlast"
	expected := strings.Split(full, "\n")

	testCases := []struct {
		name    string
		offsets []int
	}{
		{"single chunk", nil},
		{"split mid line", []int{3, 15}},
		{"split on newline", []int{10, 11}},
		{"every byte", func() []int {
			var offs []int
			for i := 1; i < len(full); i++ {
				offs = append(offs, i)
			}
			return offs
		}()},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			var buf lineBuffer
			var got []string
			for _, chunk := range chunkAt(full, tc.offsets...) {
				buf.write([]byte(chunk))
				got = append(got, buf.take()...)
			}
			got = append(got, buf.flush()...)
			assert.Equal(t, expected, got)
		})
	}
}

func TestLineBuffer_PartialLineHeldBack(t *testing.T) {
	var buf lineBuffer

	buf.write([]byte("a\nb\nc"))
	assert.True(t, buf.ready())
	assert.Equal(t, []string{"a", "b"}, buf.take())
	assert.False(t, buf.ready())
	assert.Empty(t, buf.take(), "partial line must not be released early")

	buf.write([]byte("ontinued\n"))
	assert.Equal(t, []string{"continued"}, buf.take())
	assert.Empty(t, buf.flush())
}

func TestLineBuffer_TrailingNewlineHasNoEmptyLine(t *testing.T) {
	var buf lineBuffer
	buf.write([]byte("x\ny\n"))
	assert.Equal(t, []string{"x", "y"}, buf.flush())
}

func TestLineBuffer_CarriageReturnAndInvalidUTF8(t *testing.T) {
	var buf lineBuffer
	buf.write([]byte("dos line\r\nbad \xff byte\n"))
	assert.Equal(t, []string{"dos line", "bad � byte"}, buf.take())
}

func TestLineBuffer_Reset(t *testing.T) {
	var buf lineBuffer
	buf.write([]byte("done\npartial"))
	buf.reset()
	assert.False(t, buf.ready())
	assert.Empty(t, buf.flush())
}
