package fortio

import (
	"fmt"
	"io"

	"github.com/equinor/resdata-sub001/errs"
)

func isSpace(b byte) bool {
	return b == ' ' || b == '\n' || b == '\t' || b == '\r'
}

// SkipSpace advances past blanks and line breaks.
func (c *Cursor) SkipSpace() {
	for c.pos < int64(len(c.data)) && isSpace(c.data[c.pos]) {
		c.pos++
	}
}

// SkipLine consumes trailing blanks and one line break, if the rest of the
// current line is blank.
func (c *Cursor) SkipLine() {
	p := c.pos
	for p < int64(len(c.data)) && (c.data[p] == ' ' || c.data[p] == '\t' || c.data[p] == '\r') {
		p++
	}
	if p < int64(len(c.data)) && c.data[p] == '\n' {
		c.pos = p + 1
	}
}

// ReadToken skips leading whitespace and returns the following run of
// non-blank bytes. The token aliases the cursor's memory.
//
// Returns:
//   - []byte: Token
//   - error: io.EOF if only whitespace remains
func (c *Cursor) ReadToken() ([]byte, error) {
	if c.mode != ModeRead {
		return nil, errs.ErrNotReadable
	}

	c.SkipSpace()
	start := c.pos
	for c.pos < int64(len(c.data)) && !isSpace(c.data[c.pos]) {
		c.pos++
	}
	if c.pos == start {
		return nil, io.EOF
	}

	return c.data[start:c.pos], nil
}

// ReadQuoted skips leading whitespace and reads a single quoted field of
// exactly n characters, such as 'FOPT    '. The quotes are not returned.
//
// Returns:
//   - string: Field content including padding
//   - error: io.EOF if only whitespace remains, ErrTruncated or
//     ErrBadElement for a malformed field
func (c *Cursor) ReadQuoted(n int) (string, error) {
	if c.mode != ModeRead {
		return "", errs.ErrNotReadable
	}

	c.SkipSpace()
	start := c.pos
	size := int64(len(c.data))
	if start >= size {
		return "", io.EOF
	}

	end := start + int64(n) + 2
	if end > size {
		return "", fmt.Errorf("quoted field at offset %d: %w", start, errs.ErrTruncated)
	}
	if c.data[start] != '\'' || c.data[end-1] != '\'' {
		return "", fmt.Errorf("quoted field at offset %d: %q: %w", start, c.data[start:end], errs.ErrBadElement)
	}

	c.pos = end

	return string(c.data[start+1 : end-1]), nil
}
