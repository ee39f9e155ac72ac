// Package scanner implements a bounds-checked parse cursor over a header value.
//
// Cursor operations never panic and never fail on "not found": they leave the
// cursor at the end of input and report it, so the grammar code decides whether
// a missing delimiter is fatal or just ends the field.
package scanner

import (
	"bytes"

	"braces.dev/errtrace"

	"github.com/ghettovoice/sipstack/internal/grammar"
)

const (
	// ErrNoDigits is returned when a digit run is required but absent.
	ErrNoDigits grammar.Error = "digits expected"
	// ErrOverflow is returned when a digit run does not fit the target integer.
	ErrOverflow grammar.Error = "number overflow"
	// ErrUnexpectedChar is returned when the expected character is not found.
	ErrUnexpectedChar grammar.Error = "unexpected character"
)

// Mark is a restorable cursor position.
type Mark int

// Cursor is a position-tracking view over a byte slice.
// The underlying bytes are never modified.
type Cursor struct {
	buf []byte
	pos int
}

// New creates a cursor positioned at the start of b.
func New(b []byte) *Cursor { return &Cursor{buf: b} }

// Pos returns the current offset.
func (c *Cursor) Pos() int { return c.pos }

// EOF reports whether the whole input was consumed.
func (c *Cursor) EOF() bool { return c.pos >= len(c.buf) }

// Remaining returns the number of unconsumed bytes.
func (c *Cursor) Remaining() int { return len(c.buf) - c.pos }

// Peek returns the current byte without consuming it.
func (c *Cursor) Peek() (byte, bool) {
	if c.EOF() {
		return 0, false
	}
	return c.buf[c.pos], true
}

// Rest returns the unconsumed input.
func (c *Cursor) Rest() []byte { return c.buf[c.pos:] }

// Mark records the current position.
func (c *Cursor) Mark() Mark { return Mark(c.pos) }

// Reset restores a position previously returned by [Cursor.Mark].
// Marks outside of the input are clamped to its bounds.
func (c *Cursor) Reset(m Mark) {
	switch {
	case m < 0:
		c.pos = 0
	case int(m) > len(c.buf):
		c.pos = len(c.buf)
	default:
		c.pos = int(m)
	}
}

// Data returns the bytes consumed since m. The result aliases the input.
func (c *Cursor) Data(m Mark) []byte {
	start := int(m)
	if start < 0 || start > c.pos {
		return nil
	}
	return c.buf[start:c.pos:c.pos]
}

// SkipChar consumes ch if it is the current byte.
func (c *Cursor) SkipChar(ch byte) bool {
	if b, ok := c.Peek(); ok && b == ch {
		c.pos++
		return true
	}
	return false
}

// ExpectChar consumes ch or returns [ErrUnexpectedChar] leaving the cursor untouched.
func (c *Cursor) ExpectChar(ch byte) error {
	if !c.SkipChar(ch) {
		return errtrace.Wrap(ErrUnexpectedChar)
	}
	return nil
}

// foldLen returns the length of a line fold (CRLF or LF followed by SP/HTAB) at i, or 0.
func (c *Cursor) foldLen(i int) int {
	n := 0
	if i < len(c.buf) && c.buf[i] == '\r' {
		n++
	}
	if i+n < len(c.buf) && c.buf[i+n] == '\n' {
		n++
	} else {
		return 0
	}
	if i+n < len(c.buf) && isWSP(c.buf[i+n]) {
		return n
	}
	return 0
}

func isWSP(b byte) bool { return b == ' ' || b == '\t' }

// SkipWhitespace skips SP, HTAB and line folds and returns the number of skipped bytes.
func (c *Cursor) SkipWhitespace() int {
	start := c.pos
	for !c.EOF() {
		if isWSP(c.buf[c.pos]) {
			c.pos++
			continue
		}
		if n := c.foldLen(c.pos); n > 0 {
			c.pos += n
			continue
		}
		break
	}
	return c.pos - start
}

// SkipWhitespaceThen speculatively skips whitespace followed by ch.
// If ch does not follow, the cursor is restored.
func (c *Cursor) SkipWhitespaceThen(ch byte) bool {
	m := c.Mark()
	c.SkipWhitespace()
	if c.SkipChar(ch) {
		return true
	}
	c.Reset(m)
	return false
}

// SkipNonWhitespace advances to the next whitespace byte or EOF.
func (c *Cursor) SkipNonWhitespace() int {
	start := c.pos
	for !c.EOF() {
		b := c.buf[c.pos]
		if isWSP(b) || b == '\r' || b == '\n' {
			break
		}
		c.pos++
	}
	return c.pos - start
}

// SkipToChar advances to the next occurrence of ch.
// It returns false and leaves the cursor at EOF when ch is not found.
func (c *Cursor) SkipToChar(ch byte) bool {
	if i := bytes.IndexByte(c.buf[c.pos:], ch); i >= 0 {
		c.pos += i
		return true
	}
	c.pos = len(c.buf)
	return false
}

// SkipToOneOf advances to the next byte contained in set.
// It returns false and leaves the cursor at EOF when none is found.
func (c *Cursor) SkipToOneOf(set string) bool {
	if i := bytes.IndexAny(c.buf[c.pos:], set); i >= 0 {
		c.pos += i
		return true
	}
	c.pos = len(c.buf)
	return false
}

// SkipToSubstring advances to the start of the next occurrence of s.
// It returns false and leaves the cursor at EOF when s is not found.
func (c *Cursor) SkipToSubstring(s string) bool {
	if i := bytes.Index(c.buf[c.pos:], []byte(s)); i >= 0 {
		c.pos += i
		return true
	}
	c.pos = len(c.buf)
	return false
}

// SkipDigits skips a run of decimal digits.
func (c *Cursor) SkipDigits() int {
	start := c.pos
	for !c.EOF() && c.buf[c.pos] >= '0' && c.buf[c.pos] <= '9' {
		c.pos++
	}
	return c.pos - start
}

// ReadToken reads a whitespace-bounded run of bytes. The result aliases the input.
func (c *Cursor) ReadToken() []byte {
	m := c.Mark()
	c.SkipNonWhitespace()
	return c.Data(m)
}

// ReadUint32 reads a digit run as an unsigned 32-bit integer.
// On failure the cursor is restored to where it was.
func (c *Cursor) ReadUint32() (uint32, error) {
	m := c.Mark()
	if c.SkipDigits() == 0 {
		return 0, errtrace.Wrap(ErrNoDigits)
	}

	var v uint64
	for _, d := range c.Data(m) {
		v = v*10 + uint64(d-'0')
		if v > 1<<32-1 {
			c.Reset(m)
			return 0, errtrace.Wrap(ErrOverflow)
		}
	}
	return uint32(v), nil
}
