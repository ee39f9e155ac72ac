package message

import (
	"bytes"

	"braces.dev/errtrace"

	"github.com/ghettovoice/sipstack/internal/errorutil"
)

// Buffer holds the raw bytes of a received message.
// The bytes are never modified once the buffer is created.
type Buffer struct {
	b []byte
}

// NewBuffer creates a buffer that takes ownership of b.
// The caller must not modify b afterwards.
func NewBuffer(b []byte) *Buffer { return &Buffer{b: b} }

// CopyBuffer creates a buffer holding a private copy of b.
func CopyBuffer(b []byte) *Buffer { return &Buffer{b: bytes.Clone(b)} }

// Len returns the buffer size.
func (buf *Buffer) Len() int {
	if buf == nil {
		return 0
	}
	return len(buf.b)
}

// Bytes returns a read-only view of the whole buffer.
func (buf *Buffer) Bytes() []byte {
	if buf == nil {
		return nil
	}
	return buf.b[:len(buf.b):len(buf.b)]
}

// Span returns a span borrowing n bytes at offset off.
func (buf *Buffer) Span(off, n int) (Span, error) {
	if off < 0 || n < 0 || off > buf.Len() || n > buf.Len()-off {
		return Span{}, errtrace.Wrap(errorutil.NewWrapperError(ErrSpanOutOfRange, "offset %d, length %d, buffer length %d", off, n, buf.Len()))
	}
	return Span{buf: buf, off: off, n: n}, nil
}

func (buf *Buffer) mustSpan(off, n int) Span {
	return Span{buf: buf, off: off, n: n}
}

// Span is a run of raw field bytes.
// A span either borrows a region of a [Buffer] or owns a private copy of its bytes.
// The zero value is an empty owned span.
type Span struct {
	buf *Buffer
	off int
	n   int
	own []byte
}

// OwnedSpan creates a span owning a copy of v.
func OwnedSpan[T ~string | ~[]byte](v T) Span {
	b := []byte(string(v))
	return Span{own: b, n: len(b)}
}

// Bytes returns the span bytes. Appending to the result never writes into the span.
func (s Span) Bytes() []byte {
	if s.buf != nil {
		return s.buf.b[s.off : s.off+s.n : s.off+s.n]
	}
	return s.own[:len(s.own):len(s.own)]
}

// Len returns the span length.
func (s Span) Len() int { return s.n }

// Borrowed reports whether the span refers to a message buffer.
func (s Span) Borrowed() bool { return s.buf != nil }

// Buffer returns the borrowed buffer, or nil for owned spans.
func (s Span) Buffer() *Buffer { return s.buf }

// Offset returns the span offset in the borrowed buffer.
func (s Span) Offset() int { return s.off }

// String returns the span bytes as string.
func (s Span) String() string { return string(s.Bytes()) }

// Own returns an owned copy of the span.
func (s Span) Own() Span {
	if !s.Borrowed() {
		return s
	}
	return OwnedSpan(s.Bytes())
}
