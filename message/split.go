package message

import (
	"bytes"
	"context"
	"io"
	"log/slog"

	"braces.dev/errtrace"

	"github.com/ghettovoice/sipstack/internal/errorutil"
	"github.com/ghettovoice/sipstack/internal/grammar"
	"github.com/ghettovoice/sipstack/internal/util"
	"github.com/ghettovoice/sipstack/log"
)

// nextLine returns the bounds of the line starting at off: the line end without
// the terminator and the offset of the next line. It returns ok = false when no
// line terminator is found.
func nextLine(b []byte, off int) (end, next int, ok bool) {
	i := bytes.IndexByte(b[off:], '\n')
	if i < 0 {
		return len(b), len(b), false
	}
	end, next = off+i, off+i+1
	if end > off && b[end-1] == '\r' {
		end--
	}
	return end, next, true
}

// SplitHeaders splits the header block of buf starting at off into raw header entries.
// Header values are not parsed.
//
// Folded lines (a line starting with SP or HTAB) are joined to the previous one;
// the fold bytes stay in the raw value. Lines without a colon or with an invalid
// header name are skipped and logged. The block ends with an empty line; the
// returned offset points right after it.
func SplitHeaders(buf *Buffer, off int, opts *HeadersOptions) (*Headers, int, error) {
	if off < 0 || off > buf.Len() {
		return nil, 0, errtrace.Wrap(errorutil.NewWrapperError(ErrSpanOutOfRange, "offset %d", off))
	}

	hs := NewHeaders(opts)
	b := buf.Bytes()
	for {
		start := off
		end, next, ok := nextLine(b, off)
		if !ok {
			return hs, off, errtrace.Wrap(&ParseError{
				Err:   errorutil.NewWrapperError(ErrInvalidMessage, io.ErrUnexpectedEOF),
				State: ParseStateHeaders,
				Buf:   b[start:],
			})
		}
		if end == start {
			return hs, next, nil
		}

		// join continuation lines
		for next < len(b) && util.IsWSP(b[next]) {
			e, n, ok := nextLine(b, next)
			end, next = e, n
			if !ok {
				break
			}
		}

		line := b[start:end]
		colon := bytes.IndexByte(line, ':')
		if colon < 0 || !grammar.IsToken(util.TrimWSP(line[:colon])) {
			hs.log.LogAttrs(context.Background(), slog.LevelWarn, "skip malformed header line",
				slog.Any("line", log.StringValue(util.Ellipsis(string(line), 128))),
			)
			off = next
			continue
		}

		name := string(util.TrimWSP(line[:colon]))
		vstart, vend := start+colon+1, end
		for vstart < vend && util.IsWSP(b[vstart]) {
			vstart++
		}
		for vend > vstart && util.IsWSP(b[vend-1]) {
			vend--
		}
		hs.appendLine(name, buf.mustSpan(vstart, vend-vstart), buf.mustSpan(start, end-start))
		off = next
	}
}
