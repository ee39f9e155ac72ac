package header

import (
	"cmp"
	"io"
	"strconv"

	"braces.dev/errtrace"

	"github.com/ghettovoice/sipstack/internal/scanner"
)

// parseUint32Value reads a value that consists of one decimal number.
func parseUint32Value(c *scanner.Cursor) (uint32, error) {
	c.SkipWhitespace()
	v, err := c.ReadUint32()
	if err != nil {
		return 0, errtrace.Wrap(err)
	}
	if !atValueEnd(c) {
		return 0, errtrace.Wrap(ErrTrailingData)
	}
	return v, nil
}

func renderUint32(w io.Writer, v uint32) (int, error) {
	var buf [10]byte
	return errtrace.Wrap2(w.Write(strconv.AppendUint(buf[:0], uint64(v), 10)))
}

func compareUint32[T ~uint32](hdr T, val Header, of func(any) (T, bool)) int {
	if other, ok := of(val); ok {
		return cmp.Compare(hdr, other)
	}
	h, _ := any(hdr).(Header)
	return compareGeneric(h, val)
}
