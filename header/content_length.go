package header

import (
	"fmt"
	"io"
	"strconv"

	"braces.dev/errtrace"

	"github.com/ghettovoice/sipstack/internal/scanner"
)

// ContentLength represents the Content-Length header field.
// The Content-Length header field indicates the size of the message body, in decimal number of octets.
type ContentLength uint32

// CanonicName returns the canonical name of the header.
func (ContentLength) CanonicName() Name { return "Content-Length" }

// CompactName returns the compact name of the header.
func (ContentLength) CompactName() Name { return "l" }

func (ContentLength) CommaHandling() CommaPolicy { return SingleValue }

func (hdr *ContentLength) parseFrom(c *scanner.Cursor) error {
	v, err := parseUint32Value(c)
	if err != nil {
		return errtrace.Wrap(err)
	}
	*hdr = ContentLength(v)
	return nil
}

// RenderTo writes the header to the provided writer.
func (hdr ContentLength) RenderTo(w io.Writer, opts *RenderOptions) (num int, err error) {
	return errtrace.Wrap2(renderCategory(w, hdr, opts))
}

func (hdr ContentLength) RenderValueTo(w io.Writer) (num int, err error) {
	return errtrace.Wrap2(renderUint32(w, uint32(hdr)))
}

// Render returns the string representation of the header.
func (hdr ContentLength) Render(opts *RenderOptions) string {
	return renderToString(func(w io.Writer) (int, error) { return hdr.RenderTo(w, opts) })
}

// RenderValue returns the header value without the name prefix.
func (hdr ContentLength) RenderValue() string { return strconv.FormatUint(uint64(hdr), 10) }

func (hdr ContentLength) String() string { return hdr.RenderValue() }

// Format implements fmt.Formatter for custom formatting of the header.
func (hdr ContentLength) Format(f fmt.State, verb rune) { formatHeader(f, verb, hdr, uint32(hdr)) }

// Clone returns a copy of the header.
func (hdr ContentLength) Clone() Header { return hdr }

func contentLengthOf(val any) (ContentLength, bool) {
	switch v := val.(type) {
	case ContentLength:
		return v, true
	case *ContentLength:
		if v == nil {
			return 0, false
		}
		return *v, true
	default:
		return 0, false
	}
}

// Equal compares this header with another for equality.
func (hdr ContentLength) Equal(val any) bool {
	other, ok := contentLengthOf(val)
	return ok && hdr == other
}

func (hdr ContentLength) Compare(val Header) int { return compareUint32(hdr, val, contentLengthOf) }

// IsValid checks whether the header is syntactically valid.
func (ContentLength) IsValid() bool { return true }

func (hdr ContentLength) MarshalJSON() ([]byte, error) {
	return errtrace.Wrap2(ToJSON(hdr))
}

func (hdr *ContentLength) UnmarshalJSON(data []byte) error {
	h, err := fromJSONAs[ContentLength](data)
	*hdr = h
	return errtrace.Wrap(err)
}
