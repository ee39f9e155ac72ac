package header

import (
	"fmt"
	"io"
	"strconv"

	"braces.dev/errtrace"

	"github.com/ghettovoice/sipstack/internal/scanner"
)

// MaxForwards represents the Max-Forwards header field.
// The Max-Forwards header field limits the number of proxies or gateways that can forward the request.
type MaxForwards uint32

// CanonicName returns the canonical name of the header.
func (MaxForwards) CanonicName() Name { return "Max-Forwards" }

// CompactName returns the compact name of the header.
func (MaxForwards) CompactName() Name { return "Max-Forwards" }

func (MaxForwards) CommaHandling() CommaPolicy { return SingleValue }

func (hdr *MaxForwards) parseFrom(c *scanner.Cursor) error {
	v, err := parseUint32Value(c)
	if err != nil {
		return errtrace.Wrap(err)
	}
	*hdr = MaxForwards(v)
	return nil
}

// RenderTo writes the header to the provided writer.
func (hdr MaxForwards) RenderTo(w io.Writer, opts *RenderOptions) (num int, err error) {
	return errtrace.Wrap2(renderCategory(w, hdr, opts))
}

func (hdr MaxForwards) RenderValueTo(w io.Writer) (num int, err error) {
	return errtrace.Wrap2(renderUint32(w, uint32(hdr)))
}

// Render returns the string representation of the header.
func (hdr MaxForwards) Render(opts *RenderOptions) string {
	return renderToString(func(w io.Writer) (int, error) { return hdr.RenderTo(w, opts) })
}

// RenderValue returns the header value without the name prefix.
func (hdr MaxForwards) RenderValue() string { return strconv.FormatUint(uint64(hdr), 10) }

func (hdr MaxForwards) String() string { return hdr.RenderValue() }

// Format implements fmt.Formatter for custom formatting of the header.
func (hdr MaxForwards) Format(f fmt.State, verb rune) { formatHeader(f, verb, hdr, uint32(hdr)) }

// Clone returns a copy of the header.
func (hdr MaxForwards) Clone() Header { return hdr }

func maxForwardsOf(val any) (MaxForwards, bool) {
	switch v := val.(type) {
	case MaxForwards:
		return v, true
	case *MaxForwards:
		if v == nil {
			return 0, false
		}
		return *v, true
	default:
		return 0, false
	}
}

// Equal compares this header with another for equality.
func (hdr MaxForwards) Equal(val any) bool {
	other, ok := maxForwardsOf(val)
	return ok && hdr == other
}

func (hdr MaxForwards) Compare(val Header) int { return compareUint32(hdr, val, maxForwardsOf) }

// IsValid checks whether the header is syntactically valid.
func (MaxForwards) IsValid() bool { return true }

func (hdr MaxForwards) MarshalJSON() ([]byte, error) {
	return errtrace.Wrap2(ToJSON(hdr))
}

func (hdr *MaxForwards) UnmarshalJSON(data []byte) error {
	h, err := fromJSONAs[MaxForwards](data)
	*hdr = h
	return errtrace.Wrap(err)
}
