package header

import (
	"cmp"
	"fmt"
	"io"

	"braces.dev/errtrace"

	"github.com/ghettovoice/sipstack/internal/grammar"
	"github.com/ghettovoice/sipstack/internal/scanner"
)

// CallID represents the Call-ID header field.
// The Call-ID header field uniquely identifies a particular invitation or all registrations of a particular client.
type CallID string

// CanonicName returns the canonical name of the header.
func (CallID) CanonicName() Name { return "Call-ID" }

// CompactName returns the compact name of the header.
func (CallID) CompactName() Name { return "i" }

func (CallID) CommaHandling() CommaPolicy { return SingleValue }

func (hdr *CallID) parseFrom(c *scanner.Cursor) error {
	c.SkipWhitespace()
	m := c.Mark()
	tok := c.ReadToken()
	if len(tok) == 0 {
		return errtrace.Wrap(grammar.ErrEmptyInput)
	}
	if !grammar.IsCallID(tok) {
		c.Reset(m)
		return errtrace.Wrap(grammar.ErrMalformedInput)
	}
	if !atValueEnd(c) {
		return errtrace.Wrap(ErrTrailingData)
	}
	*hdr = CallID(tok)
	return nil
}

// RenderTo writes the header to the provided writer.
func (hdr CallID) RenderTo(w io.Writer, opts *RenderOptions) (num int, err error) {
	return errtrace.Wrap2(renderCategory(w, hdr, opts))
}

func (hdr CallID) RenderValueTo(w io.Writer) (num int, err error) {
	return errtrace.Wrap2(io.WriteString(w, string(hdr)))
}

// Render returns the string representation of the header.
func (hdr CallID) Render(opts *RenderOptions) string {
	return renderToString(func(w io.Writer) (int, error) { return hdr.RenderTo(w, opts) })
}

// RenderValue returns the header value without the name prefix.
func (hdr CallID) RenderValue() string { return string(hdr) }

// Format implements fmt.Formatter for custom formatting of the header.
func (hdr CallID) Format(f fmt.State, verb rune) { formatHeader(f, verb, hdr, string(hdr)) }

// Clone returns a copy of the header.
func (hdr CallID) Clone() Header { return hdr }

func callIDOf(val any) (CallID, bool) {
	switch v := val.(type) {
	case CallID:
		return v, true
	case *CallID:
		if v == nil {
			return "", false
		}
		return *v, true
	default:
		return "", false
	}
}

// Equal compares this header with another for equality.
// Call-IDs are compared byte-by-byte.
func (hdr CallID) Equal(val any) bool {
	other, ok := callIDOf(val)
	return ok && hdr == other
}

func (hdr CallID) Compare(val Header) int {
	if other, ok := callIDOf(val); ok {
		return cmp.Compare(hdr, other)
	}
	return compareGeneric(hdr, val)
}

// IsValid checks whether the header is syntactically valid.
func (hdr CallID) IsValid() bool { return grammar.IsCallID(string(hdr)) }

func (hdr CallID) MarshalJSON() ([]byte, error) {
	return errtrace.Wrap2(ToJSON(hdr))
}

func (hdr *CallID) UnmarshalJSON(data []byte) error {
	h, err := fromJSONAs[CallID](data)
	*hdr = h
	return errtrace.Wrap(err)
}
