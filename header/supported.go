package header

import (
	"fmt"
	"io"
	"slices"

	"braces.dev/errtrace"

	"github.com/ghettovoice/sipstack/internal/grammar"
	"github.com/ghettovoice/sipstack/internal/scanner"
	"github.com/ghettovoice/sipstack/internal/util"
)

// Supported represents the Supported header field.
// The Supported header field enumerates all the extensions supported by the UAC or UAS.
type Supported []string

// CanonicName returns the canonical name of the header.
func (Supported) CanonicName() Name { return "Supported" }

// CompactName returns the compact name of the header.
func (Supported) CompactName() Name { return "k" }

// CommaHandling returns [CommaList].
func (Supported) CommaHandling() CommaPolicy { return CommaList }

func (hdr *Supported) parseFrom(c *scanner.Cursor) error {
	list, err := parseTokenList(c)
	if err != nil {
		return errtrace.Wrap(err)
	}
	*hdr = list
	return nil
}

// RenderTo writes the header to the provided writer.
func (hdr Supported) RenderTo(w io.Writer, opts *RenderOptions) (num int, err error) {
	if hdr == nil {
		return 0, nil
	}
	return errtrace.Wrap2(renderCategory(w, hdr, opts))
}

func (hdr Supported) RenderValueTo(w io.Writer) (num int, err error) {
	return errtrace.Wrap2(renderTokenList(w, hdr))
}

// Render returns the string representation of the header.
func (hdr Supported) Render(opts *RenderOptions) string {
	if hdr == nil {
		return ""
	}
	return renderToString(func(w io.Writer) (int, error) { return hdr.RenderTo(w, opts) })
}

// RenderValue returns the header value without the name prefix.
func (hdr Supported) RenderValue() string { return renderToString(hdr.RenderValueTo) }

func (hdr Supported) String() string { return hdr.RenderValue() }

// Format implements fmt.Formatter for custom formatting of the header.
func (hdr Supported) Format(f fmt.State, verb rune) { formatHeader(f, verb, hdr, []string(hdr)) }

// Clone returns a copy of the header.
func (hdr Supported) Clone() Header { return slices.Clone(hdr) }

func supportedOf(val any) (Supported, bool) {
	switch v := val.(type) {
	case Supported:
		return v, true
	case *Supported:
		if v == nil {
			return nil, false
		}
		return *v, true
	default:
		return nil, false
	}
}

// Equal compares this header with another for equality.
func (hdr Supported) Equal(val any) bool {
	other, ok := supportedOf(val)
	return ok && slices.Equal(hdr, other)
}

// Compare orders the lists element by element.
func (hdr Supported) Compare(val Header) int {
	if other, ok := supportedOf(val); ok {
		return slices.Compare(hdr, other)
	}
	return compareGeneric(hdr, val)
}

// IsValid checks whether the header is syntactically valid.
func (hdr Supported) IsValid() bool {
	return hdr != nil && !slices.ContainsFunc(hdr, func(s string) bool { return !grammar.IsToken(s) })
}

func (hdr Supported) MarshalJSON() ([]byte, error) {
	return errtrace.Wrap2(ToJSON(hdr))
}

func (hdr *Supported) UnmarshalJSON(data []byte) error {
	h, err := fromJSONAs[Supported](data)
	*hdr = h
	return errtrace.Wrap(err)
}

// Has reports whether the option tag is supported. Option tags are case-insensitive.
func (hdr Supported) Has(tag string) bool {
	return slices.ContainsFunc(hdr, func(s string) bool { return util.EqFold(s, tag) })
}
