package header

import (
	"fmt"
	"io"
	"slices"

	"braces.dev/errtrace"

	"github.com/ghettovoice/sipstack/internal/grammar"
	"github.com/ghettovoice/sipstack/internal/scanner"
)

// Allow represents the Allow header field.
// The Allow header field lists the set of methods supported by the UA generating the message.
type Allow []string

// CanonicName returns the canonical name of the header.
func (Allow) CanonicName() Name { return "Allow" }

// CompactName returns the compact name of the header.
func (Allow) CompactName() Name { return "Allow" }

// CommaHandling returns [CommaList].
func (Allow) CommaHandling() CommaPolicy { return CommaList }

func (hdr *Allow) parseFrom(c *scanner.Cursor) error {
	list, err := parseTokenList(c)
	if err != nil {
		return errtrace.Wrap(err)
	}
	*hdr = list
	return nil
}

// RenderTo writes the header to the provided writer.
func (hdr Allow) RenderTo(w io.Writer, opts *RenderOptions) (num int, err error) {
	if hdr == nil {
		return 0, nil
	}
	return errtrace.Wrap2(renderCategory(w, hdr, opts))
}

func (hdr Allow) RenderValueTo(w io.Writer) (num int, err error) {
	return errtrace.Wrap2(renderTokenList(w, hdr))
}

// Render returns the string representation of the header.
func (hdr Allow) Render(opts *RenderOptions) string {
	if hdr == nil {
		return ""
	}
	return renderToString(func(w io.Writer) (int, error) { return hdr.RenderTo(w, opts) })
}

// RenderValue returns the header value without the name prefix.
func (hdr Allow) RenderValue() string { return renderToString(hdr.RenderValueTo) }

func (hdr Allow) String() string { return hdr.RenderValue() }

// Format implements fmt.Formatter for custom formatting of the header.
func (hdr Allow) Format(f fmt.State, verb rune) { formatHeader(f, verb, hdr, []string(hdr)) }

// Clone returns a copy of the header.
func (hdr Allow) Clone() Header { return slices.Clone(hdr) }

func allowOf(val any) (Allow, bool) {
	switch v := val.(type) {
	case Allow:
		return v, true
	case *Allow:
		if v == nil {
			return nil, false
		}
		return *v, true
	default:
		return nil, false
	}
}

// Equal compares this header with another for equality.
func (hdr Allow) Equal(val any) bool {
	other, ok := allowOf(val)
	return ok && slices.Equal(hdr, other)
}

// Compare orders the lists element by element.
func (hdr Allow) Compare(val Header) int {
	if other, ok := allowOf(val); ok {
		return slices.Compare(hdr, other)
	}
	return compareGeneric(hdr, val)
}

// IsValid checks whether the header is syntactically valid.
func (hdr Allow) IsValid() bool {
	return hdr != nil && !slices.ContainsFunc(hdr, func(s string) bool { return !grammar.IsToken(s) })
}

func (hdr Allow) MarshalJSON() ([]byte, error) {
	return errtrace.Wrap2(ToJSON(hdr))
}

func (hdr *Allow) UnmarshalJSON(data []byte) error {
	h, err := fromJSONAs[Allow](data)
	*hdr = h
	return errtrace.Wrap(err)
}

// Methods returns the known methods of the list; unknown tokens are skipped.
func (hdr Allow) Methods() []MethodType {
	ms := make([]MethodType, 0, len(hdr))
	for _, s := range hdr {
		if m := LookupMethod(s); m != MethodUnknown {
			ms = append(ms, m)
		}
	}
	return ms
}

// Has reports whether the method token is allowed.
func (hdr Allow) Has(method string) bool { return slices.Contains(hdr, method) }
