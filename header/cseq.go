package header

import (
	"cmp"
	"fmt"
	"io"
	"strconv"

	"braces.dev/errtrace"

	"github.com/ghettovoice/sipstack/internal/grammar"
	"github.com/ghettovoice/sipstack/internal/scanner"
)

// CSeq represents the CSeq header field.
// The CSeq header field serves as a way to identify and order transactions.
//
// On the wire the method comes first: "INVITE 4711".
// Exactly one of Method and UnknownMethod is meaningful: UnknownMethod holds the
// literal method token when Method is [MethodUnknown].
type CSeq struct {
	Method        MethodType
	UnknownMethod string
	SeqNum        uint32
}

// NewCSeq creates a CSeq header from a method token and a sequence number.
// Tokens outside of the known methods are kept literally.
func NewCSeq(method string, seq uint32) *CSeq {
	hdr := &CSeq{SeqNum: seq}
	hdr.SetMethod(method)
	return hdr
}

// MethodName returns the method token as it appears on the wire.
func (hdr *CSeq) MethodName() string {
	if hdr == nil {
		return ""
	}
	if hdr.Method == MethodUnknown {
		return hdr.UnknownMethod
	}
	return hdr.Method.String()
}

// SetMethod sets the method from a token, keeping the known/unknown fields consistent.
func (hdr *CSeq) SetMethod(method string) {
	if m := LookupMethod(method); m != MethodUnknown {
		hdr.Method, hdr.UnknownMethod = m, ""
		return
	}
	hdr.Method, hdr.UnknownMethod = MethodUnknown, method
}

// CanonicName returns the canonical name of the header.
func (*CSeq) CanonicName() Name { return "CSeq" }

// CompactName returns the compact name of the header (CSeq has no compact form).
func (*CSeq) CompactName() Name { return "CSeq" }

// CommaHandling returns [SingleValue]: CSeq lines are never combined.
func (*CSeq) CommaHandling() CommaPolicy { return SingleValue }

func (hdr *CSeq) parseFrom(c *scanner.Cursor) error {
	c.SkipWhitespace()
	tok := c.ReadToken()
	if len(tok) == 0 {
		return errtrace.Wrap(ErrMissingMethod)
	}

	if m := LookupMethod(tok); m != MethodUnknown {
		hdr.Method, hdr.UnknownMethod = m, ""
	} else {
		hdr.Method, hdr.UnknownMethod = MethodUnknown, string(tok)
	}

	c.SkipWhitespace()
	seq, err := c.ReadUint32()
	if err != nil {
		return errtrace.Wrap(err)
	}
	hdr.SeqNum = seq
	return nil
}

// RenderTo writes the header to the provided writer.
func (hdr *CSeq) RenderTo(w io.Writer, opts *RenderOptions) (num int, err error) {
	if hdr == nil {
		return 0, nil
	}
	return errtrace.Wrap2(renderCategory(w, hdr, opts))
}

// RenderValueTo writes "METHOD seq" to the provided writer.
func (hdr *CSeq) RenderValueTo(w io.Writer) (num int, err error) {
	if hdr == nil {
		return 0, nil
	}
	return errtrace.Wrap2(fmt.Fprint(w, hdr.MethodName(), " ", hdr.SeqNum))
}

// Render returns the string representation of the header.
func (hdr *CSeq) Render(opts *RenderOptions) string {
	if hdr == nil {
		return ""
	}
	return renderToString(func(w io.Writer) (int, error) { return hdr.RenderTo(w, opts) })
}

// String returns the string representation of the header value.
func (hdr *CSeq) String() string { return hdr.RenderValue() }

// RenderValue returns the header value without the name prefix.
func (hdr *CSeq) RenderValue() string {
	if hdr == nil {
		return ""
	}
	return renderToString(hdr.RenderValueTo)
}

// Format implements fmt.Formatter for custom formatting of the header.
func (hdr *CSeq) Format(f fmt.State, verb rune) {
	switch verb {
	case 's':
		if f.Flag('+') {
			hdr.RenderTo(f, nil) //nolint:errcheck
			return
		}
		fmt.Fprint(f, hdr.String())
		return
	case 'q':
		if f.Flag('+') {
			fmt.Fprint(f, strconv.Quote(hdr.Render(nil)))
			return
		}
		fmt.Fprint(f, strconv.Quote(hdr.String()))
		return
	default:
		type hideMethods CSeq
		type CSeq hideMethods
		fmt.Fprintf(f, fmt.FormatString(f, verb), (*CSeq)(hdr))
		return
	}
}

// Clone returns a copy of the header.
func (hdr *CSeq) Clone() Header {
	if hdr == nil {
		return nil
	}
	hdr2 := *hdr
	return &hdr2
}

func cseqOf(val any) (*CSeq, bool) {
	switch v := val.(type) {
	case CSeq:
		return &v, true
	case *CSeq:
		return v, true
	default:
		return nil, false
	}
}

// Equal compares this header with another for equality.
func (hdr *CSeq) Equal(val any) bool {
	other, ok := cseqOf(val)
	if !ok {
		return false
	}

	if hdr == other {
		return true
	} else if hdr == nil || other == nil {
		return false
	}

	return hdr.Method == other.Method &&
		hdr.UnknownMethod == other.UnknownMethod &&
		hdr.SeqNum == other.SeqNum
}

// Compare orders CSeq headers by method, then by sequence number.
// Methods follow the [MethodType] order, so an unknown method sorts before every
// known one; two unknown methods are ordered by their literal text.
// Headers of other types are ordered as in [Compare].
func (hdr *CSeq) Compare(val Header) int {
	other, ok := cseqOf(val)
	if !ok {
		if hdr == nil {
			return Compare(nil, val)
		}
		return compareGeneric(hdr, val)
	}

	switch {
	case hdr == other:
		return 0
	case hdr == nil:
		return -1
	case other == nil:
		return 1
	}

	if c := cmp.Compare(hdr.Method, other.Method); c != 0 {
		return c
	}
	if c := cmp.Compare(hdr.UnknownMethod, other.UnknownMethod); c != 0 {
		return c
	}
	return cmp.Compare(hdr.SeqNum, other.SeqNum)
}

// IsValid checks whether the header is syntactically valid.
// A known method must be stored in Method, spelling it in UnknownMethod is invalid.
func (hdr *CSeq) IsValid() bool {
	if hdr == nil {
		return false
	}
	if hdr.Method == MethodUnknown {
		return grammar.IsToken(hdr.UnknownMethod) && LookupMethod(hdr.UnknownMethod) == MethodUnknown
	}
	return hdr.Method.IsKnown() && hdr.UnknownMethod == ""
}

func (hdr *CSeq) MarshalJSON() ([]byte, error) {
	return errtrace.Wrap2(ToJSON(hdr))
}

func (hdr *CSeq) UnmarshalJSON(data []byte) error {
	h, err := fromJSONAs[*CSeq](data)
	if err != nil || h == nil {
		*hdr = CSeq{}
		return errtrace.Wrap(err)
	}
	*hdr = *h
	return nil
}
