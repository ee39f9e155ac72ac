package header

import (
	"fmt"
	"io"

	"braces.dev/errtrace"

	"github.com/ghettovoice/sipstack/internal/grammar"
	"github.com/ghettovoice/sipstack/internal/util"
)

// Any implements a generic header.
// It keeps the raw value text of headers that have no built-in grammar.
type Any struct {
	Name  string
	Value string
}

func (hdr *Any) CanonicName() Name { return CanonicName(hdr.Name) }

func (hdr *Any) CompactName() Name { return CanonicName(hdr.Name) }

// CommaHandling returns [Opaque]: the value is never split at commas.
func (*Any) CommaHandling() CommaPolicy { return Opaque }

func (hdr *Any) RenderTo(w io.Writer, opts *RenderOptions) (num int, err error) {
	if hdr == nil {
		return 0, nil
	}
	return errtrace.Wrap2(renderCategory(w, hdr, opts))
}

func (hdr *Any) RenderValueTo(w io.Writer) (num int, err error) {
	if hdr == nil {
		return 0, nil
	}
	return errtrace.Wrap2(io.WriteString(w, hdr.Value))
}

func (hdr *Any) Render(opts *RenderOptions) string {
	if hdr == nil {
		return ""
	}
	return renderToString(func(w io.Writer) (int, error) { return hdr.RenderTo(w, opts) })
}

func (hdr *Any) String() string { return hdr.RenderValue() }

// RenderValue returns the header value without the name prefix.
func (hdr *Any) RenderValue() string {
	if hdr == nil {
		return ""
	}
	return hdr.Value
}

func (hdr *Any) Format(f fmt.State, verb rune) {
	type hideMethods Any
	formatHeader(f, verb, hdr, (*hideMethods)(hdr))
}

func (hdr *Any) Clone() Header {
	if hdr == nil {
		return nil
	}
	hdr2 := *hdr
	return &hdr2
}

func (hdr *Any) Equal(val any) bool {
	var other *Any
	switch v := val.(type) {
	case Any:
		other = &v
	case *Any:
		other = v
	default:
		return false
	}

	if hdr == other {
		return true
	} else if hdr == nil || other == nil {
		return false
	}

	return util.EqFold(hdr.Name, other.Name) && hdr.Value == other.Value
}

func (hdr *Any) Compare(val Header) int {
	if hdr == nil {
		return Compare(nil, val)
	}
	return compareGeneric(hdr, val)
}

func (hdr *Any) IsValid() bool { return hdr != nil && grammar.IsToken(hdr.Name) }

func (hdr *Any) MarshalJSON() ([]byte, error) {
	return errtrace.Wrap2(ToJSON(hdr))
}

func (hdr *Any) UnmarshalJSON(data []byte) error {
	h, err := fromJSONAs[*Any](data)
	if err != nil || h == nil {
		*hdr = Any{}
		return errtrace.Wrap(err)
	}
	*hdr = *h
	return nil
}
