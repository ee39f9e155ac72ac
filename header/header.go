package header

//go:generate go tool errtrace -w .

import (
	"net/textproto"

	"github.com/ghettovoice/sipstack/internal/grammar"
	"github.com/ghettovoice/sipstack/internal/types"
	"github.com/ghettovoice/sipstack/internal/util"
)

// RenderOptions contains options for rendering headers.
type RenderOptions = types.RenderOptions

// MethodType enumerates known SIP request methods.
type MethodType = types.MethodType

// Known request methods. See [types.MethodType] for the sort order.
const (
	MethodUnknown   = types.MethodUnknown
	MethodAck       = types.MethodAck
	MethodBye       = types.MethodBye
	MethodCancel    = types.MethodCancel
	MethodInfo      = types.MethodInfo
	MethodInvite    = types.MethodInvite
	MethodMessage   = types.MethodMessage
	MethodNotify    = types.MethodNotify
	MethodOptions   = types.MethodOptions
	MethodPrack     = types.MethodPrack
	MethodPublish   = types.MethodPublish
	MethodRefer     = types.MethodRefer
	MethodRegister  = types.MethodRegister
	MethodService   = types.MethodService
	MethodSubscribe = types.MethodSubscribe
	MethodUpdate    = types.MethodUpdate
)

// LookupMethod matches the whole token s against the known methods, case-sensitively.
func LookupMethod[T ~string | ~[]byte](s T) MethodType { return types.LookupMethod(s) }

// Header represents a generic SIP header.
type Header interface {
	types.Renderer
	types.Cloneable[Header]
	types.ValidFlag
	types.Equalable
	CanonicName() Name
	CompactName() Name
	RenderValue() string
}

// Name represents a SIP header name.
type Name string

// ToCanonic converts the Name to its canonical form.
func (n Name) ToCanonic() Name { return CanonicName(n) }

// IsValid checks whether the Name is syntactically valid.
func (n Name) IsValid() bool { return grammar.IsToken(n) }

// Equal compares this Name with another for equality.
func (n Name) Equal(val any) bool {
	var other Name
	switch v := val.(type) {
	case Name:
		other = v
	case *Name:
		if v == nil {
			return false
		}
		other = *v
	default:
		return false
	}
	return CanonicName(n) == CanonicName(other)
}

var hdrNames = map[string]Name{
	"c":                "Content-Type",
	"e":                "Content-Encoding",
	"f":                "From",
	"i":                "Call-ID",
	"k":                "Supported",
	"l":                "Content-Length",
	"m":                "Contact",
	"s":                "Subject",
	"t":                "To",
	"v":                "Via",
	"Call-Id":          "Call-ID",
	"Cseq":             "CSeq",
	"Mime-Version":     "MIME-Version",
	"Www-Authenticate": "WWW-Authenticate",
}

// CanonicName converts name to the canonical form.
// The canonicalization converts the first letter and any letter following a hyphen to upper case;
// the rest are converted to lowercase. For example, the canonical name for "accept-encoding" is "Accept-Encoding".
// Also, any compact name is converted to its full canonical form. For example, "c" converts to "Content-Type".
func CanonicName[T ~string](name T) Name {
	name = util.TrimSP(name)
	if n, ok := hdrNames[string(name)]; ok {
		return n
	}

	name = T(textproto.CanonicalMIMEHeaderKey(string(name)))
	if n, ok := hdrNames[string(name)]; ok {
		return n
	}
	return Name(name)
}
