// Package header provides typed representations of SIP message headers.
//
// Every header type implements the [Header] interface, which combines [types.Renderer],
// [types.Cloneable[Header]], [types.ValidFlag], and [types.Equalable]. Headers with a
// built-in grammar additionally implement [Category].
//
// # Categories
//
// The set of structured headers is closed. Grammars are selected by canonical header
// name:
//
//	CSeq            [CSeq]           single value
//	Call-ID         [CallID]         single value
//	Content-Length  [ContentLength]  single value
//	Max-Forwards    [MaxForwards]    single value
//	Allow           [Allow]          comma list
//	Supported       [Supported]      comma list
//
// Any other header is kept as [Any], an opaque name/value pair, unless a custom
// parser was registered for its name with [RegisterParser].
//
// [Policy] tells how several occurrences of a header may be written: single-value
// headers never share a line or repeat, comma-list headers may be joined with commas,
// and opaque headers may repeat but are never split.
//
// # Parsing
//
// Use [ParseValue] to parse a field value of a known header name, or [Parse] to parse
// a whole "Name: value" line:
//
//	hdr, err := header.ParseValue("CSeq", "INVITE 4711")
//	hdr, err := header.Parse("CSeq: INVITE 4711")
//
// Grammar failures are reported as [*MalformedError], which matches
// [ErrMalformedHeader] and the underlying cause with [errors.Is]:
//
//	_, err := header.ParseValue("CSeq", "INVITE")
//	errors.Is(err, header.ErrMalformedHeader) // true
//	errors.Is(err, scanner.ErrNoDigits)       // true
//
// Parsed values never alias the input bytes.
//
// # CSeq
//
// The CSeq value is written as "METHOD seq", method first. The method token is
// matched case-sensitively and as a whole against the known methods; any other token
// is kept literally in [CSeq.UnknownMethod] with [CSeq.Method] set to [MethodUnknown].
// Sequence numbers above 2^32-1 are rejected. Text after the sequence number is ignored.
//
// [Compare] gives a total order over headers. CSeq values order by method, with an
// unknown method before every known one, then by sequence number.
//
// # Header Naming and Canonicalization
//
// Header names are canonicalized using [textproto.CanonicalMIMEHeaderKey] combined
// with an internal mapping for SIP-specific capitalization rules and compact forms:
//
//	"i" → "Call-ID"
//	"k" → "Supported"
//	"l" → "Content-Length"
//	"Cseq" → "CSeq"
//
// # Rendering
//
//	str := hdr.Render(nil)                 // returns "Name: Value"
//	val := hdr.RenderValue()               // returns "Value" without name
//	hdr.RenderTo(writer, opts)             // writes to io.Writer
//
// Compact names are used when [RenderOptions.Compact] is set.
//
// # JSON Serialization
//
// Headers are serialized as {"name":"<CanonicName>","value":"<RenderValue>"} with
// [ToJSON] and [FromJSON]. [FromJSON] re-parses the value, so only valid headers are
// decoded.
package header
