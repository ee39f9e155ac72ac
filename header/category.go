package header

import (
	"bytes"
	"cmp"
	"fmt"
	"io"
	"strconv"
	"sync"

	"braces.dev/errtrace"

	"github.com/ghettovoice/sipstack/internal/errorutil"
	"github.com/ghettovoice/sipstack/internal/grammar"
	"github.com/ghettovoice/sipstack/internal/ioutil"
	"github.com/ghettovoice/sipstack/internal/scanner"
	"github.com/ghettovoice/sipstack/internal/util"
)

// CommaPolicy tells whether several values of a header may share one line.
type CommaPolicy uint8

const (
	// SingleValue headers appear at most once per message and never combine with commas.
	SingleValue CommaPolicy = iota
	// CommaList headers carry comma-separated elements and may repeat.
	CommaList
	// Opaque headers are kept as written: they may repeat but are never split at commas.
	Opaque
)

func (p CommaPolicy) String() string {
	switch p {
	case SingleValue:
		return "single-value"
	case CommaList:
		return "comma-list"
	case Opaque:
		return "opaque"
	default:
		return "unknown"
	}
}

// Category is a structured header with its own grammar.
//
// Categories are a closed set defined by this package; their grammars are
// selected by canonical header name in [ParseValue].
type Category interface {
	Header
	// RenderValueTo writes the canonical wire text of the field value.
	RenderValueTo(w io.Writer) (int, error)
	// Compare orders the header against another one. See [Compare].
	Compare(other Header) int
	// CommaHandling reports the comma policy of the header name.
	CommaHandling() CommaPolicy
}

type category struct {
	parse func(c *scanner.Cursor) (Header, error)
	comma CommaPolicy
}

type cursorParser[T any] interface {
	*T
	parseFrom(c *scanner.Cursor) error
}

func parseAs[T Header, PT cursorParser[T]](c *scanner.Cursor) (Header, error) {
	var hdr T
	if err := PT(&hdr).parseFrom(c); err != nil {
		return nil, errtrace.Wrap(err)
	}
	return hdr, nil
}

func parseCSeq(c *scanner.Cursor) (Header, error) {
	hdr := new(CSeq)
	if err := hdr.parseFrom(c); err != nil {
		return nil, errtrace.Wrap(err)
	}
	return hdr, nil
}

// categories is the grammar dispatch table keyed by canonical name.
var categories = map[Name]category{
	"CSeq":           {parse: parseCSeq, comma: SingleValue},
	"Call-ID":        {parse: parseAs[CallID], comma: SingleValue},
	"Content-Length": {parse: parseAs[ContentLength], comma: SingleValue},
	"Max-Forwards":   {parse: parseAs[MaxForwards], comma: SingleValue},
	"Allow":          {parse: parseAs[Allow], comma: CommaList},
	"Supported":      {parse: parseAs[Supported], comma: CommaList},
}

// Policy returns the comma policy of the header name without parsing anything.
// Names without a built-in grammar are [Opaque].
func Policy[T ~string](name T) CommaPolicy {
	if cat, ok := categories[CanonicName(name)]; ok {
		return cat.comma
	}
	return Opaque
}

// HasGrammar reports whether the header name has a built-in grammar.
func HasGrammar[T ~string](name T) bool {
	_, ok := categories[CanonicName(name)]
	return ok
}

// Parser is a function type for parsing a custom SIP header.
type Parser func(name string, value []byte) Header

var customParsers sync.Map // map[string]Parser

// RegisterParser registers a custom SIP header parser.
// Built-in grammars take precedence over custom parsers.
func RegisterParser(name string, parser Parser) {
	customParsers.Store(util.LCase(name), parser)
}

// UnregisterParser unregisters a custom SIP header parser.
func UnregisterParser(name string) {
	customParsers.Delete(util.LCase(name))
}

// ParseValue parses the header value of the header with the given name.
//
// Headers with a built-in grammar are parsed into their [Category];
// a grammar violation is reported as [*MalformedError].
// Other headers are handed to a registered custom [Parser], falling back to [Any].
// Parsed values never alias value.
func ParseValue[T ~string | ~[]byte](name string, value T) (Header, error) {
	cname := CanonicName(name)
	if cat, ok := categories[cname]; ok {
		c := scanner.New([]byte(value))
		hdr, err := cat.parse(c)
		if err != nil {
			return nil, errtrace.Wrap(&MalformedError{
				Name:   cname,
				Value:  string(value),
				Offset: c.Pos(),
				Err:    err,
			})
		}
		return hdr, nil
	}

	if prs, ok := customParsers.Load(util.LCase(string(cname))); ok && prs != nil {
		//nolint:forcetypeassert
		if hdr := prs.(Parser)(name, bytes.Clone([]byte(value))); hdr != nil {
			return hdr, nil
		}
	}
	return &Any{Name: name, Value: string(value)}, nil
}

// Parse parses a whole header line "name: value" from the given input s (string or []byte).
// If the parsing fails, an error is returned along with nil as the header value.
//
// Example usage:
//
//	hdr, err := header.Parse("CSeq: INVITE 4711")
func Parse[T ~string | ~[]byte](s T) (Header, error) {
	line := bytes.TrimRight([]byte(s), "\r\n")
	if len(line) == 0 {
		return nil, errtrace.Wrap(&MalformedError{Err: grammar.ErrEmptyInput})
	}
	c := scanner.New(line)
	m := c.Mark()
	c.SkipToChar(':')
	name := string(util.TrimWSP(c.Data(m)))
	if err := c.ExpectChar(':'); err != nil {
		return nil, errtrace.Wrap(&MalformedError{
			Value:  string(line),
			Offset: c.Pos(),
			Err:    errorutil.NewWrapperError(grammar.ErrMalformedInput, err),
		})
	}
	if !grammar.IsToken(name) {
		return nil, errtrace.Wrap(&MalformedError{Name: Name(name), Value: string(line), Err: grammar.ErrMalformedInput})
	}
	return errtrace.Wrap2(ParseValue(name, util.TrimWSP(c.Rest())))
}

// Compare returns a total order over headers: -1 if a < b, 0 if equal, +1 if a > b.
// Nil sorts first. Headers of the same category are ordered by their fields
// (see the category Compare method); otherwise by canonical name, then by rendered value.
func Compare(a, b Header) int {
	switch {
	case a == nil && b == nil:
		return 0
	case a == nil:
		return -1
	case b == nil:
		return 1
	}
	if ca, ok := a.(Category); ok {
		return ca.Compare(b)
	}
	return compareGeneric(a, b)
}

func compareGeneric(a, b Header) int {
	if b == nil {
		return 1
	}
	if c := cmp.Compare(a.CanonicName(), b.CanonicName()); c != 0 {
		return c
	}
	return cmp.Compare(a.RenderValue(), b.RenderValue())
}

func hdrName(hdr Header, opts *RenderOptions) Name {
	if opts != nil && opts.Compact {
		return hdr.CompactName()
	}
	return hdr.CanonicName()
}

func renderCategory(w io.Writer, hdr Category, opts *RenderOptions) (num int, err error) {
	cw := ioutil.GetCountingWriter(w)
	defer ioutil.FreeCountingWriter(cw)
	cw.Fprint(hdrName(hdr, opts), ": ")
	cw.Call(hdr.RenderValueTo)
	return errtrace.Wrap2(cw.Result())
}

func renderToString(fn func(io.Writer) (int, error)) string {
	sb := util.GetStringBuilder()
	defer util.FreeStringBuilder(sb)
	fn(sb) //nolint:errcheck
	return sb.String()
}

// atValueEnd skips trailing whitespace and reports whether nothing else is left.
func atValueEnd(c *scanner.Cursor) bool {
	c.SkipWhitespace()
	return c.EOF()
}

// formatHeader implements the %s, %+s, %q and %+q verbs shared by all headers.
// Other verbs print raw, which must be the header converted to a method-less type.
func formatHeader(f fmt.State, verb rune, hdr Header, raw any) {
	switch verb {
	case 's':
		if f.Flag('+') {
			hdr.RenderTo(f, nil) //nolint:errcheck
			return
		}
		fmt.Fprint(f, hdr.RenderValue())
	case 'q':
		if f.Flag('+') {
			fmt.Fprint(f, strconv.Quote(hdr.Render(nil)))
			return
		}
		fmt.Fprint(f, strconv.Quote(hdr.RenderValue()))
	default:
		fmt.Fprintf(f, fmt.FormatString(f, verb), raw)
	}
}

// parseTokenList reads "token *(COMMA token)". An empty value yields an empty list.
func parseTokenList(c *scanner.Cursor) ([]string, error) {
	list := []string{}
	if atValueEnd(c) {
		return list, nil
	}
	for {
		c.SkipWhitespace()
		m := c.Mark()
		c.SkipToOneOf(" \t\r\n,")
		tok := c.Data(m)
		if len(tok) == 0 {
			return nil, errtrace.Wrap(ErrEmptyElement)
		}
		if !grammar.IsToken(tok) {
			c.Reset(m)
			return nil, errtrace.Wrap(grammar.ErrMalformedInput)
		}
		list = append(list, string(tok))

		if c.SkipWhitespaceThen(',') {
			continue
		}
		if atValueEnd(c) {
			return list, nil
		}
		return nil, errtrace.Wrap(ErrTrailingData)
	}
}

func renderTokenList(w io.Writer, list []string) (num int, err error) {
	cw := ioutil.GetCountingWriter(w)
	defer ioutil.FreeCountingWriter(cw)
	for i, s := range list {
		if i > 0 {
			cw.WriteString(", ") //nolint:errcheck
		}
		cw.WriteString(s) //nolint:errcheck
	}
	return errtrace.Wrap2(cw.Result())
}
