package message

import (
	"io"
	"log/slog"
	"slices"

	"braces.dev/errtrace"

	"github.com/ghettovoice/sipstack/header"
	"github.com/ghettovoice/sipstack/internal/errorutil"
	"github.com/ghettovoice/sipstack/internal/ioutil"
	"github.com/ghettovoice/sipstack/internal/scanner"
	"github.com/ghettovoice/sipstack/internal/util"
	"github.com/ghettovoice/sipstack/log"
)

// HeadersOptions are options for [Headers].
type HeadersOptions struct {
	// Logger is used to log parse failures and skipped header lines.
	// If nil, [log.Default] is used.
	Logger *slog.Logger
	// Recorder observes header parses.
	// If nil, parses are not recorded.
	Recorder ParseRecorder
}

func (o *HeadersOptions) log() *slog.Logger {
	if o == nil || o.Logger == nil {
		return log.Default()
	}
	return o.Logger
}

func (o *HeadersOptions) recorder() ParseRecorder {
	if o == nil || o.Recorder == nil {
		return noopRecorder{}
	}
	return o.Recorder
}

// Headers is an ordered collection of message headers.
//
// Raw header values are parsed lazily on first typed access, see [Entry].
// Reading methods ([Headers.Get], typed accessors, [Headers.RenderTo]) are safe for
// concurrent use. Methods changing the collection structure ([Headers.Append],
// [Headers.Add], [Headers.Set], [Headers.Remove], [Headers.RemoveAll]) must not run
// concurrently with any other method.
//
// Headers are kept grouped by name in the order names were first inserted;
// occurrences of one name keep their relative order.
type Headers struct {
	log    *slog.Logger
	rec    ParseRecorder
	order  []header.Name
	byName map[header.Name][]*Entry
}

// NewHeaders creates an empty header collection.
// Options are optional, default options are used if nil (see [HeadersOptions]).
func NewHeaders(opts *HeadersOptions) *Headers {
	return &Headers{
		log:    opts.log(),
		rec:    opts.recorder(),
		byName: make(map[header.Name][]*Entry),
	}
}

func (hs *Headers) push(e *Entry) {
	if hs.byName == nil {
		hs.byName = make(map[header.Name][]*Entry)
	}
	if _, ok := hs.byName[e.name]; !ok {
		hs.order = append(hs.order, e.name)
	}
	hs.byName[e.name] = append(hs.byName[e.name], e)
}

// Append appends a raw header value. The value is not parsed.
// Values of comma-list headers are split into one entry per element.
func (hs *Headers) Append(name string, value Span) {
	hs.appendLine(name, value, Span{})
}

// AppendRaw is like [Headers.Append] but takes a private copy of value.
func (hs *Headers) AppendRaw(name string, value string) {
	hs.Append(name, OwnedSpan(value))
}

func (hs *Headers) appendLine(name string, value Span, line Span) {
	cname := header.CanonicName(name)
	grp := &lineGroup{line: line, value: value, name: util.TrimSP(name)}

	if header.Policy(cname) == header.CommaList {
		elems := splitCommaList(value.Bytes())
		if !slices.ContainsFunc(elems, func(r [2]int) bool { return r[0] == r[1] }) || len(elems) == 1 {
			grp.size = len(elems)
			for _, r := range elems {
				hs.push(newRawEntry(cname, subSpan(value, r[0], r[1]), grp))
			}
			return
		}
	}

	grp.size = 1
	hs.push(newRawEntry(cname, value, grp))
}

// Add appends a parsed header.
// A single-value header can not be added when the collection already has it,
// use [Headers.Set] to replace it.
//
// Comma-list headers are added as one entry per element, the same way a
// received line is split, and render back as a single line.
func (hs *Headers) Add(hdr header.Header) error {
	if hdr == nil {
		return errtrace.Wrap(errorutil.NewInvalidArgumentError("nil header"))
	}
	name := hdr.CanonicName()
	if header.Policy(name) == header.SingleValue && len(hs.byName[name]) > 0 {
		return errtrace.Wrap(errorutil.NewWrapperError(header.ErrCommaHandling, string(name)))
	}

	if elems := listElems(hdr); len(elems) > 1 {
		grp := &lineGroup{name: string(name), size: len(elems)}
		for _, el := range elems {
			e := newParsedEntry(el)
			e.group = grp
			hs.push(e)
		}
		return nil
	}
	hs.push(newParsedEntry(hdr))
	return nil
}

// listElems splits a comma-list header into single element headers.
// It returns nil for other headers.
func listElems(hdr header.Header) []header.Header {
	switch v := hdr.(type) {
	case header.Allow:
		return splitList(v)
	case header.Supported:
		return splitList(v)
	}
	return nil
}

func splitList[T interface {
	~[]string
	header.Header
}](list T) []header.Header {
	hdrs := make([]header.Header, len(list))
	for i, s := range list {
		hdrs[i] = T{s}
	}
	return hdrs
}

// Set replaces the idx-th occurrence of the named header.
func (hs *Headers) Set(name string, idx int, hdr header.Header) error {
	cname := header.CanonicName(name)
	if hdr == nil || hdr.CanonicName() != cname {
		return errtrace.Wrap(errorutil.NewInvalidArgumentError("header does not match name %q", cname))
	}
	e, err := hs.entry(cname, idx)
	if err != nil {
		return errtrace.Wrap(err)
	}
	e.set(hdr)
	return nil
}

func (hs *Headers) entry(name header.Name, idx int) (*Entry, error) {
	es := hs.byName[name]
	if idx < 0 || idx >= len(es) {
		return nil, errtrace.Wrap(errorutil.NewWrapperError(ErrHeaderNotFound, "%s[%d]", name, idx))
	}
	return es[idx], nil
}

func (hs *Headers) checkCommaHandling(name header.Name) error {
	es := hs.byName[name]
	if len(es) > 1 && header.Policy(name) == header.SingleValue {
		return errtrace.Wrap(&header.MalformedError{
			Name:  name,
			Value: es[1].Raw().String(),
			Err:   header.ErrCommaHandling,
		})
	}
	return nil
}

// Get returns the idx-th occurrence of the named header, parsing it if needed.
//
// A parse failure is returned as [*header.MalformedError] and is cached, other
// headers are not affected. A single-value header that occurs more than once
// is reported as malformed with [header.ErrCommaHandling] without being parsed.
func (hs *Headers) Get(name string, idx int) (header.Header, error) {
	cname := header.CanonicName(name)
	e, err := hs.entry(cname, idx)
	if err != nil {
		return nil, errtrace.Wrap(err)
	}
	if err := hs.checkCommaHandling(cname); err != nil {
		return nil, errtrace.Wrap(err)
	}
	return errtrace.Wrap2(e.materialize(hs.rec, hs.log))
}

// Entries returns the entries of the named header.
func (hs *Headers) Entries(name string) []*Entry {
	return slices.Clone(hs.byName[header.CanonicName(name)])
}

func getTyped[T header.Header](hs *Headers, name header.Name) (T, error) {
	var zero T
	hdr, err := hs.Get(string(name), 0)
	if err != nil {
		return zero, errtrace.Wrap(err)
	}
	v, ok := hdr.(T)
	if !ok {
		return zero, errtrace.Wrap(errorutil.Errorf("unexpected %s header: got %T, want %T", name, hdr, zero))
	}
	return v, nil
}

func collectList[T ~[]string](hs *Headers, name header.Name) (T, error) {
	n := len(hs.byName[name])
	if n == 0 {
		return nil, errtrace.Wrap(errorutil.NewWrapperError(ErrHeaderNotFound, string(name)))
	}

	var list T
	for i := range n {
		hdr, err := hs.Get(string(name), i)
		if err != nil {
			return nil, errtrace.Wrap(err)
		}
		elems, ok := hdr.(T)
		if !ok {
			return nil, errtrace.Wrap(errorutil.Errorf("unexpected %s header: got %T, want %T", name, hdr, list))
		}
		list = append(list, elems...)
	}
	return list, nil
}

// CSeq returns the parsed CSeq header.
func (hs *Headers) CSeq() (*header.CSeq, error) {
	return errtrace.Wrap2(getTyped[*header.CSeq](hs, "CSeq"))
}

// CallID returns the parsed Call-ID header.
func (hs *Headers) CallID() (header.CallID, error) {
	return errtrace.Wrap2(getTyped[header.CallID](hs, "Call-ID"))
}

// ContentLength returns the parsed Content-Length header.
func (hs *Headers) ContentLength() (header.ContentLength, error) {
	return errtrace.Wrap2(getTyped[header.ContentLength](hs, "Content-Length"))
}

// MaxForwards returns the parsed Max-Forwards header.
func (hs *Headers) MaxForwards() (header.MaxForwards, error) {
	return errtrace.Wrap2(getTyped[header.MaxForwards](hs, "Max-Forwards"))
}

// Allow returns all Allow elements of the message combined.
func (hs *Headers) Allow() (header.Allow, error) {
	return errtrace.Wrap2(collectList[header.Allow](hs, "Allow"))
}

// Supported returns all Supported elements of the message combined.
func (hs *Headers) Supported() (header.Supported, error) {
	return errtrace.Wrap2(collectList[header.Supported](hs, "Supported"))
}

// Remove removes the idx-th occurrence of the named header.
func (hs *Headers) Remove(name string, idx int) bool {
	cname := header.CanonicName(name)
	es := hs.byName[cname]
	if idx < 0 || idx >= len(es) {
		return false
	}
	if len(es) == 1 {
		hs.RemoveAll(name)
		return true
	}
	hs.byName[cname] = slices.Delete(es, idx, idx+1)
	return true
}

// RemoveAll removes all occurrences of the named header and returns their number.
func (hs *Headers) RemoveAll(name string) int {
	cname := header.CanonicName(name)
	n := len(hs.byName[cname])
	if n == 0 {
		return 0
	}
	delete(hs.byName, cname)
	hs.order = slices.DeleteFunc(hs.order, func(n header.Name) bool { return n == cname })
	return n
}

// Len returns the number of occurrences of the named header.
func (hs *Headers) Len(name string) int { return len(hs.byName[header.CanonicName(name)]) }

// Has reports whether the named header is present.
func (hs *Headers) Has(name string) bool { return hs.Len(name) > 0 }

// Names returns canonical names of the present headers in insertion order.
func (hs *Headers) Names() []header.Name { return slices.Clone(hs.order) }

// ParseAll parses every header and returns all parse failures joined.
func (hs *Headers) ParseAll() error {
	var errs []error
	for _, name := range hs.order {
		if err := hs.checkCommaHandling(name); err != nil {
			errs = append(errs, err)
			continue
		}
		for _, e := range hs.byName[name] {
			if _, err := e.materialize(hs.rec, hs.log); err != nil {
				errs = append(errs, err)
			}
		}
	}
	return errtrace.Wrap(errorutil.Join(errs...))
}

// Validate parses every header and checks the parsed values.
func (hs *Headers) Validate() error {
	errs := []error{hs.ParseAll()}
	for _, name := range hs.order {
		if hs.checkCommaHandling(name) != nil {
			continue
		}
		for i, e := range hs.byName[name] {
			hdr, err := e.materialize(hs.rec, hs.log)
			if err != nil || hdr.IsValid() {
				continue
			}
			errs = append(errs, errorutil.NewWrapperError(header.ErrMalformedHeader, "invalid %s[%d] value %q", name, i, hdr.RenderValue()))
		}
	}
	return errtrace.Wrap(errorutil.JoinPrefix("invalid headers:", errs...))
}

// Clone returns a deep copy of the collection.
// Borrowed raw values keep referring to the same buffer; parsed values are cloned.
func (hs *Headers) Clone() *Headers {
	if hs == nil {
		return nil
	}
	hs2 := &Headers{
		log:    hs.log,
		rec:    hs.rec,
		order:  slices.Clone(hs.order),
		byName: make(map[header.Name][]*Entry, len(hs.byName)),
	}
	for name, es := range hs.byName {
		es2 := make([]*Entry, len(es))
		for i, e := range es {
			es2[i] = e.clone()
		}
		hs2.byName[name] = es2
	}
	return hs2
}

// RenderTo writes all headers in wire format, each line terminated with CRLF.
//
// Untouched header lines are written byte-for-byte as received.
// A comma-list line with modified or removed elements is joined again from its
// remaining elements. Modified and added headers are rendered with canonical names.
func (hs *Headers) RenderTo(w io.Writer) (num int, err error) {
	cw := ioutil.GetCountingWriter(w)
	defer ioutil.FreeCountingWriter(cw)

	for _, name := range hs.order {
		es := hs.byName[name]
		for i := 0; i < len(es); {
			j := i + 1
			if grp := es[i].group; grp != nil {
				for j < len(es) && es[j].group == grp {
					j++
				}
			}
			renderRun(cw, name, es[i:j])
			i = j
		}
	}
	return errtrace.Wrap2(cw.Result())
}

func renderRun(cw *ioutil.CountingWriter, name header.Name, run []*Entry) {
	grp := run[0].group
	if grp != nil && len(run) == grp.size && !slices.ContainsFunc(run, (*Entry).Dirty) {
		if grp.line.Len() > 0 {
			cw.Write(grp.line.Bytes()) //nolint:errcheck
		} else {
			cw.Fprint(grp.name, ": ")
			cw.Write(grp.value.Bytes()) //nolint:errcheck
		}
		cw.CRLF()
		return
	}

	if grp != nil && header.Policy(name) == header.CommaList {
		cw.Fprint(name, ": ")
		writeValues(cw, run)
		cw.CRLF()
		return
	}

	for _, e := range run {
		cw.Fprint(name, ": ")
		cw.Write(e.renderValue()) //nolint:errcheck
		cw.CRLF()
	}
}

func writeValues(cw *ioutil.CountingWriter, run []*Entry) {
	for i, e := range run {
		if i > 0 {
			cw.WriteString(", ") //nolint:errcheck
		}
		cw.Write(e.renderValue()) //nolint:errcheck
	}
}

// Render returns all headers in wire format.
func (hs *Headers) Render() string {
	sb := util.GetStringBuilder()
	defer util.FreeStringBuilder(sb)
	hs.RenderTo(sb) //nolint:errcheck
	return sb.String()
}

func subSpan(s Span, i, j int) Span {
	if s.Borrowed() {
		return s.buf.mustSpan(s.off+i, j-i)
	}
	return OwnedSpan(s.own[i:j])
}

// splitCommaList returns ranges of comma separated elements of b
// with surrounding whitespace trimmed. Commas inside quoted strings and
// angle brackets do not separate elements.
func splitCommaList(b []byte) [][2]int {
	var elems [][2]int
	c := scanner.New(b)
	start := 0
	for c.SkipToOneOf(",\"<") {
		ch, _ := c.Peek()
		c.SkipChar(ch)
		switch ch {
		case ',':
			elems = append(elems, trimRange(b, start, c.Pos()-1))
			start = c.Pos()
		case '"':
			for c.SkipToOneOf("\\\"") {
				if c.SkipChar('"') {
					break
				}
				c.SkipChar('\\')
				c.Reset(c.Mark() + 1)
			}
		case '<':
			c.SkipToChar('>')
		}
	}
	return append(elems, trimRange(b, start, len(b)))
}

func trimRange(b []byte, i, j int) [2]int {
	isSpace := func(c byte) bool { return c == ' ' || c == '\t' || c == '\r' || c == '\n' }
	for i < j && isSpace(b[i]) {
		i++
	}
	for j > i && isSpace(b[j-1]) {
		j--
	}
	return [2]int{i, j}
}
