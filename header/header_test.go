package header_test

import (
	"errors"
	"fmt"
	"io"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"github.com/ghettovoice/sipstack/header"
	"github.com/ghettovoice/sipstack/internal/grammar"
	"github.com/ghettovoice/sipstack/internal/scanner"
)

func asMalformed(err error, target **header.MalformedError) bool {
	return errors.As(err, target)
}

func TestCanonicName(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		in   string
		out  header.Name
	}{
		{"", "call-id", "Call-ID"},
		{"", "cALL-id", "Call-ID"},
		{"", "Call-Id", "Call-ID"},
		{"", "i", "Call-ID"},
		{"", "Call-ID", "Call-ID"},
		{"", "cseq", "CSeq"},
		{"", "Cseq", "CSeq"},
		{"", " CSeq ", "CSeq"},
		{"", "x-custom-header", "X-Custom-Header"},
		{"", "l", "Content-Length"},
		{"", "k", "Supported"},
		{"", "max-forwards", "Max-Forwards"},
		{"", "mime-version", "MIME-Version"},
		{"", "www-authenticate", "WWW-Authenticate"},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			t.Parallel()

			if got, want := header.CanonicName(c.in), c.out; got != want {
				t.Errorf("header.CanonicName(%q) = %q, want %q", c.in, got, want)
			}
		})
	}
}

func TestName_Equal(t *testing.T) {
	t.Parallel()

	n := header.Name("call-id")
	if !n.Equal(header.Name("i")) {
		t.Error("Name(\"call-id\").Equal(\"i\") = false, want true")
	}
	other := header.Name("CALL-ID")
	if !n.Equal(&other) {
		t.Error("Name(\"call-id\").Equal(&\"CALL-ID\") = false, want true")
	}
	if n.Equal("Call-ID") {
		t.Error("Name.Equal(string) = true, want false")
	}
	if header.Name("bad name").IsValid() {
		t.Error("Name(\"bad name\").IsValid() = true, want false")
	}
}

func TestPolicy(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		want header.CommaPolicy
	}{
		{"CSeq", header.SingleValue},
		{"cseq", header.SingleValue},
		{"i", header.SingleValue},
		{"Content-Length", header.SingleValue},
		{"Max-Forwards", header.SingleValue},
		{"Allow", header.CommaList},
		{"k", header.CommaList},
		{"X-Foo", header.Opaque},
		{"Via", header.Opaque},
	}

	for _, c := range cases {
		if got := header.Policy(c.name); got != c.want {
			t.Errorf("header.Policy(%q) = %v, want %v", c.name, got, c.want)
		}
	}
	if !header.HasGrammar("cseq") || header.HasGrammar("X-Foo") {
		t.Error("header.HasGrammar() mismatch")
	}
}

func TestParse(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name    string
		src     any
		wantHdr header.Header
		wantErr error
	}{
		{"empty string", "", nil, grammar.ErrEmptyInput},
		{"empty bytes", []byte{}, nil, grammar.ErrEmptyInput},
		{"trash", "qwerty", nil, grammar.ErrMalformedInput},
		{"missing colon", "CSeq INVITE 1", nil, scanner.ErrUnexpectedChar},
		{"bad name", "Bad Name: x", nil, grammar.ErrMalformedInput},

		{"cseq", "CSeq: INVITE 4711\r\n", &header.CSeq{Method: header.MethodInvite, SeqNum: 4711}, nil},
		{"cseq bytes", []byte("cseq:ACK 1"), &header.CSeq{Method: header.MethodAck, SeqNum: 1}, nil},
		{"cseq malformed", "CSeq: INVITE", nil, scanner.ErrNoDigits},
		{"call-id", "Call-ID: abc@example.com", header.CallID("abc@example.com"), nil},
		{"call-id compact", "i: abc", header.CallID("abc"), nil},
		{"call-id trailing", "Call-ID: abc def", nil, header.ErrTrailingData},
		{"call-id empty", "Call-ID:", nil, grammar.ErrEmptyInput},
		{"content-length", "l: 123", header.ContentLength(123), nil},
		{"content-length trailing", "Content-Length: 12a", nil, header.ErrTrailingData},
		{"max-forwards", "Max-Forwards: 70", header.MaxForwards(70), nil},
		{"allow", "Allow: INVITE, ACK ,BYE", header.Allow{"INVITE", "ACK", "BYE"}, nil},
		{"allow empty", "Allow:", header.Allow{}, nil},
		{"allow trailing comma", "Allow: INVITE,", nil, header.ErrEmptyElement},
		{"allow missing comma", "Allow: INVITE ACK", nil, header.ErrTrailingData},
		{"supported", "k: 100rel,\r\n timer", header.Supported{"100rel", "timer"}, nil},
		{"extension", "X-Foo: bar, baz", &header.Any{Name: "X-Foo", Value: "bar, baz"}, nil},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			t.Parallel()

			var (
				hdr header.Header
				err error
			)
			switch src := c.src.(type) {
			case string:
				hdr, err = header.Parse(src)
			case []byte:
				hdr, err = header.Parse(src)
			}
			if diff := cmp.Diff(err, c.wantErr, cmpopts.EquateErrors()); diff != "" {
				t.Errorf("header.Parse(%q) error = %v, want %v\ndiff (-got +want):\n%v", c.src, err, c.wantErr, diff)
			}
			if diff := cmp.Diff(hdr, c.wantHdr); diff != "" {
				t.Errorf("header.Parse(%q) = %+v, want %+v\ndiff (-got +want):\n%v", c.src, hdr, c.wantHdr, diff)
			}
		})
	}
}

func TestParseValue_DoesNotAlias(t *testing.T) {
	t.Parallel()

	buf := []byte("XYZZY 17")
	hdr, err := header.ParseValue("CSeq", buf)
	if err != nil {
		t.Fatalf("header.ParseValue() error = %v, want nil", err)
	}
	copy(buf, "AAAAA")
	if got := hdr.(*header.CSeq).UnknownMethod; got != "XYZZY" { //nolint:forcetypeassert
		t.Errorf("hdr.UnknownMethod = %q after buffer change, want %q", got, "XYZZY")
	}
}

func TestMalformedError(t *testing.T) {
	t.Parallel()

	_, err := header.ParseValue("cseq", "INVITE x")
	var merr *header.MalformedError
	if !asMalformed(err, &merr) {
		t.Fatalf("header.ParseValue() error = %v, want *header.MalformedError", err)
	}
	if !merr.Grammar() {
		t.Error("merr.Grammar() = false, want true")
	}
	want := `malformed CSeq "INVITE x" at offset 7: digits expected`
	if got := merr.Error(); got != want {
		t.Errorf("merr.Error() = %q, want %q", got, want)
	}
	if !errors.Is(err, header.ErrMalformedHeader) || !errors.Is(err, scanner.ErrNoDigits) {
		t.Errorf("errors.Is(%v) mismatch", err)
	}
}

type customHeader struct {
	Name  string
	Value []byte
}

func (h *customHeader) CanonicName() header.Name { return header.Name(h.Name) }

func (h *customHeader) CompactName() header.Name { return header.Name(h.Name) }

func (h *customHeader) RenderValue() string { return string(h.Value) }

func (h *customHeader) Render(*header.RenderOptions) string {
	return fmt.Sprintf("%s: %s", h.Name, h.Value)
}

func (h *customHeader) RenderTo(w io.Writer, _ *header.RenderOptions) (int, error) {
	return fmt.Fprintf(w, "%s: %s", h.Name, h.Value)
}

func (h *customHeader) Clone() header.Header { return &customHeader{Name: h.Name, Value: h.Value} }

func (h *customHeader) IsValid() bool { return h != nil && h.Name != "" }

func (h *customHeader) Equal(val any) bool {
	o, ok := val.(*customHeader)
	return ok && h.Name == o.Name && string(h.Value) == string(o.Value)
}

func TestRegisterParser(t *testing.T) {
	t.Parallel()

	header.RegisterParser("X-Registered", func(name string, value []byte) header.Header {
		return &customHeader{Name: name, Value: value}
	})
	defer header.UnregisterParser("X-Registered")

	// built-in grammars take precedence
	header.RegisterParser("CSeq", func(string, []byte) header.Header { return &customHeader{} })
	defer header.UnregisterParser("CSeq")

	hdr, err := header.ParseValue("x-registered", "value")
	if err != nil {
		t.Fatalf("header.ParseValue() error = %v, want nil", err)
	}
	if diff := cmp.Diff(hdr, header.Header(&customHeader{Name: "x-registered", Value: []byte("value")})); diff != "" {
		t.Errorf("header.ParseValue() = %+v\ndiff (-got +want):\n%v", hdr, diff)
	}

	hdr, err = header.ParseValue("CSeq", "ACK 1")
	if err != nil {
		t.Fatalf("header.ParseValue() error = %v, want nil", err)
	}
	if _, ok := hdr.(*header.CSeq); !ok {
		t.Errorf("header.ParseValue(\"CSeq\") = %T, want *header.CSeq", hdr)
	}
}

func TestCompare(t *testing.T) {
	t.Parallel()

	cseq := &header.CSeq{Method: header.MethodInvite, SeqNum: 1}
	callID := header.CallID("abc")
	anyHdr := &header.Any{Name: "X-Foo", Value: "1"}

	cases := []struct {
		name string
		a, b header.Header
		want int
	}{
		{"nil nil", nil, nil, 0},
		{"nil first", nil, cseq, -1},
		{"nil last", cseq, nil, 1},
		{"by name", cseq, callID, -1},
		{"by name reversed", callID, cseq, 1},
		{"any by value", anyHdr, &header.Any{Name: "x-foo", Value: "2"}, -1},
		{"any equal", anyHdr, &header.Any{Name: "x-foo", Value: "1"}, 0},
		{"numbers", header.ContentLength(2), header.ContentLength(10), -1},
		{"lists", header.Allow{"ACK"}, header.Allow{"ACK", "BYE"}, -1},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			t.Parallel()

			if got := header.Compare(c.a, c.b); got != c.want {
				t.Errorf("header.Compare(%v, %v) = %d, want %d", c.a, c.b, got, c.want)
			}
		})
	}
}
