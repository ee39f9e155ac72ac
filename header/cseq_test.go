package header_test

import (
	"fmt"
	"slices"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"github.com/ghettovoice/sipstack/header"
	"github.com/ghettovoice/sipstack/internal/scanner"
)

func TestCSeq_Parse(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name    string
		in      string
		wantHdr header.Header
		wantErr error
	}{
		{"known method", "INVITE 4", &header.CSeq{Method: header.MethodInvite, SeqNum: 4}, nil},
		{"unknown method", "XYZZY 17", &header.CSeq{UnknownMethod: "XYZZY", SeqNum: 17}, nil},
		{"whole token match", "INVITEX 1", &header.CSeq{UnknownMethod: "INVITEX", SeqNum: 1}, nil},
		{"case sensitive", "invite 1", &header.CSeq{UnknownMethod: "invite", SeqNum: 1}, nil},
		{"leading whitespace", "  \tACK 0", &header.CSeq{Method: header.MethodAck}, nil},
		{"folded", "BYE\r\n 12", &header.CSeq{Method: header.MethodBye, SeqNum: 12}, nil},
		{"max seq", "REGISTER 4294967295", &header.CSeq{Method: header.MethodRegister, SeqNum: 1<<32 - 1}, nil},
		{"trailing data", "OPTIONS 2;foo=bar", &header.CSeq{Method: header.MethodOptions, SeqNum: 2}, nil},
		{"missing seq", "INVITE", nil, scanner.ErrNoDigits},
		{"seq first", "4 INVITE", nil, scanner.ErrNoDigits},
		{"overflow", "INVITE 4294967296", nil, scanner.ErrOverflow},
		{"empty", "", nil, header.ErrMissingMethod},
		{"blank", "   ", nil, header.ErrMissingMethod},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			t.Parallel()

			hdr, err := header.ParseValue("CSeq", c.in)
			if c.wantErr != nil {
				if diff := cmp.Diff(err, c.wantErr, cmpopts.EquateErrors()); diff != "" {
					t.Errorf("header.ParseValue(\"CSeq\", %q) error = %v, want %v\ndiff (-got +want):\n%v", c.in, err, c.wantErr, diff)
				}
				if diff := cmp.Diff(err, header.ErrMalformedHeader, cmpopts.EquateErrors()); diff != "" {
					t.Errorf("header.ParseValue(\"CSeq\", %q) error = %v, want %v\ndiff (-got +want):\n%v", c.in, err, header.ErrMalformedHeader, diff)
				}
				return
			}
			if err != nil {
				t.Fatalf("header.ParseValue(\"CSeq\", %q) error = %v, want nil", c.in, err)
			}
			if diff := cmp.Diff(hdr, c.wantHdr); diff != "" {
				t.Errorf("header.ParseValue(\"CSeq\", %q) = %+v, want %+v\ndiff (-got +want):\n%v", c.in, hdr, c.wantHdr, diff)
			}
		})
	}
}

func TestCSeq_ParseErrorOffset(t *testing.T) {
	t.Parallel()

	_, err := header.ParseValue("CSeq", "INVITE 99999999999")
	var merr *header.MalformedError
	if !asMalformed(err, &merr) {
		t.Fatalf("header.ParseValue() error = %v, want *header.MalformedError", err)
	}
	if merr.Name != "CSeq" {
		t.Errorf("merr.Name = %q, want %q", merr.Name, "CSeq")
	}
	if merr.Offset != 7 {
		t.Errorf("merr.Offset = %d, want 7", merr.Offset)
	}
}

func TestCSeq_RoundTrip(t *testing.T) {
	t.Parallel()

	hdrs := []*header.CSeq{
		{Method: header.MethodInvite, SeqNum: 4711},
		{Method: header.MethodAck},
		{UnknownMethod: "FOO", SeqNum: 1<<32 - 1},
		header.NewCSeq("SUBSCRIBE", 3),
		header.NewCSeq("X-Custom", 3),
	}

	for _, want := range hdrs {
		t.Run(want.RenderValue(), func(t *testing.T) {
			t.Parallel()

			if !want.IsValid() {
				t.Fatalf("hdr.IsValid() = false, want true")
			}
			got, err := header.ParseValue("CSeq", want.RenderValue())
			if err != nil {
				t.Fatalf("header.ParseValue(%q) error = %v, want nil", want.RenderValue(), err)
			}
			if !want.Equal(got) {
				t.Errorf("header.ParseValue(%q) = %+v, want %+v", want.RenderValue(), got, want)
			}
		})
	}

	t.Run("known method as unknown", func(t *testing.T) {
		t.Parallel()

		hdr := &header.CSeq{UnknownMethod: "INVITE", SeqNum: 4}
		if hdr.IsValid() {
			t.Errorf("hdr.IsValid() = true, want false")
		}
		got, err := header.ParseValue("CSeq", hdr.RenderValue())
		if err != nil {
			t.Fatalf("header.ParseValue(%q) error = %v, want nil", hdr.RenderValue(), err)
		}
		if want := header.NewCSeq("INVITE", 4); !want.Equal(got) {
			t.Errorf("header.ParseValue(%q) = %+v, want %+v", hdr.RenderValue(), got, want)
		}
	})
}

func TestCSeq_Render(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		hdr  *header.CSeq
		want string
	}{
		{"nil", (*header.CSeq)(nil), ""},
		{"zero", &header.CSeq{}, "CSeq:  0"},
		{"full", &header.CSeq{Method: header.MethodInvite, SeqNum: 4711}, "CSeq: INVITE 4711"},
		{"unknown", &header.CSeq{UnknownMethod: "XYZZY", SeqNum: 17}, "CSeq: XYZZY 17"},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			t.Parallel()

			if got := c.hdr.Render(nil); got != c.want {
				t.Errorf("hdr.Render(nil) = %q, want %q", got, c.want)
			}
			if got := c.hdr.Render(&header.RenderOptions{Compact: true}); got != c.want {
				t.Errorf("hdr.Render(compact) = %q, want %q", got, c.want)
			}
		})
	}
}

func TestCSeq_RenderTo(t *testing.T) {
	t.Parallel()

	var sb strings.Builder
	hdr := &header.CSeq{Method: header.MethodBye, SeqNum: 2}
	n, err := hdr.RenderTo(&sb, nil)
	if err != nil {
		t.Fatalf("hdr.RenderTo(sb, nil) error = %v, want nil", err)
	}
	if got, want := sb.String(), "CSeq: BYE 2"; got != want {
		t.Errorf("sb.String() = %q, want %q", got, want)
	}
	if n != sb.Len() {
		t.Errorf("hdr.RenderTo(sb, nil) = %d, want %d", n, sb.Len())
	}
}

func TestCSeq_Format(t *testing.T) {
	t.Parallel()

	hdr := &header.CSeq{Method: header.MethodInvite, SeqNum: 1}
	cases := []struct {
		format string
		want   string
	}{
		{"%s", "INVITE 1"},
		{"%+s", "CSeq: INVITE 1"},
		{"%q", `"INVITE 1"`},
		{"%+q", `"CSeq: INVITE 1"`},
	}
	for _, c := range cases {
		if got := fmt.Sprintf(c.format, hdr); got != c.want {
			t.Errorf("fmt.Sprintf(%q, hdr) = %q, want %q", c.format, got, c.want)
		}
	}
}

func TestCSeq_Methods(t *testing.T) {
	t.Parallel()

	hdr := header.NewCSeq("INVITE", 1)
	if hdr.Method != header.MethodInvite || hdr.UnknownMethod != "" {
		t.Errorf("header.NewCSeq(\"INVITE\", 1) = %+v, want known method", hdr)
	}

	hdr.SetMethod("FOO")
	if hdr.Method != header.MethodUnknown || hdr.UnknownMethod != "FOO" {
		t.Errorf("hdr.SetMethod(\"FOO\") = %+v, want unknown method FOO", hdr)
	}
	if got := hdr.MethodName(); got != "FOO" {
		t.Errorf("hdr.MethodName() = %q, want %q", got, "FOO")
	}

	hdr.SetMethod("BYE")
	if hdr.Method != header.MethodBye || hdr.UnknownMethod != "" {
		t.Errorf("hdr.SetMethod(\"BYE\") = %+v, want known method BYE", hdr)
	}
}

func TestCSeq_Equal(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		hdr  *header.CSeq
		val  any
		want bool
	}{
		{"nil ptr to nil", (*header.CSeq)(nil), nil, false},
		{"nil ptr to nil ptr", (*header.CSeq)(nil), (*header.CSeq)(nil), true},
		{"zero ptr to nil ptr", &header.CSeq{}, (*header.CSeq)(nil), false},
		{"zero ptr to zero val", &header.CSeq{}, header.CSeq{}, true},
		{
			"not match method",
			&header.CSeq{Method: header.MethodInvite, SeqNum: 4711},
			header.CSeq{Method: header.MethodBye, SeqNum: 4711},
			false,
		},
		{
			"not match seq",
			&header.CSeq{Method: header.MethodInvite, SeqNum: 4711},
			header.CSeq{Method: header.MethodInvite, SeqNum: 123},
			false,
		},
		{
			"not match unknown method",
			&header.CSeq{UnknownMethod: "FOO", SeqNum: 1},
			&header.CSeq{UnknownMethod: "foo", SeqNum: 1},
			false,
		},
		{
			"match",
			&header.CSeq{Method: header.MethodInvite, SeqNum: 4711},
			&header.CSeq{Method: header.MethodInvite, SeqNum: 4711},
			true,
		},
		{"other type", &header.CSeq{}, header.CallID("abc"), false},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			t.Parallel()

			if got := c.hdr.Equal(c.val); got != c.want {
				t.Errorf("hdr.Equal(val) = %v, want %v", got, c.want)
			}
		})
	}
}

func TestCSeq_Compare(t *testing.T) {
	t.Parallel()

	a := &header.CSeq{Method: header.MethodInvite, SeqNum: 1}
	b := &header.CSeq{Method: header.MethodInvite, SeqNum: 2}
	c := &header.CSeq{UnknownMethod: "FOO", SeqNum: 1}
	d := &header.CSeq{UnknownMethod: "BAR", SeqNum: 9}
	e := &header.CSeq{Method: header.MethodAck, SeqNum: 9}

	if got := header.Compare(a, b); got >= 0 {
		t.Errorf("header.Compare(a, b) = %d, want < 0", got)
	}
	if got := header.Compare(c, a); got >= 0 {
		t.Errorf("header.Compare(c, a) = %d, want < 0", got)
	}
	if got := header.Compare(a, a.Clone()); got != 0 {
		t.Errorf("header.Compare(a, a.Clone()) = %d, want 0", got)
	}

	got := []header.Header{b, a, e, c, d}
	slices.SortFunc(got, header.Compare)
	want := []header.Header{d, c, e, a, b}
	if diff := cmp.Diff(got, want); diff != "" {
		t.Errorf("sorted = %v, want %v\ndiff (-got +want):\n%v", got, want, diff)
	}
}

func TestCSeq_IsValid(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		hdr  *header.CSeq
		want bool
	}{
		{"nil", (*header.CSeq)(nil), false},
		{"zero", &header.CSeq{}, false},
		{"known", &header.CSeq{Method: header.MethodInvite, SeqNum: 1}, true},
		{"unknown", &header.CSeq{UnknownMethod: "FOO"}, true},
		{"unknown not token", &header.CSeq{UnknownMethod: "F O"}, false},
		{"known method as unknown", &header.CSeq{UnknownMethod: "INVITE", SeqNum: 4}, false},
		{"lowercase method as unknown", &header.CSeq{UnknownMethod: "invite", SeqNum: 4}, true},
		{"both set", &header.CSeq{Method: header.MethodAck, UnknownMethod: "FOO"}, false},
		{"out of range", &header.CSeq{Method: 200}, false},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			t.Parallel()

			if got := c.hdr.IsValid(); got != c.want {
				t.Errorf("hdr.IsValid() = %v, want %v", got, c.want)
			}
		})
	}
}

func TestCSeq_Clone(t *testing.T) {
	t.Parallel()

	hdr := &header.CSeq{UnknownMethod: "FOO", SeqNum: 3}
	got := hdr.Clone()
	if diff := cmp.Diff(got, hdr); diff != "" {
		t.Errorf("hdr.Clone() = %+v, want %+v\ndiff (-got +want):\n%v", got, hdr, diff)
	}
	if got.(*header.CSeq) == hdr { //nolint:forcetypeassert
		t.Error("hdr.Clone() returned the same pointer")
	}
	if (*header.CSeq)(nil).Clone() != nil {
		t.Error("nil.Clone() != nil")
	}
}
