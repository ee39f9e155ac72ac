package header_test

import (
	"fmt"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"github.com/ghettovoice/sipstack/header"
	"github.com/ghettovoice/sipstack/internal/scanner"
)

func TestContentLength(t *testing.T) {
	t.Parallel()

	hdr := header.ContentLength(349)
	if got, want := hdr.Render(nil), "Content-Length: 349"; got != want {
		t.Errorf("hdr.Render(nil) = %q, want %q", got, want)
	}
	if got, want := hdr.Render(&header.RenderOptions{Compact: true}), "l: 349"; got != want {
		t.Errorf("hdr.Render(compact) = %q, want %q", got, want)
	}
	if got, want := fmt.Sprintf("%+q", hdr), `"Content-Length: 349"`; got != want {
		t.Errorf("fmt.Sprintf(%%+q) = %q, want %q", got, want)
	}
	if got, want := fmt.Sprintf("%v", hdr), "349"; got != want {
		t.Errorf("fmt.Sprintf(%%v) = %q, want %q", got, want)
	}
	if !hdr.Equal(header.ContentLength(349)) || hdr.Equal(header.MaxForwards(349)) {
		t.Error("hdr.Equal() mismatch")
	}
}

func TestMaxForwards_Parse(t *testing.T) {
	t.Parallel()

	cases := []struct {
		in      string
		want    header.Header
		wantErr error
	}{
		{"70", header.MaxForwards(70), nil},
		{" 0 ", header.MaxForwards(0), nil},
		{"", nil, scanner.ErrNoDigits},
		{"-1", nil, scanner.ErrNoDigits},
		{"4294967296", nil, scanner.ErrOverflow},
		{"7 0", nil, header.ErrTrailingData},
	}

	for _, c := range cases {
		t.Run(c.in, func(t *testing.T) {
			t.Parallel()

			got, err := header.ParseValue("Max-Forwards", c.in)
			if diff := cmp.Diff(err, c.wantErr, cmpopts.EquateErrors()); diff != "" {
				t.Errorf("header.ParseValue(%q) error = %v, want %v\ndiff (-got +want):\n%v", c.in, err, c.wantErr, diff)
			}
			if diff := cmp.Diff(got, c.want); diff != "" {
				t.Errorf("header.ParseValue(%q) = %v, want %v\ndiff (-got +want):\n%v", c.in, got, c.want, diff)
			}
		})
	}
}
