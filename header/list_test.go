package header_test

import (
	"testing"

	"github.com/ghettovoice/sipstack/header"
)

func TestAllow(t *testing.T) {
	t.Parallel()

	hdr := header.Allow{"INVITE", "ACK", "X-FOO"}
	if got, want := hdr.Render(nil), "Allow: INVITE, ACK, X-FOO"; got != want {
		t.Errorf("hdr.Render(nil) = %q, want %q", got, want)
	}
	if got := header.Allow(nil).Render(nil); got != "" {
		t.Errorf("nil.Render(nil) = %q, want \"\"", got)
	}
	if got, want := hdr.Methods(), []header.MethodType{header.MethodInvite, header.MethodAck}; len(got) != 2 || got[0] != want[0] || got[1] != want[1] {
		t.Errorf("hdr.Methods() = %v, want %v", got, want)
	}
	if !hdr.Has("ACK") || hdr.Has("ack") {
		t.Error("hdr.Has() mismatch")
	}
	if !hdr.IsValid() || (header.Allow{"BAD TOKEN"}).IsValid() {
		t.Error("hdr.IsValid() mismatch")
	}

	clone := hdr.Clone().(header.Allow) //nolint:forcetypeassert
	clone[0] = "BYE"
	if hdr[0] != "INVITE" {
		t.Error("hdr.Clone() shares the backing array")
	}
}

func TestSupported(t *testing.T) {
	t.Parallel()

	hdr := header.Supported{"100rel", "timer"}
	if got, want := hdr.Render(&header.RenderOptions{Compact: true}), "k: 100rel, timer"; got != want {
		t.Errorf("hdr.Render(compact) = %q, want %q", got, want)
	}
	if !hdr.Has("Timer") {
		t.Error("hdr.Has(\"Timer\") = false, want true")
	}
	if !hdr.Equal(&header.Supported{"100rel", "timer"}) || hdr.Equal(header.Allow{"100rel", "timer"}) {
		t.Error("hdr.Equal() mismatch")
	}
}
