package errorutil_test

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"github.com/ghettovoice/sipstack/internal/errorutil"
)

const errSentinel errorutil.Error = "sentinel"

func TestNewWrapperError(t *testing.T) {
	t.Parallel()

	inner := errors.New("inner")
	cases := []struct {
		name    string
		args    []any
		wantMsg string
		wantIs  []error
	}{
		{"no args", nil, "sentinel", []error{errSentinel}},
		{"error", []any{inner}, "sentinel: inner", []error{errSentinel, inner}},
		{"already wrapped", []any{fmt.Errorf("x: %w", errSentinel)}, "x: sentinel", []error{errSentinel}},
		{"string", []any{"bad thing"}, "sentinel: bad thing", []error{errSentinel}},
		{"format", []any{"bad %d", 42}, "sentinel: bad 42", []error{errSentinel}},
		{"unexpected", []any{42}, "sentinel", []error{errSentinel}},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			t.Parallel()

			err := errorutil.NewWrapperError(errSentinel, c.args...)
			if got := err.Error(); got != c.wantMsg {
				t.Errorf("err.Error() = %q, want %q", got, c.wantMsg)
			}
			for _, want := range c.wantIs {
				if diff := cmp.Diff(err, want, cmpopts.EquateErrors()); diff != "" {
					t.Errorf("err = %v, want %v\ndiff (-got +want):\n%v", err, want, diff)
				}
			}
		})
	}
}

func TestJoin(t *testing.T) {
	t.Parallel()

	e1, e2 := errors.New("first"), errors.New("second")

	if err := errorutil.Join(); err != nil {
		t.Errorf("errorutil.Join() = %v, want nil", err)
	}
	if err := errorutil.Join(nil, nil); err != nil {
		t.Errorf("errorutil.Join(nil, nil) = %v, want nil", err)
	}
	if err := errorutil.Join(nil, e1); err != e1 { //nolint:errorlint
		t.Errorf("errorutil.Join(nil, e1) = %v, want %v", err, e1)
	}

	err := errorutil.JoinPrefix("parse headers", e1, nil, e2)
	if !errors.Is(err, e1) || !errors.Is(err, e2) {
		t.Errorf("errorutil.JoinPrefix() = %v, want to wrap both errors", err)
	}
	want := "parse headers\n  - first\n  - second"
	if got := err.Error(); got != want {
		t.Errorf("err.Error() = %q, want %q", got, want)
	}

	err = errorutil.JoinPrefix("outer:", e1)
	if got := err.Error(); !strings.HasPrefix(got, "outer: first") {
		t.Errorf("err.Error() = %q, want prefix %q", got, "outer: first")
	}
}

type grammarErr struct{}

func (grammarErr) Error() string { return "grammar" }

func (grammarErr) Grammar() bool { return true }

func TestIsGrammarErr(t *testing.T) {
	t.Parallel()

	if !errorutil.IsGrammarErr(fmt.Errorf("wrapped: %w", grammarErr{})) {
		t.Error("errorutil.IsGrammarErr(wrapped grammar error) = false, want true")
	}
	if errorutil.IsGrammarErr(errSentinel) {
		t.Error("errorutil.IsGrammarErr(sentinel) = true, want false")
	}
}
