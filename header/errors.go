package header

import (
	"fmt"

	"github.com/ghettovoice/sipstack/internal/grammar"
	"github.com/ghettovoice/sipstack/internal/util"
)

const (
	// ErrMalformedHeader is matched by every header grammar failure.
	ErrMalformedHeader grammar.Error = "malformed header"
	// ErrCommaHandling is returned when a single-value header occurs more than once.
	ErrCommaHandling grammar.Error = "multiple values of single-value header"
	// ErrMissingMethod is returned when a method token is expected but absent.
	ErrMissingMethod grammar.Error = "missing method"
	// ErrTrailingData is returned when unexpected data follows a complete value.
	ErrTrailingData grammar.Error = "unexpected trailing data"
	// ErrEmptyElement is returned for an empty element of a comma separated list.
	ErrEmptyElement grammar.Error = "empty list element"
)

// MalformedError describes a header value that failed to parse.
type MalformedError struct {
	// Name is the canonical header name.
	Name Name
	// Value is the raw header value.
	Value string
	// Offset is the position in Value where parsing stopped.
	Offset int
	// Err is the underlying grammar error.
	Err error
}

func (e *MalformedError) Error() string {
	if e == nil {
		return "<nil>"
	}
	name := string(e.Name)
	if name == "" {
		name = "header"
	}
	return fmt.Sprintf("malformed %s %q at offset %d: %v", name, util.Ellipsis(e.Value, 64), e.Offset, e.Err)
}

// Unwrap makes the error match both [ErrMalformedHeader] and the underlying error.
func (e *MalformedError) Unwrap() []error {
	if e == nil {
		return nil
	}
	return []error{ErrMalformedHeader, e.Err}
}

// Grammar marks the error as a grammar error.
func (*MalformedError) Grammar() bool { return true }
