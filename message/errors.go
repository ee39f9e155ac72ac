package message

import (
	"fmt"

	"github.com/ghettovoice/sipstack/internal/errorutil"
)

const (
	// ErrHeaderNotFound is returned when the requested header occurrence does not exist.
	ErrHeaderNotFound errorutil.Error = "header not found"
	// ErrSpanOutOfRange is returned when a span does not fit into its buffer.
	ErrSpanOutOfRange errorutil.Error = "span out of buffer range"
	// ErrInvalidMessage is returned when a message can not be split into start line, headers and body.
	ErrInvalidMessage errorutil.Error = "invalid message"
)

// ParseState is a stage of message parsing.
type ParseState int

const (
	ParseStateStart   ParseState = iota // parsing message start line
	ParseStateHeaders                   // parsing message headers
	ParseStateBody                      // parsing message body
)

func (s ParseState) String() string {
	switch s {
	case ParseStateStart:
		return "start line"
	case ParseStateHeaders:
		return "headers"
	case ParseStateBody:
		return "body"
	default:
		return fmt.Sprintf("ParseState(%d)", int(s))
	}
}

// ParseError represents an error that occurred during message parsing.
//
// It contains the error that occurred, the parsing state and the bytes that caused the error.
type ParseError struct {
	Err   error
	State ParseState
	Buf   []byte
}

func (err *ParseError) Error() string {
	return fmt.Sprintf("parse error in %s: %v", err.State, err.Err)
}

func (err *ParseError) Unwrap() error { return err.Err }

func (err *ParseError) Grammar() bool { return errorutil.IsGrammarErr(err.Err) }
