// Package grammar holds RFC 3261 lexical rules used to validate header values.
package grammar

import (
	"github.com/ghettovoice/abnf"
)

// Error is a grammar error.
type Error string

func (e Error) Error() string { return string(e) }

// Grammar marks the error as a grammar error.
func (Error) Grammar() bool { return true }

const (
	ErrEmptyInput     Error = "empty input"
	ErrMalformedInput Error = "malformed input"
)

func lit(c byte) abnf.Operator { return abnf.Literal(string([]byte{'"', c, '"'}), []byte{c}) }

var (
	alpha = abnf.Alt(
		"ALPHA",
		abnf.Range("%x41-5A", []byte{0x41}, []byte{0x5A}),
		abnf.Range("%x61-7A", []byte{0x61}, []byte{0x7A}),
	)
	digit = abnf.Range("DIGIT", []byte{0x30}, []byte{0x39})

	// token = 1*(alphanum / "-" / "." / "!" / "%" / "*" / "_" / "+" / "`" / "'" / "~")
	tokenChar = abnf.Alt(
		"token-char",
		alpha,
		digit,
		lit('-'), lit('.'), lit('!'), lit('%'), lit('*'),
		lit('_'), lit('+'), lit('`'), lit('\''), lit('~'),
	)
	token  = abnf.Repeat1Inf("token", tokenChar)
	digits = abnf.Repeat1Inf("1*DIGIT", digit)

	// word = 1*(alphanum / "-" / "." / "!" / "%" / "*" / "_" / "+" / "`" / "'" / "~" /
	//        "(" / ")" / "<" / ">" / ":" / "\" / DQUOTE / "/" / "[" / "]" / "?" / "{" / "}")
	wordChar = abnf.Alt(
		"word-char",
		tokenChar,
		lit('('), lit(')'), lit('<'), lit('>'), lit(':'), lit('\\'), lit('"'),
		lit('/'), lit('['), lit(']'), lit('?'), lit('{'), lit('}'),
	)
	// callid = word [ "@" word ]
	callID = abnf.Concat(
		"callid",
		abnf.Repeat1Inf("word", wordChar),
		abnf.Optional("[ \"@\" word ]", abnf.Concat("\"@\" word", lit('@'), abnf.Repeat1Inf("word", wordChar))),
	)
)

func match[T ~string | ~[]byte](op abnf.Operator, s T) bool {
	if len(s) == 0 {
		return false
	}

	ns := abnf.NewNodes()
	defer ns.Free()

	if err := op([]byte(s), 0, ns); err != nil {
		return false
	}
	return ns.Best().Len() == len(s)
}

// IsToken reports whether s is an RFC 3261 token.
func IsToken[T ~string | ~[]byte](s T) bool { return match(token, s) }

// IsDigits reports whether s is a non-empty run of decimal digits.
func IsDigits[T ~string | ~[]byte](s T) bool { return match(digits, s) }

// IsCallID reports whether s matches the Call-ID value grammar.
func IsCallID[T ~string | ~[]byte](s T) bool { return match(callID, s) }
