// Package message stores SIP messages with lazily parsed headers.
//
// A received message is kept as an immutable [Buffer]. [SplitHeaders] cuts its
// header block into raw entries that borrow value bytes from the buffer; values
// are parsed by the [header] package only when they are accessed through
// [Headers]. Rendering writes untouched header lines back byte-for-byte.
package message

//go:generate go tool errtrace -w .
//go:generate go tool mockgen -destination ../internal/testutil/secmock/security.go -package secmock . Security

import (
	"bytes"
	"context"
	"io"
	"strconv"

	"braces.dev/errtrace"

	"github.com/ghettovoice/sipstack/header"
	"github.com/ghettovoice/sipstack/internal/errorutil"
	"github.com/ghettovoice/sipstack/internal/grammar"
	"github.com/ghettovoice/sipstack/internal/ioutil"
	"github.com/ghettovoice/sipstack/internal/util"
)

// Message is a SIP request or response.
type Message struct {
	// StartLine is the request line or the status line.
	StartLine string
	Headers   *Headers
	Body      Span
}

// Parse parses a SIP message from b. The message takes ownership of b,
// the caller must not modify it afterwards.
// See [ParseBuffer] for details.
func Parse(b []byte, opts *HeadersOptions) (*Message, error) {
	return errtrace.Wrap2(ParseBuffer(NewBuffer(b), opts))
}

// ParseBuffer parses a SIP message from buf.
//
// It assumes that buf contains a full message. Headers are split but not parsed,
// the body is the rest of the buffer after the header block.
// If the message is incomplete, it returns the incomplete message and a [*ParseError].
func ParseBuffer(buf *Buffer, opts *HeadersOptions) (*Message, error) {
	b := buf.Bytes()
	end, next, ok := nextLine(b, 0)
	if !ok || end == 0 {
		return nil, errtrace.Wrap(&ParseError{
			Err:   errorutil.NewWrapperError(ErrInvalidMessage, "missing start line"),
			State: ParseStateStart,
			Buf:   b[:end],
		})
	}
	line := b[:end]
	if !isStartLine(line) {
		return nil, errtrace.Wrap(&ParseError{
			Err:   errorutil.NewWrapperError(ErrInvalidMessage, "malformed start line"),
			State: ParseStateStart,
			Buf:   line,
		})
	}

	msg := &Message{StartLine: string(line)}
	hs, bodyOff, err := SplitHeaders(buf, next, opts)
	msg.Headers = hs
	if err != nil {
		return msg, errtrace.Wrap(err)
	}
	msg.Body = buf.mustSpan(bodyOff, buf.Len()-bodyOff)
	return msg, nil
}

var sipVersion = []byte("SIP/2.0")

func isStartLine(line []byte) bool {
	fields := bytes.Fields(line)
	if len(fields) < 3 {
		return false
	}
	// status line: SIP-Version SP Status-Code SP Reason-Phrase
	if bytes.EqualFold(fields[0], sipVersion) {
		if len(fields[1]) != 3 || !grammar.IsDigits(fields[1]) {
			return false
		}
		code, _ := strconv.Atoi(string(fields[1]))
		return code >= 100 && code <= 699
	}
	// request line: Method SP Request-URI SP SIP-Version
	return len(fields) == 3 && bytes.EqualFold(fields[2], sipVersion)
}

// IsRequest reports whether the message is a request.
func (msg *Message) IsRequest() bool {
	return msg != nil && !util.EqFold(msg.StartLine[:min(len(msg.StartLine), len(sipVersion))], string(sipVersion))
}

// RenderTo writes the message in wire format.
func (msg *Message) RenderTo(w io.Writer) (num int, err error) {
	if msg == nil {
		return 0, nil
	}

	cw := ioutil.GetCountingWriter(w)
	defer ioutil.FreeCountingWriter(cw)
	cw.WriteString(msg.StartLine) //nolint:errcheck
	cw.CRLF()
	if msg.Headers != nil {
		cw.Call(msg.Headers.RenderTo)
	}
	cw.CRLF()
	cw.Write(msg.Body.Bytes()) //nolint:errcheck
	return errtrace.Wrap2(cw.Result())
}

// Render returns the message in wire format.
func (msg *Message) Render() string {
	sb := util.GetStringBuilder()
	defer util.FreeStringBuilder(sb)
	msg.RenderTo(sb) //nolint:errcheck
	return sb.String()
}

// Clone returns a deep copy of the message.
func (msg *Message) Clone() *Message {
	if msg == nil {
		return nil
	}
	return &Message{
		StartLine: msg.StartLine,
		Headers:   msg.Headers.Clone(),
		Body:      msg.Body,
	}
}

func (msg *Message) contentType() (string, error) {
	if msg.Headers == nil {
		return "", errtrace.Wrap(errorutil.NewWrapperError(ErrHeaderNotFound, "Content-Type"))
	}
	hdr, err := msg.Headers.Get("Content-Type", 0)
	if err != nil {
		return "", errtrace.Wrap(err)
	}
	return hdr.RenderValue(), nil
}

// setBody replaces the body together with Content-Type and Content-Length headers.
func (msg *Message) setBody(contentType string, body []byte) error {
	if msg.Headers == nil {
		msg.Headers = NewHeaders(nil)
	}
	msg.Headers.RemoveAll("Content-Type")
	msg.Headers.RemoveAll("Content-Length")
	msg.Body = OwnedSpan(body)
	return errtrace.Wrap(errorutil.Join(
		msg.Headers.Add(&header.Any{Name: "Content-Type", Value: contentType}),
		msg.Headers.Add(header.ContentLength(len(body))), //nolint:gosec
	))
}

// DecodeBody removes security layers of the body with sec.
// The message is not modified.
func (msg *Message) DecodeBody(ctx context.Context, sec Security) (*DecodedBody, error) {
	if sec == nil {
		return nil, errtrace.Wrap(errorutil.NewInvalidArgumentError("nil security"))
	}
	ct, err := msg.contentType()
	if err != nil {
		return nil, errtrace.Wrap(err)
	}
	return errtrace.Wrap2(sec.Decode(ctx, ct, msg.Body.Bytes()))
}

// SignBody replaces the body with the body signed by signer.
func (msg *Message) SignBody(ctx context.Context, sec Security, signer string) error {
	if sec == nil {
		return errtrace.Wrap(errorutil.NewInvalidArgumentError("nil security"))
	}
	ct, err := msg.contentType()
	if err != nil {
		return errtrace.Wrap(err)
	}
	ct, body, err := sec.Sign(ctx, signer, ct, msg.Body.Bytes())
	if err != nil {
		return errtrace.Wrap(err)
	}
	return errtrace.Wrap(msg.setBody(ct, body))
}

// EncryptBody replaces the body with the body encrypted for recipient.
func (msg *Message) EncryptBody(ctx context.Context, sec Security, recipient string) error {
	if sec == nil {
		return errtrace.Wrap(errorutil.NewInvalidArgumentError("nil security"))
	}
	ct, err := msg.contentType()
	if err != nil {
		return errtrace.Wrap(err)
	}
	ct, body, err := sec.Encrypt(ctx, recipient, ct, msg.Body.Bytes())
	if err != nil {
		return errtrace.Wrap(err)
	}
	return errtrace.Wrap(msg.setBody(ct, body))
}
