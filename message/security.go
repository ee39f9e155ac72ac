package message

import (
	"context"
	"fmt"
)

// SignatureStatus is the verification result of a signed body.
type SignatureStatus int

const (
	SignatureNone       SignatureStatus = iota // body is not signed
	SignatureBad                               // signature does not match the body
	SignatureTrusted                           // signer certificate is trusted
	SignatureCATrusted                         // signer certificate is issued by a trusted CA
	SignatureNotTrusted                        // signer certificate is not trusted
	SignatureSelfSigned                        // signer certificate is self signed
)

func (s SignatureStatus) String() string {
	switch s {
	case SignatureNone:
		return "none"
	case SignatureBad:
		return "bad"
	case SignatureTrusted:
		return "trusted"
	case SignatureCATrusted:
		return "ca trusted"
	case SignatureNotTrusted:
		return "not trusted"
	case SignatureSelfSigned:
		return "self signed"
	default:
		return fmt.Sprintf("SignatureStatus(%d)", int(s))
	}
}

// DecodedBody is a message body with the security layers removed.
type DecodedBody struct {
	ContentType string
	Body        []byte
	// Signer is the identity of the body signer, if the body was signed.
	Signer    string
	Status    SignatureStatus
	Encrypted bool
}

// Security signs, encrypts and decodes message bodies, for example with S/MIME.
type Security interface {
	// Sign signs the body on behalf of signer and returns the new content type and body.
	Sign(ctx context.Context, signer, contentType string, body []byte) (string, []byte, error)
	// Encrypt encrypts the body for recipient and returns the new content type and body.
	Encrypt(ctx context.Context, recipient, contentType string, body []byte) (string, []byte, error)
	// Decode removes signature and encryption layers of the body.
	Decode(ctx context.Context, contentType string, body []byte) (*DecodedBody, error)
}
