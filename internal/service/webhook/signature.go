package webhook

import (
	"crypto/hmac"
	"crypto/sha1"
	"encoding/base64"
	"errors"
)

// SignatureHeader carries base64(HMAC-SHA1(key, raw body)).
const SignatureHeader = "x-square-signature"

var (
	// ErrMissingSignature is returned when the request carries no signature.
	ErrMissingSignature = errors.New("missing Square signature header")
	// ErrInvalidSignature is returned when the signature does not match the body.
	ErrInvalidSignature = errors.New("invalid Square signature")
)

// Sign computes the signature Square attaches to body.
func Sign(key, body []byte) string {
	mac := hmac.New(sha1.New, key)
	mac.Write(body)
	return base64.StdEncoding.EncodeToString(mac.Sum(nil))
}

// VerifySignature checks signature against the raw, undecoded request bytes.
// An empty signature is a present header that fails the comparison; callers
// report an absent header with ErrMissingSignature themselves.
func VerifySignature(key, body []byte, signature string) error {
	expected := Sign(key, body)
	if !hmac.Equal([]byte(expected), []byte(signature)) {
		return ErrInvalidSignature
	}
	return nil
}
