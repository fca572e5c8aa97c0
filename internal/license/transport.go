package license

import (
	"encoding/base64"
	"strings"
)

const (
	// Prefix starts every activation code.
	Prefix = "AC-"
	// Separator splits the payload segment from the signature segment.
	Separator = "."
)

// Encode packs payload and signature into a code string.
func Encode(payload, signature []byte) string {
	return Prefix + encodeSegment(payload) + Separator + encodeSegment(signature)
}

// Decode unpacks a code string into payload and signature bytes.
func Decode(code string) (payload, signature []byte, err error) {
	body, ok := strings.CutPrefix(code, Prefix)
	if !ok {
		return nil, nil, ErrInvalidFormat
	}
	idx := strings.Index(body, Separator)
	if idx <= 0 || idx == len(body)-1 {
		return nil, nil, ErrInvalidFormat
	}

	payload, err = decodeSegment(body[:idx])
	if err != nil {
		return nil, nil, ErrInvalidEncoding
	}
	signature, err = decodeSegment(body[idx+1:])
	if err != nil {
		return nil, nil, ErrInvalidEncoding
	}
	return payload, signature, nil
}

func encodeSegment(b []byte) string {
	return base64.RawURLEncoding.EncodeToString(b)
}

// decodeSegment accepts base64url with or without trailing padding. Anything
// outside the alphabet, including CR and LF, is rejected, and unused trailing
// bits must be zero.
func decodeSegment(s string) ([]byte, error) {
	s = strings.TrimRight(s, "=")
	if i := strings.IndexFunc(s, notBase64URL); i >= 0 {
		return nil, base64.CorruptInputError(i)
	}
	return base64.RawURLEncoding.Strict().DecodeString(s)
}

func notBase64URL(r rune) bool {
	switch {
	case r >= 'A' && r <= 'Z', r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '-', r == '_':
		return false
	}
	return true
}

// Canonical re-encodes code in the exact form Encode produces. Codes that
// differ only in padding share one canonical form.
func Canonical(code string) (string, error) {
	payload, sig, err := Decode(code)
	if err != nil {
		return "", err
	}
	return Encode(payload, sig), nil
}
