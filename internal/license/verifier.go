package license

import (
	"crypto/ed25519"
	"crypto/sha256"
	"encoding/hex"
)

// Result is a successful verification.
type Result struct {
	Valid bool
	Days  int
	Nonce string
	// Code is the canonical spelling of the verified code; single-use
	// bookkeeping must key on CodeHash(Code).
	Code string
}

// Verifier checks activation codes against a trusted public key.
// It holds no mutable state and is safe for concurrent use.
type Verifier struct {
	publicKey ed25519.PublicKey
}

// NewVerifier creates a Verifier with the given Ed25519 public key.
func NewVerifier(publicKey ed25519.PublicKey) (*Verifier, error) {
	if len(publicKey) != ed25519.PublicKeySize {
		return nil, ErrInvalidPublicKey
	}
	return &Verifier{publicKey: publicKey}, nil
}

// Verify runs the structural, payload and signature checks in order and
// returns the first failure as a *VerifyError.
func (v *Verifier) Verify(code string) (Result, error) {
	payloadBytes, sig, err := Decode(code)
	if err != nil {
		return Result{}, err
	}

	payload, err := DecodePayload(payloadBytes)
	if err != nil {
		return Result{}, err
	}

	if len(sig) != ed25519.SignatureSize || !ed25519.Verify(v.publicKey, payloadBytes, sig) {
		return Result{}, ErrInvalidSignature
	}

	return Result{Valid: true, Days: payload.Days, Nonce: payload.Nonce, Code: Encode(payloadBytes, sig)}, nil
}

// CodeHash is hex SHA-256 of the code's UTF-8 bytes. Pass the canonical
// form (Result.Code or Canonical) so that padded spellings collide.
func CodeHash(code string) string {
	sum := sha256.Sum256([]byte(code))
	return hex.EncodeToString(sum[:])
}
