package license

import (
	"crypto/ed25519"
	"crypto/rand"
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrInvalidPublicKey indicates the public key is invalid.
	ErrInvalidPublicKey = errors.New("invalid Ed25519 public key")
	// ErrInvalidPrivateKey indicates the private key is invalid.
	ErrInvalidPrivateKey = errors.New("invalid Ed25519 private key")
)

// KeyPair holds Ed25519 issuing keys.
type KeyPair struct {
	PublicKey  ed25519.PublicKey
	PrivateKey ed25519.PrivateKey
}

// GenerateKeyPair creates a new Ed25519 key pair for issuing codes.
func GenerateKeyPair() (*KeyPair, error) {
	pub, priv, err := ed25519.GenerateKey(rand.Reader)
	if err != nil {
		return nil, fmt.Errorf("generate key pair: %w", err)
	}
	return &KeyPair{PublicKey: pub, PrivateKey: priv}, nil
}

// EncodeKey renders key material as unpadded base64url.
func EncodeKey(b []byte) string {
	return encodeSegment(b)
}

// ParsePublicKey decodes a base64url public key (padding tolerated).
func ParsePublicKey(encoded string) (ed25519.PublicKey, error) {
	data, err := decodeSegment(strings.TrimSpace(encoded))
	if err != nil {
		return nil, fmt.Errorf("decode public key: %w", err)
	}
	if len(data) != ed25519.PublicKeySize {
		return nil, ErrInvalidPublicKey
	}
	return ed25519.PublicKey(data), nil
}

// ParsePrivateKey decodes a base64url private key. Both the 64-byte expanded
// form and the 32-byte seed are accepted.
func ParsePrivateKey(encoded string) (ed25519.PrivateKey, error) {
	data, err := decodeSegment(strings.TrimSpace(encoded))
	if err != nil {
		return nil, fmt.Errorf("decode private key: %w", err)
	}
	switch len(data) {
	case ed25519.PrivateKeySize:
		return ed25519.PrivateKey(data), nil
	case ed25519.SeedSize:
		return ed25519.NewKeyFromSeed(data), nil
	default:
		return nil, ErrInvalidPrivateKey
	}
}
