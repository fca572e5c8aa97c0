package license

import (
	"crypto/ed25519"
	"crypto/rand"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"
)

// Tiers are the named day counts the issuer hands out.
var Tiers = map[string]int{
	"day":       1,
	"week":      7,
	"month":     30,
	"quarter":   90,
	"year":      365,
	"triennial": 1095,
}

// TierDays resolves a tier name (case-insensitive).
func TierDays(name string) (int, error) {
	days, ok := Tiers[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return 0, fmt.Errorf("unknown tier %q (known: %s)", name, strings.Join(TierNames(), ", "))
	}
	return days, nil
}

// TierNames returns tier names ordered by day count.
func TierNames() []string {
	names := make([]string, 0, len(Tiers))
	for n := range Tiers {
		names = append(names, n)
	}
	sort.Slice(names, func(i, j int) bool { return Tiers[names[i]] < Tiers[names[j]] })
	return names
}

// Signer issues activation codes. It is meant for the offline issuing tool only;
// network-facing processes hold a Verifier instead.
type Signer struct {
	privateKey ed25519.PrivateKey
}

// NewSigner creates a Signer with the given private key.
func NewSigner(privateKey ed25519.PrivateKey) (*Signer, error) {
	if len(privateKey) != ed25519.PrivateKeySize {
		return nil, ErrInvalidPrivateKey
	}
	return &Signer{privateKey: privateKey}, nil
}

// PublicKey returns the key verifiers need.
func (s *Signer) PublicKey() ed25519.PublicKey {
	return s.privateKey.Public().(ed25519.PublicKey)
}

// Issue signs a single code carrying a fresh ULID nonce, so repeated calls for
// one tier yield distinct codes.
func (s *Signer) Issue(days int) (string, error) {
	id, err := ulid.New(ulid.Timestamp(time.Now()), rand.Reader)
	if err != nil {
		return "", fmt.Errorf("generate nonce: %w", err)
	}
	return s.IssueWithNonce(days, id.String())
}

// IssueWithNonce signs a code whose payload carries nonce. An empty nonce is
// omitted, making the code a pure function of days and key.
func (s *Signer) IssueWithNonce(days int, nonce string) (string, error) {
	payload, err := EncodePayload(Payload{Days: days, Version: PayloadVersion, Nonce: nonce})
	if err != nil {
		return "", fmt.Errorf("encode payload: %w", err)
	}
	sig := ed25519.Sign(s.privateKey, payload)
	return Encode(payload, sig), nil
}

// IssueBatch signs n codes of one tier, each with its own ULID nonce.
func (s *Signer) IssueBatch(days, n int) ([]string, error) {
	if n < 1 {
		return nil, fmt.Errorf("batch size must be positive, got %d", n)
	}
	entropy := ulid.Monotonic(rand.Reader, 0)
	ms := ulid.Timestamp(time.Now())

	seen := make(map[string]struct{}, n)
	codes := make([]string, 0, n)
	for i := 0; i < n; i++ {
		id, err := ulid.New(ms, entropy)
		if err != nil {
			return nil, fmt.Errorf("generate nonce: %w", err)
		}
		nonce := id.String()
		if _, dup := seen[nonce]; dup {
			return nil, fmt.Errorf("duplicate nonce %s in batch", nonce)
		}
		seen[nonce] = struct{}{}

		code, err := s.IssueWithNonce(days, nonce)
		if err != nil {
			return nil, err
		}
		codes = append(codes, code)
	}
	return codes, nil
}
