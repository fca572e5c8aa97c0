// Package auth resolves the caller identity from a bearer JWT.
package auth

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"activation-service/internal/config"
	"activation-service/internal/domain"
)

type Claims struct {
	jwt.RegisteredClaims
}

// Authenticator validates HS256 tokens signed with the shared secret.
// The sub claim is the subject identity.
type Authenticator struct {
	secret   []byte
	audience string
	issuer   string
}

func NewAuthenticator(cfg config.AuthConfig) *Authenticator {
	return &Authenticator{
		secret:   []byte(cfg.JWTSecret),
		audience: cfg.Audience,
		issuer:   cfg.Issuer,
	}
}

// Mint signs a token for subject. Services in front of this one mint their
// own tokens; this is used by tests and local tooling.
func (a *Authenticator) Mint(subject string, ttl time.Duration) (string, error) {
	if len(a.secret) == 0 {
		return "", domain.ErrServerConfig
	}
	now := time.Now()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			Issuer:    a.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	if a.audience != "" {
		claims.Audience = jwt.ClaimStrings{a.audience}
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(a.secret)
}

// SubjectFromRequest reads "Authorization: Bearer <jwt>".
func (a *Authenticator) SubjectFromRequest(r *http.Request) (string, error) {
	hdr := r.Header.Get("Authorization")
	if len(hdr) < 7 || !strings.EqualFold(hdr[:7], "bearer ") {
		if len(a.secret) == 0 {
			return "", domain.ErrServerConfig
		}
		return "", domain.ErrUnauthorized
	}
	return a.Parse(strings.TrimSpace(hdr[7:]))
}

// Parse validates tok and returns its subject.
func (a *Authenticator) Parse(tok string) (string, error) {
	if len(a.secret) == 0 {
		return "", domain.ErrServerConfig
	}
	if tok == "" {
		return "", domain.ErrUnauthorized
	}

	opts := []jwt.ParserOption{jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()})}
	if a.audience != "" {
		opts = append(opts, jwt.WithAudience(a.audience))
	}
	if a.issuer != "" {
		opts = append(opts, jwt.WithIssuer(a.issuer))
	}

	claims := &Claims{}
	tkn, err := jwt.ParseWithClaims(tok, claims, func(t *jwt.Token) (any, error) {
		return a.secret, nil
	}, opts...)
	if err != nil || !tkn.Valid {
		return "", fmt.Errorf("%w: %v", domain.ErrUnauthorized, err)
	}
	if strings.TrimSpace(claims.Subject) == "" {
		return "", fmt.Errorf("%w: token has no subject", domain.ErrUnauthorized)
	}
	return claims.Subject, nil
}
