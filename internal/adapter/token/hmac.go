package token

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"mybites/internal/domain"
)

var errMissingSubject = errors.New("token missing subject claim")

// HMACVerifier validates HS256 tokens signed with a shared secret, for
// service clients that mint their own tokens.
type HMACVerifier struct {
	secret   []byte
	issuer   string
	audience string
	leeway   time.Duration
}

// NewHMACVerifier returns a verifier for secret. issuer and audience are
// checked when non-empty.
func NewHMACVerifier(secret, issuer, audience string) (*HMACVerifier, error) {
	secret = strings.TrimSpace(secret)
	if secret == "" {
		return nil, errors.New("hmac secret is required")
	}
	return &HMACVerifier{
		secret:   []byte(secret),
		issuer:   issuer,
		audience: audience,
		leeway:   30 * time.Second,
	}, nil
}

type claims struct {
	Email string `json:"email,omitempty"`
	jwt.RegisteredClaims
}

// Verify implements domain.TokenVerifier.
func (v *HMACVerifier) Verify(_ context.Context, raw string) (domain.Identity, error) {
	options := []jwt.ParserOption{
		jwt.WithLeeway(v.leeway),
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
	}
	if v.issuer != "" {
		options = append(options, jwt.WithIssuer(v.issuer))
	}
	if v.audience != "" {
		options = append(options, jwt.WithAudience(v.audience))
	}

	var c claims
	_, err := jwt.ParseWithClaims(raw, &c, func(*jwt.Token) (any, error) {
		return v.secret, nil
	}, options...)
	if err != nil {
		return domain.Identity{}, fmt.Errorf("token verification failed: %w", err)
	}
	if c.Subject == "" {
		return domain.Identity{}, errMissingSubject
	}
	return domain.Identity{Subject: c.Subject, Email: c.Email}, nil
}

// Sign mints a token for subject valid for ttl. Used by tooling and tests.
func (v *HMACVerifier) Sign(subject, email string, ttl time.Duration) (string, error) {
	now := time.Now()
	c := claims{
		Email: email,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			Issuer:    v.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	if v.audience != "" {
		c.Audience = jwt.ClaimStrings{v.audience}
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, c).SignedString(v.secret)
}
