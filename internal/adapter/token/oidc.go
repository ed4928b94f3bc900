package token

import (
	"context"
	"fmt"

	"github.com/coreos/go-oidc/v3/oidc"

	"mybites/internal/domain"
)

// OIDCVerifier validates ID tokens issued by an OpenID Connect provider,
// such as Firebase Authentication or Google sign-in.
type OIDCVerifier struct {
	verifier *oidc.IDTokenVerifier
}

// NewOIDCVerifier discovers issuer and verifies tokens minted for clientID.
func NewOIDCVerifier(ctx context.Context, issuer, clientID string) (*OIDCVerifier, error) {
	provider, err := oidc.NewProvider(ctx, issuer)
	if err != nil {
		return nil, fmt.Errorf("oidc provider %s: %w", issuer, err)
	}
	return NewOIDCVerifierFromProvider(provider, clientID), nil
}

// NewOIDCVerifierFromProvider reuses an already discovered provider.
func NewOIDCVerifierFromProvider(provider *oidc.Provider, clientID string) *OIDCVerifier {
	return &OIDCVerifier{verifier: provider.Verifier(&oidc.Config{ClientID: clientID})}
}

// Verify implements domain.TokenVerifier.
func (v *OIDCVerifier) Verify(ctx context.Context, raw string) (domain.Identity, error) {
	idToken, err := v.verifier.Verify(ctx, raw)
	if err != nil {
		return domain.Identity{}, err
	}
	var c IDClaims
	if err := idToken.Claims(&c); err != nil {
		return domain.Identity{}, fmt.Errorf("parse claims: %w", err)
	}
	if c.Subject == "" {
		c.Subject = idToken.Subject
	}
	return c.Identity(), nil
}

// IDClaims are the ID-token claims used to identify a user.
type IDClaims struct {
	Subject       string `json:"sub"`
	Email         string `json:"email"`
	EmailVerified bool   `json:"email_verified"`
}

// Identity drops the email unless the provider verified it.
func (c IDClaims) Identity() domain.Identity {
	id := domain.Identity{Subject: c.Subject}
	if c.EmailVerified {
		id.Email = c.Email
	}
	return id
}
