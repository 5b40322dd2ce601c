package auth

import (
	"context"
	"time"
)

// Authenticator resolves an Authorization header to verified claims.
type Authenticator struct {
	tokens  *TokenManager
	revoker Revoker
}

func NewAuthenticator(tokens *TokenManager, revoker Revoker) *Authenticator {
	return &Authenticator{tokens: tokens, revoker: revoker}
}

// Authenticate returns ErrMissingToken, ErrBadHeader, ErrInvalidToken or
// ErrRevokedToken for unusable credentials. Other errors come from the revoker.
func (a *Authenticator) Authenticate(ctx context.Context, header string) (*Claims, error) {
	token, err := BearerToken(header)
	if err != nil {
		return nil, err
	}
	claims, err := a.tokens.Parse(token)
	if err != nil {
		return nil, err
	}
	revoked, err := a.revoker.IsRevoked(ctx, claims.ID)
	if err != nil {
		return nil, err
	}
	if revoked {
		return nil, ErrRevokedToken
	}
	return claims, nil
}

// Issue signs a new token for id.
func (a *Authenticator) Issue(id Identity) (string, *Claims, error) {
	return a.tokens.Issue(id)
}

// Revoke invalidates the token described by claims for the rest of its lifetime.
func (a *Authenticator) Revoke(ctx context.Context, claims *Claims) error {
	until := time.Now()
	if claims.ExpiresAt != nil {
		until = claims.ExpiresAt.Time
	}
	return a.revoker.Revoke(ctx, claims.ID, until)
}
