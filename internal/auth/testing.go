package auth

import (
	"context"
	"crypto/rsa"
)

// ContextWithPrincipal adds a principal to the context for testing purposes
// This is exported to allow other packages to create test contexts
func ContextWithPrincipal(ctx context.Context, principal *Principal) context.Context {
	return context.WithValue(ctx, principalKey, principal)
}

// NewTestJWKS returns a JWKS preloaded with a single key under kid
// "test-key-id". It never refreshes; tokens must be signed with the
// matching private key.
func NewTestJWKS(publicKey *rsa.PublicKey) *JWKS {
	return &JWKS{
		keys: map[string]*rsa.PublicKey{
			"test-key-id": publicKey,
		},
	}
}
