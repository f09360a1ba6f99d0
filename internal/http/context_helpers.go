package httpx

import (
	"context"

	domainauth "github.com/target/social-login-api/internal/domain/auth"
)

// identityContextKey is an unexported context key type for the authenticated identity.
type identityContextKey struct{}

// SetIdentityInContext stores the authenticated identity in the context.
func SetIdentityInContext(ctx context.Context, identity domainauth.Identity) context.Context {
	return context.WithValue(ctx, identityContextKey{}, identity)
}

// IdentityFromContext retrieves the authenticated identity from the context.
func IdentityFromContext(ctx context.Context) (domainauth.Identity, bool) {
	identity, ok := ctx.Value(identityContextKey{}).(domainauth.Identity)
	return identity, ok
}
