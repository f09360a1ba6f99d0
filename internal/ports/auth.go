package ports

// Package ports defines interfaces (hexagonal ports) for auth-related behavior.
// Implementations live in internal/adapters and internal/data; orchestration
// in internal/service.

import (
	"context"
	"time"

	domainauth "github.com/target/social-login-api/internal/domain/auth"
)

// OAuthProvider adapts one external identity provider to the
// authorization-code flow. Implementations return identity facts only and
// make no auth decisions.
type OAuthProvider interface {
	// Name returns the provider identifier (e.g. "linkedin", "tiktok").
	Name() domainauth.Provider

	// AuthorizationURL returns the provider authorization URL carrying the
	// given CSRF state.
	AuthorizationURL(state string) string

	// ExchangeCode exchanges the authorization code for an access token.
	// Non-2xx or malformed responses surface as *domainauth.ProviderTokenError.
	ExchangeCode(ctx context.Context, code string) (string, error)

	// FetchProfile fetches and normalizes the user profile for the token.
	// A profile without a usable subject id is a hard failure.
	FetchProfile(ctx context.Context, accessToken string) (domainauth.NormalizedProfile, error)
}

// IdentityRepository stores canonical identities keyed by
// (provider, provider id). FindOrCreate must be logically atomic: concurrent
// first logins for the same pair yield exactly one stored identity.
type IdentityRepository interface {
	FindOrCreate(ctx context.Context, provider domainauth.Provider, profile domainauth.NormalizedProfile) (domainauth.Identity, error)
	FindByID(ctx context.Context, id string) (domainauth.Identity, error)
}

// StateStore persists issued CSRF state values for single-use consumption.
type StateStore interface {
	// Save records a newly issued state with an expiry.
	Save(ctx context.Context, state string, ttl time.Duration) error

	// Consume atomically checks and discards a state. It returns false for
	// unknown, expired, or already-consumed values.
	Consume(ctx context.Context, state string) (bool, error)
}

// TokenCodec mints and verifies signed session tokens.
type TokenCodec interface {
	Issue(identity domainauth.Identity) (string, error)

	// Verify returns domainauth.ErrTokenInvalid on a bad signature or shape
	// and domainauth.ErrTokenExpired past expiry.
	Verify(token string) (domainauth.Claims, error)
}
