package auth

import (
	"errors"
	"fmt"
)

// Shared sentinel errors for the authentication flow.
var (
	// ErrMissingCode is returned when a callback arrives without a code parameter.
	ErrMissingCode = errors.New("authorization code is required")
	// ErrStateMismatch is returned when the CSRF state is absent, unknown, or reused.
	ErrStateMismatch = errors.New("oauth state missing or mismatched")
	// ErrProfileIncomplete is returned when a provider supplies no usable subject id.
	ErrProfileIncomplete = errors.New("provider profile has no subject id")
	// ErrTokenInvalid is returned on bad session token signature or shape.
	ErrTokenInvalid = errors.New("session token invalid")
	// ErrTokenExpired is returned when a session token is past its expiry.
	ErrTokenExpired = errors.New("session token expired")
	// ErrIdentityNotFound is returned when no identity exists for a lookup.
	ErrIdentityNotFound = errors.New("identity not found")
)

// ConfigurationError reports missing OAuth credentials for a provider.
// Routes for the affected provider fail fast with HTTP 500; other providers
// are unaffected.
type ConfigurationError struct {
	Provider Provider
	Missing  []string
}

func (e *ConfigurationError) Error() string {
	if len(e.Missing) == 0 {
		return fmt.Sprintf("provider %s is not configured", e.Provider)
	}
	return fmt.Sprintf("provider %s is not configured (missing %v)", e.Provider, e.Missing)
}

// ProviderTokenError reports a failed code-for-token exchange: a non-2xx
// response, a malformed payload, or a transport failure. The status and body
// are logged server-side only, never surfaced to the client.
type ProviderTokenError struct {
	Provider Provider
	Status   int
	Body     string
	Err      error
}

func (e *ProviderTokenError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s token exchange failed: %v", e.Provider, e.Err)
	}
	return fmt.Sprintf("%s token exchange failed: status %d", e.Provider, e.Status)
}

func (e *ProviderTokenError) Unwrap() error { return e.Err }

// ProviderProfileError reports a failed or malformed profile fetch.
type ProviderProfileError struct {
	Provider Provider
	Status   int
	Err      error
}

func (e *ProviderProfileError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s profile fetch failed: %v", e.Provider, e.Err)
	}
	return fmt.Sprintf("%s profile fetch failed: status %d", e.Provider, e.Status)
}

func (e *ProviderProfileError) Unwrap() error { return e.Err }
