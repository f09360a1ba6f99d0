package auth

// Package auth contains domain-level types for identities and session claims.
// It is pure and free of framework/adapter concerns.

import (
	"fmt"
	"strings"
	"time"
)

// Provider identifies an external identity provider.
// Keep string form for easy persistence and token claims.
type Provider string

const (
	ProviderLinkedIn Provider = "linkedin"
	ProviderTikTok   Provider = "tiktok"
)

// ParseProvider validates a provider name from an untrusted source (URL path).
func ParseProvider(name string) (Provider, error) {
	switch Provider(strings.ToLower(name)) {
	case ProviderLinkedIn:
		return ProviderLinkedIn, nil
	case ProviderTikTok:
		return ProviderTikTok, nil
	default:
		return "", fmt.Errorf("unknown provider: %q", name)
	}
}

// UnknownProviderID is the sentinel subject used when TikTok returns neither
// open_id nor union_id. Callers treat it as a degraded but non-fatal identity.
const UnknownProviderID = "unknown"

// Identity is the canonical user record resolved from a provider login.
// The (Provider, ProviderID) pair maps to exactly one Identity; repeated
// logins for the same pair resolve to the same ID forever. Records are
// never mutated after creation.
type Identity struct {
	ID         string    `json:"id"`
	Provider   Provider  `json:"provider"`
	ProviderID string    `json:"provider_id"`
	Name       string    `json:"name"`
	Email      string    `json:"email,omitempty"`
	AvatarURL  string    `json:"avatar,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}

// NormalizedProfile is the provider-adapter output consumed once by the
// identity registry. It is never persisted.
// ProviderID is required; adapters fail the login when it is absent.
// Name is best-effort and always non-empty (adapters fall back to a
// provider-specific default).
type NormalizedProfile struct {
	ProviderID string
	Name       string
	Email      string
	AvatarURL  string
}

// Claims are the verified contents of a session token.
type Claims struct {
	Subject   string
	Email     string
	Provider  Provider
	IssuedAt  time.Time
	ExpiresAt time.Time
}
