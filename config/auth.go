package config

import "time"

// ProviderCredentials holds the OAuth2 client credentials for one provider.
// A provider with incomplete credentials is disabled at startup; the other
// providers keep working.
type ProviderCredentials struct {
	ClientID     string `env:"CLIENT_ID"     envDefault:""`
	ClientSecret string `env:"CLIENT_SECRET" envDefault:""`
	RedirectURI  string `env:"REDIRECT_URI"  envDefault:""`
}

// Configured reports whether all credentials for the provider are present.
func (p ProviderCredentials) Configured() bool {
	return p.ClientID != "" && p.ClientSecret != "" && p.RedirectURI != ""
}

// AuthConfig groups all authentication-related configuration.
type AuthConfig struct {
	// LinkedIn OAuth2 credentials.
	LinkedIn ProviderCredentials `envPrefix:"LINKEDIN_"`

	// TikTok OAuth2 credentials. TikTok calls the client id a "client key";
	// it is still configured as TIKTOK_CLIENT_ID.
	TikTok ProviderCredentials `envPrefix:"TIKTOK_"`

	// JWTSecret signs session tokens. Required in production; an insecure
	// development default is substituted (with a warning) when unset.
	JWTSecret string `env:"JWT_SECRET" envDefault:""`

	// FrontendURL is the SPA origin: the CORS allow-origin and the base for
	// post-login redirects.
	FrontendURL string `env:"FRONTEND_URL" envDefault:"http://localhost:3000"`

	// SessionTTL is the session token lifetime.
	SessionTTL time.Duration `env:"SESSION_TTL" envDefault:"1h"`

	// StateTTL bounds how long an issued authorization redirect stays valid.
	StateTTL time.Duration `env:"OAUTH_STATE_TTL" envDefault:"10m"`

	// ProviderTimeout caps each outbound call to a provider API.
	ProviderTimeout time.Duration `env:"PROVIDER_TIMEOUT" envDefault:"10s"`
}

// Sanitize applies guardrails to auth configuration values.
func (a *AuthConfig) Sanitize() {
	if a.SessionTTL <= 0 {
		a.SessionTTL = time.Hour
	}
	if a.StateTTL <= 0 {
		a.StateTTL = 10 * time.Minute
	}
	if a.ProviderTimeout <= 0 {
		a.ProviderTimeout = 10 * time.Second
	}
}
