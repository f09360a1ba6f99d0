package service

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"log/slog"
	"time"

	domainauth "github.com/target/social-login-api/internal/domain/auth"
	"github.com/target/social-login-api/internal/ports"
)

// DefaultStateTTL bounds how long an issued authorization redirect stays valid.
const DefaultStateTTL = 10 * time.Minute

// AuthServiceOptions groups dependencies for AuthService.
type AuthServiceOptions struct {
	Providers []ports.OAuthProvider
	// Disabled carries construction failures for providers that are known but
	// could not be wired (typically *domainauth.ConfigurationError), so login
	// attempts for them fail with the real cause.
	Disabled   map[domainauth.Provider]error
	Identities ports.IdentityRepository
	States     ports.StateStore
	Tokens     ports.TokenCodec
	Logger     *slog.Logger
	StateTTL   time.Duration // Optional, defaults to DefaultStateTTL
}

// AuthService orchestrates the authorization-code login flow: state issuance,
// code exchange, profile normalization, identity resolution, and session
// token minting. Provider-specific behavior stays behind the OAuthProvider
// port.
type AuthService struct {
	providers  map[domainauth.Provider]ports.OAuthProvider
	disabled   map[domainauth.Provider]error
	identities ports.IdentityRepository
	states     ports.StateStore
	tokens     ports.TokenCodec
	logger     *slog.Logger
	stateTTL   time.Duration
}

// NewAuthService constructs a new AuthService.
func NewAuthService(opts AuthServiceOptions) *AuthService {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	stateTTL := opts.StateTTL
	if stateTTL <= 0 {
		stateTTL = DefaultStateTTL
	}

	providers := make(map[domainauth.Provider]ports.OAuthProvider, len(opts.Providers))
	for _, p := range opts.Providers {
		providers[p.Name()] = p
	}

	return &AuthService{
		providers:  providers,
		disabled:   opts.Disabled,
		identities: opts.Identities,
		states:     opts.States,
		tokens:     opts.Tokens,
		logger:     logger.With("component", "auth_service"),
		stateTTL:   stateTTL,
	}
}

// Providers lists the registered provider names.
func (s *AuthService) Providers() []domainauth.Provider {
	names := make([]domainauth.Provider, 0, len(s.providers))
	for name := range s.providers {
		names = append(names, name)
	}
	return names
}

// providerFor resolves a registered provider. A provider that failed
// construction reports its original configuration error; one that was never
// wired at all reports a bare ConfigurationError. Either way the caller sees
// the misconfiguration, not a lookup miss.
func (s *AuthService) providerFor(provider domainauth.Provider) (ports.OAuthProvider, error) {
	if p, ok := s.providers[provider]; ok {
		return p, nil
	}
	if err, ok := s.disabled[provider]; ok {
		return nil, err
	}
	return nil, &domainauth.ConfigurationError{Provider: provider}
}

// BeginLoginResult contains the result of beginning a login flow.
type BeginLoginResult struct {
	AuthURL string
	State   string
}

// BeginLogin issues a fresh CSRF state, persists it for single-use
// consumption, and returns the provider authorization URL carrying it.
// A misconfigured provider fails before any state is generated.
func (s *AuthService) BeginLogin(ctx context.Context, provider domainauth.Provider) (*BeginLoginResult, error) {
	p, err := s.providerFor(provider)
	if err != nil {
		return nil, err
	}

	state, err := generateState()
	if err != nil {
		return nil, fmt.Errorf("generate state: %w", err)
	}

	if saveErr := s.states.Save(ctx, state, s.stateTTL); saveErr != nil {
		return nil, fmt.Errorf("save state: %w", saveErr)
	}

	s.logger.InfoContext(ctx, "login started", "provider", provider)
	return &BeginLoginResult{
		AuthURL: p.AuthorizationURL(state),
		State:   state,
	}, nil
}

// CompleteLoginInput groups parameters for completing a login flow.
type CompleteLoginInput struct {
	Provider domainauth.Provider
	Code     string
	State    string
}

// CompleteLoginResult contains the result of completing a login flow.
type CompleteLoginResult struct {
	Identity domainauth.Identity
	Token    string
}

// CompleteLogin finishes the authorization-code flow. The state is consumed
// before any provider call, so a replayed callback is rejected without
// spending a round trip; no token is minted and no identity is touched on any
// failure.
func (s *AuthService) CompleteLogin(ctx context.Context, input CompleteLoginInput) (*CompleteLoginResult, error) {
	p, err := s.providerFor(input.Provider)
	if err != nil {
		return nil, err
	}
	if input.Code == "" {
		return nil, domainauth.ErrMissingCode
	}

	valid, err := s.states.Consume(ctx, input.State)
	if err != nil {
		return nil, fmt.Errorf("consume state: %w", err)
	}
	if !valid {
		return nil, domainauth.ErrStateMismatch
	}

	accessToken, err := p.ExchangeCode(ctx, input.Code)
	if err != nil {
		return nil, fmt.Errorf("exchange authorization code: %w", err)
	}

	profile, err := p.FetchProfile(ctx, accessToken)
	if err != nil {
		return nil, fmt.Errorf("fetch profile: %w", err)
	}

	identity, err := s.identities.FindOrCreate(ctx, input.Provider, profile)
	if err != nil {
		return nil, fmt.Errorf("resolve identity: %w", err)
	}

	token, err := s.tokens.Issue(identity)
	if err != nil {
		return nil, fmt.Errorf("issue session token: %w", err)
	}

	s.logger.InfoContext(ctx, "login completed",
		"provider", input.Provider, "identity_id", identity.ID)
	return &CompleteLoginResult{
		Identity: identity,
		Token:    token,
	}, nil
}

// Authenticate verifies a session token and loads the identity it names.
func (s *AuthService) Authenticate(ctx context.Context, token string) (domainauth.Identity, error) {
	if token == "" {
		return domainauth.Identity{}, domainauth.ErrTokenInvalid
	}

	claims, err := s.tokens.Verify(token)
	if err != nil {
		return domainauth.Identity{}, err
	}

	identity, err := s.identities.FindByID(ctx, claims.Subject)
	if err != nil {
		return domainauth.Identity{}, fmt.Errorf("load identity: %w", err)
	}
	return identity, nil
}

// generateState creates a 256-bit URL-safe random state value.
func generateState() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}
