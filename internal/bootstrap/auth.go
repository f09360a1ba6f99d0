package bootstrap

import (
	"database/sql"
	"log/slog"
	"net/http"

	"github.com/redis/go-redis/v9"
	"github.com/target/social-login-api/config"
	"github.com/target/social-login-api/internal/adapters/jwtcodec"
	"github.com/target/social-login-api/internal/adapters/linkedin"
	"github.com/target/social-login-api/internal/adapters/memory"
	redisadapter "github.com/target/social-login-api/internal/adapters/redis"
	"github.com/target/social-login-api/internal/adapters/tiktok"
	"github.com/target/social-login-api/internal/data"
	domainauth "github.com/target/social-login-api/internal/domain/auth"
	"github.com/target/social-login-api/internal/ports"
	"github.com/target/social-login-api/internal/service"
)

// devFallbackSecret keeps local development working without a JWT_SECRET.
// Never acceptable in production; a warning is logged when it is used.
const devFallbackSecret = "fallback-secret"

// AuthConfig contains configuration for the auth service.
type AuthConfig struct {
	Auth        config.AuthConfig
	DB          *sql.DB               // Optional; nil selects the in-memory identity registry
	RedisClient redis.UniversalClient // Optional; nil selects the in-memory state store
	Logger      *slog.Logger
}

// BuildAuthService wires providers, stores, and the token codec into an
// AuthService. Providers with incomplete credentials are skipped with a
// warning; the service runs with whichever remain.
func BuildAuthService(cfg AuthConfig) (*service.AuthService, error) {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	httpClient := &http.Client{Timeout: cfg.Auth.ProviderTimeout}
	providers, disabled := buildProviders(cfg.Auth, httpClient, logger)
	if len(providers) == 0 {
		logger.Warn("no OAuth providers configured; login endpoints will reject all providers")
	}

	secret := cfg.Auth.JWTSecret
	if secret == "" {
		logger.Warn("JWT_SECRET not set; using insecure development fallback")
		secret = devFallbackSecret
	}
	codec, err := jwtcodec.NewCodec(jwtcodec.Config{Secret: secret, TTL: cfg.Auth.SessionTTL})
	if err != nil {
		return nil, err
	}

	var states ports.StateStore
	if cfg.RedisClient != nil {
		states = redisadapter.NewStateStore(cfg.RedisClient)
	} else {
		states = memory.NewStateStore()
	}

	var identities ports.IdentityRepository
	if cfg.DB != nil {
		identities = data.NewIdentityRepo(cfg.DB, nil)
	} else {
		identities = memory.NewIdentityRepo()
	}

	return service.NewAuthService(service.AuthServiceOptions{
		Providers:  providers,
		Disabled:   disabled,
		Identities: identities,
		States:     states,
		Tokens:     codec,
		Logger:     logger,
		StateTTL:   cfg.Auth.StateTTL,
	}), nil
}

// buildProviders constructs every supported provider. Construction failures
// (incomplete credentials) are warned about and kept in the disabled map so
// login attempts for those providers report the configuration error instead
// of an unknown-provider miss.
func buildProviders(
	authCfg config.AuthConfig,
	httpClient *http.Client,
	logger *slog.Logger,
) ([]ports.OAuthProvider, map[domainauth.Provider]error) {
	var providers []ports.OAuthProvider
	disabled := make(map[domainauth.Provider]error)

	liProv, err := linkedin.NewProvider(linkedin.Config{
		ClientID:     authCfg.LinkedIn.ClientID,
		ClientSecret: authCfg.LinkedIn.ClientSecret,
		RedirectURI:  authCfg.LinkedIn.RedirectURI,
		HTTPClient:   httpClient,
	})
	if err != nil {
		logger.Warn("linkedin provider disabled", "error", err)
		disabled[domainauth.ProviderLinkedIn] = err
	} else {
		providers = append(providers, liProv)
	}

	ttProv, err := tiktok.NewProvider(tiktok.Config{
		ClientKey:    authCfg.TikTok.ClientID,
		ClientSecret: authCfg.TikTok.ClientSecret,
		RedirectURI:  authCfg.TikTok.RedirectURI,
		HTTPClient:   httpClient,
	})
	if err != nil {
		logger.Warn("tiktok provider disabled", "error", err)
		disabled[domainauth.ProviderTikTok] = err
	} else {
		providers = append(providers, ttProv)
	}

	return providers, disabled
}
