package linkedin

// Package linkedin adapts LinkedIn's OAuth2 endpoints to the OAuthProvider port.

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	domainauth "github.com/target/social-login-api/internal/domain/auth"
	"golang.org/x/oauth2"
	oauthlinkedin "golang.org/x/oauth2/linkedin"
)

const (
	defaultUserInfoURL = "https://api.linkedin.com/v2/userinfo"
	defaultProfileURL  = "https://api.linkedin.com/v2/me"

	// fallbackDisplayName is used when LinkedIn supplies no usable name.
	// A missing display name never fails authentication.
	fallbackDisplayName = "LinkedIn User"
)

// Provider implements the OAuthProvider port for LinkedIn.
type Provider struct {
	config     *oauth2.Config
	httpClient *http.Client

	userInfoURL string
	profileURL  string
}

// Config holds configuration for the LinkedIn provider.
type Config struct {
	ClientID     string
	ClientSecret string
	RedirectURI  string
	HTTPClient   *http.Client // Optional, defaults to a 10s-timeout client

	// Endpoint overrides for tests. Leave empty in production.
	AuthURL     string
	TokenURL    string
	UserInfoURL string
	ProfileURL  string
}

// NewProvider creates a new LinkedIn provider.
func NewProvider(cfg Config) (*Provider, error) {
	if missing := missingCredentials(cfg); len(missing) > 0 {
		return nil, &domainauth.ConfigurationError{Provider: domainauth.ProviderLinkedIn, Missing: missing}
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 10 * time.Second}
	}

	endpoint := oauthlinkedin.Endpoint
	if cfg.AuthURL != "" {
		endpoint.AuthURL = cfg.AuthURL
	}
	if cfg.TokenURL != "" {
		endpoint.TokenURL = cfg.TokenURL
	}

	userInfoURL := cfg.UserInfoURL
	if userInfoURL == "" {
		userInfoURL = defaultUserInfoURL
	}
	profileURL := cfg.ProfileURL
	if profileURL == "" {
		profileURL = defaultProfileURL
	}

	return &Provider{
		config: &oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			RedirectURL:  cfg.RedirectURI,
			Scopes:       []string{"openid", "profile", "email"},
			Endpoint:     endpoint,
		},
		httpClient:  httpClient,
		userInfoURL: userInfoURL,
		profileURL:  profileURL,
	}, nil
}

func missingCredentials(cfg Config) []string {
	var missing []string
	if cfg.ClientID == "" {
		missing = append(missing, "client_id")
	}
	if cfg.ClientSecret == "" {
		missing = append(missing, "client_secret")
	}
	if cfg.RedirectURI == "" {
		missing = append(missing, "redirect_uri")
	}
	return missing
}

func (p *Provider) Name() domainauth.Provider { return domainauth.ProviderLinkedIn }

// AuthorizationURL returns the LinkedIn authorization URL with
// response_type=code, client_id, redirect_uri, scope, and the given state.
func (p *Provider) AuthorizationURL(state string) string {
	return p.config.AuthCodeURL(state)
}

// ExchangeCode posts the authorization code to LinkedIn's token endpoint.
// Non-2xx responses carry the provider status and body for server-side logs.
func (p *Provider) ExchangeCode(ctx context.Context, code string) (string, error) {
	ctx = context.WithValue(ctx, oauth2.HTTPClient, p.httpClient)
	token, err := p.config.Exchange(ctx, code)
	if err != nil {
		var retrieveErr *oauth2.RetrieveError
		if errors.As(err, &retrieveErr) && retrieveErr.Response != nil {
			return "", &domainauth.ProviderTokenError{
				Provider: domainauth.ProviderLinkedIn,
				Status:   retrieveErr.Response.StatusCode,
				Body:     string(retrieveErr.Body),
				Err:      err,
			}
		}
		return "", &domainauth.ProviderTokenError{Provider: domainauth.ProviderLinkedIn, Err: err}
	}
	if token.AccessToken == "" {
		return "", &domainauth.ProviderTokenError{
			Provider: domainauth.ProviderLinkedIn,
			Err:      errors.New("token response missing access_token"),
		}
	}
	return token.AccessToken, nil
}

// userInfoPayload is the modern OpenID Connect userinfo shape.
type userInfoPayload struct {
	Sub        string `json:"sub"`
	Name       string `json:"name"`
	GivenName  string `json:"given_name"`
	FamilyName string `json:"family_name"`
	Email      string `json:"email"`
	Picture    string `json:"picture"`
}

// legacyProfilePayload is the older people-API shape, used as a fallback
// when the userinfo endpoint is unavailable for the granted scopes.
type legacyProfilePayload struct {
	ID                 string `json:"id"`
	LocalizedFirstName string `json:"localizedFirstName"`
	LocalizedLastName  string `json:"localizedLastName"`
	ProfilePicture     struct {
		DisplayImage struct {
			Elements []struct {
				Identifiers []struct {
					Identifier string `json:"identifier"`
				} `json:"identifiers"`
			} `json:"elements"`
		} `json:"displayImage~"`
	} `json:"profilePicture"`
}

// FetchProfile tries the modern userinfo endpoint first and falls back to
// the legacy people endpoint on non-2xx, reshaping both into the same
// normalized profile.
func (p *Provider) FetchProfile(ctx context.Context, accessToken string) (domainauth.NormalizedProfile, error) {
	body, status, err := p.get(ctx, p.userInfoURL, accessToken)
	if err != nil {
		return domainauth.NormalizedProfile{}, &domainauth.ProviderProfileError{Provider: domainauth.ProviderLinkedIn, Err: err}
	}
	if status >= 200 && status < 300 {
		return p.normalizeUserInfo(body)
	}
	return p.fetchLegacyProfile(ctx, accessToken)
}

func (p *Provider) normalizeUserInfo(body []byte) (domainauth.NormalizedProfile, error) {
	var info userInfoPayload
	if err := json.Unmarshal(body, &info); err != nil {
		return domainauth.NormalizedProfile{}, &domainauth.ProviderProfileError{
			Provider: domainauth.ProviderLinkedIn,
			Err:      fmt.Errorf("decode userinfo: %w", err),
		}
	}
	if info.Sub == "" {
		return domainauth.NormalizedProfile{}, &domainauth.ProviderProfileError{
			Provider: domainauth.ProviderLinkedIn,
			Err:      domainauth.ErrProfileIncomplete,
		}
	}

	name := info.Name
	if name == "" {
		name = strings.TrimSpace(info.GivenName + " " + info.FamilyName)
	}
	if name == "" {
		name = fallbackDisplayName
	}

	return domainauth.NormalizedProfile{
		ProviderID: info.Sub,
		Name:       name,
		Email:      info.Email,
		AvatarURL:  info.Picture,
	}, nil
}

func (p *Provider) fetchLegacyProfile(ctx context.Context, accessToken string) (domainauth.NormalizedProfile, error) {
	body, status, err := p.get(ctx, p.profileURL, accessToken)
	if err != nil {
		return domainauth.NormalizedProfile{}, &domainauth.ProviderProfileError{Provider: domainauth.ProviderLinkedIn, Err: err}
	}
	if status < 200 || status >= 300 {
		return domainauth.NormalizedProfile{}, &domainauth.ProviderProfileError{Provider: domainauth.ProviderLinkedIn, Status: status}
	}

	var profile legacyProfilePayload
	if err := json.Unmarshal(body, &profile); err != nil {
		return domainauth.NormalizedProfile{}, &domainauth.ProviderProfileError{
			Provider: domainauth.ProviderLinkedIn,
			Err:      fmt.Errorf("decode legacy profile: %w", err),
		}
	}
	if profile.ID == "" {
		return domainauth.NormalizedProfile{}, &domainauth.ProviderProfileError{
			Provider: domainauth.ProviderLinkedIn,
			Err:      domainauth.ErrProfileIncomplete,
		}
	}

	name := strings.TrimSpace(profile.LocalizedFirstName + " " + profile.LocalizedLastName)
	if name == "" {
		name = fallbackDisplayName
	}

	return domainauth.NormalizedProfile{
		ProviderID: profile.ID,
		Name:       name,
		AvatarURL:  legacyAvatarURL(profile),
	}, nil
}

// legacyAvatarURL digs the first identifier out of the nested picture element.
func legacyAvatarURL(profile legacyProfilePayload) string {
	for _, element := range profile.ProfilePicture.DisplayImage.Elements {
		for _, ident := range element.Identifiers {
			if ident.Identifier != "" {
				return ident.Identifier
			}
		}
	}
	return ""
}

func (p *Provider) get(ctx context.Context, rawURL, accessToken string) ([]byte, int, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, 0, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return nil, 0, err
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, resp.StatusCode, fmt.Errorf("read response: %w", err)
	}
	return body, resp.StatusCode, nil
}
