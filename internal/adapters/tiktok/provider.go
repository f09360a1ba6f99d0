package tiktok

// Package tiktok adapts TikTok's OAuth2 endpoints to the OAuthProvider port.
//
// TikTok deviates from the usual OAuth2 shapes in two ways: the authorization
// endpoint takes client_key instead of client_id, and the token endpoint nests
// the access token under a data element. Both quirks are contained here.

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	domainauth "github.com/target/social-login-api/internal/domain/auth"
)

const (
	defaultAuthURL     = "https://www.tiktok.com/v2/auth/authorize/"
	defaultTokenURL    = "https://open.tiktokapis.com/v2/oauth/token/"
	defaultUserInfoURL = "https://open.tiktokapis.com/v2/user/info/"

	scopeBasic = "user.info.basic"

	// fallbackDisplayName is used when TikTok supplies no display name.
	fallbackDisplayName = "TikTok User"
)

// Provider implements the OAuthProvider port for TikTok.
type Provider struct {
	clientKey    string
	clientSecret string
	redirectURI  string
	httpClient   *http.Client

	authURL     string
	tokenURL    string
	userInfoURL string
}

// Config holds configuration for the TikTok provider.
type Config struct {
	ClientKey    string
	ClientSecret string
	RedirectURI  string
	HTTPClient   *http.Client // Optional, defaults to a 10s-timeout client

	// Endpoint overrides for tests. Leave empty in production.
	AuthURL     string
	TokenURL    string
	UserInfoURL string
}

// NewProvider creates a new TikTok provider.
func NewProvider(cfg Config) (*Provider, error) {
	var missing []string
	if cfg.ClientKey == "" {
		missing = append(missing, "client_id")
	}
	if cfg.ClientSecret == "" {
		missing = append(missing, "client_secret")
	}
	if cfg.RedirectURI == "" {
		missing = append(missing, "redirect_uri")
	}
	if len(missing) > 0 {
		return nil, &domainauth.ConfigurationError{Provider: domainauth.ProviderTikTok, Missing: missing}
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 10 * time.Second}
	}

	p := &Provider{
		clientKey:    cfg.ClientKey,
		clientSecret: cfg.ClientSecret,
		redirectURI:  cfg.RedirectURI,
		httpClient:   httpClient,
		authURL:      cfg.AuthURL,
		tokenURL:     cfg.TokenURL,
		userInfoURL:  cfg.UserInfoURL,
	}
	if p.authURL == "" {
		p.authURL = defaultAuthURL
	}
	if p.tokenURL == "" {
		p.tokenURL = defaultTokenURL
	}
	if p.userInfoURL == "" {
		p.userInfoURL = defaultUserInfoURL
	}
	return p, nil
}

func (p *Provider) Name() domainauth.Provider { return domainauth.ProviderTikTok }

// AuthorizationURL returns the TikTok authorization URL. TikTok requires
// client_key where every other provider takes client_id.
func (p *Provider) AuthorizationURL(state string) string {
	q := url.Values{}
	q.Set("client_key", p.clientKey)
	q.Set("response_type", "code")
	q.Set("scope", scopeBasic)
	q.Set("redirect_uri", p.redirectURI)
	q.Set("state", state)
	return p.authURL + "?" + q.Encode()
}

// tokenResponse nests the access token under data.
type tokenResponse struct {
	Data struct {
		AccessToken string `json:"access_token"`
	} `json:"data"`
}

// ExchangeCode posts the authorization code to TikTok's token endpoint.
// An absent data.access_token is a token error even on 2xx responses.
func (p *Provider) ExchangeCode(ctx context.Context, code string) (string, error) {
	form := url.Values{}
	form.Set("client_key", p.clientKey)
	form.Set("client_secret", p.clientSecret)
	form.Set("code", code)
	form.Set("grant_type", "authorization_code")
	form.Set("redirect_uri", p.redirectURI)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.tokenURL, strings.NewReader(form.Encode()))
	if err != nil {
		return "", &domainauth.ProviderTokenError{Provider: domainauth.ProviderTikTok, Err: err}
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return "", &domainauth.ProviderTokenError{Provider: domainauth.ProviderTikTok, Err: err}
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", &domainauth.ProviderTokenError{
			Provider: domainauth.ProviderTikTok,
			Status:   resp.StatusCode,
			Err:      fmt.Errorf("read token response: %w", err),
		}
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", &domainauth.ProviderTokenError{
			Provider: domainauth.ProviderTikTok,
			Status:   resp.StatusCode,
			Body:     string(body),
		}
	}

	var token tokenResponse
	if err := json.Unmarshal(body, &token); err != nil {
		return "", &domainauth.ProviderTokenError{
			Provider: domainauth.ProviderTikTok,
			Status:   resp.StatusCode,
			Err:      fmt.Errorf("decode token response: %w", err),
		}
	}
	if token.Data.AccessToken == "" {
		return "", &domainauth.ProviderTokenError{
			Provider: domainauth.ProviderTikTok,
			Status:   resp.StatusCode,
			Body:     string(body),
		}
	}
	return token.Data.AccessToken, nil
}

// userInfoResponse is the user.info.basic shape.
type userInfoResponse struct {
	Data struct {
		User struct {
			OpenID      string `json:"open_id"`
			UnionID     string `json:"union_id"`
			AvatarURL   string `json:"avatar_url"`
			DisplayName string `json:"display_name"`
		} `json:"user"`
	} `json:"data"`
}

// FetchProfile requests open_id, union_id, avatar_url, and display_name.
// The registry key is open_id, falling back to union_id, falling back to the
// "unknown" sentinel. TikTok never supplies email in the basic scope.
func (p *Provider) FetchProfile(ctx context.Context, accessToken string) (domainauth.NormalizedProfile, error) {
	reqURL := p.userInfoURL + "?fields=open_id,union_id,avatar_url,display_name"
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return domainauth.NormalizedProfile{}, &domainauth.ProviderProfileError{Provider: domainauth.ProviderTikTok, Err: err}
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return domainauth.NormalizedProfile{}, &domainauth.ProviderProfileError{Provider: domainauth.ProviderTikTok, Err: err}
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return domainauth.NormalizedProfile{}, &domainauth.ProviderProfileError{
			Provider: domainauth.ProviderTikTok,
			Status:   resp.StatusCode,
		}
	}

	var info userInfoResponse
	if err := json.NewDecoder(resp.Body).Decode(&info); err != nil {
		return domainauth.NormalizedProfile{}, &domainauth.ProviderProfileError{
			Provider: domainauth.ProviderTikTok,
			Err:      fmt.Errorf("decode user info: %w", err),
		}
	}

	user := info.Data.User
	providerID := user.OpenID
	if providerID == "" {
		providerID = user.UnionID
	}
	if providerID == "" {
		// Degraded but non-fatal: TikTok occasionally omits both ids.
		providerID = domainauth.UnknownProviderID
	}

	name := user.DisplayName
	if name == "" {
		name = fallbackDisplayName
	}

	return domainauth.NormalizedProfile{
		ProviderID: providerID,
		Name:       name,
		AvatarURL:  user.AvatarURL,
	}, nil
}
