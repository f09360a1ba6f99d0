package httpx

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	domainauth "github.com/target/social-login-api/internal/domain/auth"
	"github.com/target/social-login-api/internal/service"
)

// sessionCookieName carries the signed session token.
const sessionCookieName = "token"

// AuthServiceInterface defines the interface for auth service operations.
type AuthServiceInterface interface {
	BeginLogin(ctx context.Context, provider domainauth.Provider) (*service.BeginLoginResult, error)
	CompleteLogin(ctx context.Context, input service.CompleteLoginInput) (*service.CompleteLoginResult, error)
	Authenticate(ctx context.Context, token string) (domainauth.Identity, error)
}

// AuthHandlers provides HTTP handlers for the social login flow.
type AuthHandlers struct {
	Svc          AuthServiceInterface
	FrontendURL  string
	CookieDomain string
	SessionTTL   time.Duration
	Logger       *slog.Logger
}

func (h *AuthHandlers) logger() *slog.Logger {
	if h != nil && h.Logger != nil {
		return h.Logger
	}
	return slog.Default()
}

// Login starts the authorization-code flow for a provider.
// GET /auth/{provider}.
//
// Unsupported provider names get 404; a supported provider with missing
// credentials gets 500.
func (h *AuthHandlers) Login(w http.ResponseWriter, r *http.Request) {
	provider, err := domainauth.ParseProvider(r.PathValue("provider"))
	if err != nil {
		WriteError(w, ErrorParams{Code: http.StatusNotFound, ErrCode: "unknown_provider", Err: err})
		return
	}

	result, err := h.Svc.BeginLogin(r.Context(), provider)
	if err != nil {
		h.logger().ErrorContext(r.Context(), "begin login failed", "provider", provider, "error", err)
		var cfgErr *domainauth.ConfigurationError
		if errors.As(err, &cfgErr) {
			// Which credentials are missing stays in the server logs.
			WriteError(w, ErrorParams{
				Code:    http.StatusInternalServerError,
				ErrCode: "provider_not_configured",
				Err:     errors.New("provider is not configured"),
			})
			return
		}
		WriteError(w, ErrorParams{
			Code:    http.StatusInternalServerError,
			ErrCode: "login_failed",
			Err:     errors.New("unable to start login"),
		})
		return
	}

	http.Redirect(w, r, result.AuthURL, http.StatusFound)
}

// Callback completes the authorization-code flow.
// GET /auth/{provider}/callback?code=<code>&state=<state>.
//
// Failures never surface provider details to the browser: the user is sent
// back to the frontend with a stable error code in the query string.
func (h *AuthHandlers) Callback(w http.ResponseWriter, r *http.Request) {
	provider, err := domainauth.ParseProvider(r.PathValue("provider"))
	if err != nil {
		WriteError(w, ErrorParams{Code: http.StatusNotFound, ErrCode: "unknown_provider", Err: err})
		return
	}

	result, err := h.Svc.CompleteLogin(r.Context(), service.CompleteLoginInput{
		Provider: provider,
		Code:     r.URL.Query().Get("code"),
		State:    r.URL.Query().Get("state"),
	})
	if err != nil {
		h.logger().ErrorContext(r.Context(), "login completion failed", "provider", provider, "error", err)
		h.redirectWithError(w, r, err)
		return
	}

	h.setSessionCookie(w, r, result.Token)
	http.Redirect(w, r, h.frontendURL()+"/profile?success=true", http.StatusFound)
}

// Logout clears the session cookie. The token itself stays valid until expiry
// (stateless sessions); logout is a client-side affair.
// POST /auth/logout.
func (h *AuthHandlers) Logout(w http.ResponseWriter, r *http.Request) {
	h.clearSessionCookie(w, r)
	WriteJSON(w, http.StatusOK, map[string]string{"message": "Logged out successfully"})
}

// redirectWithError maps a login failure to a stable error code and sends the
// user back to the frontend landing page.
func (h *AuthHandlers) redirectWithError(w http.ResponseWriter, r *http.Request, err error) {
	code := "auth_failed"

	var tokenErr *domainauth.ProviderTokenError
	var profileErr *domainauth.ProviderProfileError
	switch {
	case errors.Is(err, domainauth.ErrMissingCode):
		code = "missing_code"
	case errors.Is(err, domainauth.ErrStateMismatch):
		code = "invalid_state"
	case errors.Is(err, domainauth.ErrProfileIncomplete):
		code = "profile_incomplete"
	case errors.As(err, &tokenErr), errors.As(err, &profileErr):
		code = "provider_auth_failed"
	}

	q := url.Values{}
	q.Set("error", code)
	http.Redirect(w, r, h.frontendURL()+"/?"+q.Encode(), http.StatusFound)
}

func (h *AuthHandlers) frontendURL() string {
	return strings.TrimSuffix(h.FrontendURL, "/")
}

func (h *AuthHandlers) sessionTTL() time.Duration {
	if h.SessionTTL > 0 {
		return h.SessionTTL
	}
	return time.Hour
}

// setSessionCookie writes the session token cookie.
func (h *AuthHandlers) setSessionCookie(w http.ResponseWriter, r *http.Request, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    token,
		Path:     "/",
		Domain:   h.CookieDomain,
		HttpOnly: true,
		Secure:   isSecureRequest(r),
		SameSite: http.SameSiteLaxMode,
		MaxAge:   int(h.sessionTTL().Seconds()),
	})
}

// clearSessionCookie clears the session cookie by setting it to expire
// immediately, mirroring the attributes used when setting it.
func (h *AuthHandlers) clearSessionCookie(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    "",
		Path:     "/",
		Domain:   h.CookieDomain,
		HttpOnly: true,
		Secure:   isSecureRequest(r),
		SameSite: http.SameSiteLaxMode,
		MaxAge:   -1,
		Expires:  time.Unix(0, 0).UTC(),
	})
}

func isSecureRequest(r *http.Request) bool {
	return r.TLS != nil || strings.EqualFold(r.Header.Get("X-Forwarded-Proto"), "https")
}
