package httpx

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	domainauth "github.com/target/social-login-api/internal/domain/auth"
	mocks "github.com/target/social-login-api/internal/mocks/auth"
	"github.com/target/social-login-api/internal/ports"
	"github.com/target/social-login-api/internal/service"
)

const testFrontendURL = "http://localhost:3000"

type routerFixture struct {
	provider *mocks.MockProvider
	handler  http.Handler
}

func newRouterFixture(t *testing.T) *routerFixture {
	t.Helper()

	provider := mocks.NewMockProvider(domainauth.ProviderLinkedIn)
	svc := service.NewAuthService(service.AuthServiceOptions{
		Providers:  []ports.OAuthProvider{provider},
		Identities: mocks.NewMemoryIdentityRepo(),
		States:     mocks.NewMemoryStateStore(),
		Tokens:     &mocks.MockTokenCodec{},
	})

	handler := NewRouter(RouterServices{
		Auth:        svc,
		FrontendURL: testFrontendURL,
		SessionTTL:  time.Hour,
	})
	return &routerFixture{provider: provider, handler: handler}
}

// beginLogin drives GET /auth/{provider} and returns the state issued in the
// authorization redirect.
func (f *routerFixture) beginLogin(t *testing.T) string {
	t.Helper()

	rec := httptest.NewRecorder()
	f.handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/auth/linkedin", nil))
	require.Equal(t, http.StatusFound, rec.Code)

	loc, err := url.Parse(rec.Header().Get("Location"))
	require.NoError(t, err)
	state := loc.Query().Get("state")
	require.NotEmpty(t, state)
	return state
}

func sessionCookie(t *testing.T, rec *httptest.ResponseRecorder) *http.Cookie {
	t.Helper()
	for _, c := range rec.Result().Cookies() {
		if c.Name == sessionCookieName {
			return c
		}
	}
	return nil
}

func TestLogin_RedirectsToProvider(t *testing.T) {
	f := newRouterFixture(t)

	rec := httptest.NewRecorder()
	f.handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/auth/linkedin", nil))

	require.Equal(t, http.StatusFound, rec.Code)
	assert.Contains(t, rec.Header().Get("Location"), "https://mock-provider/authorize?state=")
}

func TestLogin_UnknownProvider(t *testing.T) {
	f := newRouterFixture(t)

	rec := httptest.NewRecorder()
	f.handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/auth/facebook", nil))

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "unknown_provider")
}

func TestLogin_MisconfiguredProvider(t *testing.T) {
	// TikTok is a supported provider but has no credentials wired in this
	// fixture: that is a server-side configuration problem, not a 404.
	f := newRouterFixture(t)

	rec := httptest.NewRecorder()
	f.handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/auth/tiktok", nil))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, rec.Body.String(), "provider_not_configured")
	// The missing credential names stay server-side.
	assert.NotContains(t, rec.Body.String(), "client_secret")
}

func TestCallback_NewUserLogsIn(t *testing.T) {
	f := newRouterFixture(t)
	state := f.beginLogin(t)

	rec := httptest.NewRecorder()
	target := "/auth/linkedin/callback?code=the-code&state=" + url.QueryEscape(state)
	f.handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))

	require.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, testFrontendURL+"/profile?success=true", rec.Header().Get("Location"))

	cookie := sessionCookie(t, rec)
	require.NotNil(t, cookie)
	assert.NotEmpty(t, cookie.Value)
	assert.True(t, cookie.HttpOnly)
	assert.Equal(t, http.SameSiteLaxMode, cookie.SameSite)
	assert.Equal(t, int(time.Hour.Seconds()), cookie.MaxAge)
	assert.False(t, cookie.Secure) // plain-HTTP test request
}

func TestCallback_MissingCode(t *testing.T) {
	f := newRouterFixture(t)
	state := f.beginLogin(t)

	rec := httptest.NewRecorder()
	target := "/auth/linkedin/callback?state=" + url.QueryEscape(state)
	f.handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))

	require.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, testFrontendURL+"/?error=missing_code", rec.Header().Get("Location"))
	assert.Nil(t, sessionCookie(t, rec))
}

func TestCallback_ForgedState(t *testing.T) {
	f := newRouterFixture(t)

	rec := httptest.NewRecorder()
	target := "/auth/linkedin/callback?code=the-code&state=forged"
	f.handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))

	require.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, testFrontendURL+"/?error=invalid_state", rec.Header().Get("Location"))
	assert.Nil(t, sessionCookie(t, rec))
	assert.Equal(t, 0, f.provider.ExchangeCalls)
}

func TestCallback_StateCannotBeReplayed(t *testing.T) {
	f := newRouterFixture(t)
	state := f.beginLogin(t)
	target := "/auth/linkedin/callback?code=the-code&state=" + url.QueryEscape(state)

	first := httptest.NewRecorder()
	f.handler.ServeHTTP(first, httptest.NewRequest(http.MethodGet, target, nil))
	require.Equal(t, testFrontendURL+"/profile?success=true", first.Header().Get("Location"))

	second := httptest.NewRecorder()
	f.handler.ServeHTTP(second, httptest.NewRequest(http.MethodGet, target, nil))
	assert.Equal(t, testFrontendURL+"/?error=invalid_state", second.Header().Get("Location"))
	assert.Nil(t, sessionCookie(t, second))
}

func TestCallback_ProviderOutage(t *testing.T) {
	f := newRouterFixture(t)
	f.provider.ExchangeCodeFunc = func(_ context.Context, _ string) (string, error) {
		return "", &domainauth.ProviderTokenError{Provider: domainauth.ProviderLinkedIn, Status: 502}
	}
	state := f.beginLogin(t)

	rec := httptest.NewRecorder()
	target := "/auth/linkedin/callback?code=the-code&state=" + url.QueryEscape(state)
	f.handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))

	require.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, testFrontendURL+"/?error=provider_auth_failed", rec.Header().Get("Location"))
	assert.Nil(t, sessionCookie(t, rec))
}

func TestCallback_ProfileIncomplete(t *testing.T) {
	f := newRouterFixture(t)
	f.provider.FetchProfileFunc = func(_ context.Context, _ string) (domainauth.NormalizedProfile, error) {
		return domainauth.NormalizedProfile{Name: "No Subject"}, nil
	}
	state := f.beginLogin(t)

	rec := httptest.NewRecorder()
	target := "/auth/linkedin/callback?code=the-code&state=" + url.QueryEscape(state)
	f.handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))

	require.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, testFrontendURL+"/?error=profile_incomplete", rec.Header().Get("Location"))
}

func TestLogout_ClearsCookie(t *testing.T) {
	f := newRouterFixture(t)

	rec := httptest.NewRecorder()
	f.handler.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/auth/logout", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Logged out successfully")

	cookie := sessionCookie(t, rec)
	require.NotNil(t, cookie)
	assert.Empty(t, cookie.Value)
	assert.Equal(t, -1, cookie.MaxAge)
}

func TestMe_WithSessionCookie(t *testing.T) {
	f := newRouterFixture(t)
	state := f.beginLogin(t)

	loginRec := httptest.NewRecorder()
	target := "/auth/linkedin/callback?code=the-code&state=" + url.QueryEscape(state)
	f.handler.ServeHTTP(loginRec, httptest.NewRequest(http.MethodGet, target, nil))
	cookie := sessionCookie(t, loginRec)
	require.NotNil(t, cookie)

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.AddCookie(&http.Cookie{Name: sessionCookieName, Value: cookie.Value})
	rec := httptest.NewRecorder()
	f.handler.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, `"name":"Mock User"`)
	assert.Contains(t, body, `"email":"mock.user@example.com"`)
	assert.Contains(t, body, `"provider":"linkedin"`)
	assert.Contains(t, body, `"avatar":"https://mock-provider/avatar.png"`)
	// Internal fields stay internal.
	assert.NotContains(t, body, "provider_id")
	assert.NotContains(t, body, "created_at")
}

func TestMe_WithBearerToken(t *testing.T) {
	f := newRouterFixture(t)
	state := f.beginLogin(t)

	loginRec := httptest.NewRecorder()
	target := "/auth/linkedin/callback?code=the-code&state=" + url.QueryEscape(state)
	f.handler.ServeHTTP(loginRec, httptest.NewRequest(http.MethodGet, target, nil))
	cookie := sessionCookie(t, loginRec)
	require.NotNil(t, cookie)

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Bearer "+cookie.Value)
	rec := httptest.NewRecorder()
	f.handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestMe_Unauthenticated(t *testing.T) {
	f := newRouterFixture(t)

	rec := httptest.NewRecorder()
	f.handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/me", nil))

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "authentication_required")
}

func TestMe_InvalidToken(t *testing.T) {
	f := newRouterFixture(t)

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.AddCookie(&http.Cookie{Name: sessionCookieName, Value: "garbage"})
	rec := httptest.NewRecorder()
	f.handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
