package httpx

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/target/social-login-api/internal/service"
)

// RouterServices holds all the services needed by the HTTP router.
type RouterServices struct {
	Auth         *service.AuthService
	FrontendURL  string
	CookieDomain string
	SessionTTL   time.Duration
	Logger       *slog.Logger // Logger for HTTP request logging (optional)
}

// NewRouter creates and configures a new HTTP router.
func NewRouter(services RouterServices) http.Handler {
	logger := services.Logger
	if logger == nil {
		logger = slog.Default()
	}

	mux := http.NewServeMux()

	authHandlers := &AuthHandlers{
		Svc:          services.Auth,
		FrontendURL:  services.FrontendURL,
		CookieDomain: services.CookieDomain,
		SessionTTL:   services.SessionTTL,
		Logger:       logger,
	}

	mux.Handle("GET /health", http.HandlerFunc(healthHandler))
	mux.Handle("HEAD /health", http.HandlerFunc(healthHandler))

	mux.Handle("GET /auth/{provider}", http.HandlerFunc(authHandlers.Login))
	mux.Handle("GET /auth/{provider}/callback", http.HandlerFunc(authHandlers.Callback))
	mux.Handle("POST /auth/logout", http.HandlerFunc(authHandlers.Logout))

	requireAuth := RequireAuth(services.Auth)
	mux.Handle("GET /me", requireAuth(http.HandlerFunc(Me)))

	// Logging and Recover are applied by the bootstrap layer.
	return CORS(services.FrontendURL)(mux)
}
