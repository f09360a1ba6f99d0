package config

// HTTPConfig contains HTTP server configuration.
type HTTPConfig struct {
	// Port is the TCP port to bind the HTTP server to.
	Port int `env:"PORT" envDefault:"4000"`

	// CookieDomain is the domain for session cookies.
	// Leave empty to use the request domain.
	CookieDomain string `env:"APP_COOKIE_DOMAIN" envDefault:""`
}

// Sanitize applies guardrails to HTTP configuration values.
func (h *HTTPConfig) Sanitize() {
	if h.Port <= 0 || h.Port > 65535 {
		h.Port = 4000
	}
}
