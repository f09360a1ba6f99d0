package config

// DBConfig contains PostgreSQL database configuration.
// With an empty Host the service runs on the in-memory identity registry,
// which is fine for development and single-instance demos.
type DBConfig struct {
	Host     string `env:"HOST"     envDefault:""`
	Port     int    `env:"PORT"     envDefault:"5432"`
	User     string `env:"USER"     envDefault:"social_login"`
	Password string `env:"PASSWORD" envDefault:"social_login"`
	Name     string `env:"NAME"     envDefault:"social_login"`
	SSLMode  string `env:"SSL_MODE" envDefault:"disable"` // Use 'disable' for local dev, 'require' for production
	// RunMigrationsOnStart controls whether the application automatically applies migrations during startup.
	RunMigrationsOnStart bool `env:"RUN_MIGRATIONS_ON_START" envDefault:"true"`
}

// Enabled reports whether a Postgres connection is configured.
func (d DBConfig) Enabled() bool { return d.Host != "" }

// RedisConfig contains Redis configuration for the OAuth state store.
// With an empty Addr the service falls back to the in-memory state store.
type RedisConfig struct {
	Addr     string `env:"ADDR"     envDefault:""`
	Password string `env:"PASSWORD" envDefault:""`
	DB       int    `env:"DB"       envDefault:"0"`
}

// Enabled reports whether a Redis connection is configured.
func (r RedisConfig) Enabled() bool { return r.Addr != "" }
