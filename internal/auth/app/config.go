package app

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"

	httpapi "github.com/aussiebroadwan/authservice/internal/auth/http"
)

const (
	StoreMemory = "memory"
	StoreSQLite = "sqlite"

	CredentialsPlain    = "plain"
	CredentialsArgon2id = "argon2id"
)

type Config struct {
	Env       string `env:"ENV" envDefault:"dev"`
	LogLevel  string `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat string `env:"LOG_FORMAT" envDefault:"json"`
	Port      int    `env:"PORT" envDefault:"8080"`

	Issuer string `env:"AUTH_ISSUER" envDefault:"authservice"`

	StoreDriver         string        `env:"AUTH_STORE_DRIVER" envDefault:"memory"`
	DatabaseFile        string        `env:"AUTH_DATABASE_FILE" envDefault:"auth.db"`
	StoreAcquireTimeout time.Duration `env:"AUTH_STORE_ACQUIRE_TIMEOUT" envDefault:"5s"`

	CredentialScheme string `env:"AUTH_CREDENTIAL_SCHEME" envDefault:"plain"`
	PepperFile       string `env:"AUTH_PEPPER_FILE" envDefault:"pepper"`

	// SigningKeyPath points at a PEM Ed25519 key. Empty generates a key per
	// process, so tokens do not survive a restart.
	SigningKeyPath string        `env:"AUTH_SIGNING_KEY_PATH"`
	TokenTTL       time.Duration `env:"AUTH_TOKEN_TTL" envDefault:"10m"`
	CodeTTL        time.Duration `env:"AUTH_2FA_CODE_TTL" envDefault:"5m"`

	CookieDomain string `env:"AUTH_COOKIE_DOMAIN"`
	CookieSecure bool   `env:"AUTH_COOKIE_SECURE" envDefault:"false"`

	AssetsDir string `env:"ASSETS_DIR"`

	ShutdownGracePeriod  time.Duration `env:"SHUTDOWN_GRACE_PERIOD" envDefault:"10s"`
	HousekeepingInterval time.Duration `env:"HOUSEKEEPING_INTERVAL" envDefault:"1m"`

	RateLimits httpapi.RateLimits `envPrefix:"RATELIMIT_"`
}

// LoadConfig reads Config from the process environment. Rate limits start
// from the httpx profiles and only the variables that are set override them.
func LoadConfig() (Config, error) {
	cfg := Config{RateLimits: httpapi.DefaultRateLimits()}
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	switch c.StoreDriver {
	case StoreMemory, StoreSQLite:
	default:
		return fmt.Errorf("AUTH_STORE_DRIVER: unknown driver %q", c.StoreDriver)
	}

	switch c.CredentialScheme {
	case CredentialsPlain, CredentialsArgon2id:
	default:
		return fmt.Errorf("AUTH_CREDENTIAL_SCHEME: unknown scheme %q", c.CredentialScheme)
	}

	if c.TokenTTL <= 0 {
		return fmt.Errorf("AUTH_TOKEN_TTL must be positive")
	}
	if c.CodeTTL < time.Second {
		return fmt.Errorf("AUTH_2FA_CODE_TTL must be at least 1s")
	}
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("PORT out of range: %d", c.Port)
	}
	return nil
}
