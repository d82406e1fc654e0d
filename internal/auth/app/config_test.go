package app

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/aussiebroadwan/authservice/pkg/httpx"
)

func TestLoadConfig_Defaults(t *testing.T) {
	cfg, err := LoadConfig()
	require.NoError(t, err)

	require.Equal(t, 8080, cfg.Port)
	require.Equal(t, "authservice", cfg.Issuer)
	require.Equal(t, StoreMemory, cfg.StoreDriver)
	require.Equal(t, CredentialsPlain, cfg.CredentialScheme)
	require.Equal(t, 10*time.Minute, cfg.TokenTTL)
	require.Equal(t, 5*time.Minute, cfg.CodeTTL)
	require.Equal(t, 5*time.Second, cfg.StoreAcquireTimeout)
	require.Empty(t, cfg.SigningKeyPath)
	require.Equal(t, httpx.StrictLimit, cfg.RateLimits.Strict)
	require.Equal(t, httpx.LenientLimit, cfg.RateLimits.Lenient)
}

func TestLoadConfig_Overrides(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("AUTH_ISSUER", "bar.example")
	t.Setenv("AUTH_STORE_DRIVER", "sqlite")
	t.Setenv("AUTH_CREDENTIAL_SCHEME", "argon2id")
	t.Setenv("AUTH_2FA_CODE_TTL", "90s")
	t.Setenv("AUTH_COOKIE_SECURE", "true")
	t.Setenv("RATELIMIT_STRICT_REQUESTS", "2")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	require.Equal(t, 9090, cfg.Port)
	require.Equal(t, "bar.example", cfg.Issuer)
	require.Equal(t, StoreSQLite, cfg.StoreDriver)
	require.Equal(t, CredentialsArgon2id, cfg.CredentialScheme)
	require.Equal(t, 90*time.Second, cfg.CodeTTL)
	require.True(t, cfg.CookieSecure)

	// Unset fields in the section keep the profile values.
	require.Equal(t, 2, cfg.RateLimits.Strict.RequestsPerWindow)
	require.Equal(t, httpx.StrictLimit.Window, cfg.RateLimits.Strict.Window)
	require.Equal(t, httpx.StrictLimit.Burst, cfg.RateLimits.Strict.Burst)
}

func TestLoadConfig_Invalid(t *testing.T) {
	tests := []struct {
		name string
		key  string
		val  string
	}{
		{"unknown driver", "AUTH_STORE_DRIVER", "postgres"},
		{"unknown credential scheme", "AUTH_CREDENTIAL_SCHEME", "bcrypt"},
		{"zero token ttl", "AUTH_TOKEN_TTL", "0s"},
		{"sub-second code ttl", "AUTH_2FA_CODE_TTL", "500ms"},
		{"bad port", "PORT", "70000"},
		{"unparsable duration", "AUTH_TOKEN_TTL", "soon"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(tt.key, tt.val)
			_, err := LoadConfig()
			require.Error(t, err)
		})
	}
}
