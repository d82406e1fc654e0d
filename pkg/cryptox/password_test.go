package cryptox

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDeriveCredential(t *testing.T) {
	const pepper = "test-pepper"

	tests := []struct {
		name     string
		password string
	}{
		{"simple password", "password123"},
		{"complex password", "P@ssw0rd!#$%^&*()"},
		{"long password", strings.Repeat("a", 100)},
		{"unicode password", "пароль🔒密码"},
		{"whitespace password", "   spaces   "},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := DeriveCredential("a@b.com", tt.password, pepper)

			parts := strings.Split(got, "$")
			require.Len(t, parts, 6, "PHC string should have 6 parts")
			require.Equal(t, "argon2id", parts[1])
			require.Equal(t, "v=19", parts[2])
			require.Equal(t, "m=19456,t=2,p=1", parts[3])
			require.NotEmpty(t, parts[4])
			require.NotEmpty(t, parts[5])

			require.Equal(t, got, DeriveCredential("a@b.com", tt.password, pepper),
				"derivation must be deterministic")
		})
	}
}

func TestDeriveCredentialInputsMatter(t *testing.T) {
	base := DeriveCredential("a@b.com", "password123", "p1")

	require.NotEqual(t, base, DeriveCredential("a@b.com", "password124", "p1"), "password")
	require.NotEqual(t, base, DeriveCredential("c@d.com", "password123", "p1"), "identity")
	require.NotEqual(t, base, DeriveCredential("a@b.com", "password123", "p2"), "pepper")
	require.NotContains(t, base, "password123")
}

func TestLoadOrCreatePepper(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "pepper")

	first, err := LoadOrCreatePepper(path)
	require.NoError(t, err)
	require.NotEmpty(t, first)

	info, err := os.Stat(path)
	require.NoError(t, err)
	require.Equal(t, os.FileMode(0600), info.Mode().Perm())

	second, err := LoadOrCreatePepper(path)
	require.NoError(t, err)
	require.Equal(t, first, second, "existing pepper is reused")

	t.Run("empty path", func(t *testing.T) {
		_, err := LoadOrCreatePepper("")
		require.Error(t, err)
	})

	t.Run("empty file", func(t *testing.T) {
		p := filepath.Join(t.TempDir(), "pepper")
		require.NoError(t, os.WriteFile(p, []byte("\n"), 0600))
		_, err := LoadOrCreatePepper(p)
		require.Error(t, err)
	})
}
