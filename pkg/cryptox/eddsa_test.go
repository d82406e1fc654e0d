package cryptox_test

import (
	"crypto/ecdsa"
	"crypto/ed25519"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/x509"
	"encoding/pem"
	"os"
	"path/filepath"
	"testing"

	"github.com/aussiebroadwan/authservice/pkg/cryptox"
	"github.com/stretchr/testify/require"
)

func TestGenerateEd25519Key(t *testing.T) {
	pemBytes, err := cryptox.GenerateEd25519Key()
	require.NoError(t, err)

	block, _ := pem.Decode(pemBytes)
	require.NotNil(t, block)
	require.Equal(t, "PRIVATE KEY", block.Type)

	key, err := cryptox.ParseEd25519Key(pemBytes)
	require.NoError(t, err)
	require.Len(t, key, ed25519.PrivateKeySize)
}

func TestParseEd25519KeyRejectsBadInput(t *testing.T) {
	t.Run("not pem", func(t *testing.T) {
		_, err := cryptox.ParseEd25519Key([]byte("hello"))
		require.Error(t, err)
	})

	t.Run("wrong block type", func(t *testing.T) {
		raw := pem.EncodeToMemory(&pem.Block{Type: "RSA PRIVATE KEY", Bytes: []byte{1, 2, 3}})
		_, err := cryptox.ParseEd25519Key(raw)
		require.ErrorContains(t, err, "expected PRIVATE KEY")
	})

	t.Run("wrong algorithm", func(t *testing.T) {
		ec, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
		require.NoError(t, err)
		der, err := x509.MarshalPKCS8PrivateKey(ec)
		require.NoError(t, err)

		_, err = cryptox.ParseEd25519Key(pem.EncodeToMemory(&pem.Block{Type: "PRIVATE KEY", Bytes: der}))
		require.ErrorContains(t, err, "not an Ed25519")
	})
}

func TestLoadEd25519KeyFile(t *testing.T) {
	t.Run("empty path generates a key", func(t *testing.T) {
		a, err := cryptox.LoadEd25519KeyFile("")
		require.NoError(t, err)
		b, err := cryptox.LoadEd25519KeyFile("")
		require.NoError(t, err)
		require.False(t, a.Equal(b), "each ephemeral key is fresh")
	})

	t.Run("reads key from disk", func(t *testing.T) {
		pemBytes, err := cryptox.GenerateEd25519Key()
		require.NoError(t, err)
		path := filepath.Join(t.TempDir(), "signing.pem")
		require.NoError(t, os.WriteFile(path, pemBytes, 0o600))

		want, err := cryptox.ParseEd25519Key(pemBytes)
		require.NoError(t, err)
		got, err := cryptox.LoadEd25519KeyFile(path)
		require.NoError(t, err)
		require.True(t, want.Equal(got))
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := cryptox.LoadEd25519KeyFile(filepath.Join(t.TempDir(), "nope.pem"))
		require.ErrorIs(t, err, os.ErrNotExist)
	})
}
