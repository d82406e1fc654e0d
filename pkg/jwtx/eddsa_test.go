package jwtx_test

import (
	"crypto/ed25519"
	"crypto/rand"
	"strings"
	"testing"
	"time"

	"github.com/aussiebroadwan/authservice/pkg/jwtx"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"
)

const exampleIssuer = "https://auth.example.test"

func newSigner(t *testing.T, kid string) *jwtx.EdDSASigner {
	t.Helper()
	_, key, err := ed25519.GenerateKey(rand.Reader)
	require.NoError(t, err)
	signer, err := jwtx.NewSignerEdDSA(kid, key)
	require.NoError(t, err)
	return signer
}

func TestEdDSASignAndVerify(t *testing.T) {
	signer := newSigner(t, "test-key-eddsa")
	require.NoError(t, signer.Validate())
	require.Equal(t, "EdDSA", signer.Alg())
	require.Equal(t, "test-key-eddsa", signer.KID())

	now := time.Now().UTC()
	claims := jwtx.NewClaims("user@example.com", []string{"pwd", "otp", "mfa"}, 5*time.Minute, exampleIssuer, now)

	token, err := signer.Sign(claims)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	verifier := jwtx.NewVerifierEdDSA(signer.KID(), signer.PublicKey(), jwtx.VerifyOptions{Issuer: exampleIssuer})

	parsed, err := verifier.Verify(token)
	require.NoError(t, err)
	require.Equal(t, claims.Issuer, parsed.Issuer)
	require.Equal(t, claims.Subject, parsed.Subject)
	require.Equal(t, claims.ID, parsed.ID)
	require.ElementsMatch(t, claims.AMR, parsed.AMR)
}

func TestEdDSAVerifyFailures(t *testing.T) {
	signer := newSigner(t, "k1")
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	token, err := signer.Sign(jwtx.NewClaims("user@example.com", nil, time.Minute, exampleIssuer, now))
	require.NoError(t, err)

	at := func(ts time.Time) func() time.Time { return func() time.Time { return ts } }

	t.Run("wrong issuer", func(t *testing.T) {
		v := jwtx.NewVerifierEdDSA("k1", signer.PublicKey(), jwtx.VerifyOptions{Issuer: "wrong", Now: at(now)})
		_, err := v.Verify(token)
		require.ErrorIs(t, err, jwtx.ErrIssuer)
	})

	t.Run("expired", func(t *testing.T) {
		v := jwtx.NewVerifierEdDSA("k1", signer.PublicKey(), jwtx.VerifyOptions{Now: at(now.Add(time.Hour))})
		_, err := v.Verify(token)
		require.ErrorIs(t, err, jwtx.ErrExpired)
	})

	t.Run("unknown kid", func(t *testing.T) {
		v := jwtx.NewVerifierEdDSA("k2", signer.PublicKey(), jwtx.VerifyOptions{Now: at(now)})
		_, err := v.Verify(token)
		require.ErrorIs(t, err, jwtx.ErrUnknownKID)
	})

	t.Run("signed by another key", func(t *testing.T) {
		other := newSigner(t, "k1")
		v := jwtx.NewVerifierEdDSA("k1", other.PublicKey(), jwtx.VerifyOptions{Now: at(now)})
		_, err := v.Verify(token)
		require.ErrorIs(t, err, jwtx.ErrInvalidSig)
	})

	t.Run("tampered payload", func(t *testing.T) {
		parts := strings.Split(token, ".")
		require.Len(t, parts, 3)
		forged, err := signer.Sign(jwtx.NewClaims("admin@example.com", nil, time.Minute, exampleIssuer, now))
		require.NoError(t, err)
		parts[1] = strings.Split(forged, ".")[1]

		v := jwtx.NewVerifierEdDSA("k1", signer.PublicKey(), jwtx.VerifyOptions{Now: at(now)})
		_, err = v.Verify(strings.Join(parts, "."))
		require.ErrorIs(t, err, jwtx.ErrInvalidSig)
	})

	t.Run("garbage", func(t *testing.T) {
		v := jwtx.NewVerifierEdDSA("k1", signer.PublicKey(), jwtx.VerifyOptions{Now: at(now)})
		_, err := v.Verify("not-a-jwt")
		require.ErrorIs(t, err, jwtx.ErrMalformed)
	})

	t.Run("wrong algorithm", func(t *testing.T) {
		hs := jwt.NewWithClaims(jwt.SigningMethodHS256, jwtx.NewClaims("user@example.com", nil, time.Minute, exampleIssuer, now))
		hs.Header["kid"] = "k1"
		raw, err := hs.SignedString([]byte("secret"))
		require.NoError(t, err)

		v := jwtx.NewVerifierEdDSA("k1", signer.PublicKey(), jwtx.VerifyOptions{Now: at(now)})
		_, err = v.Verify(raw)
		require.ErrorIs(t, err, jwtx.ErrInvalidSig)
	})
}

func TestNewSignerEdDSARejectsBadKey(t *testing.T) {
	_, err := jwtx.NewSignerEdDSA("test", ed25519.PrivateKey([]byte("short")))
	require.Error(t, err)
}
