package app

import (
	"crypto/ed25519"
	"fmt"
	"log/slog"

	"github.com/aussiebroadwan/authservice/pkg/cryptox"
	"github.com/aussiebroadwan/authservice/pkg/jwtx"
)

// kidLength is how many fingerprint characters make up the key id.
const kidLength = 16

// InitSigningKey loads the Ed25519 key at path, or generates one when path is
// empty, and returns the signer and a verifier bound to the same key.
//
// An ephemeral key lives only in memory, so every token issued before a
// restart fails verification afterwards.
func InitSigningKey(path, issuer string, logger *slog.Logger) (*jwtx.EdDSASigner, *jwtx.EdDSAVerifier, error) {
	key, err := cryptox.LoadEd25519KeyFile(path)
	if err != nil {
		return nil, nil, fmt.Errorf("load signing key: %w", err)
	}

	pub, _ := key.Public().(ed25519.PublicKey)
	kid := cryptox.FingerprintToken(string(pub))[:kidLength]

	signer, err := jwtx.NewSignerEdDSA(kid, key)
	if err != nil {
		return nil, nil, fmt.Errorf("create signer: %w", err)
	}

	verifier := jwtx.NewVerifierEdDSA(kid, signer.PublicKey(), jwtx.VerifyOptions{
		Issuer: issuer,
	})

	if path == "" {
		logger.Warn("generated ephemeral signing key, tokens will not survive a restart", "kid", kid)
	} else {
		logger.Info("signing key loaded", "kid", kid, "path", path)
	}

	return signer, verifier, nil
}
