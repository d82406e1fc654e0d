package cryptox

import (
	"crypto/sha256"
	"encoding/base64"
	"fmt"

	"golang.org/x/crypto/argon2"
)

// Configuration for Argon2id derivation.
const (
	memory      = 19 * 1024 // Memory usage in KiB (19 MiB)
	iterations  = 2         // Iteration count
	parallelism = 1         // Number of threads
	keyLength   = 32        // Length of the generated hash
	saltLength  = 16        // Length of the salt
)

// DeriveCredential turns a plaintext password into a PHC-format Argon2id
// string. The salt is derived from pepper and identity rather than drawn at
// random, so the same inputs always produce the same string and stored
// credentials can be checked by plain equality.
//
// The pepper must stay secret: without it the salt is predictable.
func DeriveCredential(identity, password, pepper string) string {
	salt := deriveSalt(identity, pepper)
	hash := argon2.IDKey(
		[]byte(password+pepper),
		salt,
		iterations,
		memory,
		parallelism,
		keyLength,
	)

	return fmt.Sprintf(
		"$argon2id$v=19$m=%d,t=%d,p=%d$%s$%s",
		memory,
		iterations,
		parallelism,
		base64.RawStdEncoding.EncodeToString(salt),
		base64.RawStdEncoding.EncodeToString(hash),
	)
}

func deriveSalt(identity, pepper string) []byte {
	h := sha256.New()
	h.Write([]byte(pepper))
	h.Write([]byte{0})
	h.Write([]byte(identity))
	return h.Sum(nil)[:saltLength]
}
