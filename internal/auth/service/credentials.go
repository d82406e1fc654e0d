package service

import "github.com/aussiebroadwan/authservice/pkg/cryptox"

// CredentialScheme turns the password a user typed into the value kept in
// the user directory. The directory compares stored values by exact match,
// so Derive must be deterministic for a given email and password.
type CredentialScheme interface {
	Derive(email, password string) string
}

// PlainCredentials stores passwords verbatim.
type PlainCredentials struct{}

func (PlainCredentials) Derive(_, password string) string { return password }

// Argon2idCredentials stores a peppered Argon2id derivation of the password.
type Argon2idCredentials struct {
	Pepper string
}

func (c Argon2idCredentials) Derive(email, password string) string {
	return cryptox.DeriveCredential(email, password, c.Pepper)
}
