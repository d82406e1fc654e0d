package domain

import "time"

// LoginAttempt is a pending second-factor challenge created when a user with
// Requires2FA logs in with a correct password. At most one attempt exists per
// email; a newer login replaces it.
type LoginAttempt struct {
	ID        string // ULID handed to the client as loginAttemptId
	Email     string
	Secret    string // TOTP secret (base32) the emailed code is derived from
	CreatedAt time.Time
}

// Expired reports whether the attempt is older than ttl at now.
func (a LoginAttempt) Expired(now time.Time, ttl time.Duration) bool {
	return now.After(a.CreatedAt.Add(ttl))
}
