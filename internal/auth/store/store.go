package store

import (
	"context"
	"errors"
	"time"

	"github.com/aussiebroadwan/authservice/internal/auth/domain"
)

var (
	ErrNotFound           = errors.New("store: not found")
	ErrAlreadyExists      = errors.New("store: already exists")
	ErrInvalidCredentials = errors.New("store: invalid credentials")

	// ErrUnexpected marks a broken invariant or an inability to reach the
	// backing state at all. Callers should treat it as a defect.
	ErrUnexpected = errors.New("store: unexpected error")
)

// ErrorKind is the closed set of outcomes a user store operation can have.
type ErrorKind int

const (
	KindNone ErrorKind = iota
	KindAlreadyExists
	KindNotFound
	KindInvalidCredentials
	KindUnexpected
)

func (k ErrorKind) String() string {
	switch k {
	case KindNone:
		return "none"
	case KindAlreadyExists:
		return "already_exists"
	case KindNotFound:
		return "not_found"
	case KindInvalidCredentials:
		return "invalid_credentials"
	default:
		return "unexpected"
	}
}

// KindOf classifies an error returned by a store. Anything that is not one
// of the known sentinels is reported as KindUnexpected.
func KindOf(err error) ErrorKind {
	switch {
	case err == nil:
		return KindNone
	case errors.Is(err, ErrAlreadyExists):
		return KindAlreadyExists
	case errors.Is(err, ErrNotFound):
		return KindNotFound
	case errors.Is(err, ErrInvalidCredentials):
		return KindInvalidCredentials
	default:
		return KindUnexpected
	}
}

// Store is the root data access interface. Concrete drivers (memory, sqlite)
// implement this and hand out sub-repositories so each concern stays small
// and can be swapped in tests.
type Store interface {
	Users() Users
	TwoFACodes() TwoFACodes
	BannedTokens() BannedTokens

	ApplyMigrations() error

	// Close releases any underlying resources (no-op for memory).
	Close() error

	// Ping verifies the backing storage is reachable.
	Ping(ctx context.Context) error
}

// Users is the user directory: the sole authority on identity uniqueness and
// credential checks. Records go in and come out by value.
type Users interface {
	// AddUser inserts u, or returns ErrAlreadyExists when u.Email is taken.
	// Nothing changes on failure.
	AddUser(ctx context.Context, u domain.User) error

	// GetUser returns a copy of the record for email, or ErrNotFound.
	GetUser(ctx context.Context, email string) (domain.User, error)

	// ValidateUser returns nil when password exactly matches the stored
	// credential, ErrInvalidCredentials when it does not and ErrNotFound
	// when there is no such user.
	ValidateUser(ctx context.Context, email, password string) error
}

type TwoFACodes interface {
	// AddCode stores a pending attempt, replacing any earlier one for the
	// same email.
	AddCode(ctx context.Context, attempt domain.LoginAttempt) error

	// GetCode returns the pending attempt for email, or ErrNotFound.
	GetCode(ctx context.Context, email string) (domain.LoginAttempt, error)

	// RemoveCode deletes the pending attempt for email only while it is still
	// attempt id. It returns ErrNotFound when there is no such attempt,
	// including when a newer login has replaced it.
	RemoveCode(ctx context.Context, email, id string) error

	// DeleteExpired removes attempts created before the cutoff and reports
	// how many were removed.
	DeleteExpired(ctx context.Context, before time.Time) (int, error)
}

type BannedTokens interface {
	// BanToken records a token fingerprint until expiresAt.
	BanToken(ctx context.Context, fingerprint string, expiresAt time.Time) error

	// IsBanned reports whether the fingerprint is on the ban list.
	IsBanned(ctx context.Context, fingerprint string) (bool, error)

	// DeleteExpired drops entries whose tokens have expired by now.
	DeleteExpired(ctx context.Context, now time.Time) (int, error)
}
