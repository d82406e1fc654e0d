// Package memory is the in-process store driver. State lives for the life of
// the process and is lost on exit.
package memory

import (
	"context"

	"github.com/aussiebroadwan/authservice/internal/auth/store"
)

type Store struct {
	users        *store.SharedUsers
	twoFACodes   *twoFACodes
	bannedTokens *bannedTokens
}

var _ store.Store = (*Store)(nil)

// NewStore returns an empty store. The user directory is a HashmapUsers
// reachable only through a SharedUsers handle built with opts.
func NewStore(opts ...store.SharedOption) *Store {
	return &Store{
		users:        store.NewSharedUsers(NewHashmapUsers(), opts...),
		twoFACodes:   newTwoFACodes(),
		bannedTokens: newBannedTokens(),
	}
}

func (s *Store) Users() store.Users               { return s.users }
func (s *Store) TwoFACodes() store.TwoFACodes     { return s.twoFACodes }
func (s *Store) BannedTokens() store.BannedTokens { return s.bannedTokens }

func (s *Store) ApplyMigrations() error         { return nil }
func (s *Store) Close() error                   { return nil }
func (s *Store) Ping(ctx context.Context) error { return ctx.Err() }
