package memory

import (
	"context"
	"sync"
	"time"
)

type bannedTokens struct {
	mu     sync.RWMutex
	tokens map[string]time.Time // fingerprint: token expiry
}

func newBannedTokens() *bannedTokens {
	return &bannedTokens{tokens: make(map[string]time.Time)}
}

func (b *bannedTokens) BanToken(_ context.Context, fingerprint string, expiresAt time.Time) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.tokens[fingerprint] = expiresAt
	return nil
}

func (b *bannedTokens) IsBanned(_ context.Context, fingerprint string) (bool, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	_, ok := b.tokens[fingerprint]
	return ok, nil
}

func (b *bannedTokens) DeleteExpired(_ context.Context, now time.Time) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	var n int
	for fp, exp := range b.tokens {
		if !exp.After(now) {
			delete(b.tokens, fp)
			n++
		}
	}
	return n, nil
}
