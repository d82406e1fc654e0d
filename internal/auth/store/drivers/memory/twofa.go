package memory

import (
	"context"
	"sync"
	"time"

	"github.com/aussiebroadwan/authservice/internal/auth/domain"
	"github.com/aussiebroadwan/authservice/internal/auth/store"
)

type twoFACodes struct {
	mu       sync.RWMutex
	attempts map[string]domain.LoginAttempt // keyed by email
}

func newTwoFACodes() *twoFACodes {
	return &twoFACodes{attempts: make(map[string]domain.LoginAttempt)}
}

func (c *twoFACodes) AddCode(_ context.Context, attempt domain.LoginAttempt) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.attempts[attempt.Email] = attempt
	return nil
}

func (c *twoFACodes) GetCode(_ context.Context, email string) (domain.LoginAttempt, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	attempt, ok := c.attempts[email]
	if !ok {
		return domain.LoginAttempt{}, store.ErrNotFound
	}
	return attempt, nil
}

func (c *twoFACodes) RemoveCode(_ context.Context, email, id string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if attempt, ok := c.attempts[email]; !ok || attempt.ID != id {
		return store.ErrNotFound
	}
	delete(c.attempts, email)
	return nil
}

func (c *twoFACodes) DeleteExpired(_ context.Context, before time.Time) (int, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	var n int
	for email, attempt := range c.attempts {
		if attempt.CreatedAt.Before(before) {
			delete(c.attempts, email)
			n++
		}
	}
	return n, nil
}
