package store

import (
	"context"
	"fmt"
	"time"

	"github.com/aussiebroadwan/authservice/internal/auth/domain"
	"golang.org/x/sync/semaphore"
)

// writerWeight is the full semaphore capacity. A reader holds 1 unit, a
// writer holds all of them, so a writer excludes everyone and readers only
// exclude writers.
const writerWeight int64 = 1 << 30

// SharedUsers gives concurrent callers safe access to a single Users value
// whose own methods know nothing about concurrency. Lookups and validations
// run in parallel; AddUser runs alone. Every operation executes entirely
// while access is held, so outcomes are linearizable.
//
// Acquisition is FIFO, a waiting writer blocks readers that arrive after it.
type SharedUsers struct {
	inner   Users
	sem     *semaphore.Weighted
	timeout time.Duration
}

var _ Users = (*SharedUsers)(nil)

type SharedOption func(*SharedUsers)

// WithAcquireTimeout bounds how long an operation waits for access. Zero
// means wait for as long as the caller's context allows.
func WithAcquireTimeout(d time.Duration) SharedOption {
	return func(s *SharedUsers) { s.timeout = d }
}

// NewSharedUsers takes ownership of inner. Callers must not use inner
// directly afterwards.
func NewSharedUsers(inner Users, opts ...SharedOption) *SharedUsers {
	s := &SharedUsers{
		inner: inner,
		sem:   semaphore.NewWeighted(writerWeight),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *SharedUsers) AddUser(ctx context.Context, u domain.User) error {
	release, err := s.acquire(ctx, writerWeight)
	if err != nil {
		return err
	}
	defer release()

	return s.inner.AddUser(ctx, u)
}

func (s *SharedUsers) GetUser(ctx context.Context, email string) (domain.User, error) {
	release, err := s.acquire(ctx, 1)
	if err != nil {
		return domain.User{}, err
	}
	defer release()

	return s.inner.GetUser(ctx, email)
}

func (s *SharedUsers) ValidateUser(ctx context.Context, email, password string) error {
	release, err := s.acquire(ctx, 1)
	if err != nil {
		return err
	}
	defer release()

	return s.inner.ValidateUser(ctx, email, password)
}

// acquire blocks until n units are held. A cancelled context or an elapsed
// acquire timeout is reported as ErrUnexpected wrapping the context error.
func (s *SharedUsers) acquire(ctx context.Context, n int64) (func(), error) {
	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	if err := s.sem.Acquire(ctx, n); err != nil {
		return nil, fmt.Errorf("%w: acquire user directory: %w", ErrUnexpected, err)
	}
	return func() { s.sem.Release(n) }, nil
}
