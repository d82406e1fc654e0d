package service

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/aussiebroadwan/authservice/internal/auth/store"
)

// HousekeepingService periodically deletes expired 2FA attempts and banned
// token entries so neither table grows without bound.
type HousekeepingService struct {
	Store    store.Store
	Logger   *slog.Logger
	Interval time.Duration
	CodeTTL  time.Duration

	// Now defaults to time.Now.
	Now func() time.Time

	// Internal channels for lifecycle management
	stopCh chan struct{}
	doneCh chan struct{}

	mu       sync.Mutex
	started  bool
	stopped  bool
	stopOnce sync.Once
}

// NewHousekeepingService creates a new housekeeping service with the given interval.
// If interval is 0 or negative, defaults to 1 minute.
func NewHousekeepingService(store store.Store, logger *slog.Logger, interval, codeTTL time.Duration) *HousekeepingService {
	if interval <= 0 {
		interval = time.Minute
	}
	if codeTTL <= 0 {
		codeTTL = DefaultCodeTTL
	}

	return &HousekeepingService{
		Store:    store,
		Logger:   logger,
		Interval: interval,
		CodeTTL:  codeTTL,
		Now:      time.Now,
		stopCh:   make(chan struct{}),
		doneCh:   make(chan struct{}),
	}
}

// Start begins the background worker that periodically runs cleanup.
// Call Stop() to gracefully shutdown the worker. Starting twice, or after
// Stop, does nothing.
func (s *HousekeepingService) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.started || s.stopped {
		return
	}
	s.started = true

	go s.run()
	s.Logger.Info("housekeeping service started", "interval", s.Interval)
}

// Stop gracefully shuts down the background worker.
// Blocks until the worker has finished any in-progress cleanup.
// Safe to call more than once, and without a prior Start.
func (s *HousekeepingService) Stop() {
	s.stopOnce.Do(func() {
		s.mu.Lock()
		s.stopped = true
		started := s.started
		s.mu.Unlock()

		close(s.stopCh)
		if !started {
			return
		}
		<-s.doneCh
		s.Logger.Info("housekeeping service stopped")
	})
}

func (s *HousekeepingService) run() {
	defer close(s.doneCh)

	ticker := time.NewTicker(s.Interval)
	defer ticker.Stop()

	s.Cleanup(context.Background())

	for {
		select {
		case <-ticker.C:
			s.Cleanup(context.Background())
		case <-s.stopCh:
			return
		}
	}
}

// Cleanup runs one pass. Each deletion is independent, a failure in one
// won't stop the other. It returns the number of records removed.
func (s *HousekeepingService) Cleanup(ctx context.Context) int {
	ctx, cancel := context.WithTimeout(ctx, s.Interval)
	defer cancel()

	now := s.Now()
	var total int

	if n, err := s.Store.TwoFACodes().DeleteExpired(ctx, now.Add(-s.CodeTTL)); err != nil {
		s.Logger.Error("failed to delete expired 2fa attempts", "error", err)
	} else {
		total += n
	}

	if n, err := s.Store.BannedTokens().DeleteExpired(ctx, now); err != nil {
		s.Logger.Error("failed to delete expired banned tokens", "error", err)
	} else {
		total += n
	}

	s.Logger.Debug("housekeeping cleanup completed", "deleted", total)
	return total
}
