package trash

import (
	"context"
	"sync/atomic"
	"time"
)

// Default sweeper configuration values
const (
	DefaultSweepInterval = 1 * time.Hour
)

// SweeperConfig holds configuration for the background expiry sweeper.
type SweeperConfig struct {
	// Interval is how often to sweep the trash for expired entries.
	// Default: 1 hour
	Interval time.Duration

	// OnCleanup is called after a sweep that removed at least one
	// expired entry. The count is the number of entries removed.
	OnCleanup func(count int)

	// OnError is called when a sweep fails.
	OnError func(err error)
}

// DefaultSweeperConfig returns the default sweeper configuration.
func DefaultSweeperConfig() *SweeperConfig {
	return &SweeperConfig{
		Interval: DefaultSweepInterval,
	}
}

// Sweeper periodically runs the trash manager's expiry cleanup.
type Sweeper struct {
	manager *Manager
	config  *SweeperConfig

	started atomic.Bool
	done    chan struct{}
	cancel  context.CancelFunc
}

// NewSweeper creates a background expiry sweeper for the given manager.
func NewSweeper(manager *Manager, config *SweeperConfig) *Sweeper {
	if config == nil {
		config = DefaultSweeperConfig()
	}
	if config.Interval <= 0 {
		config.Interval = DefaultSweepInterval
	}

	return &Sweeper{
		manager: manager,
		config:  config,
		done:    make(chan struct{}),
	}
}

// Start begins the sweep loop. It returns immediately and sweeps in a
// goroutine, once on start and then on every interval tick.
func (s *Sweeper) Start(ctx context.Context) error {
	if !s.started.CompareAndSwap(false, true) {
		return ErrAlreadyStarted
	}

	ctx, s.cancel = context.WithCancel(ctx)
	go s.run(ctx)

	return nil
}

// Stop stops the sweep loop and waits for the current sweep to finish.
func (s *Sweeper) Stop(ctx context.Context) error {
	if !s.started.Load() {
		return ErrNotStarted
	}

	s.cancel()
	<-s.done

	s.started.Store(false)
	return nil
}

func (s *Sweeper) run(ctx context.Context) {
	defer close(s.done)

	s.sweep()

	ticker := time.NewTicker(s.config.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.sweep()
		}
	}
}

func (s *Sweeper) sweep() {
	cleaned, err := s.manager.Cleanup()
	if err != nil {
		if s.config.OnError != nil {
			s.config.OnError(err)
		}
		return
	}
	if cleaned > 0 && s.config.OnCleanup != nil {
		s.config.OnCleanup(cleaned)
	}
}

// IsRunning returns true if the sweeper is running.
func (s *Sweeper) IsRunning() bool {
	return s.started.Load()
}
