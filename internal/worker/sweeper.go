// Package worker hosts the background loops that run alongside the HTTP
// server. The hold sweeper keeps vehicle calendars honest: a reserved hold
// whose payment never settled is expired so the interval opens up again.
package worker

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"fleetbook/internal/pkg/clock"
	"fleetbook/internal/pkg/config"
	"fleetbook/internal/usecase/commands"
)

type HoldSweeper struct {
	sweeper commands.SweeperCommands
	clock   clock.Clock
	cfg     config.SweeperConfig
	logger  *slog.Logger

	cancel context.CancelFunc
	done   chan struct{}
	once   sync.Once
}

func NewHoldSweeper(sweeper commands.SweeperCommands, clk clock.Clock, cfg config.SweeperConfig, logger *slog.Logger) *HoldSweeper {
	return &HoldSweeper{
		sweeper: sweeper,
		clock:   clk,
		cfg:     cfg,
		logger:  logger,
		done:    make(chan struct{}),
	}
}

func (s *HoldSweeper) Start(_ context.Context) error {
	runCtx, cancel := context.WithCancel(context.Background())
	s.cancel = cancel
	go s.run(runCtx)
	return nil
}

func (s *HoldSweeper) Stop(ctx context.Context) error {
	s.once.Do(func() {
		if s.cancel != nil {
			s.cancel()
		}
	})
	select {
	case <-s.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (s *HoldSweeper) run(ctx context.Context) {
	defer close(s.done)

	s.logger.Info("hold sweeper started",
		slog.Duration("interval", s.cfg.Interval),
		slog.Int("batch_size", s.cfg.BatchSize),
	)

	s.sweepOnce(ctx)

	ticker := time.NewTicker(s.cfg.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.logger.Info("hold sweeper stopped")
			return
		case <-ticker.C:
			s.sweepOnce(ctx)
		}
	}
}

func (s *HoldSweeper) sweepOnce(ctx context.Context) {
	count, err := s.sweeper.SweepExpired(ctx, s.clock.Now())
	if err != nil {
		s.logger.ErrorContext(ctx, "hold sweep failed", slog.String("error", err.Error()))
		return
	}
	if count > 0 {
		s.logger.InfoContext(ctx, "expired stale holds", slog.Int("count", count))
	}
}
