// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 skbp Contributors

package auth

import (
	"context"
	"log/slog"
	"time"

	"github.com/samber/oops"
)

// DefaultSweepInterval is how often the sweeper deletes expired sessions.
const DefaultSweepInterval = time.Hour

// Sweeper periodically removes expired sessions. Validation already deletes
// expired sessions lazily on access; the sweeper only reclaims rows for
// sessions that are never presented again.
type Sweeper struct {
	sessions SessionRepository
	interval time.Duration
	logger   *slog.Logger
	swept    func(count int64)
}

// NewSweeper creates a Sweeper. If interval is zero, DefaultSweepInterval is
// used. The swept callback, if non-nil, receives the count of each sweep for
// metrics reporting.
func NewSweeper(sessions SessionRepository, interval time.Duration, logger *slog.Logger, swept func(count int64)) (*Sweeper, error) {
	if sessions == nil {
		return nil, oops.Code("SWEEPER_INVALID").Errorf("sessions repository is required")
	}
	if logger == nil {
		logger = slog.Default()
	}
	if interval <= 0 {
		interval = DefaultSweepInterval
	}
	return &Sweeper{
		sessions: sessions,
		interval: interval,
		logger:   logger,
		swept:    swept,
	}, nil
}

// Run sweeps once immediately, then on every interval tick until the
// context is canceled.
func (s *Sweeper) Run(ctx context.Context) {
	s.sweep(ctx)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.sweep(ctx)
		}
	}
}

func (s *Sweeper) sweep(ctx context.Context) {
	count, err := s.sessions.DeleteExpired(ctx, time.Now())
	if err != nil {
		s.logger.Warn("session sweep failed", "error", err)
		return
	}
	if count > 0 {
		s.logger.Info("swept expired sessions", "count", count)
	}
	if s.swept != nil {
		s.swept(count)
	}
}
