package jobs

import (
	"context"
	"time"

	"dna-clinic-go/pkg/logger"
)

// ResetSweeper removes password reset codes that are past their expiry.
type ResetSweeper interface {
	SweepExpired(ctx context.Context) (int64, error)
}

// StartResetSweepJob runs the sweeper every interval until ctx is cancelled.
// The returned channel is closed once the loop has exited.
func StartResetSweepJob(ctx context.Context, interval, timeout time.Duration, sweeper ResetSweeper, log logger.Logger) <-chan struct{} {
	done := make(chan struct{})
	if sweeper == nil {
		log.Warn("jobs.reset_sweep: disabled, sweeper not configured")
		close(done)
		return done
	}
	if interval <= 0 {
		interval = 10 * time.Minute
	}
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	ticker := time.NewTicker(interval)
	go func() {
		defer close(done)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				sweepOnce(ctx, timeout, sweeper, log)
			}
		}
	}()
	return done
}

func sweepOnce(ctx context.Context, timeout time.Duration, sweeper ResetSweeper, log logger.Logger) {
	tickCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	removed, err := sweeper.SweepExpired(tickCtx)
	if err != nil {
		log.Error("jobs.reset_sweep: sweep failed", "err", err)
		return
	}
	if removed > 0 {
		log.Info("jobs.reset_sweep: removed expired codes", "count", removed)
	}
}
