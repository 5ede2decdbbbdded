package booking

import (
	"context"
	"time"
)

const DefaultSweepInterval = 30 * time.Second

// RunSweeper releases expired holds every interval until ctx is cancelled.
// Reads already ignore expired holds; the sweep keeps the store from growing.
func (c *Coordinator) RunSweeper(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = DefaultSweepInterval
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	c.logger.Info("hold sweeper started", "interval", interval.String())

	for {
		select {
		case <-ctx.Done():
			c.logger.Info("hold sweeper stopped")
			return
		case <-ticker.C:
			if _, err := c.SweepExpiredHolds(ctx); err != nil && ctx.Err() == nil {
				c.logger.Error("failed to sweep expired holds", "error", err)
			}
		}
	}
}
