package scheduler

import (
	"context"
	"time"

	"estate_crm_backend/platform/logger"
)

// Sweeper periodically enqueues the inactivity sweep task.
type Sweeper struct {
	client   *Client
	interval time.Duration
	log      *logger.Logger
}

func NewSweeper(client *Client, interval time.Duration, log *logger.Logger) *Sweeper {
	if interval <= 0 {
		interval = time.Hour
	}
	return &Sweeper{client: client, interval: interval, log: log}
}

func (s *Sweeper) Run(ctx context.Context) {
	if s == nil || s.client == nil {
		return
	}

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := s.client.EnqueueInactivitySweep(ctx); err != nil {
				s.log.Error("failed to enqueue inactivity sweep", "error", err)
			}
		}
	}
}
