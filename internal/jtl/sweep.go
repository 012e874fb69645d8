package jtl

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"
)

// Sweeper removes expired cache entries.
type Sweeper interface {
	SweepExpired(ctx context.Context) error
}

// Sweep periodically removes expired KV entries. It blocks until the
// context is cancelled.
func Sweep(ctx context.Context, s Sweeper, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := s.SweepExpired(ctx); err != nil {
				log.Debug().Err(err).Msg("kv sweep failed")
			}
		}
	}
}
