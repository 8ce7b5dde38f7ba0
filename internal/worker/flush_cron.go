package worker

// flush_cron.go
// Background goroutine that opportunistically drains the observation queue.
// Sync cycles and finalize also trigger flushes; this cron covers the case
// where the app sits idle after a failed write. Uses the circuit breaker state
// to avoid hammering a downed price index.

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/vinecunha/riscae/internal/infra"
)

const defaultFlushInterval = 30 * time.Second

// StartFlushCron launches a goroutine that ticks every interval and flushes
// the observation queue. It respects the context for graceful shutdown.
func StartFlushCron(ctx context.Context, publisher *PricePublisher, cb *infra.CircuitBreaker, interval time.Duration) {
	if interval <= 0 {
		interval = defaultFlushInterval
	}
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		log.Info().Dur("interval", interval).Msg("flush_cron: started")

		for {
			select {
			case <-ctx.Done():
				log.Info().Msg("flush_cron: shutting down")
				return
			case <-ticker.C:
				flushTick(ctx, publisher, cb)
			}
		}
	}()
}

func flushTick(ctx context.Context, publisher *PricePublisher, cb *infra.CircuitBreaker) {
	// If the breaker is open the write would fast-fail anyway — skip the tick
	if cb.State() == infra.CBOpen {
		log.Debug().Msg("flush_cron: circuit breaker is open, skipping tick")
		return
	}

	flushed, err := publisher.Flush(ctx)
	if err != nil {
		log.Warn().Err(err).Msg("flush_cron: flush failed, queue left intact")
		return
	}
	if flushed > 0 {
		log.Info().Int("flushed", flushed).Msg("flush_cron: observation queue drained")
	}
}
