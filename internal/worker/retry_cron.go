package worker

// retry_cron.go: background goroutine that moves due email retries from the
// retry set back onto the queue. Skips the tick while the SMTP circuit is
// open so a downed relay is not hammered.

import (
	"context"
	"time"

	"github.com/AlejndroSG/ImpulsaTelecom-sub002/internal/infra"

	"github.com/rs/zerolog/log"
)

const (
	retryTickInterval = 15 * time.Second
	retryBatchSize    = 50
)

// Promoter is satisfied by *Dispatcher.
type Promoter interface {
	PromoteDue(ctx context.Context, queue string, limit int64) (int, error)
}

// StartRetryCron launches the promotion loop. The returned channel closes
// when the goroutine exits after ctx is cancelled.
func StartRetryCron(ctx context.Context, p Promoter, cb *infra.CircuitBreaker, interval time.Duration) <-chan struct{} {
	if interval <= 0 {
		interval = retryTickInterval
	}
	done := make(chan struct{})
	go func() {
		defer close(done)
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		log.Info().Msg("retry_cron: started")
		for {
			select {
			case <-ctx.Done():
				log.Info().Msg("retry_cron: shutting down")
				return
			case <-ticker.C:
				promote(ctx, p, cb)
			}
		}
	}()
	return done
}

func promote(ctx context.Context, p Promoter, cb *infra.CircuitBreaker) {
	if cb != nil && cb.State() == infra.CBOpen {
		log.Debug().Msg("retry_cron: circuit breaker is open, skipping tick")
		return
	}
	n, err := p.PromoteDue(ctx, QueueEmail, retryBatchSize)
	if err != nil {
		log.Error().Err(err).Msg("retry_cron: failed to promote retries")
		return
	}
	if n > 0 {
		log.Info().Int("count", n).Msg("retry_cron: retries moved back to queue")
	}
}
