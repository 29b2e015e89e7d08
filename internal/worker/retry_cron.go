package worker

// retry_cron.go
// Background goroutine that periodically re-enqueues notifications stuck
// in estado='falhada' with a next_retry_at in the past. Respects the
// circuit breaker to avoid hammering a downed gateway.

import (
	"context"
	"time"

	"assistec/internal/infra"
	"assistec/internal/repository"

	"github.com/rs/zerolog/log"
)

const (
	retryTickInterval = 30 * time.Second
	retryBatchSize    = 10
)

// RetryCronConfig holds all dependencies for the retry goroutine.
type RetryCronConfig struct {
	NotificacaoRepo repository.NotificacaoRepository
	Dispatcher      *Dispatcher
	CB              *infra.CircuitBreaker
}

// StartRetryCron launches a background goroutine that ticks every 30s,
// queries due notifications, and re-enqueues them for the worker pool.
// It respects the context for graceful shutdown.
func StartRetryCron(ctx context.Context, cfg RetryCronConfig) {
	go func() {
		ticker := time.NewTicker(retryTickInterval)
		defer ticker.Stop()

		log.Info().Msg("retry_cron: started")

		for {
			select {
			case <-ctx.Done():
				log.Info().Msg("retry_cron: shutting down")
				return
			case <-ticker.C:
				processRetries(ctx, cfg)
			}
		}
	}()
}

func processRetries(ctx context.Context, cfg RetryCronConfig) {
	// If the CB is open, skip entirely — don't hammer a downed gateway
	if cfg.CB.State() == infra.CBOpen {
		log.Debug().Msg("retry_cron: circuit breaker is open, skipping tick")
		return
	}

	pendentes, err := cfg.NotificacaoRepo.ListPendentesParaRetry(ctx, time.Now(), retryBatchSize)
	if err != nil {
		log.Error().Err(err).Msg("retry_cron: failed to query pending retries")
		return
	}
	if len(pendentes) == 0 {
		return
	}

	log.Info().Int("count", len(pendentes)).Msg("retry_cron: re-enqueueing failed notifications")

	for i := range pendentes {
		notif := &pendentes[i]
		job := NotificacaoJobPayload{NotificacaoID: notif.ID.String()}
		if err := cfg.Dispatcher.EnqueueNotificacao(ctx, job); err != nil {
			log.Error().Err(err).Str("notificacao_id", notif.ID.String()).Msg("retry_cron: enqueue failed")
			continue
		}
		log.Info().
			Str("notificacao_id", notif.ID.String()).
			Int("retry_count", notif.RetryCount).
			Msg("retry_cron: retry enqueued")
	}
}
