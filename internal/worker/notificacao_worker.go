package worker

// notificacao_worker.go
// Processes notification delivery jobs from QueueNotificacao.
// WhatsApp messages go through the gateway sidecar behind the circuit
// breaker; email notifications are re-enqueued for the email worker.

import (
	"context"
	"encoding/json"
	"time"

	"assistec/internal/infra"
	"assistec/internal/model"
	"assistec/internal/repository"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

// MaxNotificacaoRetries is the retry budget per notification. Failures
// beyond it park the job in the DLQ.
const MaxNotificacaoRetries = 5

// NotificacaoJobPayload is the job envelope sent to QueueNotificacao.
type NotificacaoJobPayload struct {
	NotificacaoID string `json:"notificacao_id"`
}

// NotificacaoWorker delivers pending notifications. Each job carries only
// the row ID; the current payload is always read from the DB so a retry
// never delivers stale content.
type NotificacaoWorker struct {
	repo        repository.NotificacaoRepository
	ordemRepo   repository.OrdemRepository
	empresaRepo repository.EmpresaRepository
	waClient    *infra.WhatsAppClient
	cb          *infra.CircuitBreaker
	dispatcher  *Dispatcher
	rdb         *redis.Client
	pdfPath     string
}

func NewNotificacaoWorker(
	repo repository.NotificacaoRepository,
	ordemRepo repository.OrdemRepository,
	empresaRepo repository.EmpresaRepository,
	waClient *infra.WhatsAppClient,
	cb *infra.CircuitBreaker,
	dispatcher *Dispatcher,
	rdb *redis.Client,
	pdfPath string,
) *NotificacaoWorker {
	return &NotificacaoWorker{
		repo:        repo,
		ordemRepo:   ordemRepo,
		empresaRepo: empresaRepo,
		waClient:    waClient,
		cb:          cb,
		dispatcher:  dispatcher,
		rdb:         rdb,
		pdfPath:     pdfPath,
	}
}

// Process handles a single notification job:
//  1. Parse NotificacaoJobPayload and fetch the row
//  2. Canal "email": hand over to the email worker queue
//  3. Canal "whatsapp": call the gateway through the circuit breaker,
//     with exponential backoff inside the attempt
//  4. Mark enviada / falhada; schedule a retry or park in the DLQ
func (w *NotificacaoWorker) Process(ctx context.Context, raw json.RawMessage) {
	var payload NotificacaoJobPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		log.Error().Err(err).Msg("notificacao_worker: invalid payload")
		return
	}

	id, err := uuid.Parse(payload.NotificacaoID)
	if err != nil {
		log.Error().Str("notificacao_id", payload.NotificacaoID).Msg("notificacao_worker: invalid id")
		return
	}

	notif, err := w.repo.FindByID(ctx, id)
	if err != nil {
		log.Error().Err(err).Str("notificacao_id", payload.NotificacaoID).Msg("notificacao_worker: row not found")
		return
	}
	if notif.Estado == "enviada" {
		return // duplicate job — already delivered
	}

	if notif.Canal == "email" {
		assunto := ""
		if notif.Assunto != nil {
			assunto = *notif.Assunto
		}
		emailJob := EmailJobPayload{
			NotificacaoID: notif.ID.String(),
			ToEmail:       notif.Destino,
			Subject:       assunto,
			Body:          notif.Corpo,
			PDFPath:       w.osSheetPath(ctx, notif),
		}
		if err := w.dispatcher.EnqueueEmail(ctx, emailJob); err != nil {
			log.Error().Err(err).Str("notificacao_id", notif.ID.String()).Msg("notificacao_worker: failed to enqueue email")
		}
		return
	}

	// WhatsApp delivery through the circuit breaker, retrying transient
	// gateway errors before giving the attempt up.
	sendErr := withRetry(ctx, 3, func(attempt int) error {
		return w.cb.Execute(func() error {
			_, err := w.waClient.Enviar(ctx, infra.WhatsAppMessage{
				Numero:   notif.Destino,
				Mensagem: notif.Corpo,
			})
			if err != nil {
				log.Warn().
					Err(err).
					Int("attempt", attempt+1).
					Str("notificacao_id", notif.ID.String()).
					Msg("notificacao_worker: gateway attempt failed")
			}
			return err
		})
	})

	if sendErr == nil {
		if err := w.repo.MarkEnviada(ctx, id); err != nil {
			log.Error().Err(err).Str("notificacao_id", notif.ID.String()).Msg("notificacao_worker: failed to mark enviada")
		}
		log.Info().Str("notificacao_id", notif.ID.String()).Str("destino", notif.Destino).Msg("notificacao_worker: delivered")
		return
	}

	attempts := notif.RetryCount + 1
	if attempts >= MaxNotificacaoRetries {
		_ = w.repo.MarkFalhada(ctx, id, sendErr.Error(), nil)
		SendToDLQ(ctx, w.rdb, QueueNotificacao, "notificacao", raw, sendErr.Error(), attempts)
		return
	}

	nextRetry := time.Now().Add(retryBackoff(attempts))
	if err := w.repo.MarkFalhada(ctx, id, sendErr.Error(), &nextRetry); err != nil {
		log.Error().Err(err).Str("notificacao_id", notif.ID.String()).Msg("notificacao_worker: failed to mark falhada")
		return
	}
	log.Warn().
		Str("notificacao_id", notif.ID.String()).
		Int("retry_count", attempts).
		Time("next_retry_at", nextRetry).
		Msg("notificacao_worker: delivery failed, retry scheduled")
}

// osSheetPath renders the OS printout for email notifications tied to an
// ordem, so the customer gets the sheet attached. Best effort: a PDF
// failure never blocks the email itself.
func (w *NotificacaoWorker) osSheetPath(ctx context.Context, notif *model.Notificacao) string {
	if notif.OrdemID == nil || w.ordemRepo == nil || w.pdfPath == "" {
		return ""
	}
	ordem, err := w.ordemRepo.FindByID(ctx, *notif.OrdemID)
	if err != nil {
		return ""
	}
	empresaNome := "AssisTec"
	if w.empresaRepo != nil {
		if empresa, err := w.empresaRepo.FindByID(ctx, ordem.EmpresaID); err == nil {
			empresaNome = empresa.Nome
		}
	}
	path, err := infra.GenerateOSPDF(ordem, empresaNome, w.pdfPath)
	if err != nil {
		log.Warn().Err(err).Str("notificacao_id", notif.ID.String()).Msg("notificacao_worker: OS sheet generation failed")
		return ""
	}
	return path
}

// withRetry calls fn up to maxAttempts times with exponential backoff.
// Backoff schedule: attempt 1 = immediate, 2 = 1s, 3 = 2s.
// Returns nil if any attempt succeeds; last error otherwise.
func withRetry(ctx context.Context, maxAttempts int, fn func(attempt int) error) error {
	var lastErr error
	for i := 0; i < maxAttempts; i++ {
		if i > 0 {
			wait := time.Duration(1<<uint(i-1)) * time.Second
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(wait):
			}
		}
		if err := fn(i); err != nil {
			lastErr = err
			continue
		}
		return nil
	}
	return lastErr
}

// retryBackoff returns the wait before the n-th cron retry:
// 1m, 2m, 4m … capped at 30m.
func retryBackoff(n int) time.Duration {
	d := time.Duration(1<<uint(n-1)) * time.Minute
	if d > 30*time.Minute {
		return 30 * time.Minute
	}
	return d
}
