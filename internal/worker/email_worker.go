package worker

// email_worker.go
// Processes email jobs from QueueEmail: customer emails carrying the OS
// printout, delivered via SMTP.

import (
	"context"
	"encoding/json"

	"assistec/internal/infra"
	"assistec/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// EmailJobPayload is the job envelope sent to QueueEmail.
type EmailJobPayload struct {
	NotificacaoID string `json:"notificacao_id,omitempty"`
	ToEmail       string `json:"to_email"`
	Subject       string `json:"subject"`
	Body          string `json:"body"`
	PDFPath       string `json:"pdf_path,omitempty"`
}

// EmailWorker sends queued emails and records the outcome on the
// originating notificação row when the job carries one.
type EmailWorker struct {
	mailer *infra.Mailer
	repo   repository.NotificacaoRepository
}

func NewEmailWorker(mailer *infra.Mailer, repo repository.NotificacaoRepository) *EmailWorker {
	return &EmailWorker{mailer: mailer, repo: repo}
}

// Process sends one email, attaching the PDF when present.
func (w *EmailWorker) Process(ctx context.Context, raw json.RawMessage) {
	var payload EmailJobPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		log.Error().Err(err).Msg("email_worker: invalid payload")
		return
	}
	if payload.ToEmail == "" {
		log.Warn().Msg("email_worker: empty to_email — skipping")
		return
	}

	sendErr := w.mailer.Send(payload.ToEmail, payload.Subject, payload.Body, payload.PDFPath)

	if payload.NotificacaoID != "" {
		if id, err := uuid.Parse(payload.NotificacaoID); err == nil {
			if sendErr != nil {
				_ = w.repo.MarkFalhada(ctx, id, sendErr.Error(), nil)
			} else {
				_ = w.repo.MarkEnviada(ctx, id)
			}
		}
	}

	if sendErr != nil {
		log.Error().Err(sendErr).Str("to", payload.ToEmail).Msg("email_worker: failed to send email")
		return
	}
	log.Info().Str("to", payload.ToEmail).Msg("email_worker: email sent")
}
