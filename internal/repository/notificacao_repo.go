package repository

import (
	"context"
	"time"

	"assistec/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type NotificacaoRepository interface {
	Create(ctx context.Context, n *model.Notificacao) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Notificacao, error)
	MarkEnviada(ctx context.Context, id uuid.UUID) error
	MarkFalhada(ctx context.Context, id uuid.UUID, reason string, nextRetryAt *time.Time) error
	ListPendentesParaRetry(ctx context.Context, now time.Time, limit int) ([]model.Notificacao, error)
}

type notificacaoRepo struct{ db *gorm.DB }

func NewNotificacaoRepository(db *gorm.DB) NotificacaoRepository { return &notificacaoRepo{db: db} }

func (r *notificacaoRepo) Create(ctx context.Context, n *model.Notificacao) error {
	return r.db.WithContext(ctx).Create(n).Error
}

func (r *notificacaoRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Notificacao, error) {
	var n model.Notificacao
	err := r.db.WithContext(ctx).First(&n, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &n, nil
}

func (r *notificacaoRepo) MarkEnviada(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).
		Model(&model.Notificacao{}).Where("id = ?", id).
		Updates(map[string]interface{}{
			"estado":        "enviada",
			"next_retry_at": nil,
			"last_error":    nil,
		}).Error
}

// MarkFalhada records the failure and schedules the next attempt. A nil
// nextRetryAt means the retry budget is exhausted — the cron stops
// picking the row up and the job goes to the DLQ.
func (r *notificacaoRepo) MarkFalhada(ctx context.Context, id uuid.UUID, reason string, nextRetryAt *time.Time) error {
	return r.db.WithContext(ctx).
		Model(&model.Notificacao{}).Where("id = ?", id).
		Updates(map[string]interface{}{
			"estado":        "falhada",
			"retry_count":   gorm.Expr("retry_count + 1"),
			"next_retry_at": nextRetryAt,
			"last_error":    reason,
		}).Error
}

func (r *notificacaoRepo) ListPendentesParaRetry(ctx context.Context, now time.Time, limit int) ([]model.Notificacao, error) {
	var pend []model.Notificacao
	err := r.db.WithContext(ctx).
		Where("estado = 'falhada' AND next_retry_at IS NOT NULL AND next_retry_at <= ?", now).
		Order("next_retry_at ASC").
		Limit(limit).
		Find(&pend).Error
	return pend, err
}
