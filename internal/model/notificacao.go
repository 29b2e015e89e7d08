package model

import (
	"time"

	"github.com/google/uuid"
)

// Notificacao records one outbound notification attempt (WhatsApp or
// email). Estado: "pendente" | "enviada" | "falhada"
//
// Failed sends are rescheduled by the retry cron using NextRetryAt with
// exponential backoff; after the retry budget is exhausted the job is
// parked in the Redis DLQ and Estado stays "falhada".
type Notificacao struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	EmpresaID uuid.UUID `gorm:"type:uuid;not null;index"`
	// Canal: "whatsapp" | "email"
	Canal   string `gorm:"type:varchar(10);not null"`
	Destino string `gorm:"not null"`
	Assunto *string
	Corpo   string
	OrdemID *uuid.UUID `gorm:"type:uuid"`

	Estado      string `gorm:"type:varchar(20);not null;default:'pendente'"`
	RetryCount  int    `gorm:"not null;default:0"`
	NextRetryAt *time.Time
	LastError   *string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (Notificacao) TableName() string { return "notificacoes" }
