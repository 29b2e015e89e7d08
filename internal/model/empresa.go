package model

import (
	"time"

	"github.com/google/uuid"
)

// Empresa is the tenant. Every business row carries its empresa_id.
//
// The seq_* columns are atomic per-tenant counters: sale, OS and client
// numbers are assigned with UPDATE … SET seq_x = seq_x + 1 … RETURNING
// inside the insert transaction, never with read-max-then-insert.
type Empresa struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Nome       string    `gorm:"not null"`
	SeqVenda   int       `gorm:"not null;default:0"`
	SeqOS      int       `gorm:"column:seq_os;not null;default:0"`
	SeqCliente int       `gorm:"not null;default:0"`
	Ativo      bool      `gorm:"not null;default:true"`
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

func (Empresa) TableName() string { return "empresas" }
