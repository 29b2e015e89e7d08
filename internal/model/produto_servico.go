package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ProdutoServico is a catalog entry: a part sold over the counter or a
// service charged on an OS. Tipo: "produto" | "servico"
type ProdutoServico struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	EmpresaID uuid.UUID `gorm:"type:uuid;not null;index"`
	Nome      string    `gorm:"not null"`
	Descricao *string
	Preco     decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Tipo      string          `gorm:"type:varchar(10);not null"`
	Codigo    *string
	Ativo     bool `gorm:"not null;default:true"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (ProdutoServico) TableName() string { return "produtos_servicos" }
