package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Venda is a finalized point-of-sale transaction.
// Estado: "finalizada" | "anulada"
// NumeroVenda is strictly increasing per empresa, assigned atomically
// from the empresa counter inside the sale transaction.
type Venda struct {
	ID             uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	EmpresaID      uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:idx_vendas_empresa_numero,priority:1"`
	TurnoID        uuid.UUID       `gorm:"type:uuid;not null;index"`
	NumeroVenda    int             `gorm:"not null;uniqueIndex:idx_vendas_empresa_numero,priority:2"`
	ClienteID      *uuid.UUID      `gorm:"type:uuid"`
	UsuarioID      uuid.UUID       `gorm:"type:uuid;not null"`
	Desconto       decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	Acrescimo      decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	Total          decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	FormaPagamento string          `gorm:"type:varchar(20);not null"`
	TipoPedido     string          `gorm:"type:varchar(20)"`
	Status         string          `gorm:"type:varchar(20);not null;default:'finalizada'"`
	Observacoes    string
	DataVenda      time.Time
	CreatedAt      time.Time

	Itens   []VendaItem `gorm:"foreignKey:VendaID"`
	Cliente *Cliente    `gorm:"foreignKey:ClienteID"`
}

// VendaItem is a line of a sale. The price is copied from the catalog at
// sale time so later price changes do not rewrite history.
type VendaItem struct {
	ID               uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	VendaID          uuid.UUID       `gorm:"type:uuid;index;not null"`
	ProdutoServicoID *uuid.UUID      `gorm:"type:uuid"`
	Nome             string          `gorm:"not null"`
	Preco            decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Quantidade       int             `gorm:"not null"`
	Total            decimal.Decimal `gorm:"type:decimal(12,2);not null"`
}

func (Venda) TableName() string     { return "vendas" }
func (VendaItem) TableName() string { return "venda_itens" }
