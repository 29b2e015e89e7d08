package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// TurnoCaixa represents the lifecycle of a cash register shift.
// Status: "aberto" | "fechado"
//
// A turno is append-only history: it is created by an explicit open,
// sealed by an explicit close and never deleted. At most one turno per
// empresa may be "aberto" at any time — enforced by a partial unique
// index on (empresa_id) WHERE status = 'aberto' (see infra/database.go).
type TurnoCaixa struct {
	ID            uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	EmpresaID     uuid.UUID       `gorm:"type:uuid;not null;index"`
	AbertoPor     uuid.UUID       `gorm:"type:uuid;not null"`
	FechadoPor    *uuid.UUID      `gorm:"type:uuid"`
	ValorAbertura decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	// ValorFechamento is the amount the operator counted in the drawer.
	// It is stored as declared; any discrepancy against the computed
	// balance lands in ValorDiferenca, never rejected.
	ValorFechamento *decimal.Decimal `gorm:"type:decimal(12,2)"`
	// ValorTroco is the change float reserved for the next turno.
	ValorTroco     *decimal.Decimal `gorm:"type:decimal(12,2)"`
	ValorDiferenca *decimal.Decimal `gorm:"type:decimal(12,2)"`
	Status         string           `gorm:"type:varchar(20);not null;default:'aberto'"`
	Observacoes    *string
	OpenedAt       time.Time
	ClosedAt       *time.Time

	Movimentacoes []MovimentacaoCaixa `gorm:"foreignKey:TurnoID"`
}

// MovimentacaoCaixa is an immutable event in the cash register ledger.
// Tipo: "sangria" | "suprimento" | "venda"
// Valor is always positive; the effect on the balance comes from Tipo.
// Movimentações are NEVER modified or deleted — cancellations create
// inverse entries.
type MovimentacaoCaixa struct {
	ID        uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	TurnoID   uuid.UUID       `gorm:"type:uuid;index;not null"`
	Tipo      string          `gorm:"type:varchar(20);not null"`
	Valor     decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Descricao string          `gorm:"not null"`
	UsuarioID uuid.UUID       `gorm:"type:uuid;not null"`
	// VendaID links the movement to the originating sale (tipo "venda")
	VendaID   *uuid.UUID `gorm:"type:uuid"`
	CreatedAt time.Time
}

func (TurnoCaixa) TableName() string        { return "turnos_caixa" }
func (MovimentacaoCaixa) TableName() string { return "movimentacoes_caixa" }
