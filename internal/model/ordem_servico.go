package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// OS status workflow. "cancelada" is reachable from any non-final state;
// "entregue" and "cancelada" are terminal. Transitions are validated in
// the service layer and every change is recorded in historico_status.
const (
	OSAberta              = "aberta"
	OSEmAnalise           = "em_analise"
	OSOrcamentoEnviado    = "orcamento_enviado"
	OSAguardandoAprovacao = "aguardando_aprovacao"
	OSAprovado            = "aprovado"
	OSEmReparo            = "em_reparo"
	OSAguardandoRetirada  = "aguardando_retirada"
	OSEntregue            = "entregue"
	OSCancelada           = "cancelada"
)

// OrdemServico is a repair service order.
// NumeroOS is strictly increasing per empresa, assigned atomically.
type OrdemServico struct {
	ID        uuid.UUID  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	EmpresaID uuid.UUID  `gorm:"type:uuid;not null;uniqueIndex:idx_ordens_empresa_numero,priority:1"`
	NumeroOS  int        `gorm:"column:numero_os;not null;uniqueIndex:idx_ordens_empresa_numero,priority:2"`
	ClienteID uuid.UUID  `gorm:"type:uuid;not null"`
	TecnicoID *uuid.UUID `gorm:"type:uuid"`
	Atendente string

	// Equipment
	Categoria            string
	Marca                string
	Modelo               string
	Cor                  string
	NumeroSerie          string
	Acessorios           string
	CondicoesEquipamento string

	// Relato is the problem as reported by the customer
	Relato     string
	Observacao string

	ValorPeca     decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	ValorServico  decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	Desconto      decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	ValorFaturado decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`

	Status             string `gorm:"type:varchar(30);not null;default:'aberta'"`
	DataEntrega        *time.Time
	VencimentoGarantia *time.Time
	CreatedAt          time.Time
	UpdatedAt          time.Time

	Cliente   *Cliente          `gorm:"foreignKey:ClienteID"`
	Tecnico   *Usuario          `gorm:"foreignKey:TecnicoID"`
	Historico []HistoricoStatus `gorm:"foreignKey:OrdemID"`
}

// HistoricoStatus is an immutable audit row recorded on every OS status
// change.
type HistoricoStatus struct {
	ID             uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	OrdemID        uuid.UUID `gorm:"type:uuid;index;not null"`
	StatusAnterior *string
	StatusNovo     string    `gorm:"not null"`
	UsuarioID      uuid.UUID `gorm:"type:uuid;not null"`
	Motivo         *string
	CreatedAt      time.Time
}

func (OrdemServico) TableName() string    { return "ordens_servico" }
func (HistoricoStatus) TableName() string { return "historico_status" }
