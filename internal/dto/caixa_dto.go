package dto

import "github.com/shopspring/decimal"

// ─── Request DTOs ────────────────────────────────────────────────────────────

type AbrirTurnoRequest struct {
	ValorAbertura decimal.Decimal `json:"valor_abertura" validate:"min=0"`
	Observacoes   *string         `json:"observacoes"`
}

type MovimentacaoRequest struct {
	TurnoID   string          `json:"turno_id"  validate:"required,uuid"`
	Tipo      string          `json:"tipo"      validate:"required,oneof=sangria suprimento"`
	Valor     decimal.Decimal `json:"valor"     validate:"required"`
	Descricao string          `json:"descricao" validate:"required,min=3"`
}

type FecharTurnoRequest struct {
	TurnoID         string          `json:"turno_id"         validate:"required,uuid"`
	ValorFechamento decimal.Decimal `json:"valor_fechamento" validate:"min=0"`
	ValorTroco      decimal.Decimal `json:"valor_troco"      validate:"min=0"`
	Observacoes     *string         `json:"observacoes"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

// ResumoTurno carries the recomputed ledger figures for a turno. Saldo is
// always derived from the constituent rows, never read from a stored
// running total.
type ResumoTurno struct {
	ValorVendas      decimal.Decimal `json:"valor_vendas"`
	ValorSangrias    decimal.Decimal `json:"valor_sangrias"`
	ValorSuprimentos decimal.Decimal `json:"valor_suprimentos"`
	Saldo            decimal.Decimal `json:"saldo"`
}

type TurnoResponse struct {
	TurnoID         string           `json:"turno_id"`
	EmpresaID       string           `json:"empresa_id"`
	AbertoPor       string           `json:"aberto_por"`
	FechadoPor      *string          `json:"fechado_por"`
	ValorAbertura   decimal.Decimal  `json:"valor_abertura"`
	ValorFechamento *decimal.Decimal `json:"valor_fechamento"`
	ValorTroco      *decimal.Decimal `json:"valor_troco"`
	ValorDiferenca  *decimal.Decimal `json:"valor_diferenca"`
	Resumo          ResumoTurno      `json:"resumo"`
	Status          string           `json:"status"`
	Observacoes     *string          `json:"observacoes"`
	OpenedAt        string           `json:"opened_at"`
	ClosedAt        *string          `json:"closed_at"`
}

type MovimentacaoResponse struct {
	ID        string          `json:"id"`
	TurnoID   string          `json:"turno_id"`
	Tipo      string          `json:"tipo"`
	Valor     decimal.Decimal `json:"valor"`
	Descricao string          `json:"descricao"`
	UsuarioID string          `json:"usuario_id"`
	VendaID   *string         `json:"venda_id"`
	CreatedAt string          `json:"created_at"`
}

type TrocoSugeridoResponse struct {
	ValorTroco decimal.Decimal `json:"valor_troco"`
}

type SaldoResponse struct {
	TurnoID string          `json:"turno_id"`
	Saldo   decimal.Decimal `json:"saldo"`
}
