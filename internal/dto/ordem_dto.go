package dto

import "github.com/shopspring/decimal"

type CriarOrdemRequest struct {
	ClienteID string  `json:"cliente_id" validate:"required,uuid"`
	TecnicoID *string `json:"tecnico_id" validate:"omitempty,uuid"`
	Atendente string  `json:"atendente"`

	Categoria            string `json:"categoria"    validate:"required"`
	Marca                string `json:"marca"        validate:"required"`
	Modelo               string `json:"modelo"       validate:"required"`
	Cor                  string `json:"cor"`
	NumeroSerie          string `json:"numero_serie"`
	Acessorios           string `json:"acessorios"`
	CondicoesEquipamento string `json:"condicoes_equipamento"`

	Relato     string `json:"relato" validate:"required,min=3"`
	Observacao string `json:"observacao"`

	ValorPeca    decimal.Decimal `json:"valor_peca"    validate:"min=0"`
	ValorServico decimal.Decimal `json:"valor_servico" validate:"min=0"`
	Desconto     decimal.Decimal `json:"desconto"      validate:"min=0"`
}

type AtualizarOrdemRequest struct {
	TecnicoID  *string `json:"tecnico_id" validate:"omitempty,uuid"`
	Atendente  *string `json:"atendente"`
	Observacao *string `json:"observacao"`

	ValorPeca    *decimal.Decimal `json:"valor_peca"`
	ValorServico *decimal.Decimal `json:"valor_servico"`
	Desconto     *decimal.Decimal `json:"desconto"`

	DataEntrega        *string `json:"data_entrega"        validate:"omitempty,datetime=2006-01-02"`
	VencimentoGarantia *string `json:"vencimento_garantia" validate:"omitempty,datetime=2006-01-02"`
}

type MudarStatusRequest struct {
	Status string  `json:"status" validate:"required"`
	Motivo *string `json:"motivo"`
}

type HistoricoStatusResponse struct {
	StatusAnterior *string `json:"status_anterior"`
	StatusNovo     string  `json:"status_novo"`
	UsuarioID      string  `json:"usuario_id"`
	Motivo         *string `json:"motivo"`
	CreatedAt      string  `json:"created_at"`
}

type OrdemResponse struct {
	ID        string  `json:"id"`
	NumeroOS  int     `json:"numero_os"`
	ClienteID string  `json:"cliente_id"`
	Cliente   string  `json:"cliente"`
	TecnicoID *string `json:"tecnico_id"`
	Tecnico   string  `json:"tecnico"`
	Atendente string  `json:"atendente"`

	Categoria            string `json:"categoria"`
	Marca                string `json:"marca"`
	Modelo               string `json:"modelo"`
	Cor                  string `json:"cor"`
	NumeroSerie          string `json:"numero_serie"`
	Acessorios           string `json:"acessorios"`
	CondicoesEquipamento string `json:"condicoes_equipamento"`

	Relato     string `json:"relato"`
	Observacao string `json:"observacao"`

	ValorPeca     decimal.Decimal `json:"valor_peca"`
	ValorServico  decimal.Decimal `json:"valor_servico"`
	Desconto      decimal.Decimal `json:"desconto"`
	ValorFaturado decimal.Decimal `json:"valor_faturado"`

	Status             string                    `json:"status"`
	DataEntrega        *string                   `json:"data_entrega"`
	VencimentoGarantia *string                   `json:"vencimento_garantia"`
	CreatedAt          string                    `json:"created_at"`
	Historico          []HistoricoStatusResponse `json:"historico,omitempty"`
}

type OrdemFilter struct {
	Status    string
	TecnicoID string
	Busca     string
	Page      int
	Limit     int
}

type OrdemListResponse struct {
	Data  []OrdemResponse `json:"data"`
	Total int64           `json:"total"`
	Page  int             `json:"page"`
	Limit int             `json:"limit"`
}
