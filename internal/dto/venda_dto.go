package dto

import "github.com/shopspring/decimal"

type ItemVendaRequest struct {
	ProdutoServicoID string          `json:"produto_servico_id" validate:"required,uuid"`
	Quantidade       int             `json:"quantidade"         validate:"required,min=1"`
	Preco            decimal.Decimal `json:"preco"              validate:"min=0"`
}

type FinalizarVendaRequest struct {
	TurnoID        string             `json:"turno_id"        validate:"required,uuid"`
	ClienteID      *string            `json:"cliente_id"      validate:"omitempty,uuid"`
	Itens          []ItemVendaRequest `json:"itens"           validate:"required,min=1,dive"`
	Desconto       decimal.Decimal    `json:"desconto"        validate:"min=0"`
	Acrescimo      decimal.Decimal    `json:"acrescimo"       validate:"min=0"`
	FormaPagamento string             `json:"forma_pagamento" validate:"required,oneof=dinheiro pix debito credito"`
	TipoPedido     string             `json:"tipo_pedido"     validate:"omitempty,oneof=balcao os"`
	Observacoes    string             `json:"observacoes"`
}

type AnularVendaRequest struct {
	Motivo string `json:"motivo" validate:"required,min=3"`
}

type ItemVendaResponse struct {
	Nome       string          `json:"nome"`
	Quantidade int             `json:"quantidade"`
	Preco      decimal.Decimal `json:"preco"`
	Total      decimal.Decimal `json:"total"`
}

type VendaResponse struct {
	ID             string              `json:"id"`
	NumeroVenda    int                 `json:"numero_venda"`
	TurnoID        string              `json:"turno_id"`
	ClienteID      *string             `json:"cliente_id"`
	Itens          []ItemVendaResponse `json:"itens"`
	Desconto       decimal.Decimal     `json:"desconto"`
	Acrescimo      decimal.Decimal     `json:"acrescimo"`
	Total          decimal.Decimal     `json:"total"`
	FormaPagamento string              `json:"forma_pagamento"`
	Status         string              `json:"status"`
	DataVenda      string              `json:"data_venda"`
}

type VendaFilter struct {
	Status string
	Data   string // YYYY-MM-DD; empty = today
	Page   int
	Limit  int
}

type VendaListResponse struct {
	Data  []VendaResponse `json:"data"`
	Total int64           `json:"total"`
	Page  int             `json:"page"`
	Limit int             `json:"limit"`
}
