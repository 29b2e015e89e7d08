package dto

import "github.com/shopspring/decimal"

type CriarProdutoServicoRequest struct {
	Nome      string          `json:"nome"      validate:"required,min=2"`
	Descricao *string         `json:"descricao"`
	Preco     decimal.Decimal `json:"preco"     validate:"min=0"`
	Tipo      string          `json:"tipo"      validate:"required,oneof=produto servico"`
	Codigo    *string         `json:"codigo"`
}

type AtualizarProdutoServicoRequest struct {
	Nome      *string          `json:"nome"`
	Descricao *string          `json:"descricao"`
	Preco     *decimal.Decimal `json:"preco"`
	Codigo    *string          `json:"codigo"`
}

type ProdutoServicoResponse struct {
	ID        string          `json:"id"`
	Nome      string          `json:"nome"`
	Descricao *string         `json:"descricao"`
	Preco     decimal.Decimal `json:"preco"`
	Tipo      string          `json:"tipo"`
	Codigo    *string         `json:"codigo"`
	Ativo     bool            `json:"ativo"`
}

type ProdutoServicoFilter struct {
	Tipo  string // produto | servico | vazio = todos
	Busca string
	Page  int
	Limit int
}

type ProdutoServicoListResponse struct {
	Data  []ProdutoServicoResponse `json:"data"`
	Total int64                    `json:"total"`
	Page  int                      `json:"page"`
	Limit int                      `json:"limit"`
}
