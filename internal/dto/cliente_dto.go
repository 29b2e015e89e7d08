package dto

type CriarClienteRequest struct {
	Nome      string  `json:"nome"      validate:"required,min=2"`
	Documento *string `json:"documento"`
	Telefone  *string `json:"telefone"`
	Celular   *string `json:"celular"`
	Email     *string `json:"email"     validate:"omitempty,email"`
	Tipo      string  `json:"tipo"      validate:"omitempty,oneof=pessoa_fisica pessoa_juridica"`
	Origem    *string `json:"origem"`

	CEP         *string `json:"cep"`
	Rua         *string `json:"rua"`
	Numero      *string `json:"numero"`
	Complemento *string `json:"complemento"`
	Bairro      *string `json:"bairro"`
	Cidade      *string `json:"cidade"`
	Estado      *string `json:"estado"`

	Observacoes *string `json:"observacoes"`
}

type AtualizarClienteRequest struct {
	Nome      *string `json:"nome"`
	Documento *string `json:"documento"`
	Telefone  *string `json:"telefone"`
	Celular   *string `json:"celular"`
	Email     *string `json:"email" validate:"omitempty,email"`
	Origem    *string `json:"origem"`

	CEP         *string `json:"cep"`
	Rua         *string `json:"rua"`
	Numero      *string `json:"numero"`
	Complemento *string `json:"complemento"`
	Bairro      *string `json:"bairro"`
	Cidade      *string `json:"cidade"`
	Estado      *string `json:"estado"`

	Observacoes *string `json:"observacoes"`
}

type ClienteResponse struct {
	ID            string  `json:"id"`
	NumeroCliente int     `json:"numero_cliente"`
	Nome          string  `json:"nome"`
	Documento     *string `json:"documento"`
	Telefone      *string `json:"telefone"`
	Celular       *string `json:"celular"`
	Email         *string `json:"email"`
	Tipo          string  `json:"tipo"`
	Origem        *string `json:"origem"`
	Cidade        *string `json:"cidade"`
	Estado        *string `json:"estado"`
	Observacoes   *string `json:"observacoes"`
	Ativo         bool    `json:"ativo"`
	CreatedAt     string  `json:"created_at"`
}

type ClienteFilter struct {
	Busca string
	Page  int
	Limit int
}

type ClienteListResponse struct {
	Data  []ClienteResponse `json:"data"`
	Total int64             `json:"total"`
	Page  int               `json:"page"`
	Limit int               `json:"limit"`
}
