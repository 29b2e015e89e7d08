package model

import (
	"time"

	"github.com/google/uuid"
)

// Cliente is a customer of the repair shop.
// NumeroCliente is assigned per empresa from the tenant counter.
type Cliente struct {
	ID            uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	EmpresaID     uuid.UUID `gorm:"type:uuid;not null;index"`
	NumeroCliente int       `gorm:"not null"`
	Nome          string    `gorm:"not null"`
	Documento     *string
	Telefone      *string
	Celular       *string
	Email         *string
	// Tipo: "pessoa_fisica" | "pessoa_juridica"
	Tipo   string `gorm:"type:varchar(20);not null;default:'pessoa_fisica'"`
	Origem *string

	// Address
	CEP         *string `gorm:"column:cep"`
	Rua         *string
	Numero      *string
	Complemento *string
	Bairro      *string
	Cidade      *string
	Estado      *string

	Observacoes *string
	Ativo       bool `gorm:"not null;default:true"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (Cliente) TableName() string { return "clientes" }
