package model

import (
	"time"

	"github.com/google/uuid"
)

// Usuario stores system users with role-based access, scoped to an empresa.
// Rol: "atendente" | "tecnico" | "administrador"
type Usuario struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	EmpresaID    uuid.UUID `gorm:"type:uuid;not null;index"`
	Username     string    `gorm:"uniqueIndex;not null"`
	Nome         string    `gorm:"not null"`
	Email        *string
	PasswordHash string `gorm:"not null"`
	Rol          string `gorm:"type:varchar(20);not null"`
	// WhatsApp number used to notify técnicos about new OS assignments
	WhatsApp  *string `gorm:"column:whatsapp"`
	Ativo     bool    `gorm:"not null;default:true"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (Usuario) TableName() string { return "usuarios" }
