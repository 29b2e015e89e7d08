package dto

type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

type UsuarioResponse struct {
	ID       string  `json:"id"`
	Username string  `json:"username"`
	Nome     string  `json:"nome"`
	Email    *string `json:"email,omitempty"`
	Rol      string  `json:"rol"`
	WhatsApp *string `json:"whatsapp,omitempty"`
	Ativo    bool    `json:"ativo"`
}

type LoginResponse struct {
	AccessToken  string          `json:"access_token"`
	RefreshToken string          `json:"refresh_token"`
	TokenType    string          `json:"token_type"`
	ExpiresIn    int             `json:"expires_in"`
	User         UsuarioResponse `json:"user"`
}

type CriarUsuarioRequest struct {
	Username string  `json:"username" validate:"required,min=3"`
	Nome     string  `json:"nome"     validate:"required"`
	Email    *string `json:"email"    validate:"omitempty,email"`
	Password string  `json:"password" validate:"required,min=8"`
	Rol      string  `json:"rol"      validate:"required,oneof=atendente tecnico administrador"`
	WhatsApp *string `json:"whatsapp"`
}

type AtualizarUsuarioRequest struct {
	Nome     string  `json:"nome"`
	Email    *string `json:"email" validate:"omitempty,email"`
	Password string  `json:"password" validate:"omitempty,min=8"`
	Rol      string  `json:"rol" validate:"omitempty,oneof=atendente tecnico administrador"`
	WhatsApp *string `json:"whatsapp"`
}
