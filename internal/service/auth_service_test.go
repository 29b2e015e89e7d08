package service

import (
	"context"
	"testing"

	"assistec/internal/config"
	"assistec/internal/dto"
	"assistec/internal/model"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func authTestConfig() *config.Config {
	return &config.Config{
		JWTSecret:          "test-secret",
		JWTExpirationHours: 1,
		JWTRefreshHours:    24,
	}
}

func seedUsuario(t *testing.T, repo *fakeUsuarioRepo, username, password, rol string, ativo bool) uuid.UUID {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	return repo.add(&model.Usuario{
		EmpresaID:    uuid.New(),
		Username:     username,
		Nome:         "Usuário " + username,
		PasswordHash: string(hash),
		Rol:          rol,
		Ativo:        ativo,
	})
}

func TestLogin(t *testing.T) {
	repo := newFakeUsuarioRepo()
	svc := NewAuthService(repo, authTestConfig())
	seedUsuario(t, repo, "ana", "senha-forte", "atendente", true)

	resp, err := svc.Login(context.Background(), dto.LoginRequest{Username: "ana", Password: "senha-forte"})
	require.NoError(t, err)
	assert.NotEmpty(t, resp.AccessToken)
	assert.NotEmpty(t, resp.RefreshToken)
	assert.Equal(t, "bearer", resp.TokenType)
	assert.Equal(t, 3600, resp.ExpiresIn)
	assert.Equal(t, "atendente", resp.User.Rol)
}

func TestLoginTokenCarregaClaims(t *testing.T) {
	repo := newFakeUsuarioRepo()
	cfg := authTestConfig()
	svc := NewAuthService(repo, cfg)
	userID := seedUsuario(t, repo, "caio", "segredo-bom", "administrador", true)

	resp, err := svc.Login(context.Background(), dto.LoginRequest{Username: "caio", Password: "segredo-bom"})
	require.NoError(t, err)

	token, err := jwt.Parse(resp.AccessToken, func(t *jwt.Token) (interface{}, error) {
		return []byte(cfg.JWTSecret), nil
	})
	require.NoError(t, err)
	claims := token.Claims.(jwt.MapClaims)
	assert.Equal(t, userID.String(), claims["user_id"])
	assert.Equal(t, "caio", claims["username"])
	assert.Equal(t, "administrador", claims["rol"])
	assert.NotEmpty(t, claims["empresa_id"])
}

func TestLoginSenhaErrada(t *testing.T) {
	repo := newFakeUsuarioRepo()
	svc := NewAuthService(repo, authTestConfig())
	seedUsuario(t, repo, "ana", "senha-certa", "atendente", true)

	_, err := svc.Login(context.Background(), dto.LoginRequest{Username: "ana", Password: "senha-errada"})
	assert.ErrorContains(t, err, "credenciais inválidas")
}

func TestLoginUsuarioInativo(t *testing.T) {
	repo := newFakeUsuarioRepo()
	svc := NewAuthService(repo, authTestConfig())
	seedUsuario(t, repo, "zeca", "senha-valida", "tecnico", false)

	// Usuário inativo recebe a mesma mensagem genérica
	_, err := svc.Login(context.Background(), dto.LoginRequest{Username: "zeca", Password: "senha-valida"})
	assert.ErrorContains(t, err, "credenciais inválidas")
}

func TestLoginUsuarioInexistente(t *testing.T) {
	repo := newFakeUsuarioRepo()
	svc := NewAuthService(repo, authTestConfig())

	_, err := svc.Login(context.Background(), dto.LoginRequest{Username: "fantasma", Password: "qualquer"})
	assert.ErrorContains(t, err, "credenciais inválidas")
}

func TestRefresh(t *testing.T) {
	repo := newFakeUsuarioRepo()
	svc := NewAuthService(repo, authTestConfig())
	seedUsuario(t, repo, "ana", "senha-forte", "atendente", true)

	login, err := svc.Login(context.Background(), dto.LoginRequest{Username: "ana", Password: "senha-forte"})
	require.NoError(t, err)

	refreshed, err := svc.Refresh(context.Background(), login.RefreshToken)
	require.NoError(t, err)
	assert.NotEmpty(t, refreshed.AccessToken)
	assert.Equal(t, "ana", refreshed.User.Username)
}

func TestRefreshTokenInvalido(t *testing.T) {
	repo := newFakeUsuarioRepo()
	svc := NewAuthService(repo, authTestConfig())

	_, err := svc.Refresh(context.Background(), "nao-e-um-jwt")
	assert.Error(t, err)
}

func TestRefreshUsuarioDesativado(t *testing.T) {
	repo := newFakeUsuarioRepo()
	svc := NewAuthService(repo, authTestConfig())
	userID := seedUsuario(t, repo, "bia", "senha-forte", "atendente", true)

	login, err := svc.Login(context.Background(), dto.LoginRequest{Username: "bia", Password: "senha-forte"})
	require.NoError(t, err)

	require.NoError(t, svc.DesativarUsuario(context.Background(), userID))

	_, err = svc.Refresh(context.Background(), login.RefreshToken)
	assert.ErrorContains(t, err, "inativo")
}

func TestCriarUsuario(t *testing.T) {
	repo := newFakeUsuarioRepo()
	svc := NewAuthService(repo, authTestConfig())

	resp, err := svc.CriarUsuario(context.Background(), uuid.New(), dto.CriarUsuarioRequest{
		Username: "novo",
		Nome:     "Novo Atendente",
		Password: "senha-segura",
		Rol:      "atendente",
	})
	require.NoError(t, err)
	assert.True(t, resp.Ativo)

	// Senha nunca sai em claro
	user, err := repo.FindByUsername(context.Background(), "novo")
	require.NoError(t, err)
	assert.NotEqual(t, "senha-segura", user.PasswordHash)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte("senha-segura")))
}

func TestListarUsuariosFiltroInativos(t *testing.T) {
	repo := newFakeUsuarioRepo()
	svc := NewAuthService(repo, authTestConfig())
	empresaID := uuid.New()
	repo.add(&model.Usuario{EmpresaID: empresaID, Username: "u1", Rol: "atendente", Ativo: true})
	repo.add(&model.Usuario{EmpresaID: empresaID, Username: "u2", Rol: "tecnico", Ativo: false})

	ativos, err := svc.ListarUsuarios(context.Background(), empresaID, false)
	require.NoError(t, err)
	assert.Len(t, ativos, 1)

	todos, err := svc.ListarUsuarios(context.Background(), empresaID, true)
	require.NoError(t, err)
	assert.Len(t, todos, 2)
}

func TestAtualizarUsuarioTrocaSenha(t *testing.T) {
	repo := newFakeUsuarioRepo()
	svc := NewAuthService(repo, authTestConfig())
	userID := seedUsuario(t, repo, "lia", "senha-antiga", "atendente", true)

	_, err := svc.AtualizarUsuario(context.Background(), userID, dto.AtualizarUsuarioRequest{
		Password: "senha-nova8",
	})
	require.NoError(t, err)

	_, err = svc.Login(context.Background(), dto.LoginRequest{Username: "lia", Password: "senha-antiga"})
	assert.Error(t, err)
	_, err = svc.Login(context.Background(), dto.LoginRequest{Username: "lia", Password: "senha-nova8"})
	assert.NoError(t, err)
}
