package service

import (
	"context"
	"testing"

	"assistec/internal/dto"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCriarClienteNumeracaoSequencial(t *testing.T) {
	repo := newFakeClienteRepo()
	svc := NewClienteService(repo)
	empresaID := uuid.New()

	for esperado := 1; esperado <= 3; esperado++ {
		resp, err := svc.Criar(context.Background(), empresaID, dto.CriarClienteRequest{
			Nome: "Cliente Teste",
		})
		require.NoError(t, err)
		assert.Equal(t, esperado, resp.NumeroCliente)
		assert.True(t, resp.Ativo)
		assert.Equal(t, "pessoa_fisica", resp.Tipo)
	}
}

func TestAtualizarClienteCampoACampo(t *testing.T) {
	repo := newFakeClienteRepo()
	svc := NewClienteService(repo)
	clienteID := repo.add("Original", strPtr("5511999990000"), nil)

	email := "novo@example.com"
	resp, err := svc.Atualizar(context.Background(), clienteID, dto.AtualizarClienteRequest{
		Email: &email,
	})
	require.NoError(t, err)
	require.NotNil(t, resp.Email)
	assert.Equal(t, email, *resp.Email)
	// Campos não enviados permanecem
	assert.Equal(t, "Original", resp.Nome)
	require.NotNil(t, resp.Celular)
	assert.Equal(t, "5511999990000", *resp.Celular)
}

func TestDesativarCliente(t *testing.T) {
	repo := newFakeClienteRepo()
	svc := NewClienteService(repo)
	clienteID := repo.add("Para Remover", nil, nil)

	require.NoError(t, svc.Desativar(context.Background(), clienteID))

	cliente, err := repo.FindByID(context.Background(), clienteID)
	require.NoError(t, err)
	assert.False(t, cliente.Ativo)
}

func TestBuscarClienteInexistente(t *testing.T) {
	repo := newFakeClienteRepo()
	svc := NewClienteService(repo)

	_, err := svc.Buscar(context.Background(), uuid.New())
	assert.ErrorIs(t, err, ErrRegistroNaoEncontrado)
}
