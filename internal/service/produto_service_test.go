package service

import (
	"context"
	"testing"

	"assistec/internal/dto"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCriarProduto(t *testing.T) {
	repo := newFakeProdutoRepo()
	svc := NewProdutoService(repo, nil)

	resp, err := svc.Criar(context.Background(), uuid.New(), dto.CriarProdutoServicoRequest{
		Nome:  "Troca de tela",
		Preco: decimal.NewFromFloat(250),
		Tipo:  "servico",
	})
	require.NoError(t, err)
	assert.Equal(t, "servico", resp.Tipo)
	assert.Equal(t, "250", resp.Preco.String())
	assert.True(t, resp.Ativo)
}

func TestCriarProdutoPrecoNegativo(t *testing.T) {
	repo := newFakeProdutoRepo()
	svc := NewProdutoService(repo, nil)

	_, err := svc.Criar(context.Background(), uuid.New(), dto.CriarProdutoServicoRequest{
		Nome:  "Inválido",
		Preco: decimal.NewFromFloat(-1),
		Tipo:  "produto",
	})
	assert.ErrorIs(t, err, ErrValorInvalido)
}

func TestAtualizarProdutoPreco(t *testing.T) {
	repo := newFakeProdutoRepo()
	svc := NewProdutoService(repo, nil)
	id := repo.add("Película", 20, true)

	novo := decimal.NewFromFloat(25)
	resp, err := svc.Atualizar(context.Background(), id, dto.AtualizarProdutoServicoRequest{Preco: &novo})
	require.NoError(t, err)
	assert.Equal(t, "25", resp.Preco.String())

	negativo := decimal.NewFromFloat(-5)
	_, err = svc.Atualizar(context.Background(), id, dto.AtualizarProdutoServicoRequest{Preco: &negativo})
	assert.ErrorIs(t, err, ErrValorInvalido)
}

func TestDesativarProduto(t *testing.T) {
	repo := newFakeProdutoRepo()
	svc := NewProdutoService(repo, nil)
	id := repo.add("Obsoleto", 10, true)

	require.NoError(t, svc.Desativar(context.Background(), id))

	resp, err := svc.Buscar(context.Background(), id)
	require.NoError(t, err)
	assert.False(t, resp.Ativo)

	assert.ErrorIs(t, svc.Desativar(context.Background(), uuid.New()), ErrRegistroNaoEncontrado)
}
