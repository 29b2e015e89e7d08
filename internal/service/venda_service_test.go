package service

import (
	"context"
	"testing"
	"time"

	"assistec/internal/dto"
	"assistec/internal/model"
	"assistec/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// ── In-memory VendaRepository ────────────────────────────────────────────────

type fakeVendaRepo struct {
	vendas map[uuid.UUID]*model.Venda
	seq    int
}

func newFakeVendaRepo() *fakeVendaRepo {
	return &fakeVendaRepo{vendas: make(map[uuid.UUID]*model.Venda)}
}

func (r *fakeVendaRepo) DB() *gorm.DB { return nil }

func (r *fakeVendaRepo) Create(_ context.Context, _ *gorm.DB, v *model.Venda) error {
	if v.ID == uuid.Nil {
		v.ID = uuid.New()
	}
	r.vendas[v.ID] = v
	return nil
}

func (r *fakeVendaRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Venda, error) {
	v, ok := r.vendas[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return v, nil
}

func (r *fakeVendaRepo) UpdateStatusTx(_ *gorm.DB, id uuid.UUID, status string) error {
	v, ok := r.vendas[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	v.Status = status
	return nil
}

func (r *fakeVendaRepo) ProximoNumeroVenda(_ context.Context, _ *gorm.DB, _ uuid.UUID) (int, error) {
	r.seq++
	return r.seq, nil
}

func (r *fakeVendaRepo) List(_ context.Context, empresaID uuid.UUID, filter dto.VendaFilter) ([]model.Venda, int64, error) {
	var out []model.Venda
	for _, v := range r.vendas {
		if v.EmpresaID != empresaID {
			continue
		}
		if filter.Status != "" && filter.Status != "all" && v.Status != filter.Status {
			continue
		}
		out = append(out, *v)
	}
	return out, int64(len(out)), nil
}

func (r *fakeVendaRepo) SumVendasDoDia(_ context.Context, empresaID uuid.UUID, dia time.Time) (decimal.Decimal, error) {
	total := decimal.Zero
	for _, v := range r.vendas {
		if v.EmpresaID == empresaID && v.Status == "finalizada" && v.DataVenda.Format("2006-01-02") == dia.Format("2006-01-02") {
			total = total.Add(v.Total)
		}
	}
	return total, nil
}

var _ repository.VendaRepository = (*fakeVendaRepo)(nil)

// ── In-memory ProdutoRepository ──────────────────────────────────────────────

type fakeProdutoRepo struct {
	produtos map[uuid.UUID]*model.ProdutoServico
}

func newFakeProdutoRepo() *fakeProdutoRepo {
	return &fakeProdutoRepo{produtos: make(map[uuid.UUID]*model.ProdutoServico)}
}

func (r *fakeProdutoRepo) add(nome string, preco float64, ativo bool) uuid.UUID {
	id := uuid.New()
	r.produtos[id] = &model.ProdutoServico{
		ID:    id,
		Nome:  nome,
		Preco: decimal.NewFromFloat(preco),
		Tipo:  "produto",
		Ativo: ativo,
	}
	return id
}

func (r *fakeProdutoRepo) Create(_ context.Context, p *model.ProdutoServico) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	r.produtos[p.ID] = p
	return nil
}

func (r *fakeProdutoRepo) FindByID(_ context.Context, id uuid.UUID) (*model.ProdutoServico, error) {
	p, ok := r.produtos[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return p, nil
}

func (r *fakeProdutoRepo) Update(_ context.Context, p *model.ProdutoServico) error {
	r.produtos[p.ID] = p
	return nil
}

func (r *fakeProdutoRepo) SoftDelete(_ context.Context, id uuid.UUID) error {
	if p, ok := r.produtos[id]; ok {
		p.Ativo = false
	}
	return nil
}

func (r *fakeProdutoRepo) List(_ context.Context, empresaID uuid.UUID, _ dto.ProdutoServicoFilter) ([]model.ProdutoServico, int64, error) {
	var out []model.ProdutoServico
	for _, p := range r.produtos {
		if p.EmpresaID == empresaID {
			out = append(out, *p)
		}
	}
	return out, int64(len(out)), nil
}

var _ repository.ProdutoRepository = (*fakeProdutoRepo)(nil)

// ── Fixture ──────────────────────────────────────────────────────────────────

type vendaFixture struct {
	svc         VendaService
	caixaSvc    CaixaService
	caixaRepo   *fakeCaixaRepo
	vendaRepo   *fakeVendaRepo
	produtoRepo *fakeProdutoRepo
	empresaID   uuid.UUID
	turnoID     uuid.UUID
}

func newVendaFixture(t *testing.T, abertura float64) *vendaFixture {
	t.Helper()
	caixaRepo := newFakeCaixaRepo()
	caixaSvc := NewCaixaService(caixaRepo)
	vendaRepo := newFakeVendaRepo()
	produtoRepo := newFakeProdutoRepo()
	empresaID := uuid.New()

	return &vendaFixture{
		svc:         NewVendaService(vendaRepo, caixaSvc, caixaRepo, produtoRepo),
		caixaSvc:    caixaSvc,
		caixaRepo:   caixaRepo,
		vendaRepo:   vendaRepo,
		produtoRepo: produtoRepo,
		empresaID:   empresaID,
		turnoID:     abrirTurno(t, caixaSvc, empresaID, abertura),
	}
}

// ── Tests ─────────────────────────────────────────────────────────────────────

func TestFinalizarVenda(t *testing.T) {
	f := newVendaFixture(t, 100)
	capaID := f.produtoRepo.add("Capa protetora", 30, true)
	peliculaID := f.produtoRepo.add("Película", 20, true)

	resp, err := f.svc.Finalizar(context.Background(), f.empresaID, uuid.New(), dto.FinalizarVendaRequest{
		TurnoID: f.turnoID.String(),
		Itens: []dto.ItemVendaRequest{
			{ProdutoServicoID: capaID.String(), Quantidade: 2},
			{ProdutoServicoID: peliculaID.String(), Quantidade: 1},
		},
		Desconto:       decimal.NewFromFloat(5),
		Acrescimo:      decimal.NewFromFloat(2),
		FormaPagamento: "dinheiro",
	})
	require.NoError(t, err)

	// 2×30 + 1×20 − 5 + 2 = 77
	assert.Equal(t, "77", resp.Total.String())
	assert.Equal(t, 1, resp.NumeroVenda)
	assert.Equal(t, "finalizada", resp.Status)
	assert.Len(t, resp.Itens, 2)

	// A movimentação "venda" entra no mesmo fluxo da venda
	require.Len(t, f.caixaRepo.movimentacoes, 1)
	assert.Equal(t, "venda", f.caixaRepo.movimentacoes[0].Tipo)
	assert.Equal(t, "77", f.caixaRepo.movimentacoes[0].Valor.String())

	saldo, err := f.caixaSvc.SaldoAtual(context.Background(), f.turnoID)
	require.NoError(t, err)
	assert.Equal(t, "177", saldo.String())
}

func TestFinalizarVendaNumeracaoSequencial(t *testing.T) {
	f := newVendaFixture(t, 0)
	prodID := f.produtoRepo.add("Cabo USB", 10, true)

	for esperado := 1; esperado <= 3; esperado++ {
		resp, err := f.svc.Finalizar(context.Background(), f.empresaID, uuid.New(), dto.FinalizarVendaRequest{
			TurnoID:        f.turnoID.String(),
			Itens:          []dto.ItemVendaRequest{{ProdutoServicoID: prodID.String(), Quantidade: 1}},
			FormaPagamento: "pix",
		})
		require.NoError(t, err)
		assert.Equal(t, esperado, resp.NumeroVenda)
	}
}

func TestFinalizarVendaItemInativo(t *testing.T) {
	f := newVendaFixture(t, 0)
	inativoID := f.produtoRepo.add("Bateria antiga", 80, false)

	_, err := f.svc.Finalizar(context.Background(), f.empresaID, uuid.New(), dto.FinalizarVendaRequest{
		TurnoID:        f.turnoID.String(),
		Itens:          []dto.ItemVendaRequest{{ProdutoServicoID: inativoID.String(), Quantidade: 1}},
		FormaPagamento: "dinheiro",
	})
	assert.ErrorContains(t, err, "inativo")
	assert.Empty(t, f.vendaRepo.vendas)
}

func TestFinalizarVendaTotalNegativo(t *testing.T) {
	f := newVendaFixture(t, 0)
	prodID := f.produtoRepo.add("Fone", 25, true)

	_, err := f.svc.Finalizar(context.Background(), f.empresaID, uuid.New(), dto.FinalizarVendaRequest{
		TurnoID:        f.turnoID.String(),
		Itens:          []dto.ItemVendaRequest{{ProdutoServicoID: prodID.String(), Quantidade: 1}},
		Desconto:       decimal.NewFromFloat(30),
		FormaPagamento: "dinheiro",
	})
	assert.ErrorIs(t, err, ErrValorInvalido)
}

func TestFinalizarVendaTurnoFechado(t *testing.T) {
	f := newVendaFixture(t, 100)
	prodID := f.produtoRepo.add("Carregador", 40, true)

	_, err := f.caixaSvc.Fechar(context.Background(), uuid.New(), dto.FecharTurnoRequest{
		TurnoID:         f.turnoID.String(),
		ValorFechamento: decimal.NewFromFloat(100),
		ValorTroco:      decimal.Zero,
	})
	require.NoError(t, err)

	_, err = f.svc.Finalizar(context.Background(), f.empresaID, uuid.New(), dto.FinalizarVendaRequest{
		TurnoID:        f.turnoID.String(),
		Itens:          []dto.ItemVendaRequest{{ProdutoServicoID: prodID.String(), Quantidade: 1}},
		FormaPagamento: "dinheiro",
	})
	assert.ErrorIs(t, err, ErrTurnoNaoAberto)
}

func TestAnularVenda(t *testing.T) {
	f := newVendaFixture(t, 100)
	prodID := f.produtoRepo.add("Display", 150, true)

	resp, err := f.svc.Finalizar(context.Background(), f.empresaID, uuid.New(), dto.FinalizarVendaRequest{
		TurnoID:        f.turnoID.String(),
		Itens:          []dto.ItemVendaRequest{{ProdutoServicoID: prodID.String(), Quantidade: 1}},
		FormaPagamento: "credito",
	})
	require.NoError(t, err)
	vendaID := uuid.MustParse(resp.ID)

	err = f.svc.Anular(context.Background(), uuid.New(), vendaID, "cliente desistiu")
	require.NoError(t, err)

	venda, err := f.vendaRepo.FindByID(context.Background(), vendaID)
	require.NoError(t, err)
	assert.Equal(t, "anulada", venda.Status)

	// A anulação nunca toca a movimentação original: entra uma sangria
	// inversa e o ledger continua append-only.
	require.Len(t, f.caixaRepo.movimentacoes, 2)
	original := f.caixaRepo.movimentacoes[0]
	inversa := f.caixaRepo.movimentacoes[1]
	assert.Equal(t, "venda", original.Tipo)
	assert.Equal(t, "150", original.Valor.String())
	assert.Equal(t, "sangria", inversa.Tipo)
	assert.Equal(t, "150", inversa.Valor.String())
	assert.Contains(t, inversa.Descricao, "Anulação venda #1")
	assert.Contains(t, inversa.Descricao, "cliente desistiu")

	// Saldo volta ao valor de abertura
	saldo, err := f.caixaSvc.SaldoAtual(context.Background(), f.turnoID)
	require.NoError(t, err)
	assert.Equal(t, "100", saldo.String())
}

func TestAnularVendaJaAnulada(t *testing.T) {
	f := newVendaFixture(t, 0)
	prodID := f.produtoRepo.add("Teclado", 60, true)

	resp, err := f.svc.Finalizar(context.Background(), f.empresaID, uuid.New(), dto.FinalizarVendaRequest{
		TurnoID:        f.turnoID.String(),
		Itens:          []dto.ItemVendaRequest{{ProdutoServicoID: prodID.String(), Quantidade: 1}},
		FormaPagamento: "debito",
	})
	require.NoError(t, err)
	vendaID := uuid.MustParse(resp.ID)

	require.NoError(t, f.svc.Anular(context.Background(), uuid.New(), vendaID, "erro de digitação"))
	err = f.svc.Anular(context.Background(), uuid.New(), vendaID, "de novo")
	assert.ErrorIs(t, err, ErrTransicaoInvalida)
}

func TestBuscarVendaInexistente(t *testing.T) {
	f := newVendaFixture(t, 0)
	_, err := f.svc.Buscar(context.Background(), uuid.New())
	assert.ErrorIs(t, err, ErrRegistroNaoEncontrado)
}
