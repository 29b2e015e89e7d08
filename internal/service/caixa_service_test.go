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

// ── In-memory CaixaRepository ────────────────────────────────────────────────

type fakeCaixaRepo struct {
	turnos        map[uuid.UUID]*model.TurnoCaixa
	movimentacoes []model.MovimentacaoCaixa

	// createTurnoErr simulates the partial unique index firing on a
	// concurrent open.
	createTurnoErr error
}

func newFakeCaixaRepo() *fakeCaixaRepo {
	return &fakeCaixaRepo{turnos: make(map[uuid.UUID]*model.TurnoCaixa)}
}

func (r *fakeCaixaRepo) CreateTurno(_ context.Context, t *model.TurnoCaixa) error {
	if r.createTurnoErr != nil {
		return r.createTurnoErr
	}
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	r.turnos[t.ID] = t
	return nil
}

func (r *fakeCaixaRepo) FindTurnoAberto(_ context.Context, empresaID uuid.UUID) (*model.TurnoCaixa, error) {
	for _, t := range r.turnos {
		if t.EmpresaID == empresaID && t.Status == "aberto" {
			return t, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeCaixaRepo) FindTurnoByID(_ context.Context, id uuid.UUID) (*model.TurnoCaixa, error) {
	t, ok := r.turnos[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return t, nil
}

func (r *fakeCaixaRepo) UpdateTurno(_ context.Context, t *model.TurnoCaixa) error {
	r.turnos[t.ID] = t
	return nil
}

func (r *fakeCaixaRepo) FindUltimoTurnoFechado(_ context.Context, empresaID uuid.UUID) (*model.TurnoCaixa, error) {
	var ultimo *model.TurnoCaixa
	for _, t := range r.turnos {
		if t.EmpresaID != empresaID || t.Status != "fechado" {
			continue
		}
		if ultimo == nil || (t.ClosedAt != nil && ultimo.ClosedAt != nil && t.ClosedAt.After(*ultimo.ClosedAt)) {
			ultimo = t
		}
	}
	if ultimo == nil {
		return nil, gorm.ErrRecordNotFound
	}
	return ultimo, nil
}

func (r *fakeCaixaRepo) ListTurnos(_ context.Context, empresaID uuid.UUID, page, limit int) ([]model.TurnoCaixa, int64, error) {
	var all []model.TurnoCaixa
	for _, t := range r.turnos {
		if t.EmpresaID == empresaID {
			all = append(all, *t)
		}
	}
	total := int64(len(all))
	start := (page - 1) * limit
	if start >= len(all) {
		return nil, total, nil
	}
	end := start + limit
	if end > len(all) {
		end = len(all)
	}
	return all[start:end], total, nil
}

func (r *fakeCaixaRepo) CreateMovimentacao(_ context.Context, m *model.MovimentacaoCaixa) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	r.movimentacoes = append(r.movimentacoes, *m)
	return nil
}

func (r *fakeCaixaRepo) CreateMovimentacaoTx(_ *gorm.DB, m *model.MovimentacaoCaixa) error {
	return r.CreateMovimentacao(context.Background(), m)
}

func (r *fakeCaixaRepo) ListMovimentacoes(_ context.Context, turnoID uuid.UUID) ([]model.MovimentacaoCaixa, error) {
	var out []model.MovimentacaoCaixa
	for _, m := range r.movimentacoes {
		if m.TurnoID == turnoID {
			out = append(out, m)
		}
	}
	return out, nil
}

func (r *fakeCaixaRepo) SumMovimentacoesPorTipo(_ context.Context, turnoID uuid.UUID) (map[string]decimal.Decimal, error) {
	sums := map[string]decimal.Decimal{
		"sangria":    decimal.Zero,
		"suprimento": decimal.Zero,
		"venda":      decimal.Zero,
	}
	for _, m := range r.movimentacoes {
		if m.TurnoID == turnoID {
			sums[m.Tipo] = sums[m.Tipo].Add(m.Valor)
		}
	}
	return sums, nil
}

var _ repository.CaixaRepository = (*fakeCaixaRepo)(nil)

func abrirTurno(t *testing.T, svc CaixaService, empresaID uuid.UUID, abertura float64) uuid.UUID {
	t.Helper()
	resp, err := svc.Abrir(context.Background(), empresaID, uuid.New(), dto.AbrirTurnoRequest{
		ValorAbertura: decimal.NewFromFloat(abertura),
	})
	require.NoError(t, err)
	return uuid.MustParse(resp.TurnoID)
}

// ── Abrir ─────────────────────────────────────────────────────────────────────

func TestAbrirTurno(t *testing.T) {
	repo := newFakeCaixaRepo()
	svc := NewCaixaService(repo)

	resp, err := svc.Abrir(context.Background(), uuid.New(), uuid.New(), dto.AbrirTurnoRequest{
		ValorAbertura: decimal.NewFromFloat(100),
	})

	require.NoError(t, err)
	assert.Equal(t, "aberto", resp.Status)
	assert.Equal(t, "100", resp.ValorAbertura.String())
	assert.Equal(t, "100", resp.Resumo.Saldo.String())
	assert.Nil(t, resp.ClosedAt)
}

func TestAbrirTurnoDuplicado(t *testing.T) {
	repo := newFakeCaixaRepo()
	svc := NewCaixaService(repo)
	empresaID := uuid.New()

	abrirTurno(t, svc, empresaID, 100)

	_, err := svc.Abrir(context.Background(), empresaID, uuid.New(), dto.AbrirTurnoRequest{
		ValorAbertura: decimal.NewFromFloat(50),
	})
	assert.ErrorIs(t, err, ErrTurnoJaAberto)

	// Outra empresa não é afetada
	_, err = svc.Abrir(context.Background(), uuid.New(), uuid.New(), dto.AbrirTurnoRequest{
		ValorAbertura: decimal.NewFromFloat(50),
	})
	assert.NoError(t, err)
}

func TestAbrirTurnoCorridaNoIndice(t *testing.T) {
	// Two opens race past the application check; the partial unique
	// index rejects the second insert and the error is translated.
	repo := newFakeCaixaRepo()
	repo.createTurnoErr = gorm.ErrDuplicatedKey
	svc := NewCaixaService(repo)

	_, err := svc.Abrir(context.Background(), uuid.New(), uuid.New(), dto.AbrirTurnoRequest{
		ValorAbertura: decimal.NewFromFloat(100),
	})
	assert.ErrorIs(t, err, ErrTurnoJaAberto)
}

func TestAbrirTurnoValorNegativo(t *testing.T) {
	repo := newFakeCaixaRepo()
	svc := NewCaixaService(repo)

	_, err := svc.Abrir(context.Background(), uuid.New(), uuid.New(), dto.AbrirTurnoRequest{
		ValorAbertura: decimal.NewFromFloat(-10),
	})
	assert.ErrorIs(t, err, ErrValorInvalido)
}

// ── Movimentações ─────────────────────────────────────────────────────────────

func TestRegistrarMovimentacao(t *testing.T) {
	repo := newFakeCaixaRepo()
	svc := NewCaixaService(repo)
	turnoID := abrirTurno(t, svc, uuid.New(), 100)

	resp, err := svc.RegistrarMovimentacao(context.Background(), uuid.New(), dto.MovimentacaoRequest{
		TurnoID:   turnoID.String(),
		Tipo:      "suprimento",
		Valor:     decimal.NewFromFloat(50),
		Descricao: "Fundo de troco",
	})
	require.NoError(t, err)
	assert.Equal(t, "suprimento", resp.Tipo)
	assert.Equal(t, "50", resp.Valor.String())
	assert.Len(t, repo.movimentacoes, 1)
}

func TestMovimentacaoTipoInvalido(t *testing.T) {
	repo := newFakeCaixaRepo()
	svc := NewCaixaService(repo)
	turnoID := abrirTurno(t, svc, uuid.New(), 100)

	_, err := svc.RegistrarMovimentacao(context.Background(), uuid.New(), dto.MovimentacaoRequest{
		TurnoID:   turnoID.String(),
		Tipo:      "venda", // só sangria/suprimento entram por aqui
		Valor:     decimal.NewFromFloat(10),
		Descricao: "inválido",
	})
	assert.ErrorIs(t, err, ErrTipoInvalido)
}

func TestMovimentacaoValorNaoPositivo(t *testing.T) {
	repo := newFakeCaixaRepo()
	svc := NewCaixaService(repo)
	turnoID := abrirTurno(t, svc, uuid.New(), 100)

	for _, valor := range []decimal.Decimal{decimal.Zero, decimal.NewFromFloat(-5)} {
		_, err := svc.RegistrarMovimentacao(context.Background(), uuid.New(), dto.MovimentacaoRequest{
			TurnoID:   turnoID.String(),
			Tipo:      "sangria",
			Valor:     valor,
			Descricao: "teste",
		})
		assert.ErrorIs(t, err, ErrValorInvalido)
	}
}

func TestMovimentacaoTurnoFechado(t *testing.T) {
	repo := newFakeCaixaRepo()
	svc := NewCaixaService(repo)
	turnoID := abrirTurno(t, svc, uuid.New(), 100)

	_, err := svc.Fechar(context.Background(), uuid.New(), dto.FecharTurnoRequest{
		TurnoID:         turnoID.String(),
		ValorFechamento: decimal.NewFromFloat(100),
		ValorTroco:      decimal.Zero,
	})
	require.NoError(t, err)

	_, err = svc.RegistrarMovimentacao(context.Background(), uuid.New(), dto.MovimentacaoRequest{
		TurnoID:   turnoID.String(),
		Tipo:      "suprimento",
		Valor:     decimal.NewFromFloat(10),
		Descricao: "tarde demais",
	})
	assert.ErrorIs(t, err, ErrTurnoNaoAberto)
}

// ── Saldo ─────────────────────────────────────────────────────────────────────

func TestSaldoRecomputado(t *testing.T) {
	repo := newFakeCaixaRepo()
	svc := NewCaixaService(repo)
	turnoID := abrirTurno(t, svc, uuid.New(), 100)
	usuarioID := uuid.New()

	// abertura 100 + suprimento 50 − sangria 20 + venda 75 = 205
	_, err := svc.RegistrarMovimentacao(context.Background(), usuarioID, dto.MovimentacaoRequest{
		TurnoID: turnoID.String(), Tipo: "suprimento",
		Valor: decimal.NewFromFloat(50), Descricao: "reforço",
	})
	require.NoError(t, err)
	_, err = svc.RegistrarMovimentacao(context.Background(), usuarioID, dto.MovimentacaoRequest{
		TurnoID: turnoID.String(), Tipo: "sangria",
		Valor: decimal.NewFromFloat(20), Descricao: "retirada",
	})
	require.NoError(t, err)
	err = svc.RegistrarVenda(context.Background(), nil, turnoID, usuarioID, uuid.New(), 1, decimal.NewFromFloat(75))
	require.NoError(t, err)

	saldo, err := svc.SaldoAtual(context.Background(), turnoID)
	require.NoError(t, err)
	assert.Equal(t, "205", saldo.String())

	// Leitura é pura: repetir não muda nada
	saldo2, err := svc.SaldoAtual(context.Background(), turnoID)
	require.NoError(t, err)
	assert.Equal(t, saldo.String(), saldo2.String())
	assert.Len(t, repo.movimentacoes, 3)
}

func TestRegistrarVendaLigaMovimentacao(t *testing.T) {
	repo := newFakeCaixaRepo()
	svc := NewCaixaService(repo)
	turnoID := abrirTurno(t, svc, uuid.New(), 0)
	vendaID := uuid.New()

	err := svc.RegistrarVenda(context.Background(), nil, turnoID, uuid.New(), vendaID, 42, decimal.NewFromFloat(99.90))
	require.NoError(t, err)

	require.Len(t, repo.movimentacoes, 1)
	mov := repo.movimentacoes[0]
	assert.Equal(t, "venda", mov.Tipo)
	assert.Equal(t, "Venda #42", mov.Descricao)
	require.NotNil(t, mov.VendaID)
	assert.Equal(t, vendaID, *mov.VendaID)
}

// ── Fechar ────────────────────────────────────────────────────────────────────

func TestFecharRegistraDiferenca(t *testing.T) {
	repo := newFakeCaixaRepo()
	svc := NewCaixaService(repo)
	turnoID := abrirTurno(t, svc, uuid.New(), 100)

	err := svc.RegistrarVenda(context.Background(), nil, turnoID, uuid.New(), uuid.New(), 1, decimal.NewFromFloat(50))
	require.NoError(t, err)

	// Esperado 150; operador contou 140 → diferença −10, registrada e nunca rejeitada
	resp, err := svc.Fechar(context.Background(), uuid.New(), dto.FecharTurnoRequest{
		TurnoID:         turnoID.String(),
		ValorFechamento: decimal.NewFromFloat(140),
		ValorTroco:      decimal.NewFromFloat(30),
	})
	require.NoError(t, err)
	assert.Equal(t, "fechado", resp.Status)
	require.NotNil(t, resp.ValorDiferenca)
	assert.Equal(t, "-10", resp.ValorDiferenca.String())
	require.NotNil(t, resp.ClosedAt)
}

func TestFecharTurnoJaFechado(t *testing.T) {
	repo := newFakeCaixaRepo()
	svc := NewCaixaService(repo)
	turnoID := abrirTurno(t, svc, uuid.New(), 100)

	req := dto.FecharTurnoRequest{
		TurnoID:         turnoID.String(),
		ValorFechamento: decimal.NewFromFloat(100),
		ValorTroco:      decimal.Zero,
	}
	_, err := svc.Fechar(context.Background(), uuid.New(), req)
	require.NoError(t, err)

	_, err = svc.Fechar(context.Background(), uuid.New(), req)
	assert.ErrorIs(t, err, ErrTurnoNaoAberto)
}

// ── Troco sugerido ────────────────────────────────────────────────────────────

func TestTrocoSugerido(t *testing.T) {
	repo := newFakeCaixaRepo()
	svc := NewCaixaService(repo)
	empresaID := uuid.New()

	// Sem histórico: zero, sem erro
	troco, err := svc.TrocoSugerido(context.Background(), empresaID)
	require.NoError(t, err)
	assert.True(t, troco.IsZero())

	turnoID := abrirTurno(t, svc, empresaID, 100)
	_, err = svc.Fechar(context.Background(), uuid.New(), dto.FecharTurnoRequest{
		TurnoID:         turnoID.String(),
		ValorFechamento: decimal.NewFromFloat(100),
		ValorTroco:      decimal.NewFromFloat(25),
	})
	require.NoError(t, err)

	troco, err = svc.TrocoSugerido(context.Background(), empresaID)
	require.NoError(t, err)
	assert.Equal(t, "25", troco.String())
}

func TestTrocoSugeridoUltimoFechamento(t *testing.T) {
	repo := newFakeCaixaRepo()
	svc := &caixaService{repo: repo, now: time.Now}
	empresaID := uuid.New()

	fecha := func(turno uuid.UUID, troco float64, closedAt time.Time) {
		svc.now = func() time.Time { return closedAt }
		_, err := svc.Fechar(context.Background(), uuid.New(), dto.FecharTurnoRequest{
			TurnoID:         turno.String(),
			ValorFechamento: decimal.NewFromFloat(100),
			ValorTroco:      decimal.NewFromFloat(troco),
		})
		require.NoError(t, err)
	}

	t1 := abrirTurno(t, svc, empresaID, 100)
	fecha(t1, 10, time.Date(2026, 8, 1, 18, 0, 0, 0, time.UTC))
	t2 := abrirTurno(t, svc, empresaID, 100)
	fecha(t2, 40, time.Date(2026, 8, 2, 18, 0, 0, 0, time.UTC))

	troco, err := svc.TrocoSugerido(context.Background(), empresaID)
	require.NoError(t, err)
	assert.Equal(t, "40", troco.String())
}

// ── Leituras ──────────────────────────────────────────────────────────────────

func TestTurnoAtivoSemTurno(t *testing.T) {
	repo := newFakeCaixaRepo()
	svc := NewCaixaService(repo)

	resp, err := svc.TurnoAtivo(context.Background(), uuid.New())
	require.NoError(t, err)
	assert.Nil(t, resp)
}

func TestMovimentacoesTurnoInexistente(t *testing.T) {
	repo := newFakeCaixaRepo()
	svc := NewCaixaService(repo)

	_, err := svc.Movimentacoes(context.Background(), uuid.New())
	assert.ErrorIs(t, err, ErrRegistroNaoEncontrado)
}
