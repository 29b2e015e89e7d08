package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"assistec/internal/dto"
	"assistec/internal/model"
	"assistec/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// CaixaService is the cash register shift ledger. It enforces the
// single-open-turno invariant per empresa, records immutable movements
// and sales against the open turno, and computes the reconciliation
// figures at close time.
type CaixaService interface {
	Abrir(ctx context.Context, empresaID, usuarioID uuid.UUID, req dto.AbrirTurnoRequest) (*dto.TurnoResponse, error)
	RegistrarMovimentacao(ctx context.Context, usuarioID uuid.UUID, req dto.MovimentacaoRequest) (*dto.MovimentacaoResponse, error)
	// RegistrarVenda appends the "venda" movement for a finalized sale.
	// It runs inside the sale transaction so the sale and its ledger
	// entry commit or roll back together.
	RegistrarVenda(ctx context.Context, tx *gorm.DB, turnoID, usuarioID, vendaID uuid.UUID, numeroVenda int, valor decimal.Decimal) error
	SaldoAtual(ctx context.Context, turnoID uuid.UUID) (decimal.Decimal, error)
	Fechar(ctx context.Context, usuarioID uuid.UUID, req dto.FecharTurnoRequest) (*dto.TurnoResponse, error)
	TrocoSugerido(ctx context.Context, empresaID uuid.UUID) (decimal.Decimal, error)
	TurnoAtivo(ctx context.Context, empresaID uuid.UUID) (*dto.TurnoResponse, error)
	Movimentacoes(ctx context.Context, turnoID uuid.UUID) ([]dto.MovimentacaoResponse, error)
	Historico(ctx context.Context, empresaID uuid.UUID, page, limit int) ([]dto.TurnoResponse, int64, error)
}

type caixaService struct {
	repo repository.CaixaRepository
	now  func() time.Time
}

func NewCaixaService(repo repository.CaixaRepository) CaixaService {
	return &caixaService{repo: repo, now: time.Now}
}

// ── Abrir ─────────────────────────────────────────────────────────────────────

func (s *caixaService) Abrir(ctx context.Context, empresaID, usuarioID uuid.UUID, req dto.AbrirTurnoRequest) (*dto.TurnoResponse, error) {
	if req.ValorAbertura.IsNegative() {
		return nil, ErrValorInvalido
	}

	// Application-level guard; the partial unique index on
	// turnos_caixa(empresa_id) WHERE status='aberto' backs it up against
	// concurrent opens.
	if existing, err := s.repo.FindTurnoAberto(ctx, empresaID); err == nil && existing != nil {
		return nil, ErrTurnoJaAberto
	}

	turno := &model.TurnoCaixa{
		EmpresaID:     empresaID,
		AbertoPor:     usuarioID,
		ValorAbertura: req.ValorAbertura,
		Status:        "aberto",
		Observacoes:   req.Observacoes,
		OpenedAt:      s.now().UTC(),
	}
	if err := s.repo.CreateTurno(ctx, turno); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			// Lost the race against a concurrent open
			return nil, ErrTurnoJaAberto
		}
		return nil, err
	}

	return s.buildTurnoResponse(ctx, turno)
}

// ── RegistrarMovimentacao ─────────────────────────────────────────────────────
// Sangria (cash out) / suprimento (cash in). Movements are immutable —
// there is no Update/Delete path.

func (s *caixaService) RegistrarMovimentacao(ctx context.Context, usuarioID uuid.UUID, req dto.MovimentacaoRequest) (*dto.MovimentacaoResponse, error) {
	turnoID, err := uuid.Parse(req.TurnoID)
	if err != nil {
		return nil, fmt.Errorf("turno_id inválido: %w", err)
	}
	if req.Tipo != "sangria" && req.Tipo != "suprimento" {
		return nil, ErrTipoInvalido
	}
	// Valor is stored positive; the sign comes from Tipo at balance time.
	if !req.Valor.IsPositive() {
		return nil, ErrValorInvalido
	}
	if err := s.requireTurnoAberto(ctx, turnoID); err != nil {
		return nil, err
	}

	mov := &model.MovimentacaoCaixa{
		TurnoID:   turnoID,
		Tipo:      req.Tipo,
		Valor:     req.Valor,
		Descricao: req.Descricao,
		UsuarioID: usuarioID,
		CreatedAt: s.now().UTC(),
	}
	if err := s.repo.CreateMovimentacao(ctx, mov); err != nil {
		return nil, err
	}
	resp := movToResponse(mov)
	return &resp, nil
}

// ── RegistrarVenda ────────────────────────────────────────────────────────────

func (s *caixaService) RegistrarVenda(ctx context.Context, tx *gorm.DB, turnoID, usuarioID, vendaID uuid.UUID, numeroVenda int, valor decimal.Decimal) error {
	if valor.IsNegative() {
		return ErrValorInvalido
	}
	if err := s.requireTurnoAberto(ctx, turnoID); err != nil {
		return err
	}
	mov := &model.MovimentacaoCaixa{
		TurnoID:   turnoID,
		Tipo:      "venda",
		Valor:     valor,
		Descricao: fmt.Sprintf("Venda #%d", numeroVenda),
		UsuarioID: usuarioID,
		VendaID:   &vendaID,
		CreatedAt: s.now().UTC(),
	}
	if tx != nil {
		return s.repo.CreateMovimentacaoTx(tx, mov)
	}
	return s.repo.CreateMovimentacao(ctx, mov)
}

// ── SaldoAtual ────────────────────────────────────────────────────────────────
// Always recomputed from the constituent rows:
//
//	valor_abertura + Σsuprimento − Σsangria + Σvendas
//
// Never cached in mutable state, so it cannot drift from the ledger.

func (s *caixaService) SaldoAtual(ctx context.Context, turnoID uuid.UUID) (decimal.Decimal, error) {
	turno, err := s.repo.FindTurnoByID(ctx, turnoID)
	if err != nil {
		return decimal.Zero, ErrRegistroNaoEncontrado
	}
	sums, err := s.repo.SumMovimentacoesPorTipo(ctx, turnoID)
	if err != nil {
		return decimal.Zero, err
	}
	return saldo(turno.ValorAbertura, sums), nil
}

// ── Fechar ────────────────────────────────────────────────────────────────────
// Seals the turno. The declared closing amount is stored as counted by
// the operator; the difference against the computed balance is recorded
// on the turno, never rejected — drawers are physically counted and may
// legitimately differ.

func (s *caixaService) Fechar(ctx context.Context, usuarioID uuid.UUID, req dto.FecharTurnoRequest) (*dto.TurnoResponse, error) {
	turnoID, err := uuid.Parse(req.TurnoID)
	if err != nil {
		return nil, fmt.Errorf("turno_id inválido: %w", err)
	}
	if req.ValorFechamento.IsNegative() || req.ValorTroco.IsNegative() {
		return nil, ErrValorInvalido
	}

	turno, err := s.repo.FindTurnoByID(ctx, turnoID)
	if err != nil {
		return nil, ErrTurnoNaoAberto
	}
	if turno.Status != "aberto" {
		return nil, ErrTurnoNaoAberto
	}

	sums, err := s.repo.SumMovimentacoesPorTipo(ctx, turnoID)
	if err != nil {
		return nil, err
	}
	esperado := saldo(turno.ValorAbertura, sums)
	diferenca := req.ValorFechamento.Sub(esperado)

	closedAt := s.now().UTC()
	valorFechamento := req.ValorFechamento
	valorTroco := req.ValorTroco

	turno.Status = "fechado"
	turno.FechadoPor = &usuarioID
	turno.ValorFechamento = &valorFechamento
	turno.ValorTroco = &valorTroco
	turno.ValorDiferenca = &diferenca
	turno.ClosedAt = &closedAt
	if req.Observacoes != nil {
		turno.Observacoes = req.Observacoes
	}

	if err := s.repo.UpdateTurno(ctx, turno); err != nil {
		return nil, err
	}
	return s.buildTurnoResponse(ctx, turno)
}

// ── TrocoSugerido ─────────────────────────────────────────────────────────────
// The change float declared on the most recent close seeds the next
// open. Pure read.

func (s *caixaService) TrocoSugerido(ctx context.Context, empresaID uuid.UUID) (decimal.Decimal, error) {
	ultimo, err := s.repo.FindUltimoTurnoFechado(ctx, empresaID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return decimal.Zero, nil
		}
		return decimal.Zero, err
	}
	if ultimo.ValorTroco == nil {
		return decimal.Zero, nil
	}
	return *ultimo.ValorTroco, nil
}

// ── Reads ─────────────────────────────────────────────────────────────────────

func (s *caixaService) TurnoAtivo(ctx context.Context, empresaID uuid.UUID) (*dto.TurnoResponse, error) {
	turno, err := s.repo.FindTurnoAberto(ctx, empresaID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return s.buildTurnoResponse(ctx, turno)
}

func (s *caixaService) Movimentacoes(ctx context.Context, turnoID uuid.UUID) ([]dto.MovimentacaoResponse, error) {
	if _, err := s.repo.FindTurnoByID(ctx, turnoID); err != nil {
		return nil, ErrRegistroNaoEncontrado
	}
	movs, err := s.repo.ListMovimentacoes(ctx, turnoID)
	if err != nil {
		return nil, err
	}
	resp := make([]dto.MovimentacaoResponse, len(movs))
	for i := range movs {
		resp[i] = movToResponse(&movs[i])
	}
	return resp, nil
}

func (s *caixaService) Historico(ctx context.Context, empresaID uuid.UUID, page, limit int) ([]dto.TurnoResponse, int64, error) {
	turnos, total, err := s.repo.ListTurnos(ctx, empresaID, page, limit)
	if err != nil {
		return nil, 0, err
	}
	resp := make([]dto.TurnoResponse, 0, len(turnos))
	for i := range turnos {
		tr, err := s.buildTurnoResponse(ctx, &turnos[i])
		if err != nil {
			return nil, 0, err
		}
		resp = append(resp, *tr)
	}
	return resp, total, nil
}

// ── Helpers ───────────────────────────────────────────────────────────────────

func (s *caixaService) requireTurnoAberto(ctx context.Context, turnoID uuid.UUID) error {
	turno, err := s.repo.FindTurnoByID(ctx, turnoID)
	if err != nil {
		return ErrTurnoNaoAberto
	}
	if turno.Status != "aberto" {
		return ErrTurnoNaoAberto
	}
	return nil
}

func saldo(abertura decimal.Decimal, sums map[string]decimal.Decimal) decimal.Decimal {
	return abertura.
		Add(sums["suprimento"]).
		Sub(sums["sangria"]).
		Add(sums["venda"])
}

func (s *caixaService) buildTurnoResponse(ctx context.Context, turno *model.TurnoCaixa) (*dto.TurnoResponse, error) {
	sums, err := s.repo.SumMovimentacoesPorTipo(ctx, turno.ID)
	if err != nil {
		return nil, err
	}

	resp := &dto.TurnoResponse{
		TurnoID:         turno.ID.String(),
		EmpresaID:       turno.EmpresaID.String(),
		AbertoPor:       turno.AbertoPor.String(),
		ValorAbertura:   turno.ValorAbertura,
		ValorFechamento: turno.ValorFechamento,
		ValorTroco:      turno.ValorTroco,
		ValorDiferenca:  turno.ValorDiferenca,
		Resumo: dto.ResumoTurno{
			ValorVendas:      sums["venda"],
			ValorSangrias:    sums["sangria"],
			ValorSuprimentos: sums["suprimento"],
			Saldo:            saldo(turno.ValorAbertura, sums),
		},
		Status:      turno.Status,
		Observacoes: turno.Observacoes,
		OpenedAt:    turno.OpenedAt.Format(time.RFC3339),
	}
	if turno.FechadoPor != nil {
		fechadoPor := turno.FechadoPor.String()
		resp.FechadoPor = &fechadoPor
	}
	if turno.ClosedAt != nil {
		closedAt := turno.ClosedAt.Format(time.RFC3339)
		resp.ClosedAt = &closedAt
	}
	return resp, nil
}

func movToResponse(m *model.MovimentacaoCaixa) dto.MovimentacaoResponse {
	resp := dto.MovimentacaoResponse{
		ID:        m.ID.String(),
		TurnoID:   m.TurnoID.String(),
		Tipo:      m.Tipo,
		Valor:     m.Valor,
		Descricao: m.Descricao,
		UsuarioID: m.UsuarioID.String(),
		CreatedAt: m.CreatedAt.Format(time.RFC3339),
	}
	if m.VendaID != nil {
		vendaID := m.VendaID.String()
		resp.VendaID = &vendaID
	}
	return resp
}
