package repository

import (
	"context"

	"assistec/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type CaixaRepository interface {
	CreateTurno(ctx context.Context, t *model.TurnoCaixa) error
	FindTurnoAberto(ctx context.Context, empresaID uuid.UUID) (*model.TurnoCaixa, error)
	FindTurnoByID(ctx context.Context, id uuid.UUID) (*model.TurnoCaixa, error)
	UpdateTurno(ctx context.Context, t *model.TurnoCaixa) error
	FindUltimoTurnoFechado(ctx context.Context, empresaID uuid.UUID) (*model.TurnoCaixa, error)
	ListTurnos(ctx context.Context, empresaID uuid.UUID, page, limit int) ([]model.TurnoCaixa, int64, error)

	CreateMovimentacao(ctx context.Context, m *model.MovimentacaoCaixa) error
	CreateMovimentacaoTx(tx *gorm.DB, m *model.MovimentacaoCaixa) error
	ListMovimentacoes(ctx context.Context, turnoID uuid.UUID) ([]model.MovimentacaoCaixa, error)
	SumMovimentacoesPorTipo(ctx context.Context, turnoID uuid.UUID) (map[string]decimal.Decimal, error)
}

type caixaRepo struct{ db *gorm.DB }

func NewCaixaRepository(db *gorm.DB) CaixaRepository { return &caixaRepo{db: db} }

func (r *caixaRepo) CreateTurno(ctx context.Context, t *model.TurnoCaixa) error {
	return r.db.WithContext(ctx).Create(t).Error
}

func (r *caixaRepo) FindTurnoAberto(ctx context.Context, empresaID uuid.UUID) (*model.TurnoCaixa, error) {
	var t model.TurnoCaixa
	err := r.db.WithContext(ctx).
		Where("empresa_id = ? AND status = 'aberto'", empresaID).
		First(&t).Error
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func (r *caixaRepo) FindTurnoByID(ctx context.Context, id uuid.UUID) (*model.TurnoCaixa, error) {
	var t model.TurnoCaixa
	err := r.db.WithContext(ctx).First(&t, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func (r *caixaRepo) UpdateTurno(ctx context.Context, t *model.TurnoCaixa) error {
	return r.db.WithContext(ctx).Save(t).Error
}

func (r *caixaRepo) FindUltimoTurnoFechado(ctx context.Context, empresaID uuid.UUID) (*model.TurnoCaixa, error) {
	var t model.TurnoCaixa
	err := r.db.WithContext(ctx).
		Where("empresa_id = ? AND status = 'fechado'", empresaID).
		Order("closed_at DESC").
		First(&t).Error
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func (r *caixaRepo) ListTurnos(ctx context.Context, empresaID uuid.UUID, page, limit int) ([]model.TurnoCaixa, int64, error) {
	var turnos []model.TurnoCaixa
	var total int64

	q := r.db.WithContext(ctx).Model(&model.TurnoCaixa{}).Where("empresa_id = ?", empresaID)
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	err := q.Order("opened_at DESC").
		Offset((page - 1) * limit).Limit(limit).
		Find(&turnos).Error
	return turnos, total, err
}

func (r *caixaRepo) CreateMovimentacao(ctx context.Context, m *model.MovimentacaoCaixa) error {
	return r.db.WithContext(ctx).Create(m).Error
}

func (r *caixaRepo) CreateMovimentacaoTx(tx *gorm.DB, m *model.MovimentacaoCaixa) error {
	return tx.Create(m).Error
}

func (r *caixaRepo) ListMovimentacoes(ctx context.Context, turnoID uuid.UUID) ([]model.MovimentacaoCaixa, error) {
	var movs []model.MovimentacaoCaixa
	err := r.db.WithContext(ctx).
		Where("turno_id = ?", turnoID).
		Order("created_at ASC").
		Find(&movs).Error
	return movs, err
}

// SumMovimentacoesPorTipo recomputes the per-type totals straight from the
// movement rows. The running balance is always derived from these sums —
// there is no stored total to drift out of sync.
func (r *caixaRepo) SumMovimentacoesPorTipo(ctx context.Context, turnoID uuid.UUID) (map[string]decimal.Decimal, error) {
	rows, err := r.db.WithContext(ctx).
		Model(&model.MovimentacaoCaixa{}).
		Select("tipo, COALESCE(SUM(valor), 0) AS total").
		Where("turno_id = ?", turnoID).
		Group("tipo").
		Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	sums := map[string]decimal.Decimal{
		"sangria":    decimal.Zero,
		"suprimento": decimal.Zero,
		"venda":      decimal.Zero,
	}
	for rows.Next() {
		var tipo string
		var total decimal.Decimal
		if err := rows.Scan(&tipo, &total); err != nil {
			return nil, err
		}
		sums[tipo] = total
	}
	return sums, rows.Err()
}
