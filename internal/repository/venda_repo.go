package repository

import (
	"context"
	"time"

	"assistec/internal/dto"
	"assistec/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type VendaRepository interface {
	Create(ctx context.Context, tx *gorm.DB, v *model.Venda) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Venda, error)
	UpdateStatusTx(tx *gorm.DB, id uuid.UUID, status string) error
	ProximoNumeroVenda(ctx context.Context, tx *gorm.DB, empresaID uuid.UUID) (int, error)
	List(ctx context.Context, empresaID uuid.UUID, filter dto.VendaFilter) ([]model.Venda, int64, error)
	SumVendasDoDia(ctx context.Context, empresaID uuid.UUID, dia time.Time) (decimal.Decimal, error)
	DB() *gorm.DB // exposes the DB for transaction creation in the service layer
}

type vendaRepo struct{ db *gorm.DB }

func NewVendaRepository(db *gorm.DB) VendaRepository { return &vendaRepo{db: db} }

func (r *vendaRepo) DB() *gorm.DB { return r.db }

func (r *vendaRepo) Create(ctx context.Context, tx *gorm.DB, v *model.Venda) error {
	return tx.WithContext(ctx).Create(v).Error
}

func (r *vendaRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Venda, error) {
	var v model.Venda
	err := r.db.WithContext(ctx).Preload("Itens").First(&v, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &v, nil
}

func (r *vendaRepo) UpdateStatusTx(tx *gorm.DB, id uuid.UUID, status string) error {
	return tx.Model(&model.Venda{}).Where("id = ?", id).Update("status", status).Error
}

// ProximoNumeroVenda bumps the per-empresa sale counter atomically.
// Must run inside the same transaction that inserts the venda so the
// number is never burned on a rolled-back sale.
func (r *vendaRepo) ProximoNumeroVenda(ctx context.Context, tx *gorm.DB, empresaID uuid.UUID) (int, error) {
	var num int
	err := tx.WithContext(ctx).
		Raw("UPDATE empresas SET seq_venda = seq_venda + 1 WHERE id = ? RETURNING seq_venda", empresaID).
		Scan(&num).Error
	return num, err
}

func (r *vendaRepo) List(ctx context.Context, empresaID uuid.UUID, filter dto.VendaFilter) ([]model.Venda, int64, error) {
	var vendas []model.Venda
	var total int64
	offset := (filter.Page - 1) * filter.Limit

	q := r.db.WithContext(ctx).Model(&model.Venda{}).Where("empresa_id = ?", empresaID)

	if filter.Status != "" && filter.Status != "all" {
		q = q.Where("status = ?", filter.Status)
	}
	if filter.Data != "" {
		q = q.Where("DATE(data_venda) = ?", filter.Data)
	} else {
		// Default: today
		q = q.Where("DATE(data_venda) = CURRENT_DATE")
	}

	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := q.Preload("Itens").
		Order("data_venda DESC").
		Offset(offset).Limit(filter.Limit).
		Find(&vendas).Error

	return vendas, total, err
}

func (r *vendaRepo) SumVendasDoDia(ctx context.Context, empresaID uuid.UUID, dia time.Time) (decimal.Decimal, error) {
	var total decimal.Decimal
	err := r.db.WithContext(ctx).
		Model(&model.Venda{}).
		Select("COALESCE(SUM(total), 0)").
		Where("empresa_id = ? AND status = 'finalizada' AND DATE(data_venda) = ?", empresaID, dia.Format("2006-01-02")).
		Scan(&total).Error
	return total, err
}
