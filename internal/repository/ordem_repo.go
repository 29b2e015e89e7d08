package repository

import (
	"context"

	"assistec/internal/dto"
	"assistec/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type OrdemRepository interface {
	Create(ctx context.Context, tx *gorm.DB, o *model.OrdemServico) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.OrdemServico, error)
	Update(ctx context.Context, o *model.OrdemServico) error
	UpdateTx(tx *gorm.DB, o *model.OrdemServico) error
	ProximoNumeroOS(ctx context.Context, tx *gorm.DB, empresaID uuid.UUID) (int, error)
	List(ctx context.Context, empresaID uuid.UUID, filter dto.OrdemFilter) ([]model.OrdemServico, int64, error)
	CountPorStatus(ctx context.Context, empresaID uuid.UUID) (map[string]int64, error)

	CreateHistorico(ctx context.Context, h *model.HistoricoStatus) error
	CreateHistoricoTx(tx *gorm.DB, h *model.HistoricoStatus) error
	ListHistorico(ctx context.Context, ordemID uuid.UUID) ([]model.HistoricoStatus, error)
	DB() *gorm.DB
}

type ordemRepo struct{ db *gorm.DB }

func NewOrdemRepository(db *gorm.DB) OrdemRepository { return &ordemRepo{db: db} }

func (r *ordemRepo) DB() *gorm.DB { return r.db }

func (r *ordemRepo) Create(ctx context.Context, tx *gorm.DB, o *model.OrdemServico) error {
	return tx.WithContext(ctx).Create(o).Error
}

func (r *ordemRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.OrdemServico, error) {
	var o model.OrdemServico
	err := r.db.WithContext(ctx).
		Preload("Cliente").
		Preload("Tecnico").
		First(&o, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &o, nil
}

func (r *ordemRepo) Update(ctx context.Context, o *model.OrdemServico) error {
	return r.db.WithContext(ctx).Save(o).Error
}

func (r *ordemRepo) UpdateTx(tx *gorm.DB, o *model.OrdemServico) error {
	return tx.Save(o).Error
}

// ProximoNumeroOS bumps the per-empresa OS counter atomically, inside the
// transaction that inserts the OS.
func (r *ordemRepo) ProximoNumeroOS(ctx context.Context, tx *gorm.DB, empresaID uuid.UUID) (int, error) {
	var num int
	err := tx.WithContext(ctx).
		Raw("UPDATE empresas SET seq_os = seq_os + 1 WHERE id = ? RETURNING seq_os", empresaID).
		Scan(&num).Error
	return num, err
}

func (r *ordemRepo) List(ctx context.Context, empresaID uuid.UUID, filter dto.OrdemFilter) ([]model.OrdemServico, int64, error) {
	var ordens []model.OrdemServico
	var total int64
	offset := (filter.Page - 1) * filter.Limit

	q := r.db.WithContext(ctx).Model(&model.OrdemServico{}).Where("empresa_id = ?", empresaID)

	if filter.Status != "" && filter.Status != "all" {
		q = q.Where("status = ?", filter.Status)
	}
	if filter.TecnicoID != "" {
		q = q.Where("tecnico_id = ?", filter.TecnicoID)
	}
	if filter.Busca != "" {
		like := "%" + filter.Busca + "%"
		q = q.Where("marca ILIKE ? OR modelo ILIKE ? OR numero_serie ILIKE ?", like, like, like)
	}

	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := q.Preload("Cliente").Preload("Tecnico").
		Order("created_at DESC").
		Offset(offset).Limit(filter.Limit).
		Find(&ordens).Error

	return ordens, total, err
}

func (r *ordemRepo) CountPorStatus(ctx context.Context, empresaID uuid.UUID) (map[string]int64, error) {
	rows, err := r.db.WithContext(ctx).
		Model(&model.OrdemServico{}).
		Select("status, COUNT(*) AS total").
		Where("empresa_id = ?", empresaID).
		Group("status").
		Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := make(map[string]int64)
	for rows.Next() {
		var status string
		var total int64
		if err := rows.Scan(&status, &total); err != nil {
			return nil, err
		}
		counts[status] = total
	}
	return counts, rows.Err()
}

func (r *ordemRepo) CreateHistorico(ctx context.Context, h *model.HistoricoStatus) error {
	return r.db.WithContext(ctx).Create(h).Error
}

func (r *ordemRepo) CreateHistoricoTx(tx *gorm.DB, h *model.HistoricoStatus) error {
	return tx.Create(h).Error
}

func (r *ordemRepo) ListHistorico(ctx context.Context, ordemID uuid.UUID) ([]model.HistoricoStatus, error) {
	var hist []model.HistoricoStatus
	err := r.db.WithContext(ctx).
		Where("ordem_id = ?", ordemID).
		Order("created_at ASC").
		Find(&hist).Error
	return hist, err
}
