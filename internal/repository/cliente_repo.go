package repository

import (
	"context"

	"assistec/internal/dto"
	"assistec/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ClienteRepository interface {
	Create(ctx context.Context, tx *gorm.DB, c *model.Cliente) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Cliente, error)
	Update(ctx context.Context, c *model.Cliente) error
	SoftDelete(ctx context.Context, id uuid.UUID) error
	ProximoNumeroCliente(ctx context.Context, tx *gorm.DB, empresaID uuid.UUID) (int, error)
	List(ctx context.Context, empresaID uuid.UUID, filter dto.ClienteFilter) ([]model.Cliente, int64, error)
	DB() *gorm.DB
}

type clienteRepo struct{ db *gorm.DB }

func NewClienteRepository(db *gorm.DB) ClienteRepository { return &clienteRepo{db: db} }

func (r *clienteRepo) DB() *gorm.DB { return r.db }

func (r *clienteRepo) Create(ctx context.Context, tx *gorm.DB, c *model.Cliente) error {
	return tx.WithContext(ctx).Create(c).Error
}

func (r *clienteRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Cliente, error) {
	var c model.Cliente
	err := r.db.WithContext(ctx).First(&c, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *clienteRepo) Update(ctx context.Context, c *model.Cliente) error {
	return r.db.WithContext(ctx).Save(c).Error
}

func (r *clienteRepo) SoftDelete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).
		Model(&model.Cliente{}).Where("id = ?", id).
		Update("ativo", false).Error
}

func (r *clienteRepo) ProximoNumeroCliente(ctx context.Context, tx *gorm.DB, empresaID uuid.UUID) (int, error) {
	var num int
	err := tx.WithContext(ctx).
		Raw("UPDATE empresas SET seq_cliente = seq_cliente + 1 WHERE id = ? RETURNING seq_cliente", empresaID).
		Scan(&num).Error
	return num, err
}

func (r *clienteRepo) List(ctx context.Context, empresaID uuid.UUID, filter dto.ClienteFilter) ([]model.Cliente, int64, error) {
	var clientes []model.Cliente
	var total int64
	offset := (filter.Page - 1) * filter.Limit

	q := r.db.WithContext(ctx).Model(&model.Cliente{}).
		Where("empresa_id = ? AND ativo = true", empresaID)

	if filter.Busca != "" {
		like := "%" + filter.Busca + "%"
		q = q.Where("nome ILIKE ? OR documento ILIKE ? OR telefone ILIKE ?", like, like, like)
	}

	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := q.Order("nome ASC").
		Offset(offset).Limit(filter.Limit).
		Find(&clientes).Error

	return clientes, total, err
}
