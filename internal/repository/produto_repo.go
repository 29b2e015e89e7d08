package repository

import (
	"context"

	"assistec/internal/dto"
	"assistec/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ProdutoRepository interface {
	Create(ctx context.Context, p *model.ProdutoServico) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.ProdutoServico, error)
	Update(ctx context.Context, p *model.ProdutoServico) error
	SoftDelete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, empresaID uuid.UUID, filter dto.ProdutoServicoFilter) ([]model.ProdutoServico, int64, error)
}

type produtoRepo struct{ db *gorm.DB }

func NewProdutoRepository(db *gorm.DB) ProdutoRepository { return &produtoRepo{db: db} }

func (r *produtoRepo) Create(ctx context.Context, p *model.ProdutoServico) error {
	return r.db.WithContext(ctx).Create(p).Error
}

func (r *produtoRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.ProdutoServico, error) {
	var p model.ProdutoServico
	err := r.db.WithContext(ctx).First(&p, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *produtoRepo) Update(ctx context.Context, p *model.ProdutoServico) error {
	return r.db.WithContext(ctx).Save(p).Error
}

func (r *produtoRepo) SoftDelete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).
		Model(&model.ProdutoServico{}).Where("id = ?", id).
		Update("ativo", false).Error
}

func (r *produtoRepo) List(ctx context.Context, empresaID uuid.UUID, filter dto.ProdutoServicoFilter) ([]model.ProdutoServico, int64, error) {
	var itens []model.ProdutoServico
	var total int64
	offset := (filter.Page - 1) * filter.Limit

	q := r.db.WithContext(ctx).Model(&model.ProdutoServico{}).
		Where("empresa_id = ? AND ativo = true", empresaID)

	if filter.Tipo != "" && filter.Tipo != "todos" {
		q = q.Where("tipo = ?", filter.Tipo)
	}
	if filter.Busca != "" {
		like := "%" + filter.Busca + "%"
		q = q.Where("nome ILIKE ? OR codigo ILIKE ?", like, like)
	}

	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := q.Order("nome ASC").
		Offset(offset).Limit(filter.Limit).
		Find(&itens).Error

	return itens, total, err
}
