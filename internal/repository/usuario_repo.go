package repository

import (
	"context"

	"assistec/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type UsuarioRepository interface {
	Create(ctx context.Context, u *model.Usuario) error
	FindByUsername(ctx context.Context, username string) (*model.Usuario, error)
	FindByID(ctx context.Context, id uuid.UUID) (*model.Usuario, error)
	Update(ctx context.Context, u *model.Usuario) error
	List(ctx context.Context, empresaID uuid.UUID) ([]model.Usuario, error)
	ListAll(ctx context.Context, empresaID uuid.UUID) ([]model.Usuario, error)
	SoftDelete(ctx context.Context, id uuid.UUID) error
	Reativar(ctx context.Context, id uuid.UUID) error
}

type usuarioRepo struct{ db *gorm.DB }

func NewUsuarioRepository(db *gorm.DB) UsuarioRepository { return &usuarioRepo{db: db} }

func (r *usuarioRepo) Create(ctx context.Context, u *model.Usuario) error {
	return r.db.WithContext(ctx).Create(u).Error
}

func (r *usuarioRepo) FindByUsername(ctx context.Context, username string) (*model.Usuario, error) {
	var u model.Usuario
	err := r.db.WithContext(ctx).Where("username = ?", username).First(&u).Error
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *usuarioRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Usuario, error) {
	var u model.Usuario
	err := r.db.WithContext(ctx).First(&u, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *usuarioRepo) Update(ctx context.Context, u *model.Usuario) error {
	return r.db.WithContext(ctx).Save(u).Error
}

func (r *usuarioRepo) List(ctx context.Context, empresaID uuid.UUID) ([]model.Usuario, error) {
	var users []model.Usuario
	err := r.db.WithContext(ctx).
		Where("empresa_id = ? AND ativo = true", empresaID).
		Order("nome ASC").Find(&users).Error
	return users, err
}

func (r *usuarioRepo) ListAll(ctx context.Context, empresaID uuid.UUID) ([]model.Usuario, error) {
	var users []model.Usuario
	err := r.db.WithContext(ctx).
		Where("empresa_id = ?", empresaID).
		Order("nome ASC").Find(&users).Error
	return users, err
}

func (r *usuarioRepo) SoftDelete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).
		Model(&model.Usuario{}).Where("id = ?", id).
		Update("ativo", false).Error
}

func (r *usuarioRepo) Reativar(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).
		Model(&model.Usuario{}).Where("id = ?", id).
		Update("ativo", true).Error
}
