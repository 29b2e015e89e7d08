package service

import (
	"context"
	"encoding/json"
	"time"

	"assistec/internal/dto"
	"assistec/internal/model"
	"assistec/internal/repository"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const produtoCacheTTL = 4 * time.Hour

// ProdutoService is the catalog of parts and services charged on OS and
// balcão sales. Reads by ID go through a Redis cache; writes invalidate
// the cached entry.
type ProdutoService interface {
	Criar(ctx context.Context, empresaID uuid.UUID, req dto.CriarProdutoServicoRequest) (*dto.ProdutoServicoResponse, error)
	Buscar(ctx context.Context, id uuid.UUID) (*dto.ProdutoServicoResponse, error)
	Listar(ctx context.Context, empresaID uuid.UUID, filter dto.ProdutoServicoFilter) (*dto.ProdutoServicoListResponse, error)
	Atualizar(ctx context.Context, id uuid.UUID, req dto.AtualizarProdutoServicoRequest) (*dto.ProdutoServicoResponse, error)
	Desativar(ctx context.Context, id uuid.UUID) error
}

type produtoService struct {
	repo repository.ProdutoRepository
	rdb  *redis.Client
}

func NewProdutoService(repo repository.ProdutoRepository, rdb *redis.Client) ProdutoService {
	return &produtoService{repo: repo, rdb: rdb}
}

func produtoCacheKey(id uuid.UUID) string { return "produto:" + id.String() }

func (s *produtoService) Criar(ctx context.Context, empresaID uuid.UUID, req dto.CriarProdutoServicoRequest) (*dto.ProdutoServicoResponse, error) {
	if req.Preco.IsNegative() {
		return nil, ErrValorInvalido
	}
	p := &model.ProdutoServico{
		EmpresaID: empresaID,
		Nome:      req.Nome,
		Descricao: req.Descricao,
		Preco:     req.Preco,
		Tipo:      req.Tipo,
		Codigo:    req.Codigo,
		Ativo:     true,
	}
	if err := s.repo.Create(ctx, p); err != nil {
		return nil, err
	}
	return produtoToResponse(p), nil
}

func (s *produtoService) Buscar(ctx context.Context, id uuid.UUID) (*dto.ProdutoServicoResponse, error) {
	key := produtoCacheKey(id)

	if s.rdb != nil {
		if cached, err := s.rdb.Get(ctx, key).Bytes(); err == nil {
			var resp dto.ProdutoServicoResponse
			if jsonErr := json.Unmarshal(cached, &resp); jsonErr == nil {
				return &resp, nil
			}
		}
	}

	p, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, ErrRegistroNaoEncontrado
	}
	resp := produtoToResponse(p)

	// Populate cache — best effort, ignore errors
	if s.rdb != nil {
		if b, jsonErr := json.Marshal(resp); jsonErr == nil {
			_ = s.rdb.Set(context.Background(), key, b, produtoCacheTTL).Err()
		}
	}
	return resp, nil
}

func (s *produtoService) Listar(ctx context.Context, empresaID uuid.UUID, filter dto.ProdutoServicoFilter) (*dto.ProdutoServicoListResponse, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 {
		filter.Limit = 50
	}
	itens, total, err := s.repo.List(ctx, empresaID, filter)
	if err != nil {
		return nil, err
	}
	data := make([]dto.ProdutoServicoResponse, 0, len(itens))
	for i := range itens {
		data = append(data, *produtoToResponse(&itens[i]))
	}
	return &dto.ProdutoServicoListResponse{
		Data:  data,
		Total: total,
		Page:  filter.Page,
		Limit: filter.Limit,
	}, nil
}

func (s *produtoService) Atualizar(ctx context.Context, id uuid.UUID, req dto.AtualizarProdutoServicoRequest) (*dto.ProdutoServicoResponse, error) {
	p, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, ErrRegistroNaoEncontrado
	}
	if req.Nome != nil {
		p.Nome = *req.Nome
	}
	if req.Descricao != nil {
		p.Descricao = req.Descricao
	}
	if req.Preco != nil {
		if req.Preco.IsNegative() {
			return nil, ErrValorInvalido
		}
		p.Preco = *req.Preco
	}
	if req.Codigo != nil {
		p.Codigo = req.Codigo
	}
	if err := s.repo.Update(ctx, p); err != nil {
		return nil, err
	}
	s.invalidate(ctx, id)
	return produtoToResponse(p), nil
}

func (s *produtoService) Desativar(ctx context.Context, id uuid.UUID) error {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		return ErrRegistroNaoEncontrado
	}
	if err := s.repo.SoftDelete(ctx, id); err != nil {
		return err
	}
	s.invalidate(ctx, id)
	return nil
}

func (s *produtoService) invalidate(ctx context.Context, id uuid.UUID) {
	if s.rdb != nil {
		_ = s.rdb.Del(ctx, produtoCacheKey(id)).Err()
	}
}

func produtoToResponse(p *model.ProdutoServico) *dto.ProdutoServicoResponse {
	return &dto.ProdutoServicoResponse{
		ID:        p.ID.String(),
		Nome:      p.Nome,
		Descricao: p.Descricao,
		Preco:     p.Preco,
		Tipo:      p.Tipo,
		Codigo:    p.Codigo,
		Ativo:     p.Ativo,
	}
}
