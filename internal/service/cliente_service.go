package service

import (
	"context"
	"time"

	"assistec/internal/dto"
	"assistec/internal/model"
	"assistec/internal/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ClienteService interface {
	Criar(ctx context.Context, empresaID uuid.UUID, req dto.CriarClienteRequest) (*dto.ClienteResponse, error)
	Buscar(ctx context.Context, id uuid.UUID) (*dto.ClienteResponse, error)
	Atualizar(ctx context.Context, id uuid.UUID, req dto.AtualizarClienteRequest) (*dto.ClienteResponse, error)
	Desativar(ctx context.Context, id uuid.UUID) error
	Listar(ctx context.Context, empresaID uuid.UUID, filter dto.ClienteFilter) (*dto.ClienteListResponse, error)
}

type clienteService struct {
	repo repository.ClienteRepository
}

func NewClienteService(repo repository.ClienteRepository) ClienteService {
	return &clienteService{repo: repo}
}

// Criar assigns the customer number from the empresa counter inside the
// insert transaction, same scheme as sale and OS numbers.
func (s *clienteService) Criar(ctx context.Context, empresaID uuid.UUID, req dto.CriarClienteRequest) (*dto.ClienteResponse, error) {
	tipo := req.Tipo
	if tipo == "" {
		tipo = "pessoa_fisica"
	}

	var cliente model.Cliente
	txErr := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		numero, err := s.repo.ProximoNumeroCliente(ctx, tx, empresaID)
		if err != nil {
			return err
		}
		cliente = model.Cliente{
			EmpresaID:     empresaID,
			NumeroCliente: numero,
			Nome:          req.Nome,
			Documento:     req.Documento,
			Telefone:      req.Telefone,
			Celular:       req.Celular,
			Email:         req.Email,
			Tipo:          tipo,
			Origem:        req.Origem,
			CEP:           req.CEP,
			Rua:           req.Rua,
			Numero:        req.Numero,
			Complemento:   req.Complemento,
			Bairro:        req.Bairro,
			Cidade:        req.Cidade,
			Estado:        req.Estado,
			Observacoes:   req.Observacoes,
			Ativo:         true,
		}
		return s.repo.Create(ctx, tx, &cliente)
	})
	if txErr != nil {
		return nil, txErr
	}
	return clienteToResponse(&cliente), nil
}

func (s *clienteService) Buscar(ctx context.Context, id uuid.UUID) (*dto.ClienteResponse, error) {
	cliente, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, ErrRegistroNaoEncontrado
	}
	return clienteToResponse(cliente), nil
}

func (s *clienteService) Atualizar(ctx context.Context, id uuid.UUID, req dto.AtualizarClienteRequest) (*dto.ClienteResponse, error) {
	cliente, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, ErrRegistroNaoEncontrado
	}

	if req.Nome != nil {
		cliente.Nome = *req.Nome
	}
	if req.Documento != nil {
		cliente.Documento = req.Documento
	}
	if req.Telefone != nil {
		cliente.Telefone = req.Telefone
	}
	if req.Celular != nil {
		cliente.Celular = req.Celular
	}
	if req.Email != nil {
		cliente.Email = req.Email
	}
	if req.Origem != nil {
		cliente.Origem = req.Origem
	}
	if req.CEP != nil {
		cliente.CEP = req.CEP
	}
	if req.Rua != nil {
		cliente.Rua = req.Rua
	}
	if req.Numero != nil {
		cliente.Numero = req.Numero
	}
	if req.Complemento != nil {
		cliente.Complemento = req.Complemento
	}
	if req.Bairro != nil {
		cliente.Bairro = req.Bairro
	}
	if req.Cidade != nil {
		cliente.Cidade = req.Cidade
	}
	if req.Estado != nil {
		cliente.Estado = req.Estado
	}
	if req.Observacoes != nil {
		cliente.Observacoes = req.Observacoes
	}

	if err := s.repo.Update(ctx, cliente); err != nil {
		return nil, err
	}
	return clienteToResponse(cliente), nil
}

// Desativar soft-deletes: the row stays for OS and sale history.
func (s *clienteService) Desativar(ctx context.Context, id uuid.UUID) error {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		return ErrRegistroNaoEncontrado
	}
	return s.repo.SoftDelete(ctx, id)
}

func (s *clienteService) Listar(ctx context.Context, empresaID uuid.UUID, filter dto.ClienteFilter) (*dto.ClienteListResponse, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 {
		filter.Limit = 50
	}
	clientes, total, err := s.repo.List(ctx, empresaID, filter)
	if err != nil {
		return nil, err
	}
	data := make([]dto.ClienteResponse, 0, len(clientes))
	for i := range clientes {
		data = append(data, *clienteToResponse(&clientes[i]))
	}
	return &dto.ClienteListResponse{
		Data:  data,
		Total: total,
		Page:  filter.Page,
		Limit: filter.Limit,
	}, nil
}

func clienteToResponse(c *model.Cliente) *dto.ClienteResponse {
	return &dto.ClienteResponse{
		ID:            c.ID.String(),
		NumeroCliente: c.NumeroCliente,
		Nome:          c.Nome,
		Documento:     c.Documento,
		Telefone:      c.Telefone,
		Celular:       c.Celular,
		Email:         c.Email,
		Tipo:          c.Tipo,
		Origem:        c.Origem,
		Cidade:        c.Cidade,
		Estado:        c.Estado,
		Observacoes:   c.Observacoes,
		Ativo:         c.Ativo,
		CreatedAt:     c.CreatedAt.Format(time.RFC3339),
	}
}
