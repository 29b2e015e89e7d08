package service

import (
	"context"
	"fmt"
	"time"

	"assistec/internal/dto"
	"assistec/internal/model"
	"assistec/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type VendaService interface {
	Finalizar(ctx context.Context, empresaID, usuarioID uuid.UUID, req dto.FinalizarVendaRequest) (*dto.VendaResponse, error)
	Anular(ctx context.Context, usuarioID, id uuid.UUID, motivo string) error
	Listar(ctx context.Context, empresaID uuid.UUID, filter dto.VendaFilter) (*dto.VendaListResponse, error)
	Buscar(ctx context.Context, id uuid.UUID) (*dto.VendaResponse, error)
}

type vendaService struct {
	repo        repository.VendaRepository
	caixa       CaixaService
	caixaRepo   repository.CaixaRepository
	produtoRepo repository.ProdutoRepository
	now         func() time.Time
}

func NewVendaService(
	repo repository.VendaRepository,
	caixa CaixaService,
	caixaRepo repository.CaixaRepository,
	produtoRepo repository.ProdutoRepository,
) VendaService {
	return &vendaService{
		repo:        repo,
		caixa:       caixa,
		caixaRepo:   caixaRepo,
		produtoRepo: produtoRepo,
		now:         time.Now,
	}
}

// runTx executes fn inside a GORM transaction when db is available,
// or calls fn(nil) directly when db is nil (unit test mode).
func runTx(ctx context.Context, db *gorm.DB, fn func(tx *gorm.DB) error) error {
	if db == nil {
		return fn(nil)
	}
	return db.WithContext(ctx).Transaction(fn)
}

// ── Finalizar ─────────────────────────────────────────────────────────────────
// Single ACID transaction:
//  1. Pre-flight: open turno, resolve catalog items, compute totals
//  2. BEGIN TX: bump seq_venda, insert venda + itens, append the "venda"
//     movimentação to the open turno
//  3. COMMIT
//
// The sale number comes from the empresa counter inside the transaction,
// so concurrent sales never observe the same number and rolled-back
// sales never burn one.

func (s *vendaService) Finalizar(ctx context.Context, empresaID, usuarioID uuid.UUID, req dto.FinalizarVendaRequest) (*dto.VendaResponse, error) {
	turnoID, err := uuid.Parse(req.TurnoID)
	if err != nil {
		return nil, fmt.Errorf("turno_id inválido: %w", err)
	}

	var clienteID *uuid.UUID
	if req.ClienteID != nil {
		cid, err := uuid.Parse(*req.ClienteID)
		if err != nil {
			return nil, fmt.Errorf("cliente_id inválido: %w", err)
		}
		clienteID = &cid
	}

	// Resolve catalog entries outside the TX; the price charged is the
	// catalog price at this moment, copied onto the item.
	type resolvedItem struct {
		produtoID *uuid.UUID
		nome      string
		preco     decimal.Decimal
		qtd       int
		total     decimal.Decimal
	}

	var resolved []resolvedItem
	subtotal := decimal.Zero
	for _, item := range req.Itens {
		pid, err := uuid.Parse(item.ProdutoServicoID)
		if err != nil {
			return nil, fmt.Errorf("produto_servico_id inválido: %w", err)
		}
		p, err := s.produtoRepo.FindByID(ctx, pid)
		if err != nil {
			return nil, ErrRegistroNaoEncontrado
		}
		if !p.Ativo {
			return nil, fmt.Errorf("item %q está inativo e não pode ser vendido", p.Nome)
		}
		lineTotal := p.Preco.Mul(decimal.NewFromInt(int64(item.Quantidade)))
		subtotal = subtotal.Add(lineTotal)
		resolved = append(resolved, resolvedItem{
			produtoID: &p.ID,
			nome:      p.Nome,
			preco:     p.Preco,
			qtd:       item.Quantidade,
			total:     lineTotal,
		})
	}

	total := subtotal.Sub(req.Desconto).Add(req.Acrescimo)
	if total.IsNegative() {
		return nil, ErrValorInvalido
	}

	tipoPedido := req.TipoPedido
	if tipoPedido == "" {
		tipoPedido = "balcao"
	}

	var venda model.Venda
	txErr := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		numero, err := s.repo.ProximoNumeroVenda(ctx, tx, empresaID)
		if err != nil {
			return err
		}

		venda = model.Venda{
			EmpresaID:      empresaID,
			TurnoID:        turnoID,
			NumeroVenda:    numero,
			ClienteID:      clienteID,
			UsuarioID:      usuarioID,
			Desconto:       req.Desconto,
			Acrescimo:      req.Acrescimo,
			Total:          total,
			FormaPagamento: req.FormaPagamento,
			TipoPedido:     tipoPedido,
			Status:         "finalizada",
			Observacoes:    req.Observacoes,
			DataVenda:      s.now().UTC(),
		}
		for _, r := range resolved {
			venda.Itens = append(venda.Itens, model.VendaItem{
				ProdutoServicoID: r.produtoID,
				Nome:             r.nome,
				Preco:            r.preco,
				Quantidade:       r.qtd,
				Total:            r.total,
			})
		}

		if err := s.repo.Create(ctx, tx, &venda); err != nil {
			return err
		}

		return s.caixa.RegistrarVenda(ctx, tx, turnoID, usuarioID, venda.ID, numero, total)
	})
	if txErr != nil {
		return nil, txErr
	}

	return vendaToResponse(&venda), nil
}

// ── Anular ────────────────────────────────────────────────────────────────────
// The sale row is flipped to "anulada" and an inverse ledger entry is
// appended — a sangria for the full amount. The original "venda"
// movimentação is never touched.

func (s *vendaService) Anular(ctx context.Context, usuarioID, id uuid.UUID, motivo string) error {
	venda, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return ErrRegistroNaoEncontrado
	}
	if venda.Status == "anulada" {
		return ErrTransicaoInvalida
	}

	return runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		mov := &model.MovimentacaoCaixa{
			TurnoID:   venda.TurnoID,
			Tipo:      "sangria",
			Valor:     venda.Total,
			Descricao: fmt.Sprintf("Anulação venda #%d — %s", venda.NumeroVenda, motivo),
			UsuarioID: usuarioID,
			VendaID:   &venda.ID,
			CreatedAt: s.now().UTC(),
		}
		if tx != nil {
			if err := s.caixaRepo.CreateMovimentacaoTx(tx, mov); err != nil {
				return err
			}
		} else if err := s.caixaRepo.CreateMovimentacao(ctx, mov); err != nil {
			return err
		}
		return s.repo.UpdateStatusTx(tx, id, "anulada")
	})
}

// Listar returns paginated sales. Default filter: today's sales.
func (s *vendaService) Listar(ctx context.Context, empresaID uuid.UUID, filter dto.VendaFilter) (*dto.VendaListResponse, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 {
		filter.Limit = 50
	}
	vendas, total, err := s.repo.List(ctx, empresaID, filter)
	if err != nil {
		return nil, err
	}
	data := make([]dto.VendaResponse, 0, len(vendas))
	for i := range vendas {
		data = append(data, *vendaToResponse(&vendas[i]))
	}
	return &dto.VendaListResponse{
		Data:  data,
		Total: total,
		Page:  filter.Page,
		Limit: filter.Limit,
	}, nil
}

func (s *vendaService) Buscar(ctx context.Context, id uuid.UUID) (*dto.VendaResponse, error) {
	venda, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, ErrRegistroNaoEncontrado
	}
	return vendaToResponse(venda), nil
}

func vendaToResponse(v *model.Venda) *dto.VendaResponse {
	itens := make([]dto.ItemVendaResponse, 0, len(v.Itens))
	for _, item := range v.Itens {
		itens = append(itens, dto.ItemVendaResponse{
			Nome:       item.Nome,
			Quantidade: item.Quantidade,
			Preco:      item.Preco,
			Total:      item.Total,
		})
	}
	resp := &dto.VendaResponse{
		ID:             v.ID.String(),
		NumeroVenda:    v.NumeroVenda,
		TurnoID:        v.TurnoID.String(),
		Itens:          itens,
		Desconto:       v.Desconto,
		Acrescimo:      v.Acrescimo,
		Total:          v.Total,
		FormaPagamento: v.FormaPagamento,
		Status:         v.Status,
		DataVenda:      v.DataVenda.Format(time.RFC3339),
	}
	if v.ClienteID != nil {
		cid := v.ClienteID.String()
		resp.ClienteID = &cid
	}
	return resp
}
