package service

import (
	"context"
	"fmt"
	"time"

	"assistec/internal/dto"
	"assistec/internal/model"
	"assistec/internal/repository"
	"assistec/internal/worker"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// transicoesValidas is the OS status machine. "cancelada" is reachable
// from every non-final status; "entregue" and "cancelada" are terminal.
var transicoesValidas = map[string][]string{
	model.OSAberta:              {model.OSEmAnalise, model.OSCancelada},
	model.OSEmAnalise:           {model.OSOrcamentoEnviado, model.OSCancelada},
	model.OSOrcamentoEnviado:    {model.OSAguardandoAprovacao, model.OSCancelada},
	model.OSAguardandoAprovacao: {model.OSAprovado, model.OSCancelada},
	model.OSAprovado:            {model.OSEmReparo, model.OSCancelada},
	model.OSEmReparo:            {model.OSAguardandoRetirada, model.OSCancelada},
	model.OSAguardandoRetirada:  {model.OSEntregue, model.OSCancelada},
	model.OSEntregue:            {},
	model.OSCancelada:           {},
}

func transicaoPermitida(de, para string) bool {
	for _, s := range transicoesValidas[de] {
		if s == para {
			return true
		}
	}
	return false
}

type OrdemService interface {
	Criar(ctx context.Context, empresaID, usuarioID uuid.UUID, req dto.CriarOrdemRequest) (*dto.OrdemResponse, error)
	Buscar(ctx context.Context, id uuid.UUID) (*dto.OrdemResponse, error)
	Atualizar(ctx context.Context, id uuid.UUID, req dto.AtualizarOrdemRequest) (*dto.OrdemResponse, error)
	MudarStatus(ctx context.Context, id, usuarioID uuid.UUID, req dto.MudarStatusRequest) (*dto.OrdemResponse, error)
	Listar(ctx context.Context, empresaID uuid.UUID, filter dto.OrdemFilter) (*dto.OrdemListResponse, error)
	Historico(ctx context.Context, id uuid.UUID) ([]dto.HistoricoStatusResponse, error)
}

type ordemService struct {
	repo            repository.OrdemRepository
	clienteRepo     repository.ClienteRepository
	usuarioRepo     repository.UsuarioRepository
	notificacaoRepo repository.NotificacaoRepository
	dispatcher      *worker.Dispatcher
	now             func() time.Time
}

func NewOrdemService(
	repo repository.OrdemRepository,
	clienteRepo repository.ClienteRepository,
	usuarioRepo repository.UsuarioRepository,
	notificacaoRepo repository.NotificacaoRepository,
	dispatcher *worker.Dispatcher,
) OrdemService {
	return &ordemService{
		repo:            repo,
		clienteRepo:     clienteRepo,
		usuarioRepo:     usuarioRepo,
		notificacaoRepo: notificacaoRepo,
		dispatcher:      dispatcher,
		now:             time.Now,
	}
}

// ── Criar ─────────────────────────────────────────────────────────────────────
// The OS number comes from the empresa counter inside the insert
// transaction; the opening historico row is written in the same TX.

func (s *ordemService) Criar(ctx context.Context, empresaID, usuarioID uuid.UUID, req dto.CriarOrdemRequest) (*dto.OrdemResponse, error) {
	clienteID, err := uuid.Parse(req.ClienteID)
	if err != nil {
		return nil, fmt.Errorf("cliente_id inválido: %w", err)
	}
	cliente, err := s.clienteRepo.FindByID(ctx, clienteID)
	if err != nil {
		return nil, ErrRegistroNaoEncontrado
	}

	var tecnicoID *uuid.UUID
	if req.TecnicoID != nil {
		tid, err := uuid.Parse(*req.TecnicoID)
		if err != nil {
			return nil, fmt.Errorf("tecnico_id inválido: %w", err)
		}
		tecnicoID = &tid
	}

	if req.ValorPeca.IsNegative() || req.ValorServico.IsNegative() || req.Desconto.IsNegative() {
		return nil, ErrValorInvalido
	}
	faturado := req.ValorPeca.Add(req.ValorServico).Sub(req.Desconto)
	if faturado.IsNegative() {
		return nil, ErrValorInvalido
	}

	var ordem model.OrdemServico
	txErr := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		numero, err := s.repo.ProximoNumeroOS(ctx, tx, empresaID)
		if err != nil {
			return err
		}

		ordem = model.OrdemServico{
			EmpresaID:            empresaID,
			NumeroOS:             numero,
			ClienteID:            clienteID,
			TecnicoID:            tecnicoID,
			Atendente:            req.Atendente,
			Categoria:            req.Categoria,
			Marca:                req.Marca,
			Modelo:               req.Modelo,
			Cor:                  req.Cor,
			NumeroSerie:          req.NumeroSerie,
			Acessorios:           req.Acessorios,
			CondicoesEquipamento: req.CondicoesEquipamento,
			Relato:               req.Relato,
			Observacao:           req.Observacao,
			ValorPeca:            req.ValorPeca,
			ValorServico:         req.ValorServico,
			Desconto:             req.Desconto,
			ValorFaturado:        faturado,
			Status:               model.OSAberta,
		}
		if err := s.repo.Create(ctx, tx, &ordem); err != nil {
			return err
		}

		hist := &model.HistoricoStatus{
			OrdemID:    ordem.ID,
			StatusNovo: model.OSAberta,
			UsuarioID:  usuarioID,
			CreatedAt:  s.now().UTC(),
		}
		return s.repo.CreateHistoricoTx(tx, hist)
	})
	if txErr != nil {
		return nil, txErr
	}
	ordem.Cliente = cliente

	s.notificarCliente(ctx, &ordem, cliente,
		fmt.Sprintf("Olá %s! Recebemos seu equipamento (%s %s). Sua OS é a nº %d — avisaremos a cada etapa do reparo.",
			cliente.Nome, ordem.Marca, ordem.Modelo, ordem.NumeroOS))

	if tecnicoID != nil {
		s.notificarTecnico(ctx, &ordem, *tecnicoID)
	}

	return ordemToResponse(&ordem, nil), nil
}

func (s *ordemService) Buscar(ctx context.Context, id uuid.UUID) (*dto.OrdemResponse, error) {
	ordem, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, ErrRegistroNaoEncontrado
	}
	hist, err := s.repo.ListHistorico(ctx, id)
	if err != nil {
		return nil, err
	}
	return ordemToResponse(ordem, hist), nil
}

// ── Atualizar ─────────────────────────────────────────────────────────────────
// Only editable fields; status changes go through MudarStatus. A newly
// assigned técnico gets a WhatsApp heads-up.

func (s *ordemService) Atualizar(ctx context.Context, id uuid.UUID, req dto.AtualizarOrdemRequest) (*dto.OrdemResponse, error) {
	ordem, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, ErrRegistroNaoEncontrado
	}
	if ordem.Status == model.OSEntregue || ordem.Status == model.OSCancelada {
		return nil, ErrTransicaoInvalida
	}

	var novoTecnico *uuid.UUID
	if req.TecnicoID != nil {
		tid, err := uuid.Parse(*req.TecnicoID)
		if err != nil {
			return nil, fmt.Errorf("tecnico_id inválido: %w", err)
		}
		if ordem.TecnicoID == nil || *ordem.TecnicoID != tid {
			novoTecnico = &tid
		}
		ordem.TecnicoID = &tid
	}
	if req.Atendente != nil {
		ordem.Atendente = *req.Atendente
	}
	if req.Observacao != nil {
		ordem.Observacao = *req.Observacao
	}
	if req.ValorPeca != nil {
		if req.ValorPeca.IsNegative() {
			return nil, ErrValorInvalido
		}
		ordem.ValorPeca = *req.ValorPeca
	}
	if req.ValorServico != nil {
		if req.ValorServico.IsNegative() {
			return nil, ErrValorInvalido
		}
		ordem.ValorServico = *req.ValorServico
	}
	if req.Desconto != nil {
		if req.Desconto.IsNegative() {
			return nil, ErrValorInvalido
		}
		ordem.Desconto = *req.Desconto
	}
	ordem.ValorFaturado = ordem.ValorPeca.Add(ordem.ValorServico).Sub(ordem.Desconto)
	if ordem.ValorFaturado.IsNegative() {
		return nil, ErrValorInvalido
	}

	if req.DataEntrega != nil {
		t, err := time.Parse("2006-01-02", *req.DataEntrega)
		if err != nil {
			return nil, fmt.Errorf("data_entrega inválida: %w", err)
		}
		ordem.DataEntrega = &t
	}
	if req.VencimentoGarantia != nil {
		t, err := time.Parse("2006-01-02", *req.VencimentoGarantia)
		if err != nil {
			return nil, fmt.Errorf("vencimento_garantia inválido: %w", err)
		}
		ordem.VencimentoGarantia = &t
	}

	if err := s.repo.Update(ctx, ordem); err != nil {
		return nil, err
	}

	if novoTecnico != nil {
		s.notificarTecnico(ctx, ordem, *novoTecnico)
	}

	return ordemToResponse(ordem, nil), nil
}

// ── MudarStatus ───────────────────────────────────────────────────────────────
// Validates the transition, writes the historico row in the same TX as
// the status update, then enqueues the customer notification.

func (s *ordemService) MudarStatus(ctx context.Context, id, usuarioID uuid.UUID, req dto.MudarStatusRequest) (*dto.OrdemResponse, error) {
	ordem, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, ErrRegistroNaoEncontrado
	}

	anterior := ordem.Status
	if !transicaoPermitida(anterior, req.Status) {
		return nil, ErrTransicaoInvalida
	}

	txErr := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		ordem.Status = req.Status
		if req.Status == model.OSEntregue {
			entrega := s.now().UTC()
			ordem.DataEntrega = &entrega
		}
		if err := s.repo.UpdateTx(tx, ordem); err != nil {
			return err
		}

		ant := anterior
		hist := &model.HistoricoStatus{
			OrdemID:        ordem.ID,
			StatusAnterior: &ant,
			StatusNovo:     req.Status,
			UsuarioID:      usuarioID,
			Motivo:         req.Motivo,
			CreatedAt:      s.now().UTC(),
		}
		return s.repo.CreateHistoricoTx(tx, hist)
	})
	if txErr != nil {
		return nil, txErr
	}

	if msg := mensagemStatus(ordem); msg != "" && ordem.Cliente != nil {
		s.notificarCliente(ctx, ordem, ordem.Cliente, msg)
	}

	return ordemToResponse(ordem, nil), nil
}

func (s *ordemService) Listar(ctx context.Context, empresaID uuid.UUID, filter dto.OrdemFilter) (*dto.OrdemListResponse, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 {
		filter.Limit = 50
	}
	ordens, total, err := s.repo.List(ctx, empresaID, filter)
	if err != nil {
		return nil, err
	}
	data := make([]dto.OrdemResponse, 0, len(ordens))
	for i := range ordens {
		data = append(data, *ordemToResponse(&ordens[i], nil))
	}
	return &dto.OrdemListResponse{
		Data:  data,
		Total: total,
		Page:  filter.Page,
		Limit: filter.Limit,
	}, nil
}

func (s *ordemService) Historico(ctx context.Context, id uuid.UUID) ([]dto.HistoricoStatusResponse, error) {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		return nil, ErrRegistroNaoEncontrado
	}
	hist, err := s.repo.ListHistorico(ctx, id)
	if err != nil {
		return nil, err
	}
	return historicoToResponse(hist), nil
}

// ── Notifications ─────────────────────────────────────────────────────────────
// Delivery is best-effort and async: the row is persisted first, the job
// enqueued after. A dead Redis never blocks the OS workflow.

func (s *ordemService) notificarCliente(ctx context.Context, ordem *model.OrdemServico, cliente *model.Cliente, mensagem string) {
	canal, destino := "", ""
	switch {
	case cliente.Celular != nil && *cliente.Celular != "":
		canal, destino = "whatsapp", *cliente.Celular
	case cliente.Email != nil && *cliente.Email != "":
		canal, destino = "email", *cliente.Email
	default:
		return // no reachable contact
	}

	assunto := fmt.Sprintf("OS nº %d — atualização", ordem.NumeroOS)
	s.enfileirar(ctx, &model.Notificacao{
		EmpresaID: ordem.EmpresaID,
		Canal:     canal,
		Destino:   destino,
		Assunto:   &assunto,
		Corpo:     mensagem,
		OrdemID:   &ordem.ID,
	})
}

func (s *ordemService) notificarTecnico(ctx context.Context, ordem *model.OrdemServico, tecnicoID uuid.UUID) {
	tecnico, err := s.usuarioRepo.FindByID(ctx, tecnicoID)
	if err != nil || tecnico.WhatsApp == nil || *tecnico.WhatsApp == "" {
		return
	}
	s.enfileirar(ctx, &model.Notificacao{
		EmpresaID: ordem.EmpresaID,
		Canal:     "whatsapp",
		Destino:   *tecnico.WhatsApp,
		Corpo: fmt.Sprintf("Nova OS nº %d atribuída a você: %s %s — %s",
			ordem.NumeroOS, ordem.Marca, ordem.Modelo, ordem.Relato),
		OrdemID: &ordem.ID,
	})
}

func (s *ordemService) enfileirar(ctx context.Context, notif *model.Notificacao) {
	if err := s.notificacaoRepo.Create(ctx, notif); err != nil {
		return
	}
	if s.dispatcher != nil {
		_ = s.dispatcher.EnqueueNotificacao(ctx, worker.NotificacaoJobPayload{
			NotificacaoID: notif.ID.String(),
		})
	}
}

// mensagemStatus builds the customer-facing message for the new status.
// Internal steps (em_analise) stay silent.
func mensagemStatus(o *model.OrdemServico) string {
	nome := ""
	if o.Cliente != nil {
		nome = o.Cliente.Nome
	}
	switch o.Status {
	case model.OSOrcamentoEnviado:
		return fmt.Sprintf("%s, o orçamento da sua OS nº %d está pronto: R$ %s. Aguardamos sua aprovação.",
			nome, o.NumeroOS, o.ValorFaturado.StringFixed(2))
	case model.OSEmReparo:
		return fmt.Sprintf("%s, o reparo do seu %s %s (OS nº %d) foi iniciado.",
			nome, o.Marca, o.Modelo, o.NumeroOS)
	case model.OSAguardandoRetirada:
		return fmt.Sprintf("%s, seu %s %s está pronto! Retire na loja informando a OS nº %d.",
			nome, o.Marca, o.Modelo, o.NumeroOS)
	case model.OSEntregue:
		return fmt.Sprintf("%s, obrigado pela confiança! OS nº %d entregue.", nome, o.NumeroOS)
	case model.OSCancelada:
		return fmt.Sprintf("%s, sua OS nº %d foi cancelada. Em caso de dúvida, fale conosco.", nome, o.NumeroOS)
	default:
		return ""
	}
}

func ordemToResponse(o *model.OrdemServico, hist []model.HistoricoStatus) *dto.OrdemResponse {
	resp := &dto.OrdemResponse{
		ID:                   o.ID.String(),
		NumeroOS:             o.NumeroOS,
		ClienteID:            o.ClienteID.String(),
		Atendente:            o.Atendente,
		Categoria:            o.Categoria,
		Marca:                o.Marca,
		Modelo:               o.Modelo,
		Cor:                  o.Cor,
		NumeroSerie:          o.NumeroSerie,
		Acessorios:           o.Acessorios,
		CondicoesEquipamento: o.CondicoesEquipamento,
		Relato:               o.Relato,
		Observacao:           o.Observacao,
		ValorPeca:            o.ValorPeca,
		ValorServico:         o.ValorServico,
		Desconto:             o.Desconto,
		ValorFaturado:        o.ValorFaturado,
		Status:               o.Status,
		CreatedAt:            o.CreatedAt.Format(time.RFC3339),
	}
	if o.Cliente != nil {
		resp.Cliente = o.Cliente.Nome
	}
	if o.TecnicoID != nil {
		tid := o.TecnicoID.String()
		resp.TecnicoID = &tid
	}
	if o.Tecnico != nil {
		resp.Tecnico = o.Tecnico.Nome
	}
	if o.DataEntrega != nil {
		d := o.DataEntrega.Format("2006-01-02")
		resp.DataEntrega = &d
	}
	if o.VencimentoGarantia != nil {
		d := o.VencimentoGarantia.Format("2006-01-02")
		resp.VencimentoGarantia = &d
	}
	if hist != nil {
		resp.Historico = historicoToResponse(hist)
	}
	return resp
}

func historicoToResponse(hist []model.HistoricoStatus) []dto.HistoricoStatusResponse {
	out := make([]dto.HistoricoStatusResponse, 0, len(hist))
	for _, h := range hist {
		out = append(out, dto.HistoricoStatusResponse{
			StatusAnterior: h.StatusAnterior,
			StatusNovo:     h.StatusNovo,
			UsuarioID:      h.UsuarioID.String(),
			Motivo:         h.Motivo,
			CreatedAt:      h.CreatedAt.Format(time.RFC3339),
		})
	}
	return out
}
