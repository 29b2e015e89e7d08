package handler

import (
	"net/http"
	"strconv"

	"assistec/internal/apierror"
	"assistec/internal/dto"
	"assistec/internal/middleware"
	"assistec/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type CaixaHandler struct{ svc service.CaixaService }

func NewCaixaHandler(svc service.CaixaService) *CaixaHandler { return &CaixaHandler{svc: svc} }

// Abrir godoc
// @Summary Abre um novo turno de caixa
// @Tags caixa
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body dto.AbrirTurnoRequest true "Dados de abertura"
// @Success 201 {object} dto.TurnoResponse
// @Failure 409 {object} apierror.APIError
// @Router /v1/caixa/abrir [post]
func (h *CaixaHandler) Abrir(c *gin.Context) {
	var req dto.AbrirTurnoRequest
	if !bindAndValidate(c, &req) {
		return
	}
	claims := middleware.GetClaims(c)

	resp, err := h.svc.Abrir(c.Request.Context(), claims.EmpresaUUID(), claims.UsuarioUUID(), req)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// Fechar godoc
// @Summary Fecha o turno aberto registrando o valor contado
// @Tags caixa
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body dto.FecharTurnoRequest true "Declaração de fechamento"
// @Success 200 {object} dto.TurnoResponse
// @Failure 400 {object} apierror.APIError
// @Router /v1/caixa/fechar [post]
func (h *CaixaHandler) Fechar(c *gin.Context) {
	var req dto.FecharTurnoRequest
	if !bindAndValidate(c, &req) {
		return
	}
	claims := middleware.GetClaims(c)

	resp, err := h.svc.Fechar(c.Request.Context(), claims.UsuarioUUID(), req)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// RegistrarMovimentacao godoc
// @Summary Registra uma sangria ou suprimento no turno aberto
// @Tags caixa
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body dto.MovimentacaoRequest true "Movimentação manual"
// @Success 201 {object} dto.MovimentacaoResponse
// @Failure 422 {object} apierror.APIError
// @Router /v1/caixa/movimentacao [post]
func (h *CaixaHandler) RegistrarMovimentacao(c *gin.Context) {
	var req dto.MovimentacaoRequest
	if !bindAndValidate(c, &req) {
		return
	}
	claims := middleware.GetClaims(c)

	resp, err := h.svc.RegistrarMovimentacao(c.Request.Context(), claims.UsuarioUUID(), req)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// TurnoAtivo returns the currently open turno for the tenant, 404 when
// the register is closed.
func (h *CaixaHandler) TurnoAtivo(c *gin.Context) {
	claims := middleware.GetClaims(c)
	resp, err := h.svc.TurnoAtivo(c.Request.Context(), claims.EmpresaUUID())
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New(err.Error()))
		return
	}
	if resp == nil {
		c.JSON(http.StatusNotFound, apierror.New("Nenhum turno aberto"))
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Saldo returns the recomputed running balance of a turno.
func (h *CaixaHandler) Saldo(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID inválido"))
		return
	}
	saldo, err := h.svc.SaldoAtual(c.Request.Context(), id)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.SaldoResponse{TurnoID: id.String(), Saldo: saldo})
}

// Movimentacoes lists the movements of a turno in chronological order.
func (h *CaixaHandler) Movimentacoes(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID inválido"))
		return
	}
	resp, err := h.svc.Movimentacoes(c.Request.Context(), id)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": resp})
}

// TrocoSugerido returns the change float declared on the last close.
func (h *CaixaHandler) TrocoSugerido(c *gin.Context) {
	claims := middleware.GetClaims(c)
	troco, err := h.svc.TrocoSugerido(c.Request.Context(), claims.EmpresaUUID())
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New(err.Error()))
		return
	}
	c.JSON(http.StatusOK, dto.TrocoSugeridoResponse{ValorTroco: troco})
}

// Historico returns a paginated list of past turnos, newest first.
func (h *CaixaHandler) Historico(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}
	claims := middleware.GetClaims(c)
	resp, total, err := h.svc.Historico(c.Request.Context(), claims.EmpresaUUID(), page, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New(err.Error()))
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": resp, "total": total, "page": page, "limit": limit})
}
