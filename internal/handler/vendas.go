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

type VendasHandler struct{ svc service.VendaService }

func NewVendasHandler(svc service.VendaService) *VendasHandler { return &VendasHandler{svc: svc} }

// Finalizar godoc
// @Summary Finaliza uma venda no turno aberto
// @Tags vendas
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body dto.FinalizarVendaRequest true "Itens e pagamento"
// @Success 201 {object} dto.VendaResponse
// @Failure 400 {object} apierror.APIError
// @Router /v1/vendas [post]
func (h *VendasHandler) Finalizar(c *gin.Context) {
	var req dto.FinalizarVendaRequest
	if !bindAndValidate(c, &req) {
		return
	}
	claims := middleware.GetClaims(c)

	resp, err := h.svc.Finalizar(c.Request.Context(), claims.EmpresaUUID(), claims.UsuarioUUID(), req)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// Anular godoc
// @Summary Anula uma venda finalizada
// @Tags vendas
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "ID da venda"
// @Param body body dto.AnularVendaRequest true "Motivo"
// @Success 204
// @Failure 409 {object} apierror.APIError
// @Router /v1/vendas/{id}/anular [post]
func (h *VendasHandler) Anular(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID inválido"))
		return
	}
	var req dto.AnularVendaRequest
	if !bindAndValidate(c, &req) {
		return
	}
	claims := middleware.GetClaims(c)

	if err := h.svc.Anular(c.Request.Context(), claims.UsuarioUUID(), id, req.Motivo); err != nil {
		writeServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Buscar returns one sale with its items.
func (h *VendasHandler) Buscar(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID inválido"))
		return
	}
	resp, err := h.svc.Buscar(c.Request.Context(), id)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Listar returns paginated sales filtered by status and date.
func (h *VendasHandler) Listar(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	filter := dto.VendaFilter{
		Status: c.Query("status"),
		Data:   c.Query("data"),
		Page:   page,
		Limit:  limit,
	}
	claims := middleware.GetClaims(c)

	resp, err := h.svc.Listar(c.Request.Context(), claims.EmpresaUUID(), filter)
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New(err.Error()))
		return
	}
	c.JSON(http.StatusOK, resp)
}
