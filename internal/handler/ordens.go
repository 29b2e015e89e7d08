package handler

import (
	"fmt"
	"net/http"
	"strconv"

	"assistec/internal/apierror"
	"assistec/internal/config"
	"assistec/internal/dto"
	"assistec/internal/infra"
	"assistec/internal/middleware"
	"assistec/internal/repository"
	"assistec/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type OrdensHandler struct {
	svc         service.OrdemService
	ordemRepo   repository.OrdemRepository
	empresaRepo repository.EmpresaRepository
	cfg         *config.Config
}

func NewOrdensHandler(
	svc service.OrdemService,
	ordemRepo repository.OrdemRepository,
	empresaRepo repository.EmpresaRepository,
	cfg *config.Config,
) *OrdensHandler {
	return &OrdensHandler{svc: svc, ordemRepo: ordemRepo, empresaRepo: empresaRepo, cfg: cfg}
}

// Criar godoc
// @Summary Abre uma nova ordem de serviço
// @Tags ordens
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body dto.CriarOrdemRequest true "Dados da OS"
// @Success 201 {object} dto.OrdemResponse
// @Failure 400 {object} apierror.APIError
// @Router /v1/ordens [post]
func (h *OrdensHandler) Criar(c *gin.Context) {
	var req dto.CriarOrdemRequest
	if !bindAndValidate(c, &req) {
		return
	}
	claims := middleware.GetClaims(c)

	resp, err := h.svc.Criar(c.Request.Context(), claims.EmpresaUUID(), claims.UsuarioUUID(), req)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// Buscar returns one OS with its status history.
func (h *OrdensHandler) Buscar(c *gin.Context) {
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

// Atualizar edits the mutable fields of an open OS.
func (h *OrdensHandler) Atualizar(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID inválido"))
		return
	}
	var req dto.AtualizarOrdemRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Atualizar(c.Request.Context(), id, req)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// MudarStatus godoc
// @Summary Avança a OS no fluxo de status
// @Tags ordens
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "ID da OS"
// @Param body body dto.MudarStatusRequest true "Novo status"
// @Success 200 {object} dto.OrdemResponse
// @Failure 409 {object} apierror.APIError
// @Router /v1/ordens/{id}/status [put]
func (h *OrdensHandler) MudarStatus(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID inválido"))
		return
	}
	var req dto.MudarStatusRequest
	if !bindAndValidate(c, &req) {
		return
	}
	claims := middleware.GetClaims(c)

	resp, err := h.svc.MudarStatus(c.Request.Context(), id, claims.UsuarioUUID(), req)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Listar returns paginated OS filtered by status, técnico and free text.
func (h *OrdensHandler) Listar(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	filter := dto.OrdemFilter{
		Status:    c.Query("status"),
		TecnicoID: c.Query("tecnico_id"),
		Busca:     c.Query("busca"),
		Page:      page,
		Limit:     limit,
	}
	claims := middleware.GetClaims(c)

	resp, err := h.svc.Listar(c.Request.Context(), claims.EmpresaUUID(), filter)
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New(err.Error()))
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Historico returns the full status audit trail of an OS.
func (h *OrdensHandler) Historico(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID inválido"))
		return
	}
	resp, err := h.svc.Historico(c.Request.Context(), id)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": resp})
}

// Imprimir renders the OS sheet as PDF and streams it back.
func (h *OrdensHandler) Imprimir(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID inválido"))
		return
	}
	ordem, err := h.ordemRepo.FindByID(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusNotFound, apierror.New("OS não encontrada"))
		return
	}

	empresaNome := "AssisTec"
	if empresa, err := h.empresaRepo.FindByID(c.Request.Context(), ordem.EmpresaID); err == nil {
		empresaNome = empresa.Nome
	}

	path, err := infra.GenerateOSPDF(ordem, empresaNome, h.cfg.PDFStoragePath)
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("Falha ao gerar o PDF"))
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf(`inline; filename="os_%d.pdf"`, ordem.NumeroOS))
	c.File(path)
}
