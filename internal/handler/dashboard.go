package handler

import (
	"net/http"

	"assistec/internal/apierror"
	"assistec/internal/middleware"
	"assistec/internal/service"

	"github.com/gin-gonic/gin"
)

type DashboardHandler struct{ svc service.DashboardService }

func NewDashboardHandler(svc service.DashboardService) *DashboardHandler {
	return &DashboardHandler{svc: svc}
}

// Resumo feeds the kanban board: OS counts per status, today's sales
// total and whether the register is open.
func (h *DashboardHandler) Resumo(c *gin.Context) {
	claims := middleware.GetClaims(c)
	resp, err := h.svc.Resumo(c.Request.Context(), claims.EmpresaUUID())
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New(err.Error()))
		return
	}
	c.JSON(http.StatusOK, resp)
}
