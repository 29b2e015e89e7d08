package dto

import "github.com/shopspring/decimal"

// DashboardResponse feeds the kanban board and the day summary.
type DashboardResponse struct {
	OrdensPorStatus map[string]int64 `json:"ordens_por_status"`
	VendasHoje      decimal.Decimal  `json:"vendas_hoje"`
	TurnoAberto     bool             `json:"turno_aberto"`
}
