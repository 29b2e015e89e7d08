package service

import (
	"context"
	"encoding/json"
	"time"

	"assistec/internal/dto"
	"assistec/internal/repository"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const dashboardCacheTTL = 30 * time.Second

// DashboardService aggregates the numbers behind the kanban board and
// the day summary. Pure reads, cached briefly in Redis since every
// logged-in session polls this endpoint.
type DashboardService interface {
	Resumo(ctx context.Context, empresaID uuid.UUID) (*dto.DashboardResponse, error)
}

type dashboardService struct {
	ordemRepo repository.OrdemRepository
	vendaRepo repository.VendaRepository
	caixaRepo repository.CaixaRepository
	rdb       *redis.Client
	now       func() time.Time
}

func NewDashboardService(
	ordemRepo repository.OrdemRepository,
	vendaRepo repository.VendaRepository,
	caixaRepo repository.CaixaRepository,
	rdb *redis.Client,
) DashboardService {
	return &dashboardService{
		ordemRepo: ordemRepo,
		vendaRepo: vendaRepo,
		caixaRepo: caixaRepo,
		rdb:       rdb,
		now:       time.Now,
	}
}

func dashboardCacheKey(empresaID uuid.UUID) string { return "dashboard:" + empresaID.String() }

func (s *dashboardService) Resumo(ctx context.Context, empresaID uuid.UUID) (*dto.DashboardResponse, error) {
	key := dashboardCacheKey(empresaID)

	if s.rdb != nil {
		if cached, err := s.rdb.Get(ctx, key).Bytes(); err == nil {
			var resp dto.DashboardResponse
			if jsonErr := json.Unmarshal(cached, &resp); jsonErr == nil {
				return &resp, nil
			}
		}
	}

	porStatus, err := s.ordemRepo.CountPorStatus(ctx, empresaID)
	if err != nil {
		return nil, err
	}
	vendasHoje, err := s.vendaRepo.SumVendasDoDia(ctx, empresaID, s.now().UTC())
	if err != nil {
		return nil, err
	}

	turnoAberto := false
	if t, err := s.caixaRepo.FindTurnoAberto(ctx, empresaID); err == nil && t != nil {
		turnoAberto = true
	}

	resp := &dto.DashboardResponse{
		OrdensPorStatus: porStatus,
		VendasHoje:      vendasHoje,
		TurnoAberto:     turnoAberto,
	}

	// Populate cache — best effort, ignore errors
	if s.rdb != nil {
		if b, jsonErr := json.Marshal(resp); jsonErr == nil {
			_ = s.rdb.Set(context.Background(), key, b, dashboardCacheTTL).Err()
		}
	}
	return resp, nil
}
