package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/prompthubapp/prompthub-server/internal/service"
)

func (s *Server) registerStatsRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "getStats",
		Method:      http.MethodGet,
		Path:        "/api/v1/stats",
		Summary:     "Get library statistics",
		Description: "Returns totals, the most used prompt, and the per-category distribution",
		Tags:        []string{"Stats"},
	}, s.handleGetStats)
}

// StatsOutput wraps the stats response for Huma.
type StatsOutput struct {
	Body service.LibraryStats
}

func (s *Server) handleGetStats(ctx context.Context, _ *struct{}) (*StatsOutput, error) {
	stats, err := s.services.Stats.GetStats(ctx)
	if err != nil {
		return nil, err
	}

	return &StatsOutput{Body: *stats}, nil
}
