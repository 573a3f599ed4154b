package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/prompthubapp/prompthub-server/internal/store"
)

func (s *Server) registerHealthRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "healthCheck",
		Method:      http.MethodGet,
		Path:        "/health",
		Summary:     "Health check",
		Description: "Returns server health and schema version",
		Tags:        []string{"Health"},
	}, s.handleHealthCheck)
}

// HealthResponse contains server health data.
type HealthResponse struct {
	Status        string `json:"status" doc:"Server status"`
	SchemaVersion string `json:"schema_version,omitempty" doc:"Storage schema version"`
}

// HealthOutput wraps the health response for Huma.
type HealthOutput struct {
	Body HealthResponse
}

func (s *Server) handleHealthCheck(ctx context.Context, _ *struct{}) (*HealthOutput, error) {
	resp := HealthResponse{Status: "ok"}

	if version, err := s.store.GetSetting(ctx, store.SettingSchemaVersion); err == nil {
		resp.SchemaVersion = version
	}

	return &HealthOutput{Body: resp}, nil
}
