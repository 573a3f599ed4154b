package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
)

func (s *Server) registerAdminRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "adminClearData",
		Method:      http.MethodPost,
		Path:        "/api/v1/admin/clear-data",
		Summary:     "Clear all data",
		Description: "Backs up the library, wipes all data, and reseeds the default categories",
		Tags:        []string{"Admin"},
	}, s.handleClearData)

	huma.Register(s.api, huma.Operation{
		OperationID: "adminBackup",
		Method:      http.MethodPost,
		Path:        "/api/v1/admin/backup",
		Summary:     "Create backup",
		Description: "Writes a timestamped JSON snapshot of the whole library",
		Tags:        []string{"Admin"},
	}, s.handleBackup)
}

// === DTOs ===

// AdminInput carries the admin key header.
type AdminInput struct {
	AdminKey string `header:"X-Admin-Key" doc:"Admin key"`
}

// ClearDataOutput reports the result of a data wipe.
type ClearDataOutput struct {
	Body struct {
		Cleared    bool   `json:"cleared" doc:"Whether the wipe succeeded"`
		BackupPath string `json:"backup_path,omitempty" doc:"Snapshot written before the wipe"`
	}
}

// BackupOutput reports the written snapshot.
type BackupOutput struct {
	Body struct {
		Path string `json:"path" doc:"Snapshot file path"`
	}
}

// === Handlers ===

func (s *Server) handleClearData(ctx context.Context, input *AdminInput) (*ClearDataOutput, error) {
	if err := s.requireAdmin(input.AdminKey); err != nil {
		return nil, err
	}

	// Snapshot first so a wipe is never unrecoverable. A failed snapshot
	// aborts the wipe.
	path, err := s.services.Backup.Snapshot(ctx)
	if err != nil {
		return nil, err
	}

	if err := s.store.ClearData(ctx); err != nil {
		return nil, err
	}

	s.logger.Info("all data cleared", "backup", path)

	out := &ClearDataOutput{}
	out.Body.Cleared = true
	out.Body.BackupPath = path
	return out, nil
}

func (s *Server) handleBackup(ctx context.Context, input *AdminInput) (*BackupOutput, error) {
	if err := s.requireAdmin(input.AdminKey); err != nil {
		return nil, err
	}

	path, err := s.services.Backup.Snapshot(ctx)
	if err != nil {
		return nil, err
	}

	out := &BackupOutput{}
	out.Body.Path = path
	return out, nil
}
