package service

import (
	"context"

	"github.com/openclaw/brainsurgeon/gateway"
	"github.com/openclaw/brainsurgeon/trash"
)

// CleanupResult reports an expiry sweep.
type CleanupResult struct {
	Cleaned int `json:"cleaned"`
}

// DeleteSession soft-deletes a session into the trash, cascading to its
// children.
func (s *Service) DeleteSession(agent, sessionID, actor string) (*trash.DeleteResult, error) {
	s.audit.Record("delete", agent, sessionID, actor, nil)
	return s.trash.SoftDelete(agent, sessionID)
}

// ListTrash lists trashed sessions, most recently trashed first.
func (s *Service) ListTrash() ([]trash.Meta, error) {
	return s.trash.List()
}

// PermanentDelete removes a session from the trash for good.
func (s *Service) PermanentDelete(agent, sessionID, actor string) (bool, error) {
	s.audit.Record("permanent_delete", agent, sessionID, actor, nil)
	return s.trash.PermanentDelete(agent, sessionID)
}

// RestoreSession copies a trashed session back to its original path.
func (s *Service) RestoreSession(agent, sessionID, actor string) (*trash.RestoreResult, error) {
	s.audit.Record("restore", agent, sessionID, actor, nil)
	return s.trash.Restore(agent, sessionID)
}

// CleanupTrash removes expired trash entries.
func (s *Service) CleanupTrash(actor string) (*CleanupResult, error) {
	s.audit.Record("cleanup_trash", "system", "", actor, nil)
	cleaned, err := s.trash.Cleanup()
	if err != nil {
		return nil, err
	}
	return &CleanupResult{Cleaned: cleaned}, nil
}

// RestartGateway triggers an OpenClaw gateway restart.
func (s *Service) RestartGateway(ctx context.Context, actor string, delayMS int, note string) (*gateway.RestartResult, error) {
	s.audit.Record("restart", "system", "", actor, map[string]any{"delay_ms": delayMS})
	return s.gateway.Restart(ctx, delayMS, note)
}
