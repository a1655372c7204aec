package services

import (
	"log/slog"

	"github.com/yukikurage/workspace-messaging-api/internal/store"
)

// WorkspaceService resets the whole workspace.
type WorkspaceService struct {
	store *store.Store
}

// NewWorkspaceService creates a new WorkspaceService.
func NewWorkspaceService(st *store.Store) *WorkspaceService {
	return &WorkspaceService{store: st}
}

// Clear empties the store. Deferred work armed before the reset is discarded when it fires.
func (s *WorkspaceService) Clear() {
	s.store.Lock()
	defer s.store.Unlock()

	s.store.Reset()
	slog.Info("workspace: Store cleared", "generation", s.store.Generation())
}
