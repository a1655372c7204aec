package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/yukikurage/workspace-messaging-api/internal/models"
	"github.com/yukikurage/workspace-messaging-api/internal/repository"
	"github.com/yukikurage/workspace-messaging-api/internal/store"
)

// SnapshotService persists the store through a SnapshotRepository.
type SnapshotService struct {
	store *store.Store
	repo  repository.SnapshotRepository
}

// NewSnapshotService creates a new SnapshotService.
func NewSnapshotService(st *store.Store, repo repository.SnapshotRepository) *SnapshotService {
	return &SnapshotService{store: st, repo: repo}
}

// Save writes the current state.
func (s *SnapshotService) Save(ctx context.Context) error {
	payload, generation, err := s.store.Snapshot()
	if err != nil {
		return err
	}
	return s.repo.Save(ctx, &models.Snapshot{Generation: generation, Payload: payload})
}

// Load restores the last saved state. A missing snapshot leaves the store empty.
func (s *SnapshotService) Load(ctx context.Context) error {
	snapshot, err := s.repo.Load(ctx)
	if errors.Is(err, repository.ErrSnapshotNotFound) {
		slog.Info("snapshot: Nothing to restore, starting empty")
		return nil
	}
	if err != nil {
		return err
	}
	if err := s.store.Restore(snapshot.Payload); err != nil {
		return fmt.Errorf("failed to restore snapshot: %w", err)
	}
	slog.Info("snapshot: Restored", "generation", snapshot.Generation, "saved_at", snapshot.UpdatedAt)
	return nil
}

// Run saves every interval until ctx is cancelled, then saves once more.
func (s *SnapshotService) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			if err := s.Save(context.Background()); err != nil {
				slog.Error("snapshot: Final save failed", "error", err)
			}
			return
		case <-ticker.C:
			if err := s.Save(ctx); err != nil {
				slog.Error("snapshot: Periodic save failed", "error", err)
			}
		}
	}
}
