package repository

import (
	"context"

	"github.com/yukikurage/workspace-messaging-api/internal/models"
)

// SnapshotRepository defines the interface for workspace snapshot storage
type SnapshotRepository interface {
	// Save replaces the stored snapshot
	Save(ctx context.Context, snapshot *models.Snapshot) error

	// Load returns the stored snapshot, or ErrSnapshotNotFound
	Load(ctx context.Context) (*models.Snapshot, error)
}
