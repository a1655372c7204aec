package store

import (
	"encoding/json"
	"fmt"
	"sync"

	"github.com/yukikurage/workspace-messaging-api/internal/models"
)

// Store owns the workspace aggregate. Services hold the lock for the whole of an
// operation; methods that do not lock say so and expect the caller to hold it.
type Store struct {
	mu   sync.Mutex
	data *models.Data
}

func New() *Store {
	return &Store{data: emptyData(0)}
}

func emptyData(generation int) *models.Data {
	return &models.Data{
		Users:              []*models.User{},
		Channels:           []*models.Channel{},
		Dms:                []*models.Dm{},
		GlobalOwnerIDs:     []int{},
		ReservedMessageIDs: []int{},
		WorkspaceStats: models.WorkspaceStats{
			ChannelsExist: []models.StatPoint{},
			DmsExist:      []models.StatPoint{},
			MessagesExist: []models.StatPoint{},
		},
		Generation: generation,
	}
}

func (s *Store) Lock()   { s.mu.Lock() }
func (s *Store) Unlock() { s.mu.Unlock() }

// Data returns the live aggregate. Caller holds the lock.
func (s *Store) Data() *models.Data {
	return s.data
}

// Generation is bumped on every Reset. Deferred work compares it at fire time. Caller holds the lock.
func (s *Store) Generation() int {
	return s.data.Generation
}

// Reset empties the workspace and starts a new generation. Caller holds the lock.
func (s *Store) Reset() {
	s.data = emptyData(s.data.Generation + 1)
}

// Snapshot serializes the aggregate.
func (s *Store) Snapshot() ([]byte, int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	payload, err := json.Marshal(s.data)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to encode snapshot: %w", err)
	}
	return payload, s.data.Generation, nil
}

// Restore replaces the aggregate with a previously taken snapshot.
func (s *Store) Restore(payload []byte) error {
	data := emptyData(0)
	if err := json.Unmarshal(payload, data); err != nil {
		return fmt.Errorf("failed to decode snapshot: %w", err)
	}

	s.mu.Lock()
	s.data = data
	s.mu.Unlock()
	return nil
}
