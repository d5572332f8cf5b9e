// Package storage provides the persistence layer for the games server.
// This package implements the repository pattern to keep the domain pure:
// the entire state of one contest instance is serialized as a single
// structured document, so the engine never knows it is being persisted.
package storage

import (
	"context"
	"time"
)

// GameDocument holds one instance's serialized state.
type GameDocument struct {
	GameID    string    `json:"game_id" db:"game_id"`
	State     []byte    `json:"state" db:"state"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// GameRepository defines the contract for instance persistence. A load
// failure must never crash the process; callers treat an absent or
// corrupt store as an empty instance set.
type GameRepository interface {
	// Save upserts a game document.
	Save(ctx context.Context, doc GameDocument) error

	// Get retrieves a specific game document, nil if absent.
	Get(ctx context.Context, gameID string) (*GameDocument, error)

	// List retrieves every stored game document.
	List(ctx context.Context) ([]GameDocument, error)

	// Delete removes a game document.
	Delete(ctx context.Context, gameID string) error
}
