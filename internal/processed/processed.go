// Package processed stores the entity ids a region session has already reported.
package processed

import (
	"context"

	"github.com/mohammed-shakir/geosearch/internal/core/model"
)

// Set is a grow-only, duplicate-free id set owned by one session. It is not
// safe for concurrent use.
type Set interface {
	// Unseen returns the ids not yet in the set, keeping their order.
	Unseen(ctx context.Context, ids model.EntityIDs) (model.EntityIDs, error)
	Add(ctx context.Context, ids model.EntityIDs) error
	Len(ctx context.Context) (int, error)
	// Close drops the set's storage.
	Close(ctx context.Context) error
}

// Factory creates the set backing a new session.
type Factory interface {
	NewSet(sessionID string) Set
}

type MemoryFactory struct{}

func (MemoryFactory) NewSet(string) Set { return NewMemory() }
