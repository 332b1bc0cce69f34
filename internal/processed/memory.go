package processed

import (
	"context"

	"github.com/mohammed-shakir/geosearch/internal/core/model"
)

// Memory keeps ids in insertion order in process memory.
type Memory struct {
	seen  map[model.EntityID]struct{}
	order model.EntityIDs
}

var _ Set = (*Memory)(nil)

func NewMemory() *Memory {
	return &Memory{seen: make(map[model.EntityID]struct{})}
}

func (m *Memory) Unseen(_ context.Context, ids model.EntityIDs) (model.EntityIDs, error) {
	var out model.EntityIDs
	for _, id := range ids {
		if _, ok := m.seen[id]; !ok {
			out = append(out, id)
		}
	}
	return out, nil
}

func (m *Memory) Add(_ context.Context, ids model.EntityIDs) error {
	for _, id := range ids {
		if _, ok := m.seen[id]; ok {
			continue
		}
		m.seen[id] = struct{}{}
		m.order = append(m.order, id)
	}
	return nil
}

func (m *Memory) Len(context.Context) (int, error) { return len(m.order), nil }

// IDs returns the ids in the order they were added.
func (m *Memory) IDs() model.EntityIDs {
	return append(model.EntityIDs(nil), m.order...)
}

func (m *Memory) Close(context.Context) error {
	m.seen = make(map[model.EntityID]struct{})
	m.order = nil
	return nil
}
