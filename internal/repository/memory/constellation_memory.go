package memory

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"constellationapi/internal/model"
	"constellationapi/internal/repository"
)

// ConstellationMemory keeps records in process memory. Intended for development and tests.
type ConstellationMemory struct {
	mu      sync.RWMutex
	records map[string]model.Constellation
	now     func() time.Time
}

// NewConstellationMemory returns an empty in-memory repository.
func NewConstellationMemory() *ConstellationMemory {
	return &ConstellationMemory{
		records: make(map[string]model.Constellation),
		now:     func() time.Time { return time.Now().UTC() },
	}
}

var _ repository.ConstellationRepository = (*ConstellationMemory)(nil)

func (s *ConstellationMemory) Create(ctx context.Context, data model.ConstellationData) (*model.Constellation, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	rec := model.Constellation{
		Ref:       uuid.NewString(),
		Data:      data,
		CreatedAt: s.now(),
	}

	s.mu.Lock()
	s.records[rec.Ref] = rec
	s.mu.Unlock()

	return &rec, nil
}

func (s *ConstellationMemory) FindByRef(ctx context.Context, ref string) (*model.Constellation, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	rec, ok := s.records[ref]
	s.mu.RUnlock()
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &rec, nil
}

func (s *ConstellationMemory) Ping(context.Context) error { return nil }
