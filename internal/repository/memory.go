package repository

import (
	"context"
	"slices"
	"sync"

	"github.com/microgram17/jobtracker/internal/models"
)

type pairKey struct {
	company  string
	position string
}

// MemoryStore keeps applications in process memory.
type MemoryStore struct {
	mu     sync.RWMutex
	nextID int64
	data   map[int64]*models.Application
	pairs  map[pairKey]int64
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		data:  make(map[int64]*models.Application),
		pairs: make(map[pairKey]int64),
	}
}

func (s *MemoryStore) ListAll(ctx context.Context) ([]models.Application, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.Application, 0, len(s.data))
	for _, app := range s.data {
		out = append(out, *app.Clone())
	}
	slices.SortFunc(out, func(a, b models.Application) int {
		switch {
		case a.ID < b.ID:
			return -1
		case a.ID > b.ID:
			return 1
		}
		return 0
	})
	return out, nil
}

func (s *MemoryStore) FindByID(ctx context.Context, id int64) (*models.Application, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	app, ok := s.data[id]
	if !ok {
		return nil, models.ErrNotFound
	}
	return app.Clone(), nil
}

func (s *MemoryStore) FindByCompanyAndPosition(ctx context.Context, company, position string) (*models.Application, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	id, ok := s.pairs[pairKey{company, position}]
	if !ok {
		return nil, models.ErrNotFound
	}
	return s.data[id].Clone(), nil
}

// Insert checks the pair and writes under one lock, so concurrent inserts of the same pair cannot both succeed.
func (s *MemoryStore) Insert(ctx context.Context, app models.NewApplication) (*models.Application, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	key := pairKey{app.Company, app.Position}
	if _, taken := s.pairs[key]; taken {
		return nil, &models.DuplicateError{Company: app.Company, Position: app.Position}
	}

	s.nextID++
	rec := app.Record()
	rec.ID = s.nextID
	s.data[rec.ID] = rec
	s.pairs[key] = rec.ID
	return rec.Clone(), nil
}

func (s *MemoryStore) Mutate(ctx context.Context, id int64, patch models.ApplicationPatch) (*models.Application, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	current, ok := s.data[id]
	if !ok {
		return nil, models.ErrNotFound
	}

	next := current.Clone()
	patch.Apply(next)

	oldKey := pairKey{current.Company, current.Position}
	newKey := pairKey{next.Company, next.Position}
	if newKey != oldKey {
		if owner, taken := s.pairs[newKey]; taken && owner != id {
			return nil, &models.DuplicateError{Company: next.Company, Position: next.Position}
		}
		delete(s.pairs, oldKey)
		s.pairs[newKey] = id
	}

	s.data[id] = next
	return next.Clone(), nil
}

func (s *MemoryStore) Remove(ctx context.Context, id int64) (*models.Application, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	app, ok := s.data[id]
	if !ok {
		return nil, models.ErrNotFound
	}
	delete(s.data, id)
	delete(s.pairs, pairKey{app.Company, app.Position})
	return app, nil
}
