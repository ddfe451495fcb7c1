package catalog

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"sync"
)

type MemStore struct {
	mu       sync.RWMutex
	products []Product
}

// NewMemStore seeds the store through the same uniqueness check Create uses.
func NewMemStore(seed []Product) (*MemStore, error) {
	s := &MemStore{products: make([]Product, 0, len(seed))}
	for _, p := range seed {
		if s.indexOf(p.ID) >= 0 {
			return nil, fmt.Errorf("seed product %d: %w", p.ID, ErrConflict)
		}
		s.products = append(s.products, p)
	}
	return s, nil
}

// NewStore returns a store holding DefaultSeed.
func NewStore() *MemStore {
	s, err := NewMemStore(DefaultSeed())
	if err != nil {
		panic(err)
	}
	return s
}

func (s *MemStore) Ping(ctx context.Context) error { return nil }

func (s *MemStore) Count(ctx context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.products), nil
}

func (s *MemStore) List(ctx context.Context) ([]Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]Product, len(s.products))
	copy(out, s.products)
	return out, nil
}

func (s *MemStore) Get(ctx context.Context, id int) (Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	i := s.indexOf(id)
	if i < 0 {
		return Product{}, ErrNotFound
	}
	return s.products[i], nil
}

func (s *MemStore) ListByCategory(ctx context.Context, category string) ([]Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]Product, 0, len(s.products))
	for _, p := range s.products {
		if strings.EqualFold(p.Category, category) {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		return nil, ErrNotFound
	}
	return out, nil
}

func (s *MemStore) Create(ctx context.Context, p Product) (Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.indexOf(p.ID) >= 0 {
		return Product{}, ErrConflict
	}
	s.products = append(s.products, p)
	return p, nil
}

func (s *MemStore) Delete(ctx context.Context, id int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(id)
	if i < 0 {
		return ErrNotFound
	}
	s.products = slices.Delete(s.products, i, i+1)
	return nil
}

// indexOf expects the caller to hold mu.
func (s *MemStore) indexOf(id int) int {
	return slices.IndexFunc(s.products, func(p Product) bool { return p.ID == id })
}
