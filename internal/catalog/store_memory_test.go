package catalog

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ids(ps []Product) []int {
	out := make([]int, 0, len(ps))
	for _, p := range ps {
		out = append(out, p.ID)
	}
	return out
}

func TestMemStore_Seed(t *testing.T) {
	ctx := context.Background()
	s := NewStore()

	all, err := s.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []int{1, 2, 3, 4, 5}, ids(all))

	for _, p := range all {
		got, err := s.Get(ctx, p.ID)
		require.NoError(t, err)
		assert.Equal(t, p.ID, got.ID)
	}

	p, err := s.Get(ctx, 3)
	require.NoError(t, err)
	assert.Equal(t, "Teclado Mecánico Keychron K2", p.Name)
	assert.Equal(t, 89.99, p.Price)
}

func TestNewMemStore_RejectsDuplicateSeed(t *testing.T) {
	_, err := NewMemStore([]Product{{ID: 1}, {ID: 2}, {ID: 1}})
	require.ErrorIs(t, err, ErrConflict)
}

func TestMemStore_EmptyList(t *testing.T) {
	s, err := NewMemStore(nil)
	require.NoError(t, err)

	all, err := s.List(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, all)
	assert.Empty(t, all)
}

func TestMemStore_Create(t *testing.T) {
	ctx := context.Background()
	s := NewStore()

	p := Product{ID: 42, Name: "Pad", Description: "Desk pad", Price: 19.5, Stock: 3, Category: "Accessories"}
	created, err := s.Create(ctx, p)
	require.NoError(t, err)
	assert.Equal(t, p, created)

	got, err := s.Get(ctx, 42)
	require.NoError(t, err)
	assert.Equal(t, p, got)

	all, _ := s.List(ctx)
	assert.Equal(t, []int{1, 2, 3, 4, 5, 42}, ids(all))
}

func TestMemStore_CreateConflictLeavesCollection(t *testing.T) {
	ctx := context.Background()
	s := NewStore()
	before, _ := s.List(ctx)

	_, err := s.Create(ctx, Product{ID: 3, Name: "dup"})
	require.ErrorIs(t, err, ErrConflict)

	after, _ := s.List(ctx)
	assert.Equal(t, before, after)
}

func TestMemStore_Delete(t *testing.T) {
	ctx := context.Background()
	s := NewStore()

	require.NoError(t, s.Delete(ctx, 3))

	_, err := s.Get(ctx, 3)
	assert.ErrorIs(t, err, ErrNotFound)

	all, _ := s.List(ctx)
	assert.Equal(t, []int{1, 2, 4, 5}, ids(all))
}

func TestMemStore_DeleteMissingLeavesCollection(t *testing.T) {
	ctx := context.Background()
	s := NewStore()
	before, _ := s.List(ctx)

	require.ErrorIs(t, s.Delete(ctx, 99), ErrNotFound)

	after, _ := s.List(ctx)
	assert.Equal(t, before, after)
}

func TestMemStore_ListByCategory(t *testing.T) {
	ctx := context.Background()
	s := NewStore()

	lower, err := s.ListByCategory(ctx, "electronics")
	require.NoError(t, err)
	upper, err := s.ListByCategory(ctx, "Electronics")
	require.NoError(t, err)

	assert.Equal(t, lower, upper)
	assert.Equal(t, []int{1, 4}, ids(lower))

	acc, err := s.ListByCategory(ctx, "ACCESSORIES")
	require.NoError(t, err)
	assert.Equal(t, []int{2, 3, 5}, ids(acc))

	_, err = s.ListByCategory(ctx, "Furniture")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemStore_ListReturnsCopy(t *testing.T) {
	ctx := context.Background()
	s := NewStore()

	all, _ := s.List(ctx)
	all[0].Name = "mutated"

	p, _ := s.Get(ctx, 1)
	assert.Equal(t, "Laptop Dell XPS 13", p.Name)
}

func TestMemStore_DeleteRecreateScenario(t *testing.T) {
	ctx := context.Background()
	s := NewStore()

	require.NoError(t, s.Delete(ctx, 3))
	_, err := s.Get(ctx, 3)
	require.ErrorIs(t, err, ErrNotFound)

	pad := Product{ID: 3, Name: "Pad", Description: "Mouse pad", Price: 9.99, Stock: 10, Category: "Accessories"}
	_, err = s.Create(ctx, pad)
	require.NoError(t, err)

	n, err := s.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 5, n)

	all, _ := s.List(ctx)
	assert.Equal(t, []int{1, 2, 4, 5, 3}, ids(all))
}

func TestMemStore_ConcurrentCreatesKeepIDsUnique(t *testing.T) {
	ctx := context.Background()
	s, err := NewMemStore(nil)
	require.NoError(t, err)

	const workers = 16
	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		success int
	)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := s.Create(ctx, Product{ID: 7}); err == nil {
				mu.Lock()
				success++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, success)
	n, _ := s.Count(ctx)
	assert.Equal(t, 1, n)
}
