package catalog_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ProductsAPI/internal/catalog"
)

func TestClient_RoundTrip(t *testing.T) {
	ts := newCatalogTS(t, catalog.HTTPDeps{})
	c := catalog.NewClient(ts.URL + "/")
	ctx := context.Background()

	h, err := c.Health(ctx)
	require.NoError(t, err)
	assert.Equal(t, "healthy", h.Status)
	assert.Equal(t, catalog.ServiceName, h.Service)

	all, err := c.List(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 5)

	p, err := c.Get(ctx, 2)
	require.NoError(t, err)
	assert.Equal(t, "Mouse Logitech MX Master 3", p.Name)

	acc, err := c.ListByCategory(ctx, "accessories")
	require.NoError(t, err)
	assert.Len(t, acc, 3)

	_, err = c.ListByCategory(ctx, "Garden Tools")
	assert.ErrorIs(t, err, catalog.ErrNotFound)

	pad := catalog.Product{ID: 10, Name: "Pad", Description: "Mouse pad", Price: 9.99, Stock: 10, Category: "Accessories"}
	created, err := c.Create(ctx, pad)
	require.NoError(t, err)
	assert.Equal(t, pad, created)

	_, err = c.Create(ctx, pad)
	assert.ErrorIs(t, err, catalog.ErrConflict)

	require.NoError(t, c.Delete(ctx, 10))
	assert.ErrorIs(t, c.Delete(ctx, 10), catalog.ErrNotFound)

	_, err = c.Get(ctx, 10)
	assert.ErrorIs(t, err, catalog.ErrNotFound)
}

func TestClient_UnexpectedStatus(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusServiceUnavailable)
		_, _ = w.Write([]byte(`{"detail":"not ready"}`))
	}))
	t.Cleanup(ts.Close)

	_, err := catalog.NewClient(ts.URL).List(context.Background())
	require.Error(t, err)
	assert.True(t, catalog.IsStatus(err, http.StatusServiceUnavailable))

	var se *catalog.StatusError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, "not ready", se.Detail)
}
