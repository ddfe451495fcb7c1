package catalog

import (
	"context"
	"errors"
)

var (
	ErrNotFound = errors.New("product not found")
	ErrConflict = errors.New("product id already exists")
)

type Product struct {
	ID          int     `json:"id"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Price       float64 `json:"price"`
	Stock       int     `json:"stock"`
	Category    string  `json:"category"`
}

// Store is the catalog collection. Implementations keep insertion order and
// unique ids across every operation.
type Store interface {
	Ping(ctx context.Context) error
	Count(ctx context.Context) (int, error)
	List(ctx context.Context) ([]Product, error)
	Get(ctx context.Context, id int) (Product, error)
	ListByCategory(ctx context.Context, category string) ([]Product, error)
	Create(ctx context.Context, p Product) (Product, error)
	Delete(ctx context.Context, id int) error
}

func DefaultSeed() []Product {
	return []Product{
		{ID: 1, Name: "Laptop Dell XPS 13", Description: "Laptop ultraportátil con procesador Intel i7", Price: 1299.99, Stock: 15, Category: "Electronics"},
		{ID: 2, Name: "Mouse Logitech MX Master 3", Description: "Mouse ergonómico inalámbrico", Price: 99.99, Stock: 50, Category: "Accessories"},
		{ID: 3, Name: "Teclado Mecánico Keychron K2", Description: "Teclado mecánico compacto RGB", Price: 89.99, Stock: 30, Category: "Accessories"},
		{ID: 4, Name: "Monitor LG 27'' 4K", Description: "Monitor UHD 4K IPS", Price: 449.99, Stock: 20, Category: "Electronics"},
		{ID: 5, Name: "Webcam Logitech C920", Description: "Webcam HD 1080p", Price: 79.99, Stock: 40, Category: "Accessories"},
	}
}
