package repository

import (
	"context"

	"backend-template/internal/domain"
)

// ProductRepository exposes persistence operations for Product entities.
type ProductRepository interface {
	Store[*domain.Product]
	Init(ctx context.Context) error
	// FindBySKU returns the active product with sku.
	FindBySKU(ctx context.Context, sku string) (*domain.Product, error)
	// ExistsBySKU also counts deactivated products.
	ExistsBySKU(ctx context.Context, sku string) (bool, error)
	SearchByName(ctx context.Context, name string, page domain.PageRequest) (domain.Page[*domain.Product], error)
	FindByCategory(ctx context.Context, category string, page domain.PageRequest) (domain.Page[*domain.Product], error)
	FindInStock(ctx context.Context, page domain.PageRequest) (domain.Page[*domain.Product], error)
}
