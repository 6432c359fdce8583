package sqlstore

import (
	"context"

	"backend-template/internal/domain"
	"backend-template/internal/repository"
)

var productSchema = map[Driver][]string{
	DriverSQLite: {`
CREATE TABLE IF NOT EXISTS products (
	id TEXT PRIMARY KEY,
	name TEXT NOT NULL,
	description TEXT NOT NULL DEFAULT '',
	price TEXT NOT NULL DEFAULT '0',
	quantity INTEGER NOT NULL DEFAULT 0,
	category TEXT NOT NULL DEFAULT '',
	image_url TEXT NOT NULL DEFAULT '',
	sku TEXT NOT NULL UNIQUE,
	is_active BOOLEAN NOT NULL DEFAULT 1,
	created_at DATETIME NOT NULL,
	updated_at DATETIME NOT NULL
);`,
		`CREATE INDEX IF NOT EXISTS products_active_created_idx ON products (is_active, created_at);`,
		`CREATE INDEX IF NOT EXISTS products_category_idx ON products (category);`,
	},
	DriverPostgres: {`
CREATE TABLE IF NOT EXISTS products (
	id TEXT PRIMARY KEY,
	name TEXT NOT NULL,
	description TEXT NOT NULL DEFAULT '',
	price NUMERIC(19,2) NOT NULL DEFAULT 0,
	quantity INTEGER NOT NULL DEFAULT 0,
	category TEXT NOT NULL DEFAULT '',
	image_url TEXT NOT NULL DEFAULT '',
	sku TEXT NOT NULL UNIQUE,
	is_active BOOLEAN NOT NULL DEFAULT TRUE,
	created_at TIMESTAMPTZ NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL
);`,
		`CREATE INDEX IF NOT EXISTS products_active_created_idx ON products (is_active, created_at);`,
		`CREATE INDEX IF NOT EXISTS products_category_idx ON products (LOWER(category));`,
	},
}

// ProductRepository stores products in the products table.
type ProductRepository struct {
	*table[*domain.Product]
}

func NewProductRepository(db *DB) repository.ProductRepository {
	return &ProductRepository{
		table: newTable(db, "products", "product", []string{
			"name",
			"description",
			"price",
			"quantity",
			"category",
			"image_url",
			"sku",
		}, func() *domain.Product { return &domain.Product{} }),
	}
}

func (r *ProductRepository) Init(ctx context.Context) error {
	return applySchema(ctx, r.db, productSchema, "products")
}

func (r *ProductRepository) FindBySKU(ctx context.Context, sku string) (*domain.Product, error) {
	return r.get(ctx, "sku = ? AND is_active = ?", sku, true)
}

func (r *ProductRepository) ExistsBySKU(ctx context.Context, sku string) (bool, error) {
	return r.exists(ctx, "sku", sku)
}

func (r *ProductRepository) SearchByName(ctx context.Context, name string, page domain.PageRequest) (domain.Page[*domain.Product], error) {
	return r.list(ctx, `LOWER(name) LIKE ? ESCAPE '\' AND is_active = ?`, []any{likePattern(name), true}, page)
}

func (r *ProductRepository) FindByCategory(ctx context.Context, category string, page domain.PageRequest) (domain.Page[*domain.Product], error) {
	return r.list(ctx, "LOWER(category) = LOWER(?) AND is_active = ?", []any{category, true}, page)
}

func (r *ProductRepository) FindInStock(ctx context.Context, page domain.PageRequest) (domain.Page[*domain.Product], error) {
	return r.list(ctx, "quantity > 0 AND is_active = ?", []any{true}, page)
}
