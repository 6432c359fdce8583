package domain

import "github.com/shopspring/decimal"

// Product is a catalogue item identified by a globally unique SKU.
type Product struct {
	Base
	Name        string          `db:"name"`
	Description string          `db:"description"`
	Price       decimal.Decimal `db:"price"`
	Quantity    int             `db:"quantity"`
	Category    string          `db:"category"`
	ImageURL    string          `db:"image_url"`
	SKU         string          `db:"sku"`
}

// InStock reports whether at least one unit is available.
func (p *Product) InStock() bool {
	return p.Quantity > 0
}

// ProductDetails carries the fields a product update may overwrite. The SKU is
// fixed at creation.
type ProductDetails struct {
	Name        string
	Description string
	Price       decimal.Decimal
	Quantity    int
	Category    string
	ImageURL    string
}

// Apply overwrites the mutable fields of p.
func (d ProductDetails) Apply(p *Product) {
	p.Name = d.Name
	p.Description = d.Description
	p.Price = d.Price
	p.Quantity = d.Quantity
	p.Category = d.Category
	p.ImageURL = d.ImageURL
}
