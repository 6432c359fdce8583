package domain

import "time"

// Base holds the identity, audit timestamps and soft-delete flag shared by
// every persisted record. Concrete entities embed it.
type Base struct {
	ID        string    `db:"id"`
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
	IsActive  bool      `db:"is_active"`
}

// Meta exposes the embedded base fields. Embedding Base promotes it, which is
// how entities satisfy Entity.
func (b *Base) Meta() *Base {
	return b
}

// IsNew reports whether the record has not been persisted yet.
func (b *Base) IsNew() bool {
	return b.ID == ""
}

// Deactivate marks the record as logically deleted.
func (b *Base) Deactivate() {
	b.IsActive = false
}

// Entity is implemented by pointers to types embedding Base.
type Entity interface {
	Meta() *Base
}
