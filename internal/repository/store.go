package repository

import (
	"context"

	"backend-template/internal/domain"
)

// Store is the persistence contract shared by every entity type.
//
// FindByID ignores the active flag and is meant for internal mutation paths;
// every other read only sees active records. Lookups that miss return an
// error wrapping domain.ErrNotFound.
type Store[T domain.Entity] interface {
	FindByID(ctx context.Context, id string) (T, error)
	FindActiveByID(ctx context.Context, id string) (T, error)
	ListActive(ctx context.Context, page domain.PageRequest) (domain.Page[T], error)
	// Save inserts when the entity has no id yet and updates it otherwise.
	// UpdatedAt is always refreshed; CreatedAt is only set on insert.
	Save(ctx context.Context, entity T) (T, error)
}
