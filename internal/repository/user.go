package repository

import (
	"context"

	"backend-template/internal/domain"
)

// UserRepository defines persistence operations for User entities.
type UserRepository interface {
	Store[*domain.User]
	Init(ctx context.Context) error
	FindActiveByEmail(ctx context.Context, email string) (*domain.User, error)
	// ExistsByEmail also matches inactive accounts.
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	ExistsByPhoneNumber(ctx context.Context, phone string) (bool, error)
}
