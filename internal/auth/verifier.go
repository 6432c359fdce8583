package auth

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"backend-template/internal/domain"
)

// UserFinder looks up active users by their login email.
type UserFinder interface {
	FindActiveByEmail(ctx context.Context, email string) (*domain.User, error)
}

// CredentialVerifier checks an email/password pair against stored hashes.
type CredentialVerifier struct {
	users UserFinder
}

func NewCredentialVerifier(users UserFinder) *CredentialVerifier {
	return &CredentialVerifier{users: users}
}

var (
	dummyHashOnce sync.Once
	dummyHash     string
)

// Verify returns the active user owning email when password matches. Unknown
// accounts and wrong passwords both yield domain.ErrAuthenticationFailed.
func (v *CredentialVerifier) Verify(ctx context.Context, email, password string) (*domain.User, error) {
	if email == "" || password == "" {
		return nil, domain.ErrAuthenticationFailed
	}

	user, err := v.users.FindActiveByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			// keep response timing close to the wrong-password path
			ComparePassword(fakeHash(), password)
			return nil, domain.ErrAuthenticationFailed
		}
		return nil, fmt.Errorf("lookup user: %w", err)
	}

	if !ComparePassword(user.PasswordHash, password) {
		return nil, domain.ErrAuthenticationFailed
	}
	return user, nil
}

func fakeHash() string {
	dummyHashOnce.Do(func() {
		dummyHash, _ = HashPassword("not-a-real-password")
	})
	return dummyHash
}
