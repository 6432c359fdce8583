package auth

import (
	"slices"

	"backend-template/internal/domain"
)

// Authorize permits the caller only when its role is listed in allowed.
// There is no hierarchy: ADMIN does not imply MODERATOR or USER.
func Authorize(claims *Claims, allowed ...domain.Role) error {
	if claims == nil {
		return domain.ErrForbidden
	}
	if !slices.Contains(allowed, claims.Role) {
		return domain.ErrForbidden
	}
	return nil
}

// Any lists every known role, for operations open to all authenticated callers.
func Any() []domain.Role {
	return []domain.Role{domain.RoleUser, domain.RoleAdmin, domain.RoleModerator}
}
