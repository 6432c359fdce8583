package domain

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidationErrorMatchesSentinel(t *testing.T) {
	err := fmt.Errorf("create product: %w", &ValidationError{Fields: map[string]string{
		"sku":  "cannot be blank",
		"name": "cannot be blank",
	}})

	assert.ErrorIs(t, err, ErrValidationFailed)
	assert.NotErrorIs(t, err, ErrNotFound)

	var verr *ValidationError
	assert.True(t, errors.As(err, &verr))
	assert.Len(t, verr.Fields, 2)
	assert.Equal(t, "validation failed: name: cannot be blank; sku: cannot be blank", verr.Error())
}

func TestBaseLifecycleHelpers(t *testing.T) {
	p := &Product{}
	assert.True(t, p.Meta().IsNew())

	p.ID = "abc"
	p.IsActive = true
	p.Meta().Deactivate()
	assert.False(t, p.IsActive)
	assert.False(t, p.Meta().IsNew())
}

func TestRoleValid(t *testing.T) {
	assert.True(t, RoleModerator.Valid())
	assert.False(t, Role("ROOT").Valid())
}
