package collector

import (
	"collection-engine/internal/pkg/apperrors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewCollector(t *testing.T) {
	t.Run("should error when name is empty", func(t *testing.T) {
		coll, err := NewCollector("", "9876543210", "North", "secret123")
		assert.ErrorIs(t, err, apperrors.ErrValidation)
		assert.Nil(t, coll)
	})

	t.Run("should error when phone is empty", func(t *testing.T) {
		coll, err := NewCollector("Suresh", "  ", "North", "secret123")
		assert.ErrorIs(t, err, apperrors.ErrValidation)
		assert.Nil(t, coll)
	})

	t.Run("should error when area is empty", func(t *testing.T) {
		coll, err := NewCollector("Suresh", "9876543210", "", "secret123")
		assert.ErrorIs(t, err, apperrors.ErrValidation)
		assert.Nil(t, coll)
	})

	t.Run("should error when password is too short", func(t *testing.T) {
		coll, err := NewCollector("Suresh", "9876543210", "North", "12345")
		assert.ErrorIs(t, err, apperrors.ErrValidation)
		assert.Nil(t, coll)
	})

	t.Run("should hash the password and trim fields", func(t *testing.T) {
		coll, err := NewCollector("  Suresh ", " 9876543210 ", " North ", "secret123")
		assert.NoError(t, err)
		assert.NotNil(t, coll)
		assert.Equal(t, "Suresh", coll.Name)
		assert.Equal(t, "9876543210", coll.Phone)
		assert.Equal(t, "North", coll.Area)
		assert.NotEmpty(t, coll.PasswordHash)
		assert.NotEqual(t, "secret123", coll.PasswordHash)
	})
}

func TestCheckPassword(t *testing.T) {
	coll, err := NewCollector("Suresh", "9876543210", "North", "secret123")
	assert.NoError(t, err)

	t.Run("should accept the right password", func(t *testing.T) {
		assert.True(t, coll.CheckPassword("secret123"))
	})

	t.Run("should reject a wrong password", func(t *testing.T) {
		assert.False(t, coll.CheckPassword("secret124"))
	})

	t.Run("should reject an empty password", func(t *testing.T) {
		assert.False(t, coll.CheckPassword(""))
	})
}
