package services

import (
	"context"
	"log/slog"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestUserService(t *testing.T) {
	ctx := context.Background()
	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))

	t.Run("EnsureUser creates on first action", func(t *testing.T) {
		db := setupTestDB()
		service := NewUserService(db, logger)

		user, err := service.EnsureUser(ctx, "auth0|abc")
		assert.NoError(t, err)
		assert.NotZero(t, user.ID)
		assert.Equal(t, "auth0|abc", user.ExternalID)
		assert.NotEmpty(t, user.APIKey)
	})

	t.Run("EnsureUser returns existing row", func(t *testing.T) {
		db := setupTestDB()
		service := NewUserService(db, logger)

		first, err := service.EnsureUser(ctx, "auth0|abc")
		assert.NoError(t, err)
		second, err := service.EnsureUser(ctx, "auth0|abc")
		assert.NoError(t, err)

		assert.Equal(t, first.ID, second.ID)
		assert.Equal(t, first.APIKey, second.APIKey)
	})

	t.Run("FindByAPIKey", func(t *testing.T) {
		db := setupTestDB()
		service := NewUserService(db, logger)

		user, _ := service.EnsureUser(ctx, "auth0|abc")

		found, err := service.FindByAPIKey(ctx, user.APIKey)
		assert.NoError(t, err)
		assert.Equal(t, user.ID, found.ID)

		_, err = service.FindByAPIKey(ctx, "nope")
		assert.ErrorIs(t, err, ErrUnknownAPIKey)
	})

	t.Run("RotateAPIKey invalidates the old key", func(t *testing.T) {
		db := setupTestDB()
		service := NewUserService(db, logger)

		user, _ := service.EnsureUser(ctx, "auth0|abc")
		oldKey := user.APIKey

		newKey, err := service.RotateAPIKey(ctx, user.ID)
		assert.NoError(t, err)
		assert.NotEqual(t, oldKey, newKey)

		_, err = service.FindByAPIKey(ctx, oldKey)
		assert.ErrorIs(t, err, ErrUnknownAPIKey)

		found, err := service.FindByAPIKey(ctx, newKey)
		assert.NoError(t, err)
		assert.Equal(t, user.ID, found.ID)
	})
}
