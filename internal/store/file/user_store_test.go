package file

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/IT22091352/wasana-products/internal/models"
	"github.com/IT22091352/wasana-products/internal/store"
)

func newTestUserStore(t *testing.T) *UserStore {
	t.Helper()
	s, err := NewUserStore(t.TempDir())
	require.NoError(t, err)
	return s
}

func TestUserCreateDefaultsRole(t *testing.T) {
	s := newTestUserStore(t)
	ctx := context.Background()

	user := &models.User{
		Username:     "sunil",
		Email:        "sunil@example.com",
		PasswordHash: "$2a$10$hash",
		IsActive:     true,
	}
	require.NoError(t, s.Create(ctx, user))
	require.NotEmpty(t, user.ID)

	got, err := s.FindByID(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, models.RoleCustomer, got.Role)
	assert.Equal(t, "sunil", got.Username)
	assert.True(t, got.IsActive)
	assert.Nil(t, got.LastLogin)
}

func TestUserFindByLogin(t *testing.T) {
	s := newTestUserStore(t)
	ctx := context.Background()

	user := &models.User{Username: "sunil", Email: "sunil@example.com", PasswordHash: "h", IsActive: true}
	require.NoError(t, s.Create(ctx, user))

	byUsername, err := s.FindByLogin(ctx, "sunil")
	require.NoError(t, err)
	assert.Equal(t, user.ID, byUsername.ID)

	byEmail, err := s.FindByLogin(ctx, "sunil@example.com")
	require.NoError(t, err)
	assert.Equal(t, user.ID, byEmail.ID)

	_, err = s.FindByLogin(ctx, "nobody")
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestUserUpdatePatch(t *testing.T) {
	s := newTestUserStore(t)
	ctx := context.Background()

	user := &models.User{Username: "sunil", Email: "sunil@example.com", PasswordHash: "old", IsActive: true}
	require.NoError(t, s.Create(ctx, user))

	newHash := "new-hash"
	lastLogin := time.Now().UTC()
	updated, err := s.Update(ctx, user.ID, store.UserPatch{PasswordHash: &newHash, LastLogin: &lastLogin})
	require.NoError(t, err)
	assert.Equal(t, "new-hash", updated.PasswordHash)
	require.NotNil(t, updated.LastLogin)
	assert.WithinDuration(t, lastLogin, *updated.LastLogin, time.Second)
	assert.Equal(t, "sunil", updated.Username)

	inactive := false
	updated, err = s.Update(ctx, user.ID, store.UserPatch{IsActive: &inactive})
	require.NoError(t, err)
	assert.False(t, updated.IsActive)
	assert.Equal(t, "new-hash", updated.PasswordHash, "earlier patch persisted")

	_, err = s.Update(ctx, "no-such-id", store.UserPatch{PasswordHash: &newHash})
	assert.ErrorIs(t, err, store.ErrNotFound)
}
