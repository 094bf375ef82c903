package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/IT22091352/wasana-products/internal/auth"
	"github.com/IT22091352/wasana-products/internal/config"
	"github.com/IT22091352/wasana-products/internal/models"
	"github.com/IT22091352/wasana-products/internal/store"
	filestore "github.com/IT22091352/wasana-products/internal/store/file"
)

func newUserService(t *testing.T) (IUserService, *filestore.UserStore, *config.Config) {
	t.Helper()
	st, err := filestore.NewUserStore(t.TempDir())
	require.NoError(t, err)
	cfg := &config.Config{JwtSecret: "test-secret", JwtTTL: time.Hour}
	return NewUserService(st, cfg), st, cfg
}

func TestRegister(t *testing.T) {
	svc, _, cfg := newUserService(t)

	user, token, err := svc.Register(context.Background(), "Shop.Admin", "Admin@Wasana.LK", "secret12")
	require.NoError(t, err)

	assert.Equal(t, "shop.admin", user.Username)
	assert.Equal(t, "admin@wasana.lk", user.Email)
	assert.Equal(t, models.RoleCustomer, user.Role)
	assert.True(t, user.IsActive)
	assert.NotEqual(t, "secret12", user.PasswordHash)

	claims, err := auth.ValidateJWT(token, cfg.JwtSecret)
	require.NoError(t, err)
	assert.Equal(t, user.ID, claims.UserID)
	assert.Equal(t, "shop.admin", claims.Username)
}

func TestRegister_DuplicateUsernameCaseInsensitive(t *testing.T) {
	svc, _, _ := newUserService(t)

	_, _, err := svc.Register(context.Background(), "kasun", "kasun@example.com", "secret12")
	require.NoError(t, err)

	_, _, err = svc.Register(context.Background(), "KASUN", "other@example.com", "secret12")
	assert.ErrorIs(t, err, store.ErrLoginTaken)
}

func TestRegister_DuplicateEmail(t *testing.T) {
	svc, _, _ := newUserService(t)

	_, _, err := svc.Register(context.Background(), "kasun", "kasun@example.com", "secret12")
	require.NoError(t, err)

	_, _, err = svc.Register(context.Background(), "different", "Kasun@Example.com", "secret12")
	assert.ErrorIs(t, err, store.ErrLoginTaken)
}

func TestRegister_Validation(t *testing.T) {
	svc, _, _ := newUserService(t)

	_, _, err := svc.Register(context.Background(), "", "bad-email", "short")
	var verr ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Len(t, verr, 3)
}

func TestLogin(t *testing.T) {
	svc, _, _ := newUserService(t)

	_, _, err := svc.Register(context.Background(), "kasun", "kasun@example.com", "secret12")
	require.NoError(t, err)

	user, token, err := svc.Login(context.Background(), "kasun", "secret12")
	require.NoError(t, err)
	assert.NotEmpty(t, token)
	require.NotNil(t, user.LastLogin)
	assert.WithinDuration(t, time.Now().UTC(), *user.LastLogin, time.Minute)

	// Email works as the login too.
	_, _, err = svc.Login(context.Background(), "Kasun@Example.com", "secret12")
	assert.NoError(t, err)
}

func TestLogin_UniformFailure(t *testing.T) {
	svc, _, _ := newUserService(t)

	_, _, err := svc.Register(context.Background(), "kasun", "kasun@example.com", "secret12")
	require.NoError(t, err)

	// Wrong password and unknown username are indistinguishable.
	_, _, wrongPw := svc.Login(context.Background(), "kasun", "wrong-password")
	_, _, unknown := svc.Login(context.Background(), "nobody", "secret12")
	assert.ErrorIs(t, wrongPw, ErrInvalidCredentials)
	assert.ErrorIs(t, unknown, ErrInvalidCredentials)
}

func TestLogin_InactiveAccount(t *testing.T) {
	svc, st, _ := newUserService(t)

	user, _, err := svc.Register(context.Background(), "kasun", "kasun@example.com", "secret12")
	require.NoError(t, err)

	inactive := false
	_, err = st.Update(context.Background(), user.ID, store.UserPatch{IsActive: &inactive})
	require.NoError(t, err)

	_, _, err = svc.Login(context.Background(), "kasun", "secret12")
	assert.ErrorIs(t, err, ErrAccountInactive)
}

func TestChangePassword(t *testing.T) {
	svc, _, _ := newUserService(t)

	user, _, err := svc.Register(context.Background(), "kasun", "kasun@example.com", "secret12")
	require.NoError(t, err)

	err = svc.ChangePassword(context.Background(), user.ID, "wrong", "newsecret")
	assert.ErrorIs(t, err, ErrWrongPassword)

	err = svc.ChangePassword(context.Background(), user.ID, "secret12", "tiny")
	var verr ValidationError
	assert.True(t, errors.As(err, &verr))

	require.NoError(t, svc.ChangePassword(context.Background(), user.ID, "secret12", "newsecret"))

	_, _, err = svc.Login(context.Background(), "kasun", "secret12")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	_, _, err = svc.Login(context.Background(), "kasun", "newsecret")
	assert.NoError(t, err)
}
