package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/IT22091352/wasana-products/internal/auth"
	"github.com/IT22091352/wasana-products/internal/config"
	"github.com/IT22091352/wasana-products/internal/models"
	"github.com/IT22091352/wasana-products/internal/store"
)

// ErrInvalidCredentials is returned for an unknown login or a wrong password.
// Callers must present both cases identically so login attempts cannot probe
// which usernames exist.
var ErrInvalidCredentials = errors.New("invalid username or password")

// ErrAccountInactive is returned when a deactivated account tries to log in.
var ErrAccountInactive = errors.New("account is deactivated")

// ErrWrongPassword is returned by ChangePassword when the current password
// does not match.
var ErrWrongPassword = errors.New("current password is incorrect")

const minPasswordLength = 6

// IUserService defines the interface for user account operations.
type IUserService interface {
	Register(ctx context.Context, username, email, password string) (*models.User, string, error)
	Login(ctx context.Context, login, password string) (*models.User, string, error)
	FindByID(ctx context.Context, id string) (*models.User, error)
	ChangePassword(ctx context.Context, userID, currentPassword, newPassword string) error
}

// userService implements IUserService.
type userService struct {
	users store.UserStore
	cfg   *config.Config
}

// NewUserService creates a new UserService.
func NewUserService(users store.UserStore, cfg *config.Config) IUserService {
	return &userService{users: users, cfg: cfg}
}

func validateRegistration(username, email, password string) ValidationError {
	var errs ValidationError
	if strings.TrimSpace(username) == "" {
		errs = append(errs, FieldError{Field: "username", Message: "Username is required"})
	}
	if !validEmail(email) {
		errs = append(errs, FieldError{Field: "email", Message: "Valid email is required"})
	}
	if len(password) < minPasswordLength {
		errs = append(errs, FieldError{Field: "password", Message: "Password must be at least 6 characters"})
	}
	return errs
}

// Register creates an active customer account and returns it with a fresh
// token. Username and email are lowercased before storing so uniqueness is
// case-insensitive. A duplicate of either yields store.ErrLoginTaken.
func (s *userService) Register(ctx context.Context, username, email, password string) (*models.User, string, error) {
	if errs := validateRegistration(username, email, password); len(errs) > 0 {
		return nil, "", errs
	}

	username = strings.ToLower(strings.TrimSpace(username))
	email = strings.ToLower(strings.TrimSpace(email))

	// Pre-check both identities. The MongoDB backend additionally enforces
	// unique indexes, so a racing duplicate still fails there; the file
	// backend relies on this check alone.
	for _, login := range []string{username, email} {
		if _, err := s.users.FindByLogin(ctx, login); err == nil {
			return nil, "", store.ErrLoginTaken
		} else if !errors.Is(err, store.ErrNotFound) {
			return nil, "", fmt.Errorf("error checking login availability: %w", err)
		}
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return nil, "", fmt.Errorf("error hashing password: %w", err)
	}

	user := &models.User{
		Username:     username,
		Email:        email,
		PasswordHash: hash,
		IsActive:     true,
		Role:         models.RoleCustomer,
	}
	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, store.ErrLoginTaken) {
			return nil, "", store.ErrLoginTaken
		}
		return nil, "", fmt.Errorf("error creating user: %w", err)
	}

	token, err := auth.GenerateJWT(user.ID, user.Username, s.cfg.JwtSecret, s.cfg.JwtTTL)
	if err != nil {
		return nil, "", fmt.Errorf("error generating token: %w", err)
	}
	return user, token, nil
}

// Login authenticates by username or email and returns the user with a fresh
// token. Unknown login and wrong password both yield ErrInvalidCredentials.
func (s *userService) Login(ctx context.Context, login, password string) (*models.User, string, error) {
	login = strings.ToLower(strings.TrimSpace(login))
	if login == "" || password == "" {
		return nil, "", ErrInvalidCredentials
	}

	user, err := s.users.FindByLogin(ctx, login)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, "", ErrInvalidCredentials
		}
		return nil, "", fmt.Errorf("error finding user by login: %w", err)
	}

	if !user.IsActive {
		return nil, "", ErrAccountInactive
	}

	if !auth.CheckPasswordHash(password, user.PasswordHash) {
		return nil, "", ErrInvalidCredentials
	}

	now := time.Now().UTC()
	if updated, err := s.users.Update(ctx, user.ID, store.UserPatch{LastLogin: &now}); err == nil {
		user = updated
	}
	// A failed last_login stamp never blocks the login itself.

	token, err := auth.GenerateJWT(user.ID, user.Username, s.cfg.JwtSecret, s.cfg.JwtTTL)
	if err != nil {
		return nil, "", fmt.Errorf("error generating token: %w", err)
	}
	return user, token, nil
}

// FindByID returns the user with the given ID, or store.ErrNotFound.
func (s *userService) FindByID(ctx context.Context, id string) (*models.User, error) {
	return s.users.FindByID(ctx, id)
}

// ChangePassword verifies the current password, then stores a hash of the new
// one.
func (s *userService) ChangePassword(ctx context.Context, userID, currentPassword, newPassword string) error {
	if len(newPassword) < minPasswordLength {
		return ValidationError{{Field: "new_password", Message: "New password must be at least 6 characters"}}
	}

	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return err
	}

	if !auth.CheckPasswordHash(currentPassword, user.PasswordHash) {
		return ErrWrongPassword
	}

	hash, err := auth.HashPassword(newPassword)
	if err != nil {
		return fmt.Errorf("error hashing password: %w", err)
	}
	if _, err := s.users.Update(ctx, userID, store.UserPatch{PasswordHash: &hash}); err != nil {
		return fmt.Errorf("error updating password: %w", err)
	}
	return nil
}
