package file

import (
	"context"
	"sync"
	"time"

	"github.com/IT22091352/wasana-products/internal/models"
	"github.com/IT22091352/wasana-products/internal/store"
)

// UserStore is the flat-file implementation of store.UserStore.
type UserStore struct {
	path string
	mu   sync.Mutex
}

// NewUserStore creates the users file under dataDir if needed.
func NewUserStore(dataDir string) (*UserStore, error) {
	path, err := ensureDataFile(dataDir, usersFile)
	if err != nil {
		return nil, err
	}
	return &UserStore{path: path}, nil
}

func (s *UserStore) load() []models.User {
	var users []models.User
	readJSON(s.path, &users)
	return users
}

// Create assigns a fresh record ID and timestamps, defaults the role to
// customer, appends the user and rewrites the file. Uniqueness of
// username/email is the service layer's responsibility; the file backend has
// no indexes to enforce it.
func (s *UserStore) Create(ctx context.Context, user *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	users := s.load()

	now := time.Now().UTC()
	user.ID = freshRecordID(func(id string) bool {
		for _, u := range users {
			if u.ID == id {
				return true
			}
		}
		return false
	})
	user.CreatedAt = now
	user.UpdatedAt = now
	if user.Role == "" {
		user.Role = models.RoleCustomer
	}

	users = append(users, *user)
	return writeJSON(s.path, users)
}

// FindByID scans for an exact ID match.
func (s *UserStore) FindByID(ctx context.Context, id string) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, user := range s.load() {
		if user.ID == id {
			found := user
			return &found, nil
		}
	}
	return nil, store.ErrNotFound
}

// FindByLogin matches login against username or email (stored lowercase).
func (s *UserStore) FindByLogin(ctx context.Context, login string) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, user := range s.load() {
		if user.Username == login || user.Email == login {
			found := user
			return &found, nil
		}
	}
	return nil, store.ErrNotFound
}

// Update merges the patch onto the stored record, refreshes updatedAt and
// rewrites the file. Returns store.ErrNotFound if the ID is absent.
func (s *UserStore) Update(ctx context.Context, id string, patch store.UserPatch) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	users := s.load()
	for i := range users {
		if users[i].ID != id {
			continue
		}
		if patch.PasswordHash != nil {
			users[i].PasswordHash = *patch.PasswordHash
		}
		if patch.LastLogin != nil {
			users[i].LastLogin = patch.LastLogin
		}
		if patch.IsActive != nil {
			users[i].IsActive = *patch.IsActive
		}
		users[i].UpdatedAt = time.Now().UTC()
		if err := writeJSON(s.path, users); err != nil {
			return nil, err
		}
		updated := users[i]
		return &updated, nil
	}
	return nil, store.ErrNotFound
}
