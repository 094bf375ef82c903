package mongodb

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/IT22091352/wasana-products/internal/db"
	"github.com/IT22091352/wasana-products/internal/models"
	"github.com/IT22091352/wasana-products/internal/store"
	"github.com/IT22091352/wasana-products/internal/utils"
)

const usersCollection = "users"

// UserStore is the MongoDB implementation of store.UserStore.
type UserStore struct {
	col *mongo.Collection
}

// NewUserStore returns a UserStore over db's users collection.
func NewUserStore(database *mongo.Database) *UserStore {
	return &UserStore{col: database.Collection(usersCollection)}
}

// EnsureIndexes creates the unique username/email indexes.
func (s *UserStore) EnsureIndexes(ctx context.Context) error {
	unique := options.Index().SetUnique(true)
	_, err := s.col.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "username", Value: 1}}, Options: unique},
		{Keys: bson.D{{Key: "email", Value: 1}}, Options: unique},
	})
	if err != nil {
		return fmt.Errorf("failed to create user indexes: %w", err)
	}
	return nil
}

// Create inserts the user with a fresh record ID, timestamps and the default
// role. _id collisions are retried with a regenerated ID; username/email
// index violations surface as store.ErrLoginTaken.
func (s *UserStore) Create(ctx context.Context, user *models.User) error {
	now := time.Now().UTC()
	user.CreatedAt = now
	user.UpdatedAt = now
	if user.Role == "" {
		user.Role = models.RoleCustomer
	}

	operation := func() error {
		user.ID = utils.NewRecordID() // regenerated on each attempt
		_, err := s.col.InsertOne(ctx, user)
		return err
	}
	if err := db.Try(operation); err != nil {
		if db.IsMongoDuplicateKeyError(err) &&
			(strings.Contains(err.Error(), "username_1") || strings.Contains(err.Error(), "email_1")) {
			return store.ErrLoginTaken
		}
		return fmt.Errorf("error inserting user: %w", err)
	}
	return nil
}

// FindByID returns the user with the given ID, or store.ErrNotFound.
func (s *UserStore) FindByID(ctx context.Context, id string) (*models.User, error) {
	var user models.User
	err := s.col.FindOne(ctx, bson.M{"_id": id}).Decode(&user)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, store.ErrNotFound
		}
		return nil, fmt.Errorf("error finding user %s: %w", id, err)
	}
	return &user, nil
}

// FindByLogin matches login against username or email. Stored values are
// lowercase; callers lowercase the login first.
func (s *UserStore) FindByLogin(ctx context.Context, login string) (*models.User, error) {
	var user models.User
	filter := bson.M{"$or": bson.A{
		bson.M{"username": login},
		bson.M{"email": login},
	}}
	err := s.col.FindOne(ctx, filter).Decode(&user)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, store.ErrNotFound
		}
		return nil, fmt.Errorf("error finding user by login %s: %w", login, err)
	}
	return &user, nil
}

// Update applies the patch fields and refreshes updatedAt, returning the
// updated document or store.ErrNotFound.
func (s *UserStore) Update(ctx context.Context, id string, patch store.UserPatch) (*models.User, error) {
	set := bson.M{"updatedAt": time.Now().UTC()}
	if patch.PasswordHash != nil {
		set["password"] = *patch.PasswordHash
	}
	if patch.LastLogin != nil {
		set["last_login"] = *patch.LastLogin
	}
	if patch.IsActive != nil {
		set["is_active"] = *patch.IsActive
	}

	after := options.After
	var updated models.User
	err := s.col.FindOneAndUpdate(ctx,
		bson.M{"_id": id},
		bson.M{"$set": set},
		options.FindOneAndUpdate().SetReturnDocument(after),
	).Decode(&updated)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, store.ErrNotFound
		}
		return nil, fmt.Errorf("error updating user %s: %w", id, err)
	}
	return &updated, nil
}
