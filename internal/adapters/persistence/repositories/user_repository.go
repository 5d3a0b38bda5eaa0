package repositories

import (
	"context"
	"errors"

	"kidwallet-api/internal/adapters/persistence/githubstore"
	"kidwallet-api/internal/adapters/persistence/models"
	"kidwallet-api/internal/core/domain"
)

// userRepository implements UserRepository over the document store
type userRepository struct {
	store *githubstore.Client
}

// NewUserRepository creates a new user repository
func NewUserRepository(store *githubstore.Client) UserRepository {
	return &userRepository{store: store}
}

// All loads the global users collection. A missing document is an empty
// collection, not an error.
func (r *userRepository) All(ctx context.Context) (*UserCollection, error) {
	var users []models.User
	sha, err := r.store.GetJSON(ctx, githubstore.UsersPath, &users)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return &UserCollection{Users: []models.User{}}, nil
		}
		return nil, err
	}
	return &UserCollection{Users: users, SHA: sha}, nil
}

// Save writes the collection back carrying the version tag it was read with
func (r *userRepository) Save(ctx context.Context, col *UserCollection, message string) error {
	return r.store.PutJSON(ctx, githubstore.UsersPath, col.Users, col.SHA, message)
}

// FindByUserID gets a user by userId
func (r *userRepository) FindByUserID(ctx context.Context, userID string) (*models.User, error) {
	col, err := r.All(ctx)
	if err != nil {
		return nil, err
	}
	for i := range col.Users {
		if col.Users[i].UserID == userID {
			return &col.Users[i], nil
		}
	}
	return nil, domain.ErrUserNotFound
}

