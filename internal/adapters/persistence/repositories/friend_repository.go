package repositories

import (
	"context"
	"errors"

	"kidwallet-api/internal/adapters/persistence/githubstore"
	"kidwallet-api/internal/adapters/persistence/models"
	"kidwallet-api/internal/core/domain"
)

// friendRepository implements FriendRepository over the document store
type friendRepository struct {
	store *githubstore.Client
}

// NewFriendRepository creates a new friend repository
func NewFriendRepository(store *githubstore.Client) FriendRepository {
	return &friendRepository{store: store}
}

// All loads the global friends collection; missing document means empty
func (r *friendRepository) All(ctx context.Context) (*FriendCollection, error) {
	var friends []models.Friend
	sha, err := r.store.GetJSON(ctx, githubstore.FriendsPath, &friends)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return &FriendCollection{Friends: []models.Friend{}}, nil
		}
		return nil, err
	}
	return &FriendCollection{Friends: friends, SHA: sha}, nil
}

// Save writes the collection back carrying the version tag it was read with
func (r *friendRepository) Save(ctx context.Context, col *FriendCollection, message string) error {
	return r.store.PutJSON(ctx, githubstore.FriendsPath, col.Friends, col.SHA, message)
}
