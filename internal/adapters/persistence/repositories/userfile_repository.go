package repositories

import (
	"context"

	"kidwallet-api/internal/adapters/persistence/githubstore"
	"kidwallet-api/internal/adapters/persistence/models"
)

// userFileRepository implements UserFileRepository over the document store
type userFileRepository struct {
	store *githubstore.Client
}

// NewUserFileRepository creates a new per-user document repository
func NewUserFileRepository(store *githubstore.Client) UserFileRepository {
	return &userFileRepository{store: store}
}

// Get loads the per-user aggregate document and its version tag.
// Unlike the collections, a missing per-user file IS an error
// (domain.ErrNotFound): it only exists for users that signed up.
func (r *userFileRepository) Get(ctx context.Context, userID string) (*models.UserFile, string, error) {
	var file models.UserFile
	sha, err := r.store.GetJSON(ctx, githubstore.UserFilePath(userID), &file)
	if err != nil {
		return nil, "", err
	}
	return &file, sha, nil
}

// Save writes the document back; sha is "" when creating it at signup
func (r *userFileRepository) Save(ctx context.Context, userID string, file *models.UserFile, sha, message string) error {
	return r.store.PutJSON(ctx, githubstore.UserFilePath(userID), file, sha, message)
}
