package repositories

import (
	"context"
	"errors"

	"kidwallet-api/internal/adapters/persistence/githubstore"
	"kidwallet-api/internal/adapters/persistence/models"
	"kidwallet-api/internal/core/domain"
)

// withdrawalRepository implements WithdrawalRepository over the document store
type withdrawalRepository struct {
	store *githubstore.Client
}

// NewWithdrawalRepository creates a new withdrawal repository
func NewWithdrawalRepository(store *githubstore.Client) WithdrawalRepository {
	return &withdrawalRepository{store: store}
}

// All loads the global withdrawals collection; missing document means empty
func (r *withdrawalRepository) All(ctx context.Context) (*WithdrawalCollection, error) {
	var withdrawals []models.Withdrawal
	sha, err := r.store.GetJSON(ctx, githubstore.WithdrawalsPath, &withdrawals)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return &WithdrawalCollection{Withdrawals: []models.Withdrawal{}}, nil
		}
		return nil, err
	}
	return &WithdrawalCollection{Withdrawals: withdrawals, SHA: sha}, nil
}

// Save writes the collection back carrying the version tag it was read with
func (r *withdrawalRepository) Save(ctx context.Context, col *WithdrawalCollection, message string) error {
	return r.store.PutJSON(ctx, githubstore.WithdrawalsPath, col.Withdrawals, col.SHA, message)
}
