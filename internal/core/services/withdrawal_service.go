package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sort"
	"strings"
	"time"

	"kidwallet-api/internal/adapters/persistence/models"
	"kidwallet-api/internal/adapters/persistence/repositories"
	"kidwallet-api/internal/core/domain"
	"kidwallet-api/internal/pkg/identifier"
)

// Withdrawal errors
var (
	ErrMissingWithdrawalFields = errors.New("method, account number, account title and amount are required")
)

// processingWindow is the promised processing time for a withdrawal request
const processingWindow = 72 * time.Hour

// WithdrawalService handles withdrawal eligibility and requests
type WithdrawalService struct {
	userRepo       repositories.UserRepository
	withdrawalRepo repositories.WithdrawalRepository
	userFileRepo   repositories.UserFileRepository
}

// NewWithdrawalService creates a new withdrawal service
func NewWithdrawalService(
	userRepo repositories.UserRepository,
	withdrawalRepo repositories.WithdrawalRepository,
	userFileRepo repositories.UserFileRepository,
) *WithdrawalService {
	return &WithdrawalService{
		userRepo:       userRepo,
		withdrawalRepo: withdrawalRepo,
		userFileRepo:   userFileRepo,
	}
}

// RequestWithdrawalInput represents a withdrawal form submission
type RequestWithdrawalInput struct {
	Amount        int    `json:"amount"`
	Method        string `json:"method"`
	AccountNumber string `json:"accountNumber"`
	AccountTitle  string `json:"accountTitle"`
}

// Eligibility evaluates the withdrawal gate against freshly fetched user state
func (s *WithdrawalService) Eligibility(ctx context.Context, userID string) (*domain.Eligibility, error) {
	user, err := s.userRepo.FindByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	e := domain.CheckEligibility(user.Balance, user.VerifiedFriends)
	return &e, nil
}

// Request records a pending withdrawal. The balance is NOT deducted here;
// deduction happens only when an admin approves the request. The eligibility
// gate is re-checked against fresh store state even though the submitting UI
// already checked it.
func (s *WithdrawalService) Request(ctx context.Context, userID string, input *RequestWithdrawalInput) (*models.Withdrawal, error) {
	method := strings.TrimSpace(input.Method)
	accountNumber := strings.TrimSpace(input.AccountNumber)
	accountTitle := strings.TrimSpace(input.AccountTitle)

	// 1. Validate the submission
	if method == "" || accountNumber == "" || accountTitle == "" || input.Amount == 0 {
		return nil, ErrMissingWithdrawalFields
	}
	if input.Amount < domain.MinWithdrawalAmount {
		return nil, domain.ErrAmountBelowMinimum
	}

	// 2. Re-fetch the user and re-check the gate
	user, err := s.userRepo.FindByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	if e := domain.CheckEligibility(user.Balance, user.VerifiedFriends); !e.Eligible {
		return nil, domain.ErrNotEligible
	}
	if input.Amount > user.Balance {
		return nil, domain.ErrAmountExceedsFunds
	}

	// 3. Build the withdrawal record
	now := time.Now()
	newWithdrawal := models.Withdrawal{
		ID:                  identifier.NewRecordID(now),
		UserID:              user.UserID,
		Username:            user.Username,
		FullName:            user.FullName,
		Email:               user.Email,
		Amount:              input.Amount,
		Method:              method,
		AccountNumber:       accountNumber,
		AccountTitle:        accountTitle,
		Status:              domain.WithdrawalStatusPending,
		RequestedAt:         models.Timestamp(now),
		EstimatedCompletion: models.Timestamp(now.Add(processingWindow)),
		Notes:               "Withdrawal request submitted. Will be processed within 72 hours.",
	}

	// 4. Append the withdrawal and an activity entry to the per-user document
	if file, sha, err := s.userFileRepo.Get(ctx, user.UserID); err == nil {
		if file.Withdrawals == nil {
			file.Withdrawals = []models.Withdrawal{}
		}
		file.Withdrawals = append(file.Withdrawals, newWithdrawal)
		file.AppendActivity(models.Activity{
			Type:         models.ActivityWithdrawalRequested,
			Date:         models.Timestamp(time.Now()),
			Message:      fmt.Sprintf("Withdrawal request: Rs. %d via %s", input.Amount, method),
			WithdrawalID: newWithdrawal.ID,
		})
		if err := s.userFileRepo.Save(ctx, user.UserID, file, sha, "Withdrawal request by "+user.Username); err != nil {
			return nil, err
		}
	} else if !errors.Is(err, domain.ErrNotFound) {
		return nil, err
	}

	// 5. Append to the global withdrawals collection for admin views
	col, err := s.withdrawalRepo.All(ctx)
	if err != nil {
		return nil, err
	}
	col.Withdrawals = append(col.Withdrawals, newWithdrawal)
	if err := s.withdrawalRepo.Save(ctx, col, "New withdrawal request by "+user.Username); err != nil {
		return nil, err
	}

	log.Printf("✅ Withdrawal requested: Rs. %d by %s", input.Amount, user.Username)
	return &newWithdrawal, nil
}

// ListWithdrawals returns the user's withdrawal history, newest first
func (s *WithdrawalService) ListWithdrawals(ctx context.Context, userID string) ([]models.Withdrawal, error) {
	file, _, err := s.userFileRepo.Get(ctx, userID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return []models.Withdrawal{}, nil
		}
		return nil, err
	}

	withdrawals := file.Withdrawals
	if withdrawals == nil {
		withdrawals = []models.Withdrawal{}
	}
	sort.SliceStable(withdrawals, func(i, j int) bool {
		return withdrawals[i].RequestedAt > withdrawals[j].RequestedAt
	})
	return withdrawals, nil
}
