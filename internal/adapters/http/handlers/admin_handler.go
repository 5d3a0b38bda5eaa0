package handlers

import (
	"kidwallet-api/internal/adapters/persistence/models"
	"kidwallet-api/internal/adapters/persistence/repositories"
	"kidwallet-api/internal/pkg/pagination"
	"kidwallet-api/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// AdminHandler handles admin read-only listing endpoints. Status transitions
// on friends and withdrawals are performed out of band, directly against the
// store; the API only exposes the current state.
type AdminHandler struct {
	userRepo       repositories.UserRepository
	friendRepo     repositories.FriendRepository
	withdrawalRepo repositories.WithdrawalRepository
}

// NewAdminHandler creates a new admin handler
func NewAdminHandler(
	userRepo repositories.UserRepository,
	friendRepo repositories.FriendRepository,
	withdrawalRepo repositories.WithdrawalRepository,
) *AdminHandler {
	return &AdminHandler{
		userRepo:       userRepo,
		friendRepo:     friendRepo,
		withdrawalRepo: withdrawalRepo,
	}
}

// ListUsers returns all registered users
// @Summary List users (Admin)
// @Description Get all registered users with pagination
// @Tags Admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page number" default(1)
// @Param limit query int false "Items per page" default(20)
// @Success 200 {object} response.Response
// @Failure 403 {object} response.Response
// @Router /admin/users [get]
func (h *AdminHandler) ListUsers(c *fiber.Ctx) error {
	params := pagination.GetParams(c)

	col, err := h.userRepo.All(c.Context())
	if err != nil {
		return response.InternalServerError(c, "Failed to load users")
	}

	total := len(col.Users)
	start, end := pagination.Slice(params, total)

	users := make([]*models.UserResponse, 0, end-start)
	for i := start; i < end; i++ {
		users = append(users, col.Users[i].ToResponse())
	}

	return response.Success(c, "Users retrieved successfully",
		pagination.NewResponse(users, params, int64(total)))
}

// ListFriends returns all friend referrals
// @Summary List friends (Admin)
// @Description Get all friend referrals with pagination
// @Tags Admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page number" default(1)
// @Param limit query int false "Items per page" default(20)
// @Success 200 {object} response.Response
// @Failure 403 {object} response.Response
// @Router /admin/friends [get]
func (h *AdminHandler) ListFriends(c *fiber.Ctx) error {
	params := pagination.GetParams(c)

	col, err := h.friendRepo.All(c.Context())
	if err != nil {
		return response.InternalServerError(c, "Failed to load friends")
	}

	total := len(col.Friends)
	start, end := pagination.Slice(params, total)

	return response.Success(c, "Friends retrieved successfully",
		pagination.NewResponse(col.Friends[start:end], params, int64(total)))
}

// ListWithdrawals returns all withdrawal requests
// @Summary List withdrawals (Admin)
// @Description Get all withdrawal requests with pagination
// @Tags Admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page number" default(1)
// @Param limit query int false "Items per page" default(20)
// @Success 200 {object} response.Response
// @Failure 403 {object} response.Response
// @Router /admin/withdrawals [get]
func (h *AdminHandler) ListWithdrawals(c *fiber.Ctx) error {
	params := pagination.GetParams(c)

	col, err := h.withdrawalRepo.All(c.Context())
	if err != nil {
		return response.InternalServerError(c, "Failed to load withdrawals")
	}

	total := len(col.Withdrawals)
	start, end := pagination.Slice(params, total)

	return response.Success(c, "Withdrawals retrieved successfully",
		pagination.NewResponse(col.Withdrawals[start:end], params, int64(total)))
}
