package handlers

import (
	"errors"

	"kidwallet-api/internal/adapters/http/middleware"
	"kidwallet-api/internal/core/domain"
	"kidwallet-api/internal/core/services"
	"kidwallet-api/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// ReferralHandler handles friend referral endpoints
type ReferralHandler struct {
	referralService *services.ReferralService
}

// NewReferralHandler creates a new referral handler
func NewReferralHandler(referralService *services.ReferralService) *ReferralHandler {
	return &ReferralHandler{referralService: referralService}
}

// AddFriendRequest represents add-friend request body
type AddFriendRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Whatsapp string `json:"whatsapp"`
}

// AddFriend handles a new friend referral
// @Summary Add friend
// @Description Submit a friend's account details for verification
// @Tags Friends
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body AddFriendRequest true "Friend account details"
// @Success 201 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /friends [post]
func (h *ReferralHandler) AddFriend(c *fiber.Ctx) error {
	userID := middleware.UserID(c)
	if userID == "" {
		return response.Unauthorized(c, "Unauthorized")
	}

	var req AddFriendRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	// Validate required fields
	if req.Email == "" {
		return response.BadRequest(c, "Email is required")
	}
	if req.Password == "" {
		return response.BadRequest(c, "Password is required")
	}

	input := &services.AddFriendInput{
		Email:    req.Email,
		Password: req.Password,
		Whatsapp: req.Whatsapp,
	}

	friend, err := h.referralService.AddFriend(c.Context(), userID, input)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrInvalidEmail):
			return response.BadRequest(c, "Invalid email format")
		case errors.Is(err, domain.ErrEmailNotAllowed):
			return response.BadRequest(c, "Email domain is not allowed")
		case errors.Is(err, services.ErrPasswordTooShort):
			return response.BadRequest(c, err.Error())
		case errors.Is(err, domain.ErrDuplicateFriend):
			return response.Conflict(c, "You have already added this email")
		case errors.Is(err, services.ErrUserNotFound):
			return response.NotFound(c, "User not found")
		case errors.Is(err, domain.ErrVersionConflict):
			return response.VersionConflict(c)
		default:
			return response.InternalServerError(c, "Failed to add friend")
		}
	}

	return response.Created(c, "Friend added successfully", fiber.Map{
		"friend": friend,
	})
}

// ListFriends returns the user's referrals
// @Summary List friends
// @Description Get the user's referred friends, newest first
// @Tags Friends
// @Accept json
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Failure 401 {object} response.Response
// @Router /friends [get]
func (h *ReferralHandler) ListFriends(c *fiber.Ctx) error {
	userID := middleware.UserID(c)
	if userID == "" {
		return response.Unauthorized(c, "Unauthorized")
	}

	friends, err := h.referralService.ListFriends(c.Context(), userID)
	if err != nil {
		return response.InternalServerError(c, "Failed to load friends")
	}

	return response.Success(c, "Friends retrieved successfully", fiber.Map{
		"friends": friends,
		"total":   len(friends),
	})
}

// Summary returns the task page reward figures
// @Summary Task summary
// @Description Get level, verified friend count, current rate and total earnings
// @Tags Friends
// @Accept json
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Failure 401 {object} response.Response
// @Router /friends/summary [get]
func (h *ReferralHandler) Summary(c *fiber.Ctx) error {
	userID := middleware.UserID(c)
	if userID == "" {
		return response.Unauthorized(c, "Unauthorized")
	}

	summary, err := h.referralService.Summary(c.Context(), userID)
	if err != nil {
		if errors.Is(err, services.ErrUserNotFound) {
			return response.NotFound(c, "User not found")
		}
		return response.InternalServerError(c, "Failed to load summary")
	}

	return response.Success(c, "Summary retrieved successfully", fiber.Map{
		"summary": summary,
	})
}
