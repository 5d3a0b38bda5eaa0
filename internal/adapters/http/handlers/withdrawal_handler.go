package handlers

import (
	"errors"

	"kidwallet-api/internal/adapters/http/middleware"
	"kidwallet-api/internal/core/domain"
	"kidwallet-api/internal/core/services"
	"kidwallet-api/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// WithdrawalHandler handles withdrawal endpoints
type WithdrawalHandler struct {
	withdrawalService *services.WithdrawalService
}

// NewWithdrawalHandler creates a new withdrawal handler
func NewWithdrawalHandler(withdrawalService *services.WithdrawalService) *WithdrawalHandler {
	return &WithdrawalHandler{withdrawalService: withdrawalService}
}

// WithdrawalRequest represents withdrawal request body
type WithdrawalRequest struct {
	Amount        int    `json:"amount"`
	Method        string `json:"method"`
	AccountNumber string `json:"accountNumber"`
	AccountTitle  string `json:"accountTitle"`
}

// Eligibility returns the withdrawal eligibility gate state
// @Summary Withdrawal eligibility
// @Description Check balance and verified-friend requirements, with shortfalls
// @Tags Withdrawals
// @Accept json
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Failure 401 {object} response.Response
// @Router /withdrawals/eligibility [get]
func (h *WithdrawalHandler) Eligibility(c *fiber.Ctx) error {
	userID := middleware.UserID(c)
	if userID == "" {
		return response.Unauthorized(c, "Unauthorized")
	}

	eligibility, err := h.withdrawalService.Eligibility(c.Context(), userID)
	if err != nil {
		if errors.Is(err, services.ErrUserNotFound) {
			return response.NotFound(c, "User not found")
		}
		return response.InternalServerError(c, "Failed to check eligibility")
	}

	return response.Success(c, "Eligibility retrieved successfully", fiber.Map{
		"eligibility": eligibility,
	})
}

// Request handles a new withdrawal request
// @Summary Request withdrawal
// @Description Submit a withdrawal request for admin processing
// @Tags Withdrawals
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body WithdrawalRequest true "Withdrawal details"
// @Success 201 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 403 {object} response.Response
// @Router /withdrawals [post]
func (h *WithdrawalHandler) Request(c *fiber.Ctx) error {
	userID := middleware.UserID(c)
	if userID == "" {
		return response.Unauthorized(c, "Unauthorized")
	}

	var req WithdrawalRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	input := &services.RequestWithdrawalInput{
		Amount:        req.Amount,
		Method:        req.Method,
		AccountNumber: req.AccountNumber,
		AccountTitle:  req.AccountTitle,
	}

	withdrawal, err := h.withdrawalService.Request(c.Context(), userID, input)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrMissingWithdrawalFields):
			return response.BadRequest(c, err.Error())
		case errors.Is(err, domain.ErrAmountBelowMinimum):
			return response.BadRequest(c, "Minimum withdrawal amount is Rs. 1550")
		case errors.Is(err, domain.ErrNotEligible):
			return response.Forbidden(c, "Withdrawal requirements not met")
		case errors.Is(err, domain.ErrAmountExceedsFunds):
			return response.BadRequest(c, "Amount exceeds available funds")
		case errors.Is(err, services.ErrUserNotFound):
			return response.NotFound(c, "User not found")
		case errors.Is(err, domain.ErrVersionConflict):
			return response.VersionConflict(c)
		default:
			return response.InternalServerError(c, "Failed to submit withdrawal request")
		}
	}

	return response.Created(c, "Withdrawal request submitted successfully", fiber.Map{
		"withdrawal": withdrawal,
	})
}

// List returns the user's withdrawal history
// @Summary List withdrawals
// @Description Get the user's withdrawal requests, newest first
// @Tags Withdrawals
// @Accept json
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Failure 401 {object} response.Response
// @Router /withdrawals [get]
func (h *WithdrawalHandler) List(c *fiber.Ctx) error {
	userID := middleware.UserID(c)
	if userID == "" {
		return response.Unauthorized(c, "Unauthorized")
	}

	withdrawals, err := h.withdrawalService.ListWithdrawals(c.Context(), userID)
	if err != nil {
		return response.InternalServerError(c, "Failed to load withdrawals")
	}

	return response.Success(c, "Withdrawals retrieved successfully", fiber.Map{
		"withdrawals": withdrawals,
		"total":       len(withdrawals),
	})
}
