package domain

import "errors"

// Common domain errors
var (
	ErrNotFound           = errors.New("resource not found")
	ErrInvalidInput       = errors.New("invalid input")
	ErrUnauthorized       = errors.New("unauthorized")
	ErrForbidden          = errors.New("forbidden")
	ErrInternalServer     = errors.New("internal server error")
	ErrDuplicateEntry     = errors.New("duplicate entry")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrTokenExpired       = errors.New("token expired")
	ErrTokenInvalid       = errors.New("token invalid")
)

// Store errors
var (
	ErrStoreUnavailable = errors.New("document store unavailable")
	ErrVersionConflict  = errors.New("document changed since last read")
)

// UserErrors
var (
	ErrUserNotFound      = errors.New("user not found")
	ErrUserAlreadyExists = errors.New("user already exists")
	ErrInvalidPassword   = errors.New("invalid password")
)

// ReferralErrors
var (
	ErrFriendNotFound  = errors.New("friend not found")
	ErrDuplicateFriend = errors.New("friend email already added by this user")
	ErrEmailNotAllowed = errors.New("email domain not in allow-list")
	ErrInvalidEmail    = errors.New("invalid email address")
)

// WithdrawalErrors
var (
	ErrNotEligible        = errors.New("not eligible for withdrawal")
	ErrAmountBelowMinimum = errors.New("amount below minimum withdrawal")
	ErrAmountExceedsFunds = errors.New("amount exceeds available balance")
)
