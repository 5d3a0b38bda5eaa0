package services

import (
	"context"
	"errors"
	"log"
	"strings"
	"time"

	"kidwallet-api/internal/adapters/persistence/models"
	"kidwallet-api/internal/adapters/persistence/repositories"
	"kidwallet-api/internal/config"
	"kidwallet-api/internal/core/domain"
	"kidwallet-api/internal/pkg/identifier"
	"kidwallet-api/internal/pkg/jwt"
	"kidwallet-api/internal/pkg/password"

	"github.com/google/uuid"
)

// Auth errors
var (
	ErrUserNotFound       = errors.New("user not found")
	ErrInvalidCredentials = errors.New("incorrect password")
	ErrUsernameTaken      = errors.New("username already exists")
	ErrEmailTaken         = errors.New("email already registered")
	ErrPasswordTooShort   = errors.New("password must be at least 6 characters")
	ErrUsernameTooShort   = errors.New("username must be at least 3 characters")
	ErrInvalidWhatsapp    = errors.New("whatsapp number must be at least 10 characters")
	ErrInvalidToken       = errors.New("invalid token")
	ErrTokenExpired       = errors.New("token expired")
	ErrTokenRevoked       = errors.New("token revoked")
)

// AuthService handles signup, login and session lifecycle
type AuthService struct {
	userRepo         repositories.UserRepository
	userFileRepo     repositories.UserFileRepository
	refreshTokenRepo repositories.RefreshTokenRepository
	cfg              *config.Config
}

// NewAuthService creates a new auth service
func NewAuthService(
	userRepo repositories.UserRepository,
	userFileRepo repositories.UserFileRepository,
	refreshTokenRepo repositories.RefreshTokenRepository,
	cfg *config.Config,
) *AuthService {
	return &AuthService{
		userRepo:         userRepo,
		userFileRepo:     userFileRepo,
		refreshTokenRepo: refreshTokenRepo,
		cfg:              cfg,
	}
}

// SignupInput represents signup input
type SignupInput struct {
	FullName string `json:"fullName"`
	Username string `json:"username"`
	Password string `json:"password"`
	Email    string `json:"email"`
	Whatsapp string `json:"whatsapp"`
}

// LoginInput represents login input
type LoginInput struct {
	Identifier string `json:"identifier"` // username, email or userId
	Password   string `json:"password"`
}

// TokenPair represents access and refresh tokens
type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

// AuthResponse represents authentication response
type AuthResponse struct {
	User         *models.UserResponse `json:"user"`
	AccessToken  string               `json:"access_token"`
	RefreshToken string               `json:"refresh_token"`
}

// Signup registers a new user. It does not create a session; the caller
// logs in afterwards.
func (s *AuthService) Signup(ctx context.Context, input *SignupInput) (*models.UserResponse, error) {
	username := strings.ToLower(strings.TrimSpace(input.Username))
	email := strings.ToLower(strings.TrimSpace(input.Email))
	whatsapp := strings.TrimSpace(input.Whatsapp)

	// 1. Validate fields
	if !password.Validate(input.Password) {
		return nil, ErrPasswordTooShort
	}
	if len(username) < 3 {
		return nil, ErrUsernameTooShort
	}
	if !domain.IsValidEmailFormat(email) {
		return nil, domain.ErrInvalidEmail
	}
	if !s.cfg.IsEmailDomainAllowed(domain.EmailDomain(email)) {
		return nil, domain.ErrEmailNotAllowed
	}
	if len(whatsapp) < 10 {
		return nil, ErrInvalidWhatsapp
	}

	// 2. Load the users collection
	col, err := s.userRepo.All(ctx)
	if err != nil {
		return nil, err
	}

	// 3. Check username and email uniqueness
	for i := range col.Users {
		if col.Users[i].Username == username {
			return nil, ErrUsernameTaken
		}
		if col.Users[i].Email == email {
			return nil, ErrEmailTaken
		}
	}

	// 4. Draw an unused 8-digit user ID
	userID, err := identifier.NewUserID(func(id string) bool {
		for i := range col.Users {
			if col.Users[i].UserID == id {
				return true
			}
		}
		return false
	})
	if err != nil {
		return nil, err
	}

	// 5. Create the user record
	now := models.Timestamp(time.Now())
	newUser := models.User{
		ID:              userID,
		UserID:          userID,
		Username:        username,
		Password:        input.Password,
		FullName:        strings.TrimSpace(input.FullName),
		Email:           email,
		Whatsapp:        whatsapp,
		Balance:         0,
		Level:           1,
		TotalFriends:    0,
		VerifiedFriends: 0,
		PendingFriends:  0,
		DeclinedFriends: 0,
		IsAdmin:         false,
		Joined:          now,
		LastLogin:       now,
	}

	// 6. Append to the collection and write it back
	col.Users = append(col.Users, newUser)
	if err := s.userRepo.Save(ctx, col, "New user signup: "+username); err != nil {
		return nil, err
	}

	// 7. Create the per-user document with its first activity entry
	userFile := &models.UserFile{
		User:        &newUser,
		Friends:     []models.Friend{},
		Withdrawals: []models.Withdrawal{},
		Activities: []models.Activity{{
			Type:    models.ActivityAccountCreated,
			Date:    now,
			Message: "Account created successfully",
		}},
	}
	if err := s.userFileRepo.Save(ctx, userID, userFile, "", "User profile created for "+userID); err != nil {
		return nil, err
	}

	log.Printf("✅ User registered: %s (UserID: %s)", username, userID)
	return newUser.ToResponse(), nil
}

// Login authenticates a user by username, email or userId and issues a session
func (s *AuthService) Login(ctx context.Context, input *LoginInput) (*AuthResponse, error) {
	identifierValue := strings.ToLower(strings.TrimSpace(input.Identifier))

	// 1. Load the users collection and find the first match
	col, err := s.userRepo.All(ctx)
	if err != nil {
		return nil, err
	}

	idx := -1
	for i := range col.Users {
		u := &col.Users[i]
		if u.Username == identifierValue || u.Email == identifierValue || u.UserID == identifierValue {
			idx = i
			break
		}
	}
	if idx == -1 {
		return nil, ErrUserNotFound
	}

	// 2. Verify password
	user := &col.Users[idx]
	if !password.Verify(input.Password, user.Password) {
		return nil, ErrInvalidCredentials
	}

	// 3. Update last login and write the collection back
	user.LastLogin = models.Timestamp(time.Now())
	if err := s.userRepo.Save(ctx, col, "User login: "+user.Username); err != nil {
		return nil, err
	}

	// 4. Refresh the snapshot in the per-user document and log the activity.
	// A missing per-user file must not block login.
	if file, sha, err := s.userFileRepo.Get(ctx, user.UserID); err == nil {
		file.User = user
		file.AppendActivity(models.Activity{
			Type:    models.ActivityLogin,
			Date:    models.Timestamp(time.Now()),
			Message: "User logged in",
		})
		if err := s.userFileRepo.Save(ctx, user.UserID, file, sha, "User login: "+user.Username); err != nil {
			log.Printf("⚠️ Failed to record login activity for %s: %v", user.UserID, err)
		}
	} else if !errors.Is(err, domain.ErrNotFound) {
		log.Printf("⚠️ Failed to load user file for %s: %v", user.UserID, err)
	}

	// 5. Issue the session token pair
	tokens, err := s.generateTokens(user)
	if err != nil {
		return nil, err
	}

	// 6. Store refresh token
	if err := s.storeRefreshToken(ctx, user.UserID, tokens.RefreshToken); err != nil {
		return nil, err
	}

	log.Printf("✅ User logged in: %s", user.Username)

	return &AuthResponse{
		User:         user.ToResponse(),
		AccessToken:  tokens.AccessToken,
		RefreshToken: tokens.RefreshToken,
	}, nil
}

// RefreshToken rotates the refresh token and issues a new access token
func (s *AuthService) RefreshToken(ctx context.Context, refreshToken string) (*AuthResponse, error) {
	// 1. Validate refresh token JWT
	claims, err := jwt.ValidateRefreshToken(refreshToken, s.cfg.JWT.RefreshSecret)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, ErrInvalidToken
	}

	// 2. Find the stored token by hash
	tokenHash := password.HashToken(refreshToken)
	storedToken, err := s.refreshTokenRepo.GetByTokenHash(ctx, tokenHash)
	if err != nil {
		return nil, ErrInvalidToken
	}

	// 3. Check revocation and expiry
	if storedToken.IsRevoked() {
		return nil, ErrTokenRevoked
	}
	if storedToken.IsExpired() {
		return nil, ErrTokenExpired
	}

	// 4. Re-validate the user against the store; a vanished user ends the session
	user, err := s.userRepo.FindByUserID(ctx, claims.UserID)
	if err != nil {
		return nil, ErrUserNotFound
	}

	// 5. Revoke old refresh token (Token Rotation)
	if err := s.refreshTokenRepo.RevokeByTokenHash(ctx, tokenHash); err != nil {
		return nil, err
	}

	// 6. Issue a new pair
	tokens, err := s.generateTokens(user)
	if err != nil {
		return nil, err
	}
	if err := s.storeRefreshToken(ctx, user.UserID, tokens.RefreshToken); err != nil {
		return nil, err
	}

	log.Printf("✅ Token refreshed for user: %s", user.Username)

	return &AuthResponse{
		User:         user.ToResponse(),
		AccessToken:  tokens.AccessToken,
		RefreshToken: tokens.RefreshToken,
	}, nil
}

// Logout revokes the refresh token
func (s *AuthService) Logout(ctx context.Context, refreshToken string) error {
	tokenHash := password.HashToken(refreshToken)

	if err := s.refreshTokenRepo.RevokeByTokenHash(ctx, tokenHash); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil // already gone, nothing to tear down
		}
		return err
	}

	log.Printf("✅ User logged out")
	return nil
}

// LogoutAll revokes all refresh tokens for a user
func (s *AuthService) LogoutAll(ctx context.Context, userID string) error {
	if err := s.refreshTokenRepo.RevokeAllByUserID(ctx, userID); err != nil {
		return err
	}

	log.Printf("✅ All sessions revoked for user: %s", userID)
	return nil
}

// ValidateAccessToken validates an access token
func (s *AuthService) ValidateAccessToken(accessToken string) (*jwt.Claims, error) {
	return jwt.ValidateAccessToken(accessToken, s.cfg.JWT.Secret)
}

// CurrentUser re-fetches the session user from the store. ErrUserNotFound
// means the session no longer maps to a stored user and must be torn down.
func (s *AuthService) CurrentUser(ctx context.Context, userID string) (*models.UserResponse, error) {
	user, err := s.userRepo.FindByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return user.ToResponse(), nil
}

// generateTokens generates access and refresh tokens
func (s *AuthService) generateTokens(user *models.User) (*TokenPair, error) {
	// Generate access token
	accessToken, err := jwt.GenerateAccessToken(
		user.UserID,
		user.Username,
		user.IsAdmin,
		s.cfg.JWT.Secret,
		s.cfg.JWT.AccessTokenMins,
	)
	if err != nil {
		return nil, err
	}

	// Generate unique token ID
	tokenID := uuid.New().String()

	// Generate refresh token
	refreshToken, err := jwt.GenerateRefreshToken(
		user.UserID,
		tokenID,
		s.cfg.JWT.RefreshSecret,
		s.cfg.JWT.RefreshTokenDays,
	)
	if err != nil {
		return nil, err
	}

	return &TokenPair{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
	}, nil
}

// storeRefreshToken stores a refresh token in the session table
func (s *AuthService) storeRefreshToken(ctx context.Context, userID, refreshToken string) error {
	token := &repositories.RefreshToken{
		UserID:    userID,
		TokenHash: password.HashToken(refreshToken),
		ExpiresAt: jwt.GetExpiryTime(s.cfg.JWT.RefreshTokenDays),
	}
	return s.refreshTokenRepo.Create(ctx, token)
}
