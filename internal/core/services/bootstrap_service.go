package services

import (
	"context"
	"log"
	"time"

	"kidwallet-api/internal/adapters/persistence/githubstore"
	"kidwallet-api/internal/adapters/persistence/models"
	"kidwallet-api/internal/adapters/persistence/repositories"
	"kidwallet-api/internal/config"
	"kidwallet-api/internal/core/domain"
)

// BootstrapService prepares the document store on startup: repository
// reachability, data layout, and the admin account.
type BootstrapService struct {
	store        *githubstore.Client
	userRepo     repositories.UserRepository
	userFileRepo repositories.UserFileRepository
	cfg          *config.Config
}

// NewBootstrapService creates a new bootstrap service
func NewBootstrapService(
	store *githubstore.Client,
	userRepo repositories.UserRepository,
	userFileRepo repositories.UserFileRepository,
	cfg *config.Config,
) *BootstrapService {
	return &BootstrapService{
		store:        store,
		userRepo:     userRepo,
		userFileRepo: userFileRepo,
		cfg:          cfg,
	}
}

// Run performs the full startup sequence
func (s *BootstrapService) Run(ctx context.Context) error {
	// 1. Check repository access
	if err := s.store.CheckAccess(ctx); err != nil {
		return err
	}

	// 2. Initialize the data layout iff missing
	if err := s.store.EnsureInitialized(ctx); err != nil {
		return err
	}

	// 3. Ensure the admin account exists
	if err := s.ensureAdminUser(ctx); err != nil {
		return err
	}

	log.Println("✅ Document store bootstrap completed")
	return nil
}

// ensureAdminUser creates the fixed admin account once, from operator-provided
// credentials. Without ADMIN_PASSWORD in the environment the step is skipped:
// there is deliberately no built-in default credential.
func (s *BootstrapService) ensureAdminUser(ctx context.Context) error {
	if s.cfg.Admin.Password == "" {
		log.Println("⚠️ ADMIN_PASSWORD not set, skipping admin bootstrap")
		return nil
	}

	col, err := s.userRepo.All(ctx)
	if err != nil {
		return err
	}

	for i := range col.Users {
		if col.Users[i].UserID == domain.AdminUserID {
			return nil
		}
	}

	now := models.Timestamp(time.Now())
	adminUser := models.User{
		ID:        domain.AdminUserID,
		UserID:    domain.AdminUserID,
		Username:  s.cfg.Admin.Username,
		Password:  s.cfg.Admin.Password,
		FullName:  "Administrator",
		Email:     s.cfg.Admin.Username + "@" + firstOr(s.cfg.AllowedEmailDomains, "example.com"),
		Whatsapp:  "",
		Balance:   0,
		Level:     10,
		IsAdmin:   true,
		Joined:    now,
		LastLogin: now,
	}

	col.Users = append(col.Users, adminUser)
	if err := s.userRepo.Save(ctx, col, "Created admin user"); err != nil {
		return err
	}

	adminFile := &models.UserFile{
		User:        &adminUser,
		Friends:     []models.Friend{},
		Withdrawals: []models.Withdrawal{},
		Activities: []models.Activity{{
			Type:    models.ActivityAccountCreated,
			Date:    now,
			Message: "Admin account created",
		}},
	}
	if err := s.userFileRepo.Save(ctx, domain.AdminUserID, adminFile, "", "User profile created for "+domain.AdminUserID); err != nil {
		return err
	}

	log.Printf("✅ Admin user created: %s", s.cfg.Admin.Username)
	return nil
}

func firstOr(values []string, fallback string) string {
	if len(values) > 0 {
		return values[0]
	}
	return fallback
}
