package services

import (
	"context"
	"log"
	"time"

	"kidwallet-api/internal/adapters/persistence/githubstore"
	"kidwallet-api/internal/adapters/persistence/repositories"

	"github.com/robfig/cron/v3"
)

// CronService runs the background jobs: store heartbeat with cache refresh,
// and expired-session cleanup.
type CronService struct {
	cron             *cron.Cron
	store            *githubstore.Client
	refreshTokenRepo repositories.RefreshTokenRepository
}

// NewCronService creates a new cron service
func NewCronService(store *githubstore.Client, refreshTokenRepo repositories.RefreshTokenRepository) *CronService {
	return &CronService{
		cron:             cron.New(),
		store:            store,
		refreshTokenRepo: refreshTokenRepo,
	}
}

// Start registers and launches the scheduled jobs
func (s *CronService) Start() {
	// Heartbeat + cache refresh every 15 minutes. Dropping the read cache
	// bounds how stale this instance can get against writers in other
	// sessions; the store itself stays last-write-wins.
	s.cron.AddFunc("@every 15m", s.heartbeat)

	// Expired session cleanup daily at 03:00
	s.cron.AddFunc("0 3 * * *", s.cleanupSessions)

	s.cron.Start()
	log.Println("🚀 CronService started")
}

// Stop stops the scheduler, waiting for a running job to finish
func (s *CronService) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	log.Println("🛑 CronService stopped")
}

func (s *CronService) heartbeat() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := s.store.CheckAccess(ctx); err != nil {
		log.Printf("⚠️ Store heartbeat failed: %v", err)
		return
	}
	s.store.InvalidateAll()
}

func (s *CronService) cleanupSessions() {
	removed, err := s.refreshTokenRepo.DeleteExpired(context.Background())
	if err != nil {
		log.Printf("⚠️ Session cleanup failed: %v", err)
		return
	}
	if removed > 0 {
		log.Printf("✅ Session cleanup removed %d expired tokens", removed)
	}
}
