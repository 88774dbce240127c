// Package scheduler
package scheduler

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/marafiq-hq/staffing-crm/models"
	"github.com/marafiq-hq/staffing-crm/repository"
	"github.com/marafiq-hq/staffing-crm/utils"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

const (
	expiryLockKey = "staffingcrm:quote_expiry:lock"
	expiryLockTTL = 5 * time.Minute
	expiryBatch   = 500
)

// QuoteExpiryScheduler periodically sweeps quotes whose validity window has
// lapsed and moves them to expired. A Redis lock keeps the sweep single-flight
// when several instances run behind a load balancer.
type QuoteExpiryScheduler struct {
	quoteRepo repository.QuoteRepository
	auditRepo repository.AuditLogRepository
	db        *gorm.DB
	rc        *redis.Client
	logger    *log.Logger
	interval  time.Duration

	logFile *os.File
}

func NewQuoteExpiryScheduler(
	quoteRepo repository.QuoteRepository,
	auditRepo repository.AuditLogRepository,
	db *gorm.DB,
	rc *redis.Client,
	interval time.Duration,
) *QuoteExpiryScheduler {
	if interval <= 0 {
		interval = time.Hour
	}

	s := &QuoteExpiryScheduler{
		quoteRepo: quoteRepo,
		auditRepo: auditRepo,
		db:        db,
		rc:        rc,
		interval:  interval,
	}

	if err := s.initSchedulerLogger(); err != nil {
		s.logger = log.Default()
		s.logger.Printf("scheduler: failed to initialize file logger: %v", err)
	}

	return s
}

// initSchedulerLogger configures a logger that writes to both stdout and a persistent file under data/ (or /data)
func (s *QuoteExpiryScheduler) initSchedulerLogger() error {
	candidates := []string{
		filepath.Join("data"),
		"/data",
	}
	for _, dir := range candidates {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			continue
		}
		logPath := filepath.Join(dir, "scheduler.log")
		f, err := os.OpenFile(logPath, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
		if err != nil {
			continue
		}
		s.logFile = f
		mw := io.MultiWriter(os.Stdout, f)
		s.logger = log.New(mw, "scheduler ", log.LstdFlags|log.Lmicroseconds|log.LUTC)
		return nil
	}
	return fmt.Errorf("could not create scheduler log file in any candidate directory")
}

// Start launches the scheduler loop in a background goroutine and returns a stop function
func (s *QuoteExpiryScheduler) Start(parent context.Context) func() {
	ctx, cancel := context.WithCancel(parent)

	go func() {
		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()

		s.runOnce(ctx)

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				s.runOnce(ctx)
			}
		}
	}()

	return cancel
}

func (s *QuoteExpiryScheduler) runOnce(ctx context.Context) {
	if !s.acquireLock(ctx) {
		return
	}
	defer s.releaseLock(ctx)

	now := utils.UTCNow()
	quotes, err := s.quoteRepo.ListExpirable(ctx, now, expiryBatch)
	if err != nil {
		s.logger.Printf("scheduler: list expirable quotes failed: %v", err)
		return
	}
	if len(quotes) == 0 {
		return
	}
	s.logger.Printf("scheduler: %d quotes past validity", len(quotes))

	expired := 0
	for _, q := range quotes {
		if err := s.expireQuote(ctx, q, now); err != nil {
			s.logger.Printf("scheduler: expire quote id=%d failed: %v", q.ID, err)
			continue
		}
		expired++
	}
	if expired > 0 {
		s.logger.Printf("scheduler: expired %d quotes", expired)
	}
}

func (s *QuoteExpiryScheduler) expireQuote(ctx context.Context, quote *models.Quote, now time.Time) error {
	return repository.WithTransaction(ctx, s.db, func(txCtx context.Context) error {
		previous := quote.Status
		quote.Status = models.QuoteStatusExpired
		quote.UpdatedAt = now
		if err := s.quoteRepo.Update(txCtx, quote); err != nil {
			return err
		}

		description := fmt.Sprintf("Quote %s expired: %s -> %s", quote.Code, previous, models.QuoteStatusExpired)
		entry := &models.AuditLog{
			Action:      models.AuditActionQuoteExpired,
			EntityType:  utils.ToPtr("quote"),
			EntityID:    &quote.ID,
			Description: &description,
			Success:     utils.ToPtr(true),
			CreatedAt:   now,
		}
		return s.auditRepo.Save(txCtx, entry)
	})
}

func (s *QuoteExpiryScheduler) acquireLock(ctx context.Context) bool {
	if s.rc == nil {
		// Single-instance deployments run without Redis coordination
		return true
	}
	ok, err := s.rc.SetNX(ctx, expiryLockKey, utils.UTCNow().Format(time.RFC3339), expiryLockTTL).Result()
	if err != nil {
		s.logger.Printf("scheduler: expiry lock acquire failed: %v", err)
		return false
	}
	return ok
}

func (s *QuoteExpiryScheduler) releaseLock(ctx context.Context) {
	if s.rc == nil {
		return
	}
	if err := s.rc.Del(ctx, expiryLockKey).Err(); err != nil {
		s.logger.Printf("scheduler: expiry lock release failed: %v", err)
	}
}

// Close releases the scheduler's log file handle
func (s *QuoteExpiryScheduler) Close() error {
	if s.logFile != nil {
		return s.logFile.Close()
	}
	return nil
}
