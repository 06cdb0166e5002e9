package scheduler

import (
	"time"

	"github.com/robfig/cron/v3"

	"github.com/bhmida/bricodirect-backend/internal/app/repository"
	"github.com/bhmida/bricodirect-backend/pkg/logger"
)

// QuotationExpiryScheduler marks quotations that sat unanswered past the
// configured number of days as EXPIRED.
type QuotationExpiryScheduler struct {
	cron       *cron.Cron
	orderRepo  repository.OrderRepository
	expiryDays int
}

func NewQuotationExpiryScheduler(orderRepo repository.OrderRepository, expiryDays int) *QuotationExpiryScheduler {
	return &QuotationExpiryScheduler{
		cron:       cron.New(),
		orderRepo:  orderRepo,
		expiryDays: expiryDays,
	}
}

// Start schedules the expiry sweep daily at 02:00 server time, and runs one
// sweep immediately so a restart never leaves stale quotations pending.
func (s *QuotationExpiryScheduler) Start() error {
	_, err := s.cron.AddFunc("0 2 * * *", s.sweep)
	if err != nil {
		logger.Error("Failed to add cron job for quotation expiry", err)
		return err
	}

	s.cron.Start()
	logger.Info("Quotation expiry scheduler started (daily at 2:00 AM)", map[string]interface{}{
		"expiry_days": s.expiryDays,
	})

	go s.sweep()

	return nil
}

func (s *QuotationExpiryScheduler) Stop() {
	logger.Info("Stopping quotation expiry scheduler...", nil)
	s.cron.Stop()
	logger.Info("Quotation expiry scheduler stopped", nil)
}

func (s *QuotationExpiryScheduler) sweep() {
	before := time.Now().AddDate(0, 0, -s.expiryDays)

	expired, err := s.orderRepo.ExpireStaleQuotations(before)
	if err != nil {
		logger.Error("Failed to expire stale quotations", err)
		return
	}

	if expired > 0 {
		logger.Info("Expired stale quotations", map[string]interface{}{
			"count":  expired,
			"before": before.Format(time.RFC3339),
		})
	}
}
