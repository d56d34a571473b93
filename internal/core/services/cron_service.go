package services

import (
	"context"
	"log"
	"time"

	"github.com/robfig/cron/v3"
)

// CronService runs scheduled background jobs
type CronService struct {
	cron    *cron.Cron
	reports *ReportService
}

// NewCronService creates a new cron service
func NewCronService(reports *ReportService) *CronService {
	return &CronService{
		cron:    cron.New(),
		reports: reports,
	}
}

// Start registers the jobs and starts the scheduler
func (s *CronService) Start() error {
	// Daily stats summary at 08:30
	if _, err := s.cron.AddFunc("30 8 * * *", s.logDailyStats); err != nil {
		return err
	}

	s.cron.Start()
	log.Printf("✅ Cron scheduler started")
	return nil
}

// Stop stops the scheduler and waits for running jobs
func (s *CronService) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	log.Printf("✅ Cron scheduler stopped")
}

func (s *CronService) logDailyStats() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	stats, err := s.reports.Dashboard(ctx)
	if err != nil {
		log.Printf("❌ Daily stats job failed: %v", err)
		return
	}

	log.Printf("📊 Daily stats: %d users (%d active, %d inactive), %d new in last 30 days",
		stats.TotalUsers, stats.ActiveUsers, stats.InactiveUsers, stats.NewUsersLast30Days)
}
