package services

import (
	"context"
	"fmt"
	"log"
	"time"

	"edupayhub/internal/core/session"

	"github.com/robfig/cron/v3"
)

// CronService runs background jobs
type CronService struct {
	cron     *cron.Cron
	manager  *session.Manager
	schedule string
}

// NewCronService creates a new cron service sweeping sessions on schedule
func NewCronService(manager *session.Manager, schedule string) *CronService {
	return &CronService{
		cron:     cron.New(),
		manager:  manager,
		schedule: schedule,
	}
}

// Start registers the jobs and starts the scheduler
func (s *CronService) Start() error {
	if _, err := s.cron.AddFunc(s.schedule, s.SweepSessions); err != nil {
		return fmt.Errorf("invalid sweep schedule %q: %w", s.schedule, err)
	}
	s.cron.Start()
	log.Printf("⏰ Cron service started (session sweep: %s)", s.schedule)
	return nil
}

// Stop stops the scheduler and waits for running jobs
func (s *CronService) Stop() {
	<-s.cron.Stop().Done()
	log.Println("⏰ Cron service stopped")
}

// SweepSessions evicts expired sessions
func (s *CronService) SweepSessions() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	n, err := s.manager.Sweep(ctx)
	if err != nil {
		log.Printf("❌ Session sweep failed: %v", err)
		return
	}
	if n > 0 {
		log.Printf("🧹 Swept %d expired sessions", n)
	}
}
