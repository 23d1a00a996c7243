package snapshot

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"

	"gymcontrol/internal/logger"
)

// Scheduler owns the cron entries for recurring batch work. The monthly
// entry generates snapshots for the month that just closed; callers can
// register extra daily jobs such as the expiry sweep.
type Scheduler struct {
	cron   *cron.Cron
	driver *Driver
}

func NewScheduler(driver *Driver) *Scheduler {
	return &Scheduler{
		cron:   cron.New(),
		driver: driver,
	}
}

// ScheduleMonthly registers the monthly snapshot batch. It takes a
// standard five-field cron expression, typically firing early on the
// first day of each month so the previous month is complete.
func (s *Scheduler) ScheduleMonthly(spec string) error {
	_, err := s.cron.AddFunc(spec, func() {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Minute)
		defer cancel()

		year, month := PreviousMonth(time.Now().UTC())
		if _, err := s.driver.RunMonthlyBatch(ctx, year, month); err != nil {
			logger.Errorf("Scheduled monthly batch failed: %v", err)
		}
	})
	return err
}

// ScheduleDaily registers an arbitrary recurring job, used for the expiry
// sweep and reminder queueing.
func (s *Scheduler) ScheduleDaily(spec string, job func(ctx context.Context)) error {
	_, err := s.cron.AddFunc(spec, func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
		defer cancel()
		job(ctx)
	})
	return err
}

func (s *Scheduler) Start() {
	s.cron.Start()
	logger.Info("Batch scheduler started")
}

// Stop halts scheduling and waits for any running job to finish.
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	logger.Info("Batch scheduler stopped")
}
