package scheduler

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/go-co-op/gocron"

	"github.com/i474232898/upcoming-weather/internal/refresh"
)

// Refresher is the part of refresh.Service the scheduler drives.
type Refresher interface {
	Refresh(ctx context.Context) error
}

// Scheduler periodically refreshes the forecast.
type Scheduler struct {
	scheduler *gocron.Scheduler
	refresher Refresher
	interval  time.Duration
	timeout   time.Duration
}

// New creates a new Scheduler. An interval <= 0 disables background refreshes.
func New(refresher Refresher, interval time.Duration) *Scheduler {
	s := gocron.NewScheduler(time.UTC)
	return &Scheduler{
		scheduler: s,
		refresher: refresher,
		interval:  interval,
		timeout:   time.Minute,
	}
}

// Start schedules the periodic job and starts the underlying scheduler.
// The first run happens one interval after Start; the initial fetch belongs
// to whoever mounts the display.
func (s *Scheduler) Start() error {
	if s.interval <= 0 {
		log.Println("scheduler: no refresh interval configured; nothing to schedule")
		return nil
	}

	_, err := s.scheduler.Every(s.interval).WaitForSchedule().SingletonMode().Do(s.run)
	if err != nil {
		return err
	}

	s.scheduler.StartAsync()
	log.Printf("scheduler: refreshing every %s", s.interval)
	return nil
}

func (s *Scheduler) run() {
	log.Println("scheduler: running forecast refresh")

	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()

	err := s.refresher.Refresh(ctx)
	switch {
	case errors.Is(err, refresh.ErrRefreshInProgress):
		log.Println("scheduler: refresh already running; skipped")
	case err != nil:
		log.Printf("scheduler: refresh failed: %v", err)
	default:
		log.Println("scheduler: completed forecast refresh")
	}
}

// Stop stops the scheduler and cancels any future jobs.
func (s *Scheduler) Stop() {
	if s.scheduler != nil {
		s.scheduler.Stop()
	}
}
