package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/Ning0612/pcclean/internal/domain"
	"github.com/Ning0612/pcclean/internal/scheduler"
)

// DaemonService repeats a cleanup request on a fixed interval
type DaemonService struct {
	mu        sync.RWMutex
	cleaner   *Cleaner
	request   Request
	scheduler scheduler.Scheduler
	last      *domain.RunSummary
	onRun     func(domain.RunSummary, error)
}

// DaemonStatus represents the current daemon status
type DaemonStatus struct {
	Running        bool
	SchedulerStats *scheduler.Status
	LastRun        *domain.RunSummary
}

// NewDaemonService creates a daemon for req
func NewDaemonService(cleaner *Cleaner, req Request) (*DaemonService, error) {
	if cleaner == nil {
		return nil, fmt.Errorf("cleaner cannot be nil")
	}
	if err := req.Validate(); err != nil {
		return nil, err
	}
	req.Mode = ModeSchedule
	return &DaemonService{cleaner: cleaner, request: req}, nil
}

// OnRun registers fn to be called after every scheduled run
func (d *DaemonService) OnRun(fn func(domain.RunSummary, error)) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.onRun = fn
}

// Start starts the scheduling loop in the background. The first run
// happens one interval after Start.
func (d *DaemonService) Start(ctx context.Context, interval time.Duration) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.scheduler != nil {
		return fmt.Errorf("daemon is already running")
	}

	sched, err := scheduler.NewIntervalScheduler(scheduler.Config{Interval: interval}, scheduler.RunnerFunc(d.runOnce))
	if err != nil {
		return fmt.Errorf("failed to create scheduler: %w", err)
	}

	if err := sched.Start(ctx); err != nil {
		return fmt.Errorf("failed to start scheduler: %w", err)
	}

	d.scheduler = sched
	return nil
}

// Wait blocks until the scheduling loop exits (context cancelled or Stop)
func (d *DaemonService) Wait() {
	d.mu.RLock()
	sched := d.scheduler
	d.mu.RUnlock()

	if sched != nil {
		<-sched.Done()
	}
}

// Stop stops the daemon
func (d *DaemonService) Stop() error {
	d.mu.Lock()
	sched := d.scheduler
	d.scheduler = nil
	d.mu.Unlock()

	if sched == nil {
		return fmt.Errorf("daemon is not running")
	}

	// A run in progress needs d.mu to report, so wait without holding it
	if err := sched.Stop(); err != nil {
		return fmt.Errorf("failed to stop scheduler: %w", err)
	}
	return nil
}

// Status returns the current daemon status
func (d *DaemonService) Status() *DaemonStatus {
	d.mu.RLock()
	defer d.mu.RUnlock()

	status := &DaemonStatus{Running: d.scheduler != nil}

	if d.scheduler != nil {
		s := d.scheduler.Status()
		status.Running = s.Running
		status.SchedulerStats = s
	}

	if d.last != nil {
		last := *d.last
		status.LastRun = &last
	}

	return status
}

// runOnce executes one scheduled pass and reports it to the scheduler.
// A run whose organizer hit a setup error counts as failed.
func (d *DaemonService) runOnce(ctx context.Context) error {
	summary, err := d.cleaner.Run(ctx, d.request)

	d.mu.Lock()
	if !errors.Is(err, domain.ErrRunInProgress) {
		d.last = &summary
	}
	onRun := d.onRun
	d.mu.Unlock()

	if onRun != nil {
		onRun(summary, err)
	}

	if err != nil {
		return err
	}
	if summary.SetupError != "" {
		return errors.New(summary.SetupError)
	}
	return nil
}
