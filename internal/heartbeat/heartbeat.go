// Package heartbeat sends recurring status messages on cron schedules.
// It is a foreground runner for the roamctl heartbeat command; the roam
// client itself stays synchronous and free of background work.
package heartbeat

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"
)

// Sender dispatches one message to the given channels. *roam.Client
// satisfies it.
type Sender interface {
	SendMessage(ctx context.Context, text string, channels ...string) error
}

// Job is one recurring message.
type Job struct {
	Name     string
	Schedule string // standard cron expression or @every duration
	Message  string
	Channels []string
}

// Validate checks the job definition, including the cron expression.
func (j Job) Validate() error {
	if j.Name == "" {
		return fmt.Errorf("job name required")
	}
	if j.Message == "" {
		return fmt.Errorf("job %q: message required", j.Name)
	}
	if _, err := cron.ParseStandard(j.Schedule); err != nil {
		return fmt.Errorf("job %q: parse schedule: %w", j.Name, err)
	}
	return nil
}

type entry struct {
	job      Job
	schedule cron.Schedule
	next     time.Time
}

// Runner drives a set of heartbeat jobs until its context is cancelled.
type Runner struct {
	sender  Sender
	entries []entry
	logger  *slog.Logger
}

// New validates the jobs and builds a runner. At least one job is
// required.
func New(sender Sender, jobs []Job, logger *slog.Logger) (*Runner, error) {
	if len(jobs) == 0 {
		return nil, fmt.Errorf("heartbeat: no jobs configured")
	}

	entries := make([]entry, 0, len(jobs))
	for _, j := range jobs {
		if err := j.Validate(); err != nil {
			return nil, fmt.Errorf("heartbeat: %w", err)
		}
		schedule, _ := cron.ParseStandard(j.Schedule)
		entries = append(entries, entry{job: j, schedule: schedule})
	}

	return &Runner{
		sender:  sender,
		entries: entries,
		logger:  logger.With("component", "heartbeat"),
	}, nil
}

// Run blocks, sending each job's message at its scheduled times, until
// ctx is cancelled. Send failures are logged and the schedule keeps
// going; a heartbeat that dies on the first network blip is useless.
func (r *Runner) Run(ctx context.Context) error {
	now := time.Now()
	for i := range r.entries {
		r.entries[i].next = r.entries[i].schedule.Next(now)
		r.logger.Info("job scheduled", "job", r.entries[i].job.Name, "next", r.entries[i].next)
	}

	for {
		timer := time.NewTimer(time.Until(r.earliest()))
		select {
		case <-ctx.Done():
			timer.Stop()
			r.logger.Info("heartbeat stopped")
			return ctx.Err()

		case now := <-timer.C:
			r.fireDue(ctx, now)
		}
	}
}

// earliest returns the soonest next-run time across all jobs.
func (r *Runner) earliest() time.Time {
	min := r.entries[0].next
	for _, e := range r.entries[1:] {
		if e.next.Before(min) {
			min = e.next
		}
	}
	return min
}

// fireDue sends every job whose next-run time has passed and advances
// its schedule.
func (r *Runner) fireDue(ctx context.Context, now time.Time) {
	for i := range r.entries {
		e := &r.entries[i]
		if e.next.After(now) {
			continue
		}

		if err := r.sender.SendMessage(ctx, e.job.Message, e.job.Channels...); err != nil {
			r.logger.Error("heartbeat send failed", "job", e.job.Name, "error", err)
		} else {
			r.logger.Debug("heartbeat sent", "job", e.job.Name)
		}
		e.next = e.schedule.Next(now)
	}
}
