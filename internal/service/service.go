// Package service decides how often the conversion batch runs: once for
// manual mode, on a gocron schedule for timer mode.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	gocron "github.com/go-co-op/gocron/v2"

	"github.com/RadteamBaoDA/xlsx2pdf/internal/model"
)

// BatchFunc executes one complete conversion batch and returns its aggregate.
type BatchFunc func(ctx context.Context) (model.Aggregate, error)

// Service drives a BatchFunc according to the configured mode. Batches never
// overlap: a tick arriving while one is still running is skipped.
type Service struct {
	mode      string
	schedule  *model.Schedule
	batch     BatchFunc
	scheduler gocron.Scheduler
	trigger   chan struct{}
}

func New(cfg model.Service, batch BatchFunc) (*Service, error) {
	s := &Service{
		mode:     cfg.Mode,
		schedule: cfg.Schedule,
		batch:    batch,
		trigger:  make(chan struct{}, 1),
	}

	switch cfg.Mode {
	case model.ServiceModeManual:
	case model.ServiceModeTimer:
		scheduler, err := newScheduler(cfg.Schedule, s.tick)
		if err != nil {
			return nil, fmt.Errorf("timer mode failed: %w", err)
		}
		s.scheduler = scheduler
	default:
		return nil, fmt.Errorf("service mode %q is not supported", cfg.Mode)
	}
	return s, nil
}

// tick requests a batch run. The channel holds one pending request, so a
// tick firing during a batch collapses into the next run instead of queuing.
func (s *Service) tick() {
	select {
	case s.trigger <- struct{}{}:
	default:
		slog.Warn("previous batch still running, skipping tick")
	}
}

// Run blocks until the service is done: after a single batch in manual mode,
// on context cancellation in timer mode. Batch failures in timer mode are
// logged, not returned, so one bad run never stops the schedule.
func (s *Service) Run(ctx context.Context) error {
	if s.mode == model.ServiceModeManual {
		_, err := s.batch(ctx)
		return err
	}

	s.scheduler.Start()
	defer func() {
		if err := s.scheduler.Shutdown(); err != nil {
			slog.ErrorContext(ctx, "shutting down gocron has failed", "error", err)
		}
	}()

	slog.InfoContext(ctx, "timer mode started",
		"cron", s.schedule.Cron, "duration", s.schedule.Duration)
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-s.trigger:
			agg, err := s.batch(ctx)
			if err != nil {
				slog.ErrorContext(ctx, "batch run failed", "error", err)
				continue
			}
			slog.InfoContext(ctx, "batch finished",
				"total", agg.Total,
				"success", agg.Success,
				"failure", agg.Failure,
				"timed_out", agg.TimedOut)
		}
	}
}

func newScheduler(cfgp *model.Schedule, tick func()) (gocron.Scheduler, error) {
	if cfgp == nil {
		return nil, fmt.Errorf("service.schedule is nil")
	}
	cfg := *cfgp
	var job gocron.JobDefinition
	switch {
	case cfg.Cron != "":
		if err := ParseCron(cfg.Cron); err != nil {
			return nil, fmt.Errorf("parsing service.schedule.cron: %w", err)
		}
		job = gocron.CronJob(cfg.Cron, false)
	case cfg.Duration != "":
		d, err := ParseDuration(cfg.Duration)
		if err != nil {
			return nil, fmt.Errorf("parsing service.schedule.duration: %w", err)
		}
		job = gocron.DurationJob(d)
	default:
		return nil, errors.New("both cron and duration are empty")
	}

	s, err := gocron.NewScheduler()
	if err != nil {
		return nil, fmt.Errorf("initializing gocron scheduler: %w", err)
	}
	_, err = s.NewJob(job, gocron.NewTask(tick))
	if err != nil {
		return nil, fmt.Errorf("initializing gocron job: %w", err)
	}
	return s, nil
}
