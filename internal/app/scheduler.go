package app

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"golang.org/x/time/rate"

	"github.com/bft-labs/devicereport/internal/domain"
	"github.com/bft-labs/devicereport/internal/ports"
	"github.com/bft-labs/devicereport/pkg/log"
)

// Runner runs one report invocation. *Pipeline satisfies it.
type Runner interface {
	Run(ctx context.Context) domain.Outcome
}

// BuildFunc (re)builds a Runner from the current configuration.
type BuildFunc func() (Runner, error)

// SchedulerConfig controls repeat mode.
type SchedulerConfig struct {
	// Interval between runs. Zero disables periodic runs.
	Interval time.Duration

	// MinGap is the minimum spacing between two runs, whatever triggered
	// them. Zero disables spacing.
	MinGap time.Duration

	// WatchPath is a config file; writing it rebuilds the runner and
	// triggers a run. Empty disables watching.
	WatchPath string
}

// Scheduler runs a Runner once, then again on every interval tick and
// config file change until the context ends.
type Scheduler struct {
	config  SchedulerConfig
	build   BuildFunc
	logger  ports.Logger
	limiter *rate.Limiter
}

// NewScheduler creates a scheduler. A nil logger discards all output.
func NewScheduler(config SchedulerConfig, build BuildFunc, logger ports.Logger) *Scheduler {
	if logger == nil {
		logger = log.NewNoopLogger()
	}
	limit := rate.Inf
	if config.MinGap > 0 {
		limit = rate.Every(config.MinGap)
	}
	return &Scheduler{
		config:  config,
		build:   build,
		logger:  logger,
		limiter: rate.NewLimiter(limit, 1),
	}
}

// Run blocks until ctx is done. With neither an interval nor a watch path
// it runs once and returns.
func (s *Scheduler) Run(ctx context.Context) error {
	runner, err := s.build()
	if err != nil {
		return err
	}
	s.runOnce(ctx, runner, "start")

	var tick <-chan time.Time
	if s.config.Interval > 0 {
		ticker := time.NewTicker(s.config.Interval)
		defer ticker.Stop()
		tick = ticker.C
	}

	var (
		events  <-chan fsnotify.Event
		errs    <-chan error
		watched string
	)
	if s.config.WatchPath != "" {
		watcher, err := fsnotify.NewWatcher()
		if err != nil {
			return fmt.Errorf("create watcher: %w", err)
		}
		defer watcher.Close()

		// Watch the directory: editors often replace the file by rename.
		watched = filepath.Clean(s.config.WatchPath)
		if err := watcher.Add(filepath.Dir(watched)); err != nil {
			return fmt.Errorf("watch %s: %w", watched, err)
		}
		events, errs = watcher.Events, watcher.Errors
		s.logger.Info("watching config file", log.String("path", watched))
	}

	if tick == nil && events == nil {
		return nil
	}

	for {
		select {
		case <-ctx.Done():
			return nil

		case <-tick:
			s.runOnce(ctx, runner, "interval")

		case ev, ok := <-events:
			if !ok {
				events = nil
				continue
			}
			if filepath.Clean(ev.Name) != watched || ev.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			next, err := s.build()
			if err != nil {
				s.logger.Error("config reload failed, keeping previous config", log.Err(err))
				continue
			}
			runner = next
			s.logger.Info("config reloaded", log.String("path", watched))
			s.runOnce(ctx, runner, "config")

		case err, ok := <-errs:
			if !ok {
				errs = nil
				continue
			}
			s.logger.Error("config watcher error", log.Err(err))
		}
	}
}

func (s *Scheduler) runOnce(ctx context.Context, runner Runner, trigger string) {
	if err := s.limiter.Wait(ctx); err != nil {
		return
	}
	out := runner.Run(ctx)
	s.logger.Debug("report run finished",
		log.String("trigger", trigger),
		log.String("report_id", out.ReportID),
		log.Bool("delivered", out.Delivered()))
}
