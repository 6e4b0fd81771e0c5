package tasks

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/robfig/cron/v3"

	"github.com/mosammunjapara-afk/newsguard/app/cfg"
)

// Runner is the collection entry point the scheduler drives.
type Runner interface {
	CollectOnce(ctx context.Context) (stored int, fake int, err error)
}

// Scheduler runs collection on a fixed cadence plus fixed times of day,
// starting with one immediate run. A trigger that fires while a previous
// run is still going is skipped rather than queued: the collector itself
// also serializes, but skipping avoids piling up identical batches.
type Scheduler struct {
	runner Runner
	cron   *cron.Cron
	ctx    context.Context
	cancel context.CancelFunc
}

func NewScheduler(runner Runner) *Scheduler {
	ctx, cancel := context.WithCancel(context.Background())

	return &Scheduler{
		runner: runner,
		cron: cron.New(cron.WithChain(
			cron.SkipIfStillRunning(cronLogger{}),
			cron.Recover(cronLogger{}),
		)),
		ctx:    ctx,
		cancel: cancel,
	}
}

func (s *Scheduler) Start() error {
	c := cfg.Get()

	specs := []string{fmt.Sprintf("@every %dh", c.CollectEveryHours)}

	daily, err := parseTimesOfDay(c.CollectTimes)
	if err != nil {
		return err
	}
	specs = append(specs, daily...)

	for _, spec := range specs {
		if _, err := s.cron.AddFunc(spec, s.run); err != nil {
			return fmt.Errorf("failed to register schedule %q: %w", spec, err)
		}
	}

	slog.Info("Collection schedule registered",
		"interval_hours", c.CollectEveryHours,
		"times", c.CollectTimes)

	// One collection on process start, before the wait loop takes over.
	go s.run()

	s.cron.Start()
	return nil
}

func (s *Scheduler) Stop() {
	s.cancel()
	<-s.cron.Stop().Done()
}

func (s *Scheduler) run() {
	select {
	case <-s.ctx.Done():
		return
	default:
	}

	stored, fake, err := s.runner.CollectOnce(s.ctx)
	if err != nil {
		slog.Error("Scheduled collection failed", "error", err)
		return
	}

	slog.Info("Scheduled collection finished", "stored", stored, "fake", fake)
}

// parseTimesOfDay turns "06:00,09:00" into cron specs "0 6 * * *" etc.
func parseTimesOfDay(times string) ([]string, error) {
	if strings.TrimSpace(times) == "" {
		return nil, nil
	}

	var specs []string
	for _, raw := range strings.Split(times, ",") {
		raw = strings.TrimSpace(raw)
		parts := strings.SplitN(raw, ":", 2)
		if len(parts) != 2 {
			return nil, fmt.Errorf("invalid time of day %q, want HH:MM", raw)
		}

		hour, err := strconv.Atoi(parts[0])
		if err != nil || hour < 0 || hour > 23 {
			return nil, fmt.Errorf("invalid hour in %q", raw)
		}
		minute, err := strconv.Atoi(parts[1])
		if err != nil || minute < 0 || minute > 59 {
			return nil, fmt.Errorf("invalid minute in %q", raw)
		}

		specs = append(specs, fmt.Sprintf("%d %d * * *", minute, hour))
	}

	return specs, nil
}

// cronLogger adapts the cron logging interface to slog.
type cronLogger struct{}

func (cronLogger) Info(msg string, keysAndValues ...interface{}) {
	slog.Debug(msg, keysAndValues...)
}

func (cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	keysAndValues = append(keysAndValues, "error", err)
	slog.Error(msg, keysAndValues...)
}
