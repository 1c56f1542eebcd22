package services

import (
	"context"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/go-co-op/gocron/v2"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"

	"github.com/groundcrew/crewbot/crewbot/crew"
	"github.com/groundcrew/crewbot/crewbot/logger"
	"github.com/groundcrew/crewbot/crewbot/metrics"
)

type statusPublisher interface {
	PublishStatus(ctx context.Context, guildID string) (bool, error)
}

// Refresher re-renders every community's status board on an interval.
type Refresher struct {
	store     *crew.Store
	boards    statusPublisher
	metrics   metrics.Recorder
	interval  time.Duration
	sem       *semaphore.Weighted
	scheduler gocron.Scheduler
}

func NewRefresher(store *crew.Store, boards statusPublisher, recorder metrics.Recorder, interval time.Duration, maxConcurrent int) *Refresher {
	if recorder == nil {
		recorder = metrics.NoopRecorder{}
	}
	if maxConcurrent < 1 {
		maxConcurrent = 1
	}
	return &Refresher{
		store:    store,
		boards:   boards,
		metrics:  recorder,
		interval: interval,
		sem:      semaphore.NewWeighted(int64(maxConcurrent)),
	}
}

// Start schedules RefreshAll. A run that is still going when the next is
// due pushes the next one back.
func (r *Refresher) Start() error {
	s, err := gocron.NewScheduler()
	if err != nil {
		return fmt.Errorf("failed to create gocron scheduler: %w", err)
	}
	_, err = s.NewJob(
		gocron.DurationJob(r.interval),
		gocron.NewTask(r.run),
		gocron.WithName("status-refresh"),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	)
	if err != nil {
		_ = s.Shutdown()
		return fmt.Errorf("failed to create status refresh job: %w", err)
	}
	r.scheduler = s
	s.Start()

	logger.LogSystem(slog.LevelInfo, "Status refresher started", slog.Duration("interval", r.interval))
	return nil
}

func (r *Refresher) Stop() error {
	if r.scheduler == nil {
		return nil
	}
	if err := r.scheduler.Shutdown(); err != nil {
		return err
	}
	logger.LogSystem(slog.LevelInfo, "Status refresher stopped")
	return nil
}

func (r *Refresher) run() {
	ctx, cancel := context.WithTimeout(context.Background(), r.interval)
	defer cancel()
	if _, err := r.RefreshAll(ctx); err != nil {
		logger.LogSystem(slog.LevelError, "Status refresh failed", slog.Any("error", err))
	}
}

// RefreshAll publishes the status board of every community. A community
// that fails is logged and counted; it does not stop the others.
func (r *Refresher) RefreshAll(ctx context.Context) (int, error) {
	start := time.Now()
	communities, err := r.store.Communities(ctx)
	if err != nil {
		return 0, err
	}

	var failed atomic.Int32
	g, gctx := errgroup.WithContext(ctx)
	for _, id := range communities {
		g.Go(func() error {
			if err := r.sem.Acquire(gctx, 1); err != nil {
				return err
			}
			defer r.sem.Release(1)

			if _, err := r.boards.PublishStatus(gctx, id); err != nil {
				failed.Add(1)
				logger.LogSystem(slog.LevelWarn, "Failed to refresh status board",
					slog.String("guild_id", id),
					slog.Any("error", err))
			}
			return nil
		})
	}
	err = g.Wait()

	r.recordActiveShifts(ctx)
	r.metrics.ObserveRefresh(time.Since(start), len(communities), int(failed.Load()))
	return int(failed.Load()), err
}

func (r *Refresher) recordActiveShifts(ctx context.Context) {
	doc, err := r.store.Document(ctx)
	if err != nil {
		return
	}
	var onDuty, onBreak int
	for _, shifts := range doc.Shifts {
		for _, s := range shifts {
			if s.OnBreak {
				onBreak++
			} else {
				onDuty++
			}
		}
	}
	r.metrics.SetActiveShifts(onDuty, onBreak)
}
