package reaper

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/benbjohnson/clock"

	"github.com/rocketscienceinc/connectfour-backend/internal/entity"
	"github.com/rocketscienceinc/connectfour-backend/internal/metrics"
)

const (
	DefaultMaxAge        = time.Hour
	DefaultInterval      = 5 * time.Minute
	DefaultRetryInterval = time.Minute
)

type roomStore interface {
	DeleteWhere(ctx context.Context, pred func(room *entity.Room) bool) ([]string, error)
}

type Options struct {
	MaxAge        time.Duration
	Interval      time.Duration
	RetryInterval time.Duration
}

// Reaper evicts rooms created more than MaxAge ago. It is advisory cleanup:
// a reaped room simply stops being found.
type Reaper struct {
	logger  *slog.Logger
	store   roomStore
	metrics *metrics.Metrics
	clock   clock.Clock
	opts    Options

	mu     sync.Mutex
	cancel context.CancelFunc
	done   chan struct{}
}

func New(logger *slog.Logger, store roomStore, m *metrics.Metrics, clk clock.Clock, opts Options) *Reaper {
	if opts.MaxAge <= 0 {
		opts.MaxAge = DefaultMaxAge
	}
	if opts.Interval <= 0 {
		opts.Interval = DefaultInterval
	}
	if opts.RetryInterval <= 0 {
		opts.RetryInterval = DefaultRetryInterval
	}

	return &Reaper{
		logger:  logger.With("component", "reaper"),
		store:   store,
		metrics: m,
		clock:   clk,
		opts:    opts,
	}
}

// Sweep - runs a single pass and returns the number of evicted rooms.
func (that *Reaper) Sweep(ctx context.Context) (int, error) {
	log := that.logger.With("method", "Sweep")

	deadline := that.clock.Now().Add(-that.opts.MaxAge)

	deleted, err := that.store.DeleteWhere(ctx, func(room *entity.Room) bool {
		return room.CreatedAt.Before(deadline)
	})

	for _, id := range deleted {
		log.Info("cleaned up old room", "room_id", id)
	}
	that.metrics.RoomsReaped.Add(float64(len(deleted)))

	if err != nil {
		return len(deleted), fmt.Errorf("failed to sweep rooms: %w", err)
	}

	return len(deleted), nil
}

// Start - launches the sweep loop. It keeps running through sweep errors until Stop or ctx is done.
func (that *Reaper) Start(ctx context.Context) {
	that.mu.Lock()
	defer that.mu.Unlock()

	if that.cancel != nil {
		return
	}

	ctx, that.cancel = context.WithCancel(ctx)
	that.done = make(chan struct{})

	go that.run(ctx, that.done)
}

// Stop - stops the loop and waits for it to exit.
func (that *Reaper) Stop() {
	that.mu.Lock()
	cancel, done := that.cancel, that.done
	that.cancel, that.done = nil, nil
	that.mu.Unlock()

	if cancel == nil {
		return
	}

	cancel()
	<-done
}

func (that *Reaper) run(ctx context.Context, done chan struct{}) {
	defer close(done)

	log := that.logger.With("method", "run")
	log.Info("reaper started", "interval", that.opts.Interval, "max_age", that.opts.MaxAge)

	wait := that.opts.Interval

	for {
		timer := that.clock.Timer(wait)

		select {
		case <-ctx.Done():
			timer.Stop()
			log.Info("reaper stopped")
			return
		case <-timer.C:
		}

		if _, err := that.Sweep(ctx); err != nil {
			that.metrics.SweepErrors.Inc()
			log.Error("cleanup error", "error", err, "retry_in", that.opts.RetryInterval)
			wait = that.opts.RetryInterval
			continue
		}

		wait = that.opts.Interval
	}
}
