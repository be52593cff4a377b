package reaper

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rocketscienceinc/connectfour-backend/internal/apperror"
	"github.com/rocketscienceinc/connectfour-backend/internal/entity"
	"github.com/rocketscienceinc/connectfour-backend/internal/metrics"
	"github.com/rocketscienceinc/connectfour-backend/internal/repository"
	"github.com/rocketscienceinc/connectfour-backend/internal/roomstore"
)

var errRedisDown = errors.New("redis down")

func newTestLogger() *slog.Logger {
	return slog.New(slog.NewJSONHandler(io.Discard, nil))
}

// flakyStore fails the first sweeps it is asked to run.
type flakyStore struct {
	mu       sync.Mutex
	failures int
	calls    int
}

func (s *flakyStore) DeleteWhere(context.Context, func(room *entity.Room) bool) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.calls++
	if s.calls <= s.failures {
		return nil, errRedisDown
	}

	return nil, nil
}

func (s *flakyStore) Calls() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.calls
}

func TestReaper_Sweep(t *testing.T) {
	ctx := context.Background()

	// Given: one room created two hours ago and one a minute ago
	clk := clock.NewMock()
	clk.Set(time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC))

	roomRepo := repository.NewMemoryRoomRepository()
	require.NoError(t, roomRepo.CreateOrUpdate(ctx, entity.NewRoom("old", "alice", clk.Now().Add(-2*time.Hour))))
	require.NoError(t, roomRepo.CreateOrUpdate(ctx, entity.NewRoom("new", "bob", clk.Now().Add(-time.Minute))))

	m := metrics.New(prometheus.NewRegistry())
	reaper := New(newTestLogger(), roomstore.New(roomRepo), m, clk, Options{})

	// When: a single sweep runs
	evicted, err := reaper.Sweep(ctx)

	// Then: only the old room is gone
	require.NoError(t, err)
	assert.Equal(t, 1, evicted)

	_, err = roomRepo.GetByID(ctx, "old")
	require.ErrorIs(t, err, apperror.ErrRoomNotFound)

	_, err = roomRepo.GetByID(ctx, "new")
	require.NoError(t, err)

	assert.InDelta(t, 1, testutil.ToFloat64(m.RoomsReaped), 0)
}

func TestReaper_SweepKeepsFinishedRoomsUntilExpired(t *testing.T) {
	ctx := context.Background()

	clk := clock.NewMock()
	clk.Set(time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC))

	roomRepo := repository.NewMemoryRoomRepository()
	finished := entity.NewRoom("done", "alice", clk.Now().Add(-30*time.Minute))
	finished.Winner = "alice"
	require.NoError(t, roomRepo.CreateOrUpdate(ctx, finished))

	reaper := New(newTestLogger(), roomstore.New(roomRepo), metrics.New(prometheus.NewRegistry()), clk, Options{})

	evicted, err := reaper.Sweep(ctx)
	require.NoError(t, err)
	assert.Zero(t, evicted)

	// When: the room ages past the threshold
	clk.Add(31 * time.Minute)

	evicted, err = reaper.Sweep(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, evicted)
}

func TestReaper_StartSweepsOnInterval(t *testing.T) {
	// Given: a running reaper over one expired room
	ctx := context.Background()
	clk := clock.NewMock()

	roomRepo := repository.NewMemoryRoomRepository()
	require.NoError(t, roomRepo.CreateOrUpdate(ctx, entity.NewRoom("old", "alice", clk.Now())))

	reaper := New(newTestLogger(), roomstore.New(roomRepo), metrics.New(prometheus.NewRegistry()), clk, Options{
		MaxAge:   time.Hour,
		Interval: 5 * time.Minute,
	})
	reaper.Start(ctx)
	t.Cleanup(reaper.Stop)

	// When: time moves past the expiry threshold
	clk.Add(2 * time.Hour)

	// Then: a scheduled sweep evicts the room
	require.Eventually(t, func() bool {
		clk.Add(5 * time.Minute)

		_, err := roomRepo.GetByID(ctx, "old")
		return errors.Is(err, apperror.ErrRoomNotFound)
	}, 5*time.Second, 10*time.Millisecond)
}

func TestReaper_KeepsRunningAfterSweepError(t *testing.T) {
	// Given: a store whose first two sweeps fail
	clk := clock.NewMock()
	store := &flakyStore{failures: 2}
	m := metrics.New(prometheus.NewRegistry())

	reaper := New(newTestLogger(), store, m, clk, Options{})
	reaper.Start(context.Background())
	t.Cleanup(reaper.Stop)

	// When: time keeps moving
	// Then: sweeps continue past the failures
	require.Eventually(t, func() bool {
		clk.Add(DefaultRetryInterval)

		return store.Calls() >= 4
	}, 5*time.Second, 10*time.Millisecond)

	assert.InDelta(t, 2, testutil.ToFloat64(m.SweepErrors), 0)
}

func TestReaper_StopIsIdempotent(t *testing.T) {
	reaper := New(newTestLogger(), &flakyStore{}, metrics.New(prometheus.NewRegistry()), clock.NewMock(), Options{})

	reaper.Stop()

	reaper.Start(context.Background())
	reaper.Start(context.Background())
	reaper.Stop()
	reaper.Stop()
}
