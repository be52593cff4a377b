package application

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/benbjohnson/clock"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/rocketscienceinc/connectfour-backend/internal/config"
	"github.com/rocketscienceinc/connectfour-backend/internal/metrics"
	"github.com/rocketscienceinc/connectfour-backend/internal/reaper"
	"github.com/rocketscienceinc/connectfour-backend/internal/repository"
	"github.com/rocketscienceinc/connectfour-backend/internal/repository/storage"
	"github.com/rocketscienceinc/connectfour-backend/internal/roomstore"
	"github.com/rocketscienceinc/connectfour-backend/internal/usecase"
	"github.com/rocketscienceinc/connectfour-backend/transport/rest"
	"github.com/rocketscienceinc/connectfour-backend/transport/websocket"
)

// RunApp - runs the application.
func RunApp(logger *slog.Logger, conf *config.Config) error {
	log := logger.With("component", "app")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigs
		log.Info("Received signal, shutting down", "signal", sig)
		cancel()
	}()

	roomRepo, closeRepo, err := newRoomRepository(ctx, log, conf)
	if err != nil {
		return err
	}
	defer closeRepo()

	store := roomstore.New(roomRepo)

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	appMetrics := metrics.New(registry)
	metrics.RoomsGauge(registry, func() float64 {
		stats, statsErr := store.Stats(ctx)
		if statsErr != nil {
			return 0
		}

		return float64(stats.Total)
	})

	clk := clock.New()
	roomUseCase := usecase.NewRoomManager(logger, store, appMetrics, clk)

	roomReaper := reaper.New(logger, store, appMetrics, clk, reaper.Options{
		MaxAge:        conf.Reaper.MaxAge,
		Interval:      conf.Reaper.Interval,
		RetryInterval: conf.Reaper.RetryInterval,
	})
	roomReaper.Start(ctx)
	defer roomReaper.Stop()

	router := rest.New(logger, roomUseCase, clk).Router(registry)
	router.GET("/ws", gin.WrapH(websocket.New(logger, roomUseCase)))

	log.Info("Starting HTTP server", "port", conf.HTTPPort, "storage", conf.Storage)

	if err = rest.Start(ctx, conf.HTTPPort, router); err != nil {
		return fmt.Errorf("HTTP server error: %w", err)
	}

	log.Info("Application context canceled, shutting down")

	return nil
}

func newRoomRepository(
	ctx context.Context,
	log *slog.Logger,
	conf *config.Config,
) (repository.RoomRepository, func(), error) {
	if conf.Storage != config.StorageRedis {
		return repository.NewMemoryRoomRepository(), func() {}, nil
	}

	redisStorage, err := storage.NewRedisStorage(ctx, storage.RedisOptions{
		Addr:     conf.Redis.GetRedisAddr(),
		Password: conf.Redis.Password,
		DB:       conf.Redis.DB,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("could not connect to redis storage: %w", err)
	}

	closeFn := func() {
		if closeErr := redisStorage.Close(); closeErr != nil {
			log.Error("could not close redis storage", "error", closeErr)
		}
	}

	return repository.NewRoomRepository(redisStorage), closeFn, nil
}
