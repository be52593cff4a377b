package rest

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/rocketscienceinc/connectfour-backend/internal/entity"
	"github.com/rocketscienceinc/connectfour-backend/internal/roomstore"
)

const shutdownTimeout = 10 * time.Second

type uRoom interface {
	CreateRoom(ctx context.Context, player string) (*entity.Room, error)
	JoinRoom(ctx context.Context, roomID, player string) (*entity.Room, error)
	QuickJoin(ctx context.Context, player string) (*entity.Room, error)
	SetReady(ctx context.Context, roomID, player string) (bool, error)
	MakeMove(ctx context.Context, roomID, player string, column int) (*entity.Room, string, error)
	GetRoom(ctx context.Context, roomID string) (*entity.Room, error)
	Stats(ctx context.Context) (roomstore.Stats, error)
}

type Server struct {
	logger *slog.Logger
	uRoom  uRoom
	clock  clock.Clock

	startedAt time.Time
}

func New(logger *slog.Logger, uRoom uRoom, clk clock.Clock) *Server {
	return &Server{
		logger: logger.With("component", "rest"),
		uRoom:  uRoom,
		clock:  clk,

		startedAt: clk.Now(),
	}
}

// Router - builds the gin engine with the room API, health endpoints and /metrics.
func (that *Server) Router(gatherer prometheus.Gatherer) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery(), corsMiddleware(), loggingMiddleware(that.logger))

	router.POST("/create_room", that.handleCreateRoom)
	router.POST("/join_room", that.handleJoinRoom)
	router.POST("/quick_join", that.handleQuickJoin)
	router.POST("/set_ready", that.handleSetReady)
	router.POST("/make_move", that.handleMakeMove)

	router.GET("/lobby_status", that.handleLobbyStatus)
	router.GET("/game_state", that.handleGameState)

	router.GET("/", that.handleHealth)
	router.GET("/health", that.handleHealth)
	router.GET("/status", that.handleStatus)
	router.GET("/ping", that.handlePing)
	router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})))

	router.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, errorResponse{Error: "Not found"})
	})

	return router
}

// Start - serves handler on port until ctx is done, then shuts down gracefully.
func Start(ctx context.Context, port string, handler http.Handler) error {
	srv := &http.Server{
		Addr:         ":" + port,
		Handler:      handler,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  30 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("failed to start server: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("failed to shutdown server: %w", err)
	}

	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("server stopped with error: %w", err)
	}

	return nil
}
