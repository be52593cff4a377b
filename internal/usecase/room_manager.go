package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/benbjohnson/clock"

	"github.com/rocketscienceinc/connectfour-backend/internal/apperror"
	"github.com/rocketscienceinc/connectfour-backend/internal/connectfour"
	"github.com/rocketscienceinc/connectfour-backend/internal/entity"
	"github.com/rocketscienceinc/connectfour-backend/internal/metrics"
	"github.com/rocketscienceinc/connectfour-backend/internal/roomstore"
)

const (
	OpCreateRoom = "create_room"
	OpJoinRoom   = "join_room"
	OpQuickJoin  = "quick_join"
	OpSetReady   = "set_ready"
	OpMakeMove   = "make_move"
)

var rejections = []error{
	apperror.ErrInvalidRequest,
	apperror.ErrRoomNotFound,
	apperror.ErrRoomFull,
	apperror.ErrAlreadyJoined,
	apperror.ErrGameOver,
	apperror.ErrNotInRoom,
	apperror.ErrNotYourTurn,
	apperror.ErrInvalidColumn,
	apperror.ErrColumnFull,
}

type roomStore interface {
	Get(ctx context.Context, id string) (*entity.Room, error)
	Create(ctx context.Context, build func(id string) (*entity.Room, error)) (*entity.Room, error)
	Update(ctx context.Context, id string, mutate func(room *entity.Room) error) (*entity.Room, error)
	FindOrCreate(
		ctx context.Context,
		claim func(room *entity.Room) bool,
		build func(id string) (*entity.Room, error),
	) (*entity.Room, bool, error)
	Stats(ctx context.Context) (roomstore.Stats, error)
}

type RoomManager struct {
	logger  *slog.Logger
	store   roomStore
	metrics *metrics.Metrics
	clock   clock.Clock
}

func NewRoomManager(logger *slog.Logger, store roomStore, m *metrics.Metrics, clk clock.Clock) *RoomManager {
	return &RoomManager{
		logger: logger.With("component", "room_manager"),

		store:   store,
		metrics: m,
		clock:   clk,
	}
}

// IsRejection - reports whether err is a caller error rather than a backend failure.
func IsRejection(err error) bool {
	for _, target := range rejections {
		if errors.Is(err, target) {
			return true
		}
	}

	return false
}

func (that *RoomManager) CreateRoom(ctx context.Context, player string) (room *entity.Room, err error) {
	defer func() { that.observe(OpCreateRoom, err) }()

	if player == "" {
		return nil, fmt.Errorf("%w: missing player", apperror.ErrInvalidRequest)
	}

	room, err = that.store.Create(ctx, that.buildRoom(player))
	if err != nil {
		return nil, fmt.Errorf("failed to create room: %w", err)
	}

	that.logger.Info("room created", "room_id", room.ID, "player", player)

	return room, nil
}

func (that *RoomManager) JoinRoom(ctx context.Context, roomID, player string) (room *entity.Room, err error) {
	defer func() { that.observe(OpJoinRoom, err) }()

	if player == "" {
		return nil, fmt.Errorf("%w: missing player", apperror.ErrInvalidRequest)
	}

	room, err = that.store.Update(ctx, roomID, func(room *entity.Room) error {
		return connectfour.Join(room, player)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to join room %s: %w", roomID, err)
	}

	that.logger.Info("player joined room", "room_id", room.ID, "player", player)

	return room, nil
}

// QuickJoin - seats player in any room waiting for an opponent, or opens a new one.
func (that *RoomManager) QuickJoin(ctx context.Context, player string) (room *entity.Room, err error) {
	defer func() { that.observe(OpQuickJoin, err) }()

	if player == "" {
		return nil, fmt.Errorf("%w: missing player", apperror.ErrInvalidRequest)
	}

	claim := func(room *entity.Room) bool {
		if len(room.Players) != 1 || room.HasPlayer(player) || room.IsFinished() {
			return false
		}

		return connectfour.Join(room, player) == nil
	}

	room, created, err := that.store.FindOrCreate(ctx, claim, that.buildRoom(player))
	if err != nil {
		return nil, fmt.Errorf("failed to quick join: %w", err)
	}

	if created {
		that.logger.Info("room created for quick join", "room_id", room.ID, "player", player)
	} else {
		that.logger.Info("player quick joined room", "room_id", room.ID, "player", player)
	}

	return room, nil
}

// SetReady - marks player ready, allReady is true once both seats are taken and ready.
func (that *RoomManager) SetReady(ctx context.Context, roomID, player string) (allReady bool, err error) {
	defer func() { that.observe(OpSetReady, err) }()

	if player == "" {
		return false, fmt.Errorf("%w: missing player", apperror.ErrInvalidRequest)
	}

	_, err = that.store.Update(ctx, roomID, func(room *entity.Room) error {
		var readyErr error
		allReady, readyErr = connectfour.SetReady(room, player)

		return readyErr
	})
	if errors.Is(err, apperror.ErrRoomNotFound) {
		return false, fmt.Errorf("%w: room %s not found", apperror.ErrInvalidRequest, roomID)
	}

	if err != nil {
		return false, fmt.Errorf("failed to set ready: %w", err)
	}

	that.logger.Info("player ready", "room_id", roomID, "player", player, "all_ready", allReady)

	return allReady, nil
}

// MakeMove - drops player's mark into column. winner is empty until the game is decided.
func (that *RoomManager) MakeMove(
	ctx context.Context,
	roomID, player string,
	column int,
) (room *entity.Room, winner string, err error) {
	defer func() { that.observe(OpMakeMove, err) }()

	if player == "" {
		return nil, "", fmt.Errorf("%w: missing player", apperror.ErrInvalidRequest)
	}

	room, err = that.store.Update(ctx, roomID, func(room *entity.Room) error {
		var moveErr error
		winner, moveErr = connectfour.MakeMove(room, player, column)

		return moveErr
	})
	if err != nil {
		return nil, "", fmt.Errorf("failed to make move: %w", err)
	}

	if winner != "" {
		that.metrics.GamesFinished.Inc()
		that.logger.Info("player wins", "room_id", roomID, "player", winner)
	}

	return room, winner, nil
}

// GetRoom - read-only lookup used by the lobby and game state queries.
func (that *RoomManager) GetRoom(ctx context.Context, roomID string) (*entity.Room, error) {
	room, err := that.store.Get(ctx, roomID)
	if err != nil {
		return nil, fmt.Errorf("failed to get room %s: %w", roomID, err)
	}

	return room, nil
}

func (that *RoomManager) Stats(ctx context.Context) (roomstore.Stats, error) {
	stats, err := that.store.Stats(ctx)
	if err != nil {
		return roomstore.Stats{}, fmt.Errorf("failed to count rooms: %w", err)
	}

	return stats, nil
}

func (that *RoomManager) buildRoom(player string) func(id string) (*entity.Room, error) {
	return func(id string) (*entity.Room, error) {
		return connectfour.NewRoom(id, player, that.clock.Now())
	}
}

func (that *RoomManager) observe(operation string, err error) {
	rejected := IsRejection(err)

	if err != nil && !rejected {
		that.logger.Error("room operation failed", "operation", operation, "error", err)
	}

	that.metrics.ObserveOperation(operation, err, rejected)
}
