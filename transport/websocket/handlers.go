package websocket

import (
	"context"
	"errors"

	"github.com/rocketscienceinc/connectfour-backend/internal/apperror"
)

func (that *Server) handleCreate(ctx context.Context, req *RequestPayload) (ResponsePayload, error) {
	room, err := that.uRoom.CreateRoom(ctx, req.Player)
	if err != nil {
		return ResponsePayload{}, err
	}

	return ResponsePayload{RoomID: room.ID, Room: room}, nil
}

func (that *Server) handleJoin(ctx context.Context, req *RequestPayload) (ResponsePayload, error) {
	room, err := that.uRoom.JoinRoom(ctx, req.RoomID, req.Player)
	if err != nil {
		return ResponsePayload{}, err
	}

	return ResponsePayload{RoomID: room.ID, Room: room, Success: true}, nil
}

func (that *Server) handleQuickJoin(ctx context.Context, req *RequestPayload) (ResponsePayload, error) {
	room, err := that.uRoom.QuickJoin(ctx, req.Player)
	if err != nil {
		return ResponsePayload{}, err
	}

	return ResponsePayload{RoomID: room.ID, Room: room}, nil
}

func (that *Server) handleReady(ctx context.Context, req *RequestPayload) (ResponsePayload, error) {
	allReady, err := that.uRoom.SetReady(ctx, req.RoomID, req.Player)
	if err != nil {
		return ResponsePayload{}, err
	}

	return ResponsePayload{RoomID: req.RoomID, AllReady: &allReady}, nil
}

func (that *Server) handleMove(ctx context.Context, req *RequestPayload) (ResponsePayload, error) {
	if req.Col == nil {
		return ResponsePayload{}, errMissingColumn
	}

	room, winner, err := that.uRoom.MakeMove(ctx, req.RoomID, req.Player, *req.Col)
	if err != nil {
		return ResponsePayload{}, err
	}

	payload := ResponsePayload{RoomID: room.ID, Room: room, Success: true}
	if winner != "" {
		payload.Winner = &winner
	}

	return payload, nil
}

// handleRoom - answers both lobby and game state queries with the full room.
func (that *Server) handleRoom(ctx context.Context, req *RequestPayload) (ResponsePayload, error) {
	room, err := that.uRoom.GetRoom(ctx, req.RoomID)
	if err != nil {
		return ResponsePayload{}, err
	}

	return ResponsePayload{RoomID: room.ID, Room: room}, nil
}

// errorText - caller errors are reported as is, anything else stays internal.
func errorText(err error) string {
	for _, target := range []error{
		apperror.ErrRoomNotFound,
		apperror.ErrRoomFull,
		apperror.ErrAlreadyJoined,
		apperror.ErrGameOver,
		apperror.ErrNotInRoom,
		apperror.ErrNotYourTurn,
		apperror.ErrInvalidColumn,
		apperror.ErrColumnFull,
		apperror.ErrInvalidRequest,
		errMissingColumn,
	} {
		if errors.Is(err, target) {
			return target.Error()
		}
	}

	return "internal error"
}
