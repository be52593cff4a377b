package connectfour

import (
	"fmt"
	"time"

	"github.com/rocketscienceinc/connectfour-backend/internal/apperror"
	"github.com/rocketscienceinc/connectfour-backend/internal/entity"
)

// NewRoom - opens a room with player in the first seat.
func NewRoom(id, player string, now time.Time) (*entity.Room, error) {
	if player == "" {
		return nil, fmt.Errorf("%w: missing player", apperror.ErrInvalidRequest)
	}

	return entity.NewRoom(id, player, now), nil
}

// Join - seats player in the room as not ready.
func Join(room *entity.Room, player string) error {
	if room.IsFull() {
		return apperror.ErrRoomFull
	}

	if room.HasPlayer(player) {
		return apperror.ErrAlreadyJoined
	}

	room.Players = append(room.Players, player)
	if room.Ready == nil {
		room.Ready = make(map[string]bool, entity.MaxPlayers)
	}
	room.Ready[player] = false

	return nil
}

// SetReady - marks player as ready and reports whether the game can start.
func SetReady(room *entity.Room, player string) (bool, error) {
	if !room.HasPlayer(player) {
		return false, fmt.Errorf("%w: %s", apperror.ErrInvalidRequest, apperror.ErrNotInRoom)
	}

	room.Ready[player] = true

	return room.AllReady(), nil
}

// MakeMove - drops the player's mark into column. The returned winner is empty while the game goes on.
func MakeMove(room *entity.Room, player string, column int) (string, error) {
	seat, err := validateMove(room, player, column)
	if err != nil {
		return "", err
	}

	row, ok := Drop(&room.Board, column)
	if !ok {
		return "", apperror.ErrColumnFull
	}

	mark := entity.MarkForSeat(seat)
	room.Board[row][column] = mark

	if Wins(&room.Board, row, column, mark) {
		room.Winner = player
		return room.Winner, nil
	}

	room.Turn = 1 - room.Turn

	return "", nil
}

// validateMove - checks everything except the column capacity, returns the player's seat.
func validateMove(room *entity.Room, player string, column int) (int, error) {
	if room.IsFinished() {
		return -1, apperror.ErrGameOver
	}

	seat, ok := room.Seat(player)
	if !ok {
		return -1, apperror.ErrNotInRoom
	}

	if room.Turn != seat {
		return -1, apperror.ErrNotYourTurn
	}

	if column < 0 || column >= entity.Columns {
		return -1, fmt.Errorf("%w: %d", apperror.ErrInvalidColumn, column)
	}

	return seat, nil
}
