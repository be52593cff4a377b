package apperror

import "errors"

var (
	ErrInvalidRequest = errors.New("invalid request")
	ErrRoomNotFound   = errors.New("room not found")
	ErrRoomFull       = errors.New("room already full")
	ErrAlreadyJoined  = errors.New("player already in room")
	ErrGameOver       = errors.New("game over")
	ErrNotInRoom      = errors.New("player not in room")
	ErrNotYourTurn    = errors.New("not your turn")
	ErrInvalidColumn  = errors.New("invalid column")
	ErrColumnFull     = errors.New("column full")
)
