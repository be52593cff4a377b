package rest

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/rocketscienceinc/connectfour-backend/internal/apperror"
)

const (
	msgMissingPlayer    = "Missing player in request"
	msgMissingColumn    = "Missing column in request"
	msgInvalidRoomReady = "Invalid room or player"
	msgInternal         = "Internal server error"
)

type errorMapping struct {
	target  error
	status  int
	message string
}

// errorMappings - the order matters, the first match wins.
var errorMappings = []errorMapping{
	{apperror.ErrRoomNotFound, http.StatusNotFound, "Room not found"},
	{apperror.ErrRoomFull, http.StatusBadRequest, "Room already full"},
	{apperror.ErrAlreadyJoined, http.StatusBadRequest, "Player already in room"},
	{apperror.ErrGameOver, http.StatusBadRequest, "Game over"},
	{apperror.ErrNotInRoom, http.StatusBadRequest, "Player not in room"},
	{apperror.ErrNotYourTurn, http.StatusBadRequest, "Not your turn"},
	{apperror.ErrInvalidColumn, http.StatusBadRequest, "Invalid column"},
	{apperror.ErrColumnFull, http.StatusBadRequest, "Column full"},
}

type errorResponse struct {
	Error string `json:"error"`
}

// writeError - maps a use case error to a status code. invalidMessage is used for apperror.ErrInvalidRequest.
func writeError(c *gin.Context, err error, invalidMessage string) {
	for _, mapping := range errorMappings {
		if errors.Is(err, mapping.target) {
			c.JSON(mapping.status, errorResponse{Error: mapping.message})
			return
		}
	}

	if errors.Is(err, apperror.ErrInvalidRequest) {
		c.JSON(http.StatusBadRequest, errorResponse{Error: invalidMessage})
		return
	}

	c.JSON(http.StatusInternalServerError, errorResponse{Error: msgInternal})
}
