package rest

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/rocketscienceinc/connectfour-backend/internal/entity"
)

type roomRequest struct {
	Player string `json:"player"`
	RoomID string `json:"room_id"`
	Col    *int   `json:"col"`
}

type roomIDResponse struct {
	RoomID  string `json:"room_id"`
	Success bool   `json:"success,omitempty"`
}

type readyResponse struct {
	AllReady bool `json:"all_ready"`
}

type moveResponse struct {
	Success bool    `json:"success"`
	Winner  *string `json:"winner"`
}

type lobbyResponse struct {
	Players []string        `json:"players"`
	Ready   map[string]bool `json:"ready"`
}

type gameStateResponse struct {
	Board   entity.Board `json:"board"`
	Turn    int          `json:"turn"`
	Winner  *string      `json:"winner"`
	Players []string     `json:"players"`
}

// bindRoomRequest - a malformed body is treated as an empty one, validation rejects it later.
func bindRoomRequest(c *gin.Context) roomRequest {
	var req roomRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		return roomRequest{}
	}

	return req
}

func (that *Server) handleCreateRoom(c *gin.Context) {
	req := bindRoomRequest(c)

	room, err := that.uRoom.CreateRoom(c.Request.Context(), req.Player)
	if err != nil {
		writeError(c, err, msgMissingPlayer)
		return
	}

	c.JSON(http.StatusOK, roomIDResponse{RoomID: room.ID})
}

func (that *Server) handleJoinRoom(c *gin.Context) {
	req := bindRoomRequest(c)

	room, err := that.uRoom.JoinRoom(c.Request.Context(), req.RoomID, req.Player)
	if err != nil {
		writeError(c, err, msgMissingPlayer)
		return
	}

	c.JSON(http.StatusOK, roomIDResponse{RoomID: room.ID, Success: true})
}

func (that *Server) handleQuickJoin(c *gin.Context) {
	req := bindRoomRequest(c)

	room, err := that.uRoom.QuickJoin(c.Request.Context(), req.Player)
	if err != nil {
		writeError(c, err, msgMissingPlayer)
		return
	}

	c.JSON(http.StatusOK, roomIDResponse{RoomID: room.ID})
}

func (that *Server) handleSetReady(c *gin.Context) {
	req := bindRoomRequest(c)

	allReady, err := that.uRoom.SetReady(c.Request.Context(), req.RoomID, req.Player)
	if err != nil {
		writeError(c, err, msgInvalidRoomReady)
		return
	}

	c.JSON(http.StatusOK, readyResponse{AllReady: allReady})
}

func (that *Server) handleMakeMove(c *gin.Context) {
	req := bindRoomRequest(c)

	if req.Col == nil {
		c.JSON(http.StatusBadRequest, errorResponse{Error: msgMissingColumn})
		return
	}

	_, winner, err := that.uRoom.MakeMove(c.Request.Context(), req.RoomID, req.Player, *req.Col)
	if err != nil {
		writeError(c, err, msgMissingPlayer)
		return
	}

	c.JSON(http.StatusOK, moveResponse{Success: true, Winner: optional(winner)})
}

func (that *Server) handleLobbyStatus(c *gin.Context) {
	room, err := that.uRoom.GetRoom(c.Request.Context(), c.Query("room_id"))
	if err != nil {
		writeError(c, err, msgMissingPlayer)
		return
	}

	c.JSON(http.StatusOK, lobbyResponse{Players: room.Players, Ready: room.Ready})
}

func (that *Server) handleGameState(c *gin.Context) {
	room, err := that.uRoom.GetRoom(c.Request.Context(), c.Query("room_id"))
	if err != nil {
		writeError(c, err, msgMissingPlayer)
		return
	}

	c.JSON(http.StatusOK, gameStateResponse{
		Board:   room.Board,
		Turn:    room.Turn,
		Winner:  optional(room.Winner),
		Players: room.Players,
	})
}

func optional(value string) *string {
	if value == "" {
		return nil
	}

	return &value
}
