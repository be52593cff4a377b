package websocket

import (
	"encoding/json"

	"github.com/rocketscienceinc/connectfour-backend/internal/entity"
)

const (
	actionCreate    = "room:create"
	actionJoin      = "room:join"
	actionQuickJoin = "room:quick_join"
	actionReady     = "room:ready"
	actionMove      = "room:move"
	actionLobby     = "room:lobby"
	actionState     = "room:state"

	actionError = "error"
)

// Message represents a WebSocket message with an action type and a payload.
type Message struct {
	Action  string          `json:"action"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

type RequestPayload struct {
	Player string `json:"player"`
	RoomID string `json:"room_id"`
	Col    *int   `json:"col"`
}

type ResponsePayload struct {
	RoomID   string       `json:"room_id,omitempty"`
	Room     *entity.Room `json:"room,omitempty"`
	AllReady *bool        `json:"all_ready,omitempty"`
	Success  bool         `json:"success,omitempty"`
	Winner   *string      `json:"winner,omitempty"`
	Error    string       `json:"error,omitempty"`
}
