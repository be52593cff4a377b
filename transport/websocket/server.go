package websocket

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"github.com/rocketscienceinc/connectfour-backend/internal/entity"
)

const (
	writeWait      = 10 * time.Second
	maxMessageSize = 4096
)

type uRoom interface {
	CreateRoom(ctx context.Context, player string) (*entity.Room, error)
	JoinRoom(ctx context.Context, roomID, player string) (*entity.Room, error)
	QuickJoin(ctx context.Context, player string) (*entity.Room, error)
	SetReady(ctx context.Context, roomID, player string) (bool, error)
	MakeMove(ctx context.Context, roomID, player string, column int) (*entity.Room, string, error)
	GetRoom(ctx context.Context, roomID string) (*entity.Room, error)
}

type handlerFunc func(ctx context.Context, req *RequestPayload) (ResponsePayload, error)

type Server struct {
	logger   *slog.Logger
	uRoom    uRoom
	upgrader websocket.Upgrader

	handlers map[string]handlerFunc
}

func New(logger *slog.Logger, uRoom uRoom) *Server {
	server := &Server{
		logger: logger.With("component", "websocket"),
		uRoom:  uRoom,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(*http.Request) bool { return true },
		},

		handlers: make(map[string]handlerFunc),
	}

	server.handlers[actionCreate] = server.handleCreate
	server.handlers[actionJoin] = server.handleJoin
	server.handlers[actionQuickJoin] = server.handleQuickJoin
	server.handlers[actionReady] = server.handleReady
	server.handlers[actionMove] = server.handleMove
	server.handlers[actionLobby] = server.handleRoom
	server.handlers[actionState] = server.handleRoom

	return server
}

// ServeHTTP - upgrades the request and serves actions until the client goes away.
func (that *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	log := that.logger.With("method", "ServeHTTP")

	conn, err := that.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Error("failed to upgrade connection", "error", err)
		return
	}
	defer conn.Close()

	conn.SetReadLimit(maxMessageSize)

	log.Info("WebSocket connection established", "remote", r.RemoteAddr)

	if err = that.handleMessages(r.Context(), conn); err != nil {
		log.Error("error handling messages", "error", err)
	}
}

// handleMessages - processes messages from the client one at a time.
func (that *Server) handleMessages(ctx context.Context, conn *websocket.Conn) error {
	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				return nil
			}

			return fmt.Errorf("failed to read message: %w", err)
		}

		response := that.dispatch(ctx, data)

		if err = that.sendMessage(conn, response); err != nil {
			return err
		}
	}
}

func (that *Server) dispatch(ctx context.Context, data []byte) Message {
	log := that.logger.With("method", "dispatch")

	var message Message
	if err := json.Unmarshal(data, &message); err != nil {
		log.Error("failed to unmarshal message", "error", err)
		return errorMessage(actionError, "malformed message")
	}

	handler, ok := that.handlers[message.Action]
	if !ok {
		return errorMessage(message.Action, "unknown action")
	}

	var req RequestPayload
	if len(message.Payload) > 0 {
		if err := json.Unmarshal(message.Payload, &req); err != nil {
			return errorMessage(message.Action, "malformed payload")
		}
	}

	payload, err := handler(ctx, &req)
	if err != nil {
		return errorMessage(message.Action, errorText(err))
	}

	return Message{Action: message.Action, Payload: mustMarshal(payload)}
}

func (that *Server) sendMessage(conn *websocket.Conn, message Message) error {
	if err := conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
		return fmt.Errorf("failed to set write deadline: %w", err)
	}

	if err := conn.WriteJSON(message); err != nil {
		return fmt.Errorf("failed to send response: %w", err)
	}

	return nil
}

func errorMessage(action, text string) Message {
	return Message{Action: action, Payload: mustMarshal(ResponsePayload{Error: text})}
}

func mustMarshal(v any) json.RawMessage {
	b, err := json.Marshal(v)
	if err != nil {
		panic(err)
	}

	return b
}

var errMissingColumn = errors.New("missing column")
