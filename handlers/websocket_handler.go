package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/websocket"

	"github.com/mediaarena/arena/brackets"
	"github.com/mediaarena/arena/services"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		// Origin filtering is handled by the CORS middleware for the REST
		// surface; spectator sockets carry no privileged operations.
		return true
	},
}

type WebSocketHandler struct {
	hub            *brackets.Hub
	sessionService services.SessionService
}

func NewWebSocketHandler(hub *brackets.Hub, ss services.SessionService) *WebSocketHandler {
	return &WebSocketHandler{hub: hub, sessionService: ss}
}

// ServeWs upgrades a spectator connection for one session. The client
// receives every view produced by subsequent votes on that session.
func (h *WebSocketHandler) ServeWs(w http.ResponseWriter, r *http.Request) {
	sessionID, err := getSessionIDFromURL(r)
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	// Reject unknown sessions before holding a socket open for them.
	if _, err := h.sessionService.CurrentView(r.Context(), sessionID); err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade already wrote the HTTP error to the client.
		slog.Warn("websocket upgrade failed",
			slog.String("session_id", sessionID), slog.Any("error", err))
		return
	}

	client := &brackets.Client{
		Hub:  h.hub,
		Conn: conn,
		Send: make(chan []byte, 256),
		Room: sessionID,
	}
	client.Hub.Register <- client

	go client.WritePump()
	go client.ReadPump()
}
