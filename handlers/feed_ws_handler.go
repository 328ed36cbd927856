package handlers

import (
	"log/slog"
	"net/http"

	"github.com/campus-sports/intramural-portal/feed"
	"github.com/gorilla/websocket"
)

var feedUpgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		// CORS policy is enforced by the router middleware.
		return true
	},
}

// FeedWebSocketHandler upgrades authenticated clients onto the live feed
// hub; they receive every newly created post.
type FeedWebSocketHandler struct {
	hub *feed.Hub
}

func NewFeedWebSocketHandler(hub *feed.Hub) *FeedWebSocketHandler {
	return &FeedWebSocketHandler{hub: hub}
}

func (h *FeedWebSocketHandler) Subscribe(w http.ResponseWriter, r *http.Request) {
	conn, err := feedUpgrader.Upgrade(w, r, nil)
	if err != nil {
		slog.Error("failed to upgrade feed websocket", slog.Any("error", err))
		return
	}

	client := &feed.Client{
		Hub:  h.hub,
		Conn: conn,
		Send: make(chan []byte, 256),
	}
	h.hub.Register <- client

	go client.WritePump()
	go client.ReadPump()
}
