package handlers

import (
	"net/http"
	"strconv"
	"sync"

	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/nimblechat/chat-viewer-api/chatstore"
	"github.com/nimblechat/chat-viewer-api/config"
	"github.com/nimblechat/chat-viewer-api/models"
)

// WebSocket upgrader
var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true // Adjust CORS as needed, e.g., check r.Header.Get("Origin")
	},
}

// FeedHub tracks websocket subscribers per room. Every message appended to
// a room is pushed to that room's subscribers, the server-side equivalent
// of the original viewer's re-render on store mutation.
type FeedHub struct {
	mu    sync.Mutex
	rooms map[int]map[*websocket.Conn]bool
}

// NewFeedHub initializes an empty hub
func NewFeedHub() *FeedHub {
	return &FeedHub{rooms: make(map[int]map[*websocket.Conn]bool)}
}

// Broadcast pushes an appended message to every subscriber of the room.
// Dead connections are dropped on write failure.
func (h *FeedHub) Broadcast(roomID int, msg models.Message) {
	h.mu.Lock()
	defer h.mu.Unlock()

	for conn := range h.rooms[roomID] {
		err := conn.WriteJSON(map[string]interface{}{
			"event": "message_appended",
			"data":  msg,
		})
		if err != nil {
			zap.S().Warnw("dropping feed subscriber", "roomId", roomID, "error", err)
			delete(h.rooms[roomID], conn)
			conn.Close()
		}
	}
}

func (h *FeedHub) add(roomID int, conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.rooms[roomID] == nil {
		h.rooms[roomID] = make(map[*websocket.Conn]bool)
	}
	h.rooms[roomID][conn] = true
}

func (h *FeedHub) remove(roomID int, conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if clients, ok := h.rooms[roomID]; ok {
		delete(clients, conn)
		if len(clients) == 0 {
			delete(h.rooms, roomID)
		}
	}
}

// Feed exported for testing purposes
type Feed struct {
	Store chatstore.ChatStore
	Hub   *FeedHub
}

// RoomFeedHandler upgrades the connection and streams the room's appended
// messages until the client goes away.
func (f Feed) RoomFeedHandler(w http.ResponseWriter, r *http.Request) {
	roomID, err := strconv.Atoi(mux.Vars(r)["room_id"])
	if err != nil {
		config.ErrorStatus("failed to parse room id", http.StatusBadRequest, w, err)
		return
	}
	if _, ok := f.Store.Room(roomID); !ok {
		config.ErrorStatus("failed to get room", http.StatusNotFound, w, &chatstore.UnknownRoomError{RoomID: roomID})
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		zap.S().Errorw("websocket upgrade failed", "error", err)
		return
	}

	f.Hub.add(roomID, conn)
	zap.S().Debugw("feed subscriber connected", "roomId", roomID)

	// reader loop keeps the connection alive and detects disconnects
	for {
		if _, _, err := conn.NextReader(); err != nil {
			f.Hub.remove(roomID, conn)
			conn.Close()
			zap.S().Debugw("feed subscriber disconnected", "roomId", roomID)
			break
		}
	}
}
