package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"github.com/nimblechat/chat-viewer-api/chatstore"
	"github.com/nimblechat/chat-viewer-api/config"
	"github.com/nimblechat/chat-viewer-api/models"
)

// Room exported for testing purposes
type Room struct {
	Store chatstore.ChatStore
}

// RoomListHandler returns all loaded rooms in dataset order
func (rm Room) RoomListHandler(w http.ResponseWriter, r *http.Request) {
	rooms := rm.Store.Rooms()
	// the frontend expects an array even when nothing is loaded
	if len(rooms) == 0 {
		rooms = []models.Room{}
	}

	b, err := json.Marshal(rooms)
	if err != nil {
		config.ErrorStatus("failed to marshal response", http.StatusInternalServerError, w, err)
		return
	}
	w.WriteHeader(http.StatusOK)
	w.Write(b)
}

// RoomByIDHandler returns one room together with its message history
func (rm Room) RoomByIDHandler(w http.ResponseWriter, r *http.Request) {
	roomID, err := strconv.Atoi(mux.Vars(r)["room_id"])
	if err != nil {
		config.ErrorStatus("failed to parse room id", http.StatusBadRequest, w, err)
		return
	}

	zap.S().Debugf("room_id: %v", roomID)

	res, ok := rm.Store.Room(roomID)
	if !ok {
		config.ErrorStatus("failed to get room", http.StatusNotFound, w, &chatstore.UnknownRoomError{RoomID: roomID})
		return
	}

	b, err := json.Marshal(res)
	if err != nil {
		config.ErrorStatus("failed to marshal response", http.StatusInternalServerError, w, err)
		return
	}
	w.WriteHeader(http.StatusOK)
	w.Write(b)
}

// ActiveRoomHandler returns the active room's ChatResult, or 204 when no
// room is loaded or selected.
func (rm Room) ActiveRoomHandler(w http.ResponseWriter, r *http.Request) {
	res, ok := rm.Store.ActiveRoom()
	if !ok {
		w.WriteHeader(http.StatusNoContent)
		return
	}

	b, err := json.Marshal(res)
	if err != nil {
		config.ErrorStatus("failed to marshal response", http.StatusInternalServerError, w, err)
		return
	}
	w.WriteHeader(http.StatusOK)
	w.Write(b)
}

// SelectRoomHandler updates the active room. Selecting an id that matches
// no loaded room is a no-op, not an error; the response always reflects the
// selection after the call.
func (rm Room) SelectRoomHandler(w http.ResponseWriter, r *http.Request) {
	var req models.SelectRoomRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		config.ErrorStatus("failed to decode request body", http.StatusBadRequest, w, err)
		return
	}

	rm.Store.SelectRoom(req.RoomID)
	rm.ActiveRoomHandler(w, r)
}
