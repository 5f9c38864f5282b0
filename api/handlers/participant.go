package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/nimblechat/chat-viewer-api/chatstore"
	"github.com/nimblechat/chat-viewer-api/config"
	"github.com/nimblechat/chat-viewer-api/models"
)

// Participant exported for testing purposes
type Participant struct {
	Store chatstore.ChatStore
}

// ParticipantsByRoomIDHandler returns the room's member list in display order
func (p Participant) ParticipantsByRoomIDHandler(w http.ResponseWriter, r *http.Request) {
	roomID, err := strconv.Atoi(mux.Vars(r)["room_id"])
	if err != nil {
		config.ErrorStatus("failed to parse room id", http.StatusBadRequest, w, err)
		return
	}

	res, ok := p.Store.Room(roomID)
	if !ok {
		config.ErrorStatus("failed to get room", http.StatusNotFound, w, &chatstore.UnknownRoomError{RoomID: roomID})
		return
	}

	participants := res.Room.Participants
	if len(participants) == 0 {
		participants = []models.Participant{}
	}

	b, err := json.Marshal(participants)
	if err != nil {
		config.ErrorStatus("failed to marshal response", http.StatusInternalServerError, w, err)
		return
	}
	w.WriteHeader(http.StatusOK)
	w.Write(b)
}

// ParticipantByIDHandler resolves a sender id within a room. The lookup
// result is explicit: an unresolved id is not an error, it returns the
// Unknown User placeholder with resolved set to false.
func (p Participant) ParticipantByIDHandler(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	roomID, err := strconv.Atoi(vars["room_id"])
	if err != nil {
		config.ErrorStatus("failed to parse room id", http.StatusBadRequest, w, err)
		return
	}
	participantID := vars["participant_id"]

	if _, ok := p.Store.Room(roomID); !ok {
		config.ErrorStatus("failed to get room", http.StatusNotFound, w, &chatstore.UnknownRoomError{RoomID: roomID})
		return
	}

	resp := models.ParticipantResolveResponse{}
	if found, ok := p.Store.FindParticipant(roomID, participantID); ok {
		resp.Participant = found
		resp.Resolved = true
	} else {
		resp.Participant = models.UnknownSender(participantID)
	}

	b, err := json.Marshal(resp)
	if err != nil {
		config.ErrorStatus("failed to marshal response", http.StatusInternalServerError, w, err)
		return
	}
	w.WriteHeader(http.StatusOK)
	w.Write(b)
}
