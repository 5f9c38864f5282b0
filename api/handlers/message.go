package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gorilla/mux"

	"github.com/nimblechat/chat-viewer-api/chatstore"
	"github.com/nimblechat/chat-viewer-api/config"
	"github.com/nimblechat/chat-viewer-api/models"
)

// Message exported for testing purposes
type Message struct {
	Store       chatstore.ChatStore
	Attachments *chatstore.AttachmentRegistry
	Feed        *FeedHub
	BaseURL     string
}

// MessagesByRoomIDHandler returns the room's thread with every sender
// resolved to a display identity. Senders missing from the participant
// list come back as Unknown User with the Customer role.
func (m Message) MessagesByRoomIDHandler(w http.ResponseWriter, r *http.Request) {
	roomID, err := strconv.Atoi(mux.Vars(r)["room_id"])
	if err != nil {
		config.ErrorStatus("failed to parse room id", http.StatusBadRequest, w, err)
		return
	}

	res, ok := m.Store.Room(roomID)
	if !ok {
		config.ErrorStatus("failed to get room", http.StatusNotFound, w, &chatstore.UnknownRoomError{RoomID: roomID})
		return
	}

	resolved := make([]models.ResolvedMessage, 0, len(res.Messages))
	for _, msg := range res.Messages {
		sender, found := m.Store.FindParticipant(roomID, msg.SenderID)
		if !found {
			sender = models.UnknownSender(msg.SenderID)
		}
		resolved = append(resolved, models.ResolvedMessage{
			Message:    msg,
			SenderName: sender.Name,
			SenderRole: sender.Role,
		})
	}

	b, err := json.Marshal(resolved)
	if err != nil {
		config.ErrorStatus("failed to marshal response", http.StatusInternalServerError, w, err)
		return
	}
	w.WriteHeader(http.StatusOK)
	w.Write(b)
}

// CreateMessageHandler appends a composed message to the room's thread.
// Text messages carry literal text; media kinds reference an uploaded
// attachment whose object URL becomes the payload. The server assigns the
// timestamp-derived id and the timestamp.
func (m Message) CreateMessageHandler(w http.ResponseWriter, r *http.Request) {
	roomID, err := strconv.Atoi(mux.Vars(r)["room_id"])
	if err != nil {
		config.ErrorStatus("failed to parse room id", http.StatusBadRequest, w, err)
		return
	}

	var req models.NewMessageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		config.ErrorStatus("failed to decode request body", http.StatusBadRequest, w, err)
		return
	}

	kind := models.MessageKind(req.Type)
	if req.Type == "" {
		kind = models.MessageText
	}
	if !kind.Valid() {
		config.ErrorStatus("failed to validate message", http.StatusBadRequest, w, fmt.Errorf("unknown message type %q", req.Type))
		return
	}

	var body string
	switch kind {
	case models.MessageText:
		body = strings.TrimSpace(req.Message)
		if body == "" {
			config.ErrorStatus("failed to validate message", http.StatusBadRequest, w, errors.New("text message body is empty"))
			return
		}
	default:
		att, ok := m.Attachments.Get(req.AttachmentID)
		if !ok {
			config.ErrorStatus("failed to resolve attachment", http.StatusBadRequest, w, fmt.Errorf("attachment %q not found or expired", req.AttachmentID))
			return
		}
		// the stored kind wins; it was derived from the file itself
		kind = att.Kind
		body = attachmentURL(m.BaseURL, att.ID)
	}

	msg := models.Message{
		ID:        m.Store.NextMessageID(),
		Kind:      kind,
		Body:      body,
		SenderID:  req.Sender,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	}

	if err := m.Store.AppendMessage(roomID, msg); err != nil {
		var unknown *chatstore.UnknownRoomError
		if errors.As(err, &unknown) {
			config.ErrorStatus("failed to append message", http.StatusNotFound, w, err)
			return
		}
		config.ErrorStatus("failed to append message", http.StatusInternalServerError, w, err)
		return
	}

	if m.Feed != nil {
		m.Feed.Broadcast(roomID, msg)
	}

	b, err := json.Marshal(msg)
	if err != nil {
		config.ErrorStatus("failed to marshal response", http.StatusInternalServerError, w, err)
		return
	}
	w.WriteHeader(http.StatusCreated)
	w.Write(b)
}

func attachmentURL(baseURL, id string) string {
	return fmt.Sprintf("%s/api/v1/attachments/%s", strings.TrimSuffix(baseURL, "/"), id)
}
