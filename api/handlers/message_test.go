package handlers_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nimblechat/chat-viewer-api/api/handlers"
	"github.com/nimblechat/chat-viewer-api/chatstore"
	"github.com/nimblechat/chat-viewer-api/models"
)

func TestMessage_MessagesByRoomIDHandlerResolvesSenders(t *testing.T) {
	store := loadedStore(t)
	m := handlers.Message{Store: store, Attachments: chatstore.NewAttachmentRegistry(time.Minute)}

	req := httptest.NewRequest("GET", "/api/v1/rooms/1/messages", nil)
	req = mux.SetURLVars(req, map[string]string{"room_id": "1"})
	rr := httptest.NewRecorder()
	http.HandlerFunc(m.MessagesByRoomIDHandler).ServeHTTP(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)

	var resolved []models.ResolvedMessage
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resolved))
	require.Len(t, resolved, 2)

	assert.Equal(t, "Alice", resolved[0].SenderName)
	assert.Equal(t, models.RoleAdmin, resolved[0].SenderRole)

	// the ghost sender falls back to the placeholder identity
	assert.Equal(t, "Unknown User", resolved[1].SenderName)
	assert.Equal(t, models.RoleCustomer, resolved[1].SenderRole)
}

func TestMessage_MessagesByRoomIDHandlerUnknownRoom(t *testing.T) {
	m := handlers.Message{Store: loadedStore(t), Attachments: chatstore.NewAttachmentRegistry(time.Minute)}

	req := httptest.NewRequest("GET", "/api/v1/rooms/404/messages", nil)
	req = mux.SetURLVars(req, map[string]string{"room_id": "404"})
	rr := httptest.NewRecorder()
	http.HandlerFunc(m.MessagesByRoomIDHandler).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestMessage_CreateMessageHandlerText(t *testing.T) {
	store := loadedStore(t)
	m := handlers.Message{Store: store, Attachments: chatstore.NewAttachmentRegistry(time.Minute)}

	body, _ := json.Marshal(models.NewMessageRequest{Type: "text", Message: "hi there", Sender: "b"})
	req := httptest.NewRequest("POST", "/api/v1/rooms/1/messages", bytes.NewReader(body))
	req = mux.SetURLVars(req, map[string]string{"room_id": "1"})
	rr := httptest.NewRecorder()
	http.HandlerFunc(m.CreateMessageHandler).ServeHTTP(rr, req)

	require.Equal(t, http.StatusCreated, rr.Code)

	var msg models.Message
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &msg))
	assert.Equal(t, models.MessageText, msg.Kind)
	assert.Equal(t, "hi there", msg.Body)
	assert.Equal(t, "b", msg.SenderID)
	assert.NotZero(t, msg.ID)
	assert.NotEmpty(t, msg.Timestamp)

	res, _ := store.Room(1)
	require.Len(t, res.Messages, 3)
	assert.Equal(t, msg.ID, res.Messages[2].ID, "new message is appended last")

	other, _ := store.Room(2)
	assert.Empty(t, other.Messages)
}

func TestMessage_CreateMessageHandlerBlankText(t *testing.T) {
	m := handlers.Message{Store: loadedStore(t), Attachments: chatstore.NewAttachmentRegistry(time.Minute)}

	body, _ := json.Marshal(models.NewMessageRequest{Type: "text", Message: "   ", Sender: "b"})
	req := httptest.NewRequest("POST", "/api/v1/rooms/1/messages", bytes.NewReader(body))
	req = mux.SetURLVars(req, map[string]string{"room_id": "1"})
	rr := httptest.NewRecorder()
	http.HandlerFunc(m.CreateMessageHandler).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestMessage_CreateMessageHandlerUnknownRoom(t *testing.T) {
	store := loadedStore(t)
	m := handlers.Message{Store: store, Attachments: chatstore.NewAttachmentRegistry(time.Minute)}

	body, _ := json.Marshal(models.NewMessageRequest{Type: "text", Message: "hi", Sender: "b"})
	req := httptest.NewRequest("POST", "/api/v1/rooms/404/messages", bytes.NewReader(body))
	req = mux.SetURLVars(req, map[string]string{"room_id": "404"})
	rr := httptest.NewRecorder()
	http.HandlerFunc(m.CreateMessageHandler).ServeHTTP(rr, req)

	require.Equal(t, http.StatusNotFound, rr.Code)

	expected := models.ErrorMessageResponse{Response: models.MessageError{Message: "failed to append message", Error: "unknown room id 404"}}
	b, _ := json.Marshal(expected)
	assert.Equal(t, string(b), rr.Body.String())

	res, _ := store.Room(1)
	assert.Len(t, res.Messages, 2, "no room may be modified")
}

func TestMessage_CreateMessageHandlerUnknownKind(t *testing.T) {
	m := handlers.Message{Store: loadedStore(t), Attachments: chatstore.NewAttachmentRegistry(time.Minute)}

	body, _ := json.Marshal(models.NewMessageRequest{Type: "sticker", Message: "x", Sender: "b"})
	req := httptest.NewRequest("POST", "/api/v1/rooms/1/messages", bytes.NewReader(body))
	req = mux.SetURLVars(req, map[string]string{"room_id": "1"})
	rr := httptest.NewRecorder()
	http.HandlerFunc(m.CreateMessageHandler).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestMessage_CreateMessageHandlerAttachment(t *testing.T) {
	store := loadedStore(t)
	registry := chatstore.NewAttachmentRegistry(time.Minute)
	att := registry.Put(models.MessageImage, "cat.png", "image/png", []byte("png"))

	m := handlers.Message{Store: store, Attachments: registry, BaseURL: "http://localhost:8080"}

	body, _ := json.Marshal(models.NewMessageRequest{Type: "image", Sender: "a", AttachmentID: att.ID})
	req := httptest.NewRequest("POST", "/api/v1/rooms/1/messages", bytes.NewReader(body))
	req = mux.SetURLVars(req, map[string]string{"room_id": "1"})
	rr := httptest.NewRecorder()
	http.HandlerFunc(m.CreateMessageHandler).ServeHTTP(rr, req)

	require.Equal(t, http.StatusCreated, rr.Code)

	var msg models.Message
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &msg))
	assert.Equal(t, models.MessageImage, msg.Kind)
	assert.Equal(t, "http://localhost:8080/api/v1/attachments/"+att.ID, msg.Body)
}

func TestMessage_CreateMessageHandlerMissingAttachment(t *testing.T) {
	m := handlers.Message{Store: loadedStore(t), Attachments: chatstore.NewAttachmentRegistry(time.Minute)}

	body, _ := json.Marshal(models.NewMessageRequest{Type: "pdf", Sender: "a", AttachmentID: "gone"})
	req := httptest.NewRequest("POST", "/api/v1/rooms/1/messages", bytes.NewReader(body))
	req = mux.SetURLVars(req, map[string]string{"room_id": "1"})
	rr := httptest.NewRecorder()
	http.HandlerFunc(m.CreateMessageHandler).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
}
