package handlers_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nimblechat/chat-viewer-api/api/handlers"
	"github.com/nimblechat/chat-viewer-api/chatstore"
	"github.com/nimblechat/chat-viewer-api/config"
	"github.com/nimblechat/chat-viewer-api/models"
)

// dataSource is a switchable fake of the startup data endpoint
type dataSource struct {
	mu      sync.Mutex
	payload string
}

func (d *dataSource) set(payload string) {
	d.mu.Lock()
	d.payload = payload
	d.mu.Unlock()
}

func (d *dataSource) handler(w http.ResponseWriter, r *http.Request) {
	d.mu.Lock()
	defer d.mu.Unlock()
	w.Header().Set("Content-Type", "application/json")
	w.Write([]byte(d.payload))
}

const e2eDataset = `{
	"results": [
		{
			"room": {
				"id": 1,
				"name": "General",
				"image_url": "",
				"participant": [{"id": "a", "name": "Alice", "role": 0}]
			},
			"comments": []
		}
	]
}`

func newTestApp(t *testing.T, source *dataSource) *handlers.App {
	t.Helper()

	ts := httptest.NewServer(http.HandlerFunc(source.handler))
	t.Cleanup(ts.Close)

	a := &handlers.App{}
	a.Config = config.Config{
		DataURL:       ts.URL,
		Port:          "0",
		AttachmentTTL: time.Minute,
	}
	require.NoError(t, a.Initialize())
	t.Cleanup(a.Janitor.Stop)
	return a
}

func TestHealthCheckHandler(t *testing.T) {
	source := &dataSource{payload: e2eDataset}
	a := newTestApp(t, source)

	req := httptest.NewRequest("GET", "/health", nil)
	rr := httptest.NewRecorder()
	a.Router.ServeHTTP(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"alive": true}`, rr.Body.String())
}

func TestApp_InitializeWithoutDataURL(t *testing.T) {
	a := &handlers.App{}
	a.Config = config.Config{Port: "0"}

	assert.Error(t, a.Initialize())
}

func TestApp_EndToEndComposeFlow(t *testing.T) {
	source := &dataSource{payload: e2eDataset}
	a := newTestApp(t, source)

	// dataset loads and the first room becomes active
	req := httptest.NewRequest("GET", "/api/v1/rooms/active", nil)
	rr := httptest.NewRecorder()
	a.Router.ServeHTTP(rr, req)
	require.Equal(t, http.StatusOK, rr.Code)

	var active models.ChatResult
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &active))
	assert.Equal(t, "General", active.Room.Name)
	assert.Empty(t, active.Messages)

	// compose a text message into room 1
	body, _ := json.Marshal(models.NewMessageRequest{Type: "text", Message: "hi", Sender: "a"})
	req = httptest.NewRequest("POST", "/api/v1/rooms/1/messages", bytes.NewReader(body))
	rr = httptest.NewRecorder()
	a.Router.ServeHTTP(rr, req)
	require.Equal(t, http.StatusCreated, rr.Code)

	// the thread now holds exactly that message, resolved to Alice
	req = httptest.NewRequest("GET", "/api/v1/rooms/1/messages", nil)
	rr = httptest.NewRecorder()
	a.Router.ServeHTTP(rr, req)
	require.Equal(t, http.StatusOK, rr.Code)

	var resolved []models.ResolvedMessage
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resolved))
	require.Len(t, resolved, 1)
	assert.Equal(t, "hi", resolved[0].Body)
	assert.Equal(t, "Alice", resolved[0].SenderName)

	// presentation state is ready
	req = httptest.NewRequest("GET", "/api/v1/state", nil)
	rr = httptest.NewRecorder()
	a.Router.ServeHTTP(rr, req)
	require.Equal(t, http.StatusOK, rr.Code)

	var state models.StateResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &state))
	assert.Equal(t, models.StateReady, state.State)
	assert.Equal(t, 1, state.Rooms)
}

func TestApp_MalformedDatasetLeavesStoreEmpty(t *testing.T) {
	source := &dataSource{payload: `{}`}
	a := newTestApp(t, source)

	assert.Equal(t, chatstore.StateEmpty, a.Store.State())

	req := httptest.NewRequest("GET", "/api/v1/state", nil)
	rr := httptest.NewRecorder()
	a.Router.ServeHTTP(rr, req)
	require.Equal(t, http.StatusOK, rr.Code)

	var state models.StateResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &state))
	assert.Equal(t, models.StateErrored, state.State)
	assert.Contains(t, state.Error, "malformed chat data")
	assert.Zero(t, state.Rooms)

	// the room list degrades to empty rather than failing
	req = httptest.NewRequest("GET", "/api/v1/rooms", nil)
	rr = httptest.NewRecorder()
	a.Router.ServeHTTP(rr, req)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `[]`, rr.Body.String())
}

func TestApp_ManualReloadRecovers(t *testing.T) {
	source := &dataSource{payload: `{}`}
	a := newTestApp(t, source)
	require.Equal(t, chatstore.StateEmpty, a.Store.State())

	// a failed reload reports the upstream error
	req := httptest.NewRequest("POST", "/api/v1/reload", nil)
	rr := httptest.NewRecorder()
	a.Router.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusBadGateway, rr.Code)

	// once the source is fixed, reload is the recovery path
	source.set(e2eDataset)
	req = httptest.NewRequest("POST", "/api/v1/reload", nil)
	rr = httptest.NewRecorder()
	a.Router.ServeHTTP(rr, req)
	require.Equal(t, http.StatusOK, rr.Code)

	var state models.StateResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &state))
	assert.Equal(t, models.StateReady, state.State)
	assert.Equal(t, 1, state.Rooms)
	assert.Equal(t, chatstore.StateLoadedSelected, a.Store.State())
}
