package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"github.com/nimblechat/chat-viewer-api/api"
	"github.com/nimblechat/chat-viewer-api/api/scheduler"
	"github.com/nimblechat/chat-viewer-api/chatstore"
	"github.com/nimblechat/chat-viewer-api/config"
	"github.com/nimblechat/chat-viewer-api/models"
)

// App stores the router, store and config, so it can be reused
type App struct {
	Router      *mux.Router
	Store       chatstore.ChatStore
	Config      config.Config
	Loader      *chatstore.Loader
	Attachments *chatstore.AttachmentRegistry
	Feed        *FeedHub
	Janitor     *scheduler.Scheduler

	stateMu sync.RWMutex
	state   string
	loadErr error
}

// New creates a new mux router and all the routes
func (a *App) New() *mux.Router {
	r := mux.NewRouter()
	r.Use(api.LoggingMiddleware)

	rm := Room{Store: a.Store}
	m := Message{Store: a.Store, Attachments: a.Attachments, Feed: a.Feed, BaseURL: a.Config.BaseURL}
	p := Participant{Store: a.Store}
	att := Attachment{Registry: a.Attachments, BaseURL: a.Config.BaseURL}
	feed := Feed{Store: a.Store, Hub: a.Feed}

	// healthchex
	r.HandleFunc("/health", healthCheckHandler)

	apiCreate := r.PathPrefix("/api/v1").Subrouter()
	apiCreate.Use(api.TimeoutMiddleware(15 * time.Second))

	apiCreate.Handle("/state", http.HandlerFunc(a.StateHandler)).Methods("GET")
	apiCreate.Handle("/reload", http.HandlerFunc(a.ReloadHandler)).Methods("POST")

	// the literal "active" segment must be registered before {room_id}
	apiCreate.Handle("/rooms/active", http.HandlerFunc(rm.ActiveRoomHandler)).Methods("GET")
	apiCreate.Handle("/rooms/active", http.HandlerFunc(rm.SelectRoomHandler)).Methods("PUT")
	apiCreate.Handle("/rooms", http.HandlerFunc(rm.RoomListHandler)).Methods("GET")
	apiCreate.Handle("/rooms/{room_id}", http.HandlerFunc(rm.RoomByIDHandler)).Methods("GET")

	apiCreate.Handle("/rooms/{room_id}/participants", http.HandlerFunc(p.ParticipantsByRoomIDHandler)).Methods("GET")
	apiCreate.Handle("/rooms/{room_id}/participants/{participant_id}", http.HandlerFunc(p.ParticipantByIDHandler)).Methods("GET")

	apiCreate.Handle("/rooms/{room_id}/messages", http.HandlerFunc(m.MessagesByRoomIDHandler)).Methods("GET")
	apiCreate.Handle("/rooms/{room_id}/messages", http.HandlerFunc(m.CreateMessageHandler)).Methods("POST")

	apiCreate.Handle("/attachments", http.HandlerFunc(att.UploadAttachmentHandler)).Methods("POST")
	apiCreate.Handle("/attachments/{attachment_id}", http.HandlerFunc(att.AttachmentByIDHandler)).Methods("GET")

	r.Handle("/ws/rooms/{room_id}", http.HandlerFunc(feed.RoomFeedHandler)).Methods("GET")

	return r
}

// Initialize is invoked by main to build the store, fetch the dataset and
// create a router. A failed dataset fetch is not fatal: the server comes up
// in the errored presentation state and a manual reload is the recovery
// path, so only broken configuration returns an error here.
func (a *App) Initialize() error {
	if a.Config.DataURL == "" {
		return fmt.Errorf("CHAT_DATA_URL is not set")
	}

	a.Store = chatstore.New()
	a.Loader = chatstore.NewLoader(a.Config.DataURL)
	a.Attachments = chatstore.NewAttachmentRegistry(a.Config.AttachmentTTL)
	a.Feed = NewFeedHub()
	a.state = models.StateLoading

	a.Janitor = scheduler.NewScheduler(a.Attachments)
	a.Janitor.Start()

	if err := a.Reload(context.Background()); err != nil {
		zap.S().With(err).Error("startup dataset fetch failed, serving errored state")
	} else {
		zap.S().Info("chat-viewer-api has loaded the chat dataset")
	}

	a.initializeRoutes()
	return nil
}

// Reload re-runs the startup sequence: fetch, validate, replace wholesale.
// On failure the previous dataset is kept but the presentation state flips
// to errored.
func (a *App) Reload(ctx context.Context) error {
	a.setState(models.StateLoading, nil)

	data, err := a.Loader.Fetch(ctx)
	if err == nil {
		err = a.Store.Load(data)
	}
	if err != nil {
		a.setState(models.StateErrored, err)
		return err
	}
	a.setState(models.StateReady, nil)
	return nil
}

// StateHandler reports the presentation state of the viewer
func (a *App) StateHandler(w http.ResponseWriter, r *http.Request) {
	state, loadErr := a.presentationState()
	resp := models.StateResponse{
		State: state,
		Rooms: len(a.Store.Rooms()),
	}
	if loadErr != nil {
		resp.Error = loadErr.Error()
	}

	b, err := json.Marshal(resp)
	if err != nil {
		config.ErrorStatus("failed to marshal response", http.StatusInternalServerError, w, err)
		return
	}
	w.WriteHeader(http.StatusOK)
	w.Write(b)
}

// ReloadHandler triggers a full manual reload of the dataset
func (a *App) ReloadHandler(w http.ResponseWriter, r *http.Request) {
	if err := a.Reload(r.Context()); err != nil {
		config.ErrorStatus("failed to reload chat data", http.StatusBadGateway, w, err)
		return
	}
	a.StateHandler(w, r)
}

func (a *App) setState(state string, err error) {
	a.stateMu.Lock()
	a.state = state
	a.loadErr = err
	a.stateMu.Unlock()
}

func (a *App) presentationState() (string, error) {
	a.stateMu.RLock()
	defer a.stateMu.RUnlock()
	return a.state, a.loadErr
}

func (a *App) initializeRoutes() {
	a.Router = a.New()
}

func healthCheckHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	b, _ := json.Marshal(models.HealthCheckResponse{
		Alive: true,
	})
	_, _ = io.WriteString(w, string(b))
}
