package chatstore

import (
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/nimblechat/chat-viewer-api/models"
)

// State is the externally visible lifecycle state of the store
type State int

// Store states. LoadedNoSelection is only reachable when a dataset with an
// empty results sequence is loaded.
const (
	StateEmpty State = iota
	StateLoadedNoSelection
	StateLoadedSelected
)

// ChatStore owns the loaded dataset and the active room selection. It is
// the single source of truth the handlers read and write through.
type ChatStore interface {
	Load(data models.ChatData) error
	SelectRoom(roomID int)
	ActiveRoom() (models.ChatResult, bool)
	Rooms() []models.Room
	Room(roomID int) (models.ChatResult, bool)
	FindParticipant(roomID int, participantID string) (models.Participant, bool)
	AppendMessage(roomID int, msg models.Message) error
	NextMessageID() int64
	State() State
}

// Store is the in-memory ChatStore implementation. All state lives for the
// process lifetime only; there is no persistence. A single RWMutex keeps
// every operation atomic so the single-writer semantics of the original
// design hold under concurrent HTTP traffic.
type Store struct {
	mu        sync.RWMutex
	results   []models.ChatResult
	index     map[int]int // room id -> position in results
	activeID  int
	hasActive bool
	loaded    bool
	lastMsgID int64
}

// New initializes an empty store
func New() *Store {
	return &Store{index: make(map[int]int)}
}

// Load replaces any prior dataset wholesale. A nil results sequence marks a
// payload that was missing the `results` field and is rejected with
// MalformedDataError, leaving the current state untouched. When the new
// dataset is non-empty the first room becomes active; when it is empty the
// active room becomes unset.
func (s *Store) Load(data models.ChatData) error {
	if data.Results == nil {
		return &MalformedDataError{Reason: "missing results"}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.results = data.Results
	s.index = make(map[int]int, len(data.Results))
	for i, res := range data.Results {
		if _, dup := s.index[res.Room.ID]; dup {
			zap.S().Warnw("duplicate room id in dataset, keeping first occurrence", "roomId", res.Room.ID)
			continue
		}
		s.index[res.Room.ID] = i
	}
	s.loaded = true

	if len(s.results) > 0 {
		s.activeID = s.results[0].Room.ID
		s.hasActive = true
	} else {
		s.activeID = 0
		s.hasActive = false
	}
	return nil
}

// SelectRoom updates the active-room identifier. An id that matches no
// loaded room is a silent no-op, matching the query contract: selection of
// an unknown id means "no matching room", not an error.
func (s *Store) SelectRoom(roomID int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.index[roomID]; !ok {
		zap.S().Debugw("select ignored for unknown room", "roomId", roomID)
		return
	}
	s.activeID = roomID
	s.hasActive = true
}

// ActiveRoom returns the ChatResult for the current active room, or false
// when nothing is loaded, nothing is selected, or the selected id no longer
// exists in the dataset.
func (s *Store) ActiveRoom() (models.ChatResult, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.hasActive {
		return models.ChatResult{}, false
	}
	i, ok := s.index[s.activeID]
	if !ok {
		return models.ChatResult{}, false
	}
	return s.results[i], true
}

// Rooms returns every loaded room in dataset order
func (s *Store) Rooms() []models.Room {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rooms := make([]models.Room, 0, len(s.results))
	for _, res := range s.results {
		rooms = append(rooms, res.Room)
	}
	return rooms
}

// Room returns the ChatResult for the given room id
func (s *Store) Room(roomID int) (models.ChatResult, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	i, ok := s.index[roomID]
	if !ok {
		return models.ChatResult{}, false
	}
	return s.results[i], true
}

// FindParticipant resolves a participant id within the named room's list.
// Scoping is per room: the same participant id in another room does not
// match. Absence is an expected outcome, never an error; callers map it to
// the Unknown User identity at display time.
func (s *Store) FindParticipant(roomID int, participantID string) (models.Participant, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	i, ok := s.index[roomID]
	if !ok {
		return models.Participant{}, false
	}
	for _, p := range s.results[i].Room.Participants {
		if p.ID == participantID {
			return p, true
		}
	}
	return models.Participant{}, false
}

// AppendMessage appends to the end of the matching room's message sequence.
// The store does not deduplicate message ids; uniqueness within the room is
// the caller's responsibility. An unknown room id yields UnknownRoomError
// and leaves every message sequence unchanged.
func (s *Store) AppendMessage(roomID int, msg models.Message) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	i, ok := s.index[roomID]
	if !ok {
		return &UnknownRoomError{RoomID: roomID}
	}
	s.results[i].Messages = append(s.results[i].Messages, msg)
	return nil
}

// NextMessageID mints a timestamp-derived message id, bumped past the last
// issued value so ids stay strictly increasing within the session even when
// two messages land in the same millisecond.
func (s *Store) NextMessageID() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := time.Now().UnixMilli()
	if id <= s.lastMsgID {
		id = s.lastMsgID + 1
	}
	s.lastMsgID = id
	return id
}

// State reports the store lifecycle state
func (s *Store) State() State {
	s.mu.RLock()
	defer s.mu.RUnlock()

	switch {
	case !s.loaded:
		return StateEmpty
	case !s.hasActive:
		return StateLoadedNoSelection
	default:
		return StateLoadedSelected
	}
}
