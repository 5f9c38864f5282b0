package models

// HealthCheckResponse is the response body for the health endpoint
type HealthCheckResponse struct {
	Alive bool `json:"alive"`
}

// Presentation states reported by the state endpoint. Loading covers the
// window while the startup fetch is outstanding; Errored means the fetch
// or the dataset shape failed and a manual reload is the only recovery.
const (
	StateLoading = "loading"
	StateErrored = "errored"
	StateReady   = "ready"
)

// StateResponse reports the presentation state of the viewer
type StateResponse struct {
	State string `json:"state"`
	Error string `json:"error,omitempty"`
	Rooms int    `json:"rooms"`
}

// SelectRoomRequest is the body for selecting the active room
type SelectRoomRequest struct {
	RoomID int `json:"room_id"`
}

// NewMessageRequest is the body for composing a message. Text messages
// carry the literal text in Message; attachment kinds reference a
// previously uploaded attachment by id instead.
type NewMessageRequest struct {
	Type         string `json:"type"`
	Message      string `json:"message"`
	Sender       string `json:"sender"`
	AttachmentID string `json:"attachment_id,omitempty"`
}

// ParticipantResolveResponse reports a sender lookup. Resolved false means
// the id matched nobody in the room and the placeholder identity is
// returned in its place; callers must branch on it explicitly.
type ParticipantResolveResponse struct {
	Participant Participant `json:"participant"`
	Resolved    bool        `json:"resolved"`
}

// AttachmentResponse describes the session-local object reference minted
// for an uploaded file.
type AttachmentResponse struct {
	ID   string      `json:"id"`
	Kind MessageKind `json:"type"`
	Name string      `json:"name"`
	URL  string      `json:"url"`
}
