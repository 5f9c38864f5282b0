package models

// MessageKind is the closed set of message content kinds
type MessageKind string

// Message kinds. Text carries literal text in the body; the media kinds
// carry a URL or object reference.
const (
	MessageText  MessageKind = "text"
	MessageImage MessageKind = "image"
	MessageVideo MessageKind = "video"
	MessagePDF   MessageKind = "pdf"
)

// Valid reports whether k is one of the defined message kinds
func (k MessageKind) Valid() bool {
	switch k {
	case MessageText, MessageImage, MessageVideo, MessagePDF:
		return true
	}
	return false
}

// Message holds one unit of chat content. IDs for client-created messages
// are timestamp-derived and monotonically increasing within the session.
// SenderID is a soft reference: it may not resolve to a participant in the
// owning room, in which case the caller renders the Unknown User identity.
type Message struct {
	ID        int64       `json:"id"`
	Kind      MessageKind `json:"type"`
	Body      string      `json:"message"`
	SenderID  string      `json:"sender"`
	Timestamp string      `json:"timestamp"`
}

// ResolvedMessage pairs a message with its sender's display identity,
// already resolved against the room's participant list.
type ResolvedMessage struct {
	Message
	SenderName string `json:"sender_name"`
	SenderRole Role   `json:"sender_role"`
}
