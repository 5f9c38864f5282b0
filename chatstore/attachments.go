package chatstore

import (
	"fmt"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/nimblechat/chat-viewer-api/models"
)

// Attachment is an uploaded file held only in process memory for the
// session. No real upload storage exists; the id doubles as the local
// object reference placed in media message payloads.
type Attachment struct {
	ID        string
	Kind      models.MessageKind
	Name      string
	MIME      string
	Data      []byte
	CreatedAt time.Time
}

// AttachmentRegistry holds session-local attachments keyed by id. Entries
// older than the TTL are released by the scheduler's sweep so abandoned
// uploads do not pin memory for the process lifetime. A swept attachment
// degrades to the inline failed-to-load case; the message log is never
// touched.
type AttachmentRegistry struct {
	mu   sync.RWMutex
	byID map[string]Attachment
	ttl  time.Duration
}

// NewAttachmentRegistry initializes a registry with the given entry TTL
func NewAttachmentRegistry(ttl time.Duration) *AttachmentRegistry {
	return &AttachmentRegistry{
		byID: make(map[string]Attachment),
		ttl:  ttl,
	}
}

// Put stores the file and mints its object reference
func (r *AttachmentRegistry) Put(kind models.MessageKind, name, mime string, data []byte) Attachment {
	att := Attachment{
		ID:        uuid.New().String(),
		Kind:      kind,
		Name:      name,
		MIME:      mime,
		Data:      data,
		CreatedAt: time.Now(),
	}

	r.mu.Lock()
	r.byID[att.ID] = att
	r.mu.Unlock()

	return att
}

// Get returns the attachment for the given reference id
func (r *AttachmentRegistry) Get(id string) (Attachment, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	att, ok := r.byID[id]
	return att, ok
}

// Len returns the number of live attachments
func (r *AttachmentRegistry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.byID)
}

// Sweep drops every attachment older than the TTL and returns how many
// were released.
func (r *AttachmentRegistry) Sweep(now time.Time) int {
	r.mu.Lock()
	defer r.mu.Unlock()

	removed := 0
	for id, att := range r.byID {
		if now.Sub(att.CreatedAt) > r.ttl {
			delete(r.byID, id)
			removed++
		}
	}
	if removed > 0 {
		zap.S().Infow("swept expired attachments", "removed", removed, "remaining", len(r.byID))
	}
	return removed
}

// KindForUpload maps an upload's content type and filename onto a media
// message kind using the composer's accept rules: image/*, video/*, and
// .pdf / application/pdf.
func KindForUpload(contentType, filename string) (models.MessageKind, error) {
	switch {
	case strings.HasPrefix(contentType, "image/"):
		return models.MessageImage, nil
	case strings.HasPrefix(contentType, "video/"):
		return models.MessageVideo, nil
	case contentType == "application/pdf",
		strings.EqualFold(filepath.Ext(filename), ".pdf"):
		return models.MessagePDF, nil
	}
	return "", fmt.Errorf("unsupported attachment type %q", contentType)
}
