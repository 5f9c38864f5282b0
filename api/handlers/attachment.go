package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/nimblechat/chat-viewer-api/chatstore"
	"github.com/nimblechat/chat-viewer-api/config"
	"github.com/nimblechat/chat-viewer-api/models"
)

// uploads are held in memory for the session, keep them bounded
const maxAttachmentBytes = 25 << 20

// Attachment exported for testing purposes
type Attachment struct {
	Registry *chatstore.AttachmentRegistry
	BaseURL  string
}

// UploadAttachmentHandler accepts a multipart file and mints a
// session-local object reference for it. Nothing is transferred anywhere;
// the bytes live in process memory until swept or until the session ends.
func (a Attachment) UploadAttachmentHandler(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxAttachmentBytes); err != nil {
		config.ErrorStatus("failed to parse multipart form", http.StatusBadRequest, w, err)
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		config.ErrorStatus("failed to read file field", http.StatusBadRequest, w, err)
		return
	}
	defer file.Close()

	kind, err := chatstore.KindForUpload(header.Header.Get("Content-Type"), header.Filename)
	if err != nil {
		config.ErrorStatus("failed to validate attachment", http.StatusUnsupportedMediaType, w, err)
		return
	}

	data, err := io.ReadAll(io.LimitReader(file, maxAttachmentBytes+1))
	if err != nil {
		config.ErrorStatus("failed to read attachment", http.StatusInternalServerError, w, err)
		return
	}
	if len(data) > maxAttachmentBytes {
		config.ErrorStatus("failed to store attachment", http.StatusRequestEntityTooLarge, w, errors.New("attachment exceeds size limit"))
		return
	}

	att := a.Registry.Put(kind, header.Filename, header.Header.Get("Content-Type"), data)

	b, err := json.Marshal(models.AttachmentResponse{
		ID:   att.ID,
		Kind: att.Kind,
		Name: att.Name,
		URL:  attachmentURL(a.BaseURL, att.ID),
	})
	if err != nil {
		config.ErrorStatus("failed to marshal response", http.StatusInternalServerError, w, err)
		return
	}
	w.WriteHeader(http.StatusCreated)
	w.Write(b)
}

// AttachmentByIDHandler serves the stored bytes back. A missing or swept
// reference is a local failure scoped to the one message rendering it.
func (a Attachment) AttachmentByIDHandler(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["attachment_id"]

	att, ok := a.Registry.Get(id)
	if !ok {
		config.ErrorStatus("failed to get attachment", http.StatusNotFound, w, errors.New("attachment not found or expired"))
		return
	}

	mime := att.MIME
	if mime == "" {
		mime = "application/octet-stream"
	}
	w.Header().Set("Content-Type", mime)
	w.WriteHeader(http.StatusOK)
	w.Write(att.Data)
}
