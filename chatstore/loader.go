package chatstore

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/nimblechat/chat-viewer-api/models"
)

// wireResult is the dataset element as it appears on the wire. The message
// list is named `comments` there; it becomes Messages in the domain model.
type wireResult struct {
	Room     models.Room      `json:"room"`
	Comments []models.Message `json:"comments"`
}

type wireData struct {
	Results []wireResult `json:"results"`
}

// Loader performs the one-shot dataset fetch issued at startup. The same
// loader is reused by the manual reload endpoint, which re-runs the startup
// sequence wholesale.
type Loader struct {
	URL    string
	Client *http.Client
}

// NewLoader returns a loader for the given source. http(s) URLs are
// fetched; anything else is treated as a local file path.
func NewLoader(url string) *Loader {
	return &Loader{
		URL:    url,
		Client: &http.Client{Timeout: 30 * time.Second},
	}
}

// Fetch retrieves and decodes the dataset. Shape validation is top-level
// only: `results` must be present and be a sequence, possibly empty; the
// elements inside are trusted. Shape failures come back as
// MalformedDataError, transport failures as plain errors.
func (l *Loader) Fetch(ctx context.Context) (models.ChatData, error) {
	raw, err := l.read(ctx)
	if err != nil {
		return models.ChatData{}, err
	}

	var wire wireData
	if err := json.Unmarshal(raw, &wire); err != nil {
		return models.ChatData{}, &MalformedDataError{Reason: err.Error()}
	}
	if wire.Results == nil {
		return models.ChatData{}, &MalformedDataError{Reason: "missing results"}
	}

	data := models.ChatData{Results: make([]models.ChatResult, 0, len(wire.Results))}
	for _, res := range wire.Results {
		messages := res.Comments
		if messages == nil {
			messages = []models.Message{}
		}
		data.Results = append(data.Results, models.ChatResult{
			Room:     res.Room,
			Messages: messages,
		})
	}

	zap.S().Infow("chat dataset fetched",
		"source", l.URL,
		"rooms", len(data.Results),
	)
	return data, nil
}

func (l *Loader) read(ctx context.Context) ([]byte, error) {
	if !strings.HasPrefix(l.URL, "http://") && !strings.HasPrefix(l.URL, "https://") {
		return os.ReadFile(l.URL)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, l.URL, nil)
	if err != nil {
		return nil, err
	}
	resp, err := l.Client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("data source returned status %d", resp.StatusCode)
	}
	return io.ReadAll(resp.Body)
}
