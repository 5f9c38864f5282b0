package models

// ChatResult pairs a room with its message history. Messages are
// append-only for the life of the session and ordered by insertion.
// The wire field for messages is `comments`; the loader maps it to
// Messages at the boundary.
type ChatResult struct {
	Room     Room      `json:"room"`
	Messages []Message `json:"messages"`
}

// ChatData is the whole dataset, loaded wholesale from the data source.
// Room ids are unique across Results.
type ChatData struct {
	Results []ChatResult `json:"results"`
}
