package models

// Room holds the structure for a chat room as delivered by the data source.
// The participant list order is display order. The singular `participant`
// json key matches the wire format and is kept on the way back out so the
// existing frontend can consume responses unchanged.
type Room struct {
	ID           int           `json:"id"`
	Name         string        `json:"name"`
	ImageURL     string        `json:"image_url"`
	Participants []Participant `json:"participant"`
}
